// Package freezoneControllers manages user-submitted marketplace
// listings. New listings wait in PENDING until an admin verifies or
// rejects them; only VERIFIED listings are public.
package freezoneControllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/tarlansoltanov/api.dentalshop.az/middleware"
	"github.com/tarlansoltanov/api.dentalshop.az/models"
)

type FreezoneItemInput struct {
	Title       string  `json:"title" binding:"required"`
	Image       string  `json:"image"`
	Price       float64 `json:"price" binding:"min=0"`
	Address     string  `json:"address"`
	Description string  `json:"description"`
}

// GET /freezone
func GetItems(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var items []models.FreezoneItem
		if err := db.Where("status = ?", models.FreezoneStatusVerified).
			Order("created_at DESC").
			Find(&items).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, items)
	}
}

// GET /freezone/my
func GetOwnItems(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := middleware.UserID(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}

		var items []models.FreezoneItem
		if err := db.Where("user_id = ?", userID).
			Order("created_at DESC").
			Find(&items).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, items)
	}
}

// POST /freezone
func CreateItem(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := middleware.UserID(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}

		var input FreezoneItemInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		item := models.FreezoneItem{
			Title:       input.Title,
			UserID:      userID,
			Image:       input.Image,
			Price:       input.Price,
			Address:     input.Address,
			Description: input.Description,
			Status:      models.FreezoneStatusPending,
		}
		if err := db.Create(&item).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create listing"})
			return
		}

		c.JSON(http.StatusCreated, item)
	}
}

// PUT /freezone/:id — owner only; edits reset the item to PENDING.
func UpdateItem(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := middleware.UserID(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}

		var item models.FreezoneItem
		if err := db.Where("id = ? AND user_id = ?", c.Param("id"), userID).First(&item).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Listing not found"})
			return
		}

		var input FreezoneItemInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		item.Title = input.Title
		item.Image = input.Image
		item.Price = input.Price
		item.Address = input.Address
		item.Description = input.Description
		item.Status = models.FreezoneStatusPending

		if err := db.Save(&item).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update listing"})
			return
		}

		c.JSON(http.StatusOK, item)
	}
}

// DELETE /freezone/:id — owner only.
func DeleteItem(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := middleware.UserID(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}

		result := db.Where("id = ? AND user_id = ?", c.Param("id"), userID).Delete(&models.FreezoneItem{})
		if result.Error != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete listing"})
			return
		}
		if result.RowsAffected == 0 {
			c.JSON(http.StatusNotFound, gin.H{"error": "Listing not found"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"message": "Listing deleted successfully"})
	}
}

// GET /admin/freezone/pending
func GetPendingItems(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var items []models.FreezoneItem
		if err := db.Where("status = ?", models.FreezoneStatusPending).
			Order("created_at ASC").
			Find(&items).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, items)
	}
}

func setItemStatus(db *gorm.DB, c *gin.Context, status models.FreezoneStatus, message string) {
	var item models.FreezoneItem
	if err := db.First(&item, "id = ?", c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Listing not found"})
		return
	}

	item.Status = status
	if err := db.Save(&item).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update listing"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": message})
}

// POST /admin/freezone/:id/verify
func VerifyItem(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		setItemStatus(db, c, models.FreezoneStatusVerified, "Listing verified")
	}
}

// POST /admin/freezone/:id/reject
func RejectItem(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		setItemStatus(db, c, models.FreezoneStatusRejected, "Listing rejected")
	}
}
