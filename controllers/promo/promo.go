package promoControllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/tarlansoltanov/api.dentalshop.az/middleware"
	"github.com/tarlansoltanov/api.dentalshop.az/models"
)

type PromoInput struct {
	Code     string `json:"code" binding:"required"`
	Discount uint   `json:"discount" binding:"required,max=100"`
	Start    string `json:"start" binding:"required"`
	End      string `json:"end" binding:"required"`
}

const dateLayout = "2006-01-02"

func (in *PromoInput) apply(p *models.Promo) error {
	start, err := time.Parse(dateLayout, in.Start)
	if err != nil {
		return err
	}
	end, err := time.Parse(dateLayout, in.End)
	if err != nil {
		return err
	}

	p.Code = in.Code
	p.Discount = in.Discount
	p.Start = start
	p.End = end
	return nil
}

// GET /promo/validate?code= — resolves a code to its discount without
// spending it. The personal code wins over promos; invalid, expired and
// already-used codes are a 404 so the storefront can tell the user.
func ValidatePromo(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := middleware.UserID(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}

		code := c.Query("code")
		if code == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Code is required"})
			return
		}

		var user models.User
		if err := db.First(&user, userID).Error; err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "User not found"})
			return
		}

		if user.Code != "" && code == user.Code {
			c.JSON(http.StatusOK, gin.H{"discount": user.Discount})
			return
		}

		var promo models.Promo
		if err := db.Where("code = ?", code).First(&promo).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Code is invalid"})
			return
		}

		var used int64
		db.Model(&models.PromoUsage{}).
			Where("promo_id = ? AND user_id = ?", promo.ID, userID).
			Count(&used)

		if !promo.IsValid(time.Now()) || used > 0 {
			c.JSON(http.StatusNotFound, gin.H{"error": "Code is invalid"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"discount": promo.Discount})
	}
}

// GET /admin/promo
func GetPromos(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var promos []models.Promo
		if err := db.Order("created_at DESC").Find(&promos).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, promos)
	}
}

// POST /admin/promo
func CreatePromo(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input PromoInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		var promo models.Promo
		if err := input.apply(&promo); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid date format. Format: 2006-01-02"})
			return
		}

		if err := db.Create(&promo).Error; err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Promo code already exists"})
			return
		}

		c.JSON(http.StatusCreated, promo)
	}
}

// PUT /admin/promo/:id
func UpdatePromo(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var promo models.Promo
		if err := db.First(&promo, "id = ?", c.Param("id")).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Promo not found"})
			return
		}

		var input PromoInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		if err := input.apply(&promo); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid date format. Format: 2006-01-02"})
			return
		}

		if err := db.Save(&promo).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update promo"})
			return
		}

		c.JSON(http.StatusOK, promo)
	}
}

// DELETE /admin/promo/:id
func DeletePromo(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		result := db.Delete(&models.Promo{}, "id = ?", c.Param("id"))
		if result.Error != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete promo"})
			return
		}
		if result.RowsAffected == 0 {
			c.JSON(http.StatusNotFound, gin.H{"error": "Promo not found"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Promo deleted successfully"})
	}
}
