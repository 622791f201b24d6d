package productControllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/tarlansoltanov/api.dentalshop.az/models"
)

type ProductInput struct {
	Code            string  `json:"code"`
	Name            string  `json:"name" binding:"required"`
	BrandID         uint    `json:"brand_id" binding:"required"`
	CategoryID      uint    `json:"category_id" binding:"required"`
	Price           float64 `json:"price" binding:"required,gt=0"`
	Discount        uint    `json:"discount" binding:"max=100"`
	DiscountEndDate string  `json:"discount_end_date"`
	Quantity        uint    `json:"quantity"`
	IsNew           bool    `json:"is_new"`
	InStock         bool    `json:"in_stock"`
	IsDistributer   bool    `json:"is_distributer"`
	MainNote        string  `json:"main_note"`
	Description     string  `json:"description"`
	Images          []string `json:"images"`
}

func (in *ProductInput) apply(p *models.Product) error {
	p.Code = in.Code
	p.Name = in.Name
	p.BrandID = in.BrandID
	p.CategoryID = in.CategoryID
	p.Price = in.Price
	p.Discount = in.Discount
	p.Quantity = in.Quantity
	p.IsNew = in.IsNew
	p.InStock = in.InStock
	p.IsDistributer = in.IsDistributer
	p.MainNote = in.MainNote
	p.Description = in.Description

	p.DiscountEndDate = nil
	if in.DiscountEndDate != "" {
		endDate, err := time.Parse("2006-01-02", in.DiscountEndDate)
		if err != nil {
			return err
		}
		p.DiscountEndDate = &endDate
	}

	p.Images = nil
	for _, image := range in.Images {
		p.Images = append(p.Images, models.ProductImage{Image: image})
	}

	return nil
}

// applyFilters narrows the product queryset from query parameters,
// mirroring the storefront's search and filter options.
func applyFilters(c *gin.Context, query *gorm.DB) *gorm.DB {
	if name := c.Query("name"); name != "" {
		query = query.Where("LOWER(products.name) LIKE LOWER(?)", "%"+name+"%")
	}
	if code := c.Query("code"); code != "" {
		query = query.Where("LOWER(products.code) LIKE LOWER(?)", "%"+code+"%")
	}
	if brand := c.Query("brand"); brand != "" {
		query = query.Joins("JOIN brands ON brands.id = products.brand_id").
			Where("brands.slug = ?", brand)
	}
	if category := c.Query("category"); category != "" {
		query = query.Joins("JOIN categories ON categories.id = products.category_id").
			Where("categories.slug = ? OR categories.parent_id IN (SELECT id FROM categories WHERE slug = ?)", category, category)
	}
	if minPrice := c.Query("min_price"); minPrice != "" {
		query = query.Where("products.price >= ?", minPrice)
	}
	if maxPrice := c.Query("max_price"); maxPrice != "" {
		query = query.Where("products.price <= ?", maxPrice)
	}
	if c.Query("discount") == "true" {
		query = query.Where("products.discount > 0 AND (products.discount_end_date IS NULL OR products.discount_end_date >= ?)", time.Now())
	}
	if c.Query("is_new") == "true" {
		query = query.Where("products.is_new")
	}
	if c.Query("in_stock") == "true" {
		query = query.Where("products.in_stock")
	}
	if c.Query("is_distributer") == "true" {
		query = query.Where("products.is_distributer")
	}
	if c.Query("only_stock") == "true" {
		query = query.Where("products.quantity > 0")
	}
	return query
}

// GET /products
func GetProducts(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		query := applyFilters(c, db.Model(&models.Product{})).
			Preload("Brand").Preload("Category").Preload("Images").
			Order("products.created_at DESC")

		var products []models.Product
		if err := query.Find(&products).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}

		c.JSON(http.StatusOK, products)
	}
}

// GET /products/:slug
func GetProductBySlug(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var product models.Product
		if err := db.Preload("Brand").Preload("Category").Preload("Images").
			Where("slug = ?", c.Param("slug")).
			First(&product).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
			return
		}

		c.JSON(http.StatusOK, product)
	}
}

// POST /admin/products
func CreateProduct(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input ProductInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		var product models.Product
		if err := input.apply(&product); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid discount_end_date format. Format: 2006-01-02"})
			return
		}

		if err := db.Create(&product).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create product"})
			return
		}

		c.JSON(http.StatusCreated, product)
	}
}

// PUT /admin/products/:id
func UpdateProduct(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var product models.Product
		if err := db.Preload("Images").First(&product, "id = ?", c.Param("id")).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
			return
		}

		var input ProductInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		if err := input.apply(&product); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid discount_end_date format. Format: 2006-01-02"})
			return
		}

		err := db.Transaction(func(tx *gorm.DB) error {
			if err := tx.Where("product_id = ?", product.ID).Delete(&models.ProductImage{}).Error; err != nil {
				return err
			}
			return tx.Save(&product).Error
		})
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update product"})
			return
		}

		c.JSON(http.StatusOK, product)
	}
}

// DELETE /admin/products/:id
func DeleteProduct(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		result := db.Delete(&models.Product{}, "id = ?", c.Param("id"))
		if result.Error != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete product"})
			return
		}
		if result.RowsAffected == 0 {
			c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"message": "Product deleted successfully"})
	}
}
