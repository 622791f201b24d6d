package models

import (
	"time"

	"github.com/gosimple/slug"
	"gorm.io/gorm"
)

type Product struct {
	ID   uint   `gorm:"primaryKey" json:"id"`
	Code string `gorm:"index" json:"code"`
	Name string `gorm:"not null" json:"name"`
	Slug string `gorm:"uniqueIndex" json:"slug"`

	BrandID    uint     `json:"-"`
	Brand      Brand    `json:"brand"`
	CategoryID uint     `json:"-"`
	Category   Category `json:"category"`

	Price float64 `gorm:"not null;default:0" json:"price"`

	// Discount is a percentage that only applies while DiscountEndDate
	// has not passed. Use CurrentDiscount, not the raw field.
	Discount        uint       `json:"discount"`
	DiscountEndDate *time.Time `json:"discount_end_date,omitempty"`

	// Quantity is the stock on hand.
	Quantity uint `json:"quantity"`

	IsNew         bool `json:"is_new"`
	InStock       bool `gorm:"default:true" json:"in_stock"`
	IsDistributer bool `json:"is_distributer"`

	MainNote    string `json:"main_note"`
	Description string `json:"description"`

	Images []ProductImage `gorm:"constraint:OnDelete:CASCADE" json:"images"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// CurrentDiscount returns the effective discount percentage at the given
// moment. Only a past end date turns the discount off; without an end
// date the configured discount runs indefinitely.
func (p *Product) CurrentDiscount(now time.Time) uint {
	if p.DiscountEndDate != nil && p.DiscountEndDate.Before(now) {
		return 0
	}
	return p.Discount
}

// DiscountedPrice returns the unit price after the current discount.
func (p *Product) DiscountedPrice(now time.Time) float64 {
	return p.Price * (1 - float64(p.CurrentDiscount(now))/100)
}

func (p *Product) BeforeSave(tx *gorm.DB) error {
	p.Slug = slug.Make(p.Name)
	return nil
}

type ProductImage struct {
	ID        uint   `gorm:"primaryKey" json:"id"`
	ProductID uint   `gorm:"index" json:"-"`
	Image     string `gorm:"not null" json:"image"`
}
