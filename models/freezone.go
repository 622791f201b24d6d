package models

import (
	"time"

	"github.com/gosimple/slug"
	"gorm.io/gorm"
)

type FreezoneStatus int

const (
	FreezoneStatusPending  FreezoneStatus = 0
	FreezoneStatusVerified FreezoneStatus = 1
	FreezoneStatusRejected FreezoneStatus = 2
)

// FreezoneItem is a user-submitted marketplace listing, distinct from
// catalog products. New items wait for admin verification.
type FreezoneItem struct {
	ID     uint   `gorm:"primaryKey" json:"id"`
	Title  string `gorm:"not null" json:"title"`
	Slug   string `gorm:"uniqueIndex" json:"slug"`
	UserID uint   `gorm:"index;not null" json:"-"`
	User   User   `json:"-"`

	Image       string  `json:"image"`
	Price       float64 `gorm:"default:0" json:"price"`
	Address     string  `json:"address"`
	Description string  `json:"description"`

	Status FreezoneStatus `gorm:"default:0" json:"status"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (f *FreezoneItem) BeforeSave(tx *gorm.DB) error {
	f.Slug = slug.Make(f.Title)
	return nil
}
