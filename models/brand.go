package models

import (
	"time"

	"github.com/gosimple/slug"
	"gorm.io/gorm"
)

type Brand struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"uniqueIndex;not null" json:"name"`
	Slug      string    `gorm:"uniqueIndex" json:"slug"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (b *Brand) BeforeSave(tx *gorm.DB) error {
	b.Slug = slug.Make(b.Name)
	return nil
}
