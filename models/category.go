package models

import (
	"time"

	"github.com/gosimple/slug"
	"gorm.io/gorm"
)

type Category struct {
	ID     uint   `gorm:"primaryKey" json:"id"`
	Name   string `gorm:"uniqueIndex;not null" json:"name"`
	Slug   string `gorm:"uniqueIndex" json:"slug"`
	IsMain bool   `gorm:"default:true" json:"is_main"`

	ParentID *uint      `json:"-"`
	Children []Category `gorm:"foreignKey:ParentID" json:"children,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Main categories have no parent.
func (c *Category) BeforeSave(tx *gorm.DB) error {
	c.Slug = slug.Make(c.Name)
	if c.IsMain {
		c.ParentID = nil
	}
	return nil
}
