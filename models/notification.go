package models

import "time"

// Notification with a nil UserID is a broadcast visible to everyone.
type Notification struct {
	ID     uint   `gorm:"primaryKey" json:"id"`
	Title  string `gorm:"not null" json:"title"`
	Body   string `gorm:"not null" json:"body"`
	UserID *uint  `gorm:"index" json:"-"`

	Date      time.Time `gorm:"autoCreateTime" json:"date"`
	UpdatedAt time.Time `json:"-"`
}
