package models

import "time"

// Promo is a time-bounded discount code, usable at most once per user.
type Promo struct {
	ID       uint      `gorm:"primaryKey" json:"id"`
	Code     string    `gorm:"uniqueIndex;not null" json:"code"`
	Discount uint      `json:"discount"`
	Start    time.Time `json:"start"`
	End      time.Time `json:"end"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// IsValid reports whether the promo window covers the given day.
func (p *Promo) IsValid(now time.Time) bool {
	day := now.Truncate(24 * time.Hour)
	return !day.Before(p.Start.Truncate(24*time.Hour)) && !day.After(p.End.Truncate(24*time.Hour))
}

// PromoUsage records that a promo was spent on an order. The unique
// index on promo+user makes a concurrent double spend fail at insert
// time instead of slipping past a read check.
type PromoUsage struct {
	ID      uint  `gorm:"primaryKey" json:"id"`
	PromoID uint  `gorm:"uniqueIndex:idx_promo_usage_user;not null" json:"-"`
	Promo   Promo `json:"-"`
	UserID  uint  `gorm:"uniqueIndex:idx_promo_usage_user;not null" json:"-"`
	User    User  `json:"-"`
	OrderID uint  `gorm:"uniqueIndex;not null" json:"-"`
	Order   Order `json:"-"`

	CreatedAt time.Time `json:"created_at"`
}
