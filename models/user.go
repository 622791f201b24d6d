package models

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"time"
)

// OTP codes expire after this window.
const OTPLifetime = 3 * time.Minute

type User struct {
	ID        uint       `gorm:"primaryKey" json:"id"`
	Phone     string     `gorm:"size:9;uniqueIndex;not null" json:"phone"`
	FirstName string     `json:"first_name"`
	LastName  string     `json:"last_name"`
	BirthDate *time.Time `json:"birth_date"`
	Password  string     `gorm:"not null" json:"-"`

	// Personal discount code. When a checkout supplies this code the
	// user's own discount percentage is applied.
	Code     string `json:"-"`
	Discount uint   `json:"-"`

	// FCM token of the user's last registered device.
	DeviceToken string `json:"-"`

	OTPCode      string     `json:"-"`
	OTPExpiresAt *time.Time `json:"-"`
	OTPTransID   string     `json:"-"`

	IsStaff     bool `json:"-"`
	IsSuperuser bool `json:"-"`

	DateJoined time.Time `gorm:"autoCreateTime" json:"date_joined"`
	UpdatedAt  time.Time `json:"-"`
}

// GenerateOTP sets a fresh 4-digit code on the user. The caller is
// responsible for persisting the user afterwards.
func (u *User) GenerateOTP(now time.Time) string {
	n, err := rand.Int(rand.Reader, big.NewInt(10000))
	if err != nil {
		// crypto/rand does not fail on supported platforms
		panic(err)
	}

	expires := now.Add(OTPLifetime)
	u.OTPCode = fmt.Sprintf("%04d", n.Int64())
	u.OTPExpiresAt = &expires

	return u.OTPCode
}

// VerifyOTP reports whether code matches the stored OTP and the OTP has
// not expired. A successful verification consumes the code.
func (u *User) VerifyOTP(code string, now time.Time) bool {
	if u.OTPCode == "" || u.OTPExpiresAt == nil {
		return false
	}
	if now.After(*u.OTPExpiresAt) {
		return false
	}
	if u.OTPCode != code {
		return false
	}

	u.OTPCode = ""
	u.OTPExpiresAt = nil
	return true
}

// Favorite links a user to a product they marked as favorite.
type Favorite struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"uniqueIndex:idx_favorite_user_product" json:"-"`
	ProductID uint      `gorm:"uniqueIndex:idx_favorite_user_product" json:"-"`
	Product   Product   `json:"product"`
	CreatedAt time.Time `json:"created_at"`
}
