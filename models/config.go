package models

import "time"

// AppVersionConfig is a singleton row describing the minimum supported
// mobile app versions and their store URLs.
type AppVersionConfig struct {
	ID         uint   `gorm:"primaryKey" json:"-"`
	IOS        string `json:"ios"`
	IOSURL     string `json:"ios_url"`
	Android    string `json:"android"`
	AndroidURL string `json:"android_url"`

	UpdatedAt time.Time `json:"updated_at"`
}
