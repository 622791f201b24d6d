// Package appconfigControllers serves the singleton app version
// configuration consumed by the mobile clients.
package appconfigControllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/tarlansoltanov/api.dentalshop.az/models"
)

type ConfigInput struct {
	IOS        string `json:"ios"`
	IOSURL     string `json:"ios_url"`
	Android    string `json:"android"`
	AndroidURL string `json:"android_url"`
}

// GET /config
func GetConfig(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var config models.AppVersionConfig
		if err := db.First(&config).Error; err != nil && err != gorm.ErrRecordNotFound {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, config)
	}
}

// PUT /admin/config — upserts the singleton row.
func UpdateConfig(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input ConfigInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		var config models.AppVersionConfig
		err := db.First(&config).Error
		if err != nil && err != gorm.ErrRecordNotFound {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}

		config.IOS = input.IOS
		config.IOSURL = input.IOSURL
		config.Android = input.Android
		config.AndroidURL = input.AndroidURL

		if err := db.Save(&config).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update config"})
			return
		}

		c.JSON(http.StatusOK, config)
	}
}
