package auth

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/tarlansoltanov/api.dentalshop.az/models"
)

// OTPSender delivers one-time codes. Satisfied by sms.Client.
type OTPSender interface {
	Send(ctx context.Context, phone, text string) (string, error)
}

type RegisterRequest struct {
	FirstName       string `json:"first_name" binding:"required"`
	LastName        string `json:"last_name" binding:"required"`
	BirthDate       string `json:"birth_date"`
	Phone           string `json:"phone" binding:"required,azphone"`
	Password        string `json:"password" binding:"required,min=8"`
	PasswordConfirm string `json:"password_confirm" binding:"required"`
}

// POST /auth/register
func Register(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req RegisterRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		if req.Password != req.PasswordConfirm {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Şifrələr uyğun gəlmir"})
			return
		}

		var count int64
		db.Model(&models.User{}).Where("phone = ?", req.Phone).Count(&count)
		if count > 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Bu nömrə ilə istifadəçi artıq mövcuddur"})
			return
		}

		hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to hash password"})
			return
		}

		user := models.User{
			FirstName: req.FirstName,
			LastName:  req.LastName,
			Phone:     req.Phone,
			Password:  string(hash),
		}

		if req.BirthDate != "" {
			birthDate, err := time.Parse("2006-01-02", req.BirthDate)
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid birth_date format. Format: 2006-01-02"})
				return
			}
			user.BirthDate = &birthDate
		}

		if err := db.Create(&user).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create user"})
			return
		}

		c.JSON(http.StatusCreated, user)
	}
}

type SendOTPRequest struct {
	Phone string `json:"phone" binding:"required,azphone"`
}

// POST /auth/otp/send
func SendOTP(db *gorm.DB, sender OTPSender) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req SendOTPRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		var user models.User
		if err := db.Where("phone = ?", req.Phone).First(&user).Error; err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Bu nömrə ilə istifadəçi tapılmadı"})
			return
		}

		code := user.GenerateOTP(time.Now())

		transID, err := sender.Send(c.Request.Context(), user.Phone, fmt.Sprintf("Sizin OTP kodunuz: %s", code))
		if err != nil {
			c.JSON(http.StatusBadGateway, gin.H{"error": "Failed to send OTP code"})
			return
		}
		user.OTPTransID = transID

		if err := db.Save(&user).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save OTP code"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"message": "OTP kodu göndərildi"})
	}
}

type VerifyOTPRequest struct {
	Phone   string `json:"phone" binding:"required,azphone"`
	OTPCode string `json:"otp_code" binding:"required"`
}

// POST /auth/otp/verify
func VerifyOTP(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req VerifyOTPRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		var user models.User
		if err := db.Where("phone = ?", req.Phone).First(&user).Error; err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Bu nömrə ilə istifadəçi tapılmadı"})
			return
		}

		if !user.VerifyOTP(req.OTPCode, time.Now()) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "OTP kodu yanlışdır"})
			return
		}

		// The code is single-use; persist its consumption.
		if err := db.Save(&user).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update user"})
			return
		}

		pair, err := IssueTokenPair(&user)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to issue tokens"})
			return
		}

		c.JSON(http.StatusOK, pair)
	}
}

type RefreshRequest struct {
	Refresh string `json:"refresh" binding:"required"`
}

// POST /auth/token/refresh
func Refresh(db *gorm.DB, store TokenStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req RefreshRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		claims, err := ParseToken(req.Refresh, TokenTypeRefresh)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired refresh token"})
			return
		}

		blacklisted, err := store.IsBlacklisted(c.Request.Context(), claims.ID)
		if err != nil || blacklisted {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired refresh token"})
			return
		}

		var user models.User
		if err := db.First(&user, claims.UserID).Error; err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "User not found"})
			return
		}

		access, err := signToken(&user, TokenTypeAccess, AccessTokenLifetime, time.Now())
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to issue token"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"access": access})
	}
}

// POST /auth/logout
func Logout(store TokenStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req RefreshRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		claims, err := ParseToken(req.Refresh, TokenTypeRefresh)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid refresh token"})
			return
		}

		ttl := time.Until(claims.ExpiresAt.Time)
		if err := store.Blacklist(c.Request.Context(), claims.ID, ttl); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to revoke token"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"message": "Çıxış edildi"})
	}
}
