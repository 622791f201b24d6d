// Package auth implements phone+OTP authentication and the JWT
// access/refresh token pair used by the API.
package auth

import (
	"errors"
	"os"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/tarlansoltanov/api.dentalshop.az/models"
)

const (
	AccessTokenLifetime  = 30 * time.Minute
	RefreshTokenLifetime = 7 * 24 * time.Hour

	TokenTypeAccess  = "access"
	TokenTypeRefresh = "refresh"
)

var (
	ErrInvalidToken = errors.New("invalid or expired token")
	ErrWrongType    = errors.New("wrong token type")
)

// Claims carried by both access and refresh tokens.
type Claims struct {
	UserID    uint   `json:"user_id"`
	IsStaff   bool   `json:"is_staff"`
	TokenType string `json:"typ"`
	jwt.RegisteredClaims
}

// TokenPair is the response body of a successful authentication.
type TokenPair struct {
	Access  string `json:"access"`
	Refresh string `json:"refresh"`
}

func secret() []byte {
	s := os.Getenv("JWT_SECRET")
	if s == "" {
		panic("JWT_SECRET is not set")
	}
	return []byte(s)
}

func signToken(user *models.User, tokenType string, lifetime time.Duration, now time.Time) (string, error) {
	claims := Claims{
		UserID:    user.ID,
		IsStaff:   user.IsStaff || user.IsSuperuser,
		TokenType: tokenType,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(lifetime)),
		},
	}

	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret())
}

// IssueTokenPair creates a fresh access+refresh pair for the user.
func IssueTokenPair(user *models.User) (*TokenPair, error) {
	now := time.Now()

	access, err := signToken(user, TokenTypeAccess, AccessTokenLifetime, now)
	if err != nil {
		return nil, err
	}

	refresh, err := signToken(user, TokenTypeRefresh, RefreshTokenLifetime, now)
	if err != nil {
		return nil, err
	}

	return &TokenPair{Access: access, Refresh: refresh}, nil
}

// ParseToken validates the signature and expiry of a token and checks
// that it is of the expected type.
func ParseToken(tokenString, expectedType string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("invalid token signing method")
		}
		return secret(), nil
	})
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(*Claims)
	if !ok {
		return nil, ErrInvalidToken
	}
	if claims.TokenType != expectedType {
		return nil, ErrWrongType
	}

	return claims, nil
}
