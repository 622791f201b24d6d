package middleware

import (
	"crypto/sha1" // #nosec G505 -- checksum scheme fixed by the gateway
	"encoding/hex"
	"net/http"
	"os"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

// BankCallbackAuth verifies the checksum of a bank payment callback
// before the payload is trusted. The checksum is the SHA1 hex digest of
// the shared secret joined with the xmlmsg payload. Verification is
// skipped in sandbox mode.
func BankCallbackAuth() gin.HandlerFunc {
	secretKey := os.Getenv("BANK_WEBHOOK_SECRET")
	mode := strings.ToLower(os.Getenv("BANK_MODE"))

	if secretKey == "" && mode != "sandbox" && mode != "dev" {
		panic("BANK_WEBHOOK_SECRET is not set")
	}

	return func(c *gin.Context) {
		if mode == "sandbox" || mode == "dev" {
			c.Next()
			return
		}

		if err := c.Request.ParseForm(); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "failed to parse form"})
			c.Abort()
			return
		}

		provided := c.PostForm("checksum")
		if provided == "" {
			c.JSON(http.StatusForbidden, gin.H{"error": "missing checksum"})
			c.Abort()
			return
		}

		calculated := CallbackChecksum(secretKey, c.PostForm("xmlmsg"))
		if !strings.EqualFold(calculated, provided) {
			log.Warn().Str("provided", provided).Msg("bank callback with invalid checksum")
			c.JSON(http.StatusForbidden, gin.H{"error": "invalid checksum"})
			c.Abort()
			return
		}

		c.Next()
	}
}

// CallbackChecksum computes the expected checksum for a callback payload.
func CallbackChecksum(secret, xmlmsg string) string {
	h := sha1.New() // #nosec G401
	h.Write([]byte(secret + ":" + strings.TrimSpace(xmlmsg)))
	return hex.EncodeToString(h.Sum(nil))
}
