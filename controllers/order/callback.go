package orderControllers

import (
	"fmt"
	"net/http"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/tarlansoltanov/api.dentalshop.az/bank"
	"github.com/tarlansoltanov/api.dentalshop.az/events"
	"github.com/tarlansoltanov/api.dentalshop.az/models"
)

// POST /orders/callback
//
// The bank posts an xmlmsg form field after the shopper finishes on the
// hosted payment page. The checksum is already verified by
// middleware.BankCallbackAuth before this handler runs.
func Callback(db *gorm.DB, publisher *events.Publisher) gin.HandlerFunc {
	frontendURL := os.Getenv("FRONTEND_URL")
	if frontendURL == "" {
		frontendURL = "https://dentalshop.az"
	}

	return func(c *gin.Context) {
		callback, err := bank.ParseCallback([]byte(c.PostForm("xmlmsg")))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		var payment models.OrderPayment
		if err := db.Preload("Order").
			Where("bank_order_id = ?", callback.OrderID).
			First(&payment).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Payment not found"})
			return
		}

		status, ok := models.PaymentStatusFromBank(callback.OrderStatus)
		if !ok {
			c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("Unknown payment status %q", callback.OrderStatus)})
			return
		}

		err = db.Transaction(func(tx *gorm.DB) error {
			payment.Status = status
			if err := tx.Save(&payment).Error; err != nil {
				return err
			}

			if status == models.PaymentStatusApproved && payment.Order.Status == models.OrderStatusNotPaid {
				payment.Order.Status = models.OrderStatusPending
				if err := tx.Save(&payment.Order).Error; err != nil {
					return err
				}
			}

			return nil
		})
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update payment"})
			return
		}

		log.Info().
			Uint("order_id", payment.OrderID).
			Str("bank_order_id", payment.BankOrderID).
			Int("status", int(status)).
			Msg("bank payment callback processed")

		publisher.PaymentUpdated(c.Request.Context(), &payment.Order, status)
		broadcastOrder(&payment.Order)

		c.Redirect(http.StatusFound, fmt.Sprintf("%s/account/orders/%d", frontendURL, payment.OrderID))
	}
}
