package orderControllers

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/tarlansoltanov/api.dentalshop.az/bank"
	"github.com/tarlansoltanov/api.dentalshop.az/events"
	"github.com/tarlansoltanov/api.dentalshop.az/middleware"
	"github.com/tarlansoltanov/api.dentalshop.az/models"
)

type CheckoutRequest struct {
	Code          string `json:"code"`
	PaymentMethod int    `json:"payment_method" binding:"required"`
	Installments  uint   `json:"installments"`
	Address       string `json:"address"`
	Note          string `json:"note"`
}

type PayRequest struct {
	Installments uint `json:"installments"`
}

// resolveDiscount implements the checkout discount rules: the user's
// personal code wins, then a promo code that is inside its validity
// window. Anything else silently resolves to zero so a stale code never
// blocks a checkout. Whether the promo is already spent is decided
// inside the checkout transaction, not here.
func resolveDiscount(db *gorm.DB, code string, user *models.User, now time.Time) (uint, *models.Promo) {
	if code == "" {
		return 0, nil
	}

	if user.Code != "" && code == user.Code {
		return user.Discount, nil
	}

	var promo models.Promo
	if err := db.Where("code = ?", code).First(&promo).Error; err != nil {
		return 0, nil
	}

	if !promo.IsValid(now) {
		return 0, nil
	}

	return promo.Discount, &promo
}

func promoUsedBy(db *gorm.DB, promoID, userID uint) bool {
	var count int64
	db.Model(&models.PromoUsage{}).
		Where("promo_id = ? AND user_id = ?", promoID, userID).
		Count(&count)
	return count > 0
}

func insufficientStock(name string) error {
	return fmt.Errorf("\"%s\" adlı məhsuldan stokda kifayət qədər mövcud deyil", name)
}

// placeOrder turns the user's cart into an order inside a single
// transaction: order row, item snapshots, stock decrements, cart
// cleanup and promo usage all commit or roll back together.
func placeOrder(db *gorm.DB, user *models.User, req *CheckoutRequest, now time.Time) (*models.Order, error) {
	var cartItems []models.CartItem
	if err := db.Preload("Product").Where("user_id = ?", user.ID).Find(&cartItems).Error; err != nil {
		return nil, err
	}

	if len(cartItems) == 0 {
		return nil, errors.New("Səbət boşdur")
	}

	for i := range cartItems {
		if cartItems[i].Product.Quantity < cartItems[i].Quantity {
			return nil, insufficientStock(cartItems[i].Product.Name)
		}
	}

	discount, promo := resolveDiscount(db, req.Code, user, now)

	order := models.Order{
		UserID:        user.ID,
		Discount:      discount,
		PaymentMethod: models.PaymentMethod(req.PaymentMethod),
		Status:        models.OrderStatusNotPaid,
		Address:       req.Address,
		Note:          req.Note,
	}

	err := db.Transaction(func(tx *gorm.DB) error {
		if order.PaymentMethod == models.PaymentMethodCash {
			order.Status = models.OrderStatusPending
		}

		// Re-check inside the transaction; the unique index on
		// promo_usages(promo_id, user_id) catches the race two
		// concurrent checkouts would otherwise win together.
		if promo != nil && promoUsedBy(tx, promo.ID, user.ID) {
			promo = nil
			order.Discount = 0
		}

		if err := tx.Create(&order).Error; err != nil {
			return err
		}

		for i := range cartItems {
			item := &cartItems[i]

			// Snapshot price and discount so the order total stays
			// immutable when the product changes later.
			orderItem := models.OrderItem{
				OrderID:   order.ID,
				ProductID: item.ProductID,
				Price:     item.Product.Price,
				Discount:  item.Product.CurrentDiscount(now),
				Quantity:  item.Quantity,
			}
			if err := tx.Create(&orderItem).Error; err != nil {
				return err
			}
			order.Items = append(order.Items, orderItem)

			// Guarded decrement: a concurrent checkout that drained the
			// stock first makes this touch zero rows.
			res := tx.Model(&models.Product{}).
				Where("id = ? AND quantity >= ?", item.ProductID, item.Quantity).
				UpdateColumn("quantity", gorm.Expr("quantity - ?", item.Quantity))
			if res.Error != nil {
				return res.Error
			}
			if res.RowsAffected == 0 {
				return insufficientStock(item.Product.Name)
			}
		}

		if err := tx.Where("user_id = ?", user.ID).Delete(&models.CartItem{}).Error; err != nil {
			return err
		}

		if promo != nil {
			usage := models.PromoUsage{PromoID: promo.ID, UserID: user.ID, OrderID: order.ID}
			if err := tx.Create(&usage).Error; err != nil {
				return err
			}
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	return &order, nil
}

// callbackURL derives the bank callback endpoint from the request URL,
// swapping the tail of the path for /callback.
func callbackURL(c *gin.Context, tail string) string {
	scheme := "https"
	if c.Request.TLS == nil && c.GetHeader("X-Forwarded-Proto") != "https" {
		scheme = "http"
	}
	path := strings.Replace(c.Request.URL.Path, tail, "/callback", 1)
	return scheme + "://" + c.Request.Host + path
}

// POST /orders/checkout
func Checkout(db *gorm.DB, bankClient *bank.Client, publisher *events.Publisher) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := middleware.UserID(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}

		var req CheckoutRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		if !models.PaymentMethod(req.PaymentMethod).Valid() {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid payment method"})
			return
		}

		var user models.User
		if err := db.First(&user, userID).Error; err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "User not found"})
			return
		}

		order, err := placeOrder(db, &user, &req, time.Now())
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		publisher.OrderCreated(c.Request.Context(), order)
		broadcastOrder(order)

		if order.PaymentMethod == models.PaymentMethodCash {
			c.JSON(http.StatusOK, gin.H{"message": "Sifarişiniz uğurla qeydə alındı"})
			return
		}

		session, err := bankClient.CreateOrder(
			c.Request.Context(), order.ID, order.Total(), callbackURL(c, "/checkout"), req.Installments)
		if err != nil {
			c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
			return
		}

		payment := models.OrderPayment{
			OrderID:       order.ID,
			BankSessionID: session.SessionID,
			BankOrderID:   session.BankOrderID,
			Installments:  req.Installments,
			Status:        models.PaymentStatusOnPayment,
		}
		if err := db.Create(&payment).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save payment"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"payment_url": session.RedirectURL})
	}
}

// POST /orders/:orderID/pay
func Pay(db *gorm.DB, bankClient *bank.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := middleware.UserID(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}

		var req PayRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		var order models.Order
		if err := db.Preload("Items").
			Where("id = ? AND user_id = ?", c.Param("orderID"), userID).
			First(&order).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Order not found"})
			return
		}

		if order.Status != models.OrderStatusNotPaid {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Sifariş artıq ödənilib"})
			return
		}

		tail := fmt.Sprintf("/%d/pay", order.ID)
		session, err := bankClient.CreateOrder(
			c.Request.Context(), order.ID, order.Total(), callbackURL(c, tail), req.Installments)
		if err != nil {
			c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
			return
		}

		payment := models.OrderPayment{
			OrderID:       order.ID,
			BankSessionID: session.SessionID,
			BankOrderID:   session.BankOrderID,
			Installments:  req.Installments,
			Status:        models.PaymentStatusOnPayment,
		}
		if err := db.Create(&payment).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save payment"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"payment_url": session.RedirectURL})
	}
}
