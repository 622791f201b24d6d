package models

import "time"

type PaymentMethod int

const (
	PaymentMethodCash PaymentMethod = 1
	PaymentMethodCard PaymentMethod = 2
)

func (m PaymentMethod) Valid() bool {
	return m == PaymentMethodCash || m == PaymentMethodCard
}

type OrderStatus int

const (
	OrderStatusNotPaid    OrderStatus = 0
	OrderStatusPending    OrderStatus = 1
	OrderStatusOnDelivery OrderStatus = 2
	OrderStatusCompleted  OrderStatus = 3
	OrderStatusCanceled   OrderStatus = 4
)

func (s OrderStatus) Valid() bool {
	return s >= OrderStatusNotPaid && s <= OrderStatusCanceled
}

type OrderPaymentStatus int

const (
	PaymentStatusOnPayment OrderPaymentStatus = 0
	PaymentStatusApproved  OrderPaymentStatus = 1
	PaymentStatusDeclined  OrderPaymentStatus = 2
	PaymentStatusCanceled  OrderPaymentStatus = 3
)

// PaymentStatusFromBank maps the OrderStatus string reported in the bank
// callback to an OrderPaymentStatus.
func PaymentStatusFromBank(status string) (OrderPaymentStatus, bool) {
	switch status {
	case "ON_PAYMENT":
		return PaymentStatusOnPayment, true
	case "APPROVED":
		return PaymentStatusApproved, true
	case "DECLINED":
		return PaymentStatusDeclined, true
	case "CANCELED":
		return PaymentStatusCanceled, true
	default:
		return 0, false
	}
}

type Order struct {
	ID     uint `gorm:"primaryKey" json:"id"`
	UserID uint `gorm:"index;not null" json:"-"`
	User   User `json:"-"`

	Items    []OrderItem    `gorm:"constraint:OnDelete:CASCADE" json:"items"`
	Payments []OrderPayment `gorm:"constraint:OnDelete:CASCADE" json:"-"`

	// Order-level discount resolved at checkout from the user's personal
	// code or a promo code. Item discounts are snapshotted separately.
	Discount uint `json:"discount"`

	PaymentMethod PaymentMethod `gorm:"not null" json:"payment_method"`
	Status        OrderStatus   `gorm:"default:0" json:"status"`

	Address string `json:"address"`
	Note    string `json:"note"`

	Date      time.Time `gorm:"autoCreateTime" json:"date"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Total computes the order total from the snapshotted item prices and
// discounts, then applies the order-level discount. Live product state
// never participates.
func (o *Order) Total() float64 {
	var sum float64
	for i := range o.Items {
		sum += o.Items[i].Total()
	}
	return sum * (1 - float64(o.Discount)/100)
}

// OrderItem snapshots the product price and discount at checkout time so
// order totals stay immutable when the product changes later.
type OrderItem struct {
	ID        uint    `gorm:"primaryKey" json:"id"`
	OrderID   uint    `gorm:"index" json:"-"`
	ProductID uint    `json:"-"`
	Product   Product `json:"product"`

	Price    float64 `gorm:"not null" json:"price"`
	Discount uint    `json:"discount"`
	Quantity uint    `gorm:"default:1" json:"quantity"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (i *OrderItem) Total() float64 {
	return i.Price * (1 - float64(i.Discount)/100) * float64(i.Quantity)
}

// OrderPayment tracks a single bank payment attempt for an order.
type OrderPayment struct {
	ID      uint `gorm:"primaryKey" json:"id"`
	OrderID uint `gorm:"index;not null" json:"-"`
	Order   Order `json:"-"`

	BankSessionID string `json:"-"`
	BankOrderID   string `gorm:"index" json:"-"`

	Installments uint               `json:"installments"`
	Status       OrderPaymentStatus `gorm:"default:0" json:"status"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
