package bank

import "encoding/xml"

// CreateOrderRequest is the TKKPG envelope for registering a payment
// order with the bank.
type CreateOrderRequest struct {
	XMLName xml.Name        `xml:"TKKPG"`
	Request CreateOrderBody `xml:"Request"`
}

type CreateOrderBody struct {
	Operation string       `xml:"Operation"`
	Language  string       `xml:"Language"`
	Order     RequestOrder `xml:"Order"`
}

type RequestOrder struct {
	OrderType string `xml:"OrderType"`
	Merchant  string `xml:"Merchant"`
	// Amount is in minor units (qəpik).
	Amount      int64  `xml:"Amount"`
	Currency    string `xml:"Currency"`
	Description string `xml:"Description"`
	ApproveURL  string `xml:"ApproveURL"`
	CancelURL   string `xml:"CancelURL"`
	DeclineURL  string `xml:"DeclineURL"`
}

// CreateOrderResponse is the TKKPG envelope the bank answers with.
type CreateOrderResponse struct {
	XMLName  xml.Name     `xml:"TKKPG"`
	Response ResponseBody `xml:"Response"`
}

type ResponseBody struct {
	Operation string        `xml:"Operation"`
	Status    string        `xml:"Status"`
	Order     ResponseOrder `xml:"Order"`
}

type ResponseOrder struct {
	OrderID   string `xml:"OrderID"`
	SessionID string `xml:"SessionID"`
	URL       string `xml:"URL"`
}

// Callback is the parsed payload of a bank payment callback. Approved
// callbacks arrive wrapped in an XMLOut element, declined and canceled
// ones post the Message element directly.
type Callback struct {
	OrderID     string
	SessionID   string
	OrderStatus string
}

type callbackMessage struct {
	OrderID     string `xml:"OrderID"`
	SessionID   string `xml:"SessionID"`
	OrderStatus string `xml:"OrderStatus"`
}

type callbackWrapped struct {
	Message callbackMessage `xml:"Message"`
}
