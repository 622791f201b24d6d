package bank

import (
	"context"
	"encoding/xml"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestBuildCreateOrder(t *testing.T) {
	c := &Client{merchant: "E1000010"}

	req := c.BuildCreateOrder(42, 180.00, "https://api.example.az/api/v1/orders/callback", 0)

	order := req.Request.Order
	if req.Request.Operation != "CreateOrder" {
		t.Errorf("Operation = %q", req.Request.Operation)
	}
	if order.Merchant != "E1000010" {
		t.Errorf("Merchant = %q", order.Merchant)
	}
	if order.Amount != 18000 {
		t.Errorf("Amount = %d, want 18000 minor units", order.Amount)
	}
	if order.Currency != "944" {
		t.Errorf("Currency = %q, want 944", order.Currency)
	}
	if order.Description != "xxxxxxxx" {
		t.Errorf("Description = %q", order.Description)
	}
	if want := "https://api.example.az/api/v1/orders/callback?order_id=42&status=approved"; order.ApproveURL != want {
		t.Errorf("ApproveURL = %q, want %q", order.ApproveURL, want)
	}
	if !strings.Contains(order.CancelURL, "status=canceled") || !strings.Contains(order.DeclineURL, "status=declined") {
		t.Errorf("Cancel/Decline URLs = %q / %q", order.CancelURL, order.DeclineURL)
	}
}

func TestBuildCreateOrderAmountRounding(t *testing.T) {
	c := &Client{merchant: "m"}

	tests := []struct {
		amount float64
		want   int64
	}{
		{180, 18000},
		{19.99, 1999},
		{10.555, 1056},
		{0.1, 10},
	}

	for _, tt := range tests {
		req := c.BuildCreateOrder(1, tt.amount, "http://cb", 0)
		if req.Request.Order.Amount != tt.want {
			t.Errorf("amount %v -> %d minor units, want %d", tt.amount, req.Request.Order.Amount, tt.want)
		}
	}
}

func TestBuildCreateOrderInstallments(t *testing.T) {
	c := &Client{merchant: "m"}

	req := c.BuildCreateOrder(1, 100, "http://cb", 6)
	if req.Request.Order.Description != "TAKSIT=6" {
		t.Fatalf("Description = %q, want TAKSIT=6", req.Request.Order.Description)
	}
}

func TestNewClientFromEnvMissingConfig(t *testing.T) {
	t.Setenv("BANK_URL", "")
	t.Setenv("BANK_MERCHANT", "")

	if _, err := NewClientFromEnv(); err == nil {
		t.Fatal("NewClientFromEnv() succeeded without configuration")
	}
}

func TestCreateOrder(t *testing.T) {
	var received CreateOrderRequest

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		if err := xml.Unmarshal(body, &received); err != nil {
			t.Errorf("request body is not a TKKPG envelope: %v", err)
		}

		w.Write([]byte(`<TKKPG>
			<Response>
				<Operation>CreateOrder</Operation>
				<Status>00</Status>
				<Order>
					<OrderID>987654</OrderID>
					<SessionID>SESSABC</SessionID>
					<URL>https://pay.example.com/index.jsp</URL>
				</Order>
			</Response>
		</TKKPG>`))
	}))
	defer server.Close()

	t.Setenv("BANK_URL", server.URL)
	t.Setenv("BANK_MERCHANT", "E1000010")
	t.Setenv("BANK_CERT", "")
	t.Setenv("BANK_KEY", "")

	client, err := NewClientFromEnv()
	if err != nil {
		t.Fatalf("NewClientFromEnv() error = %v", err)
	}

	session, err := client.CreateOrder(context.Background(), 42, 180, "http://cb", 0)
	if err != nil {
		t.Fatalf("CreateOrder() error = %v", err)
	}

	if received.Request.Order.Amount != 18000 {
		t.Errorf("sent Amount = %d, want 18000", received.Request.Order.Amount)
	}
	if session.BankOrderID != "987654" || session.SessionID != "SESSABC" {
		t.Errorf("session = %+v", session)
	}
	if want := "https://pay.example.com/index.jsp?ORDERID=987654&SESSIONID=SESSABC"; session.RedirectURL != want {
		t.Errorf("RedirectURL = %q, want %q", session.RedirectURL, want)
	}
}

func TestCreateOrderRejected(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<TKKPG><Response><Status>30</Status><Order></Order></Response></TKKPG>`))
	}))
	defer server.Close()

	t.Setenv("BANK_URL", server.URL)
	t.Setenv("BANK_MERCHANT", "E1000010")
	t.Setenv("BANK_CERT", "")
	t.Setenv("BANK_KEY", "")

	client, err := NewClientFromEnv()
	if err != nil {
		t.Fatalf("NewClientFromEnv() error = %v", err)
	}

	if _, err := client.CreateOrder(context.Background(), 1, 10, "http://cb", 0); err == nil {
		t.Fatal("CreateOrder() succeeded on a rejected registration")
	}
}

func TestParseCallback(t *testing.T) {
	t.Run("approved wrapped in XMLOut", func(t *testing.T) {
		payload := []byte(`<XMLOut>
			<Message>
				<OrderID>987654</OrderID>
				<SessionID>SESSABC</SessionID>
				<OrderStatus>APPROVED</OrderStatus>
			</Message>
		</XMLOut>`)

		cb, err := ParseCallback(payload)
		if err != nil {
			t.Fatalf("ParseCallback() error = %v", err)
		}
		if cb.OrderID != "987654" || cb.OrderStatus != "APPROVED" {
			t.Fatalf("callback = %+v", cb)
		}
	})

	t.Run("declined posts Message directly", func(t *testing.T) {
		payload := []byte(`<Message>
			<OrderID>987654</OrderID>
			<SessionID>SESSABC</SessionID>
			<OrderStatus>DECLINED</OrderStatus>
		</Message>`)

		cb, err := ParseCallback(payload)
		if err != nil {
			t.Fatalf("ParseCallback() error = %v", err)
		}
		if cb.OrderID != "987654" || cb.OrderStatus != "DECLINED" {
			t.Fatalf("callback = %+v", cb)
		}
	})

	t.Run("missing order id", func(t *testing.T) {
		if _, err := ParseCallback([]byte(`<Message><OrderStatus>APPROVED</OrderStatus></Message>`)); err == nil {
			t.Fatal("ParseCallback() accepted a payload without OrderID")
		}
	})

	t.Run("garbage", func(t *testing.T) {
		if _, err := ParseCallback([]byte(`not xml at all`)); err == nil {
			t.Fatal("ParseCallback() accepted garbage")
		}
	})
}
