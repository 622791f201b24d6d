package sms

import (
	"context"
	"crypto/md5" // #nosec G501
	"encoding/hex"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func newTestClient(t *testing.T, url string) *Client {
	t.Helper()

	t.Setenv("SMS_URL", url)
	t.Setenv("SMS_LOGIN", "dentalshop")
	t.Setenv("SMS_PASSWORD", "parol")
	t.Setenv("SMS_SENDER", "DENTALSHOP")

	client, err := NewClientFromEnv()
	if err != nil {
		t.Fatalf("NewClientFromEnv() error = %v", err)
	}
	return client
}

func TestNewClientFromEnvMissingConfig(t *testing.T) {
	t.Setenv("SMS_URL", "")
	t.Setenv("SMS_LOGIN", "")
	t.Setenv("SMS_PASSWORD", "")
	t.Setenv("SMS_SENDER", "")

	if _, err := NewClientFromEnv(); err == nil {
		t.Fatal("NewClientFromEnv() succeeded without configuration")
	}
}

func TestSend(t *testing.T) {
	var received sendRequest

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := json.NewDecoder(r.Body).Decode(&received); err != nil {
			t.Errorf("decode request: %v", err)
		}
		w.Write([]byte(`{"transId": 987001}`))
	}))
	defer server.Close()

	client := newTestClient(t, server.URL)

	transID, err := client.Send(context.Background(), "501234567", "Sizin OTP kodunuz: 1234")
	if err != nil {
		t.Fatalf("Send() error = %v", err)
	}
	if transID != "987001" {
		t.Errorf("transID = %q, want 987001", transID)
	}

	if received.MSISDN != "994501234567" {
		t.Errorf("msisdn = %q, want country code prefixed", received.MSISDN)
	}
	if received.Login != "dentalshop" || received.Sender != "DENTALSHOP" {
		t.Errorf("credentials = %q / %q", received.Login, received.Sender)
	}

	// The gateway wants the password as an MD5 hex digest.
	digest := md5.Sum([]byte("parol")) // #nosec G401
	if received.Key != hex.EncodeToString(digest[:]) {
		t.Errorf("key = %q, want md5 of the password", received.Key)
	}
	if received.Scheduled != "NOW" {
		t.Errorf("scheduled = %q, want NOW", received.Scheduled)
	}
}

func TestSendGatewayError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"transId": -4}`))
	}))
	defer server.Close()

	client := newTestClient(t, server.URL)

	if _, err := client.Send(context.Background(), "501234567", "test"); err == nil {
		t.Fatal("Send() succeeded on a negative transId")
	}
}

func TestSendHTTPError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer server.Close()

	client := newTestClient(t, server.URL)

	if _, err := client.Send(context.Background(), "501234567", "test"); err == nil {
		t.Fatal("Send() succeeded on a 500 response")
	}
}
