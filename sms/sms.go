// Package sms delivers OTP messages through the atlsms JSON gateway.
package sms

import (
	"bytes"
	"context"
	"crypto/md5" // #nosec G501 -- the gateway authenticates with an MD5 digest
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strconv"
	"time"
)

type Client struct {
	endpoint   string
	login      string
	key        string
	sender     string
	httpClient *http.Client
}

// NewClientFromEnv builds an SMS client from SMS_URL, SMS_LOGIN,
// SMS_PASSWORD and SMS_SENDER. The gateway expects the password as an
// MD5 hex digest, not in cleartext.
func NewClientFromEnv() (*Client, error) {
	endpoint := os.Getenv("SMS_URL")
	login := os.Getenv("SMS_LOGIN")
	password := os.Getenv("SMS_PASSWORD")
	sender := os.Getenv("SMS_SENDER")

	if endpoint == "" || login == "" || password == "" || sender == "" {
		return nil, errors.New("sms configuration missing: SMS_URL, SMS_LOGIN, SMS_PASSWORD and SMS_SENDER must be set")
	}

	digest := md5.Sum([]byte(password)) // #nosec G401

	return &Client{
		endpoint:   endpoint,
		login:      login,
		key:        hex.EncodeToString(digest[:]),
		sender:     sender,
		httpClient: &http.Client{Timeout: 15 * time.Second},
	}, nil
}

type sendRequest struct {
	Login     string `json:"login"`
	Key       string `json:"key"`
	Sender    string `json:"sender"`
	Scheduled string `json:"scheduled"`
	Text      string `json:"text"`
	MSISDN    string `json:"msisdn"`
	Unicode   int    `json:"unicode"`
}

type sendResponse struct {
	TransID json.Number `json:"transId"`
}

// Send delivers text to a local 9-digit phone number and returns the
// gateway transaction id. Negative transaction ids are gateway errors.
func (c *Client) Send(ctx context.Context, phone, text string) (string, error) {
	payload, err := json.Marshal(sendRequest{
		Login:     c.login,
		Key:       c.key,
		Sender:    c.sender,
		Scheduled: "NOW",
		Text:      text,
		MSISDN:    "994" + phone,
		Unicode:   0,
	})
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(payload))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to reach sms gateway: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("sms gateway error (%d): %s", resp.StatusCode, body)
	}

	var parsed sendResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return "", fmt.Errorf("failed to parse sms gateway response: %w", err)
	}

	transID, err := strconv.ParseInt(parsed.TransID.String(), 10, 64)
	if err != nil {
		return "", fmt.Errorf("unexpected transId %q from sms gateway", parsed.TransID)
	}
	if transID < 0 {
		return "", fmt.Errorf("sms gateway rejected message: error code %d", transID)
	}

	return parsed.TransID.String(), nil
}
