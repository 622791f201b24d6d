package models

import (
	"testing"
	"time"
)

func TestGenerateOTP(t *testing.T) {
	var user User
	now := time.Now()

	code := user.GenerateOTP(now)

	if len(code) != 4 {
		t.Fatalf("GenerateOTP() returned %q, want a 4-digit code", code)
	}
	if user.OTPCode != code {
		t.Fatalf("OTPCode = %q, want %q", user.OTPCode, code)
	}
	if user.OTPExpiresAt == nil || !user.OTPExpiresAt.Equal(now.Add(OTPLifetime)) {
		t.Fatalf("OTPExpiresAt = %v, want %v", user.OTPExpiresAt, now.Add(OTPLifetime))
	}
}

func TestVerifyOTP(t *testing.T) {
	now := time.Now()

	t.Run("valid code", func(t *testing.T) {
		var user User
		code := user.GenerateOTP(now)

		if !user.VerifyOTP(code, now.Add(time.Minute)) {
			t.Fatal("VerifyOTP() = false for a fresh code")
		}
		// Single use: a second attempt fails.
		if user.VerifyOTP(code, now.Add(time.Minute)) {
			t.Fatal("VerifyOTP() = true for an already consumed code")
		}
	})

	t.Run("wrong code", func(t *testing.T) {
		var user User
		user.GenerateOTP(now)

		if user.VerifyOTP("0000", now) && user.OTPCode != "0000" {
			t.Fatal("VerifyOTP() = true for a wrong code")
		}
	})

	t.Run("expired code", func(t *testing.T) {
		var user User
		code := user.GenerateOTP(now)

		if user.VerifyOTP(code, now.Add(OTPLifetime+time.Second)) {
			t.Fatal("VerifyOTP() = true for an expired code")
		}
	})

	t.Run("no code issued", func(t *testing.T) {
		var user User
		if user.VerifyOTP("1234", now) {
			t.Fatal("VerifyOTP() = true without an issued code")
		}
	})
}
