package middleware

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
)

func TestCallbackChecksum(t *testing.T) {
	a := CallbackChecksum("s3cret", "<Message/>")
	b := CallbackChecksum("s3cret", "<Message/>")
	if a != b {
		t.Fatal("checksum is not deterministic")
	}
	if len(a) != 40 {
		t.Fatalf("checksum length = %d, want 40 hex chars", len(a))
	}

	if CallbackChecksum("s3cret", "<Other/>") == a {
		t.Fatal("checksum ignores the payload")
	}
	if CallbackChecksum("other", "<Message/>") == a {
		t.Fatal("checksum ignores the secret")
	}

	// Surrounding whitespace in the payload is not significant.
	if CallbackChecksum("s3cret", "  <Message/>\n") != a {
		t.Fatal("checksum is sensitive to surrounding whitespace")
	}
}

func bankAuthRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.POST("/callback", BankCallbackAuth(), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})
	return r
}

func postSigned(r *gin.Engine, xmlmsg, checksum string) *httptest.ResponseRecorder {
	form := url.Values{"xmlmsg": {xmlmsg}}
	if checksum != "" {
		form.Set("checksum", checksum)
	}
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/callback", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	r.ServeHTTP(w, req)
	return w
}

func TestBankCallbackAuth(t *testing.T) {
	t.Setenv("BANK_WEBHOOK_SECRET", "s3cret")
	t.Setenv("BANK_MODE", "")

	r := bankAuthRouter()
	payload := `<Message><OrderID>1</OrderID></Message>`

	t.Run("valid checksum", func(t *testing.T) {
		w := postSigned(r, payload, CallbackChecksum("s3cret", payload))
		if w.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200", w.Code)
		}
	})

	t.Run("case-insensitive comparison", func(t *testing.T) {
		w := postSigned(r, payload, strings.ToUpper(CallbackChecksum("s3cret", payload)))
		if w.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200", w.Code)
		}
	})

	t.Run("wrong checksum", func(t *testing.T) {
		w := postSigned(r, payload, CallbackChecksum("wrong", payload))
		if w.Code != http.StatusForbidden {
			t.Fatalf("status = %d, want 403", w.Code)
		}
	})

	t.Run("missing checksum", func(t *testing.T) {
		w := postSigned(r, payload, "")
		if w.Code != http.StatusForbidden {
			t.Fatalf("status = %d, want 403", w.Code)
		}
	})
}

func TestBankCallbackAuthSandboxSkipsVerification(t *testing.T) {
	t.Setenv("BANK_WEBHOOK_SECRET", "")
	t.Setenv("BANK_MODE", "sandbox")

	r := bankAuthRouter()
	w := postSigned(r, `<Message/>`, "")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200 in sandbox mode", w.Code)
	}
}

func TestBankCallbackAuthPanicsWithoutSecret(t *testing.T) {
	t.Setenv("BANK_WEBHOOK_SECRET", "")
	t.Setenv("BANK_MODE", "")

	defer func() {
		if recover() == nil {
			t.Fatal("BankCallbackAuth() did not panic without a secret")
		}
	}()
	BankCallbackAuth()
}
