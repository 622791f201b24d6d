package auth

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/tarlansoltanov/api.dentalshop.az/models"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)

	phonePattern := regexp.MustCompile(`^[0-9]{9}$`)
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		_ = v.RegisterValidation("azphone", func(fl validator.FieldLevel) bool {
			return phonePattern.MatchString(fl.Field().String())
		})
	}

	os.Exit(m.Run())
}

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	name := strings.ReplaceAll(t.Name(), "/", "_")
	db, err := gorm.Open(sqlite.Open(fmt.Sprintf("file:%s?mode=memory&cache=shared", name)), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := db.AutoMigrate(&models.User{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

type fakeSender struct {
	phone string
	text  string
	err   error
}

func (f *fakeSender) Send(_ context.Context, phone, text string) (string, error) {
	f.phone = phone
	f.text = text
	if f.err != nil {
		return "", f.err
	}
	return "12345", nil
}

type fakeTokenStore struct {
	revoked map[string]bool
}

func newFakeTokenStore() *fakeTokenStore {
	return &fakeTokenStore{revoked: make(map[string]bool)}
}

func (s *fakeTokenStore) Blacklist(_ context.Context, jti string, _ time.Duration) error {
	s.revoked[jti] = true
	return nil
}

func (s *fakeTokenStore) IsBlacklisted(_ context.Context, jti string) (bool, error) {
	return s.revoked[jti], nil
}

func postJSON(t *testing.T, r *gin.Engine, path string, payload interface{}) *httptest.ResponseRecorder {
	t.Helper()

	body, err := json.Marshal(payload)
	if err != nil {
		t.Fatalf("marshal payload: %v", err)
	}
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)
	return w
}

func TestRegister(t *testing.T) {
	db := newTestDB(t)
	r := gin.New()
	r.POST("/auth/register", Register(db))

	valid := RegisterRequest{
		FirstName:       "Tərlan",
		LastName:        "Soltanov",
		Phone:           "501234567",
		Password:        "parol1234",
		PasswordConfirm: "parol1234",
	}

	t.Run("success", func(t *testing.T) {
		w := postJSON(t, r, "/auth/register", valid)
		if w.Code != http.StatusCreated {
			t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
		}

		var user models.User
		if err := db.Where("phone = ?", "501234567").First(&user).Error; err != nil {
			t.Fatalf("user not persisted: %v", err)
		}
		if user.Password == "parol1234" {
			t.Fatal("password stored in cleartext")
		}
	})

	t.Run("duplicate phone", func(t *testing.T) {
		w := postJSON(t, r, "/auth/register", valid)
		if w.Code != http.StatusBadRequest {
			t.Fatalf("status = %d, want 400", w.Code)
		}
	})

	t.Run("password mismatch", func(t *testing.T) {
		req := valid
		req.Phone = "551234567"
		req.PasswordConfirm = "başqa1234"
		w := postJSON(t, r, "/auth/register", req)
		if w.Code != http.StatusBadRequest {
			t.Fatalf("status = %d, want 400", w.Code)
		}
	})

	t.Run("invalid phone", func(t *testing.T) {
		req := valid
		req.Phone = "+994501234567"
		w := postJSON(t, r, "/auth/register", req)
		if w.Code != http.StatusBadRequest {
			t.Fatalf("status = %d, want 400", w.Code)
		}
	})
}

func TestSendOTP(t *testing.T) {
	db := newTestDB(t)
	user := models.User{Phone: "501234567", Password: "x"}
	db.Create(&user)

	t.Run("success", func(t *testing.T) {
		sender := &fakeSender{}
		r := gin.New()
		r.POST("/auth/otp/send", SendOTP(db, sender))

		w := postJSON(t, r, "/auth/otp/send", SendOTPRequest{Phone: "501234567"})
		if w.Code != http.StatusOK {
			t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
		}

		if sender.phone != "501234567" {
			t.Errorf("sms sent to %q", sender.phone)
		}

		var fresh models.User
		db.First(&fresh, user.ID)
		if fresh.OTPCode == "" || fresh.OTPExpiresAt == nil {
			t.Fatal("OTP not persisted")
		}
		if !strings.Contains(sender.text, fresh.OTPCode) {
			t.Errorf("sms text %q does not carry the code %q", sender.text, fresh.OTPCode)
		}
		if fresh.OTPTransID != "12345" {
			t.Errorf("OTPTransID = %q, want 12345", fresh.OTPTransID)
		}
	})

	t.Run("unknown phone", func(t *testing.T) {
		r := gin.New()
		r.POST("/auth/otp/send", SendOTP(db, &fakeSender{}))

		w := postJSON(t, r, "/auth/otp/send", SendOTPRequest{Phone: "559999999"})
		if w.Code != http.StatusBadRequest {
			t.Fatalf("status = %d, want 400", w.Code)
		}
	})

	t.Run("gateway failure", func(t *testing.T) {
		r := gin.New()
		r.POST("/auth/otp/send", SendOTP(db, &fakeSender{err: errors.New("down")}))

		w := postJSON(t, r, "/auth/otp/send", SendOTPRequest{Phone: "501234567"})
		if w.Code != http.StatusBadGateway {
			t.Fatalf("status = %d, want 502", w.Code)
		}
	})
}

func TestVerifyOTP(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	db := newTestDB(t)
	user := models.User{Phone: "501234567", Password: "x"}
	code := user.GenerateOTP(time.Now())
	db.Create(&user)

	r := gin.New()
	r.POST("/auth/otp/verify", VerifyOTP(db))

	t.Run("wrong code", func(t *testing.T) {
		wrong := "0000"
		if wrong == code {
			wrong = "0001"
		}
		w := postJSON(t, r, "/auth/otp/verify", VerifyOTPRequest{Phone: "501234567", OTPCode: wrong})
		if w.Code != http.StatusBadRequest {
			t.Fatalf("status = %d, want 400", w.Code)
		}
	})

	t.Run("correct code issues pair", func(t *testing.T) {
		w := postJSON(t, r, "/auth/otp/verify", VerifyOTPRequest{Phone: "501234567", OTPCode: code})
		if w.Code != http.StatusOK {
			t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
		}

		var pair TokenPair
		if err := json.Unmarshal(w.Body.Bytes(), &pair); err != nil {
			t.Fatalf("decode pair: %v", err)
		}
		claims, err := ParseToken(pair.Access, TokenTypeAccess)
		if err != nil {
			t.Fatalf("issued access token invalid: %v", err)
		}
		if claims.UserID != user.ID {
			t.Errorf("claims.UserID = %d, want %d", claims.UserID, user.ID)
		}
	})

	t.Run("code is single use", func(t *testing.T) {
		w := postJSON(t, r, "/auth/otp/verify", VerifyOTPRequest{Phone: "501234567", OTPCode: code})
		if w.Code != http.StatusBadRequest {
			t.Fatalf("status = %d, want 400 on reuse", w.Code)
		}
	})
}

func TestRefreshAndLogout(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	db := newTestDB(t)
	user := models.User{Phone: "501234567", Password: "x"}
	db.Create(&user)

	pair, err := IssueTokenPair(&user)
	if err != nil {
		t.Fatalf("IssueTokenPair() error = %v", err)
	}

	store := newFakeTokenStore()
	r := gin.New()
	r.POST("/auth/token/refresh", Refresh(db, store))
	r.POST("/auth/logout", Logout(store))

	t.Run("refresh issues new access token", func(t *testing.T) {
		w := postJSON(t, r, "/auth/token/refresh", RefreshRequest{Refresh: pair.Refresh})
		if w.Code != http.StatusOK {
			t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
		}

		var resp map[string]string
		json.Unmarshal(w.Body.Bytes(), &resp)
		if _, err := ParseToken(resp["access"], TokenTypeAccess); err != nil {
			t.Fatalf("refreshed access token invalid: %v", err)
		}
	})

	t.Run("access token is not a refresh token", func(t *testing.T) {
		w := postJSON(t, r, "/auth/token/refresh", RefreshRequest{Refresh: pair.Access})
		if w.Code != http.StatusUnauthorized {
			t.Fatalf("status = %d, want 401", w.Code)
		}
	})

	t.Run("logout revokes the refresh token", func(t *testing.T) {
		w := postJSON(t, r, "/auth/logout", RefreshRequest{Refresh: pair.Refresh})
		if w.Code != http.StatusOK {
			t.Fatalf("logout status = %d, body = %s", w.Code, w.Body.String())
		}

		w = postJSON(t, r, "/auth/token/refresh", RefreshRequest{Refresh: pair.Refresh})
		if w.Code != http.StatusUnauthorized {
			t.Fatalf("refresh after logout status = %d, want 401", w.Code)
		}
	})
}
