package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/askmebuddy/askmebuddy-api/internal/config"
	"github.com/askmebuddy/askmebuddy-api/internal/models"
	"github.com/golang-jwt/jwt/v5"
)

func okHandler(seen **uint) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		*seen = UserIDFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	})
}

func tokenExpiringIn(t *testing.T, secret string, userID uint, d time.Duration) string {
	t.Helper()
	claims := jwt.MapClaims{
		"user_id": userID,
		"exp":     time.Now().Add(d).Unix(),
	}
	s, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	if err != nil {
		t.Fatalf("failed to sign token: %v", err)
	}
	return s
}

func TestAuthMiddleware_SlidingSession(t *testing.T) {
	cfg := &config.Config{JWTSecret: "test-secret"}
	handler := NewAuthHandler(cfg, nil, nil)

	t.Run("TokenRenewed", func(t *testing.T) {
		tokenString := tokenExpiringIn(t, cfg.JWTSecret, 1, 11*time.Hour)

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.AddCookie(&http.Cookie{Name: TokenCookieName, Value: tokenString})
		rr := httptest.NewRecorder()

		var seen *uint
		handler.AuthMiddleware(okHandler(&seen)).ServeHTTP(rr, req)

		if rr.Code != http.StatusOK {
			t.Fatalf("expected status OK, got %v", rr.Code)
		}
		if seen == nil || *seen != 1 {
			t.Fatalf("expected user 1 in context, got %v", seen)
		}

		found := false
		for _, c := range rr.Result().Cookies() {
			if c.Name == TokenCookieName {
				found = true
				if c.Value == tokenString {
					t.Errorf("expected new token value, but got the old one")
				}
			}
		}
		if !found {
			t.Errorf("expected new auth_token cookie to be set")
		}
	})

	t.Run("TokenNotRenewed", func(t *testing.T) {
		tokenString := tokenExpiringIn(t, cfg.JWTSecret, 1, 13*time.Hour)

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.AddCookie(&http.Cookie{Name: TokenCookieName, Value: tokenString})
		rr := httptest.NewRecorder()

		var seen *uint
		handler.AuthMiddleware(okHandler(&seen)).ServeHTTP(rr, req)

		if rr.Code != http.StatusOK {
			t.Fatalf("expected status OK, got %v", rr.Code)
		}
		if len(rr.Result().Cookies()) != 0 {
			t.Errorf("expected no cookie refresh, got %v", rr.Result().Cookies())
		}
	})

	t.Run("NoToken", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		rr := httptest.NewRecorder()

		var seen *uint
		handler.AuthMiddleware(okHandler(&seen)).ServeHTTP(rr, req)

		if rr.Code != http.StatusUnauthorized {
			t.Errorf("expected status 401, got %v", rr.Code)
		}
	})
}

func TestOptionalAuthMiddleware(t *testing.T) {
	cfg := &config.Config{JWTSecret: "test-secret"}
	handler := NewAuthHandler(cfg, nil, nil)

	t.Run("Guest", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		rr := httptest.NewRecorder()

		var seen *uint
		handler.OptionalAuthMiddleware(okHandler(&seen)).ServeHTTP(rr, req)

		if rr.Code != http.StatusOK {
			t.Fatalf("expected status OK, got %v", rr.Code)
		}
		if seen != nil {
			t.Errorf("expected no user for guest, got %d", *seen)
		}
	})

	t.Run("InvalidTokenIsGuest", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.AddCookie(&http.Cookie{Name: TokenCookieName, Value: "nope"})
		rr := httptest.NewRecorder()

		var seen *uint
		handler.OptionalAuthMiddleware(okHandler(&seen)).ServeHTTP(rr, req)

		if seen != nil {
			t.Errorf("expected no user for invalid token, got %d", *seen)
		}
	})

	t.Run("Authenticated", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.AddCookie(&http.Cookie{Name: TokenCookieName, Value: tokenExpiringIn(t, cfg.JWTSecret, 7, 20*time.Hour)})
		rr := httptest.NewRecorder()

		var seen *uint
		handler.OptionalAuthMiddleware(okHandler(&seen)).ServeHTTP(rr, req)

		if seen == nil || *seen != 7 {
			t.Errorf("expected user 7, got %v", seen)
		}
	})
}

func TestAuthMiddleware_APIKey(t *testing.T) {
	db := newTestDB(t)
	user := models.User{DiscordID: "1", Username: "parent"}
	db.Create(&user)

	past := time.Now().Add(-time.Hour)
	db.Create(&models.APIKey{UserID: user.ID, Key: "valid-key", DeviceName: "tablet"})
	db.Create(&models.APIKey{UserID: user.ID, Key: "old-key", DeviceName: "phone", ExpiresAt: &past})

	handler := NewAuthHandler(&config.Config{JWTSecret: "test-secret"}, db, nil)

	t.Run("Valid", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("X-API-KEY", "valid-key")
		rr := httptest.NewRecorder()

		var seen *uint
		handler.AuthMiddleware(okHandler(&seen)).ServeHTTP(rr, req)

		if rr.Code != http.StatusOK {
			t.Fatalf("expected status OK, got %v", rr.Code)
		}
		if seen == nil || *seen != user.ID {
			t.Fatalf("expected user %d, got %v", user.ID, seen)
		}

		var key models.APIKey
		db.Where("key = ?", "valid-key").First(&key)
		if key.LastUsedAt == nil {
			t.Errorf("expected last_used_at to be recorded")
		}
	})

	t.Run("Expired", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("X-API-KEY", "old-key")
		rr := httptest.NewRecorder()

		var seen *uint
		handler.AuthMiddleware(okHandler(&seen)).ServeHTTP(rr, req)

		if rr.Code != http.StatusUnauthorized {
			t.Errorf("expected status 401, got %v", rr.Code)
		}
	})
}
