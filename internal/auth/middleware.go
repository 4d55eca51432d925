package auth

import (
	"context"
	"net/http"
	"time"
)

type contextKey string

const UserIDKey contextKey = "user_id"

// UserIDFromContext returns the authenticated user, or nil for guests.
func UserIDFromContext(ctx context.Context) *uint {
	id, ok := ctx.Value(UserIDKey).(uint)
	if !ok || id == 0 {
		return nil
	}
	return &id
}

// authenticate checks the X-API-KEY header first and the session cookie
// second. It refreshes the cookie when less than half its lifetime is left.
func (h *AuthHandler) authenticate(w http.ResponseWriter, r *http.Request) (uint, bool) {
	if apiKey := r.Header.Get("X-API-KEY"); apiKey != "" {
		if userID, err := h.lookupAPIKey(r.Context(), apiKey); err == nil {
			return userID, true
		}
	}

	cookie, err := r.Cookie(TokenCookieName)
	if err != nil {
		return 0, false
	}
	userID, exp, err := h.ParseToken(cookie.Value)
	if err != nil {
		return 0, false
	}

	if time.Until(exp) < TokenDuration/2 {
		if fresh, err := h.GenerateToken(userID); err == nil {
			h.setTokenCookie(w, fresh)
		}
	}
	return userID, true
}

// AuthMiddleware rejects requests without a valid API key or session.
func (h *AuthHandler) AuthMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userID, ok := h.authenticate(w, r)
		if !ok {
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}
		ctx := context.WithValue(r.Context(), UserIDKey, userID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// OptionalAuthMiddleware attaches the user when credentials are valid and
// lets guests through otherwise.
func (h *AuthHandler) OptionalAuthMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if userID, ok := h.authenticate(w, r); ok {
			r = r.WithContext(context.WithValue(r.Context(), UserIDKey, userID))
		}
		next.ServeHTTP(w, r)
	})
}
