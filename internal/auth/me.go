package auth

import (
	"context"
	"net/http"

	"github.com/askmebuddy/askmebuddy-api/internal/models"
	"github.com/danielgtaylor/huma/v2"
)

// AuthInput lets huma operations accept the session cookie directly, for
// callers that bypass the middleware.
type AuthInput struct {
	Cookie string `header:"Cookie" doc:"Session cookie (auth_token)"`
}

// Authorize returns the user from the request context or, failing that, from
// the auth_token cookie in cookieHeader.
func (h *AuthHandler) Authorize(ctx context.Context, cookieHeader string) (uint, error) {
	if id := UserIDFromContext(ctx); id != nil {
		return *id, nil
	}
	if cookieHeader == "" {
		return 0, huma.Error401Unauthorized("Unauthorized")
	}

	req := http.Request{Header: http.Header{"Cookie": []string{cookieHeader}}}
	cookie, err := req.Cookie(TokenCookieName)
	if err != nil {
		return 0, huma.Error401Unauthorized("Unauthorized: No token found")
	}
	userID, _, err := h.ParseToken(cookie.Value)
	if err != nil {
		return 0, huma.Error401Unauthorized("Unauthorized: Invalid token")
	}
	return userID, nil
}

type MeResponse struct {
	Body struct {
		ID          uint   `json:"id"`
		Username    string `json:"username"`
		DisplayName string `json:"displayName"`
		Email       string `json:"email"`
		Avatar      string `json:"avatar"`
	}
}

func (h *AuthHandler) HandleMe(ctx context.Context, input *AuthInput) (*MeResponse, error) {
	userID, err := h.Authorize(ctx, input.Cookie)
	if err != nil {
		return nil, err
	}

	var user models.User
	if err := h.db.WithContext(ctx).First(&user, userID).Error; err != nil {
		return nil, huma.Error404NotFound("User not found")
	}

	res := &MeResponse{}
	res.Body.ID = user.ID
	res.Body.Username = user.Username
	res.Body.DisplayName = user.DisplayName
	res.Body.Email = user.Email
	res.Body.Avatar = user.Avatar
	return res, nil
}
