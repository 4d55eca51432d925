package handlers

import (
	"net/http"

	"github.com/askmebuddy/askmebuddy-api/internal/auth"
	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

type Handlers struct {
	Auth      *auth.AuthHandler
	Ask       *AskHandler
	Questions *QuestionHandler
	Badges    *BadgeHandler
	APIKeys   *APIKeyHandler
	AudioDir  string

	// CORSOrigin enables credentialed cross-origin requests from one origin.
	CORSOrigin string
}

func corsMiddleware(origin string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Set("Access-Control-Allow-Credentials", "true")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type, X-API-KEY")
			w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PATCH, DELETE, OPTIONS")
			w.Header().Add("Vary", "Origin")
			if r.Method == http.MethodOptions {
				w.WriteHeader(http.StatusNoContent)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func cookieAuth(o *huma.Operation) {
	o.Security = []map[string][]string{{"cookieAuth": {}}, {"apiKeyAuth": {}}}
}

func RegisterRoutes(r chi.Router, h Handlers) huma.API {
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	if h.CORSOrigin != "" {
		r.Use(corsMiddleware(h.CORSOrigin))
	}

	config := huma.DefaultConfig("AskMeBuddy API", "1.0.0")
	config.Components.SecuritySchemes = map[string]*huma.SecurityScheme{
		"cookieAuth": {
			Type: "apiKey",
			In:   "cookie",
			Name: auth.TokenCookieName,
		},
		"apiKeyAuth": {
			Type: "apiKey",
			In:   "header",
			Name: "X-API-KEY",
		},
	}

	// Optional auth on every API route; guests may ask questions and
	// operations that need a user call Authorize.
	r.Use(h.Auth.OptionalAuthMiddleware)
	api := humachi.New(r, config)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("OK"))
	})
	r.Get("/audio/{file}", AudioHandler(h.AudioDir))

	r.Get("/auth/discord/login", h.Auth.HandleLogin)
	r.Get("/auth/discord/callback", h.Auth.HandleCallback)

	huma.Get(api, "/me", h.Auth.HandleMe, cookieAuth)

	huma.Post(api, "/api/ask", h.Ask.HandleAsk)
	huma.Get(api, "/api/questions/recent", h.Questions.HandleRecent)
	huma.Get(api, "/api/questions/mine", h.Questions.HandleMine, cookieAuth)

	huma.Get(api, "/api/badges", h.Badges.HandleCollection)
	huma.Get(api, "/api/badges/earned", h.Badges.HandleEarned, cookieAuth)
	huma.Patch(api, "/api/badges/{badgeId}", h.Badges.HandleUpdate, cookieAuth)

	huma.Post(api, "/api-keys", h.APIKeys.HandleCreate, cookieAuth)
	huma.Get(api, "/api-keys", h.APIKeys.HandleList, cookieAuth)
	huma.Delete(api, "/api-keys/{id}", h.APIKeys.HandleDelete, cookieAuth)

	return api
}
