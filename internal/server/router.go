package server

import (
	"crypto/subtle"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	sessionhttp "attn/internal/modules/session/adapter/in"
	sessionin "attn/internal/modules/session/port/in"
	statshttp "attn/internal/modules/stats/adapter/in"
	statsin "attn/internal/modules/stats/port/in"
	"attn/internal/platform/web"
)

// NewRouter wires the REST surface. An empty token disables the auth gate.
func NewRouter(sessions sessionin.Usecase, stats statsin.Usecase, token string) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Route("/api", func(api chi.Router) {
		api.Use(BearerAuth(token))
		sessionhttp.NewHTTPHandler(sessions).RegisterRoutes(api)
		statshttp.NewHTTPHandler(stats).RegisterRoutes(api)
	})

	return r
}

// BearerAuth checks the single shared credential on every /api request.
func BearerAuth(token string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if token == "" {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			got := strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")
			if subtle.ConstantTimeCompare([]byte(got), []byte(token)) != 1 {
				web.RespondError(w, http.StatusUnauthorized, web.CodeUnauthorized, "missing or invalid token")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
