/*
Package handler provides the HTTP handlers and routing setup for the Convlo server.

This file defines the main Router, applying middleware for CORS, request ids,
logging, panic recovery, metrics and IP-based rate limiting before delegating
requests to the auth and chat handlers.
*/
package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/cors"
	"golang.org/x/time/rate"

	"convlo/internal/pkg/auth/jwt"
	"convlo/internal/pkg/limiter"
	"convlo/internal/pkg/logx"
	"convlo/internal/pkg/metrics"
	"convlo/internal/pkg/resp"
)

const (
	AuthRate  = 0.5
	AuthBurst = 10
)

// Router sets up the main HTTP routing table. The returned stop function
// releases the rate limiters' background sweeps.
func Router(deps *AppDeps) (http.Handler, func()) {
	createLimiter := limiter.NewIPRateLimiter(rate.Limit(deps.Config.CreateRate), deps.Config.CreateBurst)
	authLimiter := limiter.NewIPRateLimiter(rate.Limit(AuthRate), AuthBurst)

	r := chi.NewRouter()

	corsAllowedOrigins := []string{}
	if deps.Config.IsDevelopment() {
		corsAllowedOrigins = []string{"*"}
	} else if len(deps.Config.AllowedOrigins) > 0 {
		corsAllowedOrigins = deps.Config.AllowedOrigins
	}

	c := cors.New(cors.Options{
		AllowedOrigins:   corsAllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{},
		AllowCredentials: true,
		MaxAge:           300,
	})
	r.Use(c.Handler)

	r.Use(middleware.RequestID)
	if deps.Config.TrustProxy {
		r.Use(middleware.RealIP)
	}
	r.Use(logx.RequestLogger())
	r.Use(middleware.Recoverer)
	r.Use(metrics.Middleware)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		resp.RespondSuccess(w, r, "ok", map[string]string{
			"status":  "ok",
			"service": "Convlo Server",
		})
	})
	r.Method(http.MethodGet, "/metrics", metrics.Handler())

	r.Route("/api/auth", func(auth chi.Router) {
		auth.Use(jwt.IdentityExtractorMiddleware(deps.Config.JWTSecret))

		auth.With(authLimiter.Middleware).Post("/register", HandleRegister(deps))
		auth.With(authLimiter.Middleware).Post("/login", HandleLogin(deps))
		auth.With(jwt.RequireIdentity).Get("/me", HandleGetMe(deps))
	})

	r.Route("/home/chat", func(home chi.Router) {
		home.Use(jwt.IdentityExtractorMiddleware(deps.Config.JWTSecret))
		home.Use(jwt.RequireIdentity)

		home.With(createLimiter.Middleware).Post("/", HandleCreateChat(deps))
		home.Get("/user", HandleListUserChats(deps))
		home.Post("/addUser", HandleAddUserToChat(deps))
		home.Post("/leave", HandleLeaveChat(deps))
		home.Post("/delete", HandleDeleteChat(deps))
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		resp.Write(w, r, resp.Error(http.StatusNotFound, "資源不存在"))
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		resp.Write(w, r, resp.Error(http.StatusMethodNotAllowed, "不支援的請求方法"))
	})

	stop := func() {
		createLimiter.Close()
		authLimiter.Close()
	}
	return r, stop
}
