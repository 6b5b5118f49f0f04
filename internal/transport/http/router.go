package http

import (
	"net/http"

	"github.com/go-auth-api/internal/application/auth"
	"github.com/go-auth-api/internal/application/session"
	"github.com/go-auth-api/internal/application/user"
	"github.com/go-auth-api/internal/config"
	"github.com/go-auth-api/internal/transport/http/handler"
	appmiddleware "github.com/go-auth-api/internal/transport/http/middleware"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"golang.org/x/time/rate"
)

// NewRouter builds and returns the application router.
func NewRouter(cfg *config.Config, deps *Deps) http.Handler {
	r := chi.NewRouter()
	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.RequestID)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: cfg.AllowedOrigins,
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type"},
		// The browser client authenticates via the session cookie.
		AllowCredentials: true,
		MaxAge:           300,
	}))

	authMw := appmiddleware.Auth(deps.JWTProvider)

	// 5 requests/second, burst of 10 — applied to sensitive public endpoints.
	sensitiveRL := appmiddleware.NewRateLimiter(rate.Limit(5), 10)

	userSvc := user.NewService(deps.UserRepo, deps.JWTProvider, cfg.StoreTimeout)
	sessionSvc := session.NewService(deps.UserRepo, deps.JWTProvider, cfg.StoreTimeout)
	authSvc := auth.NewService(auth.ServiceDeps{
		VerificationRepo: deps.VerificationRepo,
		UserRepo:         deps.UserRepo,
		Mailer:           deps.Mailer,
		SMSSender:        deps.SMSSender,
		OTPExpiry:        cfg.OTPExpiry,
		StoreTimeout:     cfg.StoreTimeout,
	})

	cookies := handler.NewCookieWriter(cfg.IsProduction(), cfg.JWTExpiry)

	healthH := handler.NewHealthHandler()
	accountH := handler.NewAccountHandler(userSvc, sessionSvc, cookies)
	resetH := handler.NewPasswordResetHandler(authSvc)
	verifyH := handler.NewEmailVerifyHandler(authSvc)

	r.Get("/health-check", healthH.Ping)

	r.Route("/api", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			// ── Public routes (no auth) ──────────────────────────────────
			r.With(sensitiveRL.Limit).Post("/register", accountH.Register)
			r.With(sensitiveRL.Limit).Post("/login", accountH.Login)
			r.Post("/logout", accountH.Logout)
			r.With(sensitiveRL.Limit).Post("/send-reset-otp", resetH.SendOTP)
			r.With(sensitiveRL.Limit).Post("/verify-reset-otp", resetH.VerifyOTP)
			r.With(sensitiveRL.Limit).Post("/reset-password", resetH.ResetPassword)

			// ── Authenticated routes ─────────────────────────────────────
			r.Group(func(r chi.Router) {
				r.Use(authMw)
				r.Get("/is-auth", accountH.IsAuth)
				r.Post("/send-verify-otp", verifyH.SendOTP)
				r.Post("/verify-account", verifyH.VerifyAccount)
			})
		})

		r.Route("/user", func(r chi.Router) {
			r.Use(authMw)
			r.Get("/data", accountH.Data)
		})
	})

	return r
}
