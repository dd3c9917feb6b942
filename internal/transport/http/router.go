package http

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/YogeshxSaini/bluestock/internal/application/account"
	"github.com/YogeshxSaini/bluestock/internal/application/auth"
	"github.com/YogeshxSaini/bluestock/internal/application/company"
	"github.com/YogeshxSaini/bluestock/internal/application/media"
	"github.com/YogeshxSaini/bluestock/internal/config"
	"github.com/YogeshxSaini/bluestock/internal/transport/http/handler"
	appmiddleware "github.com/YogeshxSaini/bluestock/internal/transport/http/middleware"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"golang.org/x/time/rate"
)

// Deps holds all infrastructure dependencies for the router.
// Mailer and SMSSender may be nil to disable that delivery channel.
type Deps struct {
	Accounts    AccountRepository
	Companies   CompanyRepository
	Ledger      VerificationLedger
	Identity    IdentityProvider
	Mailer      Mailer
	SMSSender   SMSSender
	Objects     ObjectStore
	MediaRepo   MediaRepository
	JWTProvider TokenProvider
	DB          Pinger
	Storage     Pinger
}

// NewRouter builds and returns the application router. ctx bounds the
// rate limiter's background cleanup.
func NewRouter(ctx context.Context, cfg *config.Config, deps *Deps) http.Handler {
	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	trusted, err := cfg.TrustedProxyPrefixes()
	if err != nil {
		slog.Warn("ignoring invalid trusted proxy entries", "err", err)
	}
	sensitiveRL := appmiddleware.NewRateLimiter(ctx, rate.Limit(cfg.RateLimitRPS), cfg.RateLimitBurst, trusted)
	authMw := appmiddleware.Auth(deps.JWTProvider)

	authSvc := auth.NewService(auth.ServiceDeps{
		Accounts:      deps.Accounts,
		Ledger:        deps.Ledger,
		Provider:      deps.Identity,
		Mailer:        deps.Mailer,
		SMSSender:     deps.SMSSender,
		Signer:        deps.JWTProvider,
		PublicBaseURL: cfg.PublicBaseURL,
		EchoSecrets:   !cfg.IsProduction(),
		BcryptCost:    cfg.BcryptCost,
	})
	accountSvc := account.NewService(account.ServiceDeps{
		Accounts:   deps.Accounts,
		Ledger:     deps.Ledger,
		BcryptCost: cfg.BcryptCost,
	})
	mediaSvc := media.NewService(deps.Objects, deps.MediaRepo, cfg.MaxFileSize)
	companySvc := company.NewService(deps.Companies, mediaSvc)

	healthH := handler.NewHealthHandler(deps.DB, map[string]handler.Pinger{
		"ledger":  deps.Ledger,
		"storage": deps.Storage,
	})
	authH := handler.NewAuthHandler(authSvc)
	accountH := handler.NewAccountHandler(accountSvc)
	companyH := handler.NewCompanyHandler(companySvc, cfg.MaxFileSize)

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", healthH.Check)

		r.Route("/auth", func(r chi.Router) {
			r.With(sensitiveRL.Limit).Post("/register", authH.Register)
			r.With(sensitiveRL.Limit).Post("/login", authH.Login)
			r.With(sensitiveRL.Limit).Post("/send-otp", authH.SendOTP)
			r.With(sensitiveRL.Limit).Post("/verify-mobile", authH.VerifyMobile)
			r.Get("/verify-email", authH.VerifyEmail)

			r.Group(func(r chi.Router) {
				r.Use(authMw)
				r.Get("/me", accountH.Me)
				r.Put("/me", accountH.UpdateProfile)
				r.Put("/phone", accountH.UpdatePhone)
				r.Put("/password", accountH.ChangePassword)
				r.Post("/resend-verification", authH.ResendVerification)
			})
		})

		r.Route("/company", func(r chi.Router) {
			r.Use(authMw)
			r.Post("/register", companyH.Register)
			r.Get("/profile", companyH.Profile)
			r.Put("/profile", companyH.Update)
			r.Post("/upload-logo", companyH.UploadLogo)
			r.Post("/upload-banner", companyH.UploadBanner)
			r.Get("/media", companyH.Media)
		})
	})

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) { handler.NotFound(w) })
	return r
}
