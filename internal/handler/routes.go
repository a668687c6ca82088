package handler

import (
	"context"
	"net/http"

	"github.com/rs/zerolog"
	"github.com/tinggo/tinggo/internal/domain"
	"github.com/tinggo/tinggo/internal/service"
)

// Services are the application services the HTTP layer calls into.
type Services struct {
	Auth       *service.AuthService
	Profiles   *service.ProfileService
	Dashboards *service.DashboardService
	// Limiter throttles the credential forms; nil disables throttling.
	Limiter *service.TokenBucket
	// Ping checks the local store for /healthz.
	Ping func(context.Context) error
}

// Options configure the request middleware.
type Options struct {
	CookieSecure    bool
	AllowedHosts    []string
	DefaultLanguage domain.Language
}

// New builds the complete HTTP handler: routes wrapped in request logging,
// host checking, security headers, locale selection and flash messages.
func New(svc Services, opts Options, logger zerolog.Logger) http.Handler {
	mux := http.NewServeMux()
	RegisterRoutes(mux, svc, opts.CookieSecure)

	c := cookies{secure: opts.CookieSecure}
	var h http.Handler = mux
	h = c.Flash(h)
	h = c.Locale(opts.DefaultLanguage, h)
	h = SecurityHeaders(h)
	h = AllowedHosts(opts.AllowedHosts)(h)
	return RequestLogger(logger)(h)
}

// RegisterRoutes sets up all HTTP routes on the given mux.
func RegisterRoutes(mux *http.ServeMux, svc Services, cookieSecure bool) {
	authHandler := NewAuthHandler(svc.Auth, cookieSecure)
	profileHandler := NewProfileHandler(svc.Profiles, cookieSecure)
	dashboardHandler := NewDashboardHandler(svc.Dashboards, cookieSecure)

	optional := func(h http.HandlerFunc) http.Handler { return OptionalAuth(svc.Auth, h) }
	protected := func(h http.HandlerFunc) http.Handler { return RequireAuth(svc.Auth, h) }
	limited := func(h http.HandlerFunc) http.Handler {
		if svc.Limiter == nil {
			return h
		}
		return RateLimit(svc.Limiter, h)
	}

	mux.HandleFunc("GET /healthz", HandleHealthz(svc.Ping))
	mux.Handle("GET /", optional(HandleHome))

	mux.Handle("GET /accounts/register", optional(authHandler.HandleRegisterPage))
	mux.Handle("POST /accounts/register", limited(authHandler.HandleRegister))
	mux.Handle("GET /accounts/login", optional(authHandler.HandleLoginPage))
	mux.Handle("POST /accounts/login", limited(authHandler.HandleLogin))
	mux.HandleFunc("GET /accounts/logout", authHandler.HandleLogout)
	mux.HandleFunc("POST /accounts/logout", authHandler.HandleLogout)
	mux.Handle("GET /accounts/password-reset", optional(authHandler.HandlePasswordResetPage))
	mux.Handle("POST /accounts/password-reset", limited(authHandler.HandlePasswordReset))
	mux.Handle("GET /accounts/password-change", protected(authHandler.HandlePasswordChangePage))
	mux.Handle("POST /accounts/password-change", protected(authHandler.HandlePasswordChange))

	mux.Handle("GET /accounts/profile", protected(profileHandler.HandleProfilePage))
	mux.Handle("POST /accounts/profile", protected(profileHandler.HandleProfileUpdate))
	mux.Handle("GET /avatars/{id}", protected(profileHandler.HandleAvatar))

	mux.Handle("GET /accounts/dashboard", protected(dashboardHandler.HandleDispatch))
	mux.Handle("GET /accounts/admin-dashboard", protected(dashboardHandler.HandleAdmin))
	mux.Handle("GET /accounts/admin-dashboard/users", protected(dashboardHandler.HandleAdminUsers))
	for _, role := range []domain.Role{domain.RoleOrganizer, domain.RoleParticipant, domain.RoleVendor, domain.RoleHost} {
		mux.Handle("GET "+DashboardPath(role), protected(dashboardHandler.HandleRole(role)))
	}
}
