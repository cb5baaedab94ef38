package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/httprate"
	"github.com/go-chi/jwtauth/v5"
	"github.com/go-playground/validator/v10"
	"github.com/gorilla/csrf"

	"github.com/pbartela/plantour/api/app/account"
	apiinvites "github.com/pbartela/plantour/api/app/invites"
	"github.com/pbartela/plantour/api/app/management"
	apitours "github.com/pbartela/plantour/api/app/tours"
	"github.com/pbartela/plantour/config"
	"github.com/pbartela/plantour/invites"
	"github.com/pbartela/plantour/manage"
	"github.com/pbartela/plantour/tours"
	"github.com/pbartela/plantour/user"

	"go.uber.org/zap"
)

var validate *validator.Validate
var tokenAuth *jwtauth.JWTAuth

func compose(logger *zap.Logger,
	cfg *config.Configuration,
	tourService *tours.Service,
	inviteService *invites.Service,
	profileService *user.Service,
	manageInvites *manage.InviteService,
	manageTours *manage.TourService) (*chi.Mux, error) {
	validate = validator.New()

	// same settings as the magic-link front issuing the session tokens
	tokenAuth = jwtauth.New(
		cfg.Session.Algorithm,
		[]byte(cfg.Session.HMACSigningKey),
		nil,
	)

	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)

	r.Use(loggerMiddleware(logger))

	r.Use(middleware.Recoverer)

	r.Use(middleware.Timeout(50 * time.Second))

	r.Use(jwtauth.Verifier(tokenAuth))

	if cfg.Server.CSRFToken != "" {
		r.Use(csrf.Protect([]byte(cfg.Server.CSRFToken)))
		r.Use(csrfTokenHeader)
	}

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"error":{"code":"not_found","message":"no such route"}}`))
	})

	toursRessource := apitours.NewToursRessource(
		logger.Named("tours_ressource"),
		tourService,
		inviteService,
		validate,
		cfg.Session.Issuer,
		inviteRateLimiter(cfg.RateLimit),
	)
	invitesRessource := apiinvites.NewInvitesRessource(
		logger.Named("invites_ressource"),
		inviteService,
		cfg.Session.Issuer,
	)
	accountRessource := account.NewAccountRessource(
		logger.Named("account_ressource"),
		profileService,
		validate,
		cfg.Session.Issuer,
	)

	if cfg.ManageEndpoint != nil && cfg.ManageEndpoint.Enable {
		manageRessource := management.NewManagementRessource(
			logger.Named("management_ressource"),
			*cfg,
			manageInvites,
			manageTours,
		)
		r.Mount("/manage", manageRessource.Router())
	}

	r.Mount("/tours", toursRessource.Router())

	r.Mount("/invitations", invitesRessource.Router())

	r.Mount("/profile", accountRessource.Router())

	return r, nil
}

// csrfTokenHeader hands the per-request token to clients in a response
// header, there is no rendered page that could carry it
func csrfTokenHeader(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-CSRF-Token", csrf.Token(r))
		next.ServeHTTP(w, r)
	})
}

// inviteRateLimiter throttles invitation sending per signed-in user,
// falling back to the remote address before authentication
func inviteRateLimiter(cfg *config.RateLimitConfiguration) func(http.Handler) http.Handler {
	requests := 10
	window := time.Minute
	if cfg != nil {
		if cfg.InviteRequests > 0 {
			requests = cfg.InviteRequests
		}
		if cfg.InviteWindow > 0 {
			window = cfg.InviteWindow
		}
	}
	return httprate.Limit(
		requests,
		window,
		httprate.WithKeyFuncs(func(r *http.Request) (string, error) {
			token, _, err := jwtauth.FromContext(r.Context())
			if err == nil && token != nil && token.Subject() != "" {
				return token.Subject(), nil
			}
			return httprate.KeyByIP(r)
		}),
		httprate.WithLimitHandler(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusTooManyRequests)
			_, _ = w.Write([]byte(`{"error":{"code":"rate_limited","message":"too many invitations sent, slow down"}}`))
		}),
	)
}
