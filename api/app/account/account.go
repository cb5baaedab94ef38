// Package account exposes the session user's profile endpoints.
package account

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/go-playground/validator/v10"
	"github.com/pbartela/plantour/api/auth"
	"github.com/pbartela/plantour/user"
	"go.uber.org/zap"
)

type AccountRessource struct {
	log            *zap.Logger
	profileService ProfileService
	validate       *validator.Validate
	sessionIssuer  string
}

func NewAccountRessource(
	logger *zap.Logger,
	profileService ProfileService,
	validate *validator.Validate,
	sessionIssuer string,
) *AccountRessource {
	return &AccountRessource{
		log:            logger,
		profileService: profileService,
		validate:       validate,
		sessionIssuer:  sessionIssuer,
	}
}

func (a *AccountRessource) Router() *chi.Mux {
	r := chi.NewRouter()

	r.Use(auth.SessionAuthenticator(a.sessionIssuer))

	r.Get("/", a.profile)
	r.Put("/", a.updateProfile)

	return r
}

func (a *AccountRessource) profile(w http.ResponseWriter, r *http.Request) {
	session, err := auth.FromContext(r.Context())
	if err != nil {
		a.respond(w, r, createError(http.StatusUnauthorized, "unauthorized", "sign in required"))
		return
	}
	profile, err := a.profileService.Profile(r.Context(), session.UserID, session.Email)
	if err != nil {
		a.respondError(w, r, err)
		return
	}
	a.respond(w, r, profileResponseFromTable(profile))
}

func (a *AccountRessource) updateProfile(w http.ResponseWriter, r *http.Request) {
	session, err := auth.FromContext(r.Context())
	if err != nil {
		a.respond(w, r, createError(http.StatusUnauthorized, "unauthorized", "sign in required"))
		return
	}
	var req updateProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.respond(w, r, createError(http.StatusBadRequest, "validation_error", "invalid payload"))
		return
	}
	if err := a.validate.Struct(&req); err != nil {
		a.respond(w, r, createError(http.StatusBadRequest, "validation_error", err.Error()))
		return
	}
	profile, err := a.profileService.UpdateDisplayName(
		r.Context(),
		session.UserID,
		session.Email,
		req.DisplayName,
	)
	if err != nil {
		a.respondError(w, r, err)
		return
	}
	a.respond(w, r, profileResponseFromTable(profile))
}

func (a *AccountRessource) respondError(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, user.ErrNotFound) {
		a.respond(w, r, createError(http.StatusNotFound, "not_found", "profile not found"))
		return
	}
	a.log.Error("unexpected error", zap.Error(err))
	a.respond(w, r, createError(http.StatusInternalServerError, "internal", "something went wrong"))
}

func (a *AccountRessource) respond(w http.ResponseWriter, r *http.Request, v render.Renderer) {
	if err := render.Render(w, r, v); err != nil {
		a.log.Error("unable to render response", zap.Error(err))
	}
}
