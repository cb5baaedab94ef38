// Package tours exposes the authenticated tour endpoints.
package tours

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/pbartela/plantour/api/auth"
	"github.com/pbartela/plantour/invites"
	"github.com/pbartela/plantour/sanitize"
	tourservice "github.com/pbartela/plantour/tours"
	"go.uber.org/zap"
)

type ToursRessource struct {
	log           *zap.Logger
	tourService   TourService
	inviteService InviteSender
	validate      *validator.Validate
	sessionIssuer string
	inviteLimiter func(http.Handler) http.Handler
}

func NewToursRessource(
	logger *zap.Logger,
	tourService TourService,
	inviteService InviteSender,
	validate *validator.Validate,
	sessionIssuer string,
	inviteLimiter func(http.Handler) http.Handler,
) *ToursRessource {
	return &ToursRessource{
		log:           logger,
		tourService:   tourService,
		inviteService: inviteService,
		validate:      validate,
		sessionIssuer: sessionIssuer,
		inviteLimiter: inviteLimiter,
	}
}

func (t *ToursRessource) Router() *chi.Mux {
	r := chi.NewRouter()

	r.Use(auth.SessionAuthenticator(t.sessionIssuer))

	r.Post("/", t.create)
	r.Get("/", t.list)
	r.Get("/{id}", t.byID)
	r.Post("/{id}/archive", t.archive)
	r.Post("/{id}/unarchive", t.unarchive)
	r.With(t.inviteLimiter).Post("/{id}/invitations", t.sendInvites)

	return r
}

func (t *ToursRessource) create(w http.ResponseWriter, r *http.Request) {
	session, err := auth.FromContext(r.Context())
	if err != nil {
		t.unauthorized(w, r)
		return
	}
	var req createTourRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		t.respond(w, r, createError(http.StatusBadRequest, "validation_error", "invalid payload"))
		return
	}
	if err := t.validate.Struct(&req); err != nil {
		t.respond(w, r, createError(http.StatusBadRequest, "validation_error", err.Error()))
		return
	}
	id, err := t.tourService.Create(r.Context(), session.UserID, req.Title, req.Description)
	if err != nil {
		t.respondError(w, r, err)
		return
	}
	tour, err := t.tourService.ByID(r.Context(), id, session.UserID)
	if err != nil {
		t.respondError(w, r, err)
		return
	}
	render.Status(r, http.StatusCreated)
	t.respond(w, r, tourResponseFromTable(tour))
}

func (t *ToursRessource) list(w http.ResponseWriter, r *http.Request) {
	session, err := auth.FromContext(r.Context())
	if err != nil {
		t.unauthorized(w, r)
		return
	}
	tours, err := t.tourService.ForUser(r.Context(), session.UserID)
	if err != nil {
		t.respondError(w, r, err)
		return
	}
	res := make([]*tourResponse, 0, len(tours))
	for _, tour := range tours {
		res = append(res, tourResponseFromTable(tour))
	}
	render.Respond(w, r, res)
}

func (t *ToursRessource) byID(w http.ResponseWriter, r *http.Request) {
	session, err := auth.FromContext(r.Context())
	if err != nil {
		t.unauthorized(w, r)
		return
	}
	id, ok := t.tourID(w, r)
	if !ok {
		return
	}
	tour, err := t.tourService.ByID(r.Context(), id, session.UserID)
	if err != nil {
		t.respondError(w, r, err)
		return
	}
	t.respond(w, r, tourResponseFromTable(tour))
}

func (t *ToursRessource) archive(w http.ResponseWriter, r *http.Request) {
	t.setStatus(w, r, true)
}

func (t *ToursRessource) unarchive(w http.ResponseWriter, r *http.Request) {
	t.setStatus(w, r, false)
}

func (t *ToursRessource) setStatus(w http.ResponseWriter, r *http.Request, archive bool) {
	session, err := auth.FromContext(r.Context())
	if err != nil {
		t.unauthorized(w, r)
		return
	}
	id, ok := t.tourID(w, r)
	if !ok {
		return
	}
	if archive {
		err = t.tourService.Archive(r.Context(), id, session.UserID)
	} else {
		err = t.tourService.Unarchive(r.Context(), id, session.UserID)
	}
	if err != nil {
		t.respondError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (t *ToursRessource) sendInvites(w http.ResponseWriter, r *http.Request) {
	session, err := auth.FromContext(r.Context())
	if err != nil {
		t.unauthorized(w, r)
		return
	}
	id, ok := t.tourID(w, r)
	if !ok {
		return
	}
	var req sendInvitesRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		t.respond(w, r, createError(http.StatusBadRequest, "validation_error", "invalid payload"))
		return
	}
	if err := t.validate.Struct(&req); err != nil {
		t.respond(w, r, createError(http.StatusBadRequest, "validation_error", err.Error()))
		return
	}
	result, err := t.inviteService.Send(r.Context(), id, session.UserID, req.Recipients)
	if err != nil {
		t.respondError(w, r, err)
		return
	}
	t.respond(w, r, sendInvitesResponseFromResult(result))
}

func (t *ToursRessource) tourID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	raw := chi.URLParam(r, "id")
	id, err := uuid.Parse(raw)
	if err != nil {
		t.log.Debug("malformed tour id", sanitize.UserInputString("id", raw))
		t.respond(w, r, createError(http.StatusNotFound, "not_found", "tour not found"))
		return uuid.Nil, false
	}
	return id, true
}

func (t *ToursRessource) unauthorized(w http.ResponseWriter, r *http.Request) {
	t.respond(w, r, createError(http.StatusUnauthorized, "unauthorized", "sign in required"))
}

func (t *ToursRessource) respondError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, tourservice.ErrNotFound):
		t.respond(w, r, createError(http.StatusNotFound, "not_found", "tour not found"))
	case errors.Is(err, tourservice.ErrArchived):
		t.respond(w, r, createError(http.StatusConflict, "tour_archived", "tour is archived and read-only"))
	case errors.Is(err, invites.ErrForbidden):
		t.respond(w, r, createError(http.StatusForbidden, "forbidden", "not a participant of this tour"))
	case errors.Is(err, invites.ErrNotFound):
		t.respond(w, r, createError(http.StatusNotFound, "not_found", "tour not found"))
	case errors.Is(err, invites.ErrRecipientsTooLong):
		t.respond(w, r, createError(http.StatusBadRequest, "validation_error", "recipient input exceeds the allowed length"))
	case errors.Is(err, invites.ErrTooManyRecipients):
		t.respond(w, r, createError(http.StatusBadRequest, "validation_error", "too many recipients in one batch"))
	default:
		t.log.Error("unexpected error", zap.Error(err))
		t.respond(w, r, createError(http.StatusInternalServerError, "internal", "something went wrong"))
	}
}

func (t *ToursRessource) respond(w http.ResponseWriter, r *http.Request, v render.Renderer) {
	if err := render.Render(w, r, v); err != nil {
		t.log.Error("unable to render response", zap.Error(err))
	}
}
