// Package invites exposes the invitation endpoints. Fetch-by-token is
// the only public route, everything else requires a session.
package invites

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/google/uuid"
	"github.com/pbartela/plantour/api/auth"
	inviteservice "github.com/pbartela/plantour/invites"
	"github.com/pbartela/plantour/sanitize"
	tourservice "github.com/pbartela/plantour/tours"
	"go.uber.org/zap"
)

type InvitesRessource struct {
	log           *zap.Logger
	inviteService InviteService
	sessionIssuer string
}

func NewInvitesRessource(
	logger *zap.Logger,
	inviteService InviteService,
	sessionIssuer string,
) *InvitesRessource {
	return &InvitesRessource{
		log:           logger,
		inviteService: inviteService,
		sessionIssuer: sessionIssuer,
	}
}

func (i *InvitesRessource) Router() *chi.Mux {
	r := chi.NewRouter()

	// the invite landing page resolves the token before sign-in
	r.Get("/{token}", i.byToken)

	r.Group(func(gr chi.Router) {
		gr.Use(auth.SessionAuthenticator(i.sessionIssuer))
		gr.Get("/pending", i.pending)
		gr.Post("/{id}/accept", i.accept)
		gr.Post("/{id}/decline", i.decline)
		gr.Post("/{id}/resend", i.resend)
		gr.Delete("/{id}", i.cancel)
	})

	return r
}

func (i *InvitesRessource) byToken(w http.ResponseWriter, r *http.Request) {
	token := chi.URLParam(r, "token")
	view, err := i.inviteService.ByToken(r.Context(), token)
	if err != nil {
		i.respondError(w, r, err)
		return
	}
	i.respond(w, r, invitationResponseFromView(view))
}

func (i *InvitesRessource) pending(w http.ResponseWriter, r *http.Request) {
	session, err := auth.FromContext(r.Context())
	if err != nil {
		i.unauthorized(w, r)
		return
	}
	views, err := i.inviteService.PendingForEmail(r.Context(), session.Email)
	if err != nil {
		i.respondError(w, r, err)
		return
	}
	res := make([]*invitationResponse, 0, len(views))
	for _, v := range views {
		res = append(res, invitationResponseFromView(v))
	}
	render.Respond(w, r, res)
}

func (i *InvitesRessource) accept(w http.ResponseWriter, r *http.Request) {
	session, err := auth.FromContext(r.Context())
	if err != nil {
		i.unauthorized(w, r)
		return
	}
	id, ok := i.invitationID(w, r)
	if !ok {
		return
	}
	already, err := i.inviteService.Accept(
		r.Context(),
		id,
		i.optionalToken(r),
		session.UserID,
		session.Email,
	)
	if err != nil {
		i.respondError(w, r, err)
		return
	}
	i.respond(w, r, &acceptResponse{AlreadyParticipant: already})
}

func (i *InvitesRessource) decline(w http.ResponseWriter, r *http.Request) {
	session, err := auth.FromContext(r.Context())
	if err != nil {
		i.unauthorized(w, r)
		return
	}
	id, ok := i.invitationID(w, r)
	if !ok {
		return
	}
	err = i.inviteService.Decline(
		r.Context(),
		id,
		i.optionalToken(r),
		session.UserID,
		session.Email,
	)
	if err != nil {
		i.respondError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (i *InvitesRessource) cancel(w http.ResponseWriter, r *http.Request) {
	session, err := auth.FromContext(r.Context())
	if err != nil {
		i.unauthorized(w, r)
		return
	}
	id, ok := i.invitationID(w, r)
	if !ok {
		return
	}
	if err := i.inviteService.Cancel(r.Context(), id, session.UserID); err != nil {
		i.respondError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (i *InvitesRessource) resend(w http.ResponseWriter, r *http.Request) {
	session, err := auth.FromContext(r.Context())
	if err != nil {
		i.unauthorized(w, r)
		return
	}
	id, ok := i.invitationID(w, r)
	if !ok {
		return
	}
	if err := i.inviteService.Resend(r.Context(), id, session.UserID); err != nil {
		i.respondError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// optionalToken reads the caller-supplied token, the body may be empty
func (i *InvitesRessource) optionalToken(r *http.Request) string {
	var req actionRequest
	err := json.NewDecoder(r.Body).Decode(&req)
	if err != nil && !errors.Is(err, io.EOF) {
		return ""
	}
	return req.Token
}

func (i *InvitesRessource) invitationID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	raw := chi.URLParam(r, "id")
	id, err := uuid.Parse(raw)
	if err != nil {
		i.log.Debug("malformed invitation id", sanitize.UserInputString("id", raw))
		i.respond(w, r, createError(http.StatusNotFound, "not_found", "invitation not found"))
		return uuid.Nil, false
	}
	return id, true
}

func (i *InvitesRessource) unauthorized(w http.ResponseWriter, r *http.Request) {
	i.respond(w, r, createError(http.StatusUnauthorized, "unauthorized", "sign in required"))
}

func (i *InvitesRessource) respondError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, inviteservice.ErrNotFound):
		i.respond(w, r, createError(http.StatusNotFound, "not_found", "invitation not found"))
	case errors.Is(err, inviteservice.ErrForbidden):
		i.respond(w, r, createError(http.StatusForbidden, "forbidden", "not entitled to act on this invitation"))
	case errors.Is(err, inviteservice.ErrExpired):
		i.respond(w, r, createError(http.StatusGone, "expired", "invitation has expired"))
	case errors.Is(err, inviteservice.ErrAlreadyAccepted):
		i.respond(w, r, createError(http.StatusConflict, "already_processed", "invitation was already accepted"))
	case errors.Is(err, inviteservice.ErrInvalidTransition):
		i.respond(w, r, createError(http.StatusConflict, "already_processed", "invitation does not support this transition"))
	case errors.Is(err, inviteservice.ErrMissingToken):
		i.respond(w, r, createError(http.StatusBadRequest, "validation_error", "no token could be resolved for this invitation"))
	case errors.Is(err, tourservice.ErrArchived):
		i.respond(w, r, createError(http.StatusConflict, "tour_archived", "tour is archived and read-only"))
	case errors.Is(err, tourservice.ErrNotFound):
		i.respond(w, r, createError(http.StatusNotFound, "not_found", "invitation not found"))
	default:
		i.log.Error("unexpected error", zap.Error(err))
		i.respond(w, r, createError(http.StatusInternalServerError, "internal", "something went wrong"))
	}
}

func (i *InvitesRessource) respond(w http.ResponseWriter, r *http.Request, v render.Renderer) {
	if err := render.Render(w, r, v); err != nil {
		i.log.Error("unable to render response", zap.Error(err))
	}
}
