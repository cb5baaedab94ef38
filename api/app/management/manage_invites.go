package management

import (
	"net/http"

	"github.com/go-chi/render"
	"go.uber.org/zap"
)

func (m *ManagementRessource) listInvitations(w http.ResponseWriter, r *http.Request) {
	page := r.Context().Value(pageKey).(int)
	pageSize := r.Context().Value(pageSizeKey).(int)
	query := r.Context().Value(queryKey).(string)
	sort := r.Context().Value(sortKey).(string)

	invitations, err := m.inviteService.List(r.Context(), page, pageSize, query, sort)
	if err != nil {
		m.log.Error("error listing invitations", zap.Error(err))
		render.Respond(w, r, createError("unable to list invitations", http.StatusInternalServerError))
		return
	}
	render.Respond(w, r, invitations)
}

func (m *ManagementRessource) listTours(w http.ResponseWriter, r *http.Request) {
	page := r.Context().Value(pageKey).(int)
	pageSize := r.Context().Value(pageSizeKey).(int)
	query := r.Context().Value(queryKey).(string)
	sort := r.Context().Value(sortKey).(string)

	tours, err := m.tourService.List(r.Context(), page, pageSize, query, sort)
	if err != nil {
		m.log.Error("error listing tours", zap.Error(err))
		render.Respond(w, r, createError("unable to list tours", http.StatusInternalServerError))
		return
	}
	render.Respond(w, r, tours)
}
