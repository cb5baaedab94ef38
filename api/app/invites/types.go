package invites

import (
	"net/http"
	"time"

	"github.com/go-chi/render"
	"github.com/google/uuid"
	inviteservice "github.com/pbartela/plantour/invites"
)

type actionRequest struct {
	Token string `json:"token"`
}

type invitationResponse struct {
	ID          uuid.UUID `json:"id"`
	TourID      uuid.UUID `json:"tour_id"`
	TourTitle   string    `json:"tour_title"`
	TourStatus  string    `json:"tour_status"`
	Email       string    `json:"email"`
	Status      string    `json:"status"`
	InviterName string    `json:"inviter_name"`
	CreatedAt   time.Time `json:"created_at"`
	ExpiresAt   time.Time `json:"expires_at"`
	IsExpired   bool      `json:"is_expired"`
}

func (i *invitationResponse) Render(w http.ResponseWriter, r *http.Request) error {
	return nil
}

func invitationResponseFromView(v *inviteservice.InvitationView) *invitationResponse {
	return &invitationResponse{
		ID:          v.ID,
		TourID:      v.TourID,
		TourTitle:   v.TourTitle,
		TourStatus:  v.TourStatus,
		Email:       v.Email,
		Status:      v.Status,
		InviterName: v.InviterName,
		CreatedAt:   v.CreatedAt,
		ExpiresAt:   v.ExpiresAt,
		IsExpired:   v.IsExpired,
	}
}

type acceptResponse struct {
	AlreadyParticipant bool `json:"already_participant"`
}

func (a *acceptResponse) Render(w http.ResponseWriter, r *http.Request) error {
	return nil
}

type errorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type errorResponse struct {
	Err        errorBody `json:"error"`
	StatusCode int       `json:"-"`
}

func (e *errorResponse) Render(w http.ResponseWriter, r *http.Request) error {
	render.Status(r, e.StatusCode)
	return nil
}

func createError(status int, code string, message string) *errorResponse {
	return &errorResponse{
		Err:        errorBody{Code: code, Message: message},
		StatusCode: status,
	}
}
