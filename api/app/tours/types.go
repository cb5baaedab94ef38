package tours

import (
	"net/http"
	"time"

	"github.com/go-chi/render"
	"github.com/google/uuid"
	"github.com/pbartela/plantour/db/tables"
	"github.com/pbartela/plantour/emails"
	"github.com/pbartela/plantour/invites"
)

type createTourRequest struct {
	Title       string  `json:"title"       validate:"required,max=200"`
	Description *string `json:"description" validate:"omitempty,max=2000"`
}

type sendInvitesRequest struct {
	Recipients string `json:"recipients" validate:"required"`
}

type tourResponse struct {
	ID          uuid.UUID  `json:"id"`
	Title       string     `json:"title"`
	Description *string    `json:"description,omitempty"`
	Status      string     `json:"status"`
	OwnerID     uuid.UUID  `json:"owner_id"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   *time.Time `json:"updated_at,omitempty"`
}

func (t *tourResponse) Render(w http.ResponseWriter, r *http.Request) error {
	return nil
}

func tourResponseFromTable(t *tables.TourTable) *tourResponse {
	return &tourResponse{
		ID:          t.ID,
		Title:       t.Title,
		Description: t.Description,
		Status:      t.Status,
		OwnerID:     t.OwnerID,
		CreatedAt:   t.CreatedAt,
		UpdatedAt:   t.UpdatedAt,
	}
}

type sendInvitesResponse struct {
	Sent       []string         `json:"sent"`
	Skipped    []string         `json:"skipped"`
	Failed     []string         `json:"failed"`
	Invalid    []emails.Invalid `json:"invalid"`
	Duplicates []string         `json:"duplicates"`
}

func (s *sendInvitesResponse) Render(w http.ResponseWriter, r *http.Request) error {
	return nil
}

func sendInvitesResponseFromResult(res *invites.SendResult) *sendInvitesResponse {
	return &sendInvitesResponse{
		Sent:       res.Sent,
		Skipped:    res.Skipped,
		Failed:     res.Failed,
		Invalid:    res.Invalid,
		Duplicates: res.Duplicates,
	}
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
