package account

import (
	"net/http"
	"time"

	"github.com/go-chi/render"
	"github.com/google/uuid"
	"github.com/pbartela/plantour/db/tables"
)

type updateProfileRequest struct {
	DisplayName string `json:"display_name" validate:"required,max=100"`
}

type profileResponse struct {
	ID          uuid.UUID `json:"id"`
	Email       string    `json:"email"`
	DisplayName *string   `json:"display_name,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

func (p *profileResponse) Render(w http.ResponseWriter, r *http.Request) error {
	return nil
}

func profileResponseFromTable(p *tables.ProfileTable) *profileResponse {
	return &profileResponse{
		ID:          p.ID,
		Email:       p.Email,
		DisplayName: p.DisplayName,
		CreatedAt:   p.CreatedAt,
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
