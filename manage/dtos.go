package manage

import (
	"net/http"
	"time"

	"github.com/go-chi/render"
	"github.com/google/uuid"
	"github.com/pbartela/plantour/db/tables"
)

// PaginationResponse is a paginated entity response
type PaginationResponse struct {
	Total   int         `json:"total"`
	Entries interface{} `json:"entries"`
}

func (p *PaginationResponse) Render(w http.ResponseWriter, r *http.Request) error {
	render.Status(r, http.StatusOK)
	return nil
}

type InvitationDTO struct {
	ID        uuid.UUID `json:"id"`
	TourID    uuid.UUID `json:"tour_id"`
	InvitedBy uuid.UUID `json:"invited_by"`
	Email     string    `json:"email"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
	ExpiresAt time.Time `json:"expires_at"`
	IsExpired bool      `json:"is_expired"`
}

func (i *InvitationDTO) Render(w http.ResponseWriter, r *http.Request) error {
	return nil
}

func invitationDTOfromDB(t *tables.InvitationTable, now time.Time) *InvitationDTO {
	return &InvitationDTO{
		ID:        t.ID,
		TourID:    t.TourID,
		InvitedBy: t.InvitedBy,
		Email:     t.Email,
		Status:    t.Status,
		CreatedAt: t.CreatedAt,
		ExpiresAt: t.ExpiresAt,
		IsExpired: t.Expired(now),
	}
}

type TourDTO struct {
	ID        uuid.UUID  `json:"id"`
	OwnerID   uuid.UUID  `json:"owner_id"`
	Title     string     `json:"title"`
	Status    string     `json:"status"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt *time.Time `json:"updated_at,omitempty"`
}

func (t *TourDTO) Render(w http.ResponseWriter, r *http.Request) error {
	return nil
}

func tourDTOfromDB(t *tables.TourTable) *TourDTO {
	return &TourDTO{
		ID:        t.ID,
		OwnerID:   t.OwnerID,
		Title:     t.Title,
		Status:    t.Status,
		CreatedAt: t.CreatedAt,
		UpdatedAt: t.UpdatedAt,
	}
}
