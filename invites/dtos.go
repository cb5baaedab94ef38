package invites

import (
	"time"

	"github.com/google/uuid"
	"github.com/pbartela/plantour/db"
	"github.com/pbartela/plantour/emails"
)

// SendResult partitions one batch of raw recipient input.
// Every token from the input lands in exactly one bucket.
type SendResult struct {
	Sent       []string         `json:"sent"`
	Skipped    []string         `json:"skipped"`
	Failed     []string         `json:"failed"`
	Invalid    []emails.Invalid `json:"invalid"`
	Duplicates []string         `json:"duplicates"`
}

// InvitationView is the read model for the public invite page and the
// pending listing. The token never leaves through it and expiry is
// derived at read time, never stored.
type InvitationView struct {
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

func viewFromDetails(d *db.InvitationDetails, now time.Time) *InvitationView {
	inviter := d.InviterEmail
	if d.InviterName != nil && *d.InviterName != "" {
		inviter = *d.InviterName
	}
	return &InvitationView{
		ID:          d.ID,
		TourID:      d.TourID,
		TourTitle:   d.TourTitle,
		TourStatus:  d.TourStatus,
		Email:       d.Email,
		Status:      d.Status,
		InviterName: inviter,
		CreatedAt:   d.CreatedAt,
		ExpiresAt:   d.ExpiresAt,
		IsExpired:   d.Expired(now),
	}
}
