package tables

import (
	"time"

	"github.com/google/uuid"
)

// invitation statuses, expiry is never stored as a status but
// derived from expires_at at read time
const (
	InvitationStatusPending  = "pending"
	InvitationStatusAccepted = "accepted"
	InvitationStatusDeclined = "declined"
)

// InvitationTable represents the invitations table
type InvitationTable struct {
	ID        uuid.UUID `db:"id"         fiql:"id,db:id"`
	TourID    uuid.UUID `db:"tour_id"    fiql:"tour_id,db:tour_id"`
	InvitedBy uuid.UUID `db:"invited_by" fiql:"invited_by,db:invited_by"`
	Email     string    `db:"email"      fiql:"email,db:email"`
	Status    string    `db:"status"     fiql:"status,db:status"`
	Token     *string   `db:"token"      json:"-"`
	CreatedAt time.Time `db:"created_at" fiql:"created_at,db:created_at"`
	ExpiresAt time.Time `db:"expires_at" fiql:"expires_at,db:expires_at"`
}

// Expired reports whether the invitation can no longer be acted upon,
// evaluated against the supplied wall clock instant
func (i *InvitationTable) Expired(now time.Time) bool {
	return i.ExpiresAt.Before(now)
}
