package tables

import (
	"time"

	"github.com/google/uuid"
)

// ParticipantTable represents the participants table,
// (tour_id, user_id) is the primary key
type ParticipantTable struct {
	TourID   uuid.UUID `db:"tour_id"`
	UserID   uuid.UUID `db:"user_id"`
	JoinedAt time.Time `db:"joined_at"`
}
