package tables

import (
	"time"

	"github.com/google/uuid"
)

// TourStatusActive marks a tour open for invitations and changes
const TourStatusActive = "active"

// TourStatusArchived marks a tour read-only
const TourStatusArchived = "archived"

// TourTable represents the tours table
type TourTable struct {
	ID          uuid.UUID  `db:"id"          fiql:"id,db:id"`
	OwnerID     uuid.UUID  `db:"owner_id"    fiql:"owner_id,db:owner_id"`
	Title       string     `db:"title"       fiql:"title,db:title"`
	Description *string    `db:"description"`
	Status      string     `db:"status"      fiql:"status,db:status"`
	CreatedAt   time.Time  `db:"created_at"  fiql:"created_at,db:created_at"`
	UpdatedAt   *time.Time `db:"updated_at"  fiql:"updated_at,db:updated_at"`
}
