package tables

import (
	"time"

	"github.com/google/uuid"
)

// ProfileTable represents the profiles table, the local user directory
// maintained by the magic-link sign-in front
type ProfileTable struct {
	ID          uuid.UUID  `db:"id"           fiql:"id,db:id"`
	Email       string     `db:"email"        fiql:"email,db:email"`
	DisplayName *string    `db:"display_name" fiql:"display_name,db:display_name"`
	CreatedAt   time.Time  `db:"created_at"   fiql:"created_at,db:created_at"`
	UpdatedAt   *time.Time `db:"updated_at"`
}
