package account

import (
	"context"

	"github.com/google/uuid"
	"github.com/pbartela/plantour/db/tables"
)

// ProfileService covers the session user's own profile
type ProfileService interface {
	Profile(ctx context.Context, userID uuid.UUID, email string) (*tables.ProfileTable, error)
	UpdateDisplayName(
		ctx context.Context,
		userID uuid.UUID,
		email string,
		displayName string,
	) (*tables.ProfileTable, error)
}
