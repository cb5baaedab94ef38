package tours

import (
	"context"

	"github.com/google/uuid"
	"github.com/pbartela/plantour/db/tables"
	"github.com/pbartela/plantour/invites"
)

// TourService covers the tour lifecycle
type TourService interface {
	Create(
		ctx context.Context,
		ownerID uuid.UUID,
		title string,
		description *string,
	) (uuid.UUID, error)
	ByID(ctx context.Context, id uuid.UUID, userID uuid.UUID) (*tables.TourTable, error)
	ForUser(ctx context.Context, userID uuid.UUID) ([]*tables.TourTable, error)
	Archive(ctx context.Context, id uuid.UUID, ownerID uuid.UUID) error
	Unarchive(ctx context.Context, id uuid.UUID, ownerID uuid.UUID) error
}

// InviteSender issues invitations for a batch of raw recipient input
type InviteSender interface {
	Send(
		ctx context.Context,
		tourID uuid.UUID,
		inviterID uuid.UUID,
		recipients string,
	) (*invites.SendResult, error)
}
