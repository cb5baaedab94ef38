package invites

import (
	"context"

	"github.com/google/uuid"
	inviteservice "github.com/pbartela/plantour/invites"
)

// InviteService covers the invitation lifecycle operations
// exposed on this resource
type InviteService interface {
	ByToken(ctx context.Context, token string) (*inviteservice.InvitationView, error)
	Accept(
		ctx context.Context,
		invitationID uuid.UUID,
		token string,
		userID uuid.UUID,
		userEmail string,
	) (bool, error)
	Decline(
		ctx context.Context,
		invitationID uuid.UUID,
		token string,
		userID uuid.UUID,
		userEmail string,
	) error
	Cancel(ctx context.Context, invitationID uuid.UUID, callerID uuid.UUID) error
	Resend(ctx context.Context, invitationID uuid.UUID, callerID uuid.UUID) error
	PendingForEmail(ctx context.Context, email string) ([]*inviteservice.InvitationView, error)
}
