package event

import (
	"time"

	"github.com/google/uuid"
	"github.com/pbartela/plantour/events"
)

const (
	TourCreatedEvent    events.EventName = "tour_created"
	TourArchivedEvent   events.EventName = "tour_archived"
	TourUnarchivedEvent events.EventName = "tour_unarchived"

	InvitationCreatedEvent   events.EventName = "invitation_created"
	InvitationAcceptedEvent  events.EventName = "invitation_accepted"
	InvitationDeclinedEvent  events.EventName = "invitation_declined"
	InvitationCancelledEvent events.EventName = "invitation_cancelled"
	InvitationResentEvent    events.EventName = "invitation_resent"

	ParticipantJoinedEvent events.EventName = "participant_joined"

	EmailInviteSentEvent events.EventName = "email_invite_sent"
)

type TourCreated struct {
	TourID  uuid.UUID
	OwnerID uuid.UUID
	Title   string
}

func (*TourCreated) Name() events.EventName { return TourCreatedEvent }

type TourArchived struct {
	TourID  uuid.UUID
	OwnerID uuid.UUID
}

func (*TourArchived) Name() events.EventName { return TourArchivedEvent }

type TourUnarchived struct {
	TourID  uuid.UUID
	OwnerID uuid.UUID
}

func (*TourUnarchived) Name() events.EventName { return TourUnarchivedEvent }

type InvitationCreated struct {
	InvitationID uuid.UUID
	TourID       uuid.UUID
	InvitedBy    uuid.UUID
	Email        string
	ExpiresAt    time.Time
}

func (*InvitationCreated) Name() events.EventName { return InvitationCreatedEvent }

type InvitationAccepted struct {
	InvitationID       uuid.UUID
	TourID             uuid.UUID
	UserID             uuid.UUID
	AlreadyParticipant bool
}

func (*InvitationAccepted) Name() events.EventName { return InvitationAcceptedEvent }

type InvitationDeclined struct {
	InvitationID uuid.UUID
	TourID       uuid.UUID
	UserID       uuid.UUID
}

func (*InvitationDeclined) Name() events.EventName { return InvitationDeclinedEvent }

type InvitationCancelled struct {
	InvitationID uuid.UUID
	TourID       uuid.UUID
	CancelledBy  uuid.UUID
}

func (*InvitationCancelled) Name() events.EventName { return InvitationCancelledEvent }

type InvitationResent struct {
	InvitationID uuid.UUID
	TourID       uuid.UUID
	Email        string
	ExpiresAt    time.Time
}

func (*InvitationResent) Name() events.EventName { return InvitationResentEvent }

type ParticipantJoined struct {
	TourID uuid.UUID
	UserID uuid.UUID
}

func (*ParticipantJoined) Name() events.EventName { return ParticipantJoinedEvent }

type EmailInviteSent struct {
	InvitationID uuid.UUID
	Email        string
	Sent         time.Time
}

func (*EmailInviteSent) Name() events.EventName { return EmailInviteSentEvent }
