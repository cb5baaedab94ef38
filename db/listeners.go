package db

import (
	"context"

	"github.com/pbartela/plantour/db/tables"
	"github.com/pbartela/plantour/events"
	"github.com/pbartela/plantour/events/event"
	"go.uber.org/zap"
)

// Auditor is a way to write audit log events into a persistent store.
// Invitation tokens are never part of audit payloads.
type Auditor interface {
	addToAuditLog(event string, payload tables.MapStructure) error
}

// BootstrapListeners registers all the event listeners from this package
func BootstrapListeners(store Auditor, log *zap.Logger) []events.EventListener {
	return []events.EventListener{
		&tourCreatedListener{log: log, store: store},
		&tourArchivedListener{log: log, store: store},
		&tourUnarchivedListener{log: log, store: store},
		&invitationCreatedListener{log: log, store: store},
		&invitationAcceptedListener{log: log, store: store},
		&invitationDeclinedListener{log: log, store: store},
		&invitationCancelledListener{log: log, store: store},
		&invitationResentListener{log: log, store: store},
		&participantJoinedListener{log: log, store: store},
		&emailInviteSentListener{log: log, store: store},
	}
}

type tourCreatedListener struct {
	store Auditor
	log   *zap.Logger
}

func (*tourCreatedListener) ForEvent() events.EventName {
	return event.TourCreatedEvent
}

func (l *tourCreatedListener) Handle(ctx context.Context, ev events.Event) error {
	e := ev.(*event.TourCreated)
	err := l.store.addToAuditLog(string(l.ForEvent()), map[string]interface{}{
		"tour_id":  e.TourID.String(),
		"owner_id": e.OwnerID.String(),
		"title":    e.Title,
	})
	if err != nil {
		l.log.Warn("Could not persist event to audit log", zap.Error(err))
	}
	return nil
}

type tourArchivedListener struct {
	store Auditor
	log   *zap.Logger
}

func (*tourArchivedListener) ForEvent() events.EventName {
	return event.TourArchivedEvent
}

func (l *tourArchivedListener) Handle(ctx context.Context, ev events.Event) error {
	e := ev.(*event.TourArchived)
	err := l.store.addToAuditLog(string(l.ForEvent()), map[string]interface{}{
		"tour_id":  e.TourID.String(),
		"owner_id": e.OwnerID.String(),
	})
	if err != nil {
		l.log.Warn("Could not persist event to audit log", zap.Error(err))
	}
	return nil
}

type tourUnarchivedListener struct {
	store Auditor
	log   *zap.Logger
}

func (*tourUnarchivedListener) ForEvent() events.EventName {
	return event.TourUnarchivedEvent
}

func (l *tourUnarchivedListener) Handle(ctx context.Context, ev events.Event) error {
	e := ev.(*event.TourUnarchived)
	err := l.store.addToAuditLog(string(l.ForEvent()), map[string]interface{}{
		"tour_id":  e.TourID.String(),
		"owner_id": e.OwnerID.String(),
	})
	if err != nil {
		l.log.Warn("Could not persist event to audit log", zap.Error(err))
	}
	return nil
}

type invitationCreatedListener struct {
	store Auditor
	log   *zap.Logger
}

func (*invitationCreatedListener) ForEvent() events.EventName {
	return event.InvitationCreatedEvent
}

func (l *invitationCreatedListener) Handle(ctx context.Context, ev events.Event) error {
	e := ev.(*event.InvitationCreated)
	err := l.store.addToAuditLog(string(l.ForEvent()), map[string]interface{}{
		"invitation_id": e.InvitationID.String(),
		"tour_id":       e.TourID.String(),
		"invited_by":    e.InvitedBy.String(),
		"email":         e.Email,
		"expires_at":    e.ExpiresAt.UTC().Format("2006-01-02 15:04:05"),
	})
	if err != nil {
		l.log.Warn("Could not persist event to audit log", zap.Error(err))
	}
	return nil
}

type invitationAcceptedListener struct {
	store Auditor
	log   *zap.Logger
}

func (*invitationAcceptedListener) ForEvent() events.EventName {
	return event.InvitationAcceptedEvent
}

func (l *invitationAcceptedListener) Handle(ctx context.Context, ev events.Event) error {
	e := ev.(*event.InvitationAccepted)
	err := l.store.addToAuditLog(string(l.ForEvent()), map[string]interface{}{
		"invitation_id":       e.InvitationID.String(),
		"tour_id":             e.TourID.String(),
		"user_id":             e.UserID.String(),
		"already_participant": e.AlreadyParticipant,
	})
	if err != nil {
		l.log.Warn("Could not persist event to audit log", zap.Error(err))
	}
	return nil
}

type invitationDeclinedListener struct {
	store Auditor
	log   *zap.Logger
}

func (*invitationDeclinedListener) ForEvent() events.EventName {
	return event.InvitationDeclinedEvent
}

func (l *invitationDeclinedListener) Handle(ctx context.Context, ev events.Event) error {
	e := ev.(*event.InvitationDeclined)
	err := l.store.addToAuditLog(string(l.ForEvent()), map[string]interface{}{
		"invitation_id": e.InvitationID.String(),
		"tour_id":       e.TourID.String(),
		"user_id":       e.UserID.String(),
	})
	if err != nil {
		l.log.Warn("Could not persist event to audit log", zap.Error(err))
	}
	return nil
}

type invitationCancelledListener struct {
	store Auditor
	log   *zap.Logger
}

func (*invitationCancelledListener) ForEvent() events.EventName {
	return event.InvitationCancelledEvent
}

func (l *invitationCancelledListener) Handle(ctx context.Context, ev events.Event) error {
	e := ev.(*event.InvitationCancelled)
	err := l.store.addToAuditLog(string(l.ForEvent()), map[string]interface{}{
		"invitation_id": e.InvitationID.String(),
		"tour_id":       e.TourID.String(),
		"cancelled_by":  e.CancelledBy.String(),
	})
	if err != nil {
		l.log.Warn("Could not persist event to audit log", zap.Error(err))
	}
	return nil
}

type invitationResentListener struct {
	store Auditor
	log   *zap.Logger
}

func (*invitationResentListener) ForEvent() events.EventName {
	return event.InvitationResentEvent
}

func (l *invitationResentListener) Handle(ctx context.Context, ev events.Event) error {
	e := ev.(*event.InvitationResent)
	err := l.store.addToAuditLog(string(l.ForEvent()), map[string]interface{}{
		"invitation_id": e.InvitationID.String(),
		"tour_id":       e.TourID.String(),
		"email":         e.Email,
		"expires_at":    e.ExpiresAt.UTC().Format("2006-01-02 15:04:05"),
	})
	if err != nil {
		l.log.Warn("Could not persist event to audit log", zap.Error(err))
	}
	return nil
}

type participantJoinedListener struct {
	store Auditor
	log   *zap.Logger
}

func (*participantJoinedListener) ForEvent() events.EventName {
	return event.ParticipantJoinedEvent
}

func (l *participantJoinedListener) Handle(ctx context.Context, ev events.Event) error {
	e := ev.(*event.ParticipantJoined)
	err := l.store.addToAuditLog(string(l.ForEvent()), map[string]interface{}{
		"tour_id": e.TourID.String(),
		"user_id": e.UserID.String(),
	})
	if err != nil {
		l.log.Warn("Could not persist event to audit log", zap.Error(err))
	}
	return nil
}

type emailInviteSentListener struct {
	store Auditor
	log   *zap.Logger
}

func (*emailInviteSentListener) ForEvent() events.EventName {
	return event.EmailInviteSentEvent
}

func (l *emailInviteSentListener) Handle(ctx context.Context, ev events.Event) error {
	e := ev.(*event.EmailInviteSent)
	err := l.store.addToAuditLog(string(l.ForEvent()), map[string]interface{}{
		"invitation_id": e.InvitationID.String(),
		"email":         e.Email,
		"sent":          e.Sent.UTC().Format("2006-01-02 15:04:05"),
	})
	if err != nil {
		l.log.Warn("Could not persist event to audit log", zap.Error(err))
	}
	return nil
}
