// Package invites implements the invitation lifecycle: issuance with
// high-entropy tokens, public fetch-by-token, accept/decline gated by a
// case-insensitive email match, owner-side cancel and resend, and
// passive expiry derived from the stored timestamp at read time.
package invites

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/pbartela/plantour/config"
	"github.com/pbartela/plantour/db"
	"github.com/pbartela/plantour/db/tables"
	"github.com/pbartela/plantour/emails"
	"github.com/pbartela/plantour/events"
	"github.com/pbartela/plantour/events/event"
	"github.com/pbartela/plantour/generator"
	"github.com/pbartela/plantour/sanitize"
	"go.uber.org/zap"
)

var (
	// ErrNotFound covers a missing invitation and one the store hides,
	// existence is never confirmed to unauthorized callers
	ErrNotFound = errors.New("invitation not found")
	// ErrForbidden means the acting identity may not act on this
	// invitation, e.g. the invited email does not match
	ErrForbidden = errors.New("not entitled to act on this invitation")
	// ErrExpired means the redeem window has passed
	ErrExpired = errors.New("invitation has expired")
	// ErrAlreadyAccepted guards terminal accepted invitations
	ErrAlreadyAccepted = errors.New("invitation was already accepted")
	// ErrMissingToken means neither the record nor the caller supplied a token
	ErrMissingToken = errors.New("no token could be resolved for this invitation")
	// ErrInvalidTransition signals a business rule violation,
	// e.g. cancelling an accepted invitation
	ErrInvalidTransition = errors.New("invitation does not support this transition")
	// ErrRecipientsTooLong rejects oversized raw recipient input
	ErrRecipientsTooLong = errors.New("recipient input exceeds the allowed length")
	// ErrTooManyRecipients rejects oversized batches
	ErrTooManyRecipients = errors.New("too many recipients in one batch")
)

// Storer is the slice of the data store the invitation service needs
type Storer interface {
	InsertInvitation(ctx context.Context, tourID uuid.UUID, invitedBy uuid.UUID, email string, token string, expires time.Time) (uuid.UUID, error)
	InvitationByID(ctx context.Context, id uuid.UUID) (*tables.InvitationTable, error)
	InvitationByToken(ctx context.Context, token string) (*db.InvitationDetails, error)
	LatestInvitation(ctx context.Context, tourID uuid.UUID, email string) (*tables.InvitationTable, error)
	RefreshInvitation(ctx context.Context, id uuid.UUID, token string, expires time.Time) error
	AcceptInvitation(ctx context.Context, invitationID uuid.UUID, tourID uuid.UUID, userID uuid.UUID) (bool, error)
	DeclineInvitation(ctx context.Context, id uuid.UUID) error
	DeleteInvitation(ctx context.Context, id uuid.UUID) error
	PendingInvitationsForEmail(ctx context.Context, email string) ([]*db.InvitationDetails, error)
	IsParticipant(ctx context.Context, tourID uuid.UUID, userID uuid.UUID) (bool, error)
	IsParticipantEmail(ctx context.Context, tourID uuid.UUID, email string) (bool, error)
	Tour(ctx context.Context, id uuid.UUID) (*tables.TourTable, error)
	ProfileByID(ctx context.Context, id uuid.UUID) (*tables.ProfileTable, error)
	EnsureProfile(ctx context.Context, id uuid.UUID, email string) error
}

// TourGuard prevents mutation of archived tours
type TourGuard interface {
	EnsureNotArchived(ctx context.Context, tourID uuid.UUID) error
}

// Mailer delivers the invite email, failures are logged and swallowed
type Mailer interface {
	SendInviteMail(email string, token string, tourTitle string, inviterName string) error
}

// Dispatcher dispatches domain events
type Dispatcher interface {
	Dispatch(ctx context.Context, ev events.Event)
}

type Service struct {
	store      Storer
	guard      TourGuard
	log        *zap.Logger
	cfg        *config.Configuration
	mailer     Mailer
	dispatcher Dispatcher
}

func New(store Storer,
	guard TourGuard,
	log *zap.Logger,
	cfg *config.Configuration,
	mailer Mailer,
	dispatcher Dispatcher) *Service {
	return &Service{
		store:      store,
		guard:      guard,
		log:        log,
		cfg:        cfg,
		mailer:     mailer,
		dispatcher: dispatcher,
	}
}

func (s *Service) expiry() time.Duration {
	if s.cfg.Behaviour != nil && s.cfg.Behaviour.InviteExpiry > 0 {
		return s.cfg.Behaviour.InviteExpiry
	}
	return 7 * 24 * time.Hour
}

func (s *Service) maxEmails() int {
	if s.cfg.Behaviour != nil && s.cfg.Behaviour.MaxInviteEmails > 0 {
		return s.cfg.Behaviour.MaxInviteEmails
	}
	return 50
}

func (s *Service) maxInputLength() int {
	if s.cfg.Behaviour != nil && s.cfg.Behaviour.MaxInviteInputLength > 0 {
		return s.cfg.Behaviour.MaxInviteInputLength
	}
	return emails.DefaultMaxInputLength
}

// Send issues invitations for every unique, syntactically valid address
// in the raw input. Addresses already invited or already participating
// are skipped, declined and expired invitations are refreshed with a new
// token. Each address is processed independently, one bad address never
// blocks the others.
func (s *Service) Send(
	ctx context.Context,
	tourID uuid.UUID,
	inviterID uuid.UUID,
	recipients string,
) (*SendResult, error) {
	if err := s.guard.EnsureNotArchived(ctx, tourID); err != nil {
		return nil, err
	}
	participant, err := s.store.IsParticipant(ctx, tourID, inviterID)
	if err != nil {
		s.log.Error("could not check inviter participation", zap.Error(err))
		return nil, err
	}
	if !participant {
		return nil, ErrForbidden
	}

	parsed := emails.ParseWithLimit(recipients, s.maxInputLength())
	if parsed.TooLong {
		return nil, ErrRecipientsTooLong
	}
	if len(parsed.Tokens) > s.maxEmails() {
		return nil, ErrTooManyRecipients
	}

	tour, err := s.store.Tour(ctx, tourID)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return nil, ErrNotFound
		}
		s.log.Error("could not fetch tour", zap.Error(err))
		return nil, err
	}
	inviterName := s.inviterName(ctx, inviterID)

	result := &SendResult{
		Sent:       []string{},
		Skipped:    []string{},
		Failed:     []string{},
		Invalid:    parsed.Invalid,
		Duplicates: parsed.Duplicates,
	}
	gen := generator.New()
	now := time.Now().UTC()
	for _, address := range parsed.Valid {
		normalized := emails.Normalize(address)
		sent, skipped, err := s.sendOne(ctx, tour, inviterID, inviterName, address, normalized, gen, now)
		if err != nil {
			s.log.Error("could not process recipient",
				sanitize.UserInputString("email", normalized),
				zap.Error(err))
			result.Failed = append(result.Failed, address)
			continue
		}
		if skipped {
			result.Skipped = append(result.Skipped, address)
		}
		if sent {
			result.Sent = append(result.Sent, address)
		}
	}
	return result, nil
}

// sendOne handles a single recipient, returns (sent, skipped, err)
func (s *Service) sendOne(
	ctx context.Context,
	tour *tables.TourTable,
	inviterID uuid.UUID,
	inviterName string,
	address string,
	normalized string,
	gen *generator.RandomTokenGenerator,
	now time.Time,
) (bool, bool, error) {
	isParticipant, err := s.store.IsParticipantEmail(ctx, tour.ID, normalized)
	if err != nil {
		return false, false, err
	}
	if isParticipant {
		return false, true, nil
	}

	existing, err := s.store.LatestInvitation(ctx, tour.ID, normalized)
	if err != nil && !errors.Is(err, db.ErrNotFound) {
		return false, false, err
	}

	token := string(gen.CreateSecureToken())
	expires := now.Add(s.expiry())

	if existing != nil {
		actionable := existing.Status == tables.InvitationStatusAccepted ||
			(existing.Status == tables.InvitationStatusPending && !existing.Expired(now))
		if actionable {
			return false, true, nil
		}
		// declined or expired, bring it back to a redeemable pending state
		if err := s.store.RefreshInvitation(ctx, existing.ID, token, expires); err != nil {
			return false, false, err
		}
		s.dispatcher.Dispatch(ctx, &event.InvitationResent{
			InvitationID: existing.ID,
			TourID:       tour.ID,
			Email:        normalized,
			ExpiresAt:    expires,
		})
		s.deliverInvite(ctx, existing.ID, normalized, token, tour.Title, inviterName)
		return true, false, nil
	}

	id, err := s.store.InsertInvitation(ctx, tour.ID, inviterID, normalized, token, expires)
	if err != nil {
		return false, false, err
	}
	s.dispatcher.Dispatch(ctx, &event.InvitationCreated{
		InvitationID: id,
		TourID:       tour.ID,
		InvitedBy:    inviterID,
		Email:        normalized,
		ExpiresAt:    expires,
	})
	s.deliverInvite(ctx, id, normalized, token, tour.Title, inviterName)
	return true, false, nil
}

// deliverInvite is fire and forget, a failed email never fails the send
func (s *Service) deliverInvite(
	ctx context.Context,
	invitationID uuid.UUID,
	email string,
	token string,
	tourTitle string,
	inviterName string,
) {
	if err := s.mailer.SendInviteMail(email, token, tourTitle, inviterName); err != nil {
		s.log.Error("invite mail could not be sent",
			sanitize.UserInputString("email", email),
			zap.Error(err))
		return
	}
	s.dispatcher.Dispatch(ctx, &event.EmailInviteSent{
		InvitationID: invitationID,
		Email:        email,
		Sent:         time.Now().UTC(),
	})
}

func (s *Service) inviterName(ctx context.Context, inviterID uuid.UUID) string {
	profile, err := s.store.ProfileByID(ctx, inviterID)
	if err != nil {
		if !errors.Is(err, db.ErrNotFound) {
			s.log.Warn("could not resolve inviter profile", zap.Error(err))
		}
		return "A fellow traveler"
	}
	if profile.DisplayName != nil && *profile.DisplayName != "" {
		return *profile.DisplayName
	}
	return profile.Email
}

// ByToken is the public, unauthenticated lookup backing the invite
// landing page. It never mutates state, expiry is computed on the fly.
func (s *Service) ByToken(ctx context.Context, token string) (*InvitationView, error) {
	if token == "" {
		return nil, ErrNotFound
	}
	details, err := s.store.InvitationByToken(ctx, token)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return nil, ErrNotFound
		}
		s.log.Error("could not fetch invitation by token", zap.Error(err))
		return nil, err
	}
	return viewFromDetails(details, time.Now().UTC()), nil
}

// Accept redeems the invitation for the acting user. The invited email
// is a commitment, a different account cannot redeem it. Two concurrent
// accepts are resolved by the participant uniqueness constraint, the
// loser still succeeds and is reported as already participating.
func (s *Service) Accept(
	ctx context.Context,
	invitationID uuid.UUID,
	token string,
	userID uuid.UUID,
	userEmail string,
) (bool, error) {
	inv, err := s.gateAction(ctx, invitationID, token, userEmail)
	if err != nil {
		return false, err
	}
	if err := s.guard.EnsureNotArchived(ctx, inv.TourID); err != nil {
		return false, err
	}
	// make sure the joining user is resolvable for later lookups
	if err := s.store.EnsureProfile(ctx, userID, userEmail); err != nil {
		s.log.Error("could not ensure profile", zap.Error(err))
		return false, err
	}
	alreadyParticipant, err := s.store.AcceptInvitation(ctx, inv.ID, inv.TourID, userID)
	if err != nil {
		s.log.Error("could not accept invitation", zap.Error(err))
		return false, err
	}
	s.dispatcher.Dispatch(ctx, &event.InvitationAccepted{
		InvitationID:       inv.ID,
		TourID:             inv.TourID,
		UserID:             userID,
		AlreadyParticipant: alreadyParticipant,
	})
	if !alreadyParticipant {
		s.dispatcher.Dispatch(ctx, &event.ParticipantJoined{
			TourID: inv.TourID,
			UserID: userID,
		})
	}
	return alreadyParticipant, nil
}

// Decline turns the invitation down, same gates as Accept. Declining an
// already declined invitation is a no-op success.
func (s *Service) Decline(
	ctx context.Context,
	invitationID uuid.UUID,
	token string,
	userID uuid.UUID,
	userEmail string,
) error {
	inv, err := s.fetchInvitation(ctx, invitationID)
	if err != nil {
		return err
	}
	// a repeated decline stays a no-op even once the window has lapsed
	if inv.Status == tables.InvitationStatusDeclined {
		return nil
	}
	if err := s.gateInvitation(inv, token, userEmail); err != nil {
		return err
	}
	if err := s.guard.EnsureNotArchived(ctx, inv.TourID); err != nil {
		return err
	}
	if err := s.store.DeclineInvitation(ctx, inv.ID); err != nil {
		if errors.Is(err, db.ErrNotFound) {
			// lost a race against cancel or accept
			return ErrNotFound
		}
		s.log.Error("could not decline invitation", zap.Error(err))
		return err
	}
	s.dispatcher.Dispatch(ctx, &event.InvitationDeclined{
		InvitationID: inv.ID,
		TourID:       inv.TourID,
		UserID:       userID,
	})
	return nil
}

// gateAction shares the accept/decline preconditions: found, not
// terminal, not expired, matching email, resolvable token
func (s *Service) gateAction(
	ctx context.Context,
	invitationID uuid.UUID,
	token string,
	userEmail string,
) (*tables.InvitationTable, error) {
	inv, err := s.fetchInvitation(ctx, invitationID)
	if err != nil {
		return nil, err
	}
	if err := s.gateInvitation(inv, token, userEmail); err != nil {
		return nil, err
	}
	return inv, nil
}

func (s *Service) fetchInvitation(
	ctx context.Context,
	invitationID uuid.UUID,
) (*tables.InvitationTable, error) {
	inv, err := s.store.InvitationByID(ctx, invitationID)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return nil, ErrNotFound
		}
		s.log.Error("could not fetch invitation", zap.Error(err))
		return nil, err
	}
	return inv, nil
}

func (s *Service) gateInvitation(
	inv *tables.InvitationTable,
	token string,
	userEmail string,
) error {
	if inv.Status == tables.InvitationStatusAccepted {
		return ErrAlreadyAccepted
	}
	if inv.Expired(time.Now().UTC()) {
		return ErrExpired
	}
	if !emails.Equal(inv.Email, userEmail) {
		return ErrForbidden
	}
	resolved := token
	if inv.Token != nil && *inv.Token != "" {
		resolved = *inv.Token
	}
	if resolved == "" {
		return ErrMissingToken
	}
	return nil
}

// Cancel removes a not-yet-accepted invitation, tour owner only
func (s *Service) Cancel(
	ctx context.Context,
	invitationID uuid.UUID,
	callerID uuid.UUID,
) error {
	inv, err := s.store.InvitationByID(ctx, invitationID)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return ErrNotFound
		}
		s.log.Error("could not fetch invitation", zap.Error(err))
		return err
	}
	if err := s.requireOwner(ctx, inv.TourID, callerID); err != nil {
		return err
	}
	if inv.Status == tables.InvitationStatusAccepted {
		return ErrInvalidTransition
	}
	if err := s.store.DeleteInvitation(ctx, inv.ID); err != nil {
		if errors.Is(err, db.ErrNotFound) {
			// a concurrent accept won, last writer wins
			return ErrInvalidTransition
		}
		s.log.Error("could not delete invitation", zap.Error(err))
		return err
	}
	s.dispatcher.Dispatch(ctx, &event.InvitationCancelled{
		InvitationID: inv.ID,
		TourID:       inv.TourID,
		CancelledBy:  callerID,
	})
	return nil
}

// Resend regenerates token and expiry for a declined or expired
// invitation, tour owner only. Invitations still within their original
// window cannot be resent.
func (s *Service) Resend(
	ctx context.Context,
	invitationID uuid.UUID,
	callerID uuid.UUID,
) error {
	inv, err := s.store.InvitationByID(ctx, invitationID)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return ErrNotFound
		}
		s.log.Error("could not fetch invitation", zap.Error(err))
		return err
	}
	if err := s.requireOwner(ctx, inv.TourID, callerID); err != nil {
		return err
	}
	if err := s.guard.EnsureNotArchived(ctx, inv.TourID); err != nil {
		return err
	}
	now := time.Now().UTC()
	resendable := inv.Status == tables.InvitationStatusDeclined ||
		(inv.Status == tables.InvitationStatusPending && inv.Expired(now))
	if !resendable {
		return ErrInvalidTransition
	}
	token := string(generator.New().CreateSecureToken())
	expires := now.Add(s.expiry())
	if err := s.store.RefreshInvitation(ctx, inv.ID, token, expires); err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return ErrNotFound
		}
		s.log.Error("could not refresh invitation", zap.Error(err))
		return err
	}
	s.dispatcher.Dispatch(ctx, &event.InvitationResent{
		InvitationID: inv.ID,
		TourID:       inv.TourID,
		Email:        inv.Email,
		ExpiresAt:    expires,
	})
	tour, err := s.store.Tour(ctx, inv.TourID)
	if err == nil {
		s.deliverInvite(ctx, inv.ID, inv.Email, token, tour.Title, s.inviterName(ctx, inv.InvitedBy))
	}
	return nil
}

// PendingForEmail lists all pending, unexpired invitations addressed to
// the email across tours, used for the notification badge
func (s *Service) PendingForEmail(
	ctx context.Context,
	email string,
) ([]*InvitationView, error) {
	details, err := s.store.PendingInvitationsForEmail(ctx, email)
	if err != nil {
		s.log.Error("could not list pending invitations", zap.Error(err))
		return nil, err
	}
	now := time.Now().UTC()
	views := make([]*InvitationView, 0, len(details))
	for _, d := range details {
		views = append(views, viewFromDetails(d, now))
	}
	return views, nil
}

func (s *Service) requireOwner(
	ctx context.Context,
	tourID uuid.UUID,
	callerID uuid.UUID,
) error {
	tour, err := s.store.Tour(ctx, tourID)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return ErrNotFound
		}
		s.log.Error("could not fetch tour", zap.Error(err))
		return err
	}
	if tour.OwnerID != callerID {
		return ErrForbidden
	}
	return nil
}
