package db

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/pbartela/plantour/db/tables"
	"go.uber.org/zap"
)

// InvitationDetails denormalizes an invitation with the tour title and
// the inviter for presentation on the public invite page
type InvitationDetails struct {
	tables.InvitationTable
	TourTitle    string  `db:"tour_title"`
	TourStatus   string  `db:"tour_status"`
	InviterEmail string  `db:"inviter_email"`
	InviterName  *string `db:"inviter_name"`
}

// InsertInvitation creates a fresh pending invitation
func (d *DataStore) InsertInvitation(
	ctx context.Context,
	tourID uuid.UUID,
	invitedBy uuid.UUID,
	email string,
	token string,
	expires time.Time,
) (uuid.UUID, error) {
	id := uuid.New()
	q := sq.Insert("invitations").
		Columns("id", "tour_id", "invited_by", "email", "status", "token", "created_at", "expires_at").
		Values(id, tourID, invitedBy, email, tables.InvitationStatusPending, token, time.Now().UTC(), expires)
	_, err := d.insertStatement(ctx, q, nil)
	if err != nil {
		if isUniqueViolation(err) {
			return uuid.Nil, ErrAlreadyExists
		}
		return uuid.Nil, err
	}
	return id, nil
}

// InvitationByID fetches a single invitation
func (d *DataStore) InvitationByID(
	ctx context.Context,
	id uuid.UUID,
) (*tables.InvitationTable, error) {
	q := sq.Select("*").From("invitations").Where(sq.Eq{"id": id})
	var entity tables.InvitationTable
	err := d.getStatement(ctx, &entity, q, nil)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &entity, nil
}

// InvitationByToken resolves an invitation by its exact token together
// with the denormalized tour and inviter data, public lookup
func (d *DataStore) InvitationByToken(
	ctx context.Context,
	token string,
) (*InvitationDetails, error) {
	q := sq.
		Select("invitations.id", "invitations.tour_id", "invitations.invited_by",
			"invitations.email", "invitations.status", "invitations.token",
			"invitations.created_at", "invitations.expires_at",
			"tours.title AS tour_title", "tours.status AS tour_status",
			"profiles.email AS inviter_email", "profiles.display_name AS inviter_name").
		From("invitations").
		Join("tours ON tours.id = invitations.tour_id").
		Join("profiles ON profiles.id = invitations.invited_by").
		Where(sq.Eq{"invitations.token": token})
	var entity InvitationDetails
	err := d.getStatement(ctx, &entity, q, nil)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &entity, nil
}

// LatestInvitation returns the most recent invitation addressed to the
// normalized email on the given tour, used for the send dedupe decision
func (d *DataStore) LatestInvitation(
	ctx context.Context,
	tourID uuid.UUID,
	email string,
) (*tables.InvitationTable, error) {
	q := sq.Select("*").From("invitations").
		Where(sq.Eq{"tour_id": tourID, "email": strings.ToLower(email)}).
		OrderBy("created_at DESC").
		Limit(1)
	var entity tables.InvitationTable
	err := d.getStatement(ctx, &entity, q, nil)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &entity, nil
}

// RefreshInvitation resets an invitation to a redeemable pending state
// with a new token and expiry, used by resend and re-invites
func (d *DataStore) RefreshInvitation(
	ctx context.Context,
	id uuid.UUID,
	token string,
	expires time.Time,
) error {
	q := sq.Update("invitations").
		Set("status", tables.InvitationStatusPending).
		Set("token", token).
		Set("expires_at", expires).
		Where(sq.And{
			sq.Eq{"id": id},
			sq.NotEq{"status": tables.InvitationStatusAccepted},
		})
	res, err := d.updateStatement(ctx, q, nil)
	if err != nil {
		return err
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return ErrNotFound
	}
	return nil
}

// AcceptInvitation creates the participant row and marks the invitation
// accepted in one transaction. Two concurrent accepts are resolved by
// the (tour_id, user_id) primary key, the loser gets
// alreadyParticipant=true and still commits the status flip.
func (d *DataStore) AcceptInvitation(
	ctx context.Context,
	invitationID uuid.UUID,
	tourID uuid.UUID,
	userID uuid.UUID,
) (bool, error) {
	tx, err := d.db.BeginTxx(ctx, nil)
	if err != nil {
		return false, err
	}
	alreadyParticipant := false
	// postgres aborts the whole transaction on a constraint violation,
	// the savepoint keeps the status flip committable when the insert
	// loses against an existing participant row
	if _, err = tx.ExecContext(ctx, "SAVEPOINT participant_insert"); err != nil {
		rerr := tx.Rollback()
		if rerr != nil {
			d.log.Error("couldnt rollback", zap.Error(rerr))
		}
		return false, err
	}
	ins := sq.Insert("participants").
		Columns("tour_id", "user_id", "joined_at").
		Values(tourID, userID, time.Now().UTC())
	_, err = d.insertStatement(ctx, ins, tx)
	if err != nil {
		if !isUniqueViolation(err) {
			rerr := tx.Rollback()
			if rerr != nil {
				d.log.Error("couldnt rollback", zap.Error(rerr))
			}
			return false, err
		}
		if _, err = tx.ExecContext(ctx, "ROLLBACK TO SAVEPOINT participant_insert"); err != nil {
			rerr := tx.Rollback()
			if rerr != nil {
				d.log.Error("couldnt rollback", zap.Error(rerr))
			}
			return false, err
		}
		alreadyParticipant = true
	}
	upd := sq.Update("invitations").
		Set("status", tables.InvitationStatusAccepted).
		Set("token", nil).
		Where(sq.Eq{"id": invitationID})
	_, err = d.updateStatement(ctx, upd, tx)
	if err != nil {
		rerr := tx.Rollback()
		if rerr != nil {
			d.log.Error("couldnt rollback", zap.Error(rerr))
		}
		return false, err
	}
	return alreadyParticipant, tx.Commit()
}

// DeclineInvitation flips the invitation to declined and drops the token
func (d *DataStore) DeclineInvitation(ctx context.Context, id uuid.UUID) error {
	q := sq.Update("invitations").
		Set("status", tables.InvitationStatusDeclined).
		Set("token", nil).
		Where(sq.And{
			sq.Eq{"id": id},
			sq.NotEq{"status": tables.InvitationStatusAccepted},
		})
	res, err := d.updateStatement(ctx, q, nil)
	if err != nil {
		return err
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteInvitation removes an invitation outright unless it was accepted
func (d *DataStore) DeleteInvitation(ctx context.Context, id uuid.UUID) error {
	q := sq.Delete("invitations").
		Where(sq.And{
			sq.Eq{"id": id},
			sq.NotEq{"status": tables.InvitationStatusAccepted},
		})
	res, err := d.deleteStatement(ctx, q, nil)
	if err != nil {
		return err
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return ErrNotFound
	}
	return nil
}

// PendingInvitationsForEmail lists all pending, unexpired invitations
// addressed to the email across tours, for the notification badge
func (d *DataStore) PendingInvitationsForEmail(
	ctx context.Context,
	email string,
) ([]*InvitationDetails, error) {
	q := sq.
		Select("invitations.id", "invitations.tour_id", "invitations.invited_by",
			"invitations.email", "invitations.status", "invitations.token",
			"invitations.created_at", "invitations.expires_at",
			"tours.title AS tour_title", "tours.status AS tour_status",
			"profiles.email AS inviter_email", "profiles.display_name AS inviter_name").
		From("invitations").
		Join("tours ON tours.id = invitations.tour_id").
		Join("profiles ON profiles.id = invitations.invited_by").
		Where(sq.And{
			sq.Eq{"invitations.email": strings.ToLower(email)},
			sq.Eq{"invitations.status": tables.InvitationStatusPending},
			sq.Gt{"invitations.expires_at": time.Now().UTC()},
		}).
		OrderBy("invitations.created_at DESC")
	var entities []*InvitationDetails
	err := d.selectStatement(ctx, &entities, q, nil)
	if err != nil {
		return nil, err
	}
	return entities, nil
}

// Invitations returns a paginated, FIQL-filterable invitation listing
func (d *DataStore) Invitations(
	ctx context.Context,
	opts ListOptions,
) ([]*tables.InvitationTable, int, error) {
	if opts.Page <= 0 {
		opts.Page = 1
	}
	var c int
	count := sq.Select("COUNT(*)").From("invitations")
	applyWhere, err := d.whereFromAdapater("invitations", opts.Query)
	if err != nil {
		return nil, 0, err
	}
	count = applyWhere(count)
	err = count.RunWith(d.db).Scan(&c)
	if err != nil {
		return nil, 0, err
	}
	offset := (opts.Page - 1) * opts.PageSize
	if c < int(offset) {
		return []*tables.InvitationTable{}, c, nil
	}

	var entities []*tables.InvitationTable
	q := sq.
		Select("id", "tour_id", "invited_by", "email", "status", "token", "created_at", "expires_at").
		From("invitations")
	q = applyWhere(q)
	q = d.orderByFromAdapater(q, "invitations", "created_at DESC", opts)
	q = q.Offset(uint64(offset)).Limit(uint64(opts.PageSize))
	err = d.selectStatement(ctx, &entities, q, nil)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, 0, ErrNotFound
		}
		return nil, 0, err
	}
	return entities, c, nil
}
