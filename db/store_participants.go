package db

import (
	"context"
	"strings"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/pbartela/plantour/db/tables"
)

// IsParticipant reports whether the user already belongs to the tour
func (d *DataStore) IsParticipant(
	ctx context.Context,
	tourID uuid.UUID,
	userID uuid.UUID,
) (bool, error) {
	return d.exists(ctx, "participants", sq.Eq{"tour_id": tourID, "user_id": userID})
}

// IsParticipantEmail reports whether the email already belongs to a
// current participant of the tour, comparison is case-insensitive
func (d *DataStore) IsParticipantEmail(
	ctx context.Context,
	tourID uuid.UUID,
	email string,
) (bool, error) {
	var result bool
	q := sq.Select("1").
		Prefix("SELECT EXISTS (").
		From("participants").
		Join("profiles ON profiles.id = participants.user_id").
		Where(sq.Eq{"participants.tour_id": tourID, "profiles.email": strings.ToLower(email)}).
		Suffix(")")
	err := q.RunWith(d.db).ScanContext(ctx, &result)
	if err != nil {
		return false, err
	}
	return result, nil
}

// Participants lists the confirmed members of a tour, oldest first
func (d *DataStore) Participants(
	ctx context.Context,
	tourID uuid.UUID,
) ([]*tables.ParticipantTable, error) {
	q := sq.Select("tour_id", "user_id", "joined_at").
		From("participants").
		Where(sq.Eq{"tour_id": tourID}).
		OrderBy("joined_at ASC")
	var entities []*tables.ParticipantTable
	err := d.selectStatement(ctx, &entities, q, nil)
	if err != nil {
		return nil, err
	}
	return entities, nil
}
