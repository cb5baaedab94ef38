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
)

// ProfileByID fetches a profile by user id
func (d *DataStore) ProfileByID(
	ctx context.Context,
	id uuid.UUID,
) (*tables.ProfileTable, error) {
	q := sq.Select("*").From("profiles").Where(sq.Eq{"id": id})
	var entity tables.ProfileTable
	err := d.getStatement(ctx, &entity, q, nil)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &entity, nil
}

// ProfileByEmail fetches a profile by its normalized email
func (d *DataStore) ProfileByEmail(
	ctx context.Context,
	email string,
) (*tables.ProfileTable, error) {
	q := sq.Select("*").From("profiles").Where(sq.Eq{"email": strings.ToLower(email)})
	var entity tables.ProfileTable
	err := d.getStatement(ctx, &entity, q, nil)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &entity, nil
}

// EnsureProfile inserts the profile if it is unknown, emails are
// stored lower-cased, id collisions update nothing
func (d *DataStore) EnsureProfile(
	ctx context.Context,
	id uuid.UUID,
	email string,
) error {
	exists, err := d.exists(ctx, "profiles", sq.Eq{"id": id})
	if err != nil {
		return err
	}
	if exists {
		return nil
	}
	q := sq.Insert("profiles").
		Columns("id", "email", "created_at").
		Values(id, strings.ToLower(email), time.Now().UTC())
	_, err = d.insertStatement(ctx, q, nil)
	if err != nil && isUniqueViolation(err) {
		// lost the race against a concurrent first request, fine
		return nil
	}
	return err
}

// SetDisplayName updates the profile display name,
// returns false when the profile does not exist
func (d *DataStore) SetDisplayName(
	ctx context.Context,
	id uuid.UUID,
	displayName string,
) (bool, error) {
	q := sq.Update("profiles").
		Set("display_name", displayName).
		Set("updated_at", time.Now().UTC()).
		Where(sq.Eq{"id": id})
	res, err := d.updateStatement(ctx, q, nil)
	if err != nil {
		return false, err
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return rows > 0, nil
}
