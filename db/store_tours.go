package db

import (
	"context"
	"database/sql"
	"errors"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/pbartela/plantour/db/tables"
	"go.uber.org/zap"
)

// CreateTour inserts a tour and its owner participant row in one
// transaction, the owner is a participant from the first moment
func (d *DataStore) CreateTour(
	ctx context.Context,
	ownerID uuid.UUID,
	title string,
	description *string,
) (uuid.UUID, error) {
	tx, err := d.db.BeginTxx(ctx, nil)
	if err != nil {
		return uuid.Nil, err
	}
	id := uuid.New()
	now := time.Now().UTC()
	tour := sq.Insert("tours").
		Columns("id", "owner_id", "title", "description", "status", "created_at").
		Values(id, ownerID, title, description, tables.TourStatusActive, now)
	_, err = d.insertStatement(ctx, tour, tx)
	if err != nil {
		rerr := tx.Rollback()
		if rerr != nil {
			d.log.Error("couldnt rollback", zap.Error(rerr))
		}
		return uuid.Nil, err
	}
	owner := sq.Insert("participants").
		Columns("tour_id", "user_id", "joined_at").
		Values(id, ownerID, now)
	_, err = d.insertStatement(ctx, owner, tx)
	if err != nil {
		rerr := tx.Rollback()
		if rerr != nil {
			d.log.Error("couldnt rollback", zap.Error(rerr))
		}
		return uuid.Nil, err
	}
	return id, tx.Commit()
}

// Tour fetches a single tour by id
func (d *DataStore) Tour(ctx context.Context, id uuid.UUID) (*tables.TourTable, error) {
	q := sq.Select("*").From("tours").Where(sq.Eq{"id": id})
	var entity tables.TourTable
	err := d.getStatement(ctx, &entity, q, nil)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &entity, nil
}

// TourStatus returns only the status flag of a tour
func (d *DataStore) TourStatus(ctx context.Context, id uuid.UUID) (string, error) {
	q := sq.Select("status").From("tours").Where(sq.Eq{"id": id})
	var status string
	err := d.getStatement(ctx, &status, q, nil)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", ErrNotFound
		}
		return "", err
	}
	return status, nil
}

// ToursForUser lists all tours the user participates in, newest first
func (d *DataStore) ToursForUser(
	ctx context.Context,
	userID uuid.UUID,
) ([]*tables.TourTable, error) {
	q := sq.
		Select("tours.id", "tours.owner_id", "tours.title", "tours.description",
			"tours.status", "tours.created_at", "tours.updated_at").
		From("tours").
		Join("participants ON participants.tour_id = tours.id").
		Where(sq.Eq{"participants.user_id": userID}).
		OrderBy("tours.created_at DESC")
	var entities []*tables.TourTable
	err := d.selectStatement(ctx, &entities, q, nil)
	if err != nil {
		return nil, err
	}
	return entities, nil
}

// SetTourStatus flips the archived flag, only the owner may do so,
// returns false when no row matched
func (d *DataStore) SetTourStatus(
	ctx context.Context,
	id uuid.UUID,
	ownerID uuid.UUID,
	status string,
) (bool, error) {
	q := sq.Update("tours").
		Set("status", status).
		Set("updated_at", time.Now().UTC()).
		Where(sq.Eq{"id": id, "owner_id": ownerID})
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

// Tours returns a paginated, FIQL-filterable tour listing
func (d *DataStore) Tours(
	ctx context.Context,
	opts ListOptions,
) ([]*tables.TourTable, int, error) {
	if opts.Page <= 0 {
		opts.Page = 1
	}
	var c int
	count := sq.Select("COUNT(*)").From("tours")
	applyWhere, err := d.whereFromAdapater("tours", opts.Query)
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
		return []*tables.TourTable{}, c, nil
	}

	var entities []*tables.TourTable
	q := sq.
		Select("id", "owner_id", "title", "description", "status", "created_at", "updated_at").
		From("tours")
	q = applyWhere(q)
	q = d.orderByFromAdapater(q, "tours", "created_at DESC", opts)
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
