// Package user holds the profile service. Profiles are created lazily
// on first authenticated contact, the magic-link front owns sign-in.
package user

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/pbartela/plantour/db"
	"github.com/pbartela/plantour/db/tables"
	"go.uber.org/zap"
)

var ErrNotFound = errors.New("profile not found")

// Storer is the slice of the data store the profile service needs
type Storer interface {
	ProfileByID(ctx context.Context, id uuid.UUID) (*tables.ProfileTable, error)
	EnsureProfile(ctx context.Context, id uuid.UUID, email string) error
	SetDisplayName(ctx context.Context, id uuid.UUID, displayName string) (bool, error)
}

type Service struct {
	store Storer
	log   *zap.Logger
}

func New(store Storer, log *zap.Logger) *Service {
	return &Service{store: store, log: log}
}

// Profile returns the profile for the session identity,
// creating it on first contact
func (s *Service) Profile(
	ctx context.Context,
	userID uuid.UUID,
	email string,
) (*tables.ProfileTable, error) {
	if err := s.store.EnsureProfile(ctx, userID, email); err != nil {
		s.log.Error("could not ensure profile", zap.Error(err))
		return nil, err
	}
	profile, err := s.store.ProfileByID(ctx, userID)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return nil, ErrNotFound
		}
		s.log.Error("could not fetch profile", zap.Error(err))
		return nil, err
	}
	return profile, nil
}

// UpdateDisplayName sets the display name shown to other participants
// and in invite emails
func (s *Service) UpdateDisplayName(
	ctx context.Context,
	userID uuid.UUID,
	email string,
	displayName string,
) (*tables.ProfileTable, error) {
	if err := s.store.EnsureProfile(ctx, userID, email); err != nil {
		s.log.Error("could not ensure profile", zap.Error(err))
		return nil, err
	}
	ok, err := s.store.SetDisplayName(ctx, userID, displayName)
	if err != nil {
		s.log.Error("could not update display name", zap.Error(err))
		return nil, err
	}
	if !ok {
		return nil, ErrNotFound
	}
	return s.Profile(ctx, userID, email)
}
