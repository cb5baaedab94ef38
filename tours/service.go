package tours

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/pbartela/plantour/db"
	"github.com/pbartela/plantour/db/tables"
	"github.com/pbartela/plantour/events"
	"github.com/pbartela/plantour/events/event"
	"go.uber.org/zap"
)

var (
	// ErrNotFound covers both a missing tour and a tour the store
	// hides from the caller, existence is never confirmed
	ErrNotFound = errors.New("tour not found")
	// ErrArchived signals the tour is read-only
	ErrArchived = errors.New("tour is archived and read-only")
	// ErrStatusCheck signals the status lookup itself failed
	ErrStatusCheck = errors.New("tour status verification failed")
)

// Storer is the slice of the data store the tour service needs
type Storer interface {
	CreateTour(ctx context.Context, ownerID uuid.UUID, title string, description *string) (uuid.UUID, error)
	Tour(ctx context.Context, id uuid.UUID) (*tables.TourTable, error)
	TourStatus(ctx context.Context, id uuid.UUID) (string, error)
	ToursForUser(ctx context.Context, userID uuid.UUID) ([]*tables.TourTable, error)
	SetTourStatus(ctx context.Context, id uuid.UUID, ownerID uuid.UUID, status string) (bool, error)
	IsParticipant(ctx context.Context, tourID uuid.UUID, userID uuid.UUID) (bool, error)
}

// Dispatcher dispatches domain events
type Dispatcher interface {
	Dispatch(ctx context.Context, ev events.Event)
}

type Service struct {
	store      Storer
	log        *zap.Logger
	dispatcher Dispatcher
}

func New(store Storer, log *zap.Logger, dispatcher Dispatcher) *Service {
	return &Service{
		store:      store,
		log:        log,
		dispatcher: dispatcher,
	}
}

// Create inserts a new active tour owned by ownerID,
// the owner becomes the first participant
func (s *Service) Create(
	ctx context.Context,
	ownerID uuid.UUID,
	title string,
	description *string,
) (uuid.UUID, error) {
	id, err := s.store.CreateTour(ctx, ownerID, title, description)
	if err != nil {
		s.log.Error("could not create tour", zap.Error(err))
		return uuid.Nil, err
	}
	s.dispatcher.Dispatch(ctx, &event.TourCreated{
		TourID:  id,
		OwnerID: ownerID,
		Title:   title,
	})
	s.dispatcher.Dispatch(ctx, &event.ParticipantJoined{
		TourID: id,
		UserID: ownerID,
	})
	return id, nil
}

// ByID returns the tour when the user participates in it,
// non-participants get ErrNotFound, never a forbidden hint
func (s *Service) ByID(
	ctx context.Context,
	id uuid.UUID,
	userID uuid.UUID,
) (*tables.TourTable, error) {
	tour, err := s.store.Tour(ctx, id)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return nil, ErrNotFound
		}
		s.log.Error("could not fetch tour", zap.Error(err))
		return nil, err
	}
	ok, err := s.store.IsParticipant(ctx, id, userID)
	if err != nil {
		s.log.Error("could not check participation", zap.Error(err))
		return nil, err
	}
	if !ok {
		return nil, ErrNotFound
	}
	return tour, nil
}

// ForUser lists the tours the user participates in
func (s *Service) ForUser(
	ctx context.Context,
	userID uuid.UUID,
) ([]*tables.TourTable, error) {
	tours, err := s.store.ToursForUser(ctx, userID)
	if err != nil {
		s.log.Error("could not list tours", zap.Error(err))
		return nil, err
	}
	return tours, nil
}

// Archive flags a tour read-only, owner only
func (s *Service) Archive(ctx context.Context, id uuid.UUID, ownerID uuid.UUID) error {
	ok, err := s.store.SetTourStatus(ctx, id, ownerID, tables.TourStatusArchived)
	if err != nil {
		s.log.Error("could not archive tour", zap.Error(err))
		return err
	}
	if !ok {
		return ErrNotFound
	}
	s.dispatcher.Dispatch(ctx, &event.TourArchived{TourID: id, OwnerID: ownerID})
	return nil
}

// Unarchive reopens an archived tour, owner only
func (s *Service) Unarchive(ctx context.Context, id uuid.UUID, ownerID uuid.UUID) error {
	ok, err := s.store.SetTourStatus(ctx, id, ownerID, tables.TourStatusActive)
	if err != nil {
		s.log.Error("could not unarchive tour", zap.Error(err))
		return err
	}
	if !ok {
		return ErrNotFound
	}
	s.dispatcher.Dispatch(ctx, &event.TourUnarchived{TourID: id, OwnerID: ownerID})
	return nil
}

// EnsureNotArchived fails with ErrArchived before any mutation of an
// archived tour may happen, lookup failures surface as ErrStatusCheck
func (s *Service) EnsureNotArchived(ctx context.Context, tourID uuid.UUID) error {
	status, err := s.store.TourStatus(ctx, tourID)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return ErrNotFound
		}
		s.log.Error("could not verify tour status", zap.Error(err))
		return ErrStatusCheck
	}
	if status == tables.TourStatusArchived {
		return ErrArchived
	}
	return nil
}

// IsArchived is the boolean variant of the guard,
// lookup failures still propagate as errors
func (s *Service) IsArchived(ctx context.Context, tourID uuid.UUID) (bool, error) {
	status, err := s.store.TourStatus(ctx, tourID)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return false, ErrNotFound
		}
		s.log.Error("could not verify tour status", zap.Error(err))
		return false, ErrStatusCheck
	}
	return status == tables.TourStatusArchived, nil
}
