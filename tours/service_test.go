package tours

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/pbartela/plantour/db"
	"github.com/pbartela/plantour/db/tables"
	"github.com/pbartela/plantour/events"
	"github.com/pbartela/plantour/events/event"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

type fakeStore struct {
	tours        map[uuid.UUID]*tables.TourTable
	participants map[string]bool
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		tours:        map[uuid.UUID]*tables.TourTable{},
		participants: map[string]bool{},
	}
}

func key(tourID uuid.UUID, userID uuid.UUID) string {
	return tourID.String() + "|" + userID.String()
}

func (f *fakeStore) CreateTour(
	_ context.Context,
	ownerID uuid.UUID,
	title string,
	description *string,
) (uuid.UUID, error) {
	id := uuid.New()
	f.tours[id] = &tables.TourTable{
		ID:          id,
		OwnerID:     ownerID,
		Title:       title,
		Description: description,
		Status:      tables.TourStatusActive,
	}
	f.participants[key(id, ownerID)] = true
	return id, nil
}

func (f *fakeStore) Tour(_ context.Context, id uuid.UUID) (*tables.TourTable, error) {
	t, ok := f.tours[id]
	if !ok {
		return nil, db.ErrNotFound
	}
	c := *t
	return &c, nil
}

func (f *fakeStore) TourStatus(_ context.Context, id uuid.UUID) (string, error) {
	t, ok := f.tours[id]
	if !ok {
		return "", db.ErrNotFound
	}
	return t.Status, nil
}

func (f *fakeStore) ToursForUser(_ context.Context, userID uuid.UUID) ([]*tables.TourTable, error) {
	var out []*tables.TourTable
	for _, t := range f.tours {
		if f.participants[key(t.ID, userID)] {
			c := *t
			out = append(out, &c)
		}
	}
	return out, nil
}

func (f *fakeStore) SetTourStatus(
	_ context.Context,
	id uuid.UUID,
	ownerID uuid.UUID,
	status string,
) (bool, error) {
	t, ok := f.tours[id]
	if !ok || t.OwnerID != ownerID {
		return false, nil
	}
	t.Status = status
	return true, nil
}

func (f *fakeStore) IsParticipant(_ context.Context, tourID uuid.UUID, userID uuid.UUID) (bool, error) {
	return f.participants[key(tourID, userID)], nil
}

type fakeDispatcher struct {
	dispatched []events.EventName
}

func (d *fakeDispatcher) Dispatch(_ context.Context, ev events.Event) {
	d.dispatched = append(d.dispatched, ev.Name())
}

func setup(t *testing.T) (*Service, *fakeStore, *fakeDispatcher) {
	t.Helper()
	store := newFakeStore()
	dispatcher := &fakeDispatcher{}
	return New(store, zaptest.NewLogger(t), dispatcher), store, dispatcher
}

func TestCreateMakesOwnerTheFirstParticipant(t *testing.T) {
	service, store, dispatcher := setup(t)
	owner := uuid.New()

	id, err := service.Create(context.Background(), owner, "Alps 2026", nil)
	require.NoError(t, err)
	assert.True(t, store.participants[key(id, owner)])
	assert.Equal(t,
		[]events.EventName{event.TourCreatedEvent, event.ParticipantJoinedEvent},
		dispatcher.dispatched)
}

func TestByIDHidesToursFromNonParticipants(t *testing.T) {
	service, _, _ := setup(t)
	owner := uuid.New()
	id, err := service.Create(context.Background(), owner, "Alps", nil)
	require.NoError(t, err)

	tour, err := service.ByID(context.Background(), id, owner)
	require.NoError(t, err)
	assert.Equal(t, "Alps", tour.Title)

	_, err = service.ByID(context.Background(), id, uuid.New())
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = service.ByID(context.Background(), uuid.New(), owner)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestArchiveIsOwnerOnly(t *testing.T) {
	service, store, _ := setup(t)
	owner := uuid.New()
	id, err := service.Create(context.Background(), owner, "Alps", nil)
	require.NoError(t, err)

	err = service.Archive(context.Background(), id, uuid.New())
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Equal(t, tables.TourStatusActive, store.tours[id].Status)

	require.NoError(t, service.Archive(context.Background(), id, owner))
	assert.Equal(t, tables.TourStatusArchived, store.tours[id].Status)

	require.NoError(t, service.Unarchive(context.Background(), id, owner))
	assert.Equal(t, tables.TourStatusActive, store.tours[id].Status)
}

func TestEnsureNotArchived(t *testing.T) {
	service, _, _ := setup(t)
	owner := uuid.New()
	id, err := service.Create(context.Background(), owner, "Alps", nil)
	require.NoError(t, err)

	assert.NoError(t, service.EnsureNotArchived(context.Background(), id))

	require.NoError(t, service.Archive(context.Background(), id, owner))
	assert.ErrorIs(t, service.EnsureNotArchived(context.Background(), id), ErrArchived)

	assert.ErrorIs(t, service.EnsureNotArchived(context.Background(), uuid.New()), ErrNotFound)
}

func TestIsArchived(t *testing.T) {
	service, _, _ := setup(t)
	owner := uuid.New()
	id, err := service.Create(context.Background(), owner, "Alps", nil)
	require.NoError(t, err)

	archived, err := service.IsArchived(context.Background(), id)
	require.NoError(t, err)
	assert.False(t, archived)

	require.NoError(t, service.Archive(context.Background(), id, owner))
	archived, err = service.IsArchived(context.Background(), id)
	require.NoError(t, err)
	assert.True(t, archived)
}

func TestForUser(t *testing.T) {
	service, _, _ := setup(t)
	owner := uuid.New()
	_, err := service.Create(context.Background(), owner, "Alps", nil)
	require.NoError(t, err)
	_, err = service.Create(context.Background(), owner, "Coast", nil)
	require.NoError(t, err)
	_, err = service.Create(context.Background(), uuid.New(), "Someone else", nil)
	require.NoError(t, err)

	tours, err := service.ForUser(context.Background(), owner)
	require.NoError(t, err)
	assert.Len(t, tours, 2)
}
