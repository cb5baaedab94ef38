//go:build integration
// +build integration

package db

import (
	"context"
	"log"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/pbartela/plantour/config"
	"github.com/pbartela/plantour/db/tables"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest"

	_ "github.com/go-sql-driver/mysql"
	_ "github.com/jackc/pgx/v4/stdlib"
	_ "github.com/mattn/go-sqlite3"
)

type DatabaseIntegrationTestSuite struct {
	suite.Suite
	dataStore *DataStore
	dbType    string
	dsn       string
}

func (s *DatabaseIntegrationTestSuite) SetupTest() {
	//reset to clean state
	switch s.dbType {
	case "sqlite":
		//just reopen for :memory:
		dataStore, err := NewSqliteStore(zap.NewNop(), &config.DatabaseConfiguration{
			Type: s.dbType,
			DSN:  s.dsn,
		})
		if err != nil {
			log.Fatal("error creating database store")
		}
		s.dataStore = dataStore
	case "pg":
		s.dataStore.db.MustExec("DROP SCHEMA IF EXISTS plantour CASCADE;")
	case "mysql":
		s.dataStore.db.MustExec("DROP DATABASE IF EXISTS plantour;")
		s.dataStore.db.MustExec("CREATE DATABASE plantour;")
		s.dataStore.db.MustExec("USE plantour;")
	}

	err := s.dataStore.EnsureUsable()
	assert.NoError(s.T(), err)
}

func (s *DatabaseIntegrationTestSuite) seedOwner() uuid.UUID {
	id := uuid.New()
	err := s.dataStore.EnsureProfile(context.Background(), id, "owner@plantour.local")
	assert.NoError(s.T(), err)
	return id
}

func (s *DatabaseIntegrationTestSuite) seedTour(owner uuid.UUID) uuid.UUID {
	id, err := s.dataStore.CreateTour(context.Background(), owner, "Alps 2026", nil)
	assert.NoError(s.T(), err)
	return id
}

// Profiles part

func (s *DatabaseIntegrationTestSuite) TestEnsureProfileIsIdempotent() {
	id := uuid.New()
	err := s.dataStore.EnsureProfile(context.Background(), id, "Traveler@Plantour.Local")
	assert.NoError(s.T(), err)
	err = s.dataStore.EnsureProfile(context.Background(), id, "traveler@plantour.local")
	assert.NoError(s.T(), err)

	profile, err := s.dataStore.ProfileByID(context.Background(), id)
	assert.NoError(s.T(), err)
	assert.Equal(s.T(), "traveler@plantour.local", profile.Email)
}

func (s *DatabaseIntegrationTestSuite) TestSetDisplayName() {
	id := s.seedOwner()
	ok, err := s.dataStore.SetDisplayName(context.Background(), id, "Maya")
	assert.NoError(s.T(), err)
	assert.True(s.T(), ok)

	profile, err := s.dataStore.ProfileByID(context.Background(), id)
	assert.NoError(s.T(), err)
	if assert.NotNil(s.T(), profile.DisplayName) {
		assert.Equal(s.T(), "Maya", *profile.DisplayName)
	}

	ok, err = s.dataStore.SetDisplayName(context.Background(), uuid.New(), "Nobody")
	assert.NoError(s.T(), err)
	assert.False(s.T(), ok)
}

// Tours part

func (s *DatabaseIntegrationTestSuite) TestCreateTourAddsOwnerAsParticipant() {
	owner := s.seedOwner()
	tourID := s.seedTour(owner)

	ok, err := s.dataStore.IsParticipant(context.Background(), tourID, owner)
	assert.NoError(s.T(), err)
	assert.True(s.T(), ok)

	status, err := s.dataStore.TourStatus(context.Background(), tourID)
	assert.NoError(s.T(), err)
	assert.Equal(s.T(), tables.TourStatusActive, status)
}

func (s *DatabaseIntegrationTestSuite) TestSetTourStatusIsOwnerScoped() {
	owner := s.seedOwner()
	tourID := s.seedTour(owner)

	ok, err := s.dataStore.SetTourStatus(
		context.Background(),
		tourID,
		uuid.New(),
		tables.TourStatusArchived,
	)
	assert.NoError(s.T(), err)
	assert.False(s.T(), ok)

	ok, err = s.dataStore.SetTourStatus(
		context.Background(),
		tourID,
		owner,
		tables.TourStatusArchived,
	)
	assert.NoError(s.T(), err)
	assert.True(s.T(), ok)

	status, err := s.dataStore.TourStatus(context.Background(), tourID)
	assert.NoError(s.T(), err)
	assert.Equal(s.T(), tables.TourStatusArchived, status)
}

func (s *DatabaseIntegrationTestSuite) TestToursForUser() {
	owner := s.seedOwner()
	s.seedTour(owner)
	s.seedTour(owner)

	tours, err := s.dataStore.ToursForUser(context.Background(), owner)
	assert.NoError(s.T(), err)
	assert.Len(s.T(), tours, 2)

	tours, err = s.dataStore.ToursForUser(context.Background(), uuid.New())
	assert.NoError(s.T(), err)
	assert.Len(s.T(), tours, 0)
}

// Invitations part

func (s *DatabaseIntegrationTestSuite) TestInsertAndFetchInvitation() {
	owner := s.seedOwner()
	tourID := s.seedTour(owner)
	expires := time.Now().UTC().Add(time.Hour)

	id, err := s.dataStore.InsertInvitation(
		context.Background(),
		tourID,
		owner,
		"guest@plantour.local",
		"token-1",
		expires,
	)
	assert.NoError(s.T(), err)

	details, err := s.dataStore.InvitationByToken(context.Background(), "token-1")
	assert.NoError(s.T(), err)
	assert.Equal(s.T(), id, details.ID)
	assert.Equal(s.T(), "Alps 2026", details.TourTitle)
	assert.Equal(s.T(), "owner@plantour.local", details.InviterEmail)
	assert.Equal(s.T(), tables.InvitationStatusPending, details.Status)

	_, err = s.dataStore.InvitationByToken(context.Background(), "no-such-token")
	assert.ErrorIs(s.T(), err, ErrNotFound)
}

func (s *DatabaseIntegrationTestSuite) TestDuplicateTokenIsRejected() {
	owner := s.seedOwner()
	tourID := s.seedTour(owner)
	expires := time.Now().UTC().Add(time.Hour)

	_, err := s.dataStore.InsertInvitation(
		context.Background(), tourID, owner, "a@plantour.local", "same-token", expires)
	assert.NoError(s.T(), err)
	_, err = s.dataStore.InsertInvitation(
		context.Background(), tourID, owner, "b@plantour.local", "same-token", expires)
	assert.ErrorIs(s.T(), err, ErrAlreadyExists)
}

func (s *DatabaseIntegrationTestSuite) TestLatestInvitationPicksNewest() {
	owner := s.seedOwner()
	tourID := s.seedTour(owner)

	_, err := s.dataStore.InsertInvitation(
		context.Background(), tourID, owner, "guest@plantour.local", "old-token",
		time.Now().UTC().Add(-time.Hour))
	assert.NoError(s.T(), err)
	time.Sleep(10 * time.Millisecond)
	newest, err := s.dataStore.InsertInvitation(
		context.Background(), tourID, owner, "guest@plantour.local", "new-token",
		time.Now().UTC().Add(time.Hour))
	assert.NoError(s.T(), err)

	latest, err := s.dataStore.LatestInvitation(
		context.Background(), tourID, "Guest@Plantour.Local")
	assert.NoError(s.T(), err)
	assert.Equal(s.T(), newest, latest.ID)
}

func (s *DatabaseIntegrationTestSuite) TestAcceptInvitation() {
	owner := s.seedOwner()
	tourID := s.seedTour(owner)
	userID := uuid.New()
	err := s.dataStore.EnsureProfile(context.Background(), userID, "guest@plantour.local")
	assert.NoError(s.T(), err)

	id, err := s.dataStore.InsertInvitation(
		context.Background(), tourID, owner, "guest@plantour.local", "token-a",
		time.Now().UTC().Add(time.Hour))
	assert.NoError(s.T(), err)

	already, err := s.dataStore.AcceptInvitation(context.Background(), id, tourID, userID)
	assert.NoError(s.T(), err)
	assert.False(s.T(), already)

	inv, err := s.dataStore.InvitationByID(context.Background(), id)
	assert.NoError(s.T(), err)
	assert.Equal(s.T(), tables.InvitationStatusAccepted, inv.Status)
	assert.Nil(s.T(), inv.Token)

	ok, err := s.dataStore.IsParticipant(context.Background(), tourID, userID)
	assert.NoError(s.T(), err)
	assert.True(s.T(), ok)
}

func (s *DatabaseIntegrationTestSuite) TestAcceptInvitationAlreadyParticipant() {
	owner := s.seedOwner()
	tourID := s.seedTour(owner)

	id, err := s.dataStore.InsertInvitation(
		context.Background(), tourID, owner, "owner@plantour.local", "token-b",
		time.Now().UTC().Add(time.Hour))
	assert.NoError(s.T(), err)

	// the owner already sits in the participants table
	already, err := s.dataStore.AcceptInvitation(context.Background(), id, tourID, owner)
	assert.NoError(s.T(), err)
	assert.True(s.T(), already)

	inv, err := s.dataStore.InvitationByID(context.Background(), id)
	assert.NoError(s.T(), err)
	assert.Equal(s.T(), tables.InvitationStatusAccepted, inv.Status)
}

// a second redemption hits the participants primary key inside the
// transaction, the status flip must still commit on every backend
func (s *DatabaseIntegrationTestSuite) TestAcceptSecondInvitationSameTour() {
	owner := s.seedOwner()
	tourID := s.seedTour(owner)
	userID := uuid.New()
	err := s.dataStore.EnsureProfile(context.Background(), userID, "guest@plantour.local")
	assert.NoError(s.T(), err)

	first, err := s.dataStore.InsertInvitation(
		context.Background(), tourID, owner, "guest@plantour.local", "token-d",
		time.Now().UTC().Add(time.Hour))
	assert.NoError(s.T(), err)
	second, err := s.dataStore.InsertInvitation(
		context.Background(), tourID, owner, "guest@plantour.local", "token-e",
		time.Now().UTC().Add(time.Hour))
	assert.NoError(s.T(), err)

	already, err := s.dataStore.AcceptInvitation(context.Background(), first, tourID, userID)
	assert.NoError(s.T(), err)
	assert.False(s.T(), already)

	already, err = s.dataStore.AcceptInvitation(context.Background(), second, tourID, userID)
	assert.NoError(s.T(), err)
	assert.True(s.T(), already)

	inv, err := s.dataStore.InvitationByID(context.Background(), second)
	assert.NoError(s.T(), err)
	assert.Equal(s.T(), tables.InvitationStatusAccepted, inv.Status)

	members, err := s.dataStore.Participants(context.Background(), tourID)
	assert.NoError(s.T(), err)
	assert.Len(s.T(), members, 2)
}

func (s *DatabaseIntegrationTestSuite) TestDeclineProtectsAccepted() {
	owner := s.seedOwner()
	tourID := s.seedTour(owner)
	userID := uuid.New()

	id, err := s.dataStore.InsertInvitation(
		context.Background(), tourID, owner, "guest@plantour.local", "token-c",
		time.Now().UTC().Add(time.Hour))
	assert.NoError(s.T(), err)
	_, err = s.dataStore.AcceptInvitation(context.Background(), id, tourID, userID)
	assert.NoError(s.T(), err)

	err = s.dataStore.DeclineInvitation(context.Background(), id)
	assert.ErrorIs(s.T(), err, ErrNotFound)

	err = s.dataStore.DeleteInvitation(context.Background(), id)
	assert.ErrorIs(s.T(), err, ErrNotFound)
}

func (s *DatabaseIntegrationTestSuite) TestRefreshInvitation() {
	owner := s.seedOwner()
	tourID := s.seedTour(owner)

	id, err := s.dataStore.InsertInvitation(
		context.Background(), tourID, owner, "guest@plantour.local", "stale",
		time.Now().UTC().Add(-time.Hour))
	assert.NoError(s.T(), err)
	err = s.dataStore.DeclineInvitation(context.Background(), id)
	assert.NoError(s.T(), err)

	expires := time.Now().UTC().Add(time.Hour)
	err = s.dataStore.RefreshInvitation(context.Background(), id, "fresh", expires)
	assert.NoError(s.T(), err)

	inv, err := s.dataStore.InvitationByID(context.Background(), id)
	assert.NoError(s.T(), err)
	assert.Equal(s.T(), tables.InvitationStatusPending, inv.Status)
	if assert.NotNil(s.T(), inv.Token) {
		assert.Equal(s.T(), "fresh", *inv.Token)
	}
}

func (s *DatabaseIntegrationTestSuite) TestPendingInvitationsForEmail() {
	owner := s.seedOwner()
	tourID := s.seedTour(owner)
	other := s.seedTour(owner)

	_, err := s.dataStore.InsertInvitation(
		context.Background(), tourID, owner, "guest@plantour.local", "live",
		time.Now().UTC().Add(time.Hour))
	assert.NoError(s.T(), err)
	_, err = s.dataStore.InsertInvitation(
		context.Background(), other, owner, "guest@plantour.local", "gone",
		time.Now().UTC().Add(-time.Hour))
	assert.NoError(s.T(), err)

	pending, err := s.dataStore.PendingInvitationsForEmail(
		context.Background(), "Guest@Plantour.Local")
	assert.NoError(s.T(), err)
	assert.Len(s.T(), pending, 1)
	assert.Equal(s.T(), tourID, pending[0].TourID)
}

func (s *DatabaseIntegrationTestSuite) TestIsParticipantEmail() {
	owner := s.seedOwner()
	tourID := s.seedTour(owner)

	ok, err := s.dataStore.IsParticipantEmail(
		context.Background(), tourID, "Owner@Plantour.Local")
	assert.NoError(s.T(), err)
	assert.True(s.T(), ok)

	ok, err = s.dataStore.IsParticipantEmail(
		context.Background(), tourID, "stranger@plantour.local")
	assert.NoError(s.T(), err)
	assert.False(s.T(), ok)
}

func (s *DatabaseIntegrationTestSuite) TestInvitationsListing() {
	owner := s.seedOwner()
	tourID := s.seedTour(owner)
	for _, token := range []string{"t1", "t2", "t3"} {
		_, err := s.dataStore.InsertInvitation(
			context.Background(), tourID, owner, token+"@plantour.local", token,
			time.Now().UTC().Add(time.Hour))
		assert.NoError(s.T(), err)
	}

	entries, total, err := s.dataStore.Invitations(
		context.Background(), ListOptions{Page: 1, PageSize: 2})
	assert.NoError(s.T(), err)
	assert.Equal(s.T(), 3, total)
	assert.Len(s.T(), entries, 2)
}

func TestDatabaseIntegration(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration tests in short mode")
	}
	logger := zaptest.NewLogger(t)
	s := new(DatabaseIntegrationTestSuite)
	dbType := os.Getenv("IT_DB_TYPE")
	dsn := os.Getenv("IT_DB_DSN")
	if dbType == "" {
		dbType = "sqlite"
		dsn = ":memory:?_fk=on"
	}
	switch dbType {
	case "mysql":
		dataStore, err := NewMysqlStore(logger, &config.DatabaseConfiguration{
			Type: dbType,
			DSN:  dsn,
		})
		if err != nil {
			log.Fatal("error creating database store")
		}
		s.dataStore = dataStore
	case "pg":
		dataStore, err := NewPostgresStore(logger, &config.DatabaseConfiguration{
			Type: dbType,
			DSN:  dsn,
		})
		if err != nil {
			log.Fatal("error creating database store")
		}
		s.dataStore = dataStore
	default:
		dataStore, err := NewSqliteStore(logger, &config.DatabaseConfiguration{
			Type: dbType,
			DSN:  dsn,
		})
		if err != nil {
			log.Fatal("error creating database store")
		}
		s.dataStore = dataStore
	}
	s.dbType = dbType
	s.dsn = dsn
	suite.Run(t, s)
}
