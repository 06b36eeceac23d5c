package factory

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"github.com/typerace/typerace-go/internal/model"
	"github.com/typerace/typerace-go/internal/services/registry"
	"github.com/typerace/typerace-go/internal/services/room"
	"github.com/typerace/typerace-go/internal/testutil"
)

func TestNewDefaultsToMemoryStorage(t *testing.T) {
	app, err := New(Config{
		Registry: registry.DefaultConfig(),
		Logger:   testutil.NopLogger(),
	})
	require.NoError(t, err)

	assert.NotNil(t, app.Storage)
	assert.NotNil(t, app.PassageService)
	assert.NotNil(t, app.Hub)
	assert.NotNil(t, app.Registry)
	assert.NotNil(t, app.Gateway)
}

func TestNewRejectsUnknownStorageType(t *testing.T) {
	_, err := New(Config{StorageType: "etched-stone", Logger: testutil.NopLogger()})
	assert.Error(t, err)
}

func TestNewRequiresRedisConfig(t *testing.T) {
	_, err := New(Config{StorageType: StorageTypeRedis, Logger: testutil.NopLogger()})
	assert.Error(t, err)
}

// AppSuite drives whole races through the wired application, asserting on
// registry snapshots rather than transport events.
type AppSuite struct {
	suite.Suite
	app *TestApp
}

func TestAppSuite(t *testing.T) {
	suite.Run(t, new(AppSuite))
}

func (s *AppSuite) SetupTest() {
	s.app = NewTestApp()
	s.Require().NoError(s.app.LoadTestPassages())
}

func (s *AppSuite) player(conn string, name string) room.PlayerInfo {
	return room.PlayerInfo{ConnectionID: model.ConnectionID(conn), Username: name}
}

func (s *AppSuite) TestCreateRoomFailsBeforePassagesLoad() {
	app := NewTestApp()
	app.MockRandom.QueueString("ABC234")

	_, err := app.Registry.CreateRoom(s.player("conn-a", "alice"))
	s.ErrorIs(err, model.ErrNoPassages)
}

func (s *AppSuite) TestFullRaceLifecycle() {
	s.app.MockRandom.QueueIntn(1)
	s.app.MockRandom.QueueString("ABC234")

	created, err := s.app.Registry.CreateRoom(s.player("conn-a", "alice"))
	s.Require().NoError(err)
	s.Equal("pack my box with five dozen liquor jugs", created.Passage)

	_, err = s.app.Registry.JoinRoom(created.ID, s.player("conn-b", "bob"))
	s.Require().NoError(err)

	s.Require().NoError(s.app.Registry.StartGame(created.ID, "conn-a"))
	snapshot, err := s.app.Registry.GetRoom(created.ID)
	s.Require().NoError(err)
	s.Equal(model.RoomStateCountdown, snapshot.State)

	s.app.MockClock.Advance(registry.DefaultConfig().Room.CountdownDuration)
	snapshot, err = s.app.Registry.GetRoom(created.ID)
	s.Require().NoError(err)
	s.Equal(model.RoomStateRacing, snapshot.State)
	s.Require().NotNil(snapshot.RaceStartedAt)

	s.Require().NoError(s.app.Registry.UpdateProgress(created.ID, "conn-b", 100, 91, 99))
	s.Require().NoError(s.app.Registry.UpdateProgress(created.ID, "conn-a", 100, 74, 96))

	snapshot, err = s.app.Registry.GetRoom(created.ID)
	s.Require().NoError(err)
	s.Equal(model.RoomStateCompleted, snapshot.State)
	s.Require().Len(snapshot.Players, 2)
	s.Equal(2, snapshot.Players[0].Position) // alice, joined first but finished second
	s.Equal(1, snapshot.Players[1].Position)
	s.Require().NotNil(snapshot.Players[1].FinishTimeMs)
}

func (s *AppSuite) TestHostMigrationAcrossLifecycle() {
	s.app.MockRandom.QueueString("ABC234")

	created, err := s.app.Registry.CreateRoom(s.player("conn-a", "alice"))
	s.Require().NoError(err)
	_, err = s.app.Registry.JoinRoom(created.ID, s.player("conn-b", "bob"))
	s.Require().NoError(err)
	_, err = s.app.Registry.JoinRoom(created.ID, s.player("conn-c", "carol"))
	s.Require().NoError(err)

	s.app.Registry.LeaveRoom(created.ID, "conn-a")

	snapshot, err := s.app.Registry.GetRoom(created.ID)
	s.Require().NoError(err)
	s.Equal(model.ConnectionID("conn-b"), snapshot.HostID)

	// The promoted host can start; the old host's commands are rejected
	s.ErrorIs(s.app.Registry.StartGame(created.ID, "conn-a"), model.ErrNotInRoom)
	s.Require().NoError(s.app.Registry.StartGame(created.ID, "conn-b"))
}

func (s *AppSuite) TestRoomDestroyedWhenRosterDrains() {
	s.app.MockRandom.QueueString("ABC234")

	created, err := s.app.Registry.CreateRoom(s.player("conn-a", "alice"))
	s.Require().NoError(err)
	_, err = s.app.Registry.JoinRoom(created.ID, s.player("conn-b", "bob"))
	s.Require().NoError(err)

	s.app.Registry.LeaveRoom(created.ID, "conn-a")
	s.app.Registry.LeaveRoom(created.ID, "conn-b")

	s.Equal(0, s.app.Registry.Count())
	_, err = s.app.Registry.GetRoom(created.ID)
	s.ErrorIs(err, model.ErrRoomNotFound)
}
