package factory

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"github.com/mcoot/connectfour/internal/model"
	"github.com/mcoot/connectfour/internal/storage/memory"
	"github.com/mcoot/connectfour/internal/storage/sqlstore"
)

type IntegrationSuite struct {
	suite.Suite
	app *TestApp
	ctx context.Context
}

func TestIntegrationSuite(t *testing.T) {
	suite.Run(t, new(IntegrationSuite))
}

func (s *IntegrationSuite) SetupTest() {
	s.app = NewTestApp()
	s.ctx = context.Background()
}

func (s *IntegrationSuite) register(name, identity string) {
	_, err := s.app.Players.Register(s.ctx, name, identity)
	s.Require().NoError(err)
}

func (s *IntegrationSuite) stats(name string) model.PlayerStats {
	st, err := s.app.Players.Stats(s.ctx, name)
	s.Require().NoError(err)
	return st
}

// Test: Complete match from registration to leaderboard
func (s *IntegrationSuite) TestCompleteMatchFlow() {
	// Step 1: Register both players
	s.register("Ana", "111")
	s.register("Beto", "222")

	// Step 2: Start a session
	session, err := s.app.Sessions.Create(s.ctx, "Ana", "Beto", nil)
	s.Require().NoError(err)
	s.Equal(model.SessionInProgress, session.Status)
	s.Equal(s.app.MockClock.Peek(), session.CreatedAt)

	// Step 3: Play a few moves by pair
	board := model.NewBoardState()
	board.Board[5][0] = model.CellMarkA
	board.Turn = 1
	id, err := s.app.Sessions.UpdateLatestBoard(s.ctx, "Beto", "Ana", board)
	s.Require().NoError(err)
	s.Equal(session.ID, id)

	// Step 4: Finish and record the result
	_, err = s.app.Sessions.FinishLatest(s.ctx, "Ana", "Beto")
	s.Require().NoError(err)
	s.Require().NoError(s.app.Stats.RecordWin(s.ctx, "Ana", "Beto"))

	// Verify final state
	stored, err := s.app.Sessions.Get(s.ctx, session.ID)
	s.Require().NoError(err)
	s.Equal(model.SessionFinished, stored.Status)
	s.Equal(model.CellMarkA, stored.Board.Board[5][0])

	s.Equal(model.PlayerStats{Score: 1, Wins: 1}, s.stats("Ana"))
	s.Equal(model.PlayerStats{Score: -1, Losses: 1}, s.stats("Beto"))

	leaderboard, err := s.app.Players.Leaderboard(s.ctx)
	s.Require().NoError(err)
	s.Require().Len(leaderboard, 2)
	s.Equal("Ana", leaderboard[0].Name)
}

// Test: A rematch opens a new session while the finished one stays readable
func (s *IntegrationSuite) TestRematchAfterDraw() {
	s.register("Ana", "111")
	s.register("Beto", "222")

	first, err := s.app.Sessions.Create(s.ctx, "Ana", "Beto", nil)
	s.Require().NoError(err)
	s.Require().NoError(s.app.Sessions.Finish(s.ctx, first.ID))
	s.Require().NoError(s.app.Stats.RecordDraw(s.ctx, "Ana", "Beto"))

	s.app.MockClock.Advance(time.Minute)
	second, err := s.app.Sessions.Rematch(s.ctx, "Ana", "Beto", first.ID)
	s.Require().NoError(err)
	s.Greater(second.ID, first.ID)

	list, err := s.app.Sessions.List(s.ctx)
	s.Require().NoError(err)
	s.Require().Len(list, 2)
	s.Equal(second.ID, list[0].ID)
	s.Equal(model.SessionFinished, list[1].Status)

	s.Equal(model.PlayerStats{Draws: 1}, s.stats("Ana"))
	s.Equal(model.PlayerStats{Draws: 1}, s.stats("Beto"))
}

// Test: Updates by id are rejected once the session is finished
func (s *IntegrationSuite) TestFinishedSessionIsFrozen() {
	s.register("Ana", "111")
	s.register("Beto", "222")

	session, err := s.app.Sessions.Create(s.ctx, "Ana", "Beto", nil)
	s.Require().NoError(err)
	s.Require().NoError(s.app.Sessions.Finish(s.ctx, session.ID))

	err = s.app.Sessions.UpdateBoard(s.ctx, session.ID, model.NewBoardState())
	s.ErrorIs(err, model.ErrSessionFinished)

	_, err = s.app.Sessions.FinishLatest(s.ctx, "Ana", "Beto")
	s.ErrorIs(err, model.ErrNoSessionInProgress)
}

func TestNewDefaultsToMemoryWhenAsked(t *testing.T) {
	app, err := New(context.Background(), Config{StorageType: StorageTypeMemory})
	require.NoError(t, err)
	defer app.Close()

	assert.IsType(t, &memory.Storage{}, app.Storage)
	assert.NotNil(t, app.Players)
	assert.NotNil(t, app.Sessions)
	assert.NotNil(t, app.Stats)
	assert.NotNil(t, app.Handler())
}

func TestNewOpensSQLite(t *testing.T) {
	cfg := sqlstore.DefaultConfig()
	cfg.DSN = filepath.Join(t.TempDir(), "c4.db")

	app, err := New(context.Background(), Config{SQLConfig: &cfg})
	require.NoError(t, err)
	defer app.Close()

	assert.IsType(t, &sqlstore.Storage{}, app.Storage)
	assert.NoError(t, app.Storage.Ping(context.Background()))
}

func TestNewRejectsUnknownStorage(t *testing.T) {
	_, err := New(context.Background(), Config{StorageType: "mongo"})
	assert.Error(t, err)
}

func TestNewRequiresRedisConfig(t *testing.T) {
	_, err := New(context.Background(), Config{StorageType: StorageTypeRedis})
	assert.Error(t, err)
}
