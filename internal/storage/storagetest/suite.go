// Package storagetest holds the behavior every storage backend must share.
package storagetest

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/mcoot/connectfour/internal/model"
	"github.com/mcoot/connectfour/internal/storage"
)

// Suite runs the storage contract against the backend returned by NewStorage
type Suite struct {
	suite.Suite

	// NewStorage returns an empty store for each test
	NewStorage func(t *testing.T) storage.Storage

	store storage.Storage
	ctx   context.Context
	now   time.Time
}

func (s *Suite) SetupTest() {
	s.store = s.NewStorage(s.T())
	s.ctx = context.Background()
	s.now = time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
}

func (s *Suite) TearDownTest() {
	if s.store != nil {
		_ = s.store.Close()
	}
}

// Helpers

func (s *Suite) createPlayer(name, identity string) *model.Player {
	p, err := model.NewPlayer(name, identity)
	s.Require().NoError(err)
	s.Require().NoError(s.store.CreatePlayer(s.ctx, p))
	return p
}

func (s *Suite) createSession(a, b *model.Player, at time.Time) model.SessionID {
	id, err := s.store.CreateSession(s.ctx, &model.Session{
		Player:    model.PlayerRef{Identity: a.Identity},
		Opponent:  model.PlayerRef{Identity: b.Identity},
		Status:    model.SessionInProgress,
		Board:     model.NewBoardState(),
		CreatedAt: at,
	})
	s.Require().NoError(err)
	return id
}

func (s *Suite) getPlayer(name string) *model.Player {
	p, err := s.store.GetPlayerByName(s.ctx, name)
	s.Require().NoError(err)
	return p
}

func (s *Suite) getSession(id model.SessionID) *model.Session {
	session, err := s.store.GetSession(s.ctx, id)
	s.Require().NoError(err)
	return session
}

func boardWithMove(row, col int, cell model.Cell, turn int) model.BoardState {
	b := model.NewBoardState()
	b.Board[row][col] = cell
	b.Turn = turn
	return b
}

// Player tests

func (s *Suite) TestCreateAndGetPlayer() {
	s.createPlayer("Ana", "111")

	p := s.getPlayer("Ana")
	s.Equal(model.PlayerIdentity("111"), p.Identity)
	s.Equal("Ana", p.Name)
	s.Equal(model.PlayerStats{}, p.Stats())
}

func (s *Suite) TestGetPlayerByNameIsExact() {
	s.createPlayer("Ana", "111")

	_, err := s.store.GetPlayerByName(s.ctx, "ana")
	s.ErrorIs(err, model.ErrPlayerNotFound)

	_, err = s.store.GetPlayerByName(s.ctx, "Nobody")
	s.ErrorIs(err, model.ErrPlayerNotFound)
}

func (s *Suite) TestCreatePlayerDuplicateNameIgnoresCase() {
	s.createPlayer("Ana", "111")

	p, err := model.NewPlayer("ANA", "999")
	s.Require().NoError(err)
	s.ErrorIs(s.store.CreatePlayer(s.ctx, p), model.ErrDuplicatePlayer)

	_, err = s.store.GetPlayerByName(s.ctx, "ANA")
	s.ErrorIs(err, model.ErrPlayerNotFound)
}

func (s *Suite) TestCreatePlayerDuplicateIdentity() {
	s.createPlayer("Ana", "111")

	p, err := model.NewPlayer("Beto", "111")
	s.Require().NoError(err)
	s.ErrorIs(s.store.CreatePlayer(s.ctx, p), model.ErrDuplicatePlayer)

	_, err = s.store.GetPlayerByName(s.ctx, "Beto")
	s.ErrorIs(err, model.ErrPlayerNotFound)
}

func (s *Suite) TestListPlayersLeaderboardOrder() {
	s.createPlayer("Carla", "333")
	s.createPlayer("Beto", "222")
	s.createPlayer("Ana", "111")
	s.createPlayer("Dario", "444")

	s.Require().NoError(s.store.ApplyWin(s.ctx, "Dario", "Carla"))

	players, err := s.store.ListPlayers(s.ctx)
	s.Require().NoError(err)

	names := make([]string, len(players))
	for i, p := range players {
		names[i] = p.Name
	}
	s.Equal([]string{"Dario", "Ana", "Beto", "Carla"}, names)
	s.Equal(-1, players[3].Score)
}

func (s *Suite) TestListPlayersEmpty() {
	players, err := s.store.ListPlayers(s.ctx)
	s.Require().NoError(err)
	s.Empty(players)
}

// Result tests

func (s *Suite) TestApplyWin() {
	s.createPlayer("Ana", "111")
	s.createPlayer("Beto", "222")

	s.Require().NoError(s.store.ApplyWin(s.ctx, "Ana", "Beto"))

	s.Equal(model.PlayerStats{Score: 1, Wins: 1}, s.getPlayer("Ana").Stats())
	s.Equal(model.PlayerStats{Score: -1, Losses: 1}, s.getPlayer("Beto").Stats())
}

func (s *Suite) TestApplyDraw() {
	s.createPlayer("Ana", "111")
	s.createPlayer("Beto", "222")
	s.Require().NoError(s.store.ApplyWin(s.ctx, "Ana", "Beto"))

	s.Require().NoError(s.store.ApplyDraw(s.ctx, "Ana", "Beto"))

	s.Equal(model.PlayerStats{Score: 1, Wins: 1, Draws: 1}, s.getPlayer("Ana").Stats())
	s.Equal(model.PlayerStats{Score: -1, Losses: 1, Draws: 1}, s.getPlayer("Beto").Stats())
}

func (s *Suite) TestApplyResultsWithUnknownNamesAreSkipped() {
	s.createPlayer("Ana", "111")

	s.Require().NoError(s.store.ApplyWin(s.ctx, "Ana", "Ghost"))
	s.Require().NoError(s.store.ApplyWin(s.ctx, "Ghost", "Phantom"))
	s.Require().NoError(s.store.ApplyDraw(s.ctx, "Ghost", "Ana"))

	s.Equal(model.PlayerStats{Score: 1, Wins: 1, Draws: 1}, s.getPlayer("Ana").Stats())

	players, err := s.store.ListPlayers(s.ctx)
	s.Require().NoError(err)
	s.Len(players, 1)
}

// Session tests

func (s *Suite) TestCreateAndGetSession() {
	ana := s.createPlayer("Ana", "111")
	beto := s.createPlayer("Beto", "222")

	first := s.createSession(ana, beto, s.now)
	second := s.createSession(beto, ana, s.now.Add(time.Minute))
	s.Positive(int64(first))
	s.Greater(second, first)

	session := s.getSession(first)
	s.Equal(first, session.ID)
	s.Equal(model.PlayerRef{Identity: "111", Name: "Ana"}, session.Player)
	s.Equal(model.PlayerRef{Identity: "222", Name: "Beto"}, session.Opponent)
	s.Equal(model.SessionInProgress, session.Status)
	s.Equal(model.NewBoardState(), session.Board)
	s.True(s.now.Equal(session.CreatedAt), "created at %v, want %v", session.CreatedAt, s.now)
	s.Equal("2024-01-01 12:00:00", session.CreatedAtString())
}

func (s *Suite) TestGetSessionNotFound() {
	_, err := s.store.GetSession(s.ctx, 4242)
	s.ErrorIs(err, model.ErrSessionNotFound)
}

func (s *Suite) TestUpdateSessionBoard() {
	ana := s.createPlayer("Ana", "111")
	beto := s.createPlayer("Beto", "222")
	id := s.createSession(ana, beto, s.now)

	board := boardWithMove(5, 3, model.CellMarkA, 1)
	s.Require().NoError(s.store.UpdateSessionBoard(s.ctx, id, board))

	s.Equal(board, s.getSession(id).Board)
}

func (s *Suite) TestUpdateSessionBoardNotFound() {
	err := s.store.UpdateSessionBoard(s.ctx, 4242, model.NewBoardState())
	s.ErrorIs(err, model.ErrSessionNotFound)
}

func (s *Suite) TestUpdateFinishedSessionLeavesBoardUnchanged() {
	ana := s.createPlayer("Ana", "111")
	beto := s.createPlayer("Beto", "222")
	id := s.createSession(ana, beto, s.now)

	before := boardWithMove(5, 0, model.CellMarkB, 0)
	s.Require().NoError(s.store.UpdateSessionBoard(s.ctx, id, before))
	s.Require().NoError(s.store.FinishSession(s.ctx, id))

	err := s.store.UpdateSessionBoard(s.ctx, id, boardWithMove(4, 0, model.CellMarkA, 1))
	s.ErrorIs(err, model.ErrSessionFinished)

	session := s.getSession(id)
	s.Equal(model.SessionFinished, session.Status)
	s.Equal(before, session.Board)
}

func (s *Suite) TestUpdateLatestSessionBoardIsSymmetricAndPicksNewest() {
	ana := s.createPlayer("Ana", "111")
	beto := s.createPlayer("Beto", "222")
	older := s.createSession(ana, beto, s.now)
	newer := s.createSession(beto, ana, s.now.Add(time.Minute))

	board := boardWithMove(5, 6, model.CellMarkA, 1)
	id, err := s.store.UpdateLatestSessionBoard(s.ctx, ana.Identity, beto.Identity, board)
	s.Require().NoError(err)
	s.Equal(newer, id)

	s.Equal(board, s.getSession(newer).Board)
	s.Equal(model.NewBoardState(), s.getSession(older).Board)
}

func (s *Suite) TestUpdateLatestSessionBoardSkipsFinished() {
	ana := s.createPlayer("Ana", "111")
	beto := s.createPlayer("Beto", "222")
	older := s.createSession(ana, beto, s.now)
	newer := s.createSession(ana, beto, s.now.Add(time.Minute))
	s.Require().NoError(s.store.FinishSession(s.ctx, newer))

	id, err := s.store.UpdateLatestSessionBoard(s.ctx, beto.Identity, ana.Identity, boardWithMove(0, 0, model.CellMarkB, 0))
	s.Require().NoError(err)
	s.Equal(older, id)
}

func (s *Suite) TestUpdateLatestSessionBoardWithoutSession() {
	ana := s.createPlayer("Ana", "111")
	beto := s.createPlayer("Beto", "222")
	carla := s.createPlayer("Carla", "333")
	s.createSession(ana, carla, s.now)

	_, err := s.store.UpdateLatestSessionBoard(s.ctx, ana.Identity, beto.Identity, model.NewBoardState())
	s.ErrorIs(err, model.ErrNoSessionInProgress)
}

func (s *Suite) TestFinishSessionIsIdempotent() {
	ana := s.createPlayer("Ana", "111")
	beto := s.createPlayer("Beto", "222")
	id := s.createSession(ana, beto, s.now)

	s.Require().NoError(s.store.FinishSession(s.ctx, id))
	s.Require().NoError(s.store.FinishSession(s.ctx, id))
	s.Equal(model.SessionFinished, s.getSession(id).Status)
}

func (s *Suite) TestFinishSessionNotFound() {
	s.ErrorIs(s.store.FinishSession(s.ctx, 4242), model.ErrSessionNotFound)
}

func (s *Suite) TestFinishLatestSession() {
	ana := s.createPlayer("Ana", "111")
	beto := s.createPlayer("Beto", "222")
	older := s.createSession(ana, beto, s.now)
	newer := s.createSession(ana, beto, s.now.Add(time.Minute))

	id, err := s.store.FinishLatestSession(s.ctx, beto.Identity, ana.Identity)
	s.Require().NoError(err)
	s.Equal(newer, id)
	s.Equal(model.SessionFinished, s.getSession(newer).Status)
	s.Equal(model.SessionInProgress, s.getSession(older).Status)

	id, err = s.store.FinishLatestSession(s.ctx, ana.Identity, beto.Identity)
	s.Require().NoError(err)
	s.Equal(older, id)

	_, err = s.store.FinishLatestSession(s.ctx, ana.Identity, beto.Identity)
	s.ErrorIs(err, model.ErrNoSessionInProgress)
}

func (s *Suite) TestListSessionsNewestFirst() {
	ana := s.createPlayer("Ana", "111")
	beto := s.createPlayer("Beto", "222")
	carla := s.createPlayer("Carla", "333")

	first := s.createSession(ana, beto, s.now)
	second := s.createSession(carla, ana, s.now.Add(2*time.Minute))
	third := s.createSession(beto, carla, s.now.Add(time.Minute))
	s.Require().NoError(s.store.FinishSession(s.ctx, first))

	sessions, err := s.store.ListSessions(s.ctx)
	s.Require().NoError(err)
	s.Require().Len(sessions, 3)

	s.Equal(second, sessions[0].ID)
	s.Equal(third, sessions[1].ID)
	s.Equal(first, sessions[2].ID)

	s.Equal("Carla", sessions[0].Player.Name)
	s.Equal("Ana", sessions[0].Opponent.Name)
	s.Equal(model.SessionFinished, sessions[2].Status)
	s.Equal("2024-01-01 12:02:00", sessions[0].CreatedAtString())
}

func (s *Suite) TestPing() {
	s.NoError(s.store.Ping(s.ctx))
}
