package sqlstore

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"github.com/mcoot/connectfour/internal/model"
	"github.com/mcoot/connectfour/internal/storage"
	"github.com/mcoot/connectfour/internal/storage/storagetest"
	"github.com/mcoot/connectfour/internal/testutil"
)

func openTestStore(t *testing.T, path string) *Storage {
	t.Helper()
	cfg := DefaultConfig()
	cfg.DSN = path
	s, err := Open(context.Background(), cfg)
	require.NoError(t, err)
	return s
}

func TestSQLiteStorageSuite(t *testing.T) {
	suite.Run(t, &storagetest.Suite{
		NewStorage: func(t *testing.T) storage.Storage {
			return openTestStore(t, filepath.Join(t.TempDir(), "connectfour.db"))
		},
	})
}

func TestOpenCreatesMissingDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "dir", "c4.db")
	s := openTestStore(t, path)
	defer s.Close()

	assert.FileExists(t, path)
}

func TestOpenRejectsUnknownDriver(t *testing.T) {
	_, err := Open(context.Background(), Config{Driver: "oracle", DSN: "x"})
	assert.Error(t, err)

	_, err = Open(context.Background(), Config{Driver: DriverSQLite})
	assert.Error(t, err)
}

func TestReopenKeepsDataAndSkipsAppliedMigrations(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "c4.db")

	s := openTestStore(t, path)
	p, err := model.NewPlayer("Ana", "111")
	require.NoError(t, err)
	require.NoError(t, s.CreatePlayer(ctx, p))
	require.NoError(t, s.Close())

	s = openTestStore(t, path)
	defer s.Close()

	got, err := s.GetPlayerByName(ctx, "Ana")
	require.NoError(t, err)
	assert.Equal(t, model.PlayerIdentity("111"), got.Identity)

	var applied int
	require.NoError(t, s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM "+migrationTable).Scan(&applied))
	assert.Equal(t, 1, applied)
}

func TestBoardIsStoredAsJSON(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t, filepath.Join(t.TempDir(), "c4.db"))
	defer s.Close()

	for _, p := range []struct{ name, id string }{{"Ana", "111"}, {"Beto", "222"}} {
		player, err := model.NewPlayer(p.name, p.id)
		require.NoError(t, err)
		require.NoError(t, s.CreatePlayer(ctx, player))
	}

	state, err := model.ParseBoardState([]byte(`{"tablero":[[0]],"turno":1,"ganador":null}`))
	require.NoError(t, err)

	id, err := s.CreateSession(ctx, &model.Session{
		Player:    model.PlayerRef{Identity: "111"},
		Opponent:  model.PlayerRef{Identity: "222"},
		Status:    model.SessionInProgress,
		Board:     state,
		CreatedAt: time.UnixMilli(1700000000123),
	})
	require.NoError(t, err)

	var raw string
	var createdAt int64
	require.NoError(t, s.db.QueryRowContext(ctx,
		"SELECT board, created_at FROM sessions WHERE id = ?", int64(id)).Scan(&raw, &createdAt))
	assert.JSONEq(t, `{
		"tablero": [
			[0,null,null,null,null,null,null],
			[null,null,null,null,null,null,null],
			[null,null,null,null,null,null,null],
			[null,null,null,null,null,null,null],
			[null,null,null,null,null,null,null],
			[null,null,null,null,null,null,null]
		],
		"turno": 1,
		"ganador": null
	}`, raw)
	assert.Equal(t, int64(1700000000123), createdAt)
}

func TestStoredBoardsAreNormalizedOnRead(t *testing.T) {
	ctx := context.Background()
	logger, logs := testutil.CaptureLogger()
	cfg := DefaultConfig()
	cfg.DSN = filepath.Join(t.TempDir(), "c4.db")
	cfg.Logger = logger
	s, err := Open(ctx, cfg)
	require.NoError(t, err)
	defer s.Close()

	for _, p := range []struct{ name, id string }{{"Ana", "111"}, {"Beto", "222"}} {
		player, err := model.NewPlayer(p.name, p.id)
		require.NoError(t, err)
		require.NoError(t, s.CreatePlayer(ctx, player))
	}

	insert := func(board string, createdAt int64) model.SessionID {
		var id int64
		require.NoError(t, s.db.QueryRowContext(ctx,
			`INSERT INTO sessions (player_identity, opponent_identity, status, board, created_at)
			 VALUES ('111', '222', 'En progreso', ?, ?) RETURNING id`, board, createdAt).Scan(&id))
		return model.SessionID(id)
	}
	messy := insert(`{"tablero":[[5,"x",1,0,true,null,2]],"turno":2}`, 1000)
	broken := insert(`null`, 2000)

	session, err := s.GetSession(ctx, messy)
	require.NoError(t, err)
	want := model.Board{}
	want[0][2] = model.CellMarkB
	want[0][3] = model.CellMarkA
	assert.Equal(t, want, session.Board.Board)
	assert.Equal(t, 2, session.Board.Turn)

	session, err = s.GetSession(ctx, broken)
	require.NoError(t, err)
	assert.Equal(t, model.NewBoardState(), session.Board)

	sessions, err := s.ListSessions(ctx)
	require.NoError(t, err)
	require.Len(t, sessions, 2)
	assert.Equal(t, broken, sessions[0].ID)
	assert.Equal(t, model.Board{}, sessions[0].Board.Board)
	assert.Equal(t, "Ana", sessions[0].Player.Name)
	assert.Equal(t, messy, sessions[1].ID)

	assert.Contains(t, logs.String(), "unreadable board replaced by an empty one")
}

func TestCreateSessionWithUnknownPlayer(t *testing.T) {
	s := openTestStore(t, filepath.Join(t.TempDir(), "c4.db"))
	defer s.Close()

	_, err := s.CreateSession(context.Background(), &model.Session{
		Player:   model.PlayerRef{Identity: "nobody"},
		Opponent: model.PlayerRef{Identity: "ghost"},
		Status:   model.SessionInProgress,
		Board:    model.NewBoardState(),
	})
	assert.ErrorIs(t, err, model.ErrPlayerNotFound)
}

func TestPingAfterCloseIsUnavailable(t *testing.T) {
	s := openTestStore(t, filepath.Join(t.TempDir(), "c4.db"))
	require.NoError(t, s.Close())

	assert.ErrorIs(t, s.Ping(context.Background()), model.ErrStoreUnavailable)
}

func TestRebind(t *testing.T) {
	query := "UPDATE sessions SET board = ? WHERE id = ? AND status = ?"

	assert.Equal(t, query, sqliteDialect.rebind(query))
	assert.Equal(t,
		"UPDATE sessions SET board = $1 WHERE id = $2 AND status = $3",
		postgresDialect.rebind(query))
	assert.Equal(t, "SELECT 1", postgresDialect.rebind("SELECT 1"))
}

func TestExtractUpMigration(t *testing.T) {
	content := "-- +migrate Up\nCREATE TABLE a (x INT);\n-- +migrate Down\nDROP TABLE a;\n"
	assert.Equal(t, "\nCREATE TABLE a (x INT);\n", extractUpMigration(content))
	assert.Equal(t, "CREATE TABLE b (y INT);", extractUpMigration("CREATE TABLE b (y INT);"))
}

func TestWrapTagsConnectionFailures(t *testing.T) {
	assert.ErrorIs(t, wrap("op", sql.ErrConnDone), model.ErrStoreUnavailable)
	assert.ErrorIs(t, wrap("op", context.DeadlineExceeded), model.ErrStoreUnavailable)

	err := wrap("op", sql.ErrTxDone)
	assert.NotErrorIs(t, err, model.ErrStoreUnavailable)
	assert.ErrorIs(t, err, sql.ErrTxDone)
}
