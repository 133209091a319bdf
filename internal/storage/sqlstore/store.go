// Package sqlstore provides the relational storage backend, on SQLite or PostgreSQL.
package sqlstore

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/mcoot/connectfour/internal/model"
	"github.com/mcoot/connectfour/internal/storage"
	"github.com/mcoot/connectfour/internal/storage/sqlstore/migrations"
)

// Config holds the relational store configuration
type Config struct {
	Driver string // DriverSQLite or DriverPostgres
	DSN    string // file path for sqlite, connection URL for postgres

	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	QueryTimeout    time.Duration

	// Logger receives warnings about unreadable stored rows; nil discards them
	Logger *slog.Logger
}

// DefaultConfig returns the pool settings used when none are configured
func DefaultConfig() Config {
	return Config{
		Driver:          DriverSQLite,
		DSN:             "data/connectfour.db",
		MaxOpenConns:    16,
		MaxIdleConns:    8,
		ConnMaxLifetime: 30 * time.Minute,
		QueryTimeout:    5 * time.Second,
	}
}

// Storage is a database/sql implementation of the storage interface
type Storage struct {
	db      *sql.DB
	dialect dialect
	timeout time.Duration
	logger  *slog.Logger
}

// Ensure Storage implements the interface
var _ storage.Storage = (*Storage)(nil)

// Open connects to the database, verifies it is reachable and applies the embedded migrations
func Open(ctx context.Context, cfg Config) (*Storage, error) {
	if strings.TrimSpace(cfg.DSN) == "" {
		return nil, fmt.Errorf("storage dsn is required")
	}

	var (
		d   dialect
		dsn string
	)
	switch cfg.Driver {
	case DriverSQLite, "":
		d = sqliteDialect
		path := filepath.Clean(cfg.DSN)
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("create sqlite directory: %w", err)
		}
		dsn = path + "?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)"
	case DriverPostgres:
		d = postgresDialect
		dsn = cfg.DSN
	default:
		return nil, fmt.Errorf("unknown sql driver: %s", cfg.Driver)
	}

	db, err := sql.Open(d.driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("open %s db: %w", d.driver, err)
	}

	if d.driver == DriverSQLite {
		// sqlite allows a single writer
		db.SetMaxOpenConns(1)
	} else {
		db.SetMaxOpenConns(cfg.MaxOpenConns)
		db.SetMaxIdleConns(cfg.MaxIdleConns)
		db.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	s := &Storage{db: db, dialect: d, timeout: cfg.QueryTimeout, logger: logger.With(slog.String("component", "sqlstore"))}

	if err := s.Ping(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}

	migrateCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()
	if err := applyMigrations(migrateCtx, db, d, migrations.FS, d.migrationRoot); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return s, nil
}

// Player operations

func (s *Storage) CreatePlayer(ctx context.Context, player *model.Player) error {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	_, err := s.db.ExecContext(ctx, s.dialect.rebind(
		`INSERT INTO players (identity, name, name_key, score, wins, draws, losses)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`),
		string(player.Identity),
		player.Name,
		model.NameKey(player.Name),
		player.Score,
		player.Wins,
		player.Draws,
		player.Losses,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return model.ErrDuplicatePlayer
		}
		return wrap("create player", err)
	}
	return nil
}

func (s *Storage) GetPlayerByName(ctx context.Context, name string) (*model.Player, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	row := s.db.QueryRowContext(ctx, s.dialect.rebind(
		`SELECT identity, name, score, wins, draws, losses FROM players WHERE name = ?`), name)

	p, err := scanPlayer(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, model.ErrPlayerNotFound
		}
		return nil, wrap("get player", err)
	}
	return p, nil
}

func (s *Storage) ListPlayers(ctx context.Context) ([]model.Player, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	rows, err := s.db.QueryContext(ctx,
		`SELECT identity, name, score, wins, draws, losses FROM players`)
	if err != nil {
		return nil, wrap("list players", err)
	}
	defer rows.Close()

	players := []model.Player{}
	for rows.Next() {
		p, err := scanPlayer(rows)
		if err != nil {
			return nil, wrap("scan player", err)
		}
		players = append(players, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, wrap("list players", err)
	}

	// sorted in Go so that name ties follow byte order on every dialect
	storage.SortLeaderboard(players)
	return players, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanPlayer(row scanner) (*model.Player, error) {
	var (
		p        model.Player
		identity string
	)
	if err := row.Scan(&identity, &p.Name, &p.Score, &p.Wins, &p.Draws, &p.Losses); err != nil {
		return nil, err
	}
	p.Identity = model.PlayerIdentity(identity)
	return &p, nil
}

// Result operations

func (s *Storage) ApplyWin(ctx context.Context, winnerName, loserName string) error {
	return s.inTx(ctx, func(ctx context.Context, tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, s.dialect.rebind(
			`UPDATE players SET score = score + 1, wins = wins + 1 WHERE name = ?`), winnerName); err != nil {
			return wrap("apply win", err)
		}
		if _, err := tx.ExecContext(ctx, s.dialect.rebind(
			`UPDATE players SET score = score - 1, losses = losses + 1 WHERE name = ?`), loserName); err != nil {
			return wrap("apply loss", err)
		}
		return nil
	})
}

func (s *Storage) ApplyDraw(ctx context.Context, nameA, nameB string) error {
	return s.inTx(ctx, func(ctx context.Context, tx *sql.Tx) error {
		for _, name := range []string{nameA, nameB} {
			if _, err := tx.ExecContext(ctx, s.dialect.rebind(
				`UPDATE players SET draws = draws + 1 WHERE name = ?`), name); err != nil {
				return wrap("apply draw", err)
			}
		}
		return nil
	})
}

// Session operations

const sessionColumns = `
	s.id, s.player_identity, COALESCE(p.name, ''), s.opponent_identity, COALESCE(o.name, ''),
	s.status, s.board, s.created_at
	FROM sessions s
	LEFT JOIN players p ON p.identity = s.player_identity
	LEFT JOIN players o ON o.identity = s.opponent_identity`

func (s *Storage) CreateSession(ctx context.Context, session *model.Session) (model.SessionID, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	board, err := json.Marshal(session.Board)
	if err != nil {
		return 0, fmt.Errorf("encode board: %w", err)
	}

	var id int64
	err = s.db.QueryRowContext(ctx, s.dialect.rebind(
		`INSERT INTO sessions (player_identity, opponent_identity, status, board, created_at)
		 VALUES (?, ?, ?, ?, ?) RETURNING id`),
		string(session.Player.Identity),
		string(session.Opponent.Identity),
		string(session.Status),
		string(board),
		toMillis(session.CreatedAt),
	).Scan(&id)
	if err != nil {
		if isForeignKeyViolation(err) {
			return 0, model.ErrPlayerNotFound
		}
		return 0, wrap("create session", err)
	}
	return model.SessionID(id), nil
}

func (s *Storage) GetSession(ctx context.Context, id model.SessionID) (*model.Session, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	row := s.db.QueryRowContext(ctx, s.dialect.rebind(`SELECT`+sessionColumns+` WHERE s.id = ?`), int64(id))
	session, err := s.scanSession(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, model.ErrSessionNotFound
		}
		return nil, wrap("get session", err)
	}
	return session, nil
}

func (s *Storage) UpdateSessionBoard(ctx context.Context, id model.SessionID, board model.BoardState) error {
	encoded, err := json.Marshal(board)
	if err != nil {
		return fmt.Errorf("encode board: %w", err)
	}

	return s.inTx(ctx, func(ctx context.Context, tx *sql.Tx) error {
		var status string
		err := tx.QueryRowContext(ctx, s.dialect.rebind(
			`SELECT status FROM sessions WHERE id = ?`), int64(id)).Scan(&status)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return model.ErrSessionNotFound
			}
			return wrap("get session status", err)
		}
		if model.SessionStatus(status) != model.SessionInProgress {
			return model.ErrSessionFinished
		}
		return s.writeBoard(ctx, tx, id, encoded)
	})
}

func (s *Storage) UpdateLatestSessionBoard(ctx context.Context, a, b model.PlayerIdentity, board model.BoardState) (model.SessionID, error) {
	encoded, err := json.Marshal(board)
	if err != nil {
		return 0, fmt.Errorf("encode board: %w", err)
	}

	var id model.SessionID
	err = s.inTx(ctx, func(ctx context.Context, tx *sql.Tx) error {
		latest, err := s.latestInProgress(ctx, tx, a, b)
		if err != nil {
			return err
		}
		id = latest
		return s.writeBoard(ctx, tx, latest, encoded)
	})
	return id, err
}

// writeBoard overwrites the board only while the session is still in progress
func (s *Storage) writeBoard(ctx context.Context, tx *sql.Tx, id model.SessionID, board []byte) error {
	res, err := tx.ExecContext(ctx, s.dialect.rebind(
		`UPDATE sessions SET board = ? WHERE id = ? AND status = ?`),
		string(board), int64(id), string(model.SessionInProgress))
	if err != nil {
		return wrap("update board", err)
	}
	return expectOneRow(res)
}

func (s *Storage) FinishSession(ctx context.Context, id model.SessionID) error {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	res, err := s.db.ExecContext(ctx, s.dialect.rebind(
		`UPDATE sessions SET status = ? WHERE id = ?`), string(model.SessionFinished), int64(id))
	if err != nil {
		return wrap("finish session", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return wrap("finish session", err)
	}
	if n == 0 {
		return model.ErrSessionNotFound
	}
	return nil
}

func (s *Storage) FinishLatestSession(ctx context.Context, a, b model.PlayerIdentity) (model.SessionID, error) {
	var id model.SessionID
	err := s.inTx(ctx, func(ctx context.Context, tx *sql.Tx) error {
		latest, err := s.latestInProgress(ctx, tx, a, b)
		if err != nil {
			return err
		}
		id = latest

		res, err := tx.ExecContext(ctx, s.dialect.rebind(
			`UPDATE sessions SET status = ? WHERE id = ? AND status = ?`),
			string(model.SessionFinished), int64(latest), string(model.SessionInProgress))
		if err != nil {
			return wrap("finish session", err)
		}
		return expectOneRow(res)
	})
	return id, err
}

func (s *Storage) ListSessions(ctx context.Context) ([]model.Session, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	rows, err := s.db.QueryContext(ctx, `SELECT`+sessionColumns+` ORDER BY s.created_at DESC, s.id DESC`)
	if err != nil {
		return nil, wrap("list sessions", err)
	}
	defer rows.Close()

	sessions := []model.Session{}
	for rows.Next() {
		session, err := s.scanSession(rows)
		if err != nil {
			return nil, wrap("scan session", err)
		}
		sessions = append(sessions, *session)
	}
	if err := rows.Err(); err != nil {
		return nil, wrap("list sessions", err)
	}
	return sessions, nil
}

func (s *Storage) latestInProgress(ctx context.Context, tx *sql.Tx, a, b model.PlayerIdentity) (model.SessionID, error) {
	var id int64
	err := tx.QueryRowContext(ctx, s.dialect.rebind(
		`SELECT id FROM sessions
		 WHERE status = ?
		   AND ((player_identity = ? AND opponent_identity = ?)
		     OR (player_identity = ? AND opponent_identity = ?))
		 ORDER BY created_at DESC, id DESC
		 LIMIT 1`),
		string(model.SessionInProgress), string(a), string(b), string(b), string(a),
	).Scan(&id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, model.ErrNoSessionInProgress
		}
		return 0, wrap("find latest session", err)
	}
	return model.SessionID(id), nil
}

// scanSession reads one session row. A stored board that is not a JSON object
// reads as an empty board so one bad row cannot break listings.
func (s *Storage) scanSession(row scanner) (*model.Session, error) {
	var (
		id               int64
		player, opponent string
		status, board    string
		createdAt        int64
		session          model.Session
	)
	if err := row.Scan(
		&id,
		&player, &session.Player.Name,
		&opponent, &session.Opponent.Name,
		&status, &board, &createdAt,
	); err != nil {
		return nil, err
	}

	state, err := model.ParseBoardState([]byte(board))
	if err != nil {
		s.logger.Warn("unreadable board replaced by an empty one",
			slog.Int64("session_id", id),
			slog.String("error", err.Error()),
		)
		state = model.NewBoardState()
	}

	session.ID = model.SessionID(id)
	session.Player.Identity = model.PlayerIdentity(player)
	session.Opponent.Identity = model.PlayerIdentity(opponent)
	session.Status = model.SessionStatus(status)
	session.Board = state
	session.CreatedAt = fromMillis(createdAt)
	return &session, nil
}

// Connection operations

func (s *Storage) Ping(ctx context.Context) error {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	if err := s.db.PingContext(ctx); err != nil {
		return fmt.Errorf("ping %s: %w: %w", s.dialect.driver, model.ErrStoreUnavailable, err)
	}
	return nil
}

func (s *Storage) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Helpers

func (s *Storage) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, s.timeout)
}

// inTx runs fn in a transaction, rolling back unless fn and the commit succeed
func (s *Storage) inTx(ctx context.Context, fn func(ctx context.Context, tx *sql.Tx) error) error {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return wrap("begin transaction", err)
	}
	defer func() { _ = tx.Rollback() }()

	if err := fn(ctx, tx); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return wrap("commit transaction", err)
	}
	return nil
}

// expectOneRow treats a guarded update that matched nothing as a lost race
func expectOneRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return wrap("rows affected", err)
	}
	if n != 1 {
		return model.ErrConcurrentUpdate
	}
	return nil
}

// wrap annotates err with the operation and tags connection failures as ErrStoreUnavailable
func wrap(op string, err error) error {
	if isUnavailable(err) {
		return fmt.Errorf("%s: %w: %w", op, model.ErrStoreUnavailable, err)
	}
	return fmt.Errorf("%s: %w", op, err)
}

func isUnavailable(err error) bool {
	if errors.Is(err, driver.ErrBadConn) ||
		errors.Is(err, sql.ErrConnDone) ||
		errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr)
}

func toMillis(value time.Time) int64 {
	return value.UTC().UnixMilli()
}

func fromMillis(value int64) time.Time {
	return time.UnixMilli(value).UTC()
}
