package sessions

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/mcoot/connectfour/internal/dependencies/clock"
	"github.com/mcoot/connectfour/internal/model"
	"github.com/mcoot/connectfour/internal/storage"
)

// Service manages game sessions between two registered players
type Service struct {
	storage storage.Storage
	clock   clock.Clock
	logger  *slog.Logger
}

// New creates a new session Service
func New(store storage.Storage, clk clock.Clock, logger *slog.Logger) *Service {
	return &Service{
		storage: store,
		clock:   clk,
		logger:  logger.With(slog.String("component", "sessions")),
	}
}

// Create starts an in-progress session between two players given by name.
// A nil board starts from an empty grid with turn 0.
func (s *Service) Create(ctx context.Context, nameA, nameB string, board *model.BoardState) (*model.Session, error) {
	a, b, err := s.resolvePair(ctx, nameA, nameB)
	if err != nil {
		return nil, err
	}
	if a.Identity == b.Identity {
		return nil, model.ErrSamePlayer
	}

	state := model.NewBoardState()
	if board != nil {
		state = *board
	}

	session := &model.Session{
		Player:    model.PlayerRef{Identity: a.Identity, Name: a.Name},
		Opponent:  model.PlayerRef{Identity: b.Identity, Name: b.Name},
		Status:    model.SessionInProgress,
		Board:     state,
		CreatedAt: s.clock.Now().UTC(),
	}

	id, err := s.storage.CreateSession(ctx, session)
	if err != nil {
		s.logger.Error("failed to create session",
			slog.String("player", a.Name),
			slog.String("opponent", b.Name),
			slog.String("error", err.Error()),
		)
		return nil, err
	}
	session.ID = id

	s.logger.Info("session created",
		slog.Int64("session_id", int64(id)),
		slog.String("player", a.Name),
		slog.String("opponent", b.Name),
	)
	return session, nil
}

// Rematch starts a fresh session between the same two players.
// The previous session, if given, is only recorded in the log.
func (s *Service) Rematch(ctx context.Context, nameA, nameB string, previous model.SessionID) (*model.Session, error) {
	session, err := s.Create(ctx, nameA, nameB, nil)
	if err != nil {
		return nil, err
	}
	if previous > 0 {
		s.logger.Info("rematch started",
			slog.Int64("session_id", int64(session.ID)),
			slog.Int64("previous_session_id", int64(previous)),
		)
	}
	return session, nil
}

// Get returns the session with both player names resolved
func (s *Service) Get(ctx context.Context, id model.SessionID) (*model.Session, error) {
	return s.storage.GetSession(ctx, id)
}

// UpdateBoard overwrites the board of an in-progress session
func (s *Service) UpdateBoard(ctx context.Context, id model.SessionID, board model.BoardState) error {
	if err := s.storage.UpdateSessionBoard(ctx, id, board); err != nil {
		s.logFailure("failed to update board", err, slog.Int64("session_id", int64(id)))
		return err
	}
	s.logger.Debug("board updated", slog.Int64("session_id", int64(id)))
	return nil
}

// UpdateLatestBoard overwrites the board of the newest in-progress session between
// the two players, in either order. Older in-progress sessions of the pair are left alone.
func (s *Service) UpdateLatestBoard(ctx context.Context, nameA, nameB string, board model.BoardState) (model.SessionID, error) {
	a, b, err := s.resolveInProgressPair(ctx, nameA, nameB)
	if err != nil {
		return 0, err
	}

	id, err := s.storage.UpdateLatestSessionBoard(ctx, a.Identity, b.Identity, board)
	if err != nil {
		s.logFailure("failed to update latest board", err,
			slog.String("player", a.Name), slog.String("opponent", b.Name))
		return 0, err
	}
	s.logger.Debug("board updated", slog.Int64("session_id", int64(id)))
	return id, nil
}

// Finish marks the session finished. Finishing a finished session is a no-op.
func (s *Service) Finish(ctx context.Context, id model.SessionID) error {
	if err := s.storage.FinishSession(ctx, id); err != nil {
		s.logFailure("failed to finish session", err, slog.Int64("session_id", int64(id)))
		return err
	}
	s.logger.Info("session finished", slog.Int64("session_id", int64(id)))
	return nil
}

// FinishLatest finishes the newest in-progress session between the two players
func (s *Service) FinishLatest(ctx context.Context, nameA, nameB string) (model.SessionID, error) {
	a, b, err := s.resolveInProgressPair(ctx, nameA, nameB)
	if err != nil {
		return 0, err
	}

	id, err := s.storage.FinishLatestSession(ctx, a.Identity, b.Identity)
	if err != nil {
		s.logFailure("failed to finish latest session", err,
			slog.String("player", a.Name), slog.String("opponent", b.Name))
		return 0, err
	}
	s.logger.Info("session finished", slog.Int64("session_id", int64(id)))
	return id, nil
}

// List returns every session, newest first
func (s *Service) List(ctx context.Context) ([]model.Session, error) {
	return s.storage.ListSessions(ctx)
}

// resolvePair looks both players up by exact name
func (s *Service) resolvePair(ctx context.Context, nameA, nameB string) (*model.Player, *model.Player, error) {
	if strings.TrimSpace(nameA) == "" {
		return nil, nil, model.NewValidationError("jugador1", "player name is required")
	}
	if strings.TrimSpace(nameB) == "" {
		return nil, nil, model.NewValidationError("jugador2", "player name is required")
	}

	a, err := s.storage.GetPlayerByName(ctx, nameA)
	if err != nil {
		return nil, nil, fmt.Errorf("jugador1 %q: %w", nameA, err)
	}
	b, err := s.storage.GetPlayerByName(ctx, nameB)
	if err != nil {
		return nil, nil, fmt.Errorf("jugador2 %q: %w", nameB, err)
	}
	return a, b, nil
}

// resolveInProgressPair is resolvePair for the pair lookups, where an unknown
// name simply means there is no session in progress
func (s *Service) resolveInProgressPair(ctx context.Context, nameA, nameB string) (*model.Player, *model.Player, error) {
	a, b, err := s.resolvePair(ctx, nameA, nameB)
	if errors.Is(err, model.ErrPlayerNotFound) {
		return nil, nil, model.ErrNoSessionInProgress
	}
	return a, b, err
}

func (s *Service) logFailure(msg string, err error, attrs ...any) {
	switch {
	case errors.Is(err, model.ErrSessionNotFound),
		errors.Is(err, model.ErrNoSessionInProgress),
		errors.Is(err, model.ErrSessionFinished):
		return
	}
	s.logger.Error(msg, append(attrs, slog.String("error", err.Error()))...)
}
