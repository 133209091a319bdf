package stats

import (
	"context"
	"log/slog"
	"strings"

	"github.com/mcoot/connectfour/internal/model"
	"github.com/mcoot/connectfour/internal/storage"
)

// Service applies match results to the player counters.
//
// Results are matched by exact name. A name that matches no player is skipped
// and the call still succeeds.
type Service struct {
	storage storage.Storage
	logger  *slog.Logger
}

// New creates a new stats Service
func New(store storage.Storage, logger *slog.Logger) *Service {
	return &Service{
		storage: store,
		logger:  logger.With(slog.String("component", "stats")),
	}
}

// RecordWin gives the winner +1 score and a win, and the loser -1 score and a loss, atomically
func (s *Service) RecordWin(ctx context.Context, winner, loser string) error {
	if err := requireNames("ganador", winner, "perdedor", loser); err != nil {
		return err
	}

	if err := s.storage.ApplyWin(ctx, winner, loser); err != nil {
		s.logger.Error("failed to record win",
			slog.String("winner", winner),
			slog.String("loser", loser),
			slog.String("error", err.Error()),
		)
		return err
	}

	s.logger.Info("win recorded",
		slog.String("winner", winner),
		slog.String("loser", loser),
	)
	return nil
}

// RecordDraw adds a draw to both players, atomically
func (s *Service) RecordDraw(ctx context.Context, playerA, playerB string) error {
	if err := requireNames("jugador1", playerA, "jugador2", playerB); err != nil {
		return err
	}

	if err := s.storage.ApplyDraw(ctx, playerA, playerB); err != nil {
		s.logger.Error("failed to record draw",
			slog.String("player_a", playerA),
			slog.String("player_b", playerB),
			slog.String("error", err.Error()),
		)
		return err
	}

	s.logger.Info("draw recorded",
		slog.String("player_a", playerA),
		slog.String("player_b", playerB),
	)
	return nil
}

func requireNames(fieldA, a, fieldB, b string) error {
	if strings.TrimSpace(a) == "" {
		return model.NewValidationError(fieldA, "player name is required")
	}
	if strings.TrimSpace(b) == "" {
		return model.NewValidationError(fieldB, "player name is required")
	}
	return nil
}
