package players

import (
	"context"
	"errors"
	"log/slog"

	"github.com/mcoot/connectfour/internal/model"
	"github.com/mcoot/connectfour/internal/storage"
)

// Service is the player directory: registration, leaderboard and per-player stats
type Service struct {
	storage storage.Storage
	logger  *slog.Logger
}

// New creates a new player Service
func New(store storage.Storage, logger *slog.Logger) *Service {
	return &Service{
		storage: store,
		logger:  logger.With(slog.String("component", "players")),
	}
}

// Register creates a player with every counter at zero.
// Blank fields fail with a ValidationError before the store is touched.
func (s *Service) Register(ctx context.Context, name, identity string) (*model.Player, error) {
	player, err := model.NewPlayer(name, identity)
	if err != nil {
		return nil, err
	}

	if err := s.storage.CreatePlayer(ctx, player); err != nil {
		if !errors.Is(err, model.ErrDuplicatePlayer) {
			s.logger.Error("failed to register player",
				slog.String("name", player.Name),
				slog.String("error", err.Error()),
			)
		}
		return nil, err
	}

	s.logger.Info("player registered",
		slog.String("name", player.Name),
		slog.String("identity", string(player.Identity)),
	)
	return player, nil
}

// Get returns the player with exactly this name
func (s *Service) Get(ctx context.Context, name string) (*model.Player, error) {
	if name == "" {
		return nil, model.NewValidationError("nombre", "name is required")
	}
	return s.storage.GetPlayerByName(ctx, name)
}

// Leaderboard returns every player by score descending, then name ascending
func (s *Service) Leaderboard(ctx context.Context) ([]model.Player, error) {
	return s.storage.ListPlayers(ctx)
}

// Stats returns the counters of the named player, or model.ErrPlayerNotFound
func (s *Service) Stats(ctx context.Context, name string) (model.PlayerStats, error) {
	p, err := s.Get(ctx, name)
	if err != nil {
		return model.PlayerStats{}, err
	}
	return p.Stats(), nil
}
