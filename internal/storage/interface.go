package storage

import (
	"context"

	"github.com/mcoot/connectfour/internal/model"
)

// Storage defines the interface for data persistence.
//
// Every method is one atomic unit: implementations either apply all of the
// statements behind a call or none of them.
type Storage interface {
	// Player operations

	// CreatePlayer inserts a new player. It returns model.ErrDuplicatePlayer when
	// the name (case-insensitive) or the identity is already taken.
	CreatePlayer(ctx context.Context, player *model.Player) error
	// GetPlayerByName resolves a player by exact name
	GetPlayerByName(ctx context.Context, name string) (*model.Player, error)
	// ListPlayers returns every player ordered by score descending, then name ascending
	ListPlayers(ctx context.Context) ([]model.Player, error)

	// Result operations. Names that match no player are skipped silently.

	ApplyWin(ctx context.Context, winnerName, loserName string) error
	ApplyDraw(ctx context.Context, nameA, nameB string) error

	// Session operations

	// CreateSession inserts the session and returns the generated id.
	// The ID field of the argument is ignored.
	CreateSession(ctx context.Context, session *model.Session) (model.SessionID, error)
	// GetSession returns the session with both player names resolved
	GetSession(ctx context.Context, id model.SessionID) (*model.Session, error)
	// UpdateSessionBoard overwrites the board of an in-progress session.
	// It returns model.ErrSessionNotFound or model.ErrSessionFinished.
	UpdateSessionBoard(ctx context.Context, id model.SessionID, board model.BoardState) error
	// UpdateLatestSessionBoard overwrites the board of the newest in-progress session
	// between the two identities, in either order
	UpdateLatestSessionBoard(ctx context.Context, a, b model.PlayerIdentity, board model.BoardState) (model.SessionID, error)
	// FinishSession marks the session finished; finishing a finished session is a no-op
	FinishSession(ctx context.Context, id model.SessionID) error
	// FinishLatestSession finishes the newest in-progress session between the two identities
	FinishLatestSession(ctx context.Context, a, b model.PlayerIdentity) (model.SessionID, error)
	// ListSessions returns every session, newest first
	ListSessions(ctx context.Context) ([]model.Session, error)

	// Ping reports whether the store is reachable
	Ping(ctx context.Context) error
	// Close releases the underlying connections
	Close() error
}
