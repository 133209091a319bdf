package memory

import (
	"context"
	"sync"

	"github.com/mcoot/connectfour/internal/model"
	"github.com/mcoot/connectfour/internal/storage"
)

// Storage is an in-memory implementation of the storage interface
type Storage struct {
	mu sync.RWMutex

	players   map[model.PlayerIdentity]*model.Player
	nameIndex map[string]model.PlayerIdentity    // lower-cased name -> identity
	sessions  map[model.SessionID]*model.Session // names resolved on read
	nextID    model.SessionID
}

// New creates a new in-memory storage instance
func New() *Storage {
	return &Storage{
		players:   make(map[model.PlayerIdentity]*model.Player),
		nameIndex: make(map[string]model.PlayerIdentity),
		sessions:  make(map[model.SessionID]*model.Session),
	}
}

// Ensure Storage implements the interface
var _ storage.Storage = (*Storage)(nil)

// Player operations

func (s *Storage) CreatePlayer(ctx context.Context, player *model.Player) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := model.NameKey(player.Name)
	if _, ok := s.nameIndex[key]; ok {
		return model.ErrDuplicatePlayer
	}
	if _, ok := s.players[player.Identity]; ok {
		return model.ErrDuplicatePlayer
	}

	p := *player
	s.players[p.Identity] = &p
	s.nameIndex[key] = p.Identity
	return nil
}

func (s *Storage) GetPlayerByName(ctx context.Context, name string) (*model.Player, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p := s.playerByName(name)
	if p == nil {
		return nil, model.ErrPlayerNotFound
	}
	result := *p
	return &result, nil
}

func (s *Storage) ListPlayers(ctx context.Context) ([]model.Player, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	players := make([]model.Player, 0, len(s.players))
	for _, p := range s.players {
		players = append(players, *p)
	}
	storage.SortLeaderboard(players)
	return players, nil
}

// playerByName matches the exact name; the index only narrows the candidate
func (s *Storage) playerByName(name string) *model.Player {
	identity, ok := s.nameIndex[model.NameKey(name)]
	if !ok {
		return nil
	}
	p := s.players[identity]
	if p == nil || p.Name != name {
		return nil
	}
	return p
}

// Result operations

func (s *Storage) ApplyWin(ctx context.Context, winnerName, loserName string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if w := s.playerByName(winnerName); w != nil {
		w.Score++
		w.Wins++
	}
	if l := s.playerByName(loserName); l != nil {
		l.Score--
		l.Losses++
	}
	return nil
}

func (s *Storage) ApplyDraw(ctx context.Context, nameA, nameB string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, name := range []string{nameA, nameB} {
		if p := s.playerByName(name); p != nil {
			p.Draws++
		}
	}
	return nil
}

// Session operations

func (s *Storage) CreateSession(ctx context.Context, session *model.Session) (model.SessionID, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.players[session.Player.Identity] == nil || s.players[session.Opponent.Identity] == nil {
		return 0, model.ErrPlayerNotFound
	}

	s.nextID++
	rec := &model.Session{
		ID:        s.nextID,
		Player:    model.PlayerRef{Identity: session.Player.Identity},
		Opponent:  model.PlayerRef{Identity: session.Opponent.Identity},
		Status:    session.Status,
		Board:     session.Board,
		CreatedAt: session.CreatedAt,
	}
	s.sessions[rec.ID] = rec
	return rec.ID, nil
}

func (s *Storage) GetSession(ctx context.Context, id model.SessionID) (*model.Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rec, ok := s.sessions[id]
	if !ok {
		return nil, model.ErrSessionNotFound
	}
	session := s.resolve(rec)
	return &session, nil
}

func (s *Storage) UpdateSessionBoard(ctx context.Context, id model.SessionID, board model.BoardState) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.sessions[id]
	if !ok {
		return model.ErrSessionNotFound
	}
	if rec.Status != model.SessionInProgress {
		return model.ErrSessionFinished
	}
	rec.Board = board
	return nil
}

func (s *Storage) UpdateLatestSessionBoard(ctx context.Context, a, b model.PlayerIdentity, board model.BoardState) (model.SessionID, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec := s.latestInProgress(a, b)
	if rec == nil {
		return 0, model.ErrNoSessionInProgress
	}
	rec.Board = board
	return rec.ID, nil
}

func (s *Storage) FinishSession(ctx context.Context, id model.SessionID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.sessions[id]
	if !ok {
		return model.ErrSessionNotFound
	}
	rec.Status = model.SessionFinished
	return nil
}

func (s *Storage) FinishLatestSession(ctx context.Context, a, b model.PlayerIdentity) (model.SessionID, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec := s.latestInProgress(a, b)
	if rec == nil {
		return 0, model.ErrNoSessionInProgress
	}
	rec.Status = model.SessionFinished
	return rec.ID, nil
}

func (s *Storage) ListSessions(ctx context.Context) ([]model.Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sessions := make([]model.Session, 0, len(s.sessions))
	for _, rec := range s.sessions {
		sessions = append(sessions, s.resolve(rec))
	}
	storage.SortSessions(sessions)
	return sessions, nil
}

// latestInProgress finds the newest in-progress session between a and b, in either order
func (s *Storage) latestInProgress(a, b model.PlayerIdentity) *model.Session {
	var latest *model.Session
	for _, rec := range s.sessions {
		if rec.Status != model.SessionInProgress || !rec.Involves(a, b) {
			continue
		}
		if latest == nil || newer(rec, latest) {
			latest = rec
		}
	}
	return latest
}

func newer(a, b *model.Session) bool {
	if !a.CreatedAt.Equal(b.CreatedAt) {
		return a.CreatedAt.After(b.CreatedAt)
	}
	return a.ID > b.ID
}

func (s *Storage) resolve(rec *model.Session) model.Session {
	session := *rec
	if p := s.players[rec.Player.Identity]; p != nil {
		session.Player.Name = p.Name
	}
	if p := s.players[rec.Opponent.Identity]; p != nil {
		session.Opponent.Name = p.Name
	}
	return session
}

// Connection operations

func (s *Storage) Ping(ctx context.Context) error {
	return nil
}

func (s *Storage) Close() error {
	return nil
}
