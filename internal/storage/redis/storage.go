package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/mcoot/connectfour/internal/model"
	"github.com/mcoot/connectfour/internal/storage"
)

// Storage is a Redis-backed implementation of the storage interface.
//
// Players and sessions are hashes. Multi-key changes run in MULTI/EXEC blocks
// guarded by WATCH, so a conflicting writer makes the call fail with
// model.ErrConcurrentUpdate instead of interleaving.
type Storage struct {
	client *redis.Client
	cfg    Config
	logger *slog.Logger
}

// New creates a new Redis storage instance
func New(cfg Config) (*Storage, error) {
	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, err
	}

	opts.PoolSize = cfg.PoolSize
	opts.MinIdleConns = cfg.MinIdleConns

	s := NewWithClient(redis.NewClient(opts), cfg)

	// Verify connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := s.Ping(ctx); err != nil {
		_ = s.client.Close()
		return nil, err
	}
	return s, nil
}

// NewWithClient creates a Redis storage with an existing client (for testing)
func NewWithClient(client *redis.Client, cfg Config) *Storage {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Storage{
		client: client,
		cfg:    cfg,
		logger: logger.With(slog.String("component", "redis")),
	}
}

// Close closes the Redis connection
func (s *Storage) Close() error {
	return s.client.Close()
}

// Ping reports whether Redis answers
func (s *Storage) Ping(ctx context.Context) error {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	if err := s.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("ping redis: %w: %w", model.ErrStoreUnavailable, err)
	}
	return nil
}

// Ensure Storage implements the interface
var _ storage.Storage = (*Storage)(nil)

// Player operations

func (s *Storage) CreatePlayer(ctx context.Context, player *model.Player) error {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	pKey := playerKey(player.Identity)
	nKey := nameIndexKey(player.Name)

	err := s.client.Watch(ctx, func(tx *redis.Tx) error {
		n, err := tx.Exists(ctx, pKey, nKey).Result()
		if err != nil {
			return err
		}
		if n > 0 {
			return model.ErrDuplicatePlayer
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.HSet(ctx, pKey, map[string]any{
				fieldIdentity: string(player.Identity),
				fieldName:     player.Name,
				fieldScore:    player.Score,
				fieldWins:     player.Wins,
				fieldDraws:    player.Draws,
				fieldLosses:   player.Losses,
			})
			pipe.Set(ctx, nKey, string(player.Identity), 0)
			pipe.SAdd(ctx, playersIndexKey(), string(player.Identity))
			return nil
		})
		return err
	}, pKey, nKey)
	return wrap("create player", err)
}

func (s *Storage) GetPlayerByName(ctx context.Context, name string) (*model.Player, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	p, err := s.playerByName(ctx, s.client, name)
	if err != nil {
		return nil, wrap("get player", err)
	}
	return p, nil
}

func (s *Storage) ListPlayers(ctx context.Context) ([]model.Player, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	identities, err := s.client.SMembers(ctx, playersIndexKey()).Result()
	if err != nil {
		return nil, wrap("list players", err)
	}

	cmds := make([]*redis.MapStringStringCmd, len(identities))
	if len(identities) > 0 {
		_, err = s.client.Pipelined(ctx, func(pipe redis.Pipeliner) error {
			for i, identity := range identities {
				cmds[i] = pipe.HGetAll(ctx, playerKey(model.PlayerIdentity(identity)))
			}
			return nil
		})
		if err != nil {
			return nil, wrap("list players", err)
		}
	}

	players := make([]model.Player, 0, len(identities))
	for _, cmd := range cmds {
		fields := cmd.Val()
		if len(fields) == 0 {
			continue
		}
		p, err := decodePlayer(fields)
		if err != nil {
			return nil, err
		}
		players = append(players, *p)
	}

	storage.SortLeaderboard(players)
	return players, nil
}

// playerByName resolves the name index, then insists on an exact name match
func (s *Storage) playerByName(ctx context.Context, c redis.Cmdable, name string) (*model.Player, error) {
	identity, err := c.Get(ctx, nameIndexKey(name)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, model.ErrPlayerNotFound
		}
		return nil, err
	}

	fields, err := c.HGetAll(ctx, playerKey(model.PlayerIdentity(identity))).Result()
	if err != nil {
		return nil, err
	}
	if len(fields) == 0 || fields[fieldName] != name {
		return nil, model.ErrPlayerNotFound
	}
	return decodePlayer(fields)
}

func decodePlayer(fields map[string]string) (*model.Player, error) {
	p := &model.Player{
		Identity: model.PlayerIdentity(fields[fieldIdentity]),
		Name:     fields[fieldName],
	}
	counters := []struct {
		field string
		dst   *int
	}{
		{fieldScore, &p.Score},
		{fieldWins, &p.Wins},
		{fieldDraws, &p.Draws},
		{fieldLosses, &p.Losses},
	}
	for _, c := range counters {
		v, err := strconv.Atoi(fields[c.field])
		if err != nil {
			return nil, fmt.Errorf("decode player %s field %s: %w", p.Identity, c.field, err)
		}
		*c.dst = v
	}
	return p, nil
}

// Result operations

func (s *Storage) ApplyWin(ctx context.Context, winnerName, loserName string) error {
	return s.applyResult(ctx, []resultDelta{
		{name: winnerName, counters: map[string]int64{fieldScore: 1, fieldWins: 1}},
		{name: loserName, counters: map[string]int64{fieldScore: -1, fieldLosses: 1}},
	})
}

func (s *Storage) ApplyDraw(ctx context.Context, nameA, nameB string) error {
	return s.applyResult(ctx, []resultDelta{
		{name: nameA, counters: map[string]int64{fieldDraws: 1}},
		{name: nameB, counters: map[string]int64{fieldDraws: 1}},
	})
}

type resultDelta struct {
	name     string
	counters map[string]int64
}

// applyResult increments the counters of every named player that exists in one MULTI block
func (s *Storage) applyResult(ctx context.Context, deltas []resultDelta) error {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	type target struct {
		key      string
		counters map[string]int64
	}
	var targets []target
	for _, d := range deltas {
		p, err := s.playerByName(ctx, s.client, d.name)
		if errors.Is(err, model.ErrPlayerNotFound) {
			continue
		}
		if err != nil {
			return wrap("apply result", err)
		}
		targets = append(targets, target{key: playerKey(p.Identity), counters: d.counters})
	}
	if len(targets) == 0 {
		return nil
	}

	_, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		for _, t := range targets {
			for field, delta := range t.counters {
				pipe.HIncrBy(ctx, t.key, field, delta)
			}
		}
		return nil
	})
	return wrap("apply result", err)
}

// Session operations

func (s *Storage) CreateSession(ctx context.Context, session *model.Session) (model.SessionID, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	for _, identity := range []model.PlayerIdentity{session.Player.Identity, session.Opponent.Identity} {
		n, err := s.client.Exists(ctx, playerKey(identity)).Result()
		if err != nil {
			return 0, wrap("create session", err)
		}
		if n == 0 {
			return 0, model.ErrPlayerNotFound
		}
	}

	board, err := json.Marshal(session.Board)
	if err != nil {
		return 0, fmt.Errorf("encode board: %w", err)
	}

	next, err := s.client.Incr(ctx, sessionSeqKey()).Result()
	if err != nil {
		return 0, wrap("create session", err)
	}
	id := model.SessionID(next)
	createdAt := session.CreatedAt.UTC().UnixMilli()

	_, err = s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.HSet(ctx, sessionKey(id), map[string]any{
			fieldPlayer:    string(session.Player.Identity),
			fieldOpponent:  string(session.Opponent.Identity),
			fieldStatus:    string(session.Status),
			fieldBoard:     string(board),
			fieldCreatedAt: createdAt,
		})
		member := redis.Z{Score: float64(createdAt), Member: id.String()}
		pipe.ZAdd(ctx, sessionsIndexKey(), member)
		if session.Status == model.SessionInProgress {
			pipe.ZAdd(ctx, pairIndexKey(session.Player.Identity, session.Opponent.Identity), member)
		}
		return nil
	})
	if err != nil {
		return 0, wrap("create session", err)
	}
	return id, nil
}

func (s *Storage) GetSession(ctx context.Context, id model.SessionID) (*model.Session, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	fields, err := s.client.HGetAll(ctx, sessionKey(id)).Result()
	if err != nil {
		return nil, wrap("get session", err)
	}
	if len(fields) == 0 {
		return nil, model.ErrSessionNotFound
	}

	session, err := s.decodeSession(id, fields)
	if err != nil {
		return nil, err
	}
	if err := s.resolveNames(ctx, []*model.Session{session}); err != nil {
		return nil, err
	}
	return session, nil
}

func (s *Storage) UpdateSessionBoard(ctx context.Context, id model.SessionID, board model.BoardState) error {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	encoded, err := json.Marshal(board)
	if err != nil {
		return fmt.Errorf("encode board: %w", err)
	}

	key := sessionKey(id)
	err = s.client.Watch(ctx, func(tx *redis.Tx) error {
		status, err := tx.HGet(ctx, key, fieldStatus).Result()
		if err != nil {
			if errors.Is(err, redis.Nil) {
				return model.ErrSessionNotFound
			}
			return err
		}
		if model.SessionStatus(status) != model.SessionInProgress {
			return model.ErrSessionFinished
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.HSet(ctx, key, fieldBoard, string(encoded))
			return nil
		})
		return err
	}, key)
	return wrap("update board", err)
}

func (s *Storage) UpdateLatestSessionBoard(ctx context.Context, a, b model.PlayerIdentity, board model.BoardState) (model.SessionID, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	encoded, err := json.Marshal(board)
	if err != nil {
		return 0, fmt.Errorf("encode board: %w", err)
	}

	var id model.SessionID
	pair := pairIndexKey(a, b)
	err = s.client.Watch(ctx, func(tx *redis.Tx) error {
		latest, err := latestInPair(ctx, tx, pair)
		if err != nil {
			return err
		}
		id = latest

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.HSet(ctx, sessionKey(latest), fieldBoard, string(encoded))
			return nil
		})
		return err
	}, pair)
	if err != nil {
		return 0, wrap("update latest board", err)
	}
	return id, nil
}

func (s *Storage) FinishSession(ctx context.Context, id model.SessionID) error {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	key := sessionKey(id)
	err := s.client.Watch(ctx, func(tx *redis.Tx) error {
		fields, err := tx.HMGet(ctx, key, fieldPlayer, fieldOpponent, fieldStatus).Result()
		if err != nil {
			return err
		}
		if fields[0] == nil {
			return model.ErrSessionNotFound
		}
		if fields[2] == string(model.SessionFinished) {
			return nil
		}

		pair := pairIndexKey(model.PlayerIdentity(fmt.Sprint(fields[0])), model.PlayerIdentity(fmt.Sprint(fields[1])))
		return finish(ctx, tx, id, pair)
	}, key)
	return wrap("finish session", err)
}

func (s *Storage) FinishLatestSession(ctx context.Context, a, b model.PlayerIdentity) (model.SessionID, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	var id model.SessionID
	pair := pairIndexKey(a, b)
	err := s.client.Watch(ctx, func(tx *redis.Tx) error {
		latest, err := latestInPair(ctx, tx, pair)
		if err != nil {
			return err
		}
		id = latest
		return finish(ctx, tx, latest, pair)
	}, pair)
	if err != nil {
		return 0, wrap("finish latest session", err)
	}
	return id, nil
}

func (s *Storage) ListSessions(ctx context.Context) ([]model.Session, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	members, err := s.client.ZRange(ctx, sessionsIndexKey(), 0, -1).Result()
	if err != nil {
		return nil, wrap("list sessions", err)
	}

	ids := make([]model.SessionID, len(members))
	for i, member := range members {
		if ids[i], err = model.ParseSessionID(member); err != nil {
			return nil, fmt.Errorf("session index member %q: %w", member, err)
		}
	}

	cmds := make([]*redis.MapStringStringCmd, len(ids))
	if len(ids) > 0 {
		_, err = s.client.Pipelined(ctx, func(pipe redis.Pipeliner) error {
			for i, id := range ids {
				cmds[i] = pipe.HGetAll(ctx, sessionKey(id))
			}
			return nil
		})
		if err != nil {
			return nil, wrap("list sessions", err)
		}
	}

	found := make([]*model.Session, 0, len(members))
	for i, cmd := range cmds {
		fields := cmd.Val()
		if len(fields) == 0 {
			continue
		}
		session, err := s.decodeSession(ids[i], fields)
		if err != nil {
			return nil, err
		}
		found = append(found, session)
	}
	if err := s.resolveNames(ctx, found); err != nil {
		return nil, err
	}

	sessions := make([]model.Session, len(found))
	for i, session := range found {
		sessions[i] = *session
	}
	storage.SortSessions(sessions)
	return sessions, nil
}

// latestInPair returns the in-progress session with the newest creation time, the highest id on ties
func latestInPair(ctx context.Context, tx *redis.Tx, pair string) (model.SessionID, error) {
	members, err := tx.ZRangeWithScores(ctx, pair, 0, -1).Result()
	if err != nil {
		return 0, err
	}

	var (
		latest model.SessionID
		score  float64
	)
	for _, z := range members {
		id, err := model.ParseSessionID(fmt.Sprint(z.Member))
		if err != nil {
			continue
		}
		if latest == 0 || z.Score > score || (z.Score == score && id > latest) {
			latest, score = id, z.Score
		}
	}
	if latest == 0 {
		return 0, model.ErrNoSessionInProgress
	}
	return latest, nil
}

// finish marks the session finished and drops it from the in-progress pair index
func finish(ctx context.Context, tx *redis.Tx, id model.SessionID, pair string) error {
	_, err := tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.HSet(ctx, sessionKey(id), fieldStatus, string(model.SessionFinished))
		pipe.ZRem(ctx, pair, id.String())
		return nil
	})
	return err
}

// decodeSession reads a session hash. A stored board that is not a JSON object
// reads as an empty board so one bad hash cannot break listings.
func (s *Storage) decodeSession(id model.SessionID, fields map[string]string) (*model.Session, error) {
	board, err := model.ParseBoardState([]byte(fields[fieldBoard]))
	if err != nil {
		s.logger.Warn("unreadable board replaced by an empty one",
			slog.Int64("session_id", int64(id)),
			slog.String("error", err.Error()),
		)
		board = model.NewBoardState()
	}
	createdAt, err := strconv.ParseInt(fields[fieldCreatedAt], 10, 64)
	if err != nil {
		return nil, fmt.Errorf("decode created_at of session %d: %w", id, err)
	}

	return &model.Session{
		ID:        id,
		Player:    model.PlayerRef{Identity: model.PlayerIdentity(fields[fieldPlayer])},
		Opponent:  model.PlayerRef{Identity: model.PlayerIdentity(fields[fieldOpponent])},
		Status:    model.SessionStatus(fields[fieldStatus]),
		Board:     board,
		CreatedAt: time.UnixMilli(createdAt).UTC(),
	}, nil
}

// resolveNames fills in player names with one HGET per distinct identity
func (s *Storage) resolveNames(ctx context.Context, sessions []*model.Session) error {
	if len(sessions) == 0 {
		return nil
	}

	names := make(map[model.PlayerIdentity]*redis.StringCmd)
	_, err := s.client.Pipelined(ctx, func(pipe redis.Pipeliner) error {
		for _, session := range sessions {
			for _, identity := range []model.PlayerIdentity{session.Player.Identity, session.Opponent.Identity} {
				if _, ok := names[identity]; !ok {
					names[identity] = pipe.HGet(ctx, playerKey(identity), fieldName)
				}
			}
		}
		return nil
	})
	if err != nil && !errors.Is(err, redis.Nil) {
		return wrap("resolve player names", err)
	}

	for _, session := range sessions {
		session.Player.Name = names[session.Player.Identity].Val()
		session.Opponent.Name = names[session.Opponent.Identity].Val()
	}
	return nil
}

// Helpers

func (s *Storage) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.cfg.OpTimeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, s.cfg.OpTimeout)
}

// wrap leaves domain errors untouched, maps a lost WATCH race to
// model.ErrConcurrentUpdate and tags connection failures as model.ErrStoreUnavailable
func wrap(op string, err error) error {
	if err == nil || isDomainError(err) {
		return err
	}
	if errors.Is(err, redis.TxFailedErr) {
		return fmt.Errorf("%s: %w", op, model.ErrConcurrentUpdate)
	}

	var netErr net.Error
	if errors.As(err, &netErr) || errors.Is(err, context.DeadlineExceeded) || errors.Is(err, redis.ErrClosed) {
		return fmt.Errorf("%s: %w: %w", op, model.ErrStoreUnavailable, err)
	}
	return fmt.Errorf("%s: %w", op, err)
}

func isDomainError(err error) bool {
	for _, target := range []error{
		model.ErrPlayerNotFound,
		model.ErrDuplicatePlayer,
		model.ErrSessionNotFound,
		model.ErrSessionFinished,
		model.ErrNoSessionInProgress,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
