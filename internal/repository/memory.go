package repo

import (
	"context"
	"fmt"
	"sync"

	"github.com/redis/go-redis/v9"

	"baduk/internal/domain/game"
	errs "baduk/internal/errors"
)

// GameMapStorage is the in-process stand-in for GameRepository, used when
// the server runs without MongoDB and Redis.
type GameMapStorage struct {
	mu    sync.RWMutex
	games map[string]game.Record
	sgf   map[string]string
}

func NewMapGameStorage() *GameMapStorage {
	return &GameMapStorage{
		games: make(map[string]game.Record),
		sgf:   make(map[string]string),
	}
}

func (s *GameMapStorage) CreateGame(_ context.Context, play *game.Game) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, found := s.games[play.ID]; found {
		return "", fmt.Errorf("game %s already exists", play.ID)
	}
	s.games[play.ID] = play.Record()
	return play.ID, nil
}

func (s *GameMapStorage) UpdateGame(_ context.Context, id string, play *game.Game) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	old, found := s.games[id]
	if !found {
		return fmt.Errorf("%w: %s", errs.ErrGameNotFound, id)
	}
	rec := play.Record()
	rec.ID = id
	rec.Moves = old.Moves
	s.games[id] = rec
	return nil
}

func (s *GameMapStorage) AppendMove(_ context.Context, id string, move game.Move) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, found := s.games[id]
	if !found {
		return fmt.Errorf("%w: %s", errs.ErrGameNotFound, id)
	}
	moves := make([]game.MoveRequest, len(rec.Moves), len(rec.Moves)+1)
	copy(moves, rec.Moves)
	rec.Moves = append(moves, move.Request())
	s.games[id] = rec
	return nil
}

func (s *GameMapStorage) GetGame(_ context.Context, id string) (*game.Game, error) {
	s.mu.RLock()
	rec, found := s.games[id]
	s.mu.RUnlock()
	if !found {
		return nil, errs.ErrGameNotFound
	}
	return game.FromRecord(rec)
}

func (s *GameMapStorage) SaveSGF(_ context.Context, key string, sgfText string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sgf[key] = sgfText
	return nil
}

// LoadSGF reports a miss with redis.Nil, like GameRepository.
func (s *GameMapStorage) LoadSGF(_ context.Context, key string) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, found := s.sgf[key]
	if !found {
		return "", redis.Nil
	}
	return v, nil
}

type PlayerMapStorage struct {
	mu    sync.RWMutex
	names map[string]string
}

func NewMapPlayerStorage() *PlayerMapStorage {
	return &PlayerMapStorage{names: make(map[string]string)}
}

func (p *PlayerMapStorage) GetPlayerDisplayName(_ context.Context, playerID string) (string, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	name, found := p.names[playerID]
	return name, found && name != ""
}

func (p *PlayerMapStorage) StorePlayer(_ context.Context, playerID, username string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.names[playerID] = username
	return nil
}
