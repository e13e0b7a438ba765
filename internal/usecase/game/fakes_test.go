package game

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"

	"baduk/internal/domain/game"
	errs "baduk/internal/errors"
)

var errStoreDown = errors.New("store is down")

// memoryStore keeps records the way the Mongo repository does: moves are
// only ever appended, UpdateGame rewrites everything else.
type memoryStore struct {
	mu      sync.Mutex
	records map[string]game.Record

	failCreate bool
	failUpdate bool
	failAppend bool
	swapID     string

	updates int
	appends int
}

func newMemoryStore() *memoryStore {
	return &memoryStore{records: make(map[string]game.Record)}
}

func (m *memoryStore) CreateGame(_ context.Context, g *game.Game) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failCreate {
		return "", errStoreDown
	}
	m.records[g.ID] = g.Record()
	return g.ID, nil
}

func (m *memoryStore) UpdateGame(_ context.Context, id string, g *game.Game) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failUpdate {
		return errStoreDown
	}
	old, ok := m.records[id]
	if !ok {
		return errs.ErrGameNotFound
	}
	rec := g.Record()
	rec.Moves = old.Moves
	m.records[id] = rec
	m.updates++
	return nil
}

func (m *memoryStore) AppendMove(_ context.Context, id string, move game.Move) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failAppend {
		return errStoreDown
	}
	rec, ok := m.records[id]
	if !ok {
		return errs.ErrGameNotFound
	}
	rec.Moves = append(rec.Moves, move.Request())
	m.records[id] = rec
	m.appends++
	return nil
}

func (m *memoryStore) GetGame(_ context.Context, id string) (*game.Game, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	rec, ok := m.records[id]
	if !ok {
		return nil, errs.ErrGameNotFound
	}
	if m.swapID != "" {
		rec.ID = m.swapID
	}
	return game.FromRecord(rec)
}

type mapDirectory struct {
	mu      sync.Mutex
	names   map[string]string
	lookups int
}

func (d *mapDirectory) GetPlayerDisplayName(_ context.Context, playerID string) (string, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.lookups++
	name, ok := d.names[playerID]
	return name, ok
}

// rendezvousDirectory only answers once both lookups are in flight, so it
// fails (returns absent) when lookups run one after another.
type rendezvousDirectory struct {
	names   map[string]string
	arrived sync.WaitGroup
}

func newRendezvousDirectory(names map[string]string) *rendezvousDirectory {
	d := &rendezvousDirectory{names: names}
	d.arrived.Add(2)
	return d
}

func (d *rendezvousDirectory) GetPlayerDisplayName(_ context.Context, playerID string) (string, bool) {
	d.arrived.Done()
	done := make(chan struct{})
	go func() {
		d.arrived.Wait()
		close(done)
	}()
	select {
	case <-done:
		name, ok := d.names[playerID]
		return name, ok
	case <-time.After(time.Second):
		return "", false
	}
}

type memoryCache struct {
	mu    sync.Mutex
	items map[string]string
	loads int
	hits  int
}

func newMemoryCache() *memoryCache {
	return &memoryCache{items: make(map[string]string)}
}

func (c *memoryCache) SaveSGF(_ context.Context, key string, sgf string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items[key] = sgf
	return nil
}

func (c *memoryCache) LoadSGF(_ context.Context, key string) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.loads++
	v, ok := c.items[key]
	if !ok {
		return "", errors.New("miss")
	}
	c.hits++
	return v, nil
}

func newTestUseCase(store GameStore, players PlayerDirectory, cache SGFCache) *GameUseCase {
	uc := NewGameUseCase(store, players, cache, zap.NewNop().Sugar(), "")
	clock := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	uc.now = func() time.Time {
		clock = clock.Add(time.Second)
		return clock
	}
	return uc
}
