package engine

import (
	"context"
	"sync"

	"github.com/jonboulle/clockwork"

	"github.com/ScriptoWhisp/what-where-when-server/internal/models"
)

// StatusSource loads authoritative game state on cache misses. Both
// lookups report absence as (nil, nil).
type StatusSource interface {
	FindGameByID(ctx context.Context, gameID int32) (*models.Game, error)
	FindActiveQuestionID(ctx context.Context, gameID int32) (*int32, error)
}

// Timer is a cancellable handle on a running countdown goroutine.
type Timer struct {
	ticker clockwork.Ticker
	stop   chan struct{}
	once   sync.Once
}

func newTimer(ticker clockwork.Ticker) *Timer {
	return &Timer{ticker: ticker, stop: make(chan struct{})}
}

// Stop halts the ticker and signals the countdown goroutine to exit.
// Safe to call more than once.
func (t *Timer) Stop() {
	t.once.Do(func() {
		t.ticker.Stop()
		close(t.stop)
	})
}

// Cache holds the volatile per-game runtime state: phase, remaining
// seconds, active question, running timer and broadcast callbacks.
// Game status and active question fall through to the StatusSource on
// a miss so a restarted process converges with persistence.
type Cache struct {
	src StatusSource

	mu              sync.RWMutex
	phases          map[int32]models.GamePhase
	statuses        map[int32]models.GameStatus
	remaining       map[int32]int
	activeQuestions map[int32]int32
	timers          map[int32]*Timer
	tickCallbacks   map[int32]TickFunc
	phaseCallbacks  map[int32]PhaseChangeFunc
}

func NewCache(src StatusSource) *Cache {
	return &Cache{
		src:             src,
		phases:          make(map[int32]models.GamePhase),
		statuses:        make(map[int32]models.GameStatus),
		remaining:       make(map[int32]int),
		activeQuestions: make(map[int32]int32),
		timers:          make(map[int32]*Timer),
		tickCallbacks:   make(map[int32]TickFunc),
		phaseCallbacks:  make(map[int32]PhaseChangeFunc),
	}
}

// Phase returns the cached phase, defaulting to IDLE for unknown games.
func (c *Cache) Phase(gameID int32) models.GamePhase {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if p, ok := c.phases[gameID]; ok {
		return p
	}
	return models.PhaseIdle
}

func (c *Cache) SetPhase(gameID int32, phase models.GamePhase) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.phases[gameID] = phase
}

// Status returns the cached game status, loading it from the source on
// a miss. Returns "" when the game does not exist.
func (c *Cache) Status(ctx context.Context, gameID int32) (models.GameStatus, error) {
	c.mu.RLock()
	status, ok := c.statuses[gameID]
	c.mu.RUnlock()
	if ok {
		return status, nil
	}

	game, err := c.src.FindGameByID(ctx, gameID)
	if err != nil {
		return "", err
	}
	if game == nil {
		return "", nil
	}

	c.mu.Lock()
	c.statuses[gameID] = game.Status
	c.mu.Unlock()
	return game.Status, nil
}

func (c *Cache) SetStatus(gameID int32, status models.GameStatus) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.statuses[gameID] = status
}

// RemainingSeconds returns the cached countdown value, zero when unknown.
func (c *Cache) RemainingSeconds(gameID int32) int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.remaining[gameID]
}

func (c *Cache) SetRemainingSeconds(gameID int32, seconds int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.remaining[gameID] = seconds
}

// ActiveQuestionID returns the cached active question, loading it from
// the source on a miss. Returns nil when no question is active.
func (c *Cache) ActiveQuestionID(ctx context.Context, gameID int32) (*int32, error) {
	c.mu.RLock()
	qID, ok := c.activeQuestions[gameID]
	c.mu.RUnlock()
	if ok {
		id := qID
		return &id, nil
	}

	loaded, err := c.src.FindActiveQuestionID(ctx, gameID)
	if err != nil {
		return nil, err
	}
	if loaded == nil {
		return nil, nil
	}

	c.mu.Lock()
	c.activeQuestions[gameID] = *loaded
	c.mu.Unlock()
	id := *loaded
	return &id, nil
}

func (c *Cache) SetActiveQuestionID(gameID, questionID int32) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.activeQuestions[gameID] = questionID
}

// Timer returns the running timer handle, nil when no countdown runs.
func (c *Cache) Timer(gameID int32) *Timer {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.timers[gameID]
}

// SetTimer installs a timer handle if none is running. Returns false
// without replacing when one already exists.
func (c *Cache) SetTimer(gameID int32, t *Timer) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.timers[gameID]; ok {
		return false
	}
	c.timers[gameID] = t
	return true
}

// ClearTimer stops and removes the game's timer. No-op when none runs.
func (c *Cache) ClearTimer(gameID int32) {
	c.mu.Lock()
	t, ok := c.timers[gameID]
	if ok {
		delete(c.timers, gameID)
	}
	c.mu.Unlock()
	if ok {
		t.Stop()
	}
}

func (c *Cache) SetCallbacks(gameID int32, onTick TickFunc, onPhaseChange PhaseChangeFunc) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.tickCallbacks[gameID] = onTick
	c.phaseCallbacks[gameID] = onPhaseChange
}

func (c *Cache) TickCallback(gameID int32) TickFunc {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.tickCallbacks[gameID]
}

func (c *Cache) PhaseChangeCallback(gameID int32) PhaseChangeFunc {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.phaseCallbacks[gameID]
}

func (c *Cache) RemoveCallbacks(gameID int32) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.tickCallbacks, gameID)
	delete(c.phaseCallbacks, gameID)
}
