package engine

import (
	"context"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/ScriptoWhisp/what-where-when-server/internal/models"
)

type countingSource struct {
	game       *models.Game
	questionID *int32
	gameCalls  int
	qCalls     int
}

func (c *countingSource) FindGameByID(ctx context.Context, gameID int32) (*models.Game, error) {
	c.gameCalls++
	return c.game, nil
}

func (c *countingSource) FindActiveQuestionID(ctx context.Context, gameID int32) (*int32, error) {
	c.qCalls++
	return c.questionID, nil
}

func TestCacheDefaults(t *testing.T) {
	cache := NewCache(&countingSource{})

	if got := cache.Phase(1); got != models.PhaseIdle {
		t.Fatalf("phase = %s, want IDLE for unknown game", got)
	}
	if got := cache.RemainingSeconds(1); got != 0 {
		t.Fatalf("seconds = %d, want 0 for unknown game", got)
	}
	if cache.Timer(1) != nil {
		t.Fatal("timer should be nil for unknown game")
	}
	if cache.TickCallback(1) != nil || cache.PhaseChangeCallback(1) != nil {
		t.Fatal("callbacks should be nil for unknown game")
	}
}

func TestCacheStatusReadThrough(t *testing.T) {
	src := &countingSource{game: &models.Game{ID: 1, Status: models.GameStatusLive}}
	cache := NewCache(src)
	ctx := context.Background()

	status, err := cache.Status(ctx, 1)
	if err != nil {
		t.Fatalf("status: %v", err)
	}
	if status != models.GameStatusLive {
		t.Fatalf("status = %s, want LIVE", status)
	}

	// Second read must come from the cache.
	if _, err := cache.Status(ctx, 1); err != nil {
		t.Fatalf("status: %v", err)
	}
	if src.gameCalls != 1 {
		t.Fatalf("source calls = %d, want 1", src.gameCalls)
	}

	// Local writes win over the source.
	cache.SetStatus(1, models.GameStatusFinished)
	status, err = cache.Status(ctx, 1)
	if err != nil {
		t.Fatalf("status: %v", err)
	}
	if status != models.GameStatusFinished {
		t.Fatalf("status = %s, want FINISHED", status)
	}
}

func TestCacheStatusMissingGame(t *testing.T) {
	cache := NewCache(&countingSource{})
	status, err := cache.Status(context.Background(), 99)
	if err != nil {
		t.Fatalf("status: %v", err)
	}
	if status != "" {
		t.Fatalf("status = %q, want empty for missing game", status)
	}
}

func TestCacheActiveQuestionReadThrough(t *testing.T) {
	qID := int32(7)
	src := &countingSource{questionID: &qID}
	cache := NewCache(src)
	ctx := context.Background()

	got, err := cache.ActiveQuestionID(ctx, 1)
	if err != nil {
		t.Fatalf("active question: %v", err)
	}
	if got == nil || *got != 7 {
		t.Fatalf("active question = %v, want 7", got)
	}

	if _, err := cache.ActiveQuestionID(ctx, 1); err != nil {
		t.Fatalf("active question: %v", err)
	}
	if src.qCalls != 1 {
		t.Fatalf("source calls = %d, want 1", src.qCalls)
	}
}

func TestClearTimerIdempotent(t *testing.T) {
	cache := NewCache(&countingSource{})
	clock := clockwork.NewFakeClock()

	timer := newTimer(clock.NewTicker(time.Second))
	if !cache.SetTimer(1, timer) {
		t.Fatal("SetTimer should install when no timer runs")
	}
	if cache.SetTimer(1, newTimer(clock.NewTicker(time.Second))) {
		t.Fatal("SetTimer should refuse to replace a running timer")
	}

	cache.ClearTimer(1)
	if cache.Timer(1) != nil {
		t.Fatal("timer should be removed after ClearTimer")
	}

	// Clearing again is a no-op.
	cache.ClearTimer(1)
	cache.ClearTimer(99)
}
