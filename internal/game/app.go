package game

import (
	"context"
	"errors"
	"math/rand"
	"strings"
	"sync"

	"github.com/ScriptoWhisp/what-where-when-server/internal/models"
)

// ErrNotFound is returned when a game lookup misses.
var ErrNotFound = errors.New("game not found")

// ErrInvalidGame rejects create requests that fail validation.
var ErrInvalidGame = errors.New("invalid game")

const (
	defaultThinkSeconds  = 60
	defaultAnswerSeconds = 10

	defaultPageSize = 50
	maxPageSize     = 200
)

// App holds the game catalog business logic.
type App struct {
	repo *Repository

	mu  sync.Mutex
	rng *rand.Rand
}

func NewApp(repo *Repository, rng *rand.Rand) *App {
	return &App{repo: repo, rng: rng}
}

// CreateGame validates input, fills timer defaults and persists a new
// DRAFT game with an allocated passcode.
func (a *App) CreateGame(ctx context.Context, params CreateGameParams) (*models.Game, error) {
	params.Name = strings.TrimSpace(params.Name)
	if params.Name == "" {
		return nil, errors.Join(ErrInvalidGame, errors.New("name is required"))
	}
	if params.TimeToThinkSec <= 0 {
		params.TimeToThinkSec = defaultThinkSeconds
	}
	if params.TimeToAnswerSec <= 0 {
		params.TimeToAnswerSec = defaultAnswerSeconds
	}

	a.mu.Lock()
	defer a.mu.Unlock()
	return a.repo.CreateGame(ctx, params, a.rng)
}

func (a *App) GetGame(ctx context.Context, gameID int32) (*models.Game, error) {
	game, err := a.repo.GetGame(ctx, gameID)
	if err != nil {
		return nil, err
	}
	if game == nil {
		return nil, ErrNotFound
	}
	return game, nil
}

// FindGameByPasscode resolves a team's join code to an active game.
func (a *App) FindGameByPasscode(ctx context.Context, passcode int32) (*models.Game, error) {
	game, err := a.repo.FindGameByPasscode(ctx, passcode)
	if err != nil {
		return nil, err
	}
	if game == nil {
		return nil, ErrNotFound
	}
	return game, nil
}

// ListHostGames pages a host's games with the total count.
func (a *App) ListHostGames(ctx context.Context, hostID, limit, offset int32) ([]models.Game, int64, error) {
	if limit <= 0 {
		limit = defaultPageSize
	}
	if limit > maxPageSize {
		limit = maxPageSize
	}
	if offset < 0 {
		offset = 0
	}

	games, err := a.repo.ListGamesByHost(ctx, hostID, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	total, err := a.repo.CountGamesByHost(ctx, hostID)
	if err != nil {
		return nil, 0, err
	}
	return games, total, nil
}
