// Package game manages the host-facing game catalog: creation with
// passcode allocation, lookup and listing.
package game

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/sqlc-dev/pqtype"

	"github.com/ScriptoWhisp/what-where-when-server/internal/gamedb"
	"github.com/ScriptoWhisp/what-where-when-server/internal/models"
	"github.com/ScriptoWhisp/what-where-when-server/internal/sqlutil"
)

// Repository persists games and allocates their passcodes.
type Repository struct {
	db      *sql.DB
	queries *gamedb.Queries
}

func NewRepository(db *sql.DB, queries *gamedb.Queries) *Repository {
	return &Repository{db: db, queries: queries}
}

func (r *Repository) withTx(tx *sql.Tx) *gamedb.Queries {
	return r.queries.WithTx(tx)
}

// CreateGameParams carries validated input for a new DRAFT game.
type CreateGameParams struct {
	HostID          int32
	Name            string
	Date            time.Time
	TimeToThinkSec  int
	TimeToAnswerSec int
	CanAppeal       bool
	Display         *models.DisplaySettings
}

// CreateGame inserts a DRAFT game with a freshly allocated passcode.
// The advisory lock serializes allocation across instances; it releases
// with the transaction.
func (r *Repository) CreateGame(ctx context.Context, params CreateGameParams, rng *rand.Rand) (*models.Game, error) {
	display := pqtype.NullRawMessage{}
	if params.Display != nil {
		raw, err := json.Marshal(params.Display)
		if err != nil {
			return nil, fmt.Errorf("marshal display settings: %w", err)
		}
		display = pqtype.NullRawMessage{RawMessage: raw, Valid: true}
	}

	row, err := sqlutil.RunValue(ctx, r.db, r.withTx, func(q *gamedb.Queries) (gamedb.Game, error) {
		if err := q.AcquirePasscodeLock(ctx, passcodeLockKey); err != nil {
			return gamedb.Game{}, fmt.Errorf("acquire passcode lock: %w", err)
		}
		active, err := q.ListActivePasscodes(ctx)
		if err != nil {
			return gamedb.Game{}, fmt.Errorf("list active passcodes: %w", err)
		}
		used := make(map[int32]struct{}, len(active))
		for _, code := range active {
			used[code] = struct{}{}
		}
		passcode, err := pickUnused(used, rng)
		if err != nil {
			return gamedb.Game{}, err
		}

		return q.CreateGame(ctx, gamedb.CreateGameParams{
			HostID:          params.HostID,
			Name:            params.Name,
			Date:            params.Date,
			Passcode:        passcode,
			Status:          gamedb.GameStatusDRAFT,
			TimeToThink:     int32(params.TimeToThinkSec),
			TimeToAnswer:    int32(params.TimeToAnswerSec),
			CanAppeal:       params.CanAppeal,
			DisplaySettings: display,
		})
	})
	if err != nil {
		return nil, err
	}
	return toGame(row)
}

// GetGame returns (nil, nil) when the game does not exist.
func (r *Repository) GetGame(ctx context.Context, gameID int32) (*models.Game, error) {
	row, err := r.queries.GetGame(ctx, gameID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return toGame(row)
}

// FindGameByPasscode resolves a join code against non-FINISHED games.
// Returns (nil, nil) when no active game holds the code.
func (r *Repository) FindGameByPasscode(ctx context.Context, passcode int32) (*models.Game, error) {
	row, err := r.queries.GetGameByPasscode(ctx, passcode)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return toGame(row)
}

// ListGamesByHost pages a host's games, most recently modified first.
func (r *Repository) ListGamesByHost(ctx context.Context, hostID, limit, offset int32) ([]models.Game, error) {
	rows, err := r.queries.ListGamesByHost(ctx, gamedb.ListGamesByHostParams{
		HostID: hostID,
		Limit:  limit,
		Offset: offset,
	})
	if err != nil {
		return nil, err
	}
	games := make([]models.Game, 0, len(rows))
	for _, row := range rows {
		game, err := toGame(row)
		if err != nil {
			return nil, err
		}
		games = append(games, *game)
	}
	return games, nil
}

func (r *Repository) CountGamesByHost(ctx context.Context, hostID int32) (int64, error) {
	return r.queries.CountGamesByHost(ctx, hostID)
}

func toGame(row gamedb.Game) (*models.Game, error) {
	game := &models.Game{
		ID:              row.ID,
		HostID:          row.HostID,
		Name:            row.Name,
		Date:            row.Date,
		Passcode:        row.Passcode,
		Status:          models.GameStatus(row.Status),
		TimeToThinkSec:  int(row.TimeToThink),
		TimeToAnswerSec: int(row.TimeToAnswer),
		CanAppeal:       row.CanAppeal,
		CreatedAt:       row.CreatedAt,
		ModifiedAt:      row.ModifiedAt,
	}
	if row.DisplaySettings.Valid {
		var display models.DisplaySettings
		if err := json.Unmarshal(row.DisplaySettings.RawMessage, &display); err != nil {
			return nil, fmt.Errorf("unmarshal display settings: %w", err)
		}
		game.Display = &display
	}
	return game, nil
}
