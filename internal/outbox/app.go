package outbox

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// App handles outbox business logic.
type App struct {
	repo *Repository
}

func NewApp(repo *Repository) *App {
	return &App{repo: repo}
}

// Insert marshals a lifecycle event payload and stores it in the
// outbox. The database trigger notifies the listener afterwards.
func (a *App) Insert(ctx context.Context, gameID int32, eventType string, payload any) error {
	if eventType == "" {
		return fmt.Errorf("event type cannot be empty")
	}
	raw, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal %s payload: %w", eventType, err)
	}

	if err := a.repo.InsertEvent(ctx, gameID, eventType, raw); err != nil {
		return fmt.Errorf("failed to insert %s event: %w", eventType, err)
	}

	log.Info().
		Int32("game_id", gameID).
		Str("event_type", eventType).
		Msg("outbox event inserted")
	return nil
}

// FetchUnsentEvents fetches pending outbox events.
func (a *App) FetchUnsentEvents(ctx context.Context, limit int32) ([]Event, error) {
	if limit <= 0 {
		return nil, fmt.Errorf("limit must be greater than 0")
	}
	events, err := a.repo.FetchUnsent(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch unsent events: %w", err)
	}
	if len(events) > 0 {
		log.Debug().Int("count", len(events)).Msg("fetched unsent outbox events")
	}
	return events, nil
}

// GetEventByID fetches a specific outbox event.
func (a *App) GetEventByID(ctx context.Context, eventID uuid.UUID) (*Event, error) {
	event, err := a.repo.FetchByID(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch event by ID: %w", err)
	}
	return event, nil
}

// MarkEventSent marks an outbox event as delivered.
func (a *App) MarkEventSent(ctx context.Context, eventID uuid.UUID) error {
	if err := a.repo.MarkSent(ctx, eventID); err != nil {
		return fmt.Errorf("failed to mark event as sent: %w", err)
	}
	log.Debug().Str("event_id", eventID.String()).Msg("marked outbox event as sent")
	return nil
}
