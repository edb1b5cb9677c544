package outbox

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"

	"github.com/google/uuid"

	"github.com/ScriptoWhisp/what-where-when-server/internal/gamedb"
)

// Repository persists outbox rows via the generated query layer.
type Repository struct {
	queries *gamedb.Queries
}

func NewRepository(queries *gamedb.Queries) *Repository {
	return &Repository{queries: queries}
}

func (r *Repository) InsertEvent(ctx context.Context, gameID int32, eventType string, payload json.RawMessage) error {
	return r.queries.InsertOutboxEvent(ctx, gamedb.InsertOutboxEventParams{
		ID:        uuid.New(),
		GameID:    gameID,
		EventType: eventType,
		Payload:   payload,
	})
}

func (r *Repository) FetchUnsent(ctx context.Context, limit int32) ([]Event, error) {
	rows, err := r.queries.FetchUnsentOutbox(ctx, limit)
	if err != nil {
		return nil, err
	}
	events := make([]Event, 0, len(rows))
	for _, row := range rows {
		events = append(events, toEvent(row))
	}
	return events, nil
}

// FetchByID returns (nil, nil) when the row does not exist.
func (r *Repository) FetchByID(ctx context.Context, id uuid.UUID) (*Event, error) {
	row, err := r.queries.FetchOutboxByID(ctx, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	event := toEvent(row)
	return &event, nil
}

func (r *Repository) MarkSent(ctx context.Context, id uuid.UUID) error {
	return r.queries.MarkOutboxSent(ctx, id)
}

func toEvent(row gamedb.OutboxEvent) Event {
	event := Event{
		ID:        row.ID,
		GameID:    row.GameID,
		EventType: row.EventType,
		Payload:   row.Payload,
		CreatedAt: row.CreatedAt,
	}
	if row.SentAt.Valid {
		sentAt := row.SentAt.Time
		event.SentAt = &sentAt
	}
	return event
}
