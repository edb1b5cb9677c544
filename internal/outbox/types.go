// Package outbox implements transactional event publication: lifecycle
// events land in an outbox table alongside the state change, then a
// listener relays them to JetStream.
package outbox

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Event is an outbox row for the application layer.
type Event struct {
	ID        uuid.UUID       `json:"id"`
	GameID    int32           `json:"game_id"`
	EventType string          `json:"event_type"`
	Payload   json.RawMessage `json:"payload"`
	CreatedAt time.Time       `json:"created_at"`
	SentAt    *time.Time      `json:"sent_at,omitempty"`
}
