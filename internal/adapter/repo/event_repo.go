package repo

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"meshforge/internal/domain"
)

// EventStorePG implements domain.EventStore on PostgreSQL. Events are
// append-only; there is no update or delete path.
type EventStorePG struct {
	pool *pgxpool.Pool
}

// NewEventStore creates an event store backed by PostgreSQL.
func NewEventStore(pool *pgxpool.Pool) *EventStorePG {
	return &EventStorePG{pool: pool}
}

// Append inserts one diagnostic event.
func (r *EventStorePG) Append(ctx context.Context, event *domain.JobEvent) error {
	payload, err := json.Marshal(event.Payload)
	if err != nil {
		return fmt.Errorf("encode event payload: %w", err)
	}
	_, err = r.pool.Exec(ctx, `
INSERT INTO job_events (id, job_id, event_type, payload)
VALUES ($1, $2, $3, $4);
`, event.ID, event.JobID, string(event.Type), payload)
	return err
}

var _ domain.EventStore = (*EventStorePG)(nil)
