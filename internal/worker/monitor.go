package worker

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"

	"meshforge/internal/domain"
)

// StaleMonitor reports jobs stuck in PROCESSING past the timeout. It only
// observes: the running subprocess cannot be cancelled, so force-failing the
// row would race a worker that eventually finishes. Operators act on the
// warnings instead.
type StaleMonitor struct {
	Jobs    domain.JobStore
	Events  domain.EventStore
	Timeout time.Duration
	Logger  zerolog.Logger
}

// Start schedules the sweep every five minutes and returns the running cron.
// The caller stops it on shutdown.
func (m *StaleMonitor) Start(ctx context.Context) (*cron.Cron, error) {
	c := cron.New()
	if _, err := c.AddFunc("@every 5m", func() { m.Sweep(ctx) }); err != nil {
		return nil, err
	}
	c.Start()
	return c, nil
}

// Sweep logs one warning and appends one WARNING event per stale job.
func (m *StaleMonitor) Sweep(ctx context.Context) {
	cutoff := time.Now().Add(-m.Timeout)
	jobs, err := m.Jobs.StaleProcessing(ctx, cutoff)
	if err != nil {
		m.Logger.Error().Err(err).Msg("monitor: stale sweep failed")
		return
	}
	for _, job := range jobs {
		m.Logger.Warn().
			Str("job_id", job.ID).
			Str("model_id", job.ModelID).
			Time("started_at", derefTime(job.StartedAt)).
			Msg("monitor: job processing past timeout")

		event := &domain.JobEvent{
			ID:    uuid.NewString(),
			JobID: job.ID,
			Type:  domain.EventWarning,
			Payload: map[string]any{
				"reason":          "processing past timeout",
				"timeout_seconds": int(m.Timeout.Seconds()),
			},
		}
		if err := m.Events.Append(ctx, event); err != nil {
			m.Logger.Error().Err(err).Str("job_id", job.ID).Msg("monitor: could not append warning event")
		}
	}
}

func derefTime(t *time.Time) time.Time {
	if t == nil {
		return time.Time{}
	}
	return *t
}
