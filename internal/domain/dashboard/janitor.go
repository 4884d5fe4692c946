package dashboard

import (
	"log/slog"
	"time"

	"github.com/go-co-op/gocron"
)

// Janitor periodically evicts idle sessions.
type Janitor struct {
	scheduler *gocron.Scheduler
	registry  *Registry
	interval  time.Duration
	logger    *slog.Logger
}

// NewJanitor creates a stopped janitor.
func NewJanitor(registry *Registry, interval time.Duration, logger *slog.Logger) *Janitor {
	if interval <= 0 {
		interval = time.Minute
	}
	return &Janitor{
		scheduler: gocron.NewScheduler(time.UTC),
		registry:  registry,
		interval:  interval,
		logger:    logger.With("component", "dashboard.janitor"),
	}
}

// Start schedules the eviction job and starts the scheduler.
func (j *Janitor) Start() error {
	_, err := j.scheduler.Every(j.interval).Do(func() {
		if n := j.registry.EvictIdle(); n > 0 {
			j.logger.Debug("janitor run", "evicted", n, "remaining", j.registry.Len())
		}
	})
	if err != nil {
		return err
	}
	j.scheduler.StartAsync()
	j.logger.Info("janitor started", "interval", j.interval.String())
	return nil
}

// Stop halts the scheduler.
func (j *Janitor) Stop() {
	if j.scheduler != nil {
		j.scheduler.Stop()
	}
}
