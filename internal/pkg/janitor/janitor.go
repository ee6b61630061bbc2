// Package janitor runs periodic cleanup of expired tokens.
package janitor

import (
	"context"
	"fmt"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
)

// Task removes expired entries and returns how many it removed.
type Task struct {
	Name  string
	Purge func() int
}

// Janitor runs its tasks on a cron schedule
type Janitor struct {
	cron   *cron.Cron
	tasks  []Task
	logger zerolog.Logger
}

// New creates a janitor running tasks on schedule, which accepts the cron
// spec syntax including descriptors such as "@every 1m"
func New(schedule string, logger zerolog.Logger, tasks ...Task) (*Janitor, error) {
	j := &Janitor{
		cron:   cron.New(),
		tasks:  tasks,
		logger: logger,
	}
	if _, err := j.cron.AddFunc(schedule, j.RunOnce); err != nil {
		return nil, fmt.Errorf("invalid janitor schedule %q: %w", schedule, err)
	}
	return j, nil
}

// RunOnce runs every task immediately
func (j *Janitor) RunOnce() {
	for _, task := range j.tasks {
		if n := task.Purge(); n > 0 {
			j.logger.Info().Str("task", task.Name).Int("purged", n).Msg("Expired entries purged")
		}
	}
}

// Start starts the scheduler in its own goroutine
func (j *Janitor) Start() {
	j.cron.Start()
	j.logger.Info().Int("tasks", len(j.tasks)).Msg("Janitor started")
}

// Stop stops the scheduler and waits for a running cleanup to finish or ctx to end
func (j *Janitor) Stop(ctx context.Context) {
	select {
	case <-j.cron.Stop().Done():
	case <-ctx.Done():
	}
}
