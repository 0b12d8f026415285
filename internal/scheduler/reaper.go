package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"
)

// Task is a periodic cleanup. Run reports how many entries it removed.
type Task struct {
	Name string
	Spec string
	Run  func(ctx context.Context) (int, error)
}

// Reaper runs housekeeping tasks on cron schedules until its context ends.
type Reaper struct {
	tasks  []Task
	logger *slog.Logger
}

func NewReaper(logger *slog.Logger, tasks ...Task) *Reaper {
	return &Reaper{
		tasks:  tasks,
		logger: logger.With("component", "reaper"),
	}
}

// Start schedules every task and blocks until ctx is done, then waits for
// running tasks to finish. It fails fast on an invalid schedule.
func (r *Reaper) Start(ctx context.Context) error {
	c := cron.New()
	for _, t := range r.tasks {
		if _, err := c.AddFunc(t.Spec, func() { r.reap(ctx, t) }); err != nil {
			return fmt.Errorf("schedule %s (%q): %w", t.Name, t.Spec, err)
		}
	}

	c.Start()
	r.logger.Info("reaper started", "tasks", len(r.tasks))

	<-ctx.Done()
	<-c.Stop().Done()
	r.logger.Info("reaper shut down")
	return nil
}

func (r *Reaper) reap(ctx context.Context, t Task) {
	start := time.Now()
	removed, err := t.Run(ctx)
	if err != nil {
		r.logger.ErrorContext(ctx, "reaper task failed", "task", t.Name, "error", err)
		return
	}
	if removed > 0 {
		r.logger.InfoContext(ctx, "reaper removed entries", "task", t.Name, "count", removed, "took", time.Since(start))
	}
}
