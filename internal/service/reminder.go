package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"taskpulse/internal/domain"
)

// DueSoonWindow is the lookahead inside which an incomplete task counts
// as due soon.
const DueSoonWindow = 5 * time.Minute

// ReminderInterval is how often the scheduler sweeps for due-soon tasks.
const ReminderInterval = time.Minute

// DueState classifies a task's position relative to its due date.
type DueState int

const (
	// DueStateNone: no due date, already completed, or not yet close.
	DueStateNone DueState = iota
	// DueStateSoon: incomplete and due within DueSoonWindow.
	DueStateSoon
	// DueStateOverdue: incomplete and past its due date.
	DueStateOverdue
)

// TaskDueState returns the state of the task at the given instant.
func TaskDueState(task *domain.Task, now time.Time) DueState {
	if task.DueDate == nil || task.Completed {
		return DueStateNone
	}
	remaining := task.DueDate.Sub(now)
	switch {
	case remaining <= 0:
		return DueStateOverdue
	case remaining < DueSoonWindow:
		return DueStateSoon
	default:
		return DueStateNone
	}
}

// ReminderScheduler periodically sweeps incomplete tasks with due dates
// and pushes a reminder for each one inside the due-soon window. A task
// that stays due soon across sweeps is reminded again on every sweep;
// there is no dedup flag.
type ReminderScheduler struct {
	tasks   domain.TaskRepository
	events  TaskEvents
	metrics MetricsCollector
}

// NewReminderScheduler creates a new ReminderScheduler.
func NewReminderScheduler(tasks domain.TaskRepository, events TaskEvents, metrics MetricsCollector) *ReminderScheduler {
	return &ReminderScheduler{tasks: tasks, events: events, metrics: metrics}
}

// Start runs the sweep loop until ctx is cancelled. The first sweep runs
// immediately.
func (s *ReminderScheduler) Start(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	slog.Info("reminder scheduler started", "interval", interval)

	if err := s.RunOnce(ctx, time.Now()); err != nil {
		slog.Error("reminder sweep", "error", err)
	}

	for {
		select {
		case <-ctx.Done():
			slog.Info("reminder scheduler stopped")
			return
		case <-ticker.C:
			if err := s.RunOnce(ctx, time.Now()); err != nil {
				slog.Error("reminder sweep", "error", err)
			}
		}
	}
}

// RunOnce fires a reminder for every task currently in the due-soon window.
func (s *ReminderScheduler) RunOnce(ctx context.Context, now time.Time) error {
	tasks, err := s.tasks.ListDueWithin(ctx, now, DueSoonWindow)
	if err != nil {
		return fmt.Errorf("list due tasks: %w", err)
	}

	for i := range tasks {
		task := &tasks[i]
		if TaskDueState(task, now) != DueStateSoon {
			continue
		}
		s.events.Notify(task.UserID, "Task Reminder",
			fmt.Sprintf("Your task %q is due soon!", task.Text))
		s.metrics.RecordReminderFired()
	}
	return nil
}
