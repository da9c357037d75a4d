package service

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"taskpulse/internal/domain"
)

// completionPoints is the reward delta for completing a task.
const completionPoints = 10

// TaskEvents receives mutation signals for live delivery to dashboards.
type TaskEvents interface {
	TasksChanged(userID int64)
	Notify(userID int64, title, body string)
}

// MetricsCollector records application counters.
type MetricsCollector interface {
	RecordTaskCreated()
	RecordTaskCompleted()
	RecordTaskDeleted()
	RecordReminderFired()
}

// TaskService owns task mutations and the derived reward-point total.
type TaskService struct {
	tasks   domain.TaskRepository
	users   domain.UserRepository
	events  TaskEvents
	metrics MetricsCollector
}

// NewTaskService creates a new TaskService.
func NewTaskService(tasks domain.TaskRepository, users domain.UserRepository, events TaskEvents, metrics MetricsCollector) *TaskService {
	return &TaskService{tasks: tasks, users: users, events: events, metrics: metrics}
}

// ListForUser returns the user's full task set, freshly sorted for display.
func (s *TaskService) ListForUser(ctx context.Context, userID int64) ([]domain.Task, error) {
	tasks, err := s.tasks.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	SortTasks(tasks)
	return tasks, nil
}

// SortTasks orders incomplete tasks before completed ones; within each
// group, newest first. The sort is stable for equal keys.
func SortTasks(tasks []domain.Task) {
	sort.SliceStable(tasks, func(i, j int) bool {
		if tasks[i].Completed != tasks[j].Completed {
			return !tasks[i].Completed
		}
		return tasks[i].CreatedAt.After(tasks[j].CreatedAt)
	})
}

// Add creates a task for the user. Text that trims to empty is rejected
// before any write. The rendered list updates via the live stream, not
// via this call's result.
func (s *TaskService) Add(ctx context.Context, userID int64, text string, dueDate *time.Time) (*domain.Task, error) {
	if strings.TrimSpace(text) == "" || userID == 0 {
		return nil, fmt.Errorf("%w: task text is required", domain.ErrInvalidInput)
	}

	task := &domain.Task{
		UserID:    userID,
		Text:      text,
		Completed: false,
		CreatedAt: time.Now().UTC(),
		DueDate:   dueDate,
	}
	if err := s.tasks.Create(ctx, task); err != nil {
		return nil, fmt.Errorf("create task: %w", err)
	}

	s.metrics.RecordTaskCreated()
	s.events.TasksChanged(userID)
	return task, nil
}

// Toggle flips the task's completion flag and adjusts the owner's reward
// points: +10 on completion, -10 on un-completion, clamped at zero. The
// task write and the points write are two separate statements and are
// not atomic with each other; concurrent toggles can interleave between
// them. On completion a best-effort notification is pushed.
func (s *TaskService) Toggle(ctx context.Context, user *domain.User, taskID string) (*domain.Task, error) {
	task, err := s.tasks.GetByID(ctx, taskID)
	if err != nil {
		return nil, fmt.Errorf("get task: %w", err)
	}
	if task.UserID != user.ID {
		return nil, domain.ErrUnauthorized
	}

	completed := !task.Completed
	delta := completionPoints
	if !completed {
		delta = -completionPoints
	}
	newPoints := max(0, user.RewardPoints+delta)

	if err := s.tasks.SetCompleted(ctx, task.ID, completed); err != nil {
		return nil, fmt.Errorf("update task: %w", err)
	}
	task.Completed = completed

	if err := s.users.UpdateRewardPoints(ctx, user.ID, newPoints); err != nil {
		return nil, fmt.Errorf("update reward points: %w", err)
	}
	user.RewardPoints = newPoints

	if completed {
		s.metrics.RecordTaskCompleted()
		s.events.Notify(user.ID, "Task Completed!",
			fmt.Sprintf("Great job! You earned %d points for completing: %q", completionPoints, task.Text))
	}
	s.events.TasksChanged(user.ID)
	return task, nil
}

// Delete removes the task permanently. Points earned from a completed
// task are not reverted on delete.
func (s *TaskService) Delete(ctx context.Context, user *domain.User, taskID string) error {
	task, err := s.tasks.GetByID(ctx, taskID)
	if err != nil {
		return fmt.Errorf("get task: %w", err)
	}
	if task.UserID != user.ID {
		return domain.ErrUnauthorized
	}

	if err := s.tasks.Delete(ctx, taskID); err != nil {
		return fmt.Errorf("delete task: %w", err)
	}

	s.metrics.RecordTaskDeleted()
	s.events.TasksChanged(user.ID)
	return nil
}

// Stats summarizes a task set for the dashboard cards. RewardPoints is
// read from the profile, not recomputed from tasks.
type Stats struct {
	Active    int
	Completed int
}

// ComputeStats derives dashboard counters from the task set.
func ComputeStats(tasks []domain.Task) Stats {
	var stats Stats
	for _, t := range tasks {
		if t.Completed {
			stats.Completed++
		} else {
			stats.Active++
		}
	}
	return stats
}
