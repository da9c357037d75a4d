package domain

import (
	"context"
	"fmt"
	"strings"
	"time"
)

// Task is a single todo item owned by exactly one user. UserID and
// CreatedAt are immutable after creation; DueDate is optional.
type Task struct {
	ID        string
	UserID    int64
	Text      string
	Completed bool
	CreatedAt time.Time
	DueDate   *time.Time
}

// Validate checks the invariants that must hold before a task is persisted.
func (t *Task) Validate() error {
	if strings.TrimSpace(t.Text) == "" {
		return fmt.Errorf("%w: task text is required", ErrInvalidInput)
	}
	if t.UserID == 0 {
		return fmt.Errorf("%w: task owner is required", ErrInvalidInput)
	}
	return nil
}

// TaskRepository defines persistence operations for tasks.
type TaskRepository interface {
	Create(ctx context.Context, task *Task) error
	GetByID(ctx context.Context, id string) (*Task, error)
	ListByUser(ctx context.Context, userID int64) ([]Task, error)
	SetCompleted(ctx context.Context, id string, completed bool) error
	Delete(ctx context.Context, id string) error
	// ListDueWithin returns incomplete tasks whose due date falls inside
	// (now, now+window), across all users.
	ListDueWithin(ctx context.Context, now time.Time, window time.Duration) ([]Task, error)
}
