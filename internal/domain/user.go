package domain

import (
	"context"
	"time"
)

// User represents a user profile. RewardPoints is a persisted running
// total maintained by task completion toggles; it is never negative.
// Anonymous users have a generated email and no password.
type User struct {
	ID           int64
	Email        string
	PasswordHash string
	RewardPoints int
	IsAnonymous  bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// UserRepository defines persistence operations for user profiles.
type UserRepository interface {
	Create(ctx context.Context, user *User) error
	GetByID(ctx context.Context, id int64) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	UpdateRewardPoints(ctx context.Context, id int64, points int) error
}
