package domain

import (
	"context"
	"time"
)

// MaxTitleLength bounds a task title, counted in characters.
const MaxTitleLength = 140

// Task is a single to-do item owned by one user.
type Task struct {
	ID        int64
	UserID    int64
	Title     string
	Done      bool
	CreatedAt time.Time
}

// TaskRepository defines persistence operations for tasks. Every method
// other than Create is scoped by the owning user: a task that belongs to
// someone else is reported as ErrNotFound.
type TaskRepository interface {
	Create(ctx context.Context, task *Task) error
	ListByUser(ctx context.Context, userID int64) ([]Task, error)
	GetByID(ctx context.Context, userID, id int64) (*Task, error)
	ToggleDone(ctx context.Context, userID, id int64) error
	Delete(ctx context.Context, userID, id int64) error
}
