package service

import (
	"context"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/msomdec/todo-list/internal/domain"
)

// TaskService handles to-do operations. Every method takes the acting
// user's ID and never touches tasks owned by anyone else.
type TaskService struct {
	tasks domain.TaskRepository
	now   func() time.Time
}

// NewTaskService creates a new TaskService.
func NewTaskService(tasks domain.TaskRepository) *TaskService {
	return &TaskService{tasks: tasks, now: time.Now}
}

// List returns the user's tasks, newest first.
func (s *TaskService) List(ctx context.Context, userID int64) ([]domain.Task, error) {
	return s.tasks.ListByUser(ctx, userID)
}

// Create adds a pending task with the trimmed title.
func (s *TaskService) Create(ctx context.Context, userID int64, title string) (*domain.Task, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, fmt.Errorf("%w: title is required", domain.ErrInvalidInput)
	}
	if utf8.RuneCountInString(title) > domain.MaxTitleLength {
		return nil, fmt.Errorf("%w: title must be %d characters or fewer", domain.ErrInvalidInput, domain.MaxTitleLength)
	}

	task := &domain.Task{
		UserID:    userID,
		Title:     title,
		CreatedAt: s.now().UTC(),
	}
	if err := s.tasks.Create(ctx, task); err != nil {
		return nil, fmt.Errorf("create task: %w", err)
	}
	return task, nil
}

// Toggle flips the task between pending and done and returns it.
func (s *TaskService) Toggle(ctx context.Context, userID, taskID int64) (*domain.Task, error) {
	if err := s.tasks.ToggleDone(ctx, userID, taskID); err != nil {
		return nil, err
	}
	return s.tasks.GetByID(ctx, userID, taskID)
}

// Delete removes the task permanently.
func (s *TaskService) Delete(ctx context.Context, userID, taskID int64) error {
	return s.tasks.Delete(ctx, userID, taskID)
}

// Dashboard builds the dashboard read model for the user as of now.
func (s *TaskService) Dashboard(ctx context.Context, userID int64) (*domain.Dashboard, error) {
	tasks, err := s.tasks.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	d := BuildDashboard(tasks, s.now())
	return &d, nil
}

// PartitionTasks splits tasks into pending and done, keeping their order.
func PartitionTasks(tasks []domain.Task) (pending, done []domain.Task) {
	for _, t := range tasks {
		if t.Done {
			done = append(done, t)
		} else {
			pending = append(pending, t)
		}
	}
	return pending, done
}
