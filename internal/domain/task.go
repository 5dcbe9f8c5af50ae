package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// TaskStatus represents the workflow state of a task. The workflow is a
// flat enumeration: any permitted edit may move a task between any two
// statuses; there is no adjacency constraint.
type TaskStatus string

// Possible task status values.
const (
	TaskStatusPendente    TaskStatus = "pendente"
	TaskStatusEmAndamento TaskStatus = "em_andamento"
	TaskStatusEmRevisao   TaskStatus = "em_revisao"
	TaskStatusConcluida   TaskStatus = "concluida"
)

// Common validation errors for Task.
var (
	ErrEmptyTaskID    = errors.New("task ID cannot be empty")
	ErrEmptyTaskTitle = errors.New("task title cannot be empty")
	ErrEmptyTaskOwner = errors.New("task owner cannot be empty")
)

// Task is a titled work item owned by exactly one user. The owner reference
// is used only for lookup and notification addressing; it carries no
// lifecycle coupling.
type Task struct {
	ID          uuid.UUID  `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Status      TaskStatus `json:"status"`
	OwnerID     uuid.UUID  `json:"owner_id"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// NewTask creates a new Task owned by the given user. An empty status
// defaults to pendente. Returns an error if validation fails.
func NewTask(title, description string, status TaskStatus, ownerID uuid.UUID) (*Task, error) {
	if status == "" {
		status = TaskStatusPendente
	}

	task := &Task{
		ID:          uuid.New(),
		Title:       title,
		Description: description,
		Status:      status,
		OwnerID:     ownerID,
		CreatedAt:   time.Now().UTC(),
		UpdatedAt:   time.Now().UTC(),
	}

	if err := task.Validate(); err != nil {
		return nil, err
	}

	return task, nil
}

// Validate checks if the Task has valid data.
func (t *Task) Validate() error {
	if t.ID == uuid.Nil {
		return ErrEmptyTaskID
	}

	if t.Title == "" {
		return ErrEmptyTaskTitle
	}

	if t.OwnerID == uuid.Nil {
		return ErrEmptyTaskOwner
	}

	if !t.Status.IsValid() {
		return ErrInvalidTaskStatus
	}

	return nil
}

// IsValid reports whether the status is in the allowed enumeration.
func (s TaskStatus) IsValid() bool {
	switch s {
	case TaskStatusPendente, TaskStatusEmAndamento, TaskStatusEmRevisao, TaskStatusConcluida:
		return true
	default:
		return false
	}
}

// ParseTaskStatus converts a string into a TaskStatus, returning
// ErrInvalidTaskStatus for values outside the enumeration.
func ParseTaskStatus(s string) (TaskStatus, error) {
	status := TaskStatus(s)
	if !status.IsValid() {
		return "", ErrInvalidTaskStatus
	}
	return status, nil
}
