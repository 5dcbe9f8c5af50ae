package store

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/tasktrack/tasktrack-api/internal/domain"
)

// TaskUpdate describes a partial task mutation. Nil fields are left
// untouched by Update.
type TaskUpdate struct {
	Title       *string
	Description *string
	Status      *domain.TaskStatus
	OwnerID     *uuid.UUID
}

// IsEmpty reports whether the update carries no fields at all.
func (u TaskUpdate) IsEmpty() bool {
	return u.Title == nil && u.Description == nil && u.Status == nil && u.OwnerID == nil
}

// TaskStore defines the interface for task data persistence.
type TaskStore interface {
	// Create saves a new task to the store.
	// Returns ErrInvalidEntity if the owner reference does not resolve.
	Create(ctx context.Context, task *domain.Task) error

	// GetByID retrieves a task by its unique ID.
	// Returns ErrTaskNotFound if the task does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Task, error)

	// List returns all tasks ordered by creation time.
	List(ctx context.Context) ([]*domain.Task, error)

	// Update applies the non-nil fields of the update to an existing task.
	// Returns ErrTaskNotFound if the task does not exist.
	Update(ctx context.Context, id uuid.UUID, update TaskUpdate) error

	// Delete removes a task from the store by its ID.
	// Returns ErrTaskNotFound if the task does not exist.
	Delete(ctx context.Context, id uuid.UUID) error

	// ReassignOwner moves every task owned by one user to another user and
	// returns the number of tasks moved. Used when deleting a user so no
	// task is ever left without an owner.
	ReassignOwner(ctx context.Context, from, to uuid.UUID) (int64, error)

	// WithTx returns a new TaskStore instance that uses the provided
	// transaction.
	WithTx(tx *sql.Tx) TaskStore
}
