package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/tasktrack/tasktrack-api/internal/authz"
	"github.com/tasktrack/tasktrack-api/internal/domain"
	"github.com/tasktrack/tasktrack-api/internal/events"
	"github.com/tasktrack/tasktrack-api/internal/store"
)

// CreateTaskInput carries the fields for a new task. A nil OwnerID defaults
// the owner to the acting user.
type CreateTaskInput struct {
	Title       string
	Description string
	Status      domain.TaskStatus
	OwnerID     *uuid.UUID
}

// TaskService provides task CRUD operations with role-gated mutation rules.
type TaskService interface {
	// ListTasks returns all tasks. Every role may list.
	ListTasks(ctx context.Context) ([]*domain.Task, error)

	// GetTask retrieves a task by ID.
	// Returns store.ErrTaskNotFound if the task does not exist.
	GetTask(ctx context.Context, taskID uuid.UUID) (*domain.Task, error)

	// CreateTask creates a new task on behalf of the actor.
	// Returns ErrForbidden unless the actor may create tasks, and
	// store.ErrUserNotFound when an explicit owner does not resolve.
	CreateTask(ctx context.Context, actor domain.Actor, input CreateTaskInput) (*domain.Task, error)

	// UpdateTask applies a partial mutation to a task under the actor's
	// role rules and returns the refreshed task. After the mutation is
	// durably applied, a transition event is emitted synchronously to the
	// registered observer, before this method returns.
	//
	// Role rules:
	//   - visualizacao may change only the status field; any other supplied
	//     field is silently discarded, and setting status to concluida is
	//     rejected with ErrForbidden regardless of the other fields.
	//   - admin and gerencial apply all supplied fields; an owner
	//     reassignment requires the target user to exist.
	//
	// Returns store.ErrTaskNotFound, store.ErrUserNotFound, ErrForbidden,
	// domain.ErrInvalidTaskStatus, or domain.ErrNoUpdatableFields.
	UpdateTask(ctx context.Context, actor domain.Actor, taskID uuid.UUID, update store.TaskUpdate) (*domain.Task, error)

	// DeleteTask removes a task. Admin only.
	DeleteTask(ctx context.Context, actor domain.Actor, taskID uuid.UUID) error
}

// TaskServiceImpl implements the TaskService interface.
type TaskServiceImpl struct {
	taskStore store.TaskStore
	userStore store.UserStore
	observer  events.TransitionObserver
	logger    *slog.Logger
}

// Ensure TaskServiceImpl implements TaskService.
var _ TaskService = (*TaskServiceImpl)(nil)

// NewTaskService creates a new TaskService. The observer receives a
// transition event after every successful update; pass events.NopObserver
// to disable dispatch.
func NewTaskService(
	taskStore store.TaskStore,
	userStore store.UserStore,
	observer events.TransitionObserver,
	logger *slog.Logger,
) (*TaskServiceImpl, error) {
	if taskStore == nil {
		return nil, fmt.Errorf("taskStore cannot be nil")
	}
	if userStore == nil {
		return nil, fmt.Errorf("userStore cannot be nil")
	}
	if observer == nil {
		observer = events.NopObserver{}
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &TaskServiceImpl{
		taskStore: taskStore,
		userStore: userStore,
		observer:  observer,
		logger:    logger.With("component", "task_service"),
	}, nil
}

// ListTasks returns all tasks.
func (s *TaskServiceImpl) ListTasks(ctx context.Context) ([]*domain.Task, error) {
	tasks, err := s.taskStore.List(ctx)
	if err != nil {
		s.logger.Error("failed to list tasks", "error", err)
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}
	return tasks, nil
}

// GetTask retrieves a task by its ID.
func (s *TaskServiceImpl) GetTask(ctx context.Context, taskID uuid.UUID) (*domain.Task, error) {
	task, err := s.taskStore.GetByID(ctx, taskID)
	if err != nil {
		if !errors.Is(err, store.ErrTaskNotFound) {
			s.logger.Error("failed to retrieve task", "error", err, "task_id", taskID)
		}
		return nil, err
	}
	return task, nil
}

// CreateTask creates a new task on behalf of the actor.
func (s *TaskServiceImpl) CreateTask(
	ctx context.Context,
	actor domain.Actor,
	input CreateTaskInput,
) (*domain.Task, error) {
	caps := authz.ForRole(actor.Role)
	if !caps.CanCreateTasks() {
		s.logger.Debug("task creation denied",
			"actor_id", actor.ID,
			"role", actor.Role)
		return nil, ErrForbidden
	}

	ownerID := actor.ID
	if input.OwnerID != nil {
		// An explicit owner must exist before we reference it.
		if *input.OwnerID != actor.ID {
			if _, err := s.userStore.GetByID(ctx, *input.OwnerID); err != nil {
				if errors.Is(err, store.ErrUserNotFound) {
					return nil, store.ErrUserNotFound
				}
				s.logger.Error("failed to resolve task owner",
					"error", err,
					"owner_id", *input.OwnerID)
				return nil, fmt.Errorf("failed to resolve task owner: %w", err)
			}
		}
		ownerID = *input.OwnerID
	}

	task, err := domain.NewTask(input.Title, input.Description, input.Status, ownerID)
	if err != nil {
		return nil, err
	}

	if err := s.taskStore.Create(ctx, task); err != nil {
		s.logger.Error("failed to create task",
			"error", err,
			"task_id", task.ID)
		return nil, fmt.Errorf("failed to create task: %w", err)
	}

	s.logger.Info("task created",
		"task_id", task.ID,
		"owner_id", task.OwnerID,
		"actor_id", actor.ID)
	return task, nil
}

// UpdateTask applies a partial mutation under the actor's role rules.
//
// The status mutation is durably applied before notification dispatch is
// attempted, so a dispatch failure can never roll back a legitimate state
// change.
func (s *TaskServiceImpl) UpdateTask(
	ctx context.Context,
	actor domain.Actor,
	taskID uuid.UUID,
	update store.TaskUpdate,
) (*domain.Task, error) {
	caps := authz.ForRole(actor.Role)
	if !caps.CanEditTask() {
		return nil, ErrForbidden
	}

	current, err := s.taskStore.GetByID(ctx, taskID)
	if err != nil {
		if !errors.Is(err, store.ErrTaskNotFound) {
			s.logger.Error("failed to load task for update", "error", err, "task_id", taskID)
		}
		return nil, err
	}
	oldStatus := current.Status

	if update.Status != nil && !update.Status.IsValid() {
		return nil, domain.ErrInvalidTaskStatus
	}

	// The completion hard rule is independent of the general edit
	// capability and applies regardless of the other supplied fields.
	if update.Status != nil && *update.Status == domain.TaskStatusConcluida &&
		!caps.CanCompleteTask() {
		s.logger.Debug("task completion denied",
			"actor_id", actor.ID,
			"role", actor.Role,
			"task_id", taskID)
		return nil, ErrForbidden
	}

	if !caps.CanEditTaskFields() {
		// Visualizacao: only the status field is ever applied; other
		// supplied fields are deliberately discarded, not a partial failure.
		if update.Status == nil {
			// Nothing this role may change; the task stands as-is.
			return current, nil
		}
		update = store.TaskUpdate{Status: update.Status}
	} else {
		if update.IsEmpty() {
			return nil, domain.ErrNoUpdatableFields
		}
		if update.OwnerID != nil {
			if _, err := s.userStore.GetByID(ctx, *update.OwnerID); err != nil {
				if errors.Is(err, store.ErrUserNotFound) {
					return nil, store.ErrUserNotFound
				}
				s.logger.Error("failed to resolve new task owner",
					"error", err,
					"owner_id", *update.OwnerID)
				return nil, fmt.Errorf("failed to resolve new task owner: %w", err)
			}
		}
	}

	if err := s.taskStore.Update(ctx, taskID, update); err != nil {
		if !errors.Is(err, store.ErrTaskNotFound) {
			s.logger.Error("failed to update task", "error", err, "task_id", taskID)
		}
		return nil, err
	}

	refreshed, err := s.taskStore.GetByID(ctx, taskID)
	if err != nil {
		s.logger.Error("failed to reload task after update",
			"error", err,
			"task_id", taskID)
		return nil, fmt.Errorf("failed to reload task after update: %w", err)
	}

	// The mutation is persisted; dispatch runs synchronously before
	// returning, and its failures never surface (fail-open).
	s.observer.OnTransition(ctx, events.TaskTransition{
		Task:       refreshed,
		OldStatus:  oldStatus,
		NewStatus:  refreshed.Status,
		Actor:      actor,
		OccurredAt: time.Now().UTC(),
	})

	s.logger.Info("task updated",
		"task_id", taskID,
		"actor_id", actor.ID,
		"old_status", oldStatus,
		"new_status", refreshed.Status)
	return refreshed, nil
}

// DeleteTask removes a task. Admin only.
func (s *TaskServiceImpl) DeleteTask(ctx context.Context, actor domain.Actor, taskID uuid.UUID) error {
	caps := authz.ForRole(actor.Role)
	if !caps.CanDeleteTasks() {
		s.logger.Debug("task deletion denied",
			"actor_id", actor.ID,
			"role", actor.Role,
			"task_id", taskID)
		return ErrForbidden
	}

	if err := s.taskStore.Delete(ctx, taskID); err != nil {
		if !errors.Is(err, store.ErrTaskNotFound) {
			s.logger.Error("failed to delete task", "error", err, "task_id", taskID)
		}
		return err
	}

	s.logger.Info("task deleted", "task_id", taskID, "actor_id", actor.ID)
	return nil
}
