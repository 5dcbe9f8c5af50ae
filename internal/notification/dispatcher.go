package notification

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/tasktrack/tasktrack-api/internal/domain"
	"github.com/tasktrack/tasktrack-api/internal/events"
	"github.com/tasktrack/tasktrack-api/internal/platform/logger"
)

// UserDirectory is the narrow user lookup contract the dispatcher needs to
// resolve notification recipients. store.UserStore satisfies it.
type UserDirectory interface {
	GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error)
	List(ctx context.Context) ([]*domain.User, error)
}

// Dispatcher reacts to task transition events by creating notification
// records in the directory. Two trigger rules exist:
//
//   - entering em_revisao notifies every admin and gerencial user
//   - entering concluida notifies the task's owner
//
// A transition where the new status equals the old one never notifies.
// Recipient sets are resolved fresh at dispatch time, never cached.
//
// Dispatch is fail-open: the triggering mutation has already been persisted
// when OnTransition runs, so any failure here (an unresolvable owner, a
// user lookup error) is logged and swallowed, never escalated.
type Dispatcher struct {
	directory *Directory
	users     UserDirectory
	logger    *slog.Logger
}

// Ensure Dispatcher implements events.TransitionObserver.
var _ events.TransitionObserver = (*Dispatcher)(nil)

// NewDispatcher creates a dispatcher writing to the given directory and
// resolving recipients through the given user directory.
func NewDispatcher(directory *Directory, users UserDirectory, log *slog.Logger) (*Dispatcher, error) {
	if directory == nil {
		return nil, fmt.Errorf("directory cannot be nil")
	}
	if users == nil {
		return nil, fmt.Errorf("users cannot be nil")
	}
	if log == nil {
		log = slog.Default()
	}

	return &Dispatcher{
		directory: directory,
		users:     users,
		logger:    log.With(slog.String("component", "notification_dispatcher")),
	}, nil
}

// OnTransition implements events.TransitionObserver.
func (d *Dispatcher) OnTransition(ctx context.Context, event events.TaskTransition) {
	if event.Task == nil || event.NewStatus == event.OldStatus {
		return
	}

	if event.NewStatus == domain.TaskStatusEmRevisao {
		d.dispatchReview(ctx, event)
	}

	if event.NewStatus == domain.TaskStatusConcluida {
		d.dispatchCompletion(ctx, event)
	}
}

// dispatchReview creates one task_review notification for every user whose
// role is admin or gerencial.
func (d *Dispatcher) dispatchReview(ctx context.Context, event events.TaskTransition) {
	log := logger.FromContextOrDefault(ctx, d.logger)

	users, err := d.users.List(ctx)
	if err != nil {
		log.Error("failed to resolve review recipients, skipping dispatch",
			slog.String("error", err.Error()),
			slog.String("task_id", event.Task.ID.String()))
		return
	}

	created := 0
	for _, user := range users {
		if user.Role != domain.RoleAdmin && user.Role != domain.RoleGerencial {
			continue
		}

		d.directory.Append(domain.Notification{
			UserID:    user.ID,
			Kind:      domain.NotificationTaskReview,
			Title:     "Tarefa em Revisão",
			Message:   fmt.Sprintf("A tarefa '%s' foi movida para revisão.", event.Task.Title),
			TaskID:    event.Task.ID,
			TaskTitle: event.Task.Title,
			CreatedAt: d.createdAt(event),
			UpdatedBy: event.Actor.Username,
		})
		created++
	}

	log.Debug("review notifications dispatched",
		slog.String("task_id", event.Task.ID.String()),
		slog.Int("recipient_count", created))
}

// dispatchCompletion creates exactly one task_completed notification for
// the task's owner. If the owner cannot be resolved, the dispatch is
// skipped without raising.
func (d *Dispatcher) dispatchCompletion(ctx context.Context, event events.TaskTransition) {
	log := logger.FromContextOrDefault(ctx, d.logger)

	if event.Task.OwnerID == uuid.Nil {
		log.Warn("task has no owner, skipping completion notification",
			slog.String("task_id", event.Task.ID.String()))
		return
	}

	owner, err := d.users.GetByID(ctx, event.Task.OwnerID)
	if err != nil {
		log.Warn("task owner could not be resolved, skipping completion notification",
			slog.String("error", err.Error()),
			slog.String("task_id", event.Task.ID.String()),
			slog.String("owner_id", event.Task.OwnerID.String()))
		return
	}

	d.directory.Append(domain.Notification{
		UserID:    owner.ID,
		Kind:      domain.NotificationTaskCompleted,
		Title:     "Tarefa Concluída",
		Message:   fmt.Sprintf("Sua tarefa '%s' foi concluída.", event.Task.Title),
		TaskID:    event.Task.ID,
		TaskTitle: event.Task.Title,
		CreatedAt: d.createdAt(event),
		UpdatedBy: event.Actor.Username,
	})

	log.Debug("completion notification dispatched",
		slog.String("task_id", event.Task.ID.String()),
		slog.String("owner_id", owner.ID.String()))
}

func (d *Dispatcher) createdAt(event events.TaskTransition) time.Time {
	if !event.OccurredAt.IsZero() {
		return event.OccurredAt
	}
	return time.Now().UTC()
}
