// Package events defines the task transition event emitted by the task
// service and the observer contract the notification dispatcher implements.
package events

import (
	"context"
	"time"

	"github.com/tasktrack/tasktrack-api/internal/domain"
)

// TaskTransition is emitted after a task mutation has been durably applied.
// OldStatus and NewStatus may be equal when the mutation did not touch the
// status field; observers treat such events as no-ops.
type TaskTransition struct {
	// Task is the refreshed task as persisted.
	Task *domain.Task

	// OldStatus is the task status before the mutation.
	OldStatus domain.TaskStatus

	// NewStatus is the task status after the mutation.
	NewStatus domain.TaskStatus

	// Actor identifies the authenticated user who performed the mutation.
	Actor domain.Actor

	// OccurredAt is the timestamp when the transition was applied.
	OccurredAt time.Time
}

// TransitionObserver receives task transition events. OnTransition is
// invoked synchronously by the task service immediately after a successful
// mutation, before the call returns to the API layer.
//
// Observers must be fail-open: a failure to act on an event (for example an
// unresolvable notification recipient) must be absorbed by the observer and
// never surface to the mutation's caller. That is why OnTransition returns
// no error.
type TransitionObserver interface {
	OnTransition(ctx context.Context, event TaskTransition)
}

// NopObserver discards all events. Useful as a default and in tests.
type NopObserver struct{}

// OnTransition implements TransitionObserver.
func (NopObserver) OnTransition(ctx context.Context, event TaskTransition) {}
