package domain

import (
	"time"

	"github.com/google/uuid"
)

// NotificationKind identifies the transition trigger that produced a
// notification record.
type NotificationKind string

// Possible notification kinds.
const (
	NotificationTaskReview    NotificationKind = "task_review"
	NotificationTaskCompleted NotificationKind = "task_completed"
)

// Notification is an ephemeral record created by the notification
// dispatcher in reaction to a task status transition. Notifications are
// never created directly by a client request, and are never deleted; the
// only mutation is the read flag.
//
// IDs are assigned by the notification directory, monotonically increasing
// and unique process-wide.
type Notification struct {
	ID        int64            `json:"id"`
	UserID    uuid.UUID        `json:"user_id"`
	Kind      NotificationKind `json:"type"`
	Title     string           `json:"title"`
	Message   string           `json:"message"`
	TaskID    uuid.UUID        `json:"task_id"`
	TaskTitle string           `json:"task_title"`
	CreatedAt time.Time        `json:"created_at"`
	Read      bool             `json:"read"`
	UpdatedBy string           `json:"updated_by,omitempty"`
}
