package notification

import (
	"sort"
	"sync"

	"github.com/google/uuid"
	"github.com/tasktrack/tasktrack-api/internal/domain"
)

// Directory is the in-memory store of notification records. Records are
// append-mostly: they are never removed, and the only mutation is flipping
// the read flag.
//
// IDs are assigned at append time under the directory mutex, monotonically
// increasing and unique across the whole directory, so concurrent
// dispatches can never collide.
type Directory struct {
	mu            sync.Mutex
	nextID        int64
	notifications []*domain.Notification
}

// NewDirectory creates an empty notification directory.
func NewDirectory() *Directory {
	return &Directory{nextID: 1}
}

// Append assigns the notification its ID and stores it. The passed record
// is copied; callers cannot mutate directory state through it afterwards.
func (d *Directory) Append(n domain.Notification) domain.Notification {
	d.mu.Lock()
	defer d.mu.Unlock()

	n.ID = d.nextID
	d.nextID++

	stored := n
	d.notifications = append(d.notifications, &stored)
	return n
}

// ListForUser returns the user's notifications ordered newest-first by
// creation timestamp, ties broken by insertion order. When unreadOnly is
// set, read records are skipped.
func (d *Directory) ListForUser(userID uuid.UUID, unreadOnly bool) []domain.Notification {
	d.mu.Lock()
	defer d.mu.Unlock()

	result := make([]domain.Notification, 0)
	for _, n := range d.notifications {
		if n.UserID != userID {
			continue
		}
		if unreadOnly && n.Read {
			continue
		}
		result = append(result, *n)
	}

	// Stable keeps insertion order among equal timestamps.
	sort.SliceStable(result, func(i, j int) bool {
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})

	return result
}

// MarkRead flips the read flag on the given notification. It returns false
// without touching the record when the notification does not exist or
// belongs to a different user; the ownership check is an authorization
// boundary, not just a lookup.
func (d *Directory) MarkRead(notificationID int64, userID uuid.UUID) bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	for _, n := range d.notifications {
		if n.ID == notificationID && n.UserID == userID {
			n.Read = true
			return true
		}
	}
	return false
}

// MarkAllRead flips the read flag on every unread notification of the user
// and returns how many were flipped.
func (d *Directory) MarkAllRead(userID uuid.UUID) int {
	d.mu.Lock()
	defer d.mu.Unlock()

	count := 0
	for _, n := range d.notifications {
		if n.UserID == userID && !n.Read {
			n.Read = true
			count++
		}
	}
	return count
}

// UnreadCount returns the number of unread notifications for the user.
func (d *Directory) UnreadCount(userID uuid.UUID) int {
	d.mu.Lock()
	defer d.mu.Unlock()

	count := 0
	for _, n := range d.notifications {
		if n.UserID == userID && !n.Read {
			count++
		}
	}
	return count
}
