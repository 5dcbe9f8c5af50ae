package notification

import (
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tasktrack/tasktrack-api/internal/domain"
)

func newTestNotification(userID uuid.UUID, createdAt time.Time) domain.Notification {
	return domain.Notification{
		UserID:    userID,
		Kind:      domain.NotificationTaskReview,
		Title:     "Tarefa em Revisão",
		Message:   "A tarefa 'Relatório' foi movida para revisão.",
		TaskID:    uuid.New(),
		TaskTitle: "Relatório",
		CreatedAt: createdAt,
	}
}

func TestDirectoryAppend(t *testing.T) {
	t.Parallel()

	d := NewDirectory()
	userID := uuid.New()
	now := time.Now().UTC()

	first := d.Append(newTestNotification(userID, now))
	second := d.Append(newTestNotification(userID, now))

	assert.Equal(t, int64(1), first.ID)
	assert.Equal(t, int64(2), second.ID)

	// The returned copy is detached from directory state.
	first.Read = true
	assert.Equal(t, 2, d.UnreadCount(userID))
}

func TestDirectoryAppend_ConcurrentIDsUnique(t *testing.T) {
	t.Parallel()

	d := NewDirectory()
	userID := uuid.New()
	now := time.Now().UTC()

	const n = 100
	ids := make(chan int64, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			ids <- d.Append(newTestNotification(userID, now)).ID
		}()
	}
	wg.Wait()
	close(ids)

	seen := make(map[int64]bool, n)
	for id := range ids {
		assert.False(t, seen[id], "duplicate notification ID %d", id)
		seen[id] = true
	}
	assert.Len(t, seen, n)
}

func TestDirectoryListForUser(t *testing.T) {
	t.Parallel()

	d := NewDirectory()
	alice := uuid.New()
	bob := uuid.New()
	base := time.Date(2026, 4, 1, 10, 0, 0, 0, time.UTC)

	older := d.Append(newTestNotification(alice, base))
	newer := d.Append(newTestNotification(alice, base.Add(time.Hour)))
	d.Append(newTestNotification(bob, base))

	got := d.ListForUser(alice, false)
	require.Len(t, got, 2)

	// Newest first.
	assert.Equal(t, newer.ID, got[0].ID)
	assert.Equal(t, older.ID, got[1].ID)

	// Only the requested user's records.
	for _, n := range got {
		assert.Equal(t, alice, n.UserID)
	}
}

func TestDirectoryListForUser_StableTieOrder(t *testing.T) {
	t.Parallel()

	d := NewDirectory()
	userID := uuid.New()
	ts := time.Date(2026, 4, 1, 10, 0, 0, 0, time.UTC)

	// One dispatch stamps every record with the same timestamp; listing
	// must preserve insertion order among them.
	var ids []int64
	for i := 0; i < 5; i++ {
		ids = append(ids, d.Append(newTestNotification(userID, ts)).ID)
	}

	got := d.ListForUser(userID, false)
	require.Len(t, got, 5)
	for i, n := range got {
		assert.Equal(t, ids[i], n.ID)
	}
}

func TestDirectoryListForUser_UnreadOnly(t *testing.T) {
	t.Parallel()

	d := NewDirectory()
	userID := uuid.New()
	now := time.Now().UTC()

	read := d.Append(newTestNotification(userID, now))
	unread := d.Append(newTestNotification(userID, now.Add(time.Minute)))
	require.True(t, d.MarkRead(read.ID, userID))

	got := d.ListForUser(userID, true)
	require.Len(t, got, 1)
	assert.Equal(t, unread.ID, got[0].ID)

	all := d.ListForUser(userID, false)
	assert.Len(t, all, 2)
}

func TestDirectoryMarkRead(t *testing.T) {
	t.Parallel()

	d := NewDirectory()
	owner := uuid.New()
	other := uuid.New()
	now := time.Now().UTC()

	n := d.Append(newTestNotification(owner, now))

	t.Run("unknown ID", func(t *testing.T) {
		assert.False(t, d.MarkRead(9999, owner))
	})

	t.Run("other user's notification stays untouched", func(t *testing.T) {
		assert.False(t, d.MarkRead(n.ID, other))
		assert.Equal(t, 1, d.UnreadCount(owner))
	})

	t.Run("owner marks read", func(t *testing.T) {
		assert.True(t, d.MarkRead(n.ID, owner))
		assert.Equal(t, 0, d.UnreadCount(owner))
	})

	t.Run("marking twice still reports success", func(t *testing.T) {
		assert.True(t, d.MarkRead(n.ID, owner))
	})
}

func TestDirectoryMarkAllRead(t *testing.T) {
	t.Parallel()

	d := NewDirectory()
	alice := uuid.New()
	bob := uuid.New()
	now := time.Now().UTC()

	d.Append(newTestNotification(alice, now))
	d.Append(newTestNotification(alice, now))
	already := d.Append(newTestNotification(alice, now))
	require.True(t, d.MarkRead(already.ID, alice))
	d.Append(newTestNotification(bob, now))

	assert.Equal(t, 2, d.MarkAllRead(alice))
	assert.Equal(t, 0, d.UnreadCount(alice))

	// Bob's records are untouched.
	assert.Equal(t, 1, d.UnreadCount(bob))

	// A second sweep has nothing left to flip.
	assert.Equal(t, 0, d.MarkAllRead(alice))
}
