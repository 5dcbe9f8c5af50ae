package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tasktrack/tasktrack-api/internal/api/shared"
	"github.com/tasktrack/tasktrack-api/internal/domain"
	"github.com/tasktrack/tasktrack-api/internal/notification"
)

func actorContext(t *testing.T, role domain.Role) (context.Context, domain.Actor) {
	t.Helper()
	actor := domain.Actor{
		ID:       uuid.New(),
		Username: "maria",
		Role:     role,
	}
	return shared.WithActor(context.Background(), actor), actor
}

func seedNotifications(d *notification.Directory, userID uuid.UUID, n int) []domain.Notification {
	base := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	seeded := make([]domain.Notification, 0, n)
	for i := 0; i < n; i++ {
		stored := d.Append(domain.Notification{
			UserID:    userID,
			Kind:      domain.NotificationTaskReview,
			Title:     "Tarefa em Revisão",
			Message:   fmt.Sprintf("A tarefa 'Relatório %d' foi movida para revisão.", i),
			TaskID:    uuid.New(),
			CreatedAt: base.Add(time.Duration(i) * time.Minute),
		})
		seeded = append(seeded, stored)
	}
	return seeded
}

func TestListNotifications(t *testing.T) {
	t.Parallel()

	ctx, actor := actorContext(t, domain.RoleVisualizacao)
	directory := notification.NewDirectory()
	seeded := seedNotifications(directory, actor.ID, 3)
	seedNotifications(directory, uuid.New(), 2) // someone else's records

	handler := NewNotificationHandler(directory, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/notifications", nil).WithContext(ctx)
	rec := httptest.NewRecorder()
	handler.ListNotifications(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var got []domain.Notification
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	require.Len(t, got, 3)

	// Newest first.
	assert.Equal(t, seeded[2].ID, got[0].ID)
	assert.Equal(t, seeded[0].ID, got[2].ID)
	for _, n := range got {
		assert.Equal(t, actor.ID, n.UserID)
	}
}

func TestListNotifications_UnreadOnly(t *testing.T) {
	t.Parallel()

	ctx, actor := actorContext(t, domain.RoleVisualizacao)
	directory := notification.NewDirectory()
	seeded := seedNotifications(directory, actor.ID, 3)
	directory.MarkRead(seeded[1].ID, actor.ID)

	handler := NewNotificationHandler(directory, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/notifications?unread_only=true", nil).WithContext(ctx)
	rec := httptest.NewRecorder()
	handler.ListNotifications(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var got []domain.Notification
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	require.Len(t, got, 2)
	for _, n := range got {
		assert.NotEqual(t, seeded[1].ID, n.ID)
	}
}

func TestListNotifications_InvalidUnreadOnly(t *testing.T) {
	t.Parallel()

	ctx, _ := actorContext(t, domain.RoleVisualizacao)
	handler := NewNotificationHandler(notification.NewDirectory(), nil)

	req := httptest.NewRequest(http.MethodGet, "/api/notifications?unread_only=maybe", nil).WithContext(ctx)
	rec := httptest.NewRecorder()
	handler.ListNotifications(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "Invalid unread_only value")
}

func TestListNotifications_NoActor(t *testing.T) {
	t.Parallel()

	handler := NewNotificationHandler(notification.NewDirectory(), nil)

	req := httptest.NewRequest(http.MethodGet, "/api/notifications", nil)
	rec := httptest.NewRecorder()
	handler.ListNotifications(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestUnreadCount(t *testing.T) {
	t.Parallel()

	ctx, actor := actorContext(t, domain.RoleGerencial)
	directory := notification.NewDirectory()
	seeded := seedNotifications(directory, actor.ID, 4)
	directory.MarkRead(seeded[0].ID, actor.ID)

	handler := NewNotificationHandler(directory, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/notifications/unread-count", nil).WithContext(ctx)
	rec := httptest.NewRecorder()
	handler.UnreadCount(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var got UnreadCountResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, 3, got.UnreadCount)
}

func markReadRequest(ctx context.Context, id string) *http.Request {
	req := httptest.NewRequest(http.MethodPut, "/api/notifications/"+id+"/read", nil)
	routeCtx := chi.NewRouteContext()
	routeCtx.URLParams.Add("id", id)
	return req.WithContext(context.WithValue(ctx, chi.RouteCtxKey, routeCtx))
}

func TestMarkRead(t *testing.T) {
	t.Parallel()

	ctx, actor := actorContext(t, domain.RoleVisualizacao)
	directory := notification.NewDirectory()
	seeded := seedNotifications(directory, actor.ID, 1)

	handler := NewNotificationHandler(directory, nil)

	rec := httptest.NewRecorder()
	handler.MarkRead(rec, markReadRequest(ctx, fmt.Sprintf("%d", seeded[0].ID)))

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, 0, directory.UnreadCount(actor.ID))
}

func TestMarkRead_OtherUsersNotification(t *testing.T) {
	t.Parallel()

	ctx, _ := actorContext(t, domain.RoleVisualizacao)
	directory := notification.NewDirectory()
	otherID := uuid.New()
	seeded := seedNotifications(directory, otherID, 1)

	handler := NewNotificationHandler(directory, nil)

	rec := httptest.NewRecorder()
	handler.MarkRead(rec, markReadRequest(ctx, fmt.Sprintf("%d", seeded[0].ID)))

	// Not 403: the record's existence is not disclosed.
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "Notification not found")
	assert.Equal(t, 1, directory.UnreadCount(otherID))
}

func TestMarkRead_InvalidID(t *testing.T) {
	t.Parallel()

	ctx, _ := actorContext(t, domain.RoleVisualizacao)
	handler := NewNotificationHandler(notification.NewDirectory(), nil)

	rec := httptest.NewRecorder()
	handler.MarkRead(rec, markReadRequest(ctx, "not-a-number"))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "Invalid notification ID format")
}

func TestMarkAllRead(t *testing.T) {
	t.Parallel()

	ctx, actor := actorContext(t, domain.RoleAdmin)
	directory := notification.NewDirectory()
	seedNotifications(directory, actor.ID, 5)
	otherID := uuid.New()
	seedNotifications(directory, otherID, 2)

	handler := NewNotificationHandler(directory, nil)

	req := httptest.NewRequest(http.MethodPut, "/api/notifications/read-all", nil).WithContext(ctx)
	rec := httptest.NewRecorder()
	handler.MarkAllRead(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var got MarkAllReadResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, 5, got.MarkedRead)
	assert.Equal(t, 0, directory.UnreadCount(actor.ID))
	assert.Equal(t, 2, directory.UnreadCount(otherID))
}
