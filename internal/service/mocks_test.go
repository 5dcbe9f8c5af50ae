package service

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"

	"github.com/tasktrack/tasktrack-api/internal/domain"
	"github.com/tasktrack/tasktrack-api/internal/events"
	"github.com/tasktrack/tasktrack-api/internal/store"
)

// fakeUserStore is an in-memory store.UserStore for service tests. It
// mimics the real store's behavior of hashing the transient plaintext
// password on create and update.
type fakeUserStore struct {
	users map[uuid.UUID]*domain.User
	order []uuid.UUID

	createErr error
	getErr    error
	listErr   error
	updateErr error
	deleteErr error
}

func newFakeUserStore() *fakeUserStore {
	return &fakeUserStore{users: make(map[uuid.UUID]*domain.User)}
}

func (f *fakeUserStore) add(user *domain.User) {
	stored := *user
	f.users[user.ID] = &stored
	f.order = append(f.order, user.ID)
}

func (f *fakeUserStore) Create(ctx context.Context, user *domain.User) error {
	if f.createErr != nil {
		return f.createErr
	}
	for _, existing := range f.users {
		if existing.Username == user.Username {
			return store.ErrUsernameExists
		}
		if existing.Email == user.Email {
			return store.ErrEmailExists
		}
	}
	if user.Password != "" {
		user.HashedPassword = "hashed:" + user.Password
		user.Password = ""
	}
	f.add(user)
	return nil
}

func (f *fakeUserStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	user, ok := f.users[id]
	if !ok {
		return nil, store.ErrUserNotFound
	}
	copied := *user
	return &copied, nil
}

func (f *fakeUserStore) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	for _, user := range f.users {
		if user.Username == username {
			copied := *user
			return &copied, nil
		}
	}
	return nil, store.ErrUserNotFound
}

func (f *fakeUserStore) List(ctx context.Context) ([]*domain.User, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	result := make([]*domain.User, 0, len(f.order))
	for _, id := range f.order {
		copied := *f.users[id]
		result = append(result, &copied)
	}
	return result, nil
}

func (f *fakeUserStore) Update(ctx context.Context, user *domain.User) error {
	if f.updateErr != nil {
		return f.updateErr
	}
	if _, ok := f.users[user.ID]; !ok {
		return store.ErrUserNotFound
	}
	for _, existing := range f.users {
		if existing.ID == user.ID {
			continue
		}
		if existing.Username == user.Username {
			return store.ErrUsernameExists
		}
		if existing.Email == user.Email {
			return store.ErrEmailExists
		}
	}
	stored := *user
	if stored.Password != "" {
		stored.HashedPassword = "hashed:" + stored.Password
		stored.Password = ""
	}
	f.users[user.ID] = &stored
	return nil
}

func (f *fakeUserStore) Delete(ctx context.Context, id uuid.UUID) error {
	if f.deleteErr != nil {
		return f.deleteErr
	}
	if _, ok := f.users[id]; !ok {
		return store.ErrUserNotFound
	}
	delete(f.users, id)
	for i, orderedID := range f.order {
		if orderedID == id {
			f.order = append(f.order[:i], f.order[i+1:]...)
			break
		}
	}
	return nil
}

func (f *fakeUserStore) Count(ctx context.Context) (int64, error) {
	return int64(len(f.users)), nil
}

func (f *fakeUserStore) WithTx(tx *sql.Tx) store.UserStore {
	return f
}

// fakeTaskStore is an in-memory store.TaskStore for service tests.
type fakeTaskStore struct {
	tasks map[uuid.UUID]*domain.Task
	order []uuid.UUID

	createErr   error
	getErr      error
	listErr     error
	updateErr   error
	deleteErr   error
	reassignErr error
}

func newFakeTaskStore() *fakeTaskStore {
	return &fakeTaskStore{tasks: make(map[uuid.UUID]*domain.Task)}
}

func (f *fakeTaskStore) add(task *domain.Task) {
	stored := *task
	f.tasks[task.ID] = &stored
	f.order = append(f.order, task.ID)
}

func (f *fakeTaskStore) Create(ctx context.Context, task *domain.Task) error {
	if f.createErr != nil {
		return f.createErr
	}
	f.add(task)
	return nil
}

func (f *fakeTaskStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Task, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	task, ok := f.tasks[id]
	if !ok {
		return nil, store.ErrTaskNotFound
	}
	copied := *task
	return &copied, nil
}

func (f *fakeTaskStore) List(ctx context.Context) ([]*domain.Task, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	result := make([]*domain.Task, 0, len(f.order))
	for _, id := range f.order {
		copied := *f.tasks[id]
		result = append(result, &copied)
	}
	return result, nil
}

func (f *fakeTaskStore) Update(ctx context.Context, id uuid.UUID, update store.TaskUpdate) error {
	if f.updateErr != nil {
		return f.updateErr
	}
	task, ok := f.tasks[id]
	if !ok {
		return store.ErrTaskNotFound
	}
	if update.Title != nil {
		task.Title = *update.Title
	}
	if update.Description != nil {
		task.Description = *update.Description
	}
	if update.Status != nil {
		task.Status = *update.Status
	}
	if update.OwnerID != nil {
		task.OwnerID = *update.OwnerID
	}
	task.UpdatedAt = time.Now().UTC()
	return nil
}

func (f *fakeTaskStore) Delete(ctx context.Context, id uuid.UUID) error {
	if f.deleteErr != nil {
		return f.deleteErr
	}
	if _, ok := f.tasks[id]; !ok {
		return store.ErrTaskNotFound
	}
	delete(f.tasks, id)
	for i, orderedID := range f.order {
		if orderedID == id {
			f.order = append(f.order[:i], f.order[i+1:]...)
			break
		}
	}
	return nil
}

func (f *fakeTaskStore) ReassignOwner(ctx context.Context, from, to uuid.UUID) (int64, error) {
	if f.reassignErr != nil {
		return 0, f.reassignErr
	}
	var moved int64
	for _, task := range f.tasks {
		if task.OwnerID == from {
			task.OwnerID = to
			moved++
		}
	}
	return moved, nil
}

func (f *fakeTaskStore) WithTx(tx *sql.Tx) store.TaskStore {
	return f
}

// recordingObserver captures every transition event it receives.
type recordingObserver struct {
	events []events.TaskTransition
}

func (r *recordingObserver) OnTransition(ctx context.Context, event events.TaskTransition) {
	r.events = append(r.events, event)
}
