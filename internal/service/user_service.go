package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/tasktrack/tasktrack-api/internal/authz"
	"github.com/tasktrack/tasktrack-api/internal/domain"
	"github.com/tasktrack/tasktrack-api/internal/store"
)

// CreateUserInput carries the fields for a new user account. An empty role
// defaults to visualizacao.
type CreateUserInput struct {
	Username string
	Email    string
	Password string
	Role     domain.Role
}

// UpdateUserInput is a partial user mutation. Nil fields are left untouched.
type UpdateUserInput struct {
	Username *string
	Email    *string
	Password *string
	Role     *domain.Role
}

// IsEmpty reports whether the update carries no fields at all.
func (u UpdateUserInput) IsEmpty() bool {
	return u.Username == nil && u.Email == nil && u.Password == nil && u.Role == nil
}

// UserService provides user account operations under the role hierarchy
// rules.
type UserService interface {
	// GetUser retrieves a user by their ID. Self-lookup is always allowed;
	// any other lookup follows the listing rules: the actor must be able to
	// list users at all, and accounts above the actor's rank are reported as
	// absent rather than revealed.
	// Returns store.ErrUserNotFound or ErrForbidden.
	GetUser(ctx context.Context, actor domain.Actor, userID uuid.UUID) (*domain.User, error)

	// ListUsers returns the users visible to the actor: admin sees all,
	// gerencial sees users up to its own rank (no admin accounts).
	// Returns ErrForbidden when the role may not list at all.
	ListUsers(ctx context.Context, actor domain.Actor) ([]*domain.User, error)

	// CreateUser creates a new user account. Admin only.
	// Returns store.ErrUsernameExists / store.ErrEmailExists on duplicates.
	CreateUser(ctx context.Context, actor domain.Actor, input CreateUserInput) (*domain.User, error)

	// UpdateUser applies a partial mutation to a user account under the
	// role hierarchy rules: gerencial may not edit admin accounts and may
	// not assign the admin role.
	UpdateUser(ctx context.Context, actor domain.Actor, userID uuid.UUID, input UpdateUserInput) (*domain.User, error)

	// DeleteUser removes a user account. Admin only. The deleted user's
	// tasks are reassigned to the acting admin within the same transaction,
	// so no task is ever left without an owner.
	DeleteUser(ctx context.Context, actor domain.Actor, userID uuid.UUID) error
}

// UserServiceImpl implements the UserService interface.
type UserServiceImpl struct {
	userStore store.UserStore
	taskStore store.TaskStore
	db        *sql.DB
	logger    *slog.Logger
}

// Ensure UserServiceImpl implements UserService.
var _ UserService = (*UserServiceImpl)(nil)

// NewUserService creates a new UserService.
func NewUserService(
	userStore store.UserStore,
	taskStore store.TaskStore,
	db *sql.DB,
	logger *slog.Logger,
) (*UserServiceImpl, error) {
	if userStore == nil {
		return nil, fmt.Errorf("userStore cannot be nil")
	}
	if taskStore == nil {
		return nil, fmt.Errorf("taskStore cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &UserServiceImpl{
		userStore: userStore,
		taskStore: taskStore,
		db:        db,
		logger:    logger.With("component", "user_service"),
	}, nil
}

// runTx executes fn inside a database transaction. A nil db executes fn
// directly with a nil transaction; fake stores used in tests return
// themselves from WithTx.
func (s *UserServiceImpl) runTx(ctx context.Context, fn store.TxFn) error {
	if s.db == nil {
		return fn(ctx, nil)
	}
	return store.RunInTransaction(ctx, s.db, fn)
}

// GetUser retrieves a user by their ID under the listing visibility rules.
func (s *UserServiceImpl) GetUser(ctx context.Context, actor domain.Actor, userID uuid.UUID) (*domain.User, error) {
	caps := authz.ForRole(actor.Role)
	if userID != actor.ID && !caps.CanListUsers() {
		s.logger.Debug("user lookup denied",
			"actor_id", actor.ID,
			"role", actor.Role)
		return nil, ErrForbidden
	}

	user, err := s.userStore.GetByID(ctx, userID)
	if err != nil {
		if !errors.Is(err, store.ErrUserNotFound) {
			s.logger.Error("failed to retrieve user", "error", err, "user_id", userID)
		}
		return nil, err
	}

	// Accounts above the actor's rank stay hidden, as in listings. Reported
	// as absent so IDs cannot be probed.
	if userID != actor.ID && !caps.VisibleRole(user.Role) {
		return nil, store.ErrUserNotFound
	}

	return user, nil
}

// ListUsers returns the users visible to the actor.
func (s *UserServiceImpl) ListUsers(ctx context.Context, actor domain.Actor) ([]*domain.User, error) {
	caps := authz.ForRole(actor.Role)
	if !caps.CanListUsers() {
		return nil, ErrForbidden
	}

	users, err := s.userStore.List(ctx)
	if err != nil {
		s.logger.Error("failed to list users", "error", err)
		return nil, fmt.Errorf("failed to list users: %w", err)
	}

	// The visibility filter is the role-hierarchy comparison, not a
	// hardcoded role list.
	visible := make([]*domain.User, 0, len(users))
	for _, user := range users {
		if caps.VisibleRole(user.Role) {
			visible = append(visible, user)
		}
	}

	return visible, nil
}

// CreateUser creates a new user account. Admin only.
func (s *UserServiceImpl) CreateUser(
	ctx context.Context,
	actor domain.Actor,
	input CreateUserInput,
) (*domain.User, error) {
	caps := authz.ForRole(actor.Role)
	if !caps.CanCreateUsers() {
		s.logger.Debug("user creation denied",
			"actor_id", actor.ID,
			"role", actor.Role)
		return nil, ErrForbidden
	}

	role := input.Role
	if role == "" {
		role = domain.RoleVisualizacao
	}

	user, err := domain.NewUser(input.Username, input.Email, input.Password, role)
	if err != nil {
		return nil, err
	}

	err = s.runTx(ctx, func(ctx context.Context, tx *sql.Tx) error {
		return s.userStore.WithTx(tx).Create(ctx, user)
	})
	if err != nil {
		if store.IsDuplicateError(err) {
			s.logger.Debug("attempted to create duplicate user",
				"username", input.Username)
		} else {
			s.logger.Error("failed to create user", "error", err)
		}
		return nil, err
	}

	s.logger.Info("user created",
		"user_id", user.ID,
		"role", user.Role,
		"actor_id", actor.ID)
	return user, nil
}

// UpdateUser applies a partial mutation to a user account.
func (s *UserServiceImpl) UpdateUser(
	ctx context.Context,
	actor domain.Actor,
	userID uuid.UUID,
	input UpdateUserInput,
) (*domain.User, error) {
	caps := authz.ForRole(actor.Role)

	if input.IsEmpty() {
		return nil, domain.ErrNoUpdatableFields
	}

	if input.Role != nil && !input.Role.IsValid() {
		return nil, domain.ErrInvalidRole
	}

	var updated *domain.User
	err := s.runTx(ctx, func(ctx context.Context, tx *sql.Tx) error {
		txStore := s.userStore.WithTx(tx)

		user, err := txStore.GetByID(ctx, userID)
		if err != nil {
			return err
		}

		if !caps.CanEditUser(user.Role) {
			s.logger.Debug("user edit denied",
				"actor_id", actor.ID,
				"actor_role", actor.Role,
				"target_role", user.Role)
			return ErrForbidden
		}
		if input.Role != nil && !caps.CanAssignRole(*input.Role) {
			s.logger.Debug("role assignment denied",
				"actor_id", actor.ID,
				"actor_role", actor.Role,
				"new_role", *input.Role)
			return ErrForbidden
		}

		if input.Username != nil {
			user.Username = *input.Username
		}
		if input.Email != nil {
			user.Email = *input.Email
		}
		if input.Role != nil {
			user.Role = *input.Role
		}
		if input.Password != nil {
			// The store hashes the plaintext on update.
			user.Password = *input.Password
		}
		user.UpdatedAt = time.Now().UTC()

		if err := txStore.Update(ctx, user); err != nil {
			return err
		}

		updated = user
		return nil
	})
	if err != nil {
		if !errors.Is(err, ErrForbidden) && !errors.Is(err, store.ErrUserNotFound) &&
			!store.IsDuplicateError(err) {
			s.logger.Error("failed to update user", "error", err, "user_id", userID)
		}
		return nil, err
	}

	s.logger.Info("user updated", "user_id", userID, "actor_id", actor.ID)
	return updated, nil
}

// DeleteUser removes a user account, reassigning their tasks to the acting
// admin inside the same transaction.
func (s *UserServiceImpl) DeleteUser(ctx context.Context, actor domain.Actor, userID uuid.UUID) error {
	caps := authz.ForRole(actor.Role)
	if !caps.CanDeleteUsers() {
		s.logger.Debug("user deletion denied",
			"actor_id", actor.ID,
			"role", actor.Role)
		return ErrForbidden
	}

	if userID == actor.ID {
		return ErrCannotDeleteSelf
	}

	err := s.runTx(ctx, func(ctx context.Context, tx *sql.Tx) error {
		moved, err := s.taskStore.WithTx(tx).ReassignOwner(ctx, userID, actor.ID)
		if err != nil {
			return err
		}
		if moved > 0 {
			s.logger.Info("reassigned tasks of deleted user",
				"user_id", userID,
				"new_owner_id", actor.ID,
				"count", moved)
		}

		return s.userStore.WithTx(tx).Delete(ctx, userID)
	})
	if err != nil {
		if !errors.Is(err, store.ErrUserNotFound) {
			s.logger.Error("failed to delete user", "error", err, "user_id", userID)
		}
		return err
	}

	s.logger.Info("user deleted", "user_id", userID, "actor_id", actor.ID)
	return nil
}
