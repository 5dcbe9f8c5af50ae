package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// Role is the privilege tier of a user. Roles are totally ordered by
// privilege: admin > gerencial > visualizacao.
type Role string

// Known role values.
const (
	RoleAdmin        Role = "admin"
	RoleGerencial    Role = "gerencial"
	RoleVisualizacao Role = "visualizacao"
)

// roleRanks encodes the privilege ordering. Higher rank means more privilege.
var roleRanks = map[Role]int{
	RoleAdmin:        3,
	RoleGerencial:    2,
	RoleVisualizacao: 1,
}

// Rank returns the integer privilege rank of the role. Unknown roles rank
// below every valid role.
func (r Role) Rank() int {
	return roleRanks[r]
}

// AtMost reports whether the role's privilege does not exceed the other
// role's privilege. Used for the gerencial user-listing filter and for
// edit-target checks.
func (r Role) AtMost(other Role) bool {
	return r.Rank() <= other.Rank()
}

// IsValid reports whether the role is one of the known values.
func (r Role) IsValid() bool {
	_, ok := roleRanks[r]
	return ok
}

// ParseRole converts a string into a Role, returning ErrInvalidRole for
// values outside the known set.
func ParseRole(s string) (Role, error) {
	r := Role(s)
	if !r.IsValid() {
		return "", ErrInvalidRole
	}
	return r, nil
}

// Common validation errors for User.
var (
	ErrEmptyUserID      = errors.New("user ID cannot be empty")
	ErrEmptyUsername    = errors.New("username cannot be empty")
	ErrEmptyEmail       = errors.New("email cannot be empty")
	ErrInvalidEmail     = errors.New("invalid email format")
	ErrEmptyPassword    = errors.New("password cannot be empty")
	ErrPasswordTooShort = errors.New("password must be at least 8 characters long")
	ErrPasswordTooLong  = errors.New("password must be at most 72 characters long")
)

// User represents a registered user of the task tracker.
type User struct {
	ID             uuid.UUID `json:"id"`
	Username       string    `json:"username"`
	Email          string    `json:"email"`
	Role           Role      `json:"role"`
	Password       string    `json:"-"` // Plaintext, only populated transiently before hashing
	HashedPassword string    `json:"-"` // Never expose the hash in JSON
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// NewUser creates a new User with the given identity fields and plaintext
// password. It generates a new UUID and sets the timestamps. The caller is
// responsible for hashing the password before storing the user.
func NewUser(username, email, password string, role Role) (*User, error) {
	user := &User{
		ID:        uuid.New(),
		Username:  username,
		Email:     email,
		Role:      role,
		Password:  password,
		CreatedAt: time.Now().UTC(),
		UpdatedAt: time.Now().UTC(),
	}

	if err := user.Validate(); err != nil {
		return nil, err
	}

	return user, nil
}

// Actor is the already-authenticated identity attached to a request.
// The credential and token plumbing that produces it lives in the auth
// service; domain logic only ever sees this pair plus the username used
// for notification attribution.
type Actor struct {
	ID       uuid.UUID
	Username string
	Role     Role
}

// Validate checks if the User has valid data.
// Returns an error if any field fails validation.
func (u *User) Validate() error {
	if u.ID == uuid.Nil {
		return ErrEmptyUserID
	}

	if u.Username == "" {
		return ErrEmptyUsername
	}

	if u.Email == "" {
		return ErrEmptyEmail
	}

	if !validateEmailFormat(u.Email) {
		return ErrInvalidEmail
	}

	if !u.Role.IsValid() {
		return ErrInvalidRole
	}

	if u.Password != "" {
		if len(u.Password) < 8 {
			return ErrPasswordTooShort
		}
		// bcrypt's practical input limit
		if len(u.Password) > 72 {
			return ErrPasswordTooLong
		}
	} else if u.HashedPassword == "" {
		// Existing users loaded from the store carry only the hash.
		return ErrEmptyPassword
	}

	return nil
}

// validateEmailFormat performs basic validation of email format: one @ with
// a dotted domain part after it.
func validateEmailFormat(email string) bool {
	atIndex := -1
	for i, char := range email {
		if char == '@' {
			atIndex = i
			break
		}
	}

	if atIndex <= 0 || atIndex == len(email)-1 {
		return false
	}

	domainPart := email[atIndex+1:]
	if len(domainPart) < 3 {
		return false
	}

	dotIndex := -1
	for i, char := range domainPart {
		if char == '.' {
			dotIndex = i
			break
		}
	}

	return dotIndex > 0 && dotIndex < len(domainPart)-1
}
