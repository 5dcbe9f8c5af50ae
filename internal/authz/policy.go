// Package authz resolves a user role into its fixed capability set.
//
// Capability checks are pure functions of the acting role (and, for
// edit-target checks, the target's role). They never return errors; a
// failed check simply returns false and callers translate that into an
// access-denied error.
package authz

import "github.com/tasktrack/tasktrack-api/internal/domain"

// Capabilities is the permission set derived from a role.
type Capabilities struct {
	role domain.Role
}

// ForRole returns the capability set for the given role. Unknown roles
// resolve to the least-privileged set.
func ForRole(role domain.Role) Capabilities {
	if !role.IsValid() {
		role = domain.RoleVisualizacao
	}
	return Capabilities{role: role}
}

// Role returns the role the capability set was derived from.
func (c Capabilities) Role() domain.Role {
	return c.role
}

// CanListUsers reports whether the role may list user accounts at all.
// Gerencial listings are additionally filtered by VisibleRole.
func (c Capabilities) CanListUsers() bool {
	return c.role == domain.RoleAdmin || c.role == domain.RoleGerencial
}

// VisibleRole reports whether a user with the given role appears in
// listings for this role. Admin sees everyone; gerencial sees roles up to
// its own rank. The same predicate backs edit-target checks.
func (c Capabilities) VisibleRole(target domain.Role) bool {
	if c.role == domain.RoleAdmin {
		return true
	}
	return target.AtMost(c.role)
}

// CanCreateUsers reports whether the role may create user accounts.
func (c Capabilities) CanCreateUsers() bool {
	return c.role == domain.RoleAdmin
}

// CanEditUser reports whether the role may edit a user holding targetRole.
// Gerencial may never edit an admin account.
func (c Capabilities) CanEditUser(targetRole domain.Role) bool {
	switch c.role {
	case domain.RoleAdmin:
		return true
	case domain.RoleGerencial:
		return targetRole != domain.RoleAdmin
	default:
		return false
	}
}

// CanAssignRole reports whether the role may set a user's role to newRole.
// Gerencial may never promote anyone to admin.
func (c Capabilities) CanAssignRole(newRole domain.Role) bool {
	switch c.role {
	case domain.RoleAdmin:
		return true
	case domain.RoleGerencial:
		return newRole != domain.RoleAdmin
	default:
		return false
	}
}

// CanDeleteUsers reports whether the role may delete user accounts.
func (c Capabilities) CanDeleteUsers() bool {
	return c.role == domain.RoleAdmin
}

// CanCreateTasks reports whether the role may create tasks.
func (c Capabilities) CanCreateTasks() bool {
	return c.role == domain.RoleAdmin || c.role == domain.RoleGerencial
}

// CanEditTask reports whether the role may mutate tasks at all.
// Visualizacao may only touch the status field; that narrowing is applied
// by the task service, not here.
func (c Capabilities) CanEditTask() bool {
	return c.role.IsValid()
}

// CanEditTaskFields reports whether the role may mutate task fields other
// than status (title, description, owner).
func (c Capabilities) CanEditTaskFields() bool {
	return c.role == domain.RoleAdmin || c.role == domain.RoleGerencial
}

// CanDeleteTasks reports whether the role may delete tasks.
func (c Capabilities) CanDeleteTasks() bool {
	return c.role == domain.RoleAdmin
}

// CanCompleteTask reports whether the role may set a task's status to
// concluida. This is a hard rule independent of the general edit
// capability: visualizacao may edit status but never complete.
func (c Capabilities) CanCompleteTask() bool {
	return c.role == domain.RoleAdmin || c.role == domain.RoleGerencial
}
