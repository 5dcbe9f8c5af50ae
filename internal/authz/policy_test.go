package authz

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/tasktrack/tasktrack-api/internal/domain"
)

func TestCapabilitiesByRole(t *testing.T) {
	t.Parallel()

	tests := []struct {
		role              domain.Role
		canListUsers      bool
		canCreateUsers    bool
		canDeleteUsers    bool
		canCreateTasks    bool
		canEditTask       bool
		canEditTaskFields bool
		canDeleteTasks    bool
		canCompleteTask   bool
	}{
		{
			role:              domain.RoleAdmin,
			canListUsers:      true,
			canCreateUsers:    true,
			canDeleteUsers:    true,
			canCreateTasks:    true,
			canEditTask:       true,
			canEditTaskFields: true,
			canDeleteTasks:    true,
			canCompleteTask:   true,
		},
		{
			role:              domain.RoleGerencial,
			canListUsers:      true,
			canCreateUsers:    false,
			canDeleteUsers:    false,
			canCreateTasks:    true,
			canEditTask:       true,
			canEditTaskFields: true,
			canDeleteTasks:    false,
			canCompleteTask:   true,
		},
		{
			role:              domain.RoleVisualizacao,
			canListUsers:      false,
			canCreateUsers:    false,
			canDeleteUsers:    false,
			canCreateTasks:    false,
			canEditTask:       true,
			canEditTaskFields: false,
			canDeleteTasks:    false,
			canCompleteTask:   false,
		},
	}

	for _, tt := range tests {
		t.Run(string(tt.role), func(t *testing.T) {
			t.Parallel()
			caps := ForRole(tt.role)

			assert.Equal(t, tt.canListUsers, caps.CanListUsers())
			assert.Equal(t, tt.canCreateUsers, caps.CanCreateUsers())
			assert.Equal(t, tt.canDeleteUsers, caps.CanDeleteUsers())
			assert.Equal(t, tt.canCreateTasks, caps.CanCreateTasks())
			assert.Equal(t, tt.canEditTask, caps.CanEditTask())
			assert.Equal(t, tt.canEditTaskFields, caps.CanEditTaskFields())
			assert.Equal(t, tt.canDeleteTasks, caps.CanDeleteTasks())
			assert.Equal(t, tt.canCompleteTask, caps.CanCompleteTask())
		})
	}
}

func TestForRole_UnknownRole(t *testing.T) {
	t.Parallel()

	// Unknown roles resolve to the least-privileged set.
	caps := ForRole(domain.Role("superuser"))
	assert.Equal(t, domain.RoleVisualizacao, caps.Role())
	assert.False(t, caps.CanCreateUsers())
	assert.False(t, caps.CanCompleteTask())
}

func TestVisibleRole(t *testing.T) {
	t.Parallel()

	admin := ForRole(domain.RoleAdmin)
	assert.True(t, admin.VisibleRole(domain.RoleAdmin))
	assert.True(t, admin.VisibleRole(domain.RoleGerencial))
	assert.True(t, admin.VisibleRole(domain.RoleVisualizacao))

	gerencial := ForRole(domain.RoleGerencial)
	assert.False(t, gerencial.VisibleRole(domain.RoleAdmin))
	assert.True(t, gerencial.VisibleRole(domain.RoleGerencial))
	assert.True(t, gerencial.VisibleRole(domain.RoleVisualizacao))
}

func TestEditUserRules(t *testing.T) {
	t.Parallel()

	admin := ForRole(domain.RoleAdmin)
	gerencial := ForRole(domain.RoleGerencial)
	visualizacao := ForRole(domain.RoleVisualizacao)

	// Admin edits anyone and assigns any role.
	assert.True(t, admin.CanEditUser(domain.RoleAdmin))
	assert.True(t, admin.CanAssignRole(domain.RoleAdmin))

	// Gerencial never touches admin accounts or mints admins.
	assert.False(t, gerencial.CanEditUser(domain.RoleAdmin))
	assert.True(t, gerencial.CanEditUser(domain.RoleGerencial))
	assert.True(t, gerencial.CanEditUser(domain.RoleVisualizacao))
	assert.False(t, gerencial.CanAssignRole(domain.RoleAdmin))
	assert.True(t, gerencial.CanAssignRole(domain.RoleGerencial))

	// Visualizacao edits nobody.
	assert.False(t, visualizacao.CanEditUser(domain.RoleVisualizacao))
	assert.False(t, visualizacao.CanAssignRole(domain.RoleVisualizacao))
}
