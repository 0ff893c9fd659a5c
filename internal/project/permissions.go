package project

import "UniProjectHub/internal/auth"

type Action string

const (
	ActionView        Action = "view"
	ActionEdit        Action = "edit"
	ActionDelete      Action = "delete"
	ActionManageTodos Action = "manage_todos"
)

// Actor identifies the authenticated user performing an operation.
type Actor struct {
	ID   string
	Role string
}

// CheckPermission is the single permission matrix for project operations.
// Admins may do anything; a supervisor may view, edit and manage tasks on
// projects they supervise; a student may view and manage tasks on their own
// project. Task-level assignment restrictions for students are enforced by
// the task operations, not here.
func CheckPermission(user Actor, p *Project, action Action) bool {
	switch user.Role {
	case auth.RoleAdmin:
		return true
	case auth.RoleSupervisor:
		if p.SupervisorID != user.ID {
			return false
		}
		return action == ActionView || action == ActionEdit || action == ActionManageTodos
	case auth.RoleStudent:
		if p.StudentID != user.ID {
			return false
		}
		return action == ActionView || action == ActionManageTodos
	default:
		return false
	}
}
