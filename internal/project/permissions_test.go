package project

import (
	"testing"

	"UniProjectHub/internal/auth"
)

var allActions = []Action{ActionView, ActionEdit, ActionDelete, ActionManageTodos}

func TestCheckPermissionAdmin(t *testing.T) {
	admin := Actor{ID: "a1", Role: auth.RoleAdmin}
	p := &Project{StudentID: "s1", SupervisorID: "sup1"}

	for _, action := range allActions {
		if !CheckPermission(admin, p, action) {
			t.Errorf("admin should be allowed to %s", action)
		}
	}
}

func TestCheckPermissionSupervisor(t *testing.T) {
	owner := Actor{ID: "sup1", Role: auth.RoleSupervisor}
	other := Actor{ID: "sup2", Role: auth.RoleSupervisor}
	p := &Project{StudentID: "s1", SupervisorID: "sup1"}

	tests := []struct {
		name   string
		actor  Actor
		action Action
		want   bool
	}{
		{"owner view", owner, ActionView, true},
		{"owner edit", owner, ActionEdit, true},
		{"owner manage todos", owner, ActionManageTodos, true},
		{"owner delete", owner, ActionDelete, false},
		{"other supervisor view", other, ActionView, false},
		{"other supervisor edit", other, ActionEdit, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CheckPermission(tt.actor, p, tt.action); got != tt.want {
				t.Errorf("CheckPermission(%s, %s) = %v, want %v", tt.actor.ID, tt.action, got, tt.want)
			}
		})
	}
}

func TestCheckPermissionStudent(t *testing.T) {
	owner := Actor{ID: "s1", Role: auth.RoleStudent}
	other := Actor{ID: "s2", Role: auth.RoleStudent}
	p := &Project{StudentID: "s1", SupervisorID: "sup1"}

	tests := []struct {
		name   string
		actor  Actor
		action Action
		want   bool
	}{
		{"owner view", owner, ActionView, true},
		{"owner manage todos", owner, ActionManageTodos, true},
		{"owner edit", owner, ActionEdit, false},
		{"owner delete", owner, ActionDelete, false},
		{"other student view", other, ActionView, false},
		{"other student manage todos", other, ActionManageTodos, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CheckPermission(tt.actor, p, tt.action); got != tt.want {
				t.Errorf("CheckPermission(%s, %s) = %v, want %v", tt.actor.ID, tt.action, got, tt.want)
			}
		})
	}
}

func TestCheckPermissionUnknownRole(t *testing.T) {
	stranger := Actor{ID: "x", Role: "guest"}
	p := &Project{StudentID: "x", SupervisorID: "x"}

	for _, action := range allActions {
		if CheckPermission(stranger, p, action) {
			t.Errorf("unknown role should not be allowed to %s", action)
		}
	}
}
