package auth

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	RoleStudent    = "student"
	RoleSupervisor = "supervisor"
	RoleAdmin      = "admin"
)

// ValidRole reports whether role is one of the three known roles.
func ValidRole(role string) bool {
	return role == RoleStudent || role == RoleSupervisor || role == RoleAdmin
}

// User is a directory record. Role is immutable after registration.
type User struct {
	ID             primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name           string             `bson:"name" json:"name"`
	Email          string             `bson:"email" json:"email"`
	PasswordHash   string             `bson:"password_hash" json:"-"`
	Role           string             `bson:"role" json:"role"`
	Department     string             `bson:"department" json:"department"`
	Specialization string             `bson:"specialization,omitempty" json:"specialization,omitempty"`
	Avatar         string             `bson:"avatar,omitempty" json:"avatar,omitempty"`
	Phone          string             `bson:"phone,omitempty" json:"phone,omitempty"`
	StudentID      string             `bson:"student_id,omitempty" json:"student_id,omitempty"`
	SupervisorID   string             `bson:"supervisor_id,omitempty" json:"supervisor_id,omitempty"`
	CreatedAt      time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt      time.Time          `bson:"updated_at" json:"updated_at"`
}

type RegisterRequest struct {
	Name           string `json:"name"`
	Email          string `json:"email"`
	Password       string `json:"password"`
	Role           string `json:"role"`
	Department     string `json:"department"`
	Specialization string `json:"specialization"`
	Phone          string `json:"phone"`
	StudentID      string `json:"student_id"`
	SupervisorID   string `json:"supervisor_id"`
}

type Credential struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// UpdateUserRequest carries the fields an admin may edit. Role is absent on
// purpose: it never changes after registration.
type UpdateUserRequest struct {
	Name           *string `json:"name,omitempty"`
	Department     *string `json:"department,omitempty"`
	Specialization *string `json:"specialization,omitempty"`
	Avatar         *string `json:"avatar,omitempty"`
	Phone          *string `json:"phone,omitempty"`
	SupervisorID   *string `json:"supervisor_id,omitempty"`
}
