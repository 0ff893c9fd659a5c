package project

import (
	"math"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	StatusPlanning  = "planning"
	StatusActive    = "active"
	StatusReview    = "review"
	StatusCompleted = "completed"
)

const (
	PriorityLow    = "low"
	PriorityMedium = "medium"
	PriorityHigh   = "high"
)

// TodoItem is embedded in its parent project; it has no independent identity
// in the store. CompletedAt is set iff Completed is true.
type TodoItem struct {
	ID          string     `bson:"id" json:"id"`
	Title       string     `bson:"title" json:"title"`
	Description string     `bson:"description,omitempty" json:"description,omitempty"`
	Completed   bool       `bson:"completed" json:"completed"`
	DueDate     time.Time  `bson:"due_date,omitempty" json:"due_date,omitempty"`
	AssignedTo  string     `bson:"assigned_to" json:"assigned_to"`
	Priority    string     `bson:"priority" json:"priority"`
	CreatedAt   time.Time  `bson:"created_at" json:"created_at"`
	CompletedAt *time.Time `bson:"completed_at,omitempty" json:"completed_at,omitempty"`
}

// Project embeds its task list. Progress is derived from the list and must
// be recomputed on every path that changes it.
type Project struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Title        string             `bson:"title" json:"title"`
	Description  string             `bson:"description" json:"description"`
	Type         string             `bson:"type" json:"type"`
	Status       string             `bson:"status" json:"status"`
	Priority     string             `bson:"priority" json:"priority"`
	Progress     int                `bson:"progress" json:"progress"`
	StudentID    string             `bson:"student_id" json:"student_id"`
	SupervisorID string             `bson:"supervisor_id" json:"supervisor_id"`
	Students     []string           `bson:"students,omitempty" json:"students,omitempty"`
	TodoList     []TodoItem         `bson:"todo_list" json:"todo_list"`
	Tags         []string           `bson:"tags,omitempty" json:"tags,omitempty"`
	DueDate      time.Time          `bson:"due_date" json:"due_date"`
	ReminderSent bool               `bson:"reminder_sent" json:"-"`
	CreatedAt    time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt    time.Time          `bson:"updated_at" json:"updated_at"`
}

// ComputeProgress derives the completion percentage from a task list:
// round(100 * completed / total), half-up, and 0 for an empty list.
func ComputeProgress(list []TodoItem) int {
	if len(list) == 0 {
		return 0
	}
	completed := 0
	for _, t := range list {
		if t.Completed {
			completed++
		}
	}
	return int(math.Round(100 * float64(completed) / float64(len(list))))
}
