package project

import (
	"context"
	"log"
	"sort"
	"time"

	"UniProjectHub/internal/apperr"
	"UniProjectHub/internal/auth"
	"UniProjectHub/internal/notification"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ProjectService owns project documents and their embedded task lists.
type ProjectService struct {
	repo          *ProjectRepository
	notifications *notification.NotificationService
}

func NewProjectService(repo *ProjectRepository, notifications *notification.NotificationService) *ProjectService {
	return &ProjectService{repo: repo, notifications: notifications}
}

type CreateProjectRequest struct {
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Type        string    `json:"type"`
	Priority    string    `json:"priority"`
	StudentID   string    `json:"student_id"`
	Students    []string  `json:"students"`
	Tags        []string  `json:"tags"`
	DueDate     time.Time `json:"due_date"`
}

type UpdateProjectRequest struct {
	Title       *string     `json:"title,omitempty"`
	Description *string     `json:"description,omitempty"`
	Type        *string     `json:"type,omitempty"`
	Status      *string     `json:"status,omitempty"`
	Priority    *string     `json:"priority,omitempty"`
	Students    []string    `json:"students,omitempty"`
	TodoList    []TodoItem  `json:"todo_list,omitempty"`
	Tags        []string    `json:"tags,omitempty"`
	DueDate     *time.Time  `json:"due_date,omitempty"`
}

type TaskRequest struct {
	Title       string    `json:"title"`
	Description string    `json:"description"`
	DueDate     time.Time `json:"due_date"`
	AssignedTo  string    `json:"assigned_to"`
	Priority    string    `json:"priority"`
}

// CreateProject creates a project owned by a supervisor and assigned to at
// least one student. Only supervisors and admins may create projects.
func (s *ProjectService) CreateProject(ctx context.Context, actor Actor, req CreateProjectRequest) (*Project, error) {
	if actor.Role != auth.RoleSupervisor && actor.Role != auth.RoleAdmin {
		return nil, apperr.Validation("only supervisors and admins can create projects")
	}
	if req.Title == "" || req.Description == "" || req.Type == "" {
		return nil, apperr.Validation("title, description and type are required")
	}
	if req.DueDate.IsZero() {
		return nil, apperr.Validation("due date is required")
	}
	if req.StudentID == "" {
		return nil, apperr.Validation("at least one assigned student is required")
	}
	if req.Priority == "" {
		req.Priority = PriorityMedium
	}

	now := time.Now()
	p := &Project{
		ID:           primitive.NewObjectID(),
		Title:        req.Title,
		Description:  req.Description,
		Type:         req.Type,
		Status:       StatusPlanning,
		Priority:     req.Priority,
		Progress:     0,
		StudentID:    req.StudentID,
		SupervisorID: actor.ID,
		Students:     req.Students,
		TodoList:     []TodoItem{},
		Tags:         req.Tags,
		DueDate:      req.DueDate,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.repo.CreateProject(ctx, p); err != nil {
		return nil, err
	}

	s.notifyAssigned(ctx, p)
	return p, nil
}

// notifyAssigned fans out a project-created notification to every assigned
// student. Failures are logged and never fail the creating operation.
func (s *ProjectService) notifyAssigned(ctx context.Context, p *Project) {
	recipients := map[string]bool{p.StudentID: true}
	for _, id := range p.Students {
		recipients[id] = true
	}
	for id := range recipients {
		err := s.notifications.Notify(ctx, &notification.Notification{
			RecipientID: id,
			Title:       "New project assigned",
			Message:     "You have been assigned to " + p.Title,
			Type:        notification.TypeInfo,
			Category:    notification.CategoryProject,
			ActionURL:   "/projects/" + p.ID.Hex(),
			SenderID:    p.SupervisorID,
		})
		if err != nil {
			log.Printf("Failed to notify %s about project %s: %v", id, p.ID.Hex(), err)
		}
	}
}

func (s *ProjectService) getForAction(ctx context.Context, actor Actor, id primitive.ObjectID, action Action) (*Project, error) {
	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, apperr.NotFound("project not found")
	}
	if !CheckPermission(actor, p, action) {
		return nil, apperr.Permission("you are not allowed to %s this project", string(action))
	}
	return p, nil
}

func (s *ProjectService) GetProject(ctx context.Context, actor Actor, id primitive.ObjectID) (*Project, error) {
	return s.getForAction(ctx, actor, id, ActionView)
}

// ListProjects returns the projects visible to the actor, most urgent due
// date first. Ordering is always applied here, never by the store.
func (s *ProjectService) ListProjects(ctx context.Context, actor Actor) ([]*Project, error) {
	var projects []*Project
	var err error
	switch actor.Role {
	case auth.RoleAdmin:
		projects, err = s.repo.FindAll(ctx)
	case auth.RoleSupervisor:
		projects, err = s.repo.FindBySupervisor(ctx, actor.ID)
	case auth.RoleStudent:
		projects, err = s.repo.FindByStudent(ctx, actor.ID)
	default:
		return nil, apperr.Permission("unknown role")
	}
	if err != nil {
		return nil, err
	}
	sort.Slice(projects, func(i, j int) bool {
		return projects[i].DueDate.Before(projects[j].DueDate)
	})
	return projects, nil
}

// UpdateProject merges the patch into the project. Replacing the todo list
// recomputes progress before persisting; a patch without a todo list leaves
// progress untouched.
func (s *ProjectService) UpdateProject(ctx context.Context, actor Actor, id primitive.ObjectID, req UpdateProjectRequest) (*Project, error) {
	p, err := s.getForAction(ctx, actor, id, ActionEdit)
	if err != nil {
		return nil, err
	}

	if req.Title != nil {
		p.Title = *req.Title
	}
	if req.Description != nil {
		p.Description = *req.Description
	}
	if req.Type != nil {
		p.Type = *req.Type
	}
	if req.Status != nil {
		p.Status = *req.Status
	}
	if req.Priority != nil {
		p.Priority = *req.Priority
	}
	if req.Students != nil {
		p.Students = req.Students
	}
	if req.Tags != nil {
		p.Tags = req.Tags
	}
	if req.DueDate != nil {
		p.DueDate = *req.DueDate
	}
	if req.TodoList != nil {
		p.TodoList = req.TodoList
		p.Progress = ComputeProgress(p.TodoList)
	}
	p.UpdatedAt = time.Now()

	if err := s.repo.UpdateProject(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *ProjectService) DeleteProject(ctx context.Context, actor Actor, id primitive.ObjectID) error {
	if _, err := s.getForAction(ctx, actor, id, ActionDelete); err != nil {
		return err
	}
	return s.repo.DeleteProject(ctx, id)
}

// SetTaskCompletion toggles a task and persists the whole project. Two
// clients racing on the same project lose one writer's change; that is the
// accepted consistency model of the embedded list.
func (s *ProjectService) SetTaskCompletion(ctx context.Context, actor Actor, projectID primitive.ObjectID, taskID string, completed bool) (*Project, error) {
	p, err := s.getForAction(ctx, actor, projectID, ActionManageTodos)
	if err != nil {
		return nil, err
	}
	task := findTask(p, taskID)
	if task == nil {
		return nil, apperr.NotFound("task not found")
	}
	if err := s.checkTaskAssignment(actor, task.AssignedTo); err != nil {
		return nil, err
	}

	applyCompletion(task, completed, time.Now())
	p.Progress = ComputeProgress(p.TodoList)
	p.UpdatedAt = time.Now()

	if err := s.repo.UpdateProject(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

// AddTask appends a task with a fresh id and persists the whole project.
func (s *ProjectService) AddTask(ctx context.Context, actor Actor, projectID primitive.ObjectID, req TaskRequest) (*Project, error) {
	p, err := s.getForAction(ctx, actor, projectID, ActionManageTodos)
	if err != nil {
		return nil, err
	}
	if req.Title == "" {
		return nil, apperr.Validation("task title is required")
	}
	if req.AssignedTo == "" {
		req.AssignedTo = actor.ID
	}
	if err := s.checkTaskAssignment(actor, req.AssignedTo); err != nil {
		return nil, err
	}
	if req.Priority == "" {
		req.Priority = PriorityMedium
	}

	task := TodoItem{
		ID:          uuid.NewString(),
		Title:       req.Title,
		Description: req.Description,
		Completed:   false,
		DueDate:     req.DueDate,
		AssignedTo:  req.AssignedTo,
		Priority:    req.Priority,
		CreatedAt:   time.Now(),
	}
	p.TodoList = append(p.TodoList, task)
	p.Progress = ComputeProgress(p.TodoList)
	p.UpdatedAt = time.Now()

	if err := s.repo.UpdateProject(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

// UpdateTask edits a task's metadata in place. Completion state is not
// touched here; SetTaskCompletion owns that transition.
func (s *ProjectService) UpdateTask(ctx context.Context, actor Actor, projectID primitive.ObjectID, taskID string, req TaskRequest) (*Project, error) {
	p, err := s.getForAction(ctx, actor, projectID, ActionManageTodos)
	if err != nil {
		return nil, err
	}
	task := findTask(p, taskID)
	if task == nil {
		return nil, apperr.NotFound("task not found")
	}
	if err := s.checkTaskAssignment(actor, task.AssignedTo); err != nil {
		return nil, err
	}

	if req.Title != "" {
		task.Title = req.Title
	}
	if req.Description != "" {
		task.Description = req.Description
	}
	if !req.DueDate.IsZero() {
		task.DueDate = req.DueDate
	}
	if req.Priority != "" {
		task.Priority = req.Priority
	}
	if req.AssignedTo != "" {
		if err := s.checkTaskAssignment(actor, req.AssignedTo); err != nil {
			return nil, err
		}
		task.AssignedTo = req.AssignedTo
	}
	p.UpdatedAt = time.Now()

	if err := s.repo.UpdateProject(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *ProjectService) DeleteTask(ctx context.Context, actor Actor, projectID primitive.ObjectID, taskID string) (*Project, error) {
	p, err := s.getForAction(ctx, actor, projectID, ActionManageTodos)
	if err != nil {
		return nil, err
	}
	task := findTask(p, taskID)
	if task == nil {
		return nil, apperr.NotFound("task not found")
	}
	if err := s.checkTaskAssignment(actor, task.AssignedTo); err != nil {
		return nil, err
	}

	kept := make([]TodoItem, 0, len(p.TodoList)-1)
	for _, t := range p.TodoList {
		if t.ID != taskID {
			kept = append(kept, t)
		}
	}
	p.TodoList = kept
	p.Progress = ComputeProgress(p.TodoList)
	p.UpdatedAt = time.Now()

	if err := s.repo.UpdateProject(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

// checkTaskAssignment restricts students to tasks assigned to themselves.
// Supervisors and admins may touch any task on a project they can manage.
func (s *ProjectService) checkTaskAssignment(actor Actor, assignedTo string) error {
	if actor.Role == auth.RoleStudent && assignedTo != actor.ID {
		return apperr.Permission("students can only manage tasks assigned to themselves")
	}
	return nil
}

func findTask(p *Project, taskID string) *TodoItem {
	for i := range p.TodoList {
		if p.TodoList[i].ID == taskID {
			return &p.TodoList[i]
		}
	}
	return nil
}

// applyCompletion keeps the completed flag and completed_at in lockstep:
// completed_at is set iff the task is completed.
func applyCompletion(task *TodoItem, completed bool, now time.Time) {
	task.Completed = completed
	if completed {
		task.CompletedAt = &now
	} else {
		task.CompletedAt = nil
	}
}
