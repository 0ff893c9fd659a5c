package project

import (
	"context"
	"time"

	"UniProjectHub/internal/apperr"
	"UniProjectHub/internal/notification"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// ProjectRepository handles DB operations for projects. Task mutations go
// through a whole-document rewrite of the embedded todo list; concurrent
// writers are last-write-wins at the project level.
type ProjectRepository struct {
	collection *mongo.Collection
}

func NewProjectRepository(db *mongo.Database) *ProjectRepository {
	return &ProjectRepository{collection: db.Collection("projects")}
}

func (r *ProjectRepository) CreateProject(ctx context.Context, p *Project) error {
	_, err := r.collection.InsertOne(ctx, p)
	if err != nil {
		return apperr.Store("create project", err)
	}
	return nil
}

func (r *ProjectRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*Project, error) {
	var p Project
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&p)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, apperr.Store("find project", err)
	}
	return &p, nil
}

func (r *ProjectRepository) FindAll(ctx context.Context) ([]*Project, error) {
	return r.find(ctx, bson.M{})
}

func (r *ProjectRepository) FindBySupervisor(ctx context.Context, supervisorID string) ([]*Project, error) {
	return r.find(ctx, bson.M{"supervisor_id": supervisorID})
}

// FindByStudent matches both the primary owner and co-assigned students.
func (r *ProjectRepository) FindByStudent(ctx context.Context, studentID string) ([]*Project, error) {
	filter := bson.M{"$or": []bson.M{
		{"student_id": studentID},
		{"students": studentID},
	}}
	return r.find(ctx, filter)
}

func (r *ProjectRepository) find(ctx context.Context, filter bson.M) ([]*Project, error) {
	cursor, err := r.collection.Find(ctx, filter)
	if err != nil {
		return nil, apperr.Store("list projects", err)
	}
	var projects []*Project
	if err := cursor.All(ctx, &projects); err != nil {
		return nil, apperr.Store("decode projects", err)
	}
	return projects, nil
}

func (r *ProjectRepository) UpdateProject(ctx context.Context, p *Project) error {
	res, err := r.collection.UpdateOne(ctx, bson.M{"_id": p.ID}, bson.M{"$set": p})
	if err != nil {
		return apperr.Store("update project", err)
	}
	if res.MatchedCount == 0 {
		return apperr.NotFound("project not found")
	}
	return nil
}

// DeleteProject removes the document only. Conversations and notifications
// that reference the project keep their dangling references.
func (r *ProjectRepository) DeleteProject(ctx context.Context, id primitive.ObjectID) error {
	res, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return apperr.Store("delete project", err)
	}
	if res.DeletedCount == 0 {
		return apperr.NotFound("project not found")
	}
	return nil
}

// FindDueSoon returns projects due within the window that are not completed
// and have not been reminded yet. Implements notification.DueProjectSource.
func (r *ProjectRepository) FindDueSoon(ctx context.Context, window time.Duration) ([]notification.DueProject, error) {
	now := time.Now()
	filter := bson.M{
		"due_date":      bson.M{"$gte": now, "$lte": now.Add(window)},
		"status":        bson.M{"$ne": StatusCompleted},
		"reminder_sent": bson.M{"$ne": true},
	}
	projects, err := r.find(ctx, filter)
	if err != nil {
		return nil, err
	}

	due := make([]notification.DueProject, 0, len(projects))
	for _, p := range projects {
		owners := []string{p.StudentID}
		for _, s := range p.Students {
			if s != p.StudentID {
				owners = append(owners, s)
			}
		}
		due = append(due, notification.DueProject{
			ID:       p.ID.Hex(),
			Title:    p.Title,
			DueDate:  p.DueDate,
			OwnerIDs: owners,
		})
	}
	return due, nil
}

// MarkReminderSent implements notification.DueProjectSource.
func (r *ProjectRepository) MarkReminderSent(ctx context.Context, projectID string) error {
	id, err := primitive.ObjectIDFromHex(projectID)
	if err != nil {
		return apperr.Validation("invalid project ID")
	}
	_, err = r.collection.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{"reminder_sent": true}})
	if err != nil {
		return apperr.Store("mark reminder sent", err)
	}
	return nil
}

// NewDueProjectSource exposes the repository to the reminder scheduler.
func NewDueProjectSource(r *ProjectRepository) notification.DueProjectSource {
	return r
}
