package notification

import (
	"context"
	"fmt"
	"log"
	"time"

	"UniProjectHub/internal/auth"
	"UniProjectHub/internal/config"

	"go.uber.org/fx"
)

// DueProject is the slice of a project the reminder scheduler needs.
type DueProject struct {
	ID       string
	Title    string
	DueDate  time.Time
	OwnerIDs []string
}

// DueProjectSource is implemented by the project repository.
type DueProjectSource interface {
	FindDueSoon(ctx context.Context, window time.Duration) ([]DueProject, error)
	MarkReminderSent(ctx context.Context, projectID string) error
}

// ReminderScheduler periodically emits reminder notifications for projects
// approaching their due date, plus a best-effort email per owner.
type ReminderScheduler struct {
	service  *NotificationService
	projects DueProjectSource
	users    *auth.UserRepository
	email    *config.EmailService
}

func NewReminderScheduler(service *NotificationService, projects DueProjectSource, users *auth.UserRepository, email *config.EmailService) *ReminderScheduler {
	return &ReminderScheduler{service: service, projects: projects, users: users, email: email}
}

// StartScheduler starts the background goroutine that checks for due
// projects once an hour.
func (s *ReminderScheduler) StartScheduler(lc fx.Lifecycle) {
	ticker := time.NewTicker(time.Hour)
	done := make(chan bool)

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			log.Println("Starting reminder scheduler (checking every hour)...")
			go func() {
				schedulerCtx := context.Background()
				for {
					select {
					case <-ticker.C:
						s.SendDueReminders(schedulerCtx)
					case <-done:
						return
					}
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			log.Println("Stopping reminder scheduler...")
			ticker.Stop()
			done <- true
			return nil
		},
	})
}

// SendDueReminders notifies the owners of every project due within 24 hours
// that has not been reminded yet.
func (s *ReminderScheduler) SendDueReminders(ctx context.Context) {
	projects, err := s.projects.FindDueSoon(ctx, 24*time.Hour)
	if err != nil {
		log.Println("Failed to fetch due projects:", err)
		return
	}
	for _, p := range projects {
		for _, ownerID := range p.OwnerIDs {
			n := &Notification{
				RecipientID: ownerID,
				Title:       "Project due soon",
				Message:     fmt.Sprintf("%q is due on %s", p.Title, p.DueDate.Format("Jan 2, 2006 15:04")),
				Type:        TypeWarning,
				Category:    CategoryReminder,
				ActionURL:   "/projects/" + p.ID,
			}
			if err := s.service.Notify(ctx, n); err != nil {
				log.Printf("Failed to create reminder for %s: %v", ownerID, err)
				continue
			}
			s.emailOwner(ctx, ownerID, n)
		}
		if err := s.projects.MarkReminderSent(ctx, p.ID); err != nil {
			log.Printf("Failed to mark reminder sent for project %s: %v", p.ID, err)
		}
	}
}

func (s *ReminderScheduler) emailOwner(ctx context.Context, ownerID string, n *Notification) {
	user, err := s.users.FindByHexID(ctx, ownerID)
	if err != nil || user == nil {
		log.Printf("Skipping reminder email, owner %s not found", ownerID)
		return
	}
	if err := s.email.SendEmail(user.Email, n.Title, n.Message); err != nil {
		log.Printf("Failed to send reminder email to %s: %v", user.Email, err)
	}
}
