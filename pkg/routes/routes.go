package pkg

import (
	"context"
	"log"

	"UniProjectHub/internal/auth"
	"UniProjectHub/internal/chat"
	"UniProjectHub/internal/config"
	"UniProjectHub/internal/notification"
	"UniProjectHub/internal/project"
	"UniProjectHub/pkg/middleware"

	"github.com/labstack/echo/v4"
	"go.uber.org/fx"
)

var EchoModules = fx.Module("echo",
	fx.Provide(NewEchoServer),
	fx.Provide(config.NewMongoDBConfig),
	fx.Provide(config.NewMongoDBClient),
	fx.Provide(config.NewResendConfig),
	fx.Provide(config.NewEmailService),
	fx.Provide(config.NewFileStorage),
	fx.Provide(auth.NewUserRepository),
	fx.Provide(auth.NewUserService),
	fx.Provide(auth.NewAuthHandler),
	fx.Provide(project.NewProjectRepository),
	fx.Provide(project.NewProjectService),
	fx.Provide(project.NewProjectHandler),
	fx.Provide(project.NewDueProjectSource),
	fx.Provide(chat.NewChatRepository),
	fx.Provide(chat.NewChatService),
	fx.Provide(chat.NewChatHandler),
	fx.Provide(notification.NewNotificationRepository),
	fx.Provide(notification.NewNotificationService),
	fx.Provide(notification.NewNotificationHandler),
	fx.Provide(notification.NewReminderScheduler),
	fx.Invoke(config.EnsureIndexes),
	fx.Invoke(RegisterRoutes),
	fx.Invoke(StartScheduler))

func NewEchoServer(lc fx.Lifecycle) *echo.Echo {
	e := echo.New()
	middleware.SetupMiddleware(e)
	port := ":8080"
	log.Println("Server running on http://localhost" + port[1:])
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				if err := e.Start(port); err != nil {
					log.Fatal("Failed to start the server:", err)
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			log.Println("shutting down the server ...")
			return e.Shutdown(ctx)
		},
	})
	return e
}

func StartScheduler(lc fx.Lifecycle, scheduler *notification.ReminderScheduler) {
	scheduler.StartScheduler(lc)
}

func RegisterRoutes(e *echo.Echo,
	authHandler *auth.AuthHandler,
	projectHandler *project.ProjectHandler,
	chatHandler *chat.ChatHandler,
	notificationHandler *notification.NotificationHandler) {

	e.POST("/register", authHandler.Register)
	e.POST("/login", authHandler.Login)

	protected := e.Group("/api")
	protected.Use(middleware.JWTMiddleware)
	protected.Use(middleware.CasbinMiddleware)

	protected.GET("/profile", authHandler.Profile)

	protected.GET("/users", authHandler.ListUsers)
	protected.GET("/users/:id", authHandler.GetUser)
	protected.PUT("/users/:id", authHandler.UpdateUser)
	protected.DELETE("/users/:id", authHandler.DeleteUser)

	protected.POST("/projects", projectHandler.CreateProject)
	protected.GET("/projects", projectHandler.ListProjects)
	protected.GET("/projects/:id", projectHandler.GetProject)
	protected.PUT("/projects/:id", projectHandler.UpdateProject)
	protected.DELETE("/projects/:id", projectHandler.DeleteProject)
	protected.POST("/projects/:id/tasks", projectHandler.AddTask)
	protected.PUT("/projects/:id/tasks/:taskId", projectHandler.UpdateTask)
	protected.PUT("/projects/:id/tasks/:taskId/completion", projectHandler.SetTaskCompletion)
	protected.DELETE("/projects/:id/tasks/:taskId", projectHandler.DeleteTask)

	protected.POST("/chat/conversations", chatHandler.CreateConversation)
	protected.GET("/chat/conversations", chatHandler.ListConversations)
	protected.GET("/chat/conversations/:id/messages", chatHandler.GetMessages)
	protected.POST("/chat/conversations/:id/messages", chatHandler.SendMessage)
	protected.POST("/chat/conversations/:id/files", chatHandler.SendFile)
	protected.DELETE("/chat/conversations/:id/messages/:messageId", chatHandler.DeleteMessage)
	protected.PUT("/chat/conversations/:id/read", chatHandler.MarkMessagesAsRead)
	protected.POST("/chat/conversations/:id/participants", chatHandler.AddUserToGroup)
	protected.DELETE("/chat/conversations/:id/participants/:userId", chatHandler.RemoveUserFromGroup)
	protected.GET("/chat/conversations/:id/stats", chatHandler.GetConversationStats)
	protected.GET("/chat/conversations/:id/stream", chatHandler.StreamMessages)
	protected.GET("/chat/files/:fileId", chatHandler.DownloadFile)

	protected.GET("/notifications", notificationHandler.ListNotifications)
	protected.GET("/notifications/unread-count", notificationHandler.UnreadCount)
	protected.PUT("/notifications/read-all", notificationHandler.MarkAllRead)
	protected.PUT("/notifications/:id/read", notificationHandler.MarkRead)
	protected.DELETE("/notifications/:id", notificationHandler.DeleteNotification)
}
