package routes

import (
	"context"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/samudaya/community-events-go/config"
	"github.com/samudaya/community-events-go/controllers"
	"github.com/samudaya/community-events-go/middleware"
	"github.com/samudaya/community-events-go/repositories"
	"github.com/samudaya/community-events-go/services"
)

// Repos bundles the per-collection repositories wired at start-up.
type Repos struct {
	Users         repositories.UserRepository
	Events        repositories.EventRepository
	Announcements repositories.AnnouncementRepository
	Threads       repositories.ForumRepository
	Volunteers    repositories.VolunteerRepository
}

// NewRepos constructs the Mongo repositories (and their indexes) for a database.
func NewRepos(ctx context.Context, db *mongo.Database, logger zerolog.Logger) *Repos {
	return &Repos{
		Users:         repositories.NewUserMongoRepository(ctx, &logger, db),
		Events:        repositories.NewEventMongoRepository(db),
		Announcements: repositories.NewAnnouncementMongoRepository(db),
		Threads:       repositories.NewForumMongoRepository(db),
		Volunteers:    repositories.NewVolunteerMongoRepository(ctx, &logger, db),
	}
}

func SetupCORS() gin.HandlerFunc {
	return cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		AllowCredentials: false,
	})
}

func SetupRoutes(r *gin.Engine, repos *Repos, email *services.EmailService, cfg *config.Config, logger zerolog.Logger) {
	authController := controllers.NewAuthController(repos.Users, email, cfg.JWTSecret, logger)
	userController := controllers.NewUserController(repos.Users, logger)
	eventController := controllers.NewEventController(repos.Events, repos.Users, logger)
	announcementController := controllers.NewAnnouncementController(repos.Announcements, logger)
	forumController := controllers.NewForumController(repos.Threads, logger)
	volunteerController := controllers.NewVolunteerController(repos.Volunteers, repos.Users, repos.Events, logger)
	adminController := controllers.NewAdminController(repos.Users, repos.Events, repos.Volunteers, repos.Threads, logger)

	r.GET("/ping", func(c *gin.Context) {
		c.JSON(200, gin.H{"message": "pong"})
	})

	api := r.Group("/api")

	// auth (rate limited against brute force)
	auth := api.Group("/auth")
	auth.Use(middleware.RateLimit(30, 10))
	{
		auth.POST("/register", authController.Register)
		auth.POST("/login", authController.Login)
		auth.POST("/forgot-password", authController.ForgotPassword)
		auth.POST("/reset-password", authController.ResetPassword)
	}

	// users
	users := api.Group("/users")
	{
		users.GET("", userController.ListUsers)
		users.GET("/:id", userController.GetUser)
		users.PUT("/:id", userController.UpdateUser)
	}

	// events
	events := api.Group("/events")
	{
		events.GET("", eventController.ListEvents)
		events.POST("", eventController.CreateEvent)
		events.GET("/user/:id", eventController.ListUserEvents)
		events.GET("/:id", eventController.GetEvent)
		events.PUT("/:id", eventController.UpdateEvent)
		events.DELETE("/:id", eventController.DeleteEvent)
		events.POST("/:id/register", eventController.RegisterForEvent)
		events.POST("/:id/image", eventController.UploadEventImage)
	}

	// announcements
	announcements := api.Group("/announcements")
	{
		announcements.GET("", announcementController.ListAnnouncements)
		announcements.POST("", announcementController.CreateAnnouncement)
		announcements.DELETE("/:id", announcementController.DeleteAnnouncement)
	}

	// forum
	forum := api.Group("/forum/threads")
	{
		forum.GET("", forumController.ListThreads)
		forum.POST("", forumController.CreateThread)
		forum.DELETE("/:id", forumController.DeleteThread)
		forum.PUT("/:id/pin", forumController.PinThread)
	}

	// volunteers
	volunteers := api.Group("/volunteers")
	{
		volunteers.GET("", volunteerController.ListVolunteers)
		volunteers.POST("", volunteerController.RegisterVolunteer)
		volunteers.GET("/user/:id", volunteerController.ListUserHistory)
		volunteers.GET("/event/:id", volunteerController.ListEventVolunteers)
	}

	// admin (requires an admin token)
	admin := api.Group("/admin")
	admin.Use(middleware.AuthMiddleware(cfg.JWTSecret), middleware.AdminOnly())
	{
		admin.GET("/stats", adminController.GetStats)
		admin.GET("/events/pending", adminController.ListPendingEvents)
		admin.PUT("/events/:id/approve", adminController.ApproveEvent)
		admin.PUT("/events/:id/reject", adminController.RejectEvent)
	}
}
