// Package router assembles the HTTP surface of the API.
package router

import (
	"net/http"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/yukikurage/project-management-api/internal/auth"
	"github.com/yukikurage/project-management-api/internal/constants"
	"github.com/yukikurage/project-management-api/internal/handlers"
	"github.com/yukikurage/project-management-api/internal/logging"
	"github.com/yukikurage/project-management-api/internal/metrics"
	"github.com/yukikurage/project-management-api/internal/middleware"
	"github.com/yukikurage/project-management-api/internal/repository"
	"github.com/yukikurage/project-management-api/internal/services"
	"github.com/yukikurage/project-management-api/internal/storage"
	"gorm.io/gorm"
)

// Deps are the collaborators the router wires into handlers.
type Deps struct {
	DB           *gorm.DB
	Log          logrus.FieldLogger
	Metrics      *metrics.Metrics
	SessionStore sessions.Store
	Limiter      middleware.Limiter
	Verifier     auth.Verifier
	Issuer       *auth.Issuer
	Generator    services.TaskGenerator
	Store        *storage.LocalStore
	MaxUpload    int64
}

// New builds the gin engine with every route mounted at the root.
func New(d Deps) *gin.Engine {
	userRepo := repository.NewUserRepository(d.DB)
	teamRepo := repository.NewTeamRepository(d.DB)
	projectRepo := repository.NewProjectRepository(d.DB)
	taskRepo := repository.NewTaskRepository(d.DB)
	commentRepo := repository.NewCommentRepository(d.DB)
	attachmentRepo := repository.NewAttachmentRepository(d.DB)

	identityService := services.NewIdentityService(userRepo, d.Log, d.Metrics)
	authService := services.NewAuthService(userRepo, d.Issuer, d.Log)
	taskService := services.NewTaskService(taskRepo, projectRepo, attachmentRepo, d.Generator, d.Log, d.Metrics)
	commentService := services.NewCommentService(commentRepo)

	authHandler := handlers.NewAuthHandler(authService, d.Log)
	taskHandler := handlers.NewTaskHandler(taskService, commentService, d.Log)
	teamHandler := handlers.NewTeamHandler(services.NewTeamService(teamRepo, userRepo), d.Log)
	projectHandler := handlers.NewProjectHandler(services.NewProjectService(projectRepo), d.Log)
	userHandler := handlers.NewUserHandler(services.NewUserService(userRepo), d.Log)
	searchHandler := handlers.NewSearchHandler(services.NewSearchService(taskRepo, projectRepo, userRepo), d.Log)
	// A nil *LocalStore must stay a nil interface
	var objectStore storage.ObjectStore
	if d.Store != nil {
		objectStore = d.Store
	}
	uploadHandler := handlers.NewUploadHandler(services.NewUploadService(objectStore, d.MaxUpload, d.Log), d.MaxUpload, d.Log)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(logging.Middleware(d.Log))
	r.Use(d.Metrics.Middleware())
	if d.Limiter != nil {
		r.Use(middleware.RateLimit(d.Limiter, d.Log))
	}
	r.Use(sessions.Sessions(constants.SessionCookieName, d.SessionStore))

	// Health check endpoint
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"message": "Project Management API is running",
		})
	})
	r.GET("/metrics", gin.WrapH(d.Metrics.Handler()))
	if d.Store != nil {
		r.Static("/files", d.Store.Dir())
	}

	requireAuth := middleware.RequireAuth(d.Verifier, identityService, d.Log)

	// Auth routes (public)
	authGroup := r.Group("/auth")
	{
		authGroup.POST("/register", authHandler.Register)
		authGroup.POST("/login", authHandler.Login)
		authGroup.POST("/logout", authHandler.Logout)
		authGroup.GET("/me", requireAuth, authHandler.GetCurrentUser)
	}

	protected := r.Group("")
	protected.Use(requireAuth)

	tasks := protected.Group("/tasks")
	{
		tasks.GET("", taskHandler.ListTasks)
		tasks.POST("", taskHandler.CreateTask)
		tasks.POST("/generate", taskHandler.GenerateTasks)
		tasks.POST("/comments", taskHandler.CreateComment)
		tasks.GET("/user/:userId", middleware.RequireIDParam("userId", "user"), taskHandler.ListUserTasks)
		tasks.GET("/:id", middleware.RequireIDParam("id", "task"), taskHandler.GetTask)
		tasks.PATCH("/:id", middleware.RequireIDParam("id", "task"), taskHandler.UpdateTask)
		tasks.PATCH("/:id/status", middleware.RequireIDParam("id", "task"), taskHandler.UpdateTaskStatus)
		tasks.DELETE("/:id", middleware.RequireIDParam("id", "task"), taskHandler.DeleteTask)
		tasks.GET("/:id/comments", middleware.RequireIDParam("id", "task"), taskHandler.ListComments)
		tasks.GET("/:id/attachments", middleware.RequireIDParam("id", "task"), taskHandler.ListAttachments)
		tasks.POST("/:id/attachments", middleware.RequireIDParam("id", "task"), taskHandler.AddAttachment)
	}

	projects := protected.Group("/projects")
	{
		projects.GET("", projectHandler.ListProjects)
		projects.POST("", projectHandler.CreateProject)
		projects.GET("/:id", middleware.RequireIDParam("id", "project"), projectHandler.GetProject)
	}

	teams := protected.Group("/teams")
	{
		teams.GET("", teamHandler.ListTeams)
		teams.POST("", teamHandler.CreateTeam)
	}

	users := protected.Group("/users")
	{
		users.GET("", userHandler.ListUsers)
		users.GET("/:id", middleware.RequireIDParam("id", "user"), userHandler.GetUser)
		users.PATCH("/:id", userHandler.UpdateUser)
	}

	protected.GET("/search", searchHandler.Search)
	protected.POST("/upload", uploadHandler.Upload)

	return r
}
