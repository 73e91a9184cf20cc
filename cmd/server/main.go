package main

import (
	"log"

	"github.com/gin-contrib/sessions"
	redisStore "github.com/gin-contrib/sessions/redis"
	"github.com/gin-gonic/gin"
	"github.com/planflow/planboard-api/internal/config"
	"github.com/planflow/planboard-api/internal/constants"
	"github.com/planflow/planboard-api/internal/database"
	"github.com/planflow/planboard-api/internal/handlers"
	"github.com/planflow/planboard-api/internal/live"
	"github.com/planflow/planboard-api/internal/middleware"
	"github.com/planflow/planboard-api/internal/services"
	"github.com/planflow/planboard-api/internal/store"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Set Gin mode
	gin.SetMode(cfg.GinMode)

	// Connect to database
	if err := database.Connect(cfg); err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	// Run migrations
	if err := database.Migrate(); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}
	if err := database.AddIndexes(database.GetDB()); err != nil {
		log.Fatalf("Failed to add indexes: %v", err)
	}

	// Document store and live sync
	docStore := store.NewGormStore(database.GetDB())
	controller := live.NewController(docStore)
	if err := controller.Start(); err != nil {
		log.Fatalf("Failed to start live sync: %v", err)
	}
	defer controller.Close()

	// Initialize Gin router
	r := gin.Default()

	// Setup session middleware with Redis
	redisAddr := cfg.RedisHost + ":" + cfg.RedisPort
	sessionStore, err := redisStore.NewStore(
		10,        // Redis pool size
		"tcp",     // network type
		redisAddr, // Redis address from config
		"",        // username (empty for default user)
		"",        // password (empty = no password)
		[]byte(cfg.SessionSecret), // authentication key
	)
	if err != nil {
		log.Fatalf("Failed to create Redis store: %v", err)
	}
	// Configure session options based on environment
	isProduction := cfg.GinMode == "release"
	sessionStore.Options(sessions.Options{
		Path:     "/",
		MaxAge:   86400 * 7, // 7 days
		HttpOnly: true,
		Secure:   isProduction, // true in production (HTTPS), false in development
		SameSite: 2,            // SameSite=Lax (1=Strict, 2=Lax, 3=None)
	})
	r.Use(sessions.Sessions(constants.SessionCookieName, sessionStore))

	// Initialize services
	authService := services.NewAuthService(docStore)
	planService := services.NewPlanService(docStore)
	commentService := services.NewCommentService(docStore, authService)

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(authService)
	projectHandler := handlers.NewProjectHandler(planService, controller)
	bigProjectHandler := handlers.NewBigProjectHandler(planService, controller)
	viewHandler := handlers.NewViewHandler(controller)
	commentHandler := handlers.NewCommentHandler(commentService, authService)

	// Health check endpoint
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "ok",
			"message": "Planboard API is running",
		})
	})

	// API routes
	api := r.Group("/api")
	{
		// Auth routes (public)
		auth := api.Group("/auth")
		{
			auth.POST("/signup", authHandler.Signup)
			auth.POST("/login", authHandler.Login)
			auth.POST("/logout", authHandler.Logout)
			auth.GET("/me", middleware.RequireAuth(), authHandler.GetCurrentUser)
		}

		// Project routes (protected)
		projects := api.Group("/projects")
		projects.Use(middleware.RequireAuth())
		{
			projects.GET("", projectHandler.ListProjects)
			projects.POST("", projectHandler.CreateProject)
			projects.PUT("/:id", projectHandler.UpdateProject)
			projects.DELETE("/:id", projectHandler.DeleteProject)
			projects.GET("/:id/tasks", projectHandler.ListTasks)
			projects.POST("/:id/tasks", projectHandler.CreateTask)
		}

		// Task routes (protected)
		tasks := api.Group("/tasks")
		tasks.Use(middleware.RequireAuth())
		{
			tasks.PUT("/:id", projectHandler.UpdateTask)
			tasks.PATCH("/:id/status", projectHandler.UpdateTaskStatus)
			tasks.DELETE("/:id", projectHandler.DeleteTask)
			tasks.GET("/:id/comments", commentHandler.ListComments)
			tasks.POST("/:id/comments", commentHandler.AddComment)
		}

		// Comment routes (protected)
		comments := api.Group("/comments")
		comments.Use(middleware.RequireAuth())
		{
			comments.PUT("/:commentId", commentHandler.EditComment)
			comments.DELETE("/:commentId", commentHandler.DeleteComment)
		}

		// Mention routes (protected)
		mentions := api.Group("/mentions")
		mentions.Use(middleware.RequireAuth())
		{
			mentions.POST("/suggest", commentHandler.MentionSuggestions)
			mentions.POST("/apply", commentHandler.ApplyMention)
		}

		// Big project routes (protected)
		bigProjects := api.Group("/big-projects")
		bigProjects.Use(middleware.RequireAuth())
		{
			bigProjects.GET("", bigProjectHandler.ListBigProjects)
			bigProjects.POST("", bigProjectHandler.CreateBigProject)
			bigProjects.PUT("/:id", bigProjectHandler.UpdateBigProject)
			bigProjects.DELETE("/:id", bigProjectHandler.DeleteBigProject)
			bigProjects.GET("/:id/sub-projects", bigProjectHandler.ListSubProjects)
			bigProjects.POST("/:id/sub-projects", bigProjectHandler.CreateSubProject)
			bigProjects.PUT("/:id/sub-projects/:subId", bigProjectHandler.UpdateSubProject)
			bigProjects.DELETE("/:id/sub-projects/:subId", bigProjectHandler.DeleteSubProject)
			bigProjects.GET("/:id/sub-projects/:subId/sub-tasks", bigProjectHandler.ListSubTasks)
			bigProjects.POST("/:id/sub-projects/:subId/sub-tasks", bigProjectHandler.CreateSubTask)
			bigProjects.PUT("/:id/sub-projects/:subId/sub-tasks/:taskId", bigProjectHandler.UpdateSubTask)
			bigProjects.PATCH("/:id/sub-projects/:subId/sub-tasks/:taskId/status", bigProjectHandler.UpdateSubTaskStatus)
			bigProjects.DELETE("/:id/sub-projects/:subId/sub-tasks/:taskId", bigProjectHandler.DeleteSubTask)
		}

		// View routes (protected)
		views := api.Group("/views")
		views.Use(middleware.RequireAuth())
		{
			views.GET("/board", viewHandler.Board)
			views.GET("/gantt", viewHandler.Gantt)
			views.GET("/burnup", viewHandler.Burnup)
			views.GET("/search", viewHandler.Search)
		}

		// User directory (protected)
		users := api.Group("/users")
		users.Use(middleware.RequireAuth())
		{
			users.GET("/emails", authHandler.ListUserEmails)
		}
	}

	// Start server
	log.Printf("Server starting on %s", cfg.HTTPAddr)
	if err := r.Run(cfg.HTTPAddr); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
