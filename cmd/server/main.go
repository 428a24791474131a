package main

import (
	"log"

	"github.com/gin-gonic/gin"
	"github.com/taskflow-dev/taskflow-api/internal/config"
	"github.com/taskflow-dev/taskflow-api/internal/database"
	"github.com/taskflow-dev/taskflow-api/internal/handlers"
	"github.com/taskflow-dev/taskflow-api/internal/logger"
	"github.com/taskflow-dev/taskflow-api/internal/middleware"
	"github.com/taskflow-dev/taskflow-api/internal/notify"
	"github.com/taskflow-dev/taskflow-api/internal/repository"
	"github.com/taskflow-dev/taskflow-api/internal/services"
	"github.com/taskflow-dev/taskflow-api/internal/token"
	"github.com/taskflow-dev/taskflow-api/internal/validation"
)

func main() {
	// Load configuration
	cfg := config.Load()

	logger.Init(cfg.GinMode)
	defer logger.Sync()

	// Set Gin mode
	gin.SetMode(cfg.GinMode)

	if err := validation.RegisterCustom(); err != nil {
		log.Fatalf("Failed to register validations: %v", err)
	}

	// Connect to database
	if err := database.Connect(cfg); err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	// Run migrations
	if err := database.Migrate(); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}
	if cfg.DBDriver == "postgres" {
		if err := database.AddIndexes(database.GetDB()); err != nil {
			log.Fatalf("Failed to add indexes: %v", err)
		}
	}

	// Repositories
	db := database.GetDB()
	userRepo := repository.NewUserRepository(db)
	projectRepo := repository.NewProjectRepository(db)
	taskRepo := repository.NewTaskRepository(db)

	// Due-soon notification worker
	notifier := notify.NewNotifier(&notify.LogEmailSender{Log: logger.Log}, cfg.NotifyQueueSize, logger.Log)
	notifier.Start()
	defer notifier.Close()

	// Services
	tokenManager := token.NewManager(cfg.SecretKey, cfg.AccessTokenTTL)
	authService := services.NewAuthService(userRepo, tokenManager)
	projectService := services.NewProjectService(projectRepo)
	taskService := services.NewTaskService(taskRepo, projectRepo, notifier)

	// Handlers
	authHandler := handlers.NewAuthHandler(authService)
	projectHandler := handlers.NewProjectHandler(projectService)
	taskHandler := handlers.NewTaskHandler(taskService)

	// Initialize Gin router
	r := gin.Default()

	r.GET("/", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"message": "Welcome to Task Management API",
		})
	})

	// Health check endpoint
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "ok",
			"message": "Task Management API is running",
		})
	})

	// API routes
	api := r.Group("/api/v1")
	{
		// Auth routes (public)
		api.POST("/login/access-token", authHandler.Login)
		api.POST("/register", authHandler.Register)

		// Project routes (protected)
		projects := api.Group("/projects")
		projects.Use(middleware.RequireAuth(authService))
		{
			projects.GET("/", projectHandler.ListProjects)
			projects.POST("/", projectHandler.CreateProject)
			projects.PUT("/:id", projectHandler.UpdateProject)
			projects.DELETE("/:id", projectHandler.DeleteProject)
		}

		// Task routes (protected)
		tasks := api.Group("/tasks")
		tasks.Use(middleware.RequireAuth(authService))
		{
			tasks.GET("/", taskHandler.ListTasks)
			tasks.POST("/", taskHandler.CreateTask)
			tasks.PUT("/:id", taskHandler.UpdateTask)
			tasks.DELETE("/:id", taskHandler.DeleteTask)
		}
	}

	// Start server
	log.Printf("Server starting on %s", cfg.ServerAddr)
	if err := r.Run(cfg.ServerAddr); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
