package main

import (
	"fmt"
	"net/http"
	"os"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"jodtang/internal/bot"
	"jodtang/internal/config"
	"jodtang/internal/database"
	_ "jodtang/internal/docs" // Import swagger docs
	"jodtang/internal/handlers"
	"jodtang/internal/line"
	"jodtang/internal/logger"
	"jodtang/internal/message"
	"jodtang/internal/middleware"
	"jodtang/internal/services"
	"jodtang/internal/validator"
)

// @title           Jodtang API
// @version         1.0
// @description     Jodtang is a chat-first expense tracker: record income and expenses from LINE messages or the web, personally or per group chat.
// @termsOfService  http://swagger.io/terms/

// @host      localhost:8080
// @BasePath  /api/v1

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

func main() {
	// Initialize logger (use ENV var if available, default to development)
	logger.Init(os.Getenv("ENV"))
	defer logger.Sync()

	if err := run(); err != nil {
		logger.Get().Fatalf("Fatal error: %v", err)
	}
}

func run() error {
	log := logger.Get()

	// Load configuration
	appConfig, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	// Initialize database configuration
	dbConfig, err := database.NewConfig()
	if err != nil {
		return fmt.Errorf("failed to load database configuration: %w", err)
	}

	// Create database manager
	dbManager, err := database.NewManager(dbConfig)
	if err != nil {
		return fmt.Errorf("failed to create database manager: %w", err)
	}

	// Run migrations
	if err := dbManager.Migrate(); err != nil {
		return fmt.Errorf("failed to run database migrations: %w", err)
	}

	db := dbManager.DB()

	// Seed default categories (idempotent)
	if err := database.SeedDefaultCategories(db); err != nil {
		return fmt.Errorf("failed to seed default categories: %w", err)
	}

	// Register custom binding validators
	validator.Register()

	// Initialize services
	userService := services.NewUserService(db)
	connectionService := services.NewConnectionService(db)
	groupService := services.NewGroupService(db)
	ledgerService := services.NewLedgerService(db)
	shortcutService := services.NewShortcutService(db)
	categoryService := services.NewCategoryService(db)

	// Message interpretation pipeline
	resolver := message.NewResolver(shortcutService)
	interpreter := message.NewInterpreter(resolver)

	// LINE messaging client and dispatcher
	lineClient := line.NewClient(appConfig.LineChannelAccessToken)
	dispatcher := bot.NewDispatcher(
		connectionService,
		groupService,
		ledgerService,
		shortcutService,
		categoryService,
		interpreter,
		lineClient,
	)

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(userService)
	connectionHandler := handlers.NewConnectionHandler(connectionService, userService)
	shortcutHandler := handlers.NewShortcutHandler(shortcutService)
	categoryHandler := handlers.NewCategoryHandler(categoryService)
	transactionHandler := handlers.NewTransactionHandler(ledgerService)
	webhookHandler := handlers.NewWebhookHandler(dispatcher, lineClient)

	// Initialize Gin router
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogging())
	router.Use(middleware.ErrorHandler())

	// CORS middleware
	router.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	})

	// Swagger documentation
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Health check endpoint
	router.GET("/api/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// LINE webhook, signature-verified against the raw body
	router.POST("/api/line/webhook",
		middleware.LineSignature(appConfig.LineChannelSecret),
		webhookHandler.Handle,
	)

	// API v1 group
	v1 := router.Group("/api/v1")

	// Public routes
	auth := v1.Group("/auth")
	auth.POST("/register", authHandler.Register)
	auth.POST("/login", authHandler.Login)
	auth.POST("/refresh", authHandler.Refresh)

	// Protected routes
	protected := v1.Group("/")
	protected.Use(middleware.AuthMiddleware())

	// User profile
	protected.GET("/profile", authHandler.GetProfile)

	// LINE connection routes
	lineRoutes := protected.Group("/line")
	lineRoutes.GET("/connection", connectionHandler.GetStatus)
	lineRoutes.POST("/generate-code", connectionHandler.GenerateCode)
	lineRoutes.POST("/disconnect", connectionHandler.Disconnect)

	// Shortcut routes
	shortcuts := protected.Group("/shortcuts")
	shortcuts.POST("", shortcutHandler.CreateShortcut)
	shortcuts.GET("", shortcutHandler.GetShortcuts)
	shortcuts.GET("/:id", shortcutHandler.GetShortcut)
	shortcuts.PUT("/:id", shortcutHandler.UpdateShortcut)
	shortcuts.DELETE("/:id", shortcutHandler.DeleteShortcut)

	// Category routes
	categories := protected.Group("/categories")
	categories.POST("", categoryHandler.CreateCategory)
	categories.GET("", categoryHandler.GetCategories)
	categories.GET("/:id", categoryHandler.GetCategory)
	categories.PUT("/:id", categoryHandler.UpdateCategory)
	categories.DELETE("/:id", categoryHandler.DeleteCategory)

	// Transaction routes
	transactions := protected.Group("/transactions")
	transactions.POST("", transactionHandler.CreateTransaction)
	transactions.GET("", transactionHandler.GetTransactions)
	transactions.GET("/:id", transactionHandler.GetTransaction)
	transactions.PUT("/:id", transactionHandler.UpdateTransaction)
	transactions.DELETE("/:id", transactionHandler.DeleteTransaction)

	// Dashboard routes
	dashboard := protected.Group("/dashboard")
	dashboard.GET("/summary", transactionHandler.GetSummary)
	dashboard.GET("/stats", transactionHandler.GetStats)
	dashboard.GET("/recent", transactionHandler.GetRecent)

	log.Infof("Starting Jodtang backend server on port %s", appConfig.Port)
	log.Infof("Swagger documentation available at http://localhost:%s/swagger/index.html", appConfig.Port)
	return router.Run(":" + appConfig.Port)
}
