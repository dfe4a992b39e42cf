// @title           RoomGPT Backend API
// @version         1.0.0
// @description     Backend API for redesigning room photos with a Stable Diffusion img2img backend. Each generation costs one credit; generated rooms are stored per user.

// @contact.name   API Support
// @contact.email  support@example.com

// @license.name  MIT
// @license.url   https://opensource.org/licenses/MIT

// @host      localhost:8080
// @BasePath  /

// @securityDefinitions.apikey Bearer
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

package main

import (
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"roomgpt-backend/docs"
	"roomgpt-backend/internal/config"
	"roomgpt-backend/internal/database"
	"roomgpt-backend/internal/handlers"
	"roomgpt-backend/internal/imagecodec"
	"roomgpt-backend/internal/logger"
	"roomgpt-backend/internal/middleware"
	"roomgpt-backend/internal/sdwebui"
	"roomgpt-backend/internal/services"
	"roomgpt-backend/internal/supabase"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logger.Log.Fatalf("Failed to load configuration: %v", err)
	}
	logger.Configure(cfg.LogLevel, cfg.IsProduction())

	// Set Gin mode
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	// Update Swagger docs with dynamic base URL
	if cfg.BaseURL != "" {
		baseURL, err := url.Parse(cfg.BaseURL)
		if err == nil {
			docs.SwaggerInfo.Host = baseURL.Host
			if baseURL.Scheme == "https" {
				docs.SwaggerInfo.Schemes = []string{"https", "http"}
			} else {
				docs.SwaggerInfo.Schemes = []string{"http", "https"}
			}
		}
	}

	if cfg.DatabaseURL == "" {
		logger.Log.Fatal("DATABASE_URL is required: credits and rooms are stored in PostgreSQL")
	}

	// Run migrations
	migrator, err := database.NewMigrator(cfg.DatabaseURL)
	if err != nil {
		logger.Log.Fatalf("Failed to initialize migrator: %v", err)
	}
	if err := migrator.Run(); err != nil {
		logger.Log.Fatalf("Migration failed: %v", err)
	}
	migrator.Close()

	dbClient, err := supabase.NewDatabaseClient(cfg.DatabaseURL, cfg.DBTimeout)
	if err != nil {
		logger.Log.Fatalf("Failed to initialize database client: %v", err)
	}
	defer dbClient.Close()

	// Outbound clients
	fetcher := imagecodec.NewFetcher(cfg.FetchTimeout)
	backend := sdwebui.NewClient(cfg.SDAPIBaseURL, cfg.BackendTimeout)

	// Services
	ledger := services.NewCreditLedger(dbClient, cfg.CreditCheckEnabled)
	generationService := services.NewGenerationService(ledger, fetcher, backend, dbClient)
	captionService := services.NewCaptionService(fetcher, backend)

	// Handlers
	generateHandler := handlers.NewGenerateHandler(generationService)
	captionHandler := handlers.NewCaptionHandler(captionService)
	roomsHandler := handlers.NewRoomsHandler(dbClient, ledger)

	// Setup router
	router := gin.New()
	router.Use(gin.Logger())
	router.Use(gin.Recovery())

	// Swagger documentation
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Health check (no auth)
	router.GET("/health", handlers.NewHealthHandler(dbClient).Health)

	// API routes. The proxies answer anonymous callers themselves.
	api := router.Group("/api")
	api.Use(middleware.SessionMiddleware(cfg))
	api.Use(middleware.ProvisionUser(dbClient, cfg.DefaultCredits))
	api.POST("/generate", generateHandler.Generate)
	api.POST("/caption", captionHandler.Caption)

	account := api.Group("")
	account.Use(middleware.AuthMiddleware(cfg))
	account.GET("/credits", roomsHandler.GetCredits)
	account.GET("/rooms", roomsHandler.ListRooms)
	account.GET("/rooms/:room_id", roomsHandler.GetRoom)

	logger.Log.WithFields(logrus.Fields{
		"port":         cfg.Port,
		"backend":      cfg.SDAPIBaseURL,
		"credit_check": cfg.CreditCheckEnabled,
	}).Info("Server starting")
	if err := http.ListenAndServe(":"+cfg.Port, router); err != nil {
		logger.Log.Fatalf("Failed to start server: %v", err)
	}
}
