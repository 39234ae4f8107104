package main

import (
	"errors"
	"log"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/swagger"

	"github.com/doveable-ai/doveable-backend/internal/core/auth"
	"github.com/doveable-ai/doveable-backend/internal/core/llm"
	"github.com/doveable-ai/doveable-backend/internal/modules/builder/handlers"
	"github.com/doveable-ai/doveable-backend/internal/modules/builder/repositories"
	"github.com/doveable-ai/doveable-backend/internal/modules/builder/services"
	"github.com/doveable-ai/doveable-backend/internal/shared/config"
	"github.com/doveable-ai/doveable-backend/internal/shared/database"
	"github.com/doveable-ai/doveable-backend/internal/shared/utils"

	_ "github.com/doveable-ai/doveable-backend/cmd/api/docs"
)

// @title Doveable API
// @version 1.0
// @description AI website builder backend: prompt-driven code generation, credits, and project storage
// @contact.name API Support
// @contact.email support@doveable.ai
// @license.name MIT
// @host localhost:8080
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	// Load config
	cfg := config.LoadConfig()
	utils.InitLogger()
	log.Printf("🚀 Starting doveable-api on port %s", cfg.Port)

	// Init database
	db := database.NewDB(cfg.DatabaseURL)
	defer db.Close()

	// Init repositories (use GORM instance)
	profileRepo := repositories.NewProfileRepo(db.GORM)
	projectRepo := repositories.NewProjectRepo(db.GORM)
	contactRepo := repositories.NewContactRepo(db.GORM)

	// Init auth service
	authService := auth.NewService(db.GORM, cfg.JWTSecret)

	// Init LLM provider (multi-provider support)
	provider, err := llm.NewProvider(cfg)
	if err != nil {
		if errors.Is(err, llm.ErrNotConfigured) {
			log.Printf("⚠️  LLM provider not configured: %v (generation disabled)", err)
		} else {
			log.Fatalf("Failed to initialize LLM provider: %v", err)
		}
	} else {
		log.Printf("🤖 Using LLM provider: %s (model: %s)", provider.GetProviderName(), cfg.LLMModel)
	}

	// Init services
	creditService := services.NewCreditService(profileRepo, cfg.GenerationCost, cfg.DailyFreeCoins)
	generationService := services.NewGenerationService(provider, cfg.GenerationTimeout)
	sessionService := services.NewSessionService(projectRepo, profileRepo, creditService, generationService, cfg.AutosaveQuiet, cfg.ProjectTTL)

	// Init expired project cleanup
	cleanupService := services.NewCleanupService(projectRepo)
	if err := cleanupService.Start(); err != nil {
		log.Fatalf("Failed to start cleanup scheduler: %v", err)
	}
	defer cleanupService.Stop()

	// Init handlers
	authHandler := auth.NewHandler(authService)
	sessionHandler := handlers.NewSessionHandler(sessionService)
	projectHandler := handlers.NewProjectHandler(projectRepo)
	profileHandler := handlers.NewProfileHandler(profileRepo, creditService)
	contactHandler := handlers.NewContactHandler(contactRepo)
	adminHandler := handlers.NewAdminHandler(profileRepo)
	healthHandler := handlers.NewHealthHandler(provider)

	// Init Fiber app
	app := fiber.New(fiber.Config{
		AppName:   "Doveable API",
		BodyLimit: 10 * 1024 * 1024, // image attachments arrive as data URLs
	})

	// Middleware
	app.Use(cors.New())

	// Swagger
	app.Get("/swagger/*", swagger.HandlerDefault)

	// Health check
	app.Get("/health", healthHandler.GetHealth)

	// Auth routes
	app.Post("/auth/register", authHandler.Register)
	app.Post("/auth/login", authHandler.Login)
	app.Post("/auth/refresh", authHandler.Refresh)
	app.Get("/auth/me", auth.AuthMiddleware(authService), authHandler.Me)

	// Public routes
	app.Post("/api/contact", contactHandler.SubmitContact)
	app.Get("/api/plans", profileHandler.ListPlans)

	// Authenticated API routes
	api := app.Group("/api", auth.AuthMiddleware(authService))

	// Profile routes
	api.Get("/profile", profileHandler.GetProfile)
	api.Put("/profile/preferences", profileHandler.UpdatePreferences)
	api.Post("/profile/storage", profileHandler.LinkStorage)
	api.Post("/profile/credits/purchase", profileHandler.PurchaseCredits)

	// Builder session routes
	api.Post("/sessions", sessionHandler.OpenSession)
	api.Get("/sessions/:id", sessionHandler.GetSession)
	api.Post("/sessions/:id/generate", sessionHandler.Generate)
	api.Put("/sessions/:id/code", sessionHandler.UpdateCode)
	api.Delete("/sessions/:id", sessionHandler.CloseSession)

	// Project routes
	api.Get("/projects", projectHandler.ListProjects)
	api.Get("/projects/:id", projectHandler.GetProject)
	api.Delete("/projects/:id", projectHandler.DeleteProject)
	api.Get("/projects/:id/preview", projectHandler.PreviewProject)

	// Admin routes
	api.Get("/admin/profiles", adminHandler.ListProfiles)

	// Start server
	port := cfg.Port
	if port == "" {
		port = "8080"
	}

	log.Printf("✅ doveable-api running at :%s", port)
	log.Printf("📄 Swagger UI: http://localhost:%s/swagger/", port)
	log.Fatal(app.Listen(":" + port))
}
