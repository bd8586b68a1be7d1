package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"go.uber.org/zap"

	"alfredoptarigan/ats-cv-scorer/internal/config"
	"alfredoptarigan/ats-cv-scorer/internal/handlers"
	"alfredoptarigan/ats-cv-scorer/internal/logger"
	"alfredoptarigan/ats-cv-scorer/internal/repositories"
	"alfredoptarigan/ats-cv-scorer/internal/services"
)

// multipartOverhead leaves room for form boundaries and text fields on top of
// the largest accepted file.
const multipartOverhead = 1 << 20

func main() {
	// Load configuration
	cfg := config.Load()

	logger, err := logger.New(cfg.Log.JSON, cfg.Log.Debug)
	if err != nil {
		log.Fatalf("creating a logger: %s", err)
	}
	defer logger.Sync()

	logger.Info("✅ Config loaded successfully", zap.String("env", cfg.Server.Env))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	deps := services.AnalyzerDeps{
		Validator: services.NewFileValidator(),
		Logger:    logger,
	}
	deps.Extractor = services.NewTextExtractor(
		deps.Validator,
		services.NewPDFParserService(),
		services.ExtractorMode(cfg.Extractor.Mode),
		logger,
	)
	deps.Generator = services.NewScoreGenerator(services.NewTimeSeededRandomSource())

	// Result cache
	redisClient := services.NewRedisClient(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB, logger)
	if redisClient != nil {
		defer redisClient.Close()
		logger.Info("✅ Redis result cache enabled", zap.String("addr", cfg.Redis.Addr))
	}
	deps.Cache = services.NewRedisResultCache(redisClient, cfg.Redis.TTL, logger)

	// Initialize Gemini AI
	var geminiService services.GeminiService
	if cfg.AIEnabled() {
		geminiService, err = services.NewGeminiService(cfg.Gemini.APIKey, cfg.Worker.RetryInitialDelay, logger)
		if err != nil {
			logger.Fatal("❌ Failed to initialize Gemini AI", zap.Error(err))
		}
		logger.Info("✅ Gemini AI initialized successfully")
	}

	// Initialize Qdrant
	if cfg.JobLibraryEnabled() {
		qdrantService, err := services.NewQdrantService(cfg.Qdrant.URL, cfg.Qdrant.APIKey, cfg.Qdrant.Collection, logger)
		if err != nil {
			logger.Fatal("❌ Failed to initialize Qdrant", zap.Error(err))
		}
		if err := qdrantService.InitCollection(ctx); err != nil {
			logger.Fatal("❌ Failed to initialize Qdrant collection", zap.Error(err))
		}
		deps.JobLibrary = services.NewJobLibrary(geminiService, qdrantService, services.NewTextChunker(), logger)
		logger.Info("✅ Job description library enabled")
	}

	var worker services.Worker
	if cfg.Database.Enabled {
		// Initialize database
		db, err := config.InitDatabase(cfg, logger)
		if err != nil {
			logger.Fatal("❌ Failed to initialize database", zap.Error(err))
		}

		analysisRepo := repositories.NewAnalysisRepository(db)
		deps.DocumentRepo = repositories.NewDocumentRepository(db)
		deps.AnalysisRepo = analysisRepo

		storageService := services.NewStorageService(cfg.Storage.UploadPath)
		if err := storageService.EnsureUploadDir(); err != nil {
			logger.Fatal("❌ Failed to create upload directory", zap.Error(err))
		}
		deps.Storage = storageService

		if geminiService != nil && cfg.Gemini.FeedbackEnabled {
			feedbackService := services.NewFeedbackService(analysisRepo, geminiService, cfg.Worker.RetryMaxAttempts, logger)
			worker = services.NewWorker(analysisRepo, feedbackService, cfg.Worker.Concurrency, logger)
			worker.Start(ctx)
			deps.Worker = worker
		}
	} else {
		logger.Warn("⚠️ Database disabled, analyses will not be stored")
	}

	analyzer := services.NewAnalyzerService(deps)
	logger.Info("✅ Services initialized successfully")

	// Initialize Handlers
	analysisHandler := handlers.NewAnalysisHandler(analyzer, logger)
	scoreHandler := handlers.NewScoreHandler(analyzer)
	resultHandler := handlers.NewResultHandler(analyzer)

	// Create Fiber app
	app := fiber.New(fiber.Config{
		AppName:      "ATS CV Scorer API",
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		BodyLimit:    int(cfg.Storage.MaxFileSize) + multipartOverhead,
		ErrorHandler: customErrorHandler,
	})

	// Middleware
	app.Use(recover.New())
	app.Use(fiberlogger.New(fiberlogger.Config{
		Format:     "[${time}] ${status} - ${latency} ${method} ${path}\n",
		TimeFormat: "2006-01-02 15:04:05",
	}))

	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,OPTIONS",
		AllowHeaders: "Origin, Content-Type, Accept",
	}))

	// Routes
	api := app.Group("/api/v1")

	api.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status": "healthy",
			"time":   time.Now(),
		})
	})

	api.Post("/validate", analysisHandler.HandleValidate)
	api.Post("/analyze", analysisHandler.HandleAnalyze)
	api.Post("/score", scoreHandler.HandleScore)
	api.Get("/analyses/:id", resultHandler.HandleGetAnalysis)

	app.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"message": "ATS CV Scorer API",
			"version": "1.0.0",
			"endpoints": []string{
				"POST /api/v1/validate",
				"POST /api/v1/analyze",
				"POST /api/v1/score",
				"GET /api/v1/analyses/:id",
			},
		})
	})

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-quit
		logger.Info("🛑 Shutting down server...")
		if worker != nil {
			worker.Stop()
		}
		cancel()
		if err := app.Shutdown(); err != nil {
			logger.Error("❌ Server forced to shutdown", zap.Error(err))
		}
	}()

	addr := fmt.Sprintf(":%s", cfg.Server.Port)
	logger.Info("🚀 Server starting", zap.String("addr", addr))

	if err := app.Listen(addr); err != nil {
		logger.Fatal("❌ Failed to start server", zap.Error(err))
	}
}

func customErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError

	if e, ok := err.(*fiber.Error); ok {
		code = e.Code
	}

	return c.Status(code).JSON(fiber.Map{
		"error": err.Error(),
		"code":  code,
	})
}
