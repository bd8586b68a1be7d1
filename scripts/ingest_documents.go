package main

import (
	"context"
	"flag"
	"log"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"alfredoptarigan/ats-cv-scorer/internal/config"
	"alfredoptarigan/ats-cv-scorer/internal/logger"
	"alfredoptarigan/ats-cv-scorer/internal/services"
)

func main() {
	dir := flag.String("dir", "./reference_docs/job_descriptions", "directory holding .txt and .pdf job descriptions")
	flag.Parse()

	// Load configuration
	cfg := config.Load()

	logger, err := logger.New(cfg.Log.JSON, cfg.Log.Debug)
	if err != nil {
		log.Fatalf("creating a logger: %s", err)
	}
	defer logger.Sync()

	logger.Info("🚀 Starting job description ingestion", zap.String("dir", *dir))

	if !cfg.JobLibraryEnabled() {
		logger.Fatal("❌ GEMINI_API_KEY and QDRANT_URL must be set")
	}

	// Initialize services
	geminiService, err := services.NewGeminiService(cfg.Gemini.APIKey, cfg.Worker.RetryInitialDelay, logger)
	if err != nil {
		logger.Fatal("❌ Failed to initialize Gemini", zap.Error(err))
	}

	qdrantService, err := services.NewQdrantService(cfg.Qdrant.URL, cfg.Qdrant.APIKey, cfg.Qdrant.Collection, logger)
	if err != nil {
		logger.Fatal("❌ Failed to initialize Qdrant", zap.Error(err))
	}

	ctx := context.Background()
	if err := qdrantService.InitCollection(ctx); err != nil {
		logger.Fatal("❌ Failed to initialize collection", zap.Error(err))
	}

	library := services.NewJobLibrary(geminiService, qdrantService, services.NewTextChunker(), logger)
	pdfParser := services.NewPDFParserService()

	entries, err := os.ReadDir(*dir)
	if err != nil {
		logger.Fatal("❌ Failed to read directory", zap.Error(err))
	}

	successCount := 0
	failCount := 0

	for _, entry := range entries {
		ext := strings.ToLower(filepath.Ext(entry.Name()))
		if entry.IsDir() || (ext != ".txt" && ext != ".pdf") {
			continue
		}

		path := filepath.Join(*dir, entry.Name())
		docID := strings.TrimSuffix(entry.Name(), filepath.Ext(entry.Name()))
		title := strings.Join(strings.FieldsFunc(docID, func(r rune) bool { return r == '_' || r == '-' }), " ")
		docLog := logger.With(zap.String("doc_id", docID), zap.String("path", path))

		var text string
		switch ext {
		case ".pdf":
			text, err = pdfParser.ExtractText(path)
		default:
			var data []byte
			data, err = os.ReadFile(path)
			text = string(data)
		}
		if err != nil {
			docLog.Error("❌ Failed to extract text", zap.Error(err))
			failCount++
			continue
		}

		stored, err := library.Ingest(ctx, docID, title, text)
		if err != nil {
			docLog.Error("❌ Failed to ingest", zap.Error(err))
			failCount++
			continue
		}

		docLog.Info("✅ Ingested job description", zap.String("title", title), zap.Int("chunks", stored))
		successCount++
	}

	logger.Info("📊 Ingestion summary", zap.Int("successful", successCount), zap.Int("failed", failCount))

	if failCount > 0 {
		logger.Warn("⚠️ Some documents failed to ingest. Please check the logs above.")
		os.Exit(1)
	}
}
