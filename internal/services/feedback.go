package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"alfredoptarigan/ats-cv-scorer/internal/logger"
	"alfredoptarigan/ats-cv-scorer/internal/models"
	"alfredoptarigan/ats-cv-scorer/internal/repositories"
)

const (
	feedbackTemperature = 0.4
	feedbackLogPreview  = 120
)

// FeedbackService writes a narrative review for a stored analysis.
type FeedbackService interface {
	GenerateFeedback(ctx context.Context, analysisID uuid.UUID) error
}

type feedbackService struct {
	analysisRepo  repositories.AnalysisRepository
	gemini        GeminiService
	promptBuilder *PromptBuilder
	maxRetries    int
	logger        *zap.Logger
}

func NewFeedbackService(
	analysisRepo repositories.AnalysisRepository,
	gemini GeminiService,
	maxRetries int,
	logger *zap.Logger,
) FeedbackService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &feedbackService{
		analysisRepo:  analysisRepo,
		gemini:        gemini,
		promptBuilder: NewPromptBuilder(),
		maxRetries:    maxRetries,
		logger:        logger,
	}
}

func (f *feedbackService) GenerateFeedback(ctx context.Context, analysisID uuid.UUID) error {
	if err := f.analysisRepo.UpdateFeedbackStatus(analysisID, models.FeedbackProcessing); err != nil {
		return fmt.Errorf("failed to update status: %w", err)
	}

	f.logger.Info("🔄 Generating feedback", zap.String("analysis_id", analysisID.String()))

	analysis, err := f.analysisRepo.FindByID(analysisID)
	if err != nil {
		f.markFailed(analysisID, err.Error())
		return fmt.Errorf("failed to get analysis: %w", err)
	}

	prompt := f.promptBuilder.BuildFeedbackPrompt(analysis)
	f.logger.Debug("📝 Feedback prompt built", zap.Int("length", len(prompt)))

	response, err := f.gemini.GenerateTextWithRetry(ctx, prompt, feedbackTemperature, f.maxRetries)
	if err != nil {
		f.markFailed(analysisID, fmt.Sprintf("Failed to generate feedback: %v", err))
		return fmt.Errorf("failed to generate feedback: %w", err)
	}

	feedback := strings.TrimSpace(response)
	if feedback == "" {
		f.markFailed(analysisID, "empty feedback returned by model")
		return fmt.Errorf("empty feedback returned by model")
	}

	if err := f.analysisRepo.UpdateFeedback(analysisID, feedback); err != nil {
		return fmt.Errorf("failed to save feedback: %w", err)
	}

	f.logger.Info("✅ Feedback completed",
		zap.String("analysis_id", analysisID.String()),
		zap.String("preview", logger.Truncate(feedback, feedbackLogPreview)),
	)
	return nil
}

func (f *feedbackService) markFailed(id uuid.UUID, msg string) {
	if err := f.analysisRepo.UpdateError(id, msg); err != nil {
		f.logger.Error("❌ Failed to record feedback error", zap.String("analysis_id", id.String()), zap.Error(err))
	}
}
