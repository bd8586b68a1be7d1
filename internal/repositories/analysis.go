package repositories

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"alfredoptarigan/ats-cv-scorer/internal/models"
)

type AnalysisRepository interface {
	Create(analysis *models.Analysis) error
	FindByID(id uuid.UUID) (*models.Analysis, error)
	UpdateFeedbackStatus(id uuid.UUID, status models.FeedbackStatus) error
	UpdateFeedback(id uuid.UUID, feedback string) error
	UpdateError(id uuid.UUID, errorMsg string) error
	FindQueuedFeedback(limit int) ([]models.Analysis, error)
}

type analysisRepository struct {
	db *gorm.DB
}

func NewAnalysisRepository(db *gorm.DB) AnalysisRepository {
	return &analysisRepository{db: db}
}

func (r *analysisRepository) Create(analysis *models.Analysis) error {
	if err := r.db.Create(analysis).Error; err != nil {
		return fmt.Errorf("failed to create analysis: %w", err)
	}
	return nil
}

func (r *analysisRepository) FindByID(id uuid.UUID) (*models.Analysis, error) {
	var analysis models.Analysis
	if err := r.db.Preload("Document").Where("id = ?", id).First(&analysis).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("analysis %s: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to find analysis: %w", err)
	}
	return &analysis, nil
}

func (r *analysisRepository) UpdateFeedbackStatus(id uuid.UUID, status models.FeedbackStatus) error {
	return r.update(id, map[string]interface{}{
		"feedback_status": status,
	})
}

func (r *analysisRepository) UpdateFeedback(id uuid.UUID, feedback string) error {
	return r.update(id, map[string]interface{}{
		"feedback_status": models.FeedbackCompleted,
		"feedback":        feedback,
	})
}

func (r *analysisRepository) UpdateError(id uuid.UUID, errorMsg string) error {
	return r.update(id, map[string]interface{}{
		"feedback_status": models.FeedbackFailed,
		"error_message":   errorMsg,
	})
}

func (r *analysisRepository) FindQueuedFeedback(limit int) ([]models.Analysis, error) {
	var analyses []models.Analysis
	err := r.db.
		Where("feedback_status = ?", models.FeedbackQueued).
		Order("created_at ASC").
		Limit(limit).
		Find(&analyses).Error

	if err != nil {
		return nil, fmt.Errorf("failed to find queued analyses: %w", err)
	}

	return analyses, nil
}

func (r *analysisRepository) update(id uuid.UUID, updates map[string]interface{}) error {
	updates["updated_at"] = time.Now()

	result := r.db.Model(&models.Analysis{}).
		Where("id = ?", id).
		Updates(updates)

	if result.Error != nil {
		return fmt.Errorf("failed to update analysis: %w", result.Error)
	}

	if result.RowsAffected == 0 {
		return fmt.Errorf("analysis %s: %w", id, ErrNotFound)
	}

	return nil
}
