package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"alfredoptarigan/ats-cv-scorer/internal/models"
	"alfredoptarigan/ats-cv-scorer/internal/repositories"
)

var ErrPersistenceDisabled = errors.New("persistence is disabled")

type AnalyzeRequest struct {
	Document       UploadedDocument
	JobTitle       string
	JobDescription string
}

type AnalysisResult struct {
	ID             uuid.UUID
	DocumentID     uuid.UUID
	Filename       string
	JobTitle       string
	JobDescription string
	Score          CVScore
	JobMatch       *JobMatch
	Tips           []CVTip
	WordCount      int
	FeedbackStatus models.FeedbackStatus
	Cached         bool
}

type AnalyzerService interface {
	Validate(meta FileMeta) ValidationResult
	Analyze(ctx context.Context, req AnalyzeRequest) (*AnalysisResult, error)
	ScoreText(ctx context.Context, cvText, jobDescription string) *AnalysisResult
	GetAnalysis(ctx context.Context, id uuid.UUID) (*models.Analysis, error)
}

// AnalyzerDeps lists the collaborators of the analyzer. Storage, repositories,
// the job library and the worker are optional.
type AnalyzerDeps struct {
	Validator    FileValidator
	Extractor    TextExtractor
	Generator    ScoreGenerator
	Cache        ResultCache
	JobLibrary   JobLibrary
	Storage      StorageService
	DocumentRepo repositories.DocumentRepository
	AnalysisRepo repositories.AnalysisRepository
	Worker       Worker
	Logger       *zap.Logger
}

type analyzerService struct {
	AnalyzerDeps
	group singleflight.Group
}

func NewAnalyzerService(deps AnalyzerDeps) AnalyzerService {
	if deps.Logger == nil {
		deps.Logger = zap.NewNop()
	}
	if deps.Cache == nil {
		deps.Cache = NewRedisResultCache(nil, 0, deps.Logger)
	}
	return &analyzerService{AnalyzerDeps: deps}
}

// Validate implements AnalyzerService.
func (s *analyzerService) Validate(meta FileMeta) ValidationResult {
	return s.Validator.Validate(meta)
}

// Analyze implements AnalyzerService.
func (s *analyzerService) Analyze(ctx context.Context, req AnalyzeRequest) (*AnalysisResult, error) {
	if err := s.Validator.Check(req.Document.Meta()); err != nil {
		return nil, err
	}

	jobDescription := s.resolveJobDescription(ctx, req)

	computed, cached, err := s.compute(ctx, req.Document, jobDescription)
	if err != nil {
		return nil, err
	}

	result := &AnalysisResult{
		Filename:       req.Document.Name,
		JobTitle:       req.JobTitle,
		JobDescription: jobDescription,
		Score:          computed.Score,
		JobMatch:       computed.JobMatch,
		Tips:           computed.Tips,
		WordCount:      computed.WordCount,
		FeedbackStatus: models.FeedbackSkipped,
		Cached:         cached,
	}

	if s.AnalysisRepo == nil || s.DocumentRepo == nil || s.Storage == nil {
		return result, nil
	}

	if err := s.persist(req.Document, computed, result); err != nil {
		return nil, err
	}

	if s.Worker != nil {
		s.Worker.EnqueueJob(result.ID)
	}

	s.Logger.Info("✅ Analysis stored",
		zap.String("analysis_id", result.ID.String()),
		zap.Int("overall", result.Score.Overall),
		zap.Bool("cached", cached),
	)
	return result, nil
}

// ScoreText implements AnalyzerService.
func (s *analyzerService) ScoreText(_ context.Context, cvText, jobDescription string) *AnalysisResult {
	score, match := s.Generator.ScoreWithMatch(cvText, jobDescription)
	return &AnalysisResult{
		JobDescription: jobDescription,
		Score:          score,
		JobMatch:       match,
		Tips:           Recommend(score, match),
		WordCount:      len(strings.Fields(cvText)),
		FeedbackStatus: models.FeedbackSkipped,
	}
}

// GetAnalysis implements AnalyzerService.
func (s *analyzerService) GetAnalysis(_ context.Context, id uuid.UUID) (*models.Analysis, error) {
	if s.AnalysisRepo == nil {
		return nil, ErrPersistenceDisabled
	}
	return s.AnalysisRepo.FindByID(id)
}

func (s *analyzerService) resolveJobDescription(ctx context.Context, req AnalyzeRequest) string {
	if strings.TrimSpace(req.JobDescription) != "" || strings.TrimSpace(req.JobTitle) == "" || s.JobLibrary == nil {
		return req.JobDescription
	}

	text, err := s.JobLibrary.Lookup(ctx, req.JobTitle)
	if err != nil {
		s.Logger.Warn("⚠️ No stored job description used", zap.String("job_title", req.JobTitle), zap.Error(err))
		return ""
	}
	return text
}

// compute runs extraction and scoring at most once per fingerprint at a time
// and reports whether the result came from the cache.
func (s *analyzerService) compute(ctx context.Context, doc UploadedDocument, jobDescription string) (*CachedResult, bool, error) {
	key := Fingerprint(doc.Content, doc.Name, jobDescription)

	if hit, ok, err := s.Cache.Get(ctx, key); err == nil && ok {
		return hit, true, nil
	}

	v, err, _ := s.group.Do(key, func() (interface{}, error) {
		text, err := s.Extractor.Extract(ctx, doc)
		if err != nil {
			return nil, err
		}

		score, match := s.Generator.ScoreWithMatch(text, jobDescription)
		res := &CachedResult{
			Score:         score,
			JobMatch:      match,
			Tips:          Recommend(score, match),
			ExtractedText: text,
			WordCount:     len(strings.Fields(text)),
		}

		if err := s.Cache.Set(ctx, key, res); err != nil {
			s.Logger.Debug("cache write skipped", zap.Error(err))
		}
		return res, nil
	})
	if err != nil {
		return nil, false, err
	}

	return v.(*CachedResult), false, nil
}

func (s *analyzerService) persist(doc UploadedDocument, computed *CachedResult, result *AnalysisResult) error {
	document, created, err := s.documentFor(doc)
	if err != nil {
		return err
	}

	status := models.FeedbackSkipped
	if s.Worker != nil {
		status = models.FeedbackQueued
	}

	analysis := newAnalysisRecord(document.ID, result, computed, status)
	if err := s.AnalysisRepo.Create(analysis); err != nil {
		if created {
			s.discardDocument(document)
		}
		return fmt.Errorf("failed to save analysis: %w", err)
	}

	result.ID = analysis.ID
	result.DocumentID = document.ID
	result.FeedbackStatus = status
	return nil
}

// documentFor reuses the stored document for a repeat upload of the same file
// under the same name, and stores a new one otherwise.
func (s *analyzerService) documentFor(doc UploadedDocument) (*models.Document, bool, error) {
	fingerprint := FileFingerprint(doc.Content)

	existing, err := s.DocumentRepo.FindByFingerprint(fingerprint)
	switch {
	case err == nil && existing.OriginalFileName == doc.Name:
		s.Logger.Debug("reusing stored document", zap.String("document_id", existing.ID.String()))
		return existing, false, nil
	case err != nil && !errors.Is(err, repositories.ErrNotFound):
		return nil, false, fmt.Errorf("failed to look up CV document: %w", err)
	}

	filename, filePath, err := s.Storage.SaveFile(doc.Content, doc.Name)
	if err != nil {
		return nil, false, fmt.Errorf("failed to save CV file: %w", err)
	}

	document := &models.Document{
		ID:               uuid.New(),
		Filename:         filename,
		OriginalFileName: doc.Name,
		MediaType:        doc.MediaType,
		Size:             doc.Size,
		Fingerprint:      fingerprint,
		FilePath:         filePath,
	}
	if err := s.DocumentRepo.Create(document); err != nil {
		_ = s.Storage.DeleteFile(filename)
		return nil, false, fmt.Errorf("failed to save CV document record: %w", err)
	}

	return document, true, nil
}

func (s *analyzerService) discardDocument(document *models.Document) {
	if err := s.DocumentRepo.Delete(document.ID); err != nil {
		s.Logger.Warn("⚠️ Failed to remove orphaned document", zap.String("document_id", document.ID.String()), zap.Error(err))
	}
	if err := s.Storage.DeleteFile(document.Filename); err != nil {
		s.Logger.Warn("⚠️ Failed to remove orphaned file", zap.String("filename", document.Filename), zap.Error(err))
	}
}

func newAnalysisRecord(documentID uuid.UUID, result *AnalysisResult, computed *CachedResult, status models.FeedbackStatus) *models.Analysis {
	score := result.Score
	a := &models.Analysis{
		ID:               uuid.New(),
		DocumentID:       documentID,
		JobTitle:         result.JobTitle,
		JobDescription:   result.JobDescription,
		OverallScore:     score.Overall,
		KeywordMatch:     score.KeywordMatch,
		Formatting:       score.Formatting,
		SectionPresence:  score.SectionPresence,
		Readability:      score.Readability,
		Length:           score.Length,
		ContactInfo:      score.ContactInfo,
		Education:        score.Education,
		Experience:       score.Experience,
		Skills:           score.Skills,
		BBBEECompliance:  score.BBBEECompliance,
		ContentRelevance: score.ContentRelevance,
		Tips:             ToModelTips(result.Tips),
		TextLength:       len([]rune(computed.ExtractedText)),
		WordCount:        computed.WordCount,
		ExtractedText:    computed.ExtractedText,
		FeedbackStatus:   status,
	}
	if m := result.JobMatch; m != nil {
		matchScore, rate := m.Score, m.MatchRate
		a.JobMatchScore = &matchScore
		a.JobMatchRate = &rate
	}
	return a
}

func ToModelTips(tips []CVTip) []models.Tip {
	out := make([]models.Tip, 0, len(tips))
	for _, t := range tips {
		out = append(out, models.Tip{
			Category:    t.Category,
			Title:       t.Title,
			Description: t.Description,
			Priority:    string(t.Priority),
		})
	}
	return out
}
