package handlers

import (
	"github.com/google/uuid"

	"alfredoptarigan/ats-cv-scorer/internal/models"
	"alfredoptarigan/ats-cv-scorer/internal/services"
)

func newScoreBreakdown(s services.CVScore) models.ScoreBreakdown {
	return models.ScoreBreakdown{
		Overall:          s.Overall,
		KeywordMatch:     s.KeywordMatch,
		Formatting:       s.Formatting,
		SectionPresence:  s.SectionPresence,
		Readability:      s.Readability,
		Length:           s.Length,
		ContactInfo:      s.ContactInfo,
		Education:        s.Education,
		Experience:       s.Experience,
		Skills:           s.Skills,
		BBBEECompliance:  s.BBBEECompliance,
		ContentRelevance: s.ContentRelevance,
	}
}

func newJobMatchData(m *services.JobMatch) *models.JobMatchData {
	if m == nil {
		return nil
	}
	return &models.JobMatchData{
		Score:     m.Score,
		MatchRate: m.MatchRate,
		Matched:   m.Matched,
		Missing:   m.Missing,
	}
}

func newAnalysisResponse(r *services.AnalysisResult) models.AnalysisResponse {
	resp := models.AnalysisResponse{
		Filename:       r.Filename,
		JobTitle:       r.JobTitle,
		Score:          newScoreBreakdown(r.Score),
		JobMatch:       newJobMatchData(r.JobMatch),
		Tips:           services.ToModelTips(r.Tips),
		WordCount:      r.WordCount,
		FeedbackStatus: string(r.FeedbackStatus),
		Cached:         r.Cached,
	}
	if r.ID != uuid.Nil {
		resp.ID = r.ID.String()
		resp.DocumentID = r.DocumentID.String()
	}
	return resp
}

func storedAnalysisResponse(a *models.Analysis) models.AnalysisResponse {
	resp := models.AnalysisResponse{
		ID:         a.ID.String(),
		DocumentID: a.DocumentID.String(),
		Filename:   a.Document.OriginalFileName,
		JobTitle:   a.JobTitle,
		Score: models.ScoreBreakdown{
			Overall:          a.OverallScore,
			KeywordMatch:     a.KeywordMatch,
			Formatting:       a.Formatting,
			SectionPresence:  a.SectionPresence,
			Readability:      a.Readability,
			Length:           a.Length,
			ContactInfo:      a.ContactInfo,
			Education:        a.Education,
			Experience:       a.Experience,
			Skills:           a.Skills,
			BBBEECompliance:  a.BBBEECompliance,
			ContentRelevance: a.ContentRelevance,
		},
		Tips:           a.Tips,
		WordCount:      a.WordCount,
		FeedbackStatus: string(a.FeedbackStatus),
	}

	if a.JobMatchScore != nil {
		match := &models.JobMatchData{Score: *a.JobMatchScore}
		if a.JobMatchRate != nil {
			match.MatchRate = *a.JobMatchRate
		}
		resp.JobMatch = match
	}

	if a.FeedbackStatus == models.FeedbackCompleted {
		resp.Feedback = a.Feedback
	}
	if a.FeedbackStatus == models.FeedbackFailed {
		resp.ErrorMessage = a.ErrorMessage
	}

	if resp.Tips == nil {
		resp.Tips = []models.Tip{}
	}
	return resp
}
