package models

type ValidateResponse struct {
	IsValid bool   `json:"is_valid"`
	Reason  string `json:"reason,omitempty"`
}

type ScoreRequest struct {
	CVText         string `json:"cv_text" validate:"required,max=200000"`
	JobDescription string `json:"job_description" validate:"max=50000"`
}

type ScoreBreakdown struct {
	Overall          int `json:"overall"`
	KeywordMatch     int `json:"keyword_match"`
	Formatting       int `json:"formatting"`
	SectionPresence  int `json:"section_presence"`
	Readability      int `json:"readability"`
	Length           int `json:"length"`
	ContactInfo      int `json:"contact_info"`
	Education        int `json:"education"`
	Experience       int `json:"experience"`
	Skills           int `json:"skills"`
	BBBEECompliance  int `json:"bbbee_compliance"`
	ContentRelevance int `json:"content_relevance"`
}

type JobMatchData struct {
	Score     int      `json:"score"`
	MatchRate float64  `json:"match_rate"`
	Matched   []string `json:"matched_keywords,omitempty"`
	Missing   []string `json:"missing_keywords,omitempty"`
}

type ScoreResponse struct {
	Score    ScoreBreakdown `json:"score"`
	JobMatch *JobMatchData  `json:"job_match,omitempty"`
	Tips     []Tip          `json:"tips"`
}

type AnalysisResponse struct {
	ID             string         `json:"id,omitempty"`
	DocumentID     string         `json:"document_id,omitempty"`
	Filename       string         `json:"filename,omitempty"`
	JobTitle       string         `json:"job_title,omitempty"`
	Score          ScoreBreakdown `json:"score"`
	JobMatch       *JobMatchData  `json:"job_match,omitempty"`
	Tips           []Tip          `json:"tips"`
	WordCount      int            `json:"word_count"`
	FeedbackStatus string         `json:"feedback_status"`
	Feedback       *string        `json:"feedback,omitempty"`
	ErrorMessage   *string        `json:"error_message,omitempty"`
	Cached         bool           `json:"cached"`
}
