package models

import (
	"time"

	"github.com/google/uuid"
)

type FeedbackStatus string

const (
	FeedbackQueued     FeedbackStatus = "queued"
	FeedbackProcessing FeedbackStatus = "processing"
	FeedbackCompleted  FeedbackStatus = "completed"
	FeedbackFailed     FeedbackStatus = "failed"
	FeedbackSkipped    FeedbackStatus = "skipped"
)

// Tip is the persisted form of a CV improvement tip.
type Tip struct {
	Category    string `json:"category"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Priority    string `json:"priority"`
}

type Analysis struct {
	ID               uuid.UUID      `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	DocumentID       uuid.UUID      `gorm:"type:uuid;not null;index" json:"document_id"`
	JobTitle         string         `gorm:"type:text" json:"job_title"`
	JobDescription   string         `gorm:"type:text" json:"job_description"`
	OverallScore     int            `gorm:"not null" json:"overall_score"`
	KeywordMatch     int            `json:"keyword_match"`
	Formatting       int            `json:"formatting"`
	SectionPresence  int            `json:"section_presence"`
	Readability      int            `json:"readability"`
	Length           int            `json:"length"`
	ContactInfo      int            `json:"contact_info"`
	Education        int            `json:"education"`
	Experience       int            `json:"experience"`
	Skills           int            `json:"skills"`
	BBBEECompliance  int            `json:"bbbee_compliance"`
	ContentRelevance int            `json:"content_relevance"`
	JobMatchScore    *int           `json:"job_match_score,omitempty"`
	JobMatchRate     *float64       `gorm:"type:decimal(4,3)" json:"job_match_rate,omitempty"`
	Tips             []Tip          `gorm:"type:jsonb;serializer:json" json:"tips"`
	TextLength       int            `json:"text_length"`
	WordCount        int            `json:"word_count"`
	ExtractedText    string         `gorm:"type:text" json:"-"`
	FeedbackStatus   FeedbackStatus `gorm:"not null;default:'skipped'" json:"feedback_status"`
	Feedback         *string        `gorm:"type:text" json:"feedback,omitempty"`
	ErrorMessage     *string        `gorm:"type:text" json:"error_message,omitempty"`
	CreatedAt        time.Time      `gorm:"default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt        time.Time      `gorm:"default:CURRENT_TIMESTAMP" json:"updated_at"`

	// Relations
	Document Document `gorm:"foreignKey:DocumentID" json:"-"`
}

func (Analysis) TableName() string {
	return "analyses"
}
