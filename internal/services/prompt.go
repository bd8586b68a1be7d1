package services

import (
	"fmt"
	"strings"

	"alfredoptarigan/ats-cv-scorer/internal/models"
)

const maxCVExcerpt = 6000

type PromptBuilder struct{}

func NewPromptBuilder() *PromptBuilder {
	return &PromptBuilder{}
}

// BuildFeedbackPrompt creates the prompt for the narrative CV review.
func (pb *PromptBuilder) BuildFeedbackPrompt(a *models.Analysis) string {
	jobSection := "No job description was supplied."
	if strings.TrimSpace(a.JobDescription) != "" {
		jobSection = a.JobDescription
	}

	matchLine := "n/a"
	if a.JobMatchScore != nil {
		matchLine = fmt.Sprintf("%d/100", *a.JobMatchScore)
	}

	var tips strings.Builder
	for _, tip := range a.Tips {
		fmt.Fprintf(&tips, "- [%s] %s: %s\n", tip.Priority, tip.Title, tip.Description)
	}
	if tips.Len() == 0 {
		tips.WriteString("- none\n")
	}

	excerpt := a.ExtractedText
	if len([]rune(excerpt)) > maxCVExcerpt {
		excerpt = string([]rune(excerpt)[:maxCVExcerpt])
	}

	return fmt.Sprintf(`You are a friendly South African career coach reviewing a job seeker's CV for ATS compatibility.

JOB TITLE:
%s

JOB DESCRIPTION:
%s

ATS SCORES (0-100):
- Overall: %d
- Keyword match: %d
- Formatting: %d
- Section presence: %d
- Readability: %d
- Length: %d
- B-BBEE compliance signals: %d
- Content relevance: %d
- Job match: %s

TIPS ALREADY GIVEN:
%s
CV TEXT:
%s

Write 3-5 short paragraphs of encouraging, specific feedback. Reference actual content from the CV, explain the two most important improvements first and do not repeat the scores verbatim. Return plain text only.`,
		a.JobTitle, jobSection,
		a.OverallScore, a.KeywordMatch, a.Formatting, a.SectionPresence, a.Readability,
		a.Length, a.BBBEECompliance, a.ContentRelevance, matchLine,
		tips.String(), excerpt)
}

// BuildRetrievalQuery creates the query used to find a stored job description.
func (pb *PromptBuilder) BuildRetrievalQuery(jobTitle string) string {
	return fmt.Sprintf("Job requirements, responsibilities and qualifications for %s", jobTitle)
}

// FormatJobContext joins retrieved chunks of a job description in rank order.
func FormatJobContext(results []SearchResult) string {
	if len(results) == 0 {
		return ""
	}

	parts := make([]string, 0, len(results))
	for _, result := range results {
		parts = append(parts, strings.TrimSpace(result.Text))
	}

	return strings.Join(parts, "\n\n")
}
