package services

import (
	"fmt"
	"sort"
	"strings"
)

type TipPriority string

const (
	PriorityHigh   TipPriority = "high"
	PriorityMedium TipPriority = "medium"
	PriorityLow    TipPriority = "low"
)

func (p TipPriority) rank() int {
	switch p {
	case PriorityHigh:
		return 0
	case PriorityMedium:
		return 1
	default:
		return 2
	}
}

type CVTip struct {
	Category    string      `json:"category"`
	Title       string      `json:"title"`
	Description string      `json:"description"`
	Priority    TipPriority `json:"priority"`
}

const maxMissingKeywordsInTip = 5

type tipRule struct {
	applies func(s CVScore) bool
	tip     CVTip
}

var tipRules = []tipRule{
	{
		applies: func(s CVScore) bool { return s.ContactInfo < 60 },
		tip: CVTip{
			Category:    "contact",
			Title:       "Add complete contact details",
			Description: "Put your email address, phone number and LinkedIn profile at the top of the CV so recruiters can reach you.",
			Priority:    PriorityHigh,
		},
	},
	{
		applies: func(s CVScore) bool { return s.KeywordMatch < 70 },
		tip: CVTip{
			Category:    "keywords",
			Title:       "Use stronger action verbs",
			Description: "Start bullet points with verbs such as managed, developed, implemented or coordinated.",
			Priority:    PriorityHigh,
		},
	},
	{
		applies: func(s CVScore) bool { return s.Formatting < 70 },
		tip: CVTip{
			Category:    "formatting",
			Title:       "Label your sections clearly",
			Description: "Use standard headings like Profile, Experience, Education, Skills and References so ATS software can find each section.",
			Priority:    PriorityMedium,
		},
	},
	{
		applies: func(s CVScore) bool { return s.Experience < 70 },
		tip: CVTip{
			Category:    "experience",
			Title:       "Expand your work experience",
			Description: "List each position with the company, dates and the responsibilities you held.",
			Priority:    PriorityMedium,
		},
	},
	{
		applies: func(s CVScore) bool { return s.Education < 70 },
		tip: CVTip{
			Category:    "education",
			Title:       "Detail your qualifications",
			Description: "Include the degree or diploma, institution and year, and mention the NQF level where it applies.",
			Priority:    PriorityMedium,
		},
	},
	{
		applies: func(s CVScore) bool { return s.Skills < 70 },
		tip: CVTip{
			Category:    "skills",
			Title:       "Add a dedicated skills section",
			Description: "Group the tools, technologies and competencies you are proficient in under a Skills heading.",
			Priority:    PriorityMedium,
		},
	},
	{
		applies: func(s CVScore) bool { return s.BBBEECompliance <= 60 },
		tip: CVTip{
			Category:    "bbbee",
			Title:       "Mention B-BBEE or Employment Equity status",
			Description: "South African employers often screen for B-BBEE and Employment Equity information. Add it if it applies to you.",
			Priority:    PriorityLow,
		},
	},
	{
		applies: func(s CVScore) bool { return s.Overall >= 85 },
		tip: CVTip{
			Category:    "overall",
			Title:       "Your CV is in great shape",
			Description: "Keep tailoring it to each job description to stay ahead of other applicants.",
			Priority:    PriorityLow,
		},
	},
}

// Recommend derives improvement tips from a score, ordered high to low priority.
func Recommend(score CVScore, match *JobMatch) []CVTip {
	tips := make([]CVTip, 0, len(tipRules)+1)

	if match != nil && match.Score < 75 {
		desc := "Your CV covers few of the words used in the job description."
		if len(match.Missing) > 0 {
			missing := match.Missing
			if len(missing) > maxMissingKeywordsInTip {
				missing = missing[:maxMissingKeywordsInTip]
			}
			desc = fmt.Sprintf("%s Consider adding: %s.", desc, strings.Join(missing, ", "))
		}
		tips = append(tips, CVTip{
			Category:    "job_match",
			Title:       "Tailor your CV to the job description",
			Description: desc,
			Priority:    PriorityHigh,
		})
	}

	for _, rule := range tipRules {
		if rule.applies(score) {
			tips = append(tips, rule.tip)
		}
	}

	sort.SliceStable(tips, func(i, j int) bool {
		return tips[i].Priority.rank() < tips[j].Priority.rank()
	})
	return tips
}
