package services

import (
	"math"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

// CVScore is the result of one scoring run. It is built once and never mutated.
type CVScore struct {
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

// JobMatch describes how much of a job description's vocabulary the CV covers.
type JobMatch struct {
	Score     int      `json:"score"`
	MatchRate float64  `json:"match_rate"`
	Matched   []string `json:"matched_keywords"`
	Missing   []string `json:"missing_keywords"`
}

type ScoreGenerator interface {
	Score(cvText, jobDescription string) CVScore
	ScoreWithMatch(cvText, jobDescription string) (CVScore, *JobMatch)
}

type category int

const (
	categoryContact category = iota
	categoryEducation
	categoryExperience
	categorySkills
	categoryAchievements
	categoryKeywords
	categoryFormatting
	categoryCount
)

var categoryPatterns = [categoryCount]*regexp.Regexp{
	categoryContact:      regexp.MustCompile(`(?i)\b(?:email|e-mail|phone|tel|telephone|mobile|cell|linkedin|address)\b|[a-z0-9._%+\-]+@[a-z0-9.\-]+\.[a-z]{2,}`),
	categoryEducation:    regexp.MustCompile(`(?i)\b(?:degree|bachelors?|masters?|diploma|university|college|matric|honours|phd|certificate|qualifications?)\b`),
	categoryExperience:   regexp.MustCompile(`(?i)\b(?:experience|employed|employment|worked|position|role|responsibilities|company)\b`),
	categorySkills:       regexp.MustCompile(`(?i)\b(?:skills?|proficient|competencies|expertise|technologies|tools)\b`),
	categoryAchievements: regexp.MustCompile(`(?i)\b(?:achieved|increased|reduced|improved|awarded|award|delivered|exceeded)\b`),
	categoryKeywords:     regexp.MustCompile(`(?i)\b(?:manage|managed|led|developed|implemented|coordinated|designed|analysed|analyzed|negotiated)\b`),
	categoryFormatting:   regexp.MustCompile(`(?i)\b(?:resume|curriculum vitae|cv|profile|summary|objective|references)\b|\brésumé`),
}

var (
	bbbeePattern    = regexp.MustCompile(`(?i)\b(?:b-?bbee|bee|employment equity|broad-based black economic empowerment)\b`)
	nqfPattern      = regexp.MustCompile(`(?i)\b(?:nqf|saqa)\b`)
	locationPattern = regexp.MustCompile(`(?i)\b(?:south africa|johannesburg|cape town|durban|pretoria|gauteng|western cape|kwazulu-natal|port elizabeth|gqeberha|bloemfontein)\b`)
)

type scoreRange struct {
	min, max int
}

// gatedField picks high when the category count exceeds threshold.
type gatedField struct {
	category  category
	threshold int
	high      scoreRange
	low       scoreRange
	clamp     scoreRange
}

var (
	contactField    = gatedField{categoryContact, 0, scoreRange{85, 100}, scoreRange{30, 50}, scoreRange{30, 100}}
	educationField  = gatedField{categoryEducation, 2, scoreRange{80, 95}, scoreRange{50, 70}, scoreRange{40, 100}}
	experienceField = gatedField{categoryExperience, 5, scoreRange{80, 95}, scoreRange{50, 70}, scoreRange{40, 100}}
	skillsField     = gatedField{categorySkills, 3, scoreRange{80, 95}, scoreRange{55, 75}, scoreRange{40, 100}}
	formattingField = gatedField{categoryFormatting, 2, scoreRange{80, 95}, scoreRange{55, 70}, scoreRange{40, 100}}
	keywordField    = gatedField{categoryKeywords, 5, scoreRange{80, 95}, scoreRange{50, 70}, scoreRange{40, 100}}
)

var (
	sectionPresenceRange = scoreRange{60, 95}
	readabilityRange     = scoreRange{65, 90}
	lengthRange          = scoreRange{70, 90}
	bbbeeHigh            = scoreRange{75, 95}
	bbbeeLow             = scoreRange{40, 60}
	bbbeeClamp           = scoreRange{40, 95}
	overallPreJitter     = scoreRange{55, 95}
	overallFinal         = scoreRange{50, 98}
	saScoreClamp         = scoreRange{60, 95}
)

const (
	baseOverallScore  = 75
	baseSAScore       = 70
	subScoreJitter    = 5
	overallJitter     = 3
	minJobDescLength  = 10
	minJobKeywordLen  = 4
	jobMatchBase      = 60.0
	jobMatchSpan      = 35.0
	cvWeight          = 0.7
	jobMatchWeight    = 0.3
	noTokenMatchScore = 60
)

// scoreAnalysis keeps intermediate values that are not part of CVScore.
type scoreAnalysis struct {
	score     CVScore
	jobMatch  *JobMatch
	counts    [categoryCount]int
	density   float64
	wordCount int
	// saScore is derived from South African signals but not folded into Overall.
	saScore int
}

type scoreGenerator struct {
	rnd RandomSource
}

func NewScoreGenerator(rnd RandomSource) ScoreGenerator {
	if rnd == nil {
		rnd = NewTimeSeededRandomSource()
	}
	return &scoreGenerator{rnd: rnd}
}

// Score implements ScoreGenerator.
func (g *scoreGenerator) Score(cvText, jobDescription string) CVScore {
	return g.analyze(cvText, jobDescription).score
}

// ScoreWithMatch implements ScoreGenerator.
func (g *scoreGenerator) ScoreWithMatch(cvText, jobDescription string) (CVScore, *JobMatch) {
	a := g.analyze(cvText, jobDescription)
	return a.score, a.jobMatch
}

func (g *scoreGenerator) analyze(cvText, jobDescription string) scoreAnalysis {
	var a scoreAnalysis

	total := 0
	for c := category(0); c < categoryCount; c++ {
		a.counts[c] = len(categoryPatterns[c].FindAllStringIndex(cvText, -1))
		total += a.counts[c]
	}

	overall := baseOverallScore
	a.density = matchDensity(total, utf8.RuneCountInString(cvText))
	overall += densityAdjustment(a.density)

	a.saScore = southAfricanScore(cvText)

	contact := g.drawGated(contactField, a.counts)
	education := g.drawGated(educationField, a.counts)
	experience := g.drawGated(experienceField, a.counts)
	skills := g.drawGated(skillsField, a.counts)
	formatting := g.drawGated(formattingField, a.counts)
	keywords := g.drawGated(keywordField, a.counts)
	sectionPresence := g.draw(sectionPresenceRange)
	readability := g.draw(readabilityRange)
	length := g.draw(lengthRange)

	a.wordCount = len(strings.Fields(cvText))
	overall += wordCountAdjustment(a.wordCount)

	if utf8.RuneCountInString(strings.TrimSpace(jobDescription)) > minJobDescLength {
		match, ok := computeJobMatch(cvText, jobDescription)
		if ok {
			overall = roundHalfUp(float64(overall)*cvWeight + float64(match.Score)*jobMatchWeight)
		}
		a.jobMatch = &match
	}

	overall = clamp(overall, overallPreJitter)
	overall += g.rnd.IntN(-overallJitter, overallJitter)
	overall = clamp(overall, overallFinal)

	contact = clamp(contact+g.jitter(), contactField.clamp)
	education = clamp(education+g.jitter(), educationField.clamp)
	experience = clamp(experience+g.jitter(), experienceField.clamp)
	skills = clamp(skills+g.jitter(), skillsField.clamp)
	formatting = clamp(formatting+g.jitter(), formattingField.clamp)
	keywords = clamp(keywords+g.jitter(), keywordField.clamp)
	sectionPresence = clamp(sectionPresence+g.jitter(), sectionPresenceRange)
	readability = clamp(readability+g.jitter(), readabilityRange)
	length = clamp(length+g.jitter(), lengthRange)

	bbbee := bbbeeLow
	if bbbeePattern.MatchString(cvText) {
		bbbee = bbbeeHigh
	}
	bbbeeScore := clamp(g.draw(bbbee)+g.jitter(), bbbeeClamp)

	a.score = CVScore{
		Overall:          overall,
		KeywordMatch:     keywords,
		Formatting:       formatting,
		SectionPresence:  sectionPresence,
		Readability:      readability,
		Length:           length,
		ContactInfo:      contact,
		Education:        education,
		Experience:       experience,
		Skills:           skills,
		BBBEECompliance:  bbbeeScore,
		ContentRelevance: roundHalfUp(float64(experience+education+skills) / 3),
	}
	return a
}

func (g *scoreGenerator) drawGated(f gatedField, counts [categoryCount]int) int {
	if counts[f.category] > f.threshold {
		return g.draw(f.high)
	}
	return g.draw(f.low)
}

func (g *scoreGenerator) draw(r scoreRange) int {
	return g.rnd.IntN(r.min, r.max)
}

func (g *scoreGenerator) jitter() int {
	return g.rnd.IntN(-subScoreJitter, subScoreJitter)
}

// matchDensity is matches per hundred characters. Empty text has zero density.
func matchDensity(matches, length int) float64 {
	if length == 0 {
		return 0
	}
	return float64(matches) / (float64(length) / 100)
}

func densityAdjustment(density float64) int {
	switch {
	case density > 2:
		return 8
	case density > 1:
		return 4
	case density < 0.5:
		return -5
	default:
		return 0
	}
}

func wordCountAdjustment(words int) int {
	switch {
	case words < 200:
		return -5
	case words > 1000:
		return -3
	case words > 600:
		return 2
	default:
		return 0
	}
}

func southAfricanScore(text string) int {
	score := baseSAScore
	for _, re := range []*regexp.Regexp{bbbeePattern, nqfPattern, locationPattern} {
		if re.MatchString(text) {
			score += 10
		}
	}
	return clamp(score, saScoreClamp)
}

// computeJobMatch reports false when the description yields no usable tokens,
// in which case the overall score is left alone.
func computeJobMatch(cvText, jobDescription string) (JobMatch, bool) {
	tokens := jobKeywords(jobDescription)
	if len(tokens) == 0 {
		return JobMatch{Score: noTokenMatchScore}, false
	}

	lowerCV := strings.ToLower(cvText)
	hits := 0
	seen := make(map[string]struct{}, len(tokens))
	match := JobMatch{Matched: []string{}, Missing: []string{}}
	for _, tok := range tokens {
		present := strings.Contains(lowerCV, tok)
		if present {
			hits++
		}
		if _, dup := seen[tok]; dup {
			continue
		}
		seen[tok] = struct{}{}
		if present {
			match.Matched = append(match.Matched, tok)
		} else {
			match.Missing = append(match.Missing, tok)
		}
	}

	match.MatchRate = float64(hits) / float64(len(tokens))
	match.Score = roundHalfUp(jobMatchBase + match.MatchRate*jobMatchSpan)
	return match, true
}

func jobKeywords(jobDescription string) []string {
	fields := strings.FieldsFunc(strings.ToLower(jobDescription), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})

	tokens := fields[:0]
	for _, f := range fields {
		if utf8.RuneCountInString(f) >= minJobKeywordLen {
			tokens = append(tokens, f)
		}
	}
	return tokens
}

func clamp(v int, r scoreRange) int {
	if v < r.min {
		return r.min
	}
	if v > r.max {
		return r.max
	}
	return v
}

func roundHalfUp(x float64) int {
	return int(math.Floor(x + 0.5))
}
