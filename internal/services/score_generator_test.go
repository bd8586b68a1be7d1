package services

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// randFunc adapts a plain function to RandomSource.
type randFunc func(min, max int) int

func (f randFunc) IntN(min, max int) int { return f(min, max) }

var (
	minSource = randFunc(func(min, _ int) int { return min })
	maxSource = randFunc(func(_, max int) int { return max })
	midSource = randFunc(func(min, max int) int { return (min + max) / 2 })
)

const sampleCV = "Email: jane@example.com\nEducation: Bachelor degree, University of Cape Town\nExperience: worked as a developer\nSkills: Go"

func assertScoreBounds(t *testing.T, s CVScore) {
	t.Helper()
	assert.GreaterOrEqual(t, s.Overall, 50)
	assert.LessOrEqual(t, s.Overall, 98)
	assert.GreaterOrEqual(t, s.ContactInfo, 30)
	assert.LessOrEqual(t, s.ContactInfo, 100)
	for _, v := range []int{s.Education, s.Experience, s.Skills, s.Formatting, s.KeywordMatch, s.ContentRelevance} {
		assert.GreaterOrEqual(t, v, 40)
		assert.LessOrEqual(t, v, 100)
	}
	assert.GreaterOrEqual(t, s.SectionPresence, 60)
	assert.LessOrEqual(t, s.SectionPresence, 95)
	assert.GreaterOrEqual(t, s.Readability, 65)
	assert.LessOrEqual(t, s.Readability, 90)
	assert.GreaterOrEqual(t, s.Length, 70)
	assert.LessOrEqual(t, s.Length, 90)
	assert.GreaterOrEqual(t, s.BBBEECompliance, 40)
	assert.LessOrEqual(t, s.BBBEECompliance, 95)
}

func TestScoreGenerator_SameSeedSameScore(t *testing.T) {
	a := NewScoreGenerator(NewRandomSource(42)).Score(sampleCV, "Go developer with PostgreSQL")
	b := NewScoreGenerator(NewRandomSource(42)).Score(sampleCV, "Go developer with PostgreSQL")
	assert.Equal(t, a, b)
}

func TestScoreGenerator_BoundsAcrossSeeds(t *testing.T) {
	texts := []string{
		"",
		"x",
		sampleCV,
		TemplateSenior.Text(),
		TemplateGraduate.Text(),
		TemplateMidLevel.Text(),
		strings.Repeat("experience skills degree email managed award ", 400),
	}
	jobs := []string{"", "a b c d e f g", "Senior Go engineer, Kubernetes, PostgreSQL, Johannesburg"}

	for seed := uint64(1); seed <= 50; seed++ {
		gen := NewScoreGenerator(NewRandomSource(seed))
		for _, text := range texts {
			for _, jd := range jobs {
				assertScoreBounds(t, gen.Score(text, jd))
			}
		}
	}
}

func TestScoreGenerator_BoundsWithExtremeSources(t *testing.T) {
	for _, src := range []RandomSource{minSource, maxSource} {
		gen := NewScoreGenerator(src)
		assertScoreBounds(t, gen.Score("", ""))
		assertScoreBounds(t, gen.Score(TemplateSenior.Text(), "Project manager with PMP certification"))
	}
}

func TestScoreGenerator_EmptyTextMinSource(t *testing.T) {
	s := NewScoreGenerator(minSource).Score("", "")

	assert.Equal(t, CVScore{
		Overall:          62,
		KeywordMatch:     45,
		Formatting:       50,
		SectionPresence:  60,
		Readability:      65,
		Length:           70,
		ContactInfo:      30,
		Education:        45,
		Experience:       45,
		Skills:           50,
		BBBEECompliance:  40,
		ContentRelevance: 47,
	}, s)
}

func TestScoreGenerator_EmptyTextMaxSource(t *testing.T) {
	s := NewScoreGenerator(maxSource).Score("", "")

	assert.Equal(t, 68, s.Overall)
	assert.Equal(t, 55, s.ContactInfo)
	assert.Equal(t, 95, s.SectionPresence)
	assert.Equal(t, 90, s.Readability)
	assert.Equal(t, 90, s.Length)
	assert.Equal(t, 65, s.BBBEECompliance)
	assert.Equal(t, 77, s.ContentRelevance)
}

func TestScoreGenerator_SampleCV(t *testing.T) {
	gen := &scoreGenerator{rnd: midSource}
	a := gen.analyze(sampleCV, "")

	assert.Equal(t, [categoryCount]int{2, 3, 2, 1, 0, 0, 0}, a.counts)
	assert.InDelta(t, 6.67, a.density, 0.01)
	assert.Equal(t, 16, a.wordCount)
	assert.Equal(t, 80, a.saScore)
	assert.Nil(t, a.jobMatch)

	assert.Equal(t, CVScore{
		Overall:          78,
		KeywordMatch:     60,
		Formatting:       62,
		SectionPresence:  77,
		Readability:      77,
		Length:           80,
		ContactInfo:      92,
		Education:        87,
		Experience:       60,
		Skills:           65,
		BBBEECompliance:  50,
		ContentRelevance: 71,
	}, a.score)
}

func TestScoreGenerator_OneHitPerCategory(t *testing.T) {
	keywords := "email degree experience skills achieved manage resume "
	text := keywords + strings.Repeat(".", 1000-len(keywords))
	require.Len(t, []rune(text), 1000)

	// Jitter draws are symmetric around zero, so they come back as zero.
	lowNoJitter := randFunc(func(min, max int) int {
		if min < 0 {
			return 0
		}
		return min
	})
	highNoJitter := randFunc(func(min, max int) int {
		if min < 0 {
			return 0
		}
		return max
	})

	a := (&scoreGenerator{rnd: lowNoJitter}).analyze(text, "")
	assert.Equal(t, [categoryCount]int{1, 1, 1, 1, 1, 1, 1}, a.counts)
	assert.InDelta(t, 0.7, a.density, 1e-9)
	assert.Zero(t, densityAdjustment(a.density))
	assert.Equal(t, 8, a.wordCount)
	assert.Equal(t, 70, a.saScore)
	assert.Nil(t, a.jobMatch)

	// Only contact clears its threshold with a single hit.
	assert.Equal(t, CVScore{
		Overall:          70,
		KeywordMatch:     50,
		Formatting:       55,
		SectionPresence:  60,
		Readability:      65,
		Length:           70,
		ContactInfo:      85,
		Education:        50,
		Experience:       50,
		Skills:           55,
		BBBEECompliance:  40,
		ContentRelevance: 52,
	}, a.score)

	high := (&scoreGenerator{rnd: highNoJitter}).analyze(text, "").score
	assert.Equal(t, 70, high.Overall)
	assert.Equal(t, 100, high.ContactInfo)
	assert.Equal(t, 70, high.Education)
	assert.Equal(t, 70, high.Experience)
	assert.Equal(t, 75, high.Skills)
	assert.Equal(t, 70, high.Formatting)
	assert.Equal(t, 70, high.KeywordMatch)
}

func TestScoreGenerator_BBBEEMentionRaisesCompliance(t *testing.T) {
	gen := NewScoreGenerator(midSource)
	assert.Equal(t, 85, gen.Score("B-BBEE level 1 contributor", "").BBBEECompliance)
	assert.Equal(t, 50, gen.Score("no equity statement", "").BBBEECompliance)
}

func TestScoreGenerator_JobMatch(t *testing.T) {
	gen := NewScoreGenerator(midSource)

	t.Run("all keywords present", func(t *testing.T) {
		_, match := gen.ScoreWithMatch("golang kubernetes postgres", "Golang, Kubernetes, Postgres")
		require.NotNil(t, match)
		assert.Equal(t, 95, match.Score)
		assert.Equal(t, 1.0, match.MatchRate)
		assert.Equal(t, []string{"golang", "kubernetes", "postgres"}, match.Matched)
		assert.Empty(t, match.Missing)
	})

	t.Run("no keywords present", func(t *testing.T) {
		_, match := gen.ScoreWithMatch("golang", "Python Django Flask developer")
		require.NotNil(t, match)
		assert.Equal(t, 60, match.Score)
		assert.Equal(t, 0.0, match.MatchRate)
		assert.Equal(t, []string{"python", "django", "flask", "developer"}, match.Missing)
	})

	t.Run("reweights overall", func(t *testing.T) {
		s, match := gen.ScoreWithMatch("golang", "golang developer")
		require.NotNil(t, match)
		assert.Equal(t, 78, match.Score)
		assert.Equal(t, 69, s.Overall)
	})

	t.Run("short description ignored", func(t *testing.T) {
		s, match := gen.ScoreWithMatch("golang", "golang dev")
		assert.Nil(t, match)
		assert.Equal(t, 65, s.Overall)
	})

	t.Run("description without usable tokens", func(t *testing.T) {
		s, match := gen.ScoreWithMatch("golang", "a b c d e f g")
		require.NotNil(t, match)
		assert.Equal(t, 60, match.Score)
		assert.Equal(t, 65, s.Overall)
	})
}

func TestMatchDensityAdjustment(t *testing.T) {
	assert.Equal(t, 0.0, matchDensity(0, 0))
	assert.Equal(t, -5, densityAdjustment(matchDensity(0, 0)))
	assert.Equal(t, 8, densityAdjustment(2.01))
	assert.Equal(t, 4, densityAdjustment(2))
	assert.Equal(t, 0, densityAdjustment(1))
	assert.Equal(t, 0, densityAdjustment(0.5))
	assert.Equal(t, -5, densityAdjustment(0.49))
}

func TestWordCountAdjustment(t *testing.T) {
	assert.Equal(t, -5, wordCountAdjustment(199))
	assert.Equal(t, 0, wordCountAdjustment(200))
	assert.Equal(t, 0, wordCountAdjustment(600))
	assert.Equal(t, 2, wordCountAdjustment(601))
	assert.Equal(t, 2, wordCountAdjustment(1000))
	assert.Equal(t, -3, wordCountAdjustment(1001))
}

func TestSouthAfricanScore(t *testing.T) {
	assert.Equal(t, 70, southAfricanScore(""))
	assert.Equal(t, 80, southAfricanScore("Based in Durban"))
	assert.Equal(t, 90, southAfricanScore("NQF level 7, Pretoria"))
	assert.Equal(t, 95, southAfricanScore("B-BBEE level 2, NQF 6, Johannesburg"))
}

func TestRoundHalfUp(t *testing.T) {
	assert.Equal(t, 78, roundHalfUp(77.5))
	assert.Equal(t, 47, roundHalfUp(46.67))
	assert.Equal(t, 46, roundHalfUp(46.49))
}
