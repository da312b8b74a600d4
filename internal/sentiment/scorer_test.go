package sentiment_test

import (
	"testing"

	"go-paie/internal/sentiment"

	"github.com/stretchr/testify/assert"
)

func TestCalculateScore_PerfectMonth(t *testing.T) {
	score := sentiment.CalculateScore(sentiment.Metrics{
		WorkingDays: 22,
		PresentDays: 22,
	})

	assert.Equal(t, 10.0, score.AttendanceScore)
	assert.Equal(t, 10.0, score.PunctualityScore)
	assert.Equal(t, 10.0, score.AssiduityScore)
	assert.Equal(t, 8.0, score.WorkloadScore)
	assert.Equal(t, 96, score.OverallScore)
	assert.Equal(t, sentiment.SentimentPositive, score.Sentiment)
	assert.Equal(t, sentiment.RiskLow, score.RiskLevel)
	assert.Equal(t, "Félicitations et reconnaissance recommandées.", score.Recommendations)
	assert.Equal(t, 100.0, score.Metrics.AttendanceRate)
}

func TestCalculateScore_StrugglingMonth(t *testing.T) {
	score := sentiment.CalculateScore(sentiment.Metrics{
		WorkingDays: 22,
		PresentDays: 10,
		LateDays:    6,
		AbsentDays:  8,
	})

	// 6 late out of 10 present is a 60% late rate, well past the floor.
	assert.Equal(t, 0.0, score.PunctualityScore)
	assert.Equal(t, 0.0, score.AssiduityScore)
	assert.Equal(t, 30, score.OverallScore)
	assert.Equal(t, sentiment.SentimentNegative, score.Sentiment)
	assert.Equal(t, sentiment.RiskHigh, score.RiskLevel)
	assert.Contains(t, score.Recommendations, "Suivi ponctualité recommandé.")
	assert.Contains(t, score.Recommendations, "Entretien individuel suggéré pour comprendre les absences.")
	assert.Contains(t, score.Recommendations, "Programme d'accompagnement RH recommandé.")
}

func TestCalculateScore_WorkloadTiers(t *testing.T) {
	cases := []struct {
		name      string
		leaveDays float64
		expected  float64
	}{
		{"light leave", 2, 8},
		{"moderate leave", 4, 6},
		{"heavy leave", 7, 4},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			score := sentiment.CalculateScore(sentiment.Metrics{
				WorkingDays: 22,
				PresentDays: 15,
				LeaveDays:   tc.leaveDays,
			})
			assert.Equal(t, tc.expected, score.WorkloadScore)
		})
	}
}

func TestCalculateScore_EmptyLedger(t *testing.T) {
	score := sentiment.CalculateScore(sentiment.Metrics{WorkingDays: 22})

	// No presence data leaves punctuality and assiduity at their maximums;
	// only the attendance component collapses.
	assert.Equal(t, 0.0, score.AttendanceScore)
	assert.Equal(t, 10.0, score.PunctualityScore)
	assert.Equal(t, 10.0, score.AssiduityScore)
	assert.Equal(t, 66, score.OverallScore)
	assert.Equal(t, sentiment.SentimentPositive, score.Sentiment)
	assert.Equal(t, sentiment.RiskLow, score.RiskLevel)
}

func TestCalculateScore_ZeroWorkingDays(t *testing.T) {
	score := sentiment.CalculateScore(sentiment.Metrics{})

	assert.Equal(t, 0.0, score.AttendanceScore)
	assert.Equal(t, 66, score.OverallScore)
}

func TestTrendAgainst(t *testing.T) {
	prev := func(v int) *int { return &v }

	cases := []struct {
		name     string
		current  int
		previous *int
		expected string
	}{
		{"no history", 70, nil, sentiment.TrendStable},
		{"clear improvement", 70, prev(60), sentiment.TrendImproving},
		{"clear decline", 50, prev(60), sentiment.TrendDeclining},
		{"small moves are noise", 63, prev(60), sentiment.TrendStable},
		{"five points up is still stable", 65, prev(60), sentiment.TrendStable},
		{"six points up improves", 66, prev(60), sentiment.TrendImproving},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, sentiment.TrendAgainst(tc.current, tc.previous))
		})
	}
}
