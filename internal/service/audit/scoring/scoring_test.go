package scoring

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPointsForRating(t *testing.T) {
	t.Parallel()

	tests := []struct {
		rating string
		want   int
	}{
		{RatingConformityBestPractice, 3},
		{RatingConformity, 2},
		{RatingMinorNC, 1},
		{RatingMajorNC, 0},
		{"", 0},
		{"GARBAGE", 0},
	}

	for _, tt := range tests {
		t.Run(tt.rating, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, PointsForRating(tt.rating))
		})
	}
}

func TestPercent(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name           string
		totalPoints    int
		indicatorCount int
		want           int
	}{
		{"all best practice", 9, 3, 100},
		{"all major NC", 0, 3, 0},
		{"mixed rounds", 5, 3, 56}, // 5/9 = 55.55… → 56
		{"zero indicators", 0, 0, 0},
		{"negative count", 3, -1, 0},
		{"clamped above", 99, 3, 100},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, Percent(tt.totalPoints, tt.indicatorCount))
		})
	}
}

// Improving any single response's rating while holding others fixed must
// never decrease the aggregate percentage.
func TestPercent_MonotonicInRating(t *testing.T) {
	t.Parallel()

	ladder := []string{RatingMajorNC, RatingMinorNC, RatingConformity, RatingConformityBestPractice}

	othersPoints := PointsForRating(RatingConformity) * 4
	prev := -1
	for _, rating := range ladder {
		pct := Percent(othersPoints+PointsForRating(rating), 5)
		assert.GreaterOrEqual(t, pct, prev, "rating %s decreased the score", rating)
		prev = pct
	}
}

func TestAuditPercent(t *testing.T) {
	t.Parallel()

	// No template attached: score is undefined, not zero.
	assert.Nil(t, AuditPercent(false, 0, 0))

	// Template attached but zero indicators: defined and zero.
	got := AuditPercent(true, 0, 0)
	require.NotNil(t, got)
	assert.Equal(t, 0, *got)

	got = AuditPercent(true, 6, 3)
	require.NotNil(t, got)
	assert.Equal(t, 67, *got)
}
