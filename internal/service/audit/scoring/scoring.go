// Package scoring maps indicator ratings to point values and aggregates
// audit percentage scores. The mapping is versioned: every stored response
// carries the version it was scored under, so historical scores remain
// stable if the weights change later.
package scoring

import "math"

// Rating values mirrored here to keep the package dependency-free.
const (
	RatingConformityBestPractice = "CONFORMITY_BEST_PRACTICE"
	RatingConformity             = "CONFORMITY"
	RatingMinorNC                = "MINOR_NC"
	RatingMajorNC                = "MAJOR_NC"
)

// Version identifies the current scoring table.
const Version = "v1"

// maxPoints is the score of the best possible rating.
const maxPoints = 3

// PointsForRating returns the point value for a rating under the current
// scoring table. Unknown ratings score zero; the function is total.
func PointsForRating(rating string) int {
	switch rating {
	case RatingConformityBestPractice:
		return 3
	case RatingConformity:
		return 2
	case RatingMinorNC:
		return 1
	default:
		return 0
	}
}

// Percent aggregates total points over indicatorCount indicators into a
// rounded 0–100 percentage. Zero indicators yields 0.
func Percent(totalPoints, indicatorCount int) int {
	if indicatorCount <= 0 {
		return 0
	}
	pct := float64(totalPoints) / float64(indicatorCount*maxPoints) * 100
	pct = math.Min(math.Max(pct, 0), 100)
	return int(math.Round(pct))
}

// AuditPercent computes the audit's percentage score. It returns nil when no
// template is attached — a state distinct from "template with zero
// indicators", which scores 0.
func AuditPercent(hasTemplate bool, totalPoints, indicatorCount int) *int {
	if !hasTemplate {
		return nil
	}
	p := Percent(totalPoints, indicatorCount)
	return &p
}
