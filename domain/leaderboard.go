package domain

import (
	"strings"
	"time"
)

// Badge is a cumulative achievement label unlocked at a points threshold.
type Badge string

const (
	BadgeLegend         Badge = "Legend"
	BadgeGold           Badge = "Gold"
	BadgeSilver         Badge = "Silver"
	BadgeBronze         Badge = "Bronze"
	BadgeGettingStarted Badge = "Getting Started"
)

// LeaderboardEntry is a derived per-user total over completed tasks.
type LeaderboardEntry struct {
	Rank        int     `json:"rank"`
	User        string  `json:"user"`
	TotalPoints int     `json:"total_points"`
	Badges      []Badge `json:"badges"`
	// Progress is min(TotalPoints, 100) / 100.
	Progress float64 `json:"progress"`
}

// Leaderboard is the dashboard view of ranked entries.
type Leaderboard struct {
	Entries     []LeaderboardEntry `json:"entries"`
	Rejected    []string           `json:"rejected,omitempty"`
	GeneratedAt time.Time          `json:"generated_at"`
}

// Bucketing selects the period granularity of a progress series.
type Bucketing string

const (
	BucketWeek  Bucketing = "week"
	BucketMonth Bucketing = "month"
)

// ParseBucketing accepts "week" or "month" in any case; empty defaults to week.
func ParseBucketing(value string) (Bucketing, error) {
	switch Bucketing(strings.ToLower(strings.TrimSpace(value))) {
	case "", BucketWeek:
		return BucketWeek, nil
	case BucketMonth:
		return BucketMonth, nil
	default:
		return "", NewError(ErrCodeInvalid, "bucket must be week or month")
	}
}

func (b Bucketing) Valid() bool {
	return b == BucketWeek || b == BucketMonth
}

// ProgressPoint is the points a user completed within one period bucket.
type ProgressPoint struct {
	User   string `json:"user"`
	Period string `json:"period"`
	Points int    `json:"points"`
}
