package aggregation

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fastygo/teamtracker/domain"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func completed(owner string, points int, on time.Time) domain.Task {
	return domain.Task{
		Owner:         owner,
		Description:   "done",
		Points:        points,
		Completed:     true,
		CreatedDate:   on,
		CompletedDate: &on,
		Category:      domain.CategoryWork,
	}
}

func pending(owner string, points int) domain.Task {
	return domain.Task{
		Owner:       owner,
		Description: "todo",
		Points:      points,
		CreatedDate: day(2024, 1, 1),
		Category:    domain.CategoryOther,
	}
}

func TestBadges(t *testing.T) {
	tests := []struct {
		points int
		want   []domain.Badge
	}{
		{0, []domain.Badge{domain.BadgeGettingStarted}},
		{5, []domain.Badge{}},
		{10, []domain.Badge{domain.BadgeBronze}},
		{25, []domain.Badge{domain.BadgeSilver, domain.BadgeBronze}},
		{50, []domain.Badge{domain.BadgeGold, domain.BadgeSilver, domain.BadgeBronze}},
		{150, []domain.Badge{domain.BadgeLegend, domain.BadgeGold, domain.BadgeSilver, domain.BadgeBronze}},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Badges(tt.points), "points=%d", tt.points)
	}
}

func TestLeaderboard_ExcludesPendingOwners(t *testing.T) {
	on := day(2024, 3, 4)
	tasks := []domain.Task{
		completed("Ann", 30, on),
		completed("Ann", 20, on),
		pending("Bo", 10),
	}

	got := Leaderboard(tasks)

	require.Len(t, got, 1)
	assert.Equal(t, "Ann", got[0].User)
	assert.Equal(t, 50, got[0].TotalPoints)
	assert.Equal(t, 1, got[0].Rank)
	assert.Equal(t, 0.5, got[0].Progress)
	assert.Equal(t, []domain.Badge{domain.BadgeGold, domain.BadgeSilver, domain.BadgeBronze}, got[0].Badges)
}

func TestLeaderboard_OrdersByTotalThenFirstSeen(t *testing.T) {
	on := day(2024, 3, 4)
	tasks := []domain.Task{
		completed("Cy", 5, on),
		completed("Ann", 8, on),
		completed("Bo", 5, on),
		completed("Dee", 9, on),
		completed("Ann", 1, on),
	}

	got := Leaderboard(tasks)

	require.Len(t, got, 4)
	// Ann and Dee tie on 9; Ann was seen first. Cy and Bo tie on 5; Cy was seen first.
	assert.Equal(t, []string{"Ann", "Dee", "Cy", "Bo"}, users(got))
	for i, entry := range got {
		assert.Equal(t, i+1, entry.Rank)
	}
}

func TestLeaderboard_EmptyAndIdempotent(t *testing.T) {
	empty := Leaderboard(nil)
	require.NotNil(t, empty)
	assert.Empty(t, empty)

	on := day(2024, 3, 4)
	tasks := []domain.Task{completed("Ann", 4, on), completed("Bo", 7, on), pending("Cy", 2)}
	snapshot := append([]domain.Task(nil), tasks...)

	first := Leaderboard(tasks)
	second := Leaderboard(tasks)
	assert.Equal(t, first, second)
	assert.Equal(t, snapshot, tasks, "input must not be mutated")
}

func TestLeaderboard_TotalMatchesCompletedPoints(t *testing.T) {
	on := day(2024, 5, 6)
	tasks := []domain.Task{
		completed("Ann", 3, on), pending("Ann", 9), completed("Bo", 10, on),
		completed("Cy", 1, on), completed("Bo", 2, on), pending("Dee", 4),
	}

	var want int
	for _, task := range tasks {
		if task.Completed {
			want += task.Points
		}
	}
	var got int
	for _, entry := range Leaderboard(tasks) {
		got += entry.TotalPoints
	}
	assert.Equal(t, want, got)
}

func TestLeaderboard_ProgressIsCapped(t *testing.T) {
	on := day(2024, 5, 6)
	var tasks []domain.Task
	for i := 0; i < 15; i++ {
		tasks = append(tasks, completed("Ann", 10, on))
	}
	got := Leaderboard(tasks)
	require.Len(t, got, 1)
	assert.Equal(t, 150, got[0].TotalPoints)
	assert.Equal(t, 1.0, got[0].Progress)
}

func TestPeriodKey(t *testing.T) {
	key, err := PeriodKey(day(2024, 1, 1), domain.BucketWeek)
	require.NoError(t, err)
	assert.Equal(t, "2024-W01", key)

	// 2021-01-03 belongs to the last ISO week of 2020.
	key, err = PeriodKey(day(2021, 1, 3), domain.BucketWeek)
	require.NoError(t, err)
	assert.Equal(t, "2020-W53", key)

	key, err = PeriodKey(day(2024, 11, 30), domain.BucketMonth)
	require.NoError(t, err)
	assert.Equal(t, "2024-11", key)

	_, err = PeriodKey(day(2024, 1, 1), "year")
	assert.True(t, domain.IsDomainError(err, domain.ErrCodeInvalid))
}

func TestProgressSeries_SameWeekIsSummed(t *testing.T) {
	tasks := []domain.Task{
		completed("Ann", 5, day(2024, 3, 4)),
		completed("Ann", 7, day(2024, 3, 8)),
	}

	got, err := ProgressSeries(tasks, domain.BucketWeek)

	require.NoError(t, err)
	assert.Equal(t, []domain.ProgressPoint{{User: "Ann", Period: "2024-W10", Points: 12}}, got)
}

func TestProgressSeries_GroupsByOwnerAndMonth(t *testing.T) {
	tasks := []domain.Task{
		completed("Bo", 2, day(2024, 2, 10)),
		completed("Ann", 4, day(2024, 1, 31)),
		completed("Ann", 1, day(2024, 2, 1)),
		pending("Ann", 9),
		completed("Bo", 3, day(2024, 2, 28)),
	}

	got, err := ProgressSeries(tasks, domain.BucketMonth)
	require.NoError(t, err)
	SortProgress(got)

	assert.Equal(t, []domain.ProgressPoint{
		{User: "Ann", Period: "2024-01", Points: 4},
		{User: "Ann", Period: "2024-02", Points: 1},
		{User: "Bo", Period: "2024-02", Points: 5},
	}, got)
}

func TestProgressSeries_SkipsMissingCompletionDate(t *testing.T) {
	broken := completed("Bo", 6, day(2024, 3, 4))
	broken.ID = "t-2"
	broken.CompletedDate = nil
	tasks := []domain.Task{completed("Ann", 5, day(2024, 3, 4)), broken}

	got, err := ProgressSeries(tasks, domain.BucketWeek)

	require.Error(t, err)
	assert.True(t, domain.IsDomainError(err, domain.ErrCodeDataIntegrity))
	assert.ErrorIs(t, err, domain.ErrMissingCompletionDate)
	assert.Contains(t, err.Error(), "t-2")
	assert.Equal(t, []domain.ProgressPoint{{User: "Ann", Period: "2024-W10", Points: 5}}, got)
}

func TestProgressSeries_EmptyAndInvalidBucketing(t *testing.T) {
	got, err := ProgressSeries(nil, domain.BucketMonth)
	require.NoError(t, err)
	assert.Empty(t, got)

	_, err = ProgressSeries(nil, "decade")
	assert.True(t, domain.IsDomainError(err, domain.ErrCodeInvalid))
}

func users(entries []domain.LeaderboardEntry) []string {
	out := make([]string, 0, len(entries))
	for _, e := range entries {
		out = append(out, e.User)
	}
	return out
}
