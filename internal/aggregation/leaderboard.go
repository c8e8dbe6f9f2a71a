package aggregation

import (
	"slices"

	"github.com/fastygo/teamtracker/domain"
)

const progressCap = 100

// Leaderboard sums points of completed tasks per owner and ranks owners by
// total, descending. Owners with equal totals keep the order in which they were
// first seen in tasks. Owners without a completed task are not listed.
func Leaderboard(tasks []domain.Task) []domain.LeaderboardEntry {
	totals := make(map[string]int)
	var order []string
	for _, task := range tasks {
		if !task.Completed {
			continue
		}
		if _, seen := totals[task.Owner]; !seen {
			order = append(order, task.Owner)
		}
		totals[task.Owner] += task.Points
	}

	entries := make([]domain.LeaderboardEntry, 0, len(order))
	for _, owner := range order {
		entries = append(entries, domain.LeaderboardEntry{User: owner, TotalPoints: totals[owner]})
	}
	slices.SortStableFunc(entries, func(a, b domain.LeaderboardEntry) int {
		return b.TotalPoints - a.TotalPoints
	})

	for i := range entries {
		entries[i].Rank = i + 1
		entries[i].Badges = Badges(entries[i].TotalPoints)
		entries[i].Progress = float64(min(entries[i].TotalPoints, progressCap)) / progressCap
	}
	return entries
}
