package aggregation

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/fastygo/teamtracker/domain"
)

// PeriodKey returns the bucket key of date: ISO week "2006-W01" or month "2006-01".
func PeriodKey(date time.Time, bucketing domain.Bucketing) (string, error) {
	switch bucketing {
	case domain.BucketWeek:
		year, week := date.ISOWeek()
		return fmt.Sprintf("%04d-W%02d", year, week), nil
	case domain.BucketMonth:
		return date.Format("2006-01"), nil
	default:
		return "", domain.NewError(domain.ErrCodeInvalid, fmt.Sprintf("unknown bucketing %q", bucketing))
	}
}

// ProgressSeries sums completed points per (owner, period). Points are returned
// in first-seen order; callers sort with SortProgress for display.
//
// A completed task without a completion date is skipped and reported in the
// returned error, which joins one DATA_INTEGRITY error per skipped task. The
// points are valid even when the error is non-nil.
func ProgressSeries(tasks []domain.Task, bucketing domain.Bucketing) ([]domain.ProgressPoint, error) {
	if !bucketing.Valid() {
		return nil, domain.NewError(domain.ErrCodeInvalid, fmt.Sprintf("unknown bucketing %q", bucketing))
	}

	type key struct {
		owner  string
		period string
	}
	sums := make(map[key]int)
	var (
		order  []key
		issues []error
	)
	for _, task := range tasks {
		if !task.Completed {
			continue
		}
		if task.CompletedDate == nil {
			issues = append(issues, domain.WrapError(domain.ErrCodeDataIntegrity,
				fmt.Sprintf("task %q of %q", task.ID, task.Owner), domain.ErrMissingCompletionDate))
			continue
		}
		period, _ := PeriodKey(*task.CompletedDate, bucketing)
		k := key{owner: task.Owner, period: period}
		if _, seen := sums[k]; !seen {
			order = append(order, k)
		}
		sums[k] += task.Points
	}

	points := make([]domain.ProgressPoint, 0, len(order))
	for _, k := range order {
		points = append(points, domain.ProgressPoint{User: k.owner, Period: k.period, Points: sums[k]})
	}
	return points, errors.Join(issues...)
}

// SortProgress orders points by (period, user) ascending.
func SortProgress(points []domain.ProgressPoint) {
	slices.SortFunc(points, func(a, b domain.ProgressPoint) int {
		if c := strings.Compare(a.Period, b.Period); c != 0 {
			return c
		}
		return strings.Compare(a.User, b.User)
	})
}
