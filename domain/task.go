package domain

import "time"

// Category classifies a task on the dashboard.
type Category string

const (
	CategoryWork     Category = "Work"
	CategoryPersonal Category = "Personal"
	CategoryHealth   Category = "Health"
	CategoryLearning Category = "Learning"
	CategoryOther    Category = "Other"
)

// Categories lists every category in display order.
var Categories = []Category{
	CategoryWork,
	CategoryPersonal,
	CategoryHealth,
	CategoryLearning,
	CategoryOther,
}

var categoryColors = map[Category]string{
	CategoryWork:     "#4a90e2",
	CategoryPersonal: "#f39c12",
	CategoryHealth:   "#27ae60",
	CategoryLearning: "#8e44ad",
	CategoryOther:    "#95a5a6",
}

// Color returns the dashboard colour of the category.
func (c Category) Color() string {
	if color, ok := categoryColors[c]; ok {
		return color
	}
	return "#cccccc"
}

func (c Category) Valid() bool {
	_, ok := categoryColors[c]
	return ok
}

// DeadlineBucket is the optional part of the day a task should be done by.
type DeadlineBucket string

const (
	DeadlineMorning   DeadlineBucket = "Morning"
	DeadlineAfternoon DeadlineBucket = "Afternoon"
	DeadlineEvening   DeadlineBucket = "Evening"
	DeadlineEndOfDay  DeadlineBucket = "EndOfDay"
	DeadlineNone      DeadlineBucket = "None"
)

const (
	MinPoints     = 1
	MaxPoints     = 10
	DefaultPoints = 3
)

// Task represents a unit of trackable work owned by one user.
type Task struct {
	ID             string         `json:"id"`
	Owner          string         `json:"user" validate:"required,max=100"`
	Description    string         `json:"description" validate:"required,max=500"`
	Points         int            `json:"points" validate:"min=1,max=10"`
	Completed      bool           `json:"completed"`
	CreatedDate    time.Time      `json:"created_date" validate:"required"`
	CompletedDate  *time.Time     `json:"completed_date,omitempty"`
	Category       Category       `json:"category" validate:"required,oneof=Work Personal Health Learning Other"`
	DeadlineBucket DeadlineBucket `json:"deadline_bucket,omitempty" validate:"omitempty,oneof=Morning Afternoon Evening EndOfDay None"`
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`
}

func (t *Task) IsCompleted() bool {
	return t != nil && t.Completed
}

// Complete marks the task done on the given calendar day.
func (t *Task) Complete(day time.Time) {
	if t == nil || t.Completed {
		return
	}
	date := CalendarDate(day)
	t.Completed = true
	t.CompletedDate = &date
}

// CalendarDate drops the clock part of t, keeping the day as seen in t's location.
func CalendarDate(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
