package model

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

var (
	ErrEmptyContent    = errors.New("model: task content is required")
	ErrInvalidPriority = errors.New("model: invalid task priority")
	ErrMissingID       = errors.New("model: task id is required")
	ErrMissingRemindAt = errors.New("model: task remind_at is required")
)

// ValidationError reports which task field failed validation.
type ValidationError struct {
	Field string
	Err   error
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Err.Error()
	}
	return fmt.Sprintf("%s: %v", e.Field, e.Err)
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

type Priority string

const (
	PriorityHigh   Priority = "High"
	PriorityMedium Priority = "Medium"
	PriorityLow    Priority = "Low"
)

// Priorities lists every priority in display order.
var Priorities = []Priority{PriorityHigh, PriorityMedium, PriorityLow}

func (p Priority) IsValid() bool {
	switch p {
	case PriorityHigh, PriorityMedium, PriorityLow:
		return true
	default:
		return false
	}
}

// Rank orders priorities for display; lower ranks sort first.
func (p Priority) Rank() int {
	switch p {
	case PriorityHigh:
		return 0
	case PriorityMedium:
		return 1
	case PriorityLow:
		return 2
	default:
		return 3
	}
}

// Next cycles High -> Medium -> Low -> High.
func (p Priority) Next() Priority {
	switch p {
	case PriorityHigh:
		return PriorityMedium
	case PriorityMedium:
		return PriorityLow
	default:
		return PriorityHigh
	}
}

// ParsePriority accepts canonical names in any case, single-letter
// abbreviations and the 高/中/低 labels written by older task files.
func ParsePriority(raw string) (Priority, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "high", "h", "高":
		return PriorityHigh, nil
	case "medium", "med", "m", "中":
		return PriorityMedium, nil
	case "low", "l", "低":
		return PriorityLow, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidPriority, raw)
	}
}

type Task struct {
	ID       string
	Content  string
	Priority Priority
	Done     bool
	RemindAt time.Time
}

func (t Task) Validate() error {
	if strings.TrimSpace(t.ID) == "" {
		return &ValidationError{Field: "id", Err: ErrMissingID}
	}
	if strings.TrimSpace(t.Content) == "" {
		return &ValidationError{Field: "content", Err: ErrEmptyContent}
	}
	if !t.Priority.IsValid() {
		return &ValidationError{Field: "priority", Err: fmt.Errorf("%w: %q", ErrInvalidPriority, t.Priority)}
	}
	if t.RemindAt.IsZero() {
		return &ValidationError{Field: "remind_at", Err: ErrMissingRemindAt}
	}
	return nil
}

// ReminderDue reports whether an incomplete task's reminder time has been reached.
func (t Task) ReminderDue(now time.Time) bool {
	return !t.Done && !now.Before(t.RemindAt)
}

// ShortIDLength is the length of the id prefix shown in listings.
const ShortIDLength = 8

// ShortID is the id prefix shown in listings.
func (t Task) ShortID() string {
	if len(t.ID) <= ShortIDLength {
		return t.ID
	}
	return t.ID[:ShortIDLength]
}
