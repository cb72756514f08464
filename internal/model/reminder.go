package model

import (
	"errors"
	"strings"
	"time"
)

// Reminder records one fired reminder for a task.
type Reminder struct {
	TaskID   string
	Content  string
	Priority Priority
	FiredAt  time.Time
	NextAt   time.Time
	// Err is set when the notification sink rejected the reminder.
	Err error
}

func (r Reminder) Validate() error {
	if strings.TrimSpace(r.TaskID) == "" {
		return errors.New("model: reminder task_id is required")
	}
	if r.FiredAt.IsZero() {
		return errors.New("model: reminder fired_at is required")
	}
	if !r.NextAt.After(r.FiredAt) {
		return errors.New("model: reminder next_at must be after fired_at")
	}
	return nil
}

func (r Reminder) Delivered() bool {
	return r.Err == nil
}
