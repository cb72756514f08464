package model

import (
	"errors"
	"fmt"
	"time"
)

var ErrInvalidReminderPolicy = errors.New("model: invalid reminder policy")

const (
	DefaultInitialReminder = time.Hour
	DefaultRepeatReminder  = 24 * time.Hour
)

// ReminderPolicy decides when a task is first reminded about and how far
// each fired reminder pushes the next one out.
type ReminderPolicy struct {
	Initial time.Duration
	Repeat  time.Duration
}

func DefaultReminderPolicy() ReminderPolicy {
	return ReminderPolicy{
		Initial: DefaultInitialReminder,
		Repeat:  DefaultRepeatReminder,
	}
}

func (p ReminderPolicy) Validate() error {
	if p.Initial <= 0 {
		return fmt.Errorf("%w: initial %s", ErrInvalidReminderPolicy, p.Initial)
	}
	if p.Repeat <= 0 {
		return fmt.Errorf("%w: repeat %s", ErrInvalidReminderPolicy, p.Repeat)
	}
	return nil
}

// FirstAt is the remind_at given to a task created at created.
func (p ReminderPolicy) FirstAt(created time.Time) time.Time {
	return created.Add(p.Initial).Round(0)
}

// NextAfter is the remind_at a task gets once a reminder fired at firedAt.
func (p ReminderPolicy) NextAfter(firedAt time.Time) time.Time {
	return firedAt.Add(p.Repeat).Round(0)
}

// Preview lists the next count reminder times for a task created at from,
// assuming every reminder fires exactly on time and the task stays open.
func (p ReminderPolicy) Preview(from time.Time, count int) ([]time.Time, error) {
	if count <= 0 {
		return []time.Time{}, nil
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	out := make([]time.Time, 0, count)
	cursor := p.FirstAt(from)
	for i := 0; i < count; i++ {
		out = append(out, cursor)
		cursor = p.NextAfter(cursor)
	}
	return out, nil
}
