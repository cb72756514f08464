package model

import (
	"errors"
	"testing"
	"time"
)

func TestTaskValidateSuccess(t *testing.T) {
	task := Task{
		ID:       "task-1",
		Content:  "Write the weekly report",
		Priority: PriorityHigh,
		RemindAt: time.Date(2026, 2, 9, 13, 0, 0, 0, time.UTC),
	}
	if err := task.Validate(); err != nil {
		t.Fatalf("expected valid task, got error: %v", err)
	}
}

func TestTaskValidateEmptyContent(t *testing.T) {
	task := Task{
		ID:       "task-1",
		Content:  "   ",
		Priority: PriorityLow,
		RemindAt: time.Date(2026, 2, 9, 13, 0, 0, 0, time.UTC),
	}
	err := task.Validate()
	if !errors.Is(err, ErrEmptyContent) {
		t.Fatalf("expected ErrEmptyContent, got: %v", err)
	}
	var ve *ValidationError
	if !errors.As(err, &ve) || ve.Field != "content" {
		t.Fatalf("expected content validation error, got: %v", err)
	}
}

func TestTaskValidateInvalidFields(t *testing.T) {
	task := Task{
		ID:       "task-1",
		Content:  "bad priority",
		Priority: Priority("Urgent"),
		RemindAt: time.Date(2026, 2, 9, 13, 0, 0, 0, time.UTC),
	}
	if err := task.Validate(); !errors.Is(err, ErrInvalidPriority) {
		t.Fatalf("expected ErrInvalidPriority, got: %v", err)
	}

	task.Priority = PriorityMedium
	task.RemindAt = time.Time{}
	if err := task.Validate(); !errors.Is(err, ErrMissingRemindAt) {
		t.Fatalf("expected ErrMissingRemindAt, got: %v", err)
	}

	task.RemindAt = time.Date(2026, 2, 9, 13, 0, 0, 0, time.UTC)
	task.ID = ""
	if err := task.Validate(); !errors.Is(err, ErrMissingID) {
		t.Fatalf("expected ErrMissingID, got: %v", err)
	}
}

func TestParsePriority(t *testing.T) {
	cases := map[string]Priority{
		"High":    PriorityHigh,
		"high":    PriorityHigh,
		" h ":     PriorityHigh,
		"高":       PriorityHigh,
		"MEDIUM":  PriorityMedium,
		"m":       PriorityMedium,
		"中":       PriorityMedium,
		"low":     PriorityLow,
		"低":       PriorityLow,
	}
	for in, want := range cases {
		got, err := ParsePriority(in)
		if err != nil {
			t.Fatalf("parse %q failed: %v", in, err)
		}
		if got != want {
			t.Fatalf("parse %q = %q, want %q", in, got, want)
		}
	}
	if _, err := ParsePriority("urgent"); !errors.Is(err, ErrInvalidPriority) {
		t.Fatalf("expected ErrInvalidPriority, got %v", err)
	}
}

func TestPriorityRankAndNext(t *testing.T) {
	if !(PriorityHigh.Rank() < PriorityMedium.Rank() && PriorityMedium.Rank() < PriorityLow.Rank()) {
		t.Fatal("expected High < Medium < Low rank order")
	}
	if PriorityHigh.Next() != PriorityMedium || PriorityMedium.Next() != PriorityLow || PriorityLow.Next() != PriorityHigh {
		t.Fatal("unexpected priority cycle")
	}
}

func TestTaskReminderDue(t *testing.T) {
	now := time.Date(2026, 2, 9, 12, 0, 0, 0, time.UTC)
	task := Task{ID: "t", Content: "c", Priority: PriorityLow, RemindAt: now}
	if !task.ReminderDue(now) {
		t.Fatal("expected reminder due at exactly remind_at")
	}
	if task.ReminderDue(now.Add(-time.Second)) {
		t.Fatal("expected reminder not due before remind_at")
	}
	task.Done = true
	if task.ReminderDue(now.Add(time.Hour)) {
		t.Fatal("expected done task never due")
	}
}

func TestTaskShortID(t *testing.T) {
	task := Task{ID: "0123456789abcdef"}
	if task.ShortID() != "01234567" {
		t.Fatalf("unexpected short id: %q", task.ShortID())
	}
	task.ID = "abc"
	if task.ShortID() != "abc" {
		t.Fatalf("unexpected short id for short value: %q", task.ShortID())
	}
}
