package storage

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sandeepkv93/tasklist/internal/model"
)

const timeLayout = time.RFC3339Nano

// Older task files stored remind_at as a local timestamp without an offset.
var localTimeLayouts = []string{
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
}

// taskRecord is the on-disk shape of one task.
type taskRecord struct {
	ID       string `json:"id,omitempty"`
	Content  string `json:"content"`
	Priority string `json:"priority"`
	Done     bool   `json:"done"`
	RemindAt string `json:"remind_at"`
}

func recordFromTask(t model.Task) taskRecord {
	return taskRecord{
		ID:       t.ID,
		Content:  t.Content,
		Priority: string(t.Priority),
		Done:     t.Done,
		RemindAt: formatTime(t.RemindAt),
	}
}

// legacyNamespace seeds the ids derived for records written without one.
var legacyNamespace = uuid.NewSHA1(uuid.NameSpaceOID, []byte("tasklist/legacy-task"))

// legacyID derives the id of a record stored without one from its position
// and fields, so every load of an unchanged file yields the same id.
func legacyID(index int, r taskRecord) string {
	key := fmt.Sprintf("%d\x00%s\x00%s\x00%s", index, r.Content, r.Priority, r.RemindAt)
	return uuid.NewSHA1(legacyNamespace, []byte(key)).String()
}

// recordLocation appends field to the location of a record when known.
func recordLocation(record, field string) string {
	if field == "" {
		return record
	}
	return record + "." + field
}

// toTask converts the record, naming the offending field on failure.
func (r taskRecord) toTask() (model.Task, string, error) {
	priority, err := model.ParsePriority(r.Priority)
	if err != nil {
		return model.Task{}, "priority", err
	}
	remindAt, err := parseTime(r.RemindAt)
	if err != nil {
		return model.Task{}, "remind_at", err
	}
	task := model.Task{
		ID:       strings.TrimSpace(r.ID),
		Content:  r.Content,
		Priority: priority,
		Done:     r.Done,
		RemindAt: remindAt,
	}
	if err := task.Validate(); err != nil {
		var ve *model.ValidationError
		if errors.As(err, &ve) {
			return model.Task{}, ve.Field, ve.Err
		}
		return model.Task{}, "", err
	}
	return task, "", nil
}

func formatTime(t time.Time) string {
	return t.Format(timeLayout)
}

func parseTime(raw string) (time.Time, error) {
	value := strings.TrimSpace(raw)
	if value == "" {
		return time.Time{}, model.ErrMissingRemindAt
	}
	if t, err := time.Parse(timeLayout, value); err == nil {
		return t, nil
	}
	for _, layout := range localTimeLayouts {
		if t, err := time.ParseInLocation(layout, value, time.Local); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid ISO-8601 timestamp %q", raw)
}
