package storage

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/sandeepkv93/tasklist/internal/model"
)

// JSONFileRepository keeps the task list in a single JSON array file.
type JSONFileRepository struct {
	path string
}

func NewJSONFileRepository(path string) (*JSONFileRepository, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return nil, errors.New("storage: empty task file path")
	}
	return &JSONFileRepository{path: trimmed}, nil
}

func (r *JSONFileRepository) Path() string {
	return r.path
}

// Load reads the task file. A missing or blank file is an empty list.
func (r *JSONFileRepository) Load(ctx context.Context) ([]model.Task, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	raw, err := os.ReadFile(r.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return []model.Task{}, nil
		}
		return nil, fmt.Errorf("storage: read %s: %w", r.path, err)
	}
	if len(bytes.TrimSpace(raw)) == 0 {
		return []model.Task{}, nil
	}
	return decodeTaskFile(r.path, raw)
}

// Save replaces the task file via a temp file and rename.
func (r *JSONFileRepository) Save(ctx context.Context, tasks []model.Task) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	payload, err := encodeTaskFile(tasks)
	if err != nil {
		return err
	}
	dir := filepath.Dir(r.path)
	if dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("storage: create dir %s: %w", dir, err)
		}
	}
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(r.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("storage: create temp file: %w", err)
	}
	tmpName := tmp.Name()
	cleanup := func() { _ = os.Remove(tmpName) }

	if _, err := tmp.Write(payload); err != nil {
		_ = tmp.Close()
		cleanup()
		return fmt.Errorf("storage: write %s: %w", tmpName, err)
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		cleanup()
		return fmt.Errorf("storage: sync %s: %w", tmpName, err)
	}
	if err := tmp.Close(); err != nil {
		cleanup()
		return fmt.Errorf("storage: close %s: %w", tmpName, err)
	}
	if err := os.Chmod(tmpName, 0o644); err != nil {
		cleanup()
		return fmt.Errorf("storage: chmod %s: %w", tmpName, err)
	}
	if err := os.Rename(tmpName, r.path); err != nil {
		cleanup()
		return fmt.Errorf("storage: replace %s: %w", r.path, err)
	}
	return nil
}

func (r *JSONFileRepository) Close() error {
	return nil
}

func encodeTaskFile(tasks []model.Task) ([]byte, error) {
	records := make([]taskRecord, 0, len(tasks))
	for _, t := range tasks {
		records = append(records, recordFromTask(t))
	}
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(records); err != nil {
		return nil, fmt.Errorf("storage: encode tasks: %w", err)
	}
	return buf.Bytes(), nil
}

func decodeTaskFile(path string, raw []byte) ([]model.Task, error) {
	var doc any
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, &ParseError{Path: path, Location: syntaxLocation(err), Err: err}
	}
	schema, err := taskSchema()
	if err != nil {
		return nil, err
	}
	if err := schema.Validate(doc); err != nil {
		return nil, schemaParseError(path, err)
	}

	var records []taskRecord
	if err := json.Unmarshal(raw, &records); err != nil {
		return nil, &ParseError{Path: path, Err: err}
	}
	out := make([]model.Task, 0, len(records))
	seen := make(map[string]int, len(records))
	for i, rec := range records {
		if strings.TrimSpace(rec.ID) == "" {
			rec.ID = legacyID(i, rec)
		}
		task, field, err := rec.toTask()
		if err != nil {
			return nil, &ParseError{Path: path, Location: recordLocation(fmt.Sprintf("[%d]", i), field), Err: err}
		}
		if first, dup := seen[task.ID]; dup {
			return nil, &ParseError{Path: path, Location: fmt.Sprintf("[%d].id", i), Err: fmt.Errorf("duplicate id %q (first at [%d])", task.ID, first)}
		}
		seen[task.ID] = i
		out = append(out, task)
	}
	return out, nil
}

func syntaxLocation(err error) string {
	var se *json.SyntaxError
	if errors.As(err, &se) {
		return fmt.Sprintf("offset %d", se.Offset)
	}
	var te *json.UnmarshalTypeError
	if errors.As(err, &te) {
		return fmt.Sprintf("offset %d", te.Offset)
	}
	return ""
}
