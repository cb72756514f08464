package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/sandeepkv93/tasklist/internal/model"
)

var ErrUnknownBackend = errors.New("storage: unknown backend")

const (
	BackendJSON   = "json"
	BackendSQLite = "sqlite"
)

// Repository persists the whole task list at once. Save always replaces
// everything previously stored; there are no partial writes.
type Repository interface {
	Load(ctx context.Context) ([]model.Task, error)
	Save(ctx context.Context, tasks []model.Task) error
	Close() error
}

// Open returns the repository for backend rooted at path.
func Open(backend, path string) (Repository, error) {
	switch strings.ToLower(strings.TrimSpace(backend)) {
	case "", BackendJSON:
		return NewJSONFileRepository(path)
	case BackendSQLite:
		return OpenSQLite(path)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownBackend, backend)
	}
}

// ParseError reports backing-store content that could not be turned into tasks.
type ParseError struct {
	Path     string
	Location string
	Err      error
}

func (e *ParseError) Error() string {
	where := e.Path
	if e.Location != "" {
		where += ": " + e.Location
	}
	return fmt.Sprintf("storage: parse %s: %v", where, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}
