package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
	"github.com/sandeepkv93/tasklist/internal/model"
)

// SQLiteRepository stores the task list in a tasks table, ordered by position.
type SQLiteRepository struct {
	db   *sql.DB
	path string
}

func NewSQLiteRepository(db *sql.DB) (*SQLiteRepository, error) {
	if db == nil {
		return nil, errors.New("storage: nil db")
	}
	if _, err := db.Exec("PRAGMA busy_timeout = 5000"); err != nil {
		return nil, fmt.Errorf("set busy timeout: %w", err)
	}
	return &SQLiteRepository{db: db, path: "sqlite"}, nil
}

// OpenSQLite opens the database at path and applies pending migrations.
func OpenSQLite(path string) (*SQLiteRepository, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	repo, err := NewSQLiteRepository(db)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	if err := MigrateUp(db); err != nil {
		_ = db.Close()
		return nil, err
	}
	repo.path = path
	return repo, nil
}

func (r *SQLiteRepository) Close() error {
	return r.db.Close()
}

func (r *SQLiteRepository) Load(ctx context.Context) ([]model.Task, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, content, priority, done, remind_at
		FROM tasks ORDER BY position ASC`)
	if err != nil {
		return nil, fmt.Errorf("storage: query tasks: %w", err)
	}
	defer rows.Close()

	out := make([]model.Task, 0)
	for rows.Next() {
		task, scanErr := r.scanTask(rows)
		if scanErr != nil {
			return nil, scanErr
		}
		out = append(out, task)
	}
	return out, rows.Err()
}

// Save replaces every row in one transaction.
func (r *SQLiteRepository) Save(ctx context.Context, tasks []model.Task) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("storage: begin: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `DELETE FROM tasks`); err != nil {
		return fmt.Errorf("storage: clear tasks: %w", err)
	}
	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO tasks (id, position, content, priority, done, remind_at)
		VALUES (?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("storage: prepare insert: %w", err)
	}
	defer stmt.Close()

	for i, t := range tasks {
		if _, err := stmt.ExecContext(ctx, t.ID, i, t.Content, string(t.Priority), boolToInt(t.Done), formatTime(t.RemindAt)); err != nil {
			return fmt.Errorf("storage: insert task %s: %w", t.ID, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("storage: commit: %w", err)
	}
	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

func (r *SQLiteRepository) scanTask(s scanner) (model.Task, error) {
	var rec taskRecord
	var done int
	if err := s.Scan(&rec.ID, &rec.Content, &rec.Priority, &done, &rec.RemindAt); err != nil {
		return model.Task{}, fmt.Errorf("storage: scan task: %w", err)
	}
	rec.Done = done == 1
	task, field, err := rec.toTask()
	if err != nil {
		return model.Task{}, &ParseError{Path: r.path, Location: recordLocation(fmt.Sprintf("tasks[id=%s]", rec.ID), field), Err: err}
	}
	return task, nil
}

func boolToInt(v bool) int {
	if v {
		return 1
	}
	return 0
}
