package storage

import (
	"errors"
	"path/filepath"
	"testing"
)

func newSQLiteRepo(t *testing.T) *SQLiteRepository {
	t.Helper()
	repo, err := OpenSQLite(filepath.Join(t.TempDir(), "tasks.db"))
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() { _ = repo.Close() })
	return repo
}

func TestSQLiteRoundTripKeepsOrder(t *testing.T) {
	repo := newSQLiteRepo(t)
	want := sampleTasks()
	if err := repo.Save(testContext(t), want); err != nil {
		t.Fatalf("save: %v", err)
	}
	got, err := repo.Load(testContext(t))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(got) != len(want) {
		t.Fatalf("expected %d tasks, got %d", len(want), len(got))
	}
	for i := range want {
		if got[i].ID != want[i].ID || got[i].Content != want[i].Content || got[i].Done != want[i].Done {
			t.Fatalf("task %d mismatch: got %+v want %+v", i, got[i], want[i])
		}
		if !got[i].RemindAt.Equal(want[i].RemindAt) {
			t.Fatalf("task %d remind_at mismatch: got %s want %s", i, got[i].RemindAt, want[i].RemindAt)
		}
	}
}

func TestSQLiteSaveReplacesEverything(t *testing.T) {
	repo := newSQLiteRepo(t)
	if err := repo.Save(testContext(t), sampleTasks()); err != nil {
		t.Fatalf("first save: %v", err)
	}
	tasks := sampleTasks()
	reordered := append(tasks[2:], tasks[0])
	if err := repo.Save(testContext(t), reordered); err != nil {
		t.Fatalf("second save: %v", err)
	}
	got, err := repo.Load(testContext(t))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(got) != 2 || got[0].ID != "c3" || got[1].ID != "a1" {
		t.Fatalf("unexpected tasks after replace: %+v", got)
	}

	if err := repo.Save(testContext(t), nil); err != nil {
		t.Fatalf("clear: %v", err)
	}
	got, err = repo.Load(testContext(t))
	if err != nil {
		t.Fatalf("load after clear: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("expected empty list, got %d", len(got))
	}
}

func TestSQLiteFailedSaveKeepsPreviousRows(t *testing.T) {
	repo := newSQLiteRepo(t)
	if err := repo.Save(testContext(t), sampleTasks()); err != nil {
		t.Fatalf("save: %v", err)
	}
	dup := sampleTasks()
	dup[1].ID = dup[0].ID
	if err := repo.Save(testContext(t), dup); err == nil {
		t.Fatalf("expected duplicate id to fail")
	}
	got, err := repo.Load(testContext(t))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("expected rollback to keep 3 tasks, got %d", len(got))
	}
}

func TestSQLiteLoadReportsCorruptRows(t *testing.T) {
	repo := newSQLiteRepo(t)
	if _, err := repo.db.Exec(`INSERT INTO tasks (id, position, content, priority, done, remind_at)
		VALUES ('bad', 0, 'broken', 'High', 0, 'not-a-time')`); err != nil {
		t.Fatalf("insert: %v", err)
	}
	_, err := repo.Load(testContext(t))
	var pe *ParseError
	if !errors.As(err, &pe) {
		t.Fatalf("expected ParseError, got %v", err)
	}
	if pe.Location != "tasks[id=bad].remind_at" {
		t.Fatalf("unexpected location: %q", pe.Location)
	}
}

func TestNewSQLiteRepositoryRejectsNilDB(t *testing.T) {
	if _, err := NewSQLiteRepository(nil); err == nil {
		t.Fatalf("expected error for nil db")
	}
}
