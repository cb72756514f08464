package tasks

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/sandeepkv93/tasklist/internal/model"
	"github.com/sandeepkv93/tasklist/internal/storage"
)

var (
	ErrNotFound     = errors.New("tasks: task not found")
	ErrAmbiguousRef = errors.New("tasks: ambiguous task reference")
	ErrNilRepo      = errors.New("tasks: nil repository")
)

// Store is the in-memory task list. Every read and mutation goes through mu,
// and every mutation is written through the repository before it returns.
type Store struct {
	mu     sync.Mutex
	tasks  []model.Task
	repo   storage.Repository
	policy model.ReminderPolicy
	now    func() time.Time
	logger *log.Logger
}

type Option func(*Store)

func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		if now != nil {
			s.now = now
		}
	}
}

func WithPolicy(policy model.ReminderPolicy) Option {
	return func(s *Store) {
		if policy.Validate() == nil {
			s.policy = policy
		}
	}
}

func WithLogger(logger *log.Logger) Option {
	return func(s *Store) {
		if logger != nil {
			s.logger = logger
		}
	}
}

func New(repo storage.Repository, opts ...Option) (*Store, error) {
	if repo == nil {
		return nil, ErrNilRepo
	}
	s := &Store{
		tasks:  make([]model.Task, 0),
		repo:   repo,
		policy: model.DefaultReminderPolicy(),
		now:    time.Now,
		logger: log.New(io.Discard),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

func (s *Store) Policy() model.ReminderPolicy {
	return s.policy
}

// Load replaces the list with the repository content. On error the current
// list is kept.
func (s *Store) Load(ctx context.Context) error {
	loaded, err := s.repo.Load(ctx)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tasks = loaded
	s.logger.Debug("tasks loaded", "count", len(loaded))
	return nil
}

func (s *Store) Persist(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.persistLocked(ctx)
}

func (s *Store) persistLocked(ctx context.Context) error {
	snapshot := make([]model.Task, len(s.tasks))
	copy(snapshot, s.tasks)
	if err := s.repo.Save(ctx, snapshot); err != nil {
		return fmt.Errorf("tasks: persist: %w", err)
	}
	return nil
}

// commitLocked persists the list and restores previous when that fails.
func (s *Store) commitLocked(ctx context.Context, previous []model.Task) error {
	if err := s.persistLocked(ctx); err != nil {
		s.tasks = previous
		s.logger.Error("persist failed, change rolled back", "err", err)
		return err
	}
	return nil
}

func (s *Store) Add(ctx context.Context, content string, priority model.Priority) (model.Task, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return model.Task{}, &model.ValidationError{Field: "content", Err: model.ErrEmptyContent}
	}
	if !priority.IsValid() {
		return model.Task{}, &model.ValidationError{Field: "priority", Err: fmt.Errorf("%w: %q", model.ErrInvalidPriority, priority)}
	}
	task := model.Task{
		ID:       uuid.NewString(),
		Content:  content,
		Priority: priority,
		RemindAt: s.policy.FirstAt(s.now()),
	}
	if err := task.Validate(); err != nil {
		return model.Task{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	previous := s.tasks
	next := make([]model.Task, len(previous), len(previous)+1)
	copy(next, previous)
	s.tasks = append(next, task)
	if err := s.commitLocked(ctx, previous); err != nil {
		return model.Task{}, err
	}
	s.logger.Info("task added", "id", task.ID, "priority", task.Priority)
	return task, nil
}

func (s *Store) Remove(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	idx := s.indexLocked(id)
	if idx < 0 {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	previous := s.tasks
	next := make([]model.Task, 0, len(previous)-1)
	next = append(next, previous[:idx]...)
	next = append(next, previous[idx+1:]...)
	s.tasks = next
	if err := s.commitLocked(ctx, previous); err != nil {
		return err
	}
	s.logger.Info("task removed", "id", id)
	return nil
}

func (s *Store) SetDone(ctx context.Context, id string, done bool) (model.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	idx := s.indexLocked(id)
	if idx < 0 {
		return model.Task{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return s.setDoneLocked(ctx, idx, done)
}

func (s *Store) Toggle(ctx context.Context, id string) (model.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	idx := s.indexLocked(id)
	if idx < 0 {
		return model.Task{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return s.setDoneLocked(ctx, idx, !s.tasks[idx].Done)
}

func (s *Store) setDoneLocked(ctx context.Context, idx int, done bool) (model.Task, error) {
	if s.tasks[idx].Done == done {
		return s.tasks[idx], nil
	}
	previous := s.tasks
	next := make([]model.Task, len(previous))
	copy(next, previous)
	next[idx].Done = done
	s.tasks = next
	if err := s.commitLocked(ctx, previous); err != nil {
		return model.Task{}, err
	}
	s.logger.Info("task updated", "id", next[idx].ID, "done", done)
	return next[idx], nil
}

// List returns the tasks ordered by priority, keeping insertion order within
// a priority. With incompleteOnly, done tasks are left out.
func (s *Store) List(incompleteOnly bool) []model.Task {
	s.mu.Lock()
	out := make([]model.Task, 0, len(s.tasks))
	for _, t := range s.tasks {
		if incompleteOnly && t.Done {
			continue
		}
		out = append(out, t)
	}
	s.mu.Unlock()

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Priority.Rank() < out[j].Priority.Rank()
	})
	return out
}

func (s *Store) Get(id string) (model.Task, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	idx := s.indexLocked(id)
	if idx < 0 {
		return model.Task{}, false
	}
	return s.tasks[idx], true
}

func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.tasks)
}

// Resolve finds a task by 1-based position in List(false), full id, or
// unique id prefix. A number that is not a valid position is tried as an id
// prefix.
func (s *Store) Resolve(ref string) (model.Task, error) {
	ref = strings.TrimSpace(ref)
	if n, ok := PositionRef(ref); ok {
		listed := s.List(false)
		if n >= 1 && n <= len(listed) {
			return listed[n-1], nil
		}
	}
	return s.ResolveID(ref)
}

// ResolveID finds a task by full id or unique id prefix.
func (s *Store) ResolveID(ref string) (model.Task, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return model.Task{}, fmt.Errorf("%w: empty reference", ErrNotFound)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if idx := s.indexLocked(ref); idx >= 0 {
		return s.tasks[idx], nil
	}
	var match model.Task
	matches := 0
	for _, t := range s.tasks {
		if strings.HasPrefix(t.ID, ref) {
			match = t
			matches++
		}
	}
	switch matches {
	case 0:
		return model.Task{}, fmt.Errorf("%w: %s", ErrNotFound, ref)
	case 1:
		return match, nil
	default:
		return model.Task{}, fmt.Errorf("%w: %s matches %d tasks", ErrAmbiguousRef, ref, matches)
	}
}

// PositionRef reports whether ref reads as a list position. Refs as long as
// a short id are never positions.
func PositionRef(ref string) (int, bool) {
	ref = strings.TrimSpace(ref)
	if ref == "" || len(ref) >= model.ShortIDLength {
		return 0, false
	}
	n, err := strconv.Atoi(ref)
	if err != nil {
		return 0, false
	}
	return n, true
}

// Due returns the incomplete tasks whose reminder time has been reached, in
// list order.
func (s *Store) Due(now time.Time) []model.Task {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]model.Task, 0)
	for _, t := range s.tasks {
		if t.ReminderDue(now) {
			out = append(out, t)
		}
	}
	return out
}

// Reschedule moves the reminder of every listed task that still exists and
// is still incomplete to policy.NextAfter(firedAt). The list is persisted
// once when anything changed. It returns how many tasks were moved.
func (s *Store) Reschedule(ctx context.Context, ids []string, firedAt time.Time) (int, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	want := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		want[id] = struct{}{}
	}
	nextAt := s.policy.NextAfter(firedAt)

	s.mu.Lock()
	defer s.mu.Unlock()
	previous := s.tasks
	next := make([]model.Task, len(previous))
	copy(next, previous)
	changed := 0
	for i := range next {
		if _, ok := want[next[i].ID]; !ok || next[i].Done {
			continue
		}
		next[i].RemindAt = nextAt
		changed++
	}
	if changed == 0 {
		return 0, nil
	}
	s.tasks = next
	if err := s.commitLocked(ctx, previous); err != nil {
		return 0, err
	}
	s.logger.Debug("reminders rescheduled", "count", changed, "next_at", nextAt)
	return changed, nil
}

func (s *Store) indexLocked(id string) int {
	for i, t := range s.tasks {
		if t.ID == id {
			return i
		}
	}
	return -1
}
