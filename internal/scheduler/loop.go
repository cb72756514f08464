package scheduler

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/log"
	"github.com/sandeepkv93/tasklist/internal/model"
	"github.com/sandeepkv93/tasklist/internal/notify"
)

const (
	DefaultInterval = 30 * time.Second
	DefaultTitle    = "Task reminder"
	DefaultTimeout  = 5 * time.Second
	DefaultBuffer   = 64
)

var ErrAlreadyStarted = errors.New("scheduler: loop already started")

// Source is the task list the loop scans. *tasks.Store satisfies it.
type Source interface {
	Due(now time.Time) []model.Task
	Reschedule(ctx context.Context, ids []string, firedAt time.Time) (int, error)
	Policy() model.ReminderPolicy
}

// Loop polls its source on a fixed interval, sends a desktop notification
// for every due task and pushes each fired reminder forward by the repeat
// period.
type Loop struct {
	source   Source
	notifier notify.DesktopNotifier
	interval time.Duration
	title    string
	timeout  time.Duration
	now      func() time.Time
	logger   *log.Logger

	mu      sync.Mutex
	out     chan model.Reminder
	stopCh  chan struct{}
	doneCh  chan struct{}
	started bool
	stopped bool
	closed  bool
	dropped uint64
	// held maps task ids whose reschedule failed to the time they may fire again.
	held map[string]time.Time
}

type Option func(*Loop)

func WithInterval(d time.Duration) Option {
	return func(l *Loop) {
		if d > 0 {
			l.interval = d
		}
	}
}

func WithClock(now func() time.Time) Option {
	return func(l *Loop) {
		if now != nil {
			l.now = now
		}
	}
}

func WithLogger(logger *log.Logger) Option {
	return func(l *Loop) {
		if logger != nil {
			l.logger = logger
		}
	}
}

func WithTitle(title string) Option {
	return func(l *Loop) {
		if title != "" {
			l.title = title
		}
	}
}

// WithTimeout sets how long notifications stay on screen.
func WithTimeout(d time.Duration) Option {
	return func(l *Loop) {
		if d > 0 {
			l.timeout = d
		}
	}
}

func WithBuffer(size int) Option {
	return func(l *Loop) {
		if size > 0 {
			l.out = make(chan model.Reminder, size)
		}
	}
}

func NewLoop(source Source, notifier notify.DesktopNotifier, opts ...Option) *Loop {
	if notifier == nil {
		notifier = notify.NoopDesktopNotifier{}
	}
	l := &Loop{
		source:   source,
		notifier: notifier,
		interval: DefaultInterval,
		title:    DefaultTitle,
		timeout:  DefaultTimeout,
		now:      time.Now,
		logger:   log.New(io.Discard),
		out:      make(chan model.Reminder, DefaultBuffer),
		stopCh:   make(chan struct{}),
		doneCh:   make(chan struct{}),
		held:     make(map[string]time.Time),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// C delivers every fired reminder. It is closed when the worker exits.
func (l *Loop) C() <-chan model.Reminder {
	return l.out
}

func (l *Loop) Dropped() uint64 {
	return atomic.LoadUint64(&l.dropped)
}

func (l *Loop) Interval() time.Duration {
	return l.interval
}

// Start runs the worker on its own goroutine. Calling it again, or after a
// stop was requested, does nothing.
func (l *Loop) Start() {
	if !l.markStarted() {
		return
	}
	go l.loop(context.Background())
}

// Run runs the worker on the calling goroutine until ctx is done or a stop
// is requested.
func (l *Loop) Run(ctx context.Context) error {
	if !l.markStarted() {
		return ErrAlreadyStarted
	}
	l.loop(ctx)
	if err := ctx.Err(); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

func (l *Loop) markStarted() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.started || l.stopped {
		return false
	}
	l.started = true
	return true
}

// RequestStop asks the worker to exit after its current pass and returns
// immediately.
func (l *Loop) RequestStop() {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.stopped {
		return
	}
	l.stopped = true
	close(l.stopCh)
}

// Stop requests a stop and waits for the worker to exit.
func (l *Loop) Stop() {
	l.RequestStop()
	l.mu.Lock()
	started := l.started
	l.mu.Unlock()
	if started {
		<-l.doneCh
	}
}

func (l *Loop) loop(ctx context.Context) {
	defer close(l.doneCh)
	defer l.closeOut()

	l.logger.Info("reminder loop started", "interval", l.interval)
	ticker := time.NewTicker(l.interval)
	defer ticker.Stop()
	for {
		if _, err := l.ScanOnce(ctx, l.now()); err != nil && ctx.Err() == nil {
			l.logger.Error("reminder scan failed", "err", err)
		}
		select {
		case <-ctx.Done():
			l.logger.Info("reminder loop stopped", "reason", ctx.Err())
			return
		case <-l.stopCh:
			l.logger.Info("reminder loop stopped", "reason", "stop requested")
			return
		case <-ticker.C:
		}
	}
}

// ScanOnce notifies about every task due at now and reschedules them. A
// failed notification is logged and recorded on the reminder; the task is
// rescheduled regardless. When the reschedule cannot be saved the fired
// tasks are held back in memory until their next reminder time. It returns
// how many reminders fired.
func (l *Loop) ScanOnce(ctx context.Context, now time.Time) (int, error) {
	due := l.due(now)
	if len(due) == 0 {
		return 0, nil
	}
	nextAt := l.source.Policy().NextAfter(now)

	ids := make([]string, 0, len(due))
	fired := make([]model.Reminder, 0, len(due))
	for _, task := range due {
		err := l.notifier.Send(notify.Notification{
			Title:   l.title,
			Body:    task.Content,
			Level:   levelFor(task.Priority),
			Timeout: l.timeout,
			At:      now,
		})
		if err != nil {
			var ne *notify.NotificationError
			if !errors.As(err, &ne) {
				err = &notify.NotificationError{Title: l.title, Err: err}
			}
			l.logger.Warn("reminder notification failed", "id", task.ID, "err", err)
		} else {
			l.logger.Debug("reminder sent", "id", task.ID)
		}
		ids = append(ids, task.ID)
		fired = append(fired, model.Reminder{
			TaskID:   task.ID,
			Content:  task.Content,
			Priority: task.Priority,
			FiredAt:  now,
			NextAt:   nextAt,
			Err:      err,
		})
	}

	_, rescheduleErr := l.source.Reschedule(ctx, ids, now)
	if rescheduleErr != nil {
		l.hold(ids, nextAt)
		l.logger.Warn("reschedule failed, holding reminders", "count", len(ids), "until", nextAt, "err", rescheduleErr)
	}
	for _, rem := range fired {
		l.publish(rem)
	}
	if rescheduleErr != nil {
		return len(fired), fmt.Errorf("scheduler: reschedule: %w", rescheduleErr)
	}
	return len(fired), nil
}

// due returns the source's due tasks minus those held until after now.
// Holds for tasks that are no longer due are released.
func (l *Loop) due(now time.Time) []model.Task {
	all := l.source.Due(now)
	l.mu.Lock()
	defer l.mu.Unlock()
	if len(l.held) == 0 {
		return all
	}
	out := make([]model.Task, 0, len(all))
	seen := make(map[string]struct{}, len(all))
	for _, task := range all {
		seen[task.ID] = struct{}{}
		if until, ok := l.held[task.ID]; ok {
			if now.Before(until) {
				continue
			}
			delete(l.held, task.ID)
		}
		out = append(out, task)
	}
	for id := range l.held {
		if _, ok := seen[id]; !ok {
			delete(l.held, id)
		}
	}
	return out
}

func (l *Loop) hold(ids []string, until time.Time) {
	l.mu.Lock()
	defer l.mu.Unlock()
	for _, id := range ids {
		l.held[id] = until
	}
}

func (l *Loop) publish(rem model.Reminder) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.closed {
		return
	}
	select {
	case l.out <- rem:
	default:
		atomic.AddUint64(&l.dropped, 1)
	}
}

func (l *Loop) closeOut() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.closed = true
	close(l.out)
}

func levelFor(p model.Priority) string {
	if p == model.PriorityHigh {
		return notify.LevelWarn
	}
	return notify.LevelInfo
}
