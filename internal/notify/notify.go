package notify

import (
	"context"
	"fmt"
	"os/exec"
	"runtime"
	"strconv"
	"strings"
	"time"
)

const (
	LevelInfo  = "info"
	LevelWarn  = "warn"
	LevelError = "error"
)

// execTimeout bounds how long a notifier process may run.
const execTimeout = 10 * time.Second

type Notification struct {
	Title string
	Body  string
	Level string
	// Timeout is how long the desktop should keep the notification visible.
	Timeout time.Duration
	At      time.Time
}

type DesktopNotifier interface {
	Send(Notification) error
}

// NotificationError reports a notification the sink could not deliver.
type NotificationError struct {
	Title string
	Err   error
}

func (e *NotificationError) Error() string {
	return fmt.Sprintf("notify: send %q: %v", e.Title, e.Err)
}

func (e *NotificationError) Unwrap() error {
	return e.Err
}

type NoopDesktopNotifier struct{}

func (NoopDesktopNotifier) Send(Notification) error { return nil }

// RunFunc runs an external command to completion.
type RunFunc func(ctx context.Context, name string, args ...string) error

// ExecDesktopNotifier shows notifications with notify-send on Linux and
// osascript on macOS. Other platforms are silently ignored.
type ExecDesktopNotifier struct {
	GOOS string
	Run  RunFunc
}

func NewExecDesktopNotifier() ExecDesktopNotifier {
	return ExecDesktopNotifier{GOOS: runtime.GOOS, Run: runCommand}
}

func (n ExecDesktopNotifier) Send(msg Notification) error {
	name, args, ok := commandFor(n.goos(), msg)
	if !ok {
		return nil
	}
	run := n.Run
	if run == nil {
		run = runCommand
	}
	ctx, cancel := context.WithTimeout(context.Background(), execTimeout)
	defer cancel()
	if err := run(ctx, name, args...); err != nil {
		return &NotificationError{Title: msg.Title, Err: err}
	}
	return nil
}

func (n ExecDesktopNotifier) goos() string {
	if n.GOOS == "" {
		return runtime.GOOS
	}
	return n.GOOS
}

func commandFor(goos string, msg Notification) (string, []string, bool) {
	switch goos {
	case "linux":
		args := make([]string, 0, 6)
		if msg.Timeout > 0 {
			args = append(args, "-t", strconv.FormatInt(msg.Timeout.Milliseconds(), 10))
		}
		if urgency := urgencyFor(msg.Level); urgency != "" {
			args = append(args, "-u", urgency)
		}
		args = append(args, msg.Title, msg.Body)
		return "notify-send", args, true
	case "darwin":
		script := fmt.Sprintf(`display notification "%s" with title "%s"`, escapeAppleScript(msg.Body), escapeAppleScript(msg.Title))
		return "osascript", []string{"-e", script}, true
	default:
		return "", nil, false
	}
}

func urgencyFor(level string) string {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case LevelError:
		return "critical"
	case LevelWarn, LevelInfo:
		return "normal"
	default:
		return ""
	}
}

func escapeAppleScript(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	return strings.ReplaceAll(s, `"`, `\"`)
}

func runCommand(ctx context.Context, name string, args ...string) error {
	out, err := exec.CommandContext(ctx, name, args...).CombinedOutput()
	if err != nil {
		if msg := strings.TrimSpace(string(out)); msg != "" {
			return fmt.Errorf("%s: %w: %s", name, err, msg)
		}
		return fmt.Errorf("%s: %w", name, err)
	}
	return nil
}
