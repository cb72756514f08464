package update

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sandeepkv93/tasklist/internal/model"
	"github.com/sandeepkv93/tasklist/internal/views"
)

// waitForReminderCmd yields the next fired reminder, or nothing once the
// channel is closed.
func waitForReminderCmd(ch <-chan model.Reminder) tea.Cmd {
	if ch == nil {
		return nil
	}
	return func() tea.Msg {
		rem, ok := <-ch
		if !ok {
			return nil
		}
		return ReminderDueMsg{Reminder: rem}
	}
}

func (m *Model) applyReminder(rem model.Reminder) {
	m.ReminderLog = append(m.ReminderLog, rem)
	if len(m.ReminderLog) > maxReminderLog {
		m.ReminderLog = m.ReminderLog[len(m.ReminderLog)-maxReminderLog:]
	}
	if rem.Delivered() {
		m.Status = StatusBar{Text: fmt.Sprintf("reminder: %s", rem.Content)}
		m.notify("Reminder", rem.Content, levelFromError(false))
	} else {
		m.Status = StatusBar{Text: fmt.Sprintf("reminder for %q not delivered: %v", rem.Content, rem.Err), IsError: true}
		m.notify("Reminder", rem.Content, levelFromError(true))
	}
	m.syncSelection()
}

func (m Model) renderReminderLog() string {
	entries := make([]views.ReminderLogEntry, 0, len(m.ReminderLog))
	for i := len(m.ReminderLog) - 1; i >= 0 && len(entries) < 5; i-- {
		rem := m.ReminderLog[i]
		entry := views.ReminderLogEntry{
			At:      rem.FiredAt.Local().Format("15:04:05"),
			Content: rem.Content,
		}
		if rem.Err != nil {
			entry.Err = rem.Err.Error()
		}
		entries = append(entries, entry)
	}
	return views.RenderReminderLog(entries)
}
