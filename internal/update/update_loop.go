package update

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sandeepkv93/tasklist/internal/views"
)

func (m Model) Init() tea.Cmd {
	return waitForReminderCmd(m.reminders)
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch typed := msg.(type) {
	case tea.KeyMsg:
		if typed.String() == "ctrl+c" {
			m.Quitting = true
			return m, tea.Quit
		}
		if m.Palette.Active {
			return m.handlePaletteKey(typed), nil
		}
		if m.InputActive {
			return m.handleInputKey(typed), nil
		}

		switch typed.String() {
		case m.Keys.Palette:
			return m.openPalette(), nil
		case m.Keys.Add, "i":
			m.focusInput()
			return m, nil
		case m.Keys.Help:
			m.HelpVisible = !m.HelpVisible
			if m.HelpVisible {
				m.Status = StatusBar{Text: "help shown", IsError: false}
			} else {
				m.Status = StatusBar{Text: "help hidden", IsError: false}
			}
			return m, nil
		case m.Keys.Quit:
			m.Quitting = true
			return m, tea.Quit
		}
		return m.handleListKey(typed), nil
	case tea.WindowSizeMsg:
		m.width = typed.Width
		m.height = typed.Height
		m.listViewport.Width = max(typed.Width/2-8, 20)
		m.listViewport.Height = max(typed.Height-14, 3)
		return m, nil
	case SetStatusMsg:
		m.Status = StatusBar{Text: typed.Text, IsError: typed.IsError}
		m.notify("Status", typed.Text, levelFromError(typed.IsError))
		return m, nil
	case ClearStatusMsg:
		m.Status = StatusBar{}
		return m, nil
	case AppErrorMsg:
		if typed.Err != nil {
			m.setError(typed.Err)
			m.notify("Error", typed.Err.Error(), "error")
		}
		return m, nil
	case ReminderDueMsg:
		m.applyReminder(typed.Reminder)
		return m, waitForReminderCmd(m.reminders)
	}

	return m, nil
}

func (m Model) View() string {
	status := ""
	if m.Status.Text != "" {
		if m.Status.IsError {
			status = fmt.Sprintf("status: error: %s", m.Status.Text)
		} else {
			status = fmt.Sprintf("status: %s", m.Status.Text)
		}
	}

	visible := m.visibleTasks()
	open, total := 0, 0
	if m.Store != nil {
		total = m.Store.Len()
		open = len(m.Store.List(true))
	}

	rightPane := strings.TrimSpace(strings.Join([]string{
		m.renderTaskDetail(visible),
		m.renderReminderLog(),
		views.RenderCommandPalette(m.Palette.Active, m.Palette.Input),
	}, "\n")) + m.renderHelpIfVisible()

	notificationView := ""
	if len(m.Notifications) > 0 {
		last := m.Notifications[len(m.Notifications)-1]
		notificationView = views.RenderNotification(last.Level, last.Body)
	}

	return views.RenderApp(m.Theme, views.AppData{
		Header:        fmt.Sprintf("tasklist | %d open / %d total | theme: %s", open, total, m.Theme),
		LeftPane:      m.renderTaskList(visible),
		RightPane:     rightPane,
		StatusLine:    status,
		StatusIsError: m.Status.IsError,
		Notification:  notificationView,
		Footer:        fmt.Sprintf("keys: %s add | space done | %s delete | %s filter | %s theme | %s cmd | %s help | %s quit", m.Keys.Add, m.Keys.Delete, m.Keys.Filter, m.Keys.Theme, m.Keys.Palette, m.Keys.Help, m.Keys.Quit),
		Width:         m.width,
	})
}
