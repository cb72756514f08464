package views

import (
	"fmt"
	"strings"
)

type TaskRowData struct {
	Position int
	ShortID  string
	Content  string
	Priority string
	Done     bool
	RemindAt string
}

type TaskListData struct {
	InputView   string
	InputActive bool
	Priority    string
	Filter      string
	Rows        []TaskRowData
	Cursor      int
	// ListView, when set, replaces the rendered rows (a scrolled viewport).
	ListView string
}

type TaskDetailData struct {
	Row      *TaskRowData
	NextDays []string
}

type ReminderLogEntry struct {
	At      string
	Content string
	Err     string
}

type HelpPanelData struct {
	Bindings []string
	HelpView string
	Markdown string
}

func RenderTaskRows(theme Theme, rows []TaskRowData, cursor int) string {
	if len(rows) == 0 {
		return "(no tasks)"
	}
	st := theme.styles()
	lines := make([]string, 0, len(rows))
	for i, row := range rows {
		check := "[ ]"
		if row.Done {
			check = "[x]"
		}
		content := row.Content
		if row.Done {
			content = st.done.Render(content)
		}
		line := fmt.Sprintf("%2d. %s %s %s", row.Position, check, st.priority(row.Priority).Render(fmt.Sprintf("%-6s", row.Priority)), content)
		if i == cursor {
			line = st.selected.Render("> " + line)
		} else {
			line = "  " + line
		}
		lines = append(lines, line)
	}
	return strings.Join(lines, "\n")
}

func RenderTaskList(theme Theme, data TaskListData) string {
	var b strings.Builder
	b.WriteString("tasks:\n")
	input := data.InputView
	if data.InputActive {
		input = "> " + input
	}
	b.WriteString(fmt.Sprintf("new: %s\n", input))
	b.WriteString(fmt.Sprintf("priority: %s | show: %s\n", data.Priority, data.Filter))
	b.WriteString("actions: [a]add [tab]priority [space]done [d]delete [f]filter [t]theme\n\n")
	if data.ListView != "" {
		b.WriteString(data.ListView)
	} else {
		b.WriteString(RenderTaskRows(theme, data.Rows, data.Cursor))
	}
	return strings.TrimRight(b.String(), "\n")
}

func RenderTaskDetail(data TaskDetailData) string {
	if data.Row == nil {
		return "details:\n(no selection)"
	}
	state := "open"
	if data.Row.Done {
		state = "done"
	}
	var b strings.Builder
	b.WriteString("details:\n")
	b.WriteString(fmt.Sprintf("id: %s\n", data.Row.ShortID))
	b.WriteString(fmt.Sprintf("priority: %s\n", data.Row.Priority))
	b.WriteString(fmt.Sprintf("state: %s\n", state))
	b.WriteString(fmt.Sprintf("remind at: %s\n", data.Row.RemindAt))
	if len(data.NextDays) > 0 {
		b.WriteString("then:\n")
		for _, next := range data.NextDays {
			b.WriteString("- " + next + "\n")
		}
	}
	return strings.TrimSpace(b.String())
}

func RenderReminderLog(entries []ReminderLogEntry) string {
	if len(entries) == 0 {
		return ""
	}
	var b strings.Builder
	b.WriteString("\nreminders:\n")
	for _, e := range entries {
		line := fmt.Sprintf("%s %s", e.At, e.Content)
		if e.Err != "" {
			line += " (failed: " + e.Err + ")"
		}
		b.WriteString("- " + line + "\n")
	}
	return strings.TrimSuffix(b.String(), "\n")
}

func RenderCommandPalette(active bool, input string) string {
	if !active {
		return ""
	}
	return fmt.Sprintf("command: /%s", input)
}

func RenderNotification(level string, body string) string {
	if strings.TrimSpace(body) == "" {
		return ""
	}
	return fmt.Sprintf("notification: [%s] %s", strings.ToUpper(level), body)
}

func RenderHelpPanel(theme Theme, data HelpPanelData) string {
	var b strings.Builder
	b.WriteString("help:\n")
	b.WriteString(strings.Join(data.Bindings, "\n"))
	if data.HelpView != "" {
		b.WriteString("\n" + data.HelpView)
	}
	if md := RenderMarkdown(theme, data.Markdown); md != "" {
		b.WriteString("\n\n" + md)
	}
	return b.String()
}
