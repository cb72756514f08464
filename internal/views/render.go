package views

import (
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
)

const (
	defaultPaneWidth = 58
	minPaneWidth     = 24
)

type AppData struct {
	Header        string
	LeftPane      string
	RightPane     string
	StatusLine    string
	StatusIsError bool
	Footer        string
	Notification  string
	// Width is the terminal width; zero uses the default pane width.
	Width int
}

func RenderApp(theme Theme, data AppData) string {
	st := theme.styles()
	paneWidth := defaultPaneWidth
	if data.Width > 0 {
		paneWidth = max(data.Width/2-4, minPaneWidth)
	}
	left := st.panel.Width(paneWidth).Render(data.LeftPane)
	row := left
	if strings.TrimSpace(data.RightPane) != "" {
		right := st.panel.Width(paneWidth).Render(data.RightPane)
		row = lipgloss.JoinHorizontal(lipgloss.Top, left, right)
	}

	status := st.status.Render(data.StatusLine)
	if data.StatusIsError {
		status = st.err.Render(data.StatusLine)
	}

	lines := []string{
		st.header.Render(data.Header),
		row,
		status,
	}
	if data.Notification != "" {
		lines = append(lines, st.panel.Render(data.Notification))
	}
	if data.Footer != "" {
		lines = append(lines, st.footer.Render(data.Footer))
	}
	return strings.Join(lines, "\n")
}

func RenderMarkdown(theme Theme, md string) string {
	if strings.TrimSpace(md) == "" {
		return ""
	}
	out, err := glamour.Render(md, theme.GlamourStyle())
	if err != nil {
		return md
	}
	return strings.TrimSpace(out)
}
