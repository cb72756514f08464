package views

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

type Theme string

const (
	ThemeLight Theme = "light"
	ThemeDark  Theme = "dark"
)

func ParseTheme(raw string) (Theme, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "", "light":
		return ThemeLight, nil
	case "dark":
		return ThemeDark, nil
	default:
		return ThemeLight, fmt.Errorf("views: unknown theme %q", raw)
	}
}

func (t Theme) Toggle() Theme {
	if t == ThemeDark {
		return ThemeLight
	}
	return ThemeDark
}

// GlamourStyle is the glamour standard style matching the theme.
func (t Theme) GlamourStyle() string {
	if t == ThemeDark {
		return "dark"
	}
	return "light"
}

type styles struct {
	header   lipgloss.Style
	status   lipgloss.Style
	err      lipgloss.Style
	panel    lipgloss.Style
	footer   lipgloss.Style
	selected lipgloss.Style
	done     lipgloss.Style
	high     lipgloss.Style
	medium   lipgloss.Style
	low      lipgloss.Style
}

func (t Theme) styles() styles {
	if t == ThemeDark {
		return styles{
			header:   lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12")),
			status:   lipgloss.NewStyle().Foreground(lipgloss.Color("10")),
			err:      lipgloss.NewStyle().Foreground(lipgloss.Color("9")),
			panel:    lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("8")).Padding(0, 1),
			footer:   lipgloss.NewStyle().Foreground(lipgloss.Color("8")),
			selected: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("15")).Background(lipgloss.Color("238")),
			done:     lipgloss.NewStyle().Faint(true).Strikethrough(true),
			high:     lipgloss.NewStyle().Foreground(lipgloss.Color("9")),
			medium:   lipgloss.NewStyle().Foreground(lipgloss.Color("11")),
			low:      lipgloss.NewStyle().Foreground(lipgloss.Color("10")),
		}
	}
	return styles{
		header:   lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("4")),
		status:   lipgloss.NewStyle().Foreground(lipgloss.Color("2")),
		err:      lipgloss.NewStyle().Foreground(lipgloss.Color("1")),
		panel:    lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("7")).Padding(0, 1),
		footer:   lipgloss.NewStyle().Foreground(lipgloss.Color("8")),
		selected: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("0")).Background(lipgloss.Color("153")),
		done:     lipgloss.NewStyle().Faint(true).Strikethrough(true),
		high:     lipgloss.NewStyle().Foreground(lipgloss.Color("1")),
		medium:   lipgloss.NewStyle().Foreground(lipgloss.Color("3")),
		low:      lipgloss.NewStyle().Foreground(lipgloss.Color("2")),
	}
}

func (s styles) priority(p string) lipgloss.Style {
	switch p {
	case "High":
		return s.high
	case "Medium":
		return s.medium
	default:
		return s.low
	}
}
