package update

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sandeepkv93/tasklist/internal/commands"
	"github.com/sandeepkv93/tasklist/internal/views"
)

func (m Model) openPalette() Model {
	m.Palette.Active = true
	m.Palette.Input = ""
	m.commandInput.Focus()
	m.commandInput.SetValue("")
	m.Status = StatusBar{Text: "command palette active", IsError: false}
	return m
}

func (m Model) handlePaletteKey(msg tea.KeyMsg) Model {
	switch msg.String() {
	case "esc":
		m.Palette.Active = false
		m.Palette.Input = ""
		m.commandInput.SetValue("")
		m.commandInput.Blur()
		m.Status = StatusBar{Text: "command palette closed", IsError: false}
	case "enter":
		m.Palette.Input = m.commandInput.Value()
		m = m.executePaletteCommand()
	default:
		if msg.Type == tea.KeyRunes || msg.Type == tea.KeySpace {
			m.commandInput.SetValue(m.commandInput.Value() + string(msg.Runes))
			m.Palette.Input = m.commandInput.Value()
			return m
		}
		var cmd tea.Cmd
		m.commandInput, cmd = m.commandInput.Update(msg)
		_ = cmd
		m.Palette.Input = m.commandInput.Value()
	}
	return m
}

func (m Model) executePaletteCommand() Model {
	raw := strings.TrimSpace(m.Palette.Input)
	cmd, err := commands.Parse(raw)
	if err != nil {
		m.Status = StatusBar{Text: err.Error(), IsError: true}
		m.closePalette()
		return m
	}

	res, err := commands.Execute(cmd, commands.Handlers{
		Add: func(a commands.AddArgs) (commands.Result, error) {
			priority := a.Priority
			if priority == "" {
				priority = m.NewPriority
			}
			task, err := m.addTask(a.Content, priority)
			if err != nil {
				return commands.Result{}, err
			}
			return commands.Result{Message: fmt.Sprintf("added: %s [%s]", task.Content, task.Priority)}, nil
		},
		Done: func(r commands.RefArgs) (commands.Result, error) {
			return m.paletteSetDone(r.Ref, true)
		},
		Undo: func(r commands.RefArgs) (commands.Result, error) {
			return m.paletteSetDone(r.Ref, false)
		},
		Delete: func(r commands.RefArgs) (commands.Result, error) {
			task, err := m.resolveRef(r.Ref)
			if err != nil {
				return commands.Result{}, err
			}
			if err := m.deleteTask(task); err != nil {
				return commands.Result{}, err
			}
			return commands.Result{Message: fmt.Sprintf("deleted: %s", task.Content)}, nil
		},
		Filter: func(f commands.FilterArgs) (commands.Result, error) {
			switch f.Mode {
			case commands.FilterOn:
				m.setFilter(true)
			case commands.FilterOff:
				m.setFilter(false)
			default:
				m.setFilter(!m.IncompleteOnly)
			}
			return commands.Result{Message: "show: " + m.filterLabel()}, nil
		},
		Theme: func(t commands.ThemeArgs) (commands.Result, error) {
			next := m.Theme.Toggle()
			if t.Name != "" {
				parsed, err := views.ParseTheme(t.Name)
				if err != nil {
					return commands.Result{}, &commands.CommandError{Code: commands.ErrCodeInvalidArgument, Message: err.Error()}
				}
				next = parsed
			}
			m.SetTheme(next)
			return commands.Result{Message: fmt.Sprintf("theme: %s", next)}, nil
		},
	})
	if err != nil {
		m.setError(err)
		m.notify("Command Failed", err.Error(), "error")
	} else {
		m.Status = StatusBar{Text: res.Message, IsError: false}
		m.notify("Command", res.Message, "info")
	}

	m.closePalette()
	return m
}

func (m *Model) paletteSetDone(ref string, done bool) (commands.Result, error) {
	task, err := m.resolveRef(ref)
	if err != nil {
		return commands.Result{}, err
	}
	updated, err := m.setDone(task.ID, done)
	if err != nil {
		return commands.Result{}, err
	}
	if updated.Done {
		return commands.Result{Message: fmt.Sprintf("done: %s", updated.Content)}, nil
	}
	return commands.Result{Message: fmt.Sprintf("reopened: %s", updated.Content)}, nil
}

func (m *Model) closePalette() {
	m.Palette.Active = false
	m.Palette.Input = ""
	m.commandInput.SetValue("")
	m.commandInput.Blur()
}
