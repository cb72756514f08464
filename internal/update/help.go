package update

import (
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	"github.com/sandeepkv93/tasklist/internal/views"
)

const paletteHelp = `## Commands

| command | effect |
|---|---|
| ` + "`add [high/medium/low] <text>`" + ` | add a task |
| ` + "`done <ref>`" + ` / ` + "`undo <ref>`" + ` | mark done or open |
| ` + "`delete <ref>`" + ` | remove a task |
| ` + "`filter [on/off]`" + ` | show incomplete only |
| ` + "`theme [light/dark]`" + ` | switch theme |

A ref is a row number, a task id or an id prefix.`

type KeyBinding struct {
	Key    string
	Action string
}

type helpKeyMap struct {
	short []key.Binding
	full  [][]key.Binding
}

func (k helpKeyMap) ShortHelp() []key.Binding  { return k.short }
func (k helpKeyMap) FullHelp() [][]key.Binding { return k.full }

func (m Model) renderHelpIfVisible() string {
	if !m.HelpVisible {
		return ""
	}
	return "\n\n" + m.renderHelpView()
}

func (m Model) renderHelpView() string {
	bindings := m.helpBindings()
	var plain []string
	for _, kb := range m.keyBindings() {
		plain = append(plain, fmt.Sprintf("- %s: %s", kb.Key, kb.Action))
	}
	return views.RenderHelpPanel(m.Theme, views.HelpPanelData{
		Bindings: plain,
		HelpView: m.helpModel.View(helpKeyMap{
			short: bindings,
			full:  [][]key.Binding{bindings},
		}),
		Markdown: paletteHelp,
	})
}

func (m Model) keyBindings() []KeyBinding {
	return []KeyBinding{
		{Key: m.Keys.Add + "/i", Action: "type a new task"},
		{Key: "enter", Action: "add task"},
		{Key: "tab", Action: "cycle priority"},
		{Key: "j/k", Action: "move selection"},
		{Key: "space/" + m.Keys.Toggle, Action: "toggle done"},
		{Key: m.Keys.Delete, Action: "delete task"},
		{Key: m.Keys.Filter, Action: "toggle incomplete only"},
		{Key: m.Keys.Theme, Action: "toggle theme"},
		{Key: m.Keys.Palette, Action: "open command palette"},
		{Key: m.Keys.Help, Action: "toggle help panel"},
		{Key: m.Keys.Quit, Action: "quit app"},
	}
}

func (m Model) helpBindings() []key.Binding {
	kbs := m.keyBindings()
	out := make([]key.Binding, 0, len(kbs))
	for _, kb := range kbs {
		out = append(out, key.NewBinding(key.WithKeys(kb.Key), key.WithHelp(kb.Key, kb.Action)))
	}
	return out
}
