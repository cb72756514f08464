package update

import (
	"errors"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sandeepkv93/tasklist/internal/model"
	"github.com/sandeepkv93/tasklist/internal/tasks"
	"github.com/sandeepkv93/tasklist/internal/views"
)

const timeFormat = "2006-01-02 15:04"

// visibleTasks is the list as shown, honoring the filter.
func (m Model) visibleTasks() []model.Task {
	if m.Store == nil {
		return nil
	}
	return m.Store.List(m.IncompleteOnly)
}

// syncSelection keeps the cursor on the selected task when the list changes
// and clamps it to the visible rows.
func (m *Model) syncSelection() {
	visible := m.visibleTasks()
	if len(visible) == 0 {
		m.Cursor = 0
		m.SelectedTaskID = ""
		return
	}
	if m.SelectedTaskID != "" {
		for i, t := range visible {
			if t.ID == m.SelectedTaskID {
				m.Cursor = i
				return
			}
		}
	}
	m.Cursor = clamp(m.Cursor, 0, len(visible)-1)
	m.SelectedTaskID = visible[m.Cursor].ID
}

func (m *Model) moveCursor(delta int) {
	visible := m.visibleTasks()
	if len(visible) == 0 {
		return
	}
	m.Cursor = clamp(m.Cursor+delta, 0, len(visible)-1)
	m.SelectedTaskID = visible[m.Cursor].ID
}

func (m Model) selectedTask() (model.Task, bool) {
	visible := m.visibleTasks()
	if m.Cursor < 0 || m.Cursor >= len(visible) {
		return model.Task{}, false
	}
	return visible[m.Cursor], true
}

func (m Model) handleListKey(msg tea.KeyMsg) Model {
	switch msg.String() {
	case "j", "down":
		m.moveCursor(1)
	case "k", "up":
		m.moveCursor(-1)
	case "g", "home":
		m.moveCursor(-len(m.visibleTasks()))
	case "G", "end":
		m.moveCursor(len(m.visibleTasks()))
	case "tab":
		m.cyclePriority()
	case "enter":
		m = m.addFromInput()
	case " ", m.Keys.Toggle:
		m.toggleSelected()
	case m.Keys.Delete:
		m.deleteSelected()
	case m.Keys.Filter:
		m.setFilter(!m.IncompleteOnly)
	case m.Keys.Theme:
		m.SetTheme(m.Theme.Toggle())
		m.Status = StatusBar{Text: fmt.Sprintf("theme: %s", m.Theme)}
	}
	return m
}

func (m Model) handleInputKey(msg tea.KeyMsg) Model {
	switch msg.String() {
	case "esc":
		m.InputActive = false
		m.addInput.Blur()
	case "enter":
		m = m.addFromInput()
	case "tab":
		m.cyclePriority()
	default:
		if msg.Type == tea.KeyRunes || msg.Type == tea.KeySpace {
			m.addInput.SetValue(m.addInput.Value() + string(msg.Runes))
			return m
		}
		var cmd tea.Cmd
		m.addInput, cmd = m.addInput.Update(msg)
		_ = cmd
	}
	return m
}

func (m *Model) focusInput() {
	m.InputActive = true
	m.addInput.Focus()
	m.Status = StatusBar{Text: "type a task, enter to add, esc to leave"}
}

func (m *Model) cyclePriority() {
	m.NewPriority = m.NewPriority.Next()
	m.Status = StatusBar{Text: fmt.Sprintf("priority: %s", m.NewPriority)}
}

func (m Model) addFromInput() Model {
	task, err := m.addTask(m.addInput.Value(), m.NewPriority)
	if err != nil {
		return m
	}
	m.addInput.SetValue("")
	m.Status = StatusBar{Text: fmt.Sprintf("added: %s", task.Content)}
	return m
}

func (m *Model) addTask(content string, priority model.Priority) (model.Task, error) {
	if m.Store == nil {
		return model.Task{}, m.noStore()
	}
	task, err := m.Store.Add(m.ctx, content, priority)
	if err != nil {
		m.setError(err)
		m.notify("Error", err.Error(), "error")
		return model.Task{}, err
	}
	m.SelectedTaskID = task.ID
	m.syncSelection()
	return task, nil
}

func (m *Model) toggleSelected() {
	task, ok := m.selectedTask()
	if !ok {
		return
	}
	if _, err := m.setDone(task.ID, !task.Done); err != nil {
		return
	}
}

func (m *Model) setDone(id string, done bool) (model.Task, error) {
	task, err := m.Store.SetDone(m.ctx, id, done)
	if err != nil {
		m.setError(err)
		return model.Task{}, err
	}
	state := "open"
	if task.Done {
		state = "done"
	}
	m.Status = StatusBar{Text: fmt.Sprintf("%s: %s", state, task.Content)}
	m.syncSelection()
	return task, nil
}

func (m *Model) deleteSelected() {
	task, ok := m.selectedTask()
	if !ok {
		return
	}
	_ = m.deleteTask(task)
}

func (m *Model) deleteTask(task model.Task) error {
	if err := m.Store.Remove(m.ctx, task.ID); err != nil {
		m.setError(err)
		return err
	}
	if m.SelectedTaskID == task.ID {
		m.SelectedTaskID = ""
	}
	m.Status = StatusBar{Text: fmt.Sprintf("deleted: %s", task.Content)}
	m.syncSelection()
	return nil
}

func (m *Model) setFilter(incompleteOnly bool) {
	m.IncompleteOnly = incompleteOnly
	m.Status = StatusBar{Text: "show: " + m.filterLabel()}
	m.syncSelection()
}

func (m Model) filterLabel() string {
	if m.IncompleteOnly {
		return "incomplete only"
	}
	return "all"
}

// resolveRef maps a position in the visible list, or an id or id prefix,
// to a task.
func (m Model) resolveRef(ref string) (model.Task, error) {
	if m.Store == nil {
		return model.Task{}, m.noStore()
	}
	if n, ok := tasks.PositionRef(ref); ok {
		visible := m.visibleTasks()
		if n >= 1 && n <= len(visible) {
			return visible[n-1], nil
		}
	}
	return m.Store.ResolveID(ref)
}

func (m *Model) noStore() error {
	err := errors.New("update: no task store")
	m.setError(err)
	return err
}

func (m Model) taskRows(visible []model.Task) []views.TaskRowData {
	rows := make([]views.TaskRowData, 0, len(visible))
	for i, t := range visible {
		rows = append(rows, rowFor(i+1, t))
	}
	return rows
}

func rowFor(position int, t model.Task) views.TaskRowData {
	return views.TaskRowData{
		Position: position,
		ShortID:  t.ShortID(),
		Content:  t.Content,
		Priority: string(t.Priority),
		Done:     t.Done,
		RemindAt: t.RemindAt.Local().Format(timeFormat),
	}
}

func (m Model) renderTaskList(visible []model.Task) string {
	rows := m.taskRows(visible)
	listView := ""
	if m.listViewport.Height > 0 && len(rows) > m.listViewport.Height {
		vp := m.listViewport
		vp.SetContent(views.RenderTaskRows(m.Theme, rows, m.Cursor))
		if m.Cursor < vp.YOffset {
			vp.SetYOffset(m.Cursor)
		} else if m.Cursor >= vp.YOffset+vp.Height {
			vp.SetYOffset(m.Cursor - vp.Height + 1)
		}
		listView = vp.View()
	}
	return views.RenderTaskList(m.Theme, views.TaskListData{
		InputView:   m.addInput.View(),
		InputActive: m.InputActive,
		Priority:    string(m.NewPriority),
		Filter:      m.filterLabel(),
		Rows:        rows,
		Cursor:      m.Cursor,
		ListView:    listView,
	})
}

func (m Model) renderTaskDetail(visible []model.Task) string {
	if m.Cursor < 0 || m.Cursor >= len(visible) {
		return views.RenderTaskDetail(views.TaskDetailData{})
	}
	task := visible[m.Cursor]
	row := rowFor(m.Cursor+1, task)
	data := views.TaskDetailData{Row: &row}
	if !task.Done && m.Store != nil {
		policy := m.Store.Policy()
		next := task.RemindAt
		for i := 0; i < 2; i++ {
			next = policy.NextAfter(next)
			data.NextDays = append(data.NextDays, next.Local().Format(timeFormat))
		}
	}
	return views.RenderTaskDetail(data)
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
