package update

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	"github.com/sandeepkv93/tasklist/internal/model"
	"github.com/sandeepkv93/tasklist/internal/notify"
	"github.com/sandeepkv93/tasklist/internal/tasks"
	"github.com/sandeepkv93/tasklist/internal/views"
)

const (
	maxReminderLog   = 20
	maxNotifications = 40
)

type StatusBar struct {
	Text    string
	IsError bool
}

type GlobalKeyMap struct {
	Add     string
	Toggle  string
	Delete  string
	Filter  string
	Theme   string
	Palette string
	Help    string
	Quit    string
}

type CommandPaletteState struct {
	Active bool
	Input  string
}

// Model is the bubbletea model for the task list screen. The task list
// itself lives in Store; the model only keeps view state.
type Model struct {
	Store *tasks.Store
	// Theme is changed only through SetTheme.
	Theme          views.Theme
	IncompleteOnly bool
	Cursor         int
	SelectedTaskID string
	NewPriority    model.Priority
	InputActive    bool
	Palette        CommandPaletteState
	HelpVisible    bool
	ReminderLog    []model.Reminder
	Notifications  []notify.Notification
	Status         StatusBar
	Keys           GlobalKeyMap
	Quitting       bool
	LastError      error

	reminders    <-chan model.Reminder
	ctx          context.Context
	now          func() time.Time
	width        int
	height       int
	addInput     textinput.Model
	commandInput textinput.Model
	helpModel    help.Model
	listViewport viewport.Model
}

type SetStatusMsg struct {
	Text    string
	IsError bool
}

type ClearStatusMsg struct{}

type AppErrorMsg struct {
	Err error
}

type ReminderDueMsg struct {
	Reminder model.Reminder
}

type Option func(*Model)

func WithTheme(theme views.Theme) Option {
	return func(m *Model) {
		m.Theme = theme
	}
}

// WithReminders subscribes the model to fired reminders.
func WithReminders(ch <-chan model.Reminder) Option {
	return func(m *Model) {
		m.reminders = ch
	}
}

func WithClock(now func() time.Time) Option {
	return func(m *Model) {
		if now != nil {
			m.now = now
		}
	}
}

func WithContext(ctx context.Context) Option {
	return func(m *Model) {
		if ctx != nil {
			m.ctx = ctx
		}
	}
}

func NewModel(store *tasks.Store, opts ...Option) Model {
	m := Model{
		Store:       store,
		Theme:       views.ThemeLight,
		NewPriority: model.PriorityMedium,
		Keys: GlobalKeyMap{
			Add:     "a",
			Toggle:  "x",
			Delete:  "d",
			Filter:  "f",
			Theme:   "t",
			Palette: "/",
			Help:    "?",
			Quit:    "q",
		},
		ctx: context.Background(),
		now: time.Now,
	}
	for _, opt := range opts {
		opt(&m)
	}
	m.initBubbleComponents()
	m.syncSelection()
	return m
}

// SetTheme switches the theme used by View.
func (m *Model) SetTheme(theme views.Theme) {
	m.Theme = theme
}

func (m *Model) initBubbleComponents() {
	m.addInput = textinput.New()
	m.addInput.Prompt = ""
	m.addInput.Placeholder = "new task"
	m.addInput.CharLimit = 256
	m.addInput.Width = 42

	m.commandInput = textinput.New()
	m.commandInput.Prompt = "/"
	m.commandInput.CharLimit = 256
	m.commandInput.Width = 48

	m.helpModel = help.New()
	m.listViewport = viewport.New(56, 12)
}

func (m *Model) notify(title, body, level string) {
	if body == "" {
		return
	}
	m.Notifications = append(m.Notifications, notify.Notification{
		Title: title,
		Body:  body,
		Level: level,
		At:    m.now(),
	})
	if len(m.Notifications) > maxNotifications {
		m.Notifications = m.Notifications[len(m.Notifications)-maxNotifications:]
	}
}

func (m *Model) setError(err error) {
	m.LastError = err
	m.Status = StatusBar{Text: err.Error(), IsError: true}
}
