package tui

import (
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/julianstephens/nazmara/internal/constants"
	"github.com/julianstephens/nazmara/internal/form"
	"github.com/julianstephens/nazmara/internal/models"
	"github.com/julianstephens/nazmara/internal/storage"
	"github.com/julianstephens/nazmara/internal/tui/components/tabs"
	"github.com/julianstephens/nazmara/internal/tui/components/tasklist"
)

type SessionState int

const (
	StateAccounts SessionState = iota
	StateSetup
	StateTasks
	StateTaskForm
	StateConfirmDelete
)

// Task filters, in tab order.
const (
	FilterAll = iota
	FilterOpen
	FilterDone
)

// Sizes used until the first WindowSizeMsg arrives.
const (
	defaultWidth  = 60
	defaultHeight = 20
)

type Options struct {
	DefaultPriority string
	// UserID preselects a profile and skips the account screen when set.
	UserID int64
}

type Model struct {
	store     storage.Provider
	validator *form.Validator
	opts      Options
	now       func() time.Time

	state    SessionState
	keys     KeyMap
	help     help.Model
	accounts list.Model
	filter   tabs.TabGroup
	taskList tasklist.Model

	user     models.User
	date     string
	tasks    []models.Task
	tagNames map[string]string

	form       *huh.Form
	setupForm  *setupFormModel
	taskForm   *taskFormModel
	editingID  string
	deletingID string

	status    string
	statusErr bool
	quitting  bool
	width     int
	height    int
}

func NewModel(store storage.Provider, validator *form.Validator, opts Options) Model {
	if opts.DefaultPriority == "" {
		opts.DefaultPriority = constants.DefaultPriorityLabel
	}

	filter := tabs.New("All", "Open", "Done")
	filter.Active = activeTabStyle
	filter.Inactive = inactiveTabStyle

	accounts := list.New(nil, list.NewDefaultDelegate(), defaultWidth, defaultHeight)
	accounts.Title = "Choose a profile"
	accounts.SetShowHelp(false)
	accounts.SetFilteringEnabled(false)
	accounts.DisableQuitKeybindings()

	m := Model{
		store:     store,
		validator: validator,
		opts:      opts,
		now:       time.Now,
		keys:      DefaultKeyMap(),
		help:      help.New(),
		accounts:  accounts,
		filter:    filter,
		taskList:  tasklist.New(defaultWidth, defaultHeight),
		tagNames:  map[string]string{},
	}
	m.date = m.today()
	m.start()
	return m
}

// start picks the first screen: setup when no profile exists, the account
// list otherwise, or straight to tasks when a profile was requested.
func (m *Model) start() {
	users, err := m.store.GetListOfUsers()
	if err != nil {
		m.setError(err)
		users = nil
	}

	if m.opts.UserID != 0 {
		for _, u := range users {
			if u.ID == m.opts.UserID {
				m.openUser(u)
				return
			}
		}
	}

	if len(users) == 0 {
		m.openSetup()
		return
	}

	items := make([]list.Item, len(users))
	for i, u := range users {
		items[i] = accountItem{user: u}
	}
	m.accounts.SetItems(items)
	// GetListOfUsers is oldest first, so the last profile is the newest.
	m.accounts.Select(len(items) - 1)
	m.state = StateAccounts
}

func (m *Model) openUser(u models.User) {
	m.user = u
	m.state = StateTasks
	m.reload()
}

func (m Model) today() string {
	return m.now().Format(constants.DateFormat)
}

// reload fetches the selected day and applies the active filter.
func (m *Model) reload() {
	tasks, err := m.store.GetTasksByDate(m.date, m.user.ID)
	if err != nil {
		m.setError(err)
		return
	}
	m.tasks = tasks

	if tags, err := m.store.GetTags(m.user.ID); err == nil {
		m.tagNames = make(map[string]string, len(tags))
		for _, t := range tags {
			m.tagNames[t.LocalID] = t.Name
		}
	}

	m.taskList.SetTasks(m.visibleTasks(), m.tagNames)
}

func (m Model) visibleTasks() []models.Task {
	out := make([]models.Task, 0, len(m.tasks))
	for _, t := range m.tasks {
		switch m.filter.Selected() {
		case FilterOpen:
			if t.IsComplete {
				continue
			}
		case FilterDone:
			if !t.IsComplete {
				continue
			}
		}
		out = append(out, t)
	}
	return out
}

func (m Model) ShortHelp() []key.Binding {
	switch m.state {
	case StateAccounts:
		return []key.Binding{m.keys.Enter, m.keys.NewProfile, m.keys.Quit}
	case StateTasks:
		return []key.Binding{m.keys.Tab, m.keys.Add, m.keys.Toggle, m.keys.PrevDay, m.keys.NextDay, m.keys.Quit, m.keys.Help}
	}
	return []key.Binding{m.keys.Back}
}

func (m Model) FullHelp() [][]key.Binding {
	if m.state != StateTasks {
		return [][]key.Binding{m.ShortHelp()}
	}
	return [][]key.Binding{
		{m.keys.Tab, m.keys.ShiftTab, m.keys.Up, m.keys.Down},
		{m.keys.Add, m.keys.Edit, m.keys.Toggle, m.keys.Delete},
		{m.keys.PrevDay, m.keys.NextDay, m.keys.Today, m.keys.NextDate, m.keys.PrevDate},
		{m.keys.Accounts, m.keys.Quit, m.keys.Help},
	}
}

func (m Model) Init() tea.Cmd {
	if m.form != nil {
		return m.form.Init()
	}
	return nil
}

type accountItem struct {
	user models.User
}

func (i accountItem) Title() string { return i.user.DisplayName() }

func (i accountItem) Description() string {
	name := ""
	if i.user.FirstName != nil {
		name = *i.user.FirstName
	}
	if i.user.LastName != nil {
		name += " " + *i.user.LastName
	}
	if i.user.IsOffline() {
		return name + " (offline)"
	}
	if i.user.Email != nil {
		return name + " <" + *i.user.Email + ">"
	}
	return name
}

func (i accountItem) FilterValue() string { return i.user.DisplayName() }
