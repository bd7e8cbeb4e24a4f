package tui

import (
	"slices"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/julianstephens/nazmara/internal/constants"
	"github.com/julianstephens/nazmara/internal/form"
	"github.com/julianstephens/nazmara/internal/models"
	"github.com/julianstephens/nazmara/internal/tui/components/tasklist"
)

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if msg, ok := msg.(tea.WindowSizeMsg); ok {
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.accounts.SetSize(msg.Width-4, msg.Height-6)
		m.taskList.SetSize(msg.Width-4, msg.Height-8)
		return m, nil
	}

	if msg, ok := msg.(tea.KeyMsg); ok && msg.String() == "ctrl+c" {
		m.quitting = true
		return m, tea.Quit
	}

	switch m.state {
	case StateSetup:
		return m.updateSetup(msg)
	case StateTaskForm:
		return m.updateTaskForm(msg)
	case StateConfirmDelete:
		return m.updateConfirmDelete(msg)
	case StateAccounts:
		return m.updateAccounts(msg)
	}
	return m.updateTasks(msg)
}

func (m Model) updateForm(msg tea.Msg) (Model, tea.Cmd) {
	f, cmd := m.form.Update(msg)
	if f, ok := f.(*huh.Form); ok {
		m.form = f
	}
	return m, cmd
}

func (m *Model) openSetup() {
	m.setupForm = newSetupFormModel()
	m.form = newSetupForm(m.setupForm)
	m.state = StateSetup
}

func (m Model) updateSetup(msg tea.Msg) (tea.Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok && msg.Type == tea.KeyEsc {
		if len(m.accounts.Items()) > 0 {
			m.state = StateAccounts
			return m, nil
		}
		m.quitting = true
		return m, tea.Quit
	}

	m, cmd := m.updateForm(msg)

	switch m.form.State {
	case huh.StateCompleted:
		data, ok := m.validate(m.setupForm.fields, form.OfflineUserFields, false)
		if !ok {
			m.form = newSetupForm(m.setupForm)
			return m, m.form.Init()
		}
		id, err := m.store.AddOfflineUser(
			data.String(constants.FieldNickname),
			data.String(constants.FieldFirstName),
			data.String(constants.FieldLastName),
		)
		if err != nil {
			m.setError(err)
			m.form = newSetupForm(m.setupForm)
			return m, m.form.Init()
		}
		u, err := m.store.GetUser(id)
		if err != nil {
			m.setError(err)
			return m, nil
		}
		m.setStatus("Welcome, "+u.DisplayName()+"!", false)
		m.openUser(u)
		return m, nil
	case huh.StateAborted:
		m.quitting = true
		return m, tea.Quit
	}
	return m, cmd
}

func (m Model) updateAccounts(msg tea.Msg) (tea.Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.quitting = true
			return m, tea.Quit
		case key.Matches(msg, m.keys.Enter):
			if it, ok := m.accounts.SelectedItem().(accountItem); ok {
				m.openUser(it.user)
			}
			return m, nil
		case key.Matches(msg, m.keys.NewProfile):
			m.openSetup()
			return m, m.form.Init()
		}
	}
	var cmd tea.Cmd
	m.accounts, cmd = m.accounts.Update(msg)
	return m, cmd
}

func (m Model) updateTasks(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tasklist.AddTaskMsg:
		m.editingID = ""
		m.taskForm = newTaskFormModel(m.opts.DefaultPriority, m.date)
		m.form = newTaskForm(m.taskForm, m.tagNames)
		m.state = StateTaskForm
		return m, m.form.Init()

	case tasklist.EditTaskMsg:
		m.editingID = msg.Task.LocalID
		m.taskForm = taskFormFrom(msg.Task)
		m.form = newTaskForm(m.taskForm, m.tagNames)
		m.state = StateTaskForm
		return m, m.form.Init()

	case tasklist.ToggleTaskMsg:
		done, err := m.store.ToggleTaskComplete(msg.ID)
		if err != nil {
			m.setError(err)
		} else if done {
			m.setStatus("Task completed.", false)
		} else {
			m.setStatus("Task reopened.", false)
		}
		m.reload()
		return m, nil

	case tasklist.DeleteTaskMsg:
		m.deletingID = msg.ID
		m.state = StateConfirmDelete
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.quitting = true
			return m, tea.Quit
		case key.Matches(msg, m.keys.Help):
			m.help.ShowAll = !m.help.ShowAll
			return m, nil
		case key.Matches(msg, m.keys.Tab):
			m.filter.Next()
			m.taskList.SetTasks(m.visibleTasks(), m.tagNames)
			return m, nil
		case key.Matches(msg, m.keys.ShiftTab):
			m.filter.Prev()
			m.taskList.SetTasks(m.visibleTasks(), m.tagNames)
			return m, nil
		case key.Matches(msg, m.keys.PrevDay):
			m.shiftDay(-1)
			return m, nil
		case key.Matches(msg, m.keys.NextDay):
			m.shiftDay(1)
			return m, nil
		case key.Matches(msg, m.keys.Today):
			m.date = m.today()
			m.reload()
			return m, nil
		case key.Matches(msg, m.keys.NextDate):
			m.jumpDate(true)
			return m, nil
		case key.Matches(msg, m.keys.PrevDate):
			m.jumpDate(false)
			return m, nil
		case key.Matches(msg, m.keys.Accounts):
			m.status = ""
			m.start()
			if m.state == StateSetup {
				return m, m.form.Init()
			}
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.taskList, cmd = m.taskList.Update(msg)
	return m, cmd
}

func taskFormFrom(t models.Task) *taskFormModel {
	date := ""
	if t.DateTime != nil {
		date = *t.DateTime
	}
	fm := newTaskFormModel(t.Priority.String(), date)
	fm.fields.get(constants.FieldTitle).value = t.Title
	if t.Description != nil {
		fm.fields.get(constants.FieldDescription).value = *t.Description
	}
	if t.TagID != nil {
		fm.tagID = *t.TagID
	}
	return fm
}

func (m Model) updateTaskForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok && msg.Type == tea.KeyEsc {
		m.state = StateTasks
		return m, nil
	}

	m, cmd := m.updateForm(msg)

	switch m.form.State {
	case huh.StateCompleted:
		required := []string{constants.FieldTitle, constants.FieldPriority}
		data, ok := m.validate(m.taskForm.fields, required, false)
		if !ok {
			m.form = newTaskForm(m.taskForm, m.tagNames)
			return m, m.form.Init()
		}

		var tagID *string
		if m.taskForm.tagID != "" {
			tagID = &m.taskForm.tagID
		}
		date := strings.TrimSpace(m.taskForm.date)
		title := data.String(constants.FieldTitle)
		desc := data.String(constants.FieldDescription)
		prio := models.Priority(data.Int(constants.FieldPriority))

		var err error
		if m.editingID == "" {
			_, err = m.store.AddTask(title, m.user.ID, desc, prio, date, tagID)
		} else {
			err = m.store.UpdateTask(m.editingID, title, desc, prio, date, tagID)
		}
		if err != nil {
			m.setError(err)
			m.form = newTaskForm(m.taskForm, m.tagNames)
			return m, m.form.Init()
		}

		m.setStatus("Task saved.", false)
		m.date = date
		m.state = StateTasks
		m.reload()
		return m, nil
	case huh.StateAborted:
		m.state = StateTasks
		return m, nil
	}
	return m, cmd
}

func (m Model) updateConfirmDelete(msg tea.Msg) (tea.Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch msg.String() {
		case "y", "Y":
			if err := m.store.DeleteTask(m.deletingID); err != nil {
				m.setError(err)
			} else {
				m.setStatus("Task deleted.", false)
			}
			m.deletingID = ""
			m.state = StateTasks
			m.reload()
		case "n", "N", "esc":
			m.deletingID = ""
			m.state = StateTasks
		}
	}
	return m, nil
}

func (m *Model) shiftDay(days int) {
	d, err := time.Parse(constants.DateFormat, m.date)
	if err != nil {
		d = m.now()
	}
	m.date = d.AddDate(0, 0, days).Format(constants.DateFormat)
	m.reload()
}

// jumpDate moves to the nearest later (or earlier) date that has tasks.
func (m *Model) jumpDate(forward bool) {
	dates, err := m.store.GetUserTaskDates(m.user.ID)
	if err != nil {
		m.setError(err)
		return
	}
	// dates are sorted ascending and share one fixed-width format
	i, found := slices.BinarySearch(dates, m.date)
	switch {
	case forward:
		if found {
			i++
		}
		if i < len(dates) {
			m.date = dates[i]
			m.reload()
			return
		}
	case i > 0:
		m.date = dates[i-1]
		m.reload()
		return
	}
	m.setStatus("No more days with tasks.", false)
}
