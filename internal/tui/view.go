package tui

import (
	"fmt"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/julianstephens/nazmara/internal/constants"
)

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	var content string
	switch m.state {
	case StateAccounts:
		content = docStyle.Render(m.accounts.View())
	case StateSetup, StateTaskForm:
		content = docStyle.Render(m.form.View())
	case StateConfirmDelete:
		content = m.viewConfirmDelete()
	default:
		content = lipgloss.JoinVertical(lipgloss.Left,
			m.viewHeader(),
			m.filter.View(),
			docStyle.Render(m.taskList.View()),
		)
	}

	return lipgloss.JoinVertical(
		lipgloss.Left,
		content,
		m.viewStatus(),
		m.help.View(m),
	)
}

func (m Model) viewHeader() string {
	label := m.date
	if d, err := time.Parse(constants.DateFormat, m.date); err == nil {
		label = d.Format("Monday, 2 Jan 2006")
	}
	if m.date == m.today() {
		label += " (today)"
	}
	done := 0
	for _, t := range m.tasks {
		if t.IsComplete {
			done++
		}
	}
	return headerStyle.Render(fmt.Sprintf("%s · %s · %s · %d/%d done",
		constants.DisplayName, m.user.DisplayName(), label, done, len(m.tasks)))
}

func (m Model) viewStatus() string {
	if m.status == "" {
		return ""
	}
	if m.statusErr {
		return warningStyle.Render(m.status)
	}
	return okStyle.Render(m.status)
}

func (m Model) viewConfirmDelete() string {
	return lipgloss.Place(m.width, max(m.height-4, 5),
		lipgloss.Center, lipgloss.Center,
		lipgloss.JoinVertical(lipgloss.Center,
			dangerStyle.Render("Are you sure you want to delete this task?"),
			"",
			"[y] Yes",
			"[n] No",
		),
	)
}
