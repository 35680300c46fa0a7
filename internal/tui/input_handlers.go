package tui

import (
	tea "github.com/charmbracelet/bubbletea"
)

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		return m, tea.Quit
	}
	if m.helpActive {
		return m.handleHelpKey(msg)
	}
	if m.filterActive {
		return m.handleFilterKey(msg)
	}

	switch msg.String() {
	case "q":
		return m, tea.Quit
	case "?", "f1":
		m.helpActive = true
		return m, nil
	case "/":
		m.filterActive = true
		cmd := m.filterInput.Focus()
		return m, cmd
	case "esc":
		if m.filterInput.Value() != "" {
			m.filterInput.SetValue("")
			m.syncTable()
			m.status = m.summary()
		}
		return m, nil
	case "y":
		m.copySelectedTagReference()
		return m, nil
	case "r":
		return m.refetch()
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

func (m Model) handleFilterKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.filterActive = false
		m.filterInput.Blur()
		m.filterInput.SetValue("")
		m.syncTable()
		m.status = m.summary()
		return m, nil
	case tea.KeyEnter:
		m.filterActive = false
		m.filterInput.Blur()
		return m, nil
	case tea.KeyUp, tea.KeyDown:
		var cmd tea.Cmd
		m.table, cmd = m.table.Update(msg)
		return m, cmd
	}

	var cmd tea.Cmd
	m.filterInput, cmd = m.filterInput.Update(msg)
	m.syncTable()
	m.status = m.summary()
	return m, cmd
}

func (m Model) handleHelpKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc", "?", "f1", "enter":
		m.helpActive = false
	case "q":
		m.helpActive = false
		return m, tea.Quit
	}
	return m, nil
}
