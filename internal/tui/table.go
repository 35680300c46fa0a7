package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/lipgloss"
)

const dateColumnWidth = 12

func tableColumns(width int) []table.Column {
	tagWidth := maxInt(16, sectionPanelWidth(width)-dateColumnWidth-8)
	return []table.Column{
		{Title: "Tag", Width: tagWidth},
		{Title: "Date", Width: dateColumnWidth},
	}
}

func tableStyles() table.Styles {
	styles := table.DefaultStyles()
	styles.Header = styles.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderBottom(true).
		Foreground(colorMuted).
		Bold(true)
	styles.Selected = styles.Selected.
		Foreground(colorSelected).
		Background(colorPrimary).
		Bold(true)
	return styles
}

// syncTable rebuilds the rows from the tags matching the current filter.
func (m *Model) syncTable() {
	filter := strings.ToLower(strings.TrimSpace(m.filterInput.Value()))
	m.visible = make([]int, 0, len(m.tags))
	rows := make([]table.Row, 0, len(m.tags))
	for i, tag := range m.tags {
		if filter != "" && !strings.Contains(strings.ToLower(tag.Name), filter) {
			continue
		}
		m.visible = append(m.visible, i)
		rows = append(rows, table.Row{tag.Name, tag.Date()})
	}

	m.table.SetColumns(tableColumns(m.width))
	m.table.SetRows(rows)
	m.table.SetHeight(m.tableHeight())
	if cursor := m.table.Cursor(); cursor >= len(rows) {
		m.table.SetCursor(maxInt(0, len(rows)-1))
	}
}

func (m Model) tableHeight() int {
	if m.height <= 0 {
		return defaultTableHeight
	}
	height := m.height - topSectionLines - tableChromeLines
	if m.debug {
		height -= maxVisibleLogs + 3
	}
	return maxInt(minTableHeight, height)
}

func (m Model) selectedTag() (string, bool) {
	cursor := m.table.Cursor()
	if cursor < 0 || cursor >= len(m.visible) {
		return "", false
	}
	index := m.visible[cursor]
	if index < 0 || index >= len(m.tags) {
		return "", false
	}
	return m.tags[index].Name, true
}

func (m Model) summary() string {
	if len(m.visible) == len(m.tags) {
		return fmt.Sprintf("%s tags", formatCount(len(m.tags)))
	}
	return fmt.Sprintf("%s of %s tags", formatCount(len(m.visible)), formatCount(len(m.tags)))
}

func formatCount(value int) string {
	if value < 0 {
		return "-"
	}
	return fmt.Sprintf("%d", value)
}
