package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

func (m Model) View() string {
	base := m.renderApp()
	if m.helpActive {
		return m.renderModal(base, m.renderHelpModal())
	}
	return base
}

func (m Model) renderApp() string {
	sections := []string{
		m.renderTopSection(),
		m.renderMainSection(),
	}
	if m.debug {
		sections = append(sections, m.renderLogs())
	}
	return strings.Join(sections, "\n")
}

func (m Model) renderTopSection() string {
	statusValue := strings.TrimSpace(m.status)
	if statusValue == "" {
		statusValue = "-"
	}
	statusLine := statusStyle.Render(statusValue)
	if m.loading {
		statusLine = statusLoadingStyle.Render(statusValue + "...")
	}

	image := m.repo
	if m.ref.Repository != "" {
		image = m.ref.Image()
	}
	registryName := string(m.ref.Kind)
	if registryName == "" {
		registryName = "-"
	}

	headerLine := lipgloss.JoinHorizontal(lipgloss.Top, titleStyle.Render("regtags"), statusLine)
	metaLine := lipgloss.JoinHorizontal(
		lipgloss.Top,
		metaLabelStyle.Render("Registry"),
		metaValueStyle.Render(registryName),
		metaLabelStyle.Render("Image"),
		metaValueStyle.Render(image),
	)
	lines := []string{headerLine, metaLine}
	if inputLine := m.renderModeInputLine(); inputLine != "" {
		lines = append(lines, modeInputStyle.Render(inputLine))
	}
	lines = append(lines, shortcutHintStyle.Render(shortcutHintLine(m.filterActive)))
	return topSectionStyle.Width(sectionPanelWidth(m.width)).Render(strings.Join(lines, "\n"))
}

func (m Model) renderModeInputLine() string {
	if m.filterActive {
		return m.filterInput.View()
	}
	if value := strings.TrimSpace(m.filterInput.Value()); value != "" {
		return m.filterInput.Prompt + value
	}
	return ""
}

func (m Model) renderMainSection() string {
	body := m.table.View()
	if len(m.table.Rows()) == 0 {
		body += "\n" + emptyStyle.Render(m.emptyBodyMessage())
	}
	return mainSectionStyle.Width(sectionPanelWidth(m.width)).Render(body)
}

func (m Model) emptyBodyMessage() string {
	switch {
	case m.loading:
		return "Loading tags..."
	case len(m.tags) == 0:
		return "No tags found."
	default:
		return "No tags match the filter."
	}
}

func (m Model) renderLogs() string {
	panelWidth := sectionPanelWidth(m.width)
	contentWidth := maxInt(10, panelWidth-6)

	lines := []string{logTitleStyle.Render("Requests")}
	visible := m.visibleLogs()
	if len(visible) == 0 {
		lines = append(lines, emptyStyle.Render("(no requests yet)"))
	}
	for _, entry := range visible {
		lines = append(lines, truncateLogLine(entry, contentWidth))
	}
	for len(lines) < maxVisibleLogs+1 {
		lines = append(lines, "")
	}
	return logBoxStyle.Width(panelWidth).Render(strings.Join(lines, "\n"))
}

func (m Model) visibleLogs() []string {
	if len(m.logs) == 0 {
		return nil
	}
	count := minInt(len(m.logs), maxVisibleLogs)
	return m.logs[len(m.logs)-count:]
}

func sectionPanelWidth(width int) int {
	if width <= 0 {
		width = defaultRenderWidth
	}
	panelWidth := width - 2
	if panelWidth < 24 {
		panelWidth = width
	}
	if panelWidth < 1 {
		panelWidth = 1
	}
	return panelWidth
}
