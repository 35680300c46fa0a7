package tui

import (
	"fmt"
	"strings"

	lipglossv2 "github.com/charmbracelet/lipgloss/v2"
)

type helpEntry struct {
	Keys   string
	Action string
}

var helpEntries = []helpEntry{
	{Keys: "up/down", Action: "Move selection"},
	{Keys: "/", Action: "Filter tags by name"},
	{Keys: "esc", Action: "Clear the filter"},
	{Keys: "y", Action: "Copy the pull reference of the selected tag"},
	{Keys: "r", Action: "Fetch the tags again"},
	{Keys: "?", Action: "Toggle this help"},
	{Keys: "q", Action: "Quit"},
}

func shortcutHintLine(filtering bool) string {
	if filtering {
		return "enter apply  esc clear  up/down move"
	}
	return "/ filter  y copy  r refresh  ? help  q quit"
}

func (m Model) renderHelpModal() string {
	maxKey := 8
	for _, entry := range helpEntries {
		maxKey = maxInt(maxKey, len(entry.Keys))
	}
	lines := []string{
		modalTitleStyle.Render("Shortcuts"),
		"",
	}
	for _, entry := range helpEntries {
		lines = append(lines, helpItemStyle.Render(fmt.Sprintf("%-*s  %s", maxKey, entry.Keys, entry.Action)))
	}
	lines = append(lines,
		"",
		helpHeadingStyle.Render("Filtering"),
		helpItemStyle.Render("Matches any tag containing the text, case-insensitive."),
		"",
		helpFooterStyle.Render("Press esc, ?, f1, or enter to close help."),
	)
	return m.renderModalCard(strings.Join(lines, "\n"), 64)
}

func (m Model) renderModal(base, modal string) string {
	width, height := m.modalViewport(base)
	background := lipglossv2.Place(width, height, lipglossv2.Left, lipglossv2.Top, modalBackdropStyle.Render(base))
	canvas := lipglossv2.NewCanvas(lipglossv2.NewLayer(background))
	canvas.AddLayers(
		lipglossv2.NewLayer(modal).
			X(maxInt(0, (width-lipglossv2.Width(modal))/2)).
			Y(maxInt(0, (height-lipglossv2.Height(modal))/2)).
			Z(1),
	)
	return canvas.Render()
}

func (m Model) renderModalCard(content string, maxWidth int) string {
	return modalPanelStyle.Width(m.modalWidth(maxWidth)).Render(content)
}

func (m Model) modalWidth(maxWidth int) int {
	width, _ := m.modalViewport("")
	if width <= 2 {
		return width
	}
	modalWidth := width - 8
	if modalWidth < 24 {
		modalWidth = width - 2
	}
	if maxWidth > 0 && modalWidth > maxWidth {
		modalWidth = maxWidth
	}
	return maxInt(12, modalWidth)
}

func (m Model) modalViewport(base string) (int, int) {
	width := m.width
	if width <= 0 {
		width = defaultRenderWidth
	}
	height := m.height
	if height <= 0 {
		height = maxInt(24, lineCount(base))
	}
	return width, height
}
