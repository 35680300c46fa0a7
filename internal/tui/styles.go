package tui

import "github.com/charmbracelet/lipgloss"

var (
	colorPrimary  = lipgloss.Color("62")
	colorMuted    = lipgloss.Color("241")
	colorAccent   = lipgloss.Color("204")
	colorSelected = lipgloss.Color("229")
	colorBorder   = lipgloss.Color("238")
)

var (
	titleStyle         = lipgloss.NewStyle().Foreground(colorPrimary).Bold(true).MarginRight(2)
	statusStyle        = lipgloss.NewStyle().Foreground(colorMuted)
	statusLoadingStyle = lipgloss.NewStyle().Foreground(colorAccent)
	metaLabelStyle     = lipgloss.NewStyle().Foreground(colorMuted).MarginRight(1)
	metaValueStyle     = lipgloss.NewStyle().MarginRight(3)
	modeInputStyle     = lipgloss.NewStyle().Foreground(colorAccent)
	shortcutHintStyle  = lipgloss.NewStyle().Foreground(colorMuted)
	emptyStyle         = lipgloss.NewStyle().Foreground(colorMuted).Italic(true)
	logTitleStyle      = lipgloss.NewStyle().Foreground(colorPrimary).Bold(true)

	topSectionStyle  = lipgloss.NewStyle().Padding(0, 1)
	mainSectionStyle = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(colorBorder).Padding(0, 1)
	logBoxStyle      = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(colorBorder).Padding(0, 1)

	helpHeadingStyle = lipgloss.NewStyle().Foreground(colorPrimary).Bold(true)
	helpItemStyle    = lipgloss.NewStyle()
	helpFooterStyle  = lipgloss.NewStyle().Foreground(colorMuted)

	modalPanelStyle    = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(colorPrimary).Padding(1, 2)
	modalTitleStyle    = lipgloss.NewStyle().Foreground(colorPrimary).Bold(true)
	modalBackdropStyle = lipgloss.NewStyle().Foreground(colorMuted).Faint(true)
)
