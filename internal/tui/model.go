package tui

import (
	"context"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/scottbass3/regtags/internal/registry"
)

const (
	defaultTableHeight = 10
	minTableHeight     = 3
	maxLogLines        = 25
	maxVisibleLogs     = 5
	maxFilterWidth     = 40
	defaultRenderWidth = 80
	topSectionLines    = 5
	tableChromeLines   = 4
)

// TagSource is the part of registry.Fetcher the browser needs.
type TagSource interface {
	Tags(ctx context.Context, repo string) (registry.Reference, []registry.Tag, error)
}

type Model struct {
	width  int
	height int

	repo    string
	source  TagSource
	ref     registry.Reference
	tags    []registry.Tag
	visible []int

	status  string
	loading bool

	filterActive bool
	filterInput  textinput.Model

	table table.Model

	helpActive bool

	debug  bool
	logCh  <-chan string
	logs   []string
	logMax int
}

type tagsMsg struct {
	ref  registry.Reference
	tags []registry.Tag
	err  error
}

type logMsg string

// NewModel builds a browser for repo. logCh carries formatted request log
// lines and is only read when debug is set.
func NewModel(source TagSource, repo string, debug bool, logCh <-chan string) Model {
	filter := textinput.New()
	filter.Prompt = "/ "
	filter.Placeholder = "filter"
	filter.CharLimit = 64
	filter.Width = maxFilterWidth
	filter.Blur()

	tbl := table.New(table.WithColumns(tableColumns(defaultRenderWidth)))
	tbl.SetStyles(tableStyles())
	tbl.SetHeight(defaultTableHeight)
	tbl.Focus()

	return Model{
		repo:        repo,
		source:      source,
		status:      "Fetching " + repo,
		loading:     true,
		filterInput: filter,
		table:       tbl,
		debug:       debug,
		logCh:       logCh,
		logMax:      maxLogLines,
	}
}

func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{fetchTagsCmd(m.source, m.repo)}
	if m.debug && m.logCh != nil {
		cmds = append(cmds, listenLogs(m.logCh))
	}
	return tea.Batch(cmds...)
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.syncTable()
		return m, nil
	case tagsMsg:
		return m.handleTags(msg), nil
	case logMsg:
		m.appendLog(string(msg))
		return m, listenLogs(m.logCh)
	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m Model) handleTags(msg tagsMsg) Model {
	m.loading = false
	if msg.err != nil {
		m.status = "Error: " + msg.err.Error()
		return m
	}
	m.ref = msg.ref
	m.tags = msg.tags
	m.syncTable()
	m.status = m.summary()
	return m
}

func (m Model) refetch() (Model, tea.Cmd) {
	if m.loading {
		return m, nil
	}
	m.loading = true
	m.status = "Fetching " + m.repo
	return m, fetchTagsCmd(m.source, m.repo)
}
