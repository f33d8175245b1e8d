package ui

import (
	"context"
	"fmt"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/desertthunder/ytarc/internal/classify"
	"github.com/desertthunder/ytarc/internal/models"
	"github.com/desertthunder/ytarc/internal/tasks"
)

// ViewState represents the current view in the TUI.
type ViewState int

const (
	EntryListView ViewState = iota
	ConfirmView
	DownloadView
	ResultView
)

// Model represents the TUI application state.
type Model struct {
	ctx    context.Context
	view   ViewState
	engine *tasks.Engine
	ref    *classify.Ref
	selExp string
	opts   tasks.RunOpts

	width  int
	height int

	entries   []models.ItemReference
	entryList list.Model
	partial   bool

	spinner      spinner.Model
	progressBar  progress.Model
	progressChan chan tasks.ProgressUpdate
	doneChan     chan batchCompleteMsg
	completed    int
	total        int
	lastMessage  string

	result *models.BatchResult
	err    error

	help help.Model
	keys keyMap
}

type entriesFetchedMsg struct {
	entries []models.ItemReference
	partial bool
	err     error
}

type progressMsg tasks.ProgressUpdate

type batchCompleteMsg struct {
	result *models.BatchResult
	err    error
}

// NewModel creates a TUI model for downloading a collection. The ref is
// enumerated on startup; selExp optionally narrows the entries.
func NewModel(ctx context.Context, engine *tasks.Engine, ref *classify.Ref, selExp string, opts tasks.RunOpts) *Model {
	return &Model{
		ctx:         ctx,
		view:        EntryListView,
		engine:      engine,
		ref:         ref,
		selExp:      selExp,
		opts:        opts,
		spinner:     spinner.New(spinner.WithSpinner(spinner.Dot)),
		progressBar: progress.New(progress.WithDefaultGradient()),
		help:        help.New(),
		keys:        newKeyMap(),
	}
}

// NewItemModel creates a TUI model for a pre-expanded set of items (batch
// files and single links), skipping enumeration.
func NewItemModel(ctx context.Context, engine *tasks.Engine, items []models.ItemReference, opts tasks.RunOpts) *Model {
	m := NewModel(ctx, engine, nil, "", opts)
	m.setEntries(items, false)
	return m
}

// Init enumerates the collection when one was given.
func (m *Model) Init() tea.Cmd {
	if m.ref == nil {
		return nil
	}
	return m.fetchEntries()
}

// Update handles incoming messages and updates the model state.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.entryList.SetSize(msg.Width-4, msg.Height-8)
		m.progressBar.Width = msg.Width - 8
		return m, nil

	case tea.KeyMsg:
		switch m.view {
		case EntryListView:
			return m.handleEntryListKeys(msg)
		case ConfirmView:
			return m.handleConfirmKeys(msg)
		case ResultView:
			return m.handleResultKeys(msg)
		}

	case entriesFetchedMsg:
		if msg.err != nil {
			m.err = msg.err
			return m, tea.Quit
		}
		m.setEntries(msg.entries, msg.partial)
		return m, nil

	case progressMsg:
		update := tasks.ProgressUpdate(msg)
		m.lastMessage = update.Message
		if update.Total > 0 {
			m.total = update.Total
		}
		switch update.Phase {
		case tasks.ItemDone, tasks.ItemFailed, tasks.ItemSkipped:
			m.completed++
		}
		return m, m.waitForDownload()

	case batchCompleteMsg:
		m.result = msg.result
		m.err = msg.err
		m.view = ResultView
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	if m.view == EntryListView {
		var cmd tea.Cmd
		m.entryList, cmd = m.entryList.Update(msg)
		return m, cmd
	}
	return m, nil
}

// View renders the UI based on the current view state.
func (m *Model) View() string {
	if m.err != nil && m.view != ResultView {
		return styles.err.Render(fmt.Sprintf("Error: %v\n\nPress q to quit", m.err))
	}

	switch m.view {
	case EntryListView:
		return m.renderEntryList()
	case ConfirmView:
		return m.renderConfirm()
	case DownloadView:
		return m.renderDownload()
	case ResultView:
		return m.renderResult()
	default:
		return ""
	}
}

func (m *Model) setEntries(entries []models.ItemReference, partial bool) {
	m.entries = entries
	m.partial = partial
	m.entryList = list.New(entryItems(entries), list.NewDefaultDelegate(), 0, 0)
	m.entryList.Title = fmt.Sprintf("%d item(s) queued", len(entries))
	if m.width > 0 {
		m.entryList.SetSize(m.width-4, m.height-8)
	}
}

func (m *Model) handleEntryListKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "enter":
		if len(m.entries) > 0 {
			m.view = ConfirmView
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.entryList, cmd = m.entryList.Update(msg)
	return m, cmd
}

func (m *Model) handleConfirmKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c", "n", "esc":
		m.view = EntryListView
		return m, nil
	case "y", "enter":
		m.view = DownloadView
		return m, tea.Batch(m.spinner.Tick, m.startDownload())
	}
	return m, nil
}

func (m *Model) handleResultKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c", "enter", "esc":
		return m, tea.Quit
	}
	return m, nil
}

func (m *Model) fetchEntries() tea.Cmd {
	return func() tea.Msg {
		entries, partial, err := m.engine.ExpandCollection(m.ctx, m.ref, m.selExp, nil)
		return entriesFetchedMsg{entries: entries, partial: partial, err: err}
	}
}

func (m *Model) startDownload() tea.Cmd {
	m.completed = 0
	m.total = len(m.entries)
	m.progressChan = make(chan tasks.ProgressUpdate, 64)
	m.doneChan = make(chan batchCompleteMsg, 1)

	go func() {
		result, err := m.engine.Run(m.ctx, m.entries, m.opts, m.progressChan)
		m.doneChan <- batchCompleteMsg{result: result, err: err}
	}()

	return m.waitForDownload()
}

func (m *Model) waitForDownload() tea.Cmd {
	return func() tea.Msg {
		select {
		case update := <-m.progressChan:
			return progressMsg(update)
		case done := <-m.doneChan:
			return done
		}
	}
}

func (m *Model) renderEntryList() string {
	header := ""
	if m.partial {
		header = styles.warn.Render("Listing was cut short upstream; showing the entries that arrived.") + "\n"
	}
	helpView := m.help.ShortHelpView([]key.Binding{m.keys.enter, m.keys.quit})
	return fmt.Sprintf("%s%s\n\n%s", header, m.entryList.View(), helpView)
}

func (m *Model) renderConfirm() string {
	title := styles.title.Render(fmt.Sprintf("Download %d item(s)?", len(m.entries)))
	helpView := m.help.ShortHelpView([]key.Binding{m.keys.yes, m.keys.no, m.keys.quit})
	return fmt.Sprintf("%s\n\n%s", title, helpView)
}

func (m *Model) renderDownload() string {
	title := styles.title.Render("Downloading")

	percent := 0.0
	if m.total > 0 {
		percent = float64(m.completed) / float64(m.total)
	}

	return fmt.Sprintf(
		"%s\n\n%s %d/%d\n%s\n\n%s",
		title,
		m.spinner.View(),
		m.completed,
		m.total,
		m.progressBar.ViewAs(percent),
		styles.help.Render(m.lastMessage),
	)
}

func (m *Model) renderResult() string {
	if m.result == nil {
		return styles.err.Render(fmt.Sprintf("Run failed: %v\n\nPress q to quit", m.err))
	}

	title := styles.ok.Render("✓ Run complete")
	if len(m.result.Failed) > 0 {
		title = styles.warn.Render("Run finished with failures")
	}

	info := fmt.Sprintf(
		"\nSucceeded: %d\nFailed: %d\nSkipped: %d\n",
		len(m.result.Succeeded),
		len(m.result.Failed),
		len(m.result.Skipped),
	)

	var failed string
	for _, failure := range m.result.Failed {
		failed += fmt.Sprintf("\n  • %s: %v", failure.ItemID, failure.Err)
	}

	var fatal string
	if m.err != nil {
		fatal = "\n\n" + styles.err.Render(fmt.Sprintf("Run aborted: %v", m.err))
	}

	helpView := m.help.ShortHelpView([]key.Binding{m.keys.quit})
	return fmt.Sprintf("%s\n%s%s%s\n\n%s", title, info, failed, fatal, helpView)
}
