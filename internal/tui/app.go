// Package tui provides the terminal user interface for replicant.
package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"

	"github.com/kannan/replicant/internal/app"
	"github.com/kannan/replicant/internal/logger"
	"github.com/kannan/replicant/internal/module"
	"github.com/kannan/replicant/internal/session"
	"github.com/kannan/replicant/internal/transcript"
	"github.com/kannan/replicant/internal/tui/styles"
)

// pollInterval is how often a running module's output is pulled into the
// viewport.
const pollInterval = 100 * time.Millisecond

const (
	headerHeight = 1
	inputHeight  = 1
	footerHeight = 1
)

// Model is the main TUI application model.
type Model struct {
	sess  *session.Session
	out   *transcript.Transcript
	title string
	theme styles.Theme

	viewport viewport.Model
	input    textinput.Model
	spinner  spinner.Model
	renderer *glamour.TermRenderer

	watcher *module.Watcher
	done    chan struct{}

	// highlighted caches rendered source entries by transcript index.
	highlighted map[int]string
	version     uint64

	width   int
	height  int
	busy    bool
	running string
	cancel  context.CancelFunc
}

// Messages

type submitDoneMsg struct {
	err error
}

type pollMsg struct{}

type modulesChangedMsg struct{}

// New creates the model for a runtime and writes the welcome message.
func New(rt *app.Runtime) Model {
	theme := styles.NewTheme(rt.Config.UI.Colors)

	ti := textinput.New()
	ti.Placeholder = "module name"
	ti.Prompt = "> "
	ti.CharLimit = 256
	ti.Width = 80
	ti.PromptStyle = theme.Input
	ti.Focus()

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = theme.Spinner

	title := rt.Config.UI.Title
	if title == "" {
		title = app.Name
	}

	m := Model{
		sess:        rt.Session,
		out:         rt.Transcript,
		title:       title,
		theme:       theme,
		viewport:    viewport.New(80, 20),
		input:       ti,
		spinner:     sp,
		highlighted: make(map[int]string),
		done:        make(chan struct{}),
	}
	if rt.Config.UI.Highlight {
		m.renderer = newRenderer(80)
	}

	m.sess.Welcome()
	m.syncViewport()
	return m
}

func newRenderer(width int) *glamour.TermRenderer {
	r, err := glamour.NewTermRenderer(
		glamour.WithStylePath("dark"),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		logger.Warn("source highlighting disabled", "error", err)
		return nil
	}
	return r
}

// Init initializes the TUI model.
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		tea.SetWindowTitle(m.title),
		textinput.Blink,
		waitForChange(m.watcher, m.done),
	)
}

// Run starts the TUI application.
func Run(rt *app.Runtime) error {
	m := New(rt)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if w := rt.NewWatcher(); w != nil {
		w.Start(ctx)
		defer w.Stop()
		m.watcher = w
	}
	defer close(m.done)

	p := tea.NewProgram(m, tea.WithAltScreen())
	_, err := p.Run()
	return err
}

// Update handles messages and updates the model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKeyPress(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.viewport.Width = msg.Width
		m.viewport.Height = max(1, msg.Height-headerHeight-inputHeight-footerHeight)
		m.input.Width = max(10, msg.Width-4)
		if m.renderer != nil {
			m.renderer = newRenderer(max(20, msg.Width-4))
			m.highlighted = make(map[int]string)
		}
		m.version = 0
		m.syncViewport()
		return m, nil

	case submitDoneMsg:
		m.busy = false
		m.running = ""
		if m.cancel != nil {
			m.cancel()
			m.cancel = nil
		}
		m.syncViewport()
		return m, nil

	case pollMsg:
		if !m.busy {
			return m, nil
		}
		m.syncViewport()
		return m, poll()

	case modulesChangedMsg:
		if err := m.sess.Refresh(); err != nil {
			logger.Warn("module refresh failed", "error", err)
		}
		return m, waitForChange(m.watcher, m.done)

	case spinner.TickMsg:
		if m.busy {
			var cmd tea.Cmd
			m.spinner, cmd = m.spinner.Update(msg)
			return m, cmd
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

// handleKeyPress processes keyboard input.
func (m Model) handleKeyPress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		if m.busy {
			if m.cancel != nil {
				logger.Info("cancelling module", "module", m.running)
				m.cancel()
			}
			return m, nil
		}
		return m, tea.Quit

	case "esc":
		m.input.Reset()
		return m, nil

	case "ctrl+l":
		if m.busy {
			return m, nil
		}
		m.out.Reset()
		m.highlighted = make(map[int]string)
		m.version = 0
		m.syncViewport()
		return m, nil

	case "pgup", "pgdown":
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		return m, cmd

	case "enter":
		if m.busy {
			return m, nil
		}
		return m.submit()
	}

	if m.busy {
		return m, nil
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// submit hands the input box to the session. Submissions run off the UI
// goroutine so module output can stream while the module runs.
func (m Model) submit() (tea.Model, tea.Cmd) {
	value := m.input.Value()
	m.input.Reset()

	ctx, cancel := context.WithCancel(context.Background())
	m.cancel = cancel
	m.busy = true
	if prog, ok := m.sess.Pending(); ok {
		m.running = prog.Module
	}

	sess := m.sess
	run := func() tea.Msg {
		return submitDoneMsg{err: sess.Submit(ctx, value)}
	}
	return m, tea.Batch(run, m.spinner.Tick, poll())
}

func poll() tea.Cmd {
	return tea.Tick(pollInterval, func(time.Time) tea.Msg {
		return pollMsg{}
	})
}

func waitForChange(w *module.Watcher, done <-chan struct{}) tea.Cmd {
	if w == nil {
		return nil
	}
	return func() tea.Msg {
		select {
		case <-w.Changes():
			return modulesChangedMsg{}
		case <-done:
			return nil
		}
	}
}

// syncViewport re-renders the transcript when it has changed.
func (m *Model) syncViewport() {
	v := m.out.Version()
	if v == m.version && m.version != 0 {
		return
	}
	m.version = v

	atBottom := m.viewport.AtBottom()
	m.viewport.SetContent(m.renderTranscript())
	if atBottom || m.busy {
		m.viewport.GotoBottom()
	}
}

func (m *Model) renderTranscript() string {
	var sb strings.Builder
	for i, e := range m.out.Entries(0) {
		if e.Tone == transcript.Source && m.renderer != nil {
			sb.WriteString(m.highlight(i, e))
			continue
		}
		sb.WriteString(m.theme.Render(e.Tone, e.Text))
	}
	return sb.String()
}

// highlight renders a source entry through glamour once per entry, in
// the language of the module the entry was read from.
func (m *Model) highlight(idx int, e transcript.Entry) string {
	if s, ok := m.highlighted[idx]; ok {
		return s
	}

	md := fmt.Sprintf("```%s\n%s\n```\n", languageFor(e.Ext), strings.TrimRight(e.Text, "\n"))
	out, err := m.renderer.Render(md)
	if err != nil {
		return m.theme.Render(transcript.Source, e.Text)
	}
	m.highlighted[idx] = out
	return out
}

func languageFor(ext string) string {
	switch ext {
	case ".go", ".tengo":
		return "go"
	case ".js":
		return "javascript"
	default:
		return ""
	}
}

// View renders the console.
func (m Model) View() string {
	var sb strings.Builder

	header := m.theme.Title.Render(m.title) + " " + m.theme.State.Render(m.stateLabel())
	sb.WriteString(header)
	sb.WriteString("\n")

	sb.WriteString(m.viewport.View())
	sb.WriteString("\n")

	if m.busy {
		label := "working"
		if m.running != "" {
			label = "running " + m.running
		}
		sb.WriteString(m.spinner.View() + " " + m.theme.State.Render(label))
	} else {
		sb.WriteString(m.input.View())
	}
	sb.WriteString("\n")

	sb.WriteString(styles.FooterStyle.Render(styles.RenderHelp(m.helpBindings())))

	if m.width > 0 && m.height > 0 {
		return lipgloss.NewStyle().
			Width(m.width).
			MaxHeight(m.height).
			Background(m.theme.Background).
			Render(sb.String())
	}
	return sb.String()
}

func (m Model) stateLabel() string {
	if m.sess.State() == session.Confirm {
		return "confirm"
	}
	return "select a module"
}

func (m Model) helpBindings() []styles.Binding {
	if m.busy {
		return []styles.Binding{{Key: "ctrl+c", Desc: "cancel"}}
	}
	return []styles.Binding{
		{Key: "enter", Desc: "submit"},
		{Key: "esc", Desc: "clear input"},
		{Key: "ctrl+l", Desc: "clear output"},
		{Key: "pgup/pgdn", Desc: "scroll"},
		{Key: "ctrl+c", Desc: "quit"},
	}
}
