// Package tui renders the conversation in the terminal: the transcript in a
// viewport, a textarea for input, and slash commands for attachments and the
// try-on reference photo.
package tui

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"github.com/hemlineco/stylist/chat"
	"github.com/hemlineco/stylist/pkg/conversation"
)

const inputHeight = 3

// turnDoneMsg reports that a submitted turn reached success or failure.
type turnDoneMsg struct {
	err error
}

// pendingTurn mirrors the user input on screen while its turn is in flight.
// The authoritative message is already in the controller's log; this copy
// only exists so the view needn't read the log mid-turn.
type pendingTurn struct {
	text        string
	attachments []string
}

// Model is the bubbletea model for the chat view.
type Model struct {
	ctrl   *chat.Controller
	logger *zap.Logger

	input    textarea.Model
	viewport viewport.Model
	spin     spinner.Model
	markdown *glamour.TermRenderer

	// Mirror of controller state, refreshed only while no turn is in
	// flight. The Submit goroutine owns the controller mid-turn, so the
	// view renders from these fields alone.
	transcript    []conversation.Message
	staged        []string
	sessionID     string
	hasSession    bool
	hasModelImage bool

	pending *pendingTurn

	loading bool
	status  string
	width   int
	height  int
	ready   bool
}

// New creates the chat view around an existing controller.
func New(ctrl *chat.Controller, logger *zap.Logger) Model {
	ta := textarea.New()
	ta.Placeholder = "Ask about fashion... (/help for commands)"
	ta.Prompt = "┃ "
	ta.CharLimit = 4000
	ta.SetHeight(inputHeight - 1)
	ta.ShowLineNumbers = false
	ta.FocusedStyle.CursorLine = lipgloss.NewStyle()
	ta.Focus()

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = thinkingStyle

	m := Model{
		ctrl:   ctrl,
		logger: logger,
		input:  ta,
		spin:   sp,
		status: "Start a conversation about fashion!",
	}
	m.syncFromController()
	return m
}

// syncFromController refreshes the view's mirror of controller state. Must
// only be called while no turn is in flight.
func (m *Model) syncFromController() {
	m.transcript = m.ctrl.Messages()
	m.staged = m.ctrl.Staged()
	m.sessionID, m.hasSession = m.ctrl.SessionID()
	m.hasModelImage = m.ctrl.HasModelImage()
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return tea.Batch(textarea.Blink, m.spin.Tick)
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.input.SetWidth(msg.Width - 2)
		vpHeight := msg.Height - inputHeight - 3
		if vpHeight < 1 {
			vpHeight = 1
		}
		if !m.ready {
			m.viewport = viewport.New(msg.Width, vpHeight)
			m.ready = true
		} else {
			m.viewport.Width = msg.Width
			m.viewport.Height = vpHeight
		}
		if renderer, err := newMarkdownRenderer(msg.Width - 4); err == nil {
			m.markdown = renderer
		}
		m.refreshViewport()
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			return m, tea.Quit
		case "enter":
			return m.handleSubmit()
		}

	case turnDoneMsg:
		m.loading = false
		m.pending = nil
		m.syncFromController()
		if msg.err != nil {
			// The user's message stays in the log; only the status line
			// carries the failure.
			m.status = errorStyle.Render("Turn failed: " + flattenErr(msg.err))
		} else {
			m.status = ""
		}
		m.refreshViewport()
		m.viewport.GotoBottom()
		return m, nil

	case spinner.TickMsg:
		if !m.loading {
			return m, nil
		}
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		m.refreshViewport()
		return m, cmd
	}

	var cmds []tea.Cmd
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	cmds = append(cmds, cmd)
	m.viewport, cmd = m.viewport.Update(msg)
	cmds = append(cmds, cmd)
	return m, tea.Batch(cmds...)
}

// handleSubmit processes the input line: a slash command, or a turn
// submission.
func (m Model) handleSubmit() (tea.Model, tea.Cmd) {
	value := strings.TrimSpace(m.input.Value())

	if strings.HasPrefix(value, "/") {
		return m.handleCommand(value)
	}

	if m.loading {
		m.status = "Still thinking. Wait for the current turn to finish."
		return m, nil
	}
	if value == "" && len(m.staged) == 0 {
		// Empty submission: rejected locally, nothing changes.
		return m, nil
	}

	m.pending = &pendingTurn{text: value, attachments: m.staged}
	// The submission consumes the staging list; the mirror follows suit so
	// the status line doesn't show stale attachments while the turn runs.
	m.staged = nil
	m.loading = true
	m.status = ""
	m.input.Reset()
	m.refreshViewport()
	m.viewport.GotoBottom()

	ctrl := m.ctrl
	submit := func() tea.Msg {
		_, err := ctrl.Submit(context.Background(), value)
		return turnDoneMsg{err: err}
	}
	return m, tea.Batch(submit, m.spin.Tick)
}

func (m Model) handleCommand(value string) (tea.Model, tea.Cmd) {
	cmd, arg, _ := strings.Cut(value, " ")
	arg = strings.TrimSpace(arg)

	switch cmd {
	case "/quit", "/exit":
		return m, tea.Quit

	case "/help":
		m.status = "/attach <path>  /detach <n>  /model <path>  /nomodel  /quit"

	case "/attach":
		if m.loading {
			m.status = "Wait for the current turn before changing attachments."
			break
		}
		if arg == "" {
			m.status = "Usage: /attach <path>"
			break
		}
		if err := m.ctrl.Stage(arg); err != nil {
			m.status = errorStyle.Render(flattenErr(err))
			break
		}
		m.syncFromController()
		m.status = fmt.Sprintf("Attached %s (%d staged)", arg, len(m.staged))

	case "/detach":
		if m.loading {
			m.status = "Wait for the current turn before changing attachments."
			break
		}
		n, err := strconv.Atoi(arg)
		if err != nil {
			m.status = "Usage: /detach <n>"
			break
		}
		if err := m.ctrl.Unstage(n); err != nil {
			m.status = errorStyle.Render(flattenErr(err))
			break
		}
		m.syncFromController()
		m.status = fmt.Sprintf("%d attachment(s) staged", len(m.staged))

	case "/model":
		if m.loading {
			m.status = "Wait for the current turn before changing the model photo."
			break
		}
		if arg == "" {
			m.status = "Usage: /model <path>"
			break
		}
		if err := m.ctrl.SetModelImage(arg); err != nil {
			m.status = errorStyle.Render(flattenErr(err))
			break
		}
		m.syncFromController()
		m.status = "Model photo set. It rides along on every turn."

	case "/nomodel":
		if m.loading {
			m.status = "Wait for the current turn before changing the model photo."
			break
		}
		m.ctrl.ClearModelImage()
		m.syncFromController()
		m.status = "Model photo cleared."

	default:
		m.status = fmt.Sprintf("Unknown command %s (/help for commands)", cmd)
	}

	m.input.Reset()
	return m, nil
}

// flattenErr renders an error on one line for the status bar.
func flattenErr(err error) string {
	return strings.ReplaceAll(err.Error(), "\n", " ")
}
