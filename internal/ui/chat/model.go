// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/tutor-tui/internal/api"
	"github.com/jeranaias/tutor-tui/internal/config"
	"github.com/jeranaias/tutor-tui/internal/engine"
	"github.com/jeranaias/tutor-tui/internal/mode"
	"github.com/jeranaias/tutor-tui/internal/model"
	"github.com/jeranaias/tutor-tui/internal/ui/styles"
)

// focusArea identifies which pane receives key input.
type focusArea int

const (
	focusInput focusArea = iota
	focusSidebar
	focusOptions
)

// newSession is the sentinel id of a session that has no backend identity
// yet. The first send resolves it to a real id.
const newSession = "new"

// sidebarWidth is the fixed column width of the session list pane.
const sidebarWidth = 28

// =============================================================================
// MODEL
// =============================================================================

// Model is the root Bubble Tea model of the tutor TUI.
type Model struct {
	engine *engine.Engine
	modes  *mode.Controller
	client *api.Client
	cfg    *config.Config

	keys     KeyMap
	viewport viewport.Model
	input    textinput.Model
	spin     spinner.Model
	renderer *glamour.TermRenderer

	// Visible transcript; projections owned by the view, never shared with
	// engine goroutines.
	msgs []*model.Message

	// Presented answer choices, when the tutor asked a multiple-choice
	// question.
	options      []string
	optionCursor int

	inputEnabled bool

	// Sidebar session list.
	sidebarOpen bool
	chats       []api.ChatSummary
	chatCursor  int

	focus focusArea

	// Active session id; empty means the welcome screen, newSession means a
	// session that will be created on first send.
	session string

	notification string
	width        int
	height       int
	ready        bool
}

// New creates the root model. The engine must already be wired to a
// ProgramSurface that gets attached to the program running this model.
func New(eng *engine.Engine, modes *mode.Controller, client *api.Client, cfg *config.Config) *Model {
	input := textinput.New()
	input.Placeholder = model.ModeExplanation.InputPlaceholder()
	input.CharLimit = 4000
	input.Focus()

	spin := spinner.New()
	spin.Spinner = spinner.Dot
	spin.Style = lipgloss.NewStyle().Foreground(styles.Purple)

	return &Model{
		engine:       eng,
		modes:        modes,
		client:       client,
		cfg:          cfg,
		keys:         DefaultKeyMap(),
		input:        input,
		spin:         spin,
		inputEnabled: true,
		sidebarOpen:  cfg.UI.ShowSidebar,
		session:      "",
	}
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return tea.Batch(
		textinput.Blink,
		m.spin.Tick,
		m.loadChatsCmd(),
	)
}

// =============================================================================
// SMALL HELPERS
// =============================================================================

// transcriptWidth is the usable width of the chat pane.
func (m *Model) transcriptWidth() int {
	w := m.width
	if m.sidebarOpen {
		w -= sidebarWidth
	}
	if w < 20 {
		w = 20
	}
	return w - 2
}

// findMessage returns the visible message with the given id, or nil.
func (m *Model) findMessage(id string) *model.Message {
	for _, msg := range m.msgs {
		if msg.ID == id {
			return msg
		}
	}
	return nil
}

// refreshViewport re-renders the transcript and keeps the view pinned to
// the newest message.
func (m *Model) refreshViewport() {
	if !m.ready {
		return
	}
	m.viewport.SetContent(m.renderTranscript())
	m.viewport.GotoBottom()
}

// notify shows a transient banner.
func (m *Model) notify(text string) tea.Cmd {
	m.notification = text
	return clearNotifyCmd()
}

// selectedChat returns the sidebar entry under the cursor, if any.
func (m *Model) selectedChat() (api.ChatSummary, bool) {
	if m.chatCursor < 0 || m.chatCursor >= len(m.chats) {
		return api.ChatSummary{}, false
	}
	return m.chats[m.chatCursor], true
}
