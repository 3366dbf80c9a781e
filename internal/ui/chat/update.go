// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"log"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
)

// =============================================================================
// UPDATE
// =============================================================================

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		return m.handleResize(msg)

	case tea.KeyMsg:
		return m.handleKey(msg)

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		if m.hasPending() {
			m.refreshViewport()
		}
		return m, cmd

	// Engine -> view surface traffic.
	case surfaceUpsertMsg:
		if existing := m.findMessage(msg.msg.ID); existing != nil {
			*existing = *msg.msg
		} else {
			m.msgs = append(m.msgs, msg.msg)
		}
		m.refreshViewport()
		return m, nil

	case surfaceUpdateMsg:
		if existing := m.findMessage(msg.id); existing != nil {
			existing.Content = msg.content
			existing.Pending = false
			m.refreshViewport()
		}
		return m, nil

	case surfaceRenderAllMsg:
		m.msgs = msg.msgs
		m.refreshViewport()
		return m, nil

	case surfaceInputMsg:
		m.inputEnabled = msg.enabled
		m.input.Placeholder = msg.placeholder
		if msg.enabled {
			m.input.Focus()
			if m.focus == focusOptions {
				m.focus = focusInput
			}
		} else {
			m.input.Blur()
		}
		return m, nil

	case surfaceOptionsMsg:
		m.options = msg.labels
		m.optionCursor = 0
		m.focus = focusOptions
		return m, nil

	case surfaceClearOptionsMsg:
		m.options = nil
		if m.focus == focusOptions {
			m.focus = focusInput
		}
		return m, nil

	// Command results.
	case chatListMsg:
		if msg.err != nil {
			log.Printf("ui: session list refresh failed: %v", msg.err)
			return m, nil
		}
		m.chats = msg.chats
		if m.chatCursor >= len(m.chats) {
			m.chatCursor = len(m.chats) - 1
		}
		if m.chatCursor < 0 {
			m.chatCursor = 0
		}
		return m, nil

	case sessionOpenedMsg:
		m.session = msg.id
		m.options = nil
		m.focus = focusInput
		return m, nil

	case exchangeDoneMsg:
		m.session = msg.id
		return m, m.loadChatsCmd()

	case sessionDeletedMsg:
		if m.session == msg.id {
			m.session = ""
			m.msgs = nil
			m.refreshViewport()
		}
		return m, tea.Batch(m.loadChatsCmd(), m.notify("Session deleted"))

	case uploadDoneMsg:
		if msg.err != nil {
			return m, m.notify("Upload failed: " + msg.err.Error())
		}
		m.session = msg.id
		return m, tea.Batch(m.loadChatsCmd(), m.notify("Uploaded "+msg.filename))

	case exportDoneMsg:
		if msg.err != nil {
			return m, m.notify("Export failed: " + msg.err.Error())
		}
		return m, m.notify("Transcript saved to " + msg.path)

	case notifyMsg:
		return m, m.notify(msg.text)

	case clearNotifyMsg:
		m.notification = ""
		return m, nil
	}

	return m, nil
}

// hasPending reports whether a reply is currently in flight on screen.
func (m *Model) hasPending() bool {
	for _, msg := range m.msgs {
		if msg.Pending {
			return true
		}
	}
	return false
}

// =============================================================================
// RESIZE
// =============================================================================

func (m *Model) handleResize(msg tea.WindowSizeMsg) (tea.Model, tea.Cmd) {
	m.width = msg.Width
	m.height = msg.Height

	// Header, options row, input line, status bar.
	chrome := 4
	vpHeight := msg.Height - chrome
	if vpHeight < 3 {
		vpHeight = 3
	}

	if !m.ready {
		m.viewport = viewport.New(m.transcriptWidth(), vpHeight)
		m.ready = true
	} else {
		m.viewport.Width = m.transcriptWidth()
		m.viewport.Height = vpHeight
	}
	m.input.Width = m.transcriptWidth() - 4
	m.renderer = newRenderer(m.cfg.UI.Theme, m.transcriptWidth())
	m.refreshViewport()
	return m, nil
}

// =============================================================================
// KEY HANDLING
// =============================================================================

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// Global bindings first.
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.ToggleSidebar):
		m.sidebarOpen = !m.sidebarOpen
		if !m.sidebarOpen && m.focus == focusSidebar {
			m.focus = focusInput
		}
		m.viewport.Width = m.transcriptWidth()
		m.renderer = newRenderer(m.cfg.UI.Theme, m.transcriptWidth())
		m.refreshViewport()
		return m, nil

	case key.Matches(msg, m.keys.ToggleMode):
		// The controller's switch callback announces the change through the
		// surface, so no banner is raised here.
		next := m.modes.Toggle()
		if m.inputEnabled && len(m.options) == 0 {
			m.input.Placeholder = next.InputPlaceholder()
		}
		return m, nil

	case key.Matches(msg, m.keys.NewChat):
		return m.startNewChat()

	case key.Matches(msg, m.keys.Export):
		if m.session != "" && m.session != newSession {
			return m, m.exportCmd(m.session)
		}
		return m, m.notify("Nothing to export yet")

	case key.Matches(msg, m.keys.FocusNext):
		if m.sidebarOpen {
			if m.focus == focusSidebar {
				m.focus = focusInput
			} else {
				m.focus = focusSidebar
			}
		}
		return m, nil

	case key.Matches(msg, m.keys.PageUp):
		m.viewport.HalfViewUp()
		return m, nil

	case key.Matches(msg, m.keys.PageDown):
		m.viewport.HalfViewDown()
		return m, nil
	}

	switch m.focus {
	case focusSidebar:
		return m.handleSidebarKey(msg)
	case focusOptions:
		return m.handleOptionsKey(msg)
	default:
		return m.handleInputKey(msg)
	}
}

func (m *Model) handleSidebarKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Up):
		if m.chatCursor > 0 {
			m.chatCursor--
		}
	case key.Matches(msg, m.keys.Down):
		if m.chatCursor < len(m.chats)-1 {
			m.chatCursor++
		}
	case key.Matches(msg, m.keys.Submit):
		if chat, ok := m.selectedChat(); ok {
			m.focus = focusInput
			return m, m.openSessionCmd(chat.ID)
		}
	case key.Matches(msg, m.keys.DeleteChat):
		if chat, ok := m.selectedChat(); ok {
			return m, m.deleteSessionCmd(chat.ID)
		}
	case key.Matches(msg, m.keys.Back):
		m.focus = focusInput
	}
	return m, nil
}

func (m *Model) handleOptionsKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "left", "up":
		if m.optionCursor > 0 {
			m.optionCursor--
		}
	case "right", "down", "tab":
		if m.optionCursor < len(m.options)-1 {
			m.optionCursor++
		}
	case "enter":
		if m.optionCursor >= 0 && m.optionCursor < len(m.options) {
			label := m.options[m.optionCursor]
			return m, m.chooseOptionCmd(m.session, label)
		}
	}
	return m, nil
}

func (m *Model) handleInputKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Submit):
		return m.submitInput()

	case key.Matches(msg, m.keys.Up):
		m.viewport.LineUp(1)
		return m, nil

	case key.Matches(msg, m.keys.Down):
		m.viewport.LineDown(1)
		return m, nil
	}

	if !m.inputEnabled {
		return m, nil
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// =============================================================================
// INPUT SUBMISSION
// =============================================================================

func (m *Model) submitInput() (tea.Model, tea.Cmd) {
	if !m.inputEnabled {
		return m, nil
	}
	text := strings.TrimSpace(m.input.Value())
	if text == "" {
		return m, nil
	}
	m.input.Reset()

	if cmd, arg, ok := parseSlashCommand(text); ok {
		return m.runSlashCommand(cmd, arg)
	}

	sessionID := m.session
	if sessionID == "" {
		sessionID = newSession
	}
	return m, m.sendCmd(sessionID, text)
}

func (m *Model) runSlashCommand(cmd, arg string) (tea.Model, tea.Cmd) {
	switch cmd {
	case "upload":
		if arg == "" {
			return m, m.notify("Usage: /upload <path>")
		}
		return m, m.uploadCmd(m.session, arg)

	case "export":
		if m.session == "" || m.session == newSession {
			return m, m.notify("Nothing to export yet")
		}
		return m, m.exportCmd(m.session)

	case "new":
		return m.startNewChat()

	case "delete":
		if m.session == "" || m.session == newSession {
			return m, m.notify("No session to delete")
		}
		return m, m.deleteSessionCmd(m.session)

	default:
		return m, m.notify("Unknown command: /" + cmd)
	}
}

// startNewChat resets the view onto an unsaved session.
func (m *Model) startNewChat() (tea.Model, tea.Cmd) {
	m.session = newSession
	m.engine.SetActive(newSession)
	m.msgs = nil
	m.options = nil
	m.inputEnabled = true
	m.input.Placeholder = m.modes.Current().InputPlaceholder()
	m.input.Focus()
	m.focus = focusInput
	m.refreshViewport()
	return m, nil
}
