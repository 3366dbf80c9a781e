// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/tutor-tui/internal/ui/styles"
	"github.com/jeranaias/tutor-tui/internal/util"
)

// =============================================================================
// VIEW
// =============================================================================

// View implements tea.Model.
func (m *Model) View() string {
	if !m.ready {
		return "Starting..."
	}

	main := lipgloss.JoinVertical(lipgloss.Left,
		m.headerView(),
		m.viewport.View(),
		m.optionsView(),
		m.inputView(),
		m.statusView(),
	)

	if !m.sidebarOpen {
		return main
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, m.sidebarView(), main)
}

// =============================================================================
// PANES
// =============================================================================

// headerView renders the top line: mode badge plus active session.
func (m *Model) headerView() string {
	badge := styles.ModeBadge(m.modes.Current())

	title := "No session"
	switch {
	case m.session == newSession:
		title = "New session"
	case m.session != "":
		title = m.sessionTitle(m.session)
	}

	if m.notification != "" {
		return badge + " " + styles.Notification.Render(m.notification)
	}
	return badge + " " + styles.SidebarTitle.Render(util.TruncateWidth(title, m.transcriptWidth()-16))
}

// sidebarView renders the session list pane.
func (m *Model) sidebarView() string {
	var b strings.Builder
	b.WriteString(styles.SidebarTitle.Render("Sessions"))
	b.WriteString("\n\n")

	if len(m.chats) == 0 {
		b.WriteString(styles.WelcomeHint.Render("No sessions yet"))
	}
	for i, chat := range m.chats {
		title := chat.Title
		if title == "" {
			title = chat.ID
		}
		line := util.TruncateWidth(title, sidebarWidth-4)
		if i == m.chatCursor && m.focus == focusSidebar {
			line = styles.SidebarSelected.Render("> " + line)
		} else {
			line = styles.SidebarItem.Render("  " + line)
		}
		b.WriteString(line)
		b.WriteString("\n")
	}

	height := m.viewport.Height + 4
	return styles.Sidebar.Width(sidebarWidth).Height(height).Render(b.String())
}

// optionsView renders the answer choice row, when one is presented.
func (m *Model) optionsView() string {
	if len(m.options) == 0 {
		return ""
	}

	parts := make([]string, 0, len(m.options))
	for i, label := range m.options {
		if i == m.optionCursor {
			parts = append(parts, styles.OptionSelected.Render(label))
		} else {
			parts = append(parts, styles.Option.Render(label))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Center, parts...)
}

// inputView renders the prompt line.
func (m *Model) inputView() string {
	return "> " + m.input.View()
}

// statusView renders the bottom hint bar.
func (m *Model) statusView() string {
	hints := []string{
		"Enter send",
		"C-t mode",
		"C-n new",
		"C-b sessions",
		"C-s export",
		"C-c quit",
	}
	return styles.StatusBar.Width(m.transcriptWidth()).Render(strings.Join(hints, "  •  "))
}

// sessionTitle resolves the display title of a session from the sidebar
// list, falling back to the raw id.
func (m *Model) sessionTitle(id string) string {
	for _, chat := range m.chats {
		if chat.ID == id && chat.Title != "" {
			return chat.Title
		}
	}
	return id
}
