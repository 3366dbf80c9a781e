// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/tutor-tui/internal/util"
)

// notifyDuration is how long the transient banner stays visible.
const notifyDuration = 2 * time.Second

// =============================================================================
// BACKEND COMMANDS
// =============================================================================

// loadChatsCmd refreshes the sidebar session list.
func (m *Model) loadChatsCmd() tea.Cmd {
	client := m.client
	return func() tea.Msg {
		chats, err := client.ListChats(context.Background())
		return chatListMsg{chats: chats, err: err}
	}
}

// openSessionCmd reconciles and shows a session picked from the sidebar.
// The transcript itself arrives through the surface (RenderAll).
func (m *Model) openSessionCmd(id string) tea.Cmd {
	eng := m.engine
	return func() tea.Msg {
		eng.SetActive(id)
		eng.Fetch(context.Background(), id)
		return sessionOpenedMsg{id: id}
	}
}

// sendCmd runs one exchange. Blocks in its own goroutine until the backend
// responds; the reveal animation continues after it returns.
func (m *Model) sendCmd(sessionID, prompt string) tea.Cmd {
	eng := m.engine
	return func() tea.Msg {
		id := eng.StartExchange(context.Background(), sessionID, prompt)
		return exchangeDoneMsg{id: id}
	}
}

// chooseOptionCmd sends a selected answer choice.
func (m *Model) chooseOptionCmd(sessionID, label string) tea.Cmd {
	eng := m.engine
	return func() tea.Msg {
		eng.ChooseOption(context.Background(), sessionID, label)
		return exchangeDoneMsg{id: sessionID}
	}
}

// deleteSessionCmd removes the selected session.
func (m *Model) deleteSessionCmd(id string) tea.Cmd {
	eng := m.engine
	return func() tea.Msg {
		eng.DeleteSession(context.Background(), id)
		return sessionDeletedMsg{id: id}
	}
}

// uploadCmd ingests a study file into the active session, creating the
// session first when the view is still on an unsaved one.
func (m *Model) uploadCmd(sessionID, path string) tea.Cmd {
	eng := m.engine
	return func() tea.Msg {
		name := filepath.Base(path)

		f, err := os.Open(path)
		if err != nil {
			return uploadDoneMsg{id: sessionID, filename: name, err: err}
		}
		defer f.Close()

		if sessionID == "" || sessionID == newSession {
			sessionID = eng.CreateSession(context.Background())
			eng.SetActive(sessionID)
		}
		err = eng.Upload(context.Background(), sessionID, name, f)
		return uploadDoneMsg{id: sessionID, filename: name, err: err}
	}
}

// exportCmd writes the active transcript to a markdown file.
func (m *Model) exportCmd(sessionID string) tea.Cmd {
	eng := m.engine
	return func() tea.Msg {
		msgs := eng.Messages(sessionID)
		path := fmt.Sprintf("tutor-transcript-%s.md", sessionID)
		err := util.AtomicWriteFile(path, []byte(exportMarkdown(msgs)), 0644)
		return exportDoneMsg{path: path, err: err}
	}
}

// clearNotifyCmd hides the transient banner after notifyDuration.
func clearNotifyCmd() tea.Cmd {
	return tea.Tick(notifyDuration, func(time.Time) tea.Msg {
		return clearNotifyMsg{}
	})
}

// =============================================================================
// SLASH COMMANDS
// =============================================================================

// parseSlashCommand splits "/upload notes.pdf" style input. Returns ok=false
// for ordinary prompts.
func parseSlashCommand(input string) (cmd, arg string, ok bool) {
	if !strings.HasPrefix(input, "/") {
		return "", "", false
	}
	fields := strings.SplitN(strings.TrimSpace(input), " ", 2)
	cmd = strings.TrimPrefix(fields[0], "/")
	if len(fields) > 1 {
		arg = strings.TrimSpace(fields[1])
	}
	return cmd, arg, true
}
