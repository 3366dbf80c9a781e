// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"github.com/jeranaias/tutor-tui/internal/api"
	"github.com/jeranaias/tutor-tui/internal/model"
)

// =============================================================================
// SURFACE MESSAGES (engine -> view)
// =============================================================================

// surfaceUpsertMsg creates or refreshes one transcript entry.
type surfaceUpsertMsg struct {
	msg *model.Message
}

// surfaceUpdateMsg replaces the text of an existing entry (animation steps,
// inline errors).
type surfaceUpdateMsg struct {
	id      string
	content string
}

// surfaceRenderAllMsg replaces the whole visible transcript.
type surfaceRenderAllMsg struct {
	msgs []*model.Message
}

// surfaceInputMsg enables or disables free-text input.
type surfaceInputMsg struct {
	enabled     bool
	placeholder string
}

// surfaceOptionsMsg presents a finite answer choice set.
type surfaceOptionsMsg struct {
	labels []string
}

// surfaceClearOptionsMsg removes a presented choice set.
type surfaceClearOptionsMsg struct{}

// =============================================================================
// COMMAND RESULT MESSAGES
// =============================================================================

// chatListMsg carries the refreshed session list for the sidebar.
type chatListMsg struct {
	chats []api.ChatSummary
	err   error
}

// sessionOpenedMsg is emitted after a sidebar selection has been fetched.
type sessionOpenedMsg struct {
	id string
}

// exchangeDoneMsg is emitted when a send resolved; id is the session the
// exchange ran against (a fresh one when the send created it).
type exchangeDoneMsg struct {
	id string
}

// sessionDeletedMsg is emitted after a session was removed.
type sessionDeletedMsg struct {
	id string
}

// uploadDoneMsg is emitted when a file upload finished. id is the session
// the file landed in (created on the fly for a fresh view).
type uploadDoneMsg struct {
	id       string
	filename string
	err      error
}

// exportDoneMsg is emitted when a transcript export finished.
type exportDoneMsg struct {
	path string
	err  error
}

// notifyMsg shows a transient banner.
type notifyMsg struct {
	text string
}

// clearNotifyMsg hides the transient banner.
type clearNotifyMsg struct{}
