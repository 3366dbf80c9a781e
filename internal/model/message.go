// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package model contains the data structures for tutoring sessions and messages.
package model

import (
	"strings"
	"time"
)

// =============================================================================
// ROLE TYPE
// =============================================================================

// Role represents the author of a message.
type Role string

const (
	RoleUser  Role = "user"
	RoleModel Role = "model"
)

// String returns the string representation of the role.
func (r Role) String() string {
	return string(r)
}

// DisplayName returns a human-readable name for the role.
func (r Role) DisplayName() string {
	switch r {
	case RoleUser:
		return "You"
	case RoleModel:
		return "Tutor"
	default:
		return string(r)
	}
}

// =============================================================================
// KIND TYPE
// =============================================================================

// Kind distinguishes plain text messages from uploaded-file markers.
type Kind string

const (
	KindText Kind = "text"
	KindFile Kind = "file"
)

// =============================================================================
// MESSAGE TYPE
// =============================================================================

// ProcessingPlaceholder is the content of a model message that is waiting
// for the backend to answer.
const ProcessingPlaceholder = "⏳ Processing..."

// Message represents a single message in a session.
//
// Content is mutable: during animated delivery it grows until it equals the
// full response text. Pending marks the one in-flight model message of a
// session; it is cleared when delivery finishes or fails.
type Message struct {
	ID        string    `json:"id"`
	Kind      Kind      `json:"kind"`
	Role      Role      `json:"role"`
	Content   string    `json:"content"`
	Filename  string    `json:"filename,omitempty"`
	Pending   bool      `json:"pending,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// NewUserMessage creates a finalized user text message.
func NewUserMessage(content string) *Message {
	return &Message{
		ID:        NewID(),
		Kind:      KindText,
		Role:      RoleUser,
		Content:   content,
		Timestamp: time.Now(),
	}
}

// NewPendingModelMessage creates the in-flight model message shown while a
// send is outstanding.
func NewPendingModelMessage() *Message {
	return &Message{
		ID:        NewID(),
		Kind:      KindText,
		Role:      RoleModel,
		Content:   ProcessingPlaceholder,
		Pending:   true,
		Timestamp: time.Now(),
	}
}

// NewModelMessage creates a finalized model text message.
func NewModelMessage(content string) *Message {
	return &Message{
		ID:        NewID(),
		Kind:      KindText,
		Role:      RoleModel,
		Content:   content,
		Timestamp: time.Now(),
	}
}

// NewFileMessage creates a user-authored file marker message.
func NewFileMessage(filename, content string) *Message {
	return &Message{
		ID:        NewID(),
		Kind:      KindFile,
		Role:      RoleUser,
		Content:   content,
		Filename:  filename,
		Timestamp: time.Now(),
	}
}

// =============================================================================
// MESSAGE METHODS
// =============================================================================

// Preview returns a single-line truncated preview of the message content.
// Uses rune-based truncation to handle Unicode correctly.
func (m *Message) Preview(maxLen int) string {
	content := strings.ReplaceAll(m.Content, "\n", " ")
	runes := []rune(content)
	if len(runes) <= maxLen {
		return content
	}
	if maxLen <= 3 {
		return string(runes[:maxLen])
	}
	return string(runes[:maxLen-3]) + "..."
}

// IsEmpty returns true if the message has no content.
func (m *Message) IsEmpty() bool {
	return len(m.Content) == 0
}

// Clone returns an independent copy of the message.
func (m *Message) Clone() *Message {
	cp := *m
	return &cp
}

// CloneList deep-copies a message list. Callers that hand a list across a
// goroutine boundary must clone so the engine keeps exclusive ownership of
// the canonical objects.
func CloneList(msgs []*Message) []*Message {
	out := make([]*Message, len(msgs))
	for i, m := range msgs {
		cp := *m
		out[i] = &cp
	}
	return out
}
