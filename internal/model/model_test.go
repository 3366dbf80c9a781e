// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package model

import (
	"strings"
	"testing"
)

// =============================================================================
// IDENTIFIER TESTS
// =============================================================================

func TestNewID_Unique(t *testing.T) {
	seen := make(map[string]bool, 10000)
	for i := 0; i < 10000; i++ {
		id := NewID()
		if id == "" {
			t.Fatal("NewID returned empty string")
		}
		if seen[id] {
			t.Fatalf("duplicate id after %d generations: %s", i, id)
		}
		seen[id] = true
	}
}

func TestNewID_Concurrent(t *testing.T) {
	const workers = 8
	const perWorker = 500

	results := make(chan string, workers*perWorker)
	for w := 0; w < workers; w++ {
		go func() {
			for i := 0; i < perWorker; i++ {
				results <- NewID()
			}
		}()
	}

	seen := make(map[string]bool, workers*perWorker)
	for i := 0; i < workers*perWorker; i++ {
		id := <-results
		if seen[id] {
			t.Fatalf("duplicate id under concurrency: %s", id)
		}
		seen[id] = true
	}
}

func TestNewLocalSessionID(t *testing.T) {
	id := NewLocalSessionID()
	if !strings.HasPrefix(id, "chat_") {
		t.Errorf("local session id missing prefix: %s", id)
	}
	if id == NewLocalSessionID() {
		t.Error("consecutive local session ids collide")
	}
}

// =============================================================================
// MESSAGE TESTS
// =============================================================================

func TestMessageConstructors(t *testing.T) {
	user := NewUserMessage("hello")
	if user.Role != RoleUser || user.Kind != KindText {
		t.Errorf("unexpected user message shape: %+v", user)
	}
	if user.Pending {
		t.Error("user message must not be pending")
	}

	pending := NewPendingModelMessage()
	if !pending.Pending {
		t.Error("pending model message must be pending")
	}
	if pending.Content != ProcessingPlaceholder {
		t.Errorf("unexpected placeholder content: %q", pending.Content)
	}
	if pending.Role != RoleModel {
		t.Errorf("unexpected role: %s", pending.Role)
	}

	file := NewFileMessage("notes.pdf", "extracted text")
	if file.Kind != KindFile || file.Filename != "notes.pdf" {
		t.Errorf("unexpected file message shape: %+v", file)
	}
	if file.Role != RoleUser {
		t.Errorf("file marker should be user-authored, got %s", file.Role)
	}

	if user.ID == pending.ID || pending.ID == file.ID {
		t.Error("constructors must assign distinct ids")
	}
}

func TestRoleDisplayName(t *testing.T) {
	if RoleUser.DisplayName() != "You" {
		t.Errorf("RoleUser display = %q", RoleUser.DisplayName())
	}
	if RoleModel.DisplayName() != "Tutor" {
		t.Errorf("RoleModel display = %q", RoleModel.DisplayName())
	}
}

func TestPreview(t *testing.T) {
	tests := []struct {
		name    string
		content string
		maxLen  int
		want    string
	}{
		{"short passes through", "hi there", 20, "hi there"},
		{"newlines flattened", "line1\nline2", 20, "line1 line2"},
		{"truncated", "abcdefghij", 8, "abcde..."},
		{"multibyte safe", "héllo wörld", 8, "héllo..."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := &Message{Content: tt.content}
			if got := m.Preview(tt.maxLen); got != tt.want {
				t.Errorf("Preview(%q, %d) = %q, want %q", tt.content, tt.maxLen, got, tt.want)
			}
		})
	}
}

func TestCloneList_Independent(t *testing.T) {
	orig := []*Message{NewUserMessage("a"), NewModelMessage("b")}
	cloned := CloneList(orig)

	if len(cloned) != len(orig) {
		t.Fatalf("clone length %d != %d", len(cloned), len(orig))
	}
	cloned[0].Content = "mutated"
	if orig[0].Content != "a" {
		t.Error("mutating clone affected original")
	}
}

// =============================================================================
// MODE TESTS
// =============================================================================

func TestModeInputPlaceholder(t *testing.T) {
	if got := ModeExplanation.InputPlaceholder(); got != "Ask anything..." {
		t.Errorf("explanation placeholder = %q", got)
	}
	if got := ModeTesting.InputPlaceholder(); got != "Type your answer..." {
		t.Errorf("testing placeholder = %q", got)
	}
}

func TestModeDisplayName(t *testing.T) {
	if ModeExplanation.DisplayName() == "" || ModeTesting.DisplayName() == "" {
		t.Error("mode display names must be non-empty")
	}
	if ModeExplanation.DisplayName() == ModeTesting.DisplayName() {
		t.Error("mode display names must differ")
	}
}
