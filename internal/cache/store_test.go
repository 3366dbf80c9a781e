// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cache

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jeranaias/tutor-tui/internal/model"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s := Open(filepath.Join(t.TempDir(), "sessions.db"))
	t.Cleanup(s.Close)
	return s
}

func TestStore_RoundTrip(t *testing.T) {
	s := openTestStore(t)

	all := map[string][]*model.Message{
		"chat-1": {
			model.NewUserMessage("what is recursion?"),
			model.NewModelMessage("A function calling itself."),
		},
		"chat-2": {
			model.NewUserMessage("hello"),
		},
	}
	s.SaveAll(all)

	loaded := s.LoadAll()
	require.Len(t, loaded, 2)
	require.Len(t, loaded["chat-1"], 2)
	assert.Equal(t, "what is recursion?", loaded["chat-1"][0].Content)
	assert.Equal(t, model.RoleModel, loaded["chat-1"][1].Role)
	assert.Equal(t, "hello", loaded["chat-2"][0].Content)
}

func TestStore_SaveAllReplaces(t *testing.T) {
	s := openTestStore(t)

	s.SaveAll(map[string][]*model.Message{
		"old": {model.NewUserMessage("stale")},
	})
	s.SaveAll(map[string][]*model.Message{
		"new": {model.NewUserMessage("fresh")},
	})

	loaded := s.LoadAll()
	assert.NotContains(t, loaded, "old")
	require.Contains(t, loaded, "new")
	assert.Equal(t, "fresh", loaded["new"][0].Content)
}

func TestStore_CorruptRowSkipped(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sessions.db")
	s := Open(path)
	defer s.Close()

	s.SaveAll(map[string][]*model.Message{
		"good": {model.NewUserMessage("fine")},
	})

	// Inject a row the JSON decoder cannot read.
	_, err := s.db.Exec(`INSERT INTO sessions (id, messages) VALUES (?, ?)`, "bad", "{not json")
	require.NoError(t, err)

	loaded := s.LoadAll()
	assert.Contains(t, loaded, "good")
	assert.NotContains(t, loaded, "bad")
}

func TestStore_EnsureSessionIdempotent(t *testing.T) {
	s := openTestStore(t)

	s.EnsureSession("chat-1")
	s.SaveAll(map[string][]*model.Message{
		"chat-1": {model.NewUserMessage("kept")},
	})
	// A second ensure must not clobber the existing transcript.
	s.EnsureSession("chat-1")

	loaded := s.LoadAll()
	require.Len(t, loaded["chat-1"], 1)
	assert.Equal(t, "kept", loaded["chat-1"][0].Content)
}

func TestStore_Delete(t *testing.T) {
	s := openTestStore(t)

	s.SaveAll(map[string][]*model.Message{
		"a": {model.NewUserMessage("one")},
		"b": {model.NewUserMessage("two")},
	})
	s.Delete("a")

	loaded := s.LoadAll()
	assert.NotContains(t, loaded, "a")
	assert.Contains(t, loaded, "b")
}

func TestStore_WithoutDatabase(t *testing.T) {
	// An unopenable path degrades to an empty, write-discarding cache.
	s := Open(filepath.Join(string([]byte{0}), "nope", "sessions.db"))
	defer s.Close()

	assert.Empty(t, s.LoadAll())
	s.SaveAll(map[string][]*model.Message{"x": {model.NewUserMessage("dropped")}})
	s.EnsureSession("x")
	s.Delete("x")
	assert.Empty(t, s.LoadAll())
}

func TestStore_PersistsAcrossReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sessions.db")

	s1 := Open(path)
	s1.SaveAll(map[string][]*model.Message{
		"chat-1": {model.NewUserMessage("survives restart")},
	})
	s1.Close()

	s2 := Open(path)
	defer s2.Close()
	loaded := s2.LoadAll()
	require.Contains(t, loaded, "chat-1")
	assert.Equal(t, "survives restart", loaded["chat-1"][0].Content)
}
