// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package cache provides the durable local mirror of session transcripts.
//
// The store is a cache, never a ledger: every failure path degrades to "no
// local history". A missing or corrupt database yields an empty mapping on
// load, and write failures are logged and swallowed so the engine keeps
// operating on its in-memory state.
package cache

import (
	"database/sql"
	"encoding/json"
	"log"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite" // Pure Go SQLite driver

	"github.com/jeranaias/tutor-tui/internal/model"
)

// =============================================================================
// STORE
// =============================================================================

// Store persists the session-id -> ordered message list mapping.
//
// Granularity is the whole per-session list: callers read the full mapping,
// modify it, and write the full mapping back (last writer wins). There is no
// sub-document locking.
type Store struct {
	db *sql.DB
}

const schema = `
CREATE TABLE IF NOT EXISTS sessions (
	id       TEXT PRIMARY KEY,
	messages TEXT NOT NULL
);`

// Open opens (or creates) the cache database at path. A store is always
// returned; if the database cannot be opened the store operates as an empty,
// write-discarding cache.
func Open(path string) *Store {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		log.Printf("cache: cannot create directory, running without local cache: %v", err)
		return &Store{}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		log.Printf("cache: cannot open database, running without local cache: %v", err)
		return &Store{}
	}

	if _, err := db.Exec(schema); err != nil {
		// Not a sqlite file, or unwritable. Treat as corrupt: drop it so the
		// next run starts clean, and run without a cache for this one.
		log.Printf("cache: unusable database, discarding: %v", err)
		db.Close()
		os.Remove(path)
		return &Store{}
	}

	return &Store{db: db}
}

// Close releases the underlying database.
func (s *Store) Close() {
	if s.db != nil {
		s.db.Close()
	}
}

// =============================================================================
// LOAD / SAVE
// =============================================================================

// LoadAll returns the full session mapping. Absent or unreadable storage and
// undecodable rows degrade to an empty result rather than an error.
func (s *Store) LoadAll() map[string][]*model.Message {
	all := make(map[string][]*model.Message)
	if s.db == nil {
		return all
	}

	rows, err := s.db.Query(`SELECT id, messages FROM sessions`)
	if err != nil {
		log.Printf("cache: load failed, treating as empty: %v", err)
		return all
	}
	defer rows.Close()

	for rows.Next() {
		var id, payload string
		if err := rows.Scan(&id, &payload); err != nil {
			continue
		}
		var msgs []*model.Message
		if err := json.Unmarshal([]byte(payload), &msgs); err != nil {
			// Corrupt row: skip it, keep the rest.
			log.Printf("cache: skipping corrupt entry for session %s: %v", id, err)
			continue
		}
		if msgs == nil {
			msgs = []*model.Message{}
		}
		all[id] = msgs
	}
	return all
}

// SaveAll writes the full session mapping, replacing whatever is stored.
// Best effort: failures are logged and otherwise ignored.
func (s *Store) SaveAll(all map[string][]*model.Message) {
	if s.db == nil {
		return
	}

	tx, err := s.db.Begin()
	if err != nil {
		log.Printf("cache: save failed: %v", err)
		return
	}

	if _, err := tx.Exec(`DELETE FROM sessions`); err != nil {
		log.Printf("cache: save failed: %v", err)
		tx.Rollback()
		return
	}

	for id, msgs := range all {
		payload, err := json.Marshal(msgs)
		if err != nil {
			continue
		}
		if _, err := tx.Exec(`INSERT INTO sessions (id, messages) VALUES (?, ?)`, id, string(payload)); err != nil {
			log.Printf("cache: save failed for session %s: %v", id, err)
			tx.Rollback()
			return
		}
	}

	if err := tx.Commit(); err != nil {
		log.Printf("cache: save failed: %v", err)
	}
}

// =============================================================================
// SESSION HELPERS
// =============================================================================

// EnsureSession idempotently creates an empty message list entry for id.
func (s *Store) EnsureSession(id string) {
	if s.db == nil || id == "" {
		return
	}
	if _, err := s.db.Exec(`INSERT OR IGNORE INTO sessions (id, messages) VALUES (?, ?)`, id, "[]"); err != nil {
		log.Printf("cache: ensure session %s failed: %v", id, err)
	}
}

// Delete removes the cached entry for a session. Missing entries are fine.
func (s *Store) Delete(id string) {
	if s.db == nil {
		return
	}
	if _, err := s.db.Exec(`DELETE FROM sessions WHERE id = ?`, id); err != nil {
		log.Printf("cache: delete session %s failed: %v", id, err)
	}
}

// Messages returns the cached list for one session, or an empty list.
func (s *Store) Messages(id string) []*model.Message {
	return s.LoadAll()[id]
}
