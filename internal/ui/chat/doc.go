// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package chat provides the Bubble Tea chat view for the tutor TUI.
//
// The view never talks to the backend itself. User intent (send, open a
// session, switch mode, upload) is handed to the reconciliation engine, and
// everything the engine wants shown arrives back as Bubble Tea messages
// through the ProgramSurface bridge. That keeps rendering on the single
// program goroutine no matter which engine goroutine produced the change.
package chat
