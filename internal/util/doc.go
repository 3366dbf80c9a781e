// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package util provides small shared helpers for tutor-tui.
//
// String helpers are rune- and width-aware so UTF-8 transcripts (including
// the emoji markers the backend uses) never tear mid-character. File helpers
// cover crash-safe writes for transcript exports.
package util
