// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package model

// Mode is the process-wide interaction mode of the tutor.
type Mode string

const (
	// ModeExplanation is the default conversational mode.
	ModeExplanation Mode = "explanation"

	// ModeTesting makes the tutor generate quiz questions and grade answers.
	ModeTesting Mode = "testing"
)

// String returns the wire representation of the mode.
func (m Mode) String() string {
	return string(m)
}

// DisplayName returns a human-readable name for the mode.
func (m Mode) DisplayName() string {
	switch m {
	case ModeTesting:
		return "Testing"
	default:
		return "Explanation"
	}
}

// InputPlaceholder returns the free-text input prompt appropriate for the mode.
func (m Mode) InputPlaceholder() string {
	if m == ModeTesting {
		return "Type your answer..."
	}
	return "Ask anything..."
}
