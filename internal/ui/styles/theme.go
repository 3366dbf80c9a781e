// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package styles

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/tutor-tui/internal/model"
)

// =============================================================================
// MESSAGE STYLES
// =============================================================================

// UserLabel styles the "You" speaker label.
var UserLabel = lipgloss.NewStyle().
	Foreground(Cyan).
	Bold(true)

// TutorLabel styles the "Tutor" speaker label.
var TutorLabel = lipgloss.NewStyle().
	Foreground(Purple).
	Bold(true)

// UserBubble wraps a user message body.
var UserBubble = lipgloss.NewStyle().
	Foreground(UserBubbleFg).
	BorderStyle(lipgloss.RoundedBorder()).
	BorderForeground(UserBubbleBorder).
	Padding(0, 1)

// TutorBubble wraps a tutor message body.
var TutorBubble = lipgloss.NewStyle().
	Foreground(TutorBubbleFg).
	BorderStyle(lipgloss.RoundedBorder()).
	BorderForeground(TutorBubbleBorder).
	Padding(0, 1)

// FileBubble wraps an uploaded-file marker.
var FileBubble = lipgloss.NewStyle().
	Foreground(FileBubbleFg).
	BorderStyle(lipgloss.RoundedBorder()).
	BorderForeground(FileBubbleBorder).
	Padding(0, 1)

// PendingText styles the processing placeholder while a reply is in flight.
var PendingText = lipgloss.NewStyle().
	Foreground(TextMuted).
	Italic(true)

// BubbleFor returns the bubble style for a message.
func BubbleFor(msg *model.Message) lipgloss.Style {
	switch {
	case msg.Kind == model.KindFile:
		return FileBubble
	case msg.Role == model.RoleUser:
		return UserBubble
	default:
		return TutorBubble
	}
}

// LabelFor returns the speaker label style for a message.
func LabelFor(msg *model.Message) lipgloss.Style {
	if msg.Role == model.RoleUser {
		return UserLabel
	}
	return TutorLabel
}

// =============================================================================
// LAYOUT STYLES
// =============================================================================

// Sidebar frames the session list pane.
var Sidebar = lipgloss.NewStyle().
	BorderStyle(lipgloss.NormalBorder()).
	BorderRight(true).
	BorderForeground(Overlay).
	Padding(0, 1)

// SidebarTitle styles the sidebar heading.
var SidebarTitle = lipgloss.NewStyle().
	Foreground(TextSecondary).
	Bold(true)

// SidebarItem styles one unselected session entry.
var SidebarItem = lipgloss.NewStyle().
	Foreground(TextPrimary)

// SidebarSelected styles the highlighted session entry.
var SidebarSelected = lipgloss.NewStyle().
	Foreground(Cyan).
	Background(SelectionBg).
	Bold(true)

// StatusBar styles the bottom status line.
var StatusBar = lipgloss.NewStyle().
	Foreground(TextSecondary).
	Background(SurfaceDim).
	Padding(0, 1)

// Notification styles the transient mode-switch banner.
var Notification = lipgloss.NewStyle().
	Foreground(TextInverse).
	Background(Purple).
	Bold(true).
	Padding(0, 1)

// ErrorText styles inline error lines.
var ErrorText = lipgloss.NewStyle().
	Foreground(Rose).
	Bold(true)

// =============================================================================
// MODE INDICATORS
// =============================================================================

// ModeExplanation styles the explanation-mode badge.
var ModeExplanation = lipgloss.NewStyle().
	Foreground(TextInverse).
	Background(Emerald).
	Bold(true).
	Padding(0, 1)

// ModeTesting styles the testing-mode badge.
var ModeTesting = lipgloss.NewStyle().
	Foreground(TextInverse).
	Background(Amber).
	Bold(true).
	Padding(0, 1)

// ModeBadge returns the styled badge for a mode.
func ModeBadge(m model.Mode) string {
	if m == model.ModeTesting {
		return ModeTesting.Render(m.DisplayName())
	}
	return ModeExplanation.Render(m.DisplayName())
}

// =============================================================================
// OPTION STYLES
// =============================================================================

// Option styles an unselected answer choice.
var Option = lipgloss.NewStyle().
	Foreground(TextPrimary).
	BorderStyle(lipgloss.RoundedBorder()).
	BorderForeground(Overlay).
	Padding(0, 1)

// OptionSelected styles the highlighted answer choice.
var OptionSelected = lipgloss.NewStyle().
	Foreground(TextInverse).
	Background(Purple).
	Bold(true).
	BorderStyle(lipgloss.RoundedBorder()).
	BorderForeground(Purple).
	Padding(0, 1)

// =============================================================================
// WELCOME SCREEN
// =============================================================================

// WelcomeTitle styles the welcome banner heading.
var WelcomeTitle = lipgloss.NewStyle().
	Foreground(Purple).
	Bold(true)

// WelcomeHint styles the shortcut hints under the banner.
var WelcomeHint = lipgloss.NewStyle().
	Foreground(TextMuted)
