// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/muesli/termenv"

	"github.com/jeranaias/tutor-tui/internal/model"
	"github.com/jeranaias/tutor-tui/internal/ui/styles"
)

// =============================================================================
// MARKDOWN RENDERING
// =============================================================================

// glamourStyle maps the configured theme to a glamour standard style.
// "auto" (and anything unrecognized) follows the terminal background.
func glamourStyle(theme string) string {
	switch theme {
	case "dark", "light":
		return theme
	default:
		if termenv.HasDarkBackground() {
			return "dark"
		}
		return "light"
	}
}

// newRenderer builds a glamour renderer sized to the transcript width, in
// the configured theme's palette.
func newRenderer(theme string, width int) *glamour.TermRenderer {
	r, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle(glamourStyle(theme)),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return nil
	}
	return r
}

// renderMarkdown renders tutor markdown, falling back to the raw text when
// the renderer is unavailable or chokes on the input.
func (m *Model) renderMarkdown(text string) string {
	if m.renderer == nil {
		return text
	}
	out, err := m.renderer.Render(text)
	if err != nil {
		return text
	}
	return strings.TrimRight(out, "\n")
}

// =============================================================================
// TRANSCRIPT RENDERING
// =============================================================================

// renderMessage renders one transcript entry as a labeled bubble.
func (m *Model) renderMessage(msg *model.Message) string {
	label := styles.LabelFor(msg).Render(msg.Role.DisplayName())

	var body string
	switch {
	case msg.Kind == model.KindFile:
		body = "📎 " + msg.Filename
	case msg.Pending && msg.Content == model.ProcessingPlaceholder:
		body = styles.PendingText.Render(m.spin.View() + " " + msg.Content)
	case msg.Role == model.RoleModel:
		body = m.renderMarkdown(msg.Content)
	default:
		body = msg.Content
	}

	bubble := styles.BubbleFor(msg).MaxWidth(m.transcriptWidth()).Render(body)
	return label + "\n" + bubble
}

// renderTranscript renders the visible transcript into viewport content.
func (m *Model) renderTranscript() string {
	if len(m.msgs) == 0 {
		return m.renderWelcome()
	}

	parts := make([]string, 0, len(m.msgs))
	for _, msg := range m.msgs {
		parts = append(parts, m.renderMessage(msg))
	}
	return strings.Join(parts, "\n\n")
}

// renderWelcome renders the empty-session welcome screen.
func (m *Model) renderWelcome() string {
	var b strings.Builder
	b.WriteString("\n")
	b.WriteString(styles.WelcomeTitle.Render("Welcome to your AI tutor"))
	b.WriteString("\n\n")
	b.WriteString(styles.WelcomeHint.Render("Ask a question to start a new session."))
	b.WriteString("\n")
	b.WriteString(styles.WelcomeHint.Render("C-t switches between explanation and testing mode."))
	b.WriteString("\n")
	b.WriteString(styles.WelcomeHint.Render("Type /upload <path> to study one of your own files."))
	b.WriteString("\n")
	return b.String()
}

// =============================================================================
// TRANSCRIPT EXPORT
// =============================================================================

// exportMarkdown renders the transcript as a plain markdown document.
func exportMarkdown(msgs []*model.Message) string {
	var b strings.Builder
	b.WriteString("# Tutoring session transcript\n\n")
	for _, msg := range msgs {
		b.WriteString("## " + msg.Role.DisplayName() + "\n\n")
		if msg.Kind == model.KindFile {
			b.WriteString("Uploaded file: `" + msg.Filename + "`\n\n")
			continue
		}
		b.WriteString(msg.Content + "\n\n")
	}
	return b.String()
}
