// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package engine

import (
	"encoding/json"
	"regexp"
	"strings"

	"github.com/jeranaias/tutor-tui/internal/api"
)

// =============================================================================
// STRUCTURED REPLY FLATTENING
// =============================================================================

// FlattenReply renders a backend reply into one markdown string.
//
// A plain-text reply passes through unchanged. A structured (quiz) reply is
// laid out as evaluation banner, feedback, separator, question, then option
// bullets. The "START" evaluation is a sentinel for the opening question of
// a test and gets no banner. A structured reply with nothing renderable
// falls back to its question, then to its literal serialization.
func FlattenReply(r *api.Reply) string {
	if r.Structured == nil {
		return r.Text
	}
	s := r.Structured

	var b strings.Builder
	if s.Evaluation != "" && s.Evaluation != "START" {
		icon := "❌"
		switch strings.ToLower(s.Evaluation) {
		case "correct":
			icon = "✅"
		case "partial":
			icon = "⚠️"
		}
		b.WriteString(icon + " **" + strings.ToUpper(s.Evaluation) + "**\n")
		if s.Feedback != "" {
			b.WriteString(s.Feedback + "\n\n")
		}
		b.WriteString("---\n\n")
	}
	if s.Question != "" {
		b.WriteString("💡 **Question:**\n" + s.Question + "\n")
	}
	if len(s.Options) > 0 {
		b.WriteString("\n")
		for _, opt := range s.Options {
			b.WriteString("- " + opt + "\n")
		}
	}

	if b.Len() == 0 {
		if s.Question != "" {
			return s.Question
		}
		if len(r.Raw) > 0 {
			return string(r.Raw)
		}
		data, err := json.Marshal(s)
		if err != nil {
			return ""
		}
		return string(data)
	}
	return b.String()
}

// =============================================================================
// OPTION EXTRACTION
// =============================================================================

// optionPattern matches a choice label like "a)" or "B)" at a line start.
var optionPattern = regexp.MustCompile(`(?m)^([a-zA-Z]\))`)

// ExtractOptions pulls the selectable choice labels out of a rendered reply.
// Labels are deduplicated case-sensitively and kept in first-appearance
// order. An empty result means the reply asks for free-text input.
func ExtractOptions(text string) []string {
	matches := optionPattern.FindAllStringSubmatch(text, -1)
	if len(matches) == 0 {
		return nil
	}

	seen := make(map[string]bool, len(matches))
	labels := make([]string, 0, len(matches))
	for _, m := range matches {
		label := m[1]
		if seen[label] {
			continue
		}
		seen[label] = true
		labels = append(labels, label)
	}
	return labels
}
