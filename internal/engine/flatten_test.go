// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package engine

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jeranaias/tutor-tui/internal/api"
)

// =============================================================================
// FLATTEN TESTS
// =============================================================================

func TestFlattenReply_PlainText(t *testing.T) {
	r := &api.Reply{Text: "Just an answer."}
	assert.Equal(t, "Just an answer.", FlattenReply(r))
}

func TestFlattenReply_CorrectEvaluation(t *testing.T) {
	r := &api.Reply{Structured: &api.StructuredReply{
		Evaluation: "correct",
		Feedback:   "Well done.",
		Question:   "Next question?",
		Options:    []string{"a) yes", "b) no"},
	}}
	out := FlattenReply(r)

	assert.Contains(t, out, "✅ **CORRECT**")
	assert.Contains(t, out, "Well done.")
	assert.Contains(t, out, "---")
	assert.Contains(t, out, "💡 **Question:**\nNext question?")
	assert.Contains(t, out, "- a) yes")
	assert.Contains(t, out, "- b) no")
}

func TestFlattenReply_PartialEvaluation(t *testing.T) {
	r := &api.Reply{Structured: &api.StructuredReply{
		Evaluation: "partial",
		Feedback:   "Half right.",
	}}
	out := FlattenReply(r)

	assert.Contains(t, out, "⚠️ **PARTIAL**")
	// The banner precedes the feedback.
	assert.Less(t, strings.Index(out, "PARTIAL"), strings.Index(out, "Half right."))
}

func TestFlattenReply_WrongEvaluation(t *testing.T) {
	r := &api.Reply{Structured: &api.StructuredReply{
		Evaluation: "incorrect",
		Feedback:   "Not quite.",
	}}
	out := FlattenReply(r)
	assert.Contains(t, out, "❌ **INCORRECT**")
}

func TestFlattenReply_StartSentinelSuppressesBanner(t *testing.T) {
	r := &api.Reply{Structured: &api.StructuredReply{
		Evaluation: "START",
		Question:   "First question of the test?",
	}}
	out := FlattenReply(r)

	assert.NotContains(t, out, "START")
	assert.NotContains(t, out, "---")
	assert.Contains(t, out, "💡 **Question:**\nFirst question of the test?")
}

func TestFlattenReply_RawFallback(t *testing.T) {
	// Nothing renderable: the original payload is shown verbatim.
	r := &api.Reply{Structured: &api.StructuredReply{}}
	r.Raw = []byte(`{"unknown":"shape"}`)
	out := FlattenReply(r)
	assert.Equal(t, `{"unknown":"shape"}`, out)
}

func TestFlattenReply_SerializationFallback(t *testing.T) {
	r := &api.Reply{Structured: &api.StructuredReply{}}
	out := FlattenReply(r)
	assert.Contains(t, out, "evaluation")
}

// =============================================================================
// OPTION EXTRACTION TESTS
// =============================================================================

func TestExtractOptions(t *testing.T) {
	tests := []struct {
		name string
		text string
		want []string
	}{
		{
			"simple list",
			"Pick one:\na) red\nb) blue\nc) green",
			[]string{"a)", "b)", "c)"},
		},
		{
			"duplicates keep first appearance",
			"a) red\nb) blue\na) red again",
			[]string{"a)", "b)"},
		},
		{
			"uppercase labels",
			"A) one\nB) two",
			[]string{"A)", "B)"},
		},
		{
			"label at start of text",
			"a) immediately",
			[]string{"a)"},
		},
		{
			"mid-line parens ignored",
			"The function f(x) returns (a) value",
			nil,
		},
		{
			"no options",
			"Just prose with no choices.",
			nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ExtractOptions(tt.text))
		})
	}
}
