// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package api

import (
	"encoding/json"
)

// =============================================================================
// REQUEST TYPES
// =============================================================================

// MessageRequest is the body of the primary exchange call.
type MessageRequest struct {
	ChatID  string `json:"chatId"`
	Message string `json:"message"`
	Mode    string `json:"mode"`
}

// TitleRequest asks the backend to generate a title from the first prompt.
type TitleRequest struct {
	Prompt string `json:"prompt"`
}

// SetTitleRequest sets an explicit title on a session.
type SetTitleRequest struct {
	Title string `json:"title"`
}

// =============================================================================
// RESPONSE TYPES
// =============================================================================

// CreateChatResponse is returned when a session is created remotely.
type CreateChatResponse struct {
	ID string `json:"id"`
}

// ChatSummary is one entry of the session list.
type ChatSummary struct {
	ID    string `json:"id"`
	Title string `json:"title"`
}

// ServerMessage is a message as stored by the backend. It carries no
// client-local identifier; the engine assigns fresh IDs on fetch.
type ServerMessage struct {
	Message      string `json:"message"`
	ModelMessage bool   `json:"modelMessage"`
	Pending      bool   `json:"pending"`
}

// ChatRecord is the authoritative transcript of one session.
type ChatRecord struct {
	Messages []ServerMessage `json:"messages"`
}

// MessageResponse is the envelope of the primary exchange call.
type MessageResponse struct {
	Success  bool   `json:"success"`
	Response Reply  `json:"response"`
	Error    string `json:"error"`
}

// UploadResult describes a successfully ingested file.
type UploadResult struct {
	Content  string `json:"content"`
	Message  string `json:"message"`
	Filename string `json:"filename"`
}

// =============================================================================
// REPLY (string-or-object response payload)
// =============================================================================

// StructuredReply is the quiz-shaped response used in testing mode. Missing
// fields decode to their zero values; none are required.
type StructuredReply struct {
	Evaluation string   `json:"evaluation"`
	Feedback   string   `json:"feedback"`
	Question   string   `json:"question"`
	Options    []string `json:"options"`
}

// Reply holds the `response` field of MessageResponse, which the backend
// sends either as a plain string or as a StructuredReply object.
type Reply struct {
	// Text is set when the backend answered with a plain string.
	Text string

	// Structured is set when the backend answered with a quiz object.
	Structured *StructuredReply

	// Raw preserves the original payload for the literal-serialization
	// fallback when a structured reply has no renderable fields.
	Raw json.RawMessage
}

// UnmarshalJSON accepts both payload shapes. Anything that is neither a
// string nor an object is kept only as Raw; callers treat that as an empty
// reply rather than an error.
func (r *Reply) UnmarshalJSON(data []byte) error {
	r.Raw = append(r.Raw[:0], data...)

	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		r.Text = s
		r.Structured = nil
		return nil
	}

	var obj StructuredReply
	if err := json.Unmarshal(data, &obj); err == nil {
		r.Structured = &obj
		r.Text = ""
		return nil
	}

	r.Text = ""
	r.Structured = nil
	return nil
}

// MarshalJSON round-trips the original payload.
func (r Reply) MarshalJSON() ([]byte, error) {
	if len(r.Raw) > 0 {
		return r.Raw, nil
	}
	if r.Structured != nil {
		return json.Marshal(r.Structured)
	}
	return json.Marshal(r.Text)
}

// IsZero reports whether the reply carries no payload at all.
func (r *Reply) IsZero() bool {
	return r.Text == "" && r.Structured == nil
}
