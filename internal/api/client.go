// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package api provides the HTTP client for the tutoring backend.
//
// All calls are plain JSON over HTTP. The client never retries: required
// calls surface a typed error for the engine to render inline, best-effort
// calls (titles, listing, delete) are logged and dropped by their callers.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"path/filepath"
	"time"
)

// =============================================================================
// ERROR TYPES
// =============================================================================

// ClientError represents an error from the backend client.
type ClientError struct {
	Type    ErrorType
	Message string
	Cause   error
}

func (e *ClientError) Error() string {
	if e.Cause != nil {
		return e.Message + ": " + e.Cause.Error()
	}
	return e.Message
}

func (e *ClientError) Unwrap() error {
	return e.Cause
}

// ErrorType categorizes client errors for handling.
type ErrorType int

const (
	ErrTypeUnknown ErrorType = iota
	ErrTypeConnection
	ErrTypeTimeout
	ErrTypeStatus
	ErrTypeInvalidResponse
)

// Sentinel errors for easy checking.
var (
	ErrUnreachable = &ClientError{Type: ErrTypeConnection, Message: "backend is unreachable"}
	ErrTimeout     = &ClientError{Type: ErrTypeTimeout, Message: "request timed out"}
)

// IsUnreachable checks whether an error means the backend could not be reached.
func IsUnreachable(err error) bool {
	var clientErr *ClientError
	if errors.As(err, &clientErr) {
		return clientErr.Type == ErrTypeConnection
	}
	return errors.Is(err, ErrUnreachable)
}

// =============================================================================
// CLIENT CONFIGURATION
// =============================================================================

// ClientConfig holds configuration options for the backend client.
type ClientConfig struct {
	// BaseURL is the backend origin (default: http://127.0.0.1:8080)
	BaseURL string

	// Timeout for JSON requests (default: 60s; exchange calls wait on the LLM)
	Timeout time.Duration

	// UploadTimeout for multipart uploads (default: 120s)
	UploadTimeout time.Duration
}

// DefaultConfig returns the default client configuration.
func DefaultConfig() *ClientConfig {
	return &ClientConfig{
		BaseURL:       "http://127.0.0.1:8080",
		Timeout:       60 * time.Second,
		UploadTimeout: 120 * time.Second,
	}
}

// =============================================================================
// CLIENT
// =============================================================================

// Client handles communication with the tutoring backend.
// It is safe for concurrent use.
type Client struct {
	config       *ClientConfig
	httpClient   *http.Client
	uploadClient *http.Client
}

// NewClient creates a backend client with default configuration.
func NewClient() *Client {
	return NewClientWithConfig(DefaultConfig())
}

// NewClientWithConfig creates a backend client with custom configuration.
func NewClientWithConfig(config *ClientConfig) *Client {
	if config == nil {
		config = DefaultConfig()
	}
	if config.BaseURL == "" {
		config.BaseURL = "http://127.0.0.1:8080"
	}
	if config.Timeout == 0 {
		config.Timeout = 60 * time.Second
	}
	if config.UploadTimeout == 0 {
		config.UploadTimeout = 120 * time.Second
	}

	return &Client{
		config:       config,
		httpClient:   &http.Client{Timeout: config.Timeout},
		uploadClient: &http.Client{Timeout: config.UploadTimeout},
	}
}

// BaseURL returns the configured backend origin.
func (c *Client) BaseURL() string {
	return c.config.BaseURL
}

// =============================================================================
// SESSION OPERATIONS
// =============================================================================

// CreateChat creates a session remotely and returns its authoritative id.
func (c *Client) CreateChat(ctx context.Context) (string, error) {
	var out CreateChatResponse
	if err := c.doJSON(ctx, http.MethodPost, "/api/chat", nil, &out); err != nil {
		return "", err
	}
	if out.ID == "" {
		return "", &ClientError{Type: ErrTypeInvalidResponse, Message: "create chat returned no id"}
	}
	return out.ID, nil
}

// ListChats returns summaries of all sessions known to the backend.
func (c *Client) ListChats(ctx context.Context) ([]ChatSummary, error) {
	var out []ChatSummary
	if err := c.doJSON(ctx, http.MethodGet, "/api/allChats", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// FetchChat returns the authoritative transcript of one session.
func (c *Client) FetchChat(ctx context.Context, id string) (*ChatRecord, error) {
	var out ChatRecord
	if err := c.doJSON(ctx, http.MethodGet, "/api/fetchChat/"+url.PathEscape(id), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// DeleteChat removes a session from the backend.
func (c *Client) DeleteChat(ctx context.Context, id string) error {
	return c.doJSON(ctx, http.MethodDelete, "/api/chat/"+url.PathEscape(id), nil, nil)
}

// =============================================================================
// MESSAGE EXCHANGE
// =============================================================================

// PostMessage sends a prompt in the given mode and returns the backend's
// reply envelope. A non-2xx status or transport failure is returned as a
// ClientError; a decoded envelope with Success=false is returned as-is for
// the caller to render its Error field.
func (c *Client) PostMessage(ctx context.Context, chatID, message, mode string) (*MessageResponse, error) {
	req := MessageRequest{ChatID: chatID, Message: message, Mode: mode}
	var out MessageResponse
	if err := c.doJSON(ctx, http.MethodPost, "/api/chat/message", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// =============================================================================
// TITLE OPERATIONS (best effort)
// =============================================================================

// GenerateTitle asks the backend to derive a session title from a prompt.
// Success is signaled by HTTP status only.
func (c *Client) GenerateTitle(ctx context.Context, id, prompt string) error {
	return c.doJSON(ctx, http.MethodPost, "/api/chat/"+url.PathEscape(id)+"/title", TitleRequest{Prompt: prompt}, nil)
}

// SetTitle sets an explicit session title.
func (c *Client) SetTitle(ctx context.Context, id, title string) error {
	return c.doJSON(ctx, http.MethodPut, "/api/chat/"+url.PathEscape(id)+"/title", SetTitleRequest{Title: title}, nil)
}

// =============================================================================
// FILE UPLOAD
// =============================================================================

// UploadFile posts a study file as multipart form data and returns the
// server's message descriptor.
func (c *Client) UploadFile(ctx context.Context, chatID, filename string, r io.Reader) (*UploadResult, error) {
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)

	part, err := writer.CreateFormFile("file", filepath.Base(filename))
	if err != nil {
		return nil, &ClientError{Type: ErrTypeUnknown, Message: "failed to build upload form", Cause: err}
	}
	if _, err := io.Copy(part, r); err != nil {
		return nil, &ClientError{Type: ErrTypeUnknown, Message: "failed to read upload data", Cause: err}
	}
	if err := writer.Close(); err != nil {
		return nil, &ClientError{Type: ErrTypeUnknown, Message: "failed to finish upload form", Cause: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.config.BaseURL+"/api/upload/"+url.PathEscape(chatID), &body)
	if err != nil {
		return nil, &ClientError{Type: ErrTypeConnection, Message: "failed to create request", Cause: err}
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := c.uploadClient.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, ErrTimeout
		}
		return nil, ErrUnreachable
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, statusError(resp)
	}

	var out UploadResult
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, &ClientError{Type: ErrTypeInvalidResponse, Message: "failed to decode upload response", Cause: err}
	}
	return &out, nil
}

// =============================================================================
// REQUEST HELPER
// =============================================================================

// doJSON issues one JSON request. in may be nil (empty body); out may be nil
// (response body discarded, status-only call).
func (c *Client) doJSON(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return &ClientError{Type: ErrTypeUnknown, Message: "failed to marshal request", Cause: err}
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.config.BaseURL+path, body)
	if err != nil {
		return &ClientError{Type: ErrTypeConnection, Message: "failed to create request", Cause: err}
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return ErrTimeout
		}
		return ErrUnreachable
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return statusError(resp)
	}

	if out == nil {
		io.Copy(io.Discard, resp.Body)
		return nil
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &ClientError{Type: ErrTypeInvalidResponse, Message: "failed to decode response", Cause: err}
	}
	return nil
}

// statusError builds the error for a non-2xx response, preferring a JSON
// error field when the server sent one.
func statusError(resp *http.Response) error {
	var payload struct {
		Error string `json:"error"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err == nil && payload.Error != "" {
		return &ClientError{Type: ErrTypeStatus, Message: payload.Error}
	}
	return &ClientError{Type: ErrTypeStatus, Message: "server returned " + resp.Status}
}
