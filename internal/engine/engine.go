// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package engine implements the chat session reconciliation core.
//
// The engine owns the canonical in-memory transcript of every session it has
// touched. Each mutation is applied optimistically, written through to the
// local cache, and reflected on the render surface before the backend
// confirms anything. On fetch, the remote transcript is authoritative and
// replaces the cached one; when the backend is unreachable the cache is the
// fallback. Responses are not shown at once: a cancellable animator reveals
// them incrementally (package file animate.go).
package engine

import (
	"context"
	"io"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/jeranaias/tutor-tui/internal/api"
	"github.com/jeranaias/tutor-tui/internal/cache"
	"github.com/jeranaias/tutor-tui/internal/mode"
	"github.com/jeranaias/tutor-tui/internal/model"
)

// =============================================================================
// LITERALS
// =============================================================================

const (
	// connectFailedText replaces the pending message on transport failure.
	connectFailedText = "❌ Failed to connect to server."

	// testingPrompt is the autogenerated prompt sent on the testing-mode edge.
	testingPrompt = "Start testing"

	// Input placeholders for the interaction states.
	placeholderThinking   = "AI is thinking..."
	placeholderGenerating = "AI is generating a test..."
	placeholderOptions    = "Select an option..."

	// LocalSessionPrefix marks sessions created without backend confirmation.
	LocalSessionPrefix = "chat_"
)

// =============================================================================
// SURFACE
// =============================================================================

// Surface is the render capability the engine is constructed with. The
// engine hands it read-only projections; implementations must not mutate
// message identifiers. All methods may be called from engine goroutines.
type Surface interface {
	// Upsert creates or refreshes the visual representation of one message.
	Upsert(msg *model.Message)

	// UpdateContent replaces the displayed text of an existing message.
	UpdateContent(id, content string)

	// RenderAll replaces the whole visible transcript.
	RenderAll(msgs []*model.Message)

	// SetInput enables or disables free-text input with a placeholder.
	SetInput(enabled bool, placeholder string)

	// PresentOptions surfaces a finite choice set; selecting one is expected
	// to call Engine.ChooseOption.
	PresentOptions(labels []string)

	// ClearOptions removes a previously presented choice set.
	ClearOptions()
}

// =============================================================================
// ENGINE
// =============================================================================

// Config tunes the delivery animator.
type Config struct {
	// AnimChars is how many runes each animation step reveals (default 3).
	AnimChars int

	// AnimInterval is the wall-clock cadence of steps (default 10ms).
	AnimInterval time.Duration
}

// DefaultConfig returns the delivery cadence used by the original client.
func DefaultConfig() Config {
	return Config{AnimChars: 3, AnimInterval: 10 * time.Millisecond}
}

// Engine reconciles local and remote session state and drives delivery.
type Engine struct {
	mu sync.Mutex

	store   *cache.Store
	client  *api.Client
	modes   *mode.Controller
	surface Surface
	cfg     Config

	// Canonical transcripts for sessions touched this run.
	sessions map[string][]*model.Message

	// The single active delivery animation, if any.
	anim *Animator

	// Active session, consulted by the testing-mode autostart.
	active string
}

// New creates an engine. All collaborators are required.
func New(store *cache.Store, client *api.Client, modes *mode.Controller, surface Surface, cfg Config) *Engine {
	if cfg.AnimChars <= 0 {
		cfg.AnimChars = 3
	}
	if cfg.AnimInterval <= 0 {
		cfg.AnimInterval = 10 * time.Millisecond
	}
	e := &Engine{
		store:    store,
		client:   client,
		modes:    modes,
		surface:  surface,
		cfg:      cfg,
		sessions: make(map[string][]*model.Message),
	}
	modes.SetTestingEdgeCallback(e.autoStartTesting)
	return e
}

// SetActive records which session the surface is currently showing.
func (e *Engine) SetActive(id string) {
	e.mu.Lock()
	e.active = id
	e.mu.Unlock()
}

// Active returns the session the surface is currently showing.
func (e *Engine) Active() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.active
}

// =============================================================================
// SEND
// =============================================================================

// Send runs one exchange against sessionID. Unless autogenerated, the prompt
// is appended as a user message first. A pending model placeholder is
// appended, the backend is called with the current mode, and on success the
// reply is revealed through the animator. Send blocks until the backend
// responds (callers run it from a goroutine or tea.Cmd); the animation
// itself completes asynchronously.
//
// Starting a new Send while a delivery is still animating cancels that
// animation synchronously first, so at most one model message per session is
// ever pending.
func (e *Engine) Send(ctx context.Context, sessionID, prompt string, autogenerated bool) {
	activeMode := model.ModeExplanation
	if e.modes != nil {
		activeMode = e.modes.Current()
	}

	e.mu.Lock()
	e.cancelAnimationLocked()
	e.surface.ClearOptions()
	if !autogenerated {
		e.surface.SetInput(false, placeholderThinking)
	}

	msgs := e.resolveLocked(sessionID)
	if !autogenerated {
		user := model.NewUserMessage(prompt)
		msgs = append(msgs, user)
		e.sessions[sessionID] = msgs
		e.persistLocked()
		e.surface.Upsert(user)
	}

	// Any stale pending flag from an interrupted run is cleared so the new
	// placeholder is the one pending message of this session.
	for _, m := range msgs {
		m.Pending = false
	}
	pending := model.NewPendingModelMessage()
	msgs = append(msgs, pending)
	e.sessions[sessionID] = msgs
	e.persistLocked()
	e.surface.Upsert(pending)
	e.mu.Unlock()

	resp, err := e.client.PostMessage(ctx, sessionID, prompt, activeMode.String())
	if err != nil {
		log.Printf("engine: send to session %s failed: %v", sessionID, err)
		e.failPending(pending, connectFailedText)
		return
	}
	if !resp.Success || resp.Response.IsZero() {
		detail := resp.Error
		if detail == "" {
			detail = "Unknown error"
		}
		e.failPending(pending, "Error: "+detail)
		return
	}

	full := FlattenReply(&resp.Response)
	e.deliver(pending, full, activeMode)
}

// deliver starts the incremental reveal of full onto msg and arranges the
// post-delivery input state (options set or re-enabled free text).
func (e *Engine) deliver(msg *model.Message, full string, activeMode model.Mode) {
	onStep := func(partial string) {
		e.mu.Lock()
		msg.Content = partial
		e.persistLocked()
		e.mu.Unlock()
		e.surface.UpdateContent(msg.ID, partial)
	}

	onComplete := func() {
		e.mu.Lock()
		msg.Pending = false
		e.persistLocked()
		e.anim = nil
		e.mu.Unlock()

		if labels := ExtractOptions(full); len(labels) > 0 {
			e.surface.PresentOptions(labels)
			e.surface.SetInput(false, placeholderOptions)
		} else {
			e.surface.SetInput(true, activeMode.InputPlaceholder())
		}
	}

	e.mu.Lock()
	e.cancelAnimationLocked()
	e.anim = StartAnimation(full, e.cfg.AnimChars, e.cfg.AnimInterval, onStep, onComplete)
	e.mu.Unlock()
}

// failPending replaces the pending placeholder with an inline error and
// re-enables free-text input.
func (e *Engine) failPending(msg *model.Message, text string) {
	e.mu.Lock()
	msg.Content = text
	msg.Pending = false
	e.persistLocked()
	e.mu.Unlock()

	e.surface.UpdateContent(msg.ID, text)
	e.surface.SetInput(true, model.ModeExplanation.InputPlaceholder())
}

// ChooseOption is called by the surface when the user picks one of the
// presented choices. The choice is sent as an ordinary user prompt.
func (e *Engine) ChooseOption(ctx context.Context, sessionID, label string) {
	e.surface.ClearOptions()
	e.Send(ctx, sessionID, label, false)
}

// =============================================================================
// FETCH
// =============================================================================

// Fetch reconciles a session on open. The remote transcript wins and
// replaces the cache entry; server messages get fresh local identifiers. If
// the backend is unreachable, the cached transcript is used and entries
// missing an id get one assigned. Either way the full list is rendered.
func (e *Engine) Fetch(ctx context.Context, sessionID string) {
	rec, err := e.client.FetchChat(ctx, sessionID)
	if err == nil {
		msgs := make([]*model.Message, 0, len(rec.Messages))
		for _, sm := range rec.Messages {
			role := model.RoleUser
			if sm.ModelMessage {
				role = model.RoleModel
			}
			msgs = append(msgs, &model.Message{
				ID:        model.NewID(),
				Kind:      model.KindText,
				Role:      role,
				Content:   sm.Message,
				Pending:   sm.Pending,
				Timestamp: time.Now(),
			})
		}

		e.mu.Lock()
		e.sessions[sessionID] = msgs
		e.persistLocked()
		e.mu.Unlock()

		e.surface.RenderAll(msgs)
		return
	}

	log.Printf("engine: fetch session %s failed, falling back to cache: %v", sessionID, err)

	e.mu.Lock()
	msgs := e.resolveLocked(sessionID)
	for _, m := range msgs {
		if m.ID == "" {
			m.ID = model.NewID()
		}
	}
	e.sessions[sessionID] = msgs
	e.persistLocked()
	e.mu.Unlock()

	e.surface.RenderAll(msgs)
}

// =============================================================================
// FRESHNESS
// =============================================================================

// IsFresh reports whether a session has never held a real exchange. A local
// or unspecified session is fresh; otherwise the cache is consulted first
// and then the backend. An unreachable backend resolves to fresh (favors
// title generation). Never returns an error.
func (e *Engine) IsFresh(ctx context.Context, sessionID string) bool {
	if sessionID == "" || sessionID == "new" {
		return true
	}

	e.mu.Lock()
	known, ok := e.sessions[sessionID]
	e.mu.Unlock()
	if ok && len(known) > 0 {
		return false
	}
	if !ok {
		if cached := e.store.LoadAll()[sessionID]; len(cached) > 0 {
			return false
		}
	}

	rec, err := e.client.FetchChat(ctx, sessionID)
	if err != nil {
		return true
	}
	return len(rec.Messages) == 0
}

// =============================================================================
// SESSION LIFECYCLE
// =============================================================================

// CreateSession creates a session remotely, falling back to a local-only id
// when the backend declines. The cache entry is created either way.
func (e *Engine) CreateSession(ctx context.Context) string {
	id, err := e.client.CreateChat(ctx)
	if err != nil {
		log.Printf("engine: server chat creation failed, using local session: %v", err)
		id = model.NewLocalSessionID()
	}

	e.store.EnsureSession(id)
	e.mu.Lock()
	if _, ok := e.sessions[id]; !ok {
		e.sessions[id] = []*model.Message{}
	}
	e.mu.Unlock()
	return id
}

// StartExchange is the full enter-key flow: resolve or create the session,
// kick off title generation for a first exchange, and run the send. Returns
// the resolved session id.
func (e *Engine) StartExchange(ctx context.Context, sessionID, prompt string) string {
	fresh := e.IsFresh(ctx, sessionID)
	if sessionID == "" || sessionID == "new" {
		sessionID = e.CreateSession(ctx)
		e.SetActive(sessionID)
	}

	if fresh {
		// Fire and forget; a failed title never blocks the exchange.
		go func(id, p string) {
			if err := e.client.GenerateTitle(context.Background(), id, p); err != nil {
				log.Printf("engine: title generation for %s failed: %v", id, err)
			}
		}(sessionID, prompt)
	}

	e.Send(ctx, sessionID, prompt, false)
	return sessionID
}

// DeleteSession removes a session remotely and from the local cache. The
// remote failure is logged only; the local entry goes away regardless.
func (e *Engine) DeleteSession(ctx context.Context, sessionID string) {
	if err := e.client.DeleteChat(ctx, sessionID); err != nil {
		log.Printf("engine: remote delete of %s failed: %v", sessionID, err)
	}
	e.store.Delete(sessionID)

	e.mu.Lock()
	delete(e.sessions, sessionID)
	if e.active == sessionID {
		e.active = ""
	}
	e.mu.Unlock()
}

// Messages returns a snapshot of the canonical transcript for a session.
func (e *Engine) Messages(sessionID string) []*model.Message {
	e.mu.Lock()
	defer e.mu.Unlock()
	return model.CloneList(e.resolveLocked(sessionID))
}

// =============================================================================
// FILE UPLOAD
// =============================================================================

// Upload ingests a study file into a session: it posts the file, appends the
// file marker and the model confirmation to the transcript, and sets a
// static title when this was the session's first content. Returns the
// upload error for the surface to display; partial state is never left
// behind on failure.
func (e *Engine) Upload(ctx context.Context, sessionID, filename string, r io.Reader) error {
	wasFresh := e.IsFresh(ctx, sessionID)

	res, err := e.client.UploadFile(ctx, sessionID, filename, r)
	if err != nil {
		return err
	}

	confirmation := res.Message
	if confirmation == "" {
		confirmation = "✔️ The material `" + filename + "` was processed successfully. You can now ask questions based on this file."
	}
	serverName := res.Filename
	if serverName == "" {
		serverName = filename
	}

	fileMsg := model.NewFileMessage(serverName, res.Content)
	okMsg := model.NewModelMessage(confirmation)

	e.mu.Lock()
	msgs := e.resolveLocked(sessionID)
	msgs = append(msgs, fileMsg, okMsg)
	e.sessions[sessionID] = msgs
	e.persistLocked()
	e.mu.Unlock()

	e.surface.Upsert(fileMsg)
	e.surface.Upsert(okMsg)

	if wasFresh {
		go func(id, name string) {
			if err := e.client.SetTitle(context.Background(), id, name+" Upload"); err != nil {
				log.Printf("engine: set title for %s failed: %v", id, err)
			}
		}(sessionID, serverName)
	}
	return nil
}

// =============================================================================
// TESTING-MODE AUTOSTART
// =============================================================================

// autoStartTesting runs on the edge into testing mode: with a real session
// active it disables input and sends the autogenerated prompt. Input is
// re-enabled by the send resolving, like any other exchange.
func (e *Engine) autoStartTesting() {
	id := e.Active()
	if id == "" || id == "new" {
		return
	}

	e.surface.SetInput(false, placeholderGenerating)
	go e.Send(context.Background(), id, testingPrompt, true)
}

// =============================================================================
// INTERNAL HELPERS
// =============================================================================

// resolveLocked returns the canonical list for a session, seeding it from
// the cache on first touch. Caller holds e.mu.
func (e *Engine) resolveLocked(sessionID string) []*model.Message {
	if msgs, ok := e.sessions[sessionID]; ok {
		return msgs
	}
	msgs := e.store.LoadAll()[sessionID]
	if msgs == nil {
		msgs = []*model.Message{}
	}
	e.sessions[sessionID] = msgs
	return msgs
}

// persistLocked mirrors the canonical transcripts into the cache with a
// whole-map read-modify-write, preserving sessions this run never touched.
// Caller holds e.mu.
func (e *Engine) persistLocked() {
	all := e.store.LoadAll()
	for id, msgs := range e.sessions {
		all[id] = msgs
	}
	e.store.SaveAll(all)
}

// cancelAnimationLocked finalizes the in-flight delivery, if any. Caller
// holds e.mu. Cancel completes the old animation synchronously (content set
// to its full text, completion callback run) before this returns, so its
// pending flag is cleared before a new placeholder appears.
func (e *Engine) cancelAnimationLocked() {
	if e.anim == nil {
		return
	}
	anim := e.anim
	e.anim = nil
	// The animator's callbacks re-enter the engine; release the lock around
	// the cancel and retake it after.
	e.mu.Unlock()
	anim.Cancel()
	e.mu.Lock()
}

// TrimForTitle is a small helper for surfaces that show a prompt-derived
// fallback title. Rune-safe.
func TrimForTitle(prompt string, maxLen int) string {
	prompt = strings.TrimSpace(strings.ReplaceAll(prompt, "\n", " "))
	runes := []rune(prompt)
	if len(runes) <= maxLen {
		return prompt
	}
	if maxLen <= 3 {
		return string(runes[:maxLen])
	}
	return string(runes[:maxLen-3]) + "..."
}
