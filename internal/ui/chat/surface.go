// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"sync"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/tutor-tui/internal/model"
)

// =============================================================================
// PROGRAM SURFACE
// =============================================================================

// ProgramSurface adapts engine render calls onto a running Bubble Tea
// program. Program.Send is safe from any goroutine, so the engine can call
// these methods without knowing anything about the UI loop. Calls made
// before Attach are dropped; nothing is on screen to update yet.
type ProgramSurface struct {
	mu      sync.Mutex
	program *tea.Program
}

// NewProgramSurface creates an unattached surface.
func NewProgramSurface() *ProgramSurface {
	return &ProgramSurface{}
}

// Attach binds the surface to a program. Call before Program.Run.
func (s *ProgramSurface) Attach(p *tea.Program) {
	s.mu.Lock()
	s.program = p
	s.mu.Unlock()
}

func (s *ProgramSurface) send(msg tea.Msg) {
	s.mu.Lock()
	p := s.program
	s.mu.Unlock()
	if p != nil {
		p.Send(msg)
	}
}

// Upsert implements engine.Surface.
func (s *ProgramSurface) Upsert(msg *model.Message) {
	s.send(surfaceUpsertMsg{msg: msg.Clone()})
}

// UpdateContent implements engine.Surface.
func (s *ProgramSurface) UpdateContent(id, content string) {
	s.send(surfaceUpdateMsg{id: id, content: content})
}

// RenderAll implements engine.Surface.
func (s *ProgramSurface) RenderAll(msgs []*model.Message) {
	s.send(surfaceRenderAllMsg{msgs: model.CloneList(msgs)})
}

// SetInput implements engine.Surface.
func (s *ProgramSurface) SetInput(enabled bool, placeholder string) {
	s.send(surfaceInputMsg{enabled: enabled, placeholder: placeholder})
}

// PresentOptions implements engine.Surface.
func (s *ProgramSurface) PresentOptions(labels []string) {
	s.send(surfaceOptionsMsg{labels: append([]string(nil), labels...)})
}

// ClearOptions implements engine.Surface.
func (s *ProgramSurface) ClearOptions() {
	s.send(surfaceClearOptionsMsg{})
}

// Notify shows a transient banner in the UI. Mode switch announcements are
// routed through here so every mutation path produces one, not just the
// toggle key.
func (s *ProgramSurface) Notify(text string) {
	s.send(notifyMsg{text: text})
}
