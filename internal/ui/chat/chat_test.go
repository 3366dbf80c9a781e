// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/tutor-tui/internal/config"
	"github.com/jeranaias/tutor-tui/internal/mode"
	"github.com/jeranaias/tutor-tui/internal/model"
)

func newTestModel(modes *mode.Controller) *Model {
	return New(nil, modes, nil, config.Default())
}

// =============================================================================
// MODE SWITCH NOTIFICATION
// =============================================================================

func TestToggleModeKey_FiresSwitchCallback(t *testing.T) {
	modes := mode.NewController()
	var switched []model.Mode
	modes.SetSwitchCallback(func(mo model.Mode) { switched = append(switched, mo) })

	m := newTestModel(modes)
	m.Update(tea.KeyMsg{Type: tea.KeyCtrlT})

	if len(switched) != 1 || switched[0] != model.ModeTesting {
		t.Fatalf("switch callback fired with %v, want one testing switch", switched)
	}
	if m.input.Placeholder != model.ModeTesting.InputPlaceholder() {
		t.Errorf("placeholder = %q, want testing placeholder", m.input.Placeholder)
	}

	m.Update(tea.KeyMsg{Type: tea.KeyCtrlT})
	if len(switched) != 2 || switched[1] != model.ModeExplanation {
		t.Fatalf("switch callback fired with %v, want a second explanation switch", switched)
	}
}

func TestNotifyBanner_SetAndCleared(t *testing.T) {
	m := newTestModel(mode.NewController())

	_, cmd := m.Update(notifyMsg{text: "Switched to Testing mode"})
	if m.notification != "Switched to Testing mode" {
		t.Fatalf("notification = %q", m.notification)
	}
	if cmd == nil {
		t.Fatal("notify must schedule its own clearing")
	}

	m.Update(clearNotifyMsg{})
	if m.notification != "" {
		t.Errorf("notification after clear = %q, want empty", m.notification)
	}
}

func TestProgramSurface_SafeBeforeAttach(t *testing.T) {
	// Everything sent before Attach is dropped; none of it may panic.
	s := NewProgramSurface()
	s.Notify("early banner")
	s.Upsert(model.NewUserMessage("early"))
	s.UpdateContent("id", "content")
	s.RenderAll(nil)
	s.SetInput(false, "placeholder")
	s.PresentOptions([]string{"a)"})
	s.ClearOptions()
}

// =============================================================================
// THEME SELECTION
// =============================================================================

func TestGlamourStyle(t *testing.T) {
	if got := glamourStyle("dark"); got != "dark" {
		t.Errorf("glamourStyle(dark) = %q", got)
	}
	if got := glamourStyle("light"); got != "light" {
		t.Errorf("glamourStyle(light) = %q", got)
	}
	// Auto follows the terminal background; either answer is valid, but it
	// must resolve to a real glamour style.
	if got := glamourStyle("auto"); got != "dark" && got != "light" {
		t.Errorf("glamourStyle(auto) = %q, want dark or light", got)
	}
}
