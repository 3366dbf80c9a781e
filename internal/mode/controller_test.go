// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package mode

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/jeranaias/tutor-tui/internal/model"
)

func TestController_StartsInExplanation(t *testing.T) {
	c := NewController()
	if c.Current() != model.ModeExplanation {
		t.Errorf("new controller mode = %s, want explanation", c.Current())
	}
}

func TestController_Toggle(t *testing.T) {
	c := NewController()

	if got := c.Toggle(); got != model.ModeTesting {
		t.Errorf("first toggle = %s, want testing", got)
	}
	if got := c.Toggle(); got != model.ModeExplanation {
		t.Errorf("second toggle = %s, want explanation", got)
	}
}

func TestController_SwitchCallbackOnlyOnChange(t *testing.T) {
	c := NewController()

	var fires int
	c.SetSwitchCallback(func(model.Mode) { fires++ })

	c.Set(model.ModeExplanation) // same mode, no fire
	c.Set(model.ModeTesting)
	c.Set(model.ModeTesting) // same mode, no fire
	c.Set(model.ModeExplanation)

	if fires != 2 {
		t.Errorf("switch callback fired %d times, want 2", fires)
	}
}

func TestPoll_EdgeDetection(t *testing.T) {
	c := NewController()

	var fires int
	c.SetTestingEdgeCallback(func() { fires++ })

	// Sequence of observed modes: explanation, explanation, testing,
	// testing, explanation, testing. The edge into testing appears twice.
	steps := []struct {
		set      model.Mode
		wantEdge bool
	}{
		{model.ModeExplanation, false},
		{model.ModeExplanation, false},
		{model.ModeTesting, true},
		{model.ModeTesting, false},
		{model.ModeExplanation, false},
		{model.ModeTesting, true},
	}

	for i, step := range steps {
		c.Set(step.set)
		if got := c.Poll(); got != step.wantEdge {
			t.Errorf("step %d: Poll() = %v, want %v", i, got, step.wantEdge)
		}
	}
	if fires != 2 {
		t.Errorf("edge callback fired %d times, want 2", fires)
	}
}

func TestPoll_NoRefireWhileTesting(t *testing.T) {
	c := NewController()

	var fires int
	c.SetTestingEdgeCallback(func() { fires++ })

	c.Set(model.ModeTesting)
	for i := 0; i < 10; i++ {
		c.Poll()
	}
	if fires != 1 {
		t.Errorf("edge callback fired %d times across repeated polls, want 1", fires)
	}
}

func TestStartWatch_FiresOnEdge(t *testing.T) {
	c := NewController()

	var fires atomic.Int32
	c.SetTestingEdgeCallback(func() { fires.Add(1) })

	c.StartWatch(5 * time.Millisecond)
	defer c.StopWatch()

	c.Set(model.ModeTesting)

	deadline := time.After(500 * time.Millisecond)
	for fires.Load() == 0 {
		select {
		case <-deadline:
			t.Fatal("watcher never fired the testing edge")
		case <-time.After(5 * time.Millisecond):
		}
	}
}

func TestStopWatch_Idempotent(t *testing.T) {
	c := NewController()
	c.StartWatch(5 * time.Millisecond)
	c.StopWatch()
	c.StopWatch() // must not panic
}
