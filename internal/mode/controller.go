// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package mode tracks the active interaction mode (explanation or testing).
//
// The controller is a flat two-state machine. Mode switches come from the
// UI; a polling watcher detects the edge into testing mode and triggers the
// autonomous "Start testing" exchange. The watcher re-reads the current
// value on every tick and compares it to its own last-seen shadow, so it
// tolerates the mode being mutated from any goroutine.
package mode

import (
	"sync"
	"time"

	"github.com/jeranaias/tutor-tui/internal/model"
)

// DefaultPollInterval is how often the watcher checks for a mode edge.
const DefaultPollInterval = 500 * time.Millisecond

// =============================================================================
// CONTROLLER
// =============================================================================

// Controller holds the process-wide interaction mode.
type Controller struct {
	mu      sync.Mutex
	current model.Mode
	shadow  model.Mode // watcher's last-seen value, for edge detection

	onSwitch      func(model.Mode)
	onTestingEdge func()

	stopWatch chan struct{}
	watchOnce sync.Once
}

// NewController creates a controller starting in explanation mode.
func NewController() *Controller {
	return &Controller{
		current: model.ModeExplanation,
		shadow:  model.ModeExplanation,
	}
}

// Current returns the active mode.
func (c *Controller) Current() model.Mode {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.current
}

// Set switches the active mode. Every actual transition fires the switch
// callback (used for the transient notification); setting the same mode
// again is a no-op.
func (c *Controller) Set(m model.Mode) {
	c.mu.Lock()
	changed := c.current != m
	c.current = m
	onSwitch := c.onSwitch
	c.mu.Unlock()

	// Callback outside the lock.
	if changed && onSwitch != nil {
		onSwitch(m)
	}
}

// Toggle flips between the two modes and returns the new one.
func (c *Controller) Toggle() model.Mode {
	next := model.ModeTesting
	if c.Current() == model.ModeTesting {
		next = model.ModeExplanation
	}
	c.Set(next)
	return next
}

// =============================================================================
// CALLBACKS
// =============================================================================

// SetSwitchCallback sets the function called on every mode transition.
func (c *Controller) SetSwitchCallback(fn func(model.Mode)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.onSwitch = fn
}

// SetTestingEdgeCallback sets the function called exactly once per
// transition into testing mode.
func (c *Controller) SetTestingEdgeCallback(fn func()) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.onTestingEdge = fn
}

// =============================================================================
// EDGE WATCHER
// =============================================================================

// Poll performs one watcher tick: it reads the current mode fresh, compares
// it to the shadow value, and fires the testing-edge callback when the mode
// just became testing. Returns true if the edge fired. Repeated testing
// reads never re-fire.
func (c *Controller) Poll() bool {
	c.mu.Lock()
	cur := c.current
	edge := cur == model.ModeTesting && c.shadow != model.ModeTesting
	c.shadow = cur
	onEdge := c.onTestingEdge
	c.mu.Unlock()

	if edge && onEdge != nil {
		onEdge()
	}
	return edge
}

// StartWatch runs Poll on a fixed interval until StopWatch is called.
func (c *Controller) StartWatch(interval time.Duration) {
	if interval <= 0 {
		interval = DefaultPollInterval
	}

	c.mu.Lock()
	if c.stopWatch != nil {
		c.mu.Unlock()
		return
	}
	stop := make(chan struct{})
	c.stopWatch = stop
	c.mu.Unlock()

	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				c.Poll()
			case <-stop:
				return
			}
		}
	}()
}

// StopWatch stops the polling watcher. Safe to call more than once.
func (c *Controller) StopWatch() {
	c.mu.Lock()
	stop := c.stopWatch
	c.mu.Unlock()
	if stop != nil {
		c.watchOnce.Do(func() { close(stop) })
	}
}
