// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package engine

import (
	"sync"
	"time"
)

// =============================================================================
// DELIVERY ANIMATOR
// =============================================================================

// Animator reveals a response incrementally, a few runes per tick. Each step
// calls onStep with the partial text so the caller can persist and render
// it; after the final step (or a cancel) onComplete runs exactly once.
//
// Cancel is synchronous: when it returns, onStep has been called with the
// full text and onComplete has run. Cancelling an already-finished animator
// is a no-op. Rune boundaries are respected, so multibyte text never tears.
//
// Callbacks run under the animator's lock. A tick and a cancel are fully
// ordered, so a stale partial can never land after the full text. Callbacks
// must not call back into the animator.
type Animator struct {
	mu   sync.Mutex
	full []rune
	pos  int
	done bool

	chars    int
	interval time.Duration

	onStep     func(partial string)
	onComplete func()

	stop         chan struct{}
	stopOnce     sync.Once
	completeOnce sync.Once
}

// StartAnimation begins revealing fullText and returns the running animator.
// chars and interval must be positive; onStep and onComplete are required.
func StartAnimation(fullText string, chars int, interval time.Duration, onStep func(partial string), onComplete func()) *Animator {
	a := &Animator{
		full:       []rune(fullText),
		chars:      chars,
		interval:   interval,
		onStep:     onStep,
		onComplete: onComplete,
		stop:       make(chan struct{}),
	}
	go a.run()
	return a
}

func (a *Animator) run() {
	ticker := time.NewTicker(a.interval)
	defer ticker.Stop()

	for {
		select {
		case <-a.stop:
			return
		case <-ticker.C:
			a.mu.Lock()
			if a.done {
				a.mu.Unlock()
				return
			}
			a.pos += a.chars
			if a.pos > len(a.full) {
				a.pos = len(a.full)
			}
			partial := string(a.full[:a.pos])
			finished := a.pos >= len(a.full)
			if finished {
				a.done = true
			}
			a.onStep(partial)
			if finished {
				a.completeOnce.Do(a.onComplete)
			}
			a.mu.Unlock()

			if finished {
				return
			}
		}
	}
}

// Cancel finalizes the animation immediately. The full text is delivered
// through onStep and onComplete fires, unless the animation already ended.
func (a *Animator) Cancel() {
	a.mu.Lock()
	if a.done {
		a.mu.Unlock()
		return
	}
	a.done = true
	a.pos = len(a.full)
	a.onStep(string(a.full))
	a.completeOnce.Do(a.onComplete)
	a.mu.Unlock()

	a.stopOnce.Do(func() { close(a.stop) })
}

// Done reports whether the animation has finished or been cancelled.
func (a *Animator) Done() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.done
}
