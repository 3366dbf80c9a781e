// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package engine

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

// waitFor polls cond until it holds or the deadline passes.
func waitFor(t *testing.T, what string, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(3 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(2 * time.Millisecond)
	}
	t.Fatalf("timed out waiting for %s", what)
}

func TestAnimation_RevealsFullText(t *testing.T) {
	var mu sync.Mutex
	var last string
	var completions atomic.Int32

	StartAnimation("hello world", 3, time.Millisecond,
		func(partial string) {
			mu.Lock()
			last = partial
			mu.Unlock()
		},
		func() { completions.Add(1) },
	)

	waitFor(t, "completion", func() bool { return completions.Load() == 1 })

	mu.Lock()
	defer mu.Unlock()
	if last != "hello world" {
		t.Errorf("final content = %q, want full text", last)
	}
}

func TestAnimation_StepsGrowMonotonically(t *testing.T) {
	var mu sync.Mutex
	var steps []string
	var done atomic.Bool

	StartAnimation("abcdefgh", 3, time.Millisecond,
		func(partial string) {
			mu.Lock()
			steps = append(steps, partial)
			mu.Unlock()
		},
		func() { done.Store(true) },
	)

	waitFor(t, "completion", done.Load)

	mu.Lock()
	defer mu.Unlock()
	prev := 0
	for i, s := range steps {
		if len(s) < prev {
			t.Fatalf("step %d shrank: %q after length %d", i, s, prev)
		}
		prev = len(s)
	}
	if steps[len(steps)-1] != "abcdefgh" {
		t.Errorf("last step = %q, want full text", steps[len(steps)-1])
	}
}

func TestAnimation_CancelDeliversFullTextSynchronously(t *testing.T) {
	var mu sync.Mutex
	var last string
	var completions atomic.Int32

	// A slow cadence so the cancel lands mid-animation.
	a := StartAnimation("a long response that takes a while to reveal", 1, 50*time.Millisecond,
		func(partial string) {
			mu.Lock()
			last = partial
			mu.Unlock()
		},
		func() { completions.Add(1) },
	)

	a.Cancel()

	mu.Lock()
	got := last
	mu.Unlock()
	if got != "a long response that takes a while to reveal" {
		t.Errorf("content after cancel = %q, want full text", got)
	}
	if completions.Load() != 1 {
		t.Errorf("completions after cancel = %d, want 1", completions.Load())
	}
	if !a.Done() {
		t.Error("animator not done after cancel")
	}
}

func TestAnimation_CancelNeverTrailedByStaleStep(t *testing.T) {
	// A slow step callback widens the window in which a tick in flight could
	// land after the cancel finalizes. Whatever the interleaving, the last
	// delivered content must be the full text.
	const full = "0123456789abcdefghijklmnopqrstuvwxyz"
	for i := 0; i < 300; i++ {
		var mu sync.Mutex
		var last string

		a := StartAnimation(full, 1, 500*time.Microsecond,
			func(partial string) {
				time.Sleep(200 * time.Microsecond)
				mu.Lock()
				last = partial
				mu.Unlock()
			},
			func() {},
		)
		time.Sleep(time.Duration(i%4) * 300 * time.Microsecond)
		a.Cancel()

		mu.Lock()
		got := last
		mu.Unlock()
		if got != full {
			t.Fatalf("iteration %d: content after cancel = %q, want full text", i, got)
		}
	}
}

func TestAnimation_CompleteOnceUnderCancelRace(t *testing.T) {
	var completions atomic.Int32

	a := StartAnimation("short", 100, time.Millisecond,
		func(string) {},
		func() { completions.Add(1) },
	)

	// Natural completion races the cancels; the callback still fires once.
	waitFor(t, "completion", func() bool { return completions.Load() >= 1 })
	a.Cancel()
	a.Cancel()

	if completions.Load() != 1 {
		t.Errorf("completions = %d, want exactly 1", completions.Load())
	}
}

func TestAnimation_MultibyteBoundaries(t *testing.T) {
	var mu sync.Mutex
	var steps []string
	var done atomic.Bool

	StartAnimation("日本語のテキスト", 2, time.Millisecond,
		func(partial string) {
			mu.Lock()
			steps = append(steps, partial)
			mu.Unlock()
		},
		func() { done.Store(true) },
	)

	waitFor(t, "completion", done.Load)

	mu.Lock()
	defer mu.Unlock()
	for i, s := range steps {
		for _, r := range s {
			if r == '�' {
				t.Fatalf("step %d contains a torn rune: %q", i, s)
			}
		}
	}
}
