package main

// Notes:
// - watchAndRender: we test that a write to a tracked input triggers one
//   debounced re-render, that untracked files are ignored, and that
//   cancellation stops the watcher. A slow re-render must not overlap the
//   next one, and nothing re-renders after the watcher returns. Timing relies on real filesystem
//   events, so waits are generous.
// These are acceptable gaps: we test observable behavior, not implementation details.

import (
	"context"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"go.uber.org/zap"
)

// ---------------------------------------------------------------------------
// TestWatchAndRender - Debounced re-render on change
// ---------------------------------------------------------------------------

func TestWatchAndRender(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	tracked := writeFile(t, dir, "q.html", "<p>v1</p>")
	untracked := writeFile(t, dir, "other.html", "<p>x</p>")

	jobs := []renderJob{{InputPath: tracked, OutputPath: filepath.Join(dir, "q.view.html")}}
	changed := make(chan []renderJob, 4)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- watchAndRender(ctx, jobs, zap.NewNop(), func(_ context.Context, c []renderJob) {
			changed <- c
		})
	}()

	// Give the watcher time to register before writing.
	time.Sleep(100 * time.Millisecond)

	if err := os.WriteFile(untracked, []byte("<p>y</p>"), 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	for _, content := range []string{"<p>v2</p>", "<p>v3</p>"} {
		if err := os.WriteFile(tracked, []byte(content), 0o600); err != nil {
			t.Fatalf("WriteFile: %v", err)
		}
	}

	select {
	case got := <-changed:
		if len(got) != 1 || got[0].InputPath != tracked {
			t.Errorf("re-rendered %+v, want only %s", got, tracked)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("no re-render after writing the tracked input")
	}

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Errorf("watchAndRender() = %v, want nil", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("watcher did not stop after cancel")
	}
}

// ---------------------------------------------------------------------------
// TestWatchAndRender_Serialized - One re-render at a time
// ---------------------------------------------------------------------------

func TestWatchAndRender_Serialized(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	tracked := writeFile(t, dir, "q.html", "<p>v1</p>")
	jobs := []renderJob{{InputPath: tracked, OutputPath: filepath.Join(dir, "q.view.html")}}

	var (
		active    atomic.Int32
		overlap   atomic.Bool
		calls     atomic.Int32
		completed = make(chan struct{}, 4)
	)
	rerender := func(context.Context, []renderJob) {
		if active.Add(1) > 1 {
			overlap.Store(true)
		}
		defer active.Add(-1)

		if calls.Add(1) == 1 {
			// A change while rendering schedules another pass.
			if err := os.WriteFile(tracked, []byte("<p>v3</p>"), 0o600); err != nil {
				t.Errorf("WriteFile: %v", err)
			}
			time.Sleep(2 * watchDebounce)
		}
		completed <- struct{}{}
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- watchAndRender(ctx, jobs, zap.NewNop(), rerender) }()

	time.Sleep(100 * time.Millisecond)
	if err := os.WriteFile(tracked, []byte("<p>v2</p>"), 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	for i := range 2 {
		select {
		case <-completed:
		case <-time.After(5 * time.Second):
			t.Fatalf("re-render %d did not happen", i+1)
		}
	}
	if overlap.Load() {
		t.Error("re-renders overlapped")
	}

	// A write right before cancel must not re-render after return.
	if err := os.WriteFile(tracked, []byte("<p>v4</p>"), 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	cancel()
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("watcher did not stop after cancel")
	}
	after := calls.Load()
	time.Sleep(2 * watchDebounce)
	if got := calls.Load(); got != after {
		t.Errorf("re-rendered %d time(s) after the watcher returned", got-after)
	}
}
