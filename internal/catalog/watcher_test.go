package catalog

import (
	"context"
	"testing"
	"time"

	"go.uber.org/goleak"
	"go.uber.org/zap/zaptest"
)

func TestWatcherReloadsOnChange(t *testing.T) {
	defer goleak.VerifyNone(t)

	dir := t.TempDir()
	logger := zaptest.NewLogger(t)

	cat, err := Load(context.Background(), dir, logger)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	store := NewStore(cat)

	w, err := NewWatcher(dir, store, logger)
	if err != nil {
		t.Fatalf("NewWatcher: %v", err)
	}
	w.debounce = 20 * time.Millisecond
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	w.Start(ctx)
	defer w.Stop()

	writeFile(t, dir, "governance.json", governanceJSON)

	deadline := time.After(5 * time.Second)
	for {
		if _, err := store.Get("governance"); err == nil {
			break
		}
		select {
		case <-deadline:
			t.Fatal("store never saw the new questionnaire")
		case <-time.After(25 * time.Millisecond):
		}
	}
}

func TestWatcherStopIsIdempotentWithContextCancel(t *testing.T) {
	defer goleak.VerifyNone(t)

	dir := t.TempDir()
	store := NewStore(Catalog{})
	w, err := NewWatcher(dir, store, zaptest.NewLogger(t))
	if err != nil {
		t.Fatalf("NewWatcher: %v", err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	w.Start(ctx)
	cancel()
	<-w.doneCh
	// Stop after the loop already exited must not hang.
	w.Stop()
}
