package persistence

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/adred-codev/rusticokv/internal/store"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestActorWritesSnapshotOnUpdate(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "dump.rdb.txt")

	a := NewActor(path, time.Millisecond, zerolog.Nop())
	a.Start()
	defer a.Close()

	a.Update(map[string]*store.Entry{
		"k": store.NoExpirable(store.NewStringValue("v")),
	})

	require.Eventually(t, func() bool {
		_, err := os.Stat(path)
		return err == nil
	}, time.Second, 10*time.Millisecond)

	restored := Restore(path)
	assert.Equal(t, "v", restored["k"].Value.Str)
}

func TestActorCoalescesWritesWithinInterval(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "dump.rdb.txt")

	a := NewActor(path, time.Hour, zerolog.Nop())
	a.Start()
	defer a.Close()

	a.Update(map[string]*store.Entry{"a": store.NoExpirable(store.NewStringValue("1"))})
	require.Eventually(t, func() bool {
		_, err := os.Stat(path)
		return err == nil
	}, time.Second, 10*time.Millisecond)

	// Within the coalescing interval, this update should be dropped rather
	// than overwrite the file with "b" only.
	a.Update(map[string]*store.Entry{"b": store.NoExpirable(store.NewStringValue("2"))})
	time.Sleep(50 * time.Millisecond)

	restored := Restore(path)
	assert.Contains(t, restored, "a")
	assert.NotContains(t, restored, "b")
}

func TestActorCloseStopsRunLoop(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "dump.rdb.txt")

	a := NewActor(path, time.Millisecond, zerolog.Nop())
	a.Start()
	a.Close()

	// A Snapshot sent after Close should not panic or block; the mailbox
	// send is best-effort via select/default once the actor stops draining.
	done := make(chan struct{})
	go func() {
		a.Snapshot(map[string]*store.Entry{})
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Snapshot blocked after actor was closed")
	}
}
