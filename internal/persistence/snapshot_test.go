package persistence

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/adred-codev/rusticokv/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteSnapshotAndRestoreRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "dump.rdb.txt")

	data := map[string]*store.Entry{
		"greeting": store.NoExpirable(store.NewStringValue("hello")),
		"mylist":   store.NoExpirable(store.NewListValue([]string{"a", "b", "c"})),
		"myset":    store.NoExpirable(store.NewSetValue([]string{"x", "y"})),
		"ttlkey":   store.Expirable(store.NewStringValue("soon"), time.Minute),
		"channel":  store.NoExpirable(store.NewChannelValue(store.NewChannel())),
	}

	require.NoError(t, writeSnapshot(path, data))

	restored := Restore(path)

	assert.Equal(t, "hello", restored["greeting"].Value.Str)
	assert.Equal(t, []string{"a", "b", "c"}, restored["mylist"].Value.List)
	assert.Len(t, restored["myset"].Value.Set, 2)

	ttl, hasTTL := restored["ttlkey"].TTL()
	assert.True(t, hasTTL)
	assert.True(t, ttl > 0 && ttl <= time.Minute)

	_, hasGreetingTTL := restored["greeting"].TTL()
	assert.False(t, hasGreetingTTL)

	// Channel-kind entries are never written: they don't round-trip.
	_, ok := restored["channel"]
	assert.False(t, ok)
}

func TestRestoreMissingFileReturnsEmptyTable(t *testing.T) {
	restored := Restore(filepath.Join(t.TempDir(), "does-not-exist.txt"))
	assert.Empty(t, restored)
}

func TestRestoreSkipsEmptyLines(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "dump.rdb.txt")
	require.NoError(t, os.WriteFile(path, []byte("\nSTRING:k:v\n\n"), 0o644))

	restored := Restore(path)
	require.Contains(t, restored, "k")
	assert.Equal(t, "v", restored["k"].Value.Str)
}
