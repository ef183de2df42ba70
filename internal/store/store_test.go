package store

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStoreGetPut(t *testing.T) {
	s := New()
	_, ok := s.Get("missing")
	assert.False(t, ok)

	s.Put("k", NoExpirable(NewStringValue("v")))
	v, ok := s.Get("k")
	require.True(t, ok)
	assert.Equal(t, "v", v.Str)
}

func TestStoreExpiryIsLazy(t *testing.T) {
	s := New()
	s.Put("k", Expirable(NewStringValue("v"), -time.Second))

	_, ok := s.Get("k")
	assert.False(t, ok, "already-past deadline should be evicted on access")
	assert.Equal(t, 0, s.Len())
}

func TestStoreMutateCreatesAndDeletes(t *testing.T) {
	s := New()

	s.Mutate("counter", func(current *Entry) *Entry {
		return NoExpirable(NewStringValue("1"))
	})
	v, ok := s.Get("counter")
	require.True(t, ok)
	assert.Equal(t, "1", v.Str)

	s.Mutate("counter", func(current *Entry) *Entry {
		return nil
	})
	_, ok = s.Get("counter")
	assert.False(t, ok)
}

func TestStoreDeleteCountsOnlyPresentKeys(t *testing.T) {
	s := New()
	s.Put("a", NoExpirable(NewStringValue("1")))
	s.Put("b", NoExpirable(NewStringValue("2")))

	removed := s.Delete("a", "b", "c")
	assert.Equal(t, 2, removed)
	assert.Equal(t, 0, s.Len())
}

func TestStoreRename(t *testing.T) {
	s := New()
	assert.False(t, s.Rename("missing", "dst"))

	s.Put("src", NoExpirable(NewStringValue("v")))
	assert.True(t, s.Rename("src", "dst"))

	_, ok := s.Get("src")
	assert.False(t, ok)
	v, ok := s.Get("dst")
	require.True(t, ok)
	assert.Equal(t, "v", v.Str)
}

func TestStoreActiveChannelsFiltersEmptyAndNonChannel(t *testing.T) {
	s := New()
	s.Put("news", NoExpirable(NewStringValue("not a channel")))

	empty := NewChannel()
	s.Put("empty-channel", NoExpirable(NewChannelValue(empty)))

	active := NewChannel()
	active.Subscribe(fakeSubscriber{token: 1})
	s.Put("active-channel", NoExpirable(NewChannelValue(active)))

	names := s.ActiveChannels("*")
	assert.Equal(t, []string{"active-channel"}, names)
}

func TestStoreUnsubscribeAllRemovesTokenFromEveryChannel(t *testing.T) {
	s := New()
	sub := fakeSubscriber{token: 1}

	a := NewChannel()
	a.Subscribe(sub)
	s.Put("a", NoExpirable(NewChannelValue(a)))

	b := NewChannel()
	b.Subscribe(sub)
	b.Subscribe(fakeSubscriber{token: 2})
	s.Put("b", NoExpirable(NewChannelValue(b)))

	s.UnsubscribeAll(1)

	assert.Equal(t, 0, a.Len())
	assert.Equal(t, 1, b.Len())
}

func TestStoreNotifiesObserverOutsideLock(t *testing.T) {
	s := New()
	observed := make(chan map[string]*Entry, 1)
	s.Subscribe(observerFunc(func(snapshot map[string]*Entry) {
		// Touching the store from inside Update must not deadlock.
		s.Len()
		observed <- snapshot
	}))

	s.Put("k", NoExpirable(NewStringValue("v")))

	select {
	case snap := <-observed:
		assert.Contains(t, snap, "k")
	case <-time.After(time.Second):
		t.Fatal("observer was never notified")
	}
}

type observerFunc func(map[string]*Entry)

func (f observerFunc) Update(snapshot map[string]*Entry) { f(snapshot) }

type fakeSubscriber struct{ token uint64 }

func (f fakeSubscriber) Token() uint64                            { return f.token }
func (f fakeSubscriber) SendMessage(channel, payload string) error { return nil }
