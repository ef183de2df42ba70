package store

import (
	"sync"
	"sync/atomic"
)

// Subscriber is the minimal capability a pub/sub recipient needs to expose
// to a Channel. client.RESPClient satisfies this structurally — store does
// not import the client package, keeping pub/sub delivery decoupled from
// the RESP transport.
type Subscriber interface {
	Token() uint64
	SendMessage(channel, payload string) error
}

// Channel is a Value variant owning an ordered, deduplicated-by-token
// subscriber roster. The roster is held as a copy-on-write snapshot behind
// an atomic.Value, the same technique the teacher's SubscriptionIndex uses
// to keep the publish hot path lock-free: Subscribe/Unsubscribe build and
// swap a new slice, Publish only ever reads the current snapshot.
type Channel struct {
	mu      sync.Mutex // serializes Subscribe/Unsubscribe roster rebuilds
	roster  atomic.Value // []Subscriber, insertion order
}

// NewChannel returns an empty channel.
func NewChannel() *Channel {
	ch := &Channel{}
	ch.roster.Store([]Subscriber{})
	return ch
}

func (c *Channel) snapshot() []Subscriber {
	v := c.roster.Load()
	if v == nil {
		return nil
	}
	return v.([]Subscriber)
}

// Subscribe adds sub to the roster if not already present (by token),
// preserving insertion order. Returns true if it was newly added.
func (c *Channel) Subscribe(sub Subscriber) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	current := c.snapshot()
	for _, existing := range current {
		if existing.Token() == sub.Token() {
			return false
		}
	}

	next := make([]Subscriber, len(current), len(current)+1)
	copy(next, current)
	next = append(next, sub)
	c.roster.Store(next)
	return true
}

// Unsubscribe removes sub from the roster by token. Returns true if it was
// present.
func (c *Channel) Unsubscribe(sub Subscriber) bool {
	return c.UnsubscribeToken(sub.Token())
}

// UnsubscribeToken removes a subscriber identified only by its token,
// needed on client disconnect when the original handle may already be
// closed.
func (c *Channel) UnsubscribeToken(token uint64) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	current := c.snapshot()
	next := make([]Subscriber, 0, len(current))
	removed := false
	for _, existing := range current {
		if existing.Token() == token {
			removed = true
			continue
		}
		next = append(next, existing)
	}
	if removed {
		c.roster.Store(next)
	}
	return removed
}

// Publish delivers payload to every current subscriber synchronously and
// returns the number of subscribers it was delivered to. Delivery is a
// direct call into each subscriber's send path, not a worker-pool fanout:
// a channel with slow subscribers slows the publisher, matching the
// original's single-threaded publicar().
func (c *Channel) Publish(payload string, channelName string) int {
	delivered := 0
	for _, sub := range c.snapshot() {
		if sub.SendMessage(channelName, payload) == nil {
			delivered++
		}
	}
	return delivered
}

// Len returns the current subscriber count.
func (c *Channel) Len() int {
	return len(c.snapshot())
}

// Clone returns a shallow copy sharing the same roster (channels are not
// part of snapshot persistence, so a deep copy isn't needed).
func (c *Channel) Clone() *Channel {
	clone := &Channel{}
	clone.roster.Store(c.snapshot())
	return clone
}
