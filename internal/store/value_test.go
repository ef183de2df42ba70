package store

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestEntryTTL(t *testing.T) {
	e := NoExpirable(NewStringValue("v"))
	_, hasTTL := e.TTL()
	assert.False(t, hasTTL)

	e = Expirable(NewStringValue("v"), time.Minute)
	ttl, hasTTL := e.TTL()
	assert.True(t, hasTTL)
	assert.True(t, ttl > 0 && ttl <= time.Minute)
}

func TestEntryExpired(t *testing.T) {
	e := Expirable(NewStringValue("v"), -time.Second)
	assert.True(t, e.Expired())

	e = NoExpirable(NewStringValue("v"))
	assert.False(t, e.Expired())
}

func TestValueCloneDeepCopiesListAndSet(t *testing.T) {
	original := NewListValue([]string{"a", "b"})
	clone := original.Clone()
	clone.List[0] = "mutated"
	assert.Equal(t, "a", original.List[0])

	set := NewSetValue([]string{"x"})
	setClone := set.Clone()
	setClone.Set["y"] = struct{}{}
	_, ok := set.Set["y"]
	assert.False(t, ok)
}

func TestNewSetValueDeduplicates(t *testing.T) {
	v := NewSetValue([]string{"a", "a", "b"})
	assert.Len(t, v.Set, 2)
}
