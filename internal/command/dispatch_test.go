package command

import (
	"testing"

	"github.com/adred-codev/rusticokv/internal/respcodec"
	"github.com/stretchr/testify/assert"
)

func TestDispatchUnknownCommandIsExplicitError(t *testing.T) {
	d := NewDispatcher()
	ctx := newTestContext()

	reply := d.Dispatch(ctx, "BOGUSCMD", nil)
	assert.Equal(t, respcodec.Err("ERR unknown command 'BOGUSCMD'"), reply)
}

func TestDispatchRoutesCaseInsensitively(t *testing.T) {
	d := NewDispatcher()
	ctx := newTestContext()

	reply := d.Dispatch(ctx, "set", []string{"k", "v"})
	assert.Equal(t, respcodec.Simple("OK"), reply)

	reply = d.Dispatch(ctx, "GeT", []string{"k"})
	assert.Equal(t, respcodec.Bulk("v"), reply)
}
