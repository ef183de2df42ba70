package command

import (
	"testing"

	"github.com/adred-codev/rusticokv/internal/respcodec"
	"github.com/stretchr/testify/assert"
)

func TestCmdDelCountsRemoved(t *testing.T) {
	ctx := newTestContext()
	cmdSet(ctx, []string{"a", "1"})
	cmdSet(ctx, []string{"b", "2"})

	reply := cmdDel(ctx, []string{"a", "b", "c"})
	assert.Equal(t, respcodec.Int(2), reply)
}

func TestCmdExists(t *testing.T) {
	ctx := newTestContext()
	cmdSet(ctx, []string{"a", "1"})

	reply := cmdExists(ctx, []string{"a", "missing"})
	assert.Equal(t, respcodec.Int(1), reply)
}

func TestCmdExpireAndTTL(t *testing.T) {
	ctx := newTestContext()
	cmdSet(ctx, []string{"k", "v"})

	assert.Equal(t, respcodec.Int(1), cmdExpire(ctx, []string{"k", "100"}))

	reply := cmdTTL(ctx, []string{"k"})
	assert.True(t, reply.Int > 0 && reply.Int <= 100)
}

func TestCmdTTLSentinels(t *testing.T) {
	ctx := newTestContext()
	assert.Equal(t, respcodec.Int(-2), cmdTTL(ctx, []string{"missing"}))

	cmdSet(ctx, []string{"k", "v"})
	assert.Equal(t, respcodec.Int(-1), cmdTTL(ctx, []string{"k"}))
}

func TestCmdKeysPattern(t *testing.T) {
	ctx := newTestContext()
	cmdSet(ctx, []string{"user:1", "a"})
	cmdSet(ctx, []string{"user:2", "b"})
	cmdSet(ctx, []string{"other", "c"})

	reply := cmdKeys(ctx, []string{"user:*"})
	assert.Len(t, reply.Items, 2)
}

func TestCmdType(t *testing.T) {
	ctx := newTestContext()
	cmdSet(ctx, []string{"k", "v"})
	assert.Equal(t, respcodec.Simple("string"), cmdType(ctx, []string{"k"}))
	assert.Equal(t, respcodec.Simple("none"), cmdType(ctx, []string{"missing"}))
}

func TestCmdRename(t *testing.T) {
	ctx := newTestContext()
	cmdSet(ctx, []string{"src", "v"})

	reply := cmdRename(ctx, []string{"src", "dst"})
	assert.Equal(t, respcodec.Simple("OK"), reply)
	assert.Equal(t, respcodec.Bulk("v"), cmdGet(ctx, []string{"dst"}))
}

func TestCmdRenameMissingSourceErrors(t *testing.T) {
	ctx := newTestContext()
	reply := cmdRename(ctx, []string{"missing", "dst"})
	assert.Equal(t, respcodec.Err("GetError error al obtener la clave"), reply)
}
