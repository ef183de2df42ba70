package command

import (
	"testing"

	"github.com/adred-codev/rusticokv/internal/respcodec"
	"github.com/stretchr/testify/assert"
)

func TestListPushAndRange(t *testing.T) {
	ctx := newTestContext()

	reply := cmdPush(false)(ctx, []string{"mylist", "a", "b", "c"})
	assert.Equal(t, respcodec.Int(3), reply)

	reply = cmdLRange(ctx, []string{"mylist", "0", "-1"})
	assert.Equal(t, respcodec.Array(respcodec.Bulk("a"), respcodec.Bulk("b"), respcodec.Bulk("c")), reply)
}

func TestListLeftPushPrepends(t *testing.T) {
	ctx := newTestContext()
	cmdPush(false)(ctx, []string{"mylist", "a"})
	cmdPush(true)(ctx, []string{"mylist", "b"})

	reply := cmdLRange(ctx, []string{"mylist", "0", "-1"})
	assert.Equal(t, respcodec.Array(respcodec.Bulk("b"), respcodec.Bulk("a")), reply)
}

func TestListPopFromEachEnd(t *testing.T) {
	ctx := newTestContext()
	cmdPush(false)(ctx, []string{"mylist", "a", "b", "c"})

	assert.Equal(t, respcodec.Bulk("a"), cmdPop(true)(ctx, []string{"mylist"}))
	assert.Equal(t, respcodec.Bulk("c"), cmdPop(false)(ctx, []string{"mylist"}))
	assert.Equal(t, respcodec.Int(1), cmdLLen(ctx, []string{"mylist"}))
}

func TestListPopEmptyListReturnsNil(t *testing.T) {
	ctx := newTestContext()
	cmdPush(false)(ctx, []string{"mylist", "only"})
	cmdPop(false)(ctx, []string{"mylist"})

	assert.Equal(t, respcodec.Nil(), cmdPop(false)(ctx, []string{"mylist"}))
	assert.Equal(t, respcodec.Int(0), cmdLLen(ctx, []string{"mylist"}))
}

func TestListWrongTypeError(t *testing.T) {
	ctx := newTestContext()
	cmdSet(ctx, []string{"k", "not-a-list"})

	assert.Equal(t, respcodec.Err("WRONGTYPE"), cmdLLen(ctx, []string{"k"}))
	assert.Equal(t, respcodec.Err("WRONGTYPE"), cmdPop(true)(ctx, []string{"k"}))
}

func TestListRangeOutOfBoundsReturnsEmpty(t *testing.T) {
	ctx := newTestContext()
	cmdPush(false)(ctx, []string{"mylist", "a"})

	reply := cmdLRange(ctx, []string{"mylist", "5", "10"})
	assert.Equal(t, respcodec.Array(), reply)
}
