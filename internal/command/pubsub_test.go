package command

import (
	"testing"

	"github.com/adred-codev/rusticokv/internal/respcodec"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type capturingClient struct {
	token    uint64
	messages []string
}

func (c *capturingClient) Token() uint64 { return c.token }
func (c *capturingClient) SendMessage(channel, payload string) error {
	c.messages = append(c.messages, payload)
	return nil
}

func TestSubscribeCreatesChannelAndPublishDelivers(t *testing.T) {
	ctx := newTestContext()
	sub := &capturingClient{token: 42}
	ctx.Client = sub

	reply := cmdSubscribe(ctx, []string{"news"})
	assert.Equal(t, respcodec.Int(1), reply)

	reply = cmdPublish(ctx, []string{"news", "hello"})
	assert.Equal(t, respcodec.Int(1), reply)
	assert.Equal(t, []string{"hello"}, sub.messages)
}

func TestPublishOnMissingChannelErrors(t *testing.T) {
	ctx := newTestContext()
	reply := cmdPublish(ctx, []string{"missing", "hi"})
	assert.Equal(t, respcodec.Err("WrongType tipo de dato no es un canal"), reply)
}

func TestUnsubscribeRequiresExistingChannel(t *testing.T) {
	ctx := newTestContext()
	reply := cmdUnsubscribe(ctx, []string{"missing"})
	assert.Equal(t, respcodec.Err("WrongType tipo de dato no es un canal"), reply)
}

func TestUnsubscribeRemovesSubscriber(t *testing.T) {
	ctx := newTestContext()
	sub := &capturingClient{token: 1}
	ctx.Client = sub

	cmdSubscribe(ctx, []string{"news"})
	reply := cmdUnsubscribe(ctx, []string{"news"})
	assert.Equal(t, respcodec.Int(1), reply)

	cmdPublish(ctx, []string{"news", "hi"})
	assert.Empty(t, sub.messages)
}

func TestPubsubChannelsAndNumsub(t *testing.T) {
	ctx := newTestContext()
	sub := &capturingClient{token: 1}
	ctx.Client = sub
	cmdSubscribe(ctx, []string{"news"})
	cmdSubscribe(ctx, []string{"sports"})

	channels := cmdPubsub(ctx, []string{"CHANNELS", "*"})
	require.Equal(t, respcodec.KindArray, channels.Kind)
	assert.Len(t, channels.Items, 2)

	numsub := cmdPubsub(ctx, []string{"NUMSUB", "news"})
	assert.Equal(t, respcodec.Array(respcodec.Int(1)), numsub)
}

func TestPubsubUnknownSubcommandErrors(t *testing.T) {
	ctx := newTestContext()
	reply := cmdPubsub(ctx, []string{"BOGUS"})
	assert.Equal(t, respcodec.Err("ClaveError no se encontro una clave"), reply)
}
