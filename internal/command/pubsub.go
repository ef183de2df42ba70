package command

import (
	"github.com/adred-codev/rusticokv/internal/monitoring"
	"github.com/adred-codev/rusticokv/internal/respcodec"
	"github.com/adred-codev/rusticokv/internal/store"
)

// pubsubHandlers are grounded on comando_pubsub_handler.rs. SUBSCRIBE
// creates the channel if absent; UNSUBSCRIBE and PUBLISH require it to
// already exist as a channel-kind value (a WrongType error otherwise) —
// this asymmetry is the original's, not a bug, so it's kept.
var pubsubHandlers = map[string]Handler{
	"SUBSCRIBE":   cmdSubscribe,
	"UNSUBSCRIBE": cmdUnsubscribe,
	"PUBLISH":     cmdPublish,
	"PUBSUB":      cmdPubsub,
}

func cmdSubscribe(ctx *Context, args []string) Reply {
	result := respcodec.Int(0)

	for _, key := range args {
		v, ok := ctx.Store.Get(key)
		var ch *store.Channel
		switch {
		case ok && v.Kind == store.KindChannel:
			ch = v.Channel
		case !ok:
			ch = store.NewChannel()
		default:
			return respcodec.Err("WrongType tipo de dato no es un canal")
		}

		ch.Subscribe(ctx.Client)
		ctx.Store.Put(key, store.NoExpirable(store.NewChannelValue(ch)))
		result = respcodec.Int(1)
	}
	return result
}

func cmdUnsubscribe(ctx *Context, args []string) Reply {
	result := respcodec.Int(0)

	for _, key := range args {
		v, ok := ctx.Store.Get(key)
		if !ok || v.Kind != store.KindChannel {
			return respcodec.Err("WrongType tipo de dato no es un canal")
		}

		v.Channel.Unsubscribe(ctx.Client)
		ctx.Store.Put(key, store.NoExpirable(store.NewChannelValue(v.Channel)))
		result = respcodec.Int(1)
	}
	return result
}

func cmdPublish(ctx *Context, args []string) Reply {
	if len(args) < 1 {
		return respcodec.Err("ClaveError no se encontro una clave")
	}
	if len(args) < 2 {
		return respcodec.Err("ParametroError no se envio el parametro")
	}
	key, message := args[0], args[1]

	v, ok := ctx.Store.Get(key)
	if !ok || v.Kind != store.KindChannel {
		return respcodec.Err("WrongType tipo de dato no es un canal")
	}

	delivered := v.Channel.Publish(message, key)
	monitoring.MessagesPublished.Inc()
	monitoring.MessagesDelivered.Add(float64(delivered))
	return respcodec.Int(int64(delivered))
}

func cmdPubsub(ctx *Context, args []string) Reply {
	if len(args) < 1 {
		return respcodec.Err("ClaveError no se encontro una clave")
	}
	switch args[0] {
	case "CHANNELS":
		return cmdPubsubChannels(ctx, args[1:])
	case "NUMSUB":
		return cmdPubsubNumsub(ctx, args[1:])
	default:
		return respcodec.Err("ClaveError no se encontro una clave")
	}
}

func cmdPubsubChannels(ctx *Context, args []string) Reply {
	if len(args) < 1 {
		return respcodec.Err("ParametroError no se envio el parametro")
	}
	names := ctx.Store.ActiveChannels(args[0])
	items := make([]Reply, 0, len(names))
	for _, n := range names {
		items = append(items, respcodec.Bulk(n))
	}
	return respcodec.Array(items...)
}

func cmdPubsubNumsub(ctx *Context, args []string) Reply {
	items := make([]Reply, 0, len(args))
	for _, key := range args {
		v, ok := ctx.Store.Get(key)
		if !ok || v.Kind != store.KindChannel {
			return respcodec.Err("WrongType tipo de dato no es un canal")
		}
		items = append(items, respcodec.Int(int64(v.Channel.Len())))
	}
	return respcodec.Array(items...)
}
