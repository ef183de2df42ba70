package command

import (
	"strings"
	"time"

	"github.com/adred-codev/rusticokv/internal/monitoring"
	"github.com/adred-codev/rusticokv/internal/respcodec"
)

// Family names a command's group, used for metrics labeling.
type Family string

const (
	FamilyString Family = "string"
	FamilyList   Family = "list"
	FamilySet    Family = "set"
	FamilyKey    Family = "key"
	FamilyPubsub Family = "pubsub"
)

type entry struct {
	family  Family
	handler Handler
}

// Dispatcher routes an uppercased command name to its family handler.
//
// The original's string-handler fell through to SET for anything that
// wasn't "GET" and its pub/sub handler fell through to SUBSCRIBE for
// anything that wasn't UNSUBSCRIBE/PUBLISH/PUBSUB — so an unrecognized
// command executed the wrong thing silently instead of reporting an
// error. Dispatcher instead always returns an explicit unknown-command
// error for anything not in its table.
type Dispatcher struct {
	table map[string]entry
}

// NewDispatcher builds the command table from every family.
func NewDispatcher() *Dispatcher {
	d := &Dispatcher{table: make(map[string]entry)}
	d.register(FamilyString, stringHandlers)
	d.register(FamilyList, listHandlers)
	d.register(FamilySet, setHandlers)
	d.register(FamilyKey, keyHandlers)
	d.register(FamilyPubsub, pubsubHandlers)
	return d
}

func (d *Dispatcher) register(family Family, handlers map[string]Handler) {
	for name, h := range handlers {
		d.table[name] = entry{family: family, handler: h}
	}
}

// Dispatch looks up cmd (case-insensitively) and runs it, recording
// per-command metrics. args excludes the command name itself.
func (d *Dispatcher) Dispatch(ctx *Context, cmd string, args []string) Reply {
	name := strings.ToUpper(cmd)
	e, ok := d.table[name]
	if !ok {
		return respcodec.Err("ERR unknown command '" + cmd + "'")
	}

	start := time.Now()
	reply := e.handler(ctx, args)
	monitoring.CommandDuration.WithLabelValues(name).Observe(time.Since(start).Seconds())
	monitoring.CommandsTotal.WithLabelValues(string(e.family), name).Inc()
	if reply.Kind == respcodec.KindError {
		monitoring.CommandErrors.WithLabelValues(string(e.family), name).Inc()
	}
	if e.family == FamilyPubsub {
		monitoring.ChannelsActive.Set(float64(len(ctx.Store.ActiveChannels("*"))))
	}
	monitoring.KeysTotal.Set(float64(ctx.Store.Len()))
	return reply
}
