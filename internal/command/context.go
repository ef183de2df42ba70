// Package command implements RESP command dispatch: routing a parsed
// command to its family handler and running the string/list/set/key/
// pub-sub semantics against the store.
package command

import (
	"github.com/adred-codev/rusticokv/internal/respcodec"
	"github.com/adred-codev/rusticokv/internal/store"
)

// Reply is an alias for respcodec.Reply, so family handler files don't need
// to repeat the import.
type Reply = respcodec.Reply

// Context carries everything a handler needs: the shared store and the
// handle of the client that issued the command (pub/sub handlers need the
// latter to subscribe/unsubscribe that specific client).
type Context struct {
	Store  *store.Store
	Client store.Subscriber
}

// Handler executes one command's arguments (excluding the command name
// itself) against ctx and returns the RESP reply to send back.
type Handler func(ctx *Context, args []string) Reply
