package command

import (
	"strconv"
	"time"

	"github.com/adred-codev/rusticokv/internal/respcodec"
	"github.com/adred-codev/rusticokv/internal/store"
)

// keyHandlers fill in the spec's key-generic extension point using
// canonical Redis semantics for DEL/EXISTS/EXPIRE/TTL/KEYS/TYPE/RENAME.
var keyHandlers = map[string]Handler{
	"DEL":    cmdDel,
	"EXISTS": cmdExists,
	"EXPIRE": cmdExpire,
	"TTL":    cmdTTL,
	"KEYS":   cmdKeys,
	"TYPE":   cmdType,
	"RENAME": cmdRename,
}

func cmdDel(ctx *Context, args []string) Reply {
	if len(args) < 1 {
		return respcodec.Err("ClaveError no se encontro una clave")
	}
	return respcodec.Int(int64(ctx.Store.Delete(args...)))
}

func cmdExists(ctx *Context, args []string) Reply {
	if len(args) < 1 {
		return respcodec.Err("ClaveError no se encontro una clave")
	}
	count := 0
	for _, key := range args {
		if ctx.Store.Exists(key) {
			count++
		}
	}
	return respcodec.Int(int64(count))
}

func cmdExpire(ctx *Context, args []string) Reply {
	if len(args) < 1 {
		return respcodec.Err("ClaveError no se encontro una clave")
	}
	if len(args) < 2 {
		return respcodec.Err("ParametroError no se envio el parametro")
	}
	seconds, err := strconv.ParseInt(args[1], 10, 64)
	if err != nil {
		return respcodec.Err("Parametro no es un int")
	}

	entry, ok := ctx.Store.GetEntry(args[0])
	if !ok {
		return respcodec.Int(0)
	}
	ctx.Store.Put(args[0], store.Expirable(entry.Value, time.Duration(seconds)*time.Second))
	return respcodec.Int(1)
}

func cmdTTL(ctx *Context, args []string) Reply {
	if len(args) < 1 {
		return respcodec.Err("ClaveError no se encontro una clave")
	}
	entry, ok := ctx.Store.GetEntry(args[0])
	if !ok {
		return respcodec.Int(-2)
	}
	ttl, hasTTL := entry.TTL()
	if !hasTTL {
		return respcodec.Int(-1)
	}
	return respcodec.Int(int64(ttl.Seconds()))
}

func cmdKeys(ctx *Context, args []string) Reply {
	pattern := "*"
	if len(args) >= 1 {
		pattern = args[0]
	}
	names := ctx.Store.Keys(pattern)
	items := make([]Reply, 0, len(names))
	for _, n := range names {
		items = append(items, respcodec.Bulk(n))
	}
	return respcodec.Array(items...)
}

func cmdType(ctx *Context, args []string) Reply {
	if len(args) < 1 {
		return respcodec.Err("ClaveError no se encontro una clave")
	}
	v, ok := ctx.Store.Get(args[0])
	if !ok {
		return respcodec.Simple("none")
	}
	return respcodec.Simple(v.Kind.String())
}

func cmdRename(ctx *Context, args []string) Reply {
	if len(args) < 1 {
		return respcodec.Err("ClaveError no se encontro una clave")
	}
	if len(args) < 2 {
		return respcodec.Err("ParametroError no se envio el parametro")
	}
	if !ctx.Store.Rename(args[0], args[1]) {
		return respcodec.Err("GetError error al obtener la clave")
	}
	return respcodec.Simple("OK")
}
