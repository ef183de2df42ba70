package command

import (
	"github.com/adred-codev/rusticokv/internal/respcodec"
	"github.com/adred-codev/rusticokv/internal/store"
)

// setHandlers fill in the spec's set-family extension point using
// canonical Redis set semantics.
var setHandlers = map[string]Handler{
	"SADD":     cmdSAdd,
	"SREM":     cmdSRem,
	"SMEMBERS": cmdSMembers,
	"SCARD":    cmdSCard,
}

func cmdSAdd(ctx *Context, args []string) Reply {
	if len(args) < 1 {
		return respcodec.Err("ClaveError no se encontro una clave")
	}
	if len(args) < 2 {
		return respcodec.Err("ParametroError no se envio el parametro")
	}
	key, members := args[0], args[1:]

	wrongType := false
	added := 0
	ctx.Store.Mutate(key, func(current *store.Entry) *store.Entry {
		set := map[string]struct{}{}
		if current != nil {
			if current.Value.Kind != store.KindSet {
				wrongType = true
				return current
			}
			for m := range current.Value.Set {
				set[m] = struct{}{}
			}
		}
		for _, m := range members {
			if _, exists := set[m]; !exists {
				set[m] = struct{}{}
				added++
			}
		}
		return store.NoExpirable(&store.Value{Kind: store.KindSet, Set: set})
	})
	if wrongType {
		return respcodec.Err("WRONGTYPE")
	}
	return respcodec.Int(int64(added))
}

func cmdSRem(ctx *Context, args []string) Reply {
	if len(args) < 1 {
		return respcodec.Err("ClaveError no se encontro una clave")
	}
	if len(args) < 2 {
		return respcodec.Err("ParametroError no se envio el parametro")
	}
	key, members := args[0], args[1:]

	wrongType := false
	removed := 0
	ctx.Store.Mutate(key, func(current *store.Entry) *store.Entry {
		if current == nil {
			return nil
		}
		if current.Value.Kind != store.KindSet {
			wrongType = true
			return current
		}
		set := map[string]struct{}{}
		for m := range current.Value.Set {
			set[m] = struct{}{}
		}
		for _, m := range members {
			if _, exists := set[m]; exists {
				delete(set, m)
				removed++
			}
		}
		if len(set) == 0 {
			return nil
		}
		return store.NoExpirable(&store.Value{Kind: store.KindSet, Set: set})
	})
	if wrongType {
		return respcodec.Err("WRONGTYPE")
	}
	return respcodec.Int(int64(removed))
}

func cmdSMembers(ctx *Context, args []string) Reply {
	if len(args) < 1 {
		return respcodec.Err("ClaveError no se encontro una clave")
	}
	v, ok := ctx.Store.Get(args[0])
	if !ok {
		return respcodec.Array()
	}
	if v.Kind != store.KindSet {
		return respcodec.Err("WRONGTYPE")
	}
	items := make([]Reply, 0, len(v.Set))
	for m := range v.Set {
		items = append(items, respcodec.Bulk(m))
	}
	return respcodec.Array(items...)
}

func cmdSCard(ctx *Context, args []string) Reply {
	if len(args) < 1 {
		return respcodec.Err("ClaveError no se encontro una clave")
	}
	v, ok := ctx.Store.Get(args[0])
	if !ok {
		return respcodec.Int(0)
	}
	if v.Kind != store.KindSet {
		return respcodec.Err("WRONGTYPE")
	}
	return respcodec.Int(int64(len(v.Set)))
}
