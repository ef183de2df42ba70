package command

import (
	"strconv"

	"github.com/adred-codev/rusticokv/internal/respcodec"
	"github.com/adred-codev/rusticokv/internal/store"
)

// listHandlers fill in the spec's list-family extension point using
// canonical Redis list semantics, since neither the distilled spec nor
// original_source constrain them further.
var listHandlers = map[string]Handler{
	"LPUSH":  cmdPush(true),
	"RPUSH":  cmdPush(false),
	"LPOP":   cmdPop(true),
	"RPOP":   cmdPop(false),
	"LRANGE": cmdLRange,
	"LLEN":   cmdLLen,
}

func cmdPush(left bool) Handler {
	return func(ctx *Context, args []string) Reply {
		if len(args) < 1 {
			return respcodec.Err("ClaveError no se encontro una clave")
		}
		if len(args) < 2 {
			return respcodec.Err("ParametroError no se envio el parametro")
		}
		key, values := args[0], args[1:]

		var newLen int
		ctx.Store.Mutate(key, func(current *store.Entry) *store.Entry {
			var list []string
			if current != nil {
				if current.Value.Kind != store.KindList {
					return current
				}
				list = current.Value.List
			}
			if left {
				list = append(append([]string{}, reverse(values)...), list...)
			} else {
				list = append(append([]string{}, list...), values...)
			}
			newLen = len(list)
			return store.NoExpirable(store.NewListValue(list))
		})
		if newLen == 0 {
			return respcodec.Err("WRONGTYPE")
		}
		return respcodec.Int(int64(newLen))
	}
}

func cmdPop(left bool) Handler {
	return func(ctx *Context, args []string) Reply {
		if len(args) < 1 {
			return respcodec.Err("ClaveError no se encontro una clave")
		}
		key := args[0]

		v, ok := ctx.Store.Get(key)
		if !ok {
			return respcodec.Nil()
		}
		if v.Kind != store.KindList {
			return respcodec.Err("WRONGTYPE")
		}
		if len(v.List) == 0 {
			return respcodec.Nil()
		}

		var popped string
		ctx.Store.Mutate(key, func(current *store.Entry) *store.Entry {
			if current == nil || current.Value.Kind != store.KindList || len(current.Value.List) == 0 {
				return current
			}
			list := current.Value.List
			if left {
				popped = list[0]
				list = list[1:]
			} else {
				popped = list[len(list)-1]
				list = list[:len(list)-1]
			}
			if len(list) == 0 {
				return nil
			}
			return store.NoExpirable(store.NewListValue(list))
		})
		return respcodec.Bulk(popped)
	}
}

func cmdLRange(ctx *Context, args []string) Reply {
	if len(args) < 1 {
		return respcodec.Err("ClaveError no se encontro una clave")
	}
	if len(args) < 3 {
		return respcodec.Err("ParametroError no se envio el parametro")
	}
	v, ok := ctx.Store.Get(args[0])
	if !ok {
		return respcodec.Array()
	}
	if v.Kind != store.KindList {
		return respcodec.Err("WRONGTYPE")
	}

	start, err := strconv.Atoi(args[1])
	if err != nil {
		return respcodec.Err("Parametro no es un int")
	}
	stop, err := strconv.Atoi(args[2])
	if err != nil {
		return respcodec.Err("Parametro no es un int")
	}

	n := len(v.List)
	start = normalizeIndex(start, n)
	stop = normalizeIndex(stop, n)
	if start < 0 {
		start = 0
	}
	if stop >= n {
		stop = n - 1
	}
	if start > stop || n == 0 {
		return respcodec.Array()
	}

	items := make([]Reply, 0, stop-start+1)
	for _, s := range v.List[start : stop+1] {
		items = append(items, respcodec.Bulk(s))
	}
	return respcodec.Array(items...)
}

func cmdLLen(ctx *Context, args []string) Reply {
	if len(args) < 1 {
		return respcodec.Err("ClaveError no se encontro una clave")
	}
	v, ok := ctx.Store.Get(args[0])
	if !ok {
		return respcodec.Int(0)
	}
	if v.Kind != store.KindList {
		return respcodec.Err("WRONGTYPE")
	}
	return respcodec.Int(int64(len(v.List)))
}

// normalizeIndex maps a possibly-negative index (counted from the end, as
// in canonical Redis LRANGE) onto a 0-based index into a slice of length n.
func normalizeIndex(i, n int) int {
	if i < 0 {
		i = n + i
	}
	return i
}

func reverse(items []string) []string {
	out := make([]string, len(items))
	for i, v := range items {
		out[len(items)-1-i] = v
	}
	return out
}
