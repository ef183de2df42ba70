package command

import (
	"strconv"

	"github.com/adred-codev/rusticokv/internal/respcodec"
	"github.com/adred-codev/rusticokv/internal/store"
)

// stringHandlers are grounded on comando_string_handler.rs: the exact error
// strings below are the original's, preserved verbatim rather than
// reshaped into a "-ERR ..." convention the source never used.
var stringHandlers = map[string]Handler{
	"GET":    cmdGet,
	"SET":    cmdSet,
	"APPEND": cmdAppend,
	"GETDEL": cmdGetDel,
	"STRLEN": cmdStrLen,
	"DECRBY": cmdDecrBy,
	"INCRBY": cmdIncrBy,
}

func cmdGet(ctx *Context, args []string) Reply {
	if len(args) < 1 {
		return respcodec.Err("ClaveError no se encontro una clave")
	}
	v, ok := ctx.Store.Get(args[0])
	if !ok || v.Kind != store.KindString {
		return respcodec.Err("GetError error al obtener la clave")
	}
	return respcodec.Bulk(v.Str)
}

func cmdSet(ctx *Context, args []string) Reply {
	if len(args) < 1 {
		return respcodec.Err("ClaveError no se encontro una clave")
	}
	if len(args) < 2 {
		return respcodec.Err("ParametroError no se envio el parametro")
	}
	ctx.Store.Put(args[0], store.NoExpirable(store.NewStringValue(args[1])))
	return respcodec.Simple("OK")
}

func cmdAppend(ctx *Context, args []string) Reply {
	if len(args) < 1 {
		return respcodec.Err("ClaveError no se encontro una clave")
	}
	if len(args) < 2 {
		return respcodec.Err("ParametroError no se envio el parametro")
	}
	key, param := args[0], args[1]

	var result Reply
	ctx.Store.Mutate(key, func(current *store.Entry) *store.Entry {
		if current == nil {
			result = respcodec.Int(int64(len(param)))
			return store.NoExpirable(store.NewStringValue(param))
		}
		if current.Value.Kind != store.KindString {
			result = respcodec.Err("GetError error al obtener la clave")
			return current
		}
		next := current.Value.Str + param
		result = respcodec.Int(int64(len(next)))
		return store.NoExpirable(store.NewStringValue(next))
	})
	return result
}

func cmdGetDel(ctx *Context, args []string) Reply {
	if len(args) < 1 {
		return respcodec.Err("ClaveError no se encontro una clave")
	}
	key := args[0]

	v, ok := ctx.Store.Get(key)
	if !ok || v.Kind != store.KindString {
		return respcodec.Err("GetError error al obtener la clave")
	}
	ctx.Store.Delete(key)
	return respcodec.Bulk(v.Str)
}

func cmdStrLen(ctx *Context, args []string) Reply {
	if len(args) < 1 {
		return respcodec.Err("ClaveError no se encontro una clave")
	}
	v, ok := ctx.Store.Get(args[0])
	if !ok || v.Kind != store.KindString {
		return respcodec.Err("StrLen error al obtener la clave")
	}
	return respcodec.Int(int64(len(v.Str)))
}

func cmdDecrBy(ctx *Context, args []string) Reply {
	return operarSobreInt(ctx, args, func(a, b int32) int32 { return a - b })
}

func cmdIncrBy(ctx *Context, args []string) Reply {
	return operarSobreInt(ctx, args, func(a, b int32) int32 { return a + b })
}

// operarSobreInt implements the shared parse-int, apply-op, store-back
// semantics DECRBY/INCRBY share in the original (operar_sobre_int): an
// absent key behaves as "0", a non-string key is WRONGTYPE, and either
// operand failing to parse as an integer produces its own distinct error.
// Both operands parse as signed 32-bit (the original parses with
// .parse::<i32>() and operates via fn(i32,i32)->i32), so arithmetic wraps
// at the 32-bit boundary rather than the 64-bit one.
func operarSobreInt(ctx *Context, args []string, op func(a, b int32) int32) Reply {
	if len(args) < 1 {
		return respcodec.Err("ClaveError no se encontro una clave")
	}
	key := args[0]

	current, ok := ctx.Store.Get(key)
	var currentStr string
	switch {
	case !ok:
		currentStr = "0"
	case current.Kind == store.KindString:
		currentStr = current.Str
	default:
		return respcodec.Err("WRONGTYPE")
	}

	num, err := strconv.ParseInt(currentStr, 10, 32)
	if err != nil {
		return respcodec.Err("Valor no es un int")
	}

	if len(args) < 2 {
		return respcodec.Err("ParametroError no se encontro un parametro")
	}
	param, err := strconv.ParseInt(args[1], 10, 32)
	if err != nil {
		return respcodec.Err("Parametro no es un int")
	}

	result := op(int32(num), int32(param))
	ctx.Store.Put(key, store.NoExpirable(store.NewStringValue(strconv.FormatInt(int64(result), 10))))
	return respcodec.Bulk(strconv.FormatInt(int64(result), 10))
}
