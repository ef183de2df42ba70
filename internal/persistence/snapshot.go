package persistence

import (
	"bufio"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/adred-codev/rusticokv/internal/store"
)

const (
	tagString   = "STRING"
	tagList     = "LIST"
	tagSet      = "SET"
	tagEX       = "EX"
	fieldSep    = ":"
)

// formatEntry renders one key/entry pair into the line-oriented snapshot
// format (guardar_clave_valor): "STRING:key:value[:EX:secs]",
// "LIST:key:v1:v2:...[:EX:secs]", "SET:key:m1:m2:...[:EX:secs]". Channel
// entries produce no line — they are transient, not persisted.
//
// The separator is ':' for every field, including values themselves: a
// string value containing ':' is indistinguishable on restore from a field
// boundary. This is the original format's ambiguity, not something this
// port papers over — see the persistence design notes.
func formatEntry(key string, entry *store.Entry) (string, bool) {
	var ttlSuffix string
	if ttl, ok := entry.TTL(); ok {
		ttlSuffix = fieldSep + tagEX + fieldSep + strconv.FormatInt(int64(ttl.Seconds()), 10)
	}

	switch entry.Value.Kind {
	case store.KindString:
		return tagString + fieldSep + key + fieldSep + entry.Value.Str + ttlSuffix, true

	case store.KindList:
		parts := append([]string{tagList, key}, entry.Value.List...)
		return strings.Join(parts, fieldSep) + ttlSuffix, true

	case store.KindSet:
		members := make([]string, 0, len(entry.Value.Set))
		for m := range entry.Value.Set {
			members = append(members, m)
		}
		parts := append([]string{tagSet, key}, members...)
		return strings.Join(parts, fieldSep) + ttlSuffix, true

	default:
		return "", false
	}
}

// writeSnapshot writes every key in data to path, one line per key.
//
// Deliberately NOT truncated before writing (os.O_CREATE|os.O_WRONLY,
// no os.O_TRUNC) — this mirrors the original's
// OpenOptions::new().write(true).create(true).open(archivo), which has the
// same property: a snapshot shorter than the previous one leaves stale
// trailing bytes on disk. Kept rather than silently fixed; restore skips
// blank lines but a stale line from a larger prior snapshot would still be
// replayed on the next restore. Operators relying on exact snapshots should
// ensure the key space only grows, or delete the file between runs.
func writeSnapshot(path string, data map[string]*store.Entry) error {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	for key, entry := range data {
		line, ok := formatEntry(key, entry)
		if !ok {
			continue
		}
		if _, err := w.WriteString(line + "\n"); err != nil {
			return err
		}
	}
	return w.Flush()
}

// Restore reads path and rebuilds a key table from it (levantar_tabla). A
// missing file restores an empty table rather than erroring — there's
// nothing to recover from on first boot.
func Restore(path string) map[string]*store.Entry {
	data := make(map[string]*store.Entry)

	f, err := os.Open(path)
	if err != nil {
		return data
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := scanner.Text()
		if line == "" {
			continue
		}
		fields := strings.Split(line, fieldSep)

		switch fields[0] {
		case tagString:
			if len(fields) < 3 {
				continue
			}
			key, val := fields[1], fields[2]
			data[key] = buildEntry(store.NewStringValue(val), fields)

		case tagList:
			if len(fields) < 2 {
				continue
			}
			key := fields[1]
			rest, ttlFields := splitTTL(fields[2:])
			data[key] = buildEntry(store.NewListValue(rest), ttlFields)

		case tagSet:
			if len(fields) < 2 {
				continue
			}
			key := fields[1]
			rest, ttlFields := splitTTL(fields[2:])
			data[key] = buildEntry(store.NewSetValue(rest), ttlFields)

		default:
			continue
		}
	}
	return data
}

// splitTTL separates trailing "EX", "<secs>" fields (if present) from the
// list/set member fields that precede them.
func splitTTL(fields []string) (members []string, ttlFields []string) {
	if len(fields) >= 2 && fields[len(fields)-2] == tagEX {
		return fields[:len(fields)-2], fields[len(fields)-2:]
	}
	return fields, nil
}

// buildEntry wraps v as expirable or not, based on whether fields ends in
// an "EX", "<secs>" pair (obtener_tiempo_expiracion via rsplit on "EX").
func buildEntry(v *store.Value, fields []string) *store.Entry {
	if len(fields) < 2 || fields[len(fields)-2] != tagEX {
		return store.NoExpirable(v)
	}
	secs, err := strconv.ParseInt(fields[len(fields)-1], 10, 64)
	if err != nil {
		return store.NoExpirable(v)
	}
	return store.Expirable(v, time.Duration(secs)*time.Second)
}
