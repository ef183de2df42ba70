// Package persistence implements the background snapshot actor: a single
// goroutine that owns the dump file and serializes writes to it through a
// mailbox, the same shape as the original's PersistidorHandler/Persistidor
// split (mirrored here on the teacher's single-consumer-goroutine idiom
// from its Kafka consumer).
package persistence

import "github.com/adred-codev/rusticokv/internal/store"

type messageKind int

const (
	msgSnapshot messageKind = iota
	msgChangeFile
	msgClose
)

// message is the actor's mailbox payload, mirroring MensajePersistencia's
// three variants (Info/ArchivoAPersistir/Cerrar).
type message struct {
	kind     messageKind
	snapshot map[string]*store.Entry
	path     string
}
