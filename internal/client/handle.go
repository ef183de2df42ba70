// Package client implements the per-connection client handle: the
// capability surface command handlers and pub/sub channels use to talk
// back to whatever is on the other end of a socket, without needing to
// know it's a socket.
package client

import "github.com/adred-codev/rusticokv/internal/respcodec"

// Handle is the capability set a connected client exposes to command
// handlers and to Channel subscriber rosters. It mirrors the original's
// TipoCliente trait (obtener_comando/obtener_addr/esta_conectado/
// enviar_resultado/enviar_mensaje/obtener_token/soporta_comando), translated
// into an idiomatic Go interface, minus obtener_comando: reading commands is
// done by respcodec.Parser in the accept loop, not through a Handle.
type Handle interface {
	// Addr returns the remote address string, for logging.
	Addr() string

	// Connected reports whether the handle is still open. RESPClient
	// reports false only after its own Close has run; it does not peek at
	// the socket or check the idle window (the idle timeout is enforced as
	// a read deadline in the accept loop instead).
	Connected() bool

	// SendResult writes a command reply on the client's own connection.
	SendResult(reply respcodec.Reply) error

	// SendMessage delivers a pub/sub message on channel to this client,
	// independent of whatever command reply it might also be waiting on.
	SendMessage(channel, payload string) error

	// Token returns the client's unique, monotonically assigned identity.
	Token() uint64

	// Supports reports whether this client handle can execute the named
	// command family (the RESP client supports everything; a future
	// restricted handle — e.g. a replica link — would not).
	Supports(command string) bool
}
