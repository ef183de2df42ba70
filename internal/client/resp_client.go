package client

import (
	"net"
	"sync"
	"sync/atomic"
	"time"

	"github.com/adred-codev/rusticokv/internal/respcodec"
)

// nextToken hands out monotonically increasing client identities, the Go
// equivalent of the original's incrementing client id counter.
var nextToken uint64

// sharedConn guards concurrent writers to the same socket: the connection's
// own goroutine writes command replies while a publisher goroutine on a
// different connection may concurrently deliver a pub/sub message to this
// client. Both go through the same mutex-guarded writer instead of
// duplicating the file descriptor (the original's try_clone), since Go's
// net.Conn is already safe to share by reference — only the buffering
// needs serialization.
type sharedConn struct {
	mu sync.Mutex
	w  *respcodec.Writer
}

func (s *sharedConn) write(r respcodec.Reply) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.w.Write(r); err != nil {
		return err
	}
	return s.w.Flush()
}

// RESPClient is the TCP-backed implementation of Handle.
type RESPClient struct {
	token       uint64
	conn        net.Conn
	addr        string
	idleTimeout time.Duration
	shared      *sharedConn
	connected   int32 // atomic bool
}

// NewRESPClient wraps an accepted connection. The caller owns reading
// commands off conn (via respcodec.Parser); RESPClient only owns writing
// replies back.
func NewRESPClient(conn net.Conn, idleTimeout time.Duration) *RESPClient {
	c := &RESPClient{
		token:       atomic.AddUint64(&nextToken, 1),
		conn:        conn,
		addr:        conn.RemoteAddr().String(),
		idleTimeout: idleTimeout,
		shared:      &sharedConn{w: respcodec.NewWriter(conn)},
		connected:   1,
	}
	return c
}

// Addr implements Handle.
func (c *RESPClient) Addr() string { return c.addr }

// Connected implements Handle. A closed connection reports false; there is
// no reliable "is the peer still there" check short of writing, so this
// only reflects our own Close() having run.
func (c *RESPClient) Connected() bool {
	return atomic.LoadInt32(&c.connected) == 1
}

// SendResult implements Handle.
func (c *RESPClient) SendResult(reply respcodec.Reply) error {
	if !c.Connected() {
		return net.ErrClosed
	}
	return c.shared.write(reply)
}

// SendMessage implements Handle, encoding a pub/sub delivery as a RESP
// array: ["message", channel, payload] — the canonical Redis pub/sub push
// shape, reused here since the distilled protocol doesn't redefine it.
func (c *RESPClient) SendMessage(channel, payload string) error {
	if !c.Connected() {
		return net.ErrClosed
	}
	msg := respcodec.Array(
		respcodec.Bulk("message"),
		respcodec.Bulk(channel),
		respcodec.Bulk(payload),
	)
	return c.shared.write(msg)
}

// Token implements Handle.
func (c *RESPClient) Token() uint64 { return c.token }

// Supports implements Handle. A plain RESP client supports every command
// family; the hook exists for future restricted handle types.
func (c *RESPClient) Supports(command string) bool { return true }

// ApplyReadDeadline arms the connection's read deadline ahead of the next
// blocking read, when an idle timeout is configured.
func (c *RESPClient) ApplyReadDeadline() error {
	if c.idleTimeout <= 0 {
		return nil
	}
	return c.conn.SetReadDeadline(time.Now().Add(c.idleTimeout))
}

// Close marks the client disconnected and closes the underlying socket.
// Safe to call more than once.
func (c *RESPClient) Close() error {
	if !atomic.CompareAndSwapInt32(&c.connected, 1, 0) {
		return nil
	}
	return c.conn.Close()
}
