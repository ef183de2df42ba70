package main

import (
	"context"
	"errors"
	"net"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/adred-codev/rusticokv/internal/client"
	"github.com/adred-codev/rusticokv/internal/command"
	"github.com/adred-codev/rusticokv/internal/limits"
	"github.com/adred-codev/rusticokv/internal/monitoring"
	"github.com/adred-codev/rusticokv/internal/persistence"
	"github.com/adred-codev/rusticokv/internal/respcodec"
	"github.com/adred-codev/rusticokv/internal/store"
	"github.com/adred-codev/rusticokv/internal/types"
	"github.com/rs/zerolog"
)

// Server owns the listening socket, the key table, the persistence actor and
// every admission guard a connection passes through before it can run
// commands. One goroutine per accepted connection, the concurrency model
// the teacher's WebSocket server also uses per upgraded client.
type Server struct {
	config types.ServerConfig
	logger zerolog.Logger

	store      *store.Store
	dispatcher *command.Dispatcher
	actor      *persistence.Actor

	resourceGuard *limits.ResourceGuard
	connLimiter   *limits.ConnectionRateLimiter
	cmdLimiter    *limits.CommandRateLimiter

	listener   net.Listener
	metricsSrv *http.Server

	stats types.Stats

	clientsMu sync.Mutex
	clients   map[uint64]*client.RESPClient

	cpuCtx    context.Context
	cpuCancel context.CancelFunc

	wg      sync.WaitGroup
	closing int32
}

// NewServer wires store, dispatcher, persistence and admission guards
// together. The store is seeded from config.DBFilename if a snapshot
// already exists there.
func NewServer(config types.ServerConfig, logger zerolog.Logger) (*Server, error) {
	data := persistence.Restore(config.DBFilename)
	kv := store.NewFromSnapshot(data)

	actor := persistence.NewActor(config.DBFilename, config.SnapshotInterval, logger)
	actor.Start()
	kv.Subscribe(actor)

	ctx, cancel := context.WithCancel(context.Background())

	s := &Server{
		config:     config,
		logger:     logger.With().Str("component", "server").Logger(),
		store:      kv,
		dispatcher: command.NewDispatcher(),
		actor:      actor,
		cmdLimiter: limits.NewCommandRateLimiter(config.MaxCommandsPerSec),
		clients:    make(map[uint64]*client.RESPClient),
		cpuCtx:     ctx,
		cpuCancel:  cancel,
	}
	s.stats.StartTime = time.Now()

	// ResourceGuard takes a pointer into s.stats, so it must be built after s.
	s.resourceGuard = limits.NewResourceGuard(config, logger, &s.stats.CurrentConnections)
	s.connLimiter = limits.NewConnectionRateLimiter(limits.ConnectionRateLimiterConfig{
		Logger: logger,
	})

	monitoring.KeysTotal.Set(float64(kv.Len()))
	monitoring.ConnectionsMax.Set(float64(config.MaxConnections))

	return s, nil
}

// Start binds the listening socket, the metrics HTTP server and resource
// monitoring, then begins accepting connections in the background.
func (s *Server) Start() error {
	ln, err := net.Listen("tcp", s.config.Addr)
	if err != nil {
		return err
	}
	s.listener = ln

	s.resourceGuard.StartMonitoring(s.cpuCtx, s.config.MetricsInterval)

	mux := http.NewServeMux()
	mux.Handle("/metrics", monitoring.Handler())
	s.metricsSrv = &http.Server{Addr: s.config.MetricsAddr, Handler: mux}
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		if err := s.metricsSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error().Err(err).Msg("metrics server stopped unexpectedly")
		}
	}()

	s.logger.Info().Str("addr", s.config.Addr).Str("metrics_addr", s.config.MetricsAddr).Msg("server listening")

	s.wg.Add(1)
	go s.acceptLoop()

	return nil
}

func (s *Server) acceptLoop() {
	defer s.wg.Done()

	for {
		conn, err := s.listener.Accept()
		if err != nil {
			if atomic.LoadInt32(&s.closing) == 1 {
				return
			}
			s.logger.Error().Err(err).Msg("accept failed")
			continue
		}

		s.wg.Add(1)
		go func() {
			defer s.wg.Done()
			defer monitoring.RecoverPanic(s.logger, "handleConnection", map[string]any{"addr": conn.RemoteAddr().String()})
			s.handleConnection(conn)
		}()
	}
}

// countingConn wraps an accepted socket so the accept loop can feed
// cumulative byte counts into the bytes_received/bytes_sent counters
// without threading counters through the parser and writer.
type countingConn struct {
	net.Conn
}

func (c countingConn) Read(b []byte) (int, error) {
	n, err := c.Conn.Read(b)
	monitoring.BytesReceived.Add(float64(n))
	return n, err
}

func (c countingConn) Write(b []byte) (int, error) {
	n, err := c.Conn.Write(b)
	monitoring.BytesSent.Add(float64(n))
	return n, err
}

func (s *Server) handleConnection(rawConn net.Conn) {
	conn := countingConn{Conn: rawConn}

	host, _, err := net.SplitHostPort(conn.RemoteAddr().String())
	if err != nil {
		host = conn.RemoteAddr().String()
	}

	if !s.connLimiter.CheckConnectionAllowed(host) {
		conn.Close()
		return
	}

	if accept, reason := s.resourceGuard.ShouldAcceptConnection(); !accept {
		s.logger.Warn().Str("addr", host).Str("reason", reason).Msg("connection rejected")
		conn.Close()
		return
	}

	rc := client.NewRESPClient(conn, s.config.IdleTimeout)
	defer s.untrackClient(rc)
	s.trackClient(rc)

	atomic.AddInt64(&s.stats.TotalConnections, 1)
	monitoring.ConnectionsTotal.Inc()
	monitoring.ConnectionsActive.Inc()

	s.logger.Debug().Str("addr", rc.Addr()).Uint64("token", rc.Token()).Msg("client connected")

	parser := respcodec.NewParser(conn)
	ctx := &command.Context{Store: s.store, Client: rc}

	for {
		if err := rc.ApplyReadDeadline(); err != nil {
			return
		}

		args, err := parser.ReadCommand()
		if err != nil {
			if !errors.Is(err, respcodec.ErrProtocol) {
				return // EOF or a network error: peer is gone
			}
			monitoring.ParseErrors.Inc()
			rc.SendResult(respcodec.Err("ERR Protocol error: " + err.Error()))
			return
		}
		if len(args) == 0 {
			continue
		}

		if !s.cmdLimiter.Allow(rc.Token()) {
			monitoring.CommandsRateLimited.Inc()
			rc.SendResult(respcodec.Err("ERR rate limit exceeded"))
			continue
		}

		reply := s.dispatcher.Dispatch(ctx, args[0], args[1:])
		if err := rc.SendResult(reply); err != nil {
			return
		}
		atomic.AddInt64(&s.stats.CommandsProcessed, 1)
	}
}

func (s *Server) trackClient(rc *client.RESPClient) {
	s.clientsMu.Lock()
	s.clients[rc.Token()] = rc
	s.clientsMu.Unlock()
	atomic.AddInt64(&s.stats.CurrentConnections, 1)
}

func (s *Server) untrackClient(rc *client.RESPClient) {
	s.clientsMu.Lock()
	delete(s.clients, rc.Token())
	s.clientsMu.Unlock()

	rc.Close()
	s.cmdLimiter.Forget(rc.Token())
	s.store.UnsubscribeAll(rc.Token())
	atomic.AddInt64(&s.stats.CurrentConnections, -1)
	monitoring.ConnectionsActive.Dec()
}

// Shutdown stops accepting new connections, closes tracked client sockets,
// enqueues a final snapshot, closes the persistence actor and waits for
// every background goroutine. The final snapshot goes through the actor's
// interval gate like any other, so it is written only if the snapshot
// interval has elapsed since the last write.
func (s *Server) Shutdown() error {
	atomic.StoreInt32(&s.closing, 1)

	if s.listener != nil {
		s.listener.Close()
	}

	s.clientsMu.Lock()
	for _, rc := range s.clients {
		rc.Close()
	}
	s.clientsMu.Unlock()

	s.cpuCancel()
	s.connLimiter.Stop()

	if s.metricsSrv != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		s.metricsSrv.Shutdown(ctx)
	}

	s.actor.Snapshot(s.finalSnapshot())
	s.actor.Close()

	s.wg.Wait()
	return nil
}

func (s *Server) finalSnapshot() map[string]*store.Entry {
	snapshot := make(map[string]*store.Entry)
	for _, key := range s.store.Keys("*") {
		if entry, ok := s.store.GetEntry(key); ok {
			snapshot[key] = entry
		}
	}
	return snapshot
}
