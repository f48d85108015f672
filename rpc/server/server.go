package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"sync"
	"time"

	"go.uber.org/zap"

	"shardkv/lib/engine"
	"shardkv/lib/persist"
	"shardkv/lib/reaper"
	"shardkv/lib/stats"
	"shardkv/rpc/common"
	"shardkv/rpc/serializer"
	"shardkv/rpc/transport"
)

// Server is one shard of the distributed store: a TCP listener in front of
// its own engine, reaper and persistence writer. Servers are independent;
// nothing is shared between instances.
type Server struct {
	config     common.ServerConfig
	serializer serializer.IRPCSerializer
	counters   *stats.Registry
	engine     *engine.Engine
	writer     *persist.Writer
	reaper     *reaper.Reaper
	log        *zap.SugaredLogger
}

// New assembles a server from its configuration. The snapshot for this
// server's identity is loaded before New returns, so the engine state is
// complete before any connection is accepted. A corrupt snapshot is logged
// and the server starts fresh; persistence is best-effort in both
// directions.
func New(config common.ServerConfig, log *zap.SugaredLogger) *Server {
	counters := stats.NewRegistry()
	eng := engine.New(counters)

	writer := persist.NewWriter(config.DataDir, config.ServerID, eng, config.SaveInterval, log)
	if err := writer.Load(); err != nil {
		log.Errorw("failed to load snapshot, starting fresh", "error", err)
	}

	return &Server{
		config:     config,
		serializer: serializer.NewJSONSerializer(),
		counters:   counters,
		engine:     eng,
		writer:     writer,
		reaper:     reaper.New(eng, config.ReapInterval, log),
		log:        log,
	}
}

// Engine exposes the server's store engine. Used by tests.
func (s *Server) Engine() *engine.Engine {
	return s.engine
}

// Serve listens on the configured address and handles connections until the
// context is cancelled, then closes the listener, waits for in-flight
// connections and performs one final best-effort save. Each accepted
// connection is served by its own goroutine, one request/response pair per
// connection.
func (s *Server) Serve(ctx context.Context) error {
	listener, err := net.Listen("tcp", s.config.Addr())
	if err != nil {
		return fmt.Errorf("failed to create TCP listener on %s: %w", s.config.Addr(), err)
	}

	s.log.Infow("server listening",
		"server_id", s.config.ServerID,
		"addr", listener.Addr().String(),
		"snapshot", s.writer.Path(),
	)
	s.log.Info(s.config.String())

	// Background loops share the server's lifetime.
	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		s.reaper.Run(ctx)
	}()
	go func() {
		defer wg.Done()
		s.writer.Run(ctx)
	}()

	var connWg sync.WaitGroup
	acceptDone := make(chan error, 1)
	go func() {
		acceptDone <- s.acceptLoop(listener, &connWg)
	}()

	select {
	case <-ctx.Done():
		listener.Close()
		<-acceptDone
	case err := <-acceptDone:
		if err != nil {
			return err
		}
	}

	connWg.Wait()
	wg.Wait()

	if err := s.writer.Save(); err != nil {
		s.log.Errorw("final save failed", "error", err)
	} else {
		s.log.Info("final snapshot saved")
	}
	return nil
}

// acceptLoop accepts until the listener is closed. A failed accept is
// logged and the loop continues; only a closed listener ends it.
func (s *Server) acceptLoop(listener net.Listener, connWg *sync.WaitGroup) error {
	for {
		conn, err := listener.Accept()
		if err != nil {
			if errors.Is(err, net.ErrClosed) {
				return nil
			}
			s.log.Errorw("accept error", "error", err)
			continue
		}

		connWg.Add(1)
		go func() {
			defer connWg.Done()
			s.handleConn(conn)
		}()
	}
}

// handleConn serves exactly one request/response pair, then closes the
// connection. A failure on one connection must never affect the accept loop
// or other connections, so panics from request handling are converted into
// error responses.
func (s *Server) handleConn(conn net.Conn) {
	defer conn.Close()

	if s.config.TimeoutSecond > 0 {
		deadline := time.Now().Add(time.Duration(s.config.TimeoutSecond) * time.Second)
		if err := conn.SetDeadline(deadline); err != nil {
			s.log.Errorw("failed to set connection deadline", "error", err)
			return
		}
	}

	data, err := transport.ReadFrame(conn)
	if err != nil {
		s.log.Debugw("failed to read request", "remote", conn.RemoteAddr().String(), "error", err)
		return
	}

	var resp common.Response
	var req common.Request
	if err := s.serializer.DeserializeRequest(data, &req); err != nil {
		resp = common.NewErrorResponse("Invalid JSON")
	} else {
		s.counters.RecordRequest()
		resp = s.safeDispatch(req)
		s.log.Infow("handled request",
			"command", req.Command,
			"remote", conn.RemoteAddr().String(),
			"key", req.Key,
			"status", resp.Status,
		)
	}

	resp.ServerID = s.config.ServerID
	resp.ServerPort = s.config.Port

	out, err := s.serializer.SerializeResponse(resp)
	if err != nil {
		s.log.Errorw("failed to serialize response", "error", err)
		return
	}
	if err := transport.WriteFrame(conn, out); err != nil {
		s.log.Errorw("failed to write response", "remote", conn.RemoteAddr().String(), "error", err)
	}
}

// safeDispatch runs dispatch with a panic guard so a single bad request
// surfaces as an error response instead of taking the process down.
func (s *Server) safeDispatch(req common.Request) (resp common.Response) {
	defer func() {
		if r := recover(); r != nil {
			s.log.Errorw("panic while handling request", "command", req.Command, "panic", r)
			resp = common.NewErrorResponse(fmt.Sprint(r))
		}
	}()
	return s.dispatch(req)
}
