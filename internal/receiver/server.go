package receiver

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"sync"
	"time"

	"github.com/google/uuid"

	"gdbridge/internal/bridge"
)

// Server accepts editor-bridge connections and runs each one as an
// independent read-dispatch-write loop. Responses are strictly ordered per
// connection: the next request is not read until the current response has
// been written in full. Connections are serviced concurrently; the registry
// is read-only by then and needs no locking.
type Server struct {
	Registry *Registry
	Logger   *slog.Logger

	// CommandTimeout bounds a single handler invocation. Zero means no
	// server-side timeout: a slow handler blocks only its own connection.
	CommandTimeout time.Duration
}

// Serve accepts connections until the context is cancelled or the listener
// closes. A malformed frame terminates its own connection only; the listener
// stays alive across arbitrarily many bad commands.
func (s *Server) Serve(ctx context.Context, listener net.Listener) error {
	logger := s.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	var wg sync.WaitGroup

	go func() {
		<-ctx.Done()
		_ = listener.Close()
	}()

	for {
		conn, err := listener.Accept()
		if err != nil {
			if errors.Is(err, net.ErrClosed) || ctx.Err() != nil {
				wg.Wait()
				return nil
			}
			return fmt.Errorf("accept bridge connection: %w", err)
		}

		wg.Add(1)
		go func(c net.Conn) {
			defer wg.Done()
			defer c.Close()
			s.serveConn(ctx, c, logger)
		}(conn)
	}
}

// serveConn runs the message loop for one accepted connection.
func (s *Server) serveConn(ctx context.Context, conn net.Conn, logger *slog.Logger) {
	connID := uuid.New().String()
	logger.Info("bridge connection opened", "conn", connID, "peer", conn.RemoteAddr().String())
	defer logger.Info("bridge connection closed", "conn", connID)

	reader := bufio.NewReader(conn)
	for {
		line, err := bridge.ReadFrame(reader)
		if err != nil {
			if !errors.Is(err, io.EOF) && ctx.Err() == nil {
				logger.Warn("read frame failed", "conn", connID, "error", err.Error())
			}
			return
		}

		var req bridge.Request
		if err := json.Unmarshal(line, &req); err != nil {
			// Unrecoverable parse error: answer once, then drop the
			// connection as desynchronized.
			_ = bridge.WriteFrame(conn, bridge.Response{
				Status:  bridge.StatusError,
				Code:    "protocol",
				Message: "decode request: " + err.Error(),
			})
			logger.Warn("malformed request", "conn", connID, "error", err.Error())
			return
		}

		resp := s.dispatch(ctx, req)
		if resp.Status == bridge.StatusError {
			logger.Warn("command failed", "conn", connID, "command", req.Type, "code", resp.Code, "message", resp.Message)
		} else {
			logger.Info("command handled", "conn", connID, "command", req.Type)
		}

		if err := bridge.WriteFrame(conn, resp); err != nil {
			logger.Warn("write response failed", "conn", connID, "error", err.Error())
			return
		}
	}
}

func (s *Server) dispatch(ctx context.Context, req bridge.Request) bridge.Response {
	if s.CommandTimeout > 0 {
		cctx, cancel := context.WithTimeout(ctx, s.CommandTimeout)
		defer cancel()
		ctx = cctx
	}
	return Dispatch(ctx, s.Registry, req)
}
