package bridge

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"strconv"
	"strings"
	"sync"
	"time"
)

// Connector owns one logical connection to the editor process. The socket is
// opened lazily on the first command, cached while healthy, and discarded on
// any transport fault; the next command reconnects. There is no background
// keep-alive: the editor may not be running for the whole client session.
//
// SendCommand serializes internally, so at most one command is in flight per
// Connector at a time.
type Connector struct {
	host    string
	port    int
	timeout time.Duration
	logger  *slog.Logger

	mu   sync.Mutex
	conn net.Conn
	r    *bufio.Reader
}

// NewConnector builds a Connector for the editor at host:port. A timeout of
// zero falls back to 300 seconds. A nil logger discards log output.
func NewConnector(host string, port int, timeout time.Duration, logger *slog.Logger) *Connector {
	if timeout <= 0 {
		timeout = 300 * time.Second
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Connector{host: host, port: port, timeout: timeout, logger: logger}
}

// Addr returns the host:port the Connector dials.
func (c *Connector) Addr() string {
	return net.JoinHostPort(c.host, strconv.Itoa(c.port))
}

// SendCommand sends one command to the editor and returns its result mapping.
// Failure classes: ErrConnection when no connection can be established or the
// transport breaks, ErrTimeout when no full response arrives in time,
// ErrProtocol on a malformed response, and *RemoteError when the editor
// reports a command-level failure (the connection stays usable).
func (c *Connector) SendCommand(ctx context.Context, commandType string, params map[string]any) (map[string]any, error) {
	if strings.TrimSpace(commandType) == "" {
		return nil, errors.New("command type must not be empty")
	}
	if params == nil {
		params = map[string]any{}
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.ensureConnected(ctx); err != nil {
		return nil, err
	}

	deadline := time.Now().Add(c.timeout)
	if d, ok := ctx.Deadline(); ok && d.Before(deadline) {
		deadline = d
	}
	if err := c.conn.SetDeadline(deadline); err != nil {
		c.teardown()
		return nil, classify(ErrConnection, fmt.Errorf("set deadline: %w", err))
	}

	if err := WriteFrame(c.conn, Request{Type: commandType, Params: params}); err != nil {
		c.teardown()
		return nil, classify(c.faultClass(err), fmt.Errorf("send %s: %w", commandType, err))
	}

	line, err := ReadFrame(c.r)
	if err != nil {
		c.teardown()
		return nil, classify(c.faultClass(err), fmt.Errorf("read response to %s: %w", commandType, err))
	}

	var resp Response
	if err := json.Unmarshal(line, &resp); err != nil {
		c.teardown()
		return nil, classify(ErrProtocol, fmt.Errorf("decode response to %s: %w", commandType, err))
	}

	switch resp.Status {
	case StatusSuccess:
		if resp.Result == nil {
			return map[string]any{}, nil
		}
		return resp.Result, nil
	case StatusError:
		// The channel is still in sync; only this command failed.
		return nil, &RemoteError{Code: resp.Code, Message: resp.Message}
	default:
		c.teardown()
		return nil, classify(ErrProtocol, fmt.Errorf("unexpected response status %q", resp.Status))
	}
}

// Ping verifies that the editor answers on the current or a fresh connection.
func (c *Connector) Ping(ctx context.Context) error {
	result, err := c.SendCommand(ctx, "ping", nil)
	if err != nil {
		return err
	}
	if msg, _ := result["message"].(string); msg != "pong" {
		return classify(ErrProtocol, fmt.Errorf("unexpected ping result: %v", result))
	}
	return nil
}

// Connected reports whether a cached connection is currently held. It does
// not probe the peer.
func (c *Connector) Connected() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.conn != nil
}

// Close discards the cached connection, if any. The Connector remains usable;
// the next command reconnects.
func (c *Connector) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.conn == nil {
		return nil
	}
	err := c.conn.Close()
	c.conn = nil
	c.r = nil
	return err
}

// ensureConnected dials the editor when no live connection is cached. A dial
// failure surfaces immediately as ErrConnection; there is no retry loop here,
// callers that want resilience retry SendCommand itself.
func (c *Connector) ensureConnected(ctx context.Context) error {
	if c.conn != nil {
		return nil
	}
	addr := c.Addr()
	dialer := net.Dialer{Timeout: c.timeout}
	conn, err := dialer.DialContext(ctx, "tcp", addr)
	if err != nil {
		return classify(ErrConnection, fmt.Errorf("dial %s: %w", addr, err))
	}
	c.conn = conn
	c.r = bufio.NewReader(conn)
	c.logger.Info("connected to editor", "addr", addr)
	return nil
}

// teardown drops the connection state after a fault. Caller holds the mutex.
func (c *Connector) teardown() {
	if c.conn == nil {
		return
	}
	_ = c.conn.Close()
	c.conn = nil
	c.r = nil
	c.logger.Warn("editor connection discarded")
}

// faultClass maps an I/O failure to its taxonomy class.
func (c *Connector) faultClass(err error) error {
	var ne net.Error
	if errors.As(err, &ne) && ne.Timeout() {
		return ErrTimeout
	}
	return ErrConnection
}
