// Package mcpserver exposes the tool surface over the Model Context
// Protocol, on stdio or streamable HTTP.
package mcpserver

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/viant/mcp-protocol/schema"
	proto "github.com/viant/mcp-protocol/server"
	"github.com/viant/mcp/server"

	"gdbridge/internal/config"
	"gdbridge/internal/tools"
	"gdbridge/internal/version"
)

// Server wraps the MCP server with the configured transport.
type Server struct {
	cfg    config.ServerConfig
	srv    *server.Server
	logger *slog.Logger
}

// New builds an MCP server with every tool registered against svc.
func New(cfg config.ServerConfig, svc *tools.Service, logger *slog.Logger) (*Server, error) {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	newHandler := proto.WithDefaultHandler(context.Background(), func(h *proto.DefaultHandler) error {
		return tools.Register(h, svc)
	})
	srv, err := server.New(
		server.WithNewHandler(newHandler),
		server.WithImplementation(schema.Implementation{Name: "gdbridge", Version: version.Version}),
	)
	if err != nil {
		return nil, fmt.Errorf("build mcp server: %w", err)
	}
	return &Server{cfg: cfg, srv: srv, logger: logger}, nil
}

// Run serves MCP on the configured transport until ctx is done or the
// transport fails. On stdio the protocol owns stdout, so all logging
// goes to the log file.
func (s *Server) Run(ctx context.Context) error {
	switch s.cfg.Transport {
	case config.TransportStdio:
		s.logger.Info("serving mcp on stdio")
		return s.srv.Stdio(ctx).ListenAndServe()
	case config.TransportHTTP:
		s.logger.Info("serving mcp over http", "bind", s.cfg.HTTPBind)
		s.srv.UseStreamableHTTP(true)
		httpSrv := s.srv.HTTP(ctx, s.cfg.HTTPBind)
		go func() {
			<-ctx.Done()
			_ = httpSrv.Shutdown(context.Background())
		}()
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	default:
		return fmt.Errorf("unknown transport %q", s.cfg.Transport)
	}
}
