// Package tools implements the editor tool surface exposed over MCP.
// Each tool builds a command for the Godot side, sends it through a
// Commander, and renders the reply as text for the calling model.
package tools

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"gdbridge/internal/bridge"
	"gdbridge/internal/config"
	"gdbridge/internal/meshy"
)

// Commander sends one command to the editor and returns its result.
// *bridge.Connector is the production implementation.
type Commander interface {
	SendCommand(ctx context.Context, commandType string, params map[string]any) (map[string]any, error)
}

// Service holds the dependencies shared by all tools.
type Service struct {
	editor Commander
	meshy  *meshy.Client
	assets config.AssetsConfig
	logger *slog.Logger
}

// NewService wires the tool surface. meshyClient may be nil when no
// API key is configured; the meshy tools then answer with guidance.
func NewService(editor Commander, meshyClient *meshy.Client, assets config.AssetsConfig, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Service{
		editor: editor,
		meshy:  meshyClient,
		assets: assets,
		logger: logger,
	}
}

// describeSendError turns a transport or editor failure into text the
// calling model can act on.
func describeSendError(err error) string {
	var remote *bridge.RemoteError
	switch {
	case errors.As(err, &remote):
		return fmt.Sprintf("The editor refused the command (%s): %s", remote.Code, remote.Message)
	case errors.Is(err, bridge.ErrTimeout):
		return "Timed out waiting for the Godot editor. The editor may be busy or the scene may be large; try again."
	case errors.Is(err, bridge.ErrConnection):
		return "Could not reach the Godot editor. Make sure the editor is running with the bridge plugin enabled."
	case errors.Is(err, bridge.ErrProtocol):
		return "The editor sent a malformed reply: " + err.Error()
	default:
		return err.Error()
	}
}

// commandMessage prefers the editor's own message over a fallback.
func commandMessage(result map[string]any, fallback string) string {
	if msg, ok := result["message"].(string); ok && msg != "" {
		return msg
	}
	return fallback
}

func jsonText(v any) string {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Sprintf("%v", v)
	}
	return string(data)
}

// resPath normalizes a project path: res:// prefix, and ext appended
// when the last segment has no extension. ext may be empty.
func resPath(p, ext string) string {
	if !strings.HasPrefix(p, "res://") {
		p = "res://" + p
	}
	if ext != "" {
		last := p[strings.LastIndex(p, "/")+1:]
		if !strings.Contains(last, ".") {
			p += ext
		}
	}
	return p
}

// scenePath is resPath with .tscn appended unless the path already
// names a scene file.
func scenePath(p string) string {
	if !strings.HasPrefix(p, "res://") {
		p = "res://" + p
	}
	if !strings.HasSuffix(p, ".tscn") && !strings.HasSuffix(p, ".scn") {
		p += ".tscn"
	}
	return p
}
