package config

import (
	"fmt"
	"strings"
)

// Validate enforces config invariants and returns non-fatal warnings.
func Validate(cfg Config) ([]Warning, error) {
	warnings := make([]Warning, 0)

	if strings.TrimSpace(cfg.Godot.Host) == "" {
		return nil, fmt.Errorf("godot.host must not be empty")
	}
	if cfg.Godot.Port <= 0 || cfg.Godot.Port > 65535 {
		return nil, fmt.Errorf("godot.port must be in 1..65535")
	}
	if cfg.Godot.TimeoutSeconds <= 0 {
		return nil, fmt.Errorf("godot.timeout_seconds must be > 0")
	}
	if strings.TrimSpace(cfg.Receiver.Bind) == "" {
		return nil, fmt.Errorf("receiver.bind must not be empty")
	}
	if cfg.Receiver.CommandTimeoutSeconds < 0 {
		return nil, fmt.Errorf("receiver.command_timeout_seconds must be >= 0")
	}

	transport := strings.ToLower(strings.TrimSpace(cfg.Server.Transport))
	if transport != "stdio" && transport != "http" {
		return nil, fmt.Errorf("server.transport must be one of: stdio, http")
	}
	if transport == "http" && strings.TrimSpace(cfg.Server.HTTPBind) == "" {
		return nil, fmt.Errorf("server.http_bind must not be empty when server.transport=http")
	}

	if strings.TrimSpace(cfg.Meshy.BaseURL) == "" {
		return nil, fmt.Errorf("meshy.base_url must not be empty")
	}
	if cfg.Meshy.TimeoutSeconds <= 0 {
		return nil, fmt.Errorf("meshy.timeout_seconds must be > 0")
	}
	if cfg.Meshy.DownloadTimeoutSeconds <= 0 {
		return nil, fmt.Errorf("meshy.download_timeout_seconds must be > 0")
	}
	if strings.TrimSpace(cfg.Meshy.APIKey) == "" {
		warnings = append(warnings, Warning{
			Message: "meshy.api_key is not set; mesh generation tools will be unavailable",
		})
	}

	if !strings.HasPrefix(cfg.Assets.ImportPath, "res://") {
		return nil, fmt.Errorf("assets.import_path must start with res://")
	}

	level := strings.ToLower(strings.TrimSpace(cfg.Log.Level))
	switch level {
	case "debug", "info", "warn", "error":
	default:
		return nil, fmt.Errorf("log.level must be one of: debug, info, warn, error")
	}

	return warnings, nil
}
