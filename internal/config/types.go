// Package config resolves, parses, validates, and defaults gdbridge
// configuration.
package config

import "time"

// Config is the fully materialized runtime configuration used by gdbridge.
type Config struct {
	Godot    GodotConfig    `toml:"godot"`
	Receiver ReceiverConfig `toml:"receiver"`
	Server   ServerConfig   `toml:"server"`
	Meshy    MeshyConfig    `toml:"meshy"`
	Assets   AssetsConfig   `toml:"assets"`
	Log      LogConfig      `toml:"log"`
}

// GodotConfig locates the editor-side listener the Connector dials.
type GodotConfig struct {
	Host           string  `toml:"host"`
	Port           int     `toml:"port"`
	TimeoutSeconds float64 `toml:"timeout_seconds"`
}

// Timeout returns the per-command budget as a duration.
func (g GodotConfig) Timeout() time.Duration {
	return time.Duration(g.TimeoutSeconds * float64(time.Second))
}

// ReceiverConfig controls the reference receiver started by `gdbridge receiver`.
type ReceiverConfig struct {
	Bind                  string  `toml:"bind"`
	CommandTimeoutSeconds float64 `toml:"command_timeout_seconds"`
}

// CommandTimeout returns the optional server-side handler budget; zero
// disables it.
func (r ReceiverConfig) CommandTimeout() time.Duration {
	return time.Duration(r.CommandTimeoutSeconds * float64(time.Second))
}

// MCP transports accepted by server.transport.
const (
	TransportStdio = "stdio"
	TransportHTTP  = "http"
)

// ServerConfig selects the MCP transport for `gdbridge serve`.
type ServerConfig struct {
	Transport string `toml:"transport"`
	HTTPBind  string `toml:"http_bind"`
}

// MeshyConfig holds credentials and timeouts for the Meshy generation API.
type MeshyConfig struct {
	APIKey                 string `toml:"api_key"`
	BaseURL                string `toml:"base_url"`
	TimeoutSeconds         int    `toml:"timeout_seconds"`
	DownloadTimeoutSeconds int    `toml:"download_timeout_seconds"`
}

// Timeout returns the Meshy API request budget.
func (m MeshyConfig) Timeout() time.Duration {
	return time.Duration(m.TimeoutSeconds) * time.Second
}

// DownloadTimeout returns the mesh download budget.
func (m MeshyConfig) DownloadTimeout() time.Duration {
	return time.Duration(m.DownloadTimeoutSeconds) * time.Second
}

// AssetsConfig controls where generated assets land inside the project.
type AssetsConfig struct {
	ImportPath string `toml:"import_path"`
}

// LogConfig controls structured log output.
type LogConfig struct {
	Level string `toml:"level"`
}

// Warning is a non-fatal parse/validation message.
type Warning struct {
	Message string
}
