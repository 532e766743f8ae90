package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestDefaultValidates(t *testing.T) {
	warnings, err := Validate(Default())
	require.NoError(t, err)
	// Only the missing Meshy key warns by default.
	require.Len(t, warnings, 1)
	require.Contains(t, warnings[0].Message, "meshy.api_key")
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	t.Setenv("MESHY_API_KEY", "")
	loaded, err := Load(filepath.Join(t.TempDir(), "config.toml"))
	require.NoError(t, err)
	require.False(t, loaded.Exists)
	require.Equal(t, "localhost", loaded.Config.Godot.Host)
	require.Equal(t, 6400, loaded.Config.Godot.Port)
	require.Equal(t, 300*time.Second, loaded.Config.Godot.Timeout())
	require.Equal(t, "stdio", loaded.Config.Server.Transport)
	require.NotEmpty(t, loaded.Warnings)
}

func TestLoadOverridesFromFile(t *testing.T) {
	t.Setenv("MESHY_API_KEY", "")
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(`
[godot]
host = "127.0.0.1"
port = 7777
timeout_seconds = 5.5

[server]
transport = "http"
http_bind = "localhost:9000"

[meshy]
api_key = "file-key"
`), 0o600))

	loaded, err := Load(path)
	require.NoError(t, err)
	require.True(t, loaded.Exists)
	require.Equal(t, "127.0.0.1", loaded.Config.Godot.Host)
	require.Equal(t, 7777, loaded.Config.Godot.Port)
	require.Equal(t, 5500*time.Millisecond, loaded.Config.Godot.Timeout())
	require.Equal(t, "http", loaded.Config.Server.Transport)
	require.Equal(t, "file-key", loaded.Config.Meshy.APIKey)
	// Unset sections keep defaults.
	require.Equal(t, "res://assets/generated_meshes/", loaded.Config.Assets.ImportPath)
}

func TestLoadEnvKeyWinsOverFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("[meshy]\napi_key = \"file-key\"\n"), 0o600))
	t.Setenv("MESHY_API_KEY", "env-key")

	loaded, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, "env-key", loaded.Config.Meshy.APIKey)
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	cases := []struct {
		name    string
		content string
		wantErr string
	}{
		{"bad port", "[godot]\nport = 0\n", "godot.port"},
		{"bad timeout", "[godot]\ntimeout_seconds = -1\n", "godot.timeout_seconds"},
		{"bad transport", "[server]\ntransport = \"carrier-pigeon\"\n", "server.transport"},
		{"bad import path", "[assets]\nimport_path = \"/tmp/meshes\"\n", "assets.import_path"},
		{"bad log level", "[log]\nlevel = \"loud\"\n", "log.level"},
		{"bad toml", "[godot\n", "parse config"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "config.toml")
			require.NoError(t, os.WriteFile(path, []byte(tc.content), 0o600))
			_, err := Load(path)
			require.Error(t, err)
			require.Contains(t, err.Error(), tc.wantErr)
		})
	}
}

func TestResolvePath(t *testing.T) {
	explicit, err := ResolvePath("/tmp/custom.toml")
	require.NoError(t, err)
	require.Equal(t, "/tmp/custom.toml", explicit)

	t.Setenv("XDG_CONFIG_HOME", "/xdg")
	fromXDG, err := ResolvePath("")
	require.NoError(t, err)
	require.Equal(t, "/xdg/gdbridge/config.toml", fromXDG)
}
