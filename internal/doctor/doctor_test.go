package doctor

import (
	"context"
	"net"
	"testing"

	"github.com/stretchr/testify/require"

	"gdbridge/internal/config"
	"gdbridge/internal/receiver"
)

func TestReportOK(t *testing.T) {
	report := Report{Checks: []Check{
		{Name: "a", Pass: true, Message: "fine"},
		{Name: "b", Pass: true, Message: "fine"},
	}}
	require.True(t, report.OK())

	report.Checks = append(report.Checks, Check{Name: "c", Pass: false, Message: "broken"})
	require.False(t, report.OK())
}

func TestReportString(t *testing.T) {
	report := Report{Checks: []Check{
		{Name: "config", Pass: true, Message: "loaded"},
		{Name: "editor", Pass: false, Message: "unreachable"},
	}}
	out := report.String()
	require.Contains(t, out, "[OK] config: loaded")
	require.Contains(t, out, "[FAIL] editor: unreachable")
}

func TestCheckConfigReportsWarnings(t *testing.T) {
	check := checkConfig(config.Loaded{
		Path:     "/tmp/config.toml",
		Exists:   true,
		Warnings: []config.Warning{{Message: "meshy.api_key is not set"}},
	})
	require.True(t, check.Pass)
	require.Contains(t, check.Message, "/tmp/config.toml")
	require.Contains(t, check.Message, "meshy.api_key is not set")
}

func TestCheckConfigMissingFile(t *testing.T) {
	check := checkConfig(config.Loaded{Path: "/tmp/none.toml", Exists: false})
	require.True(t, check.Pass)
	require.Contains(t, check.Message, "using defaults")
}

func TestCheckEditorPass(t *testing.T) {
	registry := receiver.NewRegistry()
	require.NoError(t, receiver.NewStubEditor().Register(registry))

	listener, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() { _ = (&receiver.Server{Registry: registry}).Serve(ctx, listener) }()

	port := listener.Addr().(*net.TCPAddr).Port
	check := checkEditor(context.Background(), config.GodotConfig{Host: "127.0.0.1", Port: port})
	require.True(t, check.Pass)
	require.Contains(t, check.Message, "answered ping")
}

func TestCheckEditorFail(t *testing.T) {
	listener, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	port := listener.Addr().(*net.TCPAddr).Port
	require.NoError(t, listener.Close())

	check := checkEditor(context.Background(), config.GodotConfig{Host: "127.0.0.1", Port: port})
	require.False(t, check.Pass)
	require.Contains(t, check.Message, "ping")
}

func TestCheckMeshyKey(t *testing.T) {
	check := checkMeshyKey(config.MeshyConfig{})
	require.True(t, check.Pass)
	require.Contains(t, check.Message, "disabled")

	check = checkMeshyKey(config.MeshyConfig{APIKey: "msy_abc"})
	require.True(t, check.Pass)
	require.Equal(t, "configured", check.Message)
}

func TestCheckLogPath(t *testing.T) {
	t.Setenv("XDG_STATE_HOME", t.TempDir())
	check := checkLogPath()
	require.True(t, check.Pass)
	require.Contains(t, check.Message, "log.jsonl")
}

func TestRunEndToEnd(t *testing.T) {
	t.Setenv("XDG_STATE_HOME", t.TempDir())

	registry := receiver.NewRegistry()
	require.NoError(t, receiver.NewStubEditor().Register(registry))
	listener, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() { _ = (&receiver.Server{Registry: registry}).Serve(ctx, listener) }()

	cfg := config.Default()
	cfg.Godot.Host = "127.0.0.1"
	cfg.Godot.Port = listener.Addr().(*net.TCPAddr).Port

	report := Run(context.Background(), config.Loaded{Path: "/tmp/config.toml", Config: cfg, Exists: false})
	require.True(t, report.OK(), report.String())
	require.Len(t, report.Checks, 4)
}
