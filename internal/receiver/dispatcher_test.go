package receiver

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"gdbridge/internal/bridge"
)

func TestDispatchUnknownCommand(t *testing.T) {
	registry := NewRegistry()

	resp := Dispatch(context.Background(), registry, bridge.Request{Type: "NO_SUCH_COMMAND"})

	require.Equal(t, bridge.StatusError, resp.Status)
	require.Equal(t, "unknown_command", resp.Code)
	require.Contains(t, resp.Message, "unknown command: NO_SUCH_COMMAND")
}

func TestDispatchSuccessWrapsResult(t *testing.T) {
	registry := NewRegistry()
	require.NoError(t, registry.Register("ECHO", func(_ context.Context, params map[string]any) (map[string]any, error) {
		return map[string]any{"got": params["value"]}, nil
	}))

	resp := Dispatch(context.Background(), registry, bridge.Request{
		Type:   "ECHO",
		Params: map[string]any{"value": "hi"},
	})

	require.Equal(t, bridge.StatusSuccess, resp.Status)
	require.Equal(t, "hi", resp.Result["got"])
	require.Empty(t, resp.Message)
}

func TestDispatchNilResultBecomesEmptyMapping(t *testing.T) {
	registry := NewRegistry()
	require.NoError(t, registry.Register("NOOP", func(context.Context, map[string]any) (map[string]any, error) {
		return nil, nil
	}))

	resp := Dispatch(context.Background(), registry, bridge.Request{Type: "NOOP"})

	require.Equal(t, bridge.StatusSuccess, resp.Status)
	require.NotNil(t, resp.Result)
	require.Empty(t, resp.Result)
}

func TestDispatchCommandError(t *testing.T) {
	registry := NewRegistry()
	require.NoError(t, registry.Register("FAIL", func(context.Context, map[string]any) (map[string]any, error) {
		return nil, Errorf("not_found", "Script not found")
	}))

	resp := Dispatch(context.Background(), registry, bridge.Request{Type: "FAIL"})

	require.Equal(t, bridge.StatusError, resp.Status)
	require.Equal(t, "not_found", resp.Code)
	require.Equal(t, "Script not found", resp.Message)
}

func TestDispatchUnexpectedErrorMarkedInternal(t *testing.T) {
	registry := NewRegistry()
	require.NoError(t, registry.Register("BOOM", func(context.Context, map[string]any) (map[string]any, error) {
		return nil, errors.New("index out of range")
	}))

	resp := Dispatch(context.Background(), registry, bridge.Request{Type: "BOOM"})

	require.Equal(t, bridge.StatusError, resp.Status)
	require.Equal(t, "internal", resp.Code)
	require.Contains(t, resp.Message, "index out of range")
}

func TestDispatchHandlerPanicIsolated(t *testing.T) {
	registry := NewRegistry()
	require.NoError(t, registry.Register("PANIC", func(context.Context, map[string]any) (map[string]any, error) {
		panic("editor state corrupted")
	}))
	require.NoError(t, registry.Register("OK", func(context.Context, map[string]any) (map[string]any, error) {
		return map[string]any{"ok": true}, nil
	}))

	resp := Dispatch(context.Background(), registry, bridge.Request{Type: "PANIC"})
	require.Equal(t, bridge.StatusError, resp.Status)
	require.Equal(t, "internal", resp.Code)
	require.Contains(t, resp.Message, "editor state corrupted")

	// A following command still dispatches normally.
	resp = Dispatch(context.Background(), registry, bridge.Request{Type: "OK"})
	require.Equal(t, bridge.StatusSuccess, resp.Status)
}

func TestRegistryDuplicateRegistration(t *testing.T) {
	registry := NewRegistry()
	handler := func(context.Context, map[string]any) (map[string]any, error) { return nil, nil }

	require.NoError(t, registry.Register("PING", handler))
	err := registry.Register("PING", handler)
	require.Error(t, err)
	require.Contains(t, err.Error(), "duplicate")
}

func TestRegistryRejectsEmptyTypeAndNilHandler(t *testing.T) {
	registry := NewRegistry()
	require.Error(t, registry.Register("", func(context.Context, map[string]any) (map[string]any, error) { return nil, nil }))
	require.Error(t, registry.Register("X", nil))
}
