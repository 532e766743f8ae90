package tools

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/viant/mcp-protocol/schema"

	"gdbridge/internal/bridge"
)

func TestFinishWrapsTextContent(t *testing.T) {
	result, jerr := finish("done", nil)
	require.Nil(t, jerr)
	require.Nil(t, result.IsError)

	text, ok := result.Content[0].(schema.TextContent)
	require.True(t, ok, "content element is %T, want schema.TextContent", result.Content[0])
	require.Equal(t, "text", text.Type)
	require.Equal(t, "done", text.Text)
}

func TestFinishTurnsSendErrorsIntoErrorResults(t *testing.T) {
	result, jerr := finish("", fmt.Errorf("%w: dial tcp", bridge.ErrConnection))
	require.Nil(t, jerr)
	require.NotNil(t, result.IsError)
	require.True(t, *result.IsError)

	text, ok := result.Content[0].(schema.TextContent)
	require.True(t, ok)
	require.Contains(t, text.Text, "Could not reach the Godot editor")
}
