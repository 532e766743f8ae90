package app_test

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"gdbridge/internal/app"
)

func TestExecuteVersion(t *testing.T) {
	var stdout, stderr bytes.Buffer
	code := app.Execute(context.Background(), []string{"version"}, &stdout, &stderr)
	require.Equal(t, 0, code)
	require.Contains(t, stdout.String(), "gdbridge ")
}

func TestExecuteUnknownCommand(t *testing.T) {
	var stdout, stderr bytes.Buffer
	code := app.Execute(context.Background(), []string{"frobnicate"}, &stdout, &stderr)
	require.Equal(t, 1, code)
	require.Contains(t, stderr.String(), "error:")
}
