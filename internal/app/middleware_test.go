package app

import (
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMiddlewareStackSkipsRateLimitInTestMode(t *testing.T) {
	t.Setenv(testModeEnv, "0")
	RefreshTestMode()
	t.Cleanup(RefreshTestMode)

	full := MiddlewareStack(MiddlewareConfig{Logger: slog.Default()})

	t.Setenv(testModeEnv, "1")
	RefreshTestMode()
	reduced := MiddlewareStack(MiddlewareConfig{Logger: slog.Default()})

	require.True(t, InTestMode())
	require.Len(t, reduced, len(full)-1)
}

func TestRefreshTestModeTracksEnvironment(t *testing.T) {
	t.Setenv(testModeEnv, "1")
	RefreshTestMode()
	t.Cleanup(RefreshTestMode)
	require.True(t, InTestMode())

	t.Setenv(testModeEnv, "0")
	RefreshTestMode()
	require.False(t, InTestMode())
}
