package logging

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewWritesToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "starfolk.log")
	log, err := New(path, "info", false)
	require.NoError(t, err)

	log.Debug("hidden")
	log.Info("visible")
	_ = log.Sync()

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Contains(t, string(data), "visible")
	require.False(t, strings.Contains(string(data), "hidden"))
}

func TestDebugOverridesLevel(t *testing.T) {
	path := filepath.Join(t.TempDir(), "debug.log")
	log, err := New(path, "error", true)
	require.NoError(t, err)
	log.Debug("shown")
	_ = log.Sync()

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Contains(t, string(data), "shown")
}

func TestBadLevel(t *testing.T) {
	_, err := New("", "loud", false)
	require.Error(t, err)
}
