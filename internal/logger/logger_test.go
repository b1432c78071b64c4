package logger_test

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/ostafen/rescue/internal/logger"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	require.Equal(t, slog.LevelDebug, logger.ParseLevel("debug"))
	require.Equal(t, slog.LevelWarn, logger.ParseLevel("WARN"))
	require.Equal(t, slog.LevelError, logger.ParseLevel("ERROR"))
	require.Equal(t, slog.LevelInfo, logger.ParseLevel("bogus"))
}

func TestNewWritesJSONWhenNotATerminal(t *testing.T) {
	var buf bytes.Buffer

	log := logger.New(&buf, slog.LevelInfo)
	log.Debug("hidden")
	log.Info("fragment written", "id", 7)

	var rec map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &rec))
	require.Equal(t, "fragment written", rec["msg"])
	require.EqualValues(t, 7, rec["id"])
}

func TestNewFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scan.log")

	log, f, err := logger.NewFile(path, slog.LevelDebug)
	require.NoError(t, err)
	log.Debug("header-found", "ext", "jpg")
	require.NoError(t, f.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Contains(t, string(data), "header-found")
	require.Contains(t, string(data), "ext=jpg")
}
