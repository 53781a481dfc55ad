package logging

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"

	"github.com/tallen12/Resume-RAG/config"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want zapcore.Level
	}{
		{"debug", zapcore.DebugLevel},
		{"INFO", zapcore.InfoLevel},
		{"warn", zapcore.WarnLevel},
		{"error", zapcore.ErrorLevel},
		{"", zapcore.InfoLevel},
		{"verbose", zapcore.InfoLevel},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseLevel(tt.in))
		})
	}
}

func TestNew_WritesJSONToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "app.log")
	cfg := config.DefaultLogConfig()
	cfg.OutputPaths = []string{path}
	cfg.Level = "warn"

	logger, err := New(cfg)
	require.NoError(t, err)

	logger.Info("hidden")
	logger.Warn("shown")
	require.NoError(t, logger.Sync())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"msg":"shown"`)
	assert.Contains(t, string(data), `"timestamp"`)
	assert.NotContains(t, string(data), "hidden")
}

func TestNew_Console(t *testing.T) {
	cfg := config.DefaultLogConfig()
	cfg.Format = "console"
	cfg.OutputPaths = []string{filepath.Join(t.TempDir(), "console.log")}

	logger, err := New(cfg)
	require.NoError(t, err)
	assert.True(t, logger.Core().Enabled(zapcore.InfoLevel))
	assert.False(t, logger.Core().Enabled(zapcore.DebugLevel))
}

func TestNew_BadOutputPath(t *testing.T) {
	cfg := config.DefaultLogConfig()
	cfg.OutputPaths = []string{filepath.Join(t.TempDir(), "missing", "dir", "app.log")}

	_, err := New(cfg)
	assert.Error(t, err)

	assert.NotNil(t, MustNew(cfg))
}
