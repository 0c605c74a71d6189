package logger

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want zapcore.Level
	}{
		{"debug", zapcore.DebugLevel},
		{"INFO", zapcore.InfoLevel},
		{"warn", zapcore.WarnLevel},
		{"warning", zapcore.WarnLevel},
		{"error", zapcore.ErrorLevel},
		{"nonsense", zapcore.InfoLevel},
		{"", zapcore.InfoLevel},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseLevel(tt.in))
		})
	}
}

func TestNew_FileOutput(t *testing.T) {
	path := filepath.Join(t.TempDir(), "app.log")
	log := New(Config{Level: "debug", Format: "json", Output: path})
	require.NotNil(t, log)

	log.Debug("hello")
	require.NoError(t, log.Sync())
	assert.FileExists(t, path)
}

func TestNew_Console(t *testing.T) {
	log := New(Config{Level: "warn", Format: "console", Output: "stderr"})
	assert.False(t, log.Core().Enabled(zapcore.InfoLevel))
	assert.True(t, log.Core().Enabled(zapcore.WarnLevel))
}

func TestRedact(t *testing.T) {
	assert.Equal(t, "", Redact(""))
	assert.Equal(t, "****", Redact("abc"))
	assert.Equal(t, "act.****", Redact("act.1234567890"))
	assert.NotContains(t, Redact("act.secretvalue"), "secret")
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", Truncate([]byte("short"), 512))

	long := strings.Repeat("x", 600)
	got := Truncate([]byte(long), 512)
	assert.True(t, strings.HasPrefix(got, strings.Repeat("x", 512)))
	assert.True(t, strings.HasSuffix(got, "...(truncated)"))
	assert.Len(t, got, 512+len("...(truncated)"))
}
