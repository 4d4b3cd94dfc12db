package logger

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want LogLevel
		err  bool
	}{
		{"", INFO, false},
		{"debug", DEBUG, false},
		{"Warning", WARN, false},
		{"ERROR", ERROR, false},
		{"verbose", INFO, true},
	}
	for _, tt := range tests {
		got, err := ParseLevel(tt.in)
		if tt.err {
			assert.Error(t, err, tt.in)
			continue
		}
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}
}

func TestFormatFieldsIsSorted(t *testing.T) {
	got := formatFields(map[string]any{"status": 200, "command": "r", "latency": "1ms"})
	assert.Equal(t, "{command=r, latency=1ms, status=200}", got)
}

func TestFileLoggingWritesJSONLines(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bot.log")
	require.NoError(t, EnableFileLogging(path))
	t.Cleanup(DisableFileLogging)

	prev := GetLevel()
	SetLevel(INFO)
	t.Cleanup(func() { SetLevel(prev) })

	DebugC("test", "hidden")
	InfoCF("test", "visible", map[string]any{"k": "v"})

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Len(t, lines, 1)

	var entry LogEntry
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &entry))
	assert.Equal(t, "INFO", entry.Level)
	assert.Equal(t, "test", entry.Component)
	assert.Equal(t, "visible", entry.Message)
	assert.Equal(t, "v", entry.Fields["k"])
}
