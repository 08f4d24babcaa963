package utils

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPlainText(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"Plain", "hello world", "hello world"},
		{"ANSI Colors", "\x1b[31mred\x1b[0m text", "red text"},
		{"CRLF", "a\r\nb\rc", "a\nb\nc"},
		{"Keeps Tabs", "a\tb", "a\tb"},
		{"Drops Control Characters", "a\x00b\x07c\x7f", "abc"},
		{"Unicode Survives", "naïve 日本", "naïve 日本"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, PlainText(tt.in))
		})
	}
}

func TestTruncateDisplay(t *testing.T) {
	assert.Equal(t, "short", TruncateDisplay("short", 10))
	assert.Equal(t, "abcd…", TruncateDisplay("abcdefghij", 5))
	assert.Equal(t, "", TruncateDisplay("abc", 0))
	// Wide runes take two cells each.
	assert.LessOrEqual(t, len([]rune(TruncateDisplay("日本語テキスト", 6))), 4)
}

func TestMaxColumnWidth(t *testing.T) {
	assert.Equal(t, 60, MaxColumnWidth(80, 15, 5))
	assert.Equal(t, 10, MaxColumnWidth(20, 15, 5))
}

func TestParseLogLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, ParseLogLevel("DEBUG"))
	assert.Equal(t, slog.LevelWarn, ParseLogLevel("warning"))
	assert.Equal(t, slog.LevelError, ParseLogLevel("error"))
	assert.Equal(t, slog.LevelInfo, ParseLogLevel("nonsense"))
}

func TestNewFileLogger(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "notetabs.log")

	logger, closer, err := NewFileLogger(path, slog.LevelInfo)
	require.NoError(t, err)

	logger.Debug("hidden")
	logger.Info("saved notes", "count", 3)
	require.NoError(t, closer.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, strings.Contains(string(data), "saved notes"))
	assert.False(t, strings.Contains(string(data), "hidden"))
}

func TestEnsureDirs(t *testing.T) {
	root := t.TempDir()
	a := filepath.Join(root, "a", "b")

	require.NoError(t, EnsureDirs(a, ""))
	info, err := os.Stat(a)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}

func TestGetAppDataDir(t *testing.T) {
	t.Setenv("XDG_DATA_HOME", "/tmp/xdg")
	t.Setenv("LOCALAPPDATA", "/tmp/local")

	dir, err := GetAppDataDir()
	require.NoError(t, err)
	assert.Equal(t, AppName, filepath.Base(dir))
}
