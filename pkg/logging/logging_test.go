package logging

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCLIMode(t *testing.T) {
	var buf bytes.Buffer
	InitForCLI(LevelInfo, &buf)

	Debug("Network", "hidden %d", 1)
	Info("Network", "created %s", "network")
	Error("Network", errors.New("exit status 1"), "failed")

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, "msg=\"created network\"")
	assert.Contains(t, out, "subsystem=Network")
	assert.Contains(t, out, "error=\"exit status 1\"")
}

func TestTUIMode(t *testing.T) {
	var buf bytes.Buffer
	InitForCLI(LevelInfo, &buf)

	ch := InitForTUI(LevelWarn)
	Info("Network", "filtered")
	Warn("Network", "settle delay %s", "1s")
	LeaveTUI()

	var entries []LogEntry
	for e := range ch {
		entries = append(entries, e)
	}
	require.Len(t, entries, 1)
	assert.Equal(t, LevelWarn, entries[0].Level)
	assert.Equal(t, "settle delay 1s", entries[0].Message)
	assert.Empty(t, buf.String(), "TUI mode must not write to the CLI handler")

	Info("Network", "back to cli")
	assert.Contains(t, buf.String(), "back to cli")
}

func TestLogLevelString(t *testing.T) {
	assert.Equal(t, "DEBUG", LevelDebug.String())
	assert.Equal(t, "ERROR", LevelError.String())
	assert.Equal(t, "UNKNOWN", LogLevel(42).String())
}
