package logging

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigureLevelAndRun(t *testing.T) {
	var buf bytes.Buffer
	Configure(&buf, "warn", "")
	WithRun("run-1")

	Info().Msg("dropped")
	Warn().Str("table", "nostalgia_bin").Msg("kept")

	lines := bytes.Split(bytes.TrimSpace(buf.Bytes()), []byte("\n"))
	require.Len(t, lines, 1)

	var entry map[string]any
	require.NoError(t, json.Unmarshal(lines[0], &entry))
	assert.Equal(t, "warn", entry["level"])
	assert.Equal(t, "kept", entry["message"])
	assert.Equal(t, "run-1", entry["run_id"])
	assert.Equal(t, "nostalgia_bin", entry["table"])
}

func TestConfigureUnknownLevelDefaultsToInfo(t *testing.T) {
	var buf bytes.Buffer
	Configure(&buf, "chatty", "")

	Debug().Msg("hidden")
	Info().Msg("shown")

	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "shown")
}
