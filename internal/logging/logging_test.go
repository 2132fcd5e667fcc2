package logging

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComponentLogger(t *testing.T) {
	var buf bytes.Buffer
	l := newLogger(&buf, zerolog.DebugLevel).With().Str("component", "scheduler").Logger()

	l.Info().Int("bpm", 72).Msg("rate published")

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "scheduler", entry["component"])
	assert.Equal(t, "rate published", entry["message"])
	assert.EqualValues(t, 72, entry["bpm"])
	assert.Contains(t, entry, "time")
}

func TestSetLevel(t *testing.T) {
	prev := zerolog.GlobalLevel()
	defer zerolog.SetGlobalLevel(prev)

	require.NoError(t, SetLevel("debug"))
	assert.Equal(t, zerolog.DebugLevel, GetDefaultLogger().GetLevel())

	assert.Error(t, SetLevel("loud"))
	assert.Equal(t, zerolog.DebugLevel, GetDefaultLogger().GetLevel())
}

func TestApplyLevelKeepsLevelOnUnknown(t *testing.T) {
	prev := zerolog.GlobalLevel()
	defer zerolog.SetGlobalLevel(prev)

	ApplyLevel("warn")
	assert.Equal(t, zerolog.WarnLevel, GetDefaultLogger().GetLevel())

	ApplyLevel("verbose")
	assert.Equal(t, zerolog.WarnLevel, GetDefaultLogger().GetLevel())
}
