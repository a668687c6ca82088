package logger_test

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/rs/zerolog/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tinggo/tinggo/internal/logger"
)

func TestInitWriter_JSON(t *testing.T) {
	var buf bytes.Buffer
	logger.InitWriter(&buf, "tinggo", false)

	log.Debug().Msg("hidden")
	log.Info().Str("user", "ana@example.com").Msg("registered")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry), "only the info line should be written")
	assert.Equal(t, "registered", entry["message"])
	assert.Equal(t, "tinggo", entry["service"])
	assert.Equal(t, "info", entry["level"])
}

func TestInitWriter_DebugConsole(t *testing.T) {
	var buf bytes.Buffer
	logger.InitWriter(&buf, "tinggo", true)

	log.Debug().Msg("visible")
	assert.Contains(t, buf.String(), "visible")
}
