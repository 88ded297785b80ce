package logging_test

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fatoora/internal/config"
	"fatoora/internal/logging"
)

func TestSetup_ParsesLevel(t *testing.T) {
	prev := zerolog.GlobalLevel()
	defer zerolog.SetGlobalLevel(prev)

	err := logging.Setup(&config.LogConfig{Level: "warn", Format: "json"})
	require.NoError(t, err)

	assert.Equal(t, zerolog.WarnLevel, zerolog.GlobalLevel())
}

func TestSetup_InvalidLevel(t *testing.T) {
	err := logging.Setup(&config.LogConfig{Level: "loud", Format: "json"})
	assert.Error(t, err)
}

func TestWithComponent_TagsEvents(t *testing.T) {
	prev := log.Logger
	defer func() { log.Logger = prev }()

	var buf bytes.Buffer
	log.Logger = zerolog.New(&buf)

	srvLog := logging.WithComponent("server")
	srvLog.Info().Str("port", ":8080").Msg("server starting")

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "server", entry["component"])
	assert.Equal(t, ":8080", entry["port"])
	assert.Equal(t, "server starting", entry["message"])
}
