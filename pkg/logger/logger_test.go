package logger_test

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/vendafacil-api/pkg/logger"
)

func TestNew_JSONConServicioYComponente(t *testing.T) {
	var buf bytes.Buffer
	log := logger.New(logger.Config{Env: "production", Level: "info", Service: "vendafacil-api", Output: &buf})

	log.Component("fiscal").Info().Str("sale_id", "s1").Msg("documento fiscal emitido")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "vendafacil-api", entry["service"])
	assert.Equal(t, "fiscal", entry["component"])
	assert.Equal(t, "s1", entry["sale_id"])
	assert.Equal(t, "info", entry["level"])
}

func TestNew_FiltraPorNivel(t *testing.T) {
	var buf bytes.Buffer
	log := logger.New(logger.Config{Env: "production", Level: "warn", Output: &buf})

	log.Info().Msg("descartado")
	assert.Zero(t, buf.Len())

	log.Warn().Msg("registrado")
	assert.Contains(t, buf.String(), "registrado")
}
