package logger

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_JSONWithComponent(t *testing.T) {
	var buf bytes.Buffer
	l := New(Config{Env: "production", Level: "info", Out: &buf}).Component("ledger")

	l.Debug().Msg("oculto")
	l.Info().Str("tray_id", "t1").Msg("stock asignado")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &entry))
	assert.Equal(t, "ledger", entry["component"])
	assert.Equal(t, "t1", entry["tray_id"])
	assert.Equal(t, "stock asignado", entry["message"])
}

func TestParseLevel_Fallback(t *testing.T) {
	assert.Equal(t, "info", parseLevel("").String())
	assert.Equal(t, "info", parseLevel("ruido").String())
	assert.Equal(t, "warn", parseLevel("warn").String())
}
