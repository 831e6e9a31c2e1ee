package logger_test

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/stock-bot/pkg/logger"
)

func TestNew_EscribeEnSalidaYArchivoConTimestampUTC(t *testing.T) {
	var out bytes.Buffer
	path := filepath.Join(t.TempDir(), "debug.log")

	log := logger.New(logger.Config{Env: "production", Level: "info", File: path, Out: &out})
	log.Info().Str("product", "Hex Lifetime").Msg("stock actualizado")
	require.NoError(t, log.Close())

	assert.Contains(t, out.String(), "stock actualizado")

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Len(t, lines, 1)

	var entry map[string]any
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &entry))
	assert.Equal(t, "stock actualizado", entry["message"])

	ts, err := time.Parse(time.RFC3339Nano, entry["time"].(string))
	require.NoError(t, err)
	_, offset := ts.Zone()
	assert.Zero(t, offset, "timestamp en UTC")
}

func TestNew_ConsolaEnUTCConZonaLocalDistinta(t *testing.T) {
	prev := time.Local
	time.Local = time.FixedZone("COT", -5*60*60)
	t.Cleanup(func() { time.Local = prev })

	var out bytes.Buffer
	log := logger.New(logger.Config{Env: "development", Level: "info", Out: &out})
	log.Info().Msg("hola")

	assert.Regexp(t, regexp.MustCompile(`\d{4}-\d{2}-\d{2}T\d{2}:\d{2}:\d{2}Z`), out.String())
	assert.NotContains(t, out.String(), "-05:00")
}

func TestNew_ArchivoEsAppendOnly(t *testing.T) {
	path := filepath.Join(t.TempDir(), "debug.log")
	require.NoError(t, os.WriteFile(path, []byte("{\"previo\":true}\n"), 0o644))

	log := logger.New(logger.Config{Level: "info", File: path, Out: &bytes.Buffer{}})
	log.Info().Msg("nuevo")
	require.NoError(t, log.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), "{\"previo\":true}\n"))
	assert.Contains(t, string(data), "nuevo")
}

func TestNew_ArchivoInaccesibleNoEsFatal(t *testing.T) {
	var out bytes.Buffer
	path := filepath.Join(t.TempDir(), "no-existe", "debug.log")

	log := logger.New(logger.Config{Level: "info", File: path, Out: &out})
	log.Info().Msg("sigue vivo")

	assert.Contains(t, out.String(), "no se pudo abrir el archivo de log")
	assert.Contains(t, out.String(), "sigue vivo")
}

func TestNew_NivelDebug(t *testing.T) {
	var out bytes.Buffer
	log := logger.New(logger.Config{Level: "warn", Out: &out})
	log.Info().Msg("oculto")
	assert.Empty(t, out.String())

	out.Reset()
	log = logger.New(logger.Config{Level: "debug", Out: &out})
	log.Debug().Msg("visible")
	assert.Contains(t, out.String(), "visible")
}
