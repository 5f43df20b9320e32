package common

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetupLogger_JSON(t *testing.T) {
	var buf bytes.Buffer
	log := SetupLogger(&LoggingOpts{
		JSON:    true,
		Service: "registry",
		Version: "v1.2.3",
		Output:  &buf,
	})

	log.Info("hello", "cert_id", "CERT-1")
	log.Debug("hidden")

	lines := bytes.Split(bytes.TrimSpace(buf.Bytes()), []byte("\n"))
	require.Len(t, lines, 1)

	var entry map[string]any
	require.NoError(t, json.Unmarshal(lines[0], &entry))
	assert.Equal(t, "hello", entry["msg"])
	assert.Equal(t, "registry", entry["service"])
	assert.Equal(t, "v1.2.3", entry["version"])
	assert.Equal(t, "CERT-1", entry["cert_id"])
}

func TestSetupLogger_DebugText(t *testing.T) {
	var buf bytes.Buffer
	log := SetupLogger(&LoggingOpts{Debug: true, Output: &buf})

	log.Debug("visible")
	assert.Contains(t, buf.String(), "visible")
}
