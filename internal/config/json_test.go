package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseJSON_Success(t *testing.T) {
	// Arrange
	dir := t.TempDir()
	p := filepath.Join(dir, "config.json")

	jsonBody := `{
		"storage": {
			"container_dir": "/shared",
			"kv_dsn": "/shared/kv.db"
		},
		"signal": { "dir": "/shared/sig" },
		"adapter": {
			"remote_url": "https://example.supabase.co",
			"api_key": "anon",
			"token_file": "/tmp/token",
			"request_timeout": "3s"
		},
		"workers": { "refresh_interval": "10m" }
	}`
	require.NoError(t, os.WriteFile(p, []byte(jsonBody), 0o600))

	// Act
	cfg, err := parseJSON(p)

	// Assert
	require.NoError(t, err)
	require.NotNil(t, cfg)

	assert.Equal(t, "/shared", cfg.Storage.ContainerDir)
	assert.Equal(t, "/shared/kv.db", cfg.Storage.KVDSN)
	assert.Equal(t, "/shared/sig", cfg.Signal.Dir)
	assert.Equal(t, "https://example.supabase.co", cfg.Adapter.RemoteURL)
	assert.Equal(t, "anon", cfg.Adapter.APIKey)
	assert.Equal(t, "/tmp/token", cfg.Adapter.TokenFile)
	assert.Equal(t, 3*time.Second, cfg.Adapter.RequestTimeout)
	assert.Equal(t, 10*time.Minute, cfg.Workers.RefreshInterval)
	assert.Empty(t, cfg.JSONFilePath)
}

func TestParseJSON_FileNotFound(t *testing.T) {
	cfg, err := parseJSON(filepath.Join(t.TempDir(), "missing.json"))
	require.Error(t, err)
	assert.Nil(t, cfg)
	assert.Contains(t, err.Error(), "error reading a json file")
}

func TestParseJSON_BadDuration(t *testing.T) {
	p := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(p, []byte(`{"workers":{"refresh_interval":"often"}}`), 0o600))

	_, err := parseJSON(p)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "error decoding json configs")
}

func TestDuration_UnmarshalJSON(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want time.Duration
	}{
		{name: "string", in: `"1m30s"`, want: 90 * time.Second},
		{name: "nanoseconds", in: `1000`, want: time.Microsecond},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var d Duration
			require.NoError(t, json.Unmarshal([]byte(tt.in), &d))
			assert.Equal(t, tt.want, time.Duration(d))
		})
	}
}

func TestDuration_MarshalJSON(t *testing.T) {
	data, err := json.Marshal(Duration(5 * time.Second))
	require.NoError(t, err)
	assert.Equal(t, `"5s"`, string(data))
}
