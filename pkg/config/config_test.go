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

func writeConfig(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "stackwatch.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	return path
}

func TestLoadAndValidate_FullConfig(t *testing.T) {
	path := writeConfig(t, `{
		"db_path": "/var/lib/stackwatch/stackwatch.db",
		"endpoints": {
			"elasticsearch": {"url": "http://localhost:9200", "username": "elastic", "password": "x", "timeout": "10s"},
			"kibana": {"url": "http://localhost:5601"},
			"logstash": {"url": "http://localhost:9600"}
		},
		"monitor": {"interval": "30s", "duration": "5m", "buffer_size": 200},
		"thresholds": {
			"elasticsearch": {"expected_status": "green", "heap_used_percent": 80, "unassigned_shards": 0},
			"kibana": {"response_time_ms": 1500},
			"logstash": {"heap_used_percent": 85, "cpu_percent": 80, "memory_usage_mb": 1024, "total_queue_size": 10000},
			"system": {"cpu_percent": 90, "memory_used_percent": 90, "disk_used_percent": 85}
		},
		"backup": {"repository": "stackwatch-repo", "repository_path": "/var/backups/es", "backup_dir": "/var/backups/config"},
		"alerting": {"retention": "168h"},
		"api": {"listen_addr": ":8090", "rate_limit": 50, "rate_burst": 100}
	}`)

	cfg := &Config{}
	require.NoError(t, LoadAndValidate(path, cfg))

	assert.Equal(t, "http://localhost:9200", cfg.Endpoints.Elasticsearch.URL)
	assert.Equal(t, Duration(10*time.Second), cfg.Endpoints.Elasticsearch.Timeout)
	assert.Equal(t, Duration(30*time.Second), cfg.Monitor.Interval)
	assert.Equal(t, Duration(5*time.Minute), cfg.Monitor.Duration)
	assert.Equal(t, 200, cfg.Monitor.BufferSize)

	require.NotNil(t, cfg.Thresholds)
	assert.InDelta(t, 80, cfg.Thresholds.Elasticsearch.HeapUsedPercent, 0.001)
	assert.InDelta(t, 1500, cfg.Thresholds.Kibana.ResponseTimeMs, 0.001)

	assert.Equal(t, Duration(7*24*time.Hour), cfg.Alerting.Retention)
	assert.Equal(t, ":8090", cfg.API.ListenAddr)
}

func TestValidate_FillsDefaults(t *testing.T) {
	cfg := &Config{
		Endpoints: EndpointsConfig{
			Elasticsearch: EndpointConfig{URL: "http://localhost:9200"},
		},
		API: APIConfig{ListenAddr: ":8090"},
	}

	require.NoError(t, cfg.Validate())

	assert.Equal(t, Duration(60*time.Second), cfg.Monitor.Interval)
	assert.Equal(t, Duration(30*time.Second), cfg.Monitor.RequestTimeout)
	assert.Equal(t, 1000, cfg.Monitor.BufferSize)
	assert.Equal(t, Duration(5*time.Second), cfg.Backup.PollInterval)
	assert.Equal(t, Duration(30*24*time.Hour), cfg.Alerting.Retention)

	// Missing thresholds fall back to defaults instead of failing.
	require.NotNil(t, cfg.Thresholds)
	assert.Equal(t, "green", cfg.Thresholds.Elasticsearch.ExpectedStatus)
	assert.InDelta(t, 85, cfg.Thresholds.Elasticsearch.HeapUsedPercent, 0.001)
}

func TestValidate_PartialThresholdsKeepDefaults(t *testing.T) {
	path := writeConfig(t, `{
		"endpoints": {"elasticsearch": {"url": "http://localhost:9200"}},
		"thresholds": {
			"elasticsearch": {"expected_status": "green", "heap_used_percent": 80}
		},
		"api": {"listen_addr": ":8090"}
	}`)

	cfg := &Config{}
	require.NoError(t, LoadAndValidate(path, cfg))

	require.NotNil(t, cfg.Thresholds)

	// Configured block is kept.
	assert.InDelta(t, 80, cfg.Thresholds.Elasticsearch.HeapUsedPercent, 0.001)

	// Omitted blocks get defaults instead of zero limits that would either
	// disable every check or breach on every healthy value.
	assert.InDelta(t, 2000, cfg.Thresholds.Kibana.ResponseTimeMs, 0.001)
	assert.InDelta(t, 90, cfg.Thresholds.System.CPUPercent, 0.001)
	assert.InDelta(t, 85, cfg.Thresholds.Logstash.HeapUsedPercent, 0.001)
}

func TestValidate_RequiredFields(t *testing.T) {
	tests := []struct {
		name string
		cfg  Config
	}{
		{
			name: "missing elasticsearch url",
			cfg:  Config{API: APIConfig{ListenAddr: ":8090"}},
		},
		{
			name: "missing listen addr",
			cfg: Config{Endpoints: EndpointsConfig{
				Elasticsearch: EndpointConfig{URL: "http://localhost:9200"},
			}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Error(t, tt.cfg.Validate())
		})
	}
}

func TestDuration_UnmarshalJSON(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    time.Duration
		wantErr bool
	}{
		{"string form", `"90s"`, 90 * time.Second, false},
		{"numeric nanoseconds", `60000000000`, time.Minute, false},
		{"bad string", `"ninety seconds"`, 0, true},
		{"bad type", `true`, 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var d Duration

			err := json.Unmarshal([]byte(tt.input), &d)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, Duration(tt.want), d)
		})
	}
}

func TestDuration_MarshalRoundTrip(t *testing.T) {
	d := Duration(150 * time.Second)

	data, err := json.Marshal(d)
	require.NoError(t, err)
	assert.Equal(t, `"2m30s"`, string(data))
}

func TestLoadFile_MissingFile(t *testing.T) {
	cfg := &Config{}

	err := LoadAndValidate(filepath.Join(t.TempDir(), "absent.json"), cfg)
	assert.Error(t, err)
}
