package backup

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/YunlongChen/stackwatch/pkg/collector"
	"github.com/YunlongChen/stackwatch/pkg/config"
	"github.com/YunlongChen/stackwatch/pkg/models"
)

func TestMapState(t *testing.T) {
	tests := []struct {
		es   string
		want models.SnapshotState
	}{
		{"SUCCESS", models.SnapshotSuccess},
		{"FAILED", models.SnapshotFailed},
		{"PARTIAL", models.SnapshotPartial},
		{"IN_PROGRESS", models.SnapshotInProgress},
		{"STARTED", models.SnapshotInProgress},
		{"INIT", models.SnapshotPending},
		{"", models.SnapshotPending},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, mapState(tt.es), "state %q", tt.es)
	}
}

func TestESSnapshotClient_WireFormat(t *testing.T) {
	var (
		repoBody     map[string]interface{}
		snapshotPath string
	)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodPut && r.URL.Path == "/_snapshot/repo":
			require.NoError(t, json.NewDecoder(r.Body).Decode(&repoBody))
			_, _ = w.Write([]byte(`{"acknowledged": true}`))
		case r.Method == http.MethodPut && r.URL.Path == "/_snapshot/repo/nightly":
			snapshotPath = r.URL.Path + "?" + r.URL.RawQuery
			_, _ = w.Write([]byte(`{"accepted": true}`))
		case r.Method == http.MethodGet && r.URL.Path == "/_snapshot/repo/nightly":
			_, _ = w.Write([]byte(`{
				"snapshots": [{
					"snapshot": "nightly",
					"state": "FAILED",
					"indices": ["logs-1", "logs-2"],
					"start_time_in_millis": 1756000000000,
					"end_time_in_millis": 1756000042000,
					"failures": [{"reason": "node left"}]
				}]
			}`))
		default:
			http.NotFound(w, r)
		}
	}))
	defer server.Close()

	client := NewESSnapshotClient(collector.NewHTTPClient(config.EndpointConfig{URL: server.URL}))
	ctx := context.Background()

	require.NoError(t, client.EnsureRepository(ctx, "repo", "/var/backups"))
	assert.Equal(t, "fs", repoBody["type"])

	settings, ok := repoBody["settings"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "/var/backups", settings["location"])
	assert.Equal(t, true, settings["compress"])

	require.NoError(t, client.CreateSnapshot(ctx, "repo", "nightly", []string{"logs-1"}))
	assert.Contains(t, snapshotPath, "wait_for_completion=false")

	job, err := client.GetSnapshot(ctx, "repo", "nightly")
	require.NoError(t, err)
	assert.Equal(t, models.SnapshotFailed, job.State)
	assert.Equal(t, []string{"logs-1", "logs-2"}, job.Indices)
	assert.Equal(t, "node left", job.Reason)
	assert.True(t, job.CreatedAt.Equal(time.UnixMilli(1756000000000)))
	assert.True(t, job.CompletedAt.Equal(time.UnixMilli(1756000042000)))
}

func TestESSnapshotClient_MissingSnapshot(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"snapshots": []}`))
	}))
	defer server.Close()

	client := NewESSnapshotClient(collector.NewHTTPClient(config.EndpointConfig{URL: server.URL}))

	_, err := client.GetSnapshot(context.Background(), "repo", "gone")
	assert.ErrorIs(t, err, ErrSnapshotNotFound)
}
