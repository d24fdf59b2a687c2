package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/YunlongChen/stackwatch/pkg/alerts"
	"github.com/YunlongChen/stackwatch/pkg/backup"
	"github.com/YunlongChen/stackwatch/pkg/collector"
	"github.com/YunlongChen/stackwatch/pkg/models"
	"github.com/YunlongChen/stackwatch/pkg/monitor"
)

func newTestManager(t *testing.T, ctrl *gomock.Controller) *monitor.Manager {
	t.Helper()

	mock := collector.NewMockCollector(ctrl)
	mock.EXPECT().Collect(gomock.Any()).Return(models.ComponentMetrics{
		Kind:           models.KindElasticsearch,
		Timestamp:      time.Now(),
		Available:      true,
		ResponseTimeMs: 7,
		Elasticsearch: &models.ElasticsearchMetrics{
			Health: &models.ESClusterHealth{Status: "green"},
		},
	}).AnyTimes()

	return monitor.NewManager([]collector.Collector{mock}, alerts.NewLogSink())
}

func newTestServer(t *testing.T, ctrl *gomock.Controller) (*APIServer, *MockBackupManager, *MockAlertReader, *monitor.Manager) {
	t.Helper()

	backups := NewMockBackupManager(ctrl)
	alertReader := NewMockAlertReader(ctrl)
	manager := newTestManager(t, ctrl)

	defaults := monitor.Config{
		Interval:   time.Hour,
		Thresholds: models.DefaultThresholds(),
	}

	return NewAPIServer(manager, backups, alertReader, defaults, 0, 0), backups, alertReader, manager
}

func runOneIteration(t *testing.T, manager *monitor.Manager) string {
	t.Helper()

	id, runner, err := manager.StartRun(context.Background(), monitor.Config{
		Interval:   time.Hour,
		Thresholds: models.DefaultThresholds(),
	})
	require.NoError(t, err)

	select {
	case <-runner.Done():
	case <-time.After(time.Second):
		t.Fatal("monitoring run did not finish")
	}

	return id
}

func TestGetStatus(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	server, _, _, manager := newTestServer(t, ctrl)
	id := runOneIteration(t, manager)

	rec := httptest.NewRecorder()
	server.Router().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/status", nil))

	require.Equal(t, http.StatusOK, rec.Code)

	var status SystemStatus
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &status))
	require.Contains(t, status.Runs, id)
	assert.Equal(t, monitor.StateCompleted, status.Runs[id].State)
	assert.Equal(t, 1, status.Runs[id].Iterations)
}

func TestGetLatestSnapshot(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	server, _, _, manager := newTestServer(t, ctrl)

	// No run yet.
	rec := httptest.NewRecorder()
	server.Router().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/snapshots/latest", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)

	runOneIteration(t, manager)

	rec = httptest.NewRecorder()
	server.Router().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/snapshots/latest", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var snapshot models.MetricsSnapshot
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &snapshot))
	assert.Equal(t, 1, snapshot.Iteration)
	require.Contains(t, snapshot.Components, models.KindElasticsearch)
}

func TestGetAlerts(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	server, _, alertReader, _ := newTestServer(t, ctrl)

	since := time.Date(2026, 8, 24, 0, 0, 0, 0, time.UTC)

	alertReader.EXPECT().GetAlerts(since).Return([]models.AlertEvent{
		{Component: models.KindKibana, Metric: "availability", Level: models.AlertCritical},
	}, nil)

	rec := httptest.NewRecorder()
	server.Router().ServeHTTP(rec, httptest.NewRequest(http.MethodGet,
		"/api/alerts?since=2026-08-24T00:00:00Z", nil))

	require.Equal(t, http.StatusOK, rec.Code)

	var events []models.AlertEvent
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &events))
	require.Len(t, events, 1)
	assert.Equal(t, "availability", events[0].Metric)
}

func TestGetAlerts_BadSinceParameter(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	server, _, _, _ := newTestServer(t, ctrl)

	rec := httptest.NewRecorder()
	server.Router().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/alerts?since=yesterday", nil))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestMonitorStartAndStop(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	server, _, _, manager := newTestServer(t, ctrl)

	rec := httptest.NewRecorder()
	server.Router().ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/monitor/start",
		strings.NewReader(`{"interval": "1h", "continuous": true}`)))

	require.Equal(t, http.StatusAccepted, rec.Code)

	var started startMonitorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &started))
	require.NotEmpty(t, started.RunID)

	runner, err := manager.Get(started.RunID)
	require.NoError(t, err)

	require.Eventually(t, func() bool {
		return runner.State() == monitor.StateRunning
	}, time.Second, 10*time.Millisecond)

	rec = httptest.NewRecorder()
	server.Router().ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/monitor/stop",
		strings.NewReader(`{"run_id": "`+started.RunID+`"}`)))

	require.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, monitor.StateCancelled, runner.State())
}

func TestServerStopCancelsAPIStartedRuns(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	server, _, _, manager := newTestServer(t, ctrl)

	rec := httptest.NewRecorder()
	server.Router().ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/monitor/start",
		strings.NewReader(`{"interval": "1h", "continuous": true}`)))

	require.Equal(t, http.StatusAccepted, rec.Code)

	var started startMonitorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &started))

	runner, err := manager.Get(started.RunID)
	require.NoError(t, err)

	require.Eventually(t, func() bool {
		return runner.State() == monitor.StateRunning
	}, time.Second, 10*time.Millisecond)

	server.Stop()

	require.Eventually(t, func() bool {
		return runner.State() == monitor.StateCancelled
	}, time.Second, 10*time.Millisecond)
}

func TestMonitorStop_UnknownRun(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	server, _, _, _ := newTestServer(t, ctrl)

	rec := httptest.NewRecorder()
	server.Router().ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/monitor/stop",
		strings.NewReader(`{"run_id": "run-404"}`)))

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCreateBackup_Snapshot(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	server, backups, _, _ := newTestServer(t, ctrl)

	backups.EXPECT().CreateSnapshot(gomock.Any(), "nightly", []string{"logs-1"}).
		Return(&models.BackupMetadata{
			Name:  "nightly",
			Type:  models.BackupSnapshot,
			State: models.SnapshotSuccess,
		}, nil)

	rec := httptest.NewRecorder()
	server.Router().ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/backups",
		strings.NewReader(`{"name": "nightly", "indices": ["logs-1"]}`)))

	require.Equal(t, http.StatusCreated, rec.Code)

	var meta models.BackupMetadata
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &meta))
	assert.Equal(t, models.SnapshotSuccess, meta.State)
}

func TestCreateBackup_FailedSnapshotReturnsMetadata(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	server, backups, _, _ := newTestServer(t, ctrl)

	backups.EXPECT().CreateSnapshot(gomock.Any(), "nightly", gomock.Nil()).
		Return(&models.BackupMetadata{
			Name:  "nightly",
			State: models.SnapshotFailed,
		}, backup.ErrSnapshotFailed)

	rec := httptest.NewRecorder()
	server.Router().ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/backups",
		strings.NewReader(`{"name": "nightly"}`)))

	require.Equal(t, http.StatusInternalServerError, rec.Code)

	var meta models.BackupMetadata
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &meta))
	assert.Equal(t, models.SnapshotFailed, meta.State)
}

func TestVerifyBackup(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	server, backups, _, _ := newTestServer(t, ctrl)

	backups.EXPECT().Verify("config-1").Return([]models.VerifyResult{
		{Path: "/backups/config-1/elasticsearch.yml", OK: true},
		{Path: "/backups/config-1/jvm.options", OK: false, Error: "file is empty"},
	}, nil)

	rec := httptest.NewRecorder()
	server.Router().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/backups/config-1/verify", nil))

	require.Equal(t, http.StatusOK, rec.Code)

	var results []models.VerifyResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &results))
	require.Len(t, results, 2)
	assert.True(t, results[0].OK)
	assert.False(t, results[1].OK)
}

func TestVerifyBackup_NotFound(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	server, backups, _, _ := newTestServer(t, ctrl)

	backups.EXPECT().Verify("missing").Return(nil, backup.ErrManifestNotFound)

	rec := httptest.NewRecorder()
	server.Router().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/backups/missing/verify", nil))

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestRestoreBackup_Forced(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	server, backups, _, _ := newTestServer(t, ctrl)

	backups.EXPECT().Restore(gomock.Any(), "nightly", true).Return(nil)

	rec := httptest.NewRecorder()
	server.Router().ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/backups/nightly/restore",
		strings.NewReader(`{"force": true}`)))

	assert.Equal(t, http.StatusAccepted, rec.Code)
}

func TestGetReport_CSV(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	server, _, alertReader, manager := newTestServer(t, ctrl)
	runOneIteration(t, manager)

	alertReader.EXPECT().GetAlerts(gomock.Any()).Return(nil, nil)

	rec := httptest.NewRecorder()
	server.Router().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/report?format=csv", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/csv", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Body.String(), "elasticsearch")
}

func TestGetReport_UnknownFormat(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	server, _, _, _ := newTestServer(t, ctrl)

	rec := httptest.NewRecorder()
	server.Router().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/report?format=xml", nil))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRateLimiter(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	backups := NewMockBackupManager(ctrl)
	alertReader := NewMockAlertReader(ctrl)
	manager := newTestManager(t, ctrl)

	server := NewAPIServer(manager, backups, alertReader, monitor.Config{Interval: time.Hour}, 1, 1)

	first := httptest.NewRecorder()
	server.Router().ServeHTTP(first, httptest.NewRequest(http.MethodGet, "/api/status", nil))
	assert.Equal(t, http.StatusOK, first.Code)

	second := httptest.NewRecorder()
	server.Router().ServeHTTP(second, httptest.NewRequest(http.MethodGet, "/api/status", nil))
	assert.Equal(t, http.StatusTooManyRequests, second.Code)
}

func TestCORSHeadersOnMatchedRoute(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	server, _, _, _ := newTestServer(t, ctrl)

	rec := httptest.NewRecorder()
	server.Router().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/status", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
}
