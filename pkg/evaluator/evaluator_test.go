package evaluator

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/YunlongChen/stackwatch/pkg/models"
)

func floatPtr(v float64) *float64 {
	return &v
}

func esMetrics(status string, heapPercent float64, unassigned int) models.ComponentMetrics {
	return models.ComponentMetrics{
		Kind:           models.KindElasticsearch,
		Timestamp:      time.Now(),
		Available:      true,
		ResponseTimeMs: 12,
		Elasticsearch: &models.ElasticsearchMetrics{
			Health: &models.ESClusterHealth{
				Status:           status,
				UnassignedShards: unassigned,
			},
			JVM: &models.ESClusterJVM{
				HeapUsedPercent: heapPercent,
			},
		},
	}
}

func TestEvaluate_Elasticsearch(t *testing.T) {
	thresholds := models.DefaultThresholds()

	tests := []struct {
		name        string
		metrics     models.ComponentMetrics
		wantMetrics []string
		wantLevels  []models.AlertLevel
	}{
		{
			name:    "healthy green cluster produces no alerts",
			metrics: esMetrics("green", 50, 0),
		},
		{
			name:        "red cluster is critical",
			metrics:     esMetrics("red", 50, 0),
			wantMetrics: []string{"cluster_status"},
			wantLevels:  []models.AlertLevel{models.AlertCritical},
		},
		{
			name:        "yellow when green expected is a warning",
			metrics:     esMetrics("yellow", 50, 0),
			wantMetrics: []string{"cluster_status"},
			wantLevels:  []models.AlertLevel{models.AlertWarning},
		},
		{
			name:    "heap exactly at the limit does not breach",
			metrics: esMetrics("green", 85, 0),
		},
		{
			name:        "heap just over the limit breaches",
			metrics:     esMetrics("green", 85.1, 0),
			wantMetrics: []string{"heap_used_percent"},
			wantLevels:  []models.AlertLevel{models.AlertWarning},
		},
		{
			name:        "unassigned shards over zero breach",
			metrics:     esMetrics("green", 50, 3),
			wantMetrics: []string{"unassigned_shards"},
			wantLevels:  []models.AlertLevel{models.AlertWarning},
		},
		{
			name: "unavailable cluster produces no numeric alerts",
			metrics: models.ComponentMetrics{
				Kind:           models.KindElasticsearch,
				Available:      false,
				ResponseTimeMs: -1,
			},
		},
		{
			name: "missing jvm block is never compared",
			metrics: models.ComponentMetrics{
				Kind:      models.KindElasticsearch,
				Available: true,
				Elasticsearch: &models.ElasticsearchMetrics{
					Health: &models.ESClusterHealth{Status: "green"},
				},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			alerts := Evaluate(tt.metrics, thresholds)

			require.Len(t, alerts, len(tt.wantMetrics))

			for i, alert := range alerts {
				assert.Equal(t, tt.wantMetrics[i], alert.Metric)
				assert.Equal(t, tt.wantLevels[i], alert.Level)
				assert.Equal(t, models.KindElasticsearch, alert.Component)
			}
		})
	}
}

func TestEvaluate_KibanaUnreachableIsCritical(t *testing.T) {
	alerts := Evaluate(models.ComponentMetrics{
		Kind:           models.KindKibana,
		Available:      false,
		ResponseTimeMs: -1,
	}, models.DefaultThresholds())

	require.Len(t, alerts, 1)
	assert.Equal(t, "availability", alerts[0].Metric)
	assert.Equal(t, models.AlertCritical, alerts[0].Level)
}

func TestEvaluate_KibanaResponseTime(t *testing.T) {
	thresholds := models.DefaultThresholds()

	tests := []struct {
		name       string
		responseMs int64
		wantAlerts int
	}{
		{"fast response is fine", 500, 0},
		{"exactly at the limit does not breach", 2000, 0},
		{"over the limit breaches", 2001, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			alerts := Evaluate(models.ComponentMetrics{
				Kind:           models.KindKibana,
				Available:      true,
				ResponseTimeMs: tt.responseMs,
				Kibana:         &models.KibanaMetrics{OverallState: "green"},
			}, thresholds)

			assert.Len(t, alerts, tt.wantAlerts)
		})
	}
}

func TestEvaluate_LogstashDistinctThresholds(t *testing.T) {
	// Heap percentage and absolute memory are separate thresholds with
	// separate metric names.
	thresholds := models.DefaultThresholds()

	alerts := Evaluate(models.ComponentMetrics{
		Kind:      models.KindLogstash,
		Available: true,
		Logstash: &models.LogstashMetrics{
			HeapUsedPercent: 90,
			CPUPercent:      10,
			MemoryUsageMb:   2048,
			TotalQueueSize:  100,
		},
	}, thresholds)

	require.Len(t, alerts, 2)

	metrics := []string{alerts[0].Metric, alerts[1].Metric}
	assert.Contains(t, metrics, "heap_used_percent")
	assert.Contains(t, metrics, "memory_usage_mb")
}

func TestEvaluate_SystemPerDiskAlerts(t *testing.T) {
	thresholds := models.DefaultThresholds()

	alerts := Evaluate(models.ComponentMetrics{
		Kind:      models.KindSystem,
		Available: true,
		System: &models.SystemMetrics{
			CPUPercent:        floatPtr(10),
			MemoryUsedPercent: floatPtr(20),
			Disks: []models.DiskUsage{
				{Drive: "/", UsedPercent: 95},
				{Drive: "/data", UsedPercent: 50},
				{Drive: "/var", UsedPercent: 99},
			},
		},
	}, thresholds)

	require.Len(t, alerts, 2)
	assert.Equal(t, "disk_used_percent:/", alerts[0].Metric)
	assert.Equal(t, "disk_used_percent:/var", alerts[1].Metric)
}

func TestEvaluate_PartialThresholdsProduceNoFalseAlerts(t *testing.T) {
	// Only the Elasticsearch limits are set; the zero limits for the other
	// components disable their checks instead of breaching on every value.
	thresholds := models.Thresholds{
		Elasticsearch: models.ESThresholds{
			ExpectedStatus:  "green",
			HeapUsedPercent: 85,
		},
	}

	system := Evaluate(models.ComponentMetrics{
		Kind:      models.KindSystem,
		Available: true,
		System: &models.SystemMetrics{
			CPUPercent:        floatPtr(12),
			MemoryUsedPercent: floatPtr(30),
			Disks: []models.DiskUsage{
				{Drive: "/", UsedPercent: 40},
				{Drive: "/data", UsedPercent: 10},
			},
		},
	}, thresholds)
	assert.Empty(t, system)

	logstash := Evaluate(models.ComponentMetrics{
		Kind:      models.KindLogstash,
		Available: true,
		Logstash:  &models.LogstashMetrics{HeapUsedPercent: 50, CPUPercent: 20},
	}, thresholds)
	assert.Empty(t, logstash)
}

func TestEvaluate_SystemMissingCounterNotCompared(t *testing.T) {
	// A failed CPU read leaves the field nil; only the counters that were
	// actually measured are evaluated.
	alerts := Evaluate(models.ComponentMetrics{
		Kind:      models.KindSystem,
		Available: true,
		System: &models.SystemMetrics{
			MemoryUsedPercent: floatPtr(95),
		},
	}, models.DefaultThresholds())

	require.Len(t, alerts, 1)
	assert.Equal(t, "memory_used_percent", alerts[0].Metric)
}

func TestEvaluateSnapshot_CountsAcrossComponents(t *testing.T) {
	// One full iteration: ES healthy, Kibana fast, Logstash heap high,
	// System CPU high. Exactly two warnings come out.
	thresholds := models.DefaultThresholds()

	snapshot := &models.MetricsSnapshot{
		Timestamp: time.Now(),
		Iteration: 1,
		Components: map[models.ComponentKind]models.ComponentMetrics{
			models.KindElasticsearch: esMetrics("green", 50, 0),
			models.KindKibana: {
				Kind:           models.KindKibana,
				Available:      true,
				ResponseTimeMs: 500,
				Kibana:         &models.KibanaMetrics{OverallState: "green"},
			},
			models.KindLogstash: {
				Kind:      models.KindLogstash,
				Available: true,
				Logstash:  &models.LogstashMetrics{HeapUsedPercent: 90},
			},
			models.KindSystem: {
				Kind:      models.KindSystem,
				Available: true,
				System:    &models.SystemMetrics{CPUPercent: floatPtr(95)},
			},
		},
	}

	alerts := EvaluateSnapshot(snapshot, thresholds)

	require.Len(t, alerts, 2)

	for _, alert := range alerts {
		assert.Equal(t, models.AlertWarning, alert.Level)
	}
}

func TestEvaluate_UnknownKindProducesNothing(t *testing.T) {
	alerts := Evaluate(models.ComponentMetrics{Kind: "redis", Available: true}, models.DefaultThresholds())
	assert.Empty(t, alerts)
}
