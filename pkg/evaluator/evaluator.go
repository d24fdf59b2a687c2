// Package evaluator compares collected metrics against configured thresholds
// and produces alert events. Evaluation is a pure function: no I/O, no state.
package evaluator

import (
	"fmt"
	"time"

	"github.com/YunlongChen/stackwatch/pkg/models"
)

// Evaluate returns one alert per breached threshold. All comparisons are
// strict greater-than; a value exactly at the limit does not breach. A zero
// threshold disables its check, with the single exception of unassigned
// shards where the zero default means any unassigned shard warns. Metrics
// with Available=false produce a single CRITICAL unreachable alert for Kibana
// and no alerts otherwise (absent fields are never compared, so an outage
// cannot produce false numeric breaches).
func Evaluate(metrics models.ComponentMetrics, thresholds models.Thresholds) []models.AlertEvent {
	switch metrics.Kind {
	case models.KindElasticsearch:
		return evaluateElasticsearch(metrics, thresholds.Elasticsearch)
	case models.KindKibana:
		return evaluateKibana(metrics, thresholds.Kibana)
	case models.KindLogstash:
		return evaluateLogstash(metrics, thresholds.Logstash)
	case models.KindSystem:
		return evaluateSystem(metrics, thresholds.System)
	default:
		return nil
	}
}

// EvaluateSnapshot runs Evaluate over every component in the snapshot.
func EvaluateSnapshot(snapshot *models.MetricsSnapshot, thresholds models.Thresholds) []models.AlertEvent {
	var alerts []models.AlertEvent

	for _, kind := range models.AllKinds() {
		metrics, ok := snapshot.Components[kind]
		if !ok {
			continue
		}

		alerts = append(alerts, Evaluate(metrics, thresholds)...)
	}

	return alerts
}

func newAlert(m models.ComponentMetrics, metric string, level models.AlertLevel, msg string, value, threshold float64) models.AlertEvent {
	ts := m.Timestamp
	if ts.IsZero() {
		ts = time.Now()
	}

	return models.AlertEvent{
		Timestamp: ts,
		Component: m.Kind,
		Metric:    metric,
		Level:     level,
		Message:   msg,
		Value:     value,
		Threshold: threshold,
	}
}

func evaluateElasticsearch(m models.ComponentMetrics, t models.ESThresholds) []models.AlertEvent {
	if !m.Available || m.Elasticsearch == nil {
		return nil
	}

	var alerts []models.AlertEvent

	if health := m.Elasticsearch.Health; health != nil {
		switch health.Status {
		case "red":
			alerts = append(alerts, newAlert(m, "cluster_status", models.AlertCritical,
				"elasticsearch cluster status is red", 0, 0))
		case "yellow":
			if t.ExpectedStatus == "green" {
				alerts = append(alerts, newAlert(m, "cluster_status", models.AlertWarning,
					"elasticsearch cluster status is yellow, expected green", 0, 0))
			}
		}

		if float64(health.UnassignedShards) > t.UnassignedShards {
			alerts = append(alerts, newAlert(m, "unassigned_shards", models.AlertWarning,
				fmt.Sprintf("%d unassigned shards", health.UnassignedShards),
				float64(health.UnassignedShards), t.UnassignedShards))
		}
	}

	if jvm := m.Elasticsearch.JVM; jvm != nil {
		if t.HeapUsedPercent > 0 && jvm.HeapUsedPercent > t.HeapUsedPercent {
			alerts = append(alerts, newAlert(m, "heap_used_percent", models.AlertWarning,
				fmt.Sprintf("elasticsearch heap usage %.1f%% exceeds %.1f%%", jvm.HeapUsedPercent, t.HeapUsedPercent),
				jvm.HeapUsedPercent, t.HeapUsedPercent))
		}
	}

	return alerts
}

func evaluateKibana(m models.ComponentMetrics, t models.KibanaThresholds) []models.AlertEvent {
	if !m.Available {
		return []models.AlertEvent{newAlert(m, "availability", models.AlertCritical,
			"kibana is unreachable", 0, 0)}
	}

	var alerts []models.AlertEvent

	if t.ResponseTimeMs > 0 && float64(m.ResponseTimeMs) > t.ResponseTimeMs {
		alerts = append(alerts, newAlert(m, "response_time_ms", models.AlertWarning,
			fmt.Sprintf("kibana response time %dms exceeds %.0fms", m.ResponseTimeMs, t.ResponseTimeMs),
			float64(m.ResponseTimeMs), t.ResponseTimeMs))
	}

	return alerts
}

func evaluateLogstash(m models.ComponentMetrics, t models.LogstashThresholds) []models.AlertEvent {
	if !m.Available || m.Logstash == nil {
		return nil
	}

	ls := m.Logstash

	var alerts []models.AlertEvent

	if t.HeapUsedPercent > 0 && ls.HeapUsedPercent > t.HeapUsedPercent {
		alerts = append(alerts, newAlert(m, "heap_used_percent", models.AlertWarning,
			fmt.Sprintf("logstash heap usage %.1f%% exceeds %.1f%%", ls.HeapUsedPercent, t.HeapUsedPercent),
			ls.HeapUsedPercent, t.HeapUsedPercent))
	}

	if t.CPUPercent > 0 && ls.CPUPercent > t.CPUPercent {
		alerts = append(alerts, newAlert(m, "cpu_percent", models.AlertWarning,
			fmt.Sprintf("logstash cpu usage %.1f%% exceeds %.1f%%", ls.CPUPercent, t.CPUPercent),
			ls.CPUPercent, t.CPUPercent))
	}

	if t.MemoryUsageMb > 0 && ls.MemoryUsageMb > t.MemoryUsageMb {
		alerts = append(alerts, newAlert(m, "memory_usage_mb", models.AlertWarning,
			fmt.Sprintf("logstash memory usage %.0fMB exceeds %.0fMB", ls.MemoryUsageMb, t.MemoryUsageMb),
			ls.MemoryUsageMb, t.MemoryUsageMb))
	}

	if t.TotalQueueSize > 0 && float64(ls.TotalQueueSize) > t.TotalQueueSize {
		alerts = append(alerts, newAlert(m, "total_queue_size", models.AlertWarning,
			fmt.Sprintf("logstash queue backlog %d events exceeds %.0f", ls.TotalQueueSize, t.TotalQueueSize),
			float64(ls.TotalQueueSize), t.TotalQueueSize))
	}

	return alerts
}

func evaluateSystem(m models.ComponentMetrics, t models.SystemThresholds) []models.AlertEvent {
	if !m.Available || m.System == nil {
		return nil
	}

	sys := m.System

	var alerts []models.AlertEvent

	if t.CPUPercent > 0 && sys.CPUPercent != nil && *sys.CPUPercent > t.CPUPercent {
		alerts = append(alerts, newAlert(m, "cpu_percent", models.AlertWarning,
			fmt.Sprintf("system cpu usage %.1f%% exceeds %.1f%%", *sys.CPUPercent, t.CPUPercent),
			*sys.CPUPercent, t.CPUPercent))
	}

	if t.MemoryUsedPercent > 0 && sys.MemoryUsedPercent != nil && *sys.MemoryUsedPercent > t.MemoryUsedPercent {
		alerts = append(alerts, newAlert(m, "memory_used_percent", models.AlertWarning,
			fmt.Sprintf("system memory usage %.1f%% exceeds %.1f%%", *sys.MemoryUsedPercent, t.MemoryUsedPercent),
			*sys.MemoryUsedPercent, t.MemoryUsedPercent))
	}

	// One alert per offending disk.
	for _, d := range sys.Disks {
		if t.DiskUsedPercent > 0 && d.UsedPercent > t.DiskUsedPercent {
			alerts = append(alerts, newAlert(m, "disk_used_percent:"+d.Drive, models.AlertWarning,
				fmt.Sprintf("disk %s usage %.1f%% exceeds %.1f%%", d.Drive, d.UsedPercent, t.DiskUsedPercent),
				d.UsedPercent, t.DiskUsedPercent))
		}
	}

	return alerts
}
