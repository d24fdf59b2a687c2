package models

import "time"

// AlertLevel is the severity attached to a threshold breach.
type AlertLevel string

const (
	AlertWarning  AlertLevel = "WARNING"
	AlertCritical AlertLevel = "CRITICAL"
)

// AlertEvent records a single threshold breach. Events are immutable once
// created and appended to an append-only log; only time-based retention
// cleanup removes them.
type AlertEvent struct {
	Timestamp time.Time     `json:"timestamp"`
	Component ComponentKind `json:"component"`
	Metric    string        `json:"metric"`
	Level     AlertLevel    `json:"level"`
	Message   string        `json:"message"`
	Value     float64       `json:"value"`
	Threshold float64       `json:"threshold"`
}

// Thresholds holds the per-component limits the evaluator compares against.
// All comparisons are strict greater-than; a value exactly at the limit does
// not breach. A zero limit disables its check, except UnassignedShards where
// the default of zero means any unassigned shard warns. Loaded once at
// startup and immutable during a monitoring run.
type Thresholds struct {
	Elasticsearch ESThresholds       `json:"elasticsearch"`
	Kibana        KibanaThresholds   `json:"kibana"`
	Logstash      LogstashThresholds `json:"logstash"`
	System        SystemThresholds   `json:"system"`
}

// ESThresholds limits Elasticsearch metrics. ExpectedStatus is the cluster
// status that does not warn; yellow below it warns, red is always critical.
type ESThresholds struct {
	ExpectedStatus   string  `json:"expected_status"`
	HeapUsedPercent  float64 `json:"heap_used_percent"`
	UnassignedShards float64 `json:"unassigned_shards"`
}

// KibanaThresholds limits Kibana metrics.
type KibanaThresholds struct {
	ResponseTimeMs float64 `json:"response_time_ms"`
}

// LogstashThresholds limits Logstash metrics. Heap percent and memory MB are
// deliberately separate, correctly named limits.
type LogstashThresholds struct {
	HeapUsedPercent float64 `json:"heap_used_percent"`
	CPUPercent      float64 `json:"cpu_percent"`
	MemoryUsageMb   float64 `json:"memory_usage_mb"`
	TotalQueueSize  float64 `json:"total_queue_size"`
}

// SystemThresholds limits host OS metrics.
type SystemThresholds struct {
	CPUPercent        float64 `json:"cpu_percent"`
	MemoryUsedPercent float64 `json:"memory_used_percent"`
	DiskUsedPercent   float64 `json:"disk_used_percent"`
}

// FillDefaults replaces zero-valued component blocks with the documented
// defaults. A configuration that sets thresholds for only some components
// keeps the defaults for the rest instead of zeroing them out.
func (t *Thresholds) FillDefaults() {
	defaults := DefaultThresholds()

	if t.Elasticsearch == (ESThresholds{}) {
		t.Elasticsearch = defaults.Elasticsearch
	}

	if t.Kibana == (KibanaThresholds{}) {
		t.Kibana = defaults.Kibana
	}

	if t.Logstash == (LogstashThresholds{}) {
		t.Logstash = defaults.Logstash
	}

	if t.System == (SystemThresholds{}) {
		t.System = defaults.System
	}
}

// DefaultThresholds returns the documented fallback limits used when the
// configuration omits or fails to parse a thresholds section.
func DefaultThresholds() Thresholds {
	return Thresholds{
		Elasticsearch: ESThresholds{
			ExpectedStatus:   "green",
			HeapUsedPercent:  85,
			UnassignedShards: 0,
		},
		Kibana: KibanaThresholds{
			ResponseTimeMs: 2000,
		},
		Logstash: LogstashThresholds{
			HeapUsedPercent: 85,
			CPUPercent:      80,
			MemoryUsageMb:   1024,
			TotalQueueSize:  10000,
		},
		System: SystemThresholds{
			CPUPercent:        90,
			MemoryUsedPercent: 90,
			DiskUsedPercent:   85,
		},
	}
}
