// Package models pkg/models/metrics.go
package models

import "time"

// ComponentKind identifies a monitored stack component.
type ComponentKind string

const (
	KindElasticsearch ComponentKind = "elasticsearch"
	KindKibana        ComponentKind = "kibana"
	KindLogstash      ComponentKind = "logstash"
	KindSystem        ComponentKind = "system"
)

// AllKinds lists every supported component kind in collection order.
func AllKinds() []ComponentKind {
	return []ComponentKind{KindElasticsearch, KindKibana, KindLogstash, KindSystem}
}

// ComponentMetrics is one component's measurement from a single collection.
// Exactly one of the kind-specific blocks is non-nil when Available is true;
// all blocks are nil when Available is false (zero is a valid measurement,
// never an error sentinel).
type ComponentMetrics struct {
	Kind           ComponentKind         `json:"kind"`
	Timestamp      time.Time             `json:"timestamp"`
	Available      bool                  `json:"available"`
	ResponseTimeMs int64                 `json:"response_time_ms"` // -1 when the request failed
	Elasticsearch  *ElasticsearchMetrics `json:"elasticsearch,omitempty"`
	Kibana         *KibanaMetrics        `json:"kibana,omitempty"`
	Logstash       *LogstashMetrics      `json:"logstash,omitempty"`
	System         *SystemMetrics        `json:"system,omitempty"`
}

// ElasticsearchMetrics merges the three cluster endpoints. Each sub-block is
// nil when its source call failed; the others remain usable.
type ElasticsearchMetrics struct {
	Health *ESClusterHealth `json:"health,omitempty"`
	Stats  *ESClusterStats  `json:"stats,omitempty"`
	JVM    *ESClusterJVM    `json:"jvm,omitempty"`
}

// ESClusterHealth holds fields from GET /_cluster/health.
type ESClusterHealth struct {
	Status             string `json:"status"` // green | yellow | red
	NodeCount          int    `json:"node_count"`
	ActiveShards       int    `json:"active_shards"`
	RelocatingShards   int    `json:"relocating_shards"`
	InitializingShards int    `json:"initializing_shards"`
	UnassignedShards   int    `json:"unassigned_shards"`
}

// ESClusterStats holds fields from GET /_cluster/stats.
type ESClusterStats struct {
	IndicesCount   int   `json:"indices_count"`
	DocsCount      int64 `json:"docs_count"`
	StoreSizeBytes int64 `json:"store_size_bytes"`
}

// ESClusterJVM holds heap usage aggregated from GET /_nodes/stats.
// HeapUsedPercent is capacity-weighted: sum of used bytes over sum of max
// bytes across all nodes, not an average of per-node percentages.
type ESClusterJVM struct {
	HeapUsedBytes   int64   `json:"heap_used_bytes"`
	HeapMaxBytes    int64   `json:"heap_max_bytes"`
	HeapUsedPercent float64 `json:"heap_used_percent"`
}

// KibanaMetrics holds fields from GET /api/status.
type KibanaMetrics struct {
	OverallState string `json:"overall_state"`
	Version      string `json:"version,omitempty"`
}

// LogstashMetrics holds fields from GET /_node/stats.
type LogstashMetrics struct {
	HeapUsedPercent float64 `json:"heap_used_percent"`
	CPUPercent      float64 `json:"cpu_percent"`
	MemoryUsageMb   float64 `json:"memory_usage_mb"`
	EventsIn        int64   `json:"events_in"`
	EventsOut       int64   `json:"events_out"`
	TotalQueueSize  int64   `json:"total_queue_size"`
}

// SystemMetrics holds host OS counters. Each counter is nil when its read
// failed, mirroring the Elasticsearch sub-blocks; a failed read is never
// recorded as a zero measurement.
type SystemMetrics struct {
	CPUPercent        *float64    `json:"cpu_percent,omitempty"`
	MemoryUsedPercent *float64    `json:"memory_used_percent,omitempty"`
	Disks             []DiskUsage `json:"disks,omitempty"`
}

// DiskUsage is one mounted filesystem's utilisation.
type DiskUsage struct {
	Drive       string  `json:"drive"`
	UsedPercent float64 `json:"used_percent"`
	TotalBytes  uint64  `json:"total_bytes"`
	FreeBytes   uint64  `json:"free_bytes"`
}

// MetricsSnapshot is one monitoring iteration's view across all components.
type MetricsSnapshot struct {
	Timestamp  time.Time                          `json:"timestamp"`
	Iteration  int                                `json:"iteration"`
	Components map[ComponentKind]ComponentMetrics `json:"components"`
}

// Healthy reports whether every component in the snapshot was reachable.
func (s *MetricsSnapshot) Healthy() bool {
	for _, m := range s.Components {
		if !m.Available {
			return false
		}
	}

	return true
}
