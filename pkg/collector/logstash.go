package collector

import (
	"context"
	"log"
	"time"

	"github.com/YunlongChen/stackwatch/pkg/models"
)

const endpointLogstashStats = "/_node/stats"

const bytesPerMb = 1024 * 1024

// logstashStatsResponse mirrors the parts of GET /_node/stats we use.
type logstashStatsResponse struct {
	JVM struct {
		Mem struct {
			HeapUsedPercent float64 `json:"heap_used_percent"`
			HeapUsedInBytes int64   `json:"heap_used_in_bytes"`
		} `json:"mem"`
	} `json:"jvm"`
	Process struct {
		CPU struct {
			Percent float64 `json:"percent"`
		} `json:"cpu"`
	} `json:"process"`
	Events struct {
		In  int64 `json:"in"`
		Out int64 `json:"out"`
	} `json:"events"`
	Pipelines map[string]struct {
		Queue struct {
			EventsCount int64 `json:"events_count"`
		} `json:"queue"`
	} `json:"pipelines"`
}

// LogstashCollector polls the Logstash node stats API.
type LogstashCollector struct {
	client *HTTPClient
}

// NewLogstash creates a collector for a Logstash instance.
func NewLogstash(client *HTTPClient) *LogstashCollector {
	return &LogstashCollector{client: client}
}

// Kind implements Collector.
func (*LogstashCollector) Kind() models.ComponentKind {
	return models.KindLogstash
}

// Collect implements Collector. TotalQueueSize sums queued events across all
// pipelines.
func (c *LogstashCollector) Collect(ctx context.Context) models.ComponentMetrics {
	metrics := models.ComponentMetrics{
		Kind:           models.KindLogstash,
		Timestamp:      time.Now(),
		Available:      false,
		ResponseTimeMs: -1,
	}

	var stats logstashStatsResponse

	ms, err := c.client.GetJSON(ctx, endpointLogstashStats, &stats)
	if err != nil {
		log.Printf("DEBUG: logstash node stats failed: %v", err)
		return metrics
	}

	var queueSize int64
	for _, pipeline := range stats.Pipelines {
		queueSize += pipeline.Queue.EventsCount
	}

	metrics.Available = true
	metrics.ResponseTimeMs = ms
	metrics.Logstash = &models.LogstashMetrics{
		HeapUsedPercent: stats.JVM.Mem.HeapUsedPercent,
		CPUPercent:      stats.Process.CPU.Percent,
		MemoryUsageMb:   float64(stats.JVM.Mem.HeapUsedInBytes) / bytesPerMb,
		EventsIn:        stats.Events.In,
		EventsOut:       stats.Events.Out,
		TotalQueueSize:  queueSize,
	}

	return metrics
}
