package collector

import (
	"context"
	"log"
	"time"

	"github.com/YunlongChen/stackwatch/pkg/models"
)

const endpointKibanaStatus = "/api/status"

// kibanaStatusResponse mirrors GET /api/status across Kibana generations:
// 7.x reports status.overall.state, 8.x reports status.overall.level.
type kibanaStatusResponse struct {
	Version struct {
		Number string `json:"number"`
	} `json:"version"`
	Status struct {
		Overall struct {
			State string `json:"state"`
			Level string `json:"level"`
		} `json:"overall"`
	} `json:"status"`
}

// KibanaCollector polls the Kibana status API.
type KibanaCollector struct {
	client *HTTPClient
}

// NewKibana creates a collector for a Kibana instance.
func NewKibana(client *HTTPClient) *KibanaCollector {
	return &KibanaCollector{client: client}
}

// Kind implements Collector.
func (*KibanaCollector) Kind() models.ComponentKind {
	return models.KindKibana
}

// Collect implements Collector.
func (c *KibanaCollector) Collect(ctx context.Context) models.ComponentMetrics {
	metrics := models.ComponentMetrics{
		Kind:           models.KindKibana,
		Timestamp:      time.Now(),
		Available:      false,
		ResponseTimeMs: -1,
	}

	var status kibanaStatusResponse

	ms, err := c.client.GetJSON(ctx, endpointKibanaStatus, &status)
	if err != nil {
		log.Printf("DEBUG: kibana status failed: %v", err)
		return metrics
	}

	state := status.Status.Overall.State
	if state == "" {
		state = status.Status.Overall.Level
	}

	metrics.Available = true
	metrics.ResponseTimeMs = ms
	metrics.Kibana = &models.KibanaMetrics{
		OverallState: state,
		Version:      status.Version.Number,
	}

	return metrics
}
