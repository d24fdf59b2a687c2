package collector

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/YunlongChen/stackwatch/pkg/models"
)

const (
	endpointClusterHealth = "/_cluster/health"
	endpointClusterStats  = "/_cluster/stats"
	endpointNodeStats     = "/_nodes/stats/jvm"
)

// esClusterHealthResponse mirrors GET /_cluster/health.
type esClusterHealthResponse struct {
	ClusterName        string `json:"cluster_name"`
	Status             string `json:"status"`
	NumberOfNodes      int    `json:"number_of_nodes"`
	ActiveShards       int    `json:"active_shards"`
	RelocatingShards   int    `json:"relocating_shards"`
	InitializingShards int    `json:"initializing_shards"`
	UnassignedShards   int    `json:"unassigned_shards"`
}

// esClusterStatsResponse mirrors the parts of GET /_cluster/stats we use.
type esClusterStatsResponse struct {
	Indices struct {
		Count int `json:"count"`
		Docs  struct {
			Count int64 `json:"count"`
		} `json:"docs"`
		Store struct {
			SizeInBytes int64 `json:"size_in_bytes"`
		} `json:"store"`
	} `json:"indices"`
}

// esNodeStatsResponse mirrors the JVM slice of GET /_nodes/stats.
type esNodeStatsResponse struct {
	Nodes map[string]struct {
		Name string `json:"name"`
		JVM  struct {
			Mem struct {
				HeapUsedInBytes int64 `json:"heap_used_in_bytes"`
				HeapMaxInBytes  int64 `json:"heap_max_in_bytes"`
			} `json:"mem"`
		} `json:"jvm"`
	} `json:"nodes"`
}

// ElasticsearchCollector polls the three cluster endpoints and merges the
// results. The calls run concurrently and fail independently: a failed call
// only omits its own block.
type ElasticsearchCollector struct {
	client *HTTPClient
}

// NewElasticsearch creates a collector for an Elasticsearch cluster.
func NewElasticsearch(client *HTTPClient) *ElasticsearchCollector {
	return &ElasticsearchCollector{client: client}
}

// Kind implements Collector.
func (*ElasticsearchCollector) Kind() models.ComponentKind {
	return models.KindElasticsearch
}

// Collect implements Collector. Available is true when at least the cluster
// health call succeeded; ResponseTimeMs is the health call's round trip.
func (c *ElasticsearchCollector) Collect(ctx context.Context) models.ComponentMetrics {
	var (
		health    esClusterHealthResponse
		stats     esClusterStatsResponse
		nodeStats esNodeStatsResponse

		healthErr, statsErr, nodesErr error
		healthMs                      int64

		wg sync.WaitGroup
	)

	wg.Add(3)

	go func() {
		defer wg.Done()
		healthMs, healthErr = c.client.GetJSON(ctx, endpointClusterHealth, &health)
	}()

	go func() {
		defer wg.Done()
		_, statsErr = c.client.GetJSON(ctx, endpointClusterStats, &stats)
	}()

	go func() {
		defer wg.Done()
		_, nodesErr = c.client.GetJSON(ctx, endpointNodeStats, &nodeStats)
	}()

	wg.Wait()

	metrics := models.ComponentMetrics{
		Kind:           models.KindElasticsearch,
		Timestamp:      time.Now(),
		Available:      false,
		ResponseTimeMs: -1,
	}

	if healthErr != nil {
		log.Printf("DEBUG: elasticsearch cluster health failed: %v", healthErr)
		return metrics
	}

	metrics.Available = true
	metrics.ResponseTimeMs = healthMs
	metrics.Elasticsearch = &models.ElasticsearchMetrics{
		Health: &models.ESClusterHealth{
			Status:             health.Status,
			NodeCount:          health.NumberOfNodes,
			ActiveShards:       health.ActiveShards,
			RelocatingShards:   health.RelocatingShards,
			InitializingShards: health.InitializingShards,
			UnassignedShards:   health.UnassignedShards,
		},
	}

	if statsErr != nil {
		log.Printf("DEBUG: elasticsearch cluster stats failed: %v", statsErr)
	} else {
		metrics.Elasticsearch.Stats = &models.ESClusterStats{
			IndicesCount:   stats.Indices.Count,
			DocsCount:      stats.Indices.Docs.Count,
			StoreSizeBytes: stats.Indices.Store.SizeInBytes,
		}
	}

	if nodesErr != nil {
		log.Printf("DEBUG: elasticsearch node stats failed: %v", nodesErr)
	} else {
		metrics.Elasticsearch.JVM = aggregateHeap(&nodeStats)
	}

	return metrics
}

// aggregateHeap computes the capacity-weighted heap usage across all nodes:
// sum(used) / sum(max). A simple average of per-node percentages would skew
// toward small nodes in heterogeneous clusters.
func aggregateHeap(stats *esNodeStatsResponse) *models.ESClusterJVM {
	var usedSum, maxSum int64

	for _, node := range stats.Nodes {
		usedSum += node.JVM.Mem.HeapUsedInBytes
		maxSum += node.JVM.Mem.HeapMaxInBytes
	}

	jvm := &models.ESClusterJVM{
		HeapUsedBytes: usedSum,
		HeapMaxBytes:  maxSum,
	}

	if maxSum > 0 {
		jvm.HeapUsedPercent = float64(usedSum) / float64(maxSum) * 100
	}

	return jvm
}
