// Package collector pkg/collector/interfaces.go
package collector

import (
	"context"

	"github.com/YunlongChen/stackwatch/pkg/models"
)

//go:generate mockgen -destination=mock_collector.go -package=collector github.com/YunlongChen/stackwatch/pkg/collector Collector,SystemProvider

// Collector gathers one component's metrics. Collect never fails: network
// errors and non-2xx responses are reported as Available=false with
// ResponseTimeMs=-1 and no kind-specific fields.
type Collector interface {
	// Kind identifies the component this collector measures.
	Kind() models.ComponentKind
	// Collect performs one measurement, bounded by ctx.
	Collect(ctx context.Context) models.ComponentMetrics
}

// SystemProvider abstracts host OS counters so the system collector can be
// tested without touching the real host.
type SystemProvider interface {
	// CPUPercent returns overall CPU utilisation over a short sample window.
	CPUPercent(ctx context.Context) (float64, error)
	// MemoryUsedPercent returns used physical memory as a percentage.
	MemoryUsedPercent(ctx context.Context) (float64, error)
	// DiskUsage returns per-mount utilisation.
	DiskUsage(ctx context.Context) ([]models.DiskUsage, error)
}
