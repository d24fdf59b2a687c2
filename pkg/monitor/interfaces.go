// Package monitor pkg/monitor/interfaces.go
package monitor

import (
	"github.com/YunlongChen/stackwatch/pkg/models"
)

//go:generate mockgen -destination=mock_monitor.go -package=monitor github.com/YunlongChen/stackwatch/pkg/monitor SnapshotStore

// SnapshotStore buffers metrics snapshots for one monitoring run. The runner
// is the only writer; readers (API, report generator) may call the accessors
// concurrently.
type SnapshotStore interface {
	// Add appends a snapshot, evicting the oldest when full.
	Add(snapshot models.MetricsSnapshot)
	// Snapshots returns the buffered snapshots, oldest first.
	Snapshots() []models.MetricsSnapshot
	// Latest returns the most recent snapshot, or nil when empty.
	Latest() *models.MetricsSnapshot
	// Len returns the number of buffered snapshots.
	Len() int
}
