// Package backup pkg/backup/interfaces.go
package backup

import (
	"context"

	"github.com/YunlongChen/stackwatch/pkg/models"
)

//go:generate mockgen -destination=mock_backup.go -package=backup github.com/YunlongChen/stackwatch/pkg/backup SnapshotClient,ManifestStore

// SnapshotClient is the Elasticsearch snapshot API surface the orchestrator
// drives. Elasticsearch holds the authoritative job state; every call returns
// the cluster's current view.
type SnapshotClient interface {
	// EnsureRepository creates the snapshot repository if it does not exist.
	// Creating an existing repository with the same settings is a no-op.
	EnsureRepository(ctx context.Context, repo, location string) error
	// CreateSnapshot submits a snapshot without waiting for completion.
	CreateSnapshot(ctx context.Context, repo, name string, indices []string) error
	// GetSnapshot returns the current job state.
	GetSnapshot(ctx context.Context, repo, name string) (*models.SnapshotJob, error)
	// Restore starts a restore of the named snapshot.
	Restore(ctx context.Context, repo, name string) error
	// CloseAllIndices closes every open index. Destructive; only the forced
	// restore path calls it.
	CloseAllIndices(ctx context.Context) error
}

// ManifestStore persists backup manifests. The db package implements it.
type ManifestStore interface {
	StoreBackup(meta *models.BackupMetadata) error
	GetBackup(name string) (*models.BackupMetadata, error)
	ListBackups() ([]models.BackupMetadata, error)
}
