// Package api pkg/api/interfaces.go
package api

import (
	"context"
	"time"

	"github.com/YunlongChen/stackwatch/pkg/models"
)

//go:generate mockgen -destination=mock_api.go -package=api github.com/YunlongChen/stackwatch/pkg/api BackupManager,AlertReader

// BackupManager is the backup surface the API exposes. The backup package's
// Orchestrator implements it.
type BackupManager interface {
	CreateSnapshot(ctx context.Context, name string, indices []string) (*models.BackupMetadata, error)
	CreateConfigBackup(ctx context.Context, name string) (*models.BackupMetadata, error)
	Restore(ctx context.Context, name string, force bool) error
	Verify(name string) ([]models.VerifyResult, error)
	List() ([]models.BackupMetadata, error)
}

// AlertReader serves the alert history endpoint. The db package implements it.
type AlertReader interface {
	GetAlerts(since time.Time) ([]models.AlertEvent, error)
}
