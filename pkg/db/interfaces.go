// Package db pkg/db/interfaces.go
package db

import (
	"time"

	"github.com/YunlongChen/stackwatch/pkg/models"
)

//go:generate mockgen -destination=mock_db.go -package=db github.com/YunlongChen/stackwatch/pkg/db Service

// Service represents all database operations.
type Service interface {
	Close() error

	// Alert log operations.

	StoreAlert(alert *models.AlertEvent) error
	GetAlerts(since time.Time) ([]models.AlertEvent, error)
	CleanOldAlerts(retention time.Duration) (int64, error)

	// Backup manifest operations.

	StoreBackup(meta *models.BackupMetadata) error
	GetBackup(name string) (*models.BackupMetadata, error)
	ListBackups() ([]models.BackupMetadata, error)
	DeleteBackup(name string) error
}
