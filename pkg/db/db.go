// Package db pkg/db/db.go provides SQLite persistence for the alert log and
// backup manifests.
package db

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3" // SQLite driver

	"github.com/YunlongChen/stackwatch/pkg/models"
)

const createTablesSQL = `
-- Append-only alert log
CREATE TABLE IF NOT EXISTS alerts (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	timestamp TIMESTAMP NOT NULL,
	component TEXT NOT NULL,
	metric TEXT NOT NULL,
	level TEXT NOT NULL,
	message TEXT NOT NULL,
	value REAL NOT NULL,
	threshold REAL NOT NULL
);

-- Backup manifests, one record per backup keyed by name
CREATE TABLE IF NOT EXISTS backups (
	name TEXT PRIMARY KEY,
	type TEXT NOT NULL,
	state TEXT NOT NULL,
	timestamp TIMESTAMP NOT NULL,
	size_bytes INTEGER NOT NULL DEFAULT 0,
	indices TEXT,
	file_list TEXT
);

-- Indexes for better query performance
CREATE INDEX IF NOT EXISTS idx_alerts_time
	ON alerts(timestamp);
CREATE INDEX IF NOT EXISTS idx_alerts_component_time
	ON alerts(component, timestamp);
CREATE INDEX IF NOT EXISTS idx_backups_time
	ON backups(timestamp);

PRAGMA foreign_keys=ON;
`

// DB represents the database connection and operations.
type DB struct {
	*sql.DB
}

// New creates a new database connection and initializes the schema.
func New(dbPath string) (Service, error) {
	sqlDB, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrFailedOpenDB, err)
	}

	// Enable WAL mode for better concurrent access
	if _, err := sqlDB.Exec("PRAGMA journal_mode=WAL"); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrFailedToEnableWAL, err)
	}

	db := &DB{sqlDB}
	if err := db.initSchema(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrFailedToInit, err)
	}

	return db, nil
}

// initSchema creates the database tables if they don't exist.
func (db *DB) initSchema() error {
	_, err := db.Exec(createTablesSQL)

	return err
}

// StoreAlert appends one alert to the log.
func (db *DB) StoreAlert(alert *models.AlertEvent) error {
	_, err := db.Exec(`
		INSERT INTO alerts (timestamp, component, metric, level, message, value, threshold)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, alert.Timestamp, string(alert.Component), alert.Metric, string(alert.Level),
		alert.Message, alert.Value, alert.Threshold)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrFailedToInsert, err)
	}

	return nil
}

// GetAlerts returns alerts at or after the given time, oldest first.
func (db *DB) GetAlerts(since time.Time) ([]models.AlertEvent, error) {
	rows, err := db.Query(`
		SELECT timestamp, component, metric, level, message, value, threshold
		FROM alerts
		WHERE timestamp >= ?
		ORDER BY timestamp ASC
	`, since)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrFailedToQuery, err)
	}
	defer rows.Close()

	var alerts []models.AlertEvent

	for rows.Next() {
		var a models.AlertEvent

		var component, level string

		if err := rows.Scan(&a.Timestamp, &component, &a.Metric, &level,
			&a.Message, &a.Value, &a.Threshold); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrFailedToScan, err)
		}

		a.Component = models.ComponentKind(component)
		a.Level = models.AlertLevel(level)
		alerts = append(alerts, a)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrFailedToQuery, err)
	}

	return alerts, nil
}

// CleanOldAlerts removes alerts older than the retention period and returns
// the number deleted. This is the only path that removes alert records.
func (db *DB) CleanOldAlerts(retention time.Duration) (int64, error) {
	cutoff := time.Now().Add(-retention)

	result, err := db.Exec(`DELETE FROM alerts WHERE timestamp < ?`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrFailedToClean, err)
	}

	deleted, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrFailedToClean, err)
	}

	return deleted, nil
}

// StoreBackup writes (or replaces) a backup manifest.
func (db *DB) StoreBackup(meta *models.BackupMetadata) error {
	indices, err := json.Marshal(meta.Indices)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrFailedToInsert, err)
	}

	fileList, err := json.Marshal(meta.FileList)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrFailedToInsert, err)
	}

	_, err = db.Exec(`
		INSERT OR REPLACE INTO backups (name, type, state, timestamp, size_bytes, indices, file_list)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, meta.Name, string(meta.Type), string(meta.State), meta.Timestamp,
		meta.SizeBytes, string(indices), string(fileList))
	if err != nil {
		return fmt.Errorf("%w: %w", ErrFailedToInsert, err)
	}

	return nil
}

// GetBackup returns the manifest for one backup, or ErrNotFound.
func (db *DB) GetBackup(name string) (*models.BackupMetadata, error) {
	row := db.QueryRow(`
		SELECT name, type, state, timestamp, size_bytes, indices, file_list
		FROM backups
		WHERE name = ?
	`, name)

	meta, err := scanBackup(row.Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}

	if err != nil {
		return nil, err
	}

	return meta, nil
}

// ListBackups returns every manifest, newest first.
func (db *DB) ListBackups() ([]models.BackupMetadata, error) {
	rows, err := db.Query(`
		SELECT name, type, state, timestamp, size_bytes, indices, file_list
		FROM backups
		ORDER BY timestamp DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrFailedToQuery, err)
	}
	defer rows.Close()

	var backups []models.BackupMetadata

	for rows.Next() {
		meta, err := scanBackup(rows.Scan)
		if err != nil {
			return nil, err
		}

		backups = append(backups, *meta)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrFailedToQuery, err)
	}

	return backups, nil
}

// DeleteBackup removes a manifest. Verification never calls this; removal is
// an explicit operator action.
func (db *DB) DeleteBackup(name string) error {
	result, err := db.Exec(`DELETE FROM backups WHERE name = ?`, name)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrDatabaseError, err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: %w", ErrDatabaseError, err)
	}

	if affected == 0 {
		return ErrNotFound
	}

	return nil
}

func scanBackup(scan func(dest ...interface{}) error) (*models.BackupMetadata, error) {
	var meta models.BackupMetadata

	var backupType, state string

	var indices, fileList sql.NullString

	err := scan(&meta.Name, &backupType, &state, &meta.Timestamp,
		&meta.SizeBytes, &indices, &fileList)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}

		return nil, fmt.Errorf("%w: %w", ErrFailedToScan, err)
	}

	meta.Type = models.BackupType(backupType)
	meta.State = models.SnapshotState(state)

	if indices.Valid && indices.String != "" {
		if err := json.Unmarshal([]byte(indices.String), &meta.Indices); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrFailedToScan, err)
		}
	}

	if fileList.Valid && fileList.String != "" {
		if err := json.Unmarshal([]byte(fileList.String), &meta.FileList); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrFailedToScan, err)
		}
	}

	return &meta, nil
}
