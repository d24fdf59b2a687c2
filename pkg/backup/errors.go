// Package errors pkg/backup/errors.go provides errors for the backup package.

package backup

import "errors"

var (
	ErrRepositoryCreate = errors.New("failed to create snapshot repository")
	ErrSnapshotCreate   = errors.New("failed to submit snapshot")
	ErrSnapshotNotFound = errors.New("snapshot not found")
	ErrSnapshotFailed   = errors.New("snapshot reached failed state")
	ErrSnapshotPartial  = errors.New("snapshot completed partially")
	ErrPollExhausted    = errors.New("snapshot polling failed after retries")
	ErrRestoreFailed    = errors.New("failed to restore snapshot")
	ErrNoRepositoryPath = errors.New("repository path not configured")
	ErrManifestNotFound = errors.New("backup manifest not found")
	ErrNothingToBackUp  = errors.New("no configuration directories configured")
)
