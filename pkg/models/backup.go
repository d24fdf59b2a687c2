package models

import "time"

// SnapshotState is the lifecycle state of an Elasticsearch snapshot job.
// Transitions are monotonic: PENDING -> IN_PROGRESS -> terminal. Elasticsearch
// is the source of truth; local records are caches invalidated by each poll.
type SnapshotState string

const (
	SnapshotPending    SnapshotState = "PENDING"
	SnapshotInProgress SnapshotState = "IN_PROGRESS"
	SnapshotSuccess    SnapshotState = "SUCCESS"
	SnapshotFailed     SnapshotState = "FAILED"
	SnapshotPartial    SnapshotState = "PARTIAL"
)

// Terminal reports whether no further state transition can occur.
func (s SnapshotState) Terminal() bool {
	switch s {
	case SnapshotSuccess, SnapshotFailed, SnapshotPartial:
		return true
	default:
		return false
	}
}

// SnapshotJob is the orchestrator's view of one snapshot or restore run.
type SnapshotJob struct {
	Name        string        `json:"name"`
	Repository  string        `json:"repository"`
	State       SnapshotState `json:"state"`
	Indices     []string      `json:"indices,omitempty"`
	Reason      string        `json:"reason,omitempty"` // ES-provided failure reason
	CreatedAt   time.Time     `json:"created_at"`
	CompletedAt time.Time     `json:"completed_at,omitempty"`
}

// BackupType distinguishes what a backup manifest covers.
type BackupType string

const (
	BackupSnapshot BackupType = "snapshot" // Elasticsearch snapshot
	BackupConfig   BackupType = "config"   // configuration file copy
)

// BackupMetadata is the manifest persisted once a backup completes. Read back
// for listing, verification, and expiry.
type BackupMetadata struct {
	Name      string        `json:"name"`
	Type      BackupType    `json:"type"`
	State     SnapshotState `json:"state"`
	Timestamp time.Time     `json:"timestamp"`
	SizeBytes int64         `json:"size_bytes"`
	Indices   []string      `json:"indices,omitempty"`
	FileList  []string      `json:"file_list,omitempty"`
}

// VerifyResult reports one file's verification outcome for a backup.
type VerifyResult struct {
	Path  string `json:"path"`
	OK    bool   `json:"ok"`
	Error string `json:"error,omitempty"`
}
