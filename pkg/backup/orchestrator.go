// Package backup pkg/backup/orchestrator.go drives the snapshot and restore
// state machines and maintains the backup manifests.
package backup

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/cenkalti/backoff/v4"

	"github.com/YunlongChen/stackwatch/pkg/models"
)

const (
	defaultPollInterval = 5 * time.Second

	// Transient polling failures are retried this many times before the job
	// is marked failed locally, distinct from an ES-reported FAILED.
	maxPollRetries = 3
)

// Config controls the orchestrator.
type Config struct {
	Repository     string
	RepositoryPath string
	BackupDir      string
	ConfigDirs     []string
	PollInterval   time.Duration
}

// Orchestrator owns no authoritative snapshot state: Elasticsearch does. The
// orchestrator submits, polls until a terminal state, and records manifests.
type Orchestrator struct {
	client SnapshotClient
	store  ManifestStore
	config Config
}

// NewOrchestrator builds an orchestrator.
func NewOrchestrator(cfg Config, client SnapshotClient, store ManifestStore) *Orchestrator {
	if cfg.PollInterval <= 0 {
		cfg.PollInterval = defaultPollInterval
	}

	return &Orchestrator{
		client: client,
		store:  store,
		config: cfg,
	}
}

// CreateSnapshot runs one snapshot job to completion. Repository creation
// errors are fatal to the job with no retry. The returned metadata is
// persisted even for FAILED/PARTIAL outcomes so operators can inspect them;
// those outcomes also return an error carrying the ES-provided reason.
func (o *Orchestrator) CreateSnapshot(ctx context.Context, name string, indices []string) (*models.BackupMetadata, error) {
	if o.config.RepositoryPath == "" {
		return nil, ErrNoRepositoryPath
	}

	if err := o.client.EnsureRepository(ctx, o.config.Repository, o.config.RepositoryPath); err != nil {
		return nil, err
	}

	if err := o.client.CreateSnapshot(ctx, o.config.Repository, name, indices); err != nil {
		return nil, err
	}

	log.Printf("Snapshot %s submitted to repository %s, polling every %v",
		name, o.config.Repository, o.config.PollInterval)

	job, err := o.pollUntilTerminal(ctx, name)
	if err != nil {
		return nil, err
	}

	meta := &models.BackupMetadata{
		Name:      name,
		Type:      models.BackupSnapshot,
		State:     job.State,
		Timestamp: time.Now(),
		Indices:   job.Indices,
	}

	if err := o.store.StoreBackup(meta); err != nil {
		return meta, fmt.Errorf("snapshot completed but manifest persistence failed: %w", err)
	}

	switch job.State {
	case models.SnapshotFailed:
		return meta, fmt.Errorf("%w: %s", ErrSnapshotFailed, job.Reason)
	case models.SnapshotPartial:
		return meta, fmt.Errorf("%w: %s", ErrSnapshotPartial, job.Reason)
	default:
		return meta, nil
	}
}

// pollUntilTerminal polls the job state at the configured sub-interval.
// Each individual poll retries transient failures with constant backoff
// before giving up locally.
func (o *Orchestrator) pollUntilTerminal(ctx context.Context, name string) (*models.SnapshotJob, error) {
	ticker := time.NewTicker(o.config.PollInterval)
	defer ticker.Stop()

	for {
		job, err := o.pollOnce(ctx, name)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrPollExhausted, err)
		}

		if job.State.Terminal() {
			log.Printf("Snapshot %s reached terminal state %s", name, job.State)
			return job, nil
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-ticker.C:
		}
	}
}

func (o *Orchestrator) pollOnce(ctx context.Context, name string) (*models.SnapshotJob, error) {
	var job *models.SnapshotJob

	operation := func() error {
		var err error

		job, err = o.client.GetSnapshot(ctx, o.config.Repository, name)
		if err != nil {
			log.Printf("Snapshot poll for %s failed, will retry: %v", name, err)
		}

		return err
	}

	policy := backoff.WithContext(
		backoff.WithMaxRetries(backoff.NewConstantBackOff(o.config.PollInterval), maxPollRetries),
		ctx)

	if err := backoff.Retry(operation, policy); err != nil {
		return nil, err
	}

	return job, nil
}

// Restore restores the named snapshot. The snapshot must exist; force closes
// every open index first and must be explicitly requested by the operator.
func (o *Orchestrator) Restore(ctx context.Context, name string, force bool) error {
	job, err := o.client.GetSnapshot(ctx, o.config.Repository, name)
	if err != nil {
		return fmt.Errorf("validate snapshot before restore: %w", err)
	}

	if job.State != models.SnapshotSuccess && job.State != models.SnapshotPartial {
		return fmt.Errorf("%w: snapshot %s is in state %s", ErrRestoreFailed, name, job.State)
	}

	if force {
		log.Printf("Force restore requested: closing all indices before restoring %s", name)

		if err := o.client.CloseAllIndices(ctx); err != nil {
			return fmt.Errorf("%w: closing indices: %w", ErrRestoreFailed, err)
		}
	}

	return o.client.Restore(ctx, o.config.Repository, name)
}

// CreateConfigBackup copies the configured directories into the backup
// destination and records a manifest listing every file copied.
func (o *Orchestrator) CreateConfigBackup(_ context.Context, name string) (*models.BackupMetadata, error) {
	if len(o.config.ConfigDirs) == 0 {
		return nil, ErrNothingToBackUp
	}

	destRoot := filepath.Join(o.config.BackupDir, name)

	var (
		files     []string
		totalSize int64
	)

	for _, dir := range o.config.ConfigDirs {
		err := filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
			if err != nil {
				return err
			}

			if info.IsDir() {
				return nil
			}

			rel, err := filepath.Rel(dir, path)
			if err != nil {
				return err
			}

			dest := filepath.Join(destRoot, filepath.Base(dir), rel)

			if err := copyFile(path, dest); err != nil {
				return err
			}

			files = append(files, dest)
			totalSize += info.Size()

			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("config backup of %s failed: %w", dir, err)
		}
	}

	meta := &models.BackupMetadata{
		Name:      name,
		Type:      models.BackupConfig,
		State:     models.SnapshotSuccess,
		Timestamp: time.Now(),
		SizeBytes: totalSize,
		FileList:  files,
	}

	if err := o.store.StoreBackup(meta); err != nil {
		return meta, fmt.Errorf("config backup completed but manifest persistence failed: %w", err)
	}

	return meta, nil
}

// Verify checks every file in the manifest's file list still exists and is
// non-empty. The manifest itself is never modified or deleted here; cleanup
// stays with the operator.
func (o *Orchestrator) Verify(name string) ([]models.VerifyResult, error) {
	meta, err := o.store.GetBackup(name)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrManifestNotFound, err)
	}

	results := make([]models.VerifyResult, 0, len(meta.FileList))

	for _, path := range meta.FileList {
		result := models.VerifyResult{Path: path}

		info, err := os.Stat(path)

		switch {
		case err != nil:
			result.Error = err.Error()
		case info.Size() == 0:
			result.Error = "file is empty"
		default:
			result.OK = true
		}

		results = append(results, result)
	}

	return results, nil
}

// List returns every recorded manifest.
func (o *Orchestrator) List() ([]models.BackupMetadata, error) {
	return o.store.ListBackups()
}

func copyFile(src, dst string) error {
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return err
	}

	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	defer out.Close()

	if _, err := io.Copy(out, in); err != nil {
		return err
	}

	return out.Sync()
}
