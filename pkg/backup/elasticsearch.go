package backup

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/YunlongChen/stackwatch/pkg/collector"
	"github.com/YunlongChen/stackwatch/pkg/models"
)

// ESSnapshotClient implements SnapshotClient against the Elasticsearch
// snapshot API.
type ESSnapshotClient struct {
	client *collector.HTTPClient
}

// NewESSnapshotClient wraps the shared HTTP client.
func NewESSnapshotClient(client *collector.HTTPClient) *ESSnapshotClient {
	return &ESSnapshotClient{client: client}
}

type repoSettings struct {
	Type     string `json:"type"`
	Settings struct {
		Location string `json:"location"`
		Compress bool   `json:"compress"`
	} `json:"settings"`
}

// EnsureRepository implements SnapshotClient. PUT on an existing repository
// with identical settings succeeds, so no existence check is needed first.
func (c *ESSnapshotClient) EnsureRepository(ctx context.Context, repo, location string) error {
	var body repoSettings
	body.Type = "fs"
	body.Settings.Location = location
	body.Settings.Compress = true

	if err := c.client.Do(ctx, "PUT", "/_snapshot/"+repo, &body, nil); err != nil {
		return fmt.Errorf("%w: %w", ErrRepositoryCreate, err)
	}

	return nil
}

type createSnapshotRequest struct {
	Indices            string `json:"indices,omitempty"`
	IgnoreUnavailable  bool   `json:"ignore_unavailable"`
	IncludeGlobalState bool   `json:"include_global_state"`
}

// CreateSnapshot implements SnapshotClient.
func (c *ESSnapshotClient) CreateSnapshot(ctx context.Context, repo, name string, indices []string) error {
	body := createSnapshotRequest{
		Indices:            strings.Join(indices, ","),
		IgnoreUnavailable:  true,
		IncludeGlobalState: true,
	}

	path := "/_snapshot/" + repo + "/" + name + "?wait_for_completion=false"

	if err := c.client.Do(ctx, "PUT", path, &body, nil); err != nil {
		return fmt.Errorf("%w: %w", ErrSnapshotCreate, err)
	}

	return nil
}

type getSnapshotResponse struct {
	Snapshots []struct {
		Snapshot        string   `json:"snapshot"`
		State           string   `json:"state"`
		Indices         []string `json:"indices"`
		StartTimeMillis int64    `json:"start_time_in_millis"`
		EndTimeMillis   int64    `json:"end_time_in_millis"`
		Failures        []struct {
			Reason string `json:"reason"`
		} `json:"failures"`
	} `json:"snapshots"`
}

// GetSnapshot implements SnapshotClient.
func (c *ESSnapshotClient) GetSnapshot(ctx context.Context, repo, name string) (*models.SnapshotJob, error) {
	var resp getSnapshotResponse

	_, err := c.client.GetJSON(ctx, "/_snapshot/"+repo+"/"+name, &resp)
	if err != nil {
		return nil, err
	}

	if len(resp.Snapshots) == 0 {
		return nil, ErrSnapshotNotFound
	}

	info := resp.Snapshots[0]

	job := &models.SnapshotJob{
		Name:       info.Snapshot,
		Repository: repo,
		State:      mapState(info.State),
		Indices:    info.Indices,
	}

	if info.StartTimeMillis > 0 {
		job.CreatedAt = time.UnixMilli(info.StartTimeMillis)
	}

	// End time is absent while the snapshot is still running.
	if info.EndTimeMillis > 0 {
		job.CompletedAt = time.UnixMilli(info.EndTimeMillis)
	}

	if len(info.Failures) > 0 {
		job.Reason = info.Failures[0].Reason
	}

	return job, nil
}

// mapState converts Elasticsearch snapshot states to the local enum. STARTED
// is reported by older clusters in place of IN_PROGRESS.
func mapState(state string) models.SnapshotState {
	switch state {
	case "SUCCESS":
		return models.SnapshotSuccess
	case "FAILED":
		return models.SnapshotFailed
	case "PARTIAL":
		return models.SnapshotPartial
	case "IN_PROGRESS", "STARTED":
		return models.SnapshotInProgress
	default:
		return models.SnapshotPending
	}
}

type restoreRequest struct {
	IncludeGlobalState bool `json:"include_global_state"`
}

// Restore implements SnapshotClient.
func (c *ESSnapshotClient) Restore(ctx context.Context, repo, name string) error {
	body := restoreRequest{IncludeGlobalState: true}

	path := "/_snapshot/" + repo + "/" + name + "/_restore"

	if err := c.client.Do(ctx, "POST", path, &body, nil); err != nil {
		return fmt.Errorf("%w: %w", ErrRestoreFailed, err)
	}

	return nil
}

// CloseAllIndices implements SnapshotClient.
func (c *ESSnapshotClient) CloseAllIndices(ctx context.Context) error {
	return c.client.Do(ctx, "POST", "/_all/_close", nil, nil)
}
