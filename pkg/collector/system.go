package collector

import (
	"context"
	"log"
	"time"

	"github.com/shirou/gopsutil/v4/cpu"
	"github.com/shirou/gopsutil/v4/disk"
	"github.com/shirou/gopsutil/v4/mem"

	"github.com/YunlongChen/stackwatch/pkg/models"
)

const cpuSampleWindow = 500 * time.Millisecond

// SystemCollector reads host OS counters through a SystemProvider.
type SystemCollector struct {
	provider SystemProvider
}

// NewSystem creates a collector over the given provider. Pass
// NewHostProvider() for the real host.
func NewSystem(provider SystemProvider) *SystemCollector {
	return &SystemCollector{provider: provider}
}

// Kind implements Collector.
func (*SystemCollector) Kind() models.ComponentKind {
	return models.KindSystem
}

// Collect implements Collector. The host is considered unavailable only when
// every counter read fails; partial reads keep what succeeded.
func (c *SystemCollector) Collect(ctx context.Context) models.ComponentMetrics {
	start := time.Now()

	metrics := models.ComponentMetrics{
		Kind:           models.KindSystem,
		Timestamp:      start,
		Available:      false,
		ResponseTimeMs: -1,
	}

	cpuPercent, cpuErr := c.provider.CPUPercent(ctx)
	memPercent, memErr := c.provider.MemoryUsedPercent(ctx)
	disks, diskErr := c.provider.DiskUsage(ctx)

	if cpuErr != nil && memErr != nil && diskErr != nil {
		log.Printf("DEBUG: system metrics unavailable: cpu=%v mem=%v disk=%v", cpuErr, memErr, diskErr)
		return metrics
	}

	// A failed counter omits its field rather than reporting zero.
	system := &models.SystemMetrics{Disks: disks}

	if cpuErr != nil {
		log.Printf("DEBUG: system cpu read failed: %v", cpuErr)
	} else {
		system.CPUPercent = &cpuPercent
	}

	if memErr != nil {
		log.Printf("DEBUG: system memory read failed: %v", memErr)
	} else {
		system.MemoryUsedPercent = &memPercent
	}

	if diskErr != nil {
		log.Printf("DEBUG: system disk read failed: %v", diskErr)
	}

	metrics.Available = true
	metrics.ResponseTimeMs = time.Since(start).Milliseconds()
	metrics.System = system

	return metrics
}

// HostProvider implements SystemProvider with gopsutil.
type HostProvider struct{}

// NewHostProvider returns a provider backed by the local host's counters.
func NewHostProvider() *HostProvider {
	return &HostProvider{}
}

// CPUPercent implements SystemProvider.
func (*HostProvider) CPUPercent(ctx context.Context) (float64, error) {
	percents, err := cpu.PercentWithContext(ctx, cpuSampleWindow, false)
	if err != nil {
		return 0, err
	}

	if len(percents) == 0 {
		return 0, nil
	}

	return percents[0], nil
}

// MemoryUsedPercent implements SystemProvider.
func (*HostProvider) MemoryUsedPercent(ctx context.Context) (float64, error) {
	vm, err := mem.VirtualMemoryWithContext(ctx)
	if err != nil {
		return 0, err
	}

	return vm.UsedPercent, nil
}

// DiskUsage implements SystemProvider.
func (*HostProvider) DiskUsage(ctx context.Context) ([]models.DiskUsage, error) {
	partitions, err := disk.PartitionsWithContext(ctx, false)
	if err != nil {
		return nil, err
	}

	usages := make([]models.DiskUsage, 0, len(partitions))

	for _, partition := range partitions {
		usage, err := disk.UsageWithContext(ctx, partition.Mountpoint)
		if err != nil {
			// Skip unreadable mounts (removable media, permissions).
			continue
		}

		usages = append(usages, models.DiskUsage{
			Drive:       partition.Mountpoint,
			UsedPercent: usage.UsedPercent,
			TotalBytes:  usage.Total,
			FreeBytes:   usage.Free,
		})
	}

	return usages, nil
}
