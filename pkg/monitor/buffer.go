package monitor

import (
	"sync"

	"github.com/YunlongChen/stackwatch/pkg/models"
)

// RingBuffer is a fixed-capacity SnapshotStore. Writes evict the oldest
// entry once the capacity is reached.
type RingBuffer struct {
	mu       sync.RWMutex
	entries  []models.MetricsSnapshot
	next     int
	count    int
	capacity int
}

// NewBuffer creates a SnapshotStore with the given capacity.
func NewBuffer(capacity int) SnapshotStore {
	if capacity <= 0 {
		capacity = 1
	}

	return &RingBuffer{
		entries:  make([]models.MetricsSnapshot, capacity),
		capacity: capacity,
	}
}

// Add implements SnapshotStore.
func (b *RingBuffer) Add(snapshot models.MetricsSnapshot) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.entries[b.next] = snapshot
	b.next = (b.next + 1) % b.capacity

	if b.count < b.capacity {
		b.count++
	}
}

// Snapshots implements SnapshotStore.
func (b *RingBuffer) Snapshots() []models.MetricsSnapshot {
	b.mu.RLock()
	defer b.mu.RUnlock()

	out := make([]models.MetricsSnapshot, 0, b.count)

	start := b.next - b.count
	if start < 0 {
		start += b.capacity
	}

	for i := 0; i < b.count; i++ {
		out = append(out, b.entries[(start+i)%b.capacity])
	}

	return out
}

// Latest implements SnapshotStore.
func (b *RingBuffer) Latest() *models.MetricsSnapshot {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if b.count == 0 {
		return nil
	}

	idx := b.next - 1
	if idx < 0 {
		idx += b.capacity
	}

	snapshot := b.entries[idx]

	return &snapshot
}

// Len implements SnapshotStore.
func (b *RingBuffer) Len() int {
	b.mu.RLock()
	defer b.mu.RUnlock()

	return b.count
}
