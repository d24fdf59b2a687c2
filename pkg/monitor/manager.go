package monitor

import (
	"context"
	"fmt"
	"log"
	"strconv"
	"sync"
	"sync/atomic"

	"github.com/YunlongChen/stackwatch/pkg/alerts"
	"github.com/YunlongChen/stackwatch/pkg/collector"
)

var ErrRunNotFound = fmt.Errorf("monitoring run not found")

// Manager owns monitoring runs. Each run has its own Runner state object, so
// concurrent runs (e.g. an operator-triggered short run next to the standing
// one) do not share buffers or counters.
type Manager struct {
	collectors []collector.Collector
	sink       alerts.AlertSink

	mu     sync.RWMutex
	runs   map[string]*Runner
	nextID int64
}

// NewManager builds a manager that starts runs over the given collectors.
func NewManager(collectors []collector.Collector, sink alerts.AlertSink) *Manager {
	return &Manager{
		collectors: collectors,
		sink:       sink,
		runs:       make(map[string]*Runner),
	}
}

// StartRun launches a run in the background and returns its handle.
func (m *Manager) StartRun(ctx context.Context, cfg Config) (string, *Runner, error) {
	runner, err := NewRunner(cfg, m.collectors, m.sink)
	if err != nil {
		return "", nil, err
	}

	id := "run-" + strconv.FormatInt(atomic.AddInt64(&m.nextID, 1), 10)

	m.mu.Lock()
	m.runs[id] = runner
	m.mu.Unlock()

	go func() {
		if err := runner.Start(ctx); err != nil && err != context.Canceled {
			log.Printf("monitoring run %s ended: %v", id, err)
		}
	}()

	return id, runner, nil
}

// StopRun cancels the identified run.
func (m *Manager) StopRun(ctx context.Context, id string) error {
	m.mu.RLock()
	runner, ok := m.runs[id]
	m.mu.RUnlock()

	if !ok {
		return ErrRunNotFound
	}

	return runner.Stop(ctx)
}

// Get returns the identified run.
func (m *Manager) Get(id string) (*Runner, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	runner, ok := m.runs[id]
	if !ok {
		return nil, ErrRunNotFound
	}

	return runner, nil
}

// Latest returns the most recently started run, or nil when none exist.
func (m *Manager) Latest() *Runner {
	m.mu.RLock()
	defer m.mu.RUnlock()

	id := "run-" + strconv.FormatInt(atomic.LoadInt64(&m.nextID), 10)

	return m.runs[id]
}

// Runs returns the status of every run keyed by handle.
func (m *Manager) Runs() map[string]Status {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make(map[string]Status, len(m.runs))
	for id, runner := range m.runs {
		out[id] = runner.Status()
	}

	return out
}
