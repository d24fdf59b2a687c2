// Package monitor pkg/monitor/monitor.go drives the collect/evaluate loop.
package monitor

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/YunlongChen/stackwatch/pkg/alerts"
	"github.com/YunlongChen/stackwatch/pkg/collector"
	"github.com/YunlongChen/stackwatch/pkg/evaluator"
	"github.com/YunlongChen/stackwatch/pkg/models"
)

// State is the monitoring loop's lifecycle state.
type State string

const (
	StateIdle      State = "IDLE"
	StateRunning   State = "RUNNING"
	StateCompleted State = "COMPLETED"
	StateCancelled State = "CANCELLED"
)

var (
	ErrAlreadyRunning = fmt.Errorf("monitoring run already started")
	ErrNoCollectors   = fmt.Errorf("no collectors configured")
)

// Config controls one monitoring run. Duration zero with Continuous false
// means exactly one iteration.
type Config struct {
	Interval       time.Duration
	Duration       time.Duration
	Continuous     bool
	RequestTimeout time.Duration
	BufferSize     int
	Thresholds     models.Thresholds
}

// Status is a point-in-time view of a run for the API layer.
type Status struct {
	State      State     `json:"state"`
	Iterations int       `json:"iterations"`
	Healthy    int       `json:"healthy_iterations"`
	Degraded   int       `json:"degraded_iterations"`
	StartedAt  time.Time `json:"started_at,omitempty"`
	FinishedAt time.Time `json:"finished_at,omitempty"`
}

// Runner executes the monitoring loop: collect all components in parallel,
// wait for the iteration barrier, evaluate thresholds, append the snapshot,
// emit alerts, sleep. The snapshot buffer has no writer other than the
// runner's own goroutine.
type Runner struct {
	config     Config
	collectors []collector.Collector
	sink       alerts.AlertSink
	buffer     SnapshotStore

	mu        sync.RWMutex
	state     State
	iteration int
	healthy   int
	degraded  int
	startedAt time.Time
	finished  time.Time
	cancel    context.CancelFunc
	done      chan struct{}
}

// NewRunner builds a runner over the given collectors and alert sink.
func NewRunner(cfg Config, collectors []collector.Collector, sink alerts.AlertSink) (*Runner, error) {
	if len(collectors) == 0 {
		return nil, ErrNoCollectors
	}

	if cfg.Interval <= 0 {
		cfg.Interval = time.Minute
	}

	if cfg.RequestTimeout <= 0 {
		cfg.RequestTimeout = 30 * time.Second
	}

	if cfg.BufferSize <= 0 {
		cfg.BufferSize = 1000
	}

	return &Runner{
		config:     cfg,
		collectors: collectors,
		sink:       sink,
		buffer:     NewBuffer(cfg.BufferSize),
		state:      StateIdle,
		done:       make(chan struct{}),
	}, nil
}

// Start runs the loop until the configured duration elapses or ctx is
// cancelled. It blocks; callers wanting a background run start it in a
// goroutine and use Stop.
func (r *Runner) Start(ctx context.Context) error {
	r.mu.Lock()

	if r.state != StateIdle {
		r.mu.Unlock()
		return ErrAlreadyRunning
	}

	ctx, cancel := context.WithCancel(ctx)
	r.cancel = cancel
	r.state = StateRunning
	r.startedAt = time.Now()
	r.mu.Unlock()

	defer close(r.done)
	defer cancel()

	var endTime time.Time
	if !r.config.Continuous {
		endTime = r.startedAt.Add(r.config.Duration)
	}

	log.Printf("Starting monitoring loop: interval=%v continuous=%v duration=%v",
		r.config.Interval, r.config.Continuous, r.config.Duration)

	// First iteration runs immediately.
	r.runIteration(ctx)

	for {
		// Cancellation is checked before sleeping and again after waking so a
		// cancel during the long sleep is honored promptly.
		if ctx.Err() != nil {
			r.finish(StateCancelled)
			return ctx.Err()
		}

		if !r.config.Continuous && !time.Now().Add(r.config.Interval).Before(endTime) {
			r.finish(StateCompleted)
			return nil
		}

		timer := time.NewTimer(r.config.Interval)

		select {
		case <-ctx.Done():
			timer.Stop()
			r.finish(StateCancelled)

			return ctx.Err()
		case <-timer.C:
		}

		if ctx.Err() != nil {
			r.finish(StateCancelled)
			return ctx.Err()
		}

		r.runIteration(ctx)
	}
}

// Stop cancels a running loop and waits for it to wind down.
func (r *Runner) Stop(ctx context.Context) error {
	r.mu.RLock()
	cancel := r.cancel
	r.mu.RUnlock()

	if cancel != nil {
		cancel()
	}

	select {
	case <-r.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// runIteration collects every component concurrently, waits for all of them,
// then evaluates the consistent snapshot. A slow component is capped by the
// per-request timeout and cannot stretch the cadence.
func (r *Runner) runIteration(ctx context.Context) {
	r.mu.Lock()
	r.iteration++
	iteration := r.iteration
	r.mu.Unlock()

	results := make([]models.ComponentMetrics, len(r.collectors))

	g, gctx := errgroup.WithContext(ctx)

	for i, c := range r.collectors {
		i, c := i, c
		g.Go(func() error {
			callCtx, cancel := context.WithTimeout(gctx, r.config.RequestTimeout)
			defer cancel()

			results[i] = c.Collect(callCtx)

			return nil
		})
	}

	// Collect never returns an error; Wait is purely the iteration barrier.
	_ = g.Wait()

	snapshot := models.MetricsSnapshot{
		Timestamp:  time.Now(),
		Iteration:  iteration,
		Components: make(map[models.ComponentKind]models.ComponentMetrics, len(results)),
	}

	for _, m := range results {
		snapshot.Components[m.Kind] = m
	}

	r.buffer.Add(snapshot)

	r.mu.Lock()
	if snapshot.Healthy() {
		r.healthy++
	} else {
		r.degraded++
	}
	r.mu.Unlock()

	events := evaluator.EvaluateSnapshot(&snapshot, r.config.Thresholds)
	for i := range events {
		if err := r.sink.Send(ctx, &events[i]); err != nil {
			log.Printf("failed to emit alert %s/%s: %v", events[i].Component, events[i].Metric, err)
		}
	}

	log.Printf("Iteration %d complete: %d components, %d alerts", iteration, len(results), len(events))
}

func (r *Runner) finish(state State) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.state = state
	r.finished = time.Now()

	log.Printf("Monitoring loop finished: state=%s iterations=%d healthy=%d degraded=%d",
		state, r.iteration, r.healthy, r.degraded)
}

// State returns the current lifecycle state.
func (r *Runner) State() State {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.state
}

// Status returns a point-in-time view of the run.
func (r *Runner) Status() Status {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return Status{
		State:      r.state,
		Iterations: r.iteration,
		Healthy:    r.healthy,
		Degraded:   r.degraded,
		StartedAt:  r.startedAt,
		FinishedAt: r.finished,
	}
}

// LatestSnapshot returns the newest buffered snapshot, or nil before the
// first iteration completes.
func (r *Runner) LatestSnapshot() *models.MetricsSnapshot {
	return r.buffer.Latest()
}

// Snapshots returns the buffered snapshots, oldest first.
func (r *Runner) Snapshots() []models.MetricsSnapshot {
	return r.buffer.Snapshots()
}

// Done exposes completion for callers that started the loop in a goroutine.
func (r *Runner) Done() <-chan struct{} {
	return r.done
}
