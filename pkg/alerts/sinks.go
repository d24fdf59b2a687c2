package alerts

import (
	"context"
	"log"
	"sync"

	"github.com/YunlongChen/stackwatch/pkg/models"
)

// LogSink writes alerts to the process log. The logger serialises writes, so
// no extra locking is needed.
type LogSink struct{}

// NewLogSink returns a sink that logs every alert.
func NewLogSink() *LogSink {
	return &LogSink{}
}

// Send implements AlertSink.
func (*LogSink) Send(_ context.Context, alert *models.AlertEvent) error {
	log.Printf("ALERT [%s] %s/%s: %s (value=%.2f threshold=%.2f)",
		alert.Level, alert.Component, alert.Metric, alert.Message, alert.Value, alert.Threshold)

	return nil
}

// StoreSink appends alerts to the durable append-only alert log.
type StoreSink struct {
	store AlertStore
	mu    sync.Mutex
}

// NewStoreSink returns a sink backed by the given store.
func NewStoreSink(store AlertStore) *StoreSink {
	return &StoreSink{store: store}
}

// Send implements AlertSink. Appends are serialised so concurrent
// per-component evaluations don't interleave inside the store.
func (s *StoreSink) Send(_ context.Context, alert *models.AlertEvent) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.store.StoreAlert(alert)
}

// MultiSink fans an alert out to every registered sink. A failing sink is
// logged and does not block the others.
type MultiSink struct {
	sinks []AlertSink
}

// NewMultiSink combines the given sinks.
func NewMultiSink(sinks ...AlertSink) *MultiSink {
	return &MultiSink{sinks: sinks}
}

// Send implements AlertSink.
func (m *MultiSink) Send(ctx context.Context, alert *models.AlertEvent) error {
	for _, sink := range m.sinks {
		if err := sink.Send(ctx, alert); err != nil {
			log.Printf("alert sink error: %v", err)
		}
	}

	return nil
}
