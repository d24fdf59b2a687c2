// Package alerts pkg/alerts/interfaces.go
package alerts

import (
	"context"

	"github.com/YunlongChen/stackwatch/pkg/models"
)

//go:generate mockgen -destination=mock_alerts.go -package=alerts github.com/YunlongChen/stackwatch/pkg/alerts AlertSink

// AlertSink receives alert events. Implementations must be safe for
// concurrent use: per-component evaluations run in parallel within one
// monitoring iteration.
type AlertSink interface {
	Send(ctx context.Context, alert *models.AlertEvent) error
}

// AlertStore is the persistence surface the store sink appends to. The db
// package implements it.
type AlertStore interface {
	StoreAlert(alert *models.AlertEvent) error
}
