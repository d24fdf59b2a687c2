// Package report renders collected snapshots and alerts into exportable
// documents.
package report

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"time"

	"github.com/YunlongChen/stackwatch/pkg/models"
)

// Format selects the output encoding.
type Format string

const (
	FormatJSON    Format = "json"
	FormatSummary Format = "summary"
	FormatCSV     Format = "csv"
)

var ErrUnknownFormat = fmt.Errorf("unknown report format")

// ParseFormat maps a user-supplied format string, defaulting to JSON for the
// empty string.
func ParseFormat(s string) (Format, error) {
	switch s {
	case "", "json":
		return FormatJSON, nil
	case "summary":
		return FormatSummary, nil
	case "csv":
		return FormatCSV, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownFormat, s)
	}
}

// Generate renders the report. Empty inputs produce a valid empty document in
// every format.
func Generate(snapshots []models.MetricsSnapshot, alertEvents []models.AlertEvent, format Format) ([]byte, error) {
	switch format {
	case FormatJSON:
		return generateJSON(snapshots, alertEvents)
	case FormatSummary:
		return generateSummary(snapshots, alertEvents)
	case FormatCSV:
		return generateCSV(snapshots)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}
}

type jsonReport struct {
	GeneratedAt time.Time                `json:"generated_at"`
	Snapshots   []models.MetricsSnapshot `json:"snapshots"`
	Alerts      []models.AlertEvent      `json:"alerts"`
}

func generateJSON(snapshots []models.MetricsSnapshot, alertEvents []models.AlertEvent) ([]byte, error) {
	if snapshots == nil {
		snapshots = []models.MetricsSnapshot{}
	}

	if alertEvents == nil {
		alertEvents = []models.AlertEvent{}
	}

	return json.MarshalIndent(jsonReport{
		GeneratedAt: time.Now(),
		Snapshots:   snapshots,
		Alerts:      alertEvents,
	}, "", "  ")
}

const topAlertMetrics = 5

func generateSummary(snapshots []models.MetricsSnapshot, alertEvents []models.AlertEvent) ([]byte, error) {
	var buf bytes.Buffer

	fmt.Fprintf(&buf, "Stack Health Report (%s)\n", time.Now().Format(time.RFC3339))
	fmt.Fprintf(&buf, "Snapshots: %d, Alerts: %d\n\n", len(snapshots), len(alertEvents))

	if len(snapshots) > 0 {
		latest := snapshots[len(snapshots)-1]

		fmt.Fprintf(&buf, "Latest iteration %d at %s:\n",
			latest.Iteration, latest.Timestamp.Format(time.RFC3339))

		for _, kind := range models.AllKinds() {
			metrics, ok := latest.Components[kind]
			if !ok {
				continue
			}

			status := "available"
			if !metrics.Available {
				status = "UNAVAILABLE"
			}

			fmt.Fprintf(&buf, "  %-14s %s (%d ms)\n", kind, status, metrics.ResponseTimeMs)
		}

		buf.WriteString("\n")
	}

	warnings, criticals := 0, 0
	byMetric := make(map[string]int)

	for i := range alertEvents {
		switch alertEvents[i].Level {
		case models.AlertCritical:
			criticals++
		default:
			warnings++
		}

		byMetric[alertEvents[i].Metric]++
	}

	fmt.Fprintf(&buf, "Alerts by severity: %d critical, %d warning\n", criticals, warnings)

	if len(byMetric) > 0 {
		type metricCount struct {
			metric string
			count  int
		}

		counts := make([]metricCount, 0, len(byMetric))
		for metric, count := range byMetric {
			counts = append(counts, metricCount{metric, count})
		}

		sort.Slice(counts, func(i, j int) bool {
			if counts[i].count != counts[j].count {
				return counts[i].count > counts[j].count
			}
			return counts[i].metric < counts[j].metric
		})

		if len(counts) > topAlertMetrics {
			counts = counts[:topAlertMetrics]
		}

		buf.WriteString("Top alerting metrics:\n")

		for _, c := range counts {
			fmt.Fprintf(&buf, "  %-28s %d\n", c.metric, c.count)
		}
	}

	return buf.Bytes(), nil
}

var csvHeader = []string{
	"timestamp", "iteration", "component", "available", "response_time_ms", "detail",
}

func generateCSV(snapshots []models.MetricsSnapshot) ([]byte, error) {
	var buf bytes.Buffer

	w := csv.NewWriter(&buf)

	if err := w.Write(csvHeader); err != nil {
		return nil, err
	}

	for i := range snapshots {
		snapshot := &snapshots[i]

		for _, kind := range models.AllKinds() {
			metrics, ok := snapshot.Components[kind]
			if !ok {
				continue
			}

			record := []string{
				snapshot.Timestamp.Format(time.RFC3339),
				strconv.Itoa(snapshot.Iteration),
				string(kind),
				strconv.FormatBool(metrics.Available),
				strconv.FormatInt(metrics.ResponseTimeMs, 10),
				componentDetail(&metrics),
			}

			if err := w.Write(record); err != nil {
				return nil, err
			}
		}
	}

	w.Flush()

	return buf.Bytes(), w.Error()
}

// componentDetail picks one headline figure per component for the CSV detail
// column.
func componentDetail(m *models.ComponentMetrics) string {
	switch {
	case m.Elasticsearch != nil && m.Elasticsearch.Health != nil:
		return "status=" + m.Elasticsearch.Health.Status
	case m.Kibana != nil:
		return "state=" + m.Kibana.OverallState
	case m.Logstash != nil:
		return fmt.Sprintf("heap=%.1f%%", m.Logstash.HeapUsedPercent)
	case m.System != nil && m.System.CPUPercent != nil:
		return fmt.Sprintf("cpu=%.1f%%", *m.System.CPUPercent)
	default:
		return ""
	}
}
