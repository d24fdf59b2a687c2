// cmd/stackwatch/main.go
package main

import (
	"context"
	"flag"
	"log"
	"time"

	"github.com/YunlongChen/stackwatch/pkg/alerts"
	"github.com/YunlongChen/stackwatch/pkg/api"
	"github.com/YunlongChen/stackwatch/pkg/backup"
	"github.com/YunlongChen/stackwatch/pkg/collector"
	"github.com/YunlongChen/stackwatch/pkg/config"
	"github.com/YunlongChen/stackwatch/pkg/db"
	"github.com/YunlongChen/stackwatch/pkg/lifecycle"
	"github.com/YunlongChen/stackwatch/pkg/monitor"
)

const retentionSweepInterval = time.Hour

// stackService is the lifecycle service: it owns the standing monitoring run
// and the alert retention sweeper.
type stackService struct {
	manager   *monitor.Manager
	monitor   monitor.Config
	database  db.Service
	api       *api.APIServer
	retention time.Duration

	runID string
}

func (s *stackService) Start(ctx context.Context) error {
	id, runner, err := s.manager.StartRun(ctx, s.monitor)
	if err != nil {
		return err
	}

	s.runID = id

	log.Printf("Standing monitoring run %s started", id)

	ticker := time.NewTicker(retentionSweepInterval)
	defer ticker.Stop()

	done := runner.Done()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-done:
			// A non-continuous run finishing is not an error; the API can
			// start further runs. A nil channel blocks forever.
			log.Printf("Standing monitoring run %s finished", s.runID)

			done = nil
		case <-ticker.C:
			removed, err := s.database.CleanOldAlerts(s.retention)
			if err != nil {
				log.Printf("Alert retention sweep failed: %v", err)
			} else if removed > 0 {
				log.Printf("Alert retention sweep removed %d alerts", removed)
			}
		}
	}
}

func (s *stackService) Stop(ctx context.Context) error {
	// Winds down API-started runs along with the standing one.
	s.api.Stop()

	if s.runID != "" {
		if err := s.manager.StopRun(ctx, s.runID); err != nil {
			log.Printf("Error stopping run %s: %v", s.runID, err)
		}
	}

	return s.database.Close()
}

func main() {
	configPath := flag.String("config", "/etc/stackwatch/stackwatch.json", "Path to config file")
	flag.Parse()

	cfg := &config.Config{}
	if err := config.LoadAndValidate(*configPath, cfg); err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	database, err := db.New(cfg.DBPath)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}

	collectors := []collector.Collector{
		collector.NewElasticsearch(collector.NewHTTPClient(cfg.Endpoints.Elasticsearch)),
		collector.NewKibana(collector.NewHTTPClient(cfg.Endpoints.Kibana)),
		collector.NewLogstash(collector.NewHTTPClient(cfg.Endpoints.Logstash)),
		collector.NewSystem(collector.NewHostProvider()),
	}

	sink := buildSink(cfg, database)
	manager := monitor.NewManager(collectors, sink)

	monitorCfg := monitor.Config{
		Interval:       time.Duration(cfg.Monitor.Interval),
		Duration:       time.Duration(cfg.Monitor.Duration),
		Continuous:     cfg.Monitor.Continuous,
		RequestTimeout: time.Duration(cfg.Monitor.RequestTimeout),
		BufferSize:     cfg.Monitor.BufferSize,
		Thresholds:     *cfg.Thresholds,
	}

	snapshotClient := backup.NewESSnapshotClient(collector.NewHTTPClient(backupEndpoint(cfg)))
	orchestrator := backup.NewOrchestrator(backup.Config{
		Repository:     cfg.Backup.Repository,
		RepositoryPath: cfg.Backup.RepositoryPath,
		BackupDir:      cfg.Backup.BackupDir,
		ConfigDirs:     cfg.Backup.ConfigDirs,
		PollInterval:   time.Duration(cfg.Backup.PollInterval),
	}, snapshotClient, database)

	apiServer := api.NewAPIServer(manager, orchestrator, database, monitorCfg,
		cfg.API.RateLimit, cfg.API.RateBurst)

	svc := &stackService{
		manager:   manager,
		monitor:   monitorCfg,
		database:  database,
		api:       apiServer,
		retention: time.Duration(cfg.Alerting.Retention),
	}

	if err := lifecycle.RunServer(context.Background(), &lifecycle.ServerOptions{
		ListenAddr:  cfg.API.ListenAddr,
		ServiceName: "stackwatch",
		Service:     svc,
		Handler:     apiServer.Router(),
	}); err != nil && err != context.Canceled {
		log.Fatalf("Service failed: %v", err)
	}
}

// buildSink composes the alert pipeline: always log and persist, plus any
// enabled webhooks.
func buildSink(cfg *config.Config, database db.Service) alerts.AlertSink {
	sinks := []alerts.AlertSink{
		alerts.NewLogSink(),
		alerts.NewStoreSink(database),
	}

	for i := range cfg.Alerting.Webhooks {
		w := cfg.Alerting.Webhooks[i]
		if !w.Enabled {
			continue
		}

		sinks = append(sinks, alerts.NewWebhookAlerter(alerts.WebhookConfig{
			Enabled:  w.Enabled,
			URL:      w.URL,
			Cooldown: time.Duration(w.Cooldown),
			Template: w.Template,
			Headers:  webhookHeaders(w.Headers),
		}))
	}

	return alerts.NewMultiSink(sinks...)
}

func webhookHeaders(headers []config.Header) []alerts.Header {
	out := make([]alerts.Header, 0, len(headers))
	for _, h := range headers {
		out = append(out, alerts.Header{Key: h.Key, Value: h.Value})
	}

	return out
}

// backupEndpoint reuses the Elasticsearch endpoint with the backup request
// timeout, which is longer than the monitoring one.
func backupEndpoint(cfg *config.Config) config.EndpointConfig {
	endpoint := cfg.Endpoints.Elasticsearch
	endpoint.Timeout = cfg.Backup.RequestTimeout

	return endpoint
}
