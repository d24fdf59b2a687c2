package config

import (
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/YunlongChen/stackwatch/pkg/models"
)

const (
	defaultMonitorInterval = 60 * time.Second
	defaultRequestTimeout  = 30 * time.Second
	defaultBackupTimeout   = 60 * time.Second
	defaultBackupPoll      = 5 * time.Second
	defaultBufferSize      = 1000
	defaultAlertRetention  = 30 * 24 * time.Hour
)

var errInvalidDuration = fmt.Errorf("invalid duration")

type Duration time.Duration

func (d *Duration) UnmarshalJSON(b []byte) error {
	var v interface{}
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}

	switch value := v.(type) {
	case float64:
		// parse numeric as nanoseconds
		*d = Duration(time.Duration(value))
		return nil
	case string:
		dur, err := time.ParseDuration(value)
		if err != nil {
			return fmt.Errorf("invalid duration: %w", err)
		}

		*d = Duration(dur)

		return nil
	default:
		return errInvalidDuration
	}
}

func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(time.Duration(d).String())
}

// EndpointConfig describes how to reach one monitored component's HTTP API.
type EndpointConfig struct {
	URL                string   `json:"url"`
	Username           string   `json:"username,omitempty"`
	Password           string   `json:"password,omitempty"`
	InsecureSkipVerify bool     `json:"insecure_skip_verify,omitempty"`
	Timeout            Duration `json:"timeout,omitempty"`
}

// EndpointsConfig groups the component endpoints.
type EndpointsConfig struct {
	Elasticsearch EndpointConfig `json:"elasticsearch"`
	Kibana        EndpointConfig `json:"kibana"`
	Logstash      EndpointConfig `json:"logstash"`
}

// MonitorConfig controls the monitoring loop. Duration of zero with
// Continuous false means a single iteration; Continuous true runs until
// cancelled.
type MonitorConfig struct {
	Interval       Duration `json:"interval"`
	Duration       Duration `json:"duration,omitempty"`
	Continuous     bool     `json:"continuous,omitempty"`
	RequestTimeout Duration `json:"request_timeout,omitempty"`
	BufferSize     int      `json:"buffer_size,omitempty"`
}

// BackupConfig controls the snapshot/backup orchestrator.
type BackupConfig struct {
	Repository     string   `json:"repository"`
	RepositoryPath string   `json:"repository_path"`
	BackupDir      string   `json:"backup_dir"`
	ConfigDirs     []string `json:"config_dirs,omitempty"`
	PollInterval   Duration `json:"poll_interval,omitempty"`
	RequestTimeout Duration `json:"request_timeout,omitempty"`
}

// WebhookConfig represents a webhook alert destination.
type WebhookConfig struct {
	Enabled  bool     `json:"enabled"`
	URL      string   `json:"url"`
	Cooldown Duration `json:"cooldown"`
	Template string   `json:"template"`
	Headers  []Header `json:"headers,omitempty"` // Optional custom headers
}

// Header represents a custom HTTP header.
type Header struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// AlertingConfig controls alert sinks and retention of the alert log.
type AlertingConfig struct {
	Webhooks  []WebhookConfig `json:"webhooks,omitempty"`
	Retention Duration        `json:"retention,omitempty"`
}

// APIConfig controls the HTTP API server.
type APIConfig struct {
	ListenAddr string  `json:"listen_addr"`
	RateLimit  float64 `json:"rate_limit,omitempty"` // requests per second, 0 disables
	RateBurst  int     `json:"rate_burst,omitempty"`
}

// Config is the root stackwatch configuration document.
type Config struct {
	DBPath     string             `json:"db_path"`
	Endpoints  EndpointsConfig    `json:"endpoints"`
	Monitor    MonitorConfig      `json:"monitor"`
	Thresholds *models.Thresholds `json:"thresholds,omitempty"`
	Backup     BackupConfig       `json:"backup"`
	Alerting   AlertingConfig     `json:"alerting"`
	API        APIConfig          `json:"api"`
}

var (
	errNoElasticsearchURL = fmt.Errorf("endpoints.elasticsearch.url is required")
	errNoListenAddr       = fmt.Errorf("api.listen_addr is required")
)

// Validate checks required fields and fills documented defaults. Missing
// thresholds are not an error: the defaults are applied with a warning,
// matching the behavior operators relied on.
func (c *Config) Validate() error {
	if c.Endpoints.Elasticsearch.URL == "" {
		return errNoElasticsearchURL
	}

	if c.API.ListenAddr == "" {
		return errNoListenAddr
	}

	if c.Monitor.Interval <= 0 {
		c.Monitor.Interval = Duration(defaultMonitorInterval)
	}

	if c.Monitor.RequestTimeout <= 0 {
		c.Monitor.RequestTimeout = Duration(defaultRequestTimeout)
	}

	if c.Monitor.BufferSize <= 0 {
		c.Monitor.BufferSize = defaultBufferSize
	}

	if c.Backup.PollInterval <= 0 {
		c.Backup.PollInterval = Duration(defaultBackupPoll)
	}

	if c.Backup.RequestTimeout <= 0 {
		c.Backup.RequestTimeout = Duration(defaultBackupTimeout)
	}

	if c.Alerting.Retention <= 0 {
		c.Alerting.Retention = Duration(defaultAlertRetention)
	}

	if c.Thresholds == nil {
		log.Printf("WARN: no thresholds configured, falling back to defaults")

		t := models.DefaultThresholds()
		c.Thresholds = &t
	} else {
		// A partial thresholds section keeps defaults for the components it
		// leaves out instead of zeroing their limits.
		c.Thresholds.FillDefaults()
	}

	return nil
}
