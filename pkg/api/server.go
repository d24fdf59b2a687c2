// pkg/api/server.go

package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"golang.org/x/time/rate"

	"github.com/YunlongChen/stackwatch/pkg/backup"
	"github.com/YunlongChen/stackwatch/pkg/models"
	"github.com/YunlongChen/stackwatch/pkg/monitor"
	"github.com/YunlongChen/stackwatch/pkg/report"
)

// SystemStatus is the top-level status document.
type SystemStatus struct {
	Runs       map[string]monitor.Status `json:"runs"`
	LastUpdate time.Time                 `json:"last_update"`
}

// APIServer exposes monitoring, alerting and backup operations over HTTP.
type APIServer struct {
	manager *monitor.Manager
	backups BackupManager
	alerts  AlertReader

	monitorDefaults monitor.Config
	router          *mux.Router
	limiter         *rate.Limiter

	// baseCtx is the parent of every monitoring run started through the API,
	// so server shutdown cancels them.
	baseCtx context.Context
	cancel  context.CancelFunc
}

// NewAPIServer wires the router. RateLimit of zero disables request limiting.
func NewAPIServer(manager *monitor.Manager, backups BackupManager, alerts AlertReader,
	monitorDefaults monitor.Config, rateLimit float64, rateBurst int) *APIServer {
	s := &APIServer{
		manager:         manager,
		backups:         backups,
		alerts:          alerts,
		monitorDefaults: monitorDefaults,
		router:          mux.NewRouter(),
	}

	s.baseCtx, s.cancel = context.WithCancel(context.Background())

	if rateLimit > 0 {
		if rateBurst <= 0 {
			rateBurst = int(rateLimit)
		}

		s.limiter = rate.NewLimiter(rate.Limit(rateLimit), rateBurst)
	}

	s.setupRoutes()

	return s
}

func (s *APIServer) setupRoutes() {
	// Add CORS middleware
	s.router.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Access-Control-Allow-Origin", "*")
			w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

			if r.Method == "OPTIONS" {
				w.WriteHeader(http.StatusOK)
				return
			}

			next.ServeHTTP(w, r)
		})
	})

	s.router.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if s.limiter != nil && !s.limiter.Allow() {
				http.Error(w, "Too many requests", http.StatusTooManyRequests)
				return
			}

			next.ServeHTTP(w, r)
		})
	})

	s.router.HandleFunc("/api/status", s.getStatus).Methods("GET")
	s.router.HandleFunc("/api/snapshots", s.getSnapshots).Methods("GET")
	s.router.HandleFunc("/api/snapshots/latest", s.getLatestSnapshot).Methods("GET")
	s.router.HandleFunc("/api/alerts", s.getAlerts).Methods("GET")

	s.router.HandleFunc("/api/monitor/start", s.startMonitoring).Methods("POST")
	s.router.HandleFunc("/api/monitor/stop", s.stopMonitoring).Methods("POST")

	s.router.HandleFunc("/api/backups", s.createBackup).Methods("POST")
	s.router.HandleFunc("/api/backups", s.listBackups).Methods("GET")
	s.router.HandleFunc("/api/backups/{name}/verify", s.verifyBackup).Methods("GET")
	s.router.HandleFunc("/api/backups/{name}/restore", s.restoreBackup).Methods("POST")

	s.router.HandleFunc("/api/report", s.getReport).Methods("GET")

	s.router.HandleFunc("/api/ws", s.handleWebSocket).Methods("GET")
}

// Router exposes the handler for tests and for the lifecycle server.
func (s *APIServer) Router() http.Handler {
	return s.router
}

func (s *APIServer) getStatus(w http.ResponseWriter, _ *http.Request) {
	status := SystemStatus{
		Runs:       s.manager.Runs(),
		LastUpdate: time.Now(),
	}

	writeJSON(w, http.StatusOK, status)
}

func (s *APIServer) getSnapshots(w http.ResponseWriter, _ *http.Request) {
	runner := s.manager.Latest()
	if runner == nil {
		writeJSON(w, http.StatusOK, []models.MetricsSnapshot{})
		return
	}

	writeJSON(w, http.StatusOK, runner.Snapshots())
}

func (s *APIServer) getLatestSnapshot(w http.ResponseWriter, _ *http.Request) {
	runner := s.manager.Latest()
	if runner == nil {
		http.Error(w, "No monitoring run", http.StatusNotFound)
		return
	}

	snapshot := runner.LatestSnapshot()
	if snapshot == nil {
		http.Error(w, "No snapshot yet", http.StatusNotFound)
		return
	}

	writeJSON(w, http.StatusOK, snapshot)
}

func (s *APIServer) getAlerts(w http.ResponseWriter, r *http.Request) {
	since := time.Now().Add(-24 * time.Hour)

	if raw := r.URL.Query().Get("since"); raw != "" {
		parsed, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			http.Error(w, "Invalid since parameter, expected RFC3339", http.StatusBadRequest)
			return
		}

		since = parsed
	}

	events, err := s.alerts.GetAlerts(since)
	if err != nil {
		log.Printf("Error reading alerts: %v", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)

		return
	}

	if events == nil {
		events = []models.AlertEvent{}
	}

	writeJSON(w, http.StatusOK, events)
}

type startMonitorRequest struct {
	Interval   string `json:"interval,omitempty"`
	Duration   string `json:"duration,omitempty"`
	Continuous bool   `json:"continuous,omitempty"`
}

type startMonitorResponse struct {
	RunID string `json:"run_id"`
}

func (s *APIServer) startMonitoring(w http.ResponseWriter, r *http.Request) {
	cfg := s.monitorDefaults

	// An empty body means "use configured defaults".
	var req startMonitorRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if req.Interval != "" {
		interval, err := time.ParseDuration(req.Interval)
		if err != nil {
			http.Error(w, "Invalid interval", http.StatusBadRequest)
			return
		}

		cfg.Interval = interval
	}

	if req.Duration != "" {
		duration, err := time.ParseDuration(req.Duration)
		if err != nil {
			http.Error(w, "Invalid duration", http.StatusBadRequest)
			return
		}

		cfg.Duration = duration
	}

	if req.Continuous {
		cfg.Continuous = true
	}

	// The run outlives this request, so it derives from the server context
	// rather than the request context. It stops via /api/monitor/stop, its
	// configured duration, or server shutdown.
	id, _, err := s.manager.StartRun(s.baseCtx, cfg)
	if err != nil {
		log.Printf("Error starting monitoring run: %v", err)
		http.Error(w, "Failed to start monitoring", http.StatusInternalServerError)

		return
	}

	writeJSON(w, http.StatusAccepted, startMonitorResponse{RunID: id})
}

type stopMonitorRequest struct {
	RunID string `json:"run_id"`
}

func (s *APIServer) stopMonitoring(w http.ResponseWriter, r *http.Request) {
	var req stopMonitorRequest

	_ = json.NewDecoder(r.Body).Decode(&req)

	if req.RunID == "" {
		http.Error(w, "run_id is required", http.StatusBadRequest)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	if err := s.manager.StopRun(ctx, req.RunID); err != nil {
		if errors.Is(err, monitor.ErrRunNotFound) {
			http.Error(w, "Run not found", http.StatusNotFound)
			return
		}

		log.Printf("Error stopping run %s: %v", req.RunID, err)
		http.Error(w, "Failed to stop monitoring", http.StatusInternalServerError)

		return
	}

	w.WriteHeader(http.StatusNoContent)
}

type createBackupRequest struct {
	Name    string   `json:"name"`
	Type    string   `json:"type,omitempty"` // snapshot (default) or config
	Indices []string `json:"indices,omitempty"`
}

func (s *APIServer) createBackup(w http.ResponseWriter, r *http.Request) {
	var req createBackupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if req.Name == "" {
		req.Name = fmt.Sprintf("backup-%s", time.Now().Format("20060102-150405"))
	}

	var (
		meta *models.BackupMetadata
		err  error
	)

	switch req.Type {
	case "", string(models.BackupSnapshot):
		meta, err = s.backups.CreateSnapshot(r.Context(), req.Name, req.Indices)
	case string(models.BackupConfig):
		meta, err = s.backups.CreateConfigBackup(r.Context(), req.Name)
	default:
		http.Error(w, "Unknown backup type", http.StatusBadRequest)
		return
	}

	if err != nil {
		// FAILED and PARTIAL outcomes still carry metadata worth returning.
		if meta != nil {
			log.Printf("Backup %s finished with error: %v", req.Name, err)
			writeJSON(w, http.StatusInternalServerError, meta)

			return
		}

		log.Printf("Backup %s failed: %v", req.Name, err)
		http.Error(w, "Backup failed", http.StatusInternalServerError)

		return
	}

	writeJSON(w, http.StatusCreated, meta)
}

func (s *APIServer) listBackups(w http.ResponseWriter, _ *http.Request) {
	backups, err := s.backups.List()
	if err != nil {
		log.Printf("Error listing backups: %v", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)

		return
	}

	if backups == nil {
		backups = []models.BackupMetadata{}
	}

	writeJSON(w, http.StatusOK, backups)
}

func (s *APIServer) verifyBackup(w http.ResponseWriter, r *http.Request) {
	name := mux.Vars(r)["name"]

	results, err := s.backups.Verify(name)
	if err != nil {
		if errors.Is(err, backup.ErrManifestNotFound) {
			http.Error(w, "Backup not found", http.StatusNotFound)
			return
		}

		log.Printf("Error verifying backup %s: %v", name, err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)

		return
	}

	writeJSON(w, http.StatusOK, results)
}

type restoreRequest struct {
	Force bool `json:"force,omitempty"`
}

func (s *APIServer) restoreBackup(w http.ResponseWriter, r *http.Request) {
	name := mux.Vars(r)["name"]

	var req restoreRequest

	_ = json.NewDecoder(r.Body).Decode(&req)

	if err := s.backups.Restore(r.Context(), name, req.Force); err != nil {
		if errors.Is(err, backup.ErrSnapshotNotFound) {
			http.Error(w, "Snapshot not found", http.StatusNotFound)
			return
		}

		log.Printf("Error restoring %s: %v", name, err)
		http.Error(w, "Restore failed", http.StatusInternalServerError)

		return
	}

	w.WriteHeader(http.StatusAccepted)
}

func (s *APIServer) getReport(w http.ResponseWriter, r *http.Request) {
	format, err := report.ParseFormat(r.URL.Query().Get("format"))
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	var snapshots []models.MetricsSnapshot
	if runner := s.manager.Latest(); runner != nil {
		snapshots = runner.Snapshots()
	}

	events, err := s.alerts.GetAlerts(time.Now().Add(-24 * time.Hour))
	if err != nil {
		log.Printf("Error reading alerts for report: %v", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)

		return
	}

	doc, err := report.Generate(snapshots, events, format)
	if err != nil {
		log.Printf("Error generating report: %v", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)

		return
	}

	switch format {
	case report.FormatJSON:
		w.Header().Set("Content-Type", "application/json")
	case report.FormatCSV:
		w.Header().Set("Content-Type", "text/csv")
	default:
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	}

	_, _ = w.Write(doc)
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("Error encoding response: %v", err)
	}
}

// Start serves the API on addr. It blocks.
func (s *APIServer) Start(addr string) error {
	return http.ListenAndServe(addr, s.router)
}

// Stop cancels every monitoring run started through the API.
func (s *APIServer) Stop() {
	s.cancel()
}
