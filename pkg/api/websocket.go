// pkg/api/websocket.go

package api

import (
	"log"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/YunlongChen/stackwatch/pkg/models"
)

const (
	wsWriteWait    = 10 * time.Second
	wsPushInterval = 5 * time.Second
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// Dashboards are served from other origins during development.
	CheckOrigin: func(*http.Request) bool { return true },
}

// handleWebSocket streams the latest snapshot to the client whenever a new
// iteration lands, plus the current one on connect. The read pump exists only
// to observe the client closing.
func (s *APIServer) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("WebSocket upgrade failed: %v", err)
		return
	}
	defer conn.Close()

	closed := make(chan struct{})

	go func() {
		defer close(closed)

		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	ticker := time.NewTicker(wsPushInterval)
	defer ticker.Stop()

	var lastIteration int

	for {
		if snapshot := s.latestSnapshot(); snapshot != nil && snapshot.Iteration != lastIteration {
			lastIteration = snapshot.Iteration

			_ = conn.SetWriteDeadline(time.Now().Add(wsWriteWait))

			if err := conn.WriteJSON(snapshot); err != nil {
				log.Printf("WebSocket write failed: %v", err)
				return
			}
		}

		select {
		case <-closed:
			return
		case <-r.Context().Done():
			return
		case <-ticker.C:
		}
	}
}

func (s *APIServer) latestSnapshot() *models.MetricsSnapshot {
	runner := s.manager.Latest()
	if runner == nil {
		return nil
	}

	return runner.LatestSnapshot()
}
