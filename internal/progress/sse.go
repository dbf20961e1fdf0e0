package progress

import (
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"
)

// SSEClient is one connected browser waiting for import progress.
type SSEClient struct {
	userID   string
	writer   http.ResponseWriter
	flusher  http.Flusher
	done     chan bool
	lastPing time.Time
}

// SSEServer pushes import-run progress events to the user that started
// the run, so the UI can render a progress bar without polling.
type SSEServer struct {
	mu         sync.RWMutex
	clients    map[string]*SSEClient
	pingTicker *time.Ticker
	stopCh     chan struct{}
}

var globalSSEServer *SSEServer

func NewSSEServer() *SSEServer {
	s := &SSEServer{
		clients: make(map[string]*SSEClient),
		stopCh:  make(chan struct{}),
	}
	globalSSEServer = s

	// Start ping routine to keep connections alive
	s.pingTicker = time.NewTicker(30 * time.Second)
	go s.pingClients()

	return s
}

func GetSSEServer() *SSEServer {
	return globalSSEServer
}

// HandleSSE handles SSE connections
func (s *SSEServer) HandleSSE(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("Access-Control-Allow-Origin", "*")

	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "Streaming unsupported", http.StatusInternalServerError)
		return
	}

	userID := r.URL.Query().Get("user_id")
	if userID == "" {
		http.Error(w, "user_id parameter required", http.StatusBadRequest)
		return
	}

	client := &SSEClient{
		userID:   userID,
		writer:   w,
		flusher:  flusher,
		done:     make(chan bool),
		lastPing: time.Now(),
	}

	s.mu.Lock()
	// Close existing connection for this user if any
	if existingClient, exists := s.clients[userID]; exists {
		close(existingClient.done)
	}
	s.clients[userID] = client
	s.mu.Unlock()

	s.sendToClient(client, map[string]interface{}{
		"type":    "connected",
		"message": "SSE connection established",
		"time":    time.Now().Format(time.RFC3339),
	})

	defer func() {
		s.mu.Lock()
		if s.clients[userID] == client {
			delete(s.clients, userID)
		}
		s.mu.Unlock()
	}()

	// Block until connection is closed
	select {
	case <-client.done:
		return
	case <-r.Context().Done():
		return
	case <-s.stopCh:
		return
	}
}

func (s *SSEServer) sendToClient(client *SSEClient, data interface{}) error {
	jsonData, err := json.Marshal(data)
	if err != nil {
		return err
	}

	_, err = fmt.Fprintf(client.writer, "data: %s\n\n", jsonData)
	if err != nil {
		return err
	}

	client.flusher.Flush()
	return nil
}

func (s *SSEServer) pingClients() {
	defer s.pingTicker.Stop()

	for {
		select {
		case <-s.pingTicker.C:
			s.mu.RLock()
			for userID, client := range s.clients {
				err := s.sendToClient(client, map[string]interface{}{
					"type": "ping",
					"time": time.Now().Format(time.RFC3339),
				})
				if err != nil {
					// Remove failed client
					go func(uid string, c *SSEClient) {
						s.mu.Lock()
						if s.clients[uid] == c {
							delete(s.clients, uid)
							close(c.done)
						}
						s.mu.Unlock()
					}(userID, client)
				} else {
					client.lastPing = time.Now()
				}
			}
			s.mu.RUnlock()
		case <-s.stopCh:
			return
		}
	}
}

func (s *SSEServer) Stop() {
	close(s.stopCh)
	s.mu.Lock()
	for _, client := range s.clients {
		close(client.done)
	}
	s.clients = make(map[string]*SSEClient)
	s.mu.Unlock()
}

// SendImportProgress pushes a progress percentage for the active import
// run of userID. Safe to call when the user has no open stream.
func SendImportProgress(userID string, pct int) {
	if globalSSEServer == nil {
		return
	}

	globalSSEServer.mu.RLock()
	client, exists := globalSSEServer.clients[userID]
	globalSSEServer.mu.RUnlock()

	if !exists {
		return
	}

	err := globalSSEServer.sendToClient(client, map[string]interface{}{
		"type": "import_progress",
		"pct":  pct,
		"time": time.Now().Format(time.RFC3339),
	})
	if err != nil {
		globalSSEServer.mu.Lock()
		if globalSSEServer.clients[userID] == client {
			delete(globalSSEServer.clients, userID)
			close(client.done)
		}
		globalSSEServer.mu.Unlock()
	}
}
