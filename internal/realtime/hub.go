package realtime

import (
	"encoding/json"
	"log/slog"
	"sync"

	"kanboard/internal/metrics"
)

// Event types pushed to board subscribers.
const (
	CategoryCreated = "category_created"
	CategoryUpdated = "category_updated"
	CategoryRemoved = "category_removed"
	ColumnCreated   = "column_created"
	ColumnUpdated   = "column_updated"
	ColumnRemoved   = "column_removed"
	ColumnMoved     = "column_moved"
	FileCreated     = "file_created"
)

// Event is the JSON message sent to websocket clients of a project.
type Event struct {
	Type      string `json:"type"`
	ProjectID int    `json:"projectId"`
	ID        int    `json:"id"`
	Version   int    `json:"version"`
}

// Client is one subscriber connection; the network side lives in the ws handler.
type Client interface {
	Send(message []byte) bool
	Close()
}

// Hub keeps the clients watching each project board.
type Hub struct {
	mu               sync.RWMutex
	projectToClients map[int]map[Client]struct{}
}

var hubInstance *Hub
var once sync.Once

// GetHub returns the process-wide hub.
func GetHub() *Hub {
	once.Do(func() {
		hubInstance = NewHub()
	})
	return hubInstance
}

func NewHub() *Hub {
	return &Hub{projectToClients: make(map[int]map[Client]struct{})}
}

// Register subscribes client to a project's events.
func (h *Hub) Register(projectID int, client Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.projectToClients[projectID]; !ok {
		h.projectToClients[projectID] = make(map[Client]struct{})
	}
	h.projectToClients[projectID][client] = struct{}{}
	metrics.RealtimeClients.Inc()
}

// Unregister removes a client and drops empty project entries.
func (h *Hub) Unregister(projectID int, client Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	clients, ok := h.projectToClients[projectID]
	if !ok {
		return
	}
	if _, ok := clients[client]; !ok {
		return
	}
	delete(clients, client)
	metrics.RealtimeClients.Dec()
	if len(clients) == 0 {
		delete(h.projectToClients, projectID)
	}
}

// Subscribers returns the number of clients watching a project.
func (h *Hub) Subscribers(projectID int) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.projectToClients[projectID])
}

// Publish sends an event to every client of the project. Failed writes are
// left for the owning handler to clean up.
func (h *Hub) Publish(projectID int, eventType string, id int) {
	message, err := json.Marshal(Event{Type: eventType, ProjectID: projectID, ID: id, Version: 1})
	if err != nil {
		slog.Error("encode realtime event", "type", eventType, "error", err)
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()
	for c := range h.projectToClients[projectID] {
		if !c.Send(message) {
			slog.Debug("realtime send failed", "project_id", projectID, "type", eventType)
		}
	}
}
