// server/internal/socket/hub.go
package socket

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

// Hub tracks connected WebSocket clients, keyed by user id. One connection
// per user: a new registration replaces any previous one.
type Hub struct {
	clients map[string]*websocket.Conn
	mu      sync.RWMutex
	log     *zap.Logger
}

func NewHub(log *zap.Logger) *Hub {
	return &Hub{
		clients: make(map[string]*websocket.Conn),
		log:     log,
	}
}

// Register adds a client connection to the Hub.
func (h *Hub) Register(userID string, conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.clients[userID] = conn
	h.log.Info("websocket client registered", zap.String("userId", userID))
}

// Unregister removes a client from the Hub.
func (h *Hub) Unregister(userID string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.clients[userID]; ok {
		delete(h.clients, userID)
		h.log.Info("websocket client unregistered", zap.String("userId", userID))
	}
}

// StatusEvent is pushed to a parcel's owner when its status changes.
type StatusEvent struct {
	Type           string    `json:"type"`
	ParcelID       string    `json:"parcelId"`
	TrackingNumber string    `json:"trackingNumber"`
	Status         string    `json:"status"`
	Location       string    `json:"location"`
	Timestamp      time.Time `json:"timestamp"`
}

// SendStatusEvent delivers a status event to one user. An offline user is
// not an error; the fetch-on-load path will catch them up.
func (h *Hub) SendStatusEvent(userID string, event StatusEvent) error {
	if event.Type == "" {
		event.Type = "parcel_status"
	}
	payload, err := json.Marshal(event)
	if err != nil {
		return err
	}

	h.mu.RLock()
	defer h.mu.RUnlock()

	conn, ok := h.clients[userID]
	if !ok {
		h.log.Debug("websocket client not connected, status event dropped",
			zap.String("userId", userID))
		return nil
	}
	return conn.WriteMessage(websocket.TextMessage, payload)
}
