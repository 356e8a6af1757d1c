package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/ruangkita/reservation-service/internal/api/middleware"
	"github.com/ruangkita/reservation-service/internal/domain/providers"
)

// SSEHandler streams reservation alerts and admin updates to browsers
type SSEHandler struct {
	eventBus providers.EventBus
	clients  map[string]map[chan *providers.Message]bool // channel -> clients
	mu       sync.RWMutex
}

// NewSSEHandler creates a new SSE handler
func NewSSEHandler(eventBus providers.EventBus) *SSEHandler {
	return &SSEHandler{
		eventBus: eventBus,
		clients:  make(map[string]map[chan *providers.Message]bool),
	}
}

// StreamAlerts handles SSE connections for a user's own reservation alerts
// GET /api/stream/alerts
func (h *SSEHandler) StreamAlerts(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	channel := providers.GetUserAlertChannel(claims.UserID)
	h.stream(w, r, channel, "alert", map[string]interface{}{
		"user_id":   claims.UserID,
		"timestamp": time.Now(),
	})
}

// StreamAdminUpdates handles SSE connections for the admin dashboard's
// pending indicator
// GET /api/stream/admin
func (h *SSEHandler) StreamAdminUpdates(w http.ResponseWriter, r *http.Request) {
	h.stream(w, r, providers.EventChannelAdminUpdates, "update", map[string]interface{}{
		"timestamp": time.Now(),
	})
}

// stream runs one SSE connection: a connected event first, then forwarded
// bus messages, with a heartbeat every 30 seconds to keep proxies from
// closing the connection.
func (h *SSEHandler) stream(w http.ResponseWriter, r *http.Request, channel, eventName string, connectPayload map[string]interface{}) {
	if h.eventBus == nil {
		respondWithError(w, http.StatusServiceUnavailable, "live updates are not available")
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		respondWithError(w, http.StatusInternalServerError, "streaming not supported")
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("Access-Control-Allow-Origin", "*")

	clientChan := make(chan *providers.Message, 10)
	h.registerClient(channel, clientChan)
	defer h.unregisterClient(channel, clientChan)

	eventChan, err := h.eventBus.Subscribe(r.Context(), channel)
	if err != nil {
		log.Printf("Failed to subscribe to channel %s: %v", channel, err)
		return
	}

	h.sendEvent(w, "connected", connectPayload)
	flusher.Flush()

	go h.forwardMessages(r.Context(), eventChan, clientChan)

	ticker := time.NewTicker(30 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-r.Context().Done():
			log.Printf("Client disconnected from channel: %s", channel)
			return
		case <-ticker.C:
			h.sendEvent(w, "heartbeat", map[string]interface{}{
				"timestamp": time.Now(),
			})
			flusher.Flush()
		case msg := <-clientChan:
			if msg == nil {
				continue
			}
			h.sendRawEvent(w, eventName, msg.Payload)
			flusher.Flush()
		}
	}
}

// forwardMessages forwards bus messages to a client channel
func (h *SSEHandler) forwardMessages(ctx context.Context, eventChan <-chan *providers.Message, clientChan chan<- *providers.Message) {
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-eventChan:
			if !ok {
				return
			}
			select {
			case clientChan <- msg:
			default:
				// Client channel full, skip message
			}
		}
	}
}

// registerClient registers a client for a channel
func (h *SSEHandler) registerClient(channel string, clientChan chan *providers.Message) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.clients[channel] == nil {
		h.clients[channel] = make(map[chan *providers.Message]bool)
	}
	h.clients[channel][clientChan] = true
	log.Printf("Client registered for channel: %s (total: %d)", channel, len(h.clients[channel]))
}

// unregisterClient unregisters a client from a channel
func (h *SSEHandler) unregisterClient(channel string, clientChan chan *providers.Message) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if clients, exists := h.clients[channel]; exists {
		delete(clients, clientChan)
		log.Printf("Client unregistered from channel: %s (remaining: %d)", channel, len(clients))

		if len(clients) == 0 {
			delete(h.clients, channel)
		}
	}
}

// sendEvent sends an SSE event with a JSON-marshalled payload
func (h *SSEHandler) sendEvent(w http.ResponseWriter, eventType string, data interface{}) {
	jsonData, err := json.Marshal(data)
	if err != nil {
		log.Printf("Failed to marshal event data: %v", err)
		return
	}
	h.sendRawEvent(w, eventType, jsonData)
}

// sendRawEvent sends an SSE event whose payload is already JSON
func (h *SSEHandler) sendRawEvent(w http.ResponseWriter, eventType string, data []byte) {
	fmt.Fprintf(w, "event: %s\n", eventType)
	fmt.Fprintf(w, "data: %s\n\n", data)
}

// GetClientCount returns the number of connected clients for debugging
func (h *SSEHandler) GetClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()

	count := 0
	for _, clients := range h.clients {
		count += len(clients)
	}
	return count
}
