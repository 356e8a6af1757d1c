package handlers_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/ruangkita/reservation-service/internal/api/handlers"
	"github.com/ruangkita/reservation-service/internal/api/middleware"
	"github.com/ruangkita/reservation-service/internal/domain/entities"
	"github.com/ruangkita/reservation-service/internal/domain/providers"
	"github.com/ruangkita/reservation-service/pkg/auth"
)

// MockEventBus for testing
type MockEventBus struct {
	mu          sync.RWMutex
	subscribers map[string][]chan *providers.Message
	published   int
}

func NewMockEventBus() *MockEventBus {
	return &MockEventBus{
		subscribers: make(map[string][]chan *providers.Message),
	}
}

func (m *MockEventBus) Publish(ctx context.Context, channel string, event any) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return err
	}
	msg := &providers.Message{Channel: channel, Payload: payload}

	m.mu.Lock()
	m.published++
	channels := append([]chan *providers.Message(nil), m.subscribers[channel]...)
	m.mu.Unlock()

	for _, ch := range channels {
		select {
		case ch <- msg:
		default:
		}
	}
	return nil
}

func (m *MockEventBus) Subscribe(ctx context.Context, channel string) (<-chan *providers.Message, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	ch := make(chan *providers.Message, 10)
	m.subscribers[channel] = append(m.subscribers[channel], ch)
	return ch, nil
}

func (m *MockEventBus) Unsubscribe(ctx context.Context, channel string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.subscribers, channel)
	return nil
}

func (m *MockEventBus) Close() error {
	m.mu.Lock()
	subs := m.subscribers
	m.subscribers = make(map[string][]chan *providers.Message)
	m.mu.Unlock()
	for _, channels := range subs {
		for _, ch := range channels {
			close(ch)
		}
	}
	return nil
}

func TestSSEHandler_StreamAlerts(t *testing.T) {
	eventBus := NewMockEventBus()
	handler := handlers.NewSSEHandler(eventBus)

	t.Run("should establish SSE connection", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		req := httptest.NewRequest("GET", "/api/stream/alerts", nil)
		req = req.WithContext(middleware.ContextWithClaims(ctx, &auth.JWTClaims{UserID: "user-1", Role: string(entities.RoleUser)}))
		w := httptest.NewRecorder()

		done := make(chan struct{})
		go func() {
			handler.StreamAlerts(w, req)
			close(done)
		}()

		// Wait a bit for connection to establish
		time.Sleep(100 * time.Millisecond)

		cancel()
		select {
		case <-done:
		case <-time.After(2 * time.Second):
			t.Fatal("handler did not exit after cancel")
		}

		result := w.Result()
		if result.Header.Get("Content-Type") != "text/event-stream" {
			t.Errorf("Expected Content-Type text/event-stream, got %s", result.Header.Get("Content-Type"))
		}
		if result.Header.Get("Cache-Control") != "no-cache" {
			t.Errorf("Expected Cache-Control no-cache, got %s", result.Header.Get("Cache-Control"))
		}
		if !strings.Contains(w.Body.String(), "event: connected") {
			t.Error("Expected a connected event on the stream")
		}
	})

	t.Run("should forward alerts for the authenticated user", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		req := httptest.NewRequest("GET", "/api/stream/alerts", nil)
		req = req.WithContext(middleware.ContextWithClaims(ctx, &auth.JWTClaims{UserID: "user-2", Role: string(entities.RoleUser)}))
		w := httptest.NewRecorder()

		done := make(chan struct{})
		go func() {
			handler.StreamAlerts(w, req)
			close(done)
		}()

		// Wait for connection
		time.Sleep(100 * time.Millisecond)

		alert := &entities.Alert{
			ID:      "alert-1",
			UserID:  "user-2",
			Type:    entities.AlertTypeSuccess,
			Message: "Your reservation for Multipurpose Hall on 2026-09-15 was approved",
		}
		channel := providers.GetUserAlertChannel("user-2")
		eventBus.Publish(context.Background(), channel, alert)

		// Wait for the event to be forwarded
		time.Sleep(200 * time.Millisecond)

		cancel()
		select {
		case <-done:
		case <-time.After(2 * time.Second):
			t.Fatal("handler did not exit after cancel")
		}

		body := w.Body.String()
		if !strings.Contains(body, "event: alert") {
			t.Error("Expected an alert event on the stream")
		}
		if !strings.Contains(body, "was approved") {
			t.Error("Expected the alert payload to be forwarded verbatim")
		}
	})

	t.Run("should reject unauthenticated requests", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/api/stream/alerts", nil)
		w := httptest.NewRecorder()

		handler.StreamAlerts(w, req)

		result := w.Result()
		if result.StatusCode != http.StatusUnauthorized {
			t.Errorf("Expected status 401, got %d", result.StatusCode)
		}
	})
}

func TestSSEHandler_StreamAdminUpdates(t *testing.T) {
	eventBus := NewMockEventBus()
	handler := handlers.NewSSEHandler(eventBus)

	t.Run("should forward pending indicator updates", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		req := httptest.NewRequest("GET", "/api/stream/admin", nil)
		req = req.WithContext(ctx)
		w := httptest.NewRecorder()

		done := make(chan struct{})
		go func() {
			handler.StreamAdminUpdates(w, req)
			close(done)
		}()
		time.Sleep(100 * time.Millisecond)

		update := &entities.AdminUpdate{HasPending: true, PendingCount: 2, Timestamp: time.Now()}
		eventBus.Publish(context.Background(), providers.EventChannelAdminUpdates, update)

		time.Sleep(200 * time.Millisecond)

		cancel()
		select {
		case <-done:
		case <-time.After(2 * time.Second):
			t.Fatal("handler did not exit after cancel")
		}

		body := w.Body.String()
		if !strings.Contains(body, "event: update") {
			t.Error("Expected an update event on the stream")
		}
		if !strings.Contains(body, "\"pending_count\":2") {
			t.Error("Expected the pending count in the payload")
		}
	})

	t.Run("should track client registrations", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())

		req := httptest.NewRequest("GET", "/api/stream/admin", nil)
		req = req.WithContext(ctx)
		w := httptest.NewRecorder()

		done := make(chan struct{})
		go func() {
			handler.StreamAdminUpdates(w, req)
			close(done)
		}()
		time.Sleep(100 * time.Millisecond)

		if handler.GetClientCount() != 1 {
			t.Errorf("Expected 1 connected client, got %d", handler.GetClientCount())
		}

		cancel()
		select {
		case <-done:
		case <-time.After(2 * time.Second):
			t.Fatal("handler did not exit after cancel")
		}

		if handler.GetClientCount() != 0 {
			t.Errorf("Expected 0 connected clients after disconnect, got %d", handler.GetClientCount())
		}
	})
}
