package services

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/ruangkita/reservation-service/internal/domain/entities"
	"github.com/ruangkita/reservation-service/internal/domain/providers"
	"github.com/ruangkita/reservation-service/internal/domain/repositories"
	"github.com/ruangkita/reservation-service/internal/infrastructure/observability"
)

// StatusWatchService consumes reservation change events and turns status
// transitions into user alerts. Events are only a re-fetch trigger: every
// event causes a full reservation reload, a diff against the last observed
// statuses, and a wholesale overwrite of that snapshot. Reloading twice for
// the same change therefore produces no duplicate alerts.
type StatusWatchService struct {
	repo     repositories.ReservationRepository
	eventBus providers.EventBus
	alerts   *AlertService
	metrics  *observability.Metrics

	mu           sync.Mutex
	lastStatuses map[string]entities.ReservationStatus

	ctx    context.Context
	cancel context.CancelFunc
}

// NewStatusWatchService creates a new status watch service
func NewStatusWatchService(
	repo repositories.ReservationRepository,
	eventBus providers.EventBus,
	alerts *AlertService,
	metrics *observability.Metrics,
) *StatusWatchService {
	ctx, cancel := context.WithCancel(context.Background())
	return &StatusWatchService{
		repo:         repo,
		eventBus:     eventBus,
		alerts:       alerts,
		metrics:      metrics,
		lastStatuses: make(map[string]entities.ReservationStatus),
		ctx:          ctx,
		cancel:       cancel,
	}
}

// Start primes the status snapshot and begins consuming change events
func (s *StatusWatchService) Start() error {
	// Prime without diffing so a restart never re-fires old transitions
	reservations, err := s.repo.List(s.ctx, repositories.ReservationFilter{})
	if err != nil {
		return fmt.Errorf("failed to load initial reservations: %w", err)
	}
	s.mu.Lock()
	s.lastStatuses = entities.SnapshotStatuses(reservations)
	s.mu.Unlock()

	eventChan, err := s.eventBus.Subscribe(s.ctx, providers.EventChannelReservationChanges)
	if err != nil {
		return fmt.Errorf("failed to subscribe to reservation changes: %w", err)
	}

	go s.processEvents(eventChan)
	log.Println("Status watch service started")
	return nil
}

// Stop stops the status watch service
func (s *StatusWatchService) Stop() {
	s.cancel()
	if err := s.eventBus.Unsubscribe(context.Background(), providers.EventChannelReservationChanges); err != nil {
		log.Printf("Warning: failed to unsubscribe from reservation changes: %v", err)
	}
	log.Println("Status watch service stopped")
}

func (s *StatusWatchService) processEvents(eventChan <-chan *providers.Message) {
	for {
		select {
		case <-s.ctx.Done():
			return
		case msg, ok := <-eventChan:
			// The bus closes subscriber channels when the pub/sub stream
			// dies; a closed channel means no more events, not a nil event
			if !ok {
				return
			}
			if msg == nil {
				continue
			}
			s.Refresh(s.ctx)
		}
	}
}

// Refresh reloads all reservations, emits alerts for every pending
// reservation that reached a terminal state since the last refresh, and
// pushes the pending indicator to the admin stream.
func (s *StatusWatchService) Refresh(ctx context.Context) {
	refreshCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	reservations, err := s.repo.List(refreshCtx, repositories.ReservationFilter{})
	if err != nil {
		log.Printf("Warning: status refresh failed to load reservations: %v", err)
		return
	}

	s.mu.Lock()
	changes := entities.DiffStatuses(s.lastStatuses, reservations)
	s.lastStatuses = entities.SnapshotStatuses(reservations)
	s.mu.Unlock()

	for _, change := range changes {
		s.emitAlert(refreshCtx, change)
	}

	s.publishAdminUpdate(refreshCtx, reservations)
}

func (s *StatusWatchService) emitAlert(ctx context.Context, change entities.StatusChange) {
	alert := s.alerts.BuildAlert(change)
	if alert == nil {
		return
	}

	observability.RecordTransition(ctx, s.metrics, string(change.From), string(change.To))
	observability.RecordAlert(ctx, s.metrics, string(alert.Type))

	if err := s.alerts.Record(ctx, alert); err != nil {
		log.Printf("Warning: failed to persist alert for reservation %s: %v", alert.ReservationID, err)
	}

	channel := providers.GetUserAlertChannel(alert.UserID)
	if err := s.eventBus.Publish(ctx, channel, alert); err != nil {
		log.Printf("Warning: failed to publish alert for user %s: %v", alert.UserID, err)
	}
}

func (s *StatusWatchService) publishAdminUpdate(ctx context.Context, reservations []*entities.Reservation) {
	pendingCount := 0
	for _, r := range reservations {
		if r.Status == entities.ReservationStatusPending {
			pendingCount++
		}
	}

	update := &entities.AdminUpdate{
		HasPending:   entities.HasPending(reservations),
		PendingCount: pendingCount,
		Timestamp:    time.Now(),
	}

	if err := s.eventBus.Publish(ctx, providers.EventChannelAdminUpdates, update); err != nil {
		log.Printf("Warning: failed to publish admin update: %v", err)
	}
}
