package routes

import (
	"net/http"

	"github.com/ruangkita/reservation-service/internal/api/handlers"
	"github.com/ruangkita/reservation-service/internal/api/middleware"
	"github.com/ruangkita/reservation-service/internal/infrastructure/observability"
)

// Router holds all route handlers
type Router struct {
	mux *http.ServeMux

	authHandler        *handlers.AuthHandler
	facilityHandler    *handlers.FacilityHandler
	reservationHandler *handlers.ReservationHandler
	alertHandler       *handlers.AlertHandler
	uploadHandler      *handlers.UploadHandler
	sseHandler         *handlers.SSEHandler

	authMiddleware  *middleware.AuthMiddleware
	cacheMiddleware *middleware.CacheMiddleware
	metrics         *observability.Metrics

	uploadsDir string
}

// NewRouter creates a new router
func NewRouter(
	authHandler *handlers.AuthHandler,
	facilityHandler *handlers.FacilityHandler,
	reservationHandler *handlers.ReservationHandler,
	alertHandler *handlers.AlertHandler,
	uploadHandler *handlers.UploadHandler,
	sseHandler *handlers.SSEHandler,
	authMiddleware *middleware.AuthMiddleware,
	cacheMiddleware *middleware.CacheMiddleware,
	metrics *observability.Metrics,
	uploadsDir string,
) *Router {
	return &Router{
		mux:                http.NewServeMux(),
		authHandler:        authHandler,
		facilityHandler:    facilityHandler,
		reservationHandler: reservationHandler,
		alertHandler:       alertHandler,
		uploadHandler:      uploadHandler,
		sseHandler:         sseHandler,
		authMiddleware:     authMiddleware,
		cacheMiddleware:    cacheMiddleware,
		metrics:            metrics,
		uploadsDir:         uploadsDir,
	}
}

// SetupRoutes configures all application routes
func (r *Router) SetupRoutes() http.Handler {
	// Health check endpoint
	r.mux.HandleFunc("GET /health", func(w http.ResponseWriter, req *http.Request) {
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte("OK")); err != nil {
			return
		}
	})

	// Auth endpoints (public)
	r.mux.HandleFunc("POST /api/auth/register", r.authHandler.Register)
	r.mux.HandleFunc("POST /api/auth/login", r.authHandler.Login)

	// Facility endpoints: reads for any signed-in user, mutations admin-only
	r.mux.Handle("GET /api/facilities", r.auth(r.facilityHandler.ListFacilities))
	r.mux.Handle("GET /api/facilities/{id}", r.auth(r.facilityHandler.GetFacility))
	r.mux.Handle("POST /api/facilities", r.admin(r.facilityHandler.CreateFacility))
	r.mux.Handle("PUT /api/facilities/{id}", r.admin(r.facilityHandler.UpdateFacility))
	r.mux.Handle("DELETE /api/facilities/{id}", r.admin(r.facilityHandler.DeleteFacility))

	// Reservation endpoints
	r.mux.Handle("POST /api/reservations", r.auth(r.reservationHandler.CreateReservation))
	r.mux.Handle("GET /api/reservations", r.auth(r.reservationHandler.ListReservations))
	r.mux.Handle("GET /api/reservations/pending-count", r.admin(r.reservationHandler.PendingCount))
	r.mux.Handle("GET /api/reservations/{id}", r.auth(r.reservationHandler.GetReservation))
	r.mux.Handle("DELETE /api/reservations/{id}", r.auth(r.reservationHandler.CancelReservation))
	r.mux.Handle("POST /api/reservations/{id}/approve", r.admin(r.reservationHandler.ApproveReservation))
	r.mux.Handle("POST /api/reservations/{id}/reject", r.admin(r.reservationHandler.RejectReservation))

	// Alert history for the authenticated user
	r.mux.Handle("GET /api/alerts", r.auth(r.alertHandler.ListAlerts))

	// Upload endpoint for facility images
	r.mux.Handle("POST /api/uploads/images", r.admin(r.uploadHandler.UploadImage))

	// SSE streaming endpoints
	r.mux.Handle("GET /api/stream/alerts", r.auth(r.sseHandler.StreamAlerts))
	r.mux.Handle("GET /api/stream/admin", r.admin(r.sseHandler.StreamAdminUpdates))

	// Uploaded images are served straight off disk
	if r.uploadsDir != "" {
		r.mux.Handle("GET /uploads/", http.StripPrefix("/uploads/", http.FileServer(http.Dir(r.uploadsDir))))
	}

	// Apply middleware in reverse order (last middleware wraps first)
	var handler http.Handler = r.mux
	handler = middleware.LoggingMiddleware(handler)

	// Apply cache middleware if available. It wraps the whole mux, so a
	// cache HIT on a facility GET is served before the per-route auth
	// guard runs; only the non-user-specific facility catalog is ever
	// cached, per-user routes never are.
	if r.cacheMiddleware != nil {
		handler = r.cacheMiddleware.Middleware(handler)
	}

	handler = middleware.ObservabilityMiddleware(r.metrics)(handler)

	// CORS wraps everything so headers are set even on cache HITs
	handler = middleware.CORSMiddleware(handler)

	return handler
}

func (r *Router) auth(h http.HandlerFunc) http.Handler {
	return r.authMiddleware.RequireAuth(h)
}

func (r *Router) admin(h http.HandlerFunc) http.Handler {
	return r.authMiddleware.RequireAdmin(h)
}
