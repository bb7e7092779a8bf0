// Package http exposes the garage manager as a JSON API: customer and
// expense CRUD, the dashboard aggregate, the room grid and the
// plain-text financial report.
package http

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"garasi/internal/amqp"
	"garasi/internal/cache"
	applog "garasi/internal/log"
	"garasi/internal/photo"
	"garasi/internal/services"
	"garasi/internal/store"
)

const dashboardCacheKey = "dashboard"

type Server struct {
	http.Server
	customers   *services.CustomerService
	expenses    *services.ExpenseService
	photos      *photo.Processor
	rateLimiter *rateLimiter

	// Dashboard reads are memoized between mutations.
	dashboardCache *cache.LRUCache[dashboardResponse]

	stopCacheCleanup chan struct{}
	shutdownOnce     sync.Once

	// now is replaceable in tests.
	now func() time.Time
}

// NewServer configures routes and middleware, returning a
// ready-to-run http.Server.
func NewServer(addr string, st store.Store, events *amqp.Client, photos *photo.Processor, logger *applog.Logger) *Server {
	mux := http.NewServeMux()

	s := &Server{
		customers:        services.NewCustomerService(st, events),
		expenses:         services.NewExpenseService(st, events),
		photos:           photos,
		rateLimiter:      newRateLimiter(),
		dashboardCache:   cache.NewLRUCache[dashboardResponse](8, 5*time.Minute),
		stopCacheCleanup: make(chan struct{}),
		now:              time.Now,
	}

	go s.startCacheCleanup()

	mux.HandleFunc("GET /healthz", handleHealth)
	mux.HandleFunc("GET /readyz", handleReady)

	mux.HandleFunc("GET /api/customers", s.withSecurityHeaders(s.handleListCustomers))
	mux.HandleFunc("POST /api/customers", s.withSecurityHeaders(s.handleCreateCustomer))
	mux.HandleFunc("GET /api/customers/{id}", s.withSecurityHeaders(s.handleGetCustomer))
	mux.HandleFunc("PUT /api/customers/{id}", s.withSecurityHeaders(s.handleUpdateCustomer))
	mux.HandleFunc("DELETE /api/customers/{id}", s.withSecurityHeaders(s.handleDeleteCustomer))

	mux.HandleFunc("GET /api/rooms", s.withSecurityHeaders(s.handleRooms))
	mux.HandleFunc("GET /api/rooms/available", s.withSecurityHeaders(s.handleAvailableRooms))

	mux.HandleFunc("GET /api/expenses", s.withSecurityHeaders(s.handleListExpenses))
	mux.HandleFunc("POST /api/expenses", s.withSecurityHeaders(s.handleCreateExpense))
	mux.HandleFunc("DELETE /api/expenses/{id}", s.withSecurityHeaders(s.handleDeleteExpense))

	mux.HandleFunc("GET /api/dashboard", s.withSecurityHeaders(s.handleDashboard))
	mux.HandleFunc("GET /api/report", s.withSecurityHeaders(s.handleReport))

	s.Server.Addr = addr
	s.Server.Handler = applog.Middleware(logger)(mux)
	return s
}

// startCacheCleanup drops expired dashboard entries periodically.
func (s *Server) startCacheCleanup() {
	ticker := time.NewTicker(10 * time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if cleaned := s.dashboardCache.CleanExpired(); cleaned > 0 {
				slog.Debug("Cache cleanup completed", "entries_removed", cleaned)
			}
		case <-s.stopCacheCleanup:
			return
		}
	}
}

// Shutdown gracefully shuts down the server and cleanup routines.
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error

	s.shutdownOnce.Do(func() {
		if s.stopCacheCleanup != nil {
			close(s.stopCacheCleanup)
		}
		if s.rateLimiter != nil {
			s.rateLimiter.stop()
		}
		shutdownErr = s.Server.Shutdown(ctx)
	})

	return shutdownErr
}

// invalidateDashboard is called after every mutation so the next
// dashboard read recomputes from the store.
func (s *Server) invalidateDashboard() {
	s.dashboardCache.Purge()
}

// withSecurityHeaders adds security headers, rate limiting, and
// request logging to responses.
func (s *Server) withSecurityHeaders(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		clientIP := extractClientIP(r)
		requestID := generateRequestID()

		logger := applog.FromContext(r.Context()).With(applog.FieldRequestID, requestID)
		ctx := applog.IntoContext(r.Context(), logger)
		r = r.WithContext(ctx)

		logger.InfoContext(ctx, "Request started",
			applog.FieldMethod, r.Method,
			applog.FieldPath, r.URL.Path,
			applog.FieldClientIP, clientIP)

		// Mutations are rate limited per client.
		if r.Method != http.MethodGet && !s.rateLimiter.allow(clientIP) {
			logger.WarnContext(ctx, "Rate limit exceeded",
				applog.FieldClientIP, clientIP,
				applog.FieldMethod, r.Method,
				applog.FieldPath, r.URL.Path)
			w.Header().Set("Retry-After", "60")
			writeError(w, http.StatusTooManyRequests, "rate limit exceeded, try again later")
			return
		}

		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")
		w.Header().Set("Referrer-Policy", "strict-origin-when-cross-origin")

		rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
		next(rw, r)

		logger.InfoContext(ctx, "Request completed",
			applog.FieldMethod, r.Method,
			applog.FieldPath, r.URL.Path,
			applog.FieldStatusCode, rw.statusCode,
			applog.FieldDuration, time.Since(start).Milliseconds(),
			applog.FieldClientIP, clientIP)
	}
}

// responseWriter wraps http.ResponseWriter to capture the status code.
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

// generateRequestID creates a unique request ID for tracing.
func generateRequestID() string {
	bytes := make([]byte, 8)
	if _, err := rand.Read(bytes); err != nil {
		return fmt.Sprintf("req_%d", time.Now().UnixNano())
	}
	return "req_" + hex.EncodeToString(bytes)
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func handleReady(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ready"))
}
