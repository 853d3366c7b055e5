// Package server exposes the packing engine over an HTTP JSON API.
package server

import (
	"context"
	"errors"
	"log"
	"net/http"
	"runtime"
	"time"

	"golang.org/x/sync/semaphore"

	"github.com/piwi3910/CargoFit/internal/model"
	"github.com/piwi3910/CargoFit/internal/store"
)

const (
	maxBodyBytes      = 10 << 20
	defaultRunTimeout = 60 * time.Second
)

// LayoutStore is the persistence the layouts endpoints need. *store.Store
// satisfies it.
type LayoutStore interface {
	Save(ctx context.Context, name string, result model.PackResult) (store.LayoutSummary, error)
	Get(ctx context.Context, id string) (store.Layout, error)
	List(ctx context.Context) ([]store.LayoutSummary, error)
	Delete(ctx context.Context, id string) error
}

// Config holds the server's tunables.
type Config struct {
	Workers    int                // concurrent packing runs, 0 = NumCPU
	RunTimeout time.Duration      // deadline per request, including the wait for a worker
	Settings   model.PackSettings // base policy; request settings overlay it
}

// Server runs packing requests on a bounded pool so that long runs cannot
// starve the listener.
type Server struct {
	cfg     Config
	workers int64
	pool    *semaphore.Weighted
	layouts LayoutStore
}

// New returns a server. layouts may be nil, in which case the layouts
// endpoints answer 503.
func New(cfg Config, layouts LayoutStore) *Server {
	if cfg.Workers <= 0 {
		cfg.Workers = runtime.NumCPU()
	}
	if cfg.RunTimeout <= 0 {
		cfg.RunTimeout = defaultRunTimeout
	}
	return &Server{
		cfg:     cfg,
		workers: int64(cfg.Workers),
		pool:    semaphore.NewWeighted(int64(cfg.Workers)),
		layouts: layouts,
	}
}

// Handler returns the routed API wrapped in request logging.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /healthz", s.health)
	mux.HandleFunc("POST /api/v1/pack", s.pack)
	mux.HandleFunc("POST /api/v1/compare", s.compare)
	mux.HandleFunc("POST /api/v1/verify", s.verify)
	mux.HandleFunc("POST /api/v1/chargeable-weight", s.chargeableWeight)
	mux.HandleFunc("GET /api/v1/presets", s.presets)
	mux.HandleFunc("GET /api/v1/layouts", s.listLayouts)
	mux.HandleFunc("POST /api/v1/layouts", s.saveLayout)
	mux.HandleFunc("GET /api/v1/layouts/{id}", s.getLayout)
	mux.HandleFunc("DELETE /api/v1/layouts/{id}", s.deleteLayout)
	mux.HandleFunc("GET /api/v1/layouts/{id}/plan.pdf", s.layoutPDF)
	return LoggingMiddleware(mux)
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Printf("HTTP server listening on %s (%d workers)", addr, s.workers)
		if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Println("shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	log.Println("HTTP server stopped")
	return nil
}

// acquire waits for n worker slots within ctx. It returns a release func.
func (s *Server) acquire(ctx context.Context, n int64) (func(), error) {
	if n > s.workers {
		n = s.workers
	}
	if err := s.pool.Acquire(ctx, n); err != nil {
		return nil, errBusy
	}
	return func() { s.pool.Release(n) }, nil
}

type loggingResponseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (lrw *loggingResponseWriter) WriteHeader(code int) {
	lrw.statusCode = code
	lrw.ResponseWriter.WriteHeader(code)
}

// LoggingMiddleware logs method, path, status, and duration
func LoggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		lrw := &loggingResponseWriter{w, http.StatusOK}
		next.ServeHTTP(lrw, r)
		log.Printf("[%d] %s %s %.1fms", lrw.statusCode, r.Method, r.RequestURI,
			float64(time.Since(start).Nanoseconds())/1e6)
	})
}
