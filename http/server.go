// Package http exposes pipeline runs over HTTP as server-sent event streams
// and provides a client for consuming them.
package http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/fwojciec/scribe"
	"github.com/fwojciec/scribe/content"
	"github.com/fwojciec/scribe/sse"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// GeneratePath is the route that starts a run.
const GeneratePath = "/api/generate"

const maxBodyBytes = 1 << 20

const shutdownTimeout = 10 * time.Second

// Server serves the generate endpoint, metrics and a health check.
type Server struct {
	runner   scribe.Runner
	logger   *slog.Logger
	gatherer prometheus.Gatherer
	mux      *http.ServeMux
}

// ServerOption configures a [Server].
type ServerOption func(*Server)

// WithLogger sets the request logger.
func WithLogger(l *slog.Logger) ServerOption {
	return func(s *Server) { s.logger = l }
}

// WithGatherer exposes the gatherer's metrics on GET /metrics.
func WithGatherer(g prometheus.Gatherer) ServerOption {
	return func(s *Server) { s.gatherer = g }
}

// NewServer creates a Server that executes plans with runner.
func NewServer(runner scribe.Runner, opts ...ServerOption) *Server {
	s := &Server{
		runner: runner,
		logger: slog.New(slog.DiscardHandler),
	}
	for _, o := range opts {
		o(s)
	}

	s.mux = http.NewServeMux()
	s.mux.HandleFunc("POST "+GeneratePath, s.handleGenerate)
	s.mux.HandleFunc("GET /healthz", s.handleHealth)
	if s.gatherer != nil {
		s.mux.Handle("GET /metrics", promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{}))
	}
	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

// Serve accepts connections on ln until ctx is done, then shuts down
// gracefully. It returns nil after a clean shutdown.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	s.logger.Info("listening", "addr", ln.Addr().String())
	return Serve(ctx, ln, s)
}

// Serve serves h on ln until ctx is done, then shuts down. Request contexts
// derive from ctx, so in-flight runs see cancellation and stop; Serve waits
// up to ten seconds for their handlers to return.
func Serve(ctx context.Context, ln net.Listener, h http.Handler) error {
	srv := &http.Server{
		Handler:           h,
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}

	errc := make(chan error, 1)
	go func() { errc <- srv.Serve(ln) }()

	select {
	case err := <-errc:
		return fmt.Errorf("http: serve: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("http: shutdown: %w", err)
	}
	if err := <-errc; !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("http: serve: %w", err)
	}
	return nil
}

type errorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

func (s *Server) handleGenerate(w http.ResponseWriter, r *http.Request) {
	var opts content.Options
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&opts); err != nil {
		s.logger.Warn("invalid request body", "error", err)
		writeError(w, http.StatusBadRequest, errorResponse{Error: "invalid JSON payload", Details: err.Error()})
		return
	}
	if opts.APIKey == "" {
		writeError(w, http.StatusBadRequest, errorResponse{Error: "api key not provided"})
		return
	}
	plan, err := content.Plan(opts)
	if err != nil {
		writeError(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}

	sse.Init(w)
	report := s.runner.Run(r.Context(), plan, opts.APIKey, sse.NewWriter(w))

	s.logger.Info("run finished",
		"run_id", report.RunID,
		"state", report.State.String(),
		"steps", report.Totals.Steps,
		"failures", report.Totals.Failures,
		"estimated_cost", report.Totals.Cost().String(),
	)
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte("ok\n"))
}

func writeError(w http.ResponseWriter, status int, body errorResponse) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
