package server

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/wayline-io/wayline/internal/agent/sensor"
	"github.com/wayline-io/wayline/pkg/log"
	"github.com/wayline-io/wayline/pkg/options"
)

// Server exposes the sensors over HTTP: a small read-only JSON API plus
// the liveness, readiness and metrics endpoints.
type Server struct {
	server  *http.Server
	options *options.HttpOptions
	sensors map[string]*sensor.Sensor
	order   []string
	ready   func() bool
}

// NewServer wires the routes and returns a server that is started with Start.
// ready reports readiness for /readyz; nil means always ready.
func NewServer(opts *options.HttpOptions, sensors []*sensor.Sensor, ready func() bool) *Server {
	s := &Server{
		options: opts,
		sensors: make(map[string]*sensor.Sensor, len(sensors)),
		ready:   ready,
	}
	for _, sn := range sensors {
		s.sensors[sn.ObjectID()] = sn
		s.order = append(s.order, sn.ObjectID())
	}

	r := mux.NewRouter()
	r.HandleFunc("/healthz", s.handleHealthz).Methods(http.MethodGet)
	r.HandleFunc("/readyz", s.handleReadyz).Methods(http.MethodGet)
	r.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)

	api := r.PathPrefix("/api/v1").Subrouter()
	api.HandleFunc("/sensors", s.handleListSensors).Methods(http.MethodGet)
	api.HandleFunc("/sensors/{id}", s.handleGetSensor).Methods(http.MethodGet)

	s.server = &http.Server{
		Addr:         opts.Addr,
		Handler:      r,
		ReadTimeout:  opts.Timeout,
		WriteTimeout: opts.Timeout,
	}

	return s
}

// Handler returns the configured route tree.
func (s *Server) Handler() http.Handler {
	return s.server.Handler
}

// Start serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Start(ctx context.Context) error {
	log.Info("Starting HTTP server", "addr", s.server.Addr)

	errCh := make(chan error, 1)
	go func() {
		if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return s.server.Shutdown(shutdownCtx)
	}
}

func (s *Server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("ok"))
}

func (s *Server) handleReadyz(w http.ResponseWriter, r *http.Request) {
	if s.ready != nil && !s.ready() {
		w.WriteHeader(http.StatusServiceUnavailable)
		w.Write([]byte("not ready"))
		return
	}
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("ok"))
}

func (s *Server) handleListSensors(w http.ResponseWriter, r *http.Request) {
	snaps := make([]sensor.Snapshot, 0, len(s.order))
	for _, id := range s.order {
		snaps = append(snaps, s.sensors[id].Snapshot())
	}
	writeJSON(w, http.StatusOK, snaps)
}

func (s *Server) handleGetSensor(w http.ResponseWriter, r *http.Request) {
	sn, ok := s.sensors[mux.Vars(r)["id"]]
	if !ok {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "sensor not found"})
		return
	}
	writeJSON(w, http.StatusOK, sn.Snapshot())
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error(err, "Failed to encode response")
	}
}
