// Copyright 2026 The geyserbench Authors
// Licensed under the GNU Lesser General Public License v3; see LICENSE.

// Package adminhttp exposes a small local operator surface for a run in
// progress: liveness, Prometheus metrics, and the final report once it is
// ready (SPEC_FULL.md §4.8). It is not meant to be a multi-tenant service,
// so CORS is left permissive by default.
package adminhttp

import (
	"context"
	"encoding/json"
	"net"
	"net/http"
	"sync"

	"github.com/julienschmidt/httprouter"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/cors"

	"github.com/corvus-labs/geyserbench/compare"
	gblog "github.com/corvus-labs/geyserbench/log"
	"github.com/corvus-labs/geyserbench/metrics"
)

var logger = gblog.NewModuleLogger("adminhttp")

// Server is the optional local admin HTTP surface.
type Server struct {
	addr       string
	comparator *compare.Comparator
	httpServer *http.Server
	listener   net.Listener

	mu     sync.RWMutex
	ready  bool
	report *compare.ComparisonReport
}

// New builds a Server bound to addr. It is not started until Start is
// called.
func New(addr string, comparator *compare.Comparator) *Server {
	return &Server{addr: addr, comparator: comparator}
}

// Start begins listening in the background. A bind failure is returned so
// the caller can log it and continue without the admin surface
// (SPEC_FULL.md §7: non-fatal bind failure).
func (s *Server) Start() error {
	router := httprouter.New()
	router.GET("/healthz", s.handleHealthz)
	router.GET("/metrics", s.handleMetrics)
	router.GET("/report", s.handleReport)

	handler := cors.AllowAll().Handler(router)
	s.httpServer = &http.Server{Addr: s.addr, Handler: handler}

	ln, err := net.Listen("tcp", s.addr)
	if err != nil {
		return err
	}
	s.listener = ln

	go func() {
		if err := s.httpServer.Serve(ln); err != nil && err != http.ErrServerClosed {
			logger.Warn("admin http server stopped", "err", err)
		}
	}()
	return nil
}

// Addr returns the listener's actual bound address, useful when addr was
// configured as "host:0".
func (s *Server) Addr() string {
	if s.listener == nil {
		return s.addr
	}
	return s.listener.Addr().String()
}

// Stop shuts the listener down, if started.
func (s *Server) Stop() {
	if s.httpServer == nil {
		return
	}
	if err := s.httpServer.Shutdown(context.Background()); err != nil {
		logger.Warn("admin http shutdown error", "err", err)
	}
}

// MarkReady flips /healthz to 200 once the supervisor has spawned every
// producer (SPEC_FULL.md §4.8).
func (s *Server) MarkReady() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ready = true
}

// SetReport publishes the final report for /report to serve.
func (s *Server) SetReport(report compare.ComparisonReport) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.report = &report
}

func (s *Server) handleHealthz(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	s.mu.RLock()
	ready := s.ready
	s.mu.RUnlock()
	if !ready {
		w.WriteHeader(http.StatusServiceUnavailable)
		return
	}
	w.WriteHeader(http.StatusOK)
}

func (s *Server) handleMetrics(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	registry := prometheus.NewRegistry()
	for _, c := range metrics.PrometheusCollectors() {
		registry.MustRegister(c)
	}
	promhttp.HandlerFor(registry, promhttp.HandlerOpts{}).ServeHTTP(w, r)
}

func (s *Server) handleReport(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	s.mu.RLock()
	report := s.report
	s.mu.RUnlock()

	if report == nil {
		w.WriteHeader(http.StatusServiceUnavailable)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(report)
}
