// Package server exposes the observability surface: health, channel
// status, an MJPEG preview stream and a status WebSocket. The frame loop
// publishes into the server; handlers never reach back into the pipeline.
package server

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"go.uber.org/zap"
)

// ChannelStatus is one channel's state as published to clients.
type ChannelStatus struct {
	Channel  string  `json:"channel"`
	Side     string  `json:"side"`
	Locked   bool    `json:"locked"`
	HasValue bool    `json:"has_value"`
	Value    float64 `json:"value"`
	Percent  int     `json:"percent"`
	Seen     bool    `json:"seen"`
}

// statusPayload is the body served by /api/status and broadcast on the
// WebSocket.
type statusPayload struct {
	Channels  []ChannelStatus `json:"channels"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// Server is the HTTP server for the control daemon's reporting surface.
type Server struct {
	logger *zap.SugaredLogger
	mux    *http.ServeMux
	start  time.Time

	httpServer *http.Server

	mu       sync.RWMutex
	frame    []byte // latest annotated JPEG
	frameSeq uint64
	status   *statusPayload

	ws *statusHub
}

// New creates a Server. It serves nothing until Start is called, but is
// usable as an http.Handler immediately.
func New(logger *zap.SugaredLogger) *Server {
	s := &Server{
		logger: logger.Named("server"),
		mux:    http.NewServeMux(),
		start:  time.Now(),
	}
	s.ws = newStatusHub(s)
	s.setupRoutes()
	return s
}

// setupRoutes configures all HTTP routes for the server.
func (s *Server) setupRoutes() {
	s.mux.HandleFunc("/api/health", s.handleHealth)
	s.mux.HandleFunc("/api/status", s.handleStatus)
	s.mux.Handle("/api/stream", &streamHandler{server: s})
	s.mux.Handle("/api/ws", s.ws)
}

// ServeHTTP implements the http.Handler interface.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

// Start serves on addr in a background goroutine.
func (s *Server) Start(addr string) {
	s.httpServer = &http.Server{Addr: addr, Handler: s}

	go func() {
		s.logger.Infow("Serving", "address", addr)
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			s.logger.Warnw("HTTP server stopped", "error", err)
		}
	}()
}

// Stop shuts the HTTP server down, letting in-flight requests finish.
// Safe to call without a prior Start and more than once.
func (s *Server) Stop() {
	s.ws.stop()

	if s.httpServer == nil {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	if err := s.httpServer.Shutdown(ctx); err != nil {
		s.logger.Warnw("HTTP server shutdown", "error", err)
	}
}

// PublishFrame stores the latest annotated JPEG for the MJPEG stream.
// The server takes ownership of the slice.
func (s *Server) PublishFrame(jpeg []byte) {
	s.mu.Lock()
	s.frame = jpeg
	s.frameSeq++
	s.mu.Unlock()
}

// PublishStatus stores and broadcasts the latest channel states.
func (s *Server) PublishStatus(channels []ChannelStatus) {
	payload := &statusPayload{
		Channels:  channels,
		UpdatedAt: time.Now(),
	}

	s.mu.Lock()
	s.status = payload
	s.mu.Unlock()

	s.ws.notify()
}

// latestFrame returns the most recent published frame and its sequence
// number.
func (s *Server) latestFrame() ([]byte, uint64) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.frame, s.frameSeq
}

// latestStatus returns the most recent published status, or an empty
// payload before the first frame.
func (s *Server) latestStatus() statusPayload {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.status == nil {
		return statusPayload{Channels: []ChannelStatus{}}
	}
	return *s.status
}

// handleHealth handles GET requests to /api/health.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	uptime := time.Since(s.start)

	response := map[string]interface{}{
		"status": "ok",
		"uptime": uptime.String(),
	}

	writeJSON(w, response)
}

// handleStatus handles GET requests to /api/status.
func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	writeJSON(w, s.latestStatus())
}

func writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		http.Error(w, "Failed to encode response", http.StatusInternalServerError)
	}
}
