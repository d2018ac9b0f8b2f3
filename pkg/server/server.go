// Package server exposes the turn-processing pipeline over HTTP:
// POST /api/chat per turn, GET /healthz for liveness.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/dotsetgreg/leadpilot/pkg/engine"
	"github.com/dotsetgreg/leadpilot/pkg/logger"
	"github.com/dotsetgreg/leadpilot/pkg/profile"
)

const maxRequestBytes = 10 << 20 // attachments ride inline as base64

type Server struct {
	engine *engine.Engine
	store  *profile.Store
	http   *http.Server
}

func New(host string, port int, eng *engine.Engine, store *profile.Store) *Server {
	s := &Server{engine: eng, store: store}

	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/chat", s.handleChat)
	mux.HandleFunc("GET /healthz", s.handleHealth)

	s.http = &http.Server{
		Addr:              fmt.Sprintf("%s:%d", host, port),
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s
}

func (s *Server) ListenAndServe() error {
	logger.InfoCF("server", "HTTP server listening", map[string]interface{}{"addr": s.http.Addr})
	err := s.http.ListenAndServe()
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.http.Shutdown(ctx)
}

func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	var req engine.TurnRequest
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBytes)
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	resp, err := s.engine.ProcessTurn(r.Context(), &req)
	switch {
	case err == nil:
		writeJSON(w, http.StatusOK, resp)

	case errors.Is(err, engine.ErrValidation):
		writeError(w, http.StatusBadRequest, "empty or malformed message payload")

	case errors.Is(err, engine.ErrConfiguration):
		writeError(w, http.StatusServiceUnavailable, "assistant is not configured")

	case errors.Is(err, engine.ErrModelInvocation):
		// The turn still produced the safe fallback reply; surface the
		// failure without leaking provider detail.
		payload := struct {
			*engine.TurnResponse
			Error string `json:"error"`
		}{resp, "assistant temporarily unavailable"}
		writeJSON(w, http.StatusOK, payload)

	default:
		logger.ErrorCF("server", "Turn processing failed", map[string]interface{}{"error": err.Error()})
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":   "ok",
		"sessions": s.store.Len(),
	})
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.WarnCF("server", "Failed to encode response", map[string]interface{}{"error": err.Error()})
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
