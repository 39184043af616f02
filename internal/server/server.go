// Package server exposes the inference service over HTTP. It is a thin
// adapter: handlers deserialize requests, call the service, serialize
// responses, and map internal failures to the uniform error shape. No domain
// logic lives here.
package server

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"

	"apex-ml/internal/common"
	"apex-ml/internal/service"
)

// Server serves the prediction API.
type Server struct {
	svc    *service.Service
	server *http.Server
}

type rootResponse struct {
	Service string `json:"service"`
	Version string `json:"version"`
	Status  string `json:"status"`
}

type healthResponse struct {
	Status  string `json:"status"`
	Model   string `json:"model"`
	Version string `json:"version"`
}

// errorResponse is the uniform failure shape for all prediction errors.
type errorResponse struct {
	Detail string `json:"detail"`
}

// New creates an HTTP server for the inference service listening on addr.
func New(svc *service.Service, addr string) *Server {
	s := &Server{svc: svc}

	mux := http.NewServeMux()
	mux.HandleFunc("/", s.handleRoot)
	mux.HandleFunc("/health", s.handleHealth)
	mux.HandleFunc("/predict", s.handlePredict)
	mux.HandleFunc("/batch_predict", s.handleBatchPredict)
	mux.Handle("/metrics", promhttp.Handler())

	s.server = &http.Server{
		Addr:         addr,
		Handler:      mux,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	return s
}

// Handler returns the route handler, used by tests and embedding servers.
func (s *Server) Handler() http.Handler {
	return s.server.Handler
}

// Start begins serving HTTP requests and blocks until shutdown.
func (s *Server) Start() error {
	log.Info().Str("addr", s.server.Addr).Msg("starting inference server")
	return s.server.ListenAndServe()
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}

func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	// ServeMux routes everything unmatched here; only the bare root is valid.
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	writeJSON(w, http.StatusOK, rootResponse{
		Service: common.ServiceName,
		Version: common.ServiceVersion,
		Status:  "running",
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, healthResponse{
		Status:  "healthy",
		Model:   s.svc.ModelName(),
		Version: common.ServiceVersion,
	})
}

func (s *Server) handlePredict(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req service.PredictionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Detail: fmt.Sprintf("invalid request: %v", err)})
		return
	}

	resp, err := s.svc.PredictOne(req)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResponse{Detail: fmt.Sprintf("Prediction failed: %v", err)})
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleBatchPredict(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var reqs []service.PredictionRequest
	if err := json.NewDecoder(r.Body).Decode(&reqs); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Detail: fmt.Sprintf("invalid request: %v", err)})
		return
	}

	resps, err := s.svc.PredictBatch(reqs)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResponse{Detail: fmt.Sprintf("Batch prediction failed: %v", err)})
		return
	}
	if resps == nil {
		resps = []service.PredictionResponse{}
	}

	writeJSON(w, http.StatusOK, resps)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error().Err(err).Msg("response encoding failed")
	}
}
