package http

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"go.temporal.io/sdk/client"

	"github.com/medtrail/symptom-timeline/pkg/storage"
	"github.com/medtrail/symptom-timeline/pkg/temporal"
	"github.com/medtrail/symptom-timeline/pkg/timeline"
)

// Server represents the HTTP API of the symptom timeline service
type Server struct {
	logger         *slog.Logger
	temporalClient client.Client
	addr           string
}

// NewServer creates a new HTTP server
func NewServer(logger *slog.Logger, temporalClient client.Client, addr string) *Server {
	return &Server{
		logger:         logger,
		temporalClient: temporalClient,
		addr:           addr,
	}
}

// Handler builds the route table with middleware applied
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("POST /consultations/{id}/entries", s.handleIngestEntries)
	mux.HandleFunc("POST /consultations/{id}/analyze", s.handleAnalyze)
	mux.HandleFunc("GET /health", s.handleHealth)

	return s.loggingMiddleware(mux)
}

// Start starts the HTTP server and blocks until the context is cancelled
func (s *Server) Start(ctx context.Context) error {
	server := &http.Server{
		Addr:    s.addr,
		Handler: s.Handler(),
	}

	s.logger.Info("Starting HTTP server", "addr", s.addr)

	errChan := make(chan error, 1)
	go func() {
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errChan <- err
		}
	}()

	select {
	case <-ctx.Done():
		s.logger.Info("Shutting down HTTP server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	case err := <-errChan:
		return fmt.Errorf("server error: %w", err)
	}
}

// Entry ingestion endpoint
func (s *Server) handleIngestEntries(w http.ResponseWriter, r *http.Request) {
	consultationID := r.PathValue("id")
	if consultationID == "" {
		s.respondError(w, http.StatusBadRequest, "consultation ID is required")
		return
	}

	var entries []timeline.Entry
	if err := json.NewDecoder(r.Body).Decode(&entries); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	if len(entries) == 0 {
		s.respondError(w, http.StatusBadRequest, "at least one entry is required")
		return
	}

	if err := storage.ValidateEntries(entries); err != nil {
		s.respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	s.logger.Info("Ingesting entries", "consultationID", consultationID, "count", len(entries))

	// SignalWithStart ensures exactly one ingestion workflow per consultation
	workflowID := temporal.GenerateIngestionWorkflowID(consultationID)
	signal := temporal.EntrySignal{
		Entries: entries,
	}

	_, err := s.temporalClient.SignalWithStartWorkflow(
		r.Context(),
		workflowID,
		temporal.EntrySignalName,
		signal,
		client.StartWorkflowOptions{
			ID:        workflowID,
			TaskQueue: temporal.TaskQueue,
		},
		temporal.IngestionWorkflow,
		consultationID,
	)

	if err != nil {
		s.logger.Error("Failed to signal workflow", "error", err)
		s.respondError(w, http.StatusInternalServerError, "failed to process entries")
		return
	}

	s.respondJSON(w, http.StatusAccepted, map[string]interface{}{
		"message":         "entries queued for processing",
		"consultation_id": consultationID,
		"entry_count":     len(entries),
	})
}

// analyzeRequestBody is the optional body of an analyze call
type analyzeRequestBody struct {
	CurrentSymptoms map[string]any `json:"current_symptoms,omitempty"`
}

// Analysis endpoint: runs the full analysis workflow and waits for the report
func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	consultationID := r.PathValue("id")
	if consultationID == "" {
		s.respondError(w, http.StatusBadRequest, "consultation ID is required")
		return
	}

	var body analyzeRequestBody
	if r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			s.respondError(w, http.StatusBadRequest, "invalid JSON body")
			return
		}
	}

	s.logger.Info("Processing analysis request", "consultationID", consultationID)

	workflowID := temporal.GenerateAnalysisWorkflowID(consultationID)

	workflowRun, err := s.temporalClient.ExecuteWorkflow(
		r.Context(),
		client.StartWorkflowOptions{
			ID:        workflowID,
			TaskQueue: temporal.TaskQueue,
		},
		temporal.AnalysisWorkflow,
		temporal.AnalysisRequest{
			ConsultationID:  consultationID,
			CurrentSymptoms: body.CurrentSymptoms,
		},
	)

	if err != nil {
		s.logger.Error("Failed to start analysis workflow", "error", err)
		s.respondError(w, http.StatusInternalServerError, "failed to start analysis")
		return
	}

	var report *timeline.Report
	err = workflowRun.Get(r.Context(), &report)
	if err != nil {
		s.logger.Error("Analysis workflow failed", "error", err)
		s.respondError(w, http.StatusInternalServerError, "analysis execution failed")
		return
	}

	s.logger.Info("Analysis completed", "consultationID", consultationID,
		"riskLevel", report.Risk.RiskLevel, "riskScore", report.Risk.RiskScore)
	s.respondJSON(w, http.StatusOK, report)
}

// Health check endpoint
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.respondJSON(w, http.StatusOK, map[string]string{
		"status": "healthy",
		"time":   time.Now().Format(time.RFC3339),
	})
}

// Middleware for request logging
func (s *Server) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		// Wrap ResponseWriter to capture status code
		wrapper := &responseWrapper{ResponseWriter: w, statusCode: http.StatusOK}

		next.ServeHTTP(wrapper, r)

		duration := time.Since(start)

		s.logger.Info("HTTP request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", wrapper.statusCode,
			"duration", duration,
			"user_agent", r.UserAgent(),
		)
	})
}

// Response helpers
func (s *Server) respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.logger.Error("Failed to encode JSON response", "error", err)
	}
}

func (s *Server) respondError(w http.ResponseWriter, status int, message string) {
	s.logger.Warn("HTTP error response", "status", status, "message", message)
	s.respondJSON(w, status, map[string]string{"error": message})
}

// responseWrapper wraps http.ResponseWriter to capture status code
type responseWrapper struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWrapper) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}
