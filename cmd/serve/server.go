package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/mux"
	"github.com/rxtech-lab/argo-loglens/internal/logger"
	"github.com/rxtech-lab/argo-loglens/pkg/analyzer"
	"github.com/rxtech-lab/argo-loglens/pkg/errors"
	"go.uber.org/zap"
)

// maxUploadBytes bounds the multipart form buffer for log uploads.
const maxUploadBytes = 64 << 20

// Server exposes analysis results over a REST API. Uploading a log replaces
// the previously loaded result as a whole; readers always see a consistent
// snapshot.
type Server struct {
	mu sync.RWMutex

	analyzer *analyzer.Analyzer
	logger   *logger.Logger
	result   *analyzer.Result

	httpServer *http.Server
	listener   net.Listener
}

// NewServer creates a Server around an analyzer.
func NewServer(a *analyzer.Analyzer, log *logger.Logger) *Server {
	return &Server{
		analyzer: a,
		logger:   log,
	}
}

// Router builds the REST API routes.
func (s *Server) Router() *mux.Router {
	router := mux.NewRouter()

	router.HandleFunc("/api/logs", s.handleUpload).Methods("POST")
	router.HandleFunc("/api/assets", s.handleAssets).Methods("GET")
	router.HandleFunc("/api/sessions", s.handleSessions).Methods("GET")
	router.HandleFunc("/api/stats", s.handleStats).Methods("GET")
	router.HandleFunc("/api/orders", s.handleOrders).Methods("GET")
	router.HandleFunc("/api/export", s.handleExport).Methods("GET")

	return router
}

// Start begins serving on address. Use ":0" for an ephemeral port.
func (s *Server) Start(address string) error {
	if address == "" {
		address = ":0"
	}

	listener, err := net.Listen("tcp", address)
	if err != nil {
		return fmt.Errorf("failed to create listener: %w", err)
	}

	s.listener = listener

	s.httpServer = &http.Server{
		Handler:           s.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		if err := s.httpServer.Serve(listener); err != http.ErrServerClosed {
			s.logger.Error("HTTP server error", zap.Error(err))
		}
	}()

	return nil
}

// Stop shuts down the HTTP server.
func (s *Server) Stop() error {
	if s.httpServer != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		return s.httpServer.Shutdown(ctx)
	}

	return nil
}

// URL returns the base URL of the running server.
func (s *Server) URL() string {
	if s.listener == nil {
		return ""
	}

	return fmt.Sprintf("http://%s", s.listener.Addr().String())
}

// handleUpload accepts a log file as multipart form data (field "file") or a
// raw request body and replaces the loaded result.
func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	name, content, err := readUpload(r)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, errors.Wrap(errors.ErrCodeUploadFailed, "failed to read upload", err))

		return
	}

	result, err := s.analyzer.Analyze(name, content)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err)

		return
	}

	s.mu.Lock()
	s.result = result
	s.mu.Unlock()

	s.writeJSON(w, http.StatusOK, map[string]any{
		"file":     result.FileName,
		"lines":    result.LineCount,
		"events":   len(result.Events),
		"sessions": len(result.Sessions),
		"assets":   result.Assets,
	})
}

func readUpload(r *http.Request) (string, string, error) {
	if err := r.ParseMultipartForm(maxUploadBytes); err == nil {
		file, header, err := r.FormFile("file")
		if err != nil {
			return "", "", err
		}
		defer file.Close()

		content, err := io.ReadAll(file)
		if err != nil {
			return "", "", err
		}

		return header.Filename, string(content), nil
	}

	// Not multipart; take the raw body
	content, err := io.ReadAll(r.Body)
	if err != nil {
		return "", "", err
	}

	return "upload.log", string(content), nil
}

func (s *Server) handleAssets(w http.ResponseWriter, r *http.Request) {
	result, ok := s.snapshot()
	if !ok {
		s.writeNoResult(w)

		return
	}

	s.writeJSON(w, http.StatusOK, map[string]any{"assets": result.Assets})
}

func (s *Server) handleSessions(w http.ResponseWriter, r *http.Request) {
	result, ok := s.snapshot()
	if !ok {
		s.writeNoResult(w)

		return
	}

	s.writeJSON(w, http.StatusOK, result.SessionsFor(assetFilter(r)))
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	result, ok := s.snapshot()
	if !ok {
		s.writeNoResult(w)

		return
	}

	s.writeJSON(w, http.StatusOK, result.Stats(assetFilter(r)))
}

func (s *Server) handleOrders(w http.ResponseWriter, r *http.Request) {
	result, ok := s.snapshot()
	if !ok {
		s.writeNoResult(w)

		return
	}

	s.writeJSON(w, http.StatusOK, result.Orders(assetFilter(r)))
}

func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	result, ok := s.snapshot()
	if !ok {
		s.writeNoResult(w)

		return
	}

	s.writeJSON(w, http.StatusOK, result.Report(assetFilter(r)))
}

func (s *Server) snapshot() (*analyzer.Result, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.result, s.result != nil
}

func assetFilter(r *http.Request) string {
	asset := r.URL.Query().Get("asset")
	if asset == "" {
		return analyzer.FilterAll
	}

	return asset
}

func (s *Server) writeNoResult(w http.ResponseWriter) {
	s.writeError(w, http.StatusNotFound, errors.New(errors.ErrCodeNoResultLoaded, "no log has been uploaded yet"))
}

func (s *Server) writeError(w http.ResponseWriter, status int, err error) {
	s.logger.Warn("request failed", zap.Error(err))
	s.writeJSON(w, status, map[string]any{
		"error": err.Error(),
		"code":  int(errors.GetCode(err)),
	})
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(payload); err != nil {
		s.logger.Error("failed to encode response", zap.Error(err))
	}
}
