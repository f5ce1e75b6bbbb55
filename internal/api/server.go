// File path: internal/api/server.go
package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	chi "github.com/go-chi/chi/v5"

	"github.com/ametcalf/busshift/internal/catalog"
	"github.com/ametcalf/busshift/internal/common"
	"github.com/ametcalf/busshift/internal/llm"
	"github.com/ametcalf/busshift/internal/report"
)

type Server struct {
	router   chi.Router
	store    *catalog.Store
	provider llm.Provider
	workRoot string
	scope    report.Scope
}

// Config controls where the server clones repositories and how pooled
// annotations are attached in rendered documents.
type Config struct {
	WorkRoot string
	Scope    report.Scope
}

// DefaultConfig returns the standard configuration used when no overrides
// are provided.
func DefaultConfig() Config {
	return Config{
		WorkRoot: filepath.Join(os.TempDir(), "busshift_repos"),
		Scope:    report.ScopeGlobal,
	}
}

// Merge overlays non-empty configuration values from the override onto the
// base configuration.
func (c Config) Merge(override Config) Config {
	result := c
	if strings.TrimSpace(override.WorkRoot) != "" {
		result.WorkRoot = strings.TrimSpace(override.WorkRoot)
	}
	if override.Scope == report.ScopePerFile {
		result.Scope = override.Scope
	}
	return result
}

func NewServer(store *catalog.Store, provider llm.Provider, cfg *Config) (*Server, error) {
	logger := common.Logger()
	if store == nil {
		return nil, fmt.Errorf("catalog store required")
	}
	configuration := DefaultConfig()
	if cfg != nil {
		configuration = configuration.Merge(*cfg)
	}
	if err := os.MkdirAll(configuration.WorkRoot, 0o755); err != nil {
		return nil, fmt.Errorf("create work root: %w", err)
	}
	providerName := "none"
	if provider != nil {
		providerName = provider.Name()
	}
	logger.Info("api: building server", "provider", providerName, "work_root", configuration.WorkRoot)
	srv := &Server{
		router:   chi.NewRouter(),
		store:    store,
		provider: provider,
		workRoot: configuration.WorkRoot,
		scope:    configuration.Scope,
	}
	srv.routes()
	return srv, nil
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) routes() {
	logger := common.Logger()
	s.router.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			next.ServeHTTP(w, r)
			logger.Debug("request", "method", r.Method, "path", r.URL.Path, "dur", time.Since(start), "remote", r.RemoteAddr)
		})
	})

	s.router.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	s.router.Post("/v1/reports/parse", s.handleParseReport)
	s.router.Post("/v1/analyses", s.handleStartAnalysis)
	s.router.Get("/v1/analyses", s.handleListAnalyses)
	s.router.Get("/v1/analyses/{id}", s.handleGetAnalysis)
	s.router.Get("/v1/analyses/{id}/report", s.handleGetReport)
	s.router.Get("/v1/logs", s.handleLogs)
}

func (s *Server) handleLogs(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{"logs": common.LogEntries()})
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, err error) {
	logger := common.Logger()
	if status >= http.StatusInternalServerError {
		logger.Error("request failed", "status", status, "error", err)
	} else {
		logger.Warn("request failed", "status", status, "error", err)
	}
	writeJSON(w, status, map[string]string{"error": err.Error()})
}
