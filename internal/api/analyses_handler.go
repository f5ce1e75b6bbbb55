// File path: internal/api/analyses_handler.go
package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	chi "github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/ametcalf/busshift/internal/catalog"
	"github.com/ametcalf/busshift/internal/common"
	"github.com/ametcalf/busshift/internal/repo"
	"github.com/ametcalf/busshift/internal/report"
	"github.com/ametcalf/busshift/internal/workflow"
)

type startAnalysisRequest struct {
	RepoURL  string `json:"repo_url"`
	RepoPath string `json:"repo_path,omitempty"`
}

// handleStartAnalysis registers an analysis and runs the pipeline in the
// background. The response carries the pending record; clients poll the
// analysis endpoints for progress.
func (s *Server) handleStartAnalysis(w http.ResponseWriter, r *http.Request) {
	var req startAnalysisRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Errorf("decode request: %w", err))
		return
	}
	req.RepoURL = strings.TrimSpace(req.RepoURL)
	req.RepoPath = strings.TrimSpace(req.RepoPath)
	if req.RepoURL == "" && req.RepoPath == "" {
		writeError(w, http.StatusBadRequest, fmt.Errorf("repo_url or repo_path required"))
		return
	}

	id := uuid.NewString()
	path := req.RepoPath
	if path == "" {
		path = filepath.Join(s.workRoot, id)
	}
	analysis, err := s.store.CreateAnalysis(r.Context(), catalog.Analysis{
		ID:       id,
		RepoURL:  req.RepoURL,
		RepoPath: path,
	})
	if err != nil {
		writeError(w, http.StatusInternalServerError, fmt.Errorf("create analysis: %w", err))
		return
	}

	go s.runAnalysis(analysis)
	writeJSON(w, http.StatusAccepted, analysis)
}

// runAnalysis drives one background run: clone, pipeline, persist. It uses a
// fresh context so the run outlives the originating request.
func (s *Server) runAnalysis(analysis catalog.Analysis) {
	logger := common.Logger()
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Minute)
	defer cancel()

	fail := func(stage string, err error) {
		logger.Error("api: analysis failed", "id", analysis.ID, "stage", stage, "error", err)
		if updateErr := s.store.UpdateStatus(ctx, analysis.ID, catalog.StatusFailed, err.Error()); updateErr != nil {
			logger.Error("api: status update failed", "id", analysis.ID, "error", updateErr)
		}
	}

	if err := s.store.UpdateStatus(ctx, analysis.ID, catalog.StatusRunning, ""); err != nil {
		logger.Error("api: status update failed", "id", analysis.ID, "error", err)
		return
	}
	if analysis.RepoURL != "" {
		if err := repo.EnsureClone(ctx, analysis.RepoURL, analysis.RepoPath); err != nil {
			fail("clone", err)
			return
		}
	}

	runner := workflow.NewRunner(s.provider, workflow.Config{
		RepoURL:   analysis.RepoURL,
		RepoPath:  analysis.RepoPath,
		OutputDir: filepath.Join(s.workRoot, analysis.ID+"-out"),
		Scope:     s.scope,
	})
	result, err := runner.Run(ctx)
	if err != nil {
		fail("pipeline", err)
		return
	}

	payload, err := os.ReadFile(result.JSONPath)
	if err != nil {
		fail("read artifacts", err)
		return
	}
	stored := catalog.StoredReport{
		AnalysisID:  analysis.ID,
		Title:       report.DefaultTitle,
		Markdown:    result.Markdown,
		Payload:     string(payload),
		GeneratedAt: time.Now().UTC(),
	}
	if err := s.store.SaveReport(ctx, stored); err != nil {
		fail("persist report", err)
		return
	}
	if err := s.store.UpdateStatus(ctx, analysis.ID, catalog.StatusCompleted, ""); err != nil {
		logger.Error("api: status update failed", "id", analysis.ID, "error", err)
		return
	}
	logger.Info("api: analysis completed", "id", analysis.ID, "diffs", len(result.Diffs))
}

func (s *Server) handleListAnalyses(w http.ResponseWriter, r *http.Request) {
	analyses, err := s.store.ListAnalyses(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, fmt.Errorf("list analyses: %w", err))
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"analyses": analyses})
}

func (s *Server) handleGetAnalysis(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	analysis, err := s.store.AnalysisByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, catalog.ErrNotFound) {
			writeError(w, http.StatusNotFound, fmt.Errorf("analysis %s not found", id))
			return
		}
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, analysis)
}

// handleGetReport serves the stored report. format=markdown returns the raw
// document; the default is the structured JSON payload.
func (s *Server) handleGetReport(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	stored, err := s.store.ReportForAnalysis(r.Context(), id)
	if err != nil {
		if errors.Is(err, catalog.ErrNotFound) {
			writeError(w, http.StatusNotFound, fmt.Errorf("report for analysis %s not found", id))
			return
		}
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	if r.URL.Query().Get("format") == "markdown" {
		w.Header().Set("Content-Type", "text/markdown; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(stored.Markdown))
		return
	}
	if strings.TrimSpace(stored.Payload) != "" {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(stored.Payload))
		return
	}
	writeJSON(w, http.StatusOK, stored)
}
