// File path: internal/api/reports_handler.go
package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/ametcalf/busshift/internal/report"
)

type parseReportRequest struct {
	Markdown string `json:"markdown"`
	RepoURL  string `json:"repo_url,omitempty"`
}

// handleParseReport turns a raw markdown report into its structured JSON
// document. Parsing is total, so the only client error is an empty body.
func (s *Server) handleParseReport(w http.ResponseWriter, r *http.Request) {
	var req parseReportRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Errorf("decode request: %w", err))
		return
	}
	if strings.TrimSpace(req.Markdown) == "" {
		writeError(w, http.StatusBadRequest, fmt.Errorf("markdown required"))
		return
	}
	rep := report.Parse(req.Markdown)
	doc := report.BuildDocument(rep, report.NewMeta(req.RepoURL, time.Now()))
	writeJSON(w, http.StatusOK, doc)
}
