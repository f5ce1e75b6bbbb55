// File path: internal/catalog/queries.go
package catalog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"
)

// ErrNotFound is returned when a lookup matches no row.
var ErrNotFound = errors.New("catalog: not found")

// CreateAnalysis inserts a new analysis in pending state.
func (s *Store) CreateAnalysis(ctx context.Context, analysis Analysis) (Analysis, error) {
	if s == nil || s.db == nil {
		return Analysis{}, fmt.Errorf("catalog store not initialised")
	}
	if strings.TrimSpace(analysis.ID) == "" {
		return Analysis{}, fmt.Errorf("analysis id required")
	}
	if analysis.Status == "" {
		analysis.Status = StatusPending
	}
	now := time.Now().UTC()
	analysis.CreatedAt = now
	analysis.UpdatedAt = now
	_, err := s.db.ExecContext(ctx, `INSERT INTO analyses (id, repo_url, repo_path, status, error, created_at, updated_at)
                VALUES (?, ?, ?, ?, ?, ?, ?)`,
		analysis.ID, analysis.RepoURL, analysis.RepoPath, analysis.Status, analysis.Error, analysis.CreatedAt, analysis.UpdatedAt)
	if err != nil {
		return Analysis{}, fmt.Errorf("insert analysis: %w", err)
	}
	return analysis, nil
}

// UpdateStatus records an analysis state transition. The error message is
// cleared unless the new status is failed.
func (s *Store) UpdateStatus(ctx context.Context, id, status, errMsg string) error {
	if s == nil || s.db == nil {
		return fmt.Errorf("catalog store not initialised")
	}
	if status != StatusFailed {
		errMsg = ""
	}
	res, err := s.db.ExecContext(ctx, `UPDATE analyses SET status = ?, error = ?, updated_at = ? WHERE id = ?`,
		status, errMsg, time.Now().UTC(), id)
	if err != nil {
		return fmt.Errorf("update analysis status: %w", err)
	}
	if affected, err := res.RowsAffected(); err == nil && affected == 0 {
		return ErrNotFound
	}
	return nil
}

// ListAnalyses returns all analyses, newest first.
func (s *Store) ListAnalyses(ctx context.Context) ([]Analysis, error) {
	if s == nil || s.db == nil {
		return nil, fmt.Errorf("catalog store not initialised")
	}
	analyses := []Analysis{}
	if err := s.db.SelectContext(ctx, &analyses, `SELECT * FROM analyses ORDER BY created_at DESC, id`); err != nil {
		return nil, fmt.Errorf("select analyses: %w", err)
	}
	return analyses, nil
}

// AnalysisByID retrieves a single analysis.
func (s *Store) AnalysisByID(ctx context.Context, id string) (*Analysis, error) {
	if s == nil || s.db == nil {
		return nil, fmt.Errorf("catalog store not initialised")
	}
	var analysis Analysis
	if err := s.db.GetContext(ctx, &analysis, `SELECT * FROM analyses WHERE id = ?`, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("select analysis: %w", err)
	}
	return &analysis, nil
}

// SaveReport stores the rendered report for an analysis, replacing any
// earlier render from a previous run.
func (s *Store) SaveReport(ctx context.Context, rep StoredReport) error {
	if s == nil || s.db == nil {
		return fmt.Errorf("catalog store not initialised")
	}
	if strings.TrimSpace(rep.AnalysisID) == "" {
		return fmt.Errorf("analysis id required")
	}
	if rep.GeneratedAt.IsZero() {
		rep.GeneratedAt = time.Now().UTC()
	}
	_, err := s.db.ExecContext(ctx, `INSERT INTO reports (analysis_id, title, markdown, payload, generated_at)
                VALUES (?, ?, ?, ?, ?)
                ON CONFLICT(analysis_id) DO UPDATE SET
                        title = excluded.title,
                        markdown = excluded.markdown,
                        payload = excluded.payload,
                        generated_at = excluded.generated_at`,
		rep.AnalysisID, rep.Title, rep.Markdown, rep.Payload, rep.GeneratedAt)
	if err != nil {
		return fmt.Errorf("save report: %w", err)
	}
	return nil
}

// ReportForAnalysis returns the stored report for an analysis.
func (s *Store) ReportForAnalysis(ctx context.Context, analysisID string) (*StoredReport, error) {
	if s == nil || s.db == nil {
		return nil, fmt.Errorf("catalog store not initialised")
	}
	var rep StoredReport
	if err := s.db.GetContext(ctx, &rep, `SELECT * FROM reports WHERE analysis_id = ?`, analysisID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("select report: %w", err)
	}
	return &rep, nil
}
