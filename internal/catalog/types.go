// File path: internal/catalog/types.go
package catalog

import "time"

// Analysis statuses follow the lifecycle of a background run.
const (
	StatusPending   = "pending"
	StatusRunning   = "running"
	StatusCompleted = "completed"
	StatusFailed    = "failed"
)

// Analysis is one requested migration analysis of a repository.
type Analysis struct {
	ID        string    `db:"id" json:"id"`
	RepoURL   string    `db:"repo_url" json:"repo_url"`
	RepoPath  string    `db:"repo_path" json:"repo_path"`
	Status    string    `db:"status" json:"status"`
	Error     string    `db:"error" json:"error,omitempty"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// StoredReport is the rendered report persisted for a completed analysis.
// Payload holds the embedded JSON document verbatim.
type StoredReport struct {
	ID          int64     `db:"id" json:"id"`
	AnalysisID  string    `db:"analysis_id" json:"analysis_id"`
	Title       string    `db:"title" json:"title"`
	Markdown    string    `db:"markdown" json:"markdown"`
	Payload     string    `db:"payload" json:"payload"`
	GeneratedAt time.Time `db:"generated_at" json:"generated_at"`
}
