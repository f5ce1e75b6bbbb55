// File path: internal/report/types.go
package report

// InventoryRecord is one row of the usage inventory table: a single file's
// use of the legacy messaging API. Duplicate files are preserved in table
// order, never merged.
type InventoryRecord struct {
	File     string `json:"file"`
	APIsUsed string `json:"apis_used"`
	Summary  string `json:"summary"`
}

// DiffRecord is the structured form of one file's proposed change. An empty
// DiffBody is valid and means no change was recommended.
type DiffRecord struct {
	File        string   `json:"file"`
	Description string   `json:"description"`
	DiffBody    string   `json:"diff_content"`
	KeyChanges  []string `json:"key_changes,omitempty"`
	Notes       []string `json:"notes,omitempty"`
}

// SectionKind tags a section payload by the shape of its content.
type SectionKind string

const (
	SectionTable SectionKind = "table"
	SectionDiffs SectionKind = "code_diffs"
	SectionText  SectionKind = "text"
)

// Section is the superset view of one level-2 section: raw content plus, for
// table and code_diffs sections, the parsed records.
type Section struct {
	Kind      SectionKind       `json:"type"`
	Content   string            `json:"content"`
	Inventory []InventoryRecord `json:"parsed_inventory,omitempty"`
	Diffs     []DiffRecord      `json:"parsed_diffs,omitempty"`
}

// Report is the typed result of parsing a migration report. Sections is
// reconstructible purely from the raw markdown; Inventory and Diffs are the
// records of the first matching inventory and diffs sections.
type Report struct {
	Title     string
	Inventory []InventoryRecord
	Diffs     []DiffRecord
	Sections  map[string]Section
}
