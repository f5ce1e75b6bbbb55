// File path: internal/report/render.go
package report

import (
	"encoding/json"
	"strconv"
	"strings"
	"time"
)

const (
	sentinelBegin = "<!--BEGIN:REPORT_JSON-->"
	sentinelEnd   = "<!--END:REPORT_JSON-->"

	// noDiffPlaceholder replaces the fenced block when a record carries no
	// diff content.
	noDiffPlaceholder = "*No diff content generated*"

	// DefaultTitle is the rendered title when a report has none of its own.
	DefaultTitle = "Kafka → Azure Service Bus Migration Report"
)

// Scope selects how extracted key changes and notes are exposed: attached to
// the diff record they came from, or pooled and de-duplicated across the
// whole report.
type Scope int

const (
	ScopePerFile Scope = iota
	ScopeGlobal
)

// Meta identifies the analysis run a document belongs to. GeneratedAt is a
// millisecond epoch rendered as a decimal string, the format downstream
// tooling expects.
type Meta struct {
	RepoURL     string `json:"repoUrl"`
	GeneratedAt string `json:"generatedAt"`
}

// NewMeta stamps a Meta for the given repository at the given time.
func NewMeta(repoURL string, now time.Time) Meta {
	return Meta{RepoURL: repoURL, GeneratedAt: strconv.FormatInt(now.UnixMilli(), 10)}
}

type inventoryJSON struct {
	File      string   `json:"file"`
	KafkaAPIs []string `json:"kafka_apis"`
	Summary   string   `json:"summary"`
}

type diffJSON struct {
	Path        string   `json:"path"`
	Diff        string   `json:"diff"`
	Description string   `json:"description"`
	KeyChanges  []string `json:"key_changes,omitempty"`
	Notes       []string `json:"notes,omitempty"`
}

// Stats summarizes a document. SectionsCount is present only in the
// standalone document-parse variant.
type Stats struct {
	TotalFilesWithKafka int  `json:"total_files_with_kafka"`
	TotalFilesWithDiffs int  `json:"total_files_with_diffs"`
	SectionsCount       *int `json:"sections_count,omitempty"`
}

// JSONDocument is the machine-consumable rendering of a Report. The
// kafka_apis key name is retained for downstream compatibility.
type JSONDocument struct {
	Meta       Meta               `json:"meta"`
	Title      string             `json:"title,omitempty"`
	Inventory  []inventoryJSON    `json:"inventory"`
	Diffs      []diffJSON         `json:"diffs"`
	KeyChanges []string           `json:"keyChanges,omitempty"`
	Notes      []string           `json:"notes,omitempty"`
	Sections   map[string]Section `json:"sections,omitempty"`
	Stats      Stats              `json:"stats"`
}

// BuildDocument assembles the standalone-file-parse variant: per-file
// annotation scope, section payloads, and a sections count in the stats.
func BuildDocument(rep *Report, meta Meta) *JSONDocument {
	doc := assemble(rep, meta, ScopePerFile)
	doc.Title = rep.Title
	doc.Sections = rep.Sections
	count := len(rep.Sections)
	doc.Stats.SectionsCount = &count
	return doc
}

// BuildPipeline assembles the workflow variant written next to a generated
// report. ScopeGlobal pools key changes and notes across all diffs,
// de-duplicated in first-seen order.
func BuildPipeline(rep *Report, meta Meta, scope Scope) *JSONDocument {
	return assemble(rep, meta, scope)
}

func assemble(rep *Report, meta Meta, scope Scope) *JSONDocument {
	doc := &JSONDocument{
		Meta:      meta,
		Inventory: make([]inventoryJSON, 0, len(rep.Inventory)),
		Diffs:     make([]diffJSON, 0, len(rep.Diffs)),
	}
	for _, item := range rep.Inventory {
		doc.Inventory = append(doc.Inventory, inventoryJSON{
			File:      item.File,
			KafkaAPIs: splitAPIs(item.APIsUsed),
			Summary:   item.Summary,
		})
	}
	for _, diff := range rep.Diffs {
		if ExcludedFile(diff.File) {
			continue
		}
		entry := diffJSON{Path: diff.File, Diff: diff.DiffBody, Description: diff.Description}
		if scope == ScopePerFile {
			entry.KeyChanges = diff.KeyChanges
			entry.Notes = diff.Notes
		} else {
			doc.KeyChanges = appendUnique(doc.KeyChanges, diff.KeyChanges)
			doc.Notes = appendUnique(doc.Notes, diff.Notes)
		}
		doc.Diffs = append(doc.Diffs, entry)
	}
	doc.Stats.TotalFilesWithKafka = len(doc.Inventory)
	doc.Stats.TotalFilesWithDiffs = len(doc.Diffs)
	return doc
}

// ExcludedFile reports whether a file is always kept out of the rendered
// diffs section, regardless of upstream detection.
func ExcludedFile(file string) bool {
	return strings.EqualFold(strings.TrimSpace(file), "readme.md")
}

// splitAPIs splits a comma-joined API list back into entries. Commas inside
// angle brackets belong to generic type arguments such as
// Consumer<string,string> and never delimit.
func splitAPIs(apis string) []string {
	var out []string
	depth := 0
	start := 0
	flush := func(end int) {
		if trimmed := strings.TrimSpace(apis[start:end]); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	for i := 0; i < len(apis); i++ {
		switch apis[i] {
		case '<':
			depth++
		case '>':
			if depth > 0 {
				depth--
			}
		case ',':
			if depth == 0 {
				flush(i)
				start = i + 1
			}
		}
	}
	flush(len(apis))
	return out
}

func appendUnique(dst []string, src []string) []string {
	for _, s := range src {
		seen := false
		for _, existing := range dst {
			if existing == s {
				seen = true
				break
			}
		}
		if !seen {
			dst = append(dst, s)
		}
	}
	return dst
}

// RenderMarkdown produces the canonical markdown document: the embedded JSON
// sentinel block first so tooling can lift structured data without running
// the parser, then the title, the inventory table, and one subsection per
// diff. Records excluded by ExcludedFile are not rendered.
func RenderMarkdown(rep *Report, doc *JSONDocument) string {
	var b strings.Builder

	payload, err := json.MarshalIndent(doc, "", "  ")
	if err == nil {
		b.WriteString(sentinelBegin + "\n")
		b.Write(payload)
		b.WriteString("\n" + sentinelEnd + "\n\n")
	}

	title := strings.TrimSpace(rep.Title)
	if title == "" || title == FallbackTitle {
		title = DefaultTitle
	}
	b.WriteString("# " + title + "\n\n")

	b.WriteString("## 1. Kafka Usage Inventory\n\n")
	b.WriteString("| File | APIs Used | Summary |\n")
	b.WriteString("|------|-----------|---------|\n")
	for _, item := range rep.Inventory {
		b.WriteString("| " + item.File + " | " + item.APIsUsed + " | " + item.Summary + " |\n")
	}
	b.WriteString("\n")

	b.WriteString("## 2. Code Migration Diffs\n\n")
	for _, diff := range rep.Diffs {
		if ExcludedFile(diff.File) {
			continue
		}
		b.WriteString("### " + diff.File + "\n")
		if desc := strings.TrimSpace(diff.Description); desc != "" {
			b.WriteString(desc + "\n\n")
		}
		if body := strings.TrimSpace(diff.DiffBody); body != "" {
			b.WriteString("```diff\n" + body + "\n```\n\n")
		} else {
			b.WriteString(noDiffPlaceholder + "\n\n")
		}
	}

	return b.String()
}

// ExtractEmbeddedJSON lifts the sentinel-delimited JSON payload out of a
// rendered markdown document. The second value is false when no complete
// sentinel block exists or the payload does not decode.
func ExtractEmbeddedJSON(markdown string) (*JSONDocument, bool) {
	start := strings.Index(markdown, sentinelBegin)
	if start < 0 {
		return nil, false
	}
	rest := markdown[start+len(sentinelBegin):]
	end := strings.Index(rest, sentinelEnd)
	if end < 0 {
		return nil, false
	}
	var doc JSONDocument
	if err := json.Unmarshal([]byte(strings.TrimSpace(rest[:end])), &doc); err != nil {
		return nil, false
	}
	return &doc, true
}
