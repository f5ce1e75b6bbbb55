// File path: internal/workflow/runner.go
package workflow

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langgraphgo/graph"

	"github.com/ametcalf/busshift/internal/common"
	"github.com/ametcalf/busshift/internal/llm"
	"github.com/ametcalf/busshift/internal/repo"
	"github.com/ametcalf/busshift/internal/report"
	"github.com/ametcalf/busshift/internal/scan"
)

// Config controls one analysis run.
type Config struct {
	RepoURL   string
	RepoPath  string
	OutputDir string
	ChunkSize int
	Scope     report.Scope
}

// Result is what a completed run leaves behind.
type Result struct {
	ReportPath string
	JSONPath   string
	Markdown   string
	Document   *report.JSONDocument
	Inventory  []report.InventoryRecord
	Diffs      []report.DiffRecord
}

// Runner drives the analysis pipeline. The graph state is a message
// transcript recording node progress; the typed pipeline data lives on the
// Runner and is owned by exactly one node at a time, so a Runner must not be
// shared across concurrent runs.
type Runner struct {
	provider llm.Provider
	cfg      Config

	chunks    []repo.Chunk
	inventory []report.InventoryRecord
	diffs     []report.DiffRecord
	result    *Result
}

func NewRunner(provider llm.Provider, cfg Config) *Runner {
	if cfg.OutputDir == "" {
		cfg.OutputDir = cfg.RepoPath
	}
	return &Runner{provider: provider, cfg: cfg}
}

// Run executes the pipeline graph: load source chunks, build the usage
// inventory, generate per-file diffs, render the report. When no provider is
// available the inventory node degrades to the static keyword scan and the
// diff node is a no-op.
func (r *Runner) Run(ctx context.Context) (*Result, error) {
	g := graph.NewMessageGraph()
	g.AddNode("load_source", r.loadSource)
	g.AddNode("scan_inventory", r.scanInventory)
	g.AddNode("generate_diffs", r.generateDiffs)
	g.AddNode("render_report", r.renderReport)
	g.AddEdge("load_source", "scan_inventory")
	g.AddEdge("scan_inventory", "generate_diffs")
	g.AddEdge("generate_diffs", "render_report")
	g.AddEdge("render_report", graph.END)
	g.SetEntryPoint("load_source")

	runnable, err := g.Compile()
	if err != nil {
		return nil, fmt.Errorf("compile workflow graph: %w", err)
	}

	initial := []llms.MessageContent{
		llms.TextParts(llms.ChatMessageTypeHuman, "Analyze this repository for Kafka usage and generate a migration report."),
	}
	if _, err := runnable.Invoke(ctx, initial); err != nil {
		return nil, fmt.Errorf("run workflow graph: %w", err)
	}
	return r.result, nil
}

func (r *Runner) loadSource(ctx context.Context, state []llms.MessageContent) ([]llms.MessageContent, error) {
	chunks, err := repo.LoadChunks(r.cfg.RepoPath, r.cfg.ChunkSize)
	if err != nil {
		return state, err
	}
	r.chunks = chunks
	return progress(state, fmt.Sprintf("loaded %d source chunks", len(chunks))), nil
}

func (r *Runner) scanInventory(ctx context.Context, state []llms.MessageContent) ([]llms.MessageContent, error) {
	logger := common.Logger()

	if r.provider == nil {
		records, err := scan.Scan(r.cfg.RepoPath)
		if err != nil {
			return state, err
		}
		r.inventory = records
		return progress(state, fmt.Sprintf("static scan found %d files", len(records))), nil
	}

	logger.Info("workflow: scanning chunks for Kafka usage", "chunks", len(r.chunks))
	for idx, chunk := range r.chunks {
		if err := ctx.Err(); err != nil {
			return state, err
		}
		messages, err := llm.NormalizeMessages([]llm.Message{{Role: "user", Content: inventoryPrompt(chunk)}})
		if err != nil {
			return state, err
		}
		answer, err := r.provider.Chat(ctx, messages)
		if err != nil {
			logger.Warn("workflow: inventory prompt failed", "file", chunk.File, "error", err)
			continue
		}
		record, ok := decodeInventory(answer)
		if !ok {
			continue
		}
		r.inventory = append(r.inventory, record)
		if idx%20 == 0 {
			logger.Debug("workflow: inventory progress", "processed", idx, "total", len(r.chunks))
		}
	}
	logger.Info("workflow: inventory complete", "files", len(r.inventory))
	return progress(state, fmt.Sprintf("identified Kafka usage in %d files", len(r.inventory))), nil
}

func (r *Runner) generateDiffs(ctx context.Context, state []llms.MessageContent) ([]llms.MessageContent, error) {
	logger := common.Logger()
	if r.provider == nil {
		return progress(state, "no provider configured, skipping diff generation"), nil
	}

	seen := make(map[string]bool)
	for _, item := range r.inventory {
		if err := ctx.Err(); err != nil {
			return state, err
		}
		file := strings.TrimSpace(item.File)
		if file == "" || seen[file] {
			continue
		}
		seen[file] = true

		content, err := os.ReadFile(filepath.Join(r.cfg.RepoPath, filepath.FromSlash(file)))
		if err != nil {
			logger.Warn("workflow: skipping missing inventory file", "file", file, "error", err)
			continue
		}
		messages, err := llm.NormalizeMessages([]llm.Message{{Role: "user", Content: diffPrompt(file, string(content))}})
		if err != nil {
			return state, err
		}
		answer, err := r.provider.Chat(ctx, messages)
		if err != nil {
			logger.Warn("workflow: diff prompt failed", "file", file, "error", err)
			continue
		}
		r.diffs = append(r.diffs, report.BuildDiffRecord(file, answer))
	}
	logger.Info("workflow: diff generation complete", "diffs", len(r.diffs))
	return progress(state, fmt.Sprintf("generated diffs for %d files", len(r.diffs))), nil
}

func (r *Runner) renderReport(ctx context.Context, state []llms.MessageContent) ([]llms.MessageContent, error) {
	rep := &report.Report{
		Title:     report.DefaultTitle,
		Inventory: r.inventory,
		Diffs:     r.diffs,
	}
	doc := report.BuildPipeline(rep, report.NewMeta(r.cfg.RepoURL, time.Now()), r.cfg.Scope)
	markdown := report.RenderMarkdown(rep, doc)

	reportPath, jsonPath, err := writeArtifacts(r.cfg.OutputDir, markdown, doc)
	if err != nil {
		return state, err
	}
	r.result = &Result{
		ReportPath: reportPath,
		JSONPath:   jsonPath,
		Markdown:   markdown,
		Document:   doc,
		Inventory:  r.inventory,
		Diffs:      r.diffs,
	}
	return progress(state, fmt.Sprintf("migration report generated at %s", reportPath)), nil
}

// writeArtifacts removes stale reports so downstream pollers never pick up
// an earlier run, then writes the markdown report and its JSON sibling.
func writeArtifacts(dir, markdown string, doc *report.JSONDocument) (string, string, error) {
	logger := common.Logger()
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", "", fmt.Errorf("prepare output directory: %w", err)
	}

	entries, err := os.ReadDir(dir)
	if err == nil {
		for _, entry := range entries {
			name := entry.Name()
			if strings.HasPrefix(name, "migration-report-") && (strings.HasSuffix(name, ".md") || strings.HasSuffix(name, ".json")) {
				if rmErr := os.Remove(filepath.Join(dir, name)); rmErr == nil {
					logger.Debug("workflow: removed stale report", "name", name)
				}
			}
		}
	}

	stamp := strconv.FormatInt(time.Now().UnixMilli(), 10)
	reportPath := filepath.Join(dir, "migration-report-"+stamp+".md")
	jsonPath := filepath.Join(dir, "migration-report-"+stamp+".json")

	payload, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return "", "", fmt.Errorf("encode report payload: %w", err)
	}
	if err := os.WriteFile(jsonPath, payload, 0o644); err != nil {
		return "", "", fmt.Errorf("write json report: %w", err)
	}
	if err := os.WriteFile(reportPath, []byte(markdown), 0o644); err != nil {
		return "", "", fmt.Errorf("write markdown report: %w", err)
	}
	logger.Info("workflow: report artifacts written", "markdown", reportPath, "json", jsonPath)
	return reportPath, jsonPath, nil
}

func progress(state []llms.MessageContent, message string) []llms.MessageContent {
	return append(state, llms.TextParts(llms.ChatMessageTypeAI, message))
}
