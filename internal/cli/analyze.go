// File path: internal/cli/analyze.go
package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/ametcalf/busshift/internal/llm"
	"github.com/ametcalf/busshift/internal/repo"
	"github.com/ametcalf/busshift/internal/report"
	"github.com/ametcalf/busshift/internal/workflow"
)

var (
	analyzeRepoPath   string
	analyzeOutputDir  string
	analyzeModel      string
	analyzeBaseURL    string
	analyzeAPIKey     string
	analyzeAPIVersion string
	analyzeChunkSize  int
	analyzePerFile    bool
	analyzeStatic     bool
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze [repo-url]",
	Short: "Analyze a repository and generate a migration report",
	Long: "Analyze clones the repository (or reuses --repo-path), scans it for Kafka " +
		"usage, generates per-file migration diffs, and writes the markdown report " +
		"and its JSON sibling to the output directory.",
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		repoURL := ""
		if len(args) > 0 {
			repoURL = strings.TrimSpace(args[0])
		}
		if repoURL == "" && strings.TrimSpace(analyzeRepoPath) == "" {
			return fmt.Errorf("a repo URL argument or --repo-path is required")
		}

		path := strings.TrimSpace(analyzeRepoPath)
		if path == "" {
			path = filepath.Join(os.TempDir(), "busshift_repos", repoSlug(repoURL))
		}
		if repoURL != "" {
			color.Cyan("Cloning %s", repoURL)
			if err := repo.EnsureClone(cmd.Context(), repoURL, path); err != nil {
				return fmt.Errorf("clone repository: %w", err)
			}
		}

		var provider llm.Provider
		if !analyzeStatic {
			provider = llm.NewProviderWithOptions(llm.Options{
				APIKey:     analyzeAPIKey,
				BaseURL:    analyzeBaseURL,
				Model:      analyzeModel,
				APIVersion: analyzeAPIVersion,
			})
			color.Cyan("Using provider %s", provider.Name())
		} else {
			color.Yellow("Static scan only, no diffs will be generated")
		}

		scope := report.ScopeGlobal
		if analyzePerFile {
			scope = report.ScopePerFile
		}
		runner := workflow.NewRunner(provider, workflow.Config{
			RepoURL:   repoURL,
			RepoPath:  path,
			OutputDir: analyzeOutputDir,
			ChunkSize: analyzeChunkSize,
			Scope:     scope,
		})
		result, err := runner.Run(cmd.Context())
		if err != nil {
			return fmt.Errorf("run analysis: %w", err)
		}

		color.Green("Inventory: %d files with Kafka usage", len(result.Inventory))
		color.Green("Diffs: %d files", len(result.Diffs))
		color.Green("Report: %s", result.ReportPath)
		color.Green("JSON:   %s", result.JSONPath)
		return nil
	},
}

func init() {
	analyzeCmd.Flags().StringVar(&analyzeRepoPath, "repo-path", "", "existing checkout to analyze instead of cloning")
	analyzeCmd.Flags().StringVarP(&analyzeOutputDir, "output", "o", "", "directory for report artifacts (defaults to the checkout)")
	analyzeCmd.Flags().StringVar(&analyzeModel, "model", os.Getenv("AI_MODEL"), "chat model name")
	analyzeCmd.Flags().StringVar(&analyzeBaseURL, "base-url", os.Getenv("AI_ENDPOINT_URL"), "OpenAI-compatible endpoint URL")
	analyzeCmd.Flags().StringVar(&analyzeAPIKey, "api-key", "", "API key (defaults to AI_API_KEY / OPENAI_API_KEY)")
	analyzeCmd.Flags().StringVar(&analyzeAPIVersion, "api-version", os.Getenv("AI_API_VERSION"), "api-version query parameter for Azure-style endpoints")
	analyzeCmd.Flags().IntVar(&analyzeChunkSize, "chunk-size", 0, "source chunk size in bytes (0 uses the default)")
	analyzeCmd.Flags().BoolVar(&analyzePerFile, "per-file", false, "attach key changes and notes per diff instead of pooling them")
	analyzeCmd.Flags().BoolVar(&analyzeStatic, "static", false, "skip the model and run the keyword scan only")
}

// repoSlug derives a stable directory name from a repository URL.
func repoSlug(repoURL string) string {
	slug := strings.TrimSuffix(repoURL, ".git")
	if idx := strings.LastIndexByte(slug, '/'); idx >= 0 {
		slug = slug[idx+1:]
	}
	slug = strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_', r == '.':
			return r
		default:
			return '-'
		}
	}, slug)
	if slug == "" {
		slug = "repo"
	}
	return slug
}
