// File path: internal/cli/cli_test.go
package cli

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
)

func TestRepoSlug(t *testing.T) {
	cases := []struct {
		url  string
		want string
	}{
		{"https://github.com/acme/orders-service.git", "orders-service"},
		{"https://github.com/acme/orders-service", "orders-service"},
		{"git@host:weird path", "weird-path"},
		{"", "repo"},
	}
	for _, tc := range cases {
		if got := repoSlug(tc.url); got != tc.want {
			t.Fatalf("repoSlug(%q) = %q, want %q", tc.url, got, tc.want)
		}
	}
}

func TestParseCommand(t *testing.T) {
	dir := t.TempDir()
	reportPath := filepath.Join(dir, "report.md")
	content := "# Migration Report\n\n## 1. Kafka Usage Inventory\n\n" +
		"| File | APIs Used | Summary |\n| --- | --- | --- |\n| a.cs | Consume | loop |\n"
	if err := os.WriteFile(reportPath, []byte(content), 0o644); err != nil {
		t.Fatalf("write report: %v", err)
	}

	outPath := filepath.Join(dir, "report.json")
	parseOutput = outPath
	defer func() { parseOutput = "" }()

	if err := parseCmd.RunE(parseCmd, []string{reportPath}); err != nil {
		t.Fatalf("parse command failed: %v", err)
	}

	data, err := os.ReadFile(outPath)
	if err != nil {
		t.Fatalf("read output: %v", err)
	}
	var doc struct {
		Title     string `json:"title"`
		Inventory []struct {
			File string `json:"file"`
		} `json:"inventory"`
	}
	if err := json.Unmarshal(data, &doc); err != nil {
		t.Fatalf("decode output: %v", err)
	}
	if doc.Title != "Migration Report" || len(doc.Inventory) != 1 || doc.Inventory[0].File != "a.cs" {
		t.Fatalf("unexpected document: %+v", doc)
	}
}
