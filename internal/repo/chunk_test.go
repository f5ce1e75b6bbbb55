// File path: internal/repo/chunk_test.go
package repo

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLoadChunks(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "Api/Consumer.cs", strings.Repeat("a", 25))
	writeFile(t, root, "Api/Producer.cs", "short")
	writeFile(t, root, "logo.png", "not really an image")
	writeFile(t, root, "data.bin", "binary\x00payload")
	writeFile(t, root, filepath.Join(".git", "HEAD"), "ref: refs/heads/main")

	chunks, err := LoadChunks(root, 10)
	if err != nil {
		t.Fatalf("LoadChunks failed: %v", err)
	}

	byFile := map[string]int{}
	for _, c := range chunks {
		byFile[c.File]++
		if strings.Contains(c.File, ".git") {
			t.Fatalf(".git content must be skipped: %+v", c)
		}
	}
	if byFile["Api/Consumer.cs"] != 3 {
		t.Fatalf("expected 3 chunks for 25 chars at size 10, got %d", byFile["Api/Consumer.cs"])
	}
	if byFile["Api/Producer.cs"] != 1 {
		t.Fatalf("expected 1 chunk, got %d", byFile["Api/Producer.cs"])
	}
	if byFile["logo.png"] != 0 {
		t.Fatalf("excluded extension was chunked")
	}
	if byFile["data.bin"] != 0 {
		t.Fatalf("binary file was chunked")
	}
}

func TestChunkPrompt(t *testing.T) {
	c := Chunk{File: "Api/Consumer.cs", Content: "using Confluent.Kafka;"}
	want := "File: Api/Consumer.cs\nusing Confluent.Kafka;"
	if got := c.Prompt(); got != want {
		t.Fatalf("unexpected prompt: %q", got)
	}
}

func writeFile(t *testing.T, root, rel, content string) {
	t.Helper()
	path := filepath.Join(root, rel)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
}
