// File path: internal/repo/chunk.go
package repo

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/ametcalf/busshift/internal/common"
)

// DefaultChunkSize bounds the characters of one chunk sent to the model.
const DefaultChunkSize = 4000

var excludedExtensions = []string{".png", ".jpg", ".jpeg", ".gif", ".exe", ".dll", ".bin", ".so", ".zip"}

// Chunk is one model-sized slice of a source file.
type Chunk struct {
	File    string
	Content string
}

// Prompt renders the chunk the way the analysis prompts expect it, with the
// repository-relative path on the first line.
func (c Chunk) Prompt() string {
	return fmt.Sprintf("File: %s\n%s", c.File, c.Content)
}

// LoadChunks walks the repository tree and slices every text file into
// fixed-size chunks. Binary files (NUL byte in the first KiB), excluded
// extensions, and the .git directory are skipped; unreadable files are
// logged and skipped rather than failing the walk.
func LoadChunks(root string, size int) ([]Chunk, error) {
	if size <= 0 {
		size = DefaultChunkSize
	}
	logger := common.Logger()

	var chunks []Chunk
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if d.Name() == ".git" {
				return filepath.SkipDir
			}
			return nil
		}
		if hasExcludedExtension(d.Name()) {
			return nil
		}
		data, readErr := os.ReadFile(path)
		if readErr != nil {
			logger.Warn("repo: skipping unreadable file", "path", path, "error", readErr)
			return nil
		}
		if isBinary(data) {
			return nil
		}
		rel, relErr := filepath.Rel(root, path)
		if relErr != nil {
			rel = path
		}
		rel = filepath.ToSlash(rel)
		content := string(data)
		for start := 0; start < len(content); start += size {
			end := start + size
			if end > len(content) {
				end = len(content)
			}
			chunks = append(chunks, Chunk{File: rel, Content: content[start:end]})
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk repository: %w", err)
	}
	logger.Info("repo: chunks loaded", "root", root, "chunks", len(chunks))
	return chunks, nil
}

func hasExcludedExtension(name string) bool {
	lower := strings.ToLower(name)
	for _, ext := range excludedExtensions {
		if strings.HasSuffix(lower, ext) {
			return true
		}
	}
	return false
}

func isBinary(data []byte) bool {
	probe := data
	if len(probe) > 1024 {
		probe = probe[:1024]
	}
	for _, b := range probe {
		if b == 0 {
			return true
		}
	}
	return false
}
