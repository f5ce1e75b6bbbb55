// File path: internal/repo/repo.go
package repo

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/ametcalf/busshift/internal/common"
)

// EnsureClone makes sure the repository at repoURL is present at path. An
// existing non-git directory with content is reused as-is (the caller may
// have staged the files already); an existing clone is fast-forwarded only
// when the remote HEAD moved; otherwise a shallow clone is made.
func EnsureClone(ctx context.Context, repoURL, path string) error {
	logger := common.Logger()

	if entries, err := os.ReadDir(path); err == nil && len(entries) > 0 {
		if _, statErr := os.Stat(filepath.Join(path, ".git")); statErr != nil {
			logger.Info("repo: existing files found, skipping clone", "path", path)
			return nil
		}
		return updateClone(ctx, repoURL, path)
	}

	logger.Info("repo: cloning repository", "url", repoURL, "path", path)
	if err := os.MkdirAll(path, 0o755); err != nil {
		return fmt.Errorf("prepare clone directory: %w", err)
	}
	if out, err := runGit(ctx, "", "clone", "--depth", "1", repoURL, path); err != nil {
		return fmt.Errorf("git clone: %w: %s", err, out)
	}
	return nil
}

func updateClone(ctx context.Context, repoURL, path string) error {
	logger := common.Logger()

	remoteOut, err := runGit(ctx, "", "ls-remote", repoURL, "HEAD")
	if err != nil {
		return fmt.Errorf("git ls-remote: %w: %s", err, remoteOut)
	}
	remoteHead := strings.Fields(remoteOut)
	localOut, err := runGit(ctx, path, "rev-parse", "HEAD")
	if err != nil {
		return fmt.Errorf("git rev-parse: %w: %s", err, localOut)
	}
	localHead := strings.TrimSpace(localOut)

	if len(remoteHead) > 0 && remoteHead[0] == localHead {
		logger.Info("repo: local clone up to date", "path", path)
		return nil
	}
	logger.Info("repo: pulling latest changes", "path", path)
	if out, err := runGit(ctx, path, "pull"); err != nil {
		return fmt.Errorf("git pull: %w: %s", err, out)
	}
	return nil
}

func runGit(ctx context.Context, dir string, args ...string) (string, error) {
	cmd := exec.CommandContext(ctx, "git", args...)
	if dir != "" {
		cmd.Dir = dir
	}
	var buf bytes.Buffer
	cmd.Stdout = &buf
	cmd.Stderr = &buf
	err := cmd.Run()
	return buf.String(), err
}
