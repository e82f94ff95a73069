// Package gitsrc reads file content at a git revision by shelling out to
// the git binary. It is the revision-comparison collaborator of the core:
// parsing and comparison never touch git themselves.
package gitsrc

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"

	"github.com/btkit/btdiff/pkg/domain"
)

// Source reads blobs from a local git repository.
type Source struct {
	dir string // repository working directory
}

// New creates a Source rooted at the given repository directory.
func New(repoDir string) *Source {
	if repoDir == "" {
		repoDir = "."
	}
	return &Source{dir: repoDir}
}

// Read returns the content of path at revision, via `git show rev:path`.
// A missing path or unknown revision yields domain.ErrContentNotFound.
func (s *Source) Read(ctx context.Context, path, revision string) ([]byte, error) {
	spec := fmt.Sprintf("%s:%s", revision, path)
	cmd := exec.CommandContext(ctx, "git", "-C", s.dir, "show", spec)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if msg := fatalMessage(&stderr); msg != "" {
			return nil, fmt.Errorf("git show %s: %s: %w", spec, msg, domain.ErrContentNotFound)
		}
		return nil, fmt.Errorf("git show %s: %w", spec, err)
	}
	return stdout.Bytes(), nil
}

// IsRepository reports whether the source directory is inside a git
// work tree.
func (s *Source) IsRepository(ctx context.Context) bool {
	cmd := exec.CommandContext(ctx, "git", "-C", s.dir, "rev-parse", "--git-dir")
	return cmd.Run() == nil
}

// fatalMessage extracts the first fatal/error line from git's stderr.
func fatalMessage(out *bytes.Buffer) string {
	for _, line := range strings.Split(out.String(), "\n") {
		switch {
		case strings.HasPrefix(line, "fatal: "):
			return strings.TrimPrefix(line, "fatal: ")
		case strings.HasPrefix(line, "error: "):
			return strings.TrimPrefix(line, "error: ")
		}
	}
	return ""
}
