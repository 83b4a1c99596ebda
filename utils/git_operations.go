package utils

import (
	"fmt"
	"os/exec"
	"strings"
)

// GitOperations handles git-related operations
type GitOperations struct {
	workingDir string
}

// NewGitOperations creates a new GitOperations instance
func NewGitOperations(workingDir string) *GitOperations {
	return &GitOperations{workingDir: workingDir}
}

// CheckGitRepo checks if the current directory is a git repository
func (g *GitOperations) CheckGitRepo() error {
	cmd := exec.Command("git", "rev-parse", "--git-dir")
	cmd.Dir = g.workingDir
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("not a git repository")
	}
	return nil
}

// ChangedFiles returns the paths touched in the working tree relative to the
// given ref (default HEAD). Paths are relative to the repository root.
func (g *GitOperations) ChangedFiles(ref string) ([]string, error) {
	if ref == "" {
		ref = "HEAD"
	}

	cmd := exec.Command("git", "diff", "--name-only", ref)
	cmd.Dir = g.workingDir
	output, err := cmd.Output()
	if err != nil {
		return nil, fmt.Errorf("failed to get changed files: %w", err)
	}

	var files []string
	for _, line := range strings.Split(string(output), "\n") {
		line = strings.TrimSpace(line)
		if line != "" {
			files = append(files, line)
		}
	}
	return files, nil
}

// UntrackedFiles returns files git knows nothing about yet. New source files
// matter for impact analysis because other files may already import them.
func (g *GitOperations) UntrackedFiles() ([]string, error) {
	cmd := exec.Command("git", "ls-files", "--others", "--exclude-standard")
	cmd.Dir = g.workingDir
	output, err := cmd.Output()
	if err != nil {
		return nil, fmt.Errorf("failed to list untracked files: %w", err)
	}

	var files []string
	for _, line := range strings.Split(string(output), "\n") {
		line = strings.TrimSpace(line)
		if line != "" {
			files = append(files, line)
		}
	}
	return files, nil
}

// GetBranchName returns the current branch name
func (g *GitOperations) GetBranchName() (string, error) {
	cmd := exec.Command("git", "rev-parse", "--abbrev-ref", "HEAD")
	cmd.Dir = g.workingDir
	output, err := cmd.Output()
	if err != nil {
		return "", fmt.Errorf("failed to get branch name: %w", err)
	}
	return strings.TrimSpace(string(output)), nil
}

// GetRepoRoot returns the absolute path of the repository root.
func (g *GitOperations) GetRepoRoot() (string, error) {
	cmd := exec.Command("git", "rev-parse", "--show-toplevel")
	cmd.Dir = g.workingDir
	output, err := cmd.Output()
	if err != nil {
		return "", fmt.Errorf("failed to get repository root: %w", err)
	}
	return strings.TrimSpace(string(output)), nil
}
