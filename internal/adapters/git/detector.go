// Package git tags sessions with the branch they were worked on, using go-git.
package git

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/xvierd/pomo-cli/internal/ports"
)

// ErrNoRepository is returned when no enclosing repository exists.
var ErrNoRepository = errors.New("no git repository found")

// Detector implements the ports.GitDetector interface using go-git.
type Detector struct{}

// NewDetector creates a new git detector.
func NewDetector() *Detector {
	return &Detector{}
}

// Ensure Detector implements ports.GitDetector.
var _ ports.GitDetector = (*Detector)(nil)

// Detect finds the repository enclosing workingDir and reports its branch.
// A repository without commits still reports the branch HEAD points at.
func (d *Detector) Detect(ctx context.Context, workingDir string) (*ports.GitInfo, error) {
	if workingDir == "" {
		var err error
		workingDir, err = os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get working directory: %w", err)
		}
	}

	repoPath, err := findGitRepo(workingDir)
	if err != nil {
		return nil, err
	}

	repo, err := git.PlainOpen(repoPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open git repository: %w", err)
	}

	info := &ports.GitInfo{Repository: repoName(repo, repoPath)}

	head, err := repo.Head()
	if errors.Is(err, plumbing.ErrReferenceNotFound) {
		// Unborn branch: HEAD is symbolic but has no target yet.
		ref, refErr := repo.Reference(plumbing.HEAD, false)
		if refErr != nil {
			return nil, fmt.Errorf("failed to read HEAD: %w", refErr)
		}
		info.Branch = ref.Target().Short()
		info.IsClean = true
		return info, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get HEAD: %w", err)
	}

	info.Branch = head.Name().Short()
	if !head.Name().IsBranch() {
		info.Branch = "detached@" + GetShortCommit(head.Hash().String())
	}
	info.Commit = head.Hash().String()

	if wt, err := repo.Worktree(); err == nil {
		if status, err := wt.Status(); err == nil {
			info.IsClean = status.IsClean()
		}
	}

	return info, nil
}

// IsAvailable reports whether the current directory is inside a repository.
func (d *Detector) IsAvailable() bool {
	cwd, err := os.Getwd()
	if err != nil {
		return false
	}
	_, err = findGitRepo(cwd)
	return err == nil
}

// findGitRepo walks up from startPath looking for .git (a directory, or a
// file with a gitdir pointer for worktrees).
func findGitRepo(startPath string) (string, error) {
	currentPath, err := filepath.Abs(startPath)
	if err != nil {
		return "", err
	}

	for {
		gitPath := filepath.Join(currentPath, ".git")
		if info, err := os.Stat(gitPath); err == nil {
			if info.IsDir() {
				return currentPath, nil
			}
			content, err := os.ReadFile(gitPath)
			if err == nil && strings.HasPrefix(string(content), "gitdir: ") {
				return currentPath, nil
			}
		}

		parent := filepath.Dir(currentPath)
		if parent == currentPath {
			return "", fmt.Errorf("%w above %s", ErrNoRepository, startPath)
		}
		currentPath = parent
	}
}

func repoName(repo *git.Repository, repoPath string) string {
	remotes, err := repo.Remotes()
	if err == nil && len(remotes) > 0 {
		if urls := remotes[0].Config().URLs; len(urls) > 0 {
			return extractRepoName(urls[0])
		}
	}
	return filepath.Base(repoPath)
}

// extractRepoName extracts "owner/repo" from a remote URL.
func extractRepoName(url string) string {
	url = strings.TrimSuffix(url, ".git")

	// git@github.com:user/repo
	if strings.HasPrefix(url, "git@") {
		if i := strings.LastIndex(url, ":"); i >= 0 {
			return url[i+1:]
		}
	}

	if strings.HasPrefix(url, "http") || strings.HasPrefix(url, "ssh://") {
		parts := strings.Split(url, "/")
		if len(parts) >= 2 {
			return parts[len(parts)-2] + "/" + parts[len(parts)-1]
		}
	}

	return url
}

// GetShortCommit returns a shortened commit hash.
func GetShortCommit(commit string) string {
	if len(commit) > 7 {
		return commit[:7]
	}
	return commit
}
