package git

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/config"
	"github.com/go-git/go-git/v5/plumbing/object"
)

func initRepo(t *testing.T) (string, *git.Repository) {
	t.Helper()
	dir := t.TempDir()
	repo, err := git.PlainInit(dir, false)
	if err != nil {
		t.Fatalf("Failed to init git repo: %v", err)
	}
	return dir, repo
}

func commitFile(t *testing.T, dir string, repo *git.Repository) string {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("focus"), 0644); err != nil {
		t.Fatalf("Failed to create test file: %v", err)
	}
	wt, err := repo.Worktree()
	if err != nil {
		t.Fatalf("Failed to get worktree: %v", err)
	}
	if _, err := wt.Add("notes.txt"); err != nil {
		t.Fatalf("Failed to add file: %v", err)
	}
	hash, err := wt.Commit("Initial commit", &git.CommitOptions{
		Author: &object.Signature{Name: "Test User", Email: "test@example.com"},
	})
	if err != nil {
		t.Fatalf("Failed to create commit: %v", err)
	}
	return hash.String()
}

func TestDetector_Detect(t *testing.T) {
	dir, repo := initRepo(t)
	commit := commitFile(t, dir, repo)

	sub := filepath.Join(dir, "a", "b")
	if err := os.MkdirAll(sub, 0755); err != nil {
		t.Fatal(err)
	}

	info, err := NewDetector().Detect(context.Background(), sub)
	if err != nil {
		t.Fatalf("Detect() error = %v", err)
	}

	if info.Commit != commit {
		t.Errorf("Expected commit %s, got %s", commit, info.Commit)
	}
	// go-git defaults to master
	if info.Branch != "master" && info.Branch != "main" {
		t.Errorf("Unexpected branch: %s", info.Branch)
	}
	if !info.IsClean {
		t.Error("Expected clean worktree after commit")
	}
	if info.Repository != filepath.Base(dir) {
		t.Errorf("Repository = %q, want %q", info.Repository, filepath.Base(dir))
	}
}

func TestDetector_Detect_UnbornBranch(t *testing.T) {
	dir, _ := initRepo(t)

	info, err := NewDetector().Detect(context.Background(), dir)
	if err != nil {
		t.Fatalf("Detect() error = %v", err)
	}
	if info.Branch != "master" && info.Branch != "main" {
		t.Errorf("Unexpected branch: %s", info.Branch)
	}
	if info.Commit != "" {
		t.Errorf("Expected no commit, got %s", info.Commit)
	}
}

func TestDetector_Detect_RemoteName(t *testing.T) {
	dir, repo := initRepo(t)
	commitFile(t, dir, repo)
	_, err := repo.CreateRemote(&config.RemoteConfig{
		Name: "origin",
		URLs: []string{"git@github.com:xvierd/pomo-cli.git"},
	})
	if err != nil {
		t.Fatalf("CreateRemote() error = %v", err)
	}

	info, err := NewDetector().Detect(context.Background(), dir)
	if err != nil {
		t.Fatalf("Detect() error = %v", err)
	}
	if info.Repository != "xvierd/pomo-cli" {
		t.Errorf("Repository = %q, want xvierd/pomo-cli", info.Repository)
	}
}

func TestDetector_Detect_NoGitRepo(t *testing.T) {
	_, err := NewDetector().Detect(context.Background(), t.TempDir())
	if err == nil {
		t.Skip("temp dir is inside a git repository")
	}
	if !errors.Is(err, ErrNoRepository) {
		t.Errorf("Detect() error = %v, want ErrNoRepository", err)
	}
}

func TestExtractRepoName(t *testing.T) {
	tests := []struct {
		url  string
		want string
	}{
		{"git@github.com:user/repo.git", "user/repo"},
		{"https://github.com/user/repo.git", "user/repo"},
		{"https://github.com/user/repo", "user/repo"},
		{"ssh://git@host/user/repo.git", "user/repo"},
		{"local", "local"},
	}
	for _, tt := range tests {
		if got := extractRepoName(tt.url); got != tt.want {
			t.Errorf("extractRepoName(%q) = %q, want %q", tt.url, got, tt.want)
		}
	}
}

func TestGetShortCommit(t *testing.T) {
	if got := GetShortCommit("0123456789abcdef"); got != "0123456" {
		t.Errorf("GetShortCommit() = %q", got)
	}
	if got := GetShortCommit("abc"); got != "abc" {
		t.Errorf("GetShortCommit() = %q", got)
	}
}
