// Package git provides the scan inputs derived from a repository: staged
// file contents, files changed against a base branch, and repo metadata
// for audit records.
package git

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	gogit "github.com/go-git/go-git/v5"
)

// validateRoot validates and normalizes a git repository root path.
func validateRoot(root string) (string, error) {
	if strings.ContainsRune(root, 0) {
		return "", fmt.Errorf("invalid path: contains null byte")
	}
	abs, err := filepath.Abs(filepath.Clean(root))
	if err != nil {
		return "", fmt.Errorf("invalid path %q: %w", root, err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		return "", fmt.Errorf("cannot access path %q: %w", root, err)
	}
	if !info.IsDir() {
		return "", fmt.Errorf("path is not a directory: %s", root)
	}
	return abs, nil
}

// RepoMetadata returns (repo, commit, branch) best-effort for the given
// root. Empty strings are returned on failure.
func RepoMetadata(root string) (string, string, string) {
	validRoot, err := validateRoot(root)
	if err != nil {
		return "", "", ""
	}
	r, err := gogit.PlainOpen(validRoot)
	if err != nil {
		return "", "", ""
	}

	repo := ""
	if remote, err := r.Remote("origin"); err == nil {
		urls := remote.Config().URLs
		if len(urls) > 0 {
			s := strings.TrimSuffix(urls[0], ".git")
			if i := strings.LastIndex(s, ":"); i >= 0 {
				s = s[i+1:]
			}
			if i := strings.Index(s, "github.com/"); i >= 0 {
				s = s[i+len("github.com/"):]
			}
			repo = strings.TrimPrefix(s, "//")
		}
	}

	commit, branch := "", ""
	if head, err := r.Head(); err == nil {
		commit = head.Hash().String()
		if head.Name().IsBranch() {
			branch = head.Name().Short()
		}
	}
	return repo, commit, branch
}

// StagedFiles returns the paths and contents of files staged in the index.
func StagedFiles(root string) ([]string, [][]byte, error) {
	validRoot, err := validateRoot(root)
	if err != nil {
		return nil, nil, err
	}
	out, err := exec.Command("git", "-C", validRoot, "diff", "--name-only", "--cached").Output()
	if err != nil {
		return nil, nil, err
	}
	paths := strings.Fields(string(out))
	var data [][]byte
	for _, p := range paths {
		b, err := exec.Command("git", "-C", validRoot, "show", ":"+p).Output()
		if err != nil {
			b = []byte{}
		}
		data = append(data, b)
	}
	return paths, data, nil
}

// ChangedAgainst returns the paths of files that differ from base, with
// their working-tree contents. Deleted files yield empty content and are
// skipped by the caller's size/binary gates.
func ChangedAgainst(root, base string) ([]string, [][]byte, error) {
	validRoot, err := validateRoot(root)
	if err != nil {
		return nil, nil, err
	}
	out, err := exec.Command("git", "-C", validRoot, "diff", "--name-only", base).Output()
	if err != nil {
		return nil, nil, err
	}
	paths := strings.Fields(string(out))
	var data [][]byte
	for _, p := range paths {
		b, err := os.ReadFile(filepath.Join(validRoot, p))
		if err != nil {
			b = []byte{}
		}
		data = append(data, b)
	}
	return paths, data, nil
}
