package git

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestValidateRoot(t *testing.T) {
	dir := t.TempDir()
	abs, err := validateRoot(dir)
	require.NoError(t, err)
	require.True(t, filepath.IsAbs(abs))

	_, err = validateRoot(filepath.Join(dir, "missing"))
	require.Error(t, err)

	file := filepath.Join(dir, "f.txt")
	require.NoError(t, os.WriteFile(file, []byte("x"), 0644))
	_, err = validateRoot(file)
	require.Error(t, err)
	require.Contains(t, err.Error(), "not a directory")

	_, err = validateRoot("bad\x00path")
	require.Error(t, err)
}

// A plain directory is not a repository; metadata must degrade to empty
// strings rather than fail the scan.
func TestRepoMetadata_NotARepo(t *testing.T) {
	repo, commit, branch := RepoMetadata(t.TempDir())
	require.Empty(t, repo)
	require.Empty(t, commit)
	require.Empty(t, branch)
}

func TestRepoMetadata_InvalidRoot(t *testing.T) {
	repo, commit, branch := RepoMetadata(filepath.Join(t.TempDir(), "nope"))
	require.Empty(t, repo)
	require.Empty(t, commit)
	require.Empty(t, branch)
}

func TestStagedFiles_InvalidRoot(t *testing.T) {
	_, _, err := StagedFiles(filepath.Join(t.TempDir(), "nope"))
	require.Error(t, err)
}

func TestChangedAgainst_InvalidRoot(t *testing.T) {
	_, _, err := ChangedAgainst(filepath.Join(t.TempDir(), "nope"), "main")
	require.Error(t, err)
}
