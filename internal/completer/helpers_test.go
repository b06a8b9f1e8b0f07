package completer

import (
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/runger/complesh/internal/match"
	"github.com/runger/complesh/internal/ring"
)

// requireGit skips the test when git is unavailable or when running
// inside a hook that exports repository environment variables.
func requireGit(t *testing.T) {
	t.Helper()
	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("skipping: git not installed")
	}
	if os.Getenv("GIT_DIR") != "" || os.Getenv("GIT_INDEX_FILE") != "" {
		t.Skip("skipping: test doesn't work reliably during git hooks")
	}
}

// tempDir returns a canonical temporary directory that git will not
// search above.
func tempDir(t *testing.T) string {
	t.Helper()
	dir := canonicalizePath(t.TempDir())
	t.Setenv("GIT_CEILING_DIRECTORIES", filepath.Dir(dir))
	return dir
}

// createTestRepo initializes an empty git repository in a temp dir.
func createTestRepo(t *testing.T) string {
	t.Helper()
	requireGit(t)

	dir := tempDir(t)
	cmd := exec.Command("git", "init", "-q")
	cmd.Dir = dir
	cmd.Env = append(os.Environ(), "GIT_CONFIG_NOSYSTEM=1", "HOME="+dir)
	out, err := cmd.CombinedOutput()
	if err != nil {
		if strings.Contains(string(out), "index.lock") {
			t.Skipf("skipping: git lock held: %s", out)
		}
		t.Fatalf("git init failed: %v\noutput: %s", err, out)
	}
	return dir
}

// writeTree creates the given files (and their parent directories) under
// root. Names ending in "/" create empty directories.
func writeTree(t *testing.T, root string, files map[string]string) {
	t.Helper()
	for name, content := range files {
		p := filepath.Join(root, filepath.FromSlash(name))
		if strings.HasSuffix(name, "/") {
			require.NoError(t, os.MkdirAll(p, 0o755))
			continue
		}
		require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
		require.NoError(t, os.WriteFile(p, []byte(content), 0o644))
	}
}

func testOptions(dir string) Options {
	return Options{
		Matcher: &match.Matcher{Home: "/home/test"},
		Dir:     dir,
		Home:    "/home/test",
	}
}

// texts returns the candidates of b in ring order.
func texts(b *ring.Buffer[match.Result]) []string {
	var out []string
	for _, r := range b.Items() {
		out = append(out, r.Text())
	}
	return out
}
