package e2e

import (
	"bytes"
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/brettbedarf/filetree"
)

var (
	ftBin    string
	projRoot string
)

func TestMain(m *testing.M) {
	// Build the ft binary once for all tests
	tmpBinDir, err := os.MkdirTemp("", "ft-bin")
	if err != nil {
		panic(err)
	}

	ftBin = filepath.Join(tmpBinDir, "ft")

	// Determine project root
	_, thisFile, _, ok := runtime.Caller(0)
	if !ok {
		panic("cannot determine current file path")
	}
	projRoot = filepath.Join(filepath.Dir(thisFile), "..", "..")

	cmd := exec.Command("go", "build", "-o", ftBin, "./cmd")
	cmd.Dir = projRoot
	if out, err := cmd.CombinedOutput(); err != nil {
		panic(string(out))
	}

	code := m.Run()
	if err := os.RemoveAll(tmpBinDir); err != nil {
		panic(err)
	}
	os.Exit(code)
}

// Run holds the result of one ft invocation
type Run struct {
	Stdout string
	Stderr string
	Code   int
}

// DefsBuilder assembles a node definitions file
type DefsBuilder struct {
	lines []string
}

func NewDefs() *DefsBuilder {
	return &DefsBuilder{}
}

func (b *DefsBuilder) Dir(path string) *DefsBuilder {
	b.lines = append(b.lines, "- type: dir", "  path: "+path)
	return b
}

func (b *DefsBuilder) File(path, contents string) *DefsBuilder {
	b.lines = append(b.lines, "- type: file", "  path: "+path, "  contents: "+contents)
	return b
}

// Write stores the definitions as YAML in a temp dir and returns the path
func (b *DefsBuilder) Write(t *testing.T) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), "nodes.yaml")
	require.NoError(t, os.WriteFile(p, []byte(strings.Join(b.lines, "\n")+"\n"), 0o644))
	return p
}

func runFt(t *testing.T, args ...string) Run {
	t.Helper()
	var stdout, stderr bytes.Buffer
	cmd := exec.Command(ftBin, args...)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	res := Run{}
	err := cmd.Run()
	var exitErr *exec.ExitError
	switch {
	case err == nil:
	case errors.As(err, &exitErr):
		res.Code = exitErr.ExitCode()
	default:
		t.Fatalf("failed to run ft: %v", err)
	}
	res.Stdout, res.Stderr = stdout.String(), stderr.String()
	return res
}

func TestE2EBuildAndDump(t *testing.T) {
	defs := NewDefs().
		File("/srv/www/index.html", "hi").
		Dir("/srv/log").
		Dir("/srv/www/static").
		Write(t)

	res := runFt(t, "--check", defs)
	require.Equal(t, 0, res.Code, res.Stderr)
	assert.Equal(t, "/srv\n/srv/log\n/srv/www\n/srv/www/index.html\n/srv/www/static\n", res.Stdout)
	assert.Contains(t, res.Stderr, "Tree dumped")
}

func TestE2ERejectedRequestsAreLogged(t *testing.T) {
	defs := NewDefs().
		Dir("/a/b").
		Dir("/z").
		File("/a", "x").
		Write(t)

	res := runFt(t, "-v", "4", defs)
	require.Equal(t, 0, res.Code, res.Stderr)
	assert.Equal(t, "/a\n/a/b\n", res.Stdout)
	assert.Contains(t, res.Stderr, "Failed to apply request")
}

func TestE2EExitStatus(t *testing.T) {
	defs := NewDefs().Dir("/a/b").Write(t)

	res := runFt(t, "--rm-dir", "/a/c", defs)
	assert.Equal(t, int(filetree.NoSuchPath), res.Code)
	assert.Equal(t, "/a\n/a/b\n", res.Stdout)

	res = runFt(t, "--rm-dir", "a//b", defs)
	assert.Equal(t, int(filetree.BadPath), res.Code)

	res = runFt(t, "--rm-dir", "/a", defs)
	assert.Equal(t, 0, res.Code)
	assert.Empty(t, res.Stdout)
}
