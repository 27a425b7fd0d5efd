package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/brettbedarf/filetree"
)

const defsYAML = `
- type: file
  path: /usr/bin/ls
  contents: elf
- type: dir
  path: /usr/lib
- type: file
  path: /usr/README
  contents: hello world
`

func writeFile(t *testing.T, name, data string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(p, []byte(data), 0o644))
	return p
}

func runCmd(t *testing.T, args ...string) (int, string) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	code := run(args, &stdout, &stderr)
	return code, stdout.String()
}

func TestRunDump(t *testing.T) {
	defs := writeFile(t, "nodes.yaml", defsYAML)
	code, out := runCmd(t, "-v", "1", defs)
	assert.Equal(t, 0, code)
	assert.Equal(t, "/usr\n/usr/README\n/usr/bin\n/usr/bin/ls\n/usr/lib\n", out)
}

func TestRunRemovals(t *testing.T) {
	defs := writeFile(t, "nodes.yaml", defsYAML)
	code, out := runCmd(t, "-v", "1", "--check", "--rm-dir", "/usr/bin", "--rm-file", "/usr/README", defs)
	assert.Equal(t, 0, code)
	assert.Equal(t, "/usr\n/usr/lib\n", out)
}

func TestRunRemovalFailureSetsStatus(t *testing.T) {
	defs := writeFile(t, "nodes.yaml", defsYAML)
	code, out := runCmd(t, "-v", "1", "--rm-file", "/usr/lib", defs)
	assert.Equal(t, int(filetree.NotAFile), code)
	// The dump still runs
	assert.Contains(t, out, "/usr/lib\n")
}

func TestRunStat(t *testing.T) {
	defs := writeFile(t, "nodes.yaml", defsYAML)
	code, out := runCmd(t, "-v", "1", "--stat", "/usr/README", "--stat", "/usr/bin", "--stat", "/usr/nope", defs)
	assert.Equal(t, int(filetree.NoSuchPath), code)
	assert.Contains(t, out, "/usr/README\tfile\t11\n")
	assert.Contains(t, out, "/usr/bin\tdir\n")
	assert.Contains(t, out, "/usr/nope\tNO_SUCH_PATH\n")
}

func TestRunBadInput(t *testing.T) {
	code, _ := runCmd(t, "-v", "1", filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Equal(t, int(filetree.Unknown), code)

	code, _ = runCmd(t, "-v", "1")
	assert.Equal(t, int(filetree.Unknown), code)
}

func TestRunConfigFile(t *testing.T) {
	defs := writeFile(t, "nodes.json", `[{"type":"dir","path":"/a/b"}]`)
	cfg := writeFile(t, "config.yaml", "log_lvl: 1\ncheck_invariants: true\n")
	code, out := runCmd(t, "--config", cfg, defs)
	assert.Equal(t, 0, code)
	assert.Equal(t, "/a\n/a/b\n", out)

	code, _ = runCmd(t, "--config", filepath.Join(t.TempDir(), "config.toml"), defs)
	assert.Equal(t, int(filetree.Unknown), code)
}
