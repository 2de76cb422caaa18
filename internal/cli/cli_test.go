package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mithrel/mdviewer/pkg/api"
)

// writeConfigTOML writes an isolated config using the file backend.
func writeConfigTOML(t *testing.T, dir string) string {
	t.Helper()
	cfg := filepath.Join(dir, "config.toml")
	content := `data_dir = "` + strings.ReplaceAll(dir, "\\", "\\\\") + `"

[render]
style = "notty"
word_wrap = 80

[analytics]
sink = "log"
`
	if err := os.WriteFile(cfg, []byte(content), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return cfg
}

func run(t *testing.T, cfgPath string, stdin string, args ...string) (string, error) {
	t.Helper()
	root := NewRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetIn(strings.NewReader(stdin))
	root.SetArgs(append([]string{"--config", cfgPath}, args...))
	err := root.Execute()
	return out.String(), err
}

func writeDoc(t *testing.T, dir, name, body string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	if err := os.WriteFile(p, []byte(body), 0o600); err != nil {
		t.Fatal(err)
	}
	return p
}

func listJSON(t *testing.T, cfgPath string) []api.RecentItem {
	t.Helper()
	out, err := run(t, cfgPath, "", "recent", "list", "--output", "json")
	require.NoError(t, err, out)
	var items []api.RecentItem
	require.NoError(t, json.Unmarshal([]byte(out), &items), out)
	return items
}

func TestCLIOpenPrintRecordsRecent(t *testing.T) {
	dir := t.TempDir()
	cfgPath := writeConfigTOML(t, dir)
	doc := writeDoc(t, dir, "notes.md", "# Notes\n\nHello from the file.\n")

	out, err := run(t, cfgPath, "", "open", "--print", doc)
	if err != nil {
		t.Fatalf("open: %v\n%s", err, out)
	}
	if !strings.Contains(out, "Hello from the file.") {
		t.Fatalf("rendered output missing body: %q", out)
	}

	items := listJSON(t, cfgPath)
	require.Len(t, items, 1)
	assert.Equal(t, api.KindFile, items[0].Type)
	assert.Equal(t, doc, items[0].Path)
	assert.Equal(t, "notes.md", items[0].DisplayName)
	assert.NotZero(t, items[0].LastOpened)
}

func TestCLIOpenFailureDoesNotRecord(t *testing.T) {
	dir := t.TempDir()
	cfgPath := writeConfigTOML(t, dir)

	_, err := run(t, cfgPath, "", "open", "--print", filepath.Join(dir, "missing.md"))
	require.Error(t, err)
	_, err = run(t, cfgPath, "", "open", "--print", "ftp://example.com/a.md")
	require.Error(t, err)
	assert.Empty(t, listJSON(t, cfgPath))
}

func TestCLIOpenStdinHandoff(t *testing.T) {
	cfgPath := writeConfigTOML(t, t.TempDir())

	out, err := run(t, cfgPath, "# Shared\n\npiped text\n", "open", "-p", "-")
	require.NoError(t, err, out)
	assert.Contains(t, out, "piped text")

	assert.Empty(t, listJSON(t, cfgPath))
}

func TestCLIOpenWithoutTargetNeedsTerminal(t *testing.T) {
	cfgPath := writeConfigTOML(t, t.TempDir())
	_, err := run(t, cfgPath, "", "open")
	assert.ErrorContains(t, err, "nothing to print")
}

func TestCLIRecentLifecycle(t *testing.T) {
	dir := t.TempDir()
	cfgPath := writeConfigTOML(t, dir)
	a := writeDoc(t, dir, "a.md", "# A\n")
	b := writeDoc(t, dir, "b.md", "# B\n")
	for _, p := range []string{a, b} {
		if out, err := run(t, cfgPath, "", "open", "-p", p); err != nil {
			t.Fatalf("open %s: %v\n%s", p, err, out)
		}
	}

	items := listJSON(t, cfgPath)
	require.Len(t, items, 2)
	assert.Equal(t, b, items[0].Path)

	out, err := run(t, cfgPath, "", "recent", "list")
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 3)
	assert.Contains(t, lines[1], "b.md")

	out, err = run(t, cfgPath, "", "recent", "list", "-o", "ndjson", "--filter", "a.md")
	require.NoError(t, err)
	first, _, _ := strings.Cut(out, "\n")
	assert.Contains(t, first, `"displayName":"a.md"`)

	// reopening #2 moves a.md back to the front
	out, err = run(t, cfgPath, "", "recent", "open", "-p", "2")
	require.NoError(t, err, out)
	assert.Equal(t, a, listJSON(t, cfgPath)[0].Path)

	_, err = run(t, cfgPath, "", "recent", "open", "-p", "9")
	assert.ErrorContains(t, err, "no recent item 9")

	_, err = run(t, cfgPath, "", "recent", "remove", a)
	require.NoError(t, err)
	_, err = run(t, cfgPath, "", "recent", "remove", a)
	require.NoError(t, err)
	require.Len(t, listJSON(t, cfgPath), 1)

	_, err = run(t, cfgPath, "", "recent", "clear")
	require.NoError(t, err)
	assert.Empty(t, listJSON(t, cfgPath))
}

func TestCLIRecentListRejectsBadFlags(t *testing.T) {
	cfgPath := writeConfigTOML(t, t.TempDir())
	_, err := run(t, cfgPath, "", "recent", "list", "-o", "yaml")
	assert.ErrorContains(t, err, "unknown output")
	_, err = run(t, cfgPath, "", "recent", "list", "--since", "whenever")
	assert.ErrorContains(t, err, "invalid --since")
}

func TestCLIDiagrams(t *testing.T) {
	dir := t.TempDir()
	cfgPath := writeConfigTOML(t, dir)
	doc := writeDoc(t, dir, "d.md", "# D\n\n```mermaid\ngraph TD\n  A-->B\n```\n\n```go\nx := 1\n```\n\n```mermaid\nsequenceDiagram\n  A->>B: hi\n```\n")

	out, err := run(t, cfgPath, "", "diagrams", doc)
	require.NoError(t, err)
	assert.Equal(t, "1\tgraph TD\n2\tsequenceDiagram\n", out)

	out, err = run(t, cfgPath, "", "diagrams", "-n", "2", doc)
	require.NoError(t, err)
	assert.Equal(t, "sequenceDiagram\n  A->>B: hi\n", out)

	_, err = run(t, cfgPath, "", "diagrams", "-n", "3", doc)
	assert.Error(t, err)
}

func TestCLIConfigGenerateAndCheck(t *testing.T) {
	dir := t.TempDir()
	cfgPath := writeConfigTOML(t, dir)
	target := filepath.Join(dir, "gen", "config.toml")

	out, err := run(t, cfgPath, "", "config", "generate", "-o", target)
	require.NoError(t, err, out)
	assert.FileExists(t, target)

	_, err = run(t, cfgPath, "", "config", "generate", "-o", target)
	assert.ErrorContains(t, err, "already exists")

	out, err = run(t, cfgPath, "", "config", "generate", "-o", target, "--update")
	require.NoError(t, err)
	assert.Contains(t, out, "already up to date")

	out, err = run(t, target, "", "config", "check")
	require.NoError(t, err, out)
	assert.Contains(t, out, "Config OK")

	bad := filepath.Join(dir, "bad.toml")
	require.NoError(t, os.WriteFile(bad, []byte("[storage]\nbackend = \"etcd\"\n"), 0o600))
	_, err = run(t, bad, "", "config", "check")
	assert.ErrorContains(t, err, "storage.backend must be one of")
}

func TestCLIAbout(t *testing.T) {
	cfgPath := writeConfigTOML(t, t.TempDir())
	out, err := run(t, cfgPath, "", "about")
	require.NoError(t, err)
	assert.Contains(t, out, "mdviewer ")
	assert.Contains(t, out, "storage: file")
	assert.Contains(t, out, "recent:  0 items")
}

func TestResolveRecent(t *testing.T) {
	items := []api.RecentItem{{Path: "/a"}, {Path: "/b"}}
	it, err := resolveRecent(items, "2")
	require.NoError(t, err)
	assert.Equal(t, "/b", it.Path)
	it, err = resolveRecent(items, "/a")
	require.NoError(t, err)
	assert.Equal(t, "/a", it.Path)
	_, err = resolveRecent(items, "0")
	assert.Error(t, err)
	_, err = resolveRecent(items, "/c")
	assert.Error(t, err)
}
