package structure

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/verilib-dev/structure/internal/config"
)

func jsonFixture(t *testing.T) (config.Config, config.Paths) {
	t.Helper()
	root := t.TempDir()
	cfg := config.Default()
	paths := config.PathsFor(root, cfg)
	require.NoError(t, os.MkdirAll(paths.VerilibDir, 0755))
	return cfg, paths
}

func TestLoadJSONMissingStubs(t *testing.T) {
	cfg, paths := jsonFixture(t)
	_, err := Load(cfg, paths)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "verilib-structure create")
}

func TestJSONRoundTrip(t *testing.T) {
	cfg, paths := jsonFixture(t)
	require.NoError(t, os.WriteFile(paths.StubsPath, []byte(`{
		"doc/f1.md": {"code-path": "a.rs", "code-line": 5}
	}`), 0644))

	st, err := Load(cfg, paths)
	require.NoError(t, err)
	require.Len(t, st.Set, 1)

	stub := st.Set["doc/f1.md"]
	stub.CodeName = "f1"
	st.Set["doc/f1.md"] = stub
	require.NoError(t, st.Save(nil, false))

	again, err := Load(cfg, paths)
	require.NoError(t, err)
	assert.Equal(t, "f1", again.Set["doc/f1.md"].CodeName)
}

func TestLoadJSONMalformed(t *testing.T) {
	cfg, paths := jsonFixture(t)
	require.NoError(t, os.WriteFile(paths.StubsPath, []byte(`{"broken":`), 0644))
	_, err := Load(cfg, paths)
	assert.Error(t, err)
}

func filesFixture(t *testing.T) (config.Config, config.Paths) {
	t.Helper()
	root := t.TempDir()
	cfg := config.Default()
	cfg.StructureForm = config.FormFiles
	paths := config.PathsFor(root, cfg)
	require.NoError(t, os.MkdirAll(paths.StructureRoot, 0755))
	return cfg, paths
}

func TestFilesFormLoadAndSave(t *testing.T) {
	cfg, paths := filesFixture(t)
	stubPath := filepath.Join(paths.StructureRoot, "doc", "f1.md")
	require.NoError(t, os.MkdirAll(filepath.Dir(stubPath), 0755))
	require.NoError(t, os.WriteFile(stubPath, []byte("---\ncode-path: a.rs\ncode-line: 5\n---\nbody\n"), 0644))
	require.NoError(t, os.WriteFile(
		filepath.Join(paths.StructureRoot, "notes.md"), []byte("plain markdown, no header\n"), 0644))

	st, err := Load(cfg, paths)
	require.NoError(t, err)
	assert.Equal(t, 1, st.Malformed)

	key := filepath.Join("doc", "f1.md")
	require.Contains(t, st.Set, key)

	stub := st.Set[key]
	stub.CodeName = "f1"
	stub.CodeLines = &LineRange{Start: 5, End: 9}
	st.Set[key] = stub

	require.NoError(t, st.Save(map[string]bool{key: true}, true))

	meta, err := os.ReadFile(filepath.Join(paths.StructureRoot, "doc", "f1.meta.json"))
	require.NoError(t, err)
	assert.Contains(t, string(meta), `"code-name": "f1"`)

	rewritten, err := os.ReadFile(stubPath)
	require.NoError(t, err)
	assert.Contains(t, string(rewritten), "code-name: f1")
	assert.Contains(t, string(rewritten), "body\n")
}

func TestFilesFormSaveWithoutUpdateStubsKeepsMarkdown(t *testing.T) {
	cfg, paths := filesFixture(t)
	stubPath := filepath.Join(paths.StructureRoot, "f1.md")
	original := "---\ncode-path: a.rs\ncode-line: 5\n---\nbody\n"
	require.NoError(t, os.WriteFile(stubPath, []byte(original), 0644))

	st, err := Load(cfg, paths)
	require.NoError(t, err)

	stub := st.Set["f1.md"]
	stub.CodeName = "f1"
	st.Set["f1.md"] = stub
	require.NoError(t, st.Save(map[string]bool{"f1.md": true}, false))

	data, err := os.ReadFile(stubPath)
	require.NoError(t, err)
	assert.Equal(t, original, string(data))
	assert.FileExists(t, filepath.Join(paths.StructureRoot, "f1.meta.json"))
}
