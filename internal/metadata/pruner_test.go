package metadata

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestPruner(t *testing.T) *Pruner {
	t.Helper()
	p, err := NewPrunerBuilder(zerolog.Nop()).Build()
	require.NoError(t, err)
	return p
}

func TestPrune_RemovesAndMerges(t *testing.T) {
	p := newTestPruner(t)
	src := "---\ntitle: Install\nmenu: docs\ncategories: [tasks, installation]\ndoctypes: concepts\nweight: 10\n---\nBody\n"

	out, result, err := p.Prune([]byte(src))
	require.NoError(t, err)
	assert.True(t, result.Changed)
	assert.Equal(t, []string{"menu"}, result.RemovedKeys)
	assert.Equal(t, []string{"categories", "doctypes"}, result.MergedKeys)
	assert.Equal(t, []string{"installation"}, result.DroppedTypes)
	assert.Equal(t, "---\ntitle: Install\nweight: 10\ntype:\n  - how-to\n  - concept\n---\nBody\n", string(out))
}

func TestPrune_SecondRunIsNoop(t *testing.T) {
	p := newTestPruner(t)
	src := "---\ntitle: A\ntags: [x]\ntype: [reference, bogus, reference]\ncategories: task\n---\ntext\n"

	first, result, err := p.Prune([]byte(src))
	require.NoError(t, err)
	require.True(t, result.Changed)

	second, result, err := p.Prune(first)
	require.NoError(t, err)
	assert.False(t, result.Changed)
	assert.Equal(t, string(first), string(second))
}

func TestPrune_ValidScalarTypeUntouched(t *testing.T) {
	p := newTestPruner(t)
	src := "---\ntitle: A\ntype: how-to\n---\n"

	out, result, err := p.Prune([]byte(src))
	require.NoError(t, err)
	assert.False(t, result.Changed)
	assert.Equal(t, src, string(out))
}

func TestPrune_InvalidTypesRemoveKey(t *testing.T) {
	p := newTestPruner(t)
	out, result, err := p.Prune([]byte("---\ntitle: A\ntype: [nope]\n---\n"))
	require.NoError(t, err)
	assert.True(t, result.Changed)
	assert.Equal(t, "---\ntitle: A\n---\n", string(out))
}

func TestPrune_NoFrontMatter(t *testing.T) {
	p := newTestPruner(t)
	out, result, err := p.Prune([]byte("# Heading\n"))
	require.NoError(t, err)
	assert.False(t, result.Changed)
	assert.Equal(t, "# Heading\n", string(out))
}

func TestRun_RewritesOnlyChangedFiles(t *testing.T) {
	dir := t.TempDir()
	changed := filepath.Join(dir, "a.md")
	clean := filepath.Join(dir, "sub", "b.md")
	broken := filepath.Join(dir, "c.md")
	require.NoError(t, os.WriteFile(changed, []byte("---\ntitle: A\naliases: [/old/]\n---\n"), 0644))
	require.NoError(t, os.MkdirAll(filepath.Dir(clean), 0755))
	require.NoError(t, os.WriteFile(clean, []byte("---\ntitle: B\n---\n"), 0644))
	require.NoError(t, os.WriteFile(broken, []byte("---\ntitle: [\n---\n"), 0644))

	p := newTestPruner(t)
	summary, err := p.Run(dir)
	require.NoError(t, err)
	assert.Equal(t, 3, summary.Scanned)
	assert.Equal(t, 1, summary.Changed)
	assert.Equal(t, 1, summary.Errors)

	data, err := os.ReadFile(changed)
	require.NoError(t, err)
	assert.Equal(t, "---\ntitle: A\n---\n", string(data))

	summary, err = p.Run(dir)
	require.NoError(t, err)
	assert.Equal(t, 0, summary.Changed)
}

func TestPruneFile_DryRunPrintsDiff(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "a.md")
	src := "---\ntitle: A\nauthors: [me]\n---\n"
	require.NoError(t, os.WriteFile(path, []byte(src), 0644))

	var buf bytes.Buffer
	p, err := NewPrunerBuilder(zerolog.Nop()).WithDryRun(&buf).Build()
	require.NoError(t, err)

	result, err := p.PruneFile(path)
	require.NoError(t, err)
	assert.True(t, result.Changed)
	assert.Contains(t, buf.String(), "-authors: [me]\n")

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, src, string(data))
}
