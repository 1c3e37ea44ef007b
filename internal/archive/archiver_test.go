package archive

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/docwrangler/docwrangler/internal/config"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
}

func newTestArchiver(t *testing.T, includes string, buf *bytes.Buffer) *Archiver {
	t.Helper()
	cfg := config.NewDefaultArchiveConfig()
	cfg.IncludesDir = includes
	cfg.OutputDir = t.TempDir()
	a := NewArchiver(cfg, zerolog.New(buf))
	a.now = func() time.Time { return time.Date(2025, 2, 13, 12, 34, 56, 0, time.UTC) }
	return a
}

func TestRun_ExpandsIncludes(t *testing.T) {
	root := t.TempDir()
	docSet := filepath.Join(root, "controller")
	includes := filepath.Join(root, "includes")

	writeFile(t, filepath.Join(includes, "nested.md"), "---\ntitle: N\n---\nnested text\n")
	writeFile(t, filepath.Join(includes, "outer.md"), "outer {{< include \"/nested.md\" >}}")
	writeFile(t, filepath.Join(docSet, "_index.md"), "index\n")
	writeFile(t, filepath.Join(docSet, "admin", "page.md"),
		"---\ntitle: Page\n---\n{{< versions \"1\" \"latest\" >}}\nStart\n{{< include \"outer.md\" >}}\n<!-- hidden -->See [u]({{< relref \"/controller/admin/users.md\" >}})\n")

	var buf bytes.Buffer
	a := newTestArchiver(t, includes, &buf)
	summary, err := a.Run(docSet)
	require.NoError(t, err)
	assert.Equal(t, 1, summary.Processed)
	assert.Equal(t, 1, summary.Succeeded)
	assert.Equal(t, 0, summary.Errors)
	assert.Equal(t, "controller_archive_20250213123456", filepath.Base(summary.ArchiveDir))

	data, err := os.ReadFile(filepath.Join(summary.ArchiveDir, "admin", "page.md"))
	require.NoError(t, err)
	assert.Equal(t, "Start\nouter nested text\n\nSee [u](users.md)\n", string(data))

	_, err = os.Stat(filepath.Join(summary.ArchiveDir, "_index.md"))
	assert.True(t, os.IsNotExist(err))
}

func TestRun_MissingIncludeLogsOneErrorPerToken(t *testing.T) {
	root := t.TempDir()
	docSet := filepath.Join(root, "docs")
	includes := filepath.Join(root, "includes")
	writeFile(t, filepath.Join(docSet, "a.md"),
		"one {{< include \"gone.md\" >}}\ntwo {{< include \"also-gone.md\" >}}\nthree\n")

	var buf bytes.Buffer
	a := newTestArchiver(t, includes, &buf)
	summary, err := a.Run(docSet)
	require.NoError(t, err)
	assert.Equal(t, 2, summary.Errors)
	assert.Equal(t, 0, summary.Succeeded)
	assert.Equal(t, 2, strings.Count(buf.String(), `"level":"error"`))

	data, err := os.ReadFile(filepath.Join(summary.ArchiveDir, "a.md"))
	require.NoError(t, err)
	assert.Equal(t, "one \ntwo \nthree\n", string(data))

	logData, err := os.ReadFile(filepath.Join(summary.ArchiveDir, logFileName))
	require.NoError(t, err)
	assert.Contains(t, string(logData), "ERROR Missing include: gone.md")
	assert.Contains(t, string(logData), "INFO Processed: ")
}

func TestExpand_DepthLimit(t *testing.T) {
	includes := t.TempDir()
	writeFile(t, filepath.Join(includes, "loop.md"), "x{{< include \"loop.md\" >}}")

	var buf bytes.Buffer
	a := newTestArchiver(t, includes, &buf)
	errs := 0
	out := a.Expand(`{{< include "loop.md" >}}`, 0, &errs, a.logger)
	assert.Equal(t, 1, errs)
	assert.Equal(t, strings.Repeat("x", config.DefaultArchiveMaxIncludeDepth), out)
	assert.Equal(t, 1, strings.Count(buf.String(), `"level":"error"`))
}
