package inventory

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/docwrangler/docwrangler/internal/common"
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

func TestAudit(t *testing.T) {
	repo := filepath.Join(t.TempDir(), "docs")
	content := filepath.Join(repo, "content")
	writeFile(t, filepath.Join(content, "b.md"), "---\ntitle: Beta\nweight: 2\ntags: [x, y]\ndate: 2024-03-01T10:00:00+02:00\n---\n")
	writeFile(t, filepath.Join(content, "a", "plain.md"), "no front matter\n")
	writeFile(t, filepath.Join(content, "broken.md"), "---\ntitle: [\n---\n")

	frame, summary, err := NewAuditor(zerolog.Nop()).Audit(content)
	require.NoError(t, err)
	assert.Equal(t, AuditSummary{Total: 3, WithMetadata: 1, NoMetadata: 1, Errors: 1}, *summary)
	assert.Equal(t, []string{"file", "Title", "date", "tags", "weight"}, frame.Columns())
	require.Equal(t, 3, frame.Len())

	assert.Equal(t, "/docs/content/a/plain.md", frame.Get(0, ColumnFile).Value)
	assert.Equal(t, NoMetadataFound, frame.Get(0, ColumnTitle).Value)
	assert.Equal(t, "/docs/content/b.md", frame.Get(1, ColumnFile).Value)
	assert.Equal(t, "Beta", frame.Get(1, ColumnTitle).Value)
	assert.Equal(t, "2024-03-01 10:00:00", frame.Get(1, "date").Value)
	assert.Equal(t, `["x","y"]`, frame.Get(1, "tags").Value)
	assert.Equal(t, "2", frame.Get(1, "weight").Value)
	assert.Equal(t, FrontMatterInvalid, frame.Get(2, ColumnTitle).Value)
	assert.False(t, frame.Get(2, "weight").Valid)
}

func TestProductionURL(t *testing.T) {
	mappings := []Mapping{
		{Path: "/content/nginx/admin-guide", URL: "https://docs.nginx.com/nginx/admin-guide"},
		{Path: "/content/nginx", URL: "https://docs.nginx.com/nginx"},
	}
	tests := []struct {
		path string
		want string
		ok   bool
	}{
		{"/content/nginx/admin-guide/install.md", "https://docs.nginx.com/nginx/admin-guide/install/", true},
		{"/content/nginx/_index.md", "https://docs.nginx.com/nginx/", true},
		{"/content/nginx/releases/_index.md", "https://docs.nginx.com/nginx/releases/", true},
		{"/content/nginx-agent/x.md", "", false},
		{"/content/other/x.md", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			got, ok := ProductionURL(tt.path, mappings)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDocInventory_Build(t *testing.T) {
	repo := t.TempDir()
	writeFile(t, filepath.Join(repo, "mapping.csv"), "filepath, url\n/content/nginx/, https://docs.nginx.com/nginx/\n/content/nginx/admin/,https://docs.nginx.com/admin\n")
	writeFile(t, filepath.Join(repo, "content", "nginx", "admin", "a.md"), "---\ndocs: DOCS-1\n---\n")
	writeFile(t, filepath.Join(repo, "content", "nginx", "b.md"), "---\ndocs: \"\"\n---\n")
	writeFile(t, filepath.Join(repo, "content", "misc", "c.md"), "text\n")
	writeFile(t, filepath.Join(repo, "content", "includes", "inc.md"), "include\n")

	fm := common.NewFileManager(zerolog.Nop())
	mappings, err := LoadMappings(fm, filepath.Join(repo, "mapping.csv"))
	require.NoError(t, err)
	require.Len(t, mappings, 2)
	assert.Equal(t, "/content/nginx/admin", mappings[0].Path)

	frame, err := NewDocInventory(config.NewDefaultInventoryConfig(), zerolog.Nop()).Build(repo, mappings)
	require.NoError(t, err)
	require.Equal(t, 3, frame.Len())

	assert.Equal(t, "misc/c.md", frame.Get(0, ColumnFilename).Value)
	assert.False(t, frame.Get(0, ColumnURL).Valid)
	assert.Equal(t, "nginx/admin/a.md", frame.Get(1, ColumnFilename).Value)
	assert.Equal(t, "DOCS-1", frame.Get(1, ColumnDocsID).Value)
	assert.Equal(t, "https://docs.nginx.com/admin/a/", frame.Get(1, ColumnURL).Value)
	assert.Equal(t, "nginx/b.md", frame.Get(2, ColumnFilename).Value)
	assert.False(t, frame.Get(2, ColumnDocsID).Valid)
	assert.Equal(t, "https://docs.nginx.com/nginx/b/", frame.Get(2, ColumnURL).Value)
}

func TestLoadMappings_MissingColumns(t *testing.T) {
	path := filepath.Join(t.TempDir(), "m.csv")
	writeFile(t, path, "a,b\n1,2\n")
	_, err := LoadMappings(common.NewFileManager(zerolog.Nop()), path)
	assert.Error(t, err)
}

func TestExtractTitle(t *testing.T) {
	tests := []struct {
		name string
		data string
		want string
	}{
		{"article", `<?xml version="1.0"?><!DOCTYPE article SYSTEM "../../../../dtd/article.dtd"><article name="Beginner&apos;s   Guide" link="/en/docs/beginners_guide.html"><section/></article>`, "Beginner's Guide"},
		{"module", "<module name=\"Module\n ngx_http_core_module\" id=\"x\"></module>", "Module ngx_http_core_module"},
		{"entity escaped", `<article name="Q &amp;amp; A"></article>`, "Q & A"},
		{"none", `<other/>`, "Untitled"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ExtractTitle([]byte(tt.data)))
		})
	}
}

type fakeDater map[string]string

func (f fakeDater) LastCommit(_ context.Context, _, file string) (string, error) {
	if d, ok := f[file]; ok {
		return d, nil
	}
	return "", errors.New("untracked")
}

func TestXMLInventory_Build(t *testing.T) {
	repo := t.TempDir()
	writeFile(t, filepath.Join(repo, "xml", "en", "docs", "index.xml"), `<article name="Index"></article>`)
	writeFile(t, filepath.Join(repo, "xml", "en", "docs", "http", "core.xml"), `<module name="Core"></module>`)
	writeFile(t, filepath.Join(repo, "xml", "en", "docs", "notes.txt"), "skip")
	writeFile(t, filepath.Join(repo, "xml", "ru", "docs", "index.xml"), `<article></article>`)

	cfg := config.NewDefaultInventoryConfig()
	inv := NewXMLInventory(cfg, zerolog.Nop()).WithDater(fakeDater{
		"xml/en/docs/index.xml": "2024-01-02T03:04:05+00:00",
	})
	sheets, err := inv.Build(context.Background(), repo)
	require.NoError(t, err)
	require.Len(t, sheets, 2)

	en := sheets[0]
	assert.Equal(t, "en", en.Name)
	assert.Equal(t, []string{"file", "title", "last commit"}, en.Frame.Columns())
	require.Equal(t, 2, en.Frame.Len())
	assert.Equal(t, "xml/en/docs/http/core.xml", en.Frame.Get(0, ColumnXMLFile).Value)
	assert.Equal(t, "Core", en.Frame.Get(0, ColumnXMLTitle).Value)
	assert.Equal(t, "xml/en/docs/index.xml", en.Frame.Get(1, ColumnXMLFile).Value)
	assert.Equal(t, "2024-01-02T03:04:05+00:00", en.Frame.Get(1, ColumnLastCommit).Value)

	assert.Equal(t, "ru", sheets[1].Name)
	assert.Equal(t, "Untitled", sheets[1].Frame.Get(0, ColumnXMLTitle).Value)
}
