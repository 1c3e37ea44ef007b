package inventory

import (
	"bytes"
	"io/fs"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"github.com/docwrangler/docwrangler/internal/common"
	"github.com/docwrangler/docwrangler/internal/config"
	"github.com/docwrangler/docwrangler/internal/frontmatter"
	"github.com/docwrangler/docwrangler/internal/table"
	"github.com/rs/zerolog"
)

// Doc inventory columns
const (
	ColumnFilename = "filename"
	ColumnDocsID   = "docsID"
	ColumnURL      = "url"
)

var repeatedSlashes = regexp.MustCompile(`/{2,}`)

// Mapping ties a repo-relative content prefix to a production base URL
type Mapping struct {
	Path string
	URL  string
}

// LoadMappings reads a CSV with "filepath" and "url" columns. The result is
// ordered longest path first.
func LoadMappings(fm *common.FileManager, path string) ([]Mapping, error) {
	data, err := fm.ReadFile(path)
	if err != nil {
		return nil, err
	}
	frame, err := table.ReadCSV(bytes.NewReader(data))
	if err != nil {
		return nil, common.WrapErrorf(err, "failed to parse mapping file %s", path)
	}

	pathCol, urlCol := "", ""
	for _, col := range frame.Columns() {
		switch strings.TrimSpace(col) {
		case "filepath":
			pathCol = col
		case "url":
			urlCol = col
		}
	}
	if pathCol == "" || urlCol == "" {
		return nil, common.NewValidationError("mapping_file", path, "requires filepath and url columns")
	}

	var mappings []Mapping
	for i := 0; i < frame.Len(); i++ {
		p := strings.TrimSpace(frame.Get(i, pathCol).Value)
		u := strings.TrimRight(strings.TrimSpace(frame.Get(i, urlCol).Value), "/")
		if p == "" || u == "" {
			continue
		}
		mappings = append(mappings, Mapping{Path: strings.TrimRight(p, "/"), URL: u})
	}
	sort.SliceStable(mappings, func(i, j int) bool {
		return len(mappings[i].Path) > len(mappings[j].Path)
	})
	return mappings, nil
}

// ProductionURL maps a repo-relative content path such as
// "/content/nginx/admin/_index.md" to its published URL
func ProductionURL(contentPath string, mappings []Mapping) (string, bool) {
	for _, m := range mappings {
		if contentPath != m.Path && !strings.HasPrefix(contentPath, m.Path+"/") {
			continue
		}
		leftover := strings.TrimLeft(contentPath[len(m.Path):], "/")
		if strings.HasSuffix(strings.ToLower(leftover), ".md") {
			leftover = leftover[:len(leftover)-3]
		}
		if leftover == "_index" {
			leftover = ""
		}
		leftover = strings.TrimSuffix(leftover, "/_index")

		suffix := "/"
		if leftover != "" {
			suffix = repeatedSlashes.ReplaceAllString("/"+leftover+"/", "/")
		}
		return m.URL + suffix, true
	}
	return "", false
}

// DocInventory lists content files with their docs id and production URL
type DocInventory struct {
	cfg    config.InventoryConfig
	fm     *common.FileManager
	logger zerolog.Logger
}

// NewDocInventory creates a new doc inventory builder
func NewDocInventory(cfg config.InventoryConfig, logger zerolog.Logger) *DocInventory {
	return &DocInventory{
		cfg:    cfg,
		fm:     common.NewFileManager(logger),
		logger: logger.With().Str("component", "DocInventory").Logger(),
	}
}

// Build walks the content directory of repo and returns the inventory
func (d *DocInventory) Build(repo string, mappings []Mapping) (*table.Frame, error) {
	contentDir := filepath.Join(repo, d.cfg.ContentDir)
	includesDir := filepath.Join(repo, d.cfg.IncludesDir)
	files, err := d.fm.WalkFiles(contentDir, func(path string, de fs.DirEntry) bool {
		if d.cfg.IncludesDir != "" && isWithin(includesDir, path) {
			return false
		}
		return common.HasExtension(".md")(path, de)
	})
	if err != nil {
		return nil, err
	}

	frame := table.NewFrame(ColumnFilename, ColumnDocsID, ColumnURL)
	for _, path := range files {
		rel, err := filepath.Rel(contentDir, path)
		if err != nil {
			return nil, common.WrapErrorf(err, "failed to relate %s", path)
		}
		repoRel, err := filepath.Rel(repo, path)
		if err != nil {
			return nil, common.WrapErrorf(err, "failed to relate %s", path)
		}

		docsID := d.docsID(path)
		url := table.Null()
		if u, ok := ProductionURL("/"+filepath.ToSlash(repoRel), mappings); ok {
			url = table.Str(u)
		} else {
			d.logger.Info().Str("path", path).Msg("No mapping found, URL set to null")
		}

		if err := frame.AppendRow([]table.Cell{table.Str(filepath.ToSlash(rel)), docsID, url}); err != nil {
			return nil, err
		}
		d.logger.Debug().Str("file", rel).Msg("Processed")
	}

	d.logger.Info().Int("files", frame.Len()).Msg("Doc inventory complete")
	return frame, nil
}

func (d *DocInventory) docsID(path string) table.Cell {
	data, err := d.fm.ReadFile(path)
	if err != nil {
		d.logger.Warn().Err(err).Str("path", path).Msg("Cannot read file")
		return table.Null()
	}
	doc, err := frontmatter.ParseDocument(data)
	if err != nil {
		d.logger.Warn().Err(err).Str("path", path).Msg("Error parsing front matter")
		return table.Null()
	}
	id, ok := doc.Fields.DocsID()
	if !ok || strings.TrimSpace(id) == "" {
		return table.Null()
	}
	return table.Str(id)
}

func isWithin(dir, path string) bool {
	rel, err := filepath.Rel(dir, path)
	return err == nil && rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}
