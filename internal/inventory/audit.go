package inventory

import (
	"encoding/json"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/docwrangler/docwrangler/internal/common"
	"github.com/docwrangler/docwrangler/internal/frontmatter"
	"github.com/docwrangler/docwrangler/internal/table"
	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"
)

// Audit sheet columns and markers
const (
	ColumnFile  = "file"
	ColumnTitle = "Title"

	NoMetadataFound    = "No metadata found"
	FrontMatterInvalid = "Error in frontmatter"
)

// AuditSummary counts the files seen by an audit
type AuditSummary struct {
	Total        int
	WithMetadata int
	NoMetadata   int
	Errors       int
}

// Auditor collects the front matter of every Markdown file into one sheet
type Auditor struct {
	fm     *common.FileManager
	logger zerolog.Logger
}

// NewAuditor creates a new metadata auditor
func NewAuditor(logger zerolog.Logger) *Auditor {
	return &Auditor{
		fm:     common.NewFileManager(logger),
		logger: logger.With().Str("component", "MetadataAuditor").Logger(),
	}
}

type auditStatus int

const (
	statusMetadata auditStatus = iota
	statusEmpty
	statusInvalid
)

type auditRow struct {
	file   string
	title  table.Cell
	values map[string]table.Cell
	status auditStatus
}

// Audit walks contentDir and returns one row per Markdown file, ordered by file
func (a *Auditor) Audit(contentDir string) (*table.Frame, *AuditSummary, error) {
	files, err := a.fm.WalkFiles(contentDir, common.HasExtension(".md"))
	if err != nil {
		return nil, nil, err
	}

	summary := &AuditSummary{}
	keys := make(map[string]struct{})
	rows := make([]auditRow, 0, len(files))
	for _, path := range files {
		summary.Total++
		row, err := a.auditFile(contentDir, path)
		if err != nil {
			return nil, nil, err
		}
		switch row.status {
		case statusInvalid:
			summary.Errors++
		case statusEmpty:
			summary.NoMetadata++
		default:
			summary.WithMetadata++
		}
		for k := range row.values {
			keys[k] = struct{}{}
		}
		rows = append(rows, row)
	}

	others := make([]string, 0, len(keys))
	for k := range keys {
		others = append(others, k)
	}
	sort.Strings(others)

	sort.SliceStable(rows, func(i, j int) bool {
		if rows[i].file != rows[j].file {
			return rows[i].file < rows[j].file
		}
		return rows[i].title.Value < rows[j].title.Value
	})

	frame := table.NewFrame(append([]string{ColumnFile, ColumnTitle}, others...)...)
	for _, row := range rows {
		cells := []table.Cell{table.Str(row.file), row.title}
		for _, k := range others {
			if v, ok := row.values[k]; ok {
				cells = append(cells, v)
			} else {
				cells = append(cells, table.Null())
			}
		}
		if err := frame.AppendRow(cells); err != nil {
			return nil, nil, err
		}
	}

	a.logger.Info().
		Int("total", summary.Total).
		Int("with_metadata", summary.WithMetadata).
		Int("no_metadata", summary.NoMetadata).
		Int("errors", summary.Errors).
		Msg("Metadata audit complete")
	return frame, summary, nil
}

func (a *Auditor) auditFile(contentDir, path string) (auditRow, error) {
	row := auditRow{values: map[string]table.Cell{}}
	file, err := RepoContentPath(contentDir, path)
	if err != nil {
		return row, err
	}
	row.file = file

	data, err := a.fm.ReadFile(path)
	if err != nil {
		a.logger.Error().Err(err).Str("path", path).Msg("Cannot read file")
		row.title = table.Str(FrontMatterInvalid)
		row.status = statusInvalid
		return row, nil
	}
	doc, err := frontmatter.ParseDocument(data)
	if err != nil {
		a.logger.Warn().Err(err).Str("path", path).Msg("Invalid front matter")
		row.title = table.Str(FrontMatterInvalid)
		row.status = statusInvalid
		return row, nil
	}
	if !doc.HasFrontMatter || doc.Fields.Len() == 0 {
		row.title = table.Str(NoMetadataFound)
		row.status = statusEmpty
		return row, nil
	}

	row.title = table.Null()
	for _, key := range doc.Fields.Keys() {
		node, _ := doc.Fields.Node(key)
		cell, err := stringifyNode(node)
		if err != nil {
			a.logger.Warn().Err(err).Str("path", path).Str("key", key).Msg("Cannot encode value")
			cell = table.Null()
		}
		if strings.EqualFold(key, "title") {
			row.title = cell
			continue
		}
		row.values[key] = cell
	}
	return row, nil
}

// RepoContentPath renders path as "/<repo>/<content-dir>/<rel>"
func RepoContentPath(contentDir, path string) (string, error) {
	absContent, err := filepath.Abs(contentDir)
	if err != nil {
		return "", common.WrapErrorf(err, "failed to resolve %s", contentDir)
	}
	absPath, err := filepath.Abs(path)
	if err != nil {
		return "", common.WrapErrorf(err, "failed to resolve %s", path)
	}
	rel, err := filepath.Rel(absContent, absPath)
	if err != nil {
		return "", common.WrapErrorf(err, "failed to relate %s to %s", path, contentDir)
	}
	repo := filepath.Base(filepath.Dir(absContent))
	return "/" + repo + "/" + filepath.Base(absContent) + "/" + filepath.ToSlash(rel), nil
}

// stringifyNode renders scalars as text, timestamps without a zone and
// collections as JSON
func stringifyNode(n *yaml.Node) (table.Cell, error) {
	if n.Kind == yaml.AliasNode && n.Alias != nil {
		n = n.Alias
	}
	if n.Kind == yaml.ScalarNode {
		switch n.Tag {
		case "!!null":
			return table.Null(), nil
		case "!!timestamp":
			var t time.Time
			if err := n.Decode(&t); err == nil {
				return table.Str(t.Format(common.LayoutDateTime)), nil
			}
		}
		return table.Str(n.Value), nil
	}

	var v interface{}
	if err := n.Decode(&v); err != nil {
		return table.Null(), err
	}
	data, err := json.Marshal(v)
	if err != nil {
		return table.Null(), err
	}
	return table.Str(string(data)), nil
}
