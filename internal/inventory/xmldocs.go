package inventory

import (
	"bytes"
	"context"
	"encoding/xml"
	"html"
	"os"
	"os/exec"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/docwrangler/docwrangler/internal/common"
	"github.com/docwrangler/docwrangler/internal/config"
	"github.com/docwrangler/docwrangler/internal/table"
	"github.com/rs/zerolog"
)

// XML inventory columns
const (
	ColumnXMLFile    = "file"
	ColumnXMLTitle   = "title"
	ColumnLastCommit = "last commit"

	untitled = "Untitled"
)

var (
	titleAttrPattern = regexp.MustCompile(`<(?:article|module)[^>]*\sname=["']([^"']+)["']`)
	whitespace       = regexp.MustCompile(`\s+`)
)

// CommitDater reports the last commit date of a file in a repository
type CommitDater interface {
	LastCommit(ctx context.Context, repo, file string) (string, error)
}

// GitDater shells out to git log
type GitDater struct{}

// LastCommit returns the ISO 8601 committer date of the last commit touching file
func (GitDater) LastCommit(ctx context.Context, repo, file string) (string, error) {
	cmd := exec.CommandContext(ctx, "git", "log", "-1", "--format=%cI", "--", file)
	cmd.Dir = repo
	out, err := cmd.Output()
	if err != nil {
		return "", common.WrapErrorf(err, "git log failed for %s", file)
	}
	return strings.TrimSpace(string(out)), nil
}

// XMLInventory lists XML doc titles and commit dates per language
type XMLInventory struct {
	languages []string
	dater     CommitDater
	fm        *common.FileManager
	logger    zerolog.Logger
}

// NewXMLInventory creates an XML inventory. Commit dates come from git unless
// the configuration disables history lookups.
func NewXMLInventory(cfg config.InventoryConfig, logger zerolog.Logger) *XMLInventory {
	x := &XMLInventory{
		languages: cfg.XMLLanguages,
		fm:        common.NewFileManager(logger),
		logger:    logger.With().Str("component", "XMLInventory").Logger(),
	}
	if cfg.UseGitHistory {
		x.dater = GitDater{}
	}
	return x
}

// WithDater replaces the commit date source
func (x *XMLInventory) WithDater(d CommitDater) *XMLInventory {
	x.dater = d
	return x
}

// Build returns one sheet per language found under repo/xml/<lang>/docs
func (x *XMLInventory) Build(ctx context.Context, repo string) ([]table.Sheet, error) {
	var sheets []table.Sheet
	for _, lang := range x.languages {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		docsDir := filepath.Join(repo, "xml", lang, "docs")
		if info, err := os.Stat(docsDir); err != nil || !info.IsDir() {
			x.logger.Warn().Str("dir", docsDir).Msg("Folder not found")
			continue
		}
		files, err := x.fm.WalkFiles(docsDir, common.HasExtension(".xml"))
		if err != nil {
			return nil, err
		}

		frame := table.NewFrame(ColumnXMLFile, ColumnXMLTitle, ColumnLastCommit)
		for _, path := range files {
			rel, err := filepath.Rel(repo, path)
			if err != nil {
				return nil, common.WrapErrorf(err, "failed to relate %s", path)
			}
			rel = filepath.ToSlash(rel)

			title := untitled
			if data, err := x.fm.ReadFile(path); err == nil {
				title = ExtractTitle(data)
			} else {
				x.logger.Warn().Err(err).Str("path", path).Msg("Cannot read file")
			}

			if err := frame.AppendValues(rel, title, x.lastCommit(ctx, repo, rel)); err != nil {
				return nil, err
			}
		}
		x.logger.Info().Str("lang", lang).Int("files", frame.Len()).Msg("Language scanned")
		sheets = append(sheets, table.Sheet{Name: lang, Frame: frame})
	}
	return sheets, nil
}

func (x *XMLInventory) lastCommit(ctx context.Context, repo, rel string) string {
	if x.dater == nil {
		return ""
	}
	date, err := x.dater.LastCommit(ctx, repo, rel)
	if err != nil {
		x.logger.Debug().Err(err).Str("file", rel).Msg("No commit date")
		return ""
	}
	return date
}

// ExtractTitle returns the name attribute of the first article or module
// element, falling back to a pattern match on the raw text
func ExtractTitle(data []byte) string {
	dec := xml.NewDecoder(bytes.NewReader(data))
	dec.Strict = false
	dec.AutoClose = xml.HTMLAutoClose
	dec.Entity = xml.HTMLEntity
	for {
		tok, err := dec.Token()
		if err != nil {
			break
		}
		start, ok := tok.(xml.StartElement)
		if !ok || (start.Name.Local != "article" && start.Name.Local != "module") {
			continue
		}
		for _, attr := range start.Attr {
			if attr.Name.Local == "name" && strings.TrimSpace(attr.Value) != "" {
				return cleanTitle(attr.Value)
			}
		}
	}

	if m := titleAttrPattern.FindSubmatch(data); m != nil {
		return cleanTitle(string(m[1]))
	}
	return untitled
}

func cleanTitle(s string) string {
	return html.UnescapeString(strings.TrimSpace(whitespace.ReplaceAllString(s, " ")))
}
