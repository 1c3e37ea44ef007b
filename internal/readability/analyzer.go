package readability

import (
	"bytes"
	"io/fs"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/docwrangler/docwrangler/internal/common"
	"github.com/docwrangler/docwrangler/internal/frontmatter"
	"github.com/docwrangler/docwrangler/internal/table"
	"github.com/rs/zerolog"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer/html"
)

// Output columns
const (
	ColumnFilePath     = "file_path"
	ColumnReadingLevel = "reading_level"
)

// Analyzer scores the reading level of Markdown files
type Analyzer struct {
	md     goldmark.Markdown
	fm     *common.FileManager
	logger zerolog.Logger
}

// NewAnalyzer creates a new analyzer
func NewAnalyzer(logger zerolog.Logger) *Analyzer {
	return &Analyzer{
		md: goldmark.New(
			goldmark.WithExtensions(extension.GFM),
			goldmark.WithRendererOptions(html.WithUnsafe()),
		),
		fm:     common.NewFileManager(logger),
		logger: logger.With().Str("component", "ReadabilityAnalyzer").Logger(),
	}
}

// PlainText renders Markdown to HTML and returns its text without code blocks
func (a *Analyzer) PlainText(src []byte) (string, error) {
	var buf bytes.Buffer
	if err := a.md.Convert(frontmatter.Strip(src), &buf); err != nil {
		return "", err
	}
	doc, err := goquery.NewDocumentFromReader(&buf)
	if err != nil {
		return "", err
	}
	doc.Find("pre").Remove()
	return doc.Text(), nil
}

// Grade returns the Flesch-Kincaid grade of one Markdown file
func (a *Analyzer) Grade(path string) (float64, error) {
	data, err := a.fm.ReadFile(path)
	if err != nil {
		return 0, err
	}
	text, err := a.PlainText(data)
	if err != nil {
		return 0, common.WrapErrorf(err, "failed to render %s", path)
	}
	return FleschKincaidGrade(text), nil
}

// Run scores every Markdown file under root except section index files.
// A file that cannot be scored gets its error message as the level.
func (a *Analyzer) Run(root string) (*table.Frame, error) {
	files, err := a.fm.WalkFiles(root, func(path string, d fs.DirEntry) bool {
		return strings.EqualFold(filepath.Ext(path), ".md") && !strings.EqualFold(d.Name(), "_index.md")
	})
	if err != nil {
		return nil, err
	}

	frame := table.NewFrame(ColumnFilePath, ColumnReadingLevel)
	for _, path := range files {
		level := ""
		grade, err := a.Grade(path)
		if err != nil {
			a.logger.Error().Err(err).Str("path", path).Msg("Cannot score file")
			level = err.Error()
		} else {
			level = strconv.FormatFloat(grade, 'f', -1, 64)
			a.logger.Info().Str("path", path).Float64("reading_level", grade).Msg("Scored file")
		}
		if err := frame.AppendValues(filepath.ToSlash(path), level); err != nil {
			return nil, err
		}
	}
	return frame, nil
}
