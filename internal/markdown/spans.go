package markdown

import (
	"io"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/docwrangler/docwrangler/internal/common"
	"github.com/docwrangler/docwrangler/internal/differ"
	"github.com/rs/zerolog"
)

var spanPattern = regexp.MustCompile(`(?is)<span(\s[^>]*)>(.*?)</span>`)

// SpanSummary counts the result of a span fixing run
type SpanSummary struct {
	Scanned int
	Updated int
	Spans   int
	Errors  int
}

// SpanFixer rewrites bold inline-styled spans as Markdown strong emphasis
type SpanFixer struct {
	fm         *common.FileManager
	differ     *differ.LineDiffer
	diffOutput io.Writer
	logger     zerolog.Logger
}

// NewSpanFixer creates a span fixer. A non-nil diffOutput enables dry-run mode.
func NewSpanFixer(logger zerolog.Logger, diffOutput io.Writer) *SpanFixer {
	return &SpanFixer{
		fm:         common.NewFileManager(logger),
		differ:     differ.NewLineDiffer(differ.DefaultDiffConfig()),
		diffOutput: diffOutput,
		logger:     logger.With().Str("component", "SpanFixer").Logger(),
	}
}

// FixSpans rewrites bold spans in content and returns the count rewritten.
// Spans without a bold font weight are left as they are.
func FixSpans(content string) (string, int) {
	count := 0
	out := spanPattern.ReplaceAllStringFunc(content, func(token string) string {
		m := spanPattern.FindStringSubmatch(token)
		style := normalizeStyle(spanStyle(token))
		if !strings.Contains(style, "font-weight:bold") {
			return token
		}
		text := m[2]
		if strings.Contains(style, "white-space:nowrap") {
			text = strings.ReplaceAll(text, "-", "&#8209;")
			text = strings.ReplaceAll(text, " ", "&nbsp;")
		}
		count++
		return "**" + text + "**"
	})
	return out, count
}

// spanStyle reads the style attribute of a single span element
func spanStyle(token string) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(token))
	if err != nil {
		return ""
	}
	style, _ := doc.Find("span").First().Attr("style")
	return style
}

func normalizeStyle(style string) string {
	return strings.ToLower(strings.Join(strings.Fields(style), ""))
}

// FixFile rewrites one file when it changed, or prints its diff in dry-run mode
func (sf *SpanFixer) FixFile(path string) (int, error) {
	data, err := sf.fm.ReadFile(path)
	if err != nil {
		return 0, err
	}
	before := string(data)
	after, count := FixSpans(before)
	if after == before {
		return 0, nil
	}

	if sf.diffOutput != nil {
		return count, sf.differ.Render(sf.diffOutput, sf.differ.Diff(path, before, after))
	}
	if err := sf.fm.WriteFile(path, []byte(after), common.DefaultFileWriteOptions()); err != nil {
		return 0, err
	}
	sf.logger.Info().Str("path", path).Int("spans", count).Msg("Updated file")
	return count, nil
}

// Run fixes every Markdown file under root
func (sf *SpanFixer) Run(root string) (*SpanSummary, error) {
	files, err := sf.fm.WalkFiles(root, common.HasExtension(".md"))
	if err != nil {
		return nil, err
	}

	summary := &SpanSummary{}
	for _, path := range files {
		summary.Scanned++
		count, err := sf.FixFile(path)
		if err != nil {
			summary.Errors++
			sf.logger.Error().Err(err).Str("path", path).Msg("Failed to fix spans")
			continue
		}
		if count > 0 {
			summary.Updated++
			summary.Spans += count
		}
	}
	return summary, nil
}
