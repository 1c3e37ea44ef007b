package survey

import (
	"strings"

	"github.com/docwrangler/docwrangler/internal/common"
	"github.com/docwrangler/docwrangler/internal/config"
	"github.com/docwrangler/docwrangler/internal/table"
	"github.com/rs/zerolog"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var (
	titleCaser = cases.Title(language.English)
	lowerCaser = cases.Lower(language.English)
)

// TagFeedback drops the deny-list columns and leading rows of a feedback
// export and derives Product and Document columns from the page URL
func TagFeedback(frame *table.Frame, cfg config.FeedbackConfig, logger zerolog.Logger) (StageResult, error) {
	log := logger.With().Str("component", "FeedbackTagger").Logger()
	result := StageResult{Name: "tag_feedback"}

	if cfg.SkipRows > 0 {
		before := frame.Len()
		frame.Slice(cfg.SkipRows)
		result.Removed = before - frame.Len()
		log.Info().Int("rows", result.Removed).Msg("Skipped leading rows")
	}

	if dropped := frame.DropColumns(cfg.DropColumns...); dropped > 0 {
		log.Info().Int("columns", dropped).Msg("Dropped deny-list columns")
	}

	if !frame.HasColumn(cfg.URLColumn) {
		return result, common.NewColumnError(result.Name, cfg.URLColumn)
	}

	frame.AddColumn("Product")
	frame.AddColumn("Document")
	for i := 0; i < frame.Len(); i++ {
		cell := frame.Get(i, cfg.URLColumn)
		if !cell.Valid {
			continue
		}
		if product, ok := ProductFromURL(cell.Value); ok {
			_ = frame.Set(i, "Product", table.Str(product))
		}
		if doc, ok := DocumentFromURL(cell.Value); ok {
			_ = frame.Set(i, "Document", table.Str(doc))
		}
		result.Changed++
	}
	log.Info().Int("rows", result.Changed).Msg("Derived product and document columns")
	return result, nil
}

// ProductFromURL returns the first path segment with dashes as spaces in title case
func ProductFromURL(url string) (string, bool) {
	parts := strings.Split(url, "/")
	if len(parts) <= 3 {
		return "", false
	}
	return titleCaser.String(strings.ReplaceAll(parts[3], "-", " ")), true
}

// DocumentFromURL returns the last path segment with dashes as spaces,
// capitalized. The fragment and trailing slashes are ignored.
func DocumentFromURL(url string) (string, bool) {
	main := strings.TrimRight(strings.SplitN(url, "#", 2)[0], "/")
	if main == "" {
		return "", false
	}
	doc := main[strings.LastIndex(main, "/")+1:]
	if doc == "" {
		return "", false
	}
	return capitalize(strings.ReplaceAll(doc, "-", " ")), true
}

func capitalize(s string) string {
	lower := []rune(lowerCaser.String(s))
	if len(lower) == 0 {
		return ""
	}
	return strings.ToUpper(string(lower[0])) + string(lower[1:])
}
