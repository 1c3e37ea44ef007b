package urlhandler

import (
	"path/filepath"
	"strings"

	"github.com/docwrangler/docwrangler/internal/common"
	"github.com/docwrangler/docwrangler/internal/table"
	"github.com/rs/zerolog"
)

// Mode selects how NormalizeFirstColumn rewrites URLs
type Mode string

const (
	// ModeCanonical applies Normalize
	ModeCanonical Mode = "canonical"
	// ModeLight applies CleanURL
	ModeLight Mode = "light"
)

// ParseMode validates a mode name
func ParseMode(s string) (Mode, error) {
	switch Mode(strings.ToLower(strings.TrimSpace(s))) {
	case ModeCanonical:
		return ModeCanonical, nil
	case ModeLight:
		return ModeLight, nil
	}
	return "", common.NewValidationError("mode", s, "must be canonical or light")
}

// ColumnNormalizer rewrites the URL column of a report
type ColumnNormalizer struct {
	mode       Mode
	normalizer *Normalizer
	logger     zerolog.Logger
}

// NewColumnNormalizer creates a column normalizer. Canonical mode needs a Normalizer.
func NewColumnNormalizer(mode Mode, normalizer *Normalizer, logger zerolog.Logger) (*ColumnNormalizer, error) {
	if mode == ModeCanonical && normalizer == nil {
		return nil, common.NewValidationError("normalizer", nil, "canonical mode requires a normalizer")
	}
	return &ColumnNormalizer{
		mode:       mode,
		normalizer: normalizer,
		logger:     logger.With().Str("component", "URLColumnNormalizer").Logger(),
	}, nil
}

// NormalizeFirstColumn rewrites the first column of every row in place and
// returns the number of changed cells. Blank cells and values that do not
// parse as URLs are kept.
func (c *ColumnNormalizer) NormalizeFirstColumn(frame *table.Frame) int {
	columns := frame.Columns()
	if len(columns) == 0 {
		return 0
	}
	column := columns[0]

	changed := 0
	for i := 0; i < frame.Len(); i++ {
		cell := frame.Get(i, column)
		original := strings.TrimSpace(cell.Value)
		if original == "" {
			continue
		}

		normalized := original
		switch c.mode {
		case ModeLight:
			normalized = CleanURL(original)
		default:
			u, ok := c.normalizer.Normalize(original)
			if !ok {
				c.logger.Warn().Int("row", i).Str("value", original).Msg("Cannot normalize URL, keeping value")
				continue
			}
			normalized = u
		}

		if normalized == cell.Value {
			continue
		}
		_ = frame.Set(i, column, table.Str(normalized))
		changed++
		c.logger.Info().Int("row", i).Str("before", cell.Value).Str("after", normalized).Msg("URL normalized")
	}
	return changed
}

// NormalizedPath returns "<base>_normalized<ext>" for input
func NormalizedPath(input string) string {
	ext := filepath.Ext(input)
	return strings.TrimSuffix(input, ext) + "_normalized" + ext
}
