package survey

import (
	"context"
	"regexp"
	"strconv"
	"strings"

	"github.com/docwrangler/docwrangler/internal/common"
	"github.com/docwrangler/docwrangler/internal/config"
	"github.com/docwrangler/docwrangler/internal/geocode"
	"github.com/docwrangler/docwrangler/internal/redirects"
	"github.com/docwrangler/docwrangler/internal/table"
	"github.com/docwrangler/docwrangler/internal/urlhandler"
	"github.com/rs/zerolog"
)

// Stage names as they appear in logs and summaries
const (
	StageRemoveMissingLink = "remove_missing_link"
	StageRemoveTesting     = "remove_testing_responses"
	StageExclude           = "exclude_responses"
	StageScrubEmails       = "scrub_emails"
	StageCanonicalize      = "canonicalize_urls"
	StageGeocode           = "geocode"
)

var emailRegex = regexp.MustCompile(`[\w.-]+@[\w.-]+\.\w+`)

// ReverseGeocoder resolves a coordinate to a place
type ReverseGeocoder interface {
	Reverse(ctx context.Context, lat, lon float64) (geocode.Place, error)
}

// Pipeline runs the survey cleanup stages over a loaded table
type Pipeline struct {
	cfg        config.SurveyConfig
	normalizer *urlhandler.Normalizer
	rules      *redirects.RuleSet
	excluded   map[string]bool
	geocoder   ReverseGeocoder
	logger     zerolog.Logger
}

// PipelineBuilder provides a fluent interface for creating a Pipeline
type PipelineBuilder struct {
	pipeline Pipeline
}

// NewPipelineBuilder creates a builder with the default survey configuration
func NewPipelineBuilder(logger zerolog.Logger) *PipelineBuilder {
	return &PipelineBuilder{pipeline: Pipeline{
		cfg:    config.NewDefaultSurveyConfig(),
		logger: logger.With().Str("component", "SurveyPipeline").Logger(),
	}}
}

// WithConfig sets the survey configuration
func (b *PipelineBuilder) WithConfig(cfg config.SurveyConfig) *PipelineBuilder {
	b.pipeline.cfg = cfg
	return b
}

// WithNormalizer sets the URL normalizer
func (b *PipelineBuilder) WithNormalizer(n *urlhandler.Normalizer) *PipelineBuilder {
	b.pipeline.normalizer = n
	return b
}

// WithRules sets the redirect rules used to derive canonical URLs
func (b *PipelineBuilder) WithRules(rules *redirects.RuleSet) *PipelineBuilder {
	b.pipeline.rules = rules
	return b
}

// WithExcluded sets the response ids to drop. Ids compare uppercased.
func (b *PipelineBuilder) WithExcluded(ids []string) *PipelineBuilder {
	b.pipeline.excluded = make(map[string]bool, len(ids))
	for _, id := range ids {
		b.pipeline.excluded[strings.ToUpper(strings.TrimSpace(id))] = true
	}
	return b
}

// WithGeocoder enables the geocode stage
func (b *PipelineBuilder) WithGeocoder(g ReverseGeocoder) *PipelineBuilder {
	b.pipeline.geocoder = g
	return b
}

// Build creates the Pipeline
func (b *PipelineBuilder) Build() (*Pipeline, error) {
	if b.pipeline.normalizer == nil {
		return nil, common.NewValidationError("normalizer", nil, "URL normalizer is required")
	}
	if b.pipeline.rules == nil {
		b.pipeline.rules = redirects.NewRuleSet(nil)
	}
	p := b.pipeline
	return &p, nil
}

// Run applies every stage in order. A stage whose input column is missing is
// skipped and the rest still run. Run stops early only when ctx is cancelled.
func (p *Pipeline) Run(ctx context.Context, frame *table.Frame) (*Summary, error) {
	summary := &Summary{RowsLoaded: frame.Len()}

	steps := []func(*table.Frame, *Summary) StageResult{
		p.RemoveMissingLink,
		p.RemoveTestingResponses,
		p.ExcludeResponses,
		p.ScrubEmails,
		p.CanonicalizeURLs,
	}
	for _, step := range steps {
		if err := ctx.Err(); err != nil {
			return summary, err
		}
		summary.Stages = append(summary.Stages, step(frame, summary))
	}

	if p.geocoder != nil {
		result, err := p.Geocode(ctx, frame, summary)
		summary.Stages = append(summary.Stages, result)
		if err != nil {
			return summary, err
		}
	}

	summary.RowsWritten = frame.Len()
	return summary, nil
}

func (p *Pipeline) missingColumn(name, column string) StageResult {
	err := common.NewColumnError(name, column)
	p.logger.Error().Err(err).Str("stage", name).Msg("Column not found, skipping stage")
	return skipped(name, err.Error())
}

// RemoveMissingLink drops rows whose link column is null or blank
func (p *Pipeline) RemoveMissingLink(frame *table.Frame, _ *Summary) StageResult {
	col := p.cfg.Columns.Link
	if !frame.HasColumn(col) {
		return p.missingColumn(StageRemoveMissingLink, col)
	}
	removed := frame.Filter(func(i int) bool {
		if strings.TrimSpace(frame.Get(i, col).Value) == "" {
			p.logger.Info().Int("row", i).Str("response_id", p.responseID(frame, i)).Msg("Row deleted because Link URL is missing")
			return false
		}
		return true
	})
	return StageResult{Name: StageRemoveMissingLink, Removed: removed}
}

// RemoveTestingResponses drops rows whose comment mentions the testing keyword
func (p *Pipeline) RemoveTestingResponses(frame *table.Frame, _ *Summary) StageResult {
	col := p.cfg.Columns.Comment
	if p.cfg.TestingKeyword == "" {
		return skipped(StageRemoveTesting, "no testing keyword configured")
	}
	if !frame.HasColumn(col) {
		return p.missingColumn(StageRemoveTesting, col)
	}
	keyword := strings.ToLower(p.cfg.TestingKeyword)
	removed := frame.Filter(func(i int) bool {
		if strings.Contains(strings.ToLower(frame.Get(i, col).Value), keyword) {
			p.logger.Info().Int("row", i).Str("response_id", p.responseID(frame, i)).Msg("Row deleted because comment contains the testing keyword")
			return false
		}
		return true
	})
	return StageResult{Name: StageRemoveTesting, Removed: removed}
}

// ExcludeResponses drops rows whose response id is on the exclude list
func (p *Pipeline) ExcludeResponses(frame *table.Frame, _ *Summary) StageResult {
	col := p.cfg.Columns.ResponseID
	if len(p.excluded) == 0 {
		return skipped(StageExclude, "no exclude list")
	}
	if !frame.HasColumn(col) {
		return p.missingColumn(StageExclude, col)
	}
	removed := frame.Filter(func(i int) bool {
		id := strings.ToUpper(strings.TrimSpace(frame.Get(i, col).Value))
		if p.excluded[id] {
			p.logger.Info().Int("row", i).Str("response_id", id).Msg("Row deleted because response id is excluded")
			return false
		}
		return true
	})
	return StageResult{Name: StageExclude, Removed: removed}
}

// ScrubEmails replaces email addresses in the comment column
func (p *Pipeline) ScrubEmails(frame *table.Frame, _ *Summary) StageResult {
	col := p.cfg.Columns.Comment
	if !frame.HasColumn(col) {
		return p.missingColumn(StageScrubEmails, col)
	}
	result := StageResult{Name: StageScrubEmails}
	for i := 0; i < frame.Len(); i++ {
		cell := frame.Get(i, col)
		if !cell.Valid || !emailRegex.MatchString(cell.Value) {
			continue
		}
		scrubbed := emailRegex.ReplaceAllString(cell.Value, p.cfg.EmailReplacement)
		_ = frame.Set(i, col, table.Str(scrubbed))
		result.Changed++
		p.logger.Info().Int("row", i).Str("response_id", p.responseID(frame, i)).Msg("Email address scrubbed from comment")
	}
	return result
}

// CanonicalizeURLs keeps the raw link, normalizes the link column and writes
// the redirect-mapped URL to the canonical column
func (p *Pipeline) CanonicalizeURLs(frame *table.Frame, summary *Summary) StageResult {
	cols := p.cfg.Columns
	if !frame.HasColumn(cols.Link) {
		return p.missingColumn(StageCanonicalize, cols.Link)
	}

	keepOriginal := !frame.HasColumn(cols.OriginalLink)
	frame.InsertColumnAfter(cols.Link, cols.OriginalLink)
	frame.InsertColumnAfter(cols.OriginalLink, cols.Canonical)

	mapper := redirects.NewMapper(p.rules, p.logger)
	result := StageResult{Name: StageCanonicalize}
	for i := 0; i < frame.Len(); i++ {
		raw := frame.Get(i, cols.Link)
		if keepOriginal {
			_ = frame.Set(i, cols.OriginalLink, raw)
		}

		normalized, ok := p.normalizer.Normalize(raw.Value)
		if !ok {
			summary.URLsInvalid++
			p.logger.Warn().Int("row", i).Str("url", raw.Value).Msg("Link URL could not be normalized, left unchanged")
			_ = frame.Set(i, cols.Canonical, raw)
			continue
		}
		if normalized != raw.Value {
			_ = frame.Set(i, cols.Link, table.Str(normalized))
			result.Changed++
			p.logger.Info().Int("row", i).Str("before", raw.Value).Str("after", normalized).Msg("Link URL normalized")
		}

		canonical := p.applyReplacements(i, normalized)
		canonical = mapper.Map(i, canonical)
		_ = frame.Set(i, cols.Canonical, table.Str(canonical))
	}
	summary.URLsChanged += result.Changed
	summary.URLsMapped += mapper.Changes()
	return result
}

func (p *Pipeline) applyReplacements(row int, url string) string {
	for _, r := range p.cfg.KnownReplacements {
		if r.From == "" || !strings.Contains(url, r.From) {
			continue
		}
		replaced := strings.ReplaceAll(url, r.From, r.To)
		p.logger.Info().Int("row", row).Str("before", url).Str("after", replaced).Msg("Known URL replacement applied")
		url = replaced
	}
	return url
}

// Geocode adds Country, City and State columns from the coordinate columns.
// Lookup failures leave the row without a location.
func (p *Pipeline) Geocode(ctx context.Context, frame *table.Frame, summary *Summary) (StageResult, error) {
	cols := p.cfg.Columns
	for _, c := range []string{cols.Latitude, cols.Longitude} {
		if !frame.HasColumn(c) {
			return p.missingColumn(StageGeocode, c), nil
		}
	}
	for _, c := range []string{"Country", "City", "State"} {
		frame.AddColumn(c)
	}

	result := StageResult{Name: StageGeocode}
	for i := 0; i < frame.Len(); i++ {
		if err := ctx.Err(); err != nil {
			return result, err
		}
		lat, latOK := parseCoordinate(frame.Get(i, cols.Latitude))
		lon, lonOK := parseCoordinate(frame.Get(i, cols.Longitude))
		if !latOK || !lonOK {
			p.logger.Info().Int("row", i).Msg("Latitude or longitude is missing, skipping reverse geocoding")
			continue
		}

		place, err := p.geocoder.Reverse(ctx, lat, lon)
		if err != nil {
			if ctx.Err() != nil {
				return result, ctx.Err()
			}
			summary.GeocodeMisses++
			p.logger.Warn().Err(err).Int("row", i).Float64("lat", lat).Float64("lon", lon).Msg("Reverse geocoding failed")
			continue
		}
		if !place.Found {
			summary.GeocodeMisses++
			p.logger.Warn().Int("row", i).Float64("lat", lat).Float64("lon", lon).Msg("No address found")
			continue
		}

		setOptional(frame, i, "Country", place.Country)
		setOptional(frame, i, "City", place.City)
		setOptional(frame, i, "State", place.State)
		summary.Geocoded++
		result.Changed++
		p.logger.Info().
			Int("row", i).
			Float64("lat", lat).
			Float64("lon", lon).
			Str("country", place.Country).
			Str("city", place.City).
			Str("state", place.State).
			Msg("Reverse geocoded")
	}
	return result, nil
}

func (p *Pipeline) responseID(frame *table.Frame, i int) string {
	return frame.Get(i, p.cfg.Columns.ResponseID).Value
}

func parseCoordinate(c table.Cell) (float64, bool) {
	if c.IsBlank() {
		return 0, false
	}
	v, err := strconv.ParseFloat(strings.TrimSpace(c.Value), 64)
	return v, err == nil
}

func setOptional(frame *table.Frame, i int, column, value string) {
	if value == "" {
		_ = frame.Set(i, column, table.Null())
		return
	}
	_ = frame.Set(i, column, table.Str(value))
}

// LoadExcludeList reads response ids, one per line. Blank and '#' lines are ignored.
func LoadExcludeList(fm *common.FileManager, path string) ([]string, error) {
	lines, err := fm.ReadLines(path, common.DefaultLineReadOptions())
	if err != nil {
		return nil, err
	}
	ids := make([]string, len(lines))
	for i, l := range lines {
		ids[i] = strings.ToUpper(l)
	}
	return ids, nil
}
