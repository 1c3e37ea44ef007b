package survey

import (
	"math"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/docwrangler/docwrangler/internal/common"
	"github.com/docwrangler/docwrangler/internal/config"
	"github.com/docwrangler/docwrangler/internal/table"
	"github.com/rs/zerolog"
)

// Dataset output columns
const (
	DatasetProductColumn  = "Product"
	DatasetAverageColumn  = "avg_q1"
	DatasetCountColumn    = "n"
	DatasetCommentsColumn = "q2_comments"
)

// startDateLayouts are the timestamp forms found in survey exports
var startDateLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
	"1/2/2006 15:04:05",
	"1/2/2006 15:04",
	"1/2/2006",
	"1/2/06 15:04",
	"01-02-06 15:04",
}

// ParseStartDate parses a survey timestamp in any of the known layouts
func ParseStartDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	for _, layout := range startDateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// ProductForURL returns the product of the first prefix url starts with
func ProductForURL(url string, cfg config.DatasetConfig) string {
	url = strings.TrimSpace(url)
	for _, p := range cfg.Products {
		if strings.HasPrefix(url, p.Prefix) {
			return p.Product
		}
	}
	return cfg.UnknownProduct
}

type datasetKey struct {
	url     string
	product string
}

type datasetGroup struct {
	sum      float64
	count    int
	comments []string
}

// BuildDataset aggregates a cleaned survey table into one row per
// (canonical URL, product) with the mean rating, the rating count and the
// joined comments
func BuildDataset(frame *table.Frame, columns config.SurveyColumns, cfg config.DatasetConfig, logger zerolog.Logger) (*table.Frame, error) {
	log := logger.With().Str("component", "DatasetBuilder").Logger()

	for _, c := range []string{columns.Canonical, columns.Rating, columns.Comment, columns.StartDate} {
		if !frame.HasColumn(c) {
			return nil, common.NewColumnError("dataset", c)
		}
	}

	groups := make(map[datasetKey]*datasetGroup)
	dropped := 0
	for i := 0; i < frame.Len(); i++ {
		if _, ok := ParseStartDate(frame.Get(i, columns.StartDate).Value); !ok {
			dropped++
			log.Debug().Int("row", i).Msg("Row dropped because StartDate is not a date")
			continue
		}
		rating, err := strconv.ParseFloat(strings.TrimSpace(frame.Get(i, columns.Rating).Value), 64)
		if err != nil || math.IsNaN(rating) || math.IsInf(rating, 0) {
			dropped++
			log.Debug().Int("row", i).Msg("Row dropped because rating is missing or not numeric")
			continue
		}

		url := strings.TrimSpace(frame.Get(i, columns.Canonical).Value)
		key := datasetKey{url: url, product: ProductForURL(url, cfg)}
		g, ok := groups[key]
		if !ok {
			g = &datasetGroup{}
			groups[key] = g
		}
		g.sum += rating
		g.count++
		if comment := frame.Get(i, columns.Comment); !comment.IsBlank() {
			g.comments = append(g.comments, comment.Value)
		}
	}

	keys := make([]datasetKey, 0, len(groups))
	for k := range groups {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].url != keys[j].url {
			return keys[i].url < keys[j].url
		}
		return keys[i].product < keys[j].product
	})

	out := table.NewFrame(columns.Canonical, DatasetProductColumn, DatasetAverageColumn, DatasetCountColumn, DatasetCommentsColumn)
	for _, k := range keys {
		g := groups[k]
		avg := math.Round(g.sum/float64(g.count)*100) / 100
		comments := table.Null()
		if len(g.comments) > 0 {
			comments = table.Str(strings.Join(g.comments, cfg.Delimiter))
		}
		if err := out.AppendRow([]table.Cell{
			table.Str(k.url),
			table.Str(k.product),
			table.Str(strconv.FormatFloat(avg, 'f', -1, 64)),
			table.Str(strconv.Itoa(g.count)),
			comments,
		}); err != nil {
			return nil, err
		}
	}

	log.Info().
		Int("input_rows", frame.Len()).
		Int("dropped_rows", dropped).
		Int("groups", out.Len()).
		Msg("Built feedback dataset")
	return out, nil
}
