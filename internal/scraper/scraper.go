package scraper

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/docwrangler/docwrangler/internal/common"
	"github.com/docwrangler/docwrangler/internal/config"
	"github.com/gocolly/colly/v2"
	"github.com/rs/zerolog"
)

// Scraper collects the pages reachable below a start URL
type Scraper struct {
	cfg    config.ScraperConfig
	fm     *common.FileManager
	logger zerolog.Logger
}

// NewScraper creates a new scraper
func NewScraper(cfg config.ScraperConfig, logger zerolog.Logger) *Scraper {
	return &Scraper{
		cfg:    cfg,
		fm:     common.NewFileManager(logger),
		logger: logger.With().Str("component", "Scraper").Logger(),
	}
}

func (s *Scraper) createCollector(ctx context.Context) (*colly.Collector, error) {
	c := colly.NewCollector(
		colly.UserAgent(s.cfg.UserAgent),
		colly.MaxDepth(s.cfg.MaxDepth),
		colly.IgnoreRobotsTxt(),
		colly.StdlibContext(ctx),
	)
	if s.cfg.RequestTimeout > 0 {
		c.SetRequestTimeout(time.Duration(s.cfg.RequestTimeout) * time.Second)
	}
	if s.cfg.DelayMs > 0 {
		if err := c.Limit(&colly.LimitRule{
			DomainGlob: "*",
			Delay:      time.Duration(s.cfg.DelayMs) * time.Millisecond,
		}); err != nil {
			return nil, common.WrapError(err, "error setting up colly limit rule")
		}
	}
	return c, nil
}

// Scrape crawls from start, following only links that begin with start and
// carry no fragment. It returns every such link except start, sorted.
func (s *Scraper) Scrape(ctx context.Context, start string) ([]string, error) {
	if start == "" {
		return nil, common.NewValidationError("start_url", start, "start URL cannot be empty")
	}
	c, err := s.createCollector(ctx)
	if err != nil {
		return nil, err
	}

	var mu sync.Mutex
	found := make(map[string]struct{})
	errorCount := 0

	c.OnRequest(func(r *colly.Request) {
		if r.URL.String() != start {
			s.logger.Info().Str("url", r.URL.String()).Msg("Visiting")
		}
	})
	c.OnError(func(r *colly.Response, err error) {
		mu.Lock()
		errorCount++
		mu.Unlock()
		s.logger.Warn().Err(err).Str("url", r.Request.URL.String()).Int("status", r.StatusCode).Msg("Error visiting page")
	})
	c.OnHTML("a[href]", func(e *colly.HTMLElement) {
		href := e.Attr("href")
		if strings.Contains(href, "#") {
			return
		}
		link := e.Request.AbsoluteURL(href)
		if link == "" || !strings.HasPrefix(link, start) {
			return
		}
		if link != start {
			mu.Lock()
			found[link] = struct{}{}
			mu.Unlock()
		}
		if err := e.Request.Visit(link); err != nil && !isBenignVisitError(err) {
			s.logger.Debug().Err(err).Str("url", link).Msg("Not visiting link")
		}
	})

	if err := c.Visit(start); err != nil {
		return nil, common.NewNetworkError(start, "failed to visit start URL", err)
	}
	c.Wait()
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	pages := make([]string, 0, len(found))
	for link := range found {
		pages = append(pages, link)
	}
	sort.Strings(pages)

	s.logger.Info().Int("pages", len(pages)).Int("errors", errorCount).Str("start", start).Msg("Scrape complete")
	return pages, nil
}

// WriteList writes one page per line
func (s *Scraper) WriteList(path string, pages []string) error {
	return s.fm.WriteFile(path, []byte(strings.Join(pages, "\n")), common.DefaultFileWriteOptions())
}

func isBenignVisitError(err error) bool {
	var visited *colly.AlreadyVisitedError
	return errors.As(err, &visited) || errors.Is(err, colly.ErrMaxDepth)
}
