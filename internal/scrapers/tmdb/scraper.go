package tmdb

import (
	"context"
	"fmt"
	"time"
	"tmdb-scraper/internal/components/assert"
	"tmdb-scraper/internal/components/chrono"
	"tmdb-scraper/internal/components/telemetry"
	"tmdb-scraper/pkg/restyutil"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const (
	report_scraper_config       = "scraper.config"
	report_scraper_probe        = "scraper.probe"
	report_scraper_scrape_page  = "scraper.scrape-page"
	report_scraper_pages        = "scraper.pages-written"
	report_scraper_api_fallback = "scraper.api-fallbacks"
	report_scraper_placeholder  = "scraper.placeholders"
)

var tracer = otel.Tracer("tmdb-scraper/tmdb")

// Sink persists scraped pages, it returns where each one was written to.
type Sink interface {
	WritePage(page PageResult) (string, error)
	WriteCombined(pages []PageResult) (string, error)
}

type WrittenPage struct {
	Page     int
	Rows     int
	File     string
	Duration time.Duration
}

type SkippedPage struct {
	Page int
	Err  error
}

// RunResult summarizes a scrape.
type RunResult struct {
	Written      []WrittenPage
	Skipped      []SkippedPage
	CombinedFile string
	CombinedRows int

	// APIFallbacks counts detail fields that came from the JSON API.
	APIFallbacks int
	// Placeholders counts detail fields that got a placeholder value.
	Placeholders int

	Duration time.Duration
}

type Scraper struct {
	cfg     Config
	pages   PageFetcher
	details DetailFetcher
	sink    Sink
	clock   chrono.API
	tel     telemetry.API
}

func NewScraper(cfg Config, sink Sink, clock chrono.API, tel telemetry.API) (Scraper, error) {
	assert.NotNil(sink)
	assert.NotNil(clock)
	assert.NotNil(tel)

	err := cfg.Validate()
	if err != nil {
		return Scraper{}, fmt.Errorf("invalid config: %w", err)
	}

	if cfg.APIToken == "" {
		telemetry.NewScopedAPI("tmdb_scraper", tel).ReportWarning(
			report_scraper_config,
			"no api token configured, api fallbacks will be rejected and end up as placeholders",
		)
	}

	fetcher := NewFetcher(cfg.PolitenessDelay, tel)
	if cfg.DumpDir != "" {
		out, err := restyutil.NewDirOutput(cfg.DumpDir)
		if err != nil {
			return Scraper{}, fmt.Errorf("create dump dir: %w", err)
		}
		fetcher.DumpTo(out)
	}
	api := NewAPIClient(cfg.APIBase, cfg.APIToken, cfg.DetailTimeout, tel)

	return Scraper{
		cfg:     cfg,
		pages:   fetcher,
		details: NewDetailFetcher(cfg.BaseURL, cfg.DetailTimeout, fetcher, api, tel),
		sink:    sink,
		clock:   clock,
		tel:     telemetry.NewScopedAPI("tmdb_scraper", tel),
	}, nil
}

// Probe checks that the movie listing is reachable at all, nothing else
// should be attempted if it fails.
func (s Scraper) Probe(ctx context.Context) error {
	_, err := s.pages.Fetch(ctx, s.cfg.BaseURL+"movie", s.cfg.ListingTimeout)
	if err != nil {
		s.tel.ReportBroken(report_scraper_probe, err)
		return err
	}
	return nil
}

// Run scrapes every configured page in order, writing each one through the
// sink as soon as it is done. A page that fails is reported and skipped, the
// only errors returned are a cancelled context and a failure to write the
// combined file.
func (s Scraper) Run(ctx context.Context) (RunResult, error) {
	start := s.clock.Now()
	result := RunResult{}

	var written []PageResult
	for _, n := range s.cfg.Pages {
		err := ctx.Err()
		if err != nil {
			return result, err
		}

		pageStart := s.clock.Now()
		page, err := s.scrapePage(ctx, n, &result)
		if err == nil {
			var file string
			file, err = s.sink.WritePage(page)
			if err != nil {
				err = fmt.Errorf("write page: %w", err)
			} else {
				written = append(written, page)
				result.Written = append(result.Written, WrittenPage{
					Page:     n,
					Rows:     len(page.Records),
					File:     file,
					Duration: s.clock.Now().Sub(pageStart),
				})
				continue
			}
		}

		if ctx.Err() != nil {
			return result, ctx.Err()
		}
		s.tel.ReportBroken(report_scraper_scrape_page, err, n)
		result.Skipped = append(result.Skipped, SkippedPage{Page: n, Err: err})
	}

	s.tel.ReportCount(report_scraper_pages, int64(len(result.Written)))
	s.tel.ReportCount(report_scraper_api_fallback, int64(result.APIFallbacks))
	s.tel.ReportCount(report_scraper_placeholder, int64(result.Placeholders))

	file, err := s.sink.WriteCombined(written)
	if err != nil {
		return result, fmt.Errorf("write combined: %w", err)
	}
	result.CombinedFile = file
	for _, p := range written {
		result.CombinedRows += len(p.Records)
	}
	result.Duration = s.clock.Now().Sub(start)

	return result, nil
}

func (s Scraper) scrapePage(ctx context.Context, n int, result *RunResult) (PageResult, error) {
	ctx, span := tracer.Start(ctx, "scrape page", trace.WithAttributes(attribute.Int("page", n)))
	defer span.End()

	page, err := s.buildPage(ctx, n, result)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return PageResult{}, err
	}
	span.SetAttributes(attribute.Int("records", len(page.Records)))
	return page, nil
}

func (s Scraper) buildPage(ctx context.Context, n int, result *RunResult) (PageResult, error) {
	listingUrl := fmt.Sprintf("%smovie?page=%d", s.cfg.BaseURL, n)
	body, err := s.pages.Fetch(ctx, listingUrl, s.cfg.ListingTimeout)
	if err != nil {
		return PageResult{}, fmt.Errorf("fetch listing: %w", err)
	}
	entries, err := ParseListing(body)
	if err != nil {
		return PageResult{}, fmt.Errorf("parse listing: %w", err)
	}

	details := make([]Details, 0, len(entries))
	for _, e := range entries {
		err := ctx.Err()
		if err != nil {
			return PageResult{}, err
		}

		d := s.details.FetchCastAndGenres(ctx, e.Link)
		for _, source := range []Source{d.CastSource, d.GenresSource} {
			switch source {
			case SourceAPI:
				result.APIFallbacks++
			case SourcePlaceholder:
				result.Placeholders++
			}
		}
		details = append(details, d)
	}

	return BuildPage(n, entries, details)
}
