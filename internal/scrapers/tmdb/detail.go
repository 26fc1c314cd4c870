package tmdb

import (
	"context"
	"fmt"
	"time"
	"tmdb-scraper/internal/components/assert"
	"tmdb-scraper/internal/components/telemetry"
)

const (
	report_detail_fetch_cast   = "detail.fetch-cast"
	report_detail_fetch_genres = "detail.fetch-genres"
)

// cast and genre placeholders differ in casing, exported files rely on both
const (
	castPlaceholder  = "Nan"
	genrePlaceholder = "NaN"
)

func CastPlaceholder() []string  { return []string{castPlaceholder} }
func GenrePlaceholder() []string { return []string{genrePlaceholder} }

// Source is where a detail field ended up coming from.
type Source int

const (
	SourcePage Source = iota
	SourceAPI
	SourcePlaceholder
)

func (s Source) String() string {
	switch s {
	case SourcePage:
		return "page"
	case SourceAPI:
		return "api"
	case SourcePlaceholder:
		return "placeholder"
	default:
		return fmt.Sprintf("source(%d)", int(s))
	}
}

// Details are the cast and genres of one movie.
type Details struct {
	Cast         []string
	Genres       []string
	CastSource   Source
	GenresSource Source
}

// PageFetcher is implemented by *Fetcher.
type PageFetcher interface {
	Fetch(ctx context.Context, link string, timeout time.Duration) ([]byte, error)
}

// MovieAPI is implemented by *APIClient.
type MovieAPI interface {
	ActingCredits(ctx context.Context, movieId string) ([]string, error)
	Genres(ctx context.Context, movieId string) ([]string, error)
}

// DetailFetcher gets the cast and genres of a movie from its pages, falling
// back to the api once when a page cannot be fetched and to a placeholder
// when that fails too. It never returns an error.
type DetailFetcher struct {
	baseUrl string
	timeout time.Duration
	pages   PageFetcher
	api     MovieAPI
	tel     telemetry.API
}

func NewDetailFetcher(baseUrl string, timeout time.Duration, pages PageFetcher, api MovieAPI, tel telemetry.API) DetailFetcher {
	assert.NotEmptyStr(baseUrl)
	assert.NotNil(pages)
	assert.NotNil(api)
	assert.NotNil(tel)

	return DetailFetcher{
		baseUrl: baseUrl,
		timeout: timeout,
		pages:   pages,
		api:     api,
		tel:     telemetry.NewScopedAPI("tmdb_scraper", tel),
	}
}

func (d DetailFetcher) FetchCastAndGenres(ctx context.Context, link string) Details {
	if link == NullValue || link == "" {
		d.tel.ReportWarning(report_detail_fetch_cast, "listing entry has no link")
		return Details{
			Cast:         CastPlaceholder(),
			Genres:       GenrePlaceholder(),
			CastSource:   SourcePlaceholder,
			GenresSource: SourcePlaceholder,
		}
	}

	cast, castSource := d.fetchCast(ctx, link)
	genres, genresSource := d.fetchGenres(ctx, link)
	return Details{
		Cast:         cast,
		Genres:       genres,
		CastSource:   castSource,
		GenresSource: genresSource,
	}
}

func (d DetailFetcher) fetchCast(ctx context.Context, link string) ([]string, Source) {
	endpoint := d.baseUrl + link + "/cast"

	body, err := d.pages.Fetch(ctx, endpoint, d.timeout)
	if err == nil {
		names, ok := ParseCast(body)
		if !ok {
			d.tel.ReportWarning(report_detail_fetch_cast, "no credits list", endpoint)
			return CastPlaceholder(), SourcePlaceholder
		}
		return names, SourcePage
	}

	if !IsFetchError(err) {
		d.tel.ReportBroken(report_detail_fetch_cast, err, endpoint)
		return CastPlaceholder(), SourcePlaceholder
	}
	d.tel.ReportWarning(report_detail_fetch_cast, fmt.Errorf("page: %w", err), endpoint)

	names, err := d.api.ActingCredits(ctx, MovieID(link))
	if err != nil {
		d.tel.ReportBroken(report_detail_fetch_cast, fmt.Errorf("api fallback: %w", err), link)
		return CastPlaceholder(), SourcePlaceholder
	}
	return names, SourceAPI
}

func (d DetailFetcher) fetchGenres(ctx context.Context, link string) ([]string, Source) {
	endpoint := d.baseUrl + link

	body, err := d.pages.Fetch(ctx, endpoint, d.timeout)
	if err == nil {
		genres, ok := ParseGenres(body)
		if !ok {
			d.tel.ReportWarning(report_detail_fetch_genres, "no genres element", endpoint)
			return GenrePlaceholder(), SourcePlaceholder
		}
		return genres, SourcePage
	}

	if !IsFetchError(err) {
		d.tel.ReportBroken(report_detail_fetch_genres, err, endpoint)
		return GenrePlaceholder(), SourcePlaceholder
	}
	d.tel.ReportWarning(report_detail_fetch_genres, fmt.Errorf("page: %w", err), endpoint)

	genres, err := d.api.Genres(ctx, MovieID(link))
	if err != nil {
		d.tel.ReportBroken(report_detail_fetch_genres, fmt.Errorf("api fallback: %w", err), link)
		return GenrePlaceholder(), SourcePlaceholder
	}
	return genres, SourceAPI
}
