package tmdb

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"testing"
	"time"
	"tmdb-scraper/internal/components/chrono"
	"tmdb-scraper/internal/components/telemetry"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

type memorySink struct {
	pages        []PageResult
	combined     []PageResult
	failPage     int
	failCombined bool
}

func (m *memorySink) WritePage(page PageResult) (string, error) {
	if page.Page == m.failPage {
		return "", errors.New("disk full")
	}
	m.pages = append(m.pages, page)
	return fmt.Sprintf("page-%d.csv", page.Page), nil
}

func (m *memorySink) WriteCombined(pages []PageResult) (string, error) {
	if m.failCombined {
		return "", errors.New("disk full")
	}
	m.combined = pages
	return "combined.csv", nil
}

func newTestSite(t *testing.T) (*fakeServer, *fakeServer) {
	site := newFakeServer(t, map[string]string{
		"/movie":                  "<html><body>movies</body></html>",
		"/movie?page=1":           string(listingFixture),
		"/movie?page=3":           "<html><body><p>no results</p></body></html>",
		"/movie/100-movie-a/cast": string(castFixture),
		"/movie/100-movie-a":      string(movieFixture),
		"/movie/200-movie-b":      `<html><body><span class="genres"><a href="/genre/35">Comedy</a></span></body></html>`,
	})
	api := newFakeServer(t, map[string]string{
		"/3/movie/200/credits?language=en-US": `{
			"cast": [{"original_name": "Jane Doe", "known_for_department": "Acting"}],
			"crew": [{"original_name": "Sam Poe", "known_for_department": "Directing"}]
		}`,
	})
	return site, api
}

func newTestScraper(t *testing.T, site, api *fakeServer, pages []int, sink Sink, tel telemetry.API) Scraper {
	cfg := DefaultConfig()
	cfg.BaseURL = site.URL + "/"
	cfg.APIBase = api.URL + "/3/movie"
	cfg.APIToken = "token"
	cfg.Pages = pages
	cfg.ListingTimeout = time.Second
	cfg.DetailTimeout = time.Second
	cfg.PolitenessDelay = 0

	scraper, err := NewScraper(cfg, sink, chrono.NewFixedImpl(time.Unix(0, 0), time.Second), tel)
	require.NoError(t, err)
	return scraper
}

func TestScraperRun(t *testing.T) {
	site, api := newTestSite(t)
	sink := &memorySink{}
	tel := telemetry.NewTestAPI()
	scraper := newTestScraper(t, site, api, []int{1, 2, 3}, sink, tel)

	require.NoError(t, scraper.Probe(context.Background()))

	result, err := scraper.Run(context.Background())
	require.NoError(t, err)

	expected := []MovieRecord{
		{
			Title:  "Movie A",
			Rating: "87.00",
			Genres: []string{"Action", "Drama"},
			Cast:   []string{"Jane Doe", "John Roe", "Sam Poe"},
		},
		{
			Title:  "Movie B",
			Rating: NotRated,
			Genres: []string{"Comedy"},
			Cast:   []string{"Jane Doe"},
		},
		{
			Title:  "Untitled Movie",
			Rating: NullValue,
			Genres: []string{"NaN"},
			Cast:   []string{"Nan"},
		},
	}

	require.Len(t, sink.pages, 2)
	require.Equal(t, 1, sink.pages[0].Page)
	if diff := cmp.Diff(expected, sink.pages[0].Records); diff != "" {
		t.Fatalf("page 1 records mismatch (-want +got):\n%s", diff)
	}
	require.Equal(t, 3, sink.pages[1].Page)
	require.Empty(t, sink.pages[1].Records)

	require.Equal(t, sink.pages, sink.combined)

	require.Len(t, result.Written, 2)
	require.Equal(t, WrittenPage{Page: 1, Rows: 3, File: "page-1.csv", Duration: time.Second}, result.Written[0])
	require.Equal(t, "page-3.csv", result.Written[1].File)

	require.Len(t, result.Skipped, 1)
	require.Equal(t, 2, result.Skipped[0].Page)
	var fetchErr *FetchError
	require.True(t, errors.As(result.Skipped[0].Err, &fetchErr))
	require.Equal(t, http.StatusNotFound, fetchErr.StatusCode)

	require.Equal(t, "combined.csv", result.CombinedFile)
	require.Equal(t, 3, result.CombinedRows)
	require.Equal(t, 1, result.APIFallbacks)
	require.Equal(t, 2, result.Placeholders)
	require.Positive(t, result.Duration)

	require.True(t, tel.Has(telemetry.KindBroken, "scraper.scrape-page"))
	require.True(t, tel.Has(telemetry.KindCount, "scraper.pages-written"))

	require.Equal(t, 1, api.Total())
	require.Equal(t, 1, site.Hits("/movie?page=2"))
}

func TestScraperSkipsPageThatFailsToWrite(t *testing.T) {
	site, api := newTestSite(t)
	sink := &memorySink{failPage: 1}
	tel := telemetry.NewTestAPI()
	scraper := newTestScraper(t, site, api, []int{1, 3}, sink, tel)

	result, err := scraper.Run(context.Background())
	require.NoError(t, err)

	require.Len(t, result.Skipped, 1)
	require.Equal(t, 1, result.Skipped[0].Page)
	require.ErrorContains(t, result.Skipped[0].Err, "disk full")
	require.Len(t, sink.combined, 1)
	require.Equal(t, 3, sink.combined[0].Page)
}

func TestScraperCombinedWriteFailure(t *testing.T) {
	site, api := newTestSite(t)
	sink := &memorySink{failCombined: true}
	scraper := newTestScraper(t, site, api, []int{3}, sink, telemetry.NewTestAPI())

	result, err := scraper.Run(context.Background())
	require.ErrorContains(t, err, "write combined")
	require.Len(t, result.Written, 1)
}

func TestScraperProbeFailure(t *testing.T) {
	site := newFakeServer(t, map[string]string{})
	api := newFakeServer(t, map[string]string{})
	tel := telemetry.NewTestAPI()
	scraper := newTestScraper(t, site, api, []int{1}, &memorySink{}, tel)

	err := scraper.Probe(context.Background())
	require.Error(t, err)
	require.True(t, IsFetchError(err))
	require.True(t, tel.Has(telemetry.KindBroken, "scraper.probe"))
}

func TestScraperCancelled(t *testing.T) {
	site, api := newTestSite(t)
	sink := &memorySink{}
	scraper := newTestScraper(t, site, api, []int{1, 3}, sink, telemetry.NewTestAPI())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := scraper.Run(ctx)
	require.ErrorIs(t, err, context.Canceled)
	require.Empty(t, sink.pages)
	require.Nil(t, sink.combined)
	require.Zero(t, site.Total())
}

func TestNewScraperRejectsInvalidConfig(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Pages = nil
	_, err := NewScraper(cfg, &memorySink{}, chrono.StandardImpl{}, telemetry.NewTestAPI())
	require.Error(t, err)
}

func TestScraperDumpsExchanges(t *testing.T) {
	site, api := newTestSite(t)
	dumpDir := filepath.Join(t.TempDir(), "dump")

	cfg := DefaultConfig()
	cfg.BaseURL = site.URL + "/"
	cfg.APIBase = api.URL + "/3/movie"
	cfg.Pages = []int{3}
	cfg.PolitenessDelay = 0
	cfg.DumpDir = dumpDir

	scraper, err := NewScraper(cfg, &memorySink{}, chrono.StandardImpl{}, telemetry.NewTestAPI())
	require.NoError(t, err)
	require.NoError(t, scraper.Probe(context.Background()))
	_, err = scraper.Run(context.Background())
	require.NoError(t, err)

	entries, err := os.ReadDir(dumpDir)
	require.NoError(t, err)
	require.Len(t, entries, 2)

	first, err := os.ReadFile(filepath.Join(dumpDir, entries[0].Name()))
	require.NoError(t, err)
	require.Contains(t, string(first), "GET "+site.URL+"/movie")
	require.Contains(t, string(first), "Cache-Control: max-age=0")
}

func TestNewScraperWarnsWithoutToken(t *testing.T) {
	site, api := newTestSite(t)

	tel := telemetry.NewTestAPI()
	newTestScraper(t, site, api, []int{1}, &memorySink{}, tel)
	require.False(t, tel.Has(telemetry.KindWarning, "scraper.config"))

	cfg := DefaultConfig()
	cfg.BaseURL = site.URL + "/"
	cfg.APIBase = api.URL + "/3/movie"
	cfg.APIToken = ""
	tel = telemetry.NewTestAPI()
	_, err := NewScraper(cfg, &memorySink{}, chrono.StandardImpl{}, tel)
	require.NoError(t, err)
	require.True(t, tel.Has(telemetry.KindWarning, "scraper.config"))
	require.Len(t, tel.Reports(telemetry.KindWarning), 1)
}
