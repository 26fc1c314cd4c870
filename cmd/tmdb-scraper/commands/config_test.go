package commands

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
	"tmdb-scraper/internal/scrapers/tmdb"

	"github.com/stretchr/testify/require"
)

func TestLoadFileConfig(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "tmdb-scraper.json5")

	cfg, err := LoadFileConfig(path, false)
	require.NoError(t, err)
	require.Equal(t, FileConfig{}, cfg)

	_, err = LoadFileConfig(path, true)
	require.Error(t, err)

	require.NoError(t, os.WriteFile(path, []byte(`{
		// scrape a little less often than the default
		pages: "2-3",
		politeness_delay: "2s",
		output_dir: "out",
	}`), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "tmdb-scraper.local.json5"), []byte(`{
		api_token: "local-token",
		pages: "4",
	}`), 0644))

	cfg, err = LoadFileConfig(path, true)
	require.NoError(t, err)
	require.Equal(t, FileConfig{
		APIToken:        "local-token",
		Pages:           "4",
		PolitenessDelay: "2s",
		OutputDir:       "out",
	}, cfg)
}

func TestResolveDefaults(t *testing.T) {
	t.Setenv(apiTokenEnv, "env-token")

	cfg, dir, err := FileConfig{}.Resolve()
	require.NoError(t, err)
	require.Equal(t, defaultOutputDir, dir)

	expected := tmdb.DefaultConfig()
	expected.APIToken = "env-token"
	require.Equal(t, expected, cfg)
}

func TestResolveOverrides(t *testing.T) {
	t.Setenv(apiTokenEnv, "env-token")

	cfg, dir, err := FileConfig{
		BaseURL:         "http://localhost:8080/",
		APIBase:         "http://localhost:8081/3/movie",
		APIToken:        "file-token",
		Pages:           "1,3",
		ListingTimeout:  "5s",
		DetailTimeout:   "1m",
		PolitenessDelay: "0s",
		OutputDir:       "exports",
	}.Resolve()
	require.NoError(t, err)
	require.Equal(t, "exports", dir)
	require.Equal(t, tmdb.Config{
		BaseURL:         "http://localhost:8080/",
		APIBase:         "http://localhost:8081/3/movie",
		APIToken:        "file-token",
		Pages:           []int{1, 3},
		ListingTimeout:  5 * time.Second,
		DetailTimeout:   time.Minute,
		PolitenessDelay: 0,
	}, cfg)
}

func TestResolveInvalid(t *testing.T) {
	invalid := []FileConfig{
		{Pages: "3-1"},
		{ListingTimeout: "soon"},
		{DetailTimeout: "10"},
		{PolitenessDelay: "-1s"},
		{BaseURL: "http://localhost:8080"},
	}
	for _, f := range invalid {
		_, _, err := f.Resolve()
		require.Error(t, err, "%+v", f)
	}
}

func TestRenderRecords(t *testing.T) {
	records := []tmdb.MovieRecord{
		{Title: "Movie A", Rating: "87.00", Genres: []string{"Action", "Drama"}, Cast: []string{"Jane Doe"}},
		{Title: "Movie B", Rating: tmdb.NotRated, Genres: []string{"NaN"}, Cast: []string{"Nan"}},
	}

	var out bytes.Buffer
	renderRecords(&out, records, 1)
	require.Contains(t, out.String(), "Movie A")
	require.Contains(t, out.String(), "Action, Drama")
	require.NotContains(t, out.String(), "Movie B")
	// footers are upper cased by the table style
	require.Contains(t, strings.ToLower(out.String()), "1 more")
}

func TestRenderRunResult(t *testing.T) {
	var out bytes.Buffer
	renderRunResult(&out, tmdb.RunResult{
		Written:      []tmdb.WrittenPage{{Page: 1, Rows: 20, File: "DataFrame_Page_1_ScrapedData.csv", Duration: time.Second}},
		Skipped:      []tmdb.SkippedPage{{Page: 2, Err: os.ErrDeadlineExceeded}},
		CombinedFile: "Combined_Data_ScrapedData.csv",
		CombinedRows: 20,
		APIFallbacks: 3,
	})
	require.Contains(t, out.String(), "DataFrame_Page_1_ScrapedData.csv")
	require.Contains(t, out.String(), "skipped")
	require.Contains(t, strings.ToLower(out.String()), "combined_data_scrapeddata.csv")
	require.Contains(t, out.String(), "api fallbacks: 3, placeholders: 0")
}
