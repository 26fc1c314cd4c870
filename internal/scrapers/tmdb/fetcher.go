package tmdb

import (
	"context"
	"fmt"
	"time"
	"tmdb-scraper/internal/components/assert"
	"tmdb-scraper/internal/components/telemetry"
	"tmdb-scraper/pkg/restyutil"

	cloudflarebp "github.com/DaRealFreak/cloudflare-bp-go"
	"github.com/go-resty/resty/v2"
	"golang.org/x/time/rate"
)

const (
	report_fetcher_fetch = "fetcher.fetch"
)

// the site answers with 403 to clients that don't look like a browser
var scrapingHeaders = map[string]string{
	"User-Agent":    "Mozilla/5.0 (Windows NT 6.3; Win64; x64) AppleWebKit/537.36(KHTML, like Gecko) Chrome/92.0.4515.131 Safari/537.36",
	"Cache-Control": "max-age=0",
	"Connection":    "keep-alive",
}

// Fetcher GETs website pages. It does not retry, callers own the fallback policy.
type Fetcher struct {
	http *resty.Client
	tel  telemetry.API
}

// NewFetcher creates a Fetcher that spaces consecutive requests at least
// `delay` apart, a zero delay disables the spacing.
func NewFetcher(delay time.Duration, tel telemetry.API) *Fetcher {
	assert.NotNil(tel)

	httpClient := resty.New()
	httpClient.SetHeaders(scrapingHeaders)
	httpClient.GetClient().Transport = cloudflarebp.AddCloudFlareByPass(httpClient.GetClient().Transport)

	limit := rate.Inf
	if delay > 0 {
		limit = rate.Every(delay)
	}
	// burst of 1 so that no two requests are ever closer than `delay`
	rateLimiter := rate.NewLimiter(limit, 1)
	httpClient.OnBeforeRequest(func(_ *resty.Client, req *resty.Request) error {
		return rateLimiter.Wait(req.Context())
	})

	telemetry.InstrumentResty(httpClient, tel)

	return &Fetcher{http: httpClient, tel: tel}
}

// Fetch returns the body of `link`, any failure is a *FetchError.
func (f *Fetcher) Fetch(ctx context.Context, link string, timeout time.Duration) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	f.tel.ReportDebug(report_fetcher_fetch, link)

	res, err := f.http.R().
		SetContext(ctx).
		Get(link)
	if err != nil {
		return nil, &FetchError{URL: link, Err: err}
	}
	if !res.IsSuccess() {
		return nil, &FetchError{
			URL:        link,
			StatusCode: res.StatusCode(),
			Err:        fmt.Errorf("unexpected status %s", res.Status()),
		}
	}
	return res.Body(), nil
}

// DumpTo writes every page response to `out` as it comes in.
func (f *Fetcher) DumpTo(out restyutil.Output) {
	restyutil.Dump(f.http, out)
}
