package tmdb

import (
	"context"
	"encoding/json"
	"fmt"
	"path"
	"strings"
	"time"
	"tmdb-scraper/internal/components/assert"
	"tmdb-scraper/internal/components/telemetry"
	"unicode"

	"github.com/go-resty/resty/v2"
)

const (
	report_api_credits = "api.credits"
	report_api_details = "api.details"
)

const actingDepartment = "Acting"

type apiPerson struct {
	OriginalName       string `json:"original_name"`
	KnownForDepartment string `json:"known_for_department"`
}

type apiCredits struct {
	Cast []apiPerson `json:"cast"`
	Crew []apiPerson `json:"crew"`
}

type apiGenre struct {
	Id   int    `json:"id"`
	Name string `json:"name"`
}

type apiDetails struct {
	Genres []apiGenre `json:"genres"`
}

// APIClient queries the JSON API, it is only used when scraping a page fails.
type APIClient struct {
	base string
	http *resty.Client
	tel  telemetry.API
}

func NewAPIClient(base, token string, timeout time.Duration, tel telemetry.API) *APIClient {
	assert.NotEmptyStr(base)
	assert.NotNil(tel)

	httpClient := resty.New()
	httpClient.SetTimeout(timeout)
	httpClient.SetHeader("accept", "application/json")
	if token != "" {
		httpClient.SetAuthToken(token)
	}
	telemetry.InstrumentResty(httpClient, tel)

	return &APIClient{
		base: strings.TrimSuffix(base, "/"),
		http: httpClient,
		tel:  tel,
	}
}

// MovieID derives the API movie id from a relative movie link: the leading
// digits of its last path segment ("movie/100-some-title" -> "100").
func MovieID(link string) string {
	segment := path.Base(strings.Trim(link, "/"))
	end := strings.IndexFunc(segment, func(r rune) bool {
		return !unicode.IsDigit(r)
	})
	if end > 0 {
		return segment[:end]
	}
	return segment
}

func (c *APIClient) get(ctx context.Context, endpoint string, out any) error {
	res, err := c.http.R().
		SetContext(ctx).
		SetQueryParam("language", "en-US").
		Get(endpoint)
	if err != nil {
		return fmt.Errorf("%w: fetch %s: %w", ErrAPI, endpoint, err)
	}
	if !res.IsSuccess() {
		return fmt.Errorf("%w: fetch %s: http %d", ErrAPI, endpoint, res.StatusCode())
	}
	err = json.Unmarshal(res.Body(), out)
	if err != nil {
		return fmt.Errorf("%w: unmarshal %s: %w", ErrAPI, endpoint, err)
	}
	return nil
}

// ActingCredits returns the original names of everyone credited on the movie
// whose known-for department is acting, cast first, then crew.
func (c *APIClient) ActingCredits(ctx context.Context, movieId string) ([]string, error) {
	endpoint := fmt.Sprintf("%s/%s/credits", c.base, movieId)
	c.tel.ReportDebug(report_api_credits, endpoint)

	var credits apiCredits
	err := c.get(ctx, endpoint, &credits)
	if err != nil {
		return nil, err
	}

	names := []string{}
	for _, person := range append(credits.Cast, credits.Crew...) {
		if person.KnownForDepartment == actingDepartment {
			names = append(names, person.OriginalName)
		}
	}
	return names, nil
}

// Genres returns the genre names of the movie.
func (c *APIClient) Genres(ctx context.Context, movieId string) ([]string, error) {
	endpoint := fmt.Sprintf("%s/%s", c.base, movieId)
	c.tel.ReportDebug(report_api_details, endpoint)

	var details apiDetails
	err := c.get(ctx, endpoint, &details)
	if err != nil {
		return nil, err
	}

	genres := make([]string, len(details.Genres))
	for i, g := range details.Genres {
		genres[i] = g.Name
	}
	return genres, nil
}
