package tmdb

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"
)

const (
	DefaultBaseURL = "https://www.themoviedb.org/"
	DefaultAPIBase = "https://api.themoviedb.org/3/movie"

	DefaultListingTimeout  = 30 * time.Second
	DefaultDetailTimeout   = 120 * time.Second
	DefaultPolitenessDelay = time.Second
)

// DefaultPages are the listing pages scraped when nothing else is configured.
var DefaultPages = []int{1, 2, 3, 4, 5}

// Config is everything the scraper needs to know about the outside world.
type Config struct {
	// BaseURL is the website root, it must end with a "/" since relative
	// movie links are appended to it as-is.
	BaseURL string
	// APIBase is the JSON API movie endpoint, the movie id is appended after a "/".
	APIBase  string
	APIToken string

	Pages []int

	ListingTimeout  time.Duration
	DetailTimeout   time.Duration
	PolitenessDelay time.Duration

	// DumpDir, when set, receives a copy of every website exchange.
	DumpDir string
}

func DefaultConfig() Config {
	return Config{
		BaseURL:         DefaultBaseURL,
		APIBase:         DefaultAPIBase,
		Pages:           append([]int(nil), DefaultPages...),
		ListingTimeout:  DefaultListingTimeout,
		DetailTimeout:   DefaultDetailTimeout,
		PolitenessDelay: DefaultPolitenessDelay,
	}
}

func (c Config) Validate() error {
	for name, raw := range map[string]string{"base url": c.BaseURL, "api base": c.APIBase} {
		u, err := url.Parse(raw)
		if err != nil || u.Scheme == "" || u.Host == "" {
			return fmt.Errorf("invalid %s %q", name, raw)
		}
		if u.Scheme != "http" && u.Scheme != "https" {
			return fmt.Errorf("%s must be http(s): %q", name, raw)
		}
	}
	if !strings.HasSuffix(c.BaseURL, "/") {
		return fmt.Errorf("base url must end with '/': %q", c.BaseURL)
	}
	if len(c.Pages) == 0 {
		return fmt.Errorf("no pages to scrape")
	}
	for _, p := range c.Pages {
		if p < 1 {
			return fmt.Errorf("invalid page number %d", p)
		}
	}
	if c.ListingTimeout <= 0 || c.DetailTimeout <= 0 {
		return fmt.Errorf("timeouts must be positive")
	}
	if c.PolitenessDelay < 0 {
		return fmt.Errorf("politeness delay cannot be negative")
	}
	// the rate limiter gives up right away on a wait longer than the deadline
	shortest := min(c.ListingTimeout, c.DetailTimeout)
	if c.PolitenessDelay >= shortest {
		return fmt.Errorf("politeness delay %s must be shorter than the %s timeout", c.PolitenessDelay, shortest)
	}
	return nil
}

// ParsePageRange parses page selections like "1-5", "3" or "1,3,7-8" into
// an ordered list of page numbers.
func ParsePageRange(value string) ([]int, error) {
	var pages []int
	for _, part := range strings.Split(value, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}

		start, end, isRange := strings.Cut(part, "-")
		first, err := strconv.Atoi(strings.TrimSpace(start))
		if err != nil {
			return nil, fmt.Errorf("invalid page %q", part)
		}
		last := first
		if isRange {
			last, err = strconv.Atoi(strings.TrimSpace(end))
			if err != nil {
				return nil, fmt.Errorf("invalid page range %q", part)
			}
		}
		if first < 1 || last < first {
			return nil, fmt.Errorf("invalid page range %q", part)
		}
		for p := first; p <= last; p++ {
			pages = append(pages, p)
		}
	}
	if len(pages) == 0 {
		return nil, fmt.Errorf("empty page range %q", value)
	}
	return pages, nil
}
