package tmdb

import (
	"fmt"
	"strconv"
	"strings"
	"tmdb-scraper/pkg/htmlutil"
)

const (
	// NullValue stands in for a field whose html element could not be found.
	NullValue = "NaN"
	// NotRated is the rating shown for movies with a score of exactly zero.
	NotRated = "not rated"
)

const (
	selectResults    htmlutil.Selector = "section#media_results"
	selectCard       htmlutil.Selector = "div.card.style_1"
	selectTitle      htmlutil.Selector = "h2"
	selectTitleLink  htmlutil.Selector = "h2 a"
	selectScoreChart htmlutil.Selector = "div.user_score_chart"
	selectCredits    htmlutil.Selector = "ol.people.credits"
	selectCreditName htmlutil.Selector = "div.info a"
	selectGenres     htmlutil.Selector = "span.genres"
	selectGenreName  htmlutil.Selector = "a"
)

// ListingEntry is one movie card of a listing page.
type ListingEntry struct {
	Title  string
	Rating string
	// Link is relative to the website root, without its leading "/".
	Link string
}

// ParseListing extracts every movie card inside the results section of a
// listing page, in page order. Pages without a results section have no entries.
func ParseListing(body []byte) ([]ListingEntry, error) {
	doc, err := htmlutil.Parse(body)
	if err != nil {
		return nil, fmt.Errorf("parse listing: %w", err)
	}

	var entries []ListingEntry
	doc.Find(selectResults).Find(selectCard).Each(func(_ int, card htmlutil.Nodes) {
		entries = append(entries, parseCard(card))
	})
	return entries, nil
}

func parseCard(card htmlutil.Nodes) ListingEntry {
	entry := ListingEntry{
		Title:  NullValue,
		Rating: NullValue,
		Link:   NullValue,
	}

	title := card.Find(selectTitle).First()
	if title.Exists() {
		entry.Title = title.Text()
	}

	percent, ok := card.Find(selectScoreChart).First().Attr("data-percent")
	if ok {
		entry.Rating = FormatRating(percent)
	}

	href, ok := card.Find(selectTitleLink).First().Attr("href")
	if ok && href != "" {
		entry.Link = strings.TrimPrefix(href, "/")
	}

	return entry
}

// FormatRating renders a score percentage with two decimals, exactly zero
// is rendered as NotRated and unparseable values as NullValue.
func FormatRating(percent string) string {
	p, err := strconv.ParseFloat(strings.TrimSpace(percent), 64)
	if err != nil {
		return NullValue
	}
	if p == 0 {
		return NotRated
	}
	return strconv.FormatFloat(p, 'f', 2, 64)
}

// ParseCast returns the names linked inside the credits list of a cast page,
// crew included. ok is false when the page has no credits list.
func ParseCast(body []byte) (names []string, ok bool) {
	doc, err := htmlutil.Parse(body)
	if err != nil {
		return nil, false
	}
	credits := doc.Find(selectCredits)
	if !credits.Exists() {
		return nil, false
	}
	return credits.Find(selectCreditName).Texts(), true
}

// ParseGenres returns the genre names of a movie page. ok is false when the
// page has no genres element.
func ParseGenres(body []byte) (genres []string, ok bool) {
	doc, err := htmlutil.Parse(body)
	if err != nil {
		return nil, false
	}
	span := doc.Find(selectGenres).First()
	if !span.Exists() {
		return nil, false
	}
	return span.Find(selectGenreName).Texts(), true
}
