package tmdb

import (
	"fmt"
)

// MovieRecord is one row of an exported page.
type MovieRecord struct {
	Title  string
	Rating string
	Genres []string
	Cast   []string
}

// PageResult holds the records of one listing page in listing order.
type PageResult struct {
	Page    int
	Records []MovieRecord
}

// BuildPage pairs every listing entry with the details fetched for it.
func BuildPage(page int, entries []ListingEntry, details []Details) (PageResult, error) {
	if len(entries) != len(details) {
		return PageResult{}, fmt.Errorf(
			"%w: page %d has %d entries but %d details",
			ErrMisaligned, page, len(entries), len(details),
		)
	}

	records := make([]MovieRecord, len(entries))
	for i, e := range entries {
		records[i] = MovieRecord{
			Title:  e.Title,
			Rating: e.Rating,
			Genres: details[i].Genres,
			Cast:   details[i].Cast,
		}
	}
	return PageResult{Page: page, Records: records}, nil
}
