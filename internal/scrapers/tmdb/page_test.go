package tmdb

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestBuildPage(t *testing.T) {
	entries := []ListingEntry{
		{Title: "Movie A", Rating: "87.00", Link: "movie/100-movie-a"},
		{Title: "Movie B", Rating: NotRated, Link: "movie/200-movie-b"},
	}
	details := []Details{
		{Cast: []string{"Jane Doe"}, Genres: []string{"Action"}},
		{Cast: CastPlaceholder(), Genres: GenrePlaceholder()},
	}

	page, err := BuildPage(3, entries, details)
	require.NoError(t, err)
	require.Equal(t, 3, page.Page)
	require.Equal(t, []MovieRecord{
		{Title: "Movie A", Rating: "87.00", Genres: []string{"Action"}, Cast: []string{"Jane Doe"}},
		{Title: "Movie B", Rating: NotRated, Genres: []string{"NaN"}, Cast: []string{"Nan"}},
	}, page.Records)

	_, err = BuildPage(3, entries, details[:1])
	require.True(t, errors.Is(err, ErrMisaligned))
}

func TestBuildEmptyPage(t *testing.T) {
	page, err := BuildPage(1, nil, nil)
	require.NoError(t, err)
	require.Empty(t, page.Records)
}
