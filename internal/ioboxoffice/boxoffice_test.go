package ioboxoffice_test

import (
	"errors"
	"testing"
	"time"

	"github.com/filmograph/filmdb/internal/ioboxoffice"
	"github.com/filmograph/filmdb/internal/iocatalog"
	"github.com/filmograph/filmdb/internal/iotesting"
	"github.com/filmograph/filmdb/pkg/provider"
	"github.com/filmograph/filmdb/pkg/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDaily(t *testing.T) {
	ctx := t.Context()
	store := iocatalog.New(iotesting.NewDB(t))
	movies := iotesting.NewFakeMovies()

	exact := &schema.Movie{Title: "파묘", PosterURL: iotesting.Ptr("https://img/exhuma.jpg")}
	searched := &schema.Movie{Title: "Inside Out 2 (2024)"}
	cleaned := &schema.Movie{Title: "베테랑 2"}
	for _, m := range []*schema.Movie{exact, searched, cleaned} {
		require.NoError(t, store.Create(ctx, m))
	}
	movies.AddMovie("Inside Out 2", 1, provider.MovieRecord{
		ExternalID: iotesting.Ptr(int64(1022789)),
		Title:      "Inside Out 2",
		PosterURL:  "https://tmdb/w500/io2.jpg",
	})
	movies.AddMovie("Unknown Film", 1, provider.MovieRecord{
		ExternalID: iotesting.Ptr(int64(1)),
		Title:      "Unknown Film",
		PosterURL:  "https://tmdb/w500/unknown.jpg",
	})

	chart := &iotesting.FakeBoxOffice{Entries: []provider.BoxOfficeEntry{
		{Rank: 1, Title: "파묘", AudiAcc: 11000000},
		{Rank: 2, Title: "Inside Out 2"},
		{Rank: 3, Title: "베테랑 2 (IMAX)"},
		{Rank: 4, Title: "Unknown Film"},
		{Rank: 5, Title: "Nobody Knows"},
	}}

	s := ioboxoffice.New(store, chart, movies, time.UTC)
	day := time.Date(2024, 9, 15, 0, 0, 0, 0, time.UTC)
	res, err := s.Daily(ctx, day)
	require.NoError(t, err)
	require.Len(t, res, 5)
	assert.Equal(t, day, chart.Date)

	assert.Equal(t, exact.ID, *res[0].MovieID)
	assert.Equal(t, "https://img/exhuma.jpg", res[0].PosterURL)
	assert.Equal(t, int64(11000000), res[0].AudiAcc)

	// found by search, poster filled from the movie database
	assert.Equal(t, searched.ID, *res[1].MovieID)
	assert.Equal(t, "https://tmdb/w500/io2.jpg", res[1].PosterURL)
	stored, err := store.Get(ctx, searched.ID)
	require.NoError(t, err)
	assert.Equal(t, "https://tmdb/w500/io2.jpg", *stored.PosterURL)

	assert.Equal(t, cleaned.ID, *res[2].MovieID)
	assert.Empty(t, res[2].PosterURL)

	assert.Nil(t, res[3].MovieID)
	assert.Equal(t, "https://tmdb/w500/unknown.jpg", res[3].PosterURL)

	assert.Nil(t, res[4].MovieID)
	assert.Empty(t, res[4].PosterURL)
}

func TestDailyFailures(t *testing.T) {
	ctx := t.Context()
	store := iocatalog.New(iotesting.NewDB(t))
	movies := iotesting.NewFakeMovies()
	movies.Err = errors.New("down")

	chart := &iotesting.FakeBoxOffice{Entries: []provider.BoxOfficeEntry{
		{Rank: 1, Title: "Film"},
	}}
	s := ioboxoffice.New(store, chart, movies, nil)

	res, err := s.Daily(ctx, time.Now())
	require.NoError(t, err, "poster lookup failure is not an error")
	require.Len(t, res, 1)
	assert.Empty(t, res[0].PosterURL)

	chart.Err = errors.New("chart down")
	_, err = s.Daily(ctx, time.Now())
	assert.Equal(t, chart.Err, err)
}

func TestYesterday(t *testing.T) {
	loc := time.FixedZone("KST", 9*60*60)
	chart := &iotesting.FakeBoxOffice{}
	s := ioboxoffice.New(iocatalog.New(iotesting.NewDB(t)), chart, nil, loc)

	res, err := s.Yesterday(t.Context())
	require.NoError(t, err)
	assert.Empty(t, res)

	want := time.Now().In(loc).AddDate(0, 0, -1).Format(time.DateOnly)
	assert.Equal(t, want, chart.Date.Format(time.DateOnly))
	assert.Equal(t, loc, chart.Date.Location())
}
