package iosearch_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/filmograph/filmdb/internal/iocatalog"
	"github.com/filmograph/filmdb/internal/ioreconcile"
	"github.com/filmograph/filmdb/internal/iosearch"
	"github.com/filmograph/filmdb/internal/iotesting"
	"github.com/filmograph/filmdb/pkg/config"
	"github.com/filmograph/filmdb/pkg/provider"
	"github.com/filmograph/filmdb/pkg/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type env struct {
	searcher *iosearch.Searcher
	store    *iocatalog.Store
	movies   *iotesting.FakeMovies
}

func newEnv(t *testing.T) env {
	cfg := config.New()
	store := iocatalog.New(iotesting.NewDB(t))
	movies := iotesting.NewFakeMovies()
	engine := ioreconcile.New(cfg, store, movies, nil)
	return env{
		searcher: iosearch.New(cfg.Search, store, movies, engine),
		store:    store,
		movies:   movies,
	}
}

func record(id int64, title string) provider.MovieRecord {
	return provider.MovieRecord{ExternalID: iotesting.Ptr(id), Title: title}
}

func TestGapFillBound(t *testing.T) {
	e := newEnv(t)
	query := "veryrareterm123"
	for page := 1; page <= 3; page++ {
		for i := range 8 {
			id := int64(page*100 + i)
			e.movies.AddMovie(query, page,
				record(id, fmt.Sprintf("%s %d", query, id)))
		}
	}
	e.movies.SetTotalPages(query, 5)

	res, err := e.searcher.Search(t.Context(), query, iocatalog.Filters{}, 0, 20)
	require.NoError(t, err)

	assert.Len(t, e.movies.SearchCalls, 2, "at most two external pages")
	assert.Len(t, e.movies.DetailCalls, 10)
	assert.Equal(t, int64(10), res.Total, "local search runs again")
	assert.Len(t, res.Items, 10)
}

func TestGapFillSkipsLocalMatches(t *testing.T) {
	e := newEnv(t)
	ctx := t.Context()

	require.NoError(t, e.store.Create(ctx, &schema.Movie{Title: "Mother"}))
	require.NoError(t, e.store.Create(ctx,
		&schema.Movie{Title: "Mother!", TMDBID: iotesting.Ptr(int64(2))}))

	e.movies.AddMovie("mother", 1, record(1, "Mother"))
	e.movies.AddMovie("mother", 1, record(2, "Mother! (2017)"))
	e.movies.AddMovie("mother", 1, record(3, "Mothers"))

	res, err := e.searcher.Search(ctx, "mother", iocatalog.Filters{}, 0, 20)
	require.NoError(t, err)
	assert.Equal(t, []int64{3}, e.movies.DetailCalls)
	assert.Equal(t, int64(3), res.Total)
}

func TestNoGapFill(t *testing.T) {
	tests := []struct {
		msg    string
		query  string
		number int
	}{
		{"blank query", "  ", 0},
		{"later page", "oldboy", 1},
	}

	for _, v := range tests {
		t.Run(v.msg, func(t *testing.T) {
			e := newEnv(t)
			e.movies.AddMovie("oldboy", 1, record(1, "Oldboy"))
			_, err := e.searcher.Search(t.Context(), v.query,
				iocatalog.Filters{}, v.number, 20)
			require.NoError(t, err)
			assert.Empty(t, e.movies.SearchCalls)
		})
	}

	t.Run("enough local matches", func(t *testing.T) {
		e := newEnv(t)
		for i := range 10 {
			require.NoError(t, e.store.Create(t.Context(),
				&schema.Movie{Title: fmt.Sprintf("Oldboy %d", i)}))
		}
		res, err := e.searcher.Search(t.Context(), "oldboy",
			iocatalog.Filters{}, 0, 5)
		require.NoError(t, err)
		assert.Equal(t, int64(10), res.Total)
		assert.Empty(t, e.movies.SearchCalls)
	})
}

func TestGapFillFailureIsSwallowed(t *testing.T) {
	e := newEnv(t)
	require.NoError(t, e.store.Create(t.Context(), &schema.Movie{Title: "Oldboy"}))
	e.movies.Err = errors.New("provider down")

	res, err := e.searcher.Search(t.Context(), "oldboy", iocatalog.Filters{}, 0, 20)
	require.NoError(t, err)
	assert.Equal(t, int64(1), res.Total)
	assert.Len(t, e.movies.SearchCalls, 1)
}

func TestGapFillSinglePage(t *testing.T) {
	e := newEnv(t)
	e.movies.AddMovie("host", 1, record(1, "The Host"))

	res, err := e.searcher.Search(t.Context(), "host", iocatalog.Filters{}, 0, 20)
	require.NoError(t, err)
	assert.Len(t, e.movies.SearchCalls, 1, "page 2 only when more pages exist")
	assert.Equal(t, int64(1), res.Total)
}
