package ioreconcile_test

import (
	"errors"
	"sync"
	"testing"

	"github.com/filmograph/filmdb/internal/iocatalog"
	"github.com/filmograph/filmdb/internal/ioreconcile"
	"github.com/filmograph/filmdb/internal/iotesting"
	"github.com/filmograph/filmdb/pkg/config"
	"github.com/filmograph/filmdb/pkg/errcode"
	"github.com/filmograph/filmdb/pkg/provider"
	"github.com/filmograph/filmdb/pkg/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type env struct {
	db      *gorm.DB
	engine  *ioreconcile.Engine
	store   *iocatalog.Store
	movies  *iotesting.FakeMovies
	archive *iotesting.FakeArchive
}

func newEnv(t *testing.T) env {
	gdb := iotesting.NewDB(t)
	store := iocatalog.New(gdb)
	movies := iotesting.NewFakeMovies()
	archive := &iotesting.FakeArchive{
		Records: make(map[string][]provider.MovieRecord),
	}
	return env{
		db:      gdb,
		engine:  ioreconcile.New(config.New(), store, movies, archive),
		store:   store,
		movies:  movies,
		archive: archive,
	}
}

func oldboyDetail() provider.MovieRecord {
	return provider.MovieRecord{
		ExternalID:     iotesting.Ptr(int64(7455)),
		Title:          "Oldboy",
		OriginalTitle:  "올드보이",
		ReleaseDate:    "2003-11-21",
		RuntimeMinutes: 120,
		Director:       "Someone Else",
		Genres:         []string{"Thriller", "Drama", " "},
		Cast: []provider.Person{
			{Name: "Yoo Ji-tae", Character: "Lee Woo-jin", Order: 1},
			{Name: "Choi Min-sik", Character: "Oh Dae-su", Order: 0},
		},
		WatchRegions: map[string][]provider.Offer{
			"US": {{ProviderName: "Apple TV", Kind: schema.Buy}},
			"FR": {{ProviderName: "Canal+", Kind: schema.Subscription}},
		},
		Source: "tmdb",
	}
}

func TestOldboyScenario(t *testing.T) {
	e := newEnv(t)
	ctx := t.Context()

	first, err := e.engine.Reconcile(ctx, provider.MovieRecord{
		Title:    "Oldboy",
		Director: "Park Chan-wook",
		Source:   "kmdb",
	})
	require.NoError(t, err)
	assert.Nil(t, first.TMDBID)
	require.NotNil(t, first.Director)
	assert.Equal(t, "Park Chan-wook", *first.Director)

	second, err := e.engine.Reconcile(ctx, oldboyDetail())
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID, "same entity is promoted")
	require.NotNil(t, second.TMDBID)
	assert.Equal(t, int64(7455), *second.TMDBID)

	// non-destructive merge
	assert.Equal(t, "Park Chan-wook", *second.Director)
	assert.Equal(t, "올드보이", *second.OriginalTitle)
	assert.Equal(t, 2003, *second.ReleaseYear)
	assert.Equal(t, 120, *second.RuntimeMinutes)

	count, err := e.store.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)

	genres, err := e.store.Genres(ctx, second.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"Drama", "Thriller"}, genres)

	cast, err := e.store.Cast(ctx, second.ID, 0)
	require.NoError(t, err)
	require.Len(t, cast, 2)
	assert.Equal(t, "Choi Min-sik", cast[0].Name)

	avail, err := e.store.Availability(ctx, second.ID, "")
	require.NoError(t, err)
	require.Len(t, avail, 1, "only the first configured region is stored")
	assert.Equal(t, "US", avail[0].Region)
	assert.Equal(t, "Apple TV", avail[0].ProviderName)
}

func TestIdempotence(t *testing.T) {
	e := newEnv(t)
	ctx := t.Context()

	rec := oldboyDetail()
	m1, err := e.engine.Reconcile(ctx, rec)
	require.NoError(t, err)

	rec.Director = "Changed"
	rec.Genres = append(rec.Genres, "Mystery")
	m2, err := e.engine.Reconcile(ctx, rec)
	require.NoError(t, err)
	assert.Equal(t, m1.ID, m2.ID)
	assert.Equal(t, "Someone Else", *m2.Director, "known identity is not rewritten")

	genres, err := e.store.Genres(ctx, m1.ID)
	require.NoError(t, err)
	assert.Len(t, genres, 2, "a hit writes nothing")

	count, err := e.store.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}

func TestIdentifiedRecordSkipsIdentifiedTitleMatch(t *testing.T) {
	e := newEnv(t)
	ctx := t.Context()

	m1, err := e.engine.Reconcile(ctx, oldboyDetail())
	require.NoError(t, err)

	remake := oldboyDetail()
	remake.ExternalID = iotesting.Ptr(int64(87516))
	remake.ReleaseDate = "2013-11-27"
	m2, err := e.engine.Reconcile(ctx, remake)
	require.NoError(t, err)
	assert.NotEqual(t, m1.ID, m2.ID)
	assert.Equal(t, int64(87516), *m2.TMDBID)
	assert.Equal(t, 2013, *m2.ReleaseYear)
}

func TestRecordWithoutIdentityMatchesIdentifiedTitle(t *testing.T) {
	e := newEnv(t)
	ctx := t.Context()

	m1, err := e.engine.Reconcile(ctx, oldboyDetail())
	require.NoError(t, err)

	m2, err := e.engine.Reconcile(ctx, provider.MovieRecord{
		Title: "Oldboy", AgeRating: "18", Source: "kmdb",
	})
	require.NoError(t, err)
	assert.Equal(t, m1.ID, m2.ID)
	assert.Equal(t, "18", *m2.AgeRating)
}

func TestNormalizedTitleCollision(t *testing.T) {
	e := newEnv(t)
	ctx := t.Context()

	m1, err := e.engine.Reconcile(ctx, provider.MovieRecord{Title: "The Host"})
	require.NoError(t, err)

	// exact match fails, creation hits the orphan title key
	m2, err := e.engine.Reconcile(ctx, provider.MovieRecord{
		Title: "the host", Overview: "A monster.",
	})
	require.NoError(t, err)
	assert.Equal(t, m1.ID, m2.ID)
	assert.Equal(t, "The Host", m2.Title)
	assert.Equal(t, "A monster.", *m2.Overview)
}

func TestBlankTitle(t *testing.T) {
	e := newEnv(t)
	_, err := e.engine.Reconcile(t.Context(), provider.MovieRecord{Title: "  "})
	assert.Equal(t, errcode.InvalidArgumentError, errcode.Code(err))
}

func TestReconcileQuery(t *testing.T) {
	t.Run("blank text", func(t *testing.T) {
		e := newEnv(t)
		_, err := e.engine.ReconcileQuery(t.Context(), " ")
		assert.Equal(t, errcode.InvalidArgumentError, errcode.Code(err))
		assert.Empty(t, e.movies.SearchCalls)
	})

	t.Run("upstream failure", func(t *testing.T) {
		e := newEnv(t)
		e.movies.Err = errors.New("boom")
		_, err := e.engine.ReconcileQuery(t.Context(), "Oldboy")
		assert.Equal(t, errcode.UpstreamUnavailableError, errcode.Code(err))
	})

	t.Run("no results", func(t *testing.T) {
		e := newEnv(t)
		_, err := e.engine.ReconcileQuery(t.Context(), "nothing")
		assert.Equal(t, errcode.NotFoundError, errcode.Code(err))
	})

	t.Run("first hit detail", func(t *testing.T) {
		e := newEnv(t)
		e.movies.AddMovie("Oldboy", 1, oldboyDetail())
		m, err := e.engine.ReconcileQuery(t.Context(), " Oldboy ")
		require.NoError(t, err)
		assert.Equal(t, int64(7455), *m.TMDBID)
		assert.Equal(t, []int64{7455}, e.movies.DetailCalls)
	})
}

func TestReconcileArchive(t *testing.T) {
	e := newEnv(t)
	ctx := t.Context()

	_, err := e.engine.ReconcileArchive(ctx, "괴물", 2006)
	assert.Equal(t, errcode.NotFoundError, errcode.Code(err))

	e.archive.Records["괴물"] = []provider.MovieRecord{
		{Title: "괴물", Director: "봉준호", Source: "kmdb"},
	}
	m, err := e.engine.ReconcileArchive(ctx, "괴물", 2006)
	require.NoError(t, err)
	assert.Nil(t, m.TMDBID)
	assert.Equal(t, "봉준호", *m.Director)

	e.archive.Err = errors.New("down")
	_, err = e.engine.ReconcileArchive(ctx, "괴물", 0)
	assert.True(t, errcode.IsUpstream(err))
}

func TestEnrichmentFailureKeepsMovie(t *testing.T) {
	e := newEnv(t)
	ctx := t.Context()
	require.NoError(t, e.db.Migrator().DropTable(&schema.MovieGenre{}))

	m, err := e.engine.Reconcile(ctx, oldboyDetail())
	require.NoError(t, err)
	require.NotNil(t, m)
	assert.NotZero(t, m.ID)

	cast, err := e.store.Cast(ctx, m.ID, 0)
	require.NoError(t, err)
	assert.Len(t, cast, 2, "later steps still run")

	avail, err := e.store.Availability(ctx, m.ID, "")
	require.NoError(t, err)
	assert.Len(t, avail, 1)
}

func TestConcurrentReconcile(t *testing.T) {
	e := newEnv(t)
	ctx := t.Context()

	errs := make([]error, 8)
	ids := make([]uint, 8)
	var wg sync.WaitGroup
	for i := range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			rec := oldboyDetail()
			if i%2 == 1 {
				rec.ExternalID = nil
				rec.Source = "kmdb"
			}
			m, err := e.engine.Reconcile(ctx, rec)
			errs[i] = err
			if m != nil {
				ids[i] = m.ID
			}
		}()
	}
	wg.Wait()

	for i := range 8 {
		require.NoError(t, errs[i])
		assert.Equal(t, ids[0], ids[i])
	}
	count, err := e.store.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)

	m, err := e.store.Get(ctx, ids[0])
	require.NoError(t, err)
	require.NotNil(t, m.TMDBID)
	assert.Equal(t, int64(7455), *m.TMDBID)
}
