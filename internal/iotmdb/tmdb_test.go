package iotmdb_test

import (
	"net/http"
	"testing"

	"github.com/filmograph/filmdb/internal/iotesting"
	"github.com/filmograph/filmdb/internal/iotmdb"
	"github.com/filmograph/filmdb/pkg/config"
	"github.com/filmograph/filmdb/pkg/errcode"
	"github.com/filmograph/filmdb/pkg/provider"
	"github.com/filmograph/filmdb/pkg/schema"
	"github.com/jarcoal/httpmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const base = "https://api.themoviedb.org/3"

func newClient(t *testing.T, key string) *iotmdb.Client {
	httpmock.Activate()
	t.Cleanup(httpmock.DeactivateAndReset)
	cfg := config.New().Providers
	cfg.TMDB.APIKey = key
	return iotmdb.New(cfg)
}

func TestNotConfigured(t *testing.T) {
	c := newClient(t, "")

	_, err := c.SearchByTitle(t.Context(), "Oldboy", 1)
	assert.Equal(t, errcode.ProviderNotConfiguredError, errcode.Code(err))
	assert.True(t, errcode.IsUpstream(err))

	_, err = c.Detail(t.Context(), 670)
	assert.Equal(t, errcode.ProviderNotConfiguredError, errcode.Code(err))

	_, err = c.Images(t.Context(), 670)
	assert.Equal(t, errcode.ProviderNotConfiguredError, errcode.Code(err))

	assert.Zero(t, httpmock.GetTotalCallCount())
}

func TestSearchByTitle(t *testing.T) {
	c := newClient(t, "key")
	httpmock.RegisterResponder("GET", base+"/search/movie",
		func(req *http.Request) (*http.Response, error) {
			q := req.URL.Query()
			assert.Equal(t, "key", q.Get("api_key"))
			assert.Equal(t, "ko-KR", q.Get("language"))
			assert.Equal(t, "Oldboy", q.Get("query"))
			assert.Equal(t, "1", q.Get("page"))
			return httpmock.NewStringResponse(200,
				iotesting.ReadFixture(t, "search.json")), nil
		})

	res, err := c.SearchByTitle(t.Context(), "Oldboy", 0)
	require.NoError(t, err)
	assert.Equal(t, 2, res.TotalPages)
	assert.Equal(t, 22, res.TotalResults)
	require.Len(t, res.Results, 2)

	r := res.Results[0]
	require.NotNil(t, r.ExternalID)
	assert.Equal(t, int64(670), *r.ExternalID)
	assert.Equal(t, "올드보이", r.Title)
	assert.Equal(t, 2003, r.Year())
	assert.Equal(t,
		"https://image.tmdb.org/t/p/w500/pWDtjs568ZfOTMbURQBYuT4Qxka.jpg",
		r.PosterURL)
	assert.Empty(t, r.BackdropURL)
	assert.Empty(t, r.Genres)
	assert.Equal(t, iotmdb.Name, r.Source)

	r = res.Results[1]
	assert.Empty(t, r.ReleaseDate)
	assert.Zero(t, r.Year())
	assert.Empty(t, r.PosterURL)
	assert.Equal(t,
		"https://image.tmdb.org/t/p/original/tVvdfvXOv5U6R4t3wHlJQNhk3TX.jpg",
		r.BackdropURL)
}

func TestSearchUpstreamFailure(t *testing.T) {
	c := newClient(t, "key")
	httpmock.RegisterResponder("GET", base+"/search/movie",
		httpmock.NewStringResponder(503, "unavailable"))

	_, err := c.SearchByTitle(t.Context(), "Oldboy", 1)
	assert.Equal(t, errcode.UpstreamUnavailableError, errcode.Code(err))
}

func TestDetail(t *testing.T) {
	c := newClient(t, "key")
	httpmock.RegisterResponder("GET", base+"/movie/670",
		func(req *http.Request) (*http.Response, error) {
			assert.Equal(t, "credits,videos,watch/providers,release_dates",
				req.URL.Query().Get("append_to_response"))
			return httpmock.NewStringResponse(200,
				iotesting.ReadFixture(t, "detail.json")), nil
		})

	r, err := c.Detail(t.Context(), 670)
	require.NoError(t, err)
	assert.Equal(t, "올드보이", r.Title)
	assert.Equal(t, 120, r.RuntimeMinutes)
	assert.Equal(t, "KR", r.Country)
	assert.Equal(t, "18", r.AgeRating)
	assert.Equal(t, "박찬욱", r.Director)
	assert.Equal(t, []string{"드라마", "스릴러"}, r.Genres)

	require.Len(t, r.Cast, 2)
	assert.Equal(t, "오대수", r.Cast[0].Character)
	assert.Equal(t, "https://image.tmdb.org/t/p/w185/a.jpg", r.Cast[0].ProfileURL)
	assert.Empty(t, r.Cast[1].ProfileURL)
	assert.Len(t, r.Crew, 2)

	require.Len(t, r.WatchRegions, 2, "regions without offers are left out")
	kr := r.WatchRegions["KR"]
	require.Len(t, kr, 2, "blank provider names are skipped")
	assert.Equal(t, "Netflix", kr[0].ProviderName)
	assert.Equal(t, "8", kr[0].ProviderID)
	assert.Equal(t, schema.Subscription, kr[0].Kind)
	assert.Equal(t, "https://image.tmdb.org/t/p/w92/netflix.jpg", kr[0].LogoURL)
	assert.Equal(t,
		"https://www.themoviedb.org/movie/670/watch?locale=KR", kr[0].WebURL)
	assert.Equal(t, schema.Rent, kr[1].Kind)

	us := r.WatchRegions["US"]
	require.Len(t, us, 1)
	assert.Equal(t, schema.Buy, us[0].Kind)
	assert.Equal(t, "https://example.org/apple.png", us[0].LogoURL)
}

func TestDetailNotFound(t *testing.T) {
	c := newClient(t, "key")
	httpmock.RegisterResponder("GET", base+"/movie/1",
		httpmock.NewStringResponder(404,
			`{"status_code":34,"status_message":"not found"}`))

	_, err := c.Detail(t.Context(), 1)
	assert.Equal(t, errcode.NotFoundError, errcode.Code(err))
}

func TestImages(t *testing.T) {
	c := newClient(t, "key")
	body := `{"backdrops":[`
	for i := range 25 {
		if i > 0 {
			body += ","
		}
		body += `{"file_path":"/s.jpg"}`
	}
	body += `]}`
	httpmock.RegisterResponder("GET", base+"/movie/670/images",
		httpmock.NewStringResponder(200, body))

	res, err := c.Images(t.Context(), 670)
	require.NoError(t, err)
	assert.Len(t, res, 20)
	assert.Equal(t, "https://image.tmdb.org/t/p/w1280/s.jpg", res[0])
}

func TestList(t *testing.T) {
	tests := []struct {
		kind   provider.ListKind
		path   string
		region string
	}{
		{provider.Popular, "/movie/popular", ""},
		{provider.Trending, "/trending/movie/day", ""},
		{provider.TopRated, "/movie/top_rated", ""},
		{provider.NowPlaying, "/movie/now_playing", "KR"},
	}

	for _, v := range tests {
		t.Run(string(v.kind), func(t *testing.T) {
			c := newClient(t, "key")
			httpmock.RegisterResponder("GET", base+v.path,
				func(req *http.Request) (*http.Response, error) {
					assert.Equal(t, v.region, req.URL.Query().Get("region"))
					assert.Equal(t, "3", req.URL.Query().Get("page"))
					return httpmock.NewStringResponse(200,
						iotesting.ReadFixture(t, "search.json")), nil
				})
			res, err := c.List(t.Context(), v.kind, 3)
			require.NoError(t, err)
			assert.Len(t, res.Results, 2)
		})
	}

	c := newClient(t, "key")
	_, err := c.List(t.Context(), "upcoming", 1)
	assert.Equal(t, errcode.InvalidArgumentError, errcode.Code(err))
}

func TestRanking(t *testing.T) {
	c := newClient(t, "key")
	httpmock.RegisterResponder("GET", base+"/movie/popular",
		func(req *http.Request) (*http.Response, error) {
			assert.Equal(t, "en-US", req.URL.Query().Get("language"))
			assert.Equal(t, "US", req.URL.Query().Get("region"))
			return httpmock.NewStringResponse(200,
				iotesting.ReadFixture(t, "ranking.json")), nil
		})

	res, err := c.Ranking(t.Context(),
		provider.Feed{Kind: "popular", Language: "en-US", Region: "US"})
	require.NoError(t, err)
	require.Len(t, res, 3)
	assert.Equal(t, 1, res[0].Rank)
	assert.Equal(t, "First", res[0].Title)
	assert.Equal(t, "https://image.tmdb.org/t/p/w500/1.jpg", res[0].PosterURL)
	assert.Equal(t, "Second Show", res[1].Title)
	assert.Empty(t, res[1].PosterURL)
	assert.Equal(t, "Untitled", res[2].Title)
	assert.Equal(t, 3, res[2].Rank)
	require.NotNil(t, res[2].ExternalID)
	assert.Equal(t, int64(3), *res[2].ExternalID)
}
