// Package iotmdb is the client of the general movie database (TMDB).
// It converts provider payloads into provider.MovieRecord values and
// contains no catalog logic.
package iotmdb

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/filmograph/filmdb/internal/iohttp"
	"github.com/filmograph/filmdb/pkg/config"
	"github.com/filmograph/filmdb/pkg/errcode"
	"github.com/filmograph/filmdb/pkg/provider"
	"github.com/gnames/gn"
)

// Name identifies the provider in records, logs and metrics.
const Name = "tmdb"

// maxStills is the number of stills returned by Images.
const maxStills = 20

// Client talks to the TMDB v3 API.
type Client struct {
	http      *iohttp.Client
	apiKey    string
	baseURL   string
	imageBase string
	language  string
}

// New creates a TMDB client from provider settings.
func New(cfg config.ProvidersConfig) *Client {
	return &Client{
		http:      iohttp.New(Name, cfg),
		apiKey:    cfg.TMDB.APIKey,
		baseURL:   strings.TrimSuffix(cfg.TMDB.BaseURL, "/"),
		imageBase: strings.TrimSuffix(cfg.TMDB.ImageBaseURL, "/"),
		language:  cfg.TMDB.Language,
	}
}

// SearchByTitle returns one page (1-based) of movies matching text.
// Search results carry no credits, genres or offers.
func (t *Client) SearchByTitle(
	ctx context.Context,
	text string,
	page int,
) (provider.SearchPage, error) {
	q := t.query(t.language)
	q.Set("query", text)
	q.Set("include_adult", "false")
	q.Set("page", strconv.Itoa(max(page, 1)))
	return t.page(ctx, "/search/movie", q)
}

// Detail returns a movie with credits, release dates and watch providers.
func (t *Client) Detail(
	ctx context.Context,
	externalID int64,
) (provider.MovieRecord, error) {
	if err := t.configured(); err != nil {
		return provider.MovieRecord{}, err
	}
	q := t.query(t.language)
	q.Set("append_to_response",
		"credits,videos,watch/providers,release_dates")

	var d detail
	path := fmt.Sprintf("/movie/%d", externalID)
	if err := t.http.GetJSON(ctx, t.baseURL+path, q, &d); err != nil {
		return provider.MovieRecord{}, err
	}
	return t.detailToRecord(d), nil
}

// Images returns up to 20 still URLs of a movie.
func (t *Client) Images(
	ctx context.Context,
	externalID int64,
) ([]string, error) {
	if err := t.configured(); err != nil {
		return nil, err
	}
	q := t.query("")
	var imgs images
	path := fmt.Sprintf("/movie/%d/images", externalID)
	if err := t.http.GetJSON(ctx, t.baseURL+path, q, &imgs); err != nil {
		return nil, err
	}

	res := make([]string, 0, min(len(imgs.Backdrops), maxStills))
	for _, b := range imgs.Backdrops {
		if len(res) == maxStills {
			break
		}
		if u := t.imageURL(&b.FilePath, stillSize); u != "" {
			res = append(res, u)
		}
	}
	return res, nil
}

// List returns a page of a curated list.
func (t *Client) List(
	ctx context.Context,
	kind provider.ListKind,
	page int,
) (provider.SearchPage, error) {
	q := t.query(t.language)
	q.Set("page", strconv.Itoa(max(page, 1)))

	var path string
	switch kind {
	case provider.Popular:
		path = "/movie/popular"
	case provider.Trending:
		path = "/trending/movie/day"
	case provider.TopRated:
		path = "/movie/top_rated"
	case provider.NowPlaying:
		path = "/movie/now_playing"
		q.Set("region", "KR")
	default:
		return provider.SearchPage{}, unknownListError(string(kind))
	}
	return t.page(ctx, path, q)
}

// Ranking returns the first page of a ranked feed in provider order.
func (t *Client) Ranking(
	ctx context.Context,
	feed provider.Feed,
) ([]provider.RankedItem, error) {
	q := t.query(feed.Language)
	if feed.Region != "" {
		q.Set("region", feed.Region)
	}

	var path string
	switch feed.Kind {
	case "trending":
		path = "/trending/movie/day"
	case "popular":
		path = "/movie/popular"
	default:
		return nil, unknownListError(feed.Kind)
	}

	p, err := t.page(ctx, path, q)
	if err != nil {
		return nil, err
	}
	res := make([]provider.RankedItem, len(p.Results))
	for i, r := range p.Results {
		res[i] = provider.RankedItem{
			Rank:       i + 1,
			Title:      r.Title,
			PosterURL:  r.PosterURL,
			ExternalID: r.ExternalID,
		}
	}
	return res, nil
}

func (t *Client) page(
	ctx context.Context,
	path string,
	q url.Values,
) (provider.SearchPage, error) {
	if err := t.configured(); err != nil {
		return provider.SearchPage{}, err
	}
	var p page
	if err := t.http.GetJSON(ctx, t.baseURL+path, q, &p); err != nil {
		return provider.SearchPage{}, err
	}

	res := provider.SearchPage{
		Page:         p.Page,
		TotalPages:   p.TotalPages,
		TotalResults: p.TotalResults,
		Results:      make([]provider.MovieRecord, 0, len(p.Results)),
	}
	for _, r := range p.Results {
		res.Results = append(res.Results, t.resultToRecord(r))
	}
	return res, nil
}

func (t *Client) query(language string) url.Values {
	res := url.Values{}
	res.Set("api_key", t.apiKey)
	if language != "" {
		res.Set("language", language)
	}
	return res
}

func (t *Client) configured() error {
	if strings.TrimSpace(t.apiKey) == "" {
		return iohttp.NotConfiguredError(Name, "providers.tmdb.api_key")
	}
	return nil
}

func unknownListError(kind string) error {
	return &gn.Error{
		Code: errcode.InvalidArgumentError,
		Msg:  "Unknown movie list <em>%s</em>",
		Vars: []any{kind},
		Err:  fmt.Errorf("unknown list kind %q", kind),
	}
}
