// Package iokmdb is the client of the national film database (KMDB).
// Records of this provider have no external identity and are matched
// to the catalog by title only.
package iokmdb

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/filmograph/filmdb/internal/iohttp"
	"github.com/filmograph/filmdb/pkg/config"
	"github.com/filmograph/filmdb/pkg/provider"
)

// Name identifies the provider in records, logs and metrics.
const Name = "kmdb"

// Client talks to the KMDB search API.
type Client struct {
	http    *iohttp.Client
	apiKey  string
	baseURL string
}

// New creates a KMDB client from provider settings.
func New(cfg config.ProvidersConfig) *Client {
	return &Client{
		http:    iohttp.New(Name, cfg),
		apiKey:  cfg.KMDB.APIKey,
		baseURL: cfg.KMDB.BaseURL,
	}
}

// SearchByTitle returns movies matching text. When year is positive only
// movies released that year are returned.
func (k *Client) SearchByTitle(
	ctx context.Context,
	text string,
	year int,
) ([]provider.MovieRecord, error) {
	if strings.TrimSpace(k.apiKey) == "" {
		return nil, iohttp.NotConfiguredError(Name, "providers.kmdb.api_key")
	}

	q := url.Values{}
	q.Set("collection", "kmdb_new2")
	q.Set("detail", "Y")
	q.Set("ServiceKey", k.apiKey)
	q.Set("query", text)
	if year > 0 {
		q.Set("releaseDts", fmt.Sprintf("%04d0101", year))
		q.Set("releaseDte", fmt.Sprintf("%04d1231", year))
	}

	var env envelope
	if err := k.http.GetJSON(ctx, k.baseURL, q, &env); err != nil {
		return nil, err
	}

	items := env.Result
	if len(env.Data) > 0 && len(env.Data[0].Result) > 0 {
		items = env.Data[0].Result
	}

	res := make([]provider.MovieRecord, 0, len(items))
	for _, v := range items {
		r := v.toRecord()
		if r.Title == "" {
			continue
		}
		res = append(res, r)
	}
	return res, nil
}
