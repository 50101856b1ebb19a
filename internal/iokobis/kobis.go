// Package iokobis is the client of the box-office registry (KOBIS).
package iokobis

import (
	"context"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/filmograph/filmdb/internal/iohttp"
	"github.com/filmograph/filmdb/pkg/config"
	"github.com/filmograph/filmdb/pkg/provider"
)

// Name identifies the provider in logs and metrics.
const Name = "kobis"

type dailyResult struct {
	BoxOfficeResult struct {
		ShowRange string `json:"showRange"`
		Daily     []struct {
			Rank     string `json:"rank"`
			MovieNm  string `json:"movieNm"`
			OpenDt   string `json:"openDt"`
			SalesAcc string `json:"salesAcc"`
			AudiAcc  string `json:"audiAcc"`
		} `json:"dailyBoxOfficeList"`
	} `json:"boxOfficeResult"`
}

// Client talks to the KOBIS open API.
type Client struct {
	http    *iohttp.Client
	apiKey  string
	baseURL string
}

// New creates a KOBIS client from provider settings.
func New(cfg config.ProvidersConfig) *Client {
	return &Client{
		http:    iohttp.New(Name, cfg),
		apiKey:  cfg.KOBIS.APIKey,
		baseURL: strings.TrimSuffix(cfg.KOBIS.BaseURL, "/"),
	}
}

// DailyTop10 returns the daily box office of the given date.
func (k *Client) DailyTop10(
	ctx context.Context,
	date time.Time,
) ([]provider.BoxOfficeEntry, error) {
	if strings.TrimSpace(k.apiKey) == "" {
		return nil, iohttp.NotConfiguredError(Name, "providers.kobis.api_key")
	}

	q := url.Values{}
	q.Set("key", k.apiKey)
	q.Set("targetDt", date.Format("20060102"))

	var res dailyResult
	u := k.baseURL + "/boxoffice/searchDailyBoxOfficeList.json"
	if err := k.http.GetJSON(ctx, u, q, &res); err != nil {
		return nil, err
	}

	list := res.BoxOfficeResult.Daily
	entries := make([]provider.BoxOfficeEntry, 0, len(list))
	for _, v := range list {
		rank, err := strconv.Atoi(strings.TrimSpace(v.Rank))
		if err != nil {
			continue
		}
		entries = append(entries, provider.BoxOfficeEntry{
			Rank:     rank,
			Title:    strings.TrimSpace(v.MovieNm),
			OpenDate: strings.TrimSpace(v.OpenDt),
			SalesAcc: parseAmount(v.SalesAcc),
			AudiAcc:  parseAmount(v.AudiAcc),
		})
	}
	return entries, nil
}

// parseAmount reads a decimal amount that may contain separators.
func parseAmount(s string) int64 {
	s = strings.ReplaceAll(strings.TrimSpace(s), ",", "")
	res, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0
	}
	return res
}
