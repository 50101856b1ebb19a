// Package iosearch answers catalog searches. When a first page has few
// local matches it widens the catalog from the general movie database
// before answering.
package iosearch

import (
	"context"
	"log/slog"
	"strings"

	"github.com/filmograph/filmdb/internal/iocatalog"
	"github.com/filmograph/filmdb/internal/iometrics"
	"github.com/filmograph/filmdb/pkg/config"
	"github.com/filmograph/filmdb/pkg/provider"
	"github.com/filmograph/filmdb/pkg/schema"
)

// Reconciler resolves provider records to catalog movies.
type Reconciler interface {
	Reconcile(context.Context, provider.MovieRecord) (*schema.Movie, error)
}

// Searcher runs local searches with gap-fill.
type Searcher struct {
	store     *iocatalog.Store
	movies    provider.MovieSource
	rec       Reconciler
	threshold int
	maxPages  int
	maxNew    int
}

// New creates a Searcher.
func New(
	cfg config.SearchConfig,
	store *iocatalog.Store,
	movies provider.MovieSource,
	rec Reconciler,
) *Searcher {
	return &Searcher{
		store:     store,
		movies:    movies,
		rec:       rec,
		threshold: cfg.GapFillThreshold,
		maxPages:  cfg.GapFillPages,
		maxNew:    cfg.GapFillMax,
	}
}

// Search returns page number (0-based) of local matches. A first page of
// a non-blank query with fewer matches than the threshold triggers
// gap-fill and one more local search. Gap-fill failures only reach the
// log.
func (s *Searcher) Search(
	ctx context.Context,
	query string,
	f iocatalog.Filters,
	number, size int,
) (iocatalog.Page, error) {
	res, err := s.store.Search(ctx, query, f, number, size)
	if err != nil {
		return res, err
	}

	query = strings.TrimSpace(query)
	if number > 0 || query == "" || res.Total >= int64(s.threshold) {
		return res, nil
	}

	if s.gapFill(ctx, query, res.Items) == 0 {
		return res, nil
	}
	return s.store.Search(ctx, query, f, number, size)
}

// gapFill reconciles external matches of query that are not among local
// items. It returns the number of successful reconciliations.
func (s *Searcher) gapFill(
	ctx context.Context,
	query string,
	local []schema.Movie,
) int {
	titles := make(map[string]struct{}, len(local))
	ids := make(map[int64]struct{}, len(local))
	for _, m := range local {
		titles[m.Title] = struct{}{}
		if m.TMDBID != nil {
			ids[*m.TMDBID] = struct{}{}
		}
	}

	var candidates []provider.MovieRecord
	for page := 1; page <= s.maxPages; page++ {
		p, err := s.movies.SearchByTitle(ctx, query, page)
		if err != nil {
			slog.Warn("Gap-fill search failed",
				"query", query, "page", page, "error", err)
			break
		}
		candidates = append(candidates, p.Results...)
		if len(p.Results) == 0 || p.TotalPages <= page {
			break
		}
	}

	var res int
	for _, c := range candidates {
		if res >= s.maxNew || ctx.Err() != nil {
			break
		}
		if c.ExternalID == nil {
			continue
		}
		if _, ok := ids[*c.ExternalID]; ok {
			continue
		}
		if _, ok := titles[c.Title]; ok {
			continue
		}

		rec, err := s.movies.Detail(ctx, *c.ExternalID)
		if err != nil {
			slog.Warn("Gap-fill detail failed",
				"tmdb_id", *c.ExternalID, "error", err)
			continue
		}
		if _, err = s.rec.Reconcile(ctx, rec); err != nil {
			slog.Warn("Gap-fill reconcile failed",
				"tmdb_id", *c.ExternalID, "error", err)
			continue
		}
		ids[*c.ExternalID] = struct{}{}
		res++
	}

	outcome := "empty"
	if res > 0 {
		outcome = "filled"
	}
	iometrics.GapFillRuns.WithLabelValues(outcome).Inc()
	slog.Info("Gap-fill finished", "query", query,
		"candidates", len(candidates), "reconciled", res)
	return res
}
