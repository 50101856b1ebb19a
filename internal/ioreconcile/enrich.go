package ioreconcile

import (
	"cmp"
	"context"
	"log/slog"
	"slices"
	"strings"

	"github.com/filmograph/filmdb/internal/iometrics"
	"github.com/filmograph/filmdb/pkg/provider"
	"github.com/filmograph/filmdb/pkg/schema"
)

// movieFromRecord converts a record into an unsaved movie. Values the
// provider did not supply stay nil.
func movieFromRecord(rec provider.MovieRecord) *schema.Movie {
	res := &schema.Movie{
		TMDBID:        rec.ExternalID,
		Title:         strings.TrimSpace(rec.Title),
		OriginalTitle: text(rec.OriginalTitle),
		Overview:      text(rec.Overview),
		ReleaseDate:   text(rec.ReleaseDate),
		Country:       text(rec.Country),
		AgeRating:     text(rec.AgeRating),
		PosterURL:     text(rec.PosterURL),
		BackdropURL:   text(rec.BackdropURL),
		Director:      text(rec.Director),
	}
	if y := rec.Year(); y > 0 {
		res.ReleaseYear = &y
	}
	if rec.RuntimeMinutes > 0 {
		rt := rec.RuntimeMinutes
		res.RuntimeMinutes = &rt
	}
	return res
}

func text(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}

// enrich links genres, cast and offers of rec to a committed movie.
// Failures are logged and do not affect the reconciliation result.
func (e *Engine) enrich(
	ctx context.Context,
	m *schema.Movie,
	rec provider.MovieRecord,
) {
	steps := []struct {
		name string
		fn   func(context.Context, *schema.Movie, provider.MovieRecord) error
	}{
		{"genres", e.linkGenres},
		{"cast", e.linkCast},
		{"offers", e.linkOffers},
	}
	for _, s := range steps {
		if err := s.fn(ctx, m, rec); err != nil {
			iometrics.EnrichmentFailures.WithLabelValues(s.name).Inc()
			slog.Warn("Enrichment step failed",
				"step", s.name, "movie_id", m.ID, "title", m.Title,
				"error", err)
		}
	}
}

func (e *Engine) linkGenres(
	ctx context.Context,
	m *schema.Movie,
	rec provider.MovieRecord,
) error {
	for _, name := range rec.Genres {
		if name = strings.TrimSpace(name); name == "" {
			continue
		}
		g, err := e.store.FindOrCreateGenre(ctx, name)
		if err != nil {
			return err
		}
		if _, err = e.store.LinkGenre(ctx, m.ID, g.ID); err != nil {
			return err
		}
	}
	return nil
}

func (e *Engine) linkCast(
	ctx context.Context,
	m *schema.Movie,
	rec provider.MovieRecord,
) error {
	cast := slices.Clone(rec.Cast)
	slices.SortStableFunc(cast, func(a, b provider.Person) int {
		return cmp.Compare(a.Order, b.Order)
	})
	if e.castLimit > 0 && len(cast) > e.castLimit {
		cast = cast[:e.castLimit]
	}

	for _, p := range cast {
		name := strings.TrimSpace(p.Name)
		if name == "" {
			continue
		}
		a, err := e.store.FindOrCreateActor(ctx, name)
		if err != nil {
			return err
		}
		_, err = e.store.LinkActor(ctx, m.ID, a.ID,
			strings.TrimSpace(p.Character), p.Order)
		if err != nil {
			return err
		}
	}
	return nil
}

// linkOffers stores offers of the first configured region that has any.
func (e *Engine) linkOffers(
	ctx context.Context,
	m *schema.Movie,
	rec provider.MovieRecord,
) error {
	for _, region := range e.regions {
		offers := rec.WatchRegions[region]
		if len(offers) == 0 {
			continue
		}
		_, err := e.store.SaveOffers(ctx, m.ID, region, offers)
		return err
	}
	return nil
}
