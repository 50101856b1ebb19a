// Package ioboxoffice joins the daily box-office chart with the catalog.
package ioboxoffice

import (
	"context"
	"log/slog"
	"regexp"
	"strings"
	"time"

	"github.com/filmograph/filmdb/internal/iocatalog"
	"github.com/filmograph/filmdb/pkg/provider"
	"github.com/filmograph/filmdb/pkg/schema"
)

// Entry is a chart row with the matching catalog movie, if any.
type Entry struct {
	provider.BoxOfficeEntry

	// MovieID is nil when no catalog movie matches the title.
	MovieID   *uint
	PosterURL string
}

// Service builds box-office charts.
type Service struct {
	store  *iocatalog.Store
	chart  provider.BoxOfficeSource
	movies provider.MovieSource
	loc    *time.Location
}

// New creates a Service. Chart days are counted in loc.
func New(
	store *iocatalog.Store,
	chart provider.BoxOfficeSource,
	movies provider.MovieSource,
	loc *time.Location,
) *Service {
	if loc == nil {
		loc = time.UTC
	}
	return &Service{store: store, chart: chart, movies: movies, loc: loc}
}

// Yesterday returns the chart of the previous day.
func (s *Service) Yesterday(ctx context.Context) ([]Entry, error) {
	day := time.Now().In(s.loc).AddDate(0, 0, -1)
	return s.Daily(ctx, day)
}

// Daily returns the chart of day. Only a chart failure is an error;
// matching and poster lookup problems leave the fields empty.
func (s *Service) Daily(ctx context.Context, day time.Time) ([]Entry, error) {
	chart, err := s.chart.DailyTop10(ctx, day)
	if err != nil {
		return nil, err
	}

	res := make([]Entry, len(chart))
	for i, v := range chart {
		res[i] = s.entry(ctx, v)
	}
	return res, nil
}

func (s *Service) entry(ctx context.Context, v provider.BoxOfficeEntry) Entry {
	res := Entry{BoxOfficeEntry: v}
	title := strings.TrimSpace(v.Title)
	if title == "" {
		return res
	}

	m := s.match(ctx, title)
	if m != nil {
		res.MovieID = &m.ID
		if m.PosterURL != nil {
			res.PosterURL = strings.TrimSpace(*m.PosterURL)
		}
	}
	if res.PosterURL == "" {
		res.PosterURL = s.poster(ctx, title, m)
	}
	return res
}

var parens = regexp.MustCompile(`\(.*?\)`)

// match tries the exact title, a catalog search, then both again with
// parenthesised parts removed.
func (s *Service) match(ctx context.Context, title string) *schema.Movie {
	if m := s.lookup(ctx, title); m != nil {
		return m
	}
	cleaned := strings.Join(strings.Fields(parens.ReplaceAllString(title, "")), " ")
	if cleaned == "" || cleaned == title {
		return nil
	}
	return s.lookup(ctx, cleaned)
}

func (s *Service) lookup(ctx context.Context, title string) *schema.Movie {
	m, err := s.store.FindByTitle(ctx, title)
	if err != nil {
		slog.Warn("Box office title lookup failed", "title", title, "error", err)
		return nil
	}
	if m != nil {
		return m
	}

	page, err := s.store.Search(ctx, title, iocatalog.Filters{}, 0, 5)
	if err != nil {
		slog.Warn("Box office search failed", "title", title, "error", err)
		return nil
	}
	if len(page.Items) == 0 {
		return nil
	}
	return &page.Items[0]
}

// poster looks the title up in the general movie database. A found
// poster is stored for a matched movie that has none.
func (s *Service) poster(ctx context.Context, title string, m *schema.Movie) string {
	if s.movies == nil {
		return ""
	}
	page, err := s.movies.SearchByTitle(ctx, title, 1)
	if err != nil {
		slog.Warn("Box office poster lookup failed", "title", title, "error", err)
		return ""
	}
	if len(page.Results) == 0 {
		return ""
	}
	res := page.Results[0].PosterURL
	if res == "" || m == nil {
		return res
	}

	_, err = s.store.FillNulls(ctx, m.ID, &schema.Movie{PosterURL: &res})
	if err != nil {
		slog.Warn("Cannot store box office poster", "movie_id", m.ID, "error", err)
	}
	return res
}
