// Package ioreconcile merges provider records into the catalog. Each
// record resolves to exactly one movie: by external identity, then by
// exact title, then by creating a new movie. Existing attributes are
// never overwritten.
package ioreconcile

import (
	"context"
	"hash/fnv"
	"log/slog"
	"strings"
	"sync"

	"github.com/filmograph/filmdb/internal/iocatalog"
	"github.com/filmograph/filmdb/internal/iometrics"
	"github.com/filmograph/filmdb/pkg/config"
	"github.com/filmograph/filmdb/pkg/errcode"
	"github.com/filmograph/filmdb/pkg/provider"
	"github.com/filmograph/filmdb/pkg/schema"
)

// Outcome tells how a record was resolved.
type Outcome string

const (
	// Hit means the external identity was already known. Nothing is
	// written.
	Hit Outcome = "hit"
	// Promoted means an existing movie matched by title and received
	// the record's identity and missing attributes.
	Promoted Outcome = "promoted"
	// Created means a new movie was inserted.
	Created Outcome = "created"
	// Conflict means a concurrent writer created the movie first.
	Conflict Outcome = "conflict"
)

// Engine reconciles provider records with the catalog.
type Engine struct {
	store     *iocatalog.Store
	movies    provider.MovieSource
	archive   provider.ArchiveSource
	regions   []string
	castLimit int

	// titleLocks serialize title resolution of records with the same
	// title key inside this process.
	titleLocks [64]sync.Mutex
}

// New creates an Engine. The archive source may be nil when the national
// film database is not used.
func New(
	cfg *config.Config,
	store *iocatalog.Store,
	movies provider.MovieSource,
	archive provider.ArchiveSource,
) *Engine {
	return &Engine{
		store:     store,
		movies:    movies,
		archive:   archive,
		regions:   cfg.Reconcile.WatchRegions,
		castLimit: cfg.Reconcile.CastLimit,
	}
}

// Store returns the catalog store of the engine.
func (e *Engine) Store() *iocatalog.Store {
	return e.store
}

// Reconcile resolves a provider record to a catalog movie.
func (e *Engine) Reconcile(
	ctx context.Context,
	rec provider.MovieRecord,
) (*schema.Movie, error) {
	m, _, err := e.reconcile(ctx, rec)
	return m, err
}

func (e *Engine) reconcile(
	ctx context.Context,
	rec provider.MovieRecord,
) (*schema.Movie, Outcome, error) {
	if rec.ExternalID != nil {
		m, err := e.store.FindByExternalID(ctx, *rec.ExternalID)
		if err != nil {
			return nil, "", err
		}
		if m != nil {
			iometrics.ReconcileOutcomes.WithLabelValues(string(Hit)).Inc()
			return m, Hit, nil
		}
	}

	rec.Title = strings.TrimSpace(rec.Title)
	if rec.Title == "" {
		return nil, "", BlankTitleError(rec.Source)
	}

	m, outcome, err := e.resolve(ctx, rec)
	if err != nil {
		return nil, "", err
	}

	e.enrich(ctx, m, rec)
	iometrics.ReconcileOutcomes.WithLabelValues(string(outcome)).Inc()
	return m, outcome, nil
}

// resolve promotes the movie with the record title or creates a new one.
func (e *Engine) resolve(
	ctx context.Context,
	rec provider.MovieRecord,
) (*schema.Movie, Outcome, error) {
	unlock := e.lockTitle(rec.Title)
	defer unlock()

	m, err := e.store.FindByTitle(ctx, rec.Title)
	if err != nil {
		return nil, "", err
	}
	// a record with identity only claims a movie that has none
	if m != nil && (rec.ExternalID == nil || m.TMDBID == nil) {
		m, err = e.merge(ctx, m, rec)
		if err != nil {
			return nil, "", err
		}
		return m, Promoted, nil
	}

	outcome := Created
	m = movieFromRecord(rec)
	err = e.store.Create(ctx, m)
	if errcode.Is(err, errcode.ConflictError) {
		outcome = Conflict
		m, err = e.reread(ctx, rec)
		if err == nil {
			m, err = e.merge(ctx, m, rec)
		}
	}
	if err != nil {
		return nil, "", err
	}
	return m, outcome, nil
}

// lockTitle locks the stripe of the title key and returns its unlock.
func (e *Engine) lockTitle(title string) func() {
	h := fnv.New32a()
	_, _ = h.Write([]byte(schema.TitleKey(title)))
	mu := &e.titleLocks[h.Sum32()%uint32(len(e.titleLocks))]
	mu.Lock()
	return mu.Unlock
}

// merge attaches the record identity when the movie has none and fills
// missing attributes. It returns the stored state of the movie.
func (e *Engine) merge(
	ctx context.Context,
	m *schema.Movie,
	rec provider.MovieRecord,
) (*schema.Movie, error) {
	if rec.ExternalID != nil && m.TMDBID == nil {
		_, err := e.store.AttachExternalID(ctx, m.ID, *rec.ExternalID)
		if errcode.Is(err, errcode.ConflictError) {
			// another movie received this identity meanwhile
			other, rerr := e.store.FindByExternalID(ctx, *rec.ExternalID)
			if rerr != nil {
				return nil, rerr
			}
			if other != nil {
				m = other
				err = nil
			}
		}
		if err != nil {
			return nil, err
		}
	}

	if _, err := e.store.FillNulls(ctx, m.ID, movieFromRecord(rec)); err != nil {
		return nil, err
	}
	return e.store.Get(ctx, m.ID)
}

// reread finds the movie that won a create race against rec.
func (e *Engine) reread(
	ctx context.Context,
	rec provider.MovieRecord,
) (*schema.Movie, error) {
	if rec.ExternalID != nil {
		m, err := e.store.FindByExternalID(ctx, *rec.ExternalID)
		if m != nil || err != nil {
			return m, err
		}
	}
	m, err := e.store.FindByTitleKey(ctx, rec.Title)
	if m != nil || err != nil {
		return m, err
	}
	m, err = e.store.FindByTitle(ctx, rec.Title)
	if m != nil || err != nil {
		return m, err
	}
	slog.Warn("Conflicting movie disappeared", "title", rec.Title)
	return nil, iocatalog.ConflictError("movie", errVanished)
}

// ReconcileQuery finds a movie by text at the general movie database and
// reconciles the detail of its best match.
func (e *Engine) ReconcileQuery(
	ctx context.Context,
	text string,
) (*schema.Movie, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, BlankQueryError()
	}

	page, err := e.movies.SearchByTitle(ctx, text, 1)
	if err != nil {
		return nil, UpstreamError("tmdb", err)
	}
	if len(page.Results) == 0 || page.Results[0].ExternalID == nil {
		return nil, NoMatchError("tmdb", text)
	}

	rec, err := e.movies.Detail(ctx, *page.Results[0].ExternalID)
	if err != nil {
		return nil, UpstreamError("tmdb", err)
	}
	return e.Reconcile(ctx, rec)
}

// ReconcileArchive finds a movie by text (and year when positive) at the
// national film database and reconciles its best match.
func (e *Engine) ReconcileArchive(
	ctx context.Context,
	text string,
	year int,
) (*schema.Movie, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, BlankQueryError()
	}
	if e.archive == nil {
		return nil, UpstreamError("kmdb", errNoArchive)
	}

	recs, err := e.archive.SearchByTitle(ctx, text, year)
	if err != nil {
		return nil, UpstreamError("kmdb", err)
	}
	if len(recs) == 0 {
		return nil, NoMatchError("kmdb", text)
	}
	return e.Reconcile(ctx, recs[0])
}
