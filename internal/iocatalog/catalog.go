// Package iocatalog is the GORM access layer of the movie catalog.
// It performs no network calls. Writes never overwrite known values:
// attributes are only filled while they are NULL.
package iocatalog

import (
	"context"
	"errors"
	"time"

	"github.com/filmograph/filmdb/internal/iodb"
	"github.com/filmograph/filmdb/pkg/schema"
	"gorm.io/gorm"
)

// Store reads and writes catalog entities.
type Store struct {
	db *gorm.DB
}

// New creates a Store on an open GORM handle.
func New(db *gorm.DB) *Store {
	return &Store{db: db}
}

// Get returns a movie by its catalog id.
func (s *Store) Get(ctx context.Context, id uint) (*schema.Movie, error) {
	var res schema.Movie
	err := s.db.WithContext(ctx).First(&res, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, NotFoundError(id)
	}
	if err != nil {
		return nil, QueryError("get", err)
	}
	return &res, nil
}

// FindByExternalID returns the movie with the given TMDB id, or nil.
func (s *Store) FindByExternalID(
	ctx context.Context,
	ext int64,
) (*schema.Movie, error) {
	return s.first(ctx, "find by external id", "tmdb_id = ?", ext)
}

// FindByTitle returns a movie whose title equals title exactly (case
// sensitive), or nil. Movies without external identity come first.
func (s *Store) FindByTitle(
	ctx context.Context,
	title string,
) (*schema.Movie, error) {
	var res schema.Movie
	err := s.db.WithContext(ctx).
		Where("title = ?", title).
		Order("CASE WHEN tmdb_id IS NULL THEN 0 ELSE 1 END, id").
		First(&res).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, QueryError("find by title", err)
	}
	return &res, nil
}

// FindByTitleKey returns the movie without external identity whose
// normalized title equals the normalized title, or nil.
func (s *Store) FindByTitleKey(
	ctx context.Context,
	title string,
) (*schema.Movie, error) {
	return s.first(ctx, "find by title key",
		"title_key = ? AND tmdb_id IS NULL", schema.TitleKey(title))
}

func (s *Store) first(
	ctx context.Context,
	op, where string,
	args ...any,
) (*schema.Movie, error) {
	var res schema.Movie
	err := s.db.WithContext(ctx).Where(where, args...).First(&res).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, QueryError(op, err)
	}
	return &res, nil
}

// Create inserts a new movie. A unique violation is returned as a
// Conflict.
func (s *Store) Create(ctx context.Context, m *schema.Movie) error {
	err := s.db.WithContext(ctx).Create(m).Error
	if iodb.IsUniqueViolation(err) {
		return ConflictError("movie", err)
	}
	if err != nil {
		return WriteError("create movie", err)
	}
	return nil
}

// AttachExternalID sets the TMDB id of a movie that has none. It returns
// false when the movie already had an identity.
func (s *Store) AttachExternalID(
	ctx context.Context,
	id uint,
	ext int64,
) (bool, error) {
	res := s.db.WithContext(ctx).Model(&schema.Movie{}).
		Where("id = ? AND tmdb_id IS NULL", id).
		UpdateColumns(map[string]any{
			"tmdb_id":    ext,
			"updated_at": now(),
		})
	if iodb.IsUniqueViolation(res.Error) {
		return false, ConflictError("external id", res.Error)
	}
	if res.Error != nil {
		return false, WriteError("attach external id", res.Error)
	}
	return res.RowsAffected > 0, nil
}

// FillNulls copies the non-nil attributes of patch into the columns of
// the movie that are still NULL (or empty text). Known values are never
// replaced. It returns the number of columns filled.
func (s *Store) FillNulls(
	ctx context.Context,
	id uint,
	patch *schema.Movie,
) (int, error) {
	texts := []struct {
		col string
		val *string
	}{
		{"original_title", patch.OriginalTitle},
		{"overview", patch.Overview},
		{"release_date", patch.ReleaseDate},
		{"country", patch.Country},
		{"age_rating", patch.AgeRating},
		{"poster_url", patch.PosterURL},
		{"backdrop_url", patch.BackdropURL},
		{"director", patch.Director},
	}
	ints := []struct {
		col string
		val *int
	}{
		{"release_year", patch.ReleaseYear},
		{"runtime_minutes", patch.RuntimeMinutes},
	}

	var res int
	db := s.db.WithContext(ctx).Model(&schema.Movie{}).Session(&gorm.Session{})
	for _, v := range texts {
		if v.val == nil || *v.val == "" {
			continue
		}
		r := db.Where("id = ? AND ("+v.col+" IS NULL OR "+v.col+" = '')", id).
			UpdateColumn(v.col, *v.val)
		if r.Error != nil {
			return res, WriteError("fill "+v.col, r.Error)
		}
		res += int(r.RowsAffected)
	}
	for _, v := range ints {
		if v.val == nil {
			continue
		}
		r := db.Where("id = ? AND "+v.col+" IS NULL", id).
			UpdateColumn(v.col, *v.val)
		if r.Error != nil {
			return res, WriteError("fill "+v.col, r.Error)
		}
		res += int(r.RowsAffected)
	}

	if res > 0 {
		var m schema.Movie
		if err := s.db.WithContext(ctx).First(&m, id).Error; err != nil {
			return res, QueryError("get movie", err)
		}
		err := db.Where("id = ?", id).UpdateColumns(map[string]any{
			"search_key": m.SearchText(),
			"updated_at": now(),
		}).Error
		if err != nil {
			return res, WriteError("touch movie", err)
		}
	}
	return res, nil
}

// ClearAll deletes all movies with their genre, cast and OTT links.
// Genres, actors, providers, rankings and weekly facts stay.
func (s *Store) ClearAll(ctx context.Context) (int64, error) {
	var res int64
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, table := range []string{
			"movie_otts", "movie_actors", "movie_genres",
		} {
			if err := tx.Exec("DELETE FROM " + table).Error; err != nil {
				return err
			}
		}
		r := tx.Exec("DELETE FROM movies")
		res = r.RowsAffected
		return r.Error
	})
	if err != nil {
		return 0, WriteError("clear", err)
	}
	return res, nil
}

// Count returns the number of movies in the catalog.
func (s *Store) Count(ctx context.Context) (int64, error) {
	var res int64
	err := s.db.WithContext(ctx).Model(&schema.Movie{}).Count(&res).Error
	if err != nil {
		return 0, QueryError("count", err)
	}
	return res, nil
}

func now() time.Time {
	return time.Now().UTC().Truncate(time.Microsecond)
}
