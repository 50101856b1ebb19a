package iocatalog

import (
	"context"
	"errors"
	"strings"

	"github.com/filmograph/filmdb/internal/iodb"
	"github.com/filmograph/filmdb/pkg/provider"
	"github.com/filmograph/filmdb/pkg/schema"
	"gorm.io/gorm"
)

// findOrCreate returns the row matching where, creating it from val when
// absent. A concurrent creation is resolved by reading the winner.
func findOrCreate[T any](
	ctx context.Context,
	db *gorm.DB,
	entity string,
	val *T,
	where string,
	args ...any,
) (*T, error) {
	var res T
	db = db.WithContext(ctx)
	err := db.Where(where, args...).First(&res).Error
	if err == nil {
		return &res, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, QueryError("find "+entity, err)
	}

	err = db.Create(val).Error
	if err == nil {
		return val, nil
	}
	if !iodb.IsUniqueViolation(err) {
		return nil, WriteError("create "+entity, err)
	}
	if err = db.Where(where, args...).First(&res).Error; err != nil {
		return nil, QueryError("find "+entity, err)
	}
	return &res, nil
}

// link creates a link row unless one matching where exists. It returns
// true when the link was created by this call.
func link[T any](
	ctx context.Context,
	db *gorm.DB,
	entity string,
	val *T,
	where string,
	args ...any,
) (bool, error) {
	db = db.WithContext(ctx)
	var count int64
	err := db.Model(new(T)).Where(where, args...).Count(&count).Error
	if err != nil {
		return false, QueryError("find "+entity, err)
	}
	if count > 0 {
		return false, nil
	}

	err = db.Create(val).Error
	if iodb.IsUniqueViolation(err) {
		// someone else created the same link
		return false, nil
	}
	if err != nil {
		return false, WriteError("create "+entity, err)
	}
	return true, nil
}

// FindOrCreateGenre returns the genre with the given name.
func (s *Store) FindOrCreateGenre(
	ctx context.Context,
	name string,
) (*schema.Genre, error) {
	return findOrCreate(ctx, s.db, "genre",
		&schema.Genre{Name: name}, "name = ?", name)
}

// LinkGenre attaches a genre to a movie.
func (s *Store) LinkGenre(
	ctx context.Context,
	movieID, genreID uint,
) (bool, error) {
	return link(ctx, s.db, "movie genre", schema.NewMovieGenre(movieID, genreID),
		"movie_id = ? AND genre_id = ?", movieID, genreID)
}

// FindOrCreateActor returns the actor with the given name.
func (s *Store) FindOrCreateActor(
	ctx context.Context,
	name string,
) (*schema.Actor, error) {
	return findOrCreate(ctx, s.db, "actor",
		&schema.Actor{Name: name}, "name = ?", name)
}

// LinkActor attaches a cast member to a movie.
func (s *Store) LinkActor(
	ctx context.Context,
	movieID, actorID uint,
	character string,
	order int,
) (bool, error) {
	return link(ctx, s.db, "movie actor",
		schema.NewMovieActor(movieID, actorID, character, order),
		"movie_id = ? AND actor_id = ?", movieID, actorID)
}

// FindOrCreateProvider returns the OTT provider with the given name.
// Kind and logo are only used when the provider is new.
func (s *Store) FindOrCreateProvider(
	ctx context.Context,
	name, kind, logo string,
) (*schema.OTTProvider, error) {
	val := &schema.OTTProvider{Name: name, Type: kind, LogoURL: logo}
	return findOrCreate(ctx, s.db, "ott provider", val, "name = ?", name)
}

// LinkOTT makes a movie available on a provider in a region. An existing
// link keeps its URL.
func (s *Store) LinkOTT(
	ctx context.Context,
	movieID, providerID uint,
	region, linkURL string,
) (bool, error) {
	return link(ctx, s.db, "movie ott",
		schema.NewMovieOTT(movieID, providerID, region, linkURL),
		"movie_id = ? AND provider_id = ? AND region = ?",
		movieID, providerID, region)
}

// SaveOffers links a movie to the providers of offers in region. New
// provider names create providers, existing links keep their URL. It
// returns the number of links created.
func (s *Store) SaveOffers(
	ctx context.Context,
	movieID uint,
	region string,
	offers []provider.Offer,
) (int, error) {
	var res int
	for _, o := range offers {
		name := strings.TrimSpace(o.ProviderName)
		if name == "" {
			continue
		}
		p, err := s.FindOrCreateProvider(ctx, name, o.Kind, o.LogoURL)
		if err != nil {
			return res, err
		}
		ok, err := s.LinkOTT(ctx, movieID, p.ID, region, o.WebURL)
		if err != nil {
			return res, err
		}
		if ok {
			res++
		}
	}
	return res, nil
}
