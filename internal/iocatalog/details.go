package iocatalog

import (
	"context"

	"github.com/filmograph/filmdb/pkg/schema"
)

// Availability is an OTT link with its provider.
type Availability struct {
	ProviderID   uint
	ProviderName string
	Type         string
	LogoURL      string
	Region       string
	LinkURL      string
}

// CastMember is an actor linked to a movie.
type CastMember struct {
	Name          string
	CharacterName *string
	CastOrder     int
}

// Availability returns the OTT links of a movie. A blank region returns
// links of all regions.
func (s *Store) Availability(
	ctx context.Context,
	movieID uint,
	region string,
) ([]Availability, error) {
	var res []Availability
	q := s.db.WithContext(ctx).Table("movie_otts mo").
		Select(`p.id AS provider_id, p.name AS provider_name, p.type AS type,
 p.logo_url AS logo_url, mo.region AS region, mo.link_url AS link_url`).
		Joins("JOIN ott_providers p ON p.id = mo.provider_id").
		Where("mo.movie_id = ?", movieID)
	if region != "" {
		q = q.Where("mo.region = ?", region)
	}
	err := q.Order("mo.region, p.name").Scan(&res).Error
	if err != nil {
		return nil, QueryError("availability", err)
	}
	return res, nil
}

// Genres returns the genre names of a movie in name order.
func (s *Store) Genres(ctx context.Context, movieID uint) ([]string, error) {
	var res []string
	err := s.db.WithContext(ctx).Model(&schema.Genre{}).
		Joins("JOIN movie_genres mg ON mg.genre_id = genres.id").
		Where("mg.movie_id = ?", movieID).
		Order("genres.name").
		Pluck("genres.name", &res).Error
	if err != nil {
		return nil, QueryError("genres", err)
	}
	return res, nil
}

// Cast returns the linked actors of a movie in billing order.
func (s *Store) Cast(
	ctx context.Context,
	movieID uint,
	limit int,
) ([]CastMember, error) {
	var res []CastMember
	q := s.db.WithContext(ctx).Table("movie_actors ma").
		Select("a.name AS name, ma.character_name, ma.cast_order").
		Joins("JOIN actors a ON a.id = ma.actor_id").
		Where("ma.movie_id = ?", movieID).
		Order("ma.cast_order, a.name")
	if limit > 0 {
		q = q.Limit(limit)
	}
	if err := q.Scan(&res).Error; err != nil {
		return nil, QueryError("cast", err)
	}
	return res, nil
}
