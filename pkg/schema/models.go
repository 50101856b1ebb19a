// Package schema provides database schema models for filmdb.
// Models are migrated with GORM AutoMigrate on PostgreSQL and SQLite.
//
// Nullable attributes are pointers: nil means "not known yet" and is the
// only state that a later reconciliation is allowed to fill.
package schema

import (
	"time"
)

// Movie is the canonical catalog entity.
type Movie struct {
	ID uint `gorm:"primaryKey"`

	// TMDBID is the external identity assigned by the general movie
	// database. At most one movie has a given TMDBID.
	TMDBID *int64 `gorm:"column:tmdb_id;uniqueIndex:idx_movies_tmdb_id"`

	// Title as received from the first provider that introduced the movie.
	Title string `gorm:"type:varchar(500);not null;index:idx_movies_title"`

	// TitleKey is a UUIDv5 of the normalized title. It is unique among
	// movies without TMDBID.
	TitleKey string `gorm:"type:varchar(36);not null;uniqueIndex:idx_movies_title_key_orphan,where:tmdb_id IS NULL"`

	OriginalTitle *string `gorm:"type:varchar(500)"`
	Overview      *string `gorm:"type:text"`

	// ReleaseDate is kept as YYYY-MM-DD text.
	ReleaseDate    *string `gorm:"type:varchar(20)"`
	ReleaseYear    *int
	RuntimeMinutes *int
	Country        *string `gorm:"type:varchar(10)"`
	AgeRating      *string `gorm:"type:varchar(20)"`
	PosterURL      *string `gorm:"column:poster_url;type:varchar(1000)"`
	BackdropURL    *string `gorm:"column:backdrop_url;type:varchar(1000)"`
	Director       *string `gorm:"type:varchar(200)"`

	// SearchKey holds squashed title, original title and director for
	// case- and whitespace-insensitive search.
	SearchKey string `gorm:"type:text;not null;default:''" json:"-"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Genre is a unique genre name. SearchKey is the squashed name.
type Genre struct {
	ID        uint   `gorm:"primaryKey"`
	Name      string `gorm:"type:varchar(100);not null;uniqueIndex:idx_genres_name"`
	SearchKey string `gorm:"type:varchar(100);not null;default:''" json:"-"`
}

// MovieGenre links a movie to a genre.
type MovieGenre struct {
	ID      uint   `gorm:"primaryKey"`
	MovieID uint   `gorm:"not null;uniqueIndex:idx_movie_genres_pair,priority:1"`
	GenreID uint   `gorm:"not null;uniqueIndex:idx_movie_genres_pair,priority:2;index"`
	Movie   *Movie `gorm:"constraint:OnDelete:CASCADE"`
	Genre   *Genre `gorm:"constraint:OnDelete:CASCADE"`
}

// NewMovieGenre creates a link between a movie and a genre.
func NewMovieGenre(movieID, genreID uint) *MovieGenre {
	return &MovieGenre{MovieID: movieID, GenreID: genreID}
}

// Actor is a unique cast member name.
type Actor struct {
	ID        uint   `gorm:"primaryKey"`
	Name      string `gorm:"type:varchar(200);not null;uniqueIndex:idx_actors_name"`
	SearchKey string `gorm:"type:varchar(200);not null;default:''" json:"-"`
}

// MovieActor links a movie to a cast member.
type MovieActor struct {
	ID            uint    `gorm:"primaryKey"`
	MovieID       uint    `gorm:"not null;uniqueIndex:idx_movie_actors_pair,priority:1"`
	ActorID       uint    `gorm:"not null;uniqueIndex:idx_movie_actors_pair,priority:2;index"`
	CharacterName *string `gorm:"type:varchar(300)"`
	CastOrder     int
	Movie         *Movie `gorm:"constraint:OnDelete:CASCADE"`
	Actor         *Actor `gorm:"constraint:OnDelete:CASCADE"`
}

// NewMovieActor creates a cast link. An empty character is stored as NULL.
func NewMovieActor(
	movieID, actorID uint,
	character string,
	order int,
) *MovieActor {
	res := &MovieActor{MovieID: movieID, ActorID: actorID, CastOrder: order}
	if character != "" {
		res.CharacterName = &character
	}
	return res
}

// Monetization kinds of an OTT provider.
const (
	Subscription = "SUBSCRIPTION"
	Rent         = "RENT"
	Buy          = "BUY"
)

// OTTProvider is a streaming service, created the first time its name
// is observed.
type OTTProvider struct {
	ID      uint   `gorm:"primaryKey"`
	Name    string `gorm:"type:varchar(100);not null;uniqueIndex:idx_ott_providers_name"`
	Type    string `gorm:"type:varchar(16);not null"`
	LogoURL string `gorm:"column:logo_url;type:text"`
}

func (OTTProvider) TableName() string {
	return "ott_providers"
}

// MovieOTT links a movie to a provider in one region.
type MovieOTT struct {
	ID         uint         `gorm:"primaryKey"`
	MovieID    uint         `gorm:"not null;uniqueIndex:idx_movie_otts_triple,priority:1"`
	ProviderID uint         `gorm:"not null;uniqueIndex:idx_movie_otts_triple,priority:2;index"`
	Region     string       `gorm:"type:varchar(8);not null;uniqueIndex:idx_movie_otts_triple,priority:3"`
	LinkURL    string       `gorm:"column:link_url;type:text"`
	Movie      *Movie       `gorm:"constraint:OnDelete:CASCADE"`
	Provider   *OTTProvider `gorm:"constraint:OnDelete:CASCADE"`
}

func (MovieOTT) TableName() string {
	return "movie_otts"
}

// NewMovieOTT creates an availability link.
func NewMovieOTT(movieID, providerID uint, region, link string) *MovieOTT {
	return &MovieOTT{
		MovieID:    movieID,
		ProviderID: providerID,
		Region:     region,
		LinkURL:    link,
	}
}

// RankingSnapshot is one immutable row of a ranked list observed for a
// region. Rows of one refresh share SnapshotAt and BatchID.
type RankingSnapshot struct {
	ID         uint      `gorm:"primaryKey"`
	Region     string    `gorm:"type:varchar(10);not null;index:idx_tmdb_items_region_snapshot,priority:1"`
	RankValue  int       `gorm:"not null"`
	Title      string    `gorm:"type:varchar(255);not null"`
	PosterURL  string    `gorm:"column:poster_url;type:varchar(500)"`
	TMDBID     *int64    `gorm:"column:tmdb_id"`
	SnapshotAt time.Time `gorm:"not null;index:idx_tmdb_items_region_snapshot,priority:2"`
	BatchID    string    `gorm:"type:varchar(36);not null;index"`
}

func (RankingSnapshot) TableName() string {
	return "tmdb_items"
}

// WeeklyRankFact is one row of the weekly top-10 spreadsheet.
// There is exactly one row per (WeekStart, Category, WeeklyRank).
type WeeklyRankFact struct {
	ID uint `gorm:"primaryKey"`

	// WeekStart is YYYY-MM-DD, so text order is date order.
	WeekStart      string  `gorm:"type:varchar(10);not null;uniqueIndex:idx_netflix_weekly_key,priority:1"`
	Category       string  `gorm:"type:varchar(40);not null;uniqueIndex:idx_netflix_weekly_key,priority:2"`
	WeeklyRank     int     `gorm:"not null;uniqueIndex:idx_netflix_weekly_key,priority:3"`
	ShowTitle      string  `gorm:"type:varchar(500);not null"`
	SeasonTitle    *string `gorm:"type:varchar(500)"`
	WeeklyViews    *int64
	WeeklyHours    *int64
	RuntimeMinutes *int

	CreatedAt time.Time
	UpdatedAt time.Time
}

func (WeeklyRankFact) TableName() string {
	return "netflix_weekly_rank"
}
