// Package iodetail assembles the full view of a catalog movie.
package iodetail

import (
	"context"
	"log/slog"
	"strings"

	"github.com/filmograph/filmdb/internal/iocatalog"
	"github.com/filmograph/filmdb/pkg/provider"
	"github.com/filmograph/filmdb/pkg/schema"
)

// CastLimit is the number of cast members in a detail view.
const CastLimit = 10

// Detail is a catalog movie with its linked and live sections.
type Detail struct {
	Movie  schema.Movie
	Genres []string
	Cast   []iocatalog.CastMember
	Stills []string

	// Offers of the region, from the catalog or, when the catalog has
	// none, from the availability graph (Live is then true). Live offers
	// are stored in the catalog.
	Region string
	Offers []iocatalog.Availability
	Live   bool
}

// Service builds movie details.
type Service struct {
	store  *iocatalog.Store
	images provider.ImageSource
	offers provider.OfferSource
	region string
}

// New creates a detail Service. Region is the default offer region.
func New(
	store *iocatalog.Store,
	images provider.ImageSource,
	offers provider.OfferSource,
	region string,
) *Service {
	if region == "" {
		region = "KR"
	}
	return &Service{store: store, images: images, offers: offers, region: region}
}

// Get returns the detail of a movie. Only a missing or unreadable movie
// is an error, other sections are left empty when they fail.
func (s *Service) Get(ctx context.Context, id uint, region string) (*Detail, error) {
	m, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	region = strings.ToUpper(strings.TrimSpace(region))
	if region == "" {
		region = s.region
	}
	res := &Detail{Movie: *m, Region: region}

	if res.Genres, err = s.store.Genres(ctx, id); err != nil {
		slog.Warn("Cannot read genres", "movie_id", id, "error", err)
	}
	if res.Cast, err = s.store.Cast(ctx, id, CastLimit); err != nil {
		slog.Warn("Cannot read cast", "movie_id", id, "error", err)
	}
	res.Stills = s.stills(ctx, m)

	if res.Offers, err = s.store.Availability(ctx, id, region); err != nil {
		slog.Warn("Cannot read availability", "movie_id", id, "error", err)
	}
	if len(res.Offers) == 0 {
		res.Offers = s.live(ctx, m, region)
		res.Live = len(res.Offers) > 0
	}
	return res, nil
}

func (s *Service) stills(ctx context.Context, m *schema.Movie) []string {
	if s.images == nil || m.TMDBID == nil {
		return nil
	}
	res, err := s.images.Images(ctx, *m.TMDBID)
	if err != nil {
		slog.Warn("Cannot fetch stills", "tmdb_id", *m.TMDBID, "error", err)
		return nil
	}
	return res
}

// live fetches offers from the availability graph and stores them, so
// the next detail of the movie in region is served from the catalog.
func (s *Service) live(
	ctx context.Context,
	m *schema.Movie,
	region string,
) []iocatalog.Availability {
	if s.offers == nil {
		return nil
	}
	offers, err := s.offers.Offers(ctx, m.Title, region)
	if err != nil {
		slog.Warn("Cannot fetch live offers", "title", m.Title, "error", err)
		return nil
	}
	if len(offers) == 0 {
		return nil
	}

	n, err := s.store.SaveOffers(ctx, m.ID, region, offers)
	if err == nil {
		slog.Info("Live offers stored", "movie_id", m.ID,
			"region", region, "links", n)
		stored, err := s.store.Availability(ctx, m.ID, region)
		if err == nil && len(stored) > 0 {
			return stored
		}
	}
	if err != nil {
		slog.Warn("Cannot store live offers", "movie_id", m.ID, "error", err)
	}

	var res []iocatalog.Availability
	for _, v := range offers {
		res = append(res, iocatalog.Availability{
			ProviderName: v.ProviderName,
			Type:         v.Kind,
			LogoURL:      v.LogoURL,
			Region:       region,
			LinkURL:      v.WebURL,
		})
	}
	return res
}
