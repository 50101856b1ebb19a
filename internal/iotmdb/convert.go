package iotmdb

import (
	"strconv"
	"strings"
	"time"

	"github.com/filmograph/filmdb/pkg/provider"
	"github.com/filmograph/filmdb/pkg/schema"
)

const (
	posterSize   = "w500"
	backdropSize = "original"
	stillSize    = "w1280"
	logoSize     = "w92"
	profileSize  = "w185"
)

// imageURL builds an absolute image URL from a provider path.
// Absolute URLs are kept as they are.
func (t *Client) imageURL(path *string, size string) string {
	if path == nil || *path == "" {
		return ""
	}
	p := *path
	if strings.HasPrefix(p, "http") {
		return p
	}
	if !strings.HasPrefix(p, "/") {
		p = "/" + p
	}
	return t.imageBase + "/" + size + p
}

// releaseDate returns the date when it is a valid ISO date.
func releaseDate(s string) string {
	if _, err := time.Parse(time.DateOnly, s); err != nil {
		return ""
	}
	return s
}

func (t *Client) resultToRecord(r result) provider.MovieRecord {
	id := r.ID
	return provider.MovieRecord{
		ExternalID:    &id,
		Title:         title(r),
		OriginalTitle: r.OriginalTitle,
		Overview:      r.Overview,
		ReleaseDate:   releaseDate(r.ReleaseDate),
		PosterURL:     t.imageURL(r.PosterPath, posterSize),
		BackdropURL:   t.imageURL(r.BackdropPath, backdropSize),
		Source:        Name,
	}
}

func title(r result) string {
	switch {
	case r.Title != nil && *r.Title != "":
		return *r.Title
	case r.Name != nil && *r.Name != "":
		return *r.Name
	default:
		return "Untitled"
	}
}

func (t *Client) detailToRecord(d detail) provider.MovieRecord {
	id := d.ID
	res := provider.MovieRecord{
		ExternalID:    &id,
		Title:         d.Title,
		OriginalTitle: d.OriginalTitle,
		Overview:      d.Overview,
		ReleaseDate:   releaseDate(d.ReleaseDate),
		PosterURL:     t.imageURL(d.PosterPath, posterSize),
		BackdropURL:   t.imageURL(d.BackdropPath, backdropSize),
		Director:      director(d.Credits.Crew),
		AgeRating:     certification(d, "KR"),
		Source:        Name,
	}
	if d.Runtime != nil {
		res.RuntimeMinutes = *d.Runtime
	}
	if len(d.ProductionCountries) > 0 {
		res.Country = d.ProductionCountries[0].ISO
	}
	for _, g := range d.Genres {
		if g.Name != "" {
			res.Genres = append(res.Genres, g.Name)
		}
	}
	for _, c := range d.Credits.Cast {
		res.Cast = append(res.Cast, provider.Person{
			Name:       c.Name,
			Character:  c.Character,
			Order:      c.Order,
			ProfileURL: t.imageURL(c.ProfilePath, profileSize),
		})
	}
	for _, c := range d.Credits.Crew {
		res.Crew = append(res.Crew, provider.Person{
			Name:       c.Name,
			Job:        c.Job,
			Department: c.Department,
			ProfileURL: t.imageURL(c.ProfilePath, profileSize),
		})
	}
	res.WatchRegions = t.watchRegions(d.WatchProviders.Results)
	return res
}

func director(crew []crewMember) string {
	for _, c := range crew {
		if c.Job == "Director" {
			return c.Name
		}
	}
	for _, c := range crew {
		if c.KnownForDepartment == "Directing" || c.Department == "Directing" {
			return c.Name
		}
	}
	return ""
}

func certification(d detail, region string) string {
	for _, r := range d.ReleaseDates.Results {
		if r.ISO != region {
			continue
		}
		for _, rd := range r.ReleaseDates {
			if rd.Certification != "" {
				return rd.Certification
			}
		}
	}
	return ""
}

// watchRegions converts offers per region. A region without offers
// is left out.
func (t *Client) watchRegions(
	all map[string]watchRegion,
) map[string][]provider.Offer {
	res := make(map[string][]provider.Offer)
	for region, wr := range all {
		var offers []provider.Offer
		add := func(ps []watchProvider, kind string) {
			for _, p := range ps {
				if strings.TrimSpace(p.ProviderName) == "" {
					continue
				}
				offers = append(offers, provider.Offer{
					ProviderID:   strconv.FormatInt(p.ProviderID, 10),
					ProviderName: p.ProviderName,
					Kind:         kind,
					WebURL:       wr.Link,
					LogoURL:      t.imageURL(p.LogoPath, logoSize),
				})
			}
		}
		add(wr.Flatrate, schema.Subscription)
		add(wr.Rent, schema.Rent)
		add(wr.Buy, schema.Buy)
		if len(offers) > 0 {
			res[region] = offers
		}
	}
	return res
}
