// Package provider declares provider-native records and the contracts of
// external sources: the general movie database, the national film
// database, the box-office registry, the streaming-availability graph.
// Implementations live in internal/io* packages and carry no business
// logic.
package provider

import (
	"context"
	"time"
)

// ListKind selects a curated list of the general movie database.
type ListKind string

const (
	Popular    ListKind = "popular"
	Trending   ListKind = "trending"
	TopRated   ListKind = "top_rated"
	NowPlaying ListKind = "now_playing"
)

// ListKinds returns all supported list kinds.
func ListKinds() []ListKind {
	return []ListKind{Popular, Trending, TopRated, NowPlaying}
}

// Person is a cast or crew member.
type Person struct {
	Name       string
	Character  string
	Job        string
	Department string
	Order      int
	ProfileURL string
}

// Offer is a way to watch a movie on a streaming provider.
type Offer struct {
	ProviderID   string
	ProviderName string
	// Kind is schema.Subscription, schema.Rent or schema.Buy.
	Kind    string
	WebURL  string
	LogoURL string
}

// MovieRecord is a movie as one provider sees it. Empty strings and
// zero numbers mean the provider did not supply the value.
type MovieRecord struct {
	// ExternalID is the identity assigned by the general movie database.
	// Records from the national film database have none.
	ExternalID *int64

	Title         string
	OriginalTitle string
	Overview      string

	// ReleaseDate is YYYY-MM-DD when known.
	ReleaseDate    string
	RuntimeMinutes int
	Country        string
	AgeRating      string
	PosterURL      string
	BackdropURL    string
	Director       string
	Genres         []string
	Cast           []Person
	Crew           []Person

	// WatchRegions maps a region code to its offers.
	WatchRegions map[string][]Offer

	// Source is the provider name, e.g. "tmdb" or "kmdb".
	Source string
}

// Year returns the release year parsed from ReleaseDate, 0 if unknown.
func (r MovieRecord) Year() int {
	if len(r.ReleaseDate) < 4 {
		return 0
	}
	var res int
	for _, c := range r.ReleaseDate[:4] {
		if c < '0' || c > '9' {
			return 0
		}
		res = res*10 + int(c-'0')
	}
	return res
}

// SearchPage is one page of provider results.
type SearchPage struct {
	Page         int
	TotalPages   int
	TotalResults int
	Results      []MovieRecord
}

// RankedItem is an entry of a provider ranked list.
type RankedItem struct {
	Rank       int
	Title      string
	PosterURL  string
	ExternalID *int64
}

// Feed describes a ranked list of one region.
type Feed struct {
	// Kind is "trending" or "popular".
	Kind     string
	Language string
	// Region is empty for worldwide lists.
	Region string
}

// BoxOfficeEntry is a row of a daily box-office chart.
type BoxOfficeEntry struct {
	Rank     int
	Title    string
	OpenDate string
	SalesAcc int64
	AudiAcc  int64
}

// MovieSource is the general movie database.
type MovieSource interface {
	// SearchByTitle returns one page (1-based) of title matches.
	SearchByTitle(ctx context.Context, text string, page int) (SearchPage, error)

	// Detail returns a record with credits and watch providers.
	Detail(ctx context.Context, externalID int64) (MovieRecord, error)
}

// ListSource gives curated lists of the general movie database.
type ListSource interface {
	List(ctx context.Context, kind ListKind, page int) (SearchPage, error)
}

// ImageSource gives stills of a movie.
type ImageSource interface {
	Images(ctx context.Context, externalID int64) ([]string, error)
}

// RankingSource gives provider-ordered ranked lists.
type RankingSource interface {
	Ranking(ctx context.Context, feed Feed) ([]RankedItem, error)
}

// ArchiveSource is the national film database.
type ArchiveSource interface {
	// SearchByTitle filters by release year when year > 0.
	SearchByTitle(ctx context.Context, text string, year int) ([]MovieRecord, error)
}

// BoxOfficeSource is the box-office registry.
type BoxOfficeSource interface {
	DailyTop10(ctx context.Context, date time.Time) ([]BoxOfficeEntry, error)
}

// OfferSource is the streaming-availability graph.
type OfferSource interface {
	Offers(ctx context.Context, title, country string) ([]Offer, error)
}
