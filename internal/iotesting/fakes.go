package iotesting

import (
	"context"
	"sync"
	"time"

	"github.com/filmograph/filmdb/pkg/provider"
)

// FakeMovies is an in-memory general movie database. Search pages are
// keyed by query text and page number, details by external id.
type FakeMovies struct {
	mu      sync.Mutex
	Pages   map[string]map[int]provider.SearchPage
	Lists   map[provider.ListKind]map[int]provider.SearchPage
	Details map[int64]provider.MovieRecord
	Stills  map[int64][]string
	Ranked  map[string][]provider.RankedItem

	// Err is returned by every call when set.
	Err error

	SearchCalls []string
	DetailCalls []int64
	RankCalls   int
}

// NewFakeMovies returns an empty FakeMovies.
func NewFakeMovies() *FakeMovies {
	return &FakeMovies{
		Pages:   make(map[string]map[int]provider.SearchPage),
		Lists:   make(map[provider.ListKind]map[int]provider.SearchPage),
		Details: make(map[int64]provider.MovieRecord),
		Stills:  make(map[int64][]string),
		Ranked:  make(map[string][]provider.RankedItem),
	}
}

// AddMovie registers a detail record and a search page with that record
// for the given query.
func (f *FakeMovies) AddMovie(query string, page int, rec provider.MovieRecord) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if rec.ExternalID != nil {
		f.Details[*rec.ExternalID] = rec
	}
	if f.Pages[query] == nil {
		f.Pages[query] = make(map[int]provider.SearchPage)
	}
	p := f.Pages[query][page]
	p.Page = page
	p.Results = append(p.Results, rec)
	p.TotalResults++
	p.TotalPages = max(p.TotalPages, page)
	f.Pages[query][page] = p
}

// SetTotalPages sets the reported page count of every page of query.
func (f *FakeMovies) SetTotalPages(query string, total int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for k, p := range f.Pages[query] {
		p.TotalPages = total
		f.Pages[query][k] = p
	}
}

func (f *FakeMovies) SearchByTitle(
	_ context.Context,
	text string,
	page int,
) (provider.SearchPage, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.SearchCalls = append(f.SearchCalls, text)
	if f.Err != nil {
		return provider.SearchPage{}, f.Err
	}
	res, ok := f.Pages[text][page]
	if !ok {
		return provider.SearchPage{Page: page}, nil
	}
	return res, nil
}

func (f *FakeMovies) Detail(
	_ context.Context,
	id int64,
) (provider.MovieRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.DetailCalls = append(f.DetailCalls, id)
	if f.Err != nil {
		return provider.MovieRecord{}, f.Err
	}
	res, ok := f.Details[id]
	if !ok {
		return provider.MovieRecord{}, context.DeadlineExceeded
	}
	return res, nil
}

func (f *FakeMovies) List(
	_ context.Context,
	kind provider.ListKind,
	page int,
) (provider.SearchPage, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.Err != nil {
		return provider.SearchPage{}, f.Err
	}
	return f.Lists[kind][page], nil
}

func (f *FakeMovies) Images(_ context.Context, id int64) ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.Err != nil {
		return nil, f.Err
	}
	return f.Stills[id], nil
}

func (f *FakeMovies) Ranking(
	_ context.Context,
	feed provider.Feed,
) ([]provider.RankedItem, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.RankCalls++
	if f.Err != nil {
		return nil, f.Err
	}
	return f.Ranked[feed.Kind+"/"+feed.Region], nil
}

// FakeArchive is an in-memory national film database.
type FakeArchive struct {
	Records map[string][]provider.MovieRecord
	Err     error
}

func (f *FakeArchive) SearchByTitle(
	_ context.Context,
	text string,
	_ int,
) ([]provider.MovieRecord, error) {
	if f.Err != nil {
		return nil, f.Err
	}
	return f.Records[text], nil
}

// FakeOffers is an in-memory availability graph.
type FakeOffers struct {
	ByTitle map[string][]provider.Offer
	Err     error
	Calls   int
}

func (f *FakeOffers) Offers(
	_ context.Context,
	title, _ string,
) ([]provider.Offer, error) {
	f.Calls++
	if f.Err != nil {
		return nil, f.Err
	}
	return f.ByTitle[title], nil
}

// FakeBoxOffice returns a fixed chart.
type FakeBoxOffice struct {
	Entries []provider.BoxOfficeEntry
	Err     error
	Date    time.Time
}

func (f *FakeBoxOffice) DailyTop10(
	_ context.Context,
	date time.Time,
) ([]provider.BoxOfficeEntry, error) {
	f.Date = date
	if f.Err != nil {
		return nil, f.Err
	}
	return f.Entries, nil
}

// Ptr returns a pointer to v.
func Ptr[T any](v T) *T {
	return &v
}
