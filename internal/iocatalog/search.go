package iocatalog

import (
	"context"
	"strings"

	"github.com/filmograph/filmdb/pkg/schema"
	"gorm.io/gorm"
)

// Sort orders of Search.
const (
	SortIDDesc    = "id_desc"
	SortIDAsc     = "id_asc"
	SortTitleAsc  = "title_asc"
	SortTitleDesc = "title_desc"
	SortYearAsc   = "year_asc"
	SortYearDesc  = "year_desc"
)

var sortClauses = map[string]string{
	SortIDDesc:    "id DESC",
	SortIDAsc:     "id ASC",
	SortTitleAsc:  "title ASC, id ASC",
	SortTitleDesc: "title DESC, id DESC",
	SortYearAsc:   "release_year ASC, id ASC",
	SortYearDesc:  "release_year DESC, id DESC",
}

// Filters narrow a catalog search.
type Filters struct {
	// YearFrom and YearTo bound the release year when positive.
	YearFrom int
	YearTo   int
	// Sort is one of the Sort* constants, SortIDDesc by default.
	Sort string
}

// Page is one page of search results. Number is 0-based.
type Page struct {
	Items  []schema.Movie
	Total  int64
	Number int
	Size   int
}

// Search finds movies whose title, original title, director, actor names
// or genre names contain query, ignoring case and whitespace. Matching
// uses the stored search keys, folded the same way as query. A blank
// query matches every movie.
func (s *Store) Search(
	ctx context.Context,
	query string,
	f Filters,
	number, size int,
) (Page, error) {
	number = max(number, 0)
	if size <= 0 {
		size = 20
	}
	res := Page{Number: number, Size: size}

	q := s.db.WithContext(ctx).Model(&schema.Movie{})
	if needle := schema.Squash(query); needle != "" {
		q = q.Where(`(movies.search_key LIKE @p ESCAPE '\'
 OR EXISTS (SELECT 1 FROM movie_actors ma JOIN actors a ON a.id = ma.actor_id
   WHERE ma.movie_id = movies.id AND a.search_key LIKE @p ESCAPE '\')
 OR EXISTS (SELECT 1 FROM movie_genres mg JOIN genres g ON g.id = mg.genre_id
   WHERE mg.movie_id = movies.id AND g.search_key LIKE @p ESCAPE '\'))`,
			map[string]any{"p": "%" + escapeLike(needle) + "%"})
	}
	if f.YearFrom > 0 {
		q = q.Where("release_year >= ?", f.YearFrom)
	}
	if f.YearTo > 0 {
		q = q.Where("release_year <= ?", f.YearTo)
	}
	q = q.Session(&gorm.Session{})

	if err := q.Count(&res.Total).Error; err != nil {
		return res, QueryError("count search", err)
	}

	order, ok := sortClauses[f.Sort]
	if !ok {
		order = sortClauses[SortIDDesc]
	}
	err := q.Order(order).Offset(number * size).Limit(size).
		Find(&res.Items).Error
	if err != nil {
		return res, QueryError("search", err)
	}
	return res, nil
}

func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}
