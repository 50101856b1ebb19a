package iocatalog

import (
	"fmt"

	"github.com/filmograph/filmdb/pkg/errcode"
	"github.com/gnames/gn"
)

// QueryError is returned when a catalog read fails.
func QueryError(op string, err error) error {
	return &gn.Error{
		Code: errcode.CatalogQueryError,
		Msg:  "Cannot read catalog (%s)",
		Vars: []any{op},
		Err:  fmt.Errorf("catalog %s: %w", op, err),
	}
}

// WriteError is returned when a catalog write fails.
func WriteError(op string, err error) error {
	return &gn.Error{
		Code: errcode.CatalogWriteError,
		Msg:  "Cannot write to catalog (%s)",
		Vars: []any{op},
		Err:  fmt.Errorf("catalog %s: %w", op, err),
	}
}

// ConflictError is returned when a write hits a unique constraint.
// Callers resolve it by re-reading the existing row.
func ConflictError(entity string, err error) error {
	return &gn.Error{
		Code: errcode.ConflictError,
		Msg:  "Catalog already has this <em>%s</em>",
		Vars: []any{entity},
		Err:  fmt.Errorf("%s conflict: %w", entity, err),
	}
}

// NotFoundError is returned when a movie does not exist.
func NotFoundError(id uint) error {
	return &gn.Error{
		Code: errcode.NotFoundError,
		Msg:  "Movie <em>%d</em> is not in the catalog",
		Vars: []any{id},
		Err:  fmt.Errorf("movie %d not found", id),
	}
}
