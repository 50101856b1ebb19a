package ioreconcile

import (
	"errors"
	"fmt"

	"github.com/filmograph/filmdb/pkg/errcode"
	"github.com/gnames/gn"
)

var (
	errBlankTitle = errors.New("blank title")
	errNoArchive  = errors.New("national film database is not set up")
	errVanished   = errors.New("conflicting movie is gone")
)

// BlankQueryError is returned before any provider call when the query
// text is empty.
func BlankQueryError() error {
	return &gn.Error{
		Code: errcode.InvalidArgumentError,
		Msg:  "Search text is empty",
		Err:  errBlankTitle,
	}
}

// BlankTitleError is returned for a provider record without title.
func BlankTitleError(source string) error {
	return &gn.Error{
		Code: errcode.InvalidArgumentError,
		Msg:  "Record from <em>%s</em> has no title",
		Vars: []any{source},
		Err:  fmt.Errorf("%s record: %w", source, errBlankTitle),
	}
}

// NoMatchError is returned when a provider has no movie for the query.
func NoMatchError(source, query string) error {
	return &gn.Error{
		Code: errcode.NotFoundError,
		Msg:  "No movie found for <em>%s</em> at %s",
		Vars: []any{query, source},
		Err:  fmt.Errorf("%s has no match for %q", source, query),
	}
}

// UpstreamError marks a provider failure as UpstreamUnavailable unless
// it is already classified as such.
func UpstreamError(source string, err error) error {
	if errcode.IsUpstream(err) {
		return err
	}
	return &gn.Error{
		Code: errcode.UpstreamUnavailableError,
		Msg:  "Provider <em>%s</em> is unavailable",
		Vars: []any{source},
		Err:  fmt.Errorf("%s: %w", source, err),
	}
}
