package ioranking

import (
	"fmt"

	"github.com/filmograph/filmdb/pkg/errcode"
	"github.com/gnames/gn"
)

// RegionError is returned for a region without a configured feed.
func RegionError(region string) error {
	return &gn.Error{
		Code: errcode.RankingRegionError,
		Msg:  "Region <em>%s</em> has no ranking feed",
		Vars: []any{region},
		Err:  fmt.Errorf("unknown ranking region %q", region),
	}
}

// WriteError is returned when a snapshot cannot be stored.
func WriteError(region string, err error) error {
	return &gn.Error{
		Code: errcode.RankingWriteError,
		Msg:  "Cannot store ranking snapshot of <em>%s</em>",
		Vars: []any{region},
		Err:  fmt.Errorf("ranking snapshot %s: %w", region, err),
	}
}

// QueryError is returned when snapshots cannot be read.
func QueryError(region string, err error) error {
	return &gn.Error{
		Code: errcode.RankingQueryError,
		Msg:  "Cannot read ranking of <em>%s</em>",
		Vars: []any{region},
		Err:  fmt.Errorf("ranking query %s: %w", region, err),
	}
}
