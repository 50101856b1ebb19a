package ioweekly

import (
	"fmt"
	"strings"

	"github.com/filmograph/filmdb/pkg/errcode"
	"github.com/gnames/gn"
)

// OpenError is returned when the stream is not a readable workbook.
func OpenError(err error) error {
	return &gn.Error{
		Code: errcode.WeeklyOpenError,
		Msg:  "Cannot open weekly spreadsheet",
		Err:  fmt.Errorf("open weekly spreadsheet: %w", err),
	}
}

// HeaderError is returned when required columns are absent.
func HeaderError(missing []string) error {
	cols := strings.Join(missing, ", ")
	return &gn.Error{
		Code: errcode.WeeklyHeaderError,
		Msg:  "Weekly spreadsheet misses columns <em>%s</em>",
		Vars: []any{cols},
		Err:  fmt.Errorf("weekly spreadsheet header misses %s", cols),
	}
}

// WriteError is returned when rows cannot be upserted.
func WriteError(err error) error {
	return &gn.Error{
		Code: errcode.WeeklyWriteError,
		Msg:  "Cannot store weekly rankings",
		Err:  fmt.Errorf("weekly upsert: %w", err),
	}
}

// QueryError is returned when weekly rankings cannot be read.
func QueryError(op string, err error) error {
	return &gn.Error{
		Code: errcode.WeeklyQueryError,
		Msg:  "Cannot read weekly rankings (%s)",
		Vars: []any{op},
		Err:  fmt.Errorf("weekly %s: %w", op, err),
	}
}
