package iologger

import (
	"fmt"
	"runtime"

	"github.com/filmograph/filmdb/pkg/errcode"
	"github.com/gnames/gn"
)

// CreateLogFileError is returned when the log file cannot be opened.
func CreateLogFileError(path string, err error) error {
	pc, _, _, _ := runtime.Caller(1)
	return &gn.Error{
		Code: errcode.CreateLogFileError,
		Msg:  "Cannot open log file <em>%s</em>",
		Vars: []any{path},
		Err: fmt.Errorf("from %s: cannot open log file: %w",
			runtime.FuncForPC(pc).Name(), err),
	}
}
