package iofs

import (
	"fmt"
	"runtime"

	"github.com/filmograph/filmdb/pkg/errcode"
	"github.com/gnames/gn"
)

func caller() string {
	pc, _, _, _ := runtime.Caller(2)
	return runtime.FuncForPC(pc).Name()
}

// CreateDirError is returned when a directory cannot be created.
func CreateDirError(dir string, err error) error {
	return &gn.Error{
		Code: errcode.CreateDirError,
		Msg:  "Cannot create %s",
		Vars: []any{dir},
		Err:  fmt.Errorf("from %s: cannot create directory: %w", caller(), err),
	}
}

// CopyFileError is returned when the config template cannot be written.
func CopyFileError(file string, err error) error {
	return &gn.Error{
		Code: errcode.CopyFileError,
		Msg:  "Cannot copy config file to %s",
		Vars: []any{file},
		Err:  fmt.Errorf("from %s: cannot copy file: %w", caller(), err),
	}
}

// ReadFileError is returned when a local file cannot be opened.
func ReadFileError(path string, err error) error {
	return &gn.Error{
		Code: errcode.ReadFileError,
		Msg:  "Cannot read <em>%s</em>",
		Vars: []any{path},
		Err:  fmt.Errorf("from %s: cannot read %s: %w", caller(), path, err),
	}
}
