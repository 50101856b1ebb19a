package iofs

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/filmograph/filmdb/pkg/errcode"
	"github.com/gnames/gn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrors(t *testing.T) {
	cause := errors.New("permission denied")

	tests := []struct {
		name   string
		err    error
		code   gn.ErrorCode
		path   string
		detail string
	}{
		{"dir", CreateDirError("/home/x/.cache/filmdb", cause),
			errcode.CreateDirError, "/home/x/.cache/filmdb", "cannot create directory"},
		{"copy", CopyFileError("/home/x/config.yaml", cause),
			errcode.CopyFileError, "/home/x/config.yaml", "cannot copy file"},
		{"read", ReadFileError("weekly.xlsx", cause),
			errcode.ReadFileError, "weekly.xlsx", "cannot read weekly.xlsx"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var gnErr *gn.Error
			require.ErrorAs(t, tt.err, &gnErr)
			assert.Equal(t, tt.code, gnErr.Code)
			require.Len(t, gnErr.Vars, 1)
			assert.Equal(t, tt.path, gnErr.Vars[0])
			assert.ErrorIs(t, gnErr.Err, cause)
			assert.Contains(t, gnErr.Err.Error(), tt.detail)
			assert.Contains(t, gnErr.Err.Error(), "from ")
		})
	}
}

func TestErrorCaller(t *testing.T) {
	file := filepath.Join(t.TempDir(), "file")
	require.NoError(t, os.WriteFile(file, nil, 0644))

	err := touchDir(filepath.Join(file, "dir"))
	require.Error(t, err)
	assert.Contains(t, err.(*gn.Error).Err.Error(), "iofs.touchDir")
}
