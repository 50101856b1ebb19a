package errcode_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/filmograph/filmdb/pkg/errcode"
	"github.com/gnames/gn"
	"github.com/stretchr/testify/assert"
)

func TestCode(t *testing.T) {
	base := &gn.Error{
		Code: errcode.NotFoundError,
		Msg:  "nothing",
		Err:  errors.New("nothing found"),
	}

	tests := []struct {
		msg string
		err error
		res gn.ErrorCode
	}{
		{"nil", nil, errcode.UnknownError},
		{"plain", errors.New("plain"), errcode.UnknownError},
		{"direct", base, errcode.NotFoundError},
		{"wrapped", fmt.Errorf("outer: %w", base), errcode.NotFoundError},
	}

	for _, v := range tests {
		assert.Equal(t, v.res, errcode.Code(v.err), v.msg)
	}
}

func TestIsUpstream(t *testing.T) {
	notConfigured := &gn.Error{
		Code: errcode.ProviderNotConfiguredError,
		Err:  errors.New("no key"),
	}
	down := &gn.Error{
		Code: errcode.UpstreamUnavailableError,
		Err:  errors.New("timeout"),
	}
	notFound := &gn.Error{
		Code: errcode.NotFoundError,
		Err:  errors.New("zero results"),
	}

	assert.True(t, errcode.IsUpstream(notConfigured))
	assert.True(t, errcode.IsUpstream(down))
	assert.False(t, errcode.IsUpstream(notFound))
	assert.False(t, errcode.IsUpstream(nil))
	assert.True(t, errcode.Is(notFound, errcode.ConflictError,
		errcode.NotFoundError))
}
