package iohttp

import (
	"errors"
	"fmt"

	"github.com/filmograph/filmdb/pkg/errcode"
	"github.com/gnames/gn"
)

// ErrStatus is wrapped by errors of non-2xx responses.
var ErrStatus = errors.New("unexpected HTTP status")

// ErrTooLarge is wrapped by errors of responses over the size limit.
var ErrTooLarge = errors.New("response body too large")

// NotConfiguredError is returned before any network call when a provider
// credential is missing.
func NotConfiguredError(provider, key string) error {
	msg := `Provider <em>%s</em> is not configured

<em>How to fix:</em>
  Set <em>%s</em> in ~/.config/filmdb/config.yaml
  or the matching FILMDB_* environment variable`

	return &gn.Error{
		Code: errcode.ProviderNotConfiguredError,
		Msg:  msg,
		Vars: []any{provider, key},
		Err:  fmt.Errorf("provider %s: missing %s", provider, key),
	}
}

// RequestError is returned when a provider cannot be reached.
func RequestError(provider, url string, err error) error {
	msg := "Provider <em>%s</em> is unavailable"
	return &gn.Error{
		Code: errcode.UpstreamUnavailableError,
		Msg:  msg,
		Vars: []any{provider},
		Err:  fmt.Errorf("request to %s failed: %w", url, err),
	}
}

// StatusError is returned for a non-2xx response. A 404 is NotFound, all
// other statuses mean the provider is unavailable.
func StatusError(provider, url string, status int, body string) error {
	code := errcode.UpstreamUnavailableError
	msg := "Provider <em>%s</em> answered with status %d"
	if status == 404 {
		code = errcode.NotFoundError
		msg = "Provider <em>%s</em> has no such record (status %d)"
	}
	return &gn.Error{
		Code: code,
		Msg:  msg,
		Vars: []any{provider, status},
		Err: fmt.Errorf("%w %d from %s: %s",
			ErrStatus, status, url, body),
	}
}

// DecodeError is returned when a provider payload is malformed.
func DecodeError(provider string, err error) error {
	msg := "Cannot read response of provider <em>%s</em>"
	return &gn.Error{
		Code: errcode.UpstreamUnavailableError,
		Msg:  msg,
		Vars: []any{provider},
		Err:  fmt.Errorf("decode %s response: %w", provider, err),
	}
}

// CircuitOpenError is returned while the provider circuit is open.
func CircuitOpenError(provider string, err error) error {
	msg := `Provider <em>%s</em> is failing, requests are paused`
	return &gn.Error{
		Code: errcode.UpstreamUnavailableError,
		Msg:  msg,
		Vars: []any{provider},
		Err:  fmt.Errorf("circuit breaker %s: %w", provider, err),
	}
}

// TooLargeError is returned when a response body exceeds the limit of
// the client.
func TooLargeError(provider, url string, limit int64) error {
	msg := "Response of provider <em>%s</em> is larger than %d MB"
	return &gn.Error{
		Code: errcode.ResponseTooLargeError,
		Msg:  msg,
		Vars: []any{provider, limit >> 20},
		Err:  fmt.Errorf("%w: %s exceeds %d bytes", ErrTooLarge, url, limit),
	}
}
