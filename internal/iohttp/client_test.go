package iohttp_test

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/filmograph/filmdb/internal/iohttp"
	"github.com/filmograph/filmdb/pkg/config"
	"github.com/filmograph/filmdb/pkg/errcode"
	"github.com/gnames/gn"
	"github.com/jarcoal/httpmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newClient(t *testing.T) *iohttp.Client {
	httpmock.Activate()
	t.Cleanup(httpmock.DeactivateAndReset)
	return iohttp.New("test", config.New().Providers)
}

func TestGetJSON(t *testing.T) {
	c := newClient(t)
	httpmock.RegisterResponder("GET", `=~^https://api\.example\.org/items`,
		func(req *http.Request) (*http.Response, error) {
			assert.Equal(t, "oldboy", req.URL.Query().Get("q"))
			return httpmock.NewStringResponse(200, `{"name":"Oldboy","id":670}`), nil
		})

	var res struct {
		Name string `json:"name"`
		ID   int    `json:"id"`
	}
	err := c.GetJSON(t.Context(), "https://api.example.org/items",
		url.Values{"q": {"oldboy"}}, &res)
	require.NoError(t, err)
	assert.Equal(t, "Oldboy", res.Name)
	assert.Equal(t, 670, res.ID)
	assert.Equal(t, "test", c.Name())
}

func TestPostJSON(t *testing.T) {
	c := newClient(t)
	httpmock.RegisterResponder("POST", "https://api.example.org/graphql",
		func(req *http.Request) (*http.Response, error) {
			assert.Equal(t, "application/json", req.Header.Get("Content-Type"))
			return httpmock.NewStringResponse(200, `{"ok":true}`), nil
		})

	var res struct {
		OK bool `json:"ok"`
	}
	err := c.PostJSON(t.Context(), "https://api.example.org/graphql",
		map[string]any{"query": "{}"}, &res)
	require.NoError(t, err)
	assert.True(t, res.OK)
}

func TestErrors(t *testing.T) {
	tests := []struct {
		msg    string
		status int
		body   string
		code   gn.ErrorCode
	}{
		{"not found", 404, `{}`, errcode.NotFoundError},
		{"server error", 503, `down`, errcode.UpstreamUnavailableError},
		{"unauthorized", 401, `bad key`, errcode.UpstreamUnavailableError},
		{"malformed", 200, `{"name":`, errcode.UpstreamUnavailableError},
	}

	for _, v := range tests {
		t.Run(v.msg, func(t *testing.T) {
			c := newClient(t)
			httpmock.RegisterResponder("GET", "https://api.example.org/x",
				httpmock.NewStringResponder(v.status, v.body))

			var res map[string]any
			err := c.GetJSON(t.Context(), "https://api.example.org/x", nil, &res)
			require.Error(t, err)
			assert.Equal(t, v.code, errcode.Code(err))
			assert.True(t, errcode.IsUpstream(err) ||
				v.code == errcode.NotFoundError)
		})
	}
}

func TestNetworkError(t *testing.T) {
	c := newClient(t)
	// no responder registered, httpmock answers with an error
	_, err := c.Get(t.Context(), "https://api.example.org/none?api_key=secret", nil)
	require.Error(t, err)
	assert.Equal(t, errcode.UpstreamUnavailableError, errcode.Code(err))

	gnErr, ok := err.(*gn.Error)
	require.True(t, ok)
	assert.NotContains(t, gnErr.Err.Error(), "secret")
}

func TestCanceled(t *testing.T) {
	c := newClient(t)
	httpmock.RegisterResponder("GET", "https://api.example.org/x",
		httpmock.NewStringResponder(200, `{}`))

	ctx, cancel := context.WithCancel(t.Context())
	cancel()
	_, err := c.Get(ctx, "https://api.example.org/x", nil)
	assert.True(t, errcode.IsUpstream(err))
}

func TestCircuitOpens(t *testing.T) {
	c := newClient(t)
	httpmock.RegisterResponder("GET", "https://api.example.org/x",
		httpmock.NewStringResponder(500, `boom`))

	for range 10 {
		_, _ = c.Get(t.Context(), "https://api.example.org/x", nil)
	}
	calls := httpmock.GetTotalCallCount()

	_, err := c.Get(t.Context(), "https://api.example.org/x", nil)
	require.Error(t, err)
	assert.Equal(t, errcode.UpstreamUnavailableError, errcode.Code(err))
	// the open circuit rejects without a network call
	assert.Equal(t, calls, httpmock.GetTotalCallCount())
}

func TestNotFoundKeepsCircuitClosed(t *testing.T) {
	c := newClient(t)
	httpmock.RegisterResponder("GET", "https://api.example.org/x",
		httpmock.NewStringResponder(404, `{}`))

	for range 12 {
		_, err := c.Get(t.Context(), "https://api.example.org/x", nil)
		assert.Equal(t, errcode.NotFoundError, errcode.Code(err))
	}
	assert.Equal(t, 12, httpmock.GetTotalCallCount())
}

func TestMaxBody(t *testing.T) {
	httpmock.Activate()
	t.Cleanup(httpmock.DeactivateAndReset)
	c := iohttp.New("test", config.New().Providers, iohttp.OptMaxBody(16))

	httpmock.RegisterResponder("GET", "https://api.example.org/fits",
		httpmock.NewStringResponder(200, strings.Repeat("a", 16)))
	body, err := c.Get(t.Context(), "https://api.example.org/fits", nil)
	require.NoError(t, err)
	assert.Len(t, body, 16)

	httpmock.RegisterResponder("GET", "https://api.example.org/big",
		httpmock.NewStringResponder(200, strings.Repeat("a", 17)))
	body, err = c.Get(t.Context(), "https://api.example.org/big", nil)
	assert.Nil(t, body)
	assert.Equal(t, errcode.ResponseTooLargeError, errcode.Code(err))
	assert.True(t, errors.Is(err, iohttp.ErrTooLarge))
	assert.False(t, errcode.IsUpstream(err))
}

func TestTimeoutOption(t *testing.T) {
	httpmock.Activate()
	t.Cleanup(httpmock.DeactivateAndReset)
	c := iohttp.New("test", config.New().Providers,
		iohttp.OptTimeout(50*time.Millisecond))

	httpmock.RegisterResponder("GET", "https://api.example.org/slow",
		func(req *http.Request) (*http.Response, error) {
			<-req.Context().Done()
			return nil, req.Context().Err()
		})

	start := time.Now()
	_, err := c.Get(t.Context(), "https://api.example.org/slow", nil)
	assert.True(t, errcode.IsUpstream(err))
	assert.Less(t, time.Since(start), 5*time.Second)
}
