package ioavail_test

import (
	"io"
	"net/http"
	"testing"

	"github.com/filmograph/filmdb/internal/ioavail"
	"github.com/filmograph/filmdb/pkg/config"
	"github.com/filmograph/filmdb/pkg/errcode"
	"github.com/filmograph/filmdb/pkg/schema"
	"github.com/goccy/go-json"
	"github.com/jarcoal/httpmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const graphURL = "https://apis.justwatch.com/graphql"

const titles = `{"data":{"titles":{"edges":[{"node":{
  "id":"tm1","name":"Oldboy","offers":[
    {"provider":{"id":"8","clearName":"Netflix KR","iconUrl":"/n.png"},
     "monetizationType":"FLATRATE","standardWebUrl":"https://netflix.com/title/1"},
    {"provider":{"id":"3","clearName":"Google Play","iconUrl":"/gp.png"},
     "monetizationType":"rent","standardWebUrl":"https://play.google.com/1"},
    {"provider":{"id":"2","clearName":"Apple","iconUrl":""},
     "monetizationType":"BUY","standardWebUrl":""},
    {"provider":{"id":"999","clearName":"","iconUrl":""},
     "monetizationType":"ADS","standardWebUrl":""}
  ]}}]}}}`

func newClient(t *testing.T) *ioavail.Client {
	httpmock.Activate()
	t.Cleanup(httpmock.DeactivateAndReset)
	return ioavail.New(config.New().Providers)
}

func TestOffers(t *testing.T) {
	c := newClient(t)
	httpmock.RegisterResponder("POST", graphURL,
		func(req *http.Request) (*http.Response, error) {
			body, err := io.ReadAll(req.Body)
			require.NoError(t, err)
			var payload struct {
				OperationName string `json:"operationName"`
				Variables     struct {
					Country  string `json:"country"`
					Language string `json:"language"`
					First    int    `json:"first"`
					Filter   struct {
						SearchQuery string `json:"searchQuery"`
					} `json:"filter"`
				} `json:"variables"`
			}
			require.NoError(t, json.Unmarshal(body, &payload))
			assert.Equal(t, "GetTitles", payload.OperationName)
			assert.Equal(t, "KR", payload.Variables.Country)
			assert.Equal(t, "ko", payload.Variables.Language)
			assert.Equal(t, 1, payload.Variables.First)
			assert.Equal(t, "올드보이", payload.Variables.Filter.SearchQuery)
			return httpmock.NewStringResponse(200, titles), nil
		})

	res, err := c.Offers(t.Context(), "올드보이", "ko_kr")
	require.NoError(t, err)
	require.Len(t, res, 3)

	assert.Equal(t, "Netflix", res[0].ProviderName)
	assert.Equal(t, schema.Subscription, res[0].Kind)
	assert.Equal(t,
		"https://images.justwatch.com/icon/2073600008/s100/netflix.png",
		res[0].LogoURL)
	assert.Equal(t, "https://netflix.com/title/1", res[0].WebURL)

	assert.Equal(t, "Google Play", res[1].ProviderName)
	assert.Equal(t, schema.Rent, res[1].Kind)
	assert.Equal(t, "/gp.png", res[1].LogoURL)

	assert.Equal(t, schema.Buy, res[2].Kind)
}

func TestOffersEmpty(t *testing.T) {
	c := newClient(t)
	httpmock.RegisterResponder("POST", graphURL,
		httpmock.NewStringResponder(200, `{"data":{"titles":{"edges":[]}}}`))

	res, err := c.Offers(t.Context(), "nothing", "")
	require.NoError(t, err)
	assert.Empty(t, res)
}

func TestOffersUnavailable(t *testing.T) {
	c := newClient(t)
	httpmock.RegisterResponder("POST", graphURL,
		httpmock.NewStringResponder(502, `bad gateway`))

	_, err := c.Offers(t.Context(), "Oldboy", "US")
	assert.True(t, errcode.IsUpstream(err))
}
