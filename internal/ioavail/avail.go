// Package ioavail is the client of the streaming-availability graph,
// a GraphQL endpoint that lists offers of a title per country.
package ioavail

import (
	"context"
	"fmt"
	"strings"

	"github.com/filmograph/filmdb/internal/iohttp"
	"github.com/filmograph/filmdb/pkg/config"
	"github.com/filmograph/filmdb/pkg/provider"
	"github.com/filmograph/filmdb/pkg/schema"
)

// Name identifies the provider in logs and metrics.
const Name = "availability"

const titlesQuery = `query GetTitles($country: Country!, $language: Language!, $first: Int!, $filter: TitleFilter) {
  titles(country: $country, language: $language, first: $first, filter: $filter) {
    edges { node { id name
      offers { provider { id clearName iconUrl } monetizationType standardWebUrl }
    } }
  }
}`

// known providers get stable display names and logos
var knownProviders = map[string]struct{ name, slug string }{
	"8":   {"Netflix", "netflix"},
	"97":  {"Disney+", "disneyplus"},
	"96":  {"Watcha", "watcha"},
	"337": {"Apple TV+", "apple-tv"},
	"119": {"Amazon Prime Video", "prime-video"},
	"356": {"TVING", "tving"},
}

type request struct {
	OperationName string    `json:"operationName"`
	Query         string    `json:"query"`
	Variables     variables `json:"variables"`
}

type variables struct {
	Country  string `json:"country"`
	Language string `json:"language"`
	First    int    `json:"first"`
	Filter   struct {
		SearchQuery string `json:"searchQuery"`
	} `json:"filter"`
}

type response struct {
	Data struct {
		Titles struct {
			Edges []struct {
				Node struct {
					ID     string  `json:"id"`
					Name   string  `json:"name"`
					Offers []offer `json:"offers"`
				} `json:"node"`
			} `json:"edges"`
		} `json:"titles"`
	} `json:"data"`
}

type offer struct {
	Provider struct {
		ID        string `json:"id"`
		ClearName string `json:"clearName"`
		IconURL   string `json:"iconUrl"`
	} `json:"provider"`
	MonetizationType string `json:"monetizationType"`
	StandardWebURL   string `json:"standardWebUrl"`
}

// Client queries the availability graph.
type Client struct {
	http     *iohttp.Client
	url      string
	language string
}

// New creates an availability client from provider settings.
func New(cfg config.ProvidersConfig) *Client {
	return &Client{
		http:     iohttp.New(Name, cfg),
		url:      cfg.Availability.BaseURL,
		language: cfg.Availability.Language,
	}
}

// Offers returns the offers of the best match for title in a country.
// Country may be a region code or a locale like "ko_KR"; only the last
// two letters are used.
func (a *Client) Offers(
	ctx context.Context,
	title, country string,
) ([]provider.Offer, error) {
	req := request{
		OperationName: "GetTitles",
		Query:         titlesQuery,
		Variables: variables{
			Country:  countryCode(country),
			Language: a.language,
			First:    1,
		},
	}
	req.Variables.Filter.SearchQuery = title

	var resp response
	if err := a.http.PostJSON(ctx, a.url, req, &resp); err != nil {
		return nil, err
	}

	edges := resp.Data.Titles.Edges
	if len(edges) == 0 {
		return nil, nil
	}

	var res []provider.Offer
	for _, o := range edges[0].Node.Offers {
		id := strings.TrimSpace(o.Provider.ID)
		name, logo := o.Provider.ClearName, o.Provider.IconURL
		if p, ok := knownProviders[id]; ok {
			name = p.name
			logo = logoURL(id, p.slug)
		}
		if strings.TrimSpace(name) == "" {
			continue
		}
		res = append(res, provider.Offer{
			ProviderID:   id,
			ProviderName: name,
			Kind:         kind(o.MonetizationType),
			WebURL:       o.StandardWebURL,
			LogoURL:      logo,
		})
	}
	return res, nil
}

func countryCode(s string) string {
	s = strings.TrimSpace(s)
	if len(s) < 2 {
		return "KR"
	}
	return strings.ToUpper(s[len(s)-2:])
}

func kind(monetization string) string {
	switch strings.ToUpper(monetization) {
	case "RENT":
		return schema.Rent
	case "BUY":
		return schema.Buy
	default:
		return schema.Subscription
	}
}

func logoURL(id, slug string) string {
	for len(id) < 3 {
		id = "0" + id
	}
	return fmt.Sprintf(
		"https://images.justwatch.com/icon/2073600%s/s100/%s.png", id, slug,
	)
}
