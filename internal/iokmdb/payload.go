package iokmdb

import (
	"strconv"
	"strings"

	"github.com/filmograph/filmdb/pkg/provider"
	"github.com/goccy/go-json"
)

type envelope struct {
	Data []struct {
		Result []item `json:"Result"`
	} `json:"Data"`
	Result []item `json:"Result"`
}

type item struct {
	Title      string     `json:"title"`
	TitleEng   string     `json:"titleEng"`
	TitleOrg   string     `json:"titleOrg"`
	RepRlsDate string     `json:"repRlsDate"`
	Nation     string     `json:"nation"`
	Genre      string     `json:"genre"`
	Runtime    flexString `json:"runtime"`
	Rating     string     `json:"rating"`
	Posters    string     `json:"posters"`
	Directors  nestedList `json:"directors"`
	Actors     nestedList `json:"actors"`
	Plots      nestedList `json:"plots"`
}

// flexString accepts a JSON string or number.
type flexString string

func (f *flexString) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		*f = flexString(s)
		return nil
	}
	// numbers are kept as written, other shapes are dropped
	raw := strings.TrimSpace(string(b))
	if raw != "" && (raw[0] == '-' || (raw[0] >= '0' && raw[0] <= '9')) {
		*f = flexString(raw)
	}
	return nil
}

// nestedList accepts both {"director":[{...}]} and a bare [{...}].
// Every element is kept as a flat map of string fields.
type nestedList []map[string]flexString

func (l *nestedList) UnmarshalJSON(b []byte) error {
	var arr []map[string]flexString
	if err := json.Unmarshal(b, &arr); err == nil {
		*l = arr
		return nil
	}

	var obj map[string]json.RawMessage
	if err := json.Unmarshal(b, &obj); err != nil {
		// unexpected shapes are ignored
		return nil
	}
	for _, raw := range obj {
		if err := json.Unmarshal(raw, &arr); err == nil {
			*l = append(*l, arr...)
		}
	}
	return nil
}

func (l nestedList) values(key string) []string {
	var res []string
	for _, m := range l {
		if v := strings.TrimSpace(string(m[key])); v != "" {
			res = append(res, v)
		}
	}
	return res
}

var highlight = strings.NewReplacer("!HS", "", "!HE", "")

func cleanTitle(s string) string {
	return strings.Join(strings.Fields(highlight.Replace(s)), " ")
}

func (i item) toRecord() provider.MovieRecord {
	res := provider.MovieRecord{
		Title:         cleanTitle(i.Title),
		OriginalTitle: cleanTitle(i.TitleOrg),
		AgeRating:     strings.TrimSpace(i.Rating),
		Source:        Name,
	}
	if res.OriginalTitle == "" {
		res.OriginalTitle = cleanTitle(i.TitleEng)
	}

	if d := strings.TrimSpace(i.RepRlsDate); len(d) == 8 {
		res.ReleaseDate = d[:4] + "-" + d[4:6] + "-" + d[6:]
		if res.Year() == 0 {
			res.ReleaseDate = ""
		}
	}

	if nation := strings.Split(i.Nation, "|"); len(nation) > 0 {
		res.Country = strings.TrimSpace(nation[0])
	}

	if rt, err := strconv.Atoi(strings.TrimSpace(string(i.Runtime))); err == nil {
		res.RuntimeMinutes = rt
	}

	for g := range strings.SplitSeq(i.Genre, ",") {
		if g = strings.TrimSpace(g); g != "" {
			res.Genres = append(res.Genres, g)
		}
	}

	res.Director = strings.Join(i.Directors.values("directorNm"), ", ")
	for n, name := range i.Actors.values("actorNm") {
		res.Cast = append(res.Cast, provider.Person{Name: name, Order: n})
	}
	if plots := i.Plots.values("plotText"); len(plots) > 0 {
		res.Overview = plots[0]
	}

	poster, _, _ := strings.Cut(i.Posters, "|")
	res.PosterURL = strings.TrimSpace(poster)
	return res
}
