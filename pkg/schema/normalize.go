package schema

import (
	"strings"
	"unicode"

	"github.com/gnames/gnuuid"
)

// NormalizeTitle folds case and collapses whitespace.
func NormalizeTitle(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(s)), " ")
}

// TitleKey returns a deterministic UUIDv5 of the normalized title.
func TitleKey(title string) string {
	return gnuuid.New(NormalizeTitle(title)).String()
}

// Squash folds case of every script and removes all whitespace. Search
// terms and stored search keys both go through it, so matching does not
// depend on the case folding of the database.
func Squash(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return unicode.ToLower(r)
	}, s)
}

// searchKey squashes every known part and joins them with a newline.
// Squashed terms never contain a newline, so a match cannot span parts.
func searchKey(parts ...*string) string {
	res := make([]string, 0, len(parts))
	for _, v := range parts {
		if v != nil && *v != "" {
			res = append(res, Squash(*v))
		}
	}
	return strings.Join(res, "\n")
}
