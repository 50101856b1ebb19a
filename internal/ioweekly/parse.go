package ioweekly

import (
	"io"
	"log/slog"
	"math"
	"strconv"
	"strings"
	"time"
	"unicode"

	"github.com/filmograph/filmdb/pkg/schema"
	"github.com/xuri/excelize/v2"
)

// Logical columns of the spreadsheet.
const (
	colWeek     = "week"
	colCategory = "category"
	colRank     = "weekly_rank"
	colTitle    = "show_title"
	colSeason   = "season_title"
	colViews    = "weekly_views"
	colHours    = "weekly_hours_viewed"
	colRuntime  = "runtime"
)

var required = []string{colWeek, colCategory, colRank, colTitle}

type key struct {
	week     string
	category string
	rank     int
}

// parse reads the first sheet of an xlsx stream into facts, one per key.
// Rows without week, title or a positive rank are skipped.
func parse(r io.Reader) ([]schema.WeeklyRankFact, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, OpenError(err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, nil
	}
	rows, err := f.GetRows(sheets[0], excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, OpenError(err)
	}
	if len(rows) == 0 {
		return nil, HeaderError(required)
	}

	idx := header(rows[0])
	var missing []string
	for _, v := range required {
		if _, ok := idx[v]; !ok {
			missing = append(missing, v)
		}
	}
	if len(missing) > 0 {
		return nil, HeaderError(missing)
	}

	var res []schema.WeeklyRankFact
	pos := make(map[key]int)
	var skipped int
	for _, row := range rows[1:] {
		fact, ok := toFact(row, idx)
		if !ok {
			skipped++
			continue
		}
		k := key{fact.WeekStart, fact.Category, fact.WeeklyRank}
		if i, ok := pos[k]; ok {
			res[i] = mergeFact(res[i], fact)
			continue
		}
		pos[k] = len(res)
		res = append(res, fact)
	}

	if skipped > 0 {
		slog.Debug("Weekly rows skipped", "rows", skipped)
	}
	return res, nil
}

func header(row []string) map[string]int {
	res := make(map[string]int, len(row))
	for i, v := range row {
		v = strings.ToLower(strings.TrimSpace(v))
		if _, ok := res[v]; v != "" && !ok {
			res[v] = i
		}
	}
	return res
}

func cell(row []string, idx map[string]int, col string) string {
	i, ok := idx[col]
	if !ok || i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}

func toFact(row []string, idx map[string]int) (schema.WeeklyRankFact, bool) {
	var res schema.WeeklyRankFact

	rank := parseInt(cell(row, idx, colRank))
	title := cell(row, idx, colTitle)
	week := parseDate(cell(row, idx, colWeek))
	if rank == nil || *rank < 1 || title == "" || week == "" {
		return res, false
	}

	res = schema.WeeklyRankFact{
		WeekStart:   week,
		Category:    cell(row, idx, colCategory),
		WeeklyRank:  int(*rank),
		ShowTitle:   title,
		WeeklyViews: parseInt(cell(row, idx, colViews)),
		WeeklyHours: parseInt(cell(row, idx, colHours)),
	}
	if s := cell(row, idx, colSeason); s != "" {
		res.SeasonTitle = &s
	}
	if h := parseFloat(cell(row, idx, colRuntime)); h != nil {
		if m, ok := round(*h * 60); ok {
			rt := int(m)
			res.RuntimeMinutes = &rt
		}
	}
	return res, true
}

// mergeFact applies a later row of the same key: text is replaced,
// numbers only when known.
func mergeFact(old, upd schema.WeeklyRankFact) schema.WeeklyRankFact {
	old.ShowTitle = upd.ShowTitle
	old.SeasonTitle = upd.SeasonTitle
	if upd.WeeklyViews != nil {
		old.WeeklyViews = upd.WeeklyViews
	}
	if upd.WeeklyHours != nil {
		old.WeeklyHours = upd.WeeklyHours
	}
	if upd.RuntimeMinutes != nil {
		old.RuntimeMinutes = upd.RuntimeMinutes
	}
	return old
}

// parseDate accepts YYYY-MM-DD text (a time part is ignored) or an Excel
// date serial. It returns YYYY-MM-DD or an empty string.
func parseDate(s string) string {
	if s == "" {
		return ""
	}
	if len(s) >= 10 {
		if d, err := time.Parse(time.DateOnly, s[:10]); err == nil {
			return d.Format(time.DateOnly)
		}
	}
	serial, err := strconv.ParseFloat(s, 64)
	if err != nil || serial <= 0 {
		return ""
	}
	d, err := excelize.ExcelDateToTime(serial, false)
	if err != nil {
		return ""
	}
	return d.Format(time.DateOnly)
}

func clean(s string) string {
	return strings.Map(func(r rune) rune {
		if r == ',' || r == '_' || unicode.IsSpace(r) {
			return -1
		}
		return r
	}, s)
}

func parseFloat(s string) *float64 {
	s = clean(s)
	if s == "" {
		return nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return nil
	}
	return &f
}

// parseInt reads whole numbers written as text or as spreadsheet
// numbers. Text that is not a number keeps only its digits.
func parseInt(s string) *int64 {
	if f := parseFloat(s); f != nil {
		res, ok := round(*f)
		if !ok {
			return nil
		}
		return &res
	}
	digits := strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, s)
	if digits == "" {
		return nil
	}
	res, err := strconv.ParseInt(digits, 10, 64)
	if err != nil {
		return nil
	}
	return &res
}

// round converts f to the nearest int64. It fails outside the int64
// range.
func round(f float64) (int64, bool) {
	r := math.Round(f)
	if r >= math.MaxInt64 || r < math.MinInt64 {
		return 0, false
	}
	return int64(r), true
}
