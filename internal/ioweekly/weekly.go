// Package ioweekly ingests the weekly streaming top-10 spreadsheet and
// reads the stored weeks.
package ioweekly

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/filmograph/filmdb/internal/iohttp"
	"github.com/filmograph/filmdb/internal/iometrics"
	"github.com/filmograph/filmdb/pkg/config"
	"github.com/filmograph/filmdb/pkg/schema"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Name identifies the spreadsheet feed in logs and metrics.
const Name = "weekly"

// Ingester downloads and upserts weekly rankings.
type Ingester struct {
	db    *gorm.DB
	http  *iohttp.Client
	url   string
	batch int
}

// New creates an Ingester.
func New(cfg *config.Config, db *gorm.DB) *Ingester {
	// the spreadsheet is larger and slower than JSON answers
	client := iohttp.New(Name, cfg.Providers,
		iohttp.OptTimeout(time.Duration(cfg.Weekly.TimeoutSec)*time.Second),
		iohttp.OptMaxBody(int64(cfg.Weekly.MaxMB)<<20),
	)
	res := &Ingester{
		db:    db,
		http:  client,
		url:   cfg.Weekly.URL,
		batch: cfg.Database.BatchSize,
	}
	if res.batch <= 0 {
		res.batch = 100
	}
	return res
}

// Ingest downloads the spreadsheet and upserts its rows. It returns the
// number of rows written.
func (in *Ingester) Ingest(ctx context.Context) (int, error) {
	if strings.TrimSpace(in.url) == "" {
		return 0, iohttp.NotConfiguredError(Name, "weekly.url")
	}
	body, err := in.http.Get(ctx, in.url, nil)
	if err != nil {
		return 0, err
	}
	return in.IngestReader(ctx, bytes.NewReader(body))
}

// IngestReader upserts the rows of an xlsx stream.
func (in *Ingester) IngestReader(ctx context.Context, r io.Reader) (int, error) {
	facts, err := parse(r)
	if err != nil {
		return 0, err
	}
	if len(facts) == 0 {
		slog.Info("Weekly spreadsheet has no rows")
		return 0, nil
	}

	err = in.db.WithContext(ctx).
		Clauses(upsertClause()).
		CreateInBatches(&facts, in.batch).Error
	if err != nil {
		return 0, WriteError(err)
	}

	iometrics.WeeklyRowsWritten.Add(float64(len(facts)))
	slog.Info("Weekly rankings ingested", "rows", len(facts))
	return len(facts), nil
}

// upsertClause replaces titles of an existing key and keeps known
// numbers when the new row has none.
func upsertClause() clause.OnConflict {
	coalesce := func(col string) clause.Assignment {
		return clause.Assignment{
			Column: clause.Column{Name: col},
			Value: gorm.Expr(
				"COALESCE(excluded." + col + ", netflix_weekly_rank." + col + ")",
			),
		}
	}
	set := clause.AssignmentColumns(
		[]string{"show_title", "season_title", "updated_at"},
	)
	set = append(set,
		coalesce("weekly_views"),
		coalesce("weekly_hours"),
		coalesce("runtime_minutes"),
	)
	return clause.OnConflict{
		Columns: []clause.Column{
			{Name: "week_start"},
			{Name: "category"},
			{Name: "weekly_rank"},
		},
		DoUpdates: set,
	}
}

// LatestWeek returns the newest stored week as YYYY-MM-DD, or an empty
// string when nothing was ingested.
func (in *Ingester) LatestWeek(ctx context.Context) (string, error) {
	var res schema.WeeklyRankFact
	err := in.db.WithContext(ctx).
		Order("week_start DESC").
		First(&res).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", nil
	}
	if err != nil {
		return "", QueryError("latest week", err)
	}
	return res.WeekStart, nil
}

// Week returns rows of one week ordered by category and rank. A blank
// week means the latest one, a blank category means all of them.
func (in *Ingester) Week(
	ctx context.Context,
	week, category string,
) ([]schema.WeeklyRankFact, error) {
	var err error
	if week == "" {
		if week, err = in.LatestWeek(ctx); err != nil || week == "" {
			return nil, err
		}
	}

	q := in.db.WithContext(ctx).Where("week_start = ?", week)
	if category != "" {
		q = q.Where("category = ?", category)
	}
	var res []schema.WeeklyRankFact
	err = q.Order("category").Order("weekly_rank").Find(&res).Error
	if err != nil {
		return nil, QueryError("week", err)
	}
	return res, nil
}
