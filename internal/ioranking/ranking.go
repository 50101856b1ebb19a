// Package ioranking keeps append-only snapshots of ranked movie lists.
// Readers only see the newest complete snapshot of a region.
package ioranking

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/filmograph/filmdb/internal/iometrics"
	"github.com/filmograph/filmdb/pkg/config"
	"github.com/filmograph/filmdb/pkg/provider"
	"github.com/filmograph/filmdb/pkg/schema"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Store fetches and reads ranking snapshots.
type Store struct {
	db      *gorm.DB
	src     provider.RankingSource
	regions []config.RegionConfig
	topN    int
	batch   int
}

// New creates a ranking Store.
func New(
	cfg *config.Config,
	db *gorm.DB,
	src provider.RankingSource,
) *Store {
	res := &Store{
		db:      db,
		src:     src,
		regions: cfg.Ranking.Regions,
		topN:    cfg.Ranking.TopN,
		batch:   cfg.Database.BatchSize,
	}
	if res.topN <= 0 {
		res.topN = 20
	}
	if res.batch <= 0 {
		res.batch = 100
	}
	return res
}

// Regions returns configured region codes in configuration order.
func (s *Store) Regions() []string {
	res := make([]string, len(s.regions))
	for i, v := range s.regions {
		res[i] = v.Code
	}
	return res
}

func (s *Store) region(code string) (config.RegionConfig, error) {
	code = strings.ToUpper(strings.TrimSpace(code))
	for _, v := range s.regions {
		if v.Code == code {
			return v, nil
		}
	}
	return config.RegionConfig{}, RegionError(code)
}

// Refresh stores a new snapshot of the region's ranked list and returns
// the number of rows written. An empty list writes nothing. Provider
// failures are returned as they are.
func (s *Store) Refresh(ctx context.Context, region string) (int, error) {
	rc, err := s.region(region)
	if err != nil {
		return 0, err
	}

	items, err := s.src.Ranking(ctx, provider.Feed{
		Kind:     rc.Feed,
		Language: rc.Language,
		Region:   rc.Region,
	})
	if err != nil {
		return 0, err
	}
	if len(items) == 0 {
		slog.Info("Empty ranking, snapshot skipped", "region", rc.Code)
		return 0, nil
	}
	if len(items) > s.topN {
		items = items[:s.topN]
	}

	rows := make([]schema.RankingSnapshot, len(items))
	batchID := uuid.NewString()
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		at, err := nextSnapshotTime(tx, rc.Code)
		if err != nil {
			return err
		}
		for i, v := range items {
			rows[i] = schema.RankingSnapshot{
				Region:     rc.Code,
				RankValue:  i + 1,
				Title:      v.Title,
				PosterURL:  v.PosterURL,
				TMDBID:     v.ExternalID,
				SnapshotAt: at,
				BatchID:    batchID,
			}
		}
		return tx.CreateInBatches(&rows, s.batch).Error
	})
	if err != nil {
		return 0, WriteError(rc.Code, err)
	}

	iometrics.RankingRowsWritten.WithLabelValues(rc.Code).Add(float64(len(rows)))
	slog.Info("Ranking refreshed",
		"region", rc.Code, "rows", len(rows), "batch_id", batchID)
	return len(rows), nil
}

// nextSnapshotTime returns the current time, moved past the newest
// snapshot of the region when the clock has not advanced.
func nextSnapshotTime(tx *gorm.DB, region string) (time.Time, error) {
	res := time.Now().UTC().Truncate(time.Microsecond)
	last, err := latestRow(tx, region)
	if err != nil {
		return res, err
	}
	if last != nil && !res.After(last.SnapshotAt) {
		res = last.SnapshotAt.UTC().Add(time.Microsecond)
	}
	return res, nil
}

func latestRow(db *gorm.DB, region string) (*schema.RankingSnapshot, error) {
	var res schema.RankingSnapshot
	err := db.Where("region = ?", region).
		Order("snapshot_at DESC, id DESC").
		First(&res).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &res, nil
}

// Latest returns the newest snapshot of region ordered by rank. It is
// empty when the region was never refreshed.
func (s *Store) Latest(
	ctx context.Context,
	region string,
) ([]schema.RankingSnapshot, error) {
	rc, err := s.region(region)
	if err != nil {
		return nil, err
	}

	db := s.db.WithContext(ctx)
	last, err := latestRow(db, rc.Code)
	if err != nil {
		return nil, QueryError(rc.Code, err)
	}
	if last == nil {
		return nil, nil
	}

	var res []schema.RankingSnapshot
	err = db.Where("region = ? AND batch_id = ?", rc.Code, last.BatchID).
		Order("rank_value").
		Find(&res).Error
	if err != nil {
		return nil, QueryError(rc.Code, err)
	}
	return res, nil
}

// Catalog finds the catalog movies that ranked titles refer to.
type Catalog interface {
	FindByExternalID(ctx context.Context, ext int64) (*schema.Movie, error)
	FindByTitle(ctx context.Context, title string) (*schema.Movie, error)
}

// Entry is a ranking row with the id of its catalog movie, when the
// catalog knows it.
type Entry struct {
	schema.RankingSnapshot
	MovieID *uint `json:"movie_id,omitempty"`
}

// LatestLinked returns Latest with every row linked to a catalog movie,
// by TMDB id first and then by exact title. A failed lookup leaves the
// row unlinked.
func (s *Store) LatestLinked(
	ctx context.Context,
	region string,
	cat Catalog,
) ([]Entry, error) {
	rows, err := s.Latest(ctx, region)
	if err != nil {
		return nil, err
	}

	res := make([]Entry, len(rows))
	for i, v := range rows {
		res[i].RankingSnapshot = v
		m, err := findMovie(ctx, cat, v)
		if err != nil {
			slog.Warn("Cannot link ranked title", "title", v.Title, "error", err)
			continue
		}
		if m != nil {
			res[i].MovieID = &m.ID
		}
	}
	return res, nil
}

func findMovie(
	ctx context.Context,
	cat Catalog,
	row schema.RankingSnapshot,
) (*schema.Movie, error) {
	if row.TMDBID != nil {
		m, err := cat.FindByExternalID(ctx, *row.TMDBID)
		if err != nil || m != nil {
			return m, err
		}
	}
	return cat.FindByTitle(ctx, row.Title)
}
