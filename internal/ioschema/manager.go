// Package ioschema implements lifecycle.SchemaManager on top of GORM
// AutoMigrate.
package ioschema

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/filmograph/filmdb/pkg/db"
	"github.com/filmograph/filmdb/pkg/lifecycle"
	"github.com/filmograph/filmdb/pkg/schema"
	"gorm.io/gorm"
)

type manager struct {
	operator db.Operator
}

// NewManager creates a SchemaManager for a connected operator.
func NewManager(op db.Operator) lifecycle.SchemaManager {
	return &manager{operator: op}
}

// trigramIndex speeds up the substring search of the catalog on
// PostgreSQL.
type trigramIndex struct {
	name, table, column string
}

var trigramIndexes = []trigramIndex{
	{"idx_movies_search_key_trgm", "movies", "search_key"},
	{"idx_actors_search_key_trgm", "actors", "search_key"},
}

func (ti trigramIndex) sql() string {
	return fmt.Sprintf(
		"CREATE INDEX IF NOT EXISTS %s ON %s USING gin (%s gin_trgm_ops)",
		ti.name, ti.table, ti.column,
	)
}

// Create builds all tables and indexes of an empty database.
func (m *manager) Create(ctx context.Context) error {
	gdb := m.operator.DB()
	if gdb == nil {
		return NotConnectedError()
	}
	if err := schema.Migrate(gdb.WithContext(ctx)); err != nil {
		return CreateSchemaError(err)
	}
	return m.searchIndexes(ctx, gdb)
}

// Migrate brings an existing database to the current models. Existing
// rows are kept.
func (m *manager) Migrate(ctx context.Context) error {
	gdb := m.operator.DB()
	if gdb == nil {
		return NotConnectedError()
	}
	if err := schema.Migrate(gdb.WithContext(ctx)); err != nil {
		return MigrateSchemaError(err)
	}
	if err := backfillSearchKeys(ctx, gdb); err != nil {
		return MigrateSchemaError(err)
	}
	return m.searchIndexes(ctx, gdb)
}

// searchIndexes adds trigram indexes on PostgreSQL. Without the pg_trgm
// extension the search still works, only slower, so a missing extension
// is logged and skipped.
func (m *manager) searchIndexes(ctx context.Context, gdb *gorm.DB) error {
	if m.operator.Driver() != "postgres" {
		return nil
	}
	gdb = gdb.WithContext(ctx)

	err := gdb.Exec("CREATE EXTENSION IF NOT EXISTS pg_trgm").Error
	if err != nil {
		slog.Warn("pg_trgm is not available, search indexes skipped",
			"error", err)
		return nil
	}

	for _, v := range trigramIndexes {
		if err = gdb.Exec(v.sql()).Error; err != nil {
			return IndexError(v.name, err)
		}
	}
	slog.Info("Search indexes are ready", "indexes", len(trigramIndexes))
	return nil
}

// backfillSearchKeys fills search keys of rows written before the column
// existed.
func backfillSearchKeys(ctx context.Context, gdb *gorm.DB) error {
	gdb = gdb.WithContext(ctx)
	var n int64

	var movies []schema.Movie
	res := gdb.Where("search_key = ''").FindInBatches(&movies, 500,
		func(*gorm.DB, int) error {
			for i := range movies {
				err := gdb.Model(&movies[i]).
					UpdateColumn("search_key", movies[i].SearchText()).Error
				if err != nil {
					return err
				}
			}
			n += int64(len(movies))
			return nil
		})
	if res.Error != nil {
		return res.Error
	}

	var actors []schema.Actor
	if err := gdb.Where("search_key = ''").Find(&actors).Error; err != nil {
		return err
	}
	for _, v := range actors {
		err := gdb.Model(&schema.Actor{}).Where("id = ?", v.ID).
			UpdateColumn("search_key", schema.Squash(v.Name)).Error
		if err != nil {
			return err
		}
	}

	var genres []schema.Genre
	if err := gdb.Where("search_key = ''").Find(&genres).Error; err != nil {
		return err
	}
	for _, v := range genres {
		err := gdb.Model(&schema.Genre{}).Where("id = ?", v.ID).
			UpdateColumn("search_key", schema.Squash(v.Name)).Error
		if err != nil {
			return err
		}
	}

	n += int64(len(actors) + len(genres))
	if n > 0 {
		slog.Info("Search keys filled", "rows", n)
	}
	return nil
}
