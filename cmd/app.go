package cmd

import (
	"context"

	"github.com/filmograph/filmdb/internal/ioavail"
	"github.com/filmograph/filmdb/internal/ioboxoffice"
	"github.com/filmograph/filmdb/internal/iocatalog"
	"github.com/filmograph/filmdb/internal/iodb"
	"github.com/filmograph/filmdb/internal/iodetail"
	"github.com/filmograph/filmdb/internal/iokmdb"
	"github.com/filmograph/filmdb/internal/iokobis"
	"github.com/filmograph/filmdb/internal/ioranking"
	"github.com/filmograph/filmdb/internal/ioreconcile"
	"github.com/filmograph/filmdb/internal/ioschedule"
	"github.com/filmograph/filmdb/internal/iosearch"
	"github.com/filmograph/filmdb/internal/iotmdb"
	"github.com/filmograph/filmdb/internal/ioweekly"
	"github.com/filmograph/filmdb/pkg/config"
	"github.com/filmograph/filmdb/pkg/db"
	"github.com/gnames/gn"
)

// connect opens the configured database. Relative SQLite paths are
// resolved against the cache directory.
func connect(ctx context.Context) (db.Operator, error) {
	dbCfg := cfg.Database
	if dbCfg.Driver == "sqlite" {
		dbCfg.SQLitePath = config.SQLiteFilePath(cfg.HomeDir, dbCfg.SQLitePath)
	}

	op := iodb.NewOperator(dbCfg.Driver)
	if err := op.Connect(ctx, &dbCfg); err != nil {
		return nil, err
	}

	if dbCfg.Driver == "sqlite" {
		gn.Info("Connected to database: <em>%s</em>", dbCfg.SQLitePath)
	} else {
		gn.Info("Connected to database: <em>%s@%s:%d/%s</em>",
			dbCfg.User, dbCfg.Host, dbCfg.Port, dbCfg.Database)
	}
	return op, nil
}

// services wires providers and stores around one database connection.
type services struct {
	store     *iocatalog.Store
	engine    *ioreconcile.Engine
	importer  *ioreconcile.Importer
	searcher  *iosearch.Searcher
	detail    *iodetail.Service
	ranking   *ioranking.Store
	weekly    *ioweekly.Ingester
	boxOffice *ioboxoffice.Service
}

func newServices(op db.Operator, progress bool) (*services, error) {
	loc, err := ioschedule.LoadLocation(cfg.Schedule.Timezone)
	if err != nil {
		return nil, err
	}

	gdb := op.DB()
	tmdb := iotmdb.New(cfg.Providers)
	avail := ioavail.New(cfg.Providers)
	store := iocatalog.New(gdb)
	engine := ioreconcile.New(cfg, store, tmdb, iokmdb.New(cfg.Providers))

	var region string
	if len(cfg.Reconcile.WatchRegions) > 0 {
		region = cfg.Reconcile.WatchRegions[0]
	}

	return &services{
		store:     store,
		engine:    engine,
		importer:  ioreconcile.NewImporter(engine, tmdb, cfg.JobsNumber, progress),
		searcher:  iosearch.New(cfg.Search, store, tmdb, engine),
		detail:    iodetail.New(store, tmdb, avail, region),
		ranking:   ioranking.New(cfg, gdb, tmdb),
		weekly:    ioweekly.New(cfg, gdb),
		boxOffice: ioboxoffice.New(store, iokobis.New(cfg.Providers), tmdb, loc),
	}, nil
}
