package ioreconcile

import (
	"context"
	"log/slog"
	"sync/atomic"

	"github.com/cheggaaa/pb/v3"
	"github.com/filmograph/filmdb/pkg/provider"
	"golang.org/x/sync/errgroup"
)

// Importer pulls curated lists of the general movie database into the
// catalog.
type Importer struct {
	engine   *Engine
	lists    provider.ListSource
	jobs     int
	progress bool
}

// NewImporter creates an Importer that fetches details with jobs
// concurrent workers. When progress is true a progress bar is shown.
func NewImporter(
	engine *Engine,
	lists provider.ListSource,
	jobs int,
	progress bool,
) *Importer {
	return &Importer{
		engine:   engine,
		lists:    lists,
		jobs:     max(jobs, 1),
		progress: progress,
	}
}

// Import reconciles pages 1..pages of a list and returns the number of
// movies created. Failing pages and records are logged and skipped.
func (im *Importer) Import(
	ctx context.Context,
	kind provider.ListKind,
	pages int,
) (int, error) {
	ids := im.collect(ctx, kind, pages)
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	if len(ids) == 0 {
		return 0, nil
	}

	var bar *pb.ProgressBar
	if im.progress {
		bar = pb.Full.Start(len(ids))
		bar.Set("prefix", "Importing "+string(kind)+": ")
		bar.Set(pb.CleanOnFinish, true)
		defer bar.Finish()
	}

	chIn := make(chan int64)
	var created atomic.Int64
	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		defer close(chIn)
		for _, id := range ids {
			select {
			case <-gCtx.Done():
				return gCtx.Err()
			case chIn <- id:
			}
		}
		return nil
	})

	for range im.jobs {
		g.Go(func() error {
			for id := range chIn {
				if im.importOne(gCtx, id) == Created {
					created.Add(1)
				}
				if bar != nil {
					bar.Increment()
				}
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return int(created.Load()), err
	}

	res := int(created.Load())
	slog.Info("Import finished", "list", kind, "pages", pages,
		"records", len(ids), "created", res)
	return res, nil
}

// collect returns unique external ids of the list pages in list order.
func (im *Importer) collect(
	ctx context.Context,
	kind provider.ListKind,
	pages int,
) []int64 {
	seen := make(map[int64]struct{})
	var res []int64
	for page := 1; page <= pages; page++ {
		if ctx.Err() != nil {
			return res
		}
		p, err := im.lists.List(ctx, kind, page)
		if err != nil {
			slog.Warn("Cannot fetch list page",
				"list", kind, "page", page, "error", err)
			continue
		}
		for _, r := range p.Results {
			if r.ExternalID == nil {
				continue
			}
			if _, ok := seen[*r.ExternalID]; ok {
				continue
			}
			seen[*r.ExternalID] = struct{}{}
			res = append(res, *r.ExternalID)
		}
		if page >= p.TotalPages {
			break
		}
	}
	return res
}

func (im *Importer) importOne(ctx context.Context, id int64) Outcome {
	rec, err := im.engine.movies.Detail(ctx, id)
	if err != nil {
		slog.Warn("Cannot fetch movie detail", "tmdb_id", id, "error", err)
		return ""
	}
	_, outcome, err := im.engine.reconcile(ctx, rec)
	if err != nil {
		slog.Warn("Cannot reconcile movie", "tmdb_id", id, "error", err)
		return ""
	}
	return outcome
}
