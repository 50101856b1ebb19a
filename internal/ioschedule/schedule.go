// Package ioschedule runs ranking refreshes, weekly ingestion and
// popular imports on cron schedules and on demand.
package ioschedule

import (
	"context"
	"log/slog"
	"time"
	_ "time/tzdata"

	"github.com/filmograph/filmdb/internal/iometrics"
	"github.com/filmograph/filmdb/pkg/config"
	"github.com/filmograph/filmdb/pkg/errcode"
	"github.com/filmograph/filmdb/pkg/provider"
	"github.com/robfig/cron/v3"
	"golang.org/x/sync/errgroup"
)

// Ranker refreshes ranking snapshots.
type Ranker interface {
	Refresh(ctx context.Context, region string) (int, error)
	Regions() []string
}

// WeeklyIngester ingests the weekly spreadsheet.
type WeeklyIngester interface {
	Ingest(ctx context.Context) (int, error)
}

// Importer imports movie lists into the catalog.
type Importer interface {
	Import(ctx context.Context, kind provider.ListKind, pages int) (int, error)
}

// Job is a scheduled unit of work.
type Job struct {
	Name string
	Spec string
	run  func(context.Context) (int, error)
}

// Orchestrator owns the job list and runs it.
type Orchestrator struct {
	jobs    []Job
	loc     *time.Location
	timeout time.Duration
	retries int
	delay   time.Duration

	ranking Ranker
	weekly  WeeklyIngester
}

// New creates an Orchestrator. The importer is optional: without it, or
// without an import schedule, no import job exists.
func New(
	cfg *config.Config,
	ranking Ranker,
	weekly WeeklyIngester,
	importer Importer,
) (*Orchestrator, error) {
	loc, err := LoadLocation(cfg.Schedule.Timezone)
	if err != nil {
		return nil, err
	}

	res := &Orchestrator{
		loc:     loc,
		timeout: time.Duration(cfg.Schedule.JobTimeoutSec) * time.Second,
		retries: max(cfg.Schedule.RetryAttempts, 0),
		delay:   time.Duration(cfg.Schedule.RetryDelaySec) * time.Second,
		ranking: ranking,
		weekly:  weekly,
	}
	if res.timeout <= 0 {
		res.timeout = 10 * time.Minute
	}

	for _, v := range cfg.Ranking.Regions {
		region := v.Code
		res.jobs = append(res.jobs, Job{
			Name: "ranking_" + region,
			Spec: v.Cron,
			run: func(ctx context.Context) (int, error) {
				return ranking.Refresh(ctx, region)
			},
		})
	}
	res.jobs = append(res.jobs, Job{
		Name: "weekly",
		Spec: cfg.Weekly.Cron,
		run:  weekly.Ingest,
	})
	if importer != nil && cfg.Schedule.ImportCron != "" {
		pages := cfg.Schedule.ImportPages
		res.jobs = append(res.jobs, Job{
			Name: "import",
			Spec: cfg.Schedule.ImportCron,
			run: func(ctx context.Context) (int, error) {
				return importer.Import(ctx, provider.Popular, pages)
			},
		})
	}

	for _, v := range res.jobs {
		if _, err := cron.ParseStandard(v.Spec); err != nil {
			return nil, CronError(v.Name, v.Spec, err)
		}
	}
	return res, nil
}

// LoadLocation returns the IANA location tz, UTC when tz is blank.
func LoadLocation(tz string) (*time.Location, error) {
	if tz == "" {
		return time.UTC, nil
	}
	res, err := time.LoadLocation(tz)
	if err != nil {
		return nil, TimezoneError(tz, err)
	}
	return res, nil
}

// Jobs returns the scheduled jobs.
func (o *Orchestrator) Jobs() []Job {
	return o.jobs
}

// Location returns the location of cron specs.
func (o *Orchestrator) Location() *time.Location {
	return o.loc
}

// RunRanking refreshes the ranking of one region now.
func (o *Orchestrator) RunRanking(ctx context.Context, region string) error {
	return o.run(ctx, "ranking_"+region, func(ctx context.Context) (int, error) {
		return o.ranking.Refresh(ctx, region)
	})
}

// RunWeekly ingests the weekly spreadsheet now.
func (o *Orchestrator) RunWeekly(ctx context.Context) error {
	return o.run(ctx, "weekly", o.weekly.Ingest)
}

// RunAll refreshes all regions concurrently and ingests the weekly
// spreadsheet. Every job runs, the first error is returned.
func (o *Orchestrator) RunAll(ctx context.Context) error {
	var g errgroup.Group
	for _, region := range o.ranking.Regions() {
		g.Go(func() error {
			return o.RunRanking(ctx, region)
		})
	}
	g.Go(func() error {
		return o.RunWeekly(ctx)
	})
	return g.Wait()
}

// run executes a job with its own timeout and records the outcome.
// While the job fails because a provider is unavailable it is run again
// with a doubling delay, within the same timeout.
func (o *Orchestrator) run(
	ctx context.Context,
	name string,
	fn func(context.Context) (int, error),
) error {
	ctx, cancel := context.WithTimeout(ctx, o.timeout)
	defer cancel()

	start := time.Now()
	n, err := o.attempt(ctx, name, fn)
	dur := time.Since(start)
	iometrics.JobDuration.WithLabelValues(name).Observe(dur.Seconds())

	if err != nil {
		iometrics.JobRuns.WithLabelValues(name, "failed").Inc()
		slog.Error("Job failed", "job", name, "duration", dur, "error", err)
		return err
	}
	iometrics.JobRuns.WithLabelValues(name, "ok").Inc()
	slog.Info("Job finished", "job", name, "rows", n, "duration", dur)
	return nil
}

func (o *Orchestrator) attempt(
	ctx context.Context,
	name string,
	fn func(context.Context) (int, error),
) (int, error) {
	delay := o.delay
	for i := 0; ; i++ {
		n, err := fn(ctx)
		if err == nil || i >= o.retries ||
			!errcode.Is(err, errcode.UpstreamUnavailableError) {
			return n, err
		}

		iometrics.JobRuns.WithLabelValues(name, "retried").Inc()
		slog.Warn("Provider unavailable, job will be retried",
			"job", name, "attempt", i+1, "delay", delay, "error", err)
		select {
		case <-ctx.Done():
			return n, err
		case <-time.After(delay):
		}
		delay *= 2
	}
}

// Serve runs the cron loop until ctx is done. Running jobs are canceled
// with ctx and awaited.
func (o *Orchestrator) Serve(ctx context.Context) error {
	logger := cronLogger{}
	c := cron.New(
		cron.WithLocation(o.loc),
		cron.WithChain(cron.Recover(logger), cron.SkipIfStillRunning(logger)),
		cron.WithLogger(logger),
	)
	for _, v := range o.jobs {
		_, err := c.AddFunc(v.Spec, func() {
			_ = o.run(ctx, v.Name, v.run)
		})
		if err != nil {
			return CronError(v.Name, v.Spec, err)
		}
	}

	c.Start()
	slog.Info("Scheduler started",
		"jobs", len(o.jobs), "location", o.loc.String())
	<-ctx.Done()
	<-c.Stop().Done()
	slog.Info("Scheduler stopped")
	return ctx.Err()
}

func (o *Orchestrator) String() string {
	return "scheduler"
}

// cronLogger sends cron events to slog.
type cronLogger struct{}

func (cronLogger) Info(msg string, keysAndValues ...any) {
	slog.Debug("cron: "+msg, keysAndValues...)
}

func (cronLogger) Error(err error, msg string, keysAndValues ...any) {
	slog.Error("cron: "+msg, append(keysAndValues, "error", err)...)
}
