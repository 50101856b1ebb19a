/*
Copyright © 2025 Dmitry Mozzherin <dmozzherin@gmail.com>

Permission is hereby granted, free of charge, to any person obtaining a copy
of this software and associated documentation files (the "Software"), to deal
in the Software without restriction, including without limitation the rights
to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
copies of the Software, and to permit persons to whom the Software is
furnished to do so, subject to the following conditions:

The above copyright notice and this permission notice shall be included in
all copies or substantial portions of the Software.

THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN
THE SOFTWARE.
*/
package cmd

import (
	"context"
	"errors"

	"github.com/filmograph/filmdb/internal/ioschedule"
	"github.com/gnames/gn"
	"github.com/spf13/cobra"
)

func getServeCmd() *cobra.Command {
	var runNow bool

	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Run scheduled jobs and expose metrics",
		Long: `Run ranking refreshes, weekly ingestion and, when schedule.import_cron
is set, popular imports on their cron schedules. Prometheus metrics and a
health check are served at metrics.address.

The scheduler and the metrics server are supervised and restarted on
failure. Stop with Ctrl-C, running jobs are canceled and awaited.

Examples:
  filmdb serve
  filmdb serve --run-now`,
		RunE: func(cmd *cobra.Command, args []string) error {
			err := runServe(runNow)
			if err != nil {
				gn.PrintErrorMessage(err)
			}
			return err
		},
	}

	serveCmd.Flags().BoolVar(&runNow, "run-now", false,
		"refresh all rankings and weekly charts before scheduling")
	return serveCmd
}

func runServe(runNow bool) error {
	ctx, cancel := signalContext()
	defer cancel()

	op, err := connect(ctx)
	if err != nil {
		return err
	}
	defer op.Close()

	svc, err := newServices(op, false)
	if err != nil {
		return err
	}

	orch, err := ioschedule.New(cfg, svc.ranking, svc.weekly, svc.importer)
	if err != nil {
		return err
	}

	if runNow {
		gn.Info("Refreshing rankings and weekly charts...")
		if err = orch.RunAll(ctx); err != nil {
			gn.Warn("Some jobs failed, see the log for details.")
		}
	}

	for _, v := range orch.Jobs() {
		gn.Info("Job <em>%s</em>: %s", v.Name, v.Spec)
	}
	gn.Info("Metrics are served at <em>%s</em>", cfg.Metrics.Address)

	sup := ioschedule.NewSupervisor(
		orch,
		ioschedule.NewMetricsServer(cfg.Metrics.Address),
	)
	err = sup.Serve(ctx)
	if errors.Is(err, context.Canceled) {
		gn.Info("Stopped.")
		return nil
	}
	return err
}
