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
	"fmt"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/filmograph/filmdb/internal/iofs"
	"github.com/gnames/gn"
	"github.com/spf13/cobra"
)

func getWeeklyCmd() *cobra.Command {
	weeklyCmd := &cobra.Command{
		Use:   "weekly",
		Short: "Ingest and show weekly top-10 charts",
		Long: `Weekly charts come from the published top-10 spreadsheet. Rows are
keyed by week, category and rank, so ingesting the same file twice
changes nothing.`,
	}
	weeklyCmd.AddCommand(getWeeklyIngestCmd(), getWeeklyLatestCmd())
	return weeklyCmd
}

func getWeeklyIngestCmd() *cobra.Command {
	var file string

	ingestCmd := &cobra.Command{
		Use:   "ingest",
		Short: "Download and upsert the weekly spreadsheet",
		Long: `Download the spreadsheet from weekly.url and upsert its rows.
With --file a local copy is read instead.

Examples:
  filmdb weekly ingest
  filmdb weekly ingest --file all-weeks-global.xlsx`,
		RunE: func(cmd *cobra.Command, args []string) error {
			err := runWeeklyIngest(file)
			if err != nil {
				gn.PrintErrorMessage(err)
			}
			return err
		},
	}

	ingestCmd.Flags().StringVarP(&file, "file", "f", "",
		"local xlsx file to ingest")
	return ingestCmd
}

func runWeeklyIngest(file string) error {
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

	start := time.Now()
	var n int
	if file == "" {
		n, err = svc.weekly.Ingest(ctx)
	} else {
		n, err = ingestFile(ctx, svc, file)
	}
	if err != nil {
		return err
	}

	gn.Info("Upserted <em>%s</em> weekly rows in %s",
		humanize.Comma(int64(n)), elapsed(start))
	return nil
}

func ingestFile(ctx context.Context, svc *services, path string) (int, error) {
	f, err := iofs.Open(path)
	if err != nil {
		return 0, err
	}
	defer f.Close()
	return svc.weekly.IngestReader(ctx, f)
}

func getWeeklyLatestCmd() *cobra.Command {
	var (
		week     string
		category string
		asJSON   bool
	)

	latestCmd := &cobra.Command{
		Use:   "latest",
		Short: "Show the charts of a week",
		Long: `Show the charts of the latest ingested week, or of --week.

Examples:
  filmdb weekly latest
  filmdb weekly latest --week 2025-06-02 --category "Films (English)"`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := signalContext()
			defer cancel()

			op, err := connect(ctx)
			if err != nil {
				gn.PrintErrorMessage(err)
				return err
			}
			defer op.Close()

			svc, err := newServices(op, false)
			if err != nil {
				gn.PrintErrorMessage(err)
				return err
			}

			rows, err := svc.weekly.Week(ctx, week, category)
			if err != nil {
				gn.PrintErrorMessage(err)
				return err
			}
			if len(rows) == 0 {
				gn.Warn("No weekly rows found. Run 'filmdb weekly ingest'.")
				return nil
			}

			w := cmd.OutOrStdout()
			if asJSON {
				return printJSON(w, rows)
			}

			tw := newTable(w)
			fmt.Fprintln(tw, "WEEK\tCATEGORY\tRANK\tTITLE\tSEASON\tVIEWS\tHOURS")
			for _, v := range rows {
				fmt.Fprintf(tw, "%s\t%s\t%d\t%s\t%s\t%s\t%s\n",
					v.WeekStart, v.Category, v.WeeklyRank, v.ShowTitle,
					str(v.SeasonTitle), num(v.WeeklyViews), num(v.WeeklyHours))
			}
			return tw.Flush()
		},
	}

	f := latestCmd.Flags()
	f.StringVarP(&week, "week", "w", "", "week start YYYY-MM-DD (default: latest)")
	f.StringVarP(&category, "category", "c", "", "only this category")
	f.BoolVar(&asJSON, "json", false, "print rows as JSON")
	return latestCmd
}
