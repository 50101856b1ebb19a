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
	"fmt"

	"github.com/filmograph/filmdb/internal/ioranking"
	"github.com/gnames/gn"
	"github.com/spf13/cobra"
)

func getRankingCmd() *cobra.Command {
	rankingCmd := &cobra.Command{
		Use:   "ranking",
		Short: "Refresh and show regional movie rankings",
		Long: `Ranking snapshots keep the top movies of configured regions.

Every refresh appends a new snapshot, readers always see the newest
complete one. Regions are configured in the ranking section of
config.yaml.`,
	}
	rankingCmd.AddCommand(getRankingRefreshCmd(), getRankingLatestCmd())
	return rankingCmd
}

func getRankingRefreshCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "refresh [region...]",
		Short: "Take new ranking snapshots",
		Long: `Take new ranking snapshots of the given regions, of all configured
regions when none is given. A failing region does not stop the others.

Examples:
  filmdb ranking refresh
  filmdb ranking refresh KR US`,
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

			regions := args
			if len(regions) == 0 {
				regions = svc.ranking.Regions()
			}

			var res error
			for _, region := range regions {
				n, err := svc.ranking.Refresh(ctx, region)
				if err != nil {
					gn.PrintErrorMessage(err)
					res = err
					continue
				}
				gn.Info("Region <em>%s</em>: %d movies", region, n)
			}
			return res
		},
	}
}

func getRankingLatestCmd() *cobra.Command {
	var asJSON bool

	latestCmd := &cobra.Command{
		Use:   "latest <region>",
		Short: "Show the newest ranking snapshot of a region",
		Args:  cobra.ExactArgs(1),
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

			rows, err := svc.ranking.LatestLinked(ctx, args[0], svc.store)
			if err != nil {
				gn.PrintErrorMessage(err)
				return err
			}
			if len(rows) == 0 {
				gn.Warn("No snapshot of <em>%s</em> yet. Run 'filmdb ranking refresh'.",
					args[0])
				return nil
			}
			return printRanking(cmd, rows, asJSON)
		},
	}

	latestCmd.Flags().BoolVar(&asJSON, "json", false, "print rows as JSON")
	return latestCmd
}

func printRanking(cmd *cobra.Command, rows []ioranking.Entry, asJSON bool) error {
	w := cmd.OutOrStdout()
	if asJSON {
		return printJSON(w, rows)
	}

	tw := newTable(w)
	fmt.Fprintln(tw, "RANK\tTITLE\tTMDB ID\tMOVIE ID")
	for _, v := range rows {
		var id *int64
		if v.MovieID != nil {
			id = new(int64)
			*id = int64(*v.MovieID)
		}
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\n",
			v.RankValue, v.Title, num(v.TMDBID), num(id))
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	gn.Info("Snapshot of <em>%s</em> taken at %s",
		rows[0].Region, rows[0].SnapshotAt.Format("2006-01-02 15:04:05 MST"))
	return nil
}
