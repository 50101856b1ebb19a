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
	"time"

	"github.com/dustin/go-humanize"
	"github.com/filmograph/filmdb/internal/ioboxoffice"
	"github.com/gnames/gn"
	"github.com/spf13/cobra"
)

func getBoxOfficeCmd() *cobra.Command {
	var (
		date   string
		asJSON bool
	)

	boxOfficeCmd := &cobra.Command{
		Use:   "boxoffice",
		Short: "Show the daily box office top 10",
		Long: `Show the daily box office top 10 matched with catalog movies.

The chart of yesterday in the schedule timezone is shown unless --date
is given. Titles are matched with the catalog, posters come from the
general movie database.

Examples:
  filmdb boxoffice
  filmdb boxoffice --date 2025-05-30`,
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

			var res []ioboxoffice.Entry
			if date == "" {
				res, err = svc.boxOffice.Yesterday(ctx)
			} else {
				var day time.Time
				day, err = time.Parse(time.DateOnly, date)
				if err != nil {
					err = invalidFlagError("--date", date, "use YYYY-MM-DD")
				} else {
					res, err = svc.boxOffice.Daily(ctx, day)
				}
			}
			if err != nil {
				gn.PrintErrorMessage(err)
				return err
			}

			w := cmd.OutOrStdout()
			if asJSON {
				return printJSON(w, res)
			}

			tw := newTable(w)
			fmt.Fprintln(tw, "RANK\tTITLE\tOPENED\tAUDIENCE\tSALES\tMOVIE ID")
			for _, v := range res {
				id := "-"
				if v.MovieID != nil {
					id = fmt.Sprint(*v.MovieID)
				}
				fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\t%s\n",
					v.Rank, v.Title, v.OpenDate,
					humanize.Comma(v.AudiAcc), humanize.Comma(v.SalesAcc), id)
			}
			return tw.Flush()
		},
	}

	f := boxOfficeCmd.Flags()
	f.StringVarP(&date, "date", "d", "", "chart date YYYY-MM-DD (default: yesterday)")
	f.BoolVar(&asJSON, "json", false, "print the chart as JSON")
	return boxOfficeCmd
}
