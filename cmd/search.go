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
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/filmograph/filmdb/internal/iocatalog"
	"github.com/gnames/gn"
	"github.com/spf13/cobra"
)

func getSearchCmd() *cobra.Command {
	var (
		filters iocatalog.Filters
		page    int
		size    int
		asJSON  bool
	)

	searchCmd := &cobra.Command{
		Use:   "search [query]",
		Short: "Search the catalog",
		Long: `Search movies by title, original title, director, actor or genre.

Case and spaces are ignored. When the first page of a query has too few
matches, new movies are fetched from the general movie database before
the catalog is searched again. Without a query all movies are listed.

Sort orders: id_desc, id_asc, title_asc, title_desc, year_asc, year_desc.

Examples:
  filmdb search parasite
  filmdb search --from 2000 --to 2009 --sort year_asc bong
  filmdb search --page 1 --size 50`,
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

			if size <= 0 {
				size = cfg.Search.PageSize
			}
			query := strings.Join(args, " ")
			res, err := svc.searcher.Search(ctx, query, filters, page, size)
			if err != nil {
				gn.PrintErrorMessage(err)
				return err
			}

			w := cmd.OutOrStdout()
			if asJSON {
				return printJSON(w, res)
			}

			tw := newTable(w)
			fmt.Fprintln(tw, "ID\tTITLE\tYEAR\tDIRECTOR")
			for _, v := range res.Items {
				fmt.Fprintf(tw, "%d\t%s\t%s\t%s\n",
					v.ID, v.Title, num(v.ReleaseYear), str(v.Director))
			}
			if err = tw.Flush(); err != nil {
				return err
			}
			gn.Info("Page <em>%d</em>, %s of %s movies",
				res.Number, humanize.Comma(int64(len(res.Items))),
				humanize.Comma(res.Total))
			return nil
		},
	}

	f := searchCmd.Flags()
	f.IntVar(&filters.YearFrom, "from", 0, "earliest release year")
	f.IntVar(&filters.YearTo, "to", 0, "latest release year")
	f.StringVarP(&filters.Sort, "sort", "s", iocatalog.SortIDDesc, "sort order")
	f.IntVar(&page, "page", 0, "page number, starting at 0")
	f.IntVar(&size, "size", 0, "page size (default from config)")
	f.BoolVar(&asJSON, "json", false, "print results as JSON")
	return searchCmd
}
