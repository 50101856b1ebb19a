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
	"strings"

	"github.com/filmograph/filmdb/pkg/schema"
	"github.com/gnames/gn"
	"github.com/spf13/cobra"
)

func getReconcileCmd() *cobra.Command {
	var (
		archive bool
		year    int
		asJSON  bool
	)

	reconcileCmd := &cobra.Command{
		Use:   "reconcile <title>",
		Short: "Find a movie at a provider and merge it into the catalog",
		Long: `Find a movie by title and reconcile the best match with the catalog.

By default the general movie database is searched and the detail of its
first result is reconciled. With --archive the national film archive is
searched instead, optionally narrowed by --year.

A movie already known by its external id is returned as is. A movie
known only by title receives the external id and missing attributes.
Otherwise a new movie is created together with its genres, cast and
OTT links.

Examples:
  filmdb reconcile "Parasite"
  filmdb reconcile --archive --year 2003 "Oldboy"`,
		Args: cobra.MinimumNArgs(1),
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

			title := strings.Join(args, " ")
			var m *schema.Movie
			if archive {
				m, err = svc.engine.ReconcileArchive(ctx, title, year)
			} else {
				m, err = svc.engine.ReconcileQuery(ctx, title)
			}
			if err != nil {
				gn.PrintErrorMessage(err)
				return err
			}

			if asJSON {
				return printJSON(cmd.OutOrStdout(), m)
			}
			gn.Info("Movie <em>%s</em> has catalog id <em>%d</em>", m.Title, m.ID)
			return nil
		},
	}

	f := reconcileCmd.Flags()
	f.BoolVarP(&archive, "archive", "a", false,
		"search the national film archive")
	f.IntVarP(&year, "year", "y", 0, "release year for --archive")
	f.BoolVar(&asJSON, "json", false, "print the movie as JSON")
	return reconcileCmd
}
