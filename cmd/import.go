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
	"slices"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/filmograph/filmdb/pkg/provider"
	"github.com/gnames/gn"
	"github.com/spf13/cobra"
)

func getImportCmd() *cobra.Command {
	var (
		list  string
		pages int
	)

	importCmd := &cobra.Command{
		Use:   "import",
		Short: "Import a curated movie list into the catalog",
		Long: `Import pages of a curated list of the general movie database.

Details of listed movies are fetched by --jobs concurrent workers and
reconciled with the catalog. Movies that are already known are left as
they are. Failed pages and movies are logged and skipped.

Lists: popular, trending, top_rated, now_playing.

Examples:
  filmdb import
  filmdb import --list top_rated --pages 10 -j 4`,
		RunE: func(cmd *cobra.Command, args []string) error {
			err := runImport(provider.ListKind(list), pages)
			if err != nil {
				gn.PrintErrorMessage(err)
			}
			return err
		},
	}

	f := importCmd.Flags()
	f.StringVarP(&list, "list", "l", string(provider.Popular),
		"list to import")
	f.IntVarP(&pages, "pages", "p", 5, "number of list pages")
	return importCmd
}

func runImport(kind provider.ListKind, pages int) error {
	if !slices.Contains(provider.ListKinds(), kind) {
		return invalidFlagError("--list", string(kind),
			"use popular, trending, top_rated or now_playing")
	}
	if pages < 1 {
		return invalidFlagError("--pages", humanize.Comma(int64(pages)),
			"it must be positive")
	}

	ctx, cancel := signalContext()
	defer cancel()

	op, err := connect(ctx)
	if err != nil {
		return err
	}
	defer op.Close()

	svc, err := newServices(op, true)
	if err != nil {
		return err
	}

	start := time.Now()
	n, err := svc.importer.Import(ctx, kind, pages)
	if err != nil {
		return err
	}
	gn.Info("Imported <em>%s</em> new movies from %s in %s",
		humanize.Comma(int64(n)), kind, elapsed(start))
	return nil
}
