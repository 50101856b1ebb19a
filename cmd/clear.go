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
	"os"

	"github.com/dustin/go-humanize"
	"github.com/filmograph/filmdb/internal/iocatalog"
	"github.com/gnames/gn"
	"github.com/spf13/cobra"
)

func getClearCmd() *cobra.Command {
	var force bool

	clearCmd := &cobra.Command{
		Use:   "clear",
		Short: "Delete all movies from the catalog",
		Long: `Delete all movies together with their genre, cast and OTT links.

Genres, actors, OTT providers, ranking snapshots and weekly charts are
kept. The schema is not changed.

Examples:
  filmdb clear
  filmdb clear --force`,
		RunE: func(cmd *cobra.Command, args []string) error {
			err := runClear(force)
			if err != nil {
				gn.PrintErrorMessage(err)
			}
			return err
		},
	}

	clearCmd.Flags().BoolVarP(&force, "force", "f", false,
		"delete movies without confirmation")
	return clearCmd
}

func runClear(force bool) error {
	ctx, cancel := signalContext()
	defer cancel()

	op, err := connect(ctx)
	if err != nil {
		return err
	}
	defer op.Close()

	store := iocatalog.New(op.DB())
	count, err := store.Count(ctx)
	if err != nil {
		return err
	}
	if count == 0 {
		gn.Info("The catalog is already empty.")
		return nil
	}

	if !force {
		gn.Warn("All <em>%s</em> movies will be deleted.", humanize.Comma(count))
		ok, err := confirm(os.Stdin, os.Stdout, "Do you want to continue?")
		if err != nil {
			return err
		}
		if !ok {
			gn.Info("Nothing changed.")
			return nil
		}
	}

	n, err := store.ClearAll(ctx)
	if err != nil {
		return err
	}
	gn.Info("Deleted <em>%s</em> movies.", humanize.Comma(n))
	return nil
}
