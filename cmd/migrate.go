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
	"github.com/filmograph/filmdb/internal/ioschema"
	"github.com/gnames/gn"
	"github.com/spf13/cobra"
)

func getMigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Bring an existing schema up to date",
		Long: `Add tables, columns and indexes that newer versions of filmdb
expect. Rows are kept and nothing is dropped.

An empty database is left alone; use 'filmdb create' for it.

Examples:
  filmdb migrate`,
		RunE: func(cmd *cobra.Command, args []string) error {
			err := runMigrate()
			if err != nil {
				gn.PrintErrorMessage(err)
			}
			return err
		},
	}
}

func runMigrate() error {
	ctx, cancel := signalContext()
	defer cancel()

	op, err := connect(ctx)
	if err != nil {
		return err
	}
	defer op.Close()

	populated, err := op.HasTables(ctx)
	if err != nil {
		return err
	}
	if !populated {
		gn.Warn("No tables found, run 'filmdb create' instead.")
		return nil
	}

	if err = ioschema.NewManager(op).Migrate(ctx); err != nil {
		return err
	}
	gn.Info("Schema is up to date")
	return nil
}
