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

	"github.com/filmograph/filmdb/internal/ioschema"
	"github.com/gnames/gn"
	"github.com/spf13/cobra"
)

func getCreateCmd() *cobra.Command {
	var force bool

	createCmd := &cobra.Command{
		Use:   "create",
		Short: "Create the catalog schema",
		Long: `Build every catalog table from the GORM models.

When the database already has tables they are dropped first, after a
confirmation prompt unless --force is given. On PostgreSQL trigram
indexes for title, director and actor search are added as well.

Examples:
  filmdb create
  filmdb create --force
  filmdb --driver sqlite create -f`,
		RunE: func(cmd *cobra.Command, args []string) error {
			err := runCreate(force)
			if err != nil {
				gn.PrintErrorMessage(err)
			}
			return err
		},
	}

	createCmd.Flags().BoolVarP(&force, "force", "f", false,
		"drop existing tables without asking")
	return createCmd
}

func runCreate(force bool) error {
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

	if populated && !force {
		gn.Warn("The database has tables. They will be dropped with all data.")
		ok, err := confirm(os.Stdin, os.Stdout, "Drop them and continue?")
		if err != nil {
			return err
		}
		if !ok {
			gn.Info("Nothing changed.")
			return nil
		}
	}

	if populated {
		if err = op.DropAllTables(ctx); err != nil {
			return err
		}
		gn.Info("Existing tables dropped")
	}

	if err = ioschema.NewManager(op).Create(ctx); err != nil {
		return err
	}

	gn.Info("Schema created on <em>%s</em>", op.Driver())
	gn.Info("Load movies with 'filmdb import', keep charts fresh with 'filmdb serve'")
	return nil
}
