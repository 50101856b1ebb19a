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
	"strconv"
	"strings"

	"github.com/gnames/gn"
	"github.com/spf13/cobra"
)

func getDetailCmd() *cobra.Command {
	var (
		region string
		asJSON bool
	)

	detailCmd := &cobra.Command{
		Use:   "detail <id>",
		Short: "Show a catalog movie with cast, genres and OTT offers",
		Long: `Show a catalog movie with genres, cast, stills and the OTT offers of
a region.

Offers stored in the catalog are shown first. When the catalog has none
for the region, live offers are requested from the availability graph.

Examples:
  filmdb detail 42
  filmdb detail --region US --json 42`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseUint(args[0], 10, 64)
			if err != nil || id == 0 {
				err = invalidFlagError("id", args[0], "use a positive number")
				gn.PrintErrorMessage(err)
				return err
			}

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

			d, err := svc.detail.Get(ctx, uint(id), region)
			if err != nil {
				gn.PrintErrorMessage(err)
				return err
			}

			w := cmd.OutOrStdout()
			if asJSON {
				return printJSON(w, d)
			}

			m := d.Movie
			tw := newTable(w)
			fmt.Fprintf(tw, "Title\t%s\n", m.Title)
			fmt.Fprintf(tw, "Original title\t%s\n", str(m.OriginalTitle))
			fmt.Fprintf(tw, "Released\t%s\n", str(m.ReleaseDate))
			fmt.Fprintf(tw, "Runtime\t%s min\n", num(m.RuntimeMinutes))
			fmt.Fprintf(tw, "Rating\t%s\n", str(m.AgeRating))
			fmt.Fprintf(tw, "Director\t%s\n", str(m.Director))
			fmt.Fprintf(tw, "Genres\t%s\n", strings.Join(d.Genres, ", "))
			for i, v := range d.Cast {
				label := ""
				if i == 0 {
					label = "Cast"
				}
				fmt.Fprintf(tw, "%s\t%s (%s)\n", label, v.Name, str(v.CharacterName))
			}
			for i, v := range d.Offers {
				label := ""
				if i == 0 {
					label = "Offers " + d.Region
					if d.Live {
						label += " (live)"
					}
				}
				fmt.Fprintf(tw, "%s\t%s %s\t%s\n", label, v.ProviderName, v.Type, v.LinkURL)
			}
			fmt.Fprintf(tw, "Stills\t%d\n", len(d.Stills))
			return tw.Flush()
		},
	}

	f := detailCmd.Flags()
	f.StringVarP(&region, "region", "r", "", "offer region (default: first watch region)")
	f.BoolVar(&asJSON, "json", false, "print the detail as JSON")
	return detailCmd
}
