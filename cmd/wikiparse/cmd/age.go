package cmd

import (
	"fmt"
	"os"
	"sort"
	"strings"
	"text/tabwriter"

	"github.com/alecthomas/repr"
	"github.com/spf13/cobra"

	"github.com/vippsas/wikiparse/xmldump"
)

var xml2ageCmd = &cobra.Command{
	Use:   "xml2age <dump.xml[.gz|.bz2]>",
	Short: "Histogram of revision age by calendar month",
	Long:  "Buckets every revision of a dump by the calendar month of its timestamp and renders a tabwriter-aligned bar histogram, named but left unspecified by §6.",
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(args) != 1 {
			_ = cmd.Help()
			return usageErrorf("xml2age takes exactly one dump argument")
		}

		in, err := openInput(args[0])
		if err != nil {
			return err
		}
		defer in.Close()

		counts := map[string]int{}
		driver := &xmldump.Driver{}
		if err := driver.Run(in, func(page xmldump.Page, rev xmldump.Revision) error {
			if rev.Timestamp.IsZero() {
				return nil
			}
			counts[rev.Timestamp.Format("2006-01")]++
			return nil
		}); err != nil {
			return err
		}

		if debug {
			fmt.Fprintln(os.Stderr, repr.String(counts, repr.Indent("  ")))
		}

		return renderHistogram(counts)
	},
}

func renderHistogram(counts map[string]int) error {
	months := make([]string, 0, len(counts))
	for m := range counts {
		months = append(months, m)
	}
	sort.Strings(months)

	max := 0
	for _, n := range counts {
		if n > max {
			max = n
		}
	}
	const barWidth = 60

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	defer w.Flush()
	for _, m := range months {
		n := counts[m]
		barLen := barWidth
		if max > 0 {
			barLen = n * barWidth / max
		}
		fmt.Fprintf(w, "%s\t%d\t%s\n", m, n, strings.Repeat("#", barLen))
	}
	return nil
}

func init() {
	rootCmd.AddCommand(xml2ageCmd)
}
