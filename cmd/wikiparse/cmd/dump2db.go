package cmd

import (
	"context"
	"sync"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/vippsas/wikiparse/xmldump"
)

var dump2dbWorkers int

var dump2dbCmd = &cobra.Command{
	Use:   "dump2db <store> <dump.xml[.gz|.bz2]>",
	Short: "Load a MediaWiki XML dump into a configured content store",
	Long:  "Reads every page/revision of a dump and writes it to the named store (see wikiparse.yaml), per §6's add_page/add_content.",
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(args) != 2 {
			_ = cmd.Help()
			return usageErrorf("dump2db takes exactly two arguments: <store> <dump>")
		}
		storeName, dumpPath := args[0], args[1]

		ctx := context.Background()
		st, err := openStore(ctx, storeName)
		if err != nil {
			return err
		}
		defer st.Close()

		in, err := openInput(dumpPath)
		if err != nil {
			return err
		}
		defer in.Close()

		var mu sync.Mutex
		seenPages := map[int64]bool{}
		driver := &xmldump.Driver{Workers: dump2dbWorkers, Logger: logrus.StandardLogger()}
		return driver.Run(in, func(page xmldump.Page, rev xmldump.Revision) error {
			mu.Lock()
			isNew := !seenPages[page.PageID]
			seenPages[page.PageID] = true
			mu.Unlock()
			if isNew {
				if err := st.AddPage(ctx, page.PageID, page.Title); err != nil {
					return err
				}
			}
			return st.AddContent(ctx, page.PageID, rev.RevID, rev.Timestamp, []byte(rev.Text))
		})
	},
}

func init() {
	dump2dbCmd.Flags().IntVar(&dump2dbWorkers, "workers", 1, "number of concurrent page processors")
	rootCmd.AddCommand(dump2dbCmd)
}
