package cmd

import (
	"github.com/spf13/cobra"

	"github.com/vippsas/wikiparse/filewriter"
	"github.com/vippsas/wikiparse/xmldump"
)

var xml2wikiCmd = &cobra.Command{
	Use:   "xml2wiki <dump.xml[.gz|.bz2]>",
	Short: "Extract raw wikitext bodies from a MediaWiki XML dump",
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(args) != 1 {
			_ = cmd.Help()
			return usageErrorf("xml2wiki takes exactly one dump argument")
		}

		in, err := openInput(args[0])
		if err != nil {
			return err
		}
		defer in.Close()

		out, err := openSink()
		if err != nil {
			return err
		}
		defer out.Close()

		driver := &xmldump.Driver{}
		return driver.Run(in, func(page xmldump.Page, rev xmldump.Revision) error {
			body, err := maybeGzip([]byte(rev.Text))
			if err != nil {
				return err
			}
			return out.Write(filewriter.Record{PageID: page.PageID, Title: page.Title, Body: string(body)})
		})
	},
}

func init() {
	rootCmd.AddCommand(xml2wikiCmd)
}
