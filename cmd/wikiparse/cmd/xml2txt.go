package cmd

import (
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/vippsas/wikiparse/filewriter"
	"github.com/vippsas/wikiparse/xmldump"
)

var xml2txtCmd = &cobra.Command{
	Use:   "xml2txt <dump.xml[.gz|.bz2]>",
	Short: "Parse a MediaWiki XML dump and extract plain text, links or categories (-L/-C)",
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(args) != 1 {
			_ = cmd.Help()
			return usageErrorf("xml2txt takes exactly one dump argument")
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

		driver := &xmldump.Driver{Logger: logrus.StandardLogger()}
		return driver.Run(in, func(page xmldump.Page, rev xmldump.Revision) error {
			root, err := parseWikitext(rev.Text)
			if err != nil {
				return err
			}
			body, err := maybeGzip([]byte(renderTree(root)))
			if err != nil {
				return err
			}
			return out.Write(filewriter.Record{PageID: page.PageID, Title: page.Title, Body: string(body)})
		})
	},
}

func init() {
	rootCmd.AddCommand(xml2txtCmd)
}
