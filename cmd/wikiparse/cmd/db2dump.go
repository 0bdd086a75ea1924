package cmd

import (
	"context"
	"encoding/xml"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/vippsas/wikiparse/store"
)

// xmlOutPage/xmlOutRevision are the write-side counterpart of xmldump's
// internal xmlPage/xmlRevision: db2dump only ever knows a store's
// (pageid, title, revid, content) shape, so the regenerated dump carries a
// strict subset of a real MediaWiki export's elements.
type xmlOutPage struct {
	XMLName   xml.Name         `xml:"page"`
	Title     string           `xml:"title"`
	ID        int64            `xml:"id"`
	Revisions []xmlOutRevision `xml:"revision"`
}

type xmlOutRevision struct {
	ID   int64  `xml:"id"`
	Text string `xml:"text"`
}

var db2dumpCmd = &cobra.Command{
	Use:   "db2dump <store>",
	Short: "Reconstruct a MediaWiki XML dump from a configured content store",
	Long:  "Walks every page and revision id in the named store and re-emits it as <mediawiki><page>... XML, the inverse of dump2db.",
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(args) != 1 {
			_ = cmd.Help()
			return usageErrorf("db2dump takes exactly one argument: <store>")
		}
		storeName := args[0]

		ctx := context.Background()
		st, err := openStore(ctx, storeName)
		if err != nil {
			return err
		}
		defer st.Close()

		var out io.Writer = os.Stdout
		if outputPath != "" && outputPath != "-" {
			f, err := os.Create(outputPath)
			if err != nil {
				return err
			}
			defer f.Close()
			out = f
		}

		return writeDump(ctx, st, out)
	},
}

func writeDump(ctx context.Context, st store.Store, out io.Writer) error {
	if _, err := io.WriteString(out, xml.Header); err != nil {
		return err
	}
	if _, err := io.WriteString(out, "<mediawiki>\n"); err != nil {
		return err
	}

	enc := xml.NewEncoder(out)
	enc.Indent("  ", "  ")

	pageIDs, err := st.PageIDs(ctx)
	if err != nil {
		return err
	}
	defer pageIDs.Close()

	for pageIDs.Next() {
		pageID := pageIDs.Value()
		title, err := st.Title(ctx, pageID)
		if err != nil {
			return err
		}

		revIDs, err := st.RevIDs(ctx, pageID)
		if err != nil {
			return err
		}
		page := xmlOutPage{Title: title, ID: pageID}
		for revIDs.Next() {
			revID := revIDs.Value()
			content, err := st.Content(ctx, revID)
			if err != nil {
				revIDs.Close()
				return err
			}
			page.Revisions = append(page.Revisions, xmlOutRevision{ID: revID, Text: string(content)})
		}
		if err := revIDs.Err(); err != nil {
			revIDs.Close()
			return err
		}
		revIDs.Close()

		if err := enc.Encode(page); err != nil {
			return err
		}
	}
	if err := pageIDs.Err(); err != nil {
		return err
	}

	if err := enc.Flush(); err != nil {
		return err
	}
	_, err = io.WriteString(out, "\n</mediawiki>\n")
	return err
}

func init() {
	rootCmd.AddCommand(db2dumpCmd)
}
