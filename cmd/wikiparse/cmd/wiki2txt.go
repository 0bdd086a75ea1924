package cmd

import (
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/vippsas/wikiparse/filewriter"
)

var wiki2txtCmd = &cobra.Command{
	Use:   "wiki2txt [file ...]",
	Short: "Parse raw wikitext file(s) and extract plain text, links or categories (-L/-C)",
	Long:  "Parses one or more standalone wikitext files (or stdin, if none given) and renders plain text, links, categories or a debug tree, per the -L/-C/-d flags.",
	RunE: func(cmd *cobra.Command, args []string) error {
		out, err := openSink()
		if err != nil {
			return err
		}
		defer out.Close()

		if len(args) == 0 {
			return processWikiFile(out, "-", os.Stdin)
		}
		for _, path := range args {
			f, err := os.Open(path)
			if err != nil {
				return err
			}
			err = processWikiFile(out, path, f)
			f.Close()
			if err != nil {
				return err
			}
		}
		return nil
	},
}

func processWikiFile(out sink, name string, r io.Reader) error {
	data, err := io.ReadAll(r)
	if err != nil {
		return err
	}
	root, err := parseWikitext(string(data))
	if err != nil {
		return err
	}
	body, err := maybeGzip([]byte(renderTree(root)))
	if err != nil {
		return err
	}
	return out.Write(filewriter.Record{Title: name, Body: string(body)})
}

func init() {
	rootCmd.AddCommand(wiki2txtCmd)
}
