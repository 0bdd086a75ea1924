// Package cmd implements the six-tool CLI surface named in §6:
// xml→wiki, xml→txt, dump→db, db→dump, xml→age, wiki→txt.
package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var (
	rootCmd = &cobra.Command{
		Use:          "wikiparse",
		Short:        "wikiparse",
		SilenceUsage: true,
		Long:         `Parses MediaWiki wikitext and XML dumps into plain text, links and categories.`,
	}

	// Common flags shared by every subcommand (§6).
	outputPath  string
	pathPattern string
	encoding    string
	emitTitle   bool
	gzipContent bool
	linkMode    bool
	categoryMode bool
	debug       bool
	configDir   string
)

// UsageError marks a command-line misuse (bad flags, wrong argument count).
// main.go maps it to exit code 100 (§6: "Exit 0 on success, 100 on usage
// error"), everything else to 1.
type UsageError struct {
	Message string
}

func (e *UsageError) Error() string { return e.Message }

func usageErrorf(format string, args ...interface{}) error {
	return &UsageError{Message: fmt.Sprintf(format, args...)}
}

// Execute runs the requested subcommand. It is called from main.go exactly
// like the root command's own Execute.
func Execute() error {
	rootCmd.PersistentFlags().StringVarP(&outputPath, "output", "o", "-", "output file, or '-' for stdout")
	rootCmd.PersistentFlags().StringVarP(&pathPattern, "pathpat", "P", "", "per-revision output path template, e.g. 'out/{pageid}/{name}.txt'")
	rootCmd.PersistentFlags().StringVarP(&encoding, "encoding", "c", "utf-8", "output character encoding (only utf-8 is supported)")
	rootCmd.PersistentFlags().BoolVarP(&emitTitle, "title", "T", false, "emit a title line before each revision body")
	rootCmd.PersistentFlags().BoolVarP(&gzipContent, "gzip", "Z", false, "gzip-compress written content")
	rootCmd.PersistentFlags().BoolVarP(&linkMode, "links", "L", false, "extract links instead of plain text")
	rootCmd.PersistentFlags().BoolVarP(&categoryMode, "categories", "C", false, "extract categories instead of plain text")
	rootCmd.PersistentFlags().BoolVarP(&debug, "debug", "d", false, "dump the parsed tree instead of normal output")
	rootCmd.PersistentFlags().StringVar(&configDir, "config-dir", ".", "directory containing wikiparse.yaml")
	rootCmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return &UsageError{Message: err.Error()}
	})
	return rootCmd.Execute()
}
