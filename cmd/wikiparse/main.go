package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/vippsas/wikiparse/cmd/wikiparse/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		var usageErr *cmd.UsageError
		if errors.As(err, &usageErr) {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(100)
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
