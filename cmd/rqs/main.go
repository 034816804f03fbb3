package main

import (
	stderrors "errors"
	"fmt"
	"os"

	"rqs/internal/errors"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "rqs:", err)
		var rerr *errors.RqsError
		if stderrors.As(err, &rerr) {
			for _, fix := range rerr.SuggestedFixes {
				fmt.Fprintln(os.Stderr, "  hint:", fix.Description)
			}
		}
		os.Exit(exitCode(err))
	}
}

// exitCode is 2 for usage errors and 1 for everything else.
func exitCode(err error) int {
	switch errors.CodeOf(err) {
	case errors.InvalidArgument, errors.ConfigInvalid:
		return 2
	}
	return 1
}
