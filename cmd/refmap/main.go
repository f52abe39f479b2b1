// refmap matches textual references to document paths: fuzzy search over
// a documents folder, bulk auto-matching of reference lists, and a
// mapping store that keeps claimed paths out of later suggestions.
package main

import (
	"os"

	"github.com/drew/refmap/cmd/refmap/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		if code := cmd.ExitCode(err); code >= 0 {
			os.Exit(code)
		}
		os.Exit(1)
	}
}
