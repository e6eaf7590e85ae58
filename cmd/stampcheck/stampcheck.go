// stampcheck reports comparisons, divisions and shifts whose outcome is
// fixed by the values their operands can take.
package main

import (
	"fmt"
	"io"
	"log"
	"os"
	"strings"

	"honnef.co/go/stamps/stampcheck"
	"honnef.co/go/stamps/version"

	"golang.org/x/tools/go/analysis"
	"golang.org/x/tools/go/analysis/multichecker"
)

// handleFlags handles the flags that multichecker doesn't know about.
// It reports whether one of them was found.
func handleFlags(w io.Writer, args []string) (bool, error) {
	for i, arg := range args {
		if !strings.HasPrefix(arg, "-") || arg == "--" {
			return false, nil
		}
		switch strings.TrimPrefix(strings.TrimPrefix(arg, "-"), "-") {
		case "version":
			version.Print(w)
			return true, nil
		case "debug.version":
			version.Verbose(w)
			return true, nil
		case "explain":
			if i+1 >= len(args) {
				return true, fmt.Errorf("-explain needs a check name")
			}
			return true, explain(w, args[i+1])
		}
	}
	return false, nil
}

func explain(w io.Writer, check string) error {
	for _, a := range stampcheck.Analyzers {
		if a.Analyzer.Name == check {
			fmt.Fprint(w, a.Analyzer.Doc)
			return nil
		}
	}
	return fmt.Errorf("no such check: %s", check)
}

func main() {
	log.SetFlags(0)

	handled, err := handleFlags(os.Stdout, os.Args[1:])
	if err != nil {
		log.Fatal(err)
	}
	if handled {
		os.Exit(0)
	}

	analyzers := make([]*analysis.Analyzer, len(stampcheck.Analyzers))
	for i, a := range stampcheck.Analyzers {
		analyzers[i] = a.Analyzer
	}
	multichecker.Main(analyzers...)
}
