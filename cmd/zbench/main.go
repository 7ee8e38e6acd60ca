// Command zbench compares the throughput of zlib engines on a corpus.
//
// Usage:
//
//	zbench deflate-all <level> <corpus-path>
//	zbench inflate-all [--raw] [--level N] <corpus-path>
//	zbench deflate <level> <engine> <corpus-path>
//	zbench inflate [--raw] [--level N] <engine> <corpus-path>
//	zbench levels [--levels 1,6,9] <corpus-path>
//	zbench prepare <level> <input> <output>
//	zbench engines
//
// The report is written to stdout, diagnostics to stderr.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"

	"github.com/arloliu/zbench/engine"
	"github.com/arloliu/zbench/errs"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	return newApp(stdout, stderr, engine.DefaultRegistry()).execute(ctx, args)
}

// printError writes the one-line diagnostic for a fatal error.
func printError(w io.Writer, err error) {
	cause := strings.ReplaceAll(err.Error(), "\n", "; ")

	component := errs.Component(err)
	if component == "zbench" {
		fmt.Fprintf(w, "zbench: %s\n", cause)
		return
	}

	fmt.Fprintf(w, "zbench: %s: %s\n", component, cause)
}
