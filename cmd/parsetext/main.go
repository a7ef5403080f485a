package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/receiptiq/receiptiq/internal/parser"
)

// parsetext runs the heuristic parser over a single text document and
// prints the structured record as JSON. Reads a file argument, or stdin
// when none is given. Handy for eyeballing what a given OCR dump parses to.
func main() {
	var (
		withTrace = flag.Bool("trace", false, "print extraction trace to stderr")
		pretty    = flag.Bool("pretty", true, "indent the JSON output")
	)
	flag.Parse()

	raw, err := readInput(flag.Arg(0))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	var opts []parser.Option
	if *withTrace {
		opts = append(opts, parser.WithTrace(func(tr *parser.Trace) {
			bs, err := json.MarshalIndent(tr, "", "  ")
			if err != nil {
				return
			}
			fmt.Fprintln(os.Stderr, string(bs))
		}))
	}

	fields := parser.New(opts...).Parse(string(raw))

	var bs []byte
	if *pretty {
		bs, err = json.MarshalIndent(fields, "", "  ")
	} else {
		bs, err = json.Marshal(fields)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	fmt.Println(string(bs))
}

func readInput(path string) ([]byte, error) {
	if path == "" || path == "-" {
		return io.ReadAll(os.Stdin)
	}
	return os.ReadFile(path)
}
