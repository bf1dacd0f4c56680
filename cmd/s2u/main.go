// Command s2u is a fixed-direction shorthand for cp932conv: it converts
// Shift-JIS/CP932 text to UTF-8, as is typically needed to read a
// nscript.dat/nscr_sec.dat script outside the engine.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/illusory-dept/nskit/pkg/cp932"
)

func main() {
	in := flag.String("in", "", "input file (required)")
	out := flag.String("out", "", "output file; defaults to stdout when omitted")
	flag.Parse()

	if *in == "" {
		fmt.Fprintln(os.Stderr, "usage: s2u -in FILE [-out FILE]")
		os.Exit(2)
	}

	data, err := os.ReadFile(*in)
	if err != nil {
		fmt.Fprintf(os.Stderr, "s2u: %v\n", err)
		os.Exit(1)
	}

	converted := cp932.Decode(data)

	if *out == "" {
		fmt.Print(converted)
		return
	}
	if err := os.WriteFile(*out, []byte(converted), 0o644); err != nil {
		fmt.Fprintf(os.Stderr, "s2u: %v\n", err)
		os.Exit(1)
	}
}
