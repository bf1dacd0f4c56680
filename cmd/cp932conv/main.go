// Command cp932conv converts a file's text encoding between CP932
// (Shift-JIS with Microsoft's extensions) and UTF-8, replacing
// unsupported sequences rather than failing on them.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/illusory-dept/nskit/pkg/cp932"
)

func main() {
	in := flag.String("in", "", "input file (required)")
	out := flag.String("out", "", "output file (required)")
	toUTF8 := flag.Bool("to-utf8", true, "convert CP932 -> UTF-8 (false converts UTF-8 -> CP932)")
	flag.Parse()

	if *in == "" || *out == "" {
		fmt.Fprintln(os.Stderr, "usage: cp932conv -in FILE -out FILE [-to-utf8=false]")
		os.Exit(2)
	}

	data, err := os.ReadFile(*in)
	if err != nil {
		fmt.Fprintf(os.Stderr, "cp932conv: %v\n", err)
		os.Exit(1)
	}

	var result []byte
	if *toUTF8 {
		result = []byte(cp932.Decode(data))
	} else {
		result = cp932.Encode(string(data))
	}

	if err := os.WriteFile(*out, result, 0o644); err != nil {
		fmt.Fprintf(os.Stderr, "cp932conv: %v\n", err)
		os.Exit(1)
	}
}
