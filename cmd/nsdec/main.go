// Command nsdec XORs a file's bytes against 0x84, the inverse of the
// nscript.dat container transform. It is used to prepare a plaintext
// script for loading by a container that expects the XOR-0x84 mode, or
// to recover plaintext from one that already uses it.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/illusory-dept/nskit/pkg/consts"
)

func main() {
	in := flag.String("in", "", "input file (required)")
	out := flag.String("out", "", "output file (required)")
	flag.Parse()

	if *in == "" || *out == "" {
		fmt.Fprintln(os.Stderr, "usage: nsdec -in FILE -out FILE")
		os.Exit(2)
	}

	data, err := os.ReadFile(*in)
	if err != nil {
		fmt.Fprintf(os.Stderr, "nsdec: %v\n", err)
		os.Exit(1)
	}

	for i, b := range data {
		data[i] = b ^ consts.XORKey
	}

	if err := os.WriteFile(*out, data, 0o644); err != nil {
		fmt.Fprintf(os.Stderr, "nsdec: %v\n", err)
		os.Exit(1)
	}
}
