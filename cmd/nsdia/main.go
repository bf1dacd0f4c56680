// Command nsdia dumps a script's dialogue as plain text: it drives the
// tokenizer with expansion disabled, replacing the '\' short-wait marker
// with a newline and dropping the '@' click-wait marker entirely.
package main

import (
	"bufio"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/illusory-dept/nskit/pkg/nslex"
	"github.com/illusory-dept/nskit/pkg/option"
)

func main() {
	dir := flag.String("dir", ".", "script container directory")
	flag.Parse()

	lx, err := nslex.Open(*dir, option.WithExpandInText(false))
	if err != nil {
		fmt.Fprintf(os.Stderr, "nsdia: %v\n", err)
		os.Exit(1)
	}

	w := bufio.NewWriter(os.Stdout)
	defer w.Flush()

	for {
		tok := lx.Next()
		if tok.Kind == nslex.TokEOF {
			break
		}
		if tok.Kind != nslex.TokText {
			continue
		}

		text := strings.ReplaceAll(tok.Text, `\`, "\n")
		text = strings.ReplaceAll(text, "@", "")
		if text == "" {
			continue
		}
		fmt.Fprintln(w, text)
	}
}
