// Command nscli is an interactive tracer over a script container: it
// steps through the token stream one key-press at a time, printing each
// token's kind and text. It is a demo harness, not an interpreter — it
// does not execute commands or follow jump/gosub control flow.
package main

import (
	"flag"
	"fmt"
	"os"

	"golang.org/x/term"

	"github.com/illusory-dept/nskit/pkg/nslex"
	"github.com/illusory-dept/nskit/pkg/option"
)

func main() {
	dir := flag.String("dir", ".", "script container directory")
	flag.Parse()

	lx, err := nslex.Open(*dir, option.WithExpandInText(true))
	if err != nil {
		fmt.Fprintf(os.Stderr, "nscli: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("loaded %s (mode %dx%d, var_range %d)\n", *dir, lx.Config().ScreenWidth, lx.Config().ScreenHeight, lx.Config().VarRange)
	fmt.Println("space/any key: next token   l: jump to label   q: quit")

	fd := int(os.Stdin.Fd())
	oldState, err := term.MakeRaw(fd)
	if err != nil {
		// Not a terminal (e.g. piped input in a test harness); fall back
		// to printing the whole stream non-interactively.
		dumpAll(lx)
		return
	}
	defer term.Restore(fd, oldState)

	buf := make([]byte, 1)
	for {
		n, err := os.Stdin.Read(buf)
		if err != nil || n == 0 {
			return
		}

		switch buf[0] {
		case 'q', 'Q', 3: // 3 = Ctrl-C
			return
		case 'l', 'L':
			term.Restore(fd, oldState)
			fmt.Print("\r\njump to label: ")
			var name string
			fmt.Scanln(&name)
			if err := lx.JumpLabel(name); err != nil {
				fmt.Printf("%v\r\n", err)
			}
			oldState, _ = term.MakeRaw(fd)
		default:
			tok := lx.Next()
			fmt.Printf("\r\n[%s] %q (line %d)", tok.Kind, tok.Text, tok.Line)
			if tok.Kind == nslex.TokEOF {
				fmt.Print("\r\n")
				return
			}
		}
	}
}

func dumpAll(lx *nslex.Lexer) {
	for {
		tok := lx.Next()
		if tok.Kind == nslex.TokEOF {
			return
		}
		fmt.Printf("[%s] %q (line %d)\n", tok.Kind, tok.Text, tok.Line)
	}
}
