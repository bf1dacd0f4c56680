package nslex

import "strings"

// runPrepass drives the tokenizer over the whole assembled source once,
// before any token consumption begins, registering every
// "numalias name,value" and "dim ?no[...]" declaration it finds. It
// never executes control flow, and it restores the cursor to its prior
// position when done.
func (lx *Lexer) runPrepass() {
	saved := lx.save()
	defer lx.restore(saved)

	lx.pos = 0
	lx.line = 1
	lx.end = EndNone

	for {
		tok := lx.Next()
		if tok.Kind == TokEOF {
			return
		}
		if tok.Kind != TokCmd {
			continue
		}
		switch tok.Text {
		case "numalias":
			lx.prepassNumAlias()
		case "dim":
			lx.prepassDim()
		}
	}
}

// peekWordLower returns the lowercased identifier run at the cursor
// without consuming it.
func (lx *Lexer) peekWordLower() string {
	i := lx.pos
	for i < len(lx.text) && isIdentByte(lx.text[i]) {
		i++
	}
	return strings.ToLower(lx.text[lx.pos:i])
}

// prepassNumAlias handles "numalias name,value" (the comma is
// conventional; plain whitespace works too).
func (lx *Lexer) prepassNumAlias() {
	lx.skipHSpace()
	name := lowerASCII(lx.readIdent())
	if name == "" {
		return
	}
	lx.skipHSpace()
	if b, ok := lx.peekByte(); ok && b == ',' {
		lx.pos++
	}
	v, err := lx.parseIntExpr()
	if err != nil {
		return
	}
	lx.numalias[name] = v
}

// prepassDim handles "dim ?no[d1][d2]...", allocating an array whose
// per-dimension size is one larger than each declared maximum index.
func (lx *Lexer) prepassDim() {
	lx.skipHSpace()
	b, ok := lx.peekByte()
	if !ok || b != '?' {
		return
	}
	lx.pos++

	no, err := lx.parseIntFactor()
	if err != nil {
		return
	}
	declared, err := lx.parseIndexList()
	if err != nil || len(declared) == 0 {
		return
	}

	dims := make([]int, len(declared))
	for i, d := range declared {
		dims[i] = d + 1
	}
	lx.arrays.Declare(no, dims)
}
