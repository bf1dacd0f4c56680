package nslex

import (
	"strconv"
	"strings"

	"github.com/illusory-dept/nskit/pkg/option"
)

// Next consumes and returns the next token from the cursor. It is
// context-sensitive: the same byte can open a comment, a command, or a
// dialogue run depending on what surrounds it.
func (lx *Lexer) Next() Token {
	lx.end = EndNone
	lx.waitAt = -1

	if lx.pos >= len(lx.text) {
		return Token{Kind: TokEOF, Pos: lx.pos, Line: lx.line, WaitAt: -1}
	}
	lx.skipHSpace()
	if lx.pos >= len(lx.text) {
		return Token{Kind: TokEOF, Pos: lx.pos, Line: lx.line, WaitAt: -1}
	}

	pos := lx.pos
	line := lx.line
	b := lx.text[lx.pos]

	// Comment, or a language-gated line that reads as one: a langjp line
	// under the English gate (and vice versa) is handed back whole so
	// the caller can log or discard it without interpreting its body.
	if b == ';' || lx.gatedLangLine() {
		return lx.lexComment(pos, line)
	}

	switch {
	case b == '*':
		return lx.lexLabel(pos, line)
	case b == '~' || b == ':':
		lx.pos++
		return Token{Kind: TokMark, Text: string(b), Pos: pos, Line: line, WaitAt: -1}
	case b == '\n':
		lx.pos++
		lx.line++
		return Token{Kind: TokNewline, Text: "\n", Pos: pos, Line: line, WaitAt: -1}
	case isIdentStart(b) && lx.identAtCursorIsCommand():
		return lx.lexCmd(pos, line)
	default:
		return lx.lexText(pos, line)
	}
}

// commandKeywords is the set of identifiers recognized as commands
// rather than the start of a dialogue line. A script engine with a
// closed built-in vocabulary disambiguates this way; anything else at
// the cursor is just text to display.
var commandKeywords = map[string]bool{
	"mov": true, "add": true, "sub": true, "if": true, "goto": true,
	"jump": true, "gosub": true, "return": true, "numalias": true,
	"dim": true, "langjp": true, "langen": true, "game": true,
	"select": true, "bgm": true, "bgmstop": true, "click": true,
	"btn": true, "end": true, "mode800": true, "mode400": true,
	"mode320": true, "wait": true,
}

// identAtCursorIsCommand peeks the identifier at the cursor without
// consuming it and checks it against commandKeywords.
func (lx *Lexer) identAtCursorIsCommand() bool {
	return commandKeywords[lx.peekWordLower()]
}

// gatedLangLine reports whether the cursor sits on a langjp/langen
// directive that the fixed language gate excludes.
func (lx *Lexer) gatedLangLine() bool {
	rest := lx.text[lx.pos:]
	if strings.HasPrefix(rest, "langjp") {
		return lx.language == option.LangEnglish
	}
	if strings.HasPrefix(rest, "langen") {
		return lx.language == option.LangJapanese
	}
	return false
}

// Peek returns the next token without consuming it.
func (lx *Lexer) Peek() Token {
	saved := lx.save()
	tok := lx.Next()
	lx.restore(saved)
	return tok
}

// lexComment consumes from the cursor through the end of the line,
// newline included, and returns the whole run as one COMMENT token.
func (lx *Lexer) lexComment(pos, line int) Token {
	for lx.pos < len(lx.text) {
		c := lx.text[lx.pos]
		lx.pos++
		if c == '\n' {
			lx.line++
			break
		}
	}
	return Token{Kind: TokComment, Text: lx.text[pos:lx.pos], Pos: pos, Line: line, WaitAt: -1}
}

// lexLabel consumes a '*'-run followed by an identifier. The token text
// carries a single leading '*' and the lowercased name, matching what
// the label index stores (minus the star).
func (lx *Lexer) lexLabel(pos, line int) Token {
	for lx.pos < len(lx.text) && lx.text[lx.pos] == '*' {
		lx.pos++
	}
	lx.skipHSpace()
	name := strings.ToLower(lx.readIdent())
	lx.eatArgSep()
	return Token{Kind: TokLabel, Text: "*" + name, Pos: pos, Line: line, End: lx.end, WaitAt: -1}
}

func (lx *Lexer) lexCmd(pos, line int) Token {
	name := strings.ToLower(lx.readIdent())
	lx.eatArgSep()
	return Token{Kind: TokCmd, Text: name, Pos: pos, Line: line, End: lx.end, WaitAt: -1}
}

// lexText consumes a TEXT run up to a newline, comment lead, or NUL.
// When ExpandInText is set, '%n', '$n', and '?n[...]' are evaluated and
// spliced into the output immediately; otherwise they are copied
// through verbatim. Multi-byte characters are copied whole so their
// trailing bytes are never mistaken for markers.
func (lx *Lexer) lexText(pos, line int) Token {
	var sb strings.Builder
	hasColor := lx.colorPending
	color := lx.color
	lx.colorPending = false

	for lx.pos < len(lx.text) {
		b := lx.text[lx.pos]
		if b == '\n' || b == ';' || b == 0 {
			break
		}

		if b >= 0x80 {
			// Lead byte of a decoded multi-byte character; copy the whole
			// sequence without inspecting its tail.
			w := utf8SeqLen(b)
			end := lx.pos + w
			if end > len(lx.text) {
				end = len(lx.text)
			}
			sb.WriteString(lx.text[lx.pos:end])
			lx.pos = end
			continue
		}

		if lx.ponscripter && b == '^' {
			rest := lx.text[lx.pos:]
			if strings.HasPrefix(rest, "^@^") {
				// Inline wait marker: emit a plain '@' so downstream
				// consumers keep their click-wait behavior.
				if lx.waitAt == -1 {
					lx.waitAt = sb.Len()
				}
				sb.WriteByte('@')
				lx.pos += 3
				continue
			}
			if strings.HasPrefix(rest, "^~c") && len(rest) >= 5 && isDigit(rest[3]) && rest[4] == '~' {
				c := int(rest[3] - '0')
				lx.pos += 5
				lx.color = c
				if sb.Len() == 0 {
					color = c
					hasColor = true
					continue
				}
				// A color change mid-run closes the current token; the
				// new color takes effect from the next one.
				lx.colorPending = true
				break
			}
			sb.WriteByte('^')
			lx.pos++
			continue
		}

		if b == '@' || b == '\\' {
			if lx.waitAt == -1 {
				lx.waitAt = sb.Len()
			}
			sb.WriteByte(b)
			lx.pos++
			continue
		}

		if lx.expandInText && (b == '%' || b == '$' || b == '?') {
			if lx.expandSigil(&sb, b) {
				continue
			}
		}

		sb.WriteByte(b)
		lx.pos++
	}

	if lx.pos == pos && lx.pos < len(lx.text) {
		lx.pos++ // stray NUL; never stall on it
	}

	lx.eatArgSep()
	return Token{
		Kind: TokText, Text: sb.String(), Pos: pos, Line: line,
		End: lx.end, WaitAt: lx.waitAt, HasColor: hasColor, Color: color,
	}
}

// utf8SeqLen reports the byte length of the UTF-8 sequence led by b.
// The source buffer is always UTF-8 after decoding, whatever the
// container's on-disk encoding was.
func utf8SeqLen(b byte) int {
	switch {
	case b&0xE0 == 0xC0:
		return 2
	case b&0xF0 == 0xE0:
		return 3
	case b&0xF8 == 0xF0:
		return 4
	default:
		return 1
	}
}

// expandSigil attempts to evaluate the %n / $n / ?n[...] reference at
// the cursor into sb, reporting whether it made progress. On a parse
// failure it leaves the cursor untouched so the caller falls back to
// copying the sigil byte literally.
func (lx *Lexer) expandSigil(sb *strings.Builder, sigil byte) bool {
	save := lx.pos
	lx.pos++ // consume sigil

	switch sigil {
	case '%':
		n, err := lx.parseIntFactor()
		if err != nil {
			lx.pos = save
			return false
		}
		sb.WriteString(strconv.Itoa(lx.vars.GetInt(n)))
		return true

	case '$':
		n, err := lx.parseIntFactor()
		if err != nil {
			lx.pos = save
			return false
		}
		v, _ := lx.vars.GetStr(n)
		sb.WriteString(v)
		return true

	case '?':
		n, err := lx.parseIntFactor()
		if err != nil {
			lx.pos = save
			return false
		}
		idx, err := lx.parseIndexList()
		if err != nil {
			lx.pos = save
			return false
		}
		v, err := lx.arrays.Get(n, idx)
		if err != nil {
			lx.pos = save
			return false
		}
		sb.WriteString(strconv.Itoa(v))
		return true
	}
	lx.pos = save
	return false
}

// eatArgSep consumes optional horizontal space, one optional comma, and
// more space after a token, ORing EndComma into the side flags when a
// comma was present. The flags tell the next reader how the previous
// field was terminated.
func (lx *Lexer) eatArgSep() {
	lx.skipHSpace()
	if b, ok := lx.peekByte(); ok && b == ',' {
		lx.end |= EndComma
		lx.pos++
		lx.skipHSpace()
	}
}

// SkipArgSep consumes a comma argument separator at the cursor (after
// horizontal whitespace), recording EndComma if one was found or
// EndNone otherwise, and returns the flag it recorded. Command drivers
// call this between ReadInt/ReadStr calls to find out whether another
// argument follows.
func (lx *Lexer) SkipArgSep() int {
	lx.end = EndNone
	lx.eatArgSep()
	return lx.end
}
