package nslex

import (
	"strconv"
	"strings"

	"github.com/illusory-dept/nskit/pkg/consts"
)

// ParseConfig locates the script's configuration line and extracts
// screen mode, variable range, and globals border, falling back to the
// documented defaults when no such line is found or its tokens run out
// early.
//
// A line led by ';' is normally a plain comment; it is only treated as
// the configuration line if its first comma-token actually parses (a
// ';' line whose first token fails is skipped as a genuine comment, and
// the next line is tried). A line led by '$' is unconditionally the
// configuration line. Once a configuration line is found, its tokens
// are applied left to right and the first unrecognized token silently
// stops parsing, per the config preamble design.
func ParseConfig(text string) Config {
	cfg := Config{
		ScreenWidth:   consts.DefaultScreenWidth,
		ScreenHeight:  consts.DefaultScreenHeight,
		VarRange:      consts.DefaultVarRange,
		GlobalsBorder: consts.DefaultGlobalsBorder,
	}

	pos := 0
	for pos < len(text) {
		lineEnd := strings.IndexByte(text[pos:], '\n')
		var line string
		if lineEnd == -1 {
			line = text[pos:]
		} else {
			line = text[pos : pos+lineEnd]
		}

		var rest string
		var dollar bool
		switch {
		case strings.HasPrefix(line, "$"):
			rest = line[1:]
			dollar = true
		case strings.HasPrefix(line, ";"):
			rest = line[1:]
		default:
			if lineEnd == -1 {
				return cfg
			}
			pos += lineEnd + 1
			continue
		}

		if applyConfigLine(&cfg, rest) || dollar {
			return cfg
		}

		if lineEnd == -1 {
			return cfg
		}
		pos += lineEnd + 1
	}

	return cfg
}

// applyConfigLine parses rest's comma tokens into cfg and reports
// whether at least one token was recognized and applied.
func applyConfigLine(cfg *Config, rest string) bool {
	parts := strings.Split(rest, ",")
	applied := false

	for i := 0; i < len(parts); i++ {
		tok := strings.TrimSpace(parts[i])

		// s<W>,<H> spans two comma-delimited parts; special-case it
		// before the generic single-token dispatch below.
		if strings.HasPrefix(tok, "s") {
			if w, err := strconv.Atoi(tok[1:]); err == nil && i+1 < len(parts) {
				if h, err := strconv.Atoi(strings.TrimSpace(parts[i+1])); err == nil {
					cfg.ScreenWidth, cfg.ScreenHeight = w, h
					i++
					applied = true
					continue
				}
			}
		}

		if !applyConfigToken(cfg, tok) {
			break
		}
		applied = true
	}

	return applied
}

// applyConfigToken applies one preamble token to cfg, returning false
// if the token is unrecognized (parsing stops there).
func applyConfigToken(cfg *Config, tok string) bool {
	switch tok {
	case "mode800":
		cfg.ScreenWidth, cfg.ScreenHeight = 800, 600
		return true
	case "mode400":
		cfg.ScreenWidth, cfg.ScreenHeight = 400, 300
		return true
	case "mode320":
		cfg.ScreenWidth, cfg.ScreenHeight = 320, 240
		return true
	case "modew720":
		cfg.ScreenWidth, cfg.ScreenHeight = 1280, 720
		return true
	}

	if n, ok := intSuffix(tok, "g"); ok {
		cfg.GlobalsBorder = n
		return true
	}
	if n, ok := intSuffix(tok, "value"); ok {
		cfg.GlobalsBorder = n
		return true
	}
	if n, ok := intSuffix(tok, "v"); ok {
		cfg.VarRange = n
		return true
	}
	if _, ok := intSuffix(tok, "l"); ok {
		return true // consumed and ignored
	}

	return false
}

// intSuffix reports whether tok is prefix followed by a decimal
// integer, returning the parsed value.
func intSuffix(tok, prefix string) (int, bool) {
	if !strings.HasPrefix(tok, prefix) {
		return 0, false
	}
	n, err := strconv.Atoi(tok[len(prefix):])
	if err != nil {
		return 0, false
	}
	return n, true
}
