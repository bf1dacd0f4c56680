package option

import (
	"github.com/illusory-dept/nskit/pkg/logging"
)

// Language gates the langjp/langen preamble directive at tokenizer
// construction time; the spec fixes this at construction, not per-call.
type Language int

const (
	LangEnglish Language = iota
	LangJapanese
)

// LexOptions configures a script container load.
type LexOptions struct {
	Language         Language
	ExpandInText     bool
	KeyTable         []byte
	ForcePonscripter bool
	Logger           *logging.Logger
}

// LexOption mutates a LexOptions in place.
type LexOption func(*LexOptions)

// DefaultLexOptions matches the runner collaborator's contract:
// expand_in_text enabled, English gate, no key table override.
func DefaultLexOptions() LexOptions {
	return LexOptions{
		Language:     LangEnglish,
		ExpandInText: true,
		Logger:       logging.DefaultLogger(),
	}
}

// WithLanguage fixes the langjp/langen gate.
func WithLanguage(lang Language) LexOption {
	return func(o *LexOptions) { o.Language = lang }
}

// WithExpandInText toggles %n/?n[...]/$n expansion inside TEXT tokens.
// The dialogue dumper collaborator disables this; the runner enables it.
func WithExpandInText(expand bool) LexOption {
	return func(o *LexOptions) { o.ExpandInText = expand }
}

// WithKeyTable supplies the 256-entry substitution table used by the
// nscript.___ transform. A nil or short table is treated as identity,
// per Open Question (d).
func WithKeyTable(table []byte) LexOption {
	return func(o *LexOptions) { o.KeyTable = table }
}

// WithForcePonscripter(true) turns Ponscripter markup handling on at
// load time whatever the ^@^/^~c auto-detection finds, useful when a
// caller already knows the source's dialect. false leaves the
// auto-detection in charge; it cannot turn the handling off.
func WithForcePonscripter(force bool) LexOption {
	return func(o *LexOptions) { o.ForcePonscripter = force }
}

// WithLexLogger sets the structured logger used while loading.
func WithLexLogger(logger *logging.Logger) LexOption {
	return func(o *LexOptions) { o.Logger = logger }
}
