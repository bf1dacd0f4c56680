package nslex

import (
	"fmt"
	"strings"

	"github.com/illusory-dept/nskit/pkg/logging"
	"github.com/illusory-dept/nskit/pkg/option"
)

// ErrUnknownLabel is returned by JumpLabel when name is not in the
// index. It is fatal for the jump call; the caller decides whether to
// terminate.
type ErrUnknownLabel struct {
	Name string
}

func (e *ErrUnknownLabel) Error() string {
	return fmt.Sprintf("nslex: unknown label %q", e.Name)
}

// cursorState is the save/restore snapshot Peek uses instead of a
// separate iterator object: the cursor triple plus the inline color
// state a peeked TEXT token may have advanced.
type cursorState struct {
	pos          int
	line         int
	end          int
	color        int
	colorPending bool
}

// Lexer owns the assembled source buffer, its cursor, the variable and
// array stores, the numeric alias table, and the label index. All
// mutation to any of these happens through its own methods; there is no
// shared mutable state across instances.
type Lexer struct {
	text     string
	enc      Encoding
	cfg      Config
	labels   []Label
	vars     *varStore
	arrays   *arrayStore
	numalias map[string]int

	pos  int
	line int
	end  int

	expandInText bool
	language     option.Language
	ponscripter  bool
	color        int
	colorPending bool
	waitAt       int

	logger *logging.Logger
}

// Open loads dir's script container, parses its configuration preamble,
// runs the read-only numalias/dim prepass, indexes its labels, and
// seeks to the start of the buffer. Ponscripter inline markup is
// auto-detected by scanning for "^@^" or "^~c", or forced on with
// WithForcePonscripter(true).
func Open(dir string, opts ...option.LexOption) (*Lexer, error) {
	o := option.DefaultLexOptions()
	for _, apply := range opts {
		apply(&o)
	}
	logger := o.Logger
	if logger == nil {
		logger = logging.DefaultLogger()
	}

	loaded, err := Load(dir, o.KeyTable)
	if err != nil {
		return nil, err
	}

	cfg := ParseConfig(loaded.Text)

	lx := &Lexer{
		text:         loaded.Text,
		enc:          loaded.Encoding,
		cfg:          cfg,
		vars:         newVarStore(cfg.VarRange),
		arrays:       &arrayStore{},
		numalias:     map[string]int{},
		expandInText: o.ExpandInText,
		language:     o.Language,
		logger:       logger,
	}

	lx.ponscripter = o.ForcePonscripter ||
		strings.Contains(lx.text, "^@^") || strings.Contains(lx.text, "^~c")

	lx.runPrepass()
	lx.labels = IndexLabels(lx.text)

	lx.Seek(0)

	return lx, nil
}

// Config returns the parsed configuration preamble.
func (lx *Lexer) Config() Config { return lx.cfg }

// Mode returns the screen mode as (width, height).
func (lx *Lexer) Mode() (int, int) { return lx.cfg.ScreenWidth, lx.cfg.ScreenHeight }

// VarRange returns the dense variable range size.
func (lx *Lexer) VarRange() int { return lx.cfg.VarRange }

// LabelsAll returns every indexed label, including the trailing
// sentinel with an empty name.
func (lx *Lexer) LabelsAll() []Label { return lx.labels }

// Pos reports the current absolute byte cursor.
func (lx *Lexer) Pos() int { return lx.pos }

// Line reports the current line number.
func (lx *Lexer) Line() int { return lx.line }

// Seek moves the cursor to an absolute byte offset, resetting line
// tracking to the correct value for that offset and clearing side
// flags. It is one of only two backward-move operations, along with
// JumpLabel.
func (lx *Lexer) Seek(pos int) {
	if pos < 0 {
		pos = 0
	}
	if pos > len(lx.text) {
		pos = len(lx.text)
	}
	lx.pos = pos
	lx.line = 1
	for i := 0; i < pos && i < len(lx.text); i++ {
		if lx.text[i] == '\n' {
			lx.line++
		}
	}
	lx.end = EndNone
}

// JumpLabel seeks to the body position of the last declaration of name,
// case-insensitively. It returns ErrUnknownLabel if name is not in the
// index.
func (lx *Lexer) JumpLabel(name string) error {
	label, ok := FindLabel(lx.labels, name)
	if !ok {
		return &ErrUnknownLabel{Name: name}
	}
	lx.Seek(label.BodyPos)
	return nil
}

// DeclareDim registers an array declaration; used by the prepass and
// exposed for callers that want to declare arrays ahead of time.
func (lx *Lexer) DeclareDim(no int, dims []int) {
	lx.arrays.Declare(no, dims)
}

// SetNum writes an integer variable.
func (lx *Lexer) SetNum(no, value int) { lx.vars.SetInt(no, value) }

// GetNum reads an integer variable.
func (lx *Lexer) GetNum(no int) int { return lx.vars.GetInt(no) }

// SetStr writes a string variable.
func (lx *Lexer) SetStr(no int, value string) { lx.vars.SetStr(no, value) }

// GetStr reads a string variable.
func (lx *Lexer) GetStr(no int) string {
	v, _ := lx.vars.GetStr(no)
	return v
}

// ArrayGet reads an array element.
func (lx *Lexer) ArrayGet(no int, idx []int) (int, error) { return lx.arrays.Get(no, idx) }

// ArraySet writes an array element.
func (lx *Lexer) ArraySet(no int, idx []int, value int) error { return lx.arrays.Set(no, idx, value) }

func (lx *Lexer) save() cursorState {
	return cursorState{
		pos: lx.pos, line: lx.line, end: lx.end,
		color: lx.color, colorPending: lx.colorPending,
	}
}

func (lx *Lexer) restore(s cursorState) {
	lx.pos, lx.line, lx.end = s.pos, s.line, s.end
	lx.color, lx.colorPending = s.color, s.colorPending
}
