package nslex

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/illusory-dept/nskit/pkg/consts"
	"github.com/illusory-dept/nskit/pkg/option"
	"github.com/stretchr/testify/require"
)

func writeScript(t *testing.T, dir, name, text string, mode TransformMode) {
	t.Helper()
	raw := []byte(text)
	out := make([]byte, len(raw))
	for i, b := range raw {
		out[i] = transformByte(b, i, mode, nil)
	}
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), out, 0o644))
}

func TestOpenXOR84ScriptEndToEnd(t *testing.T) {
	dir := t.TempDir()
	src := ";mode800,g300,v1000\n*start\nmov %0,5\nhello\n*done\nbye\n"
	writeScript(t, dir, "nscript.dat", src, TransformXOR84)

	lx, err := Open(dir, option.WithExpandInText(true))
	require.NoError(t, err)

	require.Equal(t, 800, lx.cfg.ScreenWidth)
	require.Equal(t, 600, lx.cfg.ScreenHeight)
	require.Equal(t, 300, lx.cfg.GlobalsBorder)
	require.Equal(t, 1000, lx.cfg.VarRange)

	require.NoError(t, lx.JumpLabel("done"))
	tok := lx.Next()
	require.Equal(t, TokText, tok.Kind)
	require.Equal(t, "bye", tok.Text)
}

func TestOpenIdentityContainerDefaultsWhenNoPreamble(t *testing.T) {
	dir := t.TempDir()
	writeScript(t, dir, "0.txt", "*a\nhi there\n", TransformIdentity)

	lx, err := Open(dir)
	require.NoError(t, err)
	require.Equal(t, consts.DefaultScreenWidth, lx.cfg.ScreenWidth)
	require.Equal(t, consts.DefaultVarRange, lx.cfg.VarRange)
}

func TestOpenMissingContainerReturnsError(t *testing.T) {
	dir := t.TempDir()
	_, err := Open(dir)
	require.ErrorIs(t, err, ErrNoContainer)
}

func TestOpenRunsPrepassForNumAliasAndDim(t *testing.T) {
	dir := t.TempDir()
	src := "numalias money,5\ndim ?1[3][2]\n*start\nmov %money,1\n"
	writeScript(t, dir, "0.txt", src, TransformIdentity)

	lx, err := Open(dir)
	require.NoError(t, err)
	require.Equal(t, 5, lx.numalias["money"])

	require.NoError(t, lx.ArraySet(1, []int{2, 1}, 9))
	v, err := lx.ArrayGet(1, []int{2, 1})
	require.NoError(t, err)
	require.Equal(t, 9, v)

	// Prepass must restore the cursor to the start of the buffer.
	require.Equal(t, 0, lx.Pos())
}

func TestOpenSeriesAssemblyJoinsNumberedFiles(t *testing.T) {
	dir := t.TempDir()
	writeScript(t, dir, "0.txt", "*a\nfirst\n", TransformIdentity)
	writeScript(t, dir, "1.txt", "*b\nsecond\n", TransformIdentity)

	lx, err := Open(dir)
	require.NoError(t, err)
	require.NoError(t, lx.JumpLabel("b"))
	tok := lx.Next()
	require.Equal(t, "second", tok.Text)
}

func TestExpressionEvaluatorPrecedenceScenario(t *testing.T) {
	lx := newTestLexer(t, "2+3*4-(1+1)/2\n", true)
	v, err := lx.ReadInt()
	require.NoError(t, err)
	require.Equal(t, 2+3*4-(1+1)/2, v)
}

func TestExpressionEvaluatorParensAndMod(t *testing.T) {
	lx := newTestLexer(t, "(2+3)*4\n", true)
	v, err := lx.ReadInt()
	require.NoError(t, err)
	require.Equal(t, 20, v)

	lx2 := newTestLexer(t, "10 mod 3\n", true)
	v2, err := lx2.ReadInt()
	require.NoError(t, err)
	require.Equal(t, 1, v2)
}

func TestExpressionEvaluatorDivModByZero(t *testing.T) {
	lx := newTestLexer(t, "10/0\n", true)
	v, err := lx.ReadInt()
	require.NoError(t, err)
	require.Equal(t, 0, v)

	lx2 := newTestLexer(t, "10 mod 0\n", true)
	v2, err := lx2.ReadInt()
	require.NoError(t, err)
	require.Equal(t, 0, v2)
}

func TestExpressionEvaluatorNumAliasLookup(t *testing.T) {
	lx := newTestLexer(t, "money*2\n", true)
	lx.numalias["money"] = 7
	v, err := lx.ReadInt()
	require.NoError(t, err)
	require.Equal(t, 14, v)
}

func TestExpressionEvaluatorStringConcatenation(t *testing.T) {
	lx := newTestLexer(t, `"foo"+"bar"`+"\n", true)
	s, err := lx.ReadStr()
	require.NoError(t, err)
	require.Equal(t, "foobar", s)
}

func TestExpressionEvaluatorArrayAndVarReads(t *testing.T) {
	lx := newTestLexer(t, "%0+?1[1]\n", true)
	lx.vars.SetInt(0, 3)
	lx.arrays.Declare(1, []int{5})
	lx.arrays.Set(1, []int{1}, 10)

	v, err := lx.ReadInt()
	require.NoError(t, err)
	require.Equal(t, 13, v)
}
