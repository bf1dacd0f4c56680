package nslex

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestVarStoreDenseRange(t *testing.T) {
	s := newVarStore(10)
	s.SetInt(3, 42)
	require.Equal(t, 42, s.GetInt(3))
	require.Equal(t, 0, s.GetInt(7))
}

func TestVarStoreSparseBeyondRange(t *testing.T) {
	s := newVarStore(10)
	s.SetInt(9000, 7)
	require.Equal(t, 7, s.GetInt(9000))
	require.Equal(t, 0, s.GetInt(9001))
}

func TestVarStoreStrings(t *testing.T) {
	s := newVarStore(10)
	v, ok := s.GetStr(2)
	require.False(t, ok)
	require.Equal(t, "", v)

	s.SetStr(2, "hello")
	v, ok = s.GetStr(2)
	require.True(t, ok)
	require.Equal(t, "hello", v)
}

func TestVarStoreClampAppliesOnSet(t *testing.T) {
	s := newVarStore(10)
	s.SetInt(1, 50)
	s.SetClamp(1, 0, 10)
	require.Equal(t, 10, s.GetInt(1), "SetClamp re-applies the bound to the current value")

	s.SetInt(1, -5)
	require.Equal(t, 0, s.GetInt(1))

	s.SetInt(1, 100)
	require.Equal(t, 10, s.GetInt(1))

	s.SetInt(1, 5)
	require.Equal(t, 5, s.GetInt(1))
}

func TestVarStoreClampOnSparseSlot(t *testing.T) {
	s := newVarStore(4)
	s.SetClamp(500, 10, 20)
	s.SetInt(500, 1)
	require.Equal(t, 10, s.GetInt(500))
}
