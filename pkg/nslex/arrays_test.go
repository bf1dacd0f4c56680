package nslex

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestArrayStoreOneDimension(t *testing.T) {
	s := &arrayStore{}
	s.Declare(1, []int{5})

	require.NoError(t, s.Set(1, []int{2}, 99))
	v, err := s.Get(1, []int{2})
	require.NoError(t, err)
	require.Equal(t, 99, v)
}

func TestArrayStoreRowMajorTwoDimensions(t *testing.T) {
	s := &arrayStore{}
	s.Declare(2, []int{3, 4})

	require.NoError(t, s.Set(2, []int{1, 2}, 7))
	v, err := s.Get(2, []int{1, 2})
	require.NoError(t, err)
	require.Equal(t, 7, v)

	require.NoError(t, s.Set(2, []int{0, 0}, 1))
	require.NoError(t, s.Set(2, []int{2, 3}, 2))
	v0, _ := s.Get(2, []int{0, 0})
	v1, _ := s.Get(2, []int{2, 3})
	require.Equal(t, 1, v0)
	require.Equal(t, 2, v1)
}

func TestArrayStoreDimOverflow(t *testing.T) {
	s := &arrayStore{}
	s.Declare(3, []int{2, 2})

	_, err := s.Get(3, []int{2, 0})
	require.Error(t, err)
	var dimErr *ErrArrayDimOverflow
	require.ErrorAs(t, err, &dimErr)
	require.Equal(t, 3, dimErr.No)
	require.Equal(t, 0, dimErr.Dim)
	require.Equal(t, 2, dimErr.Index)
	require.Equal(t, 1, dimErr.Max)
}

func TestArrayStoreNotDeclared(t *testing.T) {
	s := &arrayStore{}
	_, err := s.Get(9, []int{0})
	require.Error(t, err)
}

func TestArrayStoreRedeclareShadowsPrevious(t *testing.T) {
	s := &arrayStore{}
	s.Declare(1, []int{2})
	s.Set(1, []int{0}, 11)

	s.Declare(1, []int{3})
	v, err := s.Get(1, []int{0})
	require.NoError(t, err)
	require.Equal(t, 0, v, "redeclaring inserts a fresh node at the head, found first")
}
