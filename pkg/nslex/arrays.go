package nslex

import "fmt"

// arrayStore is a singly-linked chain of declared arrays keyed by
// declaration number, preserving insertion order the way the original
// dim-statement bookkeeping did.
type arrayStore struct {
	head *arrayNode
}

// ErrArrayDimOverflow is a fatal ParseError per the design: an index
// outside its declared dimension.
type ErrArrayDimOverflow struct {
	No, Dim, Index, Max int
}

func (e *ErrArrayDimOverflow) Error() string {
	return fmt.Sprintf("nslex: array %d dimension %d index %d exceeds max %d", e.No, e.Dim, e.Index, e.Max)
}

// Declare registers a new array no with one size per dimension (each
// one larger than the declared maximum index).
func (s *arrayStore) Declare(no int, dims []int) {
	size := 1
	for _, d := range dims {
		size *= d
	}
	node := &arrayNode{no: no, dims: append([]int(nil), dims...), data: make([]int, size)}
	node.next = s.head
	s.head = node
}

func (s *arrayStore) find(no int) *arrayNode {
	for n := s.head; n != nil; n = n.next {
		if n.no == no {
			return n
		}
	}
	return nil
}

// flatIndex computes the row-major offset for idx into node, returning
// an error if any dimension is out of bounds.
func flatIndex(node *arrayNode, idx []int) (int, error) {
	if len(idx) > len(node.dims) {
		return 0, fmt.Errorf("nslex: array %d given %d indices for %d dimensions", node.no, len(idx), len(node.dims))
	}
	offset := 0
	for d, i := range idx {
		if i < 0 || i >= node.dims[d] {
			return 0, &ErrArrayDimOverflow{No: node.no, Dim: d, Index: i, Max: node.dims[d] - 1}
		}
		offset = offset*node.dims[d] + i
	}
	// Remaining (unindexed, trailing) dimensions are folded in as zero.
	for d := len(idx); d < len(node.dims); d++ {
		offset *= node.dims[d]
	}
	return offset, nil
}

// Get reads the array element at idx. The array must already be
// declared via Declare (via a `dim` statement during the prepass).
func (s *arrayStore) Get(no int, idx []int) (int, error) {
	node := s.find(no)
	if node == nil {
		return 0, fmt.Errorf("nslex: array %d not declared", no)
	}
	off, err := flatIndex(node, idx)
	if err != nil {
		return 0, err
	}
	return node.data[off], nil
}

// Set writes the array element at idx.
func (s *arrayStore) Set(no int, idx []int, value int) error {
	node := s.find(no)
	if node == nil {
		return fmt.Errorf("nslex: array %d not declared", no)
	}
	off, err := flatIndex(node, idx)
	if err != nil {
		return err
	}
	node.data[off] = value
	return nil
}
