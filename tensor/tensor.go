// Package tensor provides a minimal dense float64 tensor: a contiguous
// backing slice plus a shape. It is the data container shared by the
// convolution layers; all heavy math operates directly on the backing slice.
package tensor

import (
	"errors"
	"fmt"
)

// Errors returned by tensor constructors and shape operations.
var (
	ErrInvalidShape   = errors.New("tensor: shape dimensions must be positive")
	ErrLengthMismatch = errors.New("tensor: data length does not match shape")
)

// Tensor is a dense row-major float64 tensor.
type Tensor struct {
	shape []int
	data  []float64
}

// Zeros returns a zero-filled tensor of the given shape.
func Zeros(shape ...int) (*Tensor, error) {
	n, err := checkShape(shape)
	if err != nil {
		return nil, err
	}

	return &Tensor{
		shape: append([]int(nil), shape...),
		data:  make([]float64, n),
	}, nil
}

// FromSlice returns a tensor of the given shape backed by a copy of data.
func FromSlice(data []float64, shape ...int) (*Tensor, error) {
	n, err := checkShape(shape)
	if err != nil {
		return nil, err
	}

	if len(data) != n {
		return nil, fmt.Errorf("%w: got %d values for shape %v", ErrLengthMismatch, len(data), shape)
	}

	return &Tensor{
		shape: append([]int(nil), shape...),
		data:  append([]float64(nil), data...),
	}, nil
}

// Shape returns a copy of the tensor shape.
func (t *Tensor) Shape() []int {
	return append([]int(nil), t.shape...)
}

// Dim returns the size of axis i.
func (t *Tensor) Dim(i int) int {
	return t.shape[i]
}

// Rank returns the number of axes.
func (t *Tensor) Rank() int {
	return len(t.shape)
}

// Len returns the total number of elements.
func (t *Tensor) Len() int {
	return len(t.data)
}

// Data returns the backing slice. Mutations are visible to the tensor.
func (t *Tensor) Data() []float64 {
	return t.data
}

// Clone returns a deep copy.
func (t *Tensor) Clone() *Tensor {
	return &Tensor{
		shape: append([]int(nil), t.shape...),
		data:  append([]float64(nil), t.data...),
	}
}

// Reshape changes the shape in place. The element count must be preserved.
func (t *Tensor) Reshape(shape ...int) error {
	n, err := checkShape(shape)
	if err != nil {
		return err
	}

	if n != len(t.data) {
		return fmt.Errorf("%w: cannot reshape %v to %v", ErrLengthMismatch, t.shape, shape)
	}

	t.shape = append([]int(nil), shape...)

	return nil
}

// At returns the element at the given multi-index.
// Like slice indexing, an out-of-range or wrong-arity index panics.
func (t *Tensor) At(idx ...int) float64 {
	return t.data[t.offset(idx)]
}

// Set writes the element at the given multi-index.
func (t *Tensor) Set(v float64, idx ...int) {
	t.data[t.offset(idx)] = v
}

func (t *Tensor) offset(idx []int) int {
	if len(idx) != len(t.shape) {
		panic(fmt.Sprintf("tensor: index arity %d for rank %d", len(idx), len(t.shape)))
	}

	off := 0
	for i, ix := range idx {
		if ix < 0 || ix >= t.shape[i] {
			panic(fmt.Sprintf("tensor: index %d out of range for axis %d (size %d)", ix, i, t.shape[i]))
		}

		off = off*t.shape[i] + ix
	}

	return off
}

func checkShape(shape []int) (int, error) {
	if len(shape) == 0 {
		return 0, ErrInvalidShape
	}

	n := 1
	for _, d := range shape {
		if d <= 0 {
			return 0, fmt.Errorf("%w: %v", ErrInvalidShape, shape)
		}

		n *= d
	}

	return n, nil
}
