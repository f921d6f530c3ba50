package stencil

import "errors"

var (
	// ErrDimension indicates a grid with fewer than one or more than MaxDims axes.
	ErrDimension = errors.New("stencil: dimension count out of supported range")
	// ErrGeometry indicates mismatched or non-positive sizes or samplings.
	ErrGeometry = errors.New("stencil: invalid grid geometry")
	// ErrAllocation indicates a grid whose storage cannot be addressed.
	ErrAllocation = errors.New("stencil: grid too large to allocate")
	// ErrLength indicates a caller buffer whose length differs from the node count.
	ErrLength = errors.New("stencil: buffer length does not match grid")
	// ErrClosed indicates use of a stencil after Close.
	ErrClosed = errors.New("stencil: use of closed stencil")
)
