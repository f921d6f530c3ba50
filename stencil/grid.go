package stencil

import (
	"fmt"
	"math"
)

// MaxDims is the largest number of axes a Grid supports.
const MaxDims = 3

// Grid is the regular sampling geometry shared by every stencil built on it.
// Axis 0 is the fastest-varying axis of the linear node index.
//
// Thread-safety: immutable after NewGrid; safe for concurrent readers.
type Grid struct {
	ndim         int
	size         [MaxDims]int
	stride       [MaxDims]int
	sampling     [MaxDims]float64
	invSampling2 [MaxDims]float64
	nodes        int
}

// NewGrid validates the per-axis extents and sampling intervals and derives
// strides, the node count and the inverse squared samplings.
//
// Failure modes: ErrDimension when len(size) is outside [1, MaxDims],
// ErrGeometry for length mismatch or non-positive values, ErrAllocation when
// the node count (times the per-node weight record) overflows int.
func NewGrid(size []int, sampling []float64) (*Grid, error) {
	ndim := len(size)
	if ndim < 1 || ndim > MaxDims {
		return nil, fmt.Errorf("%w: dim=%d not in [1,%d]", ErrDimension, ndim, MaxDims)
	}
	if len(sampling) != ndim {
		return nil, fmt.Errorf("%w: %d sizes but %d samplings", ErrGeometry, ndim, len(sampling))
	}

	g := &Grid{ndim: ndim}
	nt := 1
	for i := 0; i < ndim; i++ {
		if size[i] <= 0 {
			return nil, fmt.Errorf("%w: size[%d]=%d must be > 0", ErrGeometry, i, size[i])
		}
		d := sampling[i]
		if !(d > 0) || math.IsInf(d, 0) {
			return nil, fmt.Errorf("%w: sampling[%d]=%v must be finite and > 0", ErrGeometry, i, d)
		}
		if nt > math.MaxInt/size[i] {
			return nil, fmt.Errorf("%w: node count overflows", ErrAllocation)
		}
		g.size[i] = size[i]
		g.stride[i] = nt
		g.sampling[i] = d
		g.invSampling2[i] = 1 / (d * d)
		nt *= size[i]
	}
	// weight storage holds ndim+1 values per node
	if nt > math.MaxInt/(ndim+1) {
		return nil, fmt.Errorf("%w: %d nodes", ErrAllocation, nt)
	}
	g.nodes = nt
	return g, nil
}

// Dims returns the number of axes.
func (g *Grid) Dims() int { return g.ndim }

// Len returns the total number of nodes.
func (g *Grid) Len() int { return g.nodes }

// Size returns the extent of axis i.
func (g *Grid) Size(i int) int { return g.size[i] }

// Stride returns the linear-index step between neighbors along axis i.
func (g *Grid) Stride(i int) int { return g.stride[i] }

// InvSampling2 returns 1/d² for axis i.
func (g *Grid) InvSampling2(i int) float64 { return g.invSampling2[i] }

// Sampling returns the sampling interval of axis i.
func (g *Grid) Sampling(i int) float64 { return g.sampling[i] }

// Coords decodes a linear node index into its per-axis indices.
// dst must hold at least Dims() entries; it is returned for convenience.
func (g *Grid) Coords(idx int, dst []int) []int {
	for i := 0; i < g.ndim; i++ {
		dst[i] = idx % g.size[i]
		idx /= g.size[i]
	}
	return dst[:g.ndim]
}

// Index encodes per-axis indices into a linear node index.
func (g *Grid) Index(ii []int) int {
	idx := 0
	for i := 0; i < g.ndim; i++ {
		idx += ii[i] * g.stride[i]
	}
	return idx
}

func (g *Grid) String() string {
	return fmt.Sprintf("Grid{dims=%d size=%v nodes=%d}", g.ndim, g.size[:g.ndim], g.nodes)
}
