// Package field generates synthetic reference fields on a stencil.Grid.
//
// Coordinates are physical: node index ii along axis i sits at ii*d_i with
// the grid origin at zero.
package field

import (
	"errors"
	"fmt"
	"math"

	"github.com/inference-sim/upwind/stencil"
)

var (
	// ErrVelocity indicates a non-positive or non-finite propagation velocity.
	ErrVelocity = errors.New("field: velocity must be finite and > 0")
	// ErrAxes indicates a per-axis argument whose length differs from the grid.
	ErrAxes = errors.New("field: per-axis argument does not match grid dimensions")
)

// PointSource returns the straight-ray traveltime |x - origin| / velocity
// for every node. origin holds one physical coordinate per axis and need not
// fall on a node.
func PointSource(grid *stencil.Grid, origin []float64, velocity float64) ([]float64, error) {
	if !(velocity > 0) || math.IsInf(velocity, 0) {
		return nil, fmt.Errorf("%w: got %v", ErrVelocity, velocity)
	}
	if len(origin) != grid.Dims() {
		return nil, fmt.Errorf("%w: origin has %d axes, grid has %d", ErrAxes, len(origin), grid.Dims())
	}
	slowness := 1 / velocity
	return eval(grid, func(x []float64) float64 {
		r := 0.0
		for i, xi := range x {
			d := xi - origin[i]
			r += d * d
		}
		return math.Sqrt(r) * slowness
	}), nil
}

// PlaneWave returns Σ slowness[i]·x_i, a linear traveltime with constant
// gradient. Negative components make the wave travel towards smaller indices.
func PlaneWave(grid *stencil.Grid, slowness []float64) ([]float64, error) {
	if len(slowness) != grid.Dims() {
		return nil, fmt.Errorf("%w: slowness has %d axes, grid has %d", ErrAxes, len(slowness), grid.Dims())
	}
	return eval(grid, func(x []float64) float64 {
		t := 0.0
		for i, xi := range x {
			t += slowness[i] * xi
		}
		return t
	}), nil
}

func eval(grid *stencil.Grid, f func(x []float64) float64) []float64 {
	ndim := grid.Dims()
	out := make([]float64, grid.Len())
	var ii [stencil.MaxDims]int
	var x [stencil.MaxDims]float64
	d := make([]float64, ndim)
	for i := range d {
		d[i] = grid.Sampling(i)
	}
	for idx := range out {
		grid.Coords(idx, ii[:])
		for i := 0; i < ndim; i++ {
			x[i] = float64(ii[i]) * d[i]
		}
		out[idx] = f(x[:ndim])
	}
	return out
}
