package stencil

import (
	"cmp"
	"fmt"
	"slices"

	"github.com/sirupsen/logrus"
)

// AxisMask packs one boolean per grid axis; bit i belongs to axis i.
type AxisMask uint8

// Has reports whether the bit for axis is set.
func (m AxisMask) Has(axis int) bool { return m&(1<<uint(axis)) != 0 }

func (m AxisMask) with(axis int) AxisMask { return m | 1<<uint(axis) }

// Stencil is the upwind causal stencil derived from one reference field.
//
// All per-node arrays are indexed by causal position k, not by node index;
// order[k] maps position k back to the node index. For node k the weight
// record is weight[k*(ndim+1) : (k+1)*(ndim+1)], the last entry being the
// diagonal (sum of the per-axis weights).
//
// Thread-safety: read-only after Build. Distinct stencils may be used from
// different goroutines; one stencil must not run Inverse or Adjoint
// concurrently into overlapping output buffers.
type Stencil struct {
	grid      *Grid
	order     []int
	causal    []AxisMask // axis has an upwind neighbor contributing at k
	direction []AxisMask // upwind neighbor of the axis is on the plus side
	weight    []float64
	rec       int // ndim+1
	closed    bool
}

// New allocates an empty stencil for grid. Call Build before applying any
// operator; an unbuilt stencil has every node on the boundary.
func New(grid *Grid) (*Stencil, error) {
	if grid == nil || grid.nodes == 0 {
		return nil, fmt.Errorf("%w: nil grid", ErrGeometry)
	}
	n := grid.nodes
	rec := grid.ndim + 1
	s := &Stencil{
		grid:      grid,
		order:     make([]int, n),
		causal:    make([]AxisMask, n),
		direction: make([]AxisMask, n),
		weight:    make([]float64, n*rec),
		rec:       rec,
	}
	for k := range s.order {
		s.order[k] = k
	}
	return s, nil
}

// Close releases the stencil's storage. Calling Close more than once is a no-op.
func (s *Stencil) Close() {
	if s.closed {
		return
	}
	s.order = nil
	s.causal = nil
	s.direction = nil
	s.weight = nil
	s.closed = true
}

// Grid returns the geometry the stencil was allocated for.
func (s *Stencil) Grid() *Grid { return s.grid }

// Build sorts the nodes by ascending field value and derives, for every node,
// the upwind neighbor along each axis and its weight (t - t2)/d².
//
// field is read during the call only. Neighbors whose value equals the
// node's own value are not causal and contribute nothing.
func (s *Stencil) Build(field []float64) error {
	if s.closed {
		return ErrClosed
	}
	g := s.grid
	if len(field) != g.nodes {
		return fmt.Errorf("%w: field has %d values, grid has %d nodes", ErrLength, len(field), g.nodes)
	}

	for k := range s.order {
		s.order[k] = k
	}
	slices.SortFunc(s.order, func(a, b int) int {
		return cmp.Compare(field[a], field[b])
	})

	var ii [MaxDims]int
	ndim := g.ndim
	degenerate := 0
	for k, jt := range s.order {
		g.Coords(jt, ii[:])
		w := s.weight[k*s.rec : (k+1)*s.rec]
		clear(w)
		var up, plus AxisMask
		t := field[jt]
		for i := 0; i < ndim; i++ {
			n := g.size[i]
			if n == 1 {
				continue
			}
			a := jt - g.stride[i]
			b := jt + g.stride[i]
			var t2 float64
			if ii[i] == 0 || (ii[i] != n-1 && field[a] > field[b]) {
				plus = plus.with(i)
				t2 = field[b]
			} else {
				t2 = field[a]
			}
			if t2 < t {
				up = up.with(i)
				w[i] = (t - t2) * g.invSampling2[i]
				w[ndim] += w[i]
			}
		}
		s.causal[k] = up
		s.direction[k] = plus
		if w[ndim] == 0 {
			degenerate++
		}
	}
	logrus.Debugf("stencil: built %v, %d boundary nodes", g, degenerate)
	return nil
}

// Order returns the causal visiting order. The slice is owned by the stencil.
func (s *Stencil) Order() []int { return s.order }

// CausalMask returns the axes contributing at causal position k.
func (s *Stencil) CausalMask(k int) AxisMask { return s.causal[k] }

// DirectionMask returns, per axis, whether the selected neighbor at causal
// position k is on the plus side.
func (s *Stencil) DirectionMask(k int) AxisMask { return s.direction[k] }

// Weight returns the weight of axis i at causal position k.
func (s *Stencil) Weight(k, i int) float64 { return s.weight[k*s.rec+i] }

// Diagonal returns the sum of the axis weights at causal position k.
func (s *Stencil) Diagonal(k int) float64 { return s.weight[k*s.rec+s.grid.ndim] }

// IsBoundary reports whether causal position k has zero diagonal weight.
func (s *Stencil) IsBoundary(k int) bool { return s.Diagonal(k) == 0 }

// Neighbor returns the node index of the neighbor selected along axis i at
// causal position k. The result is meaningful only when CausalMask(k).Has(i).
func (s *Stencil) Neighbor(k, i int) int {
	return s.neighbor(s.order[k], s.direction[k], i)
}

func (s *Stencil) neighbor(jt int, dir AxisMask, i int) int {
	if dir.Has(i) {
		return jt + s.grid.stride[i]
	}
	return jt - s.grid.stride[i]
}

func (s *Stencil) check(bufs ...[]float64) error {
	if s.closed {
		return ErrClosed
	}
	for _, b := range bufs {
		if len(b) != s.grid.nodes {
			return fmt.Errorf("%w: got %d, want %d", ErrLength, len(b), s.grid.nodes)
		}
	}
	return nil
}
