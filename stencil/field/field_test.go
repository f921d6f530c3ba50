package field

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inference-sim/upwind/stencil"
)

func TestPointSource_1D(t *testing.T) {
	g, err := stencil.NewGrid([]int{5}, []float64{0.5})
	require.NoError(t, err)

	// GIVEN a source at x=1.0 (node 2) and velocity 2
	f, err := PointSource(g, []float64{1.0}, 2)
	require.NoError(t, err)

	// THEN t = |x - 1| / 2
	assert.InDeltaSlice(t, []float64{0.5, 0.25, 0, 0.25, 0.5}, f, 1e-15)
}

func TestPointSource_2D_Distance(t *testing.T) {
	g, err := stencil.NewGrid([]int{4, 5}, []float64{3, 4})
	require.NoError(t, err)
	f, err := PointSource(g, []float64{0, 0}, 1)
	require.NoError(t, err)

	// node (1,1) sits at (3,4): distance 5
	assert.InDelta(t, 5.0, f[g.Index([]int{1, 1})], 1e-12)
	assert.Equal(t, 0.0, f[0])
}

func TestPointSource_InvalidArguments(t *testing.T) {
	g, err := stencil.NewGrid([]int{3, 3}, []float64{1, 1})
	require.NoError(t, err)

	_, err = PointSource(g, []float64{0, 0}, 0)
	assert.ErrorIs(t, err, ErrVelocity)
	_, err = PointSource(g, []float64{0, 0}, math.Inf(1))
	assert.ErrorIs(t, err, ErrVelocity)
	_, err = PointSource(g, []float64{0}, 1)
	assert.ErrorIs(t, err, ErrAxes)
}

func TestPlaneWave_LinearInCoordinates(t *testing.T) {
	g, err := stencil.NewGrid([]int{3, 2}, []float64{1, 2})
	require.NoError(t, err)
	f, err := PlaneWave(g, []float64{1, -0.5})
	require.NoError(t, err)

	// t = x - 0.5*y with y in {0, 2}
	assert.InDeltaSlice(t, []float64{0, 1, 2, -1, 0, 1}, f, 1e-15)

	_, err = PlaneWave(g, []float64{1})
	assert.ErrorIs(t, err, ErrAxes)
}

func TestPointSource_SourceIsOnlyBoundaryNode(t *testing.T) {
	// GIVEN a traveltime table from an interior source
	g, err := stencil.NewGrid([]int{9, 7}, []float64{1, 1})
	require.NoError(t, err)
	f, err := PointSource(g, []float64{4, 3}, 1.5)
	require.NoError(t, err)

	s, err := stencil.New(g)
	require.NoError(t, err)
	defer s.Close()
	require.NoError(t, s.Build(f))

	// THEN the source node comes first and is the only boundary node
	assert.Equal(t, g.Index([]int{4, 3}), s.Order()[0])
	assert.Equal(t, 1, s.Stats().Boundary)
}
