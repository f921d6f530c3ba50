package dottest

import (
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"

	"github.com/inference-sim/upwind/stencil"
	"github.com/inference-sim/upwind/stencil/field"
)

// pointSourceStencil builds a stencil from a straight-ray traveltime table.
func pointSourceStencil(t *testing.T, size []int, sampling, origin []float64) *stencil.Stencil {
	t.Helper()
	g, err := stencil.NewGrid(size, sampling)
	require.NoError(t, err)
	f, err := field.PointSource(g, origin, 2)
	require.NoError(t, err)
	s, err := stencil.New(g)
	require.NoError(t, err)
	require.NoError(t, s.Build(f))
	t.Cleanup(s.Close)
	return s
}

// scaledAdjoint wraps an operator and scales its adjoint, breaking the pair.
type scaledAdjoint struct {
	stencil.Operator
	scale float64
}

func (o scaledAdjoint) Apply(adj, add bool, model, data []float64) error {
	if err := o.Operator.Apply(adj, add, model, data); err != nil {
		return err
	}
	if adj {
		for i := range model {
			model[i] *= o.scale
		}
	}
	return nil
}

func TestRun_StencilOperators_Pass(t *testing.T) {
	s := pointSourceStencil(t, []int{21, 15}, []float64{0.1, 0.1}, []float64{1.0, 0.3})
	rng := NewPartitionedRNG(42).ForShot("s0")

	for name, op := range map[string]stencil.Operator{
		"forward": stencil.ForwardOperator(s),
		"solve":   stencil.SolveOperator(s),
	} {
		t.Run(name, func(t *testing.T) {
			res, err := Run(op, rng)
			require.NoError(t, err)
			assert.True(t, res.Passed(1e-10), "relErr=%g addRelErr=%g", res.RelErr(), res.AddRelErr())
			// add=true applied once more doubles both sides
			assert.InDelta(t, 2*res.Forward, res.ForwardAdd, 1e-9*(1+math.Abs(res.Forward)))
		})
	}
}

func TestRun_BrokenAdjoint_Fails(t *testing.T) {
	s := pointSourceStencil(t, []int{11}, []float64{1}, []float64{3})
	op := scaledAdjoint{Operator: stencil.ForwardOperator(s), scale: 2}

	res, err := Run(op, rand.New(rand.NewSource(1)))
	require.NoError(t, err)
	assert.False(t, res.Passed(1e-6))
	assert.InDelta(t, 0.5, res.RelErr(), 1e-9)
}

func TestResult_RelErr_ZeroSides(t *testing.T) {
	assert.Equal(t, 0.0, Result{}.RelErr())
	assert.True(t, Result{}.Passed(0))
}

func TestAssemble_ForwardMatrix_1D(t *testing.T) {
	g, err := stencil.NewGrid([]int{4}, []float64{1})
	require.NoError(t, err)
	s, err := stencil.New(g)
	require.NoError(t, err)
	defer s.Close()
	require.NoError(t, s.Build([]float64{0, 1, 2, 3}))

	a, err := Assemble(stencil.ForwardOperator(s), false)
	require.NoError(t, err)

	want := mat.NewDense(4, 4, []float64{
		0, 0, 0, 0,
		-1, 1, 0, 0,
		0, -1, 1, 0,
		0, 0, -1, 1,
	})
	assert.True(t, mat.Equal(want, a), "got\n%v", mat.Formatted(a))
}

func TestTransposeMismatch_IsZeroForStencilPairs(t *testing.T) {
	s := pointSourceStencil(t, []int{5, 4, 3}, []float64{1, 0.5, 0.25}, []float64{2, 0.5, 0.25})

	for name, op := range map[string]stencil.Operator{
		"forward": stencil.ForwardOperator(s),
		"solve":   stencil.SolveOperator(s),
	} {
		t.Run(name, func(t *testing.T) {
			d, err := TransposeMismatch(op)
			require.NoError(t, err)
			assert.InDelta(t, 0, d, 1e-12)
		})
	}
}

func TestAssemble_SolveInvertsForwardOnInteriorRows(t *testing.T) {
	s := pointSourceStencil(t, []int{6, 5}, []float64{1, 1}, []float64{1, 2})
	f, err := Assemble(stencil.ForwardOperator(s), false)
	require.NoError(t, err)
	sol, err := Assemble(stencil.SolveOperator(s), false)
	require.NoError(t, err)

	// GIVEN P = F·S
	var p mat.Dense
	p.Mul(f, sol)

	// THEN every interior row of P is a row of the identity
	boundary := make(map[int]bool)
	for k, jt := range s.Order() {
		if s.IsBoundary(k) {
			boundary[jt] = true
		}
	}
	n, _ := p.Dims()
	for r := 0; r < n; r++ {
		if boundary[r] {
			continue
		}
		for c := 0; c < n; c++ {
			want := 0.0
			if r == c {
				want = 1
			}
			assert.InDelta(t, want, p.At(r, c), 1e-12, "P[%d,%d]", r, c)
		}
	}
}
