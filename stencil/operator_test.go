package stencil

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inference-sim/upwind/stencil/internal/testutil"
)

func TestForwardOperator_MatchesStencilMethods(t *testing.T) {
	rng := rand.New(rand.NewSource(23))
	n := 8 * 7
	s := newBuilt(t, []int{8, 7}, []float64{1, 1}, randomField(rng, n))
	op := ForwardOperator(s)

	nm, nd := op.Shape()
	assert.Equal(t, n, nm)
	assert.Equal(t, n, nd)

	m := testutil.RandomVector(rng, n)
	want := make([]float64, n)
	got := make([]float64, n)
	require.NoError(t, s.Forward(m, want))
	require.NoError(t, op.Apply(false, false, m, got))
	assert.Equal(t, want, got)

	d := testutil.RandomVector(rng, n)
	require.NoError(t, s.Adjoint(want, d))
	require.NoError(t, op.Apply(true, false, got, d))
	assert.Equal(t, want, got)
}

func TestSolveOperator_AddAccumulates(t *testing.T) {
	s := newBuilt(t, []int{5}, []float64{1}, []float64{0, 1, 2, 3, 4})
	op := SolveOperator(s)

	// GIVEN data already holding the solution of rhs = [0,1,1,1,1]
	model := []float64{0, 1, 1, 1, 1}
	data := make([]float64, 5)
	require.NoError(t, op.Apply(false, false, model, data))
	assert.Equal(t, []float64{0, 1, 2, 3, 4}, data)

	// WHEN applying again with add=true
	require.NoError(t, op.Apply(false, true, model, data))

	// THEN the output doubles
	assert.Equal(t, []float64{0, 2, 4, 6, 8}, data)

	// AND the adjoint path accumulates the same way
	adj := []float64{1, 1, 1, 1, 1}
	require.NoError(t, op.Apply(true, true, adj, []float64{0, 0, 0, 0, 1}))
	// Inverse of e_4 is [0,1,1,1,1] with a zero boundary
	assert.Equal(t, []float64{1, 2, 2, 2, 2}, adj)
}

func TestOperator_LengthMismatch_ReturnsErrLength(t *testing.T) {
	s := newBuilt(t, []int{3}, []float64{1}, []float64{0, 1, 2})
	for _, op := range []Operator{ForwardOperator(s), SolveOperator(s)} {
		err := op.Apply(false, false, make([]float64, 3), make([]float64, 4))
		assert.ErrorIs(t, err, ErrLength)
	}
}
