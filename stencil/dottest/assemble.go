package dottest

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"

	"github.com/inference-sim/upwind/stencil"
)

// Assemble builds the explicit matrix of op (adj=false) or of its adjoint
// (adj=true) by applying it to every unit vector. Column j of the result is
// the image of e_j. Cost is one application per column; use on small grids.
func Assemble(op stencil.Operator, adj bool) (*mat.Dense, error) {
	nm, nd := op.Shape()
	rows, cols := nd, nm
	if adj {
		rows, cols = nm, nd
	}
	a := mat.NewDense(rows, cols, nil)
	in := make([]float64, cols)
	out := make([]float64, rows)
	for j := 0; j < cols; j++ {
		in[j] = 1
		var err error
		if adj {
			err = op.Apply(true, false, out, in)
		} else {
			err = op.Apply(false, false, in, out)
		}
		if err != nil {
			return nil, fmt.Errorf("column %d: %w", j, err)
		}
		a.SetCol(j, out)
		in[j] = 0
	}
	return a, nil
}

// TransposeMismatch returns the largest absolute entry of A - Bᵀ, where A is
// the assembled forward map of op and B its assembled adjoint.
func TransposeMismatch(op stencil.Operator) (float64, error) {
	a, err := Assemble(op, false)
	if err != nil {
		return 0, err
	}
	b, err := Assemble(op, true)
	if err != nil {
		return 0, err
	}
	var diff mat.Dense
	diff.Sub(a, b.T())
	return floats.Norm(diff.RawMatrix().Data, math.Inf(1)), nil
}
