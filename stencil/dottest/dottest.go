// Package dottest checks that a stencil.Operator and its adjoint agree.
//
// The dot-product test draws random m and d and compares <L·m, d> with
// <m, Lᵀ·d>. Both sides are computed with add=false and add=true; the add
// path must double the result when applied twice onto the same output.
package dottest

import (
	"fmt"
	"math"
	"math/rand"

	"gonum.org/v1/gonum/floats"

	"github.com/inference-sim/upwind/stencil"
)

// Result holds both sides of the dot-product test.
type Result struct {
	Forward    float64 `yaml:"forward"`     // <L·m, d>
	Adjoint    float64 `yaml:"adjoint"`     // <m, Lᵀ·d>
	ForwardAdd float64 `yaml:"forward_add"` // <L·m, d> after two add=true applications
	AdjointAdd float64 `yaml:"adjoint_add"`
}

// RelErr returns |forward - adjoint| / max(|forward|, |adjoint|), or 0 when
// both sides are zero.
func (r Result) RelErr() float64 {
	return relErr(r.Forward, r.Adjoint)
}

// AddRelErr is RelErr for the add=true pair.
func (r Result) AddRelErr() float64 {
	return relErr(r.ForwardAdd, r.AdjointAdd)
}

// Passed reports whether both pairs agree within tol.
func (r Result) Passed(tol float64) bool {
	return r.RelErr() <= tol && r.AddRelErr() <= tol
}

// Run performs the dot-product test on op with vectors drawn from rng.
func Run(op stencil.Operator, rng *rand.Rand) (Result, error) {
	nm, nd := op.Shape()
	m := randomVector(rng, nm)
	d := randomVector(rng, nd)

	lm := make([]float64, nd)
	ltd := make([]float64, nm)
	var res Result

	if err := op.Apply(false, false, m, lm); err != nil {
		return res, fmt.Errorf("forward: %w", err)
	}
	if err := op.Apply(true, false, ltd, d); err != nil {
		return res, fmt.Errorf("adjoint: %w", err)
	}
	res.Forward = floats.Dot(lm, d)
	res.Adjoint = floats.Dot(m, ltd)

	// second application with add=true doubles the stored output
	if err := op.Apply(false, true, m, lm); err != nil {
		return res, fmt.Errorf("forward add: %w", err)
	}
	if err := op.Apply(true, true, ltd, d); err != nil {
		return res, fmt.Errorf("adjoint add: %w", err)
	}
	res.ForwardAdd = floats.Dot(lm, d)
	res.AdjointAdd = floats.Dot(m, ltd)
	return res, nil
}

func randomVector(rng *rand.Rand, n int) []float64 {
	v := make([]float64, n)
	for i := range v {
		v[i] = 2*rng.Float64() - 1
	}
	return v
}

func relErr(a, b float64) float64 {
	if a == 0 && b == 0 {
		return 0
	}
	return math.Abs(a-b) / math.Max(math.Abs(a), math.Abs(b))
}
