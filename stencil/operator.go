package stencil

import "fmt"

// Operator is a linear map between a model and a data vector in the
// (adj, add) convention used by iterative least-squares solvers:
//
//	adj=false: data  (+)= L·model
//	adj=true:  model (+)= Lᵀ·data
//
// When add is false the output is overwritten.
type Operator interface {
	Apply(adj, add bool, model, data []float64) error
	// Shape returns the model and data lengths.
	Shape() (nm, nd int)
}

type pairFunc func(in, out []float64) error

// linearOp adapts a forward/adjoint pair of overwriting functions into an
// Operator. scratch backs the add=true path.
type linearOp struct {
	n       int
	forw    pairFunc // model -> data
	adj     pairFunc // data -> model
	scratch []float64
}

// ForwardOperator returns Forward as L and Adjoint as Lᵀ.
func ForwardOperator(s *Stencil) Operator {
	return &linearOp{
		n:    s.grid.nodes,
		forw: s.Forward,
		adj:  func(data, model []float64) error { return s.Adjoint(model, data) },
	}
}

// SolveOperator returns Solve (zero boundary values) as L and Inverse as Lᵀ.
func SolveOperator(s *Stencil) Operator {
	return &linearOp{
		n:    s.grid.nodes,
		forw: func(model, data []float64) error { return s.Solve(model, data, nil) },
		adj:  func(data, model []float64) error { return s.Inverse(model, data, nil) },
	}
}

func (op *linearOp) Shape() (int, int) { return op.n, op.n }

// Apply is not safe for concurrent use: the add path shares a scratch buffer.
func (op *linearOp) Apply(adj, add bool, model, data []float64) error {
	if len(model) != op.n || len(data) != op.n {
		return fmt.Errorf("%w: model=%d data=%d, want %d", ErrLength, len(model), len(data), op.n)
	}
	in, out, f := model, data, op.forw
	if adj {
		in, out, f = data, model, op.adj
	}
	if !add {
		return f(in, out)
	}
	if op.scratch == nil {
		op.scratch = make([]float64, op.n)
	}
	if err := f(in, op.scratch); err != nil {
		return err
	}
	for i, v := range op.scratch {
		out[i] += v
	}
	return nil
}
