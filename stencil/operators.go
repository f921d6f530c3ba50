package stencil

// Solve runs forward substitution through the causal order:
//
//	x[jt] = (rhs[jt] + Σ w_i·x[nb_i]) / diag
//
// Every upwind neighbor precedes its node in the order, so each x[nb_i] is
// final when read. Boundary nodes (diag == 0) take x0[jt], or 0 when x0 is nil.
func (s *Stencil) Solve(rhs, x, x0 []float64) error {
	if err := s.check(rhs, x); err != nil {
		return err
	}
	if x0 != nil {
		if err := s.check(x0); err != nil {
			return err
		}
	}
	ndim := s.grid.ndim
	for k, jt := range s.order {
		w := s.weight[k*s.rec : (k+1)*s.rec]
		den := w[ndim]
		if den == 0 {
			x[jt] = initial(x0, jt)
			continue
		}
		num := rhs[jt]
		up, dir := s.causal[k], s.direction[k]
		for i := 0; i < ndim; i++ {
			if up.Has(i) {
				num += w[i] * x[s.neighbor(jt, dir, i)]
			}
		}
		x[jt] = num / den
	}
	return nil
}

// Inverse is the adjoint of Solve. It walks the causal order backwards,
// scaling each accumulated value by the diagonal and scattering it onto the
// upwind neighbors. rhs is overwritten; boundary nodes take x0[jt] (or 0).
func (s *Stencil) Inverse(rhs, x, x0 []float64) error {
	if err := s.check(rhs, x); err != nil {
		return err
	}
	if x0 != nil {
		if err := s.check(x0); err != nil {
			return err
		}
	}
	clear(rhs)
	ndim := s.grid.ndim
	for k := len(s.order) - 1; k >= 0; k-- {
		jt := s.order[k]
		w := s.weight[k*s.rec : (k+1)*s.rec]
		den := w[ndim]
		if den == 0 {
			rhs[jt] = initial(x0, jt)
			continue
		}
		r := (rhs[jt] + x[jt]) / den
		rhs[jt] = r
		up, dir := s.causal[k], s.direction[k]
		for i := 0; i < ndim; i++ {
			if up.Has(i) {
				rhs[s.neighbor(jt, dir, i)] += w[i] * r
			}
		}
	}
	return nil
}

// Forward applies the upwind weighted difference
//
//	rhs[jt] = Σ w_i·(x[jt] - x[nb_i])
//
// Boundary rows are zero.
func (s *Stencil) Forward(x, rhs []float64) error {
	if err := s.check(x, rhs); err != nil {
		return err
	}
	ndim := s.grid.ndim
	for k, jt := range s.order {
		w := s.weight[k*s.rec : (k+1)*s.rec]
		x2 := x[jt]
		up, dir := s.causal[k], s.direction[k]
		num := 0.0
		for i := 0; i < ndim; i++ {
			if up.Has(i) {
				num += w[i] * (x2 - x[s.neighbor(jt, dir, i)])
			}
		}
		rhs[jt] = num
	}
	return nil
}

// Adjoint is the transpose of Forward. x is overwritten.
func (s *Stencil) Adjoint(x, rhs []float64) error {
	if err := s.check(x, rhs); err != nil {
		return err
	}
	clear(x)
	ndim := s.grid.ndim
	for k := len(s.order) - 1; k >= 0; k-- {
		jt := s.order[k]
		w := s.weight[k*s.rec : (k+1)*s.rec]
		up, dir := s.causal[k], s.direction[k]
		for i := 0; i < ndim; i++ {
			if up.Has(i) {
				v := w[i] * rhs[jt]
				x[jt] += v
				x[s.neighbor(jt, dir, i)] -= v
			}
		}
	}
	return nil
}

func initial(x0 []float64, jt int) float64 {
	if x0 == nil {
		return 0
	}
	return x0[jt]
}
