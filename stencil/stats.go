package stencil

// Stats aggregates structural statistics of a built stencil.
type Stats struct {
	Nodes        int     `yaml:"nodes"`
	Boundary     int     `yaml:"boundary"`      // nodes with zero diagonal weight
	CausalAxes   []int   `yaml:"causal_axes"`   // per axis: nodes with an upwind neighbor
	PlusSide     []int   `yaml:"plus_side"`     // per axis: causal nodes whose neighbor is on the plus side
	MaxDiagonal  float64 `yaml:"max_diagonal"`
	MeanDiagonal float64 `yaml:"mean_diagonal"` // over non-boundary nodes
}

// Stats computes aggregate statistics. Safe on a closed stencil (returns zero-value fields).
func (s *Stencil) Stats() *Stats {
	st := &Stats{}
	if s.closed {
		return st
	}
	ndim := s.grid.ndim
	st.Nodes = len(s.order)
	st.CausalAxes = make([]int, ndim)
	st.PlusSide = make([]int, ndim)

	total := 0.0
	for k := range s.order {
		d := s.Diagonal(k)
		if d == 0 {
			st.Boundary++
			continue
		}
		total += d
		if d > st.MaxDiagonal {
			st.MaxDiagonal = d
		}
		for i := 0; i < ndim; i++ {
			if s.causal[k].Has(i) {
				st.CausalAxes[i]++
				if s.direction[k].Has(i) {
					st.PlusSide[i]++
				}
			}
		}
	}
	if n := st.Nodes - st.Boundary; n > 0 {
		st.MeanDiagonal = total / float64(n)
	}
	return st
}
