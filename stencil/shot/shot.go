// Package shot builds one stencil per source on a shared grid.
//
// Each shot has its own reference field (for example the traveltime table of
// one seismic source). Builds are independent: they share only the read-only
// stencil.Grid, so BuildAll runs them on a bounded pool of goroutines.
package shot

import (
	"context"
	"errors"
	"fmt"
	"runtime"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/inference-sim/upwind/stencil"
)

// ErrNoShots indicates BuildAll was called without any reference field.
var ErrNoShots = errors.New("shot: no reference fields")

// Options controls BuildAll.
type Options struct {
	// Workers bounds the number of concurrent builds; <= 0 uses GOMAXPROCS.
	Workers int
}

// Set is the result of BuildAll. Stencils[i] was built from fields[i].
type Set struct {
	Grid     *stencil.Grid
	Stencils []*stencil.Stencil
}

// Close releases every stencil in the set. Safe to call more than once.
func (s *Set) Close() {
	for _, st := range s.Stencils {
		if st != nil {
			st.Close()
		}
	}
}

// BuildAll allocates and builds one stencil per reference field.
//
// The context is checked before each build starts; a running build is never
// interrupted. On the first failure (or cancellation) the remaining builds
// are skipped, every stencil already built is closed, and the error is
// returned wrapped with the index of the failing shot.
func BuildAll(ctx context.Context, grid *stencil.Grid, fields [][]float64, opts Options) (*Set, error) {
	if len(fields) == 0 {
		return nil, ErrNoShots
	}
	workers := opts.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	set := &Set{Grid: grid, Stencils: make([]*stencil.Stencil, len(fields))}
	eg, egCtx := errgroup.WithContext(ctx)
	eg.SetLimit(workers)

	for i, f := range fields {
		i, f := i, f
		eg.Go(func() error {
			if err := egCtx.Err(); err != nil {
				return fmt.Errorf("shot %d: %w", i, err)
			}
			st, err := stencil.New(grid)
			if err != nil {
				return fmt.Errorf("shot %d: %w", i, err)
			}
			if err := st.Build(f); err != nil {
				st.Close()
				return fmt.Errorf("shot %d: %w", i, err)
			}
			// each goroutine owns a distinct slot
			set.Stencils[i] = st
			logrus.Debugf("shot %d: stencil built", i)
			return nil
		})
	}

	if err := eg.Wait(); err != nil {
		set.Close()
		return nil, err
	}
	logrus.Infof("built %d stencils on %v with %d workers", len(fields), grid, workers)
	return set, nil
}
