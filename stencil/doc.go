// Package stencil builds upwind causal stencils on regular 1-3D grids and
// applies the four linear operators defined by them.
//
// # Reading Guide
//
//   - grid.go: Grid, the immutable sampling geometry (sizes, strides, 1/d²)
//   - stencil.go: Stencil allocation, Build (causal sort + upwind selection)
//   - operators.go: Solve, Inverse, Forward, Adjoint
//   - operator.go: Operator adapters in the (adj, add) convention
//
// # Model
//
// Build sorts the grid nodes by ascending value of a reference field (for
// example a traveltime table). Along each axis a node picks the neighbor with
// the smaller field value; if that value is strictly smaller than the node's
// own, the axis contributes the weight (t - t2)/d². The diagonal of a node is
// the sum of its axis weights. A zero diagonal marks a boundary node, such as
// the source point of a traveltime table.
//
// Forward computes Σ w·(x - x_upwind); Adjoint is its transpose. Solve inverts
// the lower-triangular system (diag·x - Σ w·x_upwind = rhs) by forward
// substitution in causal order; Inverse is its transpose.
//
// A Grid is shared read-only. Each Stencil owns its arrays and may be built
// and applied concurrently with other stencils on the same grid; sub-package
// shot does that for one stencil per source.
//
// Plateaus: a neighbor with exactly the same field value is not upwind. Nodes
// inside a flat region of the reference field therefore lose those axes, and
// become boundary nodes when every axis is flat.
package stencil
