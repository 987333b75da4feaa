// Package model provides the shared value types for page comparison.
//
// This package defines the user-facing data structures produced and consumed
// by the comparison pipeline. All rasterization, differencing, and alignment
// operations ultimately produce these types, making them the primary API for
// consuming comparison output.
//
// # Geometry
//
// Geometric primitives use integer pixel coordinates in raster space:
//
//   - [Rect] - half-open axis-aligned rectangle with expand/clamp helpers
//   - [Zone] - a validated exclusion rectangle exempted from differencing
//
// # Pages and results
//
// A [Page] is one rendered page together with its original 1-based page
// number. A [PageResult] records the outcome of comparing one aligned page
// pair, and [Summary] aggregates the results of a whole comparison run.
package model
