// Package objects implements the shape-transition graph of the object model.
//
// This package contains:
//   - Interned property names and the special transition symbols
//   - The Shape entity and its polymorphic transition storage slot
//   - TransitionsAccessor: the per-shape storage state machine
//   - TransitionArray: the sorted, weakly-referenced edge table
//   - The bounded prototype transition cache
//   - A weak-reference heap arena the external collector drives
package objects
