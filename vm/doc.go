// Package vm implements the SOL25 runtime.
//
// This package contains:
//   - Object representation (built-in values, instances, class values)
//   - VTable-based method dispatch with per-class primitives
//   - Frames and the frame stack
//   - The tree-walking interpreter and its error taxonomy
package vm
