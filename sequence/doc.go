// Package sequence marshals host-side per-token feature representations into
// the engine's item/attribute layout. It accepts the two canonical host forms
// - ordered (name, weight) features and plain name lists with an implicit
// weight of 1.0 - plus a dynamic form for data decoded from JSON, YAML or
// similar loosely typed sources.
//
// Marshalling is a pure transformation: token order and per-token feature
// order are preserved exactly as iterated from the input, nothing is sorted
// or deduplicated, and the produced ItemSequence is a fully owned copy that
// retains no references to host memory. Whether an empty item or an empty
// sequence is acceptable is the engine's decision, not this package's.
package sequence
