// Package core provides the foundational domain types and interfaces shared
// by the CRF training adapter. It defines:
//
//   - Attribute / Item / ItemSequence / LabelSequence (the engine's data layout)
//   - Engine (the narrow contract every training backend must satisfy)
//   - Status codes and their translation into structured training errors
//
// The package intentionally keeps implementation concerns (concrete backends,
// the trainer state machine, marshalling of host data) out of scope, exposing
// small types and one interface so that any training engine - the bundled
// in-process backend or a cgo binding to a native library - can sit behind
// the same adapter.
package core
