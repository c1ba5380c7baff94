// Package trainer drives the CRF training lifecycle over an engine handle.
//
// A Trainer exclusively owns one core.Engine handle and the dataset
// accumulated into it. Host code selects an algorithm, appends marshalled
// instances, tunes typed parameters and invokes the synchronous, blocking
// Train call, during which the engine's progress messages are relayed
// through an overridable handler.
//
// Two crash hazards of wrapped native engines are guarded here rather than
// left to callers:
//
//   - No engine call ever happens on an unselected handle: construction
//     performs a default Select before returning. This is a safety guard,
//     not a semantic default to rely on.
//   - No failure in a progress-message handler ever unwinds into the
//     engine's call frame: handler errors and panics are logged as warnings
//     and swallowed, and training continues unaffected.
//
// A Trainer is not safe for concurrent use; serialize all calls against one
// instance.
package trainer
