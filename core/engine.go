package core

// Engine is the narrow contract between the adapter and a CRF training
// backend. Implementations are opaque to the adapter: they own the model
// representation, the optimization algorithms and the persisted file format.
//
// The contract is deliberately unforgiving in two places, and the trainer
// package exists to guard them:
//
//   - Help is undefined for a name that is not currently listed by Params.
//     Callers must check membership first.
//   - Behavior of any call before the first successful Select is undefined.
//     The trainer performs a default Select at construction so an engine
//     handle is never queried unselected.
//
// Engines are not safe for concurrent use; all calls against one handle must
// be serialized by the caller.
type Engine interface {
	// Select binds an algorithm / graphical-model type pair. It returns
	// false for an unknown pair and leaves the previous selection intact.
	// A successful Select resets the live parameter set to the defaults of
	// the new algorithm.
	Select(algorithm, modelType string) bool

	// Append adds one training instance under the given group tag. The
	// engine is the arbiter of data compatibility: an item/label length
	// mismatch is reported as an incompatible-data error.
	Append(items ItemSequence, labels LabelSequence, group int) error

	// Train runs the training loop synchronously over the accumulated
	// dataset, excluding instances tagged holdoutGroup from the objective
	// (holdoutGroup -1 means no holdout). An empty modelPath trains without
	// persisting a model file. The returned status is StatusSuccess or one
	// of the failure codes; Train never panics across this boundary.
	Train(modelPath string, holdoutGroup int) Status

	// Params returns the ordered option names valid for the current
	// selection. The set changes whenever Select is called.
	Params() []string

	// Get returns the string encoding of a parameter value. Names outside
	// the current selection are an error.
	Get(name string) (string, error)

	// Set stores a parameter from its string encoding. The engine performs
	// the authoritative validation of both name and format.
	Set(name, value string) error

	// Help returns the description of a parameter. Undefined for names not
	// currently listed by Params; never call it unguarded.
	Help(name string) (string, error)

	// Clear discards all accumulated instances, keeping the selection and
	// parameter values.
	Clear()

	// SetMessageCallback registers the single callback invoked once per
	// progress message during Train. Messages arrive synchronously and
	// reentrantly on the goroutine that called Train, as raw bytes in the
	// engine's native (UTF-8) encoding. The callback must not panic.
	SetMessageCallback(fn func(msg []byte))
}
