package engine

import (
	"fmt"
	"strconv"

	"github.com/billhsia/crfbind/core"
	"github.com/billhsia/crfbind/evaluation"
	"github.com/billhsia/crfbind/params"
)

// instance is one appended training example with its group tag.
type instance struct {
	items  core.ItemSequence
	labels core.LabelSequence
	group  int
}

// Engine is the in-process reference backend. It satisfies core.Engine and
// io.Closer. The zero value is unusable; construct with New. Like any
// engine handle, it is not safe for concurrent use.
type Engine struct {
	algorithm *algorithm
	values    map[string]string
	data      []instance
	callback  func(msg []byte)
}

var _ core.Engine = (*Engine)(nil)

// New creates an unselected engine handle. Callers must Select an
// algorithm/model-type pair before anything else; the trainer does this at
// construction.
func New() *Engine {
	return &Engine{}
}

// Select binds an algorithm / model type pair. Unknown pairs return false
// and leave the previous selection and its parameters intact. A successful
// selection resets parameters to the algorithm's defaults.
func (e *Engine) Select(algorithmName, modelType string) bool {
	canonical, ok := algorithmAliases[algorithmName]
	if !ok || !modelTypes[modelType] {
		return false
	}
	e.algorithm = algorithms[canonical]
	e.values = make(map[string]string, len(e.algorithm.specs))
	for _, spec := range e.algorithm.specs {
		e.values[spec.name] = spec.def
	}
	return true
}

// Append stores one training instance. The items and labels are deep-copied
// so later host-side mutation cannot reach engine state. A length mismatch
// is an incompatible-data error.
func (e *Engine) Append(items core.ItemSequence, labels core.LabelSequence, group int) error {
	if len(items) != len(labels) {
		return fmt.Errorf("append %d items with %d labels: %w",
			len(items), len(labels), core.NewTrainError(core.StatusIncompatible))
	}
	e.data = append(e.data, instance{
		items:  items.Clone(),
		labels: labels.Clone(),
		group:  group,
	})
	return nil
}

// Params returns the ordered option names of the current selection.
func (e *Engine) Params() []string {
	if e.algorithm == nil {
		return nil
	}
	names := make([]string, len(e.algorithm.specs))
	for i, spec := range e.algorithm.specs {
		names[i] = spec.name
	}
	return names
}

// Get returns the string encoding of a parameter of the current selection.
func (e *Engine) Get(name string) (string, error) {
	if e.algorithm == nil || e.algorithm.spec(name) == nil {
		return "", fmt.Errorf("unknown parameter: %q", name)
	}
	return e.values[name], nil
}

// Set validates and stores a parameter value. Both the name and the value
// format are checked here; this is the authoritative validation the adapter
// relies on.
func (e *Engine) Set(name, value string) error {
	if e.algorithm == nil {
		return fmt.Errorf("no algorithm selected")
	}
	spec := e.algorithm.spec(name)
	if spec == nil {
		return fmt.Errorf("unknown parameter: %q", name)
	}
	switch spec.kind {
	case params.Int:
		if _, err := strconv.Atoi(value); err != nil {
			return fmt.Errorf("invalid int value for %q: %q", name, value)
		}
	case params.Float:
		if _, err := strconv.ParseFloat(value, 64); err != nil {
			return fmt.Errorf("invalid float value for %q: %q", name, value)
		}
	}
	e.values[name] = value
	return nil
}

// Help returns the description of a parameter of the current selection.
func (e *Engine) Help(name string) (string, error) {
	if e.algorithm == nil {
		return "", fmt.Errorf("no algorithm selected")
	}
	spec := e.algorithm.spec(name)
	if spec == nil {
		return "", fmt.Errorf("unknown parameter: %q", name)
	}
	return spec.help, nil
}

// Clear discards all accumulated instances. Selection and parameter values
// are kept.
func (e *Engine) Clear() {
	e.data = nil
}

// Len returns the number of accumulated instances.
func (e *Engine) Len() int {
	return len(e.data)
}

// SetMessageCallback registers the progress message callback. Messages are
// emitted synchronously during Train on the calling goroutine.
func (e *Engine) SetMessageCallback(fn func(msg []byte)) {
	e.callback = fn
}

// Close releases the handle's dataset. The handle stays selectable, so a
// closed engine can be reused, but the trainer closes exactly once and then
// drops its reference.
func (e *Engine) Close() error {
	e.data = nil
	return nil
}

func (e *Engine) msg(format string, args ...any) {
	if e.callback != nil {
		e.callback([]byte(fmt.Sprintf(format, args...)))
	}
}

func (e *Engine) floatParam(name string) float64 {
	f, _ := strconv.ParseFloat(e.values[name], 64)
	return f
}

func (e *Engine) intParam(name string) int {
	n, _ := strconv.Atoi(e.values[name])
	return n
}

// Train runs the selected algorithm over the accumulated dataset, excluding
// instances tagged holdoutGroup from the objective (-1 disables the
// holdout) and writing the model file when modelPath is non-empty. All
// failures, including internal panics, surface as a status code; nothing
// unwinds across this boundary.
func (e *Engine) Train(modelPath string, holdoutGroup int) (status core.Status) {
	defer func() {
		// The callback itself may be the panic source, so no message is
		// emitted here.
		if r := recover(); r != nil {
			status = core.StatusInternalLogic
		}
	}()

	if e.algorithm == nil {
		return core.StatusNotSupported
	}

	var train, holdout []instance
	for _, inst := range e.data {
		if holdoutGroup >= 0 && inst.group == holdoutGroup {
			holdout = append(holdout, inst)
		} else {
			train = append(train, inst)
		}
	}
	if len(train) == 0 {
		return core.StatusIncompatible
	}

	m := newModel(train, e.floatParam("feature.minfreq"))
	encoded := make([]encodedInstance, len(train))
	for i, inst := range train {
		encoded[i] = m.encode(inst)
	}

	e.msg("Training with %s: %d instances, %d labels, %d attributes, %d features\n",
		e.algorithm.name, len(train), m.numLabels(), m.attrs.size(), m.numWeights())

	switch e.algorithm.name {
	case "lbfgs":
		e.trainLBFGS(m, encoded)
	case "l2sgd":
		e.trainL2SGD(m, encoded)
	case "ap":
		e.trainPerceptron(m, encoded)
	case "pa":
		e.trainPA(m, encoded)
	case "arow":
		e.trainAROW(m, encoded)
	default:
		return core.StatusNotImplemented
	}

	if len(holdout) > 0 {
		instances := make([]evaluation.Instance, len(holdout))
		for i, inst := range holdout {
			instances[i] = evaluation.Instance{Items: inst.items, Labels: inst.labels}
		}
		res := evaluation.Score(m.predict, instances)
		e.msg("Holdout group %d: %s\n", holdoutGroup, res)
	}

	if modelPath != "" {
		if err := m.save(modelPath, e.algorithm.name); err != nil {
			e.msg("Saving model failed: %v\n", err)
			return core.StatusUnknown
		}
		e.msg("Model saved to %s\n", modelPath)
	}

	return core.StatusSuccess
}
