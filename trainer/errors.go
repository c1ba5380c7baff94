package trainer

import "fmt"

// InvalidArgumentError reports an algorithm/model-type pair the engine does
// not know.
type InvalidArgumentError struct {
	Algorithm string
	ModelType string
}

// Error implements the error interface.
func (e *InvalidArgumentError) Error() string {
	return fmt.Sprintf("unknown algorithm %q or model type %q", e.Algorithm, e.ModelType)
}

// ParameterNotFoundError reports a Help lookup for a name outside the
// current selection's parameter set. It is raised before the engine's help
// path is touched, because that path is undefined for unregistered names.
type ParameterNotFoundError struct {
	Name string
}

// Error implements the error interface.
func (e *ParameterNotFoundError) Error() string {
	return fmt.Sprintf("parameter not found: %s", e.Name)
}
