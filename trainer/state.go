package trainer

// State is the trainer lifecycle phase.
type State int

const (
	// StateConstructed is the zero value; it is never observed on a Trainer
	// built with New, which selects the default pair before returning.
	StateConstructed State = iota

	// StateConfigured means an algorithm/model-type pair is selected.
	StateConfigured

	// StatePopulated means at least one instance has been appended.
	StatePopulated

	// StateTraining means a Train call is in progress on this goroutine.
	StateTraining

	// StateCompleted means the last Train call succeeded.
	StateCompleted

	// StateFailed means the last Train call returned a failure status. The
	// accumulated dataset is untouched and the trainer remains usable.
	StateFailed
)

// String returns the state name.
func (s State) String() string {
	switch s {
	case StateConstructed:
		return "constructed"
	case StateConfigured:
		return "configured"
	case StatePopulated:
		return "populated"
	case StateTraining:
		return "training"
	case StateCompleted:
		return "completed"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}
