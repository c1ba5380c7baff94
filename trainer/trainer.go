package trainer

import (
	"fmt"
	"io"
	"runtime/debug"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/billhsia/crfbind/core"
	"github.com/billhsia/crfbind/engine"
	"github.com/billhsia/crfbind/logging"
	"github.com/billhsia/crfbind/params"
	"github.com/billhsia/crfbind/sequence"
)

// DefaultAlgorithm and DefaultModelType are the known-safe pair selected at
// construction so no engine call ever happens on an unselected handle. The
// pair is a correctness guard: callers wanting lbfgs semantics should still
// Select it explicitly.
const (
	DefaultAlgorithm = "lbfgs"
	DefaultModelType = "crf1d"
)

// Options configures a Trainer.
type Options struct {
	// Engine is the training backend. Defaults to the bundled in-process
	// engine. The Trainer takes exclusive ownership of the handle.
	Engine core.Engine

	// Logger receives lifecycle events, the default handler's progress
	// messages and swallowed handler failures. Defaults to NoOpLogger.
	Logger logging.Logger

	// Handler overrides the progress-message handler. Defaults to logging
	// each message at the informational level.
	Handler MessageHandler
}

// Trainer owns one engine handle and the dataset accumulated into it. It is
// created with New, used from a single goroutine and released with Close.
type Trainer struct {
	id        string
	engine    core.Engine
	logger    logging.Logger
	handler   MessageHandler
	state     State
	algorithm string
	modelType string
	instances int
	closeOnce sync.Once
	closeErr  error
}

// New creates a Trainer bound to its engine handle and performs the
// defensive default selection. A rejected default selection fails
// construction and releases the handle.
func New(optFns ...func(o *Options)) (*Trainer, error) {
	opts := Options{
		Logger: logging.NoOpLogger{},
	}
	for _, fn := range optFns {
		fn(&opts)
	}
	if opts.Engine == nil {
		opts.Engine = engine.New()
	}
	if opts.Handler == nil {
		opts.Handler = &logHandler{logger: opts.Logger}
	}

	t := &Trainer{
		id:      uuid.NewString(),
		engine:  opts.Engine,
		logger:  opts.Logger,
		handler: opts.Handler,
	}
	t.engine.SetMessageCallback(t.dispatch)

	if !t.engine.Select(DefaultAlgorithm, DefaultModelType) {
		_ = t.Close()
		return nil, fmt.Errorf("engine rejected the default selection %s/%s",
			DefaultAlgorithm, DefaultModelType)
	}
	t.state = StateConfigured
	t.algorithm = DefaultAlgorithm
	t.modelType = DefaultModelType
	t.logger.Debug("trainer constructed", "trainer_id", t.id)
	return t, nil
}

// WithEngine overrides the training backend.
func WithEngine(e core.Engine) func(o *Options) {
	return func(o *Options) { o.Engine = e }
}

// WithLogger overrides the logger.
func WithLogger(l logging.Logger) func(o *Options) {
	return func(o *Options) { o.Logger = l }
}

// WithHandler overrides the progress-message handler.
func WithHandler(h MessageHandler) func(o *Options) {
	return func(o *Options) { o.Handler = h }
}

// ID returns the trainer's unique identifier, useful for log correlation.
func (t *Trainer) ID() string { return t.id }

// State returns the current lifecycle state.
func (t *Trainer) State() State { return t.state }

// Close releases the engine handle. It is idempotent; only the first call
// reaches the engine.
func (t *Trainer) Close() error {
	t.closeOnce.Do(func() {
		if closer, ok := t.engine.(io.Closer); ok {
			t.closeErr = closer.Close()
		}
		t.logger.Debug("trainer closed", "trainer_id", t.id)
	})
	return t.closeErr
}

// Select binds an algorithm / graphical-model type pair. An unknown pair is
// rejected with *InvalidArgumentError before any state changes. Selection
// re-enters the configured state; parameters tuned for the previous
// algorithm no longer apply (the engine decides whether values are reset or
// preserved). The accumulated dataset is kept.
func (t *Trainer) Select(algorithm, modelType string) error {
	if !t.engine.Select(algorithm, modelType) {
		return &InvalidArgumentError{Algorithm: algorithm, ModelType: modelType}
	}
	t.state = StateConfigured
	t.algorithm = algorithm
	t.modelType = modelType
	t.logger.Debug("algorithm selected", "trainer_id", t.id, "algorithm", algorithm, "model_type", modelType)
	return nil
}

// Append marshals a loosely typed instance (see sequence.FromAny) and adds
// it to the dataset under the given group tag. The engine is the arbiter of
// length-mismatch and compatibility errors.
func (t *Trainer) Append(xseq any, yseq []string, group int) error {
	items, err := sequence.FromAny(xseq)
	if err != nil {
		return err
	}
	return t.AppendSeq(items, yseq, group)
}

// AppendSeq adds an already marshalled instance.
func (t *Trainer) AppendSeq(items core.ItemSequence, yseq []string, group int) error {
	if err := t.engine.Append(items, core.LabelSequence(yseq), group); err != nil {
		return err
	}
	t.instances++
	t.state = StatePopulated
	return nil
}

// Train runs the engine's training loop synchronously over the accumulated
// dataset. Instances tagged holdoutGroup are excluded from the objective and
// used only for evaluation; -1 disables the holdout. An empty modelPath
// trains without persisting a model file. Any non-success status is
// translated into a *core.TrainError; the dataset is untouched on failure.
func (t *Trainer) Train(modelPath string, holdoutGroup int) error {
	t.state = StateTraining
	t.logger.Info("training started",
		"trainer_id", t.id,
		"algorithm", t.algorithm,
		"model_type", t.modelType,
		"instances", t.instances,
		"holdout_group", holdoutGroup,
	)
	start := time.Now()

	status := t.engine.Train(modelPath, holdoutGroup)
	if err := core.NewTrainError(status); err != nil {
		t.state = StateFailed
		t.logger.Error("training failed",
			"trainer_id", t.id,
			"status", int(status),
			"error", err.Message,
			"duration", time.Since(start),
		)
		return err
	}

	t.state = StateCompleted
	t.logger.Info("training completed", "trainer_id", t.id, "duration", time.Since(start))
	return nil
}

// TrainAll is Train with no holdout group.
func (t *Trainer) TrainAll(modelPath string) error {
	return t.Train(modelPath, -1)
}

// Clear discards all accumulated instances. Algorithm selection and
// parameter values are unchanged.
func (t *Trainer) Clear() {
	t.engine.Clear()
	t.instances = 0
	t.state = StateConfigured
}

// Params returns the parameter names valid for the current selection.
func (t *Trainer) Params() []string {
	return t.engine.Params()
}

// Set stores a parameter value. Booleans are coerced to integers before
// string encoding; the engine performs the authoritative validation of name
// and format.
func (t *Trainer) Set(name string, value any) error {
	encoded, err := params.Encode(value)
	if err != nil {
		return fmt.Errorf("set %q: %w", name, err)
	}
	return t.engine.Set(name, encoded)
}

// Get fetches a parameter value, decoded to the registered type when the
// name is known to the registry and returned as the raw string otherwise.
func (t *Trainer) Get(name string) (any, error) {
	raw, err := t.engine.Get(name)
	if err != nil {
		return nil, err
	}
	return params.Decode(name, raw), nil
}

// Help returns the engine's description of a parameter. The name is checked
// against the current Params set first: the engine's help lookup is
// undefined for unregistered names, so an absent name fails with
// *ParameterNotFoundError without touching the engine.
func (t *Trainer) Help(name string) (string, error) {
	for _, p := range t.engine.Params() {
		if p == name {
			return t.engine.Help(name)
		}
	}
	return "", &ParameterNotFoundError{Name: name}
}

// dispatch is the message-channel boundary. It runs reentrantly inside the
// engine's Train frame, so no failure may escape: handler errors and panics
// are logged as warnings with their cause and swallowed, and control always
// returns to the engine as if the handler had succeeded.
func (t *Trainer) dispatch(msg []byte) {
	text := strings.ToValidUTF8(string(msg), "�")
	defer func() {
		if r := recover(); r != nil {
			t.logger.Warn("progress message handler panicked",
				"trainer_id", t.id,
				"cause", fmt.Sprintf("%v", r),
				"stack", string(debug.Stack()),
				"message", text,
			)
		}
	}()
	if err := t.handler.HandleMessage(text); err != nil {
		t.logger.Warn("progress message handler failed",
			"trainer_id", t.id,
			"error", err.Error(),
			"message", text,
		)
	}
}
