package trainer

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/billhsia/crfbind/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// -------------------- Test doubles --------------------

type logEntry struct {
	level string
	msg   string
	args  []any
}

type recordingLogger struct {
	entries []logEntry
}

func (l *recordingLogger) record(level, msg string, args []any) {
	l.entries = append(l.entries, logEntry{level: level, msg: msg, args: args})
}

func (l *recordingLogger) Debug(msg string, args ...any) { l.record("debug", msg, args) }
func (l *recordingLogger) Info(msg string, args ...any)  { l.record("info", msg, args) }
func (l *recordingLogger) Warn(msg string, args ...any)  { l.record("warn", msg, args) }
func (l *recordingLogger) Error(msg string, args ...any) { l.record("error", msg, args) }

func (l *recordingLogger) count(level string) int {
	n := 0
	for _, e := range l.entries {
		if e.level == level {
			n++
		}
	}
	return n
}

// fakeEngine records calls and lets tests script rejections. It stands in
// for an opaque native backend.
type fakeEngine struct {
	selected    [][2]string
	rejectAll   bool
	params      []string
	values      map[string]string
	appended    int
	appendErr   error
	trainStatus core.Status
	helpCalls   int
	cleared     bool
	callback    func([]byte)
	emit        []string
}

func newFakeEngine() *fakeEngine {
	return &fakeEngine{
		params: []string{"c1", "c2", "max_iterations"},
		values: map[string]string{},
	}
}

func (f *fakeEngine) Select(algorithm, modelType string) bool {
	if f.rejectAll || algorithm == "not_an_algorithm" {
		return false
	}
	f.selected = append(f.selected, [2]string{algorithm, modelType})
	return true
}

func (f *fakeEngine) Append(items core.ItemSequence, labels core.LabelSequence, group int) error {
	if f.appendErr != nil {
		return f.appendErr
	}
	f.appended++
	return nil
}

func (f *fakeEngine) Train(modelPath string, holdoutGroup int) core.Status {
	for _, m := range f.emit {
		f.callback([]byte(m))
	}
	return f.trainStatus
}

func (f *fakeEngine) Params() []string { return f.params }

func (f *fakeEngine) Get(name string) (string, error) {
	v, ok := f.values[name]
	if !ok {
		return "", fmt.Errorf("unknown parameter: %q", name)
	}
	return v, nil
}

func (f *fakeEngine) Set(name, value string) error {
	f.values[name] = value
	return nil
}

func (f *fakeEngine) Help(name string) (string, error) {
	f.helpCalls++
	return "help for " + name, nil
}

func (f *fakeEngine) Clear() { f.cleared = true }

func (f *fakeEngine) SetMessageCallback(fn func(msg []byte)) { f.callback = fn }

// -------------------- Construction & lifecycle --------------------

func TestNewSelectsDefaultPair(t *testing.T) {
	fake := newFakeEngine()
	tr, err := New(WithEngine(fake))
	require.NoError(t, err)
	defer tr.Close()

	// The defensive selection happened before New returned, so the handle
	// was never queried unselected.
	require.Len(t, fake.selected, 1)
	assert.Equal(t, [2]string{DefaultAlgorithm, DefaultModelType}, fake.selected[0])
	assert.Equal(t, StateConfigured, tr.State())
	assert.NotEmpty(t, tr.ID())
}

func TestNewFailsWhenDefaultSelectionRejected(t *testing.T) {
	fake := newFakeEngine()
	fake.rejectAll = true
	_, err := New(WithEngine(fake))
	assert.Error(t, err)
}

func TestCloseIsIdempotent(t *testing.T) {
	tr, err := New()
	require.NoError(t, err)
	assert.NoError(t, tr.Close())
	assert.NoError(t, tr.Close())
}

func TestStateTransitions(t *testing.T) {
	tr, err := New()
	require.NoError(t, err)
	defer tr.Close()

	assert.Equal(t, StateConfigured, tr.State())
	require.NoError(t, tr.Append([]map[string]float64{{"bias": 1.0}}, []string{"A"}, 0))
	assert.Equal(t, StatePopulated, tr.State())

	require.NoError(t, tr.TrainAll(""))
	assert.Equal(t, StateCompleted, tr.State())

	tr.Clear()
	assert.Equal(t, StateConfigured, tr.State())

	require.NoError(t, tr.Select("l2sgd", "crf1d"))
	assert.Equal(t, StateConfigured, tr.State())
}

// -------------------- Selection --------------------

func TestSelectInvalidPairRejected(t *testing.T) {
	tr, err := New()
	require.NoError(t, err)
	defer tr.Close()
	before := tr.Params()

	err = tr.Select("not_an_algorithm", "crf1d")
	var iaErr *InvalidArgumentError
	require.True(t, errors.As(err, &iaErr))
	assert.Equal(t, "not_an_algorithm", iaErr.Algorithm)

	// No state mutation on rejection.
	assert.Equal(t, before, tr.Params())
	assert.Equal(t, StateConfigured, tr.State())
}

func TestSelectChangesParamSet(t *testing.T) {
	tr, err := New()
	require.NoError(t, err)
	defer tr.Close()

	assert.Contains(t, tr.Params(), "num_memories")
	require.NoError(t, tr.Select("ap", "crf1d"))
	assert.NotContains(t, tr.Params(), "num_memories")
}

// -------------------- Typed parameters --------------------

func TestParameterRoundTrip(t *testing.T) {
	tr, err := New()
	require.NoError(t, err)
	defer tr.Close()

	require.NoError(t, tr.Set("c1", 0.5))
	v, err := tr.Get("c1")
	require.NoError(t, err)
	assert.Equal(t, 0.5, v)

	require.NoError(t, tr.Set("max_iterations", 100))
	v, err = tr.Get("max_iterations")
	require.NoError(t, err)
	assert.Equal(t, 100, v)
}

func TestBooleanCoercion(t *testing.T) {
	tr, err := New()
	require.NoError(t, err)
	defer tr.Close()

	require.NoError(t, tr.Select("pa", "crf1d"))
	require.NoError(t, tr.Set("averaging", true))
	v, err := tr.Get("averaging")
	require.NoError(t, err)
	assert.Equal(t, 1, v)
}

func TestSetInvalidNameSurfacesEngineError(t *testing.T) {
	tr, err := New()
	require.NoError(t, err)
	defer tr.Close()
	assert.Error(t, tr.Set("not_a_real_param", 1))
}

func TestHelpGuardsUnregisteredNames(t *testing.T) {
	fake := newFakeEngine()
	tr, err := New(WithEngine(fake))
	require.NoError(t, err)
	defer tr.Close()

	_, err = tr.Help("not_a_real_param")
	var nfErr *ParameterNotFoundError
	require.True(t, errors.As(err, &nfErr))
	assert.Equal(t, "not_a_real_param", nfErr.Name)
	// The engine's help path was never touched.
	assert.Zero(t, fake.helpCalls)

	text, err := tr.Help("c1")
	require.NoError(t, err)
	assert.Equal(t, "help for c1", text)
	assert.Equal(t, 1, fake.helpCalls)
}

// -------------------- Appending --------------------

func TestAppendLengthMismatch(t *testing.T) {
	tr, err := New()
	require.NoError(t, err)
	defer tr.Close()

	err = tr.Append([][]string{{"a"}, {"b"}}, []string{"A"}, 0)
	var terr *core.TrainError
	require.True(t, errors.As(err, &terr))
	assert.Equal(t, core.StatusIncompatible, terr.Code)
	assert.Equal(t, StateConfigured, tr.State())
}

func TestAppendMarshallingTypeError(t *testing.T) {
	fake := newFakeEngine()
	tr, err := New(WithEngine(fake))
	require.NoError(t, err)
	defer tr.Close()

	err = tr.Append(42, []string{"A"}, 0)
	assert.Error(t, err)
	// The bad instance never reached the engine.
	assert.Zero(t, fake.appended)
}

// -------------------- Training --------------------

func TestEndToEndTraining(t *testing.T) {
	tr, err := New()
	require.NoError(t, err)
	defer tr.Close()

	require.NoError(t, tr.Select("lbfgs", "crf1d"))
	require.NoError(t, tr.Append([]map[string]float64{{"bias": 1.0}}, []string{"A"}, 0))
	require.NoError(t, tr.TrainAll(""))
	assert.Equal(t, StateCompleted, tr.State())
}

func TestTrainWritesModelFile(t *testing.T) {
	tr, err := New()
	require.NoError(t, err)
	defer tr.Close()

	require.NoError(t, tr.Append([][]string{{"bias"}}, []string{"A"}, 0))
	path := filepath.Join(t.TempDir(), "model.crf")
	require.NoError(t, tr.TrainAll(path))

	_, err = os.Stat(path)
	assert.NoError(t, err)
}

func TestTrainFailureTranslated(t *testing.T) {
	fake := newFakeEngine()
	fake.trainStatus = core.StatusOutOfMemory
	tr, err := New(WithEngine(fake))
	require.NoError(t, err)
	defer tr.Close()

	err = tr.TrainAll("")
	var terr *core.TrainError
	require.True(t, errors.As(err, &terr))
	assert.Equal(t, core.StatusOutOfMemory, terr.Code)
	assert.Equal(t, "Insufficient memory", terr.Message)
	assert.Equal(t, StateFailed, tr.State())
}

func TestFailedTrainKeepsDatasetCallable(t *testing.T) {
	fake := newFakeEngine()
	fake.trainStatus = core.StatusUnknown
	tr, err := New(WithEngine(fake))
	require.NoError(t, err)
	defer tr.Close()

	require.NoError(t, tr.Append([][]string{{"a"}}, []string{"A"}, 0))
	require.Error(t, tr.TrainAll(""))

	// Reconfigure and train again; nothing was cleared by the failure.
	fake.trainStatus = core.StatusSuccess
	require.NoError(t, tr.TrainAll(""))
	assert.Equal(t, StateCompleted, tr.State())
	assert.False(t, fake.cleared)
}
