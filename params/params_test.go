package params

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncode(t *testing.T) {
	cases := []struct {
		in   any
		want string
	}{
		{true, "1"},
		{false, "0"},
		{100, "100"},
		{int64(7), "7"},
		{0.5, "0.5"},
		{"string-nearest", "string-nearest"},
	}
	for _, c := range cases {
		got, err := Encode(c.in)
		assert.NoError(t, err)
		assert.Equal(t, c.want, got)
	}

	_, err := Encode(struct{}{})
	assert.Error(t, err)
}

func TestDecodeUsesDeclaredType(t *testing.T) {
	assert.Equal(t, 0.5, Decode("c1", "0.5"))
	assert.Equal(t, 100, Decode("max_iterations", "100"))
	assert.Equal(t, 1, Decode("averaging", "1"))
	assert.Equal(t, "MoreThuente", Decode("linesearch", "MoreThuente"))
}

func TestDecodeUnknownNameVerbatim(t *testing.T) {
	assert.Equal(t, "raw-value", Decode("not_a_real_param", "raw-value"))
}

func TestDecodeUnparsableFallsBackToRaw(t *testing.T) {
	// The engine is the source of truth; a value the declared type cannot
	// parse comes back untouched.
	assert.Equal(t, "oops", Decode("max_iterations", "oops"))
}

type fakeConfigurable struct {
	algorithm string
	modelType string
	set       map[string]string
	selectErr error
}

func (f *fakeConfigurable) Select(algorithm, modelType string) error {
	f.algorithm = algorithm
	f.modelType = modelType
	return f.selectErr
}

func (f *fakeConfigurable) Set(name string, value any) error {
	enc, err := Encode(value)
	if err != nil {
		return err
	}
	if f.set == nil {
		f.set = map[string]string{}
	}
	f.set[name] = enc
	return nil
}

func TestParsePreset(t *testing.T) {
	p, err := ParsePreset([]byte("algorithm: l2sgd\nparams:\n  c2: 0.01\n  max_iterations: 500\n"))
	require.NoError(t, err)

	assert.Equal(t, "l2sgd", p.Algorithm)
	assert.Equal(t, "crf1d", p.ModelType) // defaulted
	assert.Equal(t, 0.01, p.Params["c2"])
	assert.Equal(t, 500, p.Params["max_iterations"])
}

func TestParsePresetRequiresAlgorithm(t *testing.T) {
	_, err := ParsePreset([]byte("params:\n  c2: 0.01\n"))
	assert.Error(t, err)
}

func TestPresetApply(t *testing.T) {
	p := &Preset{Algorithm: "ap", ModelType: "crf1d", Params: map[string]any{"max_iterations": 25, "averaging": true}}
	fake := &fakeConfigurable{}
	require.NoError(t, p.Apply(fake))

	assert.Equal(t, "ap", fake.algorithm)
	assert.Equal(t, "crf1d", fake.modelType)
	assert.Equal(t, "25", fake.set["max_iterations"])
	assert.Equal(t, "1", fake.set["averaging"])
}

func TestPresetApplySelectFailure(t *testing.T) {
	sentinel := errors.New("unknown pair")
	fake := &fakeConfigurable{selectErr: sentinel}
	err := (&Preset{Algorithm: "nope"}).Apply(fake)
	assert.ErrorIs(t, err, sentinel)
}
