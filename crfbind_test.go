package crfbind

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEndToEnd(t *testing.T) {
	tr, err := New()
	require.NoError(t, err)
	defer tr.Close()

	require.NoError(t, tr.Select("lbfgs", "crf1d"))
	require.NoError(t, tr.Append([]map[string]float64{{"bias": 1.0}}, []string{"A"}, 0))

	// An empty model path trains without writing a file.
	wd, err := os.Getwd()
	require.NoError(t, err)
	before, err := os.ReadDir(wd)
	require.NoError(t, err)

	require.NoError(t, tr.Train("", -1))

	after, err := os.ReadDir(wd)
	require.NoError(t, err)
	assert.Equal(t, len(before), len(after))
}

func TestEndToEndWithHoldoutAndModelFile(t *testing.T) {
	tr, err := New()
	require.NoError(t, err)
	defer tr.Close()

	require.NoError(t, tr.Select("ap", "crf1d"))
	require.NoError(t, tr.AppendSeq(FromLists([][]string{{"x"}, {"y"}}), []string{"A", "B"}, 0))
	require.NoError(t, tr.AppendSeq(FromLists([][]string{{"y"}, {"x"}}), []string{"B", "A"}, 0))
	require.NoError(t, tr.AppendSeq(FromLists([][]string{{"x"}}), []string{"A"}, 1))

	path := filepath.Join(t.TempDir(), "model.crf")
	require.NoError(t, tr.Train(path, 1))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Greater(t, info.Size(), int64(0))
}
