package engine

import (
	"math"
	"testing"

	"github.com/billhsia/crfbind/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// enumerate computes log Z by brute force over every label path.
func enumerate(state, trans [][]float64) float64 {
	T := len(state)
	L := len(trans)
	var scores []float64
	path := make([]int, T)
	var walk func(t int)
	walk = func(t int) {
		if t == T {
			scores = append(scores, seqScore(state, trans, path))
			return
		}
		for y := 0; y < L; y++ {
			path[t] = y
			walk(t + 1)
		}
	}
	walk(0)
	return logsumexp(scores)
}

func testLattice() (state, trans [][]float64) {
	state = [][]float64{{0.5, -0.2}, {0.1, 0.9}, {-0.3, 0.4}}
	trans = [][]float64{{0.2, -0.1}, {0.3, 0.6}}
	return state, trans
}

func TestForwardBackwardMatchesEnumeration(t *testing.T) {
	state, trans := testLattice()
	_, _, logZ := forwardBackward(state, trans)
	assert.InDelta(t, enumerate(state, trans), logZ, 1e-9)
}

func TestForwardBackwardMarginalsSumToOne(t *testing.T) {
	state, trans := testLattice()
	alpha, beta, logZ := forwardBackward(state, trans)
	for ti := range state {
		sum := 0.0
		for y := range trans {
			sum += math.Exp(alpha[ti][y] + beta[ti][y] - logZ)
		}
		assert.InDelta(t, 1.0, sum, 1e-9)
	}
}

func TestViterbiMatchesBruteForce(t *testing.T) {
	state, trans := testLattice()
	got := viterbi(state, trans)

	best := math.Inf(-1)
	var bestPath []int
	path := make([]int, len(state))
	var walk func(t int)
	walk = func(t int) {
		if t == len(state) {
			if s := seqScore(state, trans, path); s > best {
				best = s
				bestPath = append([]int(nil), path...)
			}
			return
		}
		for y := range trans {
			path[t] = y
			walk(t + 1)
		}
	}
	walk(0)

	assert.Equal(t, bestPath, got)
	assert.InDelta(t, best, seqScore(state, trans, got), 1e-9)
}

func TestAlphabetOrder(t *testing.T) {
	a := newAlphabet()
	assert.Equal(t, 0, a.add("B"))
	assert.Equal(t, 1, a.add("A"))
	assert.Equal(t, 0, a.add("B"))
	assert.Equal(t, -1, a.get("C"))
	assert.Equal(t, 2, a.size())
}

func TestMinfreqPrunesRareAttributes(t *testing.T) {
	data := []instance{
		{
			items: core.ItemSequence{
				{core.NewAttribute("common"), core.NewAttribute("rare")},
				{core.NewAttribute("common")},
			},
			labels: core.LabelSequence{"A", "B"},
		},
	}
	m := newModel(data, 2)
	assert.Equal(t, 1, m.attrs.size())
	assert.GreaterOrEqual(t, m.attrs.get("common"), 0)
	assert.Equal(t, -1, m.attrs.get("rare"))
}

func TestGradientIsZeroAtOptimumOfSingleLabel(t *testing.T) {
	// With one label the distribution is degenerate, so expected and
	// empirical counts coincide and the gradient vanishes everywhere.
	data := []instance{{
		items:  core.ItemSequence{{core.NewAttribute("bias")}},
		labels: core.LabelSequence{"A"},
	}}
	m := newModel(data, 0)
	enc := m.encode(data[0])

	grad := make([]float64, len(m.weights))
	nll := m.gradient(enc, grad)

	assert.InDelta(t, 0, nll, 1e-12)
	for _, g := range grad {
		assert.InDelta(t, 0, g, 1e-12)
	}
}

func TestGradientDescentReducesNLL(t *testing.T) {
	data := []instance{
		{
			items:  core.ItemSequence{{core.NewAttribute("x")}, {core.NewAttribute("y")}},
			labels: core.LabelSequence{"A", "B"},
		},
		{
			items:  core.ItemSequence{{core.NewAttribute("y")}, {core.NewAttribute("x")}},
			labels: core.LabelSequence{"B", "A"},
		},
	}
	m := newModel(data, 0)
	encoded := []encodedInstance{m.encode(data[0]), m.encode(data[1])}

	nllTotal := func() float64 {
		total := 0.0
		grad := make([]float64, len(m.weights))
		for _, enc := range encoded {
			total += m.gradient(enc, grad)
		}
		return total
	}

	before := nllTotal()
	grad := make([]float64, len(m.weights))
	for _, enc := range encoded {
		m.gradient(enc, grad)
	}
	for i := range m.weights {
		m.weights[i] -= 0.5 * grad[i]
	}
	assert.Less(t, nllTotal(), before)
}

func TestPredictLearnsSeparableData(t *testing.T) {
	e := New()
	require.True(t, e.Select("lbfgs", "crf1d"))
	require.NoError(t, e.Set("c2", "0.01"))

	data := []instance{
		{
			items:  core.ItemSequence{{core.NewAttribute("x")}, {core.NewAttribute("y")}},
			labels: core.LabelSequence{"A", "B"},
		},
		{
			items:  core.ItemSequence{{core.NewAttribute("y")}, {core.NewAttribute("x")}},
			labels: core.LabelSequence{"B", "A"},
		},
	}
	m := newModel(data, 0)
	encoded := []encodedInstance{m.encode(data[0]), m.encode(data[1])}
	e.trainLBFGS(m, encoded)

	pred := m.predict(core.ItemSequence{{core.NewAttribute("x")}, {core.NewAttribute("y")}})
	assert.Equal(t, core.LabelSequence{"A", "B"}, pred)
}
