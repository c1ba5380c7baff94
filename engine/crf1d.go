package engine

import (
	"encoding/json"
	"fmt"
	"math"
	"os"

	"github.com/billhsia/crfbind/core"
)

// alphabet maps between strings and dense integer ids, preserving first-seen
// order so training runs are reproducible.
type alphabet struct {
	toID  map[string]int
	toStr []string
}

func newAlphabet() *alphabet {
	return &alphabet{toID: make(map[string]int)}
}

func (a *alphabet) add(s string) int {
	if id, ok := a.toID[s]; ok {
		return id
	}
	id := len(a.toStr)
	a.toID[s] = id
	a.toStr = append(a.toStr, s)
	return id
}

// get returns the id for s, or -1 if unseen.
func (a *alphabet) get(s string) int {
	if id, ok := a.toID[s]; ok {
		return id
	}
	return -1
}

func (a *alphabet) size() int { return len(a.toStr) }

// attrVal is one resolved attribute of a token: its alphabet id and weight.
type attrVal struct {
	id  int
	val float64
}

// encodedInstance is a training instance resolved against the model's
// alphabets. Attributes pruned by feature.minfreq are dropped.
type encodedInstance struct {
	items  [][]attrVal
	labels []int
}

// model is a dense first-order linear-chain CRF.
//
// Weight layout (state features first, then transitions):
//
//	state  feature index: attrID*L + labelID
//	trans  feature index: A*L + fromLabelID*L + toLabelID
//
// where L is the label count and A the attribute count.
type model struct {
	labels  *alphabet
	attrs   *alphabet
	weights []float64
}

func (m *model) numLabels() int { return m.labels.size() }

func (m *model) stateIdx(attrID, labelID int) int {
	return attrID*m.numLabels() + labelID
}

func (m *model) transOffset() int {
	return m.attrs.size() * m.numLabels()
}

func (m *model) transIdx(from, to int) int {
	return m.transOffset() + from*m.numLabels() + to
}

func (m *model) numWeights() int {
	L := m.numLabels()
	return m.transOffset() + L*L
}

// newModel builds the alphabets over the training instances, pruning
// attributes observed fewer than minfreq times, and allocates zeroed
// weights.
func newModel(instances []instance, minfreq float64) *model {
	freq := make(map[string]float64)
	for _, inst := range instances {
		for _, item := range inst.items {
			for _, attr := range item {
				freq[attr.Key]++
			}
		}
	}

	m := &model{labels: newAlphabet(), attrs: newAlphabet()}
	for _, inst := range instances {
		for _, label := range inst.labels {
			m.labels.add(label)
		}
		for _, item := range inst.items {
			for _, attr := range item {
				if freq[attr.Key] >= minfreq {
					m.attrs.add(attr.Key)
				}
			}
		}
	}
	m.weights = make([]float64, m.numWeights())
	return m
}

// encodeItems resolves attribute keys against the alphabet, dropping unseen
// ones.
func (m *model) encodeItems(items core.ItemSequence) [][]attrVal {
	out := make([][]attrVal, len(items))
	for t, item := range items {
		for _, attr := range item {
			if id := m.attrs.get(attr.Key); id >= 0 {
				out[t] = append(out[t], attrVal{id: id, val: attr.Value})
			}
		}
	}
	return out
}

func (m *model) encode(inst instance) encodedInstance {
	enc := encodedInstance{items: m.encodeItems(inst.items)}
	enc.labels = make([]int, len(inst.labels))
	for i, label := range inst.labels {
		enc.labels[i] = m.labels.get(label)
	}
	return enc
}

// stateScores returns the [T][L] per-position label scores.
func (m *model) stateScores(items [][]attrVal) [][]float64 {
	L := m.numLabels()
	scores := make([][]float64, len(items))
	for t, attrs := range items {
		scores[t] = make([]float64, L)
		for _, av := range attrs {
			base := av.id * L
			for y := 0; y < L; y++ {
				scores[t][y] += m.weights[base+y] * av.val
			}
		}
	}
	return scores
}

// transScores returns the [L][L] transition score matrix.
func (m *model) transScores() [][]float64 {
	L := m.numLabels()
	trans := make([][]float64, L)
	for i := 0; i < L; i++ {
		trans[i] = make([]float64, L)
		for j := 0; j < L; j++ {
			trans[i][j] = m.weights[m.transIdx(i, j)]
		}
	}
	return trans
}

// seqScore is the unnormalized log score of one label path.
func seqScore(state, trans [][]float64, labels []int) float64 {
	score := 0.0
	for t, y := range labels {
		score += state[t][y]
		if t > 0 {
			score += trans[labels[t-1]][y]
		}
	}
	return score
}

// logsumexp computes log(sum(exp(xs))) stably.
func logsumexp(xs []float64) float64 {
	max := math.Inf(-1)
	for _, x := range xs {
		if x > max {
			max = x
		}
	}
	if math.IsInf(max, -1) {
		return max
	}
	sum := 0.0
	for _, x := range xs {
		sum += math.Exp(x - max)
	}
	return max + math.Log(sum)
}

// forwardBackward computes log-space alpha/beta lattices and the partition
// log Z for one sequence.
func forwardBackward(state, trans [][]float64) (alpha, beta [][]float64, logZ float64) {
	T := len(state)
	L := len(trans)
	alpha = make([][]float64, T)
	beta = make([][]float64, T)
	if T == 0 {
		return alpha, beta, 0
	}

	alpha[0] = append([]float64(nil), state[0]...)
	buf := make([]float64, L)
	for t := 1; t < T; t++ {
		alpha[t] = make([]float64, L)
		for y := 0; y < L; y++ {
			for i := 0; i < L; i++ {
				buf[i] = alpha[t-1][i] + trans[i][y]
			}
			alpha[t][y] = logsumexp(buf) + state[t][y]
		}
	}

	beta[T-1] = make([]float64, L)
	for t := T - 2; t >= 0; t-- {
		beta[t] = make([]float64, L)
		for i := 0; i < L; i++ {
			for j := 0; j < L; j++ {
				buf[j] = trans[i][j] + state[t+1][j] + beta[t+1][j]
			}
			beta[t][i] = logsumexp(buf)
		}
	}

	return alpha, beta, logsumexp(alpha[T-1])
}

// gradient accumulates the negative log-likelihood gradient (expected minus
// empirical feature counts) of one instance into grad and returns the
// instance NLL.
func (m *model) gradient(inst encodedInstance, grad []float64) float64 {
	T := len(inst.items)
	if T == 0 {
		return 0
	}
	L := m.numLabels()
	state := m.stateScores(inst.items)
	trans := m.transScores()
	alpha, beta, logZ := forwardBackward(state, trans)

	// State features: marginal expectation minus gold count.
	for t, attrs := range inst.items {
		gold := inst.labels[t]
		for _, av := range attrs {
			base := av.id * L
			for y := 0; y < L; y++ {
				p := math.Exp(alpha[t][y] + beta[t][y] - logZ)
				grad[base+y] += av.val * p
			}
			grad[base+gold] -= av.val
		}
	}

	// Transition features: pairwise marginals minus gold transitions.
	for t := 0; t < T-1; t++ {
		for i := 0; i < L; i++ {
			for j := 0; j < L; j++ {
				p := math.Exp(alpha[t][i] + trans[i][j] + state[t+1][j] + beta[t+1][j] - logZ)
				grad[m.transIdx(i, j)] += p
			}
		}
		grad[m.transIdx(inst.labels[t], inst.labels[t+1])]--
	}

	return logZ - seqScore(state, trans, inst.labels)
}

// viterbi returns the highest scoring label path for the given lattices.
func viterbi(state, trans [][]float64) []int {
	T := len(state)
	L := len(trans)
	if T == 0 || L == 0 {
		return nil
	}

	delta := make([][]float64, T)
	back := make([][]int, T)
	delta[0] = append([]float64(nil), state[0]...)
	for t := 1; t < T; t++ {
		delta[t] = make([]float64, L)
		back[t] = make([]int, L)
		for y := 0; y < L; y++ {
			best := math.Inf(-1)
			arg := 0
			for i := 0; i < L; i++ {
				if s := delta[t-1][i] + trans[i][y]; s > best {
					best = s
					arg = i
				}
			}
			delta[t][y] = best + state[t][y]
			back[t][y] = arg
		}
	}

	path := make([]int, T)
	best := math.Inf(-1)
	for y := 0; y < L; y++ {
		if delta[T-1][y] > best {
			best = delta[T-1][y]
			path[T-1] = y
		}
	}
	for t := T - 1; t > 0; t-- {
		path[t-1] = back[t][path[t]]
	}
	return path
}

// predict decodes raw items into label strings.
func (m *model) predict(items core.ItemSequence) core.LabelSequence {
	if m.numLabels() == 0 {
		return make(core.LabelSequence, len(items))
	}
	encoded := m.encodeItems(items)
	path := viterbi(m.stateScores(encoded), m.transScores())
	out := make(core.LabelSequence, len(path))
	for i, y := range path {
		out[i] = m.labels.toStr[y]
	}
	return out
}

// update adds scale times the feature vector of the given label path to the
// weights. The perceptron family applies it with +1 for the gold path and
// -1 for the predicted one.
func (m *model) update(items [][]attrVal, labels []int, scale float64) {
	for t, attrs := range items {
		for _, av := range attrs {
			m.weights[m.stateIdx(av.id, labels[t])] += scale * av.val
		}
		if t > 0 {
			m.weights[m.transIdx(labels[t-1], labels[t])] += scale
		}
	}
}

// featureDiff returns the sparse difference phi(gold) - phi(pred).
func (m *model) featureDiff(items [][]attrVal, gold, pred []int) map[int]float64 {
	diff := make(map[int]float64)
	for t, attrs := range items {
		if gold[t] != pred[t] {
			for _, av := range attrs {
				diff[m.stateIdx(av.id, gold[t])] += av.val
				diff[m.stateIdx(av.id, pred[t])] -= av.val
			}
		}
		if t > 0 {
			if gold[t-1] != pred[t-1] || gold[t] != pred[t] {
				diff[m.transIdx(gold[t-1], gold[t])]++
				diff[m.transIdx(pred[t-1], pred[t])]--
			}
		}
	}
	return diff
}

// modelFile is the persisted form. The format is opaque to callers; only
// this backend reads it back.
type modelFile struct {
	Algorithm  string    `json:"algorithm"`
	Labels     []string  `json:"labels"`
	Attributes []string  `json:"attributes"`
	Weights    []float64 `json:"weights"`
}

// save writes the trained model to path.
func (m *model) save(path, algorithm string) error {
	data, err := json.Marshal(modelFile{
		Algorithm:  algorithm,
		Labels:     m.labels.toStr,
		Attributes: m.attrs.toStr,
		Weights:    m.weights,
	})
	if err != nil {
		return fmt.Errorf("encode model: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write model: %w", err)
	}
	return nil
}
