package evaluation

import (
	"testing"

	"github.com/billhsia/crfbind/core"
	"github.com/stretchr/testify/assert"
)

func constantPredictor(label string) func(core.ItemSequence) core.LabelSequence {
	return func(items core.ItemSequence) core.LabelSequence {
		out := make(core.LabelSequence, len(items))
		for i := range out {
			out[i] = label
		}
		return out
	}
}

func TestScore(t *testing.T) {
	instances := []Instance{
		{Items: make(core.ItemSequence, 2), Labels: core.LabelSequence{"A", "A"}},
		{Items: make(core.ItemSequence, 2), Labels: core.LabelSequence{"A", "B"}},
	}
	res := Score(constantPredictor("A"), instances)

	assert.Equal(t, 2, res.Instances)
	assert.Equal(t, 4, res.Items)
	assert.Equal(t, 3, res.CorrectItems)
	assert.Equal(t, 1, res.CorrectInstances)
	assert.InDelta(t, 0.75, res.ItemAccuracy(), 1e-9)
	assert.InDelta(t, 0.5, res.InstanceAccuracy(), 1e-9)
}

func TestScoreShortPrediction(t *testing.T) {
	short := func(items core.ItemSequence) core.LabelSequence { return core.LabelSequence{"A"} }
	res := Score(short, []Instance{{Items: make(core.ItemSequence, 3), Labels: core.LabelSequence{"A", "A", "A"}}})

	assert.Equal(t, 1, res.CorrectItems)
	assert.Equal(t, 0, res.CorrectInstances)
}

func TestScoreEmpty(t *testing.T) {
	res := Score(constantPredictor("A"), nil)
	assert.Zero(t, res.ItemAccuracy())
	assert.Zero(t, res.InstanceAccuracy())
	assert.Contains(t, res.String(), "item accuracy")
}
