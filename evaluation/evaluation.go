// Package evaluation scores predicted label sequences against gold labels.
// The in-process engine uses it for holdout groups; host code can use it
// directly to score any predictor.
package evaluation

import (
	"fmt"

	"github.com/billhsia/crfbind/core"
)

// Instance pairs one item sequence with its gold labels.
type Instance struct {
	Items  core.ItemSequence
	Labels core.LabelSequence
}

// Result aggregates per-item and per-instance accuracy counts.
type Result struct {
	Instances        int
	Items            int
	CorrectItems     int
	CorrectInstances int
}

// ItemAccuracy returns the fraction of correctly labeled items, or 0 for an
// empty result.
func (r *Result) ItemAccuracy() float64 {
	if r.Items == 0 {
		return 0
	}
	return float64(r.CorrectItems) / float64(r.Items)
}

// InstanceAccuracy returns the fraction of instances labeled perfectly.
func (r *Result) InstanceAccuracy() float64 {
	if r.Instances == 0 {
		return 0
	}
	return float64(r.CorrectInstances) / float64(r.Instances)
}

// String formats the result the way the engine reports it in progress
// messages.
func (r *Result) String() string {
	return fmt.Sprintf("item accuracy: %d/%d (%.4f), instance accuracy: %d/%d (%.4f)",
		r.CorrectItems, r.Items, r.ItemAccuracy(),
		r.CorrectInstances, r.Instances, r.InstanceAccuracy())
}

// Score runs predict over every instance and tallies accuracy. A predicted
// sequence shorter than the gold one counts the missing positions as wrong.
func Score(predict func(core.ItemSequence) core.LabelSequence, instances []Instance) *Result {
	res := &Result{}
	for _, inst := range instances {
		pred := predict(inst.Items)
		res.Instances++
		allCorrect := true
		for i, gold := range inst.Labels {
			res.Items++
			if i < len(pred) && pred[i] == gold {
				res.CorrectItems++
			} else {
				allCorrect = false
			}
		}
		if allCorrect {
			res.CorrectInstances++
		}
	}
	return res
}
