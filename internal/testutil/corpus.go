package testutil

import "github.com/billhsia/crfbind/core"

// Instance is one labeled training example with its group tag.
type Instance struct {
	Items  core.ItemSequence
	Labels core.LabelSequence
	Group  int
}

// Items builds an ItemSequence from feature-name lists with the default
// weight.
func Items(tokens ...[]string) core.ItemSequence {
	seq := make(core.ItemSequence, len(tokens))
	for i, names := range tokens {
		item := make(core.Item, len(names))
		for j, name := range names {
			item[j] = core.NewAttribute(name)
		}
		seq[i] = item
	}
	return seq
}

// SeparableCorpus is a tiny linearly separable dataset: feature "x" marks
// label A and feature "y" marks label B. The last instance is tagged group 1
// so tests can exercise holdout evaluation.
func SeparableCorpus() []Instance {
	return []Instance{
		{Items: Items([]string{"x"}, []string{"y"}), Labels: core.LabelSequence{"A", "B"}},
		{Items: Items([]string{"y"}, []string{"x"}), Labels: core.LabelSequence{"B", "A"}},
		{Items: Items([]string{"x"}, []string{"x"}), Labels: core.LabelSequence{"A", "A"}},
		{Items: Items([]string{"y"}), Labels: core.LabelSequence{"B"}, Group: 1},
	}
}
