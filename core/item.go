package core

// Attribute is a single observed feature of one token: a feature name paired
// with an optional real-valued weight. The zero weight is meaningful to the
// engine, so construction helpers default the weight to 1.0 rather than 0.
type Attribute struct {
	// Key is the feature name. Any UTF-8 string is valid; the engine treats
	// it as an opaque byte string.
	Key string

	// Value is the feature weight. Defaults to 1.0 via NewAttribute.
	Value float64
}

// NewAttribute creates an Attribute with the default weight of 1.0.
func NewAttribute(key string) Attribute {
	return Attribute{Key: key, Value: 1.0}
}

// Item is the ordered feature set of one token. Order is the insertion order
// supplied by the host; duplicates are kept as-is.
type Item []Attribute

// ItemSequence is one training instance: the ordered items of a sentence or
// other token sequence. It is always paired with a LabelSequence of equal
// length; the engine, not this package, rejects mismatched pairs.
type ItemSequence []Item

// LabelSequence holds one label string per token, aligned positionally with
// the paired ItemSequence.
type LabelSequence []string

// Clone returns a deep copy that shares no memory with the receiver. Backends
// use it to take ownership of appended data so later host-side mutation
// cannot reach into engine state.
func (s ItemSequence) Clone() ItemSequence {
	if s == nil {
		return nil
	}
	out := make(ItemSequence, len(s))
	for i, item := range s {
		if item == nil {
			continue
		}
		out[i] = make(Item, len(item))
		copy(out[i], item)
	}
	return out
}

// Clone returns an independent copy of the label sequence.
func (l LabelSequence) Clone() LabelSequence {
	if l == nil {
		return nil
	}
	return append(LabelSequence(nil), l...)
}
