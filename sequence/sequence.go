package sequence

import (
	"fmt"

	"github.com/billhsia/crfbind/core"
)

// Feature is one ordered (name, weight) pair of the weighted host form.
// Unlike a Go map, a []Feature carries a deterministic iteration order, so it
// is the form to use when feature order matters.
type Feature struct {
	Key   string
	Value float64
}

// Features is the ordered feature set of one token.
type Features []Feature

// TypeError reports a host-supplied value that cannot be marshalled into the
// engine's attribute layout.
type TypeError struct {
	// Token is the index of the offending token within the instance, or -1
	// when the instance itself has the wrong shape.
	Token int

	// Value is the value that could not be converted.
	Value any
}

// Error implements the error interface.
func (e *TypeError) Error() string {
	if e.Token < 0 {
		return fmt.Sprintf("cannot marshal %T as an item sequence", e.Value)
	}
	return fmt.Sprintf("cannot marshal %T as token %d", e.Value, e.Token)
}

// FromFeatures marshals ordered weighted features, one Features per token.
func FromFeatures(tokens []Features) core.ItemSequence {
	seq := make(core.ItemSequence, len(tokens))
	for i, feats := range tokens {
		item := make(core.Item, len(feats))
		for j, f := range feats {
			item[j] = core.Attribute{Key: f.Key, Value: f.Value}
		}
		seq[i] = item
	}
	return seq
}

// FromLists marshals plain feature-name lists, one list per token. Every
// attribute gets the default weight of 1.0.
func FromLists(tokens [][]string) core.ItemSequence {
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

// FromAny marshals loosely typed host data into an ItemSequence. The instance
// must be a slice of tokens ([]any, []Features, [][]string or a typed map
// slice); each token may be one of:
//
//   - []string or []any of strings: names with the default weight 1.0
//   - Features: ordered (name, weight) pairs
//   - map[string]float64 or map[string]any with numeric values: weighted
//     features in Go's map iteration order, which is unspecified
//
// Anything else is a *TypeError. The typed forms FromFeatures and FromLists
// are cheaper and order-deterministic; FromAny exists for data that arrives
// through interface-typed decoding.
func FromAny(xseq any) (core.ItemSequence, error) {
	switch v := xseq.(type) {
	case nil:
		return core.ItemSequence{}, nil
	case core.ItemSequence:
		return v.Clone(), nil
	case []Features:
		return FromFeatures(v), nil
	case [][]string:
		return FromLists(v), nil
	case []map[string]float64:
		seq := make(core.ItemSequence, len(v))
		for i, m := range v {
			seq[i] = itemFromFloatMap(m)
		}
		return seq, nil
	case []map[string]any:
		seq := make(core.ItemSequence, len(v))
		for i, m := range v {
			item, err := itemFromAnyMap(i, m)
			if err != nil {
				return nil, err
			}
			seq[i] = item
		}
		return seq, nil
	case []any:
		seq := make(core.ItemSequence, len(v))
		for i, tok := range v {
			item, err := itemFromAny(i, tok)
			if err != nil {
				return nil, err
			}
			seq[i] = item
		}
		return seq, nil
	default:
		return nil, &TypeError{Token: -1, Value: xseq}
	}
}

func itemFromAny(idx int, tok any) (core.Item, error) {
	switch v := tok.(type) {
	case nil:
		return core.Item{}, nil
	case []string:
		item := make(core.Item, len(v))
		for j, name := range v {
			item[j] = core.NewAttribute(name)
		}
		return item, nil
	case Features:
		item := make(core.Item, len(v))
		for j, f := range v {
			item[j] = core.Attribute{Key: f.Key, Value: f.Value}
		}
		return item, nil
	case map[string]float64:
		return itemFromFloatMap(v), nil
	case map[string]any:
		return itemFromAnyMap(idx, v)
	case []any:
		item := make(core.Item, len(v))
		for j, name := range v {
			s, ok := name.(string)
			if !ok {
				return nil, &TypeError{Token: idx, Value: name}
			}
			item[j] = core.NewAttribute(s)
		}
		return item, nil
	default:
		return nil, &TypeError{Token: idx, Value: tok}
	}
}

func itemFromFloatMap(m map[string]float64) core.Item {
	item := make(core.Item, 0, len(m))
	for k, w := range m {
		item = append(item, core.Attribute{Key: k, Value: w})
	}
	return item
}

func itemFromAnyMap(idx int, m map[string]any) (core.Item, error) {
	item := make(core.Item, 0, len(m))
	for k, v := range m {
		w, ok := toFloat(v)
		if !ok {
			return nil, &TypeError{Token: idx, Value: v}
		}
		item = append(item, core.Attribute{Key: k, Value: w})
	}
	return item, nil
}

// toFloat widens any Go numeric kind (and bool, which the engine treats as
// 0/1) to float64.
func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int8:
		return float64(n), true
	case int16:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint:
		return float64(n), true
	case uint8:
		return float64(n), true
	case uint16:
		return float64(n), true
	case uint32:
		return float64(n), true
	case uint64:
		return float64(n), true
	case bool:
		if n {
			return 1, true
		}
		return 0, true
	default:
		return 0, false
	}
}
