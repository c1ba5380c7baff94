package params

import (
	"fmt"
	"strconv"
)

// Kind is the declared value type of a registered parameter.
type Kind int

const (
	// String parameters pass through without conversion.
	String Kind = iota
	// Int parameters decode to Go int.
	Int
	// Float parameters decode to Go float64.
	Float
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case Int:
		return "int"
	case Float:
		return "float"
	case String:
		return "string"
	default:
		return "unknown"
	}
}

// Registry maps every documented engine option name to its declared type.
// The subset of names an engine actually accepts depends on its current
// algorithm selection; membership is always checked against the engine's
// live Params(), not against this table.
var Registry = map[string]Kind{
	"feature.minfreq":              Float,
	"feature.possible_states":      Int,
	"feature.possible_transitions": Int,
	"c1":                           Float,
	"c2":                           Float,
	"max_iterations":               Int,
	"num_memories":                 Int,
	"epsilon":                      Float,
	"period":                       Int,
	"delta":                        Float,
	"linesearch":                   String,
	"max_linesearch":               Int,
	"c":                            Float,
	"type":                         Int,
	"error_sensitive":              Int,
	"averaging":                    Int,
	"variance":                     Float,
	"gamma":                        Float,
	"calibration.eta":              Float,
	"calibration.rate":             Float,
	"calibration.samples":          Int,
	"calibration.candidates":       Int,
	"calibration.max_trials":       Int,
}

// Encode converts a host value into the string encoding the engine stores.
// Booleans are coerced to integers (true -> "1", false -> "0") first; all
// other supported values use their natural textual representation. The
// engine performs the authoritative validation of the encoded string.
func Encode(value any) (string, error) {
	switch v := value.(type) {
	case string:
		return v, nil
	case bool:
		if v {
			return "1", nil
		}
		return "0", nil
	case int:
		return strconv.Itoa(v), nil
	case int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
		return fmt.Sprintf("%d", v), nil
	case float64:
		return strconv.FormatFloat(v, 'g', -1, 64), nil
	case float32:
		return strconv.FormatFloat(float64(v), 'g', -1, 32), nil
	default:
		return "", fmt.Errorf("cannot encode %T as a parameter value", value)
	}
}

// Decode converts the engine's string encoding back into a typed host value
// using the registered kind. Unknown names - and values the declared type
// cannot parse, since the engine remains the source of truth - come back as
// the raw string verbatim.
func Decode(name, raw string) any {
	switch Registry[name] {
	case Int:
		if n, err := strconv.Atoi(raw); err == nil {
			return n
		}
	case Float:
		if f, err := strconv.ParseFloat(raw, 64); err == nil {
			return f
		}
	}
	return raw
}
