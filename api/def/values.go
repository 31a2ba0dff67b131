package def

import (
	"strconv"
	"strings"
)

/*
	Value is a step parameter value.

	This is a closed set: strings, integers, floats, bools, references
	to another step's signature, and ordered lists of the above.  Every
	variant has an unambiguous canonical encoding, which is what makes
	signatures deterministic; arbitrary host-language objects are
	refused by construction rather than hashed by luck.
*/
type Value interface {
	value()

	// Describe returns a short human-readable rendering, used in
	// workflow snapshots and log lines.  It is not a serial format.
	Describe() string
}

type (
	String string
	Int    int64
	Float  float64
	Bool   bool
	SigRef Signature // another step's signature, used as a plain parameter
	List   []Value   // ordered; order is significant to the signature
)

func (String) value() {}
func (Int) value()    {}
func (Float) value()  {}
func (Bool) value()   {}
func (SigRef) value() {}
func (List) value()   {}

func (v String) Describe() string { return strconv.Quote(string(v)) }
func (v Int) Describe() string    { return strconv.FormatInt(int64(v), 10) }
func (v Float) Describe() string  { return strconv.FormatFloat(float64(v), 'g', -1, 64) }
func (v Bool) Describe() string   { return strconv.FormatBool(bool(v)) }
func (v SigRef) Describe() string { return "sig:" + string(v) }

func (v List) Describe() string {
	parts := make([]string, len(v))
	for i, item := range v {
		parts[i] = item.Describe()
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

/*
	Flattens a value into the tagged tuple form that feeds the
	signature hash.  Every variant becomes a `[tag, payload...]` array
	so that e.g. the string "true" and the bool true can never encode
	to the same bytes.
*/
func canonValue(v Value) interface{} {
	switch v2 := v.(type) {
	case String:
		return []interface{}{"s", string(v2)}
	case Int:
		return []interface{}{"i", int64(v2)}
	case Float:
		return []interface{}{"f", float64(v2)}
	case Bool:
		return []interface{}{"b", bool(v2)}
	case SigRef:
		return []interface{}{"ref", string(v2)}
	case List:
		items := make([]interface{}, len(v2))
		for i, item := range v2 {
			items[i] = canonValue(item)
		}
		return []interface{}{"l", items}
	default:
		panic("unreachable: def.Value is a closed set")
	}
}
