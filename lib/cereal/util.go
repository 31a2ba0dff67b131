package cereal

import (
	"fmt"
)

/*
	Rewrites leading tabs as two-space indentation, so that yaml
	documents indented with tabs are acceptable input.  Tabs after the
	first non-tab character of a line are content and pass through
	untouched.
*/
func Tab2space(in []byte) []byte {
	out := make([]byte, 0, len(in)+len(in)/4)
	lineStart := true
	for _, b := range in {
		switch {
		case b == '\t' && lineStart:
			out = append(out, ' ', ' ')
		case b == '\n':
			lineStart = true
			out = append(out, b)
		default:
			lineStart = false
			out = append(out, b)
		}
	}
	return out
}

/*
	Recursively rewrites `map[interface{}]interface{}` (which is what
	yaml unmarshalling hands back) into `map[string]interface{}` (which
	is what codec encoders will accept).
*/
func StringifyMapKeys(value interface{}) interface{} {
	switch value := value.(type) {
	case map[interface{}]interface{}:
		next := make(map[string]interface{}, len(value))
		for k, v := range value {
			next[fmt.Sprint(k)] = StringifyMapKeys(v)
		}
		return next
	case []interface{}:
		for i := range value {
			value[i] = StringifyMapKeys(value[i])
		}
		return value
	default:
		return value
	}
}
