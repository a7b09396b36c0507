package formkit

import (
	"math"
	"reflect"
	"strconv"
	"strings"
	"time"
)

// IsEmpty reports whether a value counts as "no input".
// nil, blank strings, empty slices and empty maps are empty. Everything else,
// including 0 and false, is not.
func IsEmpty(value any) bool {
	if value == nil {
		return true
	}

	switch v := value.(type) {
	case string:
		return strings.TrimSpace(v) == ""
	case []any:
		return len(v) == 0
	case map[string]any:
		return len(v) == 0
	case time.Time:
		return false
	}

	rv := reflect.ValueOf(value)
	switch rv.Kind() {
	case reflect.Slice, reflect.Array, reflect.Map:
		return rv.Len() == 0
	case reflect.Pointer, reflect.Interface:
		return rv.IsNil()
	}
	return false
}

// IsNotEmpty is the negation of IsEmpty.
func IsNotEmpty(value any) bool {
	return !IsEmpty(value)
}

// toFloat converts native numeric kinds to float64. Strings are not parsed.
func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case int32:
		return float64(n), true
	case int16:
		return float64(n), true
	case int8:
		return float64(n), true
	case uint:
		return float64(n), true
	case uint64:
		return float64(n), true
	case uint32:
		return float64(n), true
	case uint16:
		return float64(n), true
	case uint8:
		return float64(n), true
	default:
		return 0, false
	}
}

// toNumber coerces a value to a number. Unparseable input yields NaN.
// Blank strings, false and empty slices are 0; true is 1; nil is NaN.
func toNumber(v any) float64 {
	if f, ok := toFloat(v); ok {
		return f
	}

	switch x := v.(type) {
	case nil:
		return math.NaN()
	case bool:
		if x {
			return 1
		}
		return 0
	case string:
		s := strings.TrimSpace(x)
		if s == "" {
			return 0
		}
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return math.NaN()
		}
		return f
	case time.Time:
		return float64(x.UnixMilli())
	}

	if items, ok := asSlice(v); ok {
		switch len(items) {
		case 0:
			return 0
		case 1:
			return toNumber(items[0])
		}
	}
	return math.NaN()
}

// toString renders a value the way it is compared as text.
func toString(v any) string {
	if f, ok := toFloat(v); ok {
		return formatNumber(f)
	}

	switch x := v.(type) {
	case nil:
		return "null"
	case string:
		return x
	case bool:
		return strconv.FormatBool(x)
	case time.Time:
		return x.Format(time.RFC3339)
	case map[string]any:
		return "[object Object]"
	}

	if items, ok := asSlice(v); ok {
		parts := make([]string, len(items))
		for i, item := range items {
			if item != nil {
				parts[i] = toString(item)
			}
		}
		return strings.Join(parts, ",")
	}

	if s, ok := v.(interface{ String() string }); ok {
		return s.String()
	}
	return reflect.ValueOf(v).String()
}

// formatNumber prints integers without a fractional part.
func formatNumber(f float64) string {
	switch {
	case math.IsNaN(f):
		return "NaN"
	case math.IsInf(f, 1):
		return "Infinity"
	case math.IsInf(f, -1):
		return "-Infinity"
	}
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// isTruthy follows loose boolean coercion: nil, false, 0, NaN and "" are
// falsy; everything else, empty slices and maps included, is truthy.
func isTruthy(value any) bool {
	if value == nil {
		return false
	}
	if f, ok := toFloat(value); ok {
		return f != 0 && !math.IsNaN(f)
	}

	switch v := value.(type) {
	case bool:
		return v
	case string:
		return v != ""
	default:
		return true
	}
}

// asSlice exposes any slice or array as []any.
func asSlice(v any) ([]any, bool) {
	switch s := v.(type) {
	case nil:
		return nil, false
	case []any:
		return s, true
	case []string:
		out := make([]any, len(s))
		for i, x := range s {
			out[i] = x
		}
		return out, true
	case string:
		return nil, false
	}

	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return nil, false
	}
	out := make([]any, rv.Len())
	for i := range out {
		out[i] = rv.Index(i).Interface()
	}
	return out, true
}

// sameValue is strict equality without type coercion. Numbers of different
// Go kinds compare by value; maps and slices never compare equal.
func sameValue(a, b any) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}

	af, aOk := toFloat(a)
	bf, bOk := toFloat(b)
	if aOk || bOk {
		return aOk && bOk && af == bf
	}

	ta, tb := reflect.TypeOf(a), reflect.TypeOf(b)
	if ta != tb || !ta.Comparable() {
		return false
	}
	return a == b
}
