package formkit

import "math"

// Helpers for reading loosely-typed JSON-shaped maps.

func rawString(m map[string]any, key string) string {
	s, _ := m[key].(string)
	return s
}

func rawBool(m map[string]any, key string) (bool, bool) {
	b, ok := m[key].(bool)
	return b, ok
}

// rawInt accepts any numeric kind holding an integral value.
func rawInt(m map[string]any, key string) (int, bool) {
	f, ok := toFloat(m[key])
	if !ok || f != math.Trunc(f) {
		return 0, false
	}
	return int(f), true
}

func rawMap(m map[string]any, key string) (map[string]any, bool) {
	v, ok := m[key].(map[string]any)
	return v, ok
}

// rawMaps returns the object members of the array stored at key, plus the
// number of members that were skipped for not being objects.
func rawMaps(m map[string]any, key string) ([]map[string]any, int) {
	items, ok := asSlice(m[key])
	if !ok {
		return nil, 0
	}
	out := make([]map[string]any, 0, len(items))
	skipped := 0
	for _, item := range items {
		if obj, ok := item.(map[string]any); ok {
			out = append(out, obj)
		} else {
			skipped++
		}
	}
	return out, skipped
}

func rawStrings(m map[string]any, key string) []string {
	items, ok := asSlice(m[key])
	if !ok {
		return nil
	}
	out := make([]string, 0, len(items))
	for _, item := range items {
		if s, ok := item.(string); ok {
			out = append(out, s)
		}
	}
	return out
}

// extras copies every key not in known into a new map, or returns nil.
func extras(m map[string]any, known map[string]bool) map[string]any {
	var out map[string]any
	for k, v := range m {
		if known[k] {
			continue
		}
		if out == nil {
			out = make(map[string]any)
		}
		out[k] = Clone(v)
	}
	return out
}

// Clone deep-copies maps and slices of a JSON-shaped value.
func Clone(v any) any {
	switch x := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(x))
		for k, item := range x {
			out[k] = Clone(item)
		}
		return out
	case []any:
		out := make([]any, len(x))
		for i, item := range x {
			out[i] = Clone(item)
		}
		return out
	case []string:
		return append([]string(nil), x...)
	default:
		return v
	}
}

func keySet(keys ...string) map[string]bool {
	set := make(map[string]bool, len(keys))
	for _, k := range keys {
		set[k] = true
	}
	return set
}

// AsSlice exposes any slice or array value as []any, the way the normalizer
// reads list-valued keys.
func AsSlice(v any) ([]any, bool) {
	return asSlice(v)
}

// AsFloat converts any native Go numeric kind to float64. Strings are not parsed.
func AsFloat(v any) (float64, bool) {
	return toFloat(v)
}
