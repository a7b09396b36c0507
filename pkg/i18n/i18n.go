// Package i18n resolves translation keys inside config trees.
//
// TranslateConfig walks a raw config and replaces string leaves that look
// like translation keys ("product.name") with text from a Translator. The
// walk is a deep copy; the input tree is never modified.
package i18n

import (
	"reflect"
	"regexp"
	"strings"
)

// Translator looks up a message by key. Implementations return the key
// itself when no translation exists.
type Translator interface {
	T(key string, params map[string]any) string
}

// LabelResolver is implemented by translators that can produce a readable
// label for a key that has no translation.
type LabelResolver interface {
	ResolveLabel(key, fallback string) string
}

// TranslatorFunc adapts a function to the Translator interface.
type TranslatorFunc func(key string, params map[string]any) string

func (f TranslatorFunc) T(key string, params map[string]any) string { return f(key, params) }

var keyPattern = regexp.MustCompile(`^[A-Za-z0-9._-]+$`)

// IsLikelyTranslationKey reports whether s contains no space, at least one
// dot, and only letters, digits, dots, underscores and hyphens.
func IsLikelyTranslationKey(s string) bool {
	return !strings.Contains(s, " ") && strings.Contains(s, ".") && keyPattern.MatchString(s)
}

// TranslateConfig returns a deep copy of tree with translation keys resolved.
// A nil translator uses Default().
func TranslateConfig(tree any, tr Translator) any {
	if tr == nil {
		tr = Default()
	}
	return walk(tree, tr)
}

func walk(node any, tr Translator) any {
	switch v := node.(type) {
	case nil:
		return nil
	case map[string]any:
		out := make(map[string]any, len(v))
		for k, child := range v {
			out[k] = walk(child, tr)
		}
		return out
	case []any:
		out := make([]any, len(v))
		for i, child := range v {
			out[i] = walk(child, tr)
		}
		return out
	case []string:
		if v == nil {
			return v
		}
		out := make([]string, len(v))
		for i, s := range v {
			out[i] = translate(s, tr)
		}
		return out
	case string:
		return translate(v, tr)
	}
	return walkValue(reflect.ValueOf(node), tr).Interface()
}

// walkValue copies other slice, array and map kinds element by element,
// keeping their concrete type.
func walkValue(rv reflect.Value, tr Translator) reflect.Value {
	switch rv.Kind() {
	case reflect.Slice:
		if rv.IsNil() {
			return rv
		}
		out := reflect.MakeSlice(rv.Type(), rv.Len(), rv.Len())
		for i := 0; i < rv.Len(); i++ {
			out.Index(i).Set(walkElem(rv.Index(i), tr))
		}
		return out
	case reflect.Array:
		out := reflect.New(rv.Type()).Elem()
		for i := 0; i < rv.Len(); i++ {
			out.Index(i).Set(walkElem(rv.Index(i), tr))
		}
		return out
	case reflect.Map:
		if rv.IsNil() {
			return rv
		}
		out := reflect.MakeMapWithSize(rv.Type(), rv.Len())
		iter := rv.MapRange()
		for iter.Next() {
			out.SetMapIndex(iter.Key(), walkElem(iter.Value(), tr))
		}
		return out
	default:
		return rv
	}
}

// walkElem walks one element and converts it back to the element type.
func walkElem(elem reflect.Value, tr Translator) reflect.Value {
	if elem.Kind() == reflect.Interface && elem.IsNil() {
		return elem
	}
	walked := reflect.ValueOf(walk(elem.Interface(), tr))
	if walked.IsValid() && walked.Type().AssignableTo(elem.Type()) {
		return walked
	}
	return elem
}

// translate resolves s when it looks like a key. An untranslated key is
// humanized when tr is a LabelResolver and returned unchanged otherwise.
func translate(s string, tr Translator) string {
	if !IsLikelyTranslationKey(s) {
		return s
	}
	if text := tr.T(s, nil); text != s {
		return text
	}
	if r, ok := tr.(LabelResolver); ok {
		return r.ResolveLabel(s, "")
	}
	return s
}
