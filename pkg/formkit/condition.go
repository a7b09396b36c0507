package formkit

import (
	"strings"
)

// EvaluateCondition evaluates one leaf condition against data and flags.
// It never fails: a leaf without a field reference, or with an unknown
// operator, is true so that a broken condition cannot hide content.
func EvaluateCondition(cond Condition, data DataRecord, flags FeatureFlags) bool {
	if cond.Feature != "" {
		return evaluateFeature(cond, flags)
	}

	if cond.Field == "" {
		return true
	}

	value := data[cond.Field]

	switch cond.Operator {
	case OpEquals:
		return toString(value) == toString(cond.Value)

	case OpNotEquals:
		return toString(value) != toString(cond.Value)

	case OpContains:
		return contains(value, cond.Value)

	case OpGt:
		return toNumber(value) > toNumber(cond.Value)

	case OpLt:
		return toNumber(value) < toNumber(cond.Value)

	case OpGte:
		return toNumber(value) >= toNumber(cond.Value)

	case OpLte:
		return toNumber(value) <= toNumber(cond.Value)

	case OpIn:
		return inList(value, cond.Value)

	case OpNotIn:
		return !inList(value, cond.Value)

	case OpIsEmpty:
		return IsEmpty(value)

	case OpIsNotEmpty:
		return IsNotEmpty(value)

	default:
		return true
	}
}

// EvaluateConditions is true when every condition in the list holds.
// An empty list is true. The list is flat: group nodes are not expanded and,
// having no field reference, evaluate to true.
func EvaluateConditions(conds []Condition, data DataRecord, flags FeatureFlags) bool {
	for _, cond := range conds {
		if !EvaluateCondition(cond, data, flags) {
			return false
		}
	}
	return true
}

// evaluateFeature resolves a feature flag leaf. Missing flags are off.
func evaluateFeature(cond Condition, flags FeatureFlags) bool {
	enabled := flags[cond.Feature]

	switch cond.Operator {
	case OpOn:
		return enabled
	case OpOff:
		return !enabled
	case OpEquals:
		return enabled == isTruthy(cond.Value)
	default:
		return enabled
	}
}

// contains is a case-insensitive substring test for strings and exact
// membership for slices.
func contains(haystack, needle any) bool {
	if s, ok := haystack.(string); ok {
		return strings.Contains(strings.ToLower(s), strings.ToLower(toString(needle)))
	}

	items, ok := asSlice(haystack)
	if !ok {
		return false
	}
	for _, item := range items {
		if sameValue(item, needle) {
			return true
		}
	}
	return false
}

// inList compares the value, as text, against each member of list as text.
// A list that is not a slice contains nothing.
func inList(value, list any) bool {
	items, ok := asSlice(list)
	if !ok {
		return false
	}

	needle := toString(value)
	for _, item := range items {
		if toString(item) == needle {
			return true
		}
	}
	return false
}
