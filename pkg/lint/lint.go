// Package lint provides static analysis for table and form configs.
// It reports structural problems as data without executing anything.
package lint

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/samber/lo"

	"github.com/dlovans/formkit/pkg/formkit"
)

// Severity classifies an issue.
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
)

// Issue is one problem located by a dotted path such as "sections[0].fields[2].name".
type Issue struct {
	Path       string   `json:"path"`
	Message    string   `json:"message"`
	Severity   Severity `json:"severity"`
	Suggestion string   `json:"suggestion,omitempty"`
}

// Result partitions the issues found by the linter.
type Result struct {
	Valid    bool    `json:"valid"`
	Errors   []Issue `json:"errors"`
	Warnings []Issue `json:"warnings"`
}

// CustomValidator checks the value of one top-level config property.
type CustomValidator func(value any, path string) []Issue

// Options tune validation.
type Options struct {
	// Strict makes warnings count against validity.
	Strict bool
	// CustomValidators run after the built-in checks, keyed by top-level property.
	CustomValidators map[string]CustomValidator
	// Registry supplies extra field types and custom validator names.
	// Nil means formkit.DefaultRegistry().
	Registry *formkit.Registry
}

type linter struct {
	opts     Options
	registry *formkit.Registry
	issues   []Issue
}

func newLinter(opts *Options) *linter {
	l := &linter{}
	if opts != nil {
		l.opts = *opts
	}
	l.registry = l.opts.Registry
	if l.registry == nil {
		l.registry = formkit.DefaultRegistry()
	}
	return l
}

func (l *linter) addError(path, message, suggestion string) {
	l.issues = append(l.issues, Issue{Path: path, Message: message, Severity: SeverityError, Suggestion: suggestion})
}

func (l *linter) addWarning(path, message, suggestion string) {
	l.issues = append(l.issues, Issue{Path: path, Message: message, Severity: SeverityWarning, Suggestion: suggestion})
}

// ValidateConfig validates a table (has "columns") or form (has "sections").
func ValidateConfig(config map[string]any, opts *Options) *Result {
	if _, ok := config["columns"]; ok {
		return ValidateTableConfig(config, opts)
	}
	if _, ok := config["sections"]; ok {
		return ValidateFormConfig(config, opts)
	}

	l := newLinter(opts)
	l.addError("", "config must define either columns (table) or sections (form)",
		`add a "columns" array for a table or a "sections" array for a form`)
	return l.result()
}

// ValidateTableConfig checks a raw table config.
func ValidateTableConfig(config map[string]any, opts *Options) *Result {
	l := newLinter(opts)
	l.table(config)
	l.custom(config)
	return l.result()
}

// ValidateFormConfig checks a raw form config.
func ValidateFormConfig(config map[string]any, opts *Options) *Result {
	l := newLinter(opts)
	l.form(config)
	l.custom(config)
	return l.result()
}

func (l *linter) table(config map[string]any) {
	columns, ok := formkit.AsSlice(config["columns"])
	if !ok {
		l.addError("columns", "columns must be an array", "")
		return
	}
	if len(columns) == 0 {
		l.addError("columns", "columns must not be empty", "add at least one column")
		return
	}

	var keys []string
	for i, item := range columns {
		path := fmt.Sprintf("columns[%d]", i)
		col, ok := item.(map[string]any)
		if !ok {
			l.addError(path, "column must be an object", "")
			continue
		}

		key, _ := col["key"].(string)
		if strings.TrimSpace(key) == "" {
			l.addError(path+".key", "column key is required", "")
		} else {
			keys = append(keys, key)
		}

		if header, _ := col["header"].(string); header == "" {
			l.addWarning(path+".header", "column header is missing",
				"the key will be displayed as the header")
		}

		if t, ok := col["type"]; ok {
			name, _ := t.(string)
			if !lo.Contains(formkit.ColumnTypes, formkit.ColumnType(name)) {
				l.addWarning(path+".type", fmt.Sprintf("unknown column type %q", toText(t)),
					"known types: "+strings.Join(lo.Map(formkit.ColumnTypes, func(c formkit.ColumnType, _ int) string { return string(c) }), ", "))
			}
		}
	}

	if dups := duplicates(keys); len(dups) > 0 {
		l.addError("columns", "duplicate column keys: "+quoteList(dups), "column keys must be unique")
	}

	if p, ok := config["pagination"].(map[string]any); ok {
		if _, ok := formkit.AsFloat(p["pageSize"]); !ok {
			l.addError("pagination.pageSize", "pagination.pageSize must be a number", "set pageSize, e.g. 10")
		}
	}

	if cond, ok := config["showWhen"]; ok {
		l.conditionList(cond, "showWhen")
	}
}

func (l *linter) form(config map[string]any) {
	if id, _ := config["id"].(string); id == "" {
		l.addWarning("id", "form id is missing", "an id helps identify the form in logs and storage")
	}

	sections, ok := formkit.AsSlice(config["sections"])
	if !ok {
		l.addError("sections", "sections must be an array", "")
		return
	}
	if len(sections) == 0 {
		l.addError("sections", "sections must not be empty", "add at least one section with fields")
		return
	}

	var names []string
	var computed []computedRef
	for i, item := range sections {
		path := fmt.Sprintf("sections[%d]", i)
		section, ok := item.(map[string]any)
		if !ok {
			l.addError(path, "section must be an object", "")
			continue
		}

		if cond, ok := section["showWhen"]; ok {
			l.conditionList(cond, path+".showWhen")
		}

		rawFields, exists := section["fields"]
		fields, ok := formkit.AsSlice(rawFields)
		if !exists || !ok {
			l.addError(path+".fields", "section must have a fields array", "")
			continue
		}
		if len(fields) == 0 {
			l.addWarning(path+".fields", "section has no fields", "")
			continue
		}

		for j, f := range fields {
			fieldPath := fmt.Sprintf("%s.fields[%d]", path, j)
			field, ok := f.(map[string]any)
			if !ok {
				l.addError(fieldPath, "field must be an object", "")
				continue
			}
			if name, _ := field["name"].(string); strings.TrimSpace(name) != "" {
				names = append(names, name)
			}
			if ref, ok := l.field(field, fieldPath); ok {
				computed = append(computed, ref)
			}
		}
	}

	if dups := duplicates(names); len(dups) > 0 {
		l.addError("sections", "duplicate field names: "+quoteList(dups), "field names must be unique across all sections")
	}

	known := lo.SliceToMap(names, func(n string) (string, bool) { return n, true })
	for _, ref := range computed {
		for _, dep := range ref.deps {
			if !known[dep] {
				l.addWarning(ref.path+".deps", fmt.Sprintf("computed dependency %q does not match any field", dep), "")
			}
		}
	}
}

type computedRef struct {
	path string
	deps []string
}

// field checks one field and returns its computed deps, if it has any.
func (l *linter) field(field map[string]any, path string) (computedRef, bool) {
	if name, _ := field["name"].(string); strings.TrimSpace(name) == "" {
		l.addError(path+".name", "field name is required", "")
	}

	typeName, _ := field["type"].(string)
	if typeName == "" {
		l.addError(path+".type", "field type is required", `use "generic" for custom widgets`)
	} else if !l.registry.KnownFieldType(formkit.FieldType(typeName)) {
		l.addWarning(path+".type", fmt.Sprintf("unknown field type %q", typeName),
			"known types: "+strings.Join(lo.Map(formkit.FieldTypes, func(t formkit.FieldType, _ int) string { return string(t) }), ", ")+
				`; use "generic" for custom widgets`)
	}

	if label, _ := field["label"].(string); label == "" {
		l.addWarning(path+".label", "field label is missing", "labels are needed for accessibility")
	}

	if formkit.FieldType(typeName).NeedsOptions() {
		_, hasOptions := field["options"]
		entity, _ := field["entityType"].(string)
		if !hasOptions && entity == "" {
			l.addError(path, fmt.Sprintf("%s field needs options or entityType", typeName),
				"add a static options list or an entityType to load them from")
		}
	}

	if v, ok := field["validation"]; ok {
		l.rules(v, path+".validation")
	}

	if cond, ok := field["showWhen"]; ok {
		l.conditionList(cond, path+".showWhen")
	}

	if f, ok := field["format"].(map[string]any); ok {
		if v, ok := f["toFixed"]; ok {
			n, isNum := formkit.AsFloat(v)
			if !isNum || n < 0 || n != float64(int(n)) {
				l.addError(path+".format.toFixed", "format.toFixed must be a non-negative integer", "")
			}
		}
	}

	c, ok := field["computed"]
	if !ok {
		return computedRef{}, false
	}
	return l.computed(c, path+".computed")
}

func (l *linter) computed(v any, path string) (computedRef, bool) {
	c, ok := v.(map[string]any)
	if !ok {
		l.addError(path, "computed must be an object with formula and deps", "")
		return computedRef{}, false
	}

	if formula, _ := c["formula"].(string); strings.TrimSpace(formula) == "" {
		l.addError(path+".formula", "computed formula must be a non-empty string", "e.g. \"{price} * {quantity}\"")
	}

	deps, ok := formkit.AsSlice(c["deps"])
	if !ok {
		l.addError(path+".deps", "computed deps must be an array of field names", "")
		return computedRef{}, false
	}

	ref := computedRef{path: path}
	for _, d := range deps {
		if s, ok := d.(string); ok {
			ref.deps = append(ref.deps, s)
		}
	}
	return ref, true
}

// ruleKeys are the keys that mark an object as a key-notation rule.
var ruleKeys = lo.Map(formkit.RuleTypes, func(t formkit.RuleType, _ int) string { return string(t) })

func (l *linter) rules(v any, path string) {
	if _, isObj := v.(map[string]any); isObj {
		l.rule(v, path)
		return
	}
	items, ok := formkit.AsSlice(v)
	if !ok {
		l.addError(path, "validation must be an array of rule objects", "")
		return
	}
	for i, item := range items {
		l.rule(item, fmt.Sprintf("%s[%d]", path, i))
	}
}

func (l *linter) rule(v any, path string) {
	rule, ok := v.(map[string]any)
	if !ok {
		l.addError(path, "validation rule must be an object", "")
		return
	}

	if t, ok := rule["type"]; ok {
		name, _ := t.(string)
		if !lo.Contains(formkit.RuleTypes, formkit.RuleType(name)) {
			l.addWarning(path+".type", fmt.Sprintf("unknown rule type %q", toText(t)),
				"known types: "+strings.Join(ruleKeys, ", "))
		}
		return
	}

	if !lo.SomeBy(ruleKeys, func(k string) bool { _, ok := rule[k]; return ok }) {
		l.addWarning(path, "validation rule has no recognised rule key",
			"use one of: "+strings.Join(ruleKeys, ", "))
	}

	for _, key := range []string{"min", "max", "minLength", "maxLength"} {
		if v, ok := rule[key]; ok {
			if _, isNum := formkit.AsFloat(v); !isNum {
				l.addError(path+"."+key, key+" must be a number", "")
			}
		}
	}

	if v, ok := rule["pattern"]; ok {
		pattern, isStr := v.(string)
		if !isStr {
			l.addError(path+".pattern", "pattern must be a string", "")
		} else if _, err := regexp.Compile(pattern); err != nil {
			l.addWarning(path+".pattern", fmt.Sprintf("pattern does not compile: %v", err),
				"the rule will be skipped at runtime")
		}
	}

	if v, ok := rule["custom"]; ok {
		name, isStr := v.(string)
		switch {
		case !isStr || name == "":
			l.addWarning(path+".custom", "inline custom functions are ignored in serialized configs",
				"register a validator and reference it by name")
		default:
			if _, found := l.registry.Validator(name); !found {
				l.addWarning(path+".custom", fmt.Sprintf("custom validator %q is not registered", name), "")
			}
		}
	}
}

// conditionList accepts a single condition or a list of them.
func (l *linter) conditionList(v any, path string) {
	if items, ok := formkit.AsSlice(v); ok {
		for i, item := range items {
			l.condition(item, fmt.Sprintf("%s[%d]", path, i))
		}
		return
	}
	l.condition(v, path)
}

// condition checks a leaf or an and/or group.
func (l *linter) condition(v any, path string) {
	cond, ok := v.(map[string]any)
	if !ok {
		l.addError(path, "condition must be an object", "")
		return
	}

	_, hasField := cond["field"]
	_, hasFeature := cond["feature"]
	nested, hasGroup := cond["conditions"]

	switch {
	case hasField:
		if field, _ := cond["field"].(string); strings.TrimSpace(field) == "" {
			l.addError(path+".field", "condition field must be a non-empty string", "")
		}
		l.operator(cond, path, formkit.FieldOperators)

	case hasFeature:
		if feature, _ := cond["feature"].(string); strings.TrimSpace(feature) == "" {
			l.addError(path+".feature", "condition feature must be a non-empty string", "")
		}
		l.operator(cond, path, formkit.FeatureOperators)

	case hasGroup:
		items, ok := formkit.AsSlice(nested)
		if !ok {
			l.addError(path+".conditions", "conditions must be an array", "")
			return
		}
		if len(items) == 0 {
			l.addWarning(path+".conditions", "condition group has no conditions",
				"an empty group always matches; add conditions or remove it")
		}
		for i, item := range items {
			l.condition(item, fmt.Sprintf("%s.conditions[%d]", path, i))
		}
		if logic, ok := cond["logic"]; ok {
			if s, _ := logic.(string); s != string(formkit.LogicAnd) && s != string(formkit.LogicOr) {
				l.addError(path+".logic", fmt.Sprintf("logic must be %q or %q", formkit.LogicAnd, formkit.LogicOr), "")
			}
		}

	default:
		l.addError(path, "condition needs a field, feature or conditions", "")
	}
}

func (l *linter) operator(cond map[string]any, path string, allowed []formkit.Operator) {
	op, _ := cond["operator"].(string)
	if !lo.Contains(allowed, formkit.Operator(op)) {
		l.addError(path+".operator", fmt.Sprintf("unknown operator %q", op),
			"known operators: "+strings.Join(lo.Map(allowed, func(o formkit.Operator, _ int) string { return string(o) }), ", "))
	}
}

// custom runs caller validators in key order. A panicking validator becomes
// a warning.
func (l *linter) custom(config map[string]any) {
	keys := lo.Keys(l.opts.CustomValidators)
	sort.Strings(keys)
	for _, key := range keys {
		fn := l.opts.CustomValidators[key]
		value, ok := config[key]
		if !ok || fn == nil {
			continue
		}
		l.issues = append(l.issues, runCustom(fn, key, value)...)
	}
}

func runCustom(fn CustomValidator, key string, value any) (issues []Issue) {
	defer func() {
		if r := recover(); r != nil {
			issues = []Issue{{
				Path:     key,
				Message:  fmt.Sprintf("custom validator failed: %v", r),
				Severity: SeverityWarning,
			}}
		}
	}()
	return fn(value, key)
}

func (l *linter) result() *Result {
	r := &Result{Errors: []Issue{}, Warnings: []Issue{}}
	for _, issue := range l.issues {
		if issue.Severity == SeverityError {
			r.Errors = append(r.Errors, issue)
		} else {
			r.Warnings = append(r.Warnings, issue)
		}
	}
	r.Valid = len(r.Errors) == 0
	if l.opts.Strict {
		r.Valid = r.Valid && len(r.Warnings) == 0
	}
	return r
}

// duplicates returns each value that occurs more than once, in order of its
// second occurrence, listed once.
func duplicates(values []string) []string {
	seen := make(map[string]bool, len(values))
	var dups []string
	for _, v := range values {
		if seen[v] {
			dups = append(dups, v)
		}
		seen[v] = true
	}
	return lo.Uniq(dups)
}

func quoteList(values []string) string {
	return strings.Join(lo.Map(values, func(v string, _ int) string { return fmt.Sprintf("%q", v) }), ", ")
}

func toText(v any) string {
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprint(v)
}
