package formkit

import (
	"fmt"
	"math"
	"net/url"
	"regexp"
	"unicode/utf8"

	"go.uber.org/zap"
)

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// FieldResult is the outcome of validating one value.
type FieldResult struct {
	Valid   bool   `json:"valid"`
	Message string `json:"message,omitempty"`
}

// FormResult maps each failing field name to its message. Fields that are
// valid, hidden, disabled or invisible are absent.
type FormResult struct {
	Valid  bool              `json:"valid"`
	Errors map[string]string `json:"errors"`
}

// ValidateField checks value against the field's required flag and rules.
// Required-and-empty fails before any rule runs; empty optional values pass
// without running rules. Otherwise the first failing rule decides the message.
func (e *Engine) ValidateField(value any, field FieldConfig, data DataRecord) FieldResult {
	required, requiredRule := isRequired(field)

	if IsEmpty(value) {
		if required {
			return FieldResult{Valid: false, Message: e.message(requiredRule)}
		}
		return FieldResult{Valid: true}
	}

	for _, rule := range field.Validation {
		if ok, msg := e.applyRule(rule, value, data, field.Name); !ok {
			return FieldResult{Valid: false, Message: msg}
		}
	}
	return FieldResult{Valid: true}
}

// isRequired treats a required rule in the list the same as the flag.
func isRequired(field FieldConfig) (bool, ValidationRule) {
	for _, rule := range field.Validation {
		if rule.Type == RuleRequired && rule.Value != false {
			return true, rule
		}
	}
	return field.Required, ValidationRule{Type: RuleRequired}
}

// ValidateForm validates every applicable field with all feature flags off.
func (e *Engine) ValidateForm(data DataRecord, fields []FieldConfig) FormResult {
	return e.validateFields(data, fields, nil)
}

// ValidateFormConfig validates a normalized form. Sections and fields whose
// showWhen does not hold are skipped.
func (e *Engine) ValidateFormConfig(data DataRecord, form *FormConfig, flags FeatureFlags) FormResult {
	return e.validateFields(data, VisibleFields(form, data, flags), flags)
}

func (e *Engine) validateFields(data DataRecord, fields []FieldConfig, flags FeatureFlags) FormResult {
	result := FormResult{Valid: true, Errors: make(map[string]string)}

	for _, field := range fields {
		if field.Type == FieldHidden || field.Disabled {
			continue
		}
		if !EvaluateConditions(field.ShowWhen, data, flags) {
			continue
		}

		r := e.ValidateField(data[field.Name], field, data)
		if !r.Valid {
			result.Valid = false
			result.Errors[field.Name] = r.Message
		}
	}
	return result
}

// VisibleFields returns the fields of visible sections whose own showWhen holds.
func VisibleFields(form *FormConfig, data DataRecord, flags FeatureFlags) []FieldConfig {
	if form == nil {
		return nil
	}

	var fields []FieldConfig
	for _, section := range form.Sections {
		if !EvaluateConditions(section.ShowWhen, data, flags) {
			continue
		}
		for _, field := range section.Fields {
			if EvaluateConditions(field.ShowWhen, data, flags) {
				fields = append(fields, field)
			}
		}
	}
	return fields
}

// applyRule runs one rule against a non-empty value.
func (e *Engine) applyRule(rule ValidationRule, value any, data DataRecord, fieldName string) (bool, string) {
	switch rule.Type {
	case RuleRequired:
		return true, ""

	case RuleMin:
		return e.check(compareNumbers(value, rule.Value, func(v, limit float64) bool { return v >= limit }), rule)

	case RuleMax:
		return e.check(compareNumbers(value, rule.Value, func(v, limit float64) bool { return v <= limit }), rule)

	case RuleMinLength:
		return e.check(compareLength(value, rule.Value, func(n, limit float64) bool { return n >= limit }), rule)

	case RuleMaxLength:
		return e.check(compareLength(value, rule.Value, func(n, limit float64) bool { return n <= limit }), rule)

	case RulePattern:
		pattern, ok := rule.Value.(string)
		if !ok {
			return true, ""
		}
		re, err := regexp.Compile(pattern)
		if err != nil {
			e.logger.Warn("invalid validation pattern",
				zap.String("field", fieldName), zap.String("pattern", pattern), zap.Error(err))
			return true, ""
		}
		return e.check(re.MatchString(toString(value)), rule)

	case RuleEmail:
		return e.check(emailPattern.MatchString(toString(value)), rule)

	case RuleURL:
		return e.check(isURL(toString(value)), rule)

	case RuleMatch:
		other, ok := rule.Value.(string)
		if !ok || other == "" {
			return true, ""
		}
		return e.check(toString(value) == toString(data[other]), rule)

	case RuleCustom:
		return e.applyCustom(rule, value, data, fieldName)

	default:
		return true, ""
	}
}

func (e *Engine) check(ok bool, rule ValidationRule) (bool, string) {
	if ok {
		return true, ""
	}
	return false, e.message(rule)
}

// applyCustom calls the rule's predicate. A string from the predicate wins
// over the rule and default messages. A panicking predicate fails the rule.
func (e *Engine) applyCustom(rule ValidationRule, value any, data DataRecord, fieldName string) (ok bool, msg string) {
	pred := rule.Custom
	if pred == nil {
		var found bool
		if pred, found = e.lookupValidator(rule.Validator); !found {
			return true, ""
		}
	}

	defer func() {
		if r := recover(); r != nil {
			e.logger.Error("custom validator panicked",
				zap.String("field", fieldName), zap.String("validator", rule.Validator),
				zap.String("panic", fmt.Sprint(r)))
			ok, msg = false, e.message(rule)
		}
	}()

	passed, text := pred(value, data)
	switch {
	case passed:
		return true, ""
	case text != "":
		return false, text
	default:
		return false, e.message(rule)
	}
}

// compareNumbers passes whenever either side is not a number.
func compareNumbers(value, limit any, cmp func(float64, float64) bool) bool {
	v, l := toNumber(value), toNumber(limit)
	if math.IsNaN(v) || math.IsNaN(l) {
		return true
	}
	return cmp(v, l)
}

// compareLength measures strings in characters and slices in elements.
// Other values, or a non-numeric limit, pass.
func compareLength(value, limit any, cmp func(float64, float64) bool) bool {
	l := toNumber(limit)
	if math.IsNaN(l) {
		return true
	}

	var n int
	if s, ok := value.(string); ok {
		n = utf8.RuneCountInString(s)
	} else if items, ok := asSlice(value); ok {
		n = len(items)
	} else {
		return true
	}
	return cmp(float64(n), l)
}

// isURL requires an absolute URL. Hierarchical web schemes also need a host.
func isURL(s string) bool {
	u, err := url.Parse(s)
	if err != nil || u.Scheme == "" {
		return false
	}
	switch u.Scheme {
	case "http", "https", "ftp", "ws", "wss":
		return u.Host != ""
	}
	return u.Opaque != "" || u.Host != "" || u.Path != ""
}
