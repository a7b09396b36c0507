package formkit

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func panicking(value any, data DataRecord) (bool, string) {
	panic("predicate must not run")
}

func TestValidateFieldRequiredShortCircuits(t *testing.T) {
	field := FieldConfig{
		Name:     "email",
		Required: true,
		Validation: []ValidationRule{
			{Type: RuleCustom, Custom: panicking},
			{Type: RuleMinLength, Value: 3},
		},
	}

	for _, empty := range []any{nil, "", "  ", []any{}, map[string]any{}} {
		got := ValidateField(empty, field, nil)
		want := FieldResult{Valid: false, Message: "This field is required"}
		if got != want {
			t.Errorf("ValidateField(%#v) = %+v, want %+v", empty, got, want)
		}
	}
}

func TestValidateFieldRequiredRuleMessage(t *testing.T) {
	field := FieldConfig{
		Name:       "name",
		Validation: []ValidationRule{{Type: RuleRequired, Message: "Name please"}},
	}
	got := ValidateField("", field, nil)
	if got.Valid || got.Message != "Name please" {
		t.Errorf("ValidateField(\"\") = %+v, want invalid with override message", got)
	}
}

func TestValidateFieldEmptyOptionalBypassesRules(t *testing.T) {
	field := FieldConfig{
		Name: "code",
		Validation: []ValidationRule{
			{Type: RulePattern, Value: "^[0-9]+$"},
			{Type: RuleMin, Value: 10},
			{Type: RuleMaxLength, Value: 0},
			{Type: RuleCustom, Custom: panicking},
		},
	}

	for _, empty := range []any{nil, "", "  ", []any{}} {
		if got := ValidateField(empty, field, nil); !got.Valid {
			t.Errorf("ValidateField(%#v) = %+v, want valid", empty, got)
		}
	}
}

func TestValidateFieldRules(t *testing.T) {
	tests := []struct {
		name  string
		rule  ValidationRule
		value any
		want  FieldResult
	}{
		{"min passes", ValidationRule{Type: RuleMin, Value: 5}, 5, FieldResult{Valid: true}},
		{"min fails", ValidationRule{Type: RuleMin, Value: 5}, "4", FieldResult{Message: "Must be at least 5"}},
		{"min ignores text", ValidationRule{Type: RuleMin, Value: 5}, "abc", FieldResult{Valid: true}},
		{"max fails", ValidationRule{Type: RuleMax, Value: 10.5}, 11, FieldResult{Message: "Must be at most 10.5"}},
		{"max passes", ValidationRule{Type: RuleMax, Value: "10"}, 10, FieldResult{Valid: true}},
		{"minLength string", ValidationRule{Type: RuleMinLength, Value: 3}, "ab", FieldResult{Message: "Must be at least 3 characters"}},
		{"minLength counts runes", ValidationRule{Type: RuleMinLength, Value: 3}, "äöü", FieldResult{Valid: true}},
		{"maxLength array", ValidationRule{Type: RuleMaxLength, Value: 2}, []any{1, 2, 3}, FieldResult{Message: "Must be at most 2 characters"}},
		{"minLength fractional limit", ValidationRule{Type: RuleMinLength, Value: 2.5}, "ab", FieldResult{Message: "Must be at least 2.5 characters"}},
		{"maxLength huge limit", ValidationRule{Type: RuleMaxLength, Value: 1e20}, "abc", FieldResult{Valid: true}},
		{"maxLength number passes", ValidationRule{Type: RuleMaxLength, Value: 1}, 12345, FieldResult{Valid: true}},
		{"pattern passes", ValidationRule{Type: RulePattern, Value: "^[A-Z]{3}$"}, "ABC", FieldResult{Valid: true}},
		{"pattern fails", ValidationRule{Type: RulePattern, Value: "^[A-Z]{3}$"}, "abc", FieldResult{Message: "Invalid format"}},
		{"pattern coerces", ValidationRule{Type: RulePattern, Value: `^\d+$`}, 42, FieldResult{Valid: true}},
		{"invalid pattern passes", ValidationRule{Type: RulePattern, Value: "(?!x)"}, "x", FieldResult{Valid: true}},
		{"email passes", ValidationRule{Type: RuleEmail}, "a@b.co", FieldResult{Valid: true}},
		{"email fails", ValidationRule{Type: RuleEmail}, "a@b", FieldResult{Message: "Invalid email address"}},
		{"email with space fails", ValidationRule{Type: RuleEmail}, "a b@c.de", FieldResult{Message: "Invalid email address"}},
		{"url passes", ValidationRule{Type: RuleURL}, "https://example.com/x", FieldResult{Valid: true}},
		{"url mailto passes", ValidationRule{Type: RuleURL}, "mailto:me@example.com", FieldResult{Valid: true}},
		{"url relative fails", ValidationRule{Type: RuleURL}, "/just/a/path", FieldResult{Message: "Invalid URL"}},
		{"url no host fails", ValidationRule{Type: RuleURL}, "http://", FieldResult{Message: "Invalid URL"}},
		{"message override", ValidationRule{Type: RuleMin, Value: 1, Message: "Too small"}, 0, FieldResult{Message: "Too small"}},
		{"unknown rule passes", ValidationRule{Type: "sparkles"}, "x", FieldResult{Valid: true}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			field := FieldConfig{Name: "f", Validation: []ValidationRule{tt.rule}}
			if got := ValidateField(tt.value, field, nil); got != tt.want {
				t.Errorf("ValidateField(%#v) = %+v, want %+v", tt.value, got, tt.want)
			}
		})
	}
}

func TestValidateFieldStopsAtFirstFailure(t *testing.T) {
	field := FieldConfig{
		Name: "code",
		Validation: []ValidationRule{
			{Type: RuleMinLength, Value: 5, Message: "first"},
			{Type: RuleCustom, Custom: panicking},
		},
	}
	got := ValidateField("abc", field, nil)
	if got.Valid || got.Message != "first" {
		t.Errorf("ValidateField = %+v, want first rule's message", got)
	}
}

func TestValidateFieldCustom(t *testing.T) {
	even := func(value any, data DataRecord) (bool, string) {
		return int(toNumber(value))%2 == 0, ""
	}
	explain := func(value any, data DataRecord) (bool, string) {
		return false, "not on a " + toString(data["day"])
	}

	tests := []struct {
		name string
		rule ValidationRule
		want FieldResult
	}{
		{"bool pass", ValidationRule{Type: RuleCustom, Custom: even}, FieldResult{Valid: true}},
		{"string result is the message", ValidationRule{Type: RuleCustom, Custom: explain, Message: "ignored"}, FieldResult{Message: "not on a Sunday"}},
		{"panic fails", ValidationRule{Type: RuleCustom, Custom: panicking}, FieldResult{Message: "Invalid value"}},
		{"no predicate passes", ValidationRule{Type: RuleCustom, Validator: "nobody-registered-this"}, FieldResult{Valid: true}},
	}

	for _, tt := range tests {
		field := FieldConfig{Name: "n", Validation: []ValidationRule{tt.rule}}
		if got := ValidateField(4, field, DataRecord{"day": "Sunday"}); got != tt.want {
			t.Errorf("%s: ValidateField = %+v, want %+v", tt.name, got, tt.want)
		}
	}
}

func TestValidateFieldCustomFromRegistry(t *testing.T) {
	reg := NewRegistry()
	reg.RegisterValidator("noBob", func(value any, data DataRecord) (bool, string) {
		return value != "bob", ""
	})
	engine := NewEngine(WithRegistry(reg), WithMessages(Messages{Custom: "No bobs"}))

	field := FieldConfig{Name: "user", Validation: []ValidationRule{{Type: RuleCustom, Validator: "noBob"}}}
	if got := engine.ValidateField("bob", field, nil); got.Valid || got.Message != "No bobs" {
		t.Errorf("ValidateField(bob) = %+v, want invalid 'No bobs'", got)
	}
	if got := engine.ValidateField("alice", field, nil); !got.Valid {
		t.Errorf("ValidateField(alice) = %+v, want valid", got)
	}
}

func TestValidateFieldMatch(t *testing.T) {
	field := FieldConfig{Name: "confirm", Validation: []ValidationRule{{Type: RuleMatch, Value: "password"}}}
	data := DataRecord{"password": "s3cret"}

	if got := ValidateField("s3cret", field, data); !got.Valid {
		t.Errorf("ValidateField(match) = %+v, want valid", got)
	}
	if got := ValidateField("other", field, data); got.Message != "Must match password" {
		t.Errorf("ValidateField(mismatch) = %+v", got)
	}
}

func TestValidateFormSkipsInapplicableFields(t *testing.T) {
	fields := []FieldConfig{
		{Name: "name", Required: true},
		{Name: "token", Type: FieldHidden, Required: true},
		{Name: "locked", Required: true, Disabled: true},
		{
			Name:     "company",
			Required: true,
			ShowWhen: []Condition{{Field: "kind", Operator: OpEquals, Value: "business"}},
		},
		{Name: "age", Validation: []ValidationRule{{Type: RuleMin, Value: 18}}},
	}

	got := ValidateForm(DataRecord{"kind": "personal", "age": 12}, fields)
	want := FormResult{
		Valid: false,
		Errors: map[string]string{
			"name": "This field is required",
			"age":  "Must be at least 18",
		},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("ValidateForm mismatch (-want +got):\n%s", diff)
	}

	got = ValidateForm(DataRecord{"kind": "business", "name": "Ada", "age": 30}, fields)
	if got.Valid || got.Errors["company"] == "" || len(got.Errors) != 1 {
		t.Errorf("ValidateForm(business) = %+v, want only company to fail", got)
	}
}

func TestValidateFormConfigHonoursSectionsAndFlags(t *testing.T) {
	form := &FormConfig{Sections: []FormSection{
		{
			ID:     "main",
			Fields: []FieldConfig{{Name: "title", Required: true}},
		},
		{
			ID:       "billing",
			ShowWhen: []Condition{{Feature: "billing", Operator: OpOn}},
			Fields:   []FieldConfig{{Name: "iban", Required: true}},
		},
	}}
	engine := NewEngine()

	got := engine.ValidateFormConfig(DataRecord{"title": "x"}, form, nil)
	if !got.Valid {
		t.Errorf("ValidateFormConfig(billing off) = %+v, want valid", got)
	}

	got = engine.ValidateFormConfig(DataRecord{"title": "x"}, form, FeatureFlags{"billing": true})
	if got.Valid || got.Errors["iban"] == "" {
		t.Errorf("ValidateFormConfig(billing on) = %+v, want iban required", got)
	}
}
