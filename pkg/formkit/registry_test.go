package formkit

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestRegistry(t *testing.T) {
	r := NewRegistry()
	r.RegisterValidator("b", func(any, DataRecord) (bool, string) { return true, "" })
	r.RegisterValidator("a", func(any, DataRecord) (bool, string) { return false, "" })

	if _, ok := r.Validator("a"); !ok {
		t.Error("Validator(a) not found")
	}
	if _, ok := r.Validator("zzz"); ok {
		t.Error("Validator(zzz) found, want missing")
	}
	if diff := cmp.Diff([]string{"a", "b"}, r.Validators()); diff != "" {
		t.Errorf("Validators() (-want +got):\n%s", diff)
	}

	if r.KnownFieldType("signature") {
		t.Error("signature should be unknown before registration")
	}
	r.RegisterFieldType("signature")
	for _, ft := range []FieldType{"signature", FieldGeneric, FieldSelect} {
		if !r.KnownFieldType(ft) {
			t.Errorf("KnownFieldType(%q) = false, want true", ft)
		}
	}
}

func TestDefaultRegistryOverride(t *testing.T) {
	original := DefaultRegistry()
	t.Cleanup(func() { SetDefaultRegistry(original) })

	if DefaultRegistry() != original {
		t.Fatal("DefaultRegistry() should be stable between calls")
	}

	custom := NewRegistry()
	custom.RegisterValidator("nope", func(any, DataRecord) (bool, string) { return false, "nope" })
	SetDefaultRegistry(custom)

	field := FieldConfig{Name: "x", Validation: []ValidationRule{{Type: RuleCustom, Validator: "nope"}}}
	if got := ValidateField("v", field, nil); got.Message != "nope" {
		t.Errorf("ValidateField with default registry = %+v, want nope", got)
	}

	SetDefaultRegistry(nil)
	if DefaultRegistry() == custom || DefaultRegistry() == nil {
		t.Error("SetDefaultRegistry(nil) should install a fresh registry")
	}
}
