package i18n

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/dlovans/formkit/pkg/formkit"
)

func TestIsLikelyTranslationKey(t *testing.T) {
	tests := []struct {
		in   string
		want bool
	}{
		{"product.name", true},
		{"forms.order-items.total_1", true},
		{"Product Name", false},
		{"plain", false},
		{"product. name", false},
		{"price.$", false},
		{"", false},
		{"https://example.com", false},
	}
	for _, tt := range tests {
		if got := IsLikelyTranslationKey(tt.in); got != tt.want {
			t.Errorf("IsLikelyTranslationKey(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestTranslateConfig(t *testing.T) {
	tr := TranslatorFunc(func(key string, _ map[string]any) string {
		if key == "product.name" {
			return "Nombre"
		}
		return key
	})

	got := TranslateConfig(map[string]any{"label": "product.name"}, tr)
	if diff := cmp.Diff(map[string]any{"label": "Nombre"}, got); diff != "" {
		t.Errorf("TranslateConfig (-want +got):\n%s", diff)
	}
}

func TestTranslateConfigWalksTree(t *testing.T) {
	cat := NewCatalog("es", "")
	cat.Add("es", map[string]any{"form": map[string]any{"title": "Pedido", "qty": "Cantidad"}})

	in := map[string]any{
		"title": "form.title",
		"sections": []any{
			map[string]any{
				"fields": []any{
					map[string]any{"name": "qty", "label": "form.qty", "min": 1.5, "required": true},
					map[string]any{"name": "unit", "label": "form.unit_price", "hint": "Plain text."},
				},
			},
		},
		"version": nil,
	}
	want := map[string]any{
		"title": "Pedido",
		"sections": []any{
			map[string]any{
				"fields": []any{
					map[string]any{"name": "qty", "label": "Cantidad", "min": 1.5, "required": true},
					map[string]any{"name": "unit", "label": "Unit Price", "hint": "Plain text."},
				},
			},
		},
		"version": nil,
	}

	got := TranslateConfig(in, cat)
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("TranslateConfig (-want +got):\n%s", diff)
	}
	label := in["sections"].([]any)[0].(map[string]any)["fields"].([]any)[0].(map[string]any)["label"]
	if label != "form.qty" {
		t.Errorf("input was modified: label = %v", label)
	}
}

func TestTranslateConfigCopiesTypedContainers(t *testing.T) {
	cat := NewCatalog("es", "")
	cat.Add("es", map[string]any{"product.name": "Nombre"})

	tags := []string{"product.name", "plain"}
	headers := map[string]string{"name": "product.name"}
	rows := []map[string]any{{"label": "product.name"}}
	in := map[string]any{"tags": tags, "headers": headers, "rows": rows, "pair": [2]string{"product.name", "x"}}

	out := TranslateConfig(in, cat).(map[string]any)
	want := map[string]any{
		"tags":    []string{"Nombre", "plain"},
		"headers": map[string]string{"name": "Nombre"},
		"rows":    []map[string]any{{"label": "Nombre"}},
		"pair":    [2]string{"Nombre", "x"},
	}
	if diff := cmp.Diff(want, out); diff != "" {
		t.Errorf("TranslateConfig (-want +got):\n%s", diff)
	}

	out["tags"].([]string)[0] = "mutated"
	out["headers"].(map[string]string)["name"] = "mutated"
	out["rows"].([]map[string]any)[0]["label"] = "mutated"
	if tags[0] != "product.name" || headers["name"] != "product.name" || rows[0]["label"] != "product.name" {
		t.Errorf("output shares storage with input: tags=%v headers=%v rows=%v", tags, headers, rows)
	}
}

func TestTranslateConfigWithoutLabelResolver(t *testing.T) {
	identity := TranslatorFunc(func(key string, _ map[string]any) string { return key })
	if got := TranslateConfig("missing.key", identity); got != "missing.key" {
		t.Errorf("TranslateConfig(missing.key) = %v, want key unchanged", got)
	}
}

func TestCatalog(t *testing.T) {
	cat := NewCatalog("sv", "en")
	cat.Add("en", map[string]any{
		"greeting": "Hello {name}",
		"items":    map[string]any{"count": "{count} items", "limit": 10},
	})
	cat.Add("sv", map[string]any{"greeting": "Hej {name}"})

	tests := []struct {
		key    string
		params map[string]any
		want   string
	}{
		{"greeting", map[string]any{"name": "Ada"}, "Hej Ada"},
		{"items.count", map[string]any{"count": 3}, "3 items"},
		{"items.count", nil, "{count} items"},
		{"items.limit", nil, "10"},
		{"greeting", map[string]any{"other": 1}, "Hej {name}"},
		{"nope.missing", nil, "nope.missing"},
	}
	for _, tt := range tests {
		if got := cat.T(tt.key, tt.params); got != tt.want {
			t.Errorf("T(%q, %v) = %q, want %q", tt.key, tt.params, got, tt.want)
		}
	}

	if !cat.Has("items.count") || cat.Has("nope") {
		t.Error("Has() did not consult the fallback locale correctly")
	}
	if diff := cmp.Diff([]string{"en", "sv"}, cat.Locales()); diff != "" {
		t.Errorf("Locales() (-want +got):\n%s", diff)
	}

	cat.SetLocale("en")
	if got := cat.T("greeting", map[string]any{"name": "Ada"}); got != "Hello Ada" {
		t.Errorf("after SetLocale(en): T(greeting) = %q", got)
	}
}

func TestCatalogLoadYAML(t *testing.T) {
	cat := NewCatalog("de", "")
	err := cat.LoadYAML("de", []byte("product:\n  name: Produktname\n  price: Preis\n"))
	if err != nil {
		t.Fatalf("LoadYAML: %v", err)
	}
	if got := cat.T("product.price", nil); got != "Preis" {
		t.Errorf("T(product.price) = %q, want Preis", got)
	}
	if err := cat.LoadYAML("de", []byte("- not\n- a map\n")); err == nil {
		t.Error("LoadYAML(list) = nil error, want failure")
	}
}

func TestResolveLabel(t *testing.T) {
	cat := NewCatalog("en", "")
	tests := []struct {
		key, fallback, want string
	}{
		{"product.unit_price", "", "Unit Price"},
		{"orders.createdAt", "", "Created At"},
		{"plain_key", "", "Plain Key"},
		{"product.name", "Name", "Name"},
	}
	for _, tt := range tests {
		if got := cat.ResolveLabel(tt.key, tt.fallback); got != tt.want {
			t.Errorf("ResolveLabel(%q, %q) = %q, want %q", tt.key, tt.fallback, got, tt.want)
		}
	}
}

func TestDefaultTranslator(t *testing.T) {
	t.Cleanup(func() { SetDefault(nil) })

	if Default() == nil || Default() != Default() {
		t.Fatal("Default() should return a stable instance")
	}

	cat := NewCatalog("fr", "")
	cat.Add("fr", map[string]any{"app.title": "Titre"})
	SetDefault(cat)
	if got := TranslateConfig("app.title", nil); got != "Titre" {
		t.Errorf("TranslateConfig with default = %v, want Titre", got)
	}

	SetDefault(nil)
	if Default() == Translator(cat) {
		t.Error("SetDefault(nil) should reset the default translator")
	}
}

func TestTranslateForm(t *testing.T) {
	cat := NewCatalog("es", "")
	cat.Add("es", map[string]any{
		"order": map[string]any{
			"title":    "Pedido",
			"customer": "Cliente",
			"name":     "Nombre",
			"required": "Obligatorio",
			"business": "Empresa",
		},
	})

	form := &formkit.FormConfig{
		ID:    "order",
		Title: "order.title",
		Sections: []formkit.FormSection{{
			Title: "order.customer",
			Fields: []formkit.FieldConfig{{
				Name:       "name",
				Label:      "order.name",
				HelpText:   "Full legal name",
				Validation: []formkit.ValidationRule{{Type: formkit.RuleRequired, Message: "order.required"}},
				Options:    []formkit.Option{{Label: "order.business", Value: "b"}},
				Extra:      map[string]any{"tooltip": "order.tooltip_text"},
			}},
		}},
	}

	got := TranslateForm(form, cat)
	field := got.Sections[0].Fields[0]
	if got.Title != "Pedido" || got.Sections[0].Title != "Cliente" {
		t.Errorf("titles = %q, %q", got.Title, got.Sections[0].Title)
	}
	if field.Label != "Nombre" || field.HelpText != "Full legal name" {
		t.Errorf("field = %+v", field)
	}
	if field.Validation[0].Message != "Obligatorio" || field.Options[0].Label != "Empresa" {
		t.Errorf("rule/option = %+v / %+v", field.Validation[0], field.Options[0])
	}
	if field.Extra["tooltip"] != "Tooltip Text" {
		t.Errorf("extra tooltip = %v, want humanized fallback", field.Extra["tooltip"])
	}
	if form.Sections[0].Fields[0].Label != "order.name" || form.Sections[0].Fields[0].Options[0].Label != "order.business" {
		t.Error("TranslateForm modified its input")
	}
}

func TestTranslateTable(t *testing.T) {
	cat := NewCatalog("es", "")
	cat.Add("es", map[string]any{"users.email": "Correo"})

	table := &formkit.TableConfig{
		Title:   "users.title",
		Columns: []formkit.ColumnConfig{{Key: "email", Header: "users.email"}, {Key: "id", Header: "ID"}},
	}
	got := TranslateTable(table, cat)

	want := []string{"Correo", "ID"}
	var headers []string
	for _, c := range got.Columns {
		headers = append(headers, c.Header)
	}
	if diff := cmp.Diff(want, headers); diff != "" {
		t.Errorf("headers (-want +got):\n%s", diff)
	}
	if got.Title != "Title" {
		t.Errorf("Title = %q, want humanized Title", got.Title)
	}
	if table.Columns[0].Header != "users.email" {
		t.Error("TranslateTable modified its input")
	}
}
