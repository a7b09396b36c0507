package loader

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/dlovans/formkit/pkg/formkit"
	"github.com/dlovans/formkit/pkg/lint"
)

const usersJSON = `{"id": "users", "columns": [{"key": "id", "header": "ID", "width": 80}, {"key": "email", "header": "Email", "type": "email"}]}`

const usersYAML = `
id: users
columns:
  - key: id
    header: ID
    width: 80
  - key: email
    header: Email
    type: email
`

const usersCUE = `
id: "users"
columns: [
	{key: "id", header: "ID", width: 80},
	{key: "email", header: "Email", type: "email"},
]
`

func TestDecodeFormatsAgree(t *testing.T) {
	want, err := Decode([]byte(usersJSON), FormatJSON)
	if err != nil {
		t.Fatalf("Decode(json): %v", err)
	}

	for _, tt := range []struct {
		format Format
		data   string
	}{
		{FormatYAML, usersYAML},
		{FormatCUE, usersCUE},
	} {
		got, err := Decode([]byte(tt.data), tt.format)
		if err != nil {
			t.Errorf("Decode(%s): %v", tt.format, err)
			continue
		}
		if diff := cmp.Diff(want, got); diff != "" {
			t.Errorf("Decode(%s) differs from json (-json +%s):\n%s", tt.format, tt.format, diff)
		}
	}
}

func TestDecodeErrors(t *testing.T) {
	tests := []struct {
		name   string
		data   string
		format Format
		target error
	}{
		{"bad json", `{"id":`, FormatJSON, nil},
		{"json array", `[1, 2]`, FormatJSON, ErrNotObject},
		{"bad yaml", "id: [unclosed", FormatYAML, nil},
		{"bad cue", `id: "a" & "b"`, FormatCUE, nil},
		{"incomplete cue", `id: string`, FormatCUE, nil},
		{"toml", `id = "x"`, Format("toml"), ErrUnsupportedFormat},
	}
	for _, tt := range tests {
		_, err := Decode([]byte(tt.data), tt.format)
		if err == nil {
			t.Errorf("%s: Decode() = nil error", tt.name)
			continue
		}
		if tt.target != nil && !errors.Is(err, tt.target) {
			t.Errorf("%s: error %v, want %v", tt.name, err, tt.target)
		}
	}
}

func TestFormatOf(t *testing.T) {
	tests := []struct {
		path string
		want Format
	}{
		{"form.json", FormatJSON},
		{"dir/form.YAML", FormatYAML},
		{"form.yml", FormatYAML},
		{"form.cue", FormatCUE},
	}
	for _, tt := range tests {
		if got, err := FormatOf(tt.path); err != nil || got != tt.want {
			t.Errorf("FormatOf(%q) = %q, %v, want %q", tt.path, got, err, tt.want)
		}
	}
	if _, err := FormatOf("form.txt"); !errors.Is(err, ErrUnsupportedFormat) {
		t.Errorf("FormatOf(form.txt) error = %v, want ErrUnsupportedFormat", err)
	}
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadConfig(t *testing.T) {
	path := writeFile(t, "users.yaml", usersYAML)

	cfg, result, err := LoadConfig(path, nil)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if !result.Valid || cfg.Kind != formkit.KindTable {
		t.Fatalf("LoadConfig = %+v, %+v", cfg, result)
	}
	col, ok := cfg.Table.Column("id")
	if !ok || col.Width != 80 {
		t.Errorf("column id = %+v, want width 80", col)
	}
}

func TestLoadConfigLintFailure(t *testing.T) {
	path := writeFile(t, "broken.json", `{"columns": [{"key": "a"}, {"key": "a"}]}`)

	cfg, result, err := LoadConfig(path, nil)
	if cfg != nil || err == nil {
		t.Fatalf("LoadConfig = %v, %v, want failure", cfg, err)
	}
	var assertion *lint.AssertionError
	if !errors.As(err, &assertion) {
		t.Errorf("error %T does not wrap *lint.AssertionError", err)
	}
	if result == nil || result.Valid {
		t.Errorf("result = %+v, want invalid", result)
	}
}

func TestLoadConfigStrict(t *testing.T) {
	path := writeFile(t, "warn.json", `{"columns": [{"key": "a"}]}`)

	if _, _, err := LoadConfig(path, nil); err != nil {
		t.Errorf("LoadConfig(default) = %v, want success with warnings", err)
	}
	if _, _, err := LoadConfig(path, &Options{Lint: &lint.Options{Strict: true}}); err == nil {
		t.Error("LoadConfig(strict) = nil error, want failure")
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.json")); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("Load(missing) error = %v, want os.ErrNotExist", err)
	}
}

func TestSniff(t *testing.T) {
	if got := Sniff([]byte(usersJSON)); got != FormatJSON {
		t.Errorf("Sniff(json) = %q", got)
	}
	if got := Sniff([]byte(usersYAML)); got != FormatYAML {
		t.Errorf("Sniff(yaml) = %q", got)
	}
}
