// Package loader reads raw table and form configs from JSON, YAML or CUE
// documents and hands them to the linter and normalizer.
package loader

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"gopkg.in/yaml.v3"

	"github.com/dlovans/formkit/pkg/formkit"
	"github.com/dlovans/formkit/pkg/lint"
)

// Format is a config document encoding.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
	FormatCUE  Format = "cue"
)

// FormatOf picks the format from a file extension.
func FormatOf(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".cue":
		return FormatCUE, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, filepath.Ext(path))
	}
}

// Load reads and decodes the config file at path.
func Load(path string) (map[string]any, error) {
	format, err := FormatOf(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	raw, err := Decode(data, format)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return raw, nil
}

// Decode parses data into a JSON-shaped object: nested map[string]any and
// []any values with float64 numbers, whatever the source format.
func Decode(data []byte, format Format) (map[string]any, error) {
	var (
		v   any
		err error
	)
	switch format {
	case FormatJSON:
		v, err = decodeJSON(data)
	case FormatYAML:
		v, err = decodeYAML(data)
	case FormatCUE:
		v, err = decodeCUE(data)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}
	if err != nil {
		return nil, err
	}

	raw, ok := v.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("%w: got %T", ErrNotObject, v)
	}
	return raw, nil
}

func decodeJSON(data []byte) (any, error) {
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return nil, fmt.Errorf("parse json: %w", err)
	}
	return v, nil
}

func decodeYAML(data []byte) (any, error) {
	var v any
	if err := yaml.Unmarshal(data, &v); err != nil {
		return nil, fmt.Errorf("parse yaml: %w", err)
	}
	return jsonShape(v), nil
}

func decodeCUE(data []byte) (any, error) {
	ctx := cuecontext.New()
	v := ctx.CompileBytes(data)
	if v.Err() != nil {
		return nil, fmt.Errorf("compile cue: %w", v.Err())
	}
	if err := v.Validate(cue.Concrete(true)); err != nil {
		return nil, fmt.Errorf("cue value is not concrete: %w", err)
	}

	jsonBytes, err := v.MarshalJSON()
	if err != nil {
		return nil, fmt.Errorf("export cue: %w", err)
	}
	return decodeJSON(jsonBytes)
}

// jsonShape converts YAML decoder output to the types encoding/json produces.
func jsonShape(v any) any {
	switch t := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, child := range t {
			out[k] = jsonShape(child)
		}
		return out
	case map[any]any:
		out := make(map[string]any, len(t))
		for k, child := range t {
			out[fmt.Sprint(k)] = jsonShape(child)
		}
		return out
	case []any:
		out := make([]any, len(t))
		for i, child := range t {
			out[i] = jsonShape(child)
		}
		return out
	case int:
		return float64(t)
	case int64:
		return float64(t)
	case uint64:
		return float64(t)
	default:
		return v
	}
}

// Options control LoadConfig.
type Options struct {
	Lint      *lint.Options
	Normalize *formkit.NormalizeOptions
}

// LoadConfig loads path, lints it and normalizes it. A config that fails
// linting returns the lint result and an error wrapping *lint.AssertionError.
func LoadConfig(path string, opts *Options) (*formkit.Config, *lint.Result, error) {
	raw, err := Load(path)
	if err != nil {
		return nil, nil, err
	}
	return Prepare(raw, opts)
}

// Prepare lints and normalizes an already decoded config.
func Prepare(raw map[string]any, opts *Options) (*formkit.Config, *lint.Result, error) {
	if opts == nil {
		opts = &Options{}
	}

	result := lint.ValidateConfig(raw, opts.Lint)
	if !result.Valid {
		return nil, result, fmt.Errorf("lint config: %w", &lint.AssertionError{Result: result})
	}

	cfg, err := formkit.ParseConfig(raw, opts.Normalize)
	if err != nil {
		return nil, result, fmt.Errorf("normalize config: %w", err)
	}
	return cfg, result, nil
}

// Sniff guesses the format of data read from a stream without a file name.
func Sniff(data []byte) Format {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && (trimmed[0] == '{' || trimmed[0] == '[') && json.Valid(trimmed) {
		return FormatJSON
	}
	if _, err := decodeYAML(data); err == nil {
		return FormatYAML
	}
	return FormatCUE
}
