package formkit

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/expr-lang/expr"
	"go.uber.org/zap"
)

// formulaDisallowed matches everything outside the arithmetic allowlist.
var formulaDisallowed = regexp.MustCompile(`[^0-9+\-*/().\s]`)

// ComputedValue returns the derived value of a computed field.
// When the field is not computed, a dependency is missing, or the formula
// cannot be evaluated to a finite number, the stored value is returned.
func (e *Engine) ComputedValue(field FieldConfig, data DataRecord) any {
	stored := data[field.Name]
	if field.Computed == nil {
		return stored
	}

	for _, dep := range field.Computed.Deps {
		if missingDependency(data[dep]) {
			return stored
		}
	}

	result, err := EvaluateFormula(field.Computed.Formula, field.Computed.Deps, data)
	if err != nil {
		e.logger.Debug("formula evaluation failed, using stored value",
			zap.String("field", field.Name),
			zap.String("formula", field.Computed.Formula),
			zap.Error(err))
		return stored
	}
	return result
}

func missingDependency(v any) bool {
	if v == nil {
		return true
	}
	s, ok := v.(string)
	return ok && s == ""
}

// EvaluateFormula substitutes dependency values into formula and evaluates the
// resulting arithmetic. Non-numeric dependency values count as 0. Both {dep}
// and bare dep tokens are replaced; anything outside digits, operators,
// parentheses, dots and whitespace is then stripped.
func EvaluateFormula(formula string, deps []string, data DataRecord) (float64, error) {
	expression := formula
	for _, dep := range deps {
		n := toNumber(data[dep])
		if math.IsNaN(n) {
			n = 0
		}
		literal := formulaLiteral(n)

		quoted := regexp.QuoteMeta(dep)
		expression = strings.ReplaceAll(expression, "{"+dep+"}", literal)
		bare, err := regexp.Compile(`\b` + quoted + `\b`)
		if err != nil {
			return 0, fmt.Errorf("dependency %q: %w", dep, err)
		}
		expression = bare.ReplaceAllLiteralString(expression, literal)
	}

	sanitized := strings.TrimSpace(formulaDisallowed.ReplaceAllString(expression, ""))
	if sanitized == "" {
		return 0, fmt.Errorf("formula %q is empty after sanitizing", formula)
	}

	program, err := expr.Compile(sanitized)
	if err != nil {
		return 0, fmt.Errorf("compile %q: %w", sanitized, err)
	}
	out, err := expr.Run(program, nil)
	if err != nil {
		return 0, fmt.Errorf("run %q: %w", sanitized, err)
	}

	result, ok := toFloat(out)
	if !ok {
		return 0, fmt.Errorf("formula %q produced %T, not a number", sanitized, out)
	}
	if math.IsNaN(result) || math.IsInf(result, 0) {
		return 0, fmt.Errorf("formula %q produced %v", sanitized, result)
	}
	return result, nil
}

// formulaLiteral always writes a float literal so the expression is
// evaluated in float64. Negatives are parenthesized so "a-b" stays valid.
func formulaLiteral(n float64) string {
	s := strconv.FormatFloat(n, 'f', -1, 64)
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	if n < 0 {
		return "(" + s + ")"
	}
	return s
}

// ComputeAll returns a copy of data with every computed field filled in.
// Computed fields that depend on other computed fields are evaluated after
// them; fields on a dependency cycle keep whatever value they reach first.
func (e *Engine) ComputeAll(fields []FieldConfig, data DataRecord) DataRecord {
	out := make(DataRecord, len(data))
	for k, v := range data {
		out[k] = v
	}

	for _, field := range computeOrder(fields) {
		out[field.Name] = e.ComputedValue(field, out)
	}
	return out
}

// computeOrder sorts computed fields so dependencies come first.
func computeOrder(fields []FieldConfig) []FieldConfig {
	computed := make(map[string]FieldConfig)
	var names []string
	for _, f := range fields {
		if f.Computed == nil {
			continue
		}
		if _, dup := computed[f.Name]; !dup {
			names = append(names, f.Name)
		}
		computed[f.Name] = f
	}

	visited := make(map[string]bool, len(computed))
	order := make([]FieldConfig, 0, len(computed))

	var visit func(name string)
	visit = func(name string) {
		if visited[name] {
			return
		}
		visited[name] = true
		f, ok := computed[name]
		if !ok {
			return
		}
		for _, dep := range f.Computed.Deps {
			visit(dep)
		}
		order = append(order, f)
	}

	for _, name := range names {
		visit(name)
	}
	return order
}

// IsReadOnly reports whether a field cannot be edited. Computed fields are
// always read-only.
func IsReadOnly(field FieldConfig) bool {
	return field.ReadOnly || field.Computed != nil
}

// FormatValue renders a value for display, applying format.toFixed and any
// prefix or suffix. Non-numeric values are printed as-is.
func FormatValue(field FieldConfig, value any) string {
	if value == nil {
		return ""
	}

	text := toString(value)
	if field.Format == nil {
		return text
	}

	if field.Format.ToFixed != nil {
		if n := toNumber(value); !math.IsNaN(n) {
			text = strconv.FormatFloat(n, 'f', *field.Format.ToFixed, 64)
		}
	}
	return field.Format.Prefix + text + field.Format.Suffix
}
