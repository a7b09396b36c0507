package formkit

import (
	"strings"

	"go.uber.org/zap"
)

// Messages are the default validation messages. "{value}" is replaced by the
// rule's comparison value.
type Messages struct {
	Required  string
	Min       string
	Max       string
	MinLength string
	MaxLength string
	Pattern   string
	Email     string
	URL       string
	Match     string
	Custom    string
}

// DefaultMessages returns the built-in English messages.
func DefaultMessages() Messages {
	return Messages{
		Required:  "This field is required",
		Min:       "Must be at least {value}",
		Max:       "Must be at most {value}",
		MinLength: "Must be at least {value} characters",
		MaxLength: "Must be at most {value} characters",
		Pattern:   "Invalid format",
		Email:     "Invalid email address",
		URL:       "Invalid URL",
		Match:     "Must match {value}",
		Custom:    "Invalid value",
	}
}

func (m Messages) forRule(t RuleType) string {
	switch t {
	case RuleRequired:
		return m.Required
	case RuleMin:
		return m.Min
	case RuleMax:
		return m.Max
	case RuleMinLength:
		return m.MinLength
	case RuleMaxLength:
		return m.MaxLength
	case RulePattern:
		return m.Pattern
	case RuleEmail:
		return m.Email
	case RuleURL:
		return m.URL
	case RuleMatch:
		return m.Match
	default:
		return m.Custom
	}
}

// Engine validates and computes field values. It keeps no per-call state and
// is safe for concurrent use.
type Engine struct {
	logger   *zap.Logger
	messages Messages
	registry *Registry
}

// EngineOption configures an Engine.
type EngineOption func(*Engine)

// WithLogger sets the logger used for swallowed evaluation failures.
func WithLogger(l *zap.Logger) EngineOption {
	return func(e *Engine) {
		if l != nil {
			e.logger = l
		}
	}
}

// WithMessages overrides the default validation messages.
func WithMessages(m Messages) EngineOption {
	return func(e *Engine) {
		e.messages = m
	}
}

// WithRegistry sets the registry used to resolve custom validators by name.
// Without it the default registry is consulted at call time.
func WithRegistry(r *Registry) EngineOption {
	return func(e *Engine) {
		e.registry = r
	}
}

// NewEngine creates an engine.
func NewEngine(opts ...EngineOption) *Engine {
	e := &Engine{
		logger:   zap.NewNop(),
		messages: DefaultMessages(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

func (e *Engine) lookupValidator(name string) (Predicate, bool) {
	if name == "" {
		return nil, false
	}
	r := e.registry
	if r == nil {
		r = DefaultRegistry()
	}
	return r.Validator(name)
}

// message picks the rule override or the default text for the rule type.
func (e *Engine) message(rule ValidationRule) string {
	if rule.Message != "" {
		return rule.Message
	}
	msg := e.messages.forRule(rule.Type)
	if rule.Value != nil && strings.Contains(msg, "{value}") {
		msg = strings.ReplaceAll(msg, "{value}", toString(rule.Value))
	}
	return msg
}

var defaultEngine = NewEngine()

// ValidateField validates value with a default engine.
func ValidateField(value any, field FieldConfig, data DataRecord) FieldResult {
	return defaultEngine.ValidateField(value, field, data)
}

// ValidateForm validates data with a default engine.
func ValidateForm(data DataRecord, fields []FieldConfig) FormResult {
	return defaultEngine.ValidateForm(data, fields)
}

// ComputedValue computes a field value with a default engine.
func ComputedValue(field FieldConfig, data DataRecord) any {
	return defaultEngine.ComputedValue(field, data)
}
