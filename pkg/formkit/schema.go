// Package formkit interprets declarative table and form configurations.
// It normalizes raw JSON-shaped descriptors into typed configs and evaluates
// visibility conditions, validation rules and computed fields against form data.
package formkit

// DataRecord is one row or form worth of values, keyed by field name.
// Values are nil, bool, string, numbers, time.Time, slices or nested maps.
type DataRecord = map[string]any

// FeatureFlags maps a feature name to its on/off state.
type FeatureFlags = map[string]bool

// Operator is a condition comparison operator.
type Operator string

const (
	OpEquals     Operator = "equals"
	OpNotEquals  Operator = "notEquals"
	OpContains   Operator = "contains"
	OpGt         Operator = "gt"
	OpLt         Operator = "lt"
	OpGte        Operator = "gte"
	OpLte        Operator = "lte"
	OpIn         Operator = "in"
	OpNotIn      Operator = "notIn"
	OpIsEmpty    Operator = "isEmpty"
	OpIsNotEmpty Operator = "isNotEmpty"

	// Feature flag operators
	OpOn  Operator = "on"
	OpOff Operator = "off"
)

// FieldOperators lists the operators accepted on field leaves.
var FieldOperators = []Operator{
	OpEquals, OpNotEquals, OpContains, OpGt, OpLt, OpGte, OpLte,
	OpIn, OpNotIn, OpIsEmpty, OpIsNotEmpty,
}

// FeatureOperators lists the operators accepted on feature flag leaves.
var FeatureOperators = []Operator{OpOn, OpOff, OpEquals}

// Logic joins the members of a condition group.
type Logic string

const (
	LogicAnd Logic = "and"
	LogicOr  Logic = "or"
)

// Condition is a visibility predicate.
// A leaf references either Field or Feature. A group holds Conditions joined by Logic.
type Condition struct {
	Field      string      `json:"field,omitempty"`
	Feature    string      `json:"feature,omitempty"`
	Operator   Operator    `json:"operator,omitempty"`
	Value      any         `json:"value,omitempty"`
	Conditions []Condition `json:"conditions,omitempty"`
	Logic      Logic       `json:"logic,omitempty"`
}

// IsGroup reports whether the condition is a composite node.
func (c Condition) IsGroup() bool {
	return len(c.Conditions) > 0
}

// RuleType identifies a validation rule.
type RuleType string

const (
	RuleRequired  RuleType = "required"
	RuleMin       RuleType = "min"
	RuleMax       RuleType = "max"
	RuleMinLength RuleType = "minLength"
	RuleMaxLength RuleType = "maxLength"
	RulePattern   RuleType = "pattern"
	RuleEmail     RuleType = "email"
	RuleURL       RuleType = "url"
	RuleMatch     RuleType = "match"
	RuleCustom    RuleType = "custom"
)

// RuleTypes lists every rule type in key-notation expansion order.
var RuleTypes = []RuleType{
	RuleRequired, RuleMin, RuleMax, RuleMinLength, RuleMaxLength,
	RulePattern, RuleEmail, RuleURL, RuleMatch, RuleCustom,
}

// Predicate is a custom validation callback.
// It returns ok=false to fail; a non-empty message replaces the default one.
type Predicate func(value any, data DataRecord) (ok bool, message string)

// ValidationRule is one constraint attached to a field. Rules run in order
// and stop at the first failure.
type ValidationRule struct {
	Type      RuleType  `json:"type"`
	Value     any       `json:"value,omitempty"`
	Message   string    `json:"message,omitempty"`
	Validator string    `json:"validator,omitempty"` // registered Predicate name (custom rules)
	Custom    Predicate `json:"-"`
}

// FieldType is the kind of a form field.
type FieldType string

const (
	FieldText        FieldType = "text"
	FieldTextarea    FieldType = "textarea"
	FieldNumber      FieldType = "number"
	FieldCurrency    FieldType = "currency"
	FieldEmail       FieldType = "email"
	FieldPassword    FieldType = "password"
	FieldTel         FieldType = "tel"
	FieldURL         FieldType = "url"
	FieldDate        FieldType = "date"
	FieldDatetime    FieldType = "datetime"
	FieldTime        FieldType = "time"
	FieldSelect      FieldType = "select"
	FieldMultiselect FieldType = "multiselect"
	FieldRadio       FieldType = "radio"
	FieldCheckbox    FieldType = "checkbox"
	FieldSwitch      FieldType = "switch"
	FieldFile        FieldType = "file"
	FieldColor       FieldType = "color"
	FieldRange       FieldType = "range"
	FieldHidden      FieldType = "hidden"

	// FieldGeneric is the escape hatch for renderer-specific widgets.
	FieldGeneric FieldType = "generic"
)

// FieldTypes lists the known field types, excluding FieldGeneric.
var FieldTypes = []FieldType{
	FieldText, FieldTextarea, FieldNumber, FieldCurrency, FieldEmail,
	FieldPassword, FieldTel, FieldURL, FieldDate, FieldDatetime, FieldTime,
	FieldSelect, FieldMultiselect, FieldRadio, FieldCheckbox, FieldSwitch,
	FieldFile, FieldColor, FieldRange, FieldHidden,
}

// NeedsOptions reports whether fields of this type choose from a list.
func (t FieldType) NeedsOptions() bool {
	return t == FieldSelect || t == FieldMultiselect || t == FieldRadio
}

// ColumnType is the kind of a table column.
type ColumnType string

const (
	ColumnText     ColumnType = "text"
	ColumnNumber   ColumnType = "number"
	ColumnCurrency ColumnType = "currency"
	ColumnDate     ColumnType = "date"
	ColumnDatetime ColumnType = "datetime"
	ColumnBoolean  ColumnType = "boolean"
	ColumnBadge    ColumnType = "badge"
	ColumnLink     ColumnType = "link"
	ColumnImage    ColumnType = "image"
	ColumnEmail    ColumnType = "email"
	ColumnTags     ColumnType = "tags"
	ColumnActions  ColumnType = "actions"
)

// ColumnTypes lists the known column types.
var ColumnTypes = []ColumnType{
	ColumnText, ColumnNumber, ColumnCurrency, ColumnDate, ColumnDatetime,
	ColumnBoolean, ColumnBadge, ColumnLink, ColumnImage, ColumnEmail,
	ColumnTags, ColumnActions,
}

// Option is one choice of a select, multiselect or radio field.
type Option struct {
	Label    string `json:"label"`
	Value    any    `json:"value"`
	Disabled bool   `json:"disabled,omitempty"`
}

// Computed derives a field value from other fields.
type Computed struct {
	Formula string   `json:"formula"`
	Deps    []string `json:"deps"`
}

// Format controls numeric display of a field.
type Format struct {
	ToFixed *int   `json:"toFixed,omitempty"`
	Prefix  string `json:"prefix,omitempty"`
	Suffix  string `json:"suffix,omitempty"`
}

// FieldConfig is the normalized descriptor of one form field.
type FieldConfig struct {
	Name         string           `json:"name"`
	Type         FieldType        `json:"type"`
	Label        string           `json:"label,omitempty"`
	Placeholder  string           `json:"placeholder,omitempty"`
	HelpText     string           `json:"helpText,omitempty"`
	Required     bool             `json:"required,omitempty"`
	Disabled     bool             `json:"disabled,omitempty"`
	ReadOnly     bool             `json:"readOnly,omitempty"`
	DefaultValue any              `json:"defaultValue,omitempty"`
	Options      []Option         `json:"options,omitempty"`
	EntityType   string           `json:"entityType,omitempty"`
	Validation   []ValidationRule `json:"validation,omitempty"`
	ShowWhen     []Condition      `json:"showWhen,omitempty"`
	Computed     *Computed        `json:"computed,omitempty"`
	Format       *Format          `json:"format,omitempty"`
	Extra        map[string]any   `json:"extra,omitempty"`
}

// Align is the horizontal alignment of a column.
type Align string

const (
	AlignLeft   Align = "left"
	AlignCenter Align = "center"
	AlignRight  Align = "right"
)

// ColumnConfig is the normalized descriptor of one table column.
type ColumnConfig struct {
	Key        string         `json:"key"`
	Header     string         `json:"header"`
	Type       ColumnType     `json:"type"`
	Width      int            `json:"width,omitempty"`
	Align      Align          `json:"align,omitempty"`
	Sortable   bool           `json:"sortable"`
	Filterable bool           `json:"filterable,omitempty"`
	Hidden     bool           `json:"hidden,omitempty"`
	Format     *Format        `json:"format,omitempty"`
	Extra      map[string]any `json:"extra,omitempty"`
}

// FormSection groups fields of a form.
type FormSection struct {
	ID          string         `json:"id,omitempty"`
	Title       string         `json:"title,omitempty"`
	Description string         `json:"description,omitempty"`
	Collapsible bool           `json:"collapsible,omitempty"`
	Fields      []FieldConfig  `json:"fields"`
	ShowWhen    []Condition    `json:"showWhen,omitempty"`
	Extra       map[string]any `json:"extra,omitempty"`
}

// FormConfig is a normalized form.
type FormConfig struct {
	ID          string         `json:"id,omitempty"`
	Title       string         `json:"title,omitempty"`
	SubmitLabel string         `json:"submitLabel,omitempty"`
	Sections    []FormSection  `json:"sections"`
	Extra       map[string]any `json:"extra,omitempty"`
}

// Fields returns every field across all sections, in order.
func (f *FormConfig) Fields() []FieldConfig {
	var fields []FieldConfig
	for _, s := range f.Sections {
		fields = append(fields, s.Fields...)
	}
	return fields
}

// Field looks up a field by name.
func (f *FormConfig) Field(name string) (FieldConfig, bool) {
	for _, s := range f.Sections {
		for _, fld := range s.Fields {
			if fld.Name == name {
				return fld, true
			}
		}
	}
	return FieldConfig{}, false
}

// Pagination configures table paging.
type Pagination struct {
	PageSize        int   `json:"pageSize"`
	PageSizeOptions []int `json:"pageSizeOptions,omitempty"`
}

// TableConfig is a normalized table.
type TableConfig struct {
	ID         string         `json:"id,omitempty"`
	Title      string         `json:"title,omitempty"`
	Columns    []ColumnConfig `json:"columns"`
	Pagination *Pagination    `json:"pagination,omitempty"`
	Selectable bool           `json:"selectable,omitempty"`
	ShowWhen   []Condition    `json:"showWhen,omitempty"`
	Extra      map[string]any `json:"extra,omitempty"`
}

// Column looks up a column by key.
func (t *TableConfig) Column(key string) (ColumnConfig, bool) {
	for _, c := range t.Columns {
		if c.Key == key {
			return c, true
		}
	}
	return ColumnConfig{}, false
}

// Kind tells which config a raw descriptor describes.
type Kind string

const (
	KindTable Kind = "table"
	KindForm  Kind = "form"
)

// Config is either a table or a form.
type Config struct {
	Kind  Kind         `json:"kind"`
	Table *TableConfig `json:"table,omitempty"`
	Form  *FormConfig  `json:"form,omitempty"`
}
