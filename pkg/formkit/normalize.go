package formkit

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/google/uuid"
	"github.com/samber/lo"
	"go.uber.org/zap"
)

// FieldNormalizer returns raw keys that replace those of a raw field before
// it is decoded. Keys it does not return keep their raw value or default.
type FieldNormalizer func(raw map[string]any) map[string]any

// ColumnNormalizer is the column counterpart of FieldNormalizer.
type ColumnNormalizer func(raw map[string]any) map[string]any

// NormalizeOptions control how raw configs are turned into typed ones.
// Zero values fall back to DefaultNormalizeOptions, so callers set only what
// they change. The pointer fields distinguish an explicit false from unset.
type NormalizeOptions struct {
	DefaultColumnWidth int
	DefaultSortable    *bool
	DefaultRequired    bool
	DefaultPageSize    int

	// GenerateLabels derives missing labels and headers from names and keys.
	GenerateLabels *bool
	// GenerateIDs fills missing form, section and table ids with UUIDs.
	GenerateIDs bool

	KeyTransform  func(string) string
	NameTransform func(string) string

	FieldNormalizers  map[FieldType]FieldNormalizer
	ColumnNormalizers map[ColumnType]ColumnNormalizer

	// Registry resolves custom validator names. Nil means DefaultRegistry().
	Registry *Registry
	Logger   *zap.Logger
}

// DefaultNormalizeOptions returns the options used when none are given.
func DefaultNormalizeOptions() *NormalizeOptions {
	return &NormalizeOptions{
		DefaultColumnWidth: 150,
		DefaultSortable:    lo.ToPtr(true),
		DefaultPageSize:    10,
		GenerateLabels:     lo.ToPtr(true),
	}
}

type normalizer struct {
	opts     *NormalizeOptions
	logger   *zap.Logger
	registry *Registry

	columnWidth    int
	sortable       bool
	pageSize       int
	generateLabels bool
}

func newNormalizer(opts *NormalizeOptions) *normalizer {
	defaults := DefaultNormalizeOptions()
	if opts == nil {
		opts = defaults
	}
	n := &normalizer{
		opts:           opts,
		logger:         opts.Logger,
		registry:       opts.Registry,
		columnWidth:    opts.DefaultColumnWidth,
		sortable:       lo.FromPtrOr(opts.DefaultSortable, *defaults.DefaultSortable),
		pageSize:       opts.DefaultPageSize,
		generateLabels: lo.FromPtrOr(opts.GenerateLabels, *defaults.GenerateLabels),
	}
	if n.columnWidth <= 0 {
		n.columnWidth = defaults.DefaultColumnWidth
	}
	if n.pageSize <= 0 {
		n.pageSize = defaults.DefaultPageSize
	}
	if n.logger == nil {
		n.logger = zap.NewNop()
	}
	if n.registry == nil {
		n.registry = DefaultRegistry()
	}
	return n
}

var (
	tableKeys   = keySet("id", "title", "columns", "pagination", "selectable", "showWhen")
	columnKeys  = keySet("key", "header", "type", "width", "align", "sortable", "filterable", "hidden", "format")
	formKeys    = keySet("id", "title", "submitLabel", "sections")
	sectionKeys = keySet("id", "title", "description", "collapsible", "fields", "showWhen")
	fieldKeys   = keySet("name", "type", "label", "placeholder", "helpText", "required", "disabled",
		"readOnly", "defaultValue", "options", "entityType", "validation", "showWhen", "computed", "format")
)

// ParseConfig normalizes a raw table (has "columns") or form (has "sections").
func ParseConfig(raw map[string]any, opts *NormalizeOptions) (*Config, error) {
	if _, ok := raw["columns"]; ok {
		return &Config{Kind: KindTable, Table: ParseTableConfig(raw, opts)}, nil
	}
	if _, ok := raw["sections"]; ok {
		return &Config{Kind: KindForm, Form: ParseFormConfig(raw, opts)}, nil
	}
	return nil, ErrUnknownConfigKind
}

// ParseTableConfig normalizes a raw table config. The input is not modified.
func ParseTableConfig(raw map[string]any, opts *NormalizeOptions) *TableConfig {
	n := newNormalizer(opts)

	table := &TableConfig{
		ID:       rawString(raw, "id"),
		Title:    rawString(raw, "title"),
		ShowWhen: n.conditions(raw["showWhen"]),
		Extra:    extras(raw, tableKeys),
	}
	if sel, ok := rawBool(raw, "selectable"); ok {
		table.Selectable = sel
	}
	if table.ID == "" && n.opts.GenerateIDs {
		table.ID = uuid.NewString()
	}

	columns, skipped := rawMaps(raw, "columns")
	if skipped > 0 {
		n.logger.Debug("skipped non-object columns", zap.Int("count", skipped))
	}
	table.Columns = make([]ColumnConfig, 0, len(columns))
	for _, col := range columns {
		table.Columns = append(table.Columns, n.column(col))
	}

	if p, ok := rawMap(raw, "pagination"); ok {
		table.Pagination = n.pagination(p)
	} else if on, _ := rawBool(raw, "pagination"); on {
		table.Pagination = &Pagination{PageSize: n.pageSize}
	}
	return table
}

func (n *normalizer) column(raw map[string]any) ColumnConfig {
	typ := ColumnType(rawString(raw, "type"))
	if typ == "" {
		typ = ColumnText
	}
	if fn, ok := n.opts.ColumnNormalizers[typ]; ok && fn != nil {
		raw = overlay(raw, fn(Clone(raw).(map[string]any)))
		if t := rawString(raw, "type"); t != "" {
			typ = ColumnType(t)
		}
	}

	key := rawString(raw, "key")
	if n.opts.KeyTransform != nil && key != "" {
		key = n.opts.KeyTransform(key)
	}

	col := ColumnConfig{
		Key:      key,
		Header:   rawString(raw, "header"),
		Type:     typ,
		Width:    n.columnWidth,
		Align:    Align(rawString(raw, "align")),
		Sortable: n.sortable,
		Format:   format(raw),
		Extra:    extras(raw, columnKeys),
	}
	if col.Header == "" {
		col.Header = n.label(key)
	}
	if w, ok := rawInt(raw, "width"); ok {
		col.Width = w
	}
	if s, ok := rawBool(raw, "sortable"); ok {
		col.Sortable = s
	}
	if f, ok := rawBool(raw, "filterable"); ok {
		col.Filterable = f
	}
	if h, ok := rawBool(raw, "hidden"); ok {
		col.Hidden = h
	}
	if col.Align == "" {
		col.Align = defaultAlign(typ)
	}
	return col
}

func defaultAlign(t ColumnType) Align {
	switch t {
	case ColumnNumber, ColumnCurrency:
		return AlignRight
	case ColumnBoolean, ColumnActions:
		return AlignCenter
	default:
		return AlignLeft
	}
}

func (n *normalizer) pagination(raw map[string]any) *Pagination {
	p := &Pagination{PageSize: n.pageSize}
	if size, ok := rawInt(raw, "pageSize"); ok && size > 0 {
		p.PageSize = size
	}
	if items, ok := asSlice(raw["pageSizeOptions"]); ok {
		for _, item := range items {
			if f, ok := toFloat(item); ok && f > 0 {
				p.PageSizeOptions = append(p.PageSizeOptions, int(f))
			}
		}
	}
	return p
}

// ParseFormConfig normalizes a raw form config. The input is not modified.
func ParseFormConfig(raw map[string]any, opts *NormalizeOptions) *FormConfig {
	n := newNormalizer(opts)

	form := &FormConfig{
		ID:          rawString(raw, "id"),
		Title:       rawString(raw, "title"),
		SubmitLabel: rawString(raw, "submitLabel"),
		Extra:       extras(raw, formKeys),
	}
	if form.ID == "" && n.opts.GenerateIDs {
		form.ID = uuid.NewString()
	}

	sections, skipped := rawMaps(raw, "sections")
	if skipped > 0 {
		n.logger.Debug("skipped non-object sections", zap.Int("count", skipped))
	}
	form.Sections = make([]FormSection, 0, len(sections))
	for _, s := range sections {
		form.Sections = append(form.Sections, n.section(s))
	}
	return form
}

func (n *normalizer) section(raw map[string]any) FormSection {
	section := FormSection{
		ID:          rawString(raw, "id"),
		Title:       rawString(raw, "title"),
		Description: rawString(raw, "description"),
		ShowWhen:    n.conditions(raw["showWhen"]),
		Extra:       extras(raw, sectionKeys),
	}
	if c, ok := rawBool(raw, "collapsible"); ok {
		section.Collapsible = c
	}
	if section.ID == "" && n.opts.GenerateIDs {
		section.ID = uuid.NewString()
	}

	fields, skipped := rawMaps(raw, "fields")
	if skipped > 0 {
		n.logger.Debug("skipped non-object fields",
			zap.String("section", section.ID), zap.Int("count", skipped))
	}
	section.Fields = make([]FieldConfig, 0, len(fields))
	for _, f := range fields {
		section.Fields = append(section.Fields, n.field(f))
	}
	return section
}

func (n *normalizer) field(raw map[string]any) FieldConfig {
	typ := FieldType(rawString(raw, "type"))
	if typ == "" {
		typ = FieldText
	}
	if fn, ok := n.opts.FieldNormalizers[typ]; ok && fn != nil {
		raw = overlay(raw, fn(Clone(raw).(map[string]any)))
		if t := rawString(raw, "type"); t != "" {
			typ = FieldType(t)
		}
	}

	field := FieldConfig{
		Name:         n.name(rawString(raw, "name")),
		Type:         typ,
		Label:        rawString(raw, "label"),
		Placeholder:  rawString(raw, "placeholder"),
		HelpText:     rawString(raw, "helpText"),
		Required:     n.opts.DefaultRequired,
		DefaultValue: Clone(raw["defaultValue"]),
		Options:      options(raw["options"]),
		EntityType:   rawString(raw, "entityType"),
		ShowWhen:     n.conditions(raw["showWhen"]),
		Computed:     n.computed(raw),
		Format:       format(raw),
		Extra:        extras(raw, fieldKeys),
	}
	if field.Label == "" {
		field.Label = n.label(field.Name)
	}
	if r, ok := rawBool(raw, "required"); ok {
		field.Required = r
	}
	if d, ok := rawBool(raw, "disabled"); ok {
		field.Disabled = d
	}
	if ro, ok := rawBool(raw, "readOnly"); ok {
		field.ReadOnly = ro
	}

	field.Validation = n.rules(raw["validation"], field.Name)
	for _, rule := range field.Validation {
		if rule.Type == RuleRequired && rule.Value != false {
			field.Required = true
		}
	}
	return field
}

func (n *normalizer) name(s string) string {
	if s != "" && n.opts.NameTransform != nil {
		return n.opts.NameTransform(s)
	}
	return s
}

func (n *normalizer) label(s string) string {
	if n.generateLabels {
		return Humanize(s)
	}
	return s
}

// overlay returns a copy of raw with patch keys taking precedence.
func overlay(raw, patch map[string]any) map[string]any {
	out := make(map[string]any, len(raw)+len(patch))
	for k, v := range raw {
		out[k] = v
	}
	for k, v := range patch {
		out[k] = v
	}
	return out
}

// options accepts [{label, value}] objects or bare values.
func options(v any) []Option {
	items, ok := asSlice(v)
	if !ok {
		return nil
	}
	out := make([]Option, 0, len(items))
	for _, item := range items {
		obj, ok := item.(map[string]any)
		if !ok {
			out = append(out, Option{Label: toString(item), Value: item})
			continue
		}
		opt := Option{Label: rawString(obj, "label"), Value: Clone(obj["value"])}
		if opt.Label == "" && opt.Value != nil {
			opt.Label = toString(opt.Value)
		}
		if d, ok := rawBool(obj, "disabled"); ok {
			opt.Disabled = d
		}
		out = append(out, opt)
	}
	return out
}

func format(raw map[string]any) *Format {
	m, ok := rawMap(raw, "format")
	if !ok {
		return nil
	}
	f := &Format{Prefix: rawString(m, "prefix"), Suffix: rawString(m, "suffix")}
	if digits, ok := rawInt(m, "toFixed"); ok && digits >= 0 {
		f.ToFixed = &digits
	}
	return f
}

func (n *normalizer) computed(raw map[string]any) *Computed {
	m, ok := rawMap(raw, "computed")
	if !ok {
		return nil
	}
	c := &Computed{Formula: rawString(m, "formula"), Deps: rawStrings(m, "deps")}
	if n.opts.NameTransform == nil {
		return c
	}

	renamed := make([]string, len(c.Deps))
	for i, dep := range c.Deps {
		renamed[i] = n.name(dep)
	}
	c.Formula = renameFormula(c.Formula, c.Deps, renamed)
	c.Deps = renamed
	return c
}

// renameFormula rewrites {dep} and bare dep tokens to their new names.
func renameFormula(formula string, from, to []string) string {
	for i, dep := range from {
		if dep == to[i] {
			continue
		}
		formula = strings.ReplaceAll(formula, "{"+dep+"}", "{"+to[i]+"}")
		if re, err := regexp.Compile(`\b` + regexp.QuoteMeta(dep) + `\b`); err == nil {
			formula = re.ReplaceAllLiteralString(formula, to[i])
		}
	}
	return formula
}

// conditions accepts a single condition object or a list of them.
func (n *normalizer) conditions(v any) []Condition {
	if v == nil {
		return nil
	}
	if obj, ok := v.(map[string]any); ok {
		return []Condition{n.condition(obj)}
	}

	items, ok := asSlice(v)
	if !ok {
		return nil
	}
	out := make([]Condition, 0, len(items))
	for _, item := range items {
		if obj, ok := item.(map[string]any); ok {
			out = append(out, n.condition(obj))
		}
	}
	return out
}

func (n *normalizer) condition(raw map[string]any) Condition {
	c := Condition{
		Field:    n.name(rawString(raw, "field")),
		Feature:  rawString(raw, "feature"),
		Operator: Operator(rawString(raw, "operator")),
		Value:    Clone(raw["value"]),
		Logic:    Logic(strings.ToLower(rawString(raw, "logic"))),
	}
	if nested, ok := asSlice(raw["conditions"]); ok {
		c.Conditions = n.conditions(nested)
		if c.Logic == "" {
			c.Logic = LogicAnd
		}
	}
	return c
}

// rules decodes typed ({"type": "min", "value": 3}) and key-notation
// ({"min": 3}) rule objects. A single object is treated as a one-item list.
func (n *normalizer) rules(v any, fieldName string) []ValidationRule {
	var items []any
	if obj, ok := v.(map[string]any); ok {
		items = []any{obj}
	} else if list, ok := asSlice(v); ok {
		items = list
	}

	var out []ValidationRule
	for _, item := range items {
		obj, ok := item.(map[string]any)
		if !ok {
			n.logger.Debug("skipped non-object validation rule", zap.String("field", fieldName))
			continue
		}
		if t := rawString(obj, "type"); t != "" {
			out = append(out, n.typedRule(obj, RuleType(t)))
			continue
		}
		out = append(out, n.keyedRules(obj, fieldName)...)
	}
	return out
}

func (n *normalizer) typedRule(obj map[string]any, t RuleType) ValidationRule {
	rule := ValidationRule{
		Type:      t,
		Value:     Clone(obj["value"]),
		Message:   rawString(obj, "message"),
		Validator: rawString(obj, "validator"),
	}
	if t == RuleCustom && rule.Validator == "" {
		rule.Validator, _ = rule.Value.(string)
	}
	if t == RuleMatch {
		if target, ok := rule.Value.(string); ok {
			rule.Value = n.name(target)
		}
	}
	n.resolve(&rule)
	return rule
}

func (n *normalizer) keyedRules(obj map[string]any, fieldName string) []ValidationRule {
	message := rawString(obj, "message")

	var out []ValidationRule
	for _, t := range RuleTypes {
		v, ok := obj[string(t)]
		if !ok {
			continue
		}
		rule := ValidationRule{Type: t, Message: message}

		switch t {
		case RuleRequired, RuleEmail, RuleURL:
			if !isTruthy(v) {
				continue
			}
		case RuleMatch:
			target, ok := v.(string)
			if !ok {
				continue
			}
			rule.Value = n.name(target)
		case RuleCustom:
			name, ok := v.(string)
			if !ok || name == "" {
				n.logger.Debug("custom rule without a validator name",
					zap.String("field", fieldName), zap.String("got", fmt.Sprintf("%T", v)))
				continue
			}
			rule.Validator = name
		default:
			rule.Value = Clone(v)
		}

		n.resolve(&rule)
		out = append(out, rule)
	}
	return out
}

// resolve binds a custom rule to its registered predicate, when one exists.
func (n *normalizer) resolve(rule *ValidationRule) {
	if rule.Type != RuleCustom || rule.Validator == "" {
		return
	}
	if p, ok := n.registry.Validator(rule.Validator); ok {
		rule.Custom = p
	}
}
