package i18n

import (
	"github.com/dlovans/formkit/pkg/formkit"
)

// TranslateForm returns a copy of form with display strings resolved:
// titles, descriptions, labels, placeholders, help texts, option labels and
// string values inside Extra maps.
func TranslateForm(form *formkit.FormConfig, tr Translator) *formkit.FormConfig {
	if form == nil {
		return nil
	}
	if tr == nil {
		tr = Default()
	}

	out := *form
	out.Title = translate(form.Title, tr)
	out.SubmitLabel = translate(form.SubmitLabel, tr)
	out.Extra = translateExtra(form.Extra, tr)
	out.Sections = make([]formkit.FormSection, len(form.Sections))
	for i, s := range form.Sections {
		s.Title = translate(s.Title, tr)
		s.Description = translate(s.Description, tr)
		s.Extra = translateExtra(s.Extra, tr)
		fields := make([]formkit.FieldConfig, len(s.Fields))
		for j, f := range s.Fields {
			fields[j] = translateField(f, tr)
		}
		s.Fields = fields
		out.Sections[i] = s
	}
	return &out
}

func translateField(f formkit.FieldConfig, tr Translator) formkit.FieldConfig {
	f.Label = translate(f.Label, tr)
	f.Placeholder = translate(f.Placeholder, tr)
	f.HelpText = translate(f.HelpText, tr)
	f.Extra = translateExtra(f.Extra, tr)
	if f.Options != nil {
		opts := make([]formkit.Option, len(f.Options))
		for i, o := range f.Options {
			o.Label = translate(o.Label, tr)
			opts[i] = o
		}
		f.Options = opts
	}
	if f.Validation != nil {
		rules := make([]formkit.ValidationRule, len(f.Validation))
		for i, r := range f.Validation {
			r.Message = translate(r.Message, tr)
			rules[i] = r
		}
		f.Validation = rules
	}
	return f
}

// TranslateTable returns a copy of table with its title, column headers and
// Extra strings resolved.
func TranslateTable(table *formkit.TableConfig, tr Translator) *formkit.TableConfig {
	if table == nil {
		return nil
	}
	if tr == nil {
		tr = Default()
	}

	out := *table
	out.Title = translate(table.Title, tr)
	out.Extra = translateExtra(table.Extra, tr)
	out.Columns = make([]formkit.ColumnConfig, len(table.Columns))
	for i, c := range table.Columns {
		c.Header = translate(c.Header, tr)
		c.Extra = translateExtra(c.Extra, tr)
		out.Columns[i] = c
	}
	return &out
}

func translateExtra(extra map[string]any, tr Translator) map[string]any {
	if extra == nil {
		return nil
	}
	return walk(extra, tr).(map[string]any)
}
