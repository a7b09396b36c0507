//go:build js && wasm

// Package main provides WASM bindings for formkit.
// Renderers in the browser call these to lint, normalize, evaluate
// visibility, validate and compute without a server round trip.
package main

import (
	"encoding/json"
	"syscall/js"

	"github.com/dlovans/formkit/pkg/formkit"
	"github.com/dlovans/formkit/pkg/i18n"
	"github.com/dlovans/formkit/pkg/lint"
)

func main() {
	js.Global().Set("FormkitLint", js.FuncOf(formkitLint))
	js.Global().Set("FormkitParseConfig", js.FuncOf(formkitParseConfig))
	js.Global().Set("FormkitEvaluate", js.FuncOf(formkitEvaluate))
	js.Global().Set("FormkitValidateForm", js.FuncOf(formkitValidateForm))
	js.Global().Set("FormkitCompute", js.FuncOf(formkitCompute))
	js.Global().Set("FormkitTranslate", js.FuncOf(formkitTranslate))

	// Keep the Go runtime alive
	select {}
}

// formkitLint wraps lint.ValidateConfig.
// Usage: FormkitLint(configJson, strict?) -> { result: {valid, errors, warnings}, error?: string }
func formkitLint(this js.Value, args []js.Value) any {
	if len(args) < 1 {
		return makeError("FormkitLint requires 1 argument: configJson")
	}
	raw, err := decodeObject(args[0].String())
	if err != nil {
		return makeError(err.Error())
	}
	strict := len(args) > 1 && args[1].Truthy()
	return makeResult(lint.ValidateConfig(raw, &lint.Options{Strict: strict}))
}

// formkitParseConfig wraps formkit.ParseConfig with default options.
// Usage: FormkitParseConfig(configJson) -> { result: {kind, table?, form?}, error?: string }
func formkitParseConfig(this js.Value, args []js.Value) any {
	if len(args) < 1 {
		return makeError("FormkitParseConfig requires 1 argument: configJson")
	}
	raw, err := decodeObject(args[0].String())
	if err != nil {
		return makeError(err.Error())
	}
	cfg, err := formkit.ParseConfig(raw, nil)
	if err != nil {
		return makeError(err.Error())
	}
	return makeResult(cfg)
}

// formkitEvaluate wraps formkit.EvaluateConditions.
// Usage: FormkitEvaluate(conditionsJson, dataJson, flagsJson?) -> { result: boolean, error?: string }
func formkitEvaluate(this js.Value, args []js.Value) any {
	if len(args) < 2 {
		return makeError("FormkitEvaluate requires 2 arguments: conditionsJson, dataJson")
	}

	var conds []formkit.Condition
	if err := json.Unmarshal([]byte(args[0].String()), &conds); err != nil {
		var single formkit.Condition
		if err := json.Unmarshal([]byte(args[0].String()), &single); err != nil {
			return makeError("invalid conditions: " + err.Error())
		}
		conds = []formkit.Condition{single}
	}
	data, err := decodeObject(args[1].String())
	if err != nil {
		return makeError(err.Error())
	}
	flags, err := decodeFlags(args, 2)
	if err != nil {
		return makeError(err.Error())
	}

	return map[string]any{
		"result": formkit.EvaluateConditions(conds, data, flags),
	}
}

// formkitValidateForm wraps Engine.ValidateFormConfig.
// Usage: FormkitValidateForm(formJson, dataJson, flagsJson?) -> { result: {valid, errors}, error?: string }
func formkitValidateForm(this js.Value, args []js.Value) any {
	if len(args) < 2 {
		return makeError("FormkitValidateForm requires 2 arguments: formJson, dataJson")
	}
	form, data, err := decodeFormAndData(args)
	if err != nil {
		return makeError(err.Error())
	}
	flags, err := decodeFlags(args, 2)
	if err != nil {
		return makeError(err.Error())
	}
	return makeResult(formkit.NewEngine().ValidateFormConfig(data, form, flags))
}

// formkitCompute wraps Engine.ComputeAll.
// Usage: FormkitCompute(formJson, dataJson) -> { result: data, error?: string }
func formkitCompute(this js.Value, args []js.Value) any {
	if len(args) < 2 {
		return makeError("FormkitCompute requires 2 arguments: formJson, dataJson")
	}
	form, data, err := decodeFormAndData(args)
	if err != nil {
		return makeError(err.Error())
	}
	return makeResult(formkit.NewEngine().ComputeAll(form.Fields(), data))
}

// formkitTranslate wraps i18n.TranslateConfig with a catalog built from messagesJson.
// Usage: FormkitTranslate(configJson, messagesJson, locale?) -> { result: config, error?: string }
func formkitTranslate(this js.Value, args []js.Value) any {
	if len(args) < 2 {
		return makeError("FormkitTranslate requires 2 arguments: configJson, messagesJson")
	}
	raw, err := decodeObject(args[0].String())
	if err != nil {
		return makeError(err.Error())
	}
	messages, err := decodeObject(args[1].String())
	if err != nil {
		return makeError(err.Error())
	}

	locale := "en"
	if len(args) > 2 && args[2].Type() == js.TypeString {
		locale = args[2].String()
	}
	catalog := i18n.NewCatalog(locale, "")
	catalog.Add(locale, messages)
	return makeResult(i18n.TranslateConfig(raw, catalog))
}

func decodeObject(text string) (map[string]any, error) {
	var v map[string]any
	if err := json.Unmarshal([]byte(text), &v); err != nil {
		return nil, err
	}
	return v, nil
}

func decodeFormAndData(args []js.Value) (*formkit.FormConfig, formkit.DataRecord, error) {
	raw, err := decodeObject(args[0].String())
	if err != nil {
		return nil, nil, err
	}
	data, err := decodeObject(args[1].String())
	if err != nil {
		return nil, nil, err
	}
	return formkit.ParseFormConfig(raw, nil), data, nil
}

func decodeFlags(args []js.Value, i int) (formkit.FeatureFlags, error) {
	if len(args) <= i || args[i].Type() != js.TypeString {
		return nil, nil
	}
	var flags formkit.FeatureFlags
	if err := json.Unmarshal([]byte(args[i].String()), &flags); err != nil {
		return nil, err
	}
	return flags, nil
}

// makeError creates a JS-friendly error response
func makeError(msg string) map[string]any {
	return map[string]any{
		"error": msg,
	}
}

// makeResult converts v to plain maps and slices that js.ValueOf accepts.
func makeResult(v any) map[string]any {
	encoded, err := json.Marshal(v)
	if err != nil {
		return makeError(err.Error())
	}
	var result any
	if err := json.Unmarshal(encoded, &result); err != nil {
		return makeError(err.Error())
	}
	return map[string]any{
		"result": result,
	}
}
