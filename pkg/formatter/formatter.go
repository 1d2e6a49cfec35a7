// Package formatter renders agent results and raw provider payloads for display.
package formatter

import (
	"encoding/json"
	"fmt"
	"reflect"
	"strings"

	"github.com/tidwall/gjson"
	"github.com/tidwall/pretty"
)

// detailKeys are the payload fields shown in full-detail mode, in display order.
var detailKeys = []string{
	"id", "model", "usage", "tools", "choices", "content",
	"additional_kwargs", "response_metadata", "type",
}

var indentOptions = &pretty.Options{Width: 80, Prefix: "", Indent: "  ", SortKeys: false}

// Formatter turns any value into readable text.
type Formatter interface {
	Format(value any) string
}

// Func adapts a plain function to Formatter.
type Func func(value any) string

// Format calls f.
func (f Func) Format(value any) string { return f(value) }

// Default is the formatter used when none is configured.
var Default Formatter = Func(Format)

// Format renders strings as a fenced block, provider payloads field by field,
// and anything else as indented JSON. It never panics.
func Format(value any) (out string) {
	defer func() {
		if r := recover(); r != nil {
			out = unrecognized(value)
		}
	}()

	if s, ok := value.(string); ok {
		return "Formatted Response:\n```\n" + strings.TrimSpace(s) + "\n```"
	}

	if payload, ok := jsonObject(value); ok {
		if details, found := fullDetails(payload); found {
			return details
		}
	}

	if isStruct(value) {
		if data, err := json.Marshal(value); err == nil {
			return "Formatted Response (Raw Object):\n" + indent(data)
		}
	}

	data, err := marshal(value)
	if err != nil {
		return unrecognized(value)
	}
	return "Formatted Response (Raw):\n" + indent(data)
}

// jsonObject returns value as JSON bytes when it is, or encodes to, a JSON object.
func jsonObject(value any) ([]byte, bool) {
	var data []byte
	switch v := value.(type) {
	case json.RawMessage:
		data = v
	case []byte:
		data = v
	case map[string]any, map[string]string:
		encoded, err := json.Marshal(v)
		if err != nil {
			return nil, false
		}
		data = encoded
	default:
		return nil, false
	}
	if !gjson.ValidBytes(data) || !gjson.ParseBytes(data).IsObject() {
		return nil, false
	}
	return data, true
}

func fullDetails(payload []byte) (string, bool) {
	output := []string{"Formatted Response (Full Details):"}
	found := false

	for _, key := range detailKeys {
		field := gjson.GetBytes(payload, gjson.Escape(key))
		if truthy(field) {
			output = append(output, fmt.Sprintf("%s: %s", key, indent([]byte(field.Raw))))
			found = true
		}
	}

	if tools := gjson.GetBytes(payload, "tools"); truthy(tools) {
		output = append(output, "Tools:", indent([]byte(tools.Raw)))
		found = true
	}

	if choices := gjson.GetBytes(payload, "choices"); truthy(choices) {
		output = append(output, "Choices:")
		if choices.IsArray() {
			for idx, choice := range choices.Array() {
				output = append(output, fmt.Sprintf("Choice %d: %s", idx, indent([]byte(choice.Raw))))
			}
		} else {
			output = append(output, "Choice 0: "+indent([]byte(choices.Raw)))
		}
		found = true
	}

	if !found {
		return "", false
	}
	return strings.Join(output, "\n"), true
}

// truthy mirrors the usual "present and non-empty" test for JSON values.
func truthy(r gjson.Result) bool {
	if !r.Exists() {
		return false
	}
	switch r.Type {
	case gjson.Null, gjson.False:
		return false
	case gjson.Number:
		return r.Num != 0
	case gjson.String:
		return r.Str != ""
	case gjson.JSON:
		if r.IsArray() {
			return len(r.Array()) > 0
		}
		return len(r.Map()) > 0
	default:
		return true
	}
}

func isStruct(value any) bool {
	v := reflect.ValueOf(value)
	for v.Kind() == reflect.Pointer {
		if v.IsNil() {
			return false
		}
		v = v.Elem()
	}
	return v.Kind() == reflect.Struct
}

func marshal(value any) ([]byte, error) {
	switch v := value.(type) {
	case json.RawMessage:
		if gjson.ValidBytes(v) {
			return v, nil
		}
		return json.Marshal(string(v))
	case []byte:
		if gjson.ValidBytes(v) {
			return v, nil
		}
		return json.Marshal(string(v))
	}
	return json.Marshal(value)
}

func indent(data []byte) string {
	return strings.TrimRight(string(pretty.PrettyOptions(data, indentOptions)), "\n")
}

func unrecognized(value any) string {
	return fmt.Sprintf("Formatted Response (Unrecognized type): %v", value)
}
