package ai

import (
	"encoding/json"
	"fmt"
	"reflect"
	"strings"

	"github.com/caredx/genogram/internal/util"

	"github.com/invopop/jsonschema"
	"github.com/kaptinlin/jsonrepair"
)

func stripDuplicateLeadingBrace(s string) string {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "{") {
		rest := strings.TrimSpace(s[1:])
		if strings.HasPrefix(rest, "{") {
			return rest
		}
	}
	return s
}

// GenerateSchema creates a JSON Schema from the given Go type.
// It uses reflection to inspect the type structure and generates
// a schema suitable for use with AI structured output.
func GenerateSchema(value any) any {
	reflector := jsonschema.Reflector{
		AllowAdditionalProperties: false,
		DoNotReference:            true,
	}

	t := reflect.TypeOf(value)
	if t.Kind() == reflect.Pointer {
		t = t.Elem()
	}

	v := reflect.New(t).Interface()
	return reflector.Reflect(v)
}

// UnmarshalFlexible unmarshals model output into out. Besides plain JSON it
// accepts a markdown code block around the payload, double-encoded JSON
// strings and malformed JSON that jsonrepair can fix.
//
// Example:
//
//	var result MyStruct
//	UnmarshalFlexible(`{"name": "test"}`, &result)            // standard JSON
//	UnmarshalFlexible("```json\n{\"name\": \"test\"}\n```", &result) // fenced
//	UnmarshalFlexible(`"{\"name\": \"test\"}"`, &result)      // double-encoded
//	UnmarshalFlexible(`{name: "test"}`, &result)              // malformed (repaired)
func UnmarshalFlexible(input string, out any) error {
	input = strings.TrimSpace(util.StripCodeFence(input))
	if input == "" {
		return fmt.Errorf("empty input")
	}

	if err := json.Unmarshal([]byte(input), out); err == nil {
		return nil
	}

	var asString string
	if err := json.Unmarshal([]byte(input), &asString); err == nil {
		asString = strings.TrimSpace(asString)
		if err := json.Unmarshal([]byte(asString), out); err == nil {
			return nil
		}
		input = asString
	}

	input = stripDuplicateLeadingBrace(input)
	repaired, err := jsonrepair.JSONRepair(input)
	if err != nil {
		return fmt.Errorf("json repair failed: %w (input: %s)", err, input)
	}

	if err := json.Unmarshal([]byte(repaired), out); err == nil {
		return nil
	}

	return fmt.Errorf(
		"unmarshal failed after repair: input=%s repaired=%s",
		input, repaired,
	)
}
