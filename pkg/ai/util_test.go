package ai

import (
	"encoding/json"
	"strings"
	"testing"
)

type testMember struct {
	Name   string `json:"name"`
	Gender string `json:"gender,omitempty"`
}

func TestUnmarshalFlexible_ObjectVariants(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  testMember
	}{
		{
			name:  "valid json object",
			input: `{"name":"本人","gender":"female"}`,
			want:  testMember{Name: "本人", Gender: "female"},
		},
		{
			name:  "unquoted key and single quotes",
			input: `{name: '長男'}`,
			want:  testMember{Name: "長男"},
		},
		{
			name:  "trailing comma",
			input: `{"name":"長女",}`,
			want:  testMember{Name: "長女"},
		},
		{
			name:  "missing endbracket",
			input: `{"name":"父`,
			want:  testMember{Name: "父"},
		},
		{
			name:  "stringified invalid json object",
			input: `"{name: '母'}"`,
			want:  testMember{Name: "母"},
		},
		{
			name:  "duplicate leading brace",
			input: "{\n{\n  \"name\": \"妹\"\n}\n",
			want:  testMember{Name: "妹"},
		},
		{
			name:  "json code fence",
			input: "以下が結果です。\n```json\n{\"name\": \"夫\", \"gender\": \"male\"}\n```",
			want:  testMember{Name: "夫", Gender: "male"},
		},
		{
			name:  "bare code fence with repair",
			input: "```\n{name: '妻', gender: 'female',}\n```",
			want:  testMember{Name: "妻", Gender: "female"},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			var got testMember
			if err := UnmarshalFlexible(tc.input, &got); err != nil {
				t.Fatalf("UnmarshalFlexible() error = %v", err)
			}
			if got != tc.want {
				t.Fatalf("UnmarshalFlexible() got = %+v, want %+v", got, tc.want)
			}
		})
	}
}

func TestUnmarshalFlexible_Array(t *testing.T) {
	var got []testMember
	if err := UnmarshalFlexible(`[{name:'A'},{name:'B',}]`, &got); err != nil {
		t.Fatalf("UnmarshalFlexible() error = %v", err)
	}
	if len(got) != 2 || got[0].Name != "A" || got[1].Name != "B" {
		t.Fatalf("UnmarshalFlexible() got = %+v, want two members A,B", got)
	}
}

func TestUnmarshalFlexible_Untyped(t *testing.T) {
	var got any
	if err := UnmarshalFlexible("```json\n{\"nodes\": [], \"edges\": []}\n```", &got); err != nil {
		t.Fatalf("UnmarshalFlexible() error = %v", err)
	}
	obj, ok := got.(map[string]any)
	if !ok {
		t.Fatalf("expected object, got %T", got)
	}
	if _, ok := obj["nodes"]; !ok {
		t.Fatalf("expected nodes key, got %v", obj)
	}
}

func TestUnmarshalFlexible_Unrecoverable(t *testing.T) {
	for _, input := range []string{"hello", "", "   "} {
		var got testMember
		if err := UnmarshalFlexible(input, &got); err == nil {
			t.Fatalf("UnmarshalFlexible(%q) expected error", input)
		}
	}
}

func TestGenerateSchema(t *testing.T) {
	type payload struct {
		Members []testMember `json:"members" jsonschema_description:"Family members"`
	}

	b, err := json.Marshal(GenerateSchema(&payload{}))
	if err != nil {
		t.Fatalf("marshal schema: %v", err)
	}
	s := string(b)
	for _, want := range []string{`"members"`, `"name"`, `"Family members"`, `"additionalProperties":false`} {
		if !strings.Contains(s, want) {
			t.Fatalf("schema %s does not contain %s", s, want)
		}
	}
	if strings.Contains(s, `"$ref"`) {
		t.Fatalf("schema should be inlined, got %s", s)
	}
}
