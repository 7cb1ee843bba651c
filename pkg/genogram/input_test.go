package genogram

import (
	"testing"
)

func TestDetect(t *testing.T) {
	current := map[string]any{
		"nodes": []any{map[string]any{"id": "A"}},
		"edges": []any{},
	}
	legacy := map[string]any{
		"members":   []any{map[string]any{"id": "m1"}},
		"marriages": []any{},
	}

	tests := []struct {
		name    string
		payload any
		want    Shape
		ok      bool
	}{
		{name: "current", payload: current, want: ShapeCurrent, ok: true},
		{name: "legacy", payload: legacy, want: ShapeLegacy, ok: true},
		{name: "array takes first element", payload: []any{legacy, current}, want: ShapeLegacy, ok: true},
		{name: "data envelope", payload: map[string]any{"success": true, "data": current}, want: ShapeCurrent, ok: true},
		{name: "nested envelope", payload: map[string]any{"result": map[string]any{"genogram": legacy}}, want: ShapeLegacy, ok: true},
		{
			name:    "nodes win over members",
			payload: map[string]any{"nodes": []any{}, "members": []any{}},
			want:    ShapeCurrent,
			ok:      true,
		},
		{name: "nodes not a list", payload: map[string]any{"nodes": "A"}, ok: false},
		{name: "empty array", payload: []any{}, ok: false},
		{name: "scalar", payload: "nodes", ok: false},
		{name: "nil", payload: nil, ok: false},
		{
			name:    "too deep",
			payload: map[string]any{"data": map[string]any{"data": map[string]any{"data": map[string]any{"data": map[string]any{"data": current}}}}},
			ok:      false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in, ok := Detect(tt.payload)
			if ok != tt.ok {
				t.Fatalf("expected ok=%v, got %v", tt.ok, ok)
			}
			if !ok {
				return
			}
			if in.Shape() != tt.want {
				t.Fatalf("expected shape %q, got %q", tt.want, in.Shape())
			}
		})
	}
}

func TestDetect_KeepsRecordIndices(t *testing.T) {
	in, ok := Detect(map[string]any{
		"nodes": []any{map[string]any{"id": "A"}, "junk", map[string]any{"id": "B"}},
	})
	if !ok {
		t.Fatal("expected current shape")
	}
	cur := in.(CurrentInput)
	if len(cur.Nodes) != 3 || cur.Nodes[1] != nil || cur.Nodes[2]["id"] != "B" {
		t.Fatalf("unexpected records %+v", cur.Nodes)
	}
	if cur.Edges == nil || len(cur.Edges) != 0 {
		t.Fatalf("expected empty edge list, got %+v", cur.Edges)
	}
}
