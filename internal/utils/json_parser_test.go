package utils

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestParseAIJSON(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    map[string]any
		wantErr bool
	}{
		{
			name:  "Pure JSON",
			input: `{"unit_type": "house", "is_in_gated_society": true}`,
			want:  map[string]any{"unit_type": "house", "is_in_gated_society": true},
		},
		{
			name:  "JSON in markdown code block",
			input: "```json\n" + `{"room_size": "large"}` + "\n```",
			want:  map[string]any{"room_size": "large"},
		},
		{
			name:  "Untagged code block",
			input: "```\n" + `{"room_size": "small"}` + "\n```",
			want:  map[string]any{"room_size": "small"},
		},
		{
			name:  "JSON with surrounding text",
			input: `Here is what I found: {"owner": "own_unit", "space_type": null} hope that's right.`,
			want:  map[string]any{"owner": "own_unit", "space_type": nil},
		},
		{
			name:  "Nested sections",
			input: `{"privacy_in_room": {"ceiling_height_ft": 9}, "privacy_between_rooms": null}`,
			want: map[string]any{
				"privacy_in_room":       map[string]any{"ceiling_height_ft": float64(9)},
				"privacy_between_rooms": nil,
			},
		},
		{
			name:  "Trailing comma",
			input: `{"a": 1, "b": [1, 2,],}`,
			want:  map[string]any{"a": float64(1), "b": []any{float64(1), float64(2)}},
		},
		{
			name:  "Unquoted keys",
			input: `{unit_type: "apartment", gated: false}`,
			want:  map[string]any{"unit_type": "apartment", "gated": false},
		},
		{
			name:  "Single quotes",
			input: `{'owner': 'neighbor_unit'}`,
			want:  map[string]any{"owner": "neighbor_unit"},
		},
		{
			name:  "Python literals",
			input: `{"bedrooms_share_wall": True, "buffer_between_rooms": None}`,
			want:  map[string]any{"bedrooms_share_wall": true, "buffer_between_rooms": nil},
		},
		{
			name:  "Python words inside strings survive",
			input: `{"note": "None of the walls", "ok": False}`,
			want:  map[string]any{"note": "None of the walls", "ok": false},
		},
		{
			name:    "Empty string",
			input:   "   ",
			wantErr: true,
		},
		{
			name:    "Invalid JSON",
			input:   "not json at all",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got map[string]any
			err := ParseAIJSON(tt.input, &got)

			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseAIJSON() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				return
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("ParseAIJSON() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestParseAIJSONEmpty(t *testing.T) {
	var v any
	if err := ParseAIJSON("", &v); !errors.Is(err, ErrEmptyOutput) {
		t.Errorf("ParseAIJSON(\"\") error = %v, want ErrEmptyOutput", err)
	}
}

func TestParseAIObject(t *testing.T) {
	got, err := ParseAIObject("Sure!\n```json\n{\"owner\": \"own_unit\"}\n```")
	if err != nil {
		t.Fatalf("ParseAIObject() error = %v", err)
	}
	if got["owner"] != "own_unit" {
		t.Errorf("owner = %v, want own_unit", got["owner"])
	}

	if _, err := ParseAIObject("null"); err == nil {
		t.Error("ParseAIObject(null) should fail")
	}
	if _, err := ParseAIObject("[1, 2]"); err == nil {
		t.Error("ParseAIObject(array) should fail")
	}
}

func TestExtractFromMarkdown(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "JSON code block with json tag",
			input: "```json\n{\"test\": true}\n```",
			want:  `{"test": true}`,
		},
		{
			name:  "JSON code block without tag",
			input: "```\n{\"test\": true}\n```",
			want:  `{"test": true}`,
		},
		{
			name:  "Code block that is not JSON",
			input: "```\nplain words\n```",
			want:  "",
		},
		{
			name:  "No code block",
			input: `{"test": true}`,
			want:  "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := extractFromMarkdown(tt.input); got != tt.want {
				t.Errorf("extractFromMarkdown() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestExtractBalanced(t *testing.T) {
	tests := []struct {
		name        string
		input       string
		open, close byte
		want        string
	}{
		{name: "Simple object", input: `{"a": 1} tail`, open: '{', close: '}', want: `{"a": 1}`},
		{name: "Nested objects", input: `{"a": {"b": 2}}`, open: '{', close: '}', want: `{"a": {"b": 2}}`},
		{name: "Braces inside strings", input: `{"text": "Hello {world}"}`, open: '{', close: '}', want: `{"text": "Hello {world}"}`},
		{name: "Escaped quote inside string", input: `{"text": "say \"}\""}`, open: '{', close: '}', want: `{"text": "say \"}\""}`},
		{name: "Array", input: `[1, 2, 3]`, open: '[', close: ']', want: `[1, 2, 3]`},
		{name: "Unbalanced", input: `{"a": {"b": 2}`, open: '{', close: '}', want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := extractBalanced(tt.input, tt.open, tt.close); got != tt.want {
				t.Errorf("extractBalanced() = %q, want %q", got, tt.want)
			}
		})
	}
}
