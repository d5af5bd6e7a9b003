package ai

import (
	"testing"
)

func TestUnmarshalFlexible_ObjectVariants(t *testing.T) {
	type entity struct {
		Name string `json:"name"`
		Type string `json:"type,omitempty"`
	}

	tests := []struct {
		name  string
		input string
		want  entity
	}{
		{
			name:  "valid json object",
			input: `{"name":"HubSpot"}`,
			want:  entity{Name: "HubSpot"},
		},
		{
			name:  "unquoted key and single quotes",
			input: `{name: 'HubSpot'}`,
			want:  entity{Name: "HubSpot"},
		},
		{
			name:  "trailing comma",
			input: `{"name":"HubSpot",}`,
			want:  entity{Name: "HubSpot"},
		},
		{
			name:  "missing endbracket",
			input: `{"name":"HubSpot`,
			want:  entity{Name: "HubSpot"},
		},
		{
			name:  "stringified invalid json object",
			input: `"{name: 'HubSpot'}"`,
			want:  entity{Name: "HubSpot"},
		},
		{
			name:  "duplicate leading brace",
			input: "{\n{\n  \"name\": \"HubSpot\"\n}\n",
			want:  entity{Name: "HubSpot"},
		},
		{
			name:  "markdown fenced json",
			input: "```json\n{\"name\":\"HubSpot\",\"type\":\"company\"}\n```",
			want:  entity{Name: "HubSpot", Type: "company"},
		},
		{
			name:  "fenced without language tag",
			input: "```\n{\"name\":\"HubSpot\"}\n```",
			want:  entity{Name: "HubSpot"},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			var got entity
			if err := UnmarshalFlexible(tc.input, &got); err != nil {
				t.Fatalf("UnmarshalFlexible() error = %v", err)
			}
			if got.Name != tc.want.Name || got.Type != tc.want.Type {
				t.Fatalf("UnmarshalFlexible() got = %+v, want %+v", got, tc.want)
			}
		})
	}
}

func TestUnmarshalFlexible_ExtractionPayload(t *testing.T) {
	type extraction struct {
		Entities []struct {
			Name string `json:"name"`
			Type string `json:"type"`
		} `json:"entities"`
		Topics []string `json:"topics"`
	}

	input := "```json\n" +
		`{entities: [{name: 'Google', type: 'company'}, {name: 'SEO', type: 'concept',}], topics: ['seo', 'analytics']` +
		"\n```"

	var got extraction
	if err := UnmarshalFlexible(input, &got); err != nil {
		t.Fatalf("UnmarshalFlexible() error = %v", err)
	}
	if len(got.Entities) != 2 || got.Entities[0].Name != "Google" || got.Entities[1].Type != "concept" {
		t.Fatalf("UnmarshalFlexible() entities = %+v", got.Entities)
	}
	if len(got.Topics) != 2 || got.Topics[1] != "analytics" {
		t.Fatalf("UnmarshalFlexible() topics = %+v", got.Topics)
	}
}

func TestUnmarshalFlexible_Unrecoverable(t *testing.T) {
	type entity struct {
		Name string `json:"name"`
	}

	var got entity
	if err := UnmarshalFlexible("hello", &got); err == nil {
		t.Fatalf("UnmarshalFlexible() expected error for unrecoverable input")
	}
}
