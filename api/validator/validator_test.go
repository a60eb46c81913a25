package validator

import (
	"testing"
)

type testPost struct {
	Text       string   `json:"text" validate:"required"`
	Visibility string   `json:"visibility" validate:"omitempty,visibility"`
	AuthorKind string   `json:"author_kind" validate:"required,actorkind"`
	AuthorID   string   `json:"author_id" validate:"required,uuid"`
	Media      []string `json:"media" validate:"omitempty,dive,url"`
	Internal   string   `json:"-"`
}

func TestValidator_ValidateStruct(t *testing.T) {
	v := New()

	tests := []struct {
		name    string
		input   any
		wantErr bool
		fields  []string
	}{
		{
			name: "Valid struct",
			input: testPost{
				Text:       "hello",
				Visibility: "connections",
				AuthorKind: "organization",
				AuthorID:   "2a4b5d0e-5f0e-4cb3-9d0e-8f25f9a1c001",
				Media:      []string{"https://cdn.example.com/a.png"},
			},
		},
		{
			name: "Visibility omitted",
			input: testPost{
				Text:       "hello",
				AuthorKind: "individual",
				AuthorID:   "2a4b5d0e-5f0e-4cb3-9d0e-8f25f9a1c001",
			},
		},
		{
			name:    "Missing required fields",
			input:   testPost{},
			wantErr: true,
			fields:  []string{"text", "author_kind", "author_id"},
		},
		{
			name: "Unknown visibility and kind",
			input: testPost{
				Text:       "hello",
				Visibility: "friends",
				AuthorKind: "robot",
				AuthorID:   "2a4b5d0e-5f0e-4cb3-9d0e-8f25f9a1c001",
			},
			wantErr: true,
			fields:  []string{"visibility", "author_kind"},
		},
		{
			name: "Bad media and id",
			input: testPost{
				Text:       "hello",
				AuthorKind: "individual",
				AuthorID:   "42",
				Media:      []string{"not a url"},
			},
			wantErr: true,
			fields:  []string{"author_id", "media[0]"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			errors := v.ValidateStruct(tt.input)

			if tt.wantErr && len(errors) == 0 {
				t.Error("ValidateStruct() expected errors but got none")
				return
			}
			if !tt.wantErr && len(errors) > 0 {
				t.Errorf("ValidateStruct() got unexpected errors: %v", errors)
				return
			}

			found := make(map[string]bool, len(errors))
			for _, err := range errors {
				found[err.Field] = true
			}
			for _, field := range tt.fields {
				if !found[field] {
					t.Errorf("Expected validation error for field %s, got %v", field, errors)
				}
			}
		})
	}
}

func TestValidator_Validate(t *testing.T) {
	v := New()

	tests := []struct {
		name    string
		value   any
		tag     string
		wantErr bool
	}{
		{name: "Unknown visibility", value: "friends", tag: "visibility", wantErr: true},
		{name: "Visibility", value: "private", tag: "visibility"},
		{name: "Actor kind", value: "individual", tag: "actorkind"},
		{name: "Media urls", value: []string{"https://a.example/x.jpg"}, tag: "dive,url"},
		{name: "Bad media url", value: []string{"x"}, tag: "dive,url", wantErr: true},
		{name: "Required field empty", value: "", tag: "required", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			errors := v.Validate(tt.value, tt.tag)

			if tt.wantErr && len(errors) == 0 {
				t.Error("Validate() expected errors but got none")
			}
			if !tt.wantErr && len(errors) > 0 {
				t.Errorf("Validate() got unexpected errors: %v", errors)
			}
		})
	}
}

func TestNew(t *testing.T) {
	v := New()
	if v == nil || v.cli == nil {
		t.Error("New() returned invalid validator")
	}
}
