package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const pointSchema = `{
	"type": "object",
	"required": ["x", "y"],
	"properties": {
		"x": {"type": "number"},
		"y": {"type": "number"}
	}
}`

func TestSchema_ValidateBytes(t *testing.T) {
	s := MustCompile(pointSchema)

	tests := []struct {
		name      string
		doc       string
		wantValid bool
		wantErrs  int
	}{
		{name: "valid", doc: `{"x": 1, "y": 2.5}`, wantValid: true},
		{name: "missing field", doc: `{"x": 1}`, wantErrs: 1},
		{name: "wrong types", doc: `{"x": "a", "y": "b"}`, wantErrs: 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := s.ValidateBytes([]byte(tt.doc))
			require.NoError(t, err)
			assert.Equal(t, tt.wantValid, res.Valid)
			assert.Len(t, res.Errors, tt.wantErrs)
		})
	}
}

func TestSchema_ValidateBytes_NotJSON(t *testing.T) {
	_, err := MustCompile(pointSchema).ValidateBytes([]byte("{"))
	assert.Error(t, err)
}

func TestCompile_Invalid(t *testing.T) {
	_, err := Compile(`{"type": 12}`)
	assert.Error(t, err)
	assert.Panics(t, func() { MustCompile(`not a schema`) })
}

func TestValidationResult_Summary(t *testing.T) {
	res := &ValidationResult{Errors: []ValidationError{
		{Field: "0.Marks", Message: "Invalid type"},
		{Field: "1.Marks", Message: "Invalid type"},
		{Field: "2.Rank", Message: "Required"},
	}}

	assert.Equal(t, "0.Marks: Invalid type; 1.Marks: Invalid type; ... and 1 more", res.Summary(2))
	assert.Empty(t, (&ValidationResult{Valid: true}).Summary(2))
}
