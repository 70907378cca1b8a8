package admission

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"college-advisor/internal/common/logger"
	"college-advisor/internal/models"
)

type fixedPredictor struct {
	rank  int
	ok    bool
	calls []models.Exam
}

func (f *fixedPredictor) Predict(_ float64, exam models.Exam) (int, bool) {
	f.calls = append(f.calls, exam)
	return f.rank, f.ok
}

func TestNormalizeInstitute(t *testing.T) {
	tests := []struct {
		name string
		in   interface{}
		want *string
	}{
		{name: "iit lower case", in: "iit bombay", want: strPtr("IIT Bombay")},
		{name: "iit already canonical", in: "IIT Bombay", want: strPtr("IIT Bombay")},
		{name: "nit", in: "nit trichy", want: strPtr("NIT Trichy")},
		{name: "full name", in: "  indian institute of technology delhi ", want: strPtr("Indian Institute Of Technology Delhi")},
		{name: "null literal", in: "null", want: nil},
		{name: "empty", in: "", want: nil},
		{name: "whitespace", in: "   ", want: nil},
		{name: "nil", in: nil, want: nil},
		{name: "non string", in: 42.0, want: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizeInstitute(tt.in))
		})
	}
}

// Word boundaries follow Unicode segmentation, so an apostrophe or a period between letters does
// not start a new word.
func TestTitleCase(t *testing.T) {
	tests := map[string]string{
		"computer science and engineering": "Computer Science And Engineering",
		"MECHANICAL ENGINEERING":           "Mechanical Engineering",
		"gender-neutral":                   "Gender-Neutral",
		"b.tech cse":                       "B.tech Cse",
		"o'neil college":                   "O'neil College",
	}

	for in, want := range tests {
		t.Run(in, func(t *testing.T) {
			assert.Equal(t, want, titleCase(in))
		})
	}
}

func TestNormalizeProgram(t *testing.T) {
	tests := []struct {
		name string
		in   interface{}
		want *string
	}{
		{
			name: "boilerplate stripped",
			in:   "Computer Science and Engineering (4 Years) Bachelor of Technology",
			want: strPtr("Computer Science And Engineering"),
		},
		{name: "lower case", in: "electrical engineering", want: strPtr("Electrical Engineering")},
		{name: "boilerplate any case", in: "civil engineering (4 years) bachelor of technology", want: strPtr("Civil Engineering")},
		{name: "only boilerplate", in: "Bachelor of Technology", want: nil},
		{name: "nil", in: nil, want: nil},
		{name: "non string", in: true, want: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizeProgram(tt.in))
		})
	}
}

func TestNormalizeGender(t *testing.T) {
	tests := []struct {
		in   interface{}
		want string
	}{
		{in: "female only", want: "Female-Only"},
		{in: "Female-Only", want: "Female-Only"},
		{in: "gender neutral", want: "Gender-Neutral"},
		{in: "", want: models.GenderNeutral},
		{in: nil, want: models.GenderNeutral},
		{in: 3.0, want: models.GenderNeutral},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, NormalizeGender(tt.in), "input %v", tt.in)
	}
}

func TestNormalization_Idempotent(t *testing.T) {
	for _, in := range []string{"iit bombay", "nit warangal", "Indian Institute of Science"} {
		once := NormalizeInstitute(in)
		require.NotNil(t, once)
		assert.Equal(t, once, NormalizeInstitute(*once), in)
	}
	for _, in := range []string{"Computer Science and Engineering (4 Years) Bachelor of Technology", "mechanical engineering"} {
		once := NormalizeProgram(in)
		require.NotNil(t, once)
		assert.Equal(t, once, NormalizeProgram(*once), in)
	}
	for _, in := range []string{"female only", "gender neutral"} {
		once := NormalizeGender(in)
		assert.Equal(t, once, NormalizeGender(once), in)
	}
}

func TestResolveExam(t *testing.T) {
	tests := []struct {
		name      string
		exam      interface{}
		institute interface{}
		want      models.Exam
	}{
		{name: "explicit kept verbatim", exam: "JEE Mains", institute: "IIT Bombay", want: models.ExamJEEMains},
		{name: "explicit unknown kept", exam: "BITSAT", institute: nil, want: models.Exam("BITSAT")},
		{name: "inferred from IIT", exam: nil, institute: "IIT Bombay", want: models.ExamJEEAdvanced},
		{name: "inferred from full name", exam: "", institute: "Indian Institute of Technology Madras", want: models.ExamJEEAdvanced},
		{name: "raw casing matters", exam: nil, institute: "iit bombay", want: models.ExamJEEMains},
		{name: "nit", exam: nil, institute: "NIT Trichy", want: models.ExamJEEMains},
		{name: "nothing", exam: nil, institute: nil, want: models.ExamJEEMains},
		{name: "non string exam ignored", exam: 1.0, institute: "IIT Delhi", want: models.ExamJEEAdvanced},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ResolveExam(tt.exam, tt.institute))
		})
	}
}

func TestToNumber(t *testing.T) {
	f := func(v float64) *float64 { return &v }
	tests := []struct {
		name string
		in   interface{}
		want *float64
	}{
		{name: "float", in: 245.5, want: f(245.5)},
		{name: "int", in: 245, want: f(245)},
		{name: "json number", in: json.Number("98.2"), want: f(98.2)},
		{name: "decimal string", in: "98.75", want: f(98.75)},
		{name: "integer string", in: " 245 ", want: f(245)},
		{name: "exponent string is not an integer", in: "1e3", want: nil},
		{name: "garbage", in: "two hundred", want: nil},
		{name: "empty", in: "", want: nil},
		{name: "nil", in: nil, want: nil},
		{name: "bool", in: true, want: nil},
		{name: "nan string", in: "NaN.", want: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ToNumber(tt.in))
		})
	}
}

func TestNormalizer_Normalize(t *testing.T) {
	pred := &fixedPredictor{rank: 3200, ok: true}
	n := NewNormalizer(pred, logger.NewTestLogger(t))

	params := n.Normalize(map[string]interface{}{
		"institute":  "iit bombay",
		"program":    nil,
		"marks":      "280",
		"percentile": "bad",
		"gender":     "female only",
	})

	require.NotNil(t, params.Institute)
	assert.Equal(t, "IIT Bombay", *params.Institute)
	assert.Nil(t, params.Program)
	assert.Equal(t, models.ExamJEEMains, params.Exam, "inference reads the raw institute")
	require.NotNil(t, params.Marks)
	assert.Equal(t, 280.0, *params.Marks)
	assert.Nil(t, params.Percentile)
	assert.Equal(t, models.GenderFemaleOnly, params.Gender)
	require.NotNil(t, params.Rank)
	assert.Equal(t, 3200, *params.Rank)
	assert.Equal(t, []models.Exam{models.ExamJEEMains}, pred.calls)
}

func TestNormalizer_RankOnlyWithMarks(t *testing.T) {
	t.Run("no marks", func(t *testing.T) {
		pred := &fixedPredictor{rank: 1, ok: true}
		params := NewNormalizer(pred, logger.NewTestLogger(t)).Normalize(map[string]interface{}{"institute": "IIT Delhi"})
		assert.Nil(t, params.Rank)
		assert.Empty(t, pred.calls)
	})

	t.Run("prediction fails", func(t *testing.T) {
		pred := &fixedPredictor{ok: false}
		params := NewNormalizer(pred, logger.NewTestLogger(t)).Normalize(map[string]interface{}{"marks": 250.0})
		require.NotNil(t, params.Marks)
		assert.Nil(t, params.Rank)
	})

	t.Run("no predictor", func(t *testing.T) {
		params := NewNormalizer(nil, logger.NewTestLogger(t)).Normalize(map[string]interface{}{"marks": 250.0})
		assert.Nil(t, params.Rank)
	})
}

func TestNormalizer_NormalizePayload(t *testing.T) {
	n := NewNormalizer(&fixedPredictor{rank: 10, ok: true}, logger.NewTestLogger(t))

	tests := []struct {
		name          string
		payload       string
		wantErr       bool
		wantInstitute string
	}{
		{name: "plain object", payload: `{"institute": "IIT Bombay", "marks": 300}`, wantInstitute: "IIT Bombay"},
		{name: "wrapped in prose", payload: "Here you go:\n{\"institute\": \"nit trichy\"}\nThanks!", wantInstitute: "NIT Trichy"},
		{name: "array", payload: `[{"institute": "IIT Bombay"}]`, wantInstitute: "IIT Bombay"},
		{name: "not json", payload: "I could not understand the question", wantErr: true},
		{name: "broken object", payload: `{"institute": `, wantErr: true},
		{name: "json null", payload: `null`, wantErr: true},
		{name: "empty", payload: ``, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			params, err := n.NormalizePayload([]byte(tt.payload))
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, errors.Is(err, ErrNormalizationFailed))
				assert.Nil(t, params)
				return
			}
			require.NoError(t, err)
			require.NotNil(t, params.Institute)
			assert.Equal(t, tt.wantInstitute, *params.Institute)
		})
	}
}
