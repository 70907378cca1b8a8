package admission

import (
	"encoding/json"
	"errors"
	"math"
	"strconv"
	"strings"

	"college-advisor/internal/common/logger"
	"college-advisor/internal/models"
)

// ErrNormalizationFailed means the query description is not a structured mapping at all.
var ErrNormalizationFailed = errors.New("NORMALIZATION_FAILED")

// RankPredictor is the prediction step the normalizer attaches ranks with.
type RankPredictor interface {
	Predict(marks float64, exam models.Exam) (int, bool)
}

// Normalizer turns loosely typed query descriptions into QueryParameters. Field problems degrade
// the field to absent; only a payload that is not an object fails.
type Normalizer struct {
	predictor RankPredictor
	log       logger.Logger
}

// NewNormalizer returns a Normalizer. A nil predictor leaves Rank unset.
func NewNormalizer(predictor RankPredictor, log logger.Logger) *Normalizer {
	return &Normalizer{predictor: predictor, log: log}
}

// NormalizePayload decodes a JSON query description and normalizes it. Text around the outermost
// braces is ignored, since extraction services tend to wrap the object in prose.
func (n *Normalizer) NormalizePayload(payload []byte) (*models.QueryParameters, error) {
	raw, err := decodeObject(payload)
	if err != nil {
		return nil, err
	}
	return n.Normalize(raw), nil
}

func decodeObject(payload []byte) (map[string]interface{}, error) {
	var raw map[string]interface{}
	if err := json.Unmarshal(payload, &raw); err == nil && raw != nil {
		return raw, nil
	}

	s := string(payload)
	start, end := strings.Index(s, "{"), strings.LastIndex(s, "}")
	if start < 0 || end < start {
		return nil, ErrNormalizationFailed
	}
	raw = nil
	if err := json.Unmarshal([]byte(s[start:end+1]), &raw); err != nil || raw == nil {
		return nil, ErrNormalizationFailed
	}
	return raw, nil
}

// Normalize canonicalizes raw. It never fails.
func (n *Normalizer) Normalize(raw map[string]interface{}) *models.QueryParameters {
	params := &models.QueryParameters{
		Institute:  NormalizeInstitute(raw["institute"]),
		Program:    NormalizeProgram(raw["program"]),
		Exam:       ResolveExam(raw["exam"], raw["institute"]),
		Marks:      ToNumber(raw["marks"]),
		Percentile: ToNumber(raw["percentile"]),
		Gender:     NormalizeGender(raw["gender"]),
	}

	if params.Marks != nil && n.predictor != nil {
		if rank, ok := n.predictor.Predict(*params.Marks, params.Exam); ok {
			params.Rank = &rank
		}
	}

	n.log.Debug("query normalized", map[string]interface{}{
		"exam":         string(params.Exam),
		"hasInstitute": params.Institute != nil,
		"hasProgram":   params.Program != nil,
		"hasMarks":     params.Marks != nil,
		"hasRank":      params.Rank != nil,
	})
	return params
}

// NormalizeInstitute title-cases the name and restores the IIT / NIT acronyms.
// Empty input and the literal "Null" are absent.
func NormalizeInstitute(v interface{}) *string {
	s, ok := v.(string)
	if !ok {
		return nil
	}
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}

	name := titleCase(s)
	if strings.Contains(name, "Iit") {
		name = strings.ReplaceAll(name, "Iit", "IIT")
	} else if strings.Contains(name, "Nit") {
		name = strings.ReplaceAll(name, "Nit", "NIT")
	}
	if name == "Null" {
		return nil
	}
	return &name
}

// NormalizeProgram strips duration and degree boilerplate and title-cases what remains.
func NormalizeProgram(v interface{}) *string {
	s, ok := v.(string)
	if !ok {
		return nil
	}
	s = stripProgramBoilerplate(s)
	if s == "" {
		return nil
	}
	p := titleCase(s)
	return &p
}

// NormalizeGender title-cases and hyphenates the category; absent means Gender-Neutral.
func NormalizeGender(v interface{}) string {
	s, ok := v.(string)
	if !ok {
		return models.GenderNeutral
	}
	s = strings.TrimSpace(s)
	if s == "" {
		return models.GenderNeutral
	}
	return strings.ReplaceAll(titleCase(s), " ", "-")
}

// ResolveExam keeps an explicitly provided exam verbatim. Otherwise the exam is inferred from the
// institute as written before normalization.
func ResolveExam(exam, rawInstitute interface{}) models.Exam {
	if s, ok := exam.(string); ok && s != "" {
		return models.Exam(s)
	}
	if inst, ok := rawInstitute.(string); ok {
		if strings.Contains(inst, "IIT") || strings.Contains(inst, "Indian Institute") {
			return models.ExamJEEAdvanced
		}
	}
	return models.ExamJEEMains
}

// ToNumber passes numbers through and parses numeric strings, as a float when a decimal
// point is present and as an integer otherwise. Anything else is absent.
func ToNumber(v interface{}) *float64 {
	var f float64
	switch x := v.(type) {
	case float64:
		f = x
	case float32:
		f = float64(x)
	case int:
		f = float64(x)
	case int64:
		f = float64(x)
	case json.Number:
		parsed, err := x.Float64()
		if err != nil {
			return nil
		}
		f = parsed
	case string:
		s := strings.TrimSpace(x)
		if s == "" {
			return nil
		}
		if strings.Contains(s, ".") {
			parsed, err := strconv.ParseFloat(s, 64)
			if err != nil {
				return nil
			}
			f = parsed
		} else {
			parsed, err := strconv.ParseInt(s, 10, 64)
			if err != nil {
				return nil
			}
			f = float64(parsed)
		}
	default:
		return nil
	}

	if math.IsNaN(f) || math.IsInf(f, 0) {
		return nil
	}
	return &f
}
