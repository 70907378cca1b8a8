// internal/models/query.go
package models

type Exam string

const (
	ExamJEEAdvanced Exam = "JEE Advanced"
	ExamJEEMains    Exam = "JEE Mains"
)

// IsAdvanced reports whether the exam selects the JEE Advanced tables.
// Any other value, including unrecognised explicit strings, selects JEE Mains.
func (e Exam) IsAdvanced() bool {
	return e == ExamJEEAdvanced
}

// TableKey is the short name used for dataset lookups, metrics labels and cache keys.
func (e Exam) TableKey() string {
	if e.IsAdvanced() {
		return "advanced"
	}
	return "mains"
}

const (
	GenderNeutral    = "Gender-Neutral"
	GenderFemaleOnly = "Female-Only"
)

// QueryParameters is the canonical form of one student query.
// Rank is derived: it is set only when Marks was present and a prediction succeeded.
type QueryParameters struct {
	Institute  *string  `json:"institute"`
	Program    *string  `json:"program"`
	Exam       Exam     `json:"exam"`
	Marks      *float64 `json:"marks"`
	Percentile *float64 `json:"percentile"`
	Gender     string   `json:"gender"`
	Rank       *int     `json:"rank,omitempty"`
}

// HasPreference reports whether an institute or program was resolved.
func (p *QueryParameters) HasPreference() bool {
	return p.Institute != nil || p.Program != nil
}
