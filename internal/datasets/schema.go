package datasets

import "college-advisor/internal/common/validation"

// Rank reference tables: [{"Marks": 250, "Rank": 5000}, ...]
var rankTableSchema = validation.MustCompile(`{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "array",
  "minItems": 1,
  "items": {
    "type": "object",
    "required": ["Marks", "Rank"],
    "properties": {
      "Marks": {"type": "number"},
      "Rank":  {"type": "integer"}
    }
  }
}`)

// Seat allocation tables. Fields are optional per record: a record missing its closing rank is
// skipped at filter time instead of rejecting the whole file.
var seatTableSchema = validation.MustCompile(`{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "array",
  "items": {
    "type": "object",
    "properties": {
      "Institute":             {"type": "string"},
      "Academic Program Name": {"type": "string"},
      "Gender":                {"type": "string"},
      "Opening Rank":          {"type": "string"},
      "Closing Rank":          {"type": "string"}
    }
  }
}`)

// Kind names a dataset file shape.
type Kind string

const (
	KindRankTable Kind = "rank"
	KindSeatTable Kind = "seat"
)

func schemaFor(kind Kind) *validation.Schema {
	if kind == KindRankTable {
		return rankTableSchema
	}
	return seatTableSchema
}

// Validate checks a raw dataset document against the schema for kind.
func Validate(kind Kind, doc []byte) (*validation.ValidationResult, error) {
	return schemaFor(kind).ValidateBytes(doc)
}
