// internal/workers/admission/normalize-query/models.go
package normalizequery

import (
	"encoding/json"

	"college-advisor/internal/models"
)

// Input carries the extraction layer's query description, either as a JSON object or as the
// raw text the extraction service returned.
type Input struct {
	Query json.RawMessage `json:"query"`
}

type Output struct {
	QueryID       string                  `json:"queryId"`
	Parameters    *models.QueryParameters `json:"parameters"`
	RankPredicted bool                    `json:"rankPredicted"`
}
