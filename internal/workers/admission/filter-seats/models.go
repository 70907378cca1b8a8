// internal/workers/admission/filter-seats/models.go
package filterseats

import "college-advisor/internal/models"

type Input struct {
	Parameters *models.QueryParameters `json:"parameters"`
}

type Output struct {
	Seats      []models.SeatOption `json:"seats"`
	MatchCount int                 `json:"matchCount"`
	Summary    string              `json:"summary"`
	Cached     bool                `json:"cached"`
}
