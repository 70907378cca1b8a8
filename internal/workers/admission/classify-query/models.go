// internal/workers/admission/classify-query/models.go
package classifyquery

import "college-advisor/internal/models"

type Input struct {
	Parameters *models.QueryParameters `json:"parameters"`
}

type Output struct {
	QueryType models.QueryType `json:"queryType"`
}
