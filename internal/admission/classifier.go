package admission

import (
	"college-advisor/internal/common/metrics"
	"college-advisor/internal/models"
)

// Classify routes a query: structured queries carry a rank plus an institute or program and can be
// answered by seat filtering; everything else is general.
func Classify(params *models.QueryParameters) models.QueryType {
	qt := classify(params)
	metrics.QueriesClassified.WithLabelValues(string(qt)).Inc()
	return qt
}

func classify(params *models.QueryParameters) models.QueryType {
	if params == nil || params.Rank == nil || *params.Rank <= 0 {
		return models.QueryTypeGeneral
	}
	if !params.HasPreference() {
		return models.QueryTypeGeneral
	}
	return models.QueryTypeStructured
}
