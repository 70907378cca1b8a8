// internal/models/query_types.go
package models

// QueryType is the routing decision made for a normalized query.
type QueryType string

const (
	// QueryTypeStructured queries carry a rank plus an institute or program and go through seat filtering.
	QueryTypeStructured QueryType = "structured"
	// QueryTypeGeneral queries are answered by the conversational fallback.
	QueryTypeGeneral QueryType = "general"
)
