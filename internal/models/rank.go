// internal/models/rank.go
package models

// RankTableEntry maps a raw exam score to the rank historically achieved with it.
type RankTableEntry struct {
	Marks float64 `json:"Marks"`
	Rank  int     `json:"Rank"`
}
