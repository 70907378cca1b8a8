// internal/models/seat.go
package models

// SeatRecord is one row of a seat-allocation table as published.
// Ranks keep their display form ("3,500"); consumers parse them on use.
type SeatRecord struct {
	Institute   string `json:"Institute"`
	Program     string `json:"Academic Program Name"`
	Gender      string `json:"Gender"`
	OpeningRank string `json:"Opening Rank"`
	ClosingRank string `json:"Closing Rank"`
}

// SeatOption is a matched seat handed to the response layer.
type SeatOption struct {
	Institute          string `json:"institute"`
	Program            string `json:"program"`
	Gender             string `json:"gender"`
	OpeningRank        int    `json:"openingRank"`
	ClosingRank        int    `json:"closingRank"`
	OpeningRankDisplay string `json:"openingRankDisplay"`
	ClosingRankDisplay string `json:"closingRankDisplay"`
}
