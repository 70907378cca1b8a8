package admission

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"college-advisor/internal/common/logger"
	"college-advisor/internal/common/metrics"
	"college-advisor/internal/models"
)

const skipReasonClosingRank = "closing_rank_unparseable"

// SeatFilter selects the seat records a rank and preference combination qualifies for.
type SeatFilter struct {
	log logger.Logger
}

func NewSeatFilter(log logger.Logger) *SeatFilter {
	return &SeatFilter{log: log}
}

// Filter returns, in table order, every record whose closing rank is at or above rank and which
// matches the optional institute (exact), program (normalized substring) and gender
// (case-insensitive substring). An empty gender means Gender-Neutral. table is not modified.
func (f *SeatFilter) Filter(table []models.SeatRecord, rank int, institute, program *string, gender string) []models.SeatRecord {
	if gender == "" {
		gender = models.GenderNeutral
	}
	queryGender := strings.ToLower(gender)

	var queryProgram string
	if program != nil {
		queryProgram = programKey(*program)
	}

	out := make([]models.SeatRecord, 0)
	for i, rec := range table {
		closing, err := ParseRank(rec.ClosingRank)
		if err != nil {
			f.log.Debug("skipping seat record", map[string]interface{}{
				"index":     i,
				"institute": rec.Institute,
				"reason":    skipReasonClosingRank,
				"error":     err.Error(),
			})
			metrics.SeatRecordsSkipped.WithLabelValues(skipReasonClosingRank).Inc()
			continue
		}

		if rank > closing {
			continue
		}
		if institute != nil && rec.Institute != *institute {
			continue
		}
		if program != nil && !strings.Contains(programKey(rec.Program), queryProgram) {
			continue
		}
		if !strings.Contains(strings.ToLower(rec.Gender), queryGender) {
			continue
		}
		out = append(out, rec)
	}
	return out
}

// ParseRank parses a displayed rank such as "3,500" or "3500.0", truncating any fraction.
func ParseRank(s string) (int, error) {
	cleaned := strings.ReplaceAll(strings.TrimSpace(s), ",", "")
	f, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return 0, fmt.Errorf("parse rank %q: %w", s, err)
	}
	if math.IsNaN(f) || math.IsInf(f, 0) || math.Abs(f) > math.MaxInt32 {
		return 0, fmt.Errorf("parse rank %q: out of range", s)
	}
	return int(f), nil
}
