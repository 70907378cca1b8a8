package admission

import (
	"math"
	"sort"

	"college-advisor/internal/common/logger"
	"college-advisor/internal/common/metrics"
	"college-advisor/internal/models"
)

// RankSource supplies the marks->rank reference table for an exam.
type RankSource interface {
	RankTable(exam models.Exam) ([]models.RankTableEntry, error)
}

// Predictor maps exam marks to a predicted rank over a reference table.
type Predictor struct {
	ranks RankSource
	log   logger.Logger
}

func NewPredictor(ranks RankSource, log logger.Logger) *Predictor {
	return &Predictor{ranks: ranks, log: log}
}

// Predict returns the predicted rank for marks. ok is false when the exam's table is unavailable;
// callers treat that as insufficient data, never as a failure.
func (p *Predictor) Predict(marks float64, exam models.Exam) (int, bool) {
	table, err := p.ranks.RankTable(exam)
	if err != nil {
		p.log.Warn("rank prediction unavailable", map[string]interface{}{
			"exam":  string(exam),
			"error": err.Error(),
		})
		metrics.RankPredictions.WithLabelValues(exam.TableKey(), "unavailable").Inc()
		return 0, false
	}

	rank, ok := Interpolate(table, marks)
	if !ok {
		p.log.Warn("rank prediction unavailable", map[string]interface{}{
			"exam":    string(exam),
			"marks":   marks,
			"entries": len(table),
		})
		metrics.RankPredictions.WithLabelValues(exam.TableKey(), "unavailable").Inc()
		return 0, false
	}

	metrics.RankPredictions.WithLabelValues(exam.TableKey(), "predicted").Inc()
	return rank, true
}

// Interpolate predicts a rank by linear interpolation between the two entries bracketing marks.
// The fractional result is truncated toward zero. Marks outside the table clamp to the first or
// last entry's rank. table need not be sorted; an unsorted table is sorted on a copy.
func Interpolate(table []models.RankTableEntry, marks float64) (int, bool) {
	if len(table) == 0 || math.IsNaN(marks) {
		return 0, false
	}
	if !sort.SliceIsSorted(table, func(i, j int) bool { return table[i].Marks < table[j].Marks }) {
		sorted := make([]models.RankTableEntry, len(table))
		copy(sorted, table)
		sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Marks < sorted[j].Marks })
		table = sorted
	}

	var lower, upper *models.RankTableEntry
	for i := range table {
		if table[i].Marks <= marks {
			lower = &table[i]
			continue
		}
		upper = &table[i]
		break
	}

	switch {
	case lower != nil && lower.Marks == marks:
		return lower.Rank, true
	case lower != nil && upper != nil:
		markRange := upper.Marks - lower.Marks
		rankRange := float64(upper.Rank - lower.Rank)
		return int(float64(lower.Rank) + ((marks-lower.Marks)/markRange)*rankRange), true
	case marks < table[0].Marks:
		return table[0].Rank, true
	default:
		return table[len(table)-1].Rank, true
	}
}
