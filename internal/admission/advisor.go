package admission

import (
	"fmt"
	"strings"

	"github.com/google/uuid"

	"college-advisor/internal/common/logger"
	"college-advisor/internal/common/metrics"
	"college-advisor/internal/models"
)

const NoOptionsSummary = "No options are available for your rank and preferences."

// SeatSource supplies the seat allocation table for an exam.
type SeatSource interface {
	SeatTable(exam models.Exam) []models.SeatRecord
}

// Tables is what the advisor reads its reference data from.
type Tables interface {
	RankSource
	SeatSource
}

// Result is everything the response layer needs to answer one query.
type Result struct {
	QueryID    string                  `json:"queryId"`
	Parameters *models.QueryParameters `json:"parameters"`
	QueryType  models.QueryType        `json:"queryType"`
	Seats      []models.SeatOption     `json:"seats"`
	Summary    string                  `json:"summary"`
}

// Advisor runs the whole pipeline: normalize, classify, select seats, summarize.
type Advisor struct {
	predictor  *Predictor
	normalizer *Normalizer
	filter     *SeatFilter
	seats      SeatSource
	log        logger.Logger
}

func NewAdvisor(tables Tables, log logger.Logger) *Advisor {
	predictor := NewPredictor(tables, log)
	return &Advisor{
		predictor:  predictor,
		normalizer: NewNormalizer(predictor, log),
		filter:     NewSeatFilter(log),
		seats:      tables,
		log:        log,
	}
}

func (a *Advisor) Predictor() *Predictor   { return a.predictor }
func (a *Advisor) Normalizer() *Normalizer { return a.normalizer }

// Advise answers one raw query description. The only error is ErrNormalizationFailed.
func (a *Advisor) Advise(payload []byte) (*Result, error) {
	params, err := a.normalizer.NormalizePayload(payload)
	if err != nil {
		return nil, err
	}

	res := &Result{
		QueryID:    uuid.New().String(),
		Parameters: params,
		QueryType:  Classify(params),
		Seats:      []models.SeatOption{},
	}

	if res.QueryType == models.QueryTypeStructured {
		seats := a.SelectSeats(params)
		res.Seats = ToSeatOptions(seats)
		res.Summary = Summarize(seats)
	}

	a.log.Info("query advised", map[string]interface{}{
		"queryId":   res.QueryID,
		"queryType": string(res.QueryType),
		"exam":      string(params.Exam),
		"seats":     len(res.Seats),
	})
	return res, nil
}

// SelectSeats filters the exam's seat table for a structured query. An institute preference fixes
// the college and lets the branch vary, so the program is ignored when an institute is present.
func (a *Advisor) SelectSeats(params *models.QueryParameters) []models.SeatRecord {
	if classify(params) != models.QueryTypeStructured {
		return []models.SeatRecord{}
	}

	table := a.seats.SeatTable(params.Exam)
	var seats []models.SeatRecord
	if params.Institute != nil {
		seats = a.filter.Filter(table, *params.Rank, params.Institute, nil, params.Gender)
	} else {
		seats = a.filter.Filter(table, *params.Rank, nil, params.Program, params.Gender)
	}

	metrics.SeatFilterMatches.WithLabelValues(params.Exam.TableKey()).Observe(float64(len(seats)))
	return seats
}

// Summarize renders one line per seat for the response generator.
func Summarize(seats []models.SeatRecord) string {
	if len(seats) == 0 {
		return NoOptionsSummary
	}
	lines := make([]string, len(seats))
	for i, s := range seats {
		lines[i] = fmt.Sprintf("%s at %s (Gender: %s) with ranks between %s and %s.",
			s.Program, s.Institute, s.Gender, s.OpeningRank, s.ClosingRank)
	}
	return strings.Join(lines, "\n")
}

// ToSeatOption converts a record to its output form. Unparseable ranks become 0.
func ToSeatOption(r models.SeatRecord) models.SeatOption {
	opening, _ := ParseRank(r.OpeningRank)
	closing, _ := ParseRank(r.ClosingRank)
	return models.SeatOption{
		Institute:          r.Institute,
		Program:            r.Program,
		Gender:             r.Gender,
		OpeningRank:        opening,
		ClosingRank:        closing,
		OpeningRankDisplay: r.OpeningRank,
		ClosingRankDisplay: r.ClosingRank,
	}
}

func ToSeatOptions(records []models.SeatRecord) []models.SeatOption {
	out := make([]models.SeatOption, len(records))
	for i, r := range records {
		out[i] = ToSeatOption(r)
	}
	return out
}
