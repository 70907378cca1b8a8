// Package datasets loads the rank reference tables and seat allocation tables the advisor core
// reads. Tables are loaded once and never mutated afterwards; every accessor hands out shared
// read-only slices.
package datasets

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sort"

	"college-advisor/internal/common/config"
	"college-advisor/internal/common/logger"
	"college-advisor/internal/models"
)

var (
	ErrRankTableUnavailable = errors.New("RANK_TABLE_UNAVAILABLE")
	ErrSeatTableUnavailable = errors.New("SEAT_TABLE_UNAVAILABLE")
	ErrDatasetInvalid       = errors.New("DATASET_INVALID")
)

const summaryLimit = 5

type rankTable struct {
	entries []models.RankTableEntry
	err     error
}

// Tables is the immutable set of reference data, keyed by exam table ("advanced" / "mains").
type Tables struct {
	ranks map[string]rankTable
	seats map[string][]models.SeatRecord
}

// NewTables builds Tables from in-memory data. Rank tables are copied and sorted by marks;
// an empty rank table is recorded as unavailable.
func NewTables(advancedRanks, mainsRanks []models.RankTableEntry, advancedSeats, mainsSeats []models.SeatRecord) *Tables {
	t := &Tables{
		ranks: make(map[string]rankTable, 2),
		seats: map[string][]models.SeatRecord{
			models.ExamJEEAdvanced.TableKey(): advancedSeats,
			models.ExamJEEMains.TableKey():    mainsSeats,
		},
	}
	t.setRanks(models.ExamJEEAdvanced, advancedRanks, nil)
	t.setRanks(models.ExamJEEMains, mainsRanks, nil)
	return t
}

func (t *Tables) setRanks(exam models.Exam, entries []models.RankTableEntry, err error) {
	if err == nil && len(entries) == 0 {
		err = fmt.Errorf("%w: %s table is empty", ErrRankTableUnavailable, exam.TableKey())
	}
	if err != nil {
		t.ranks[exam.TableKey()] = rankTable{err: err}
		return
	}
	t.ranks[exam.TableKey()] = rankTable{entries: sortedByMarks(entries)}
}

// RankTable returns the rank table for exam sorted ascending by marks, or an error wrapping
// ErrRankTableUnavailable when it could not be loaded.
func (t *Tables) RankTable(exam models.Exam) ([]models.RankTableEntry, error) {
	rt, ok := t.ranks[exam.TableKey()]
	if !ok {
		return nil, fmt.Errorf("%w: no table for %s", ErrRankTableUnavailable, exam.TableKey())
	}
	return rt.entries, rt.err
}

// SeatTable returns the seat table for exam in source order.
func (t *Tables) SeatTable(exam models.Exam) []models.SeatRecord {
	return t.seats[exam.TableKey()]
}

// Stats reports table sizes for startup logging.
func (t *Tables) Stats() map[string]interface{} {
	out := make(map[string]interface{}, 4)
	for key, rt := range t.ranks {
		out[key+"RankEntries"] = len(rt.entries)
	}
	for key, seats := range t.seats {
		out[key+"SeatRecords"] = len(seats)
	}
	return out
}

// Load reads all four tables according to cfg. Rank table problems are logged and leave that
// table unavailable; seat table problems are returned since no query can be answered without them.
// db is only used when cfg.SeatSource is postgres.
func Load(ctx context.Context, cfg config.DatasetsConfig, db *sql.DB, log logger.Logger) (*Tables, error) {
	t := &Tables{
		ranks: make(map[string]rankTable, 2),
		seats: make(map[string][]models.SeatRecord, 2),
	}

	rankPaths := map[models.Exam]string{
		models.ExamJEEAdvanced: cfg.AdvancedRankTable,
		models.ExamJEEMains:    cfg.MainsRankTable,
	}
	for exam, path := range rankPaths {
		entries, err := LoadRankTable(path)
		if err != nil {
			log.Warn("rank table unavailable, predictions disabled for exam", map[string]interface{}{
				"exam":      string(exam),
				"path":      path,
				"errorCode": string(StandardError(exam, path, err).Code),
				"error":     err.Error(),
			})
		}
		t.setRanks(exam, entries, err)
	}

	seatPaths := map[models.Exam]string{
		models.ExamJEEAdvanced: cfg.AdvancedSeatTable,
		models.ExamJEEMains:    cfg.MainsSeatTable,
	}
	for exam, path := range seatPaths {
		var (
			seats []models.SeatRecord
			err   error
		)
		if cfg.SeatSource == config.SeatSourcePostgres {
			seats, err = LoadSeatTableFromDB(ctx, db, cfg.SeatTableName, exam)
		} else {
			seats, err = LoadSeatTable(path)
		}
		if err != nil {
			log.Error("seat table unavailable", map[string]interface{}{
				"exam":      string(exam),
				"source":    cfg.SeatSource,
				"errorCode": string(StandardError(exam, path, err).Code),
				"error":     err.Error(),
			})
			return nil, fmt.Errorf("load %s seat table: %w", exam.TableKey(), err)
		}
		t.seats[exam.TableKey()] = seats
	}

	log.Info("datasets loaded", t.Stats())
	return t, nil
}

// LoadRankTable reads and validates a rank reference file and returns it sorted by marks.
func LoadRankTable(path string) ([]models.RankTableEntry, error) {
	data, err := readValidated(KindRankTable, path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrRankTableUnavailable, err)
	}

	// Rank is decoded as a number first so "5000.0" style values load.
	var raw []struct {
		Marks float64 `json:"Marks"`
		Rank  float64 `json:"Rank"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("%w: decode %s: %v", ErrRankTableUnavailable, path, err)
	}

	entries := make([]models.RankTableEntry, len(raw))
	for i, r := range raw {
		entries[i] = models.RankTableEntry{Marks: r.Marks, Rank: int(r.Rank)}
	}
	return sortedByMarks(entries), nil
}

// LoadSeatTable reads and validates a seat allocation file.
func LoadSeatTable(path string) ([]models.SeatRecord, error) {
	data, err := readValidated(KindSeatTable, path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSeatTableUnavailable, err)
	}

	var seats []models.SeatRecord
	if err := json.Unmarshal(data, &seats); err != nil {
		return nil, fmt.Errorf("%w: decode %s: %v", ErrSeatTableUnavailable, path, err)
	}
	return seats, nil
}

// ValidateFile checks a dataset file without loading it.
func ValidateFile(kind Kind, path string) error {
	_, err := readValidated(kind, path)
	return err
}

func readValidated(kind Kind, path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	result, err := Validate(kind, data)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrDatasetInvalid, path, err)
	}
	if !result.Valid {
		return nil, fmt.Errorf("%w: %s: %s", ErrDatasetInvalid, path, result.Summary(summaryLimit))
	}
	return data, nil
}

func sortedByMarks(entries []models.RankTableEntry) []models.RankTableEntry {
	out := make([]models.RankTableEntry, len(entries))
	copy(out, entries)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Marks < out[j].Marks })
	return out
}
