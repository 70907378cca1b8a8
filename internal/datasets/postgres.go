package datasets

import (
	"context"
	"database/sql"
	"fmt"
	"regexp"

	"github.com/lib/pq"

	"college-advisor/internal/models"
)

var tableNamePattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

func quoteTable(name string) (string, error) {
	if !tableNamePattern.MatchString(name) {
		return "", fmt.Errorf("invalid seat table name %q", name)
	}
	return pq.QuoteIdentifier(name), nil
}

// EnsureSeatSchema creates the seat allocation table when it does not exist.
// Ranks are stored as their display strings so records round-trip unchanged.
func EnsureSeatSchema(ctx context.Context, db *sql.DB, table string) error {
	quoted, err := quoteTable(table)
	if err != nil {
		return err
	}
	_, err = db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS `+quoted+` (
			exam                  TEXT    NOT NULL,
			position              INTEGER NOT NULL,
			institute             TEXT    NOT NULL DEFAULT '',
			academic_program_name TEXT    NOT NULL DEFAULT '',
			gender                TEXT    NOT NULL DEFAULT '',
			opening_rank          TEXT    NOT NULL DEFAULT '',
			closing_rank          TEXT    NOT NULL DEFAULT '',
			PRIMARY KEY (exam, position)
		)`)
	if err != nil {
		return fmt.Errorf("create seat table: %w", err)
	}
	return nil
}

// LoadSeatTableFromDB reads one exam's seat table in import order.
func LoadSeatTableFromDB(ctx context.Context, db *sql.DB, table string, exam models.Exam) ([]models.SeatRecord, error) {
	if db == nil {
		return nil, fmt.Errorf("%w: no database connection", ErrSeatTableUnavailable)
	}
	quoted, err := quoteTable(table)
	if err != nil {
		return nil, err
	}

	rows, err := db.QueryContext(ctx, `
		SELECT institute, academic_program_name, gender, opening_rank, closing_rank
		FROM `+quoted+`
		WHERE exam = $1
		ORDER BY position`, exam.TableKey())
	if err != nil {
		return nil, fmt.Errorf("%w: query %s: %v", ErrSeatTableUnavailable, table, err)
	}
	defer rows.Close()

	var seats []models.SeatRecord
	for rows.Next() {
		var s models.SeatRecord
		if err := rows.Scan(&s.Institute, &s.Program, &s.Gender, &s.OpeningRank, &s.ClosingRank); err != nil {
			return nil, fmt.Errorf("%w: scan %s: %v", ErrSeatTableUnavailable, table, err)
		}
		seats = append(seats, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: read %s: %v", ErrSeatTableUnavailable, table, err)
	}
	return seats, nil
}

// ImportSeatTable replaces one exam's rows with records inside a single transaction.
func ImportSeatTable(ctx context.Context, db *sql.DB, table string, exam models.Exam, records []models.SeatRecord) (int, error) {
	quoted, err := quoteTable(table)
	if err != nil {
		return 0, err
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin import: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `DELETE FROM `+quoted+` WHERE exam = $1`, exam.TableKey()); err != nil {
		return 0, fmt.Errorf("clear %s seats: %w", exam.TableKey(), err)
	}

	insert := `INSERT INTO ` + quoted + ` (exam, position, institute, academic_program_name, gender, opening_rank, closing_rank)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`
	for i, r := range records {
		if _, err := tx.ExecContext(ctx, insert,
			exam.TableKey(), i, r.Institute, r.Program, r.Gender, r.OpeningRank, r.ClosingRank,
		); err != nil {
			return 0, fmt.Errorf("insert seat %d: %w", i, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit import: %w", err)
	}
	return len(records), nil
}
