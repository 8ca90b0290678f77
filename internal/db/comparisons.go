package db

import (
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"jsoncompare/internal/compare"
	"jsoncompare/internal/tree"
)

const (
	StatusQueued    = "queued"
	StatusRunning   = "running"
	StatusCompleted = "completed"
	StatusFailed    = "failed"
)

var ErrComparisonNotFound = errors.New("comparison not found")

// Comparison is a stored comparison of two documents. A nil score on a
// completed comparison means both documents were empty.
type Comparison struct {
	ID               string     `db:"id" json:"id"`
	LeftDocumentID   int64      `db:"left_document_id" json:"left_document_id"`
	RightDocumentID  int64      `db:"right_document_id" json:"right_document_id"`
	Mode             string     `db:"mode" json:"mode"`
	Status           string     `db:"status" json:"status"`
	TaskID           *string    `db:"task_id" json:"task_id,omitempty"`
	RequestedBy      *string    `db:"requested_by" json:"requested_by,omitempty"`
	StructureMatched *int       `db:"structure_matched" json:"structure_matched,omitempty"`
	StructureTotal   *int       `db:"structure_total" json:"structure_total,omitempty"`
	StructureScore   *float64   `db:"structure_score" json:"structure_score"`
	ContentMatched   *int       `db:"content_matched" json:"content_matched,omitempty"`
	ContentTotal     *int       `db:"content_total" json:"content_total,omitempty"`
	ContentScore     *float64   `db:"content_score" json:"content_score"`
	Error            *string    `db:"error" json:"error,omitempty"`
	CreatedAt        time.Time  `db:"created_at" json:"created_at"`
	CompletedAt      *time.Time `db:"completed_at" json:"completed_at,omitempty"`
}

// MismatchRecord is one stored mismatch. Values are JSON literals; nil
// means the path was absent from that document.
type MismatchRecord struct {
	ID           int64   `db:"id" json:"id"`
	ComparisonID string  `db:"comparison_id" json:"comparison_id"`
	Mode         string  `db:"mode" json:"mode"`
	Position     int     `db:"position" json:"position"`
	Path         string  `db:"path" json:"path"`
	LeftValue    *string `db:"left_value" json:"left_value"`
	RightValue   *string `db:"right_value" json:"right_value"`
}

type MismatchFilter struct {
	ComparisonID string
	Mode         string
	PathContains string
	Limit        int
	Offset       int
}

const comparisonColumns = `
	id, left_document_id, right_document_id, mode, status, task_id, requested_by,
	structure_matched, structure_total, structure_score,
	content_matched, content_total, content_score,
	error, created_at, completed_at`

func CreateComparison(c *Comparison) error {
	if c.Status == "" {
		c.Status = StatusQueued
	}
	err := DB.QueryRow(`
		INSERT INTO comparisons (id, left_document_id, right_document_id, mode, status, requested_by)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING created_at
	`, c.ID, c.LeftDocumentID, c.RightDocumentID, c.Mode, c.Status, c.RequestedBy).Scan(&c.CreatedAt)
	if err != nil {
		return fmt.Errorf("create comparison: %w", err)
	}
	return nil
}

func GetComparison(id string) (*Comparison, error) {
	var c Comparison
	err := DB.Get(&c, `SELECT `+comparisonColumns+` FROM comparisons WHERE id = $1`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrComparisonNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get comparison %s: %w", id, err)
	}
	return &c, nil
}

func SetComparisonTask(id, taskID string) error {
	return updateComparison(`UPDATE comparisons SET task_id = $2 WHERE id = $1`, id, taskID)
}

func MarkComparisonRunning(id string) error {
	return updateComparison(`UPDATE comparisons SET status = $2, error = NULL WHERE id = $1`, id, StatusRunning)
}

func FailComparison(id, reason string) error {
	return updateComparison(`
		UPDATE comparisons
		SET status = $2, error = $3, completed_at = NOW()
		WHERE id = $1
	`, id, StatusFailed, reason)
}

func updateComparison(query, id string, args ...interface{}) error {
	result, err := DB.Exec(query, append([]interface{}{id}, args...)...)
	if err != nil {
		return fmt.Errorf("update comparison %s: %w", id, err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("update comparison rows affected: %w", err)
	}
	if rows == 0 {
		return ErrComparisonNotFound
	}
	return nil
}

// CompleteComparison replaces the comparison's mismatches with those in
// results and records each mode's counts and score in one transaction.
func CompleteComparison(id string, results []*compare.Result) (err error) {
	tx, err := DB.Beginx()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if err != nil {
			tx.Rollback()
		}
	}()

	if _, err = tx.Exec(`DELETE FROM mismatches WHERE comparison_id = $1`, id); err != nil {
		return fmt.Errorf("failed to clear mismatches: %w", err)
	}

	stmt, err := tx.Prepare(`
		INSERT INTO mismatches (comparison_id, mode, position, path, left_value, right_value)
		VALUES ($1, $2, $3, $4, $5, $6)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare insert statement: %w", err)
	}
	defer stmt.Close()

	sets := []string{"status = $2", "error = NULL", "completed_at = NOW()"}
	args := []interface{}{id, StatusCompleted}

	for _, res := range results {
		for i, m := range res.Mismatches {
			if _, err = stmt.Exec(id, string(res.Mode), i, m.Path, literal(m.Left), literal(m.Right)); err != nil {
				return fmt.Errorf("failed to insert mismatch %d: %w", i, err)
			}
		}

		var score *float64
		if s, scoreErr := res.Score(); scoreErr == nil {
			score = &s
		}
		prefix := string(res.Mode)
		sets = append(sets,
			fmt.Sprintf("%s_matched = $%d", prefix, len(args)+1),
			fmt.Sprintf("%s_total = $%d", prefix, len(args)+2),
			fmt.Sprintf("%s_score = $%d", prefix, len(args)+3),
		)
		args = append(args, res.Matched, res.Total, score)
	}

	query := fmt.Sprintf(`UPDATE comparisons SET %s WHERE id = $1`, strings.Join(sets, ", "))
	if _, err = tx.Exec(query, args...); err != nil {
		return fmt.Errorf("failed to update comparison: %w", err)
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit comparison transaction: %w", err)
	}

	slog.Info("Successfully stored comparison results", "comparison_id", id, "modes", len(results))
	return nil
}

func literal(v *tree.Scalar) *string {
	if v == nil {
		return nil
	}
	s := v.JSON()
	return &s
}

// GetMismatches returns one page of a comparison's mismatches and the total
// number matching the filter.
func GetMismatches(filter MismatchFilter) ([]MismatchRecord, int, error) {
	conditions := []string{"comparison_id = $1"}
	args := []interface{}{filter.ComparisonID}

	if filter.Mode != "" {
		args = append(args, filter.Mode)
		conditions = append(conditions, fmt.Sprintf("mode = $%d", len(args)))
	}

	// Literal substring match: "_" and "%" are common in JSON keys.
	if filter.PathContains != "" {
		args = append(args, filter.PathContains)
		conditions = append(conditions, fmt.Sprintf("strpos(path, $%d) > 0", len(args)))
	}

	whereClause := strings.Join(conditions, " AND ")

	var total int
	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM mismatches WHERE %s", whereClause)
	if err := DB.Get(&total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("failed to get count: %w", err)
	}

	query := fmt.Sprintf(`
		SELECT id, comparison_id, mode, position, path, left_value, right_value
		FROM mismatches
		WHERE %s
		ORDER BY mode, position
		LIMIT $%d OFFSET $%d
	`, whereClause, len(args)+1, len(args)+2)
	args = append(args, filter.Limit, filter.Offset)

	records := make([]MismatchRecord, 0)
	if err := DB.Select(&records, query, args...); err != nil {
		return nil, 0, fmt.Errorf("failed to query mismatches: %w", err)
	}

	return records, total, nil
}
