// Package submission keeps one submission row per (assignment, student).
// Resubmitting replaces the row in a single upsert statement so concurrent
// submits by the same student can never interleave fields.
package submission

import (
	"context"
	"database/sql"
	"errors"
	"time"
)

var ErrNotFound = errors.New("submission not found")

type Submission struct {
	AssignmentID string   `json:"assignment_id"`
	StudentID    string   `json:"student_id"`
	Body         string   `json:"body"`
	FileKey      *string  `json:"file_key,omitempty"`
	Grade        *float64 `json:"grade,omitempty"`
	Feedback     *string  `json:"feedback,omitempty"`
	SubmittedAt  int64    `json:"submitted_at"`
}

type Ledger struct{ db *sql.DB }

func NewLedger(db *sql.DB) *Ledger { return &Ledger{db: db} }

// Submit creates or replaces the submission for (assignmentID, studentID).
// A replacement overwrites body and file together, clears any prior grade
// and feedback, and refreshes the timestamp. An empty body with no file is
// accepted.
func (l *Ledger) Submit(ctx context.Context, assignmentID, studentID, body string, fileKey *string) (Submission, error) {
	now := time.Now().Unix()
	_, err := l.db.ExecContext(ctx, `
		INSERT INTO submissions (assignment_id, student_id, body, file_key, grade, feedback, submitted_at)
		VALUES ($1,$2,$3,$4,NULL,NULL,$5)
		ON CONFLICT (assignment_id, student_id) DO UPDATE SET
			body=excluded.body, file_key=excluded.file_key, submitted_at=excluded.submitted_at,
			grade=NULL, feedback=NULL`,
		assignmentID, studentID, body, fileKey, now)
	if err != nil {
		return Submission{}, err
	}
	return l.Get(ctx, assignmentID, studentID)
}

func (l *Ledger) Get(ctx context.Context, assignmentID, studentID string) (Submission, error) {
	row := l.db.QueryRowContext(ctx, `
		SELECT assignment_id, student_id, body, file_key, grade, feedback, submitted_at
		  FROM submissions WHERE assignment_id=$1 AND student_id=$2`,
		assignmentID, studentID)
	return scanSubmission(row)
}

func (l *Ledger) ListForAssignment(ctx context.Context, assignmentID string) ([]Submission, error) {
	rows, err := l.db.QueryContext(ctx, `
		SELECT assignment_id, student_id, body, file_key, grade, feedback, submitted_at
		  FROM submissions WHERE assignment_id=$1 ORDER BY submitted_at, student_id`,
		assignmentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []Submission{}
	for rows.Next() {
		s, err := scanSubmission(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// SetGrade records an out-of-band grade. It touches only grade and feedback;
// a later resubmission clears both again.
func (l *Ledger) SetGrade(ctx context.Context, assignmentID, studentID string, grade float64, feedback string) (Submission, error) {
	res, err := l.db.ExecContext(ctx,
		`UPDATE submissions SET grade=$1, feedback=$2 WHERE assignment_id=$3 AND student_id=$4`,
		grade, feedback, assignmentID, studentID)
	if err != nil {
		return Submission{}, err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return Submission{}, ErrNotFound
	}
	return l.Get(ctx, assignmentID, studentID)
}

type rowScanner interface{ Scan(dest ...any) error }

func scanSubmission(row rowScanner) (Submission, error) {
	var s Submission
	var fileKey, feedback sql.NullString
	var grade sql.NullFloat64
	err := row.Scan(&s.AssignmentID, &s.StudentID, &s.Body, &fileKey, &grade, &feedback, &s.SubmittedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return Submission{}, ErrNotFound
	}
	if err != nil {
		return Submission{}, err
	}
	if fileKey.Valid {
		s.FileKey = &fileKey.String
	}
	if grade.Valid {
		s.Grade = &grade.Float64
	}
	if feedback.Valid {
		s.Feedback = &feedback.String
	}
	return s, nil
}
