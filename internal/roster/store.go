// Package roster is the source of truth for classes, membership and
// assignments. Its ownership and membership lookups gate every mutating or
// content-revealing operation elsewhere in the service.
package roster

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	ErrNotFound      = errors.New("not found")
	ErrInvalidCode   = errors.New("invalid class code")
	ErrAlreadyMember = errors.New("already a member of this class")
)

type Store struct{ db *sql.DB }

func NewStore(db *sql.DB) *Store { return &Store{db: db} }

func (s *Store) CreateClass(ctx context.Context, name, teacherID string) (Class, error) {
	c := Class{
		ID:        uuid.NewString(),
		Name:      name,
		Code:      newJoinCode(),
		TeacherID: teacherID,
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO classes (id, name, code, teacher_id, created_at) VALUES ($1,$2,$3,$4,$5)`,
		c.ID, c.Name, c.Code, c.TeacherID, time.Now().Unix())
	if err != nil {
		return Class{}, err
	}
	return c, nil
}

func (s *Store) GetClass(ctx context.Context, id string) (Class, error) {
	var c Class
	err := s.db.QueryRowContext(ctx,
		`SELECT id, name, code, teacher_id FROM classes WHERE id=$1`, id).
		Scan(&c.ID, &c.Name, &c.Code, &c.TeacherID)
	if errors.Is(err, sql.ErrNoRows) {
		return Class{}, ErrNotFound
	}
	return c, err
}

func (s *Store) ListForTeacher(ctx context.Context, teacherID string) ([]Class, error) {
	return s.listClasses(ctx,
		`SELECT id, name, code, teacher_id FROM classes WHERE teacher_id=$1 ORDER BY created_at DESC`,
		teacherID)
}

func (s *Store) ListForStudent(ctx context.Context, studentID string) ([]Class, error) {
	return s.listClasses(ctx,
		`SELECT c.id, c.name, c.code, c.teacher_id
		   FROM classes c
		   JOIN class_members m ON m.class_id=c.id
		  WHERE m.student_id=$1
		  ORDER BY m.joined_at DESC`,
		studentID)
}

func (s *Store) listClasses(ctx context.Context, query string, args ...any) ([]Class, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []Class{}
	for rows.Next() {
		var c Class
		if err := rows.Scan(&c.ID, &c.Name, &c.Code, &c.TeacherID); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// JoinByCode enrolls a student into the class with the given join code.
// Codes are matched case-insensitively. A second join of the same class
// returns ErrAlreadyMember.
func (s *Store) JoinByCode(ctx context.Context, code, studentID string) (Class, error) {
	code = strings.ToUpper(strings.TrimSpace(code))
	var c Class
	err := s.db.QueryRowContext(ctx,
		`SELECT id, name, code, teacher_id FROM classes WHERE code=$1`, code).
		Scan(&c.ID, &c.Name, &c.Code, &c.TeacherID)
	if errors.Is(err, sql.ErrNoRows) {
		return Class{}, ErrInvalidCode
	}
	if err != nil {
		return Class{}, err
	}
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO class_members (class_id, student_id, joined_at) VALUES ($1,$2,$3)
		 ON CONFLICT (class_id, student_id) DO NOTHING`,
		c.ID, studentID, time.Now().Unix())
	if err != nil {
		return Class{}, err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return Class{}, ErrAlreadyMember
	}
	return c, nil
}

func (s *Store) IsTeacherOwner(ctx context.Context, classID, userID string) (bool, error) {
	var ok bool
	err := s.db.QueryRowContext(ctx,
		`SELECT EXISTS(SELECT 1 FROM classes WHERE id=$1 AND teacher_id=$2)`,
		classID, userID).Scan(&ok)
	return ok, err
}

func (s *Store) IsMember(ctx context.Context, classID, userID string) (bool, error) {
	var ok bool
	err := s.db.QueryRowContext(ctx,
		`SELECT EXISTS(SELECT 1 FROM class_members WHERE class_id=$1 AND student_id=$2)`,
		classID, userID).Scan(&ok)
	return ok, err
}

func (s *Store) CreateAssignment(ctx context.Context, classID, title, description string, points int) (Assignment, error) {
	if points <= 0 {
		points = 100
	}
	a := Assignment{
		ID:          uuid.NewString(),
		ClassID:     classID,
		Title:       title,
		Description: description,
		Points:      points,
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO assignments (id, class_id, title, description, points, created_at) VALUES ($1,$2,$3,$4,$5,$6)`,
		a.ID, a.ClassID, a.Title, a.Description, a.Points, time.Now().Unix())
	if err != nil {
		return Assignment{}, err
	}
	return a, nil
}

func (s *Store) GetAssignment(ctx context.Context, id string) (Assignment, error) {
	var a Assignment
	err := s.db.QueryRowContext(ctx,
		`SELECT id, class_id, title, description, points FROM assignments WHERE id=$1`, id).
		Scan(&a.ID, &a.ClassID, &a.Title, &a.Description, &a.Points)
	if errors.Is(err, sql.ErrNoRows) {
		return Assignment{}, ErrNotFound
	}
	return a, err
}

func (s *Store) ListAssignments(ctx context.Context, classID string) ([]Assignment, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, class_id, title, description, points FROM assignments WHERE class_id=$1 ORDER BY created_at, id`,
		classID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []Assignment{}
	for rows.Next() {
		var a Assignment
		if err := rows.Scan(&a.ID, &a.ClassID, &a.Title, &a.Description, &a.Points); err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

func (s *Store) AddFile(ctx context.Context, f StoredFile) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO class_files (key, class_id, display_name, uploaded_by, uploaded_at) VALUES ($1,$2,$3,$4,$5)`,
		f.Key, f.ClassID, f.DisplayName, f.UploadedBy, f.UploadedAt)
	return err
}

func (s *Store) ListFiles(ctx context.Context, classID string) ([]StoredFile, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT key, class_id, display_name, uploaded_by, uploaded_at FROM class_files WHERE class_id=$1 ORDER BY uploaded_at, key`,
		classID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []StoredFile{}
	for rows.Next() {
		var f StoredFile
		if err := rows.Scan(&f.Key, &f.ClassID, &f.DisplayName, &f.UploadedBy, &f.UploadedAt); err != nil {
			return nil, err
		}
		out = append(out, f)
	}
	return out, rows.Err()
}

// newJoinCode returns a short uppercase code, unique enough for invites.
func newJoinCode() string {
	return strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:8])
}
