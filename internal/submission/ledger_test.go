package submission_test

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/classpad/classpad-lms/internal/db"
	"github.com/classpad/classpad-lms/internal/submission"
)

func openSeededDB(t *testing.T) *sql.DB {
	t.Helper()
	dsn := "file:" + filepath.Join(t.TempDir(), "test.db") + "?_pragma=busy_timeout(5000)"
	dbh, err := db.Open(context.Background(), db.DriverSQLite, dsn)
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { _ = dbh.Close() })

	now := time.Now().Unix()
	stmts := []string{
		`INSERT INTO users (id, username, password_hash, role, created_at) VALUES ('t1','t1','x','teacher',` + fmt.Sprint(now) + `)`,
		`INSERT INTO users (id, username, password_hash, role, created_at) VALUES ('s1','s1','x','student',` + fmt.Sprint(now) + `)`,
		`INSERT INTO classes (id, name, code, teacher_id, created_at) VALUES ('c1','Physics','ABCD1234','t1',` + fmt.Sprint(now) + `)`,
		`INSERT INTO class_members (class_id, student_id, joined_at) VALUES ('c1','s1',` + fmt.Sprint(now) + `)`,
		`INSERT INTO assignments (id, class_id, title, description, points, created_at) VALUES ('a1','c1','HW1','',100,` + fmt.Sprint(now) + `)`,
	}
	for _, s := range stmts {
		if _, err := dbh.Exec(s); err != nil {
			t.Fatalf("seed: %v", err)
		}
	}
	return dbh
}

func TestSubmitCreatesRow(t *testing.T) {
	dbh := openSeededDB(t)
	ledger := submission.NewLedger(dbh)
	ctx := context.Background()

	got, err := ledger.Submit(ctx, "a1", "s1", "my answer", nil)
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if got.Body != "my answer" || got.FileKey != nil || got.Grade != nil || got.Feedback != nil {
		t.Fatalf("unexpected submission: %+v", got)
	}
	if got.SubmittedAt == 0 {
		t.Fatal("timestamp not set")
	}
}

func TestResubmitReplacesAndClearsGrade(t *testing.T) {
	dbh := openSeededDB(t)
	ledger := submission.NewLedger(dbh)
	ctx := context.Background()

	if _, err := ledger.Submit(ctx, "a1", "s1", "my answer", nil); err != nil {
		t.Fatalf("Submit: %v", err)
	}
	// grading happens out of band between the two submits
	graded, err := ledger.SetGrade(ctx, "a1", "s1", 87.5, "good start")
	if err != nil {
		t.Fatalf("SetGrade: %v", err)
	}
	if graded.Grade == nil || *graded.Grade != 87.5 || graded.Feedback == nil {
		t.Fatalf("grade not recorded: %+v", graded)
	}

	fileKey := "submissions/a1/deadbeef.pdf"
	got, err := ledger.Submit(ctx, "a1", "s1", "revised", &fileKey)
	if err != nil {
		t.Fatalf("resubmit: %v", err)
	}
	if got.Body != "revised" {
		t.Fatalf("body not replaced: %+v", got)
	}
	if got.FileKey == nil || *got.FileKey != fileKey {
		t.Fatalf("file not replaced: %+v", got)
	}
	if got.Grade != nil || got.Feedback != nil {
		t.Fatalf("resubmission must clear grade and feedback: %+v", got)
	}

	all, err := ledger.ListForAssignment(ctx, "a1")
	if err != nil || len(all) != 1 {
		t.Fatalf("exactly one row expected, got %+v, %v", all, err)
	}
}

func TestSubmitAcceptsEmptySubmission(t *testing.T) {
	dbh := openSeededDB(t)
	ledger := submission.NewLedger(dbh)

	got, err := ledger.Submit(context.Background(), "a1", "s1", "", nil)
	if err != nil {
		t.Fatalf("empty submission should be accepted: %v", err)
	}
	if got.Body != "" || got.FileKey != nil {
		t.Fatalf("unexpected submission: %+v", got)
	}
}

func TestSetGradeMissingSubmission(t *testing.T) {
	dbh := openSeededDB(t)
	ledger := submission.NewLedger(dbh)

	_, err := ledger.SetGrade(context.Background(), "a1", "s1", 50, "")
	if !errors.Is(err, submission.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestConcurrentSubmitsNeverMixFields(t *testing.T) {
	dbh := openSeededDB(t)
	ledger := submission.NewLedger(dbh)
	ctx := context.Background()

	const writers = 8
	var wg sync.WaitGroup
	errs := make([]error, writers)
	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			key := fmt.Sprintf("submissions/a1/key-%d.pdf", i)
			_, errs[i] = ledger.Submit(ctx, "a1", "s1", fmt.Sprintf("body-%d", i), &key)
		}(i)
	}
	wg.Wait()
	for i, err := range errs {
		if err != nil {
			t.Fatalf("writer %d: %v", i, err)
		}
	}

	all, err := ledger.ListForAssignment(ctx, "a1")
	if err != nil {
		t.Fatalf("ListForAssignment: %v", err)
	}
	if len(all) != 1 {
		t.Fatalf("concurrent submits must not create extra rows, got %d", len(all))
	}
	got := all[0]
	if got.FileKey == nil {
		t.Fatalf("file key missing: %+v", got)
	}
	// body and file must come from the same writer
	var n int
	if _, err := fmt.Sscanf(got.Body, "body-%d", &n); err != nil {
		t.Fatalf("unexpected body %q", got.Body)
	}
	if want := fmt.Sprintf("submissions/a1/key-%d.pdf", n); *got.FileKey != want {
		t.Fatalf("fields mixed across writers: body=%q file=%q", got.Body, *got.FileKey)
	}
	if got.Grade != nil || got.Feedback != nil {
		t.Fatalf("grade should be clear: %+v", got)
	}
}
