package roster_test

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/classpad/classpad-lms/internal/db"
	"github.com/classpad/classpad-lms/internal/roster"
)

func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	dsn := "file:" + filepath.Join(t.TempDir(), "test.db") + "?_pragma=busy_timeout(5000)"
	dbh, err := db.Open(context.Background(), db.DriverSQLite, dsn)
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { _ = dbh.Close() })
	return dbh
}

func seedUser(t *testing.T, dbh *sql.DB, id, role string) {
	t.Helper()
	_, err := dbh.Exec(`INSERT INTO users (id, username, password_hash, role, created_at) VALUES ($1,$2,'x',$3,$4)`,
		id, id, role, time.Now().Unix())
	if err != nil {
		t.Fatalf("seed user %s: %v", id, err)
	}
}

func TestCreateClassAndOwnership(t *testing.T) {
	dbh := openTestDB(t)
	store := roster.NewStore(dbh)
	ctx := context.Background()
	seedUser(t, dbh, "t1", "teacher")

	c, err := store.CreateClass(ctx, "Physics 101", "t1")
	if err != nil {
		t.Fatalf("CreateClass: %v", err)
	}
	if len(c.Code) != 8 || c.Code != strings.ToUpper(c.Code) {
		t.Fatalf("join code should be 8 uppercase chars, got %q", c.Code)
	}
	if ok, _ := store.IsTeacherOwner(ctx, c.ID, "t1"); !ok {
		t.Fatal("creator should own the class")
	}
	if ok, _ := store.IsTeacherOwner(ctx, c.ID, "t2"); ok {
		t.Fatal("stranger should not own the class")
	}
	got, err := store.GetClass(ctx, c.ID)
	if err != nil || got.Name != "Physics 101" {
		t.Fatalf("GetClass: %+v, %v", got, err)
	}
}

func TestJoinByCode(t *testing.T) {
	dbh := openTestDB(t)
	store := roster.NewStore(dbh)
	ctx := context.Background()
	seedUser(t, dbh, "t1", "teacher")
	seedUser(t, dbh, "s1", "student")

	c, err := store.CreateClass(ctx, "Chem", "t1")
	if err != nil {
		t.Fatalf("CreateClass: %v", err)
	}

	// codes match case-insensitively
	joined, err := store.JoinByCode(ctx, strings.ToLower(c.Code), "s1")
	if err != nil {
		t.Fatalf("JoinByCode: %v", err)
	}
	if joined.ID != c.ID {
		t.Fatalf("joined wrong class: %+v", joined)
	}
	if ok, _ := store.IsMember(ctx, c.ID, "s1"); !ok {
		t.Fatal("student should be a member after joining")
	}

	if _, err := store.JoinByCode(ctx, c.Code, "s1"); !errors.Is(err, roster.ErrAlreadyMember) {
		t.Fatalf("second join should conflict, got %v", err)
	}
	if _, err := store.JoinByCode(ctx, "NOPE1234", "s1"); !errors.Is(err, roster.ErrInvalidCode) {
		t.Fatalf("bad code should be rejected, got %v", err)
	}

	mine, err := store.ListForStudent(ctx, "s1")
	if err != nil || len(mine) != 1 || mine[0].ID != c.ID {
		t.Fatalf("ListForStudent: %+v, %v", mine, err)
	}
	owned, err := store.ListForTeacher(ctx, "t1")
	if err != nil || len(owned) != 1 {
		t.Fatalf("ListForTeacher: %+v, %v", owned, err)
	}
}

func TestAssignments(t *testing.T) {
	dbh := openTestDB(t)
	store := roster.NewStore(dbh)
	ctx := context.Background()
	seedUser(t, dbh, "t1", "teacher")
	c, _ := store.CreateClass(ctx, "Bio", "t1")

	a, err := store.CreateAssignment(ctx, c.ID, "Homework 1", "read ch. 2", 0)
	if err != nil {
		t.Fatalf("CreateAssignment: %v", err)
	}
	if a.Points != 100 {
		t.Fatalf("points should default to 100, got %d", a.Points)
	}
	got, err := store.GetAssignment(ctx, a.ID)
	if err != nil || got.ClassID != c.ID {
		t.Fatalf("GetAssignment: %+v, %v", got, err)
	}
	if _, err := store.GetAssignment(ctx, "missing"); !errors.Is(err, roster.ErrNotFound) {
		t.Fatalf("missing assignment: %v", err)
	}
	all, err := store.ListAssignments(ctx, c.ID)
	if err != nil || len(all) != 1 {
		t.Fatalf("ListAssignments: %+v, %v", all, err)
	}
}

func TestClassFiles(t *testing.T) {
	dbh := openTestDB(t)
	store := roster.NewStore(dbh)
	ctx := context.Background()
	seedUser(t, dbh, "t1", "teacher")
	c, _ := store.CreateClass(ctx, "Math", "t1")

	for i, f := range []roster.StoredFile{
		{Key: "classes/" + c.ID + "/aaa.pdf", ClassID: c.ID, DisplayName: "week1.pdf", UploadedBy: "t1"},
		{Key: "classes/" + c.ID + "/bbb.txt", ClassID: c.ID, DisplayName: "week2.txt", UploadedBy: "t1"},
	} {
		f.UploadedAt = int64(1000 + i)
		if err := store.AddFile(ctx, f); err != nil {
			t.Fatalf("AddFile: %v", err)
		}
	}
	files, err := store.ListFiles(ctx, c.ID)
	if err != nil {
		t.Fatalf("ListFiles: %v", err)
	}
	if len(files) != 2 || files[0].DisplayName != "week1.pdf" || files[1].DisplayName != "week2.txt" {
		t.Fatalf("unexpected listing: %+v", files)
	}
}
